package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/oauth2"

	"github.com/AndreasSchmid1988/workpro-frontend/client/auth/store"
	"github.com/AndreasSchmid1988/workpro-frontend/client/auth/transport"
	"github.com/AndreasSchmid1988/workpro-frontend/internal/logger"
)

// APIPrefix is prepended to every resource path.
const APIPrefix = "/api/v1"

// Client sends requests to the REST API. Authorization and token refresh are
// handled by the http.Client transport; Client only checks that a session
// exists before calling an authenticated endpoint.
type Client struct {
	baseURL    string
	httpClient *http.Client
	store      store.Store
	notifier   Notifier
}

// New creates a client for baseURL. Without WithHTTPClient the client uses a
// transport.RoundTripper over the configured store.
func New(baseURL string, options ...Option) *Client {
	ret := &Client{
		baseURL:  strings.TrimRight(baseURL, "/"),
		notifier: NewLogNotifier(),
	}
	for _, opt := range options {
		opt(ret)
	}
	if ret.store == nil {
		ret.store = store.NewMemoryStore()
	}
	if ret.httpClient == nil {
		ret.httpClient = &http.Client{Transport: transport.New(transport.WithStore(ret.store))}
	}
	return ret
}

func (c *Client) BaseURL() string {
	return c.baseURL
}

func (c *Client) Notifier() Notifier {
	return c.notifier
}

// request describes one API call.
type request struct {
	method string
	path   string
	query  url.Values
	body   any
	// raw body with its content type, used instead of body for multipart uploads
	raw         io.Reader
	contentType string
	public      bool
}

func (c *Client) endpoint(path string, query url.Values) string {
	URL := c.baseURL + path
	if len(query) > 0 {
		URL += "?" + query.Encode()
	}
	return URL
}

// do sends r and returns the response of a successful (2xx/3xx) call.
// The caller closes the body.
func (c *Client) do(ctx context.Context, r *request) (*http.Response, error) {
	if r.public {
		ctx = transport.WithoutAuthorization(ctx)
	} else if err := c.checkSession(ctx); err != nil {
		return nil, err
	}

	var body io.Reader
	contentType := r.contentType
	switch {
	case r.raw != nil:
		body = r.raw
	case r.body != nil:
		data, err := json.Marshal(r.body)
		if err != nil {
			return nil, fmt.Errorf("failed to encode %v %v request: %w", r.method, r.path, err)
		}
		body = bytes.NewReader(data)
		contentType = "application/json"
	}

	req, err := http.NewRequestWithContext(ctx, r.method, c.endpoint(r.path, r.query), body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, transportError(err)
	}
	if resp.StatusCode >= http.StatusBadRequest {
		defer resp.Body.Close()
		data, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
		apiErr := responseError(resp.StatusCode, data)
		logger.Log(ctx).Debug(ctx, "api call failed",
			zap.String("method", r.method), zap.String("path", r.path), zap.Int("status", resp.StatusCode))
		return nil, apiErr
	}
	return resp, nil
}

// checkSession fails with KindUnauthorized without an access token and with
// KindNetwork when the token store cannot be read.
func (c *Client) checkSession(ctx context.Context) error {
	var token *oauth2.Token
	if lookuper, ok := c.store.(store.Lookuper); ok {
		var err error
		if token, err = lookuper.Lookup(ctx); err != nil {
			logger.Log(ctx).Error(ctx, "failed to read token store", zap.Error(err))
			return &Error{Kind: KindNetwork, Message: "token store unavailable", Err: err}
		}
	} else {
		token, _ = c.store.LookupToken(ctx)
	}
	if token == nil || token.AccessToken == "" {
		return &Error{Kind: KindUnauthorized, Message: "no active session"}
	}
	return nil
}

// send performs r and decodes the JSON response into R.
// An empty body yields a zero R.
func send[R any](ctx context.Context, c *Client, r *request) (*R, error) {
	resp, err := c.do(ctx, r)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var result R
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &Error{Kind: KindNetwork, Message: "failed to read response", Err: err}
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return &result, nil
	}
	if err = json.Unmarshal(data, &result); err != nil {
		return nil, fmt.Errorf("failed to decode %v %v response: %w", r.method, r.path, err)
	}
	return &result, nil
}

// transportError classifies a failed round trip.
func transportError(err error) error {
	if errors.Is(err, transport.ErrSessionExpired) {
		return &Error{Kind: KindUnauthorized, Message: "session expired", Err: err}
	}
	return &Error{Kind: KindNetwork, Message: "request failed", Err: err}
}
