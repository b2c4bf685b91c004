package transport

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/oauth2"

	"github.com/AndreasSchmid1988/workpro-frontend/client/auth/store"
	"github.com/AndreasSchmid1988/workpro-frontend/internal/logger"
	"github.com/AndreasSchmid1988/workpro-frontend/internal/redact"
	"github.com/AndreasSchmid1988/workpro-frontend/metrics"
)

// RequestIDHeader carries the request identifier to the API.
const RequestIDHeader = "X-Request-ID"

var (
	// ErrSessionExpired is returned when a 401 could not be recovered by a refresh.
	// The token pair has been cleared by the time it is returned.
	ErrSessionExpired = errors.New("session expired")
	// ErrNoSession is wrapped into ErrSessionExpired when the pair vanished while waiting to refresh.
	ErrNoSession = errors.New("no session")
)

// Refresher exchanges a refresh token for a new pair.
type Refresher interface {
	Refresh(ctx context.Context, refreshToken string) (*oauth2.Token, error)
}

// LogoutHandler is invoked after an irrecoverable refresh failure.
type LogoutHandler func(ctx context.Context)

// RoundTripper attaches the stored bearer token to every request and, on 401,
// refreshes the pair once and replays the original request.
type RoundTripper struct {
	store     store.Store
	refresher Refresher
	transport http.RoundTripper
	metrics   *metrics.Metrics
	onLogout  LogoutHandler
	mux       sync.Mutex
}

func New(options ...Option) *RoundTripper {
	ret := &RoundTripper{
		transport: http.DefaultTransport,
		store:     store.NewMemoryStore(),
	}
	for _, opt := range options {
		opt(ret)
	}
	return ret
}

func (r *RoundTripper) Store() store.Store {
	return r.store
}

func (r *RoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	ctx := req.Context()
	if req.Body != nil {
		defer func() { _ = req.Body.Close() }()
	}
	requestID := req.Header.Get(RequestIDHeader)
	if requestID == "" {
		requestID, _ = logger.GetRequestID(ctx)
	}
	if requestID == "" {
		requestID = logger.GenerateRequestID()
	}

	if skipAuthorization(ctx) {
		attempt, err := clone(ctx, req)
		if err != nil {
			return nil, err
		}
		attempt.Header.Set(RequestIDHeader, requestID)
		return r.send(attempt)
	}

	// 1) Send with whatever pair is current.
	token, _ := r.store.LookupToken(ctx)
	attempt, err := clone(ctx, req)
	if err != nil {
		return nil, err
	}
	attempt.Header.Set(RequestIDHeader, requestID)
	authorize(attempt, token)
	resp, err := r.send(attempt)
	if err != nil {
		return nil, err
	}

	// 2) Anything but a first 401 with a refresh token is final.
	if resp.StatusCode != http.StatusUnauthorized || IsRetried(ctx) || r.refresher == nil ||
		token == nil || token.RefreshToken == "" {
		return resp, nil
	}
	drain(resp)

	// 3) Refresh, then replay exactly once.
	fresh, err := r.refresh(ctx, token)
	if err != nil {
		return nil, err
	}
	retryCtx := MarkRetried(ctx)
	retry, err := clone(retryCtx, req)
	if err != nil {
		return nil, err
	}
	retry.Header.Set(RequestIDHeader, requestID)
	authorize(retry, fresh)
	r.metrics.ObserveRetry()
	logger.Log(ctx).Debug(ctx, "replaying request after token refresh",
		zap.String("method", req.Method), zap.String("url", req.URL.Path), zap.String(logger.RequestID, requestID))
	return r.send(retry)
}

// refresh serializes refreshes; a caller that waited behind a successful
// refresh reuses its pair instead of refreshing again.
func (r *RoundTripper) refresh(ctx context.Context, stale *oauth2.Token) (*oauth2.Token, error) {
	r.mux.Lock()
	defer r.mux.Unlock()

	current, ok := r.store.LookupToken(ctx)
	if !ok || current.RefreshToken == "" {
		r.metrics.ObserveRefresh(metrics.RefreshFailure)
		return nil, fmt.Errorf("%w: %w", ErrSessionExpired, ErrNoSession)
	}
	if current.AccessToken != stale.AccessToken {
		r.metrics.ObserveRefresh(metrics.RefreshReused)
		return current, nil
	}

	refreshed, err := r.refresher.Refresh(ctx, current.RefreshToken)
	if err != nil {
		r.metrics.ObserveRefresh(metrics.RefreshFailure)
		logger.Log(ctx).Warn(ctx, "token refresh failed, logging out",
			zap.String("refreshToken", redact.Token(current.RefreshToken)), zap.Error(err))
		if rErr := r.store.RemoveToken(ctx); rErr != nil {
			logger.Log(ctx).Error(ctx, "failed to clear tokens", zap.Error(rErr))
		}
		if r.onLogout != nil {
			r.onLogout(ctx)
		}
		return nil, fmt.Errorf("%w: %w", ErrSessionExpired, err)
	}
	// preserve refresh token if provider omitted it
	if refreshed.RefreshToken == "" {
		refreshed.RefreshToken = current.RefreshToken
	}
	if err = r.store.AddToken(ctx, refreshed); err != nil {
		r.metrics.ObserveRefresh(metrics.RefreshFailure)
		return nil, fmt.Errorf("failed to store refreshed token: %w", err)
	}
	r.metrics.ObserveRefresh(metrics.RefreshSuccess)
	return refreshed, nil
}

func (r *RoundTripper) send(req *http.Request) (*http.Response, error) {
	started := time.Now()
	resp, err := r.transport.RoundTrip(req)
	if err != nil {
		r.metrics.ObserveRequest(req.Method, 0, started)
		return nil, err
	}
	r.metrics.ObserveRequest(req.Method, resp.StatusCode, started)
	return resp, nil
}

func authorize(req *http.Request, token *oauth2.Token) {
	if token == nil || token.AccessToken == "" {
		req.Header.Del("Authorization")
		return
	}
	req.Header.Set("Authorization", "Bearer "+token.AccessToken)
}

// drain closes the prior body so we don't leak the connection.
func drain(resp *http.Response) {
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 64<<10))
	_ = resp.Body.Close()
}
