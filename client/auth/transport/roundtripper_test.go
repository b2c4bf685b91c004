package transport

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"

	"github.com/AndreasSchmid1988/workpro-frontend/client/auth/store"
	"github.com/AndreasSchmid1988/workpro-frontend/metrics"
)

type fakeRefresher struct {
	calls atomic.Int32
	token *oauth2.Token
	err   error
}

func (f *fakeRefresher) Refresh(_ context.Context, refreshToken string) (*oauth2.Token, error) {
	f.calls.Add(1)
	if f.err != nil {
		return nil, f.err
	}
	if refreshToken != "r1" {
		return nil, errors.New("unexpected refresh token " + refreshToken)
	}
	return f.token, nil
}

// resourceServer accepts only the given bearer token and echoes the body.
func resourceServer(t *testing.T, valid string) (*httptest.Server, *atomic.Int32) {
	t.Helper()
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		if r.Header.Get("Authorization") != "Bearer "+valid {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		body, _ := io.ReadAll(r.Body)
		w.Header().Set("X-Echo-Request-ID", r.Header.Get(RequestIDHeader))
		_, _ = w.Write(body)
	}))
	t.Cleanup(srv.Close)
	return srv, &hits
}

func seededStore(t *testing.T, access, refresh string) store.Store {
	t.Helper()
	s := store.NewMemoryStore()
	require.NoError(t, s.AddToken(context.Background(), &oauth2.Token{AccessToken: access, RefreshToken: refresh}))
	return s
}

func TestRoundTripper_AttachesBearer(t *testing.T) {
	srv, hits := resourceServer(t, "a1")
	rt := New(WithStore(seededStore(t, "a1", "r1")))

	resp, err := (&http.Client{Transport: rt}).Get(srv.URL)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.NotEmpty(t, resp.Header.Get("X-Echo-Request-ID"))
	assert.EqualValues(t, 1, hits.Load())
}

func TestRoundTripper_RefreshAndRetryOnce(t *testing.T) {
	srv, hits := resourceServer(t, "a2")
	s := seededStore(t, "a1", "r1")
	refresher := &fakeRefresher{token: &oauth2.Token{AccessToken: "a2", RefreshToken: "r2"}}
	reg := prometheus.NewRegistry()
	m := metrics.New(reg, "test")
	rt := New(WithStore(s), WithRefresher(refresher), WithMetrics(m))

	req, err := http.NewRequest(http.MethodPost, srv.URL, strings.NewReader(`{"name":"ACME"}`))
	require.NoError(t, err)
	resp, err := (&http.Client{Transport: rt}).Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, `{"name":"ACME"}`, string(body))
	assert.EqualValues(t, 1, refresher.calls.Load())
	assert.EqualValues(t, 2, hits.Load())

	token, ok := s.LookupToken(context.Background())
	require.True(t, ok)
	assert.Equal(t, "a2", token.AccessToken)
	assert.Equal(t, "r2", token.RefreshToken)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.Refreshes.WithLabelValues(metrics.RefreshSuccess)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Retries))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Requests.WithLabelValues(http.MethodPost, "401")))
}

func TestRoundTripper_KeepsRefreshTokenWhenOmitted(t *testing.T) {
	srv, _ := resourceServer(t, "a2")
	s := seededStore(t, "a1", "r1")
	rt := New(WithStore(s), WithRefresher(&fakeRefresher{token: &oauth2.Token{AccessToken: "a2"}}))

	resp, err := (&http.Client{Transport: rt}).Get(srv.URL)
	require.NoError(t, err)
	resp.Body.Close()

	token, _ := s.LookupToken(context.Background())
	assert.Equal(t, "r1", token.RefreshToken)
}

func TestRoundTripper_RetriedRequestIsNotRefreshed(t *testing.T) {
	srv, hits := resourceServer(t, "a2")
	refresher := &fakeRefresher{token: &oauth2.Token{AccessToken: "a2", RefreshToken: "r2"}}
	rt := New(WithStore(seededStore(t, "a1", "r1")), WithRefresher(refresher))

	req, err := http.NewRequestWithContext(MarkRetried(context.Background()), http.MethodGet, srv.URL, nil)
	require.NoError(t, err)
	resp, err := (&http.Client{Transport: rt}).Do(req)
	require.NoError(t, err)
	resp.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.EqualValues(t, 0, refresher.calls.Load())
	assert.EqualValues(t, 1, hits.Load())
}

func TestRoundTripper_SecondUnauthorizedIsSurfaced(t *testing.T) {
	srv, hits := resourceServer(t, "never")
	refresher := &fakeRefresher{token: &oauth2.Token{AccessToken: "a2", RefreshToken: "r2"}}
	rt := New(WithStore(seededStore(t, "a1", "r1")), WithRefresher(refresher))

	resp, err := (&http.Client{Transport: rt}).Get(srv.URL)
	require.NoError(t, err)
	resp.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.EqualValues(t, 1, refresher.calls.Load())
	assert.EqualValues(t, 2, hits.Load())
}

func TestRoundTripper_RefreshFailureLogsOut(t *testing.T) {
	srv, hits := resourceServer(t, "a2")
	s := seededStore(t, "a1", "r1")
	refresher := &fakeRefresher{err: errors.New("invalid_grant")}
	var loggedOut atomic.Int32
	rt := New(WithStore(s), WithRefresher(refresher), WithLogoutHandler(func(context.Context) {
		loggedOut.Add(1)
	}))

	_, err := (&http.Client{Transport: rt}).Get(srv.URL)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrSessionExpired)
	assert.EqualValues(t, 1, loggedOut.Load())
	assert.EqualValues(t, 1, hits.Load())

	_, ok := s.LookupToken(context.Background())
	assert.False(t, ok)
}

func TestRoundTripper_NoRefreshToken(t *testing.T) {
	srv, _ := resourceServer(t, "a2")
	refresher := &fakeRefresher{token: &oauth2.Token{AccessToken: "a2"}}
	rt := New(WithStore(seededStore(t, "a1", "")), WithRefresher(refresher))

	resp, err := (&http.Client{Transport: rt}).Get(srv.URL)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.EqualValues(t, 0, refresher.calls.Load())
}

func TestRoundTripper_ConcurrentUnauthorizedRefreshesOnce(t *testing.T) {
	srv, _ := resourceServer(t, "a2")
	s := seededStore(t, "a1", "r1")
	refresher := &fakeRefresher{token: &oauth2.Token{AccessToken: "a2", RefreshToken: "r2"}}
	client := &http.Client{Transport: New(WithStore(s), WithRefresher(refresher))}

	var wg sync.WaitGroup
	codes := make([]int, 8)
	for i := range codes {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			resp, err := client.Get(srv.URL)
			if err != nil {
				return
			}
			codes[i] = resp.StatusCode
			resp.Body.Close()
		}(i)
	}
	wg.Wait()

	for _, code := range codes {
		assert.Equal(t, http.StatusOK, code)
	}
	assert.EqualValues(t, 1, refresher.calls.Load())
}

func TestRoundTripper_WithoutAuthorization(t *testing.T) {
	var header string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header = r.Header.Get("Authorization")
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()
	refresher := &fakeRefresher{token: &oauth2.Token{AccessToken: "a2"}}
	rt := New(WithStore(seededStore(t, "a1", "r1")), WithRefresher(refresher))

	req, err := http.NewRequestWithContext(WithoutAuthorization(context.Background()), http.MethodGet, srv.URL, nil)
	require.NoError(t, err)
	resp, err := (&http.Client{Transport: rt}).Do(req)
	require.NoError(t, err)
	resp.Body.Close()

	assert.Empty(t, header)
	assert.EqualValues(t, 0, refresher.calls.Load())
}

func TestRoundTripper_NoTokenOmitsHeader(t *testing.T) {
	var header string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header = r.Header.Get("Authorization")
	}))
	defer srv.Close()

	resp, err := (&http.Client{Transport: New()}).Get(srv.URL)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Empty(t, header)
}

func TestContextMarkers(t *testing.T) {
	ctx := context.Background()
	assert.False(t, IsRetried(ctx))
	assert.True(t, IsRetried(MarkRetried(ctx)))
	assert.False(t, skipAuthorization(ctx))
	assert.True(t, skipAuthorization(WithoutAuthorization(ctx)))
}
