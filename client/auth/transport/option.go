package transport

import (
	"net/http"

	"github.com/AndreasSchmid1988/workpro-frontend/client/auth/store"
	"github.com/AndreasSchmid1988/workpro-frontend/metrics"
)

type Option func(*RoundTripper)

// WithStore sets store
func WithStore(store store.Store) Option {
	return func(t *RoundTripper) {
		t.store = store
	}
}

// WithRefresher sets the refresh flow; without one a 401 is returned unchanged.
func WithRefresher(refresher Refresher) Option {
	return func(t *RoundTripper) {
		t.refresher = refresher
	}
}

// WithTransport sets the underlying transport
func WithTransport(transport http.RoundTripper) Option {
	return func(t *RoundTripper) {
		t.transport = transport
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(t *RoundTripper) {
		t.metrics = m
	}
}

// WithLogoutHandler sets the hook run after the pair was cleared by a failed refresh.
func WithLogoutHandler(handler LogoutHandler) Option {
	return func(t *RoundTripper) {
		t.onLogout = handler
	}
}
