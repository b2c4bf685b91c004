package workpro

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/AndreasSchmid1988/workpro-frontend/client"
	"github.com/AndreasSchmid1988/workpro-frontend/client/auth/store"
)

type clientOptions struct {
	store     store.Store
	notifier  client.Notifier
	transport http.RoundTripper
	registry  *prometheus.Registry
}

// Option configures New.
type Option func(o *clientOptions)

// WithStore overrides the token store selected by the config.
func WithStore(tokenStore store.Store) Option {
	return func(o *clientOptions) {
		o.store = tokenStore
	}
}

// WithNotifier sets the sink for user visible messages.
func WithNotifier(notifier client.Notifier) Option {
	return func(o *clientOptions) {
		o.notifier = notifier
	}
}

// WithTransport sets the transport below the authorizing round tripper.
func WithTransport(transport http.RoundTripper) Option {
	return func(o *clientOptions) {
		o.transport = transport
	}
}

// WithRegistry registers metrics on registry instead of a private one.
func WithRegistry(registry *prometheus.Registry) Option {
	return func(o *clientOptions) {
		o.registry = registry
	}
}
