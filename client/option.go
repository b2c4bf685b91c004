package client

import (
	"net/http"

	"github.com/AndreasSchmid1988/workpro-frontend/client/auth/store"
)

// Option represents option
type Option func(c *Client)

// WithHTTPClient sets the authorizing http client
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// WithStore sets the token store consulted before authenticated calls
func WithStore(tokenStore store.Store) Option {
	return func(c *Client) {
		c.store = tokenStore
	}
}

// WithNotifier sets the sink for user visible messages
func WithNotifier(notifier Notifier) Option {
	return func(c *Client) {
		c.notifier = notifier
	}
}
