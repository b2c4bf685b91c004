// Package transport implements an http.RoundTripper that attaches the stored
// bearer token to outgoing API requests and recovers from an expired access
// token: on `401 Unauthorized` it exchanges the refresh token for a new pair,
// stores it and replays the original request exactly once.
//
// When the refresh itself fails the pair is cleared, the configured logout
// handler runs and the request fails with ErrSessionExpired.
package transport
