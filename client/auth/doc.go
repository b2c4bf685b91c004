// Package auth manages the session of an API client: the password grant
// used to log in, the refresh_token grant used by the transport to recover
// from an expired access token, and clearing the pair on logout.
package auth
