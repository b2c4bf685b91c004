// Package mock provides an in-memory implementation of the workpro REST API
// and its OAuth2 token endpoint for tests.
//
// The service issues HS256 signed access tokens and opaque rotating refresh
// tokens, serves paginated CRUD resources with the list query contract of the
// client package, and counts the calls it receives so tests can assert how
// many refreshes and API calls were made.
package mock
