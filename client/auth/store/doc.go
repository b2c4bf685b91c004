// Package store persists the access/refresh token pair of a session.
//
// Three backends are provided: an in-memory store for tests and short lived
// tools, a FileStore writing a JSON document through afs, and a RedisStore
// for processes sharing one session. All of them keep exactly one live pair.
package store
