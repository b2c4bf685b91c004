package store

import (
	"context"
	"sync"

	"golang.org/x/oauth2"
)

// Fixed names under which the pair is persisted.
const (
	AccessTokenKey  = "accessToken"
	RefreshTokenKey = "refreshToken"
)

// Store holds the single live token pair of a session.
// The in-memory default is fine for CLI tools; use the file or redis
// stores to survive restarts or to share a session across processes.
// AddToken and RemoveToken are idempotent.
type Store interface {
	LookupToken(ctx context.Context) (*oauth2.Token, bool)
	AddToken(ctx context.Context, token *oauth2.Token) error
	RemoveToken(ctx context.Context) error
}

// Lookuper is implemented by stores whose lookup can fail for reasons other
// than a missing pair. Lookup returns a nil token when no pair is stored.
type Lookuper interface {
	Lookup(ctx context.Context) (*oauth2.Token, error)
}

type memoryStore struct {
	mu    sync.RWMutex
	token *oauth2.Token
}

func (m *memoryStore) LookupToken(_ context.Context) (*oauth2.Token, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.token == nil {
		return nil, false
	}
	return copyToken(m.token), true
}

func (m *memoryStore) AddToken(_ context.Context, token *oauth2.Token) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.token = pair(token)
	return nil
}

func (m *memoryStore) RemoveToken(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.token = nil
	return nil
}

func NewMemoryStore() Store {
	return &memoryStore{}
}

// pair keeps only what is persisted: access and refresh token.
func pair(token *oauth2.Token) *oauth2.Token {
	if token == nil {
		return nil
	}
	return &oauth2.Token{AccessToken: token.AccessToken, RefreshToken: token.RefreshToken, TokenType: "Bearer"}
}

func copyToken(token *oauth2.Token) *oauth2.Token {
	ret := *token
	return &ret
}
