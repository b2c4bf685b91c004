package store

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/viant/afs"
	"golang.org/x/oauth2"
)

// FileStore persists the pair as a JSON document at any afs URL
// (local path, file:// or mem://), keeping a cached copy in memory.
type FileStore struct {
	mu    sync.RWMutex
	fs    afs.Service
	URL   string
	token *oauth2.Token
}

type fileSnapshot struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

// NewFileStore creates a FileStore and loads an existing snapshot from URL.
func NewFileStore(ctx context.Context, URL string) (*FileStore, error) {
	ret := &FileStore{fs: afs.New(), URL: URL}
	if err := ret.load(ctx); err != nil {
		return nil, fmt.Errorf("failed to load tokens from %v: %w", URL, err)
	}
	return ret, nil
}

func (f *FileStore) LookupToken(_ context.Context) (*oauth2.Token, bool) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	if f.token == nil {
		return nil, false
	}
	return copyToken(f.token), true
}

func (f *FileStore) AddToken(ctx context.Context, token *oauth2.Token) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if token == nil {
		return f.remove(ctx)
	}
	data, err := json.MarshalIndent(fileSnapshot{AccessToken: token.AccessToken, RefreshToken: token.RefreshToken}, "", "  ")
	if err != nil {
		return err
	}
	if err = f.fs.Upload(ctx, f.URL, 0o600, bytes.NewReader(data)); err != nil {
		return fmt.Errorf("failed to save tokens to %v: %w", f.URL, err)
	}
	f.token = pair(token)
	return nil
}

func (f *FileStore) RemoveToken(ctx context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.remove(ctx)
}

func (f *FileStore) remove(ctx context.Context) error {
	f.token = nil
	ok, err := f.fs.Exists(ctx, f.URL)
	if err != nil || !ok {
		return err
	}
	if err = f.fs.Delete(ctx, f.URL); err != nil {
		return fmt.Errorf("failed to remove tokens at %v: %w", f.URL, err)
	}
	return nil
}

func (f *FileStore) load(ctx context.Context) error {
	ok, err := f.fs.Exists(ctx, f.URL)
	if err != nil || !ok {
		return err
	}
	data, err := f.fs.DownloadWithURL(ctx, f.URL)
	if err != nil {
		return err
	}
	var snap fileSnapshot
	if err = json.Unmarshal(data, &snap); err != nil {
		return err
	}
	if snap.AccessToken == "" && snap.RefreshToken == "" {
		return nil
	}
	f.token = pair(&oauth2.Token{AccessToken: snap.AccessToken, RefreshToken: snap.RefreshToken})
	return nil
}
