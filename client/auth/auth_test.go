package auth

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"

	"github.com/AndreasSchmid1988/workpro-frontend/client/auth/store"
	"github.com/AndreasSchmid1988/workpro-frontend/mock"
)

func newAuthenticator(t *testing.T) (*Authenticator, *mock.HTTPTestServer) {
	t.Helper()
	server, err := mock.NewHTTPTestServer()
	require.NoError(t, err)
	t.Cleanup(server.Close)
	config := NewConfig(mock.ClientID, mock.ClientSecret, server.URL, "/oauth/token")
	return New(config, store.NewMemoryStore()), server
}

func TestNewConfig(t *testing.T) {
	config := NewConfig("id", "secret", "https://api.example.com", "/oauth/token", "*")
	assert.Equal(t, "https://api.example.com/oauth/token", config.Endpoint.TokenURL)
	assert.Equal(t, oauth2.AuthStyleInParams, config.Endpoint.AuthStyle)
	assert.Equal(t, []string{"*"}, config.Scopes)
}

func TestAuthenticator_Login(t *testing.T) {
	testCases := []struct {
		description string
		username    string
		password    string
		expectErr   error
	}{
		{description: "success", username: mock.Email, password: mock.Password},
		{description: "invalid credentials", username: mock.Email, password: "wrong", expectErr: ErrInvalidCredentials},
		{description: "unknown user", username: "nobody@example.com", password: mock.Password, expectErr: ErrInvalidCredentials},
		{description: "email not verified", username: mock.UnverifiedEmail, password: mock.Password, expectErr: ErrEmailNotVerified},
		{description: "account blocked", username: mock.BlockedEmail, password: mock.Password, expectErr: ErrAccountBlocked},
	}
	for _, tc := range testCases {
		t.Run(tc.description, func(t *testing.T) {
			authenticator, _ := newAuthenticator(t)
			ctx := context.Background()
			token, err := authenticator.Login(ctx, tc.username, tc.password)
			if tc.expectErr != nil {
				assert.True(t, errors.Is(err, tc.expectErr), "got %v", err)
				assert.False(t, authenticator.Authenticated(ctx))
				return
			}
			require.NoError(t, err)
			assert.NotEmpty(t, token.AccessToken)
			assert.NotEmpty(t, token.RefreshToken)
			assert.True(t, authenticator.Authenticated(ctx))
			stored, ok := authenticator.Store().LookupToken(ctx)
			require.True(t, ok)
			assert.Equal(t, token.AccessToken, stored.AccessToken)
			assert.Equal(t, token.RefreshToken, stored.RefreshToken)
		})
	}
}

func TestAuthenticator_RefreshSession(t *testing.T) {
	t.Run("rotates the stored pair", func(t *testing.T) {
		authenticator, server := newAuthenticator(t)
		ctx := context.Background()
		initial, err := authenticator.Login(ctx, mock.Email, mock.Password)
		require.NoError(t, err)

		refreshed, err := authenticator.RefreshSession(ctx)
		require.NoError(t, err)
		assert.NotEqual(t, initial.AccessToken, refreshed.AccessToken)
		assert.NotEqual(t, initial.RefreshToken, refreshed.RefreshToken)
		stored, _ := authenticator.Store().LookupToken(ctx)
		assert.Equal(t, refreshed.AccessToken, stored.AccessToken)
		assert.Equal(t, 1, server.Count(mock.CounterRefreshGrant))
	})

	t.Run("failure logs out", func(t *testing.T) {
		authenticator, server := newAuthenticator(t)
		ctx := context.Background()
		_, err := authenticator.Login(ctx, mock.Email, mock.Password)
		require.NoError(t, err)
		server.SetRejectRefresh(true)

		_, err = authenticator.RefreshSession(ctx)
		assert.True(t, errors.Is(err, ErrRefreshFailed))
		assert.False(t, authenticator.Authenticated(ctx))
		_, ok := authenticator.Store().LookupToken(ctx)
		assert.False(t, ok)
	})

	t.Run("without session", func(t *testing.T) {
		authenticator, server := newAuthenticator(t)
		_, err := authenticator.RefreshSession(context.Background())
		assert.True(t, errors.Is(err, ErrNoRefreshToken))
		assert.Equal(t, 0, server.Count(mock.CounterRefreshGrant))
	})
}

func TestAuthenticator_Refresh(t *testing.T) {
	authenticator, _ := newAuthenticator(t)
	_, err := authenticator.Refresh(context.Background(), "")
	assert.True(t, errors.Is(err, ErrNoRefreshToken))

	_, err = authenticator.Refresh(context.Background(), "unknown")
	assert.True(t, errors.Is(err, ErrRefreshFailed))
}

func TestAuthenticator_Tokens(t *testing.T) {
	authenticator, _ := newAuthenticator(t)
	ctx := context.Background()
	require.NoError(t, authenticator.SetTokens(ctx, "access", "refresh"))
	assert.True(t, authenticator.Authenticated(ctx))

	require.NoError(t, authenticator.Logout(ctx))
	assert.False(t, authenticator.Authenticated(ctx))
	// idempotent
	require.NoError(t, authenticator.ClearTokens(ctx))
}
