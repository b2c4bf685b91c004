package workpro

import (
	"context"
	"errors"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AndreasSchmid1988/workpro-frontend/client"
	"github.com/AndreasSchmid1988/workpro-frontend/client/auth"
	"github.com/AndreasSchmid1988/workpro-frontend/client/auth/transport"
	"github.com/AndreasSchmid1988/workpro-frontend/config"
	"github.com/AndreasSchmid1988/workpro-frontend/mock"
)

func testConfig(baseURL string) *config.Config {
	return &config.Config{
		API: config.APIConfig{BaseURL: baseURL, Timeout: 5 * time.Second},
		Auth: config.AuthConfig{
			ClientID:     mock.ClientID,
			ClientSecret: mock.ClientSecret,
			TokenPath:    "/oauth/token",
		},
		Store:   config.StoreConfig{Kind: config.StoreMemory},
		Metrics: config.MetricsConfig{Enabled: true, Namespace: "workpro"},
	}
}

func newTestClient(t *testing.T) (*Client, *mock.HTTPTestServer) {
	t.Helper()
	server, err := mock.NewHTTPTestServer()
	require.NoError(t, err)
	t.Cleanup(server.Close)

	cli, err := New(context.Background(), testConfig(server.URL), WithRegistry(prometheus.NewRegistry()))
	require.NoError(t, err)
	t.Cleanup(func() { _ = cli.Close() })
	return cli, server
}

func TestClient_Login(t *testing.T) {
	testCases := []struct {
		name     string
		email    string
		password string
		expect   error
	}{
		{name: "admin", email: mock.Email, password: mock.Password},
		{name: "wrong password", email: mock.Email, password: "nope", expect: auth.ErrInvalidCredentials},
		{name: "unverified", email: mock.UnverifiedEmail, password: mock.Password, expect: auth.ErrEmailNotVerified},
		{name: "blocked", email: mock.BlockedEmail, password: mock.Password, expect: auth.ErrAccountBlocked},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			cli, _ := newTestClient(t)
			ctx := context.Background()
			user, err := cli.Login(ctx, tc.email, tc.password)
			if tc.expect != nil {
				assert.ErrorIs(t, err, tc.expect)
				assert.False(t, cli.Authenticated(ctx))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.email, user.Email)
			assert.Equal(t, "admin", user.Role())
			assert.True(t, cli.Authenticated(ctx))

			stored, ok := cli.Account.User()
			require.True(t, ok)
			assert.Equal(t, user.ID, stored.ID)
		})
	}
}

func TestClient_LogoutResetsStores(t *testing.T) {
	cli, server := newTestClient(t)
	ctx := context.Background()
	server.Seed("leads", 3, nil)

	_, err := cli.Login(ctx, mock.Email, mock.Password)
	require.NoError(t, err)
	leads, err := cli.Leads.FetchList(ctx)
	require.NoError(t, err)
	assert.Len(t, leads, 3)

	require.NoError(t, cli.Logout(ctx))
	assert.False(t, cli.Authenticated(ctx))
	assert.Empty(t, cli.Leads.Items())
	_, ok := cli.Account.User()
	assert.False(t, ok)

	_, err = cli.Leads.FetchList(ctx)
	assert.True(t, errors.Is(err, client.ErrUnauthorized))
}

func TestClient_RefreshRejectedResetsStores(t *testing.T) {
	cli, server := newTestClient(t)
	ctx := context.Background()
	server.Seed("leads", 2, nil)

	_, err := cli.Login(ctx, mock.Email, mock.Password)
	require.NoError(t, err)
	_, err = cli.Leads.FetchList(ctx)
	require.NoError(t, err)

	server.ExpireAccessTokens()
	server.SetRejectRefresh(true)
	_, err = cli.Leads.FetchList(ctx)
	assert.ErrorIs(t, err, transport.ErrSessionExpired)
	assert.False(t, cli.Authenticated(ctx))
	assert.Empty(t, cli.Leads.Items())
	_, ok := cli.Account.User()
	assert.False(t, ok)
}

func TestClient_Metrics(t *testing.T) {
	cli, server := newTestClient(t)
	ctx := context.Background()
	server.Seed("leads", 1, nil)

	_, err := cli.Login(ctx, mock.Email, mock.Password)
	require.NoError(t, err)
	server.ExpireAccessTokens()
	_, err = cli.Leads.FetchList(ctx)
	require.NoError(t, err)

	handler := cli.MetricsHandler()
	require.NotNil(t, handler)
	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, httptest.NewRequest("GET", "/metrics", nil))
	body, err := io.ReadAll(recorder.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "workpro_auth_retried_requests_total 1")
	assert.Contains(t, string(body), `workpro_auth_token_refreshes_total{outcome="success"} 1`)
	assert.Contains(t, string(body), `workpro_api_requests_total{code="401",method="GET"} 1`)
}

func TestNew_MetricsDisabled(t *testing.T) {
	server, err := mock.NewHTTPTestServer()
	require.NoError(t, err)
	defer server.Close()

	cfg := testConfig(server.URL)
	cfg.Metrics.Enabled = false
	cli, err := New(context.Background(), cfg)
	require.NoError(t, err)
	assert.Nil(t, cli.Metrics())
	assert.Nil(t, cli.MetricsHandler())
	assert.NotNil(t, cli.API())
	assert.Same(t, cli.Store(), cli.Authenticator().Store())
}
