package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/oauth2"

	"github.com/AndreasSchmid1988/workpro-frontend/client/auth/store"
	"github.com/AndreasSchmid1988/workpro-frontend/internal/logger"
	"github.com/AndreasSchmid1988/workpro-frontend/internal/redact"
)

// Messages the token endpoint uses for accounts that may not log in.
const (
	MessageEmailNotVerified = "Your email address is not verified."
	MessageAccountBlocked   = "Your account is blocked!."
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrEmailNotVerified   = errors.New("email address is not verified")
	ErrAccountBlocked     = errors.New("account is blocked")
	ErrLoginFailed        = errors.New("login failed")
	ErrRefreshFailed      = errors.New("token refresh failed")
	ErrNoRefreshToken     = errors.New("no refresh token")
)

// Authenticator obtains, refreshes and clears the session token pair.
// It implements transport.Refresher.
type Authenticator struct {
	config *oauth2.Config
	store  store.Store
	client *http.Client
}

type Option func(*Authenticator)

// WithHTTPClient sets the client used against the token endpoint.
// It must not route through the authorizing transport.
func WithHTTPClient(client *http.Client) Option {
	return func(a *Authenticator) {
		a.client = client
	}
}

func New(config *oauth2.Config, tokenStore store.Store, options ...Option) *Authenticator {
	ret := &Authenticator{
		config: config,
		store:  tokenStore,
		client: &http.Client{Transport: http.DefaultTransport},
	}
	for _, opt := range options {
		opt(ret)
	}
	return ret
}

func (a *Authenticator) Store() store.Store {
	return a.store
}

func (a *Authenticator) Config() *oauth2.Config {
	return a.config
}

// Login runs the password grant and stores the returned pair.
func (a *Authenticator) Login(ctx context.Context, username, password string) (*oauth2.Token, error) {
	log := logger.Log(ctx)
	log.Info(ctx, "logging in", zap.String("username", redact.Email(username)))

	token, err := a.config.PasswordCredentialsToken(a.withClient(ctx), username, password)
	if err != nil {
		err = loginError(err)
		log.Warn(ctx, "login failed", zap.String("username", redact.Email(username)), zap.Error(err))
		return nil, err
	}
	if err = a.store.AddToken(ctx, token); err != nil {
		return nil, fmt.Errorf("failed to store tokens: %w", err)
	}
	return token, nil
}

// Refresh exchanges refreshToken for a new pair. It does not touch the store.
func (a *Authenticator) Refresh(ctx context.Context, refreshToken string) (*oauth2.Token, error) {
	if refreshToken == "" {
		return nil, ErrNoRefreshToken
	}
	ts := a.config.TokenSource(a.withClient(ctx), &oauth2.Token{RefreshToken: refreshToken})
	token, err := ts.Token()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrRefreshFailed, err)
	}
	logger.Log(ctx).Debug(ctx, "token refreshed", zap.String("accessToken", redact.Token(token.AccessToken)))
	return token, nil
}

// RefreshSession refreshes the stored pair; on failure the session is logged out.
func (a *Authenticator) RefreshSession(ctx context.Context) (*oauth2.Token, error) {
	current, ok := a.store.LookupToken(ctx)
	if !ok {
		return nil, ErrNoRefreshToken
	}
	token, err := a.Refresh(ctx, current.RefreshToken)
	if err != nil {
		if lErr := a.Logout(ctx); lErr != nil {
			logger.Log(ctx).Error(ctx, "failed to clear tokens", zap.Error(lErr))
		}
		return nil, err
	}
	if token.RefreshToken == "" {
		token.RefreshToken = current.RefreshToken
	}
	if err = a.store.AddToken(ctx, token); err != nil {
		return nil, fmt.Errorf("failed to store tokens: %w", err)
	}
	return token, nil
}

// SetTokens persists both values.
func (a *Authenticator) SetTokens(ctx context.Context, accessToken, refreshToken string) error {
	return a.store.AddToken(ctx, &oauth2.Token{AccessToken: accessToken, RefreshToken: refreshToken})
}

// ClearTokens removes both values.
func (a *Authenticator) ClearTokens(ctx context.Context) error {
	return a.store.RemoveToken(ctx)
}

func (a *Authenticator) Logout(ctx context.Context) error {
	logger.Log(ctx).Info(ctx, "logging out")
	return a.ClearTokens(ctx)
}

// Authenticated reports whether an access token is stored.
func (a *Authenticator) Authenticated(ctx context.Context) bool {
	token, ok := a.store.LookupToken(ctx)
	return ok && token.AccessToken != ""
}

func (a *Authenticator) withClient(ctx context.Context) context.Context {
	return context.WithValue(ctx, oauth2.HTTPClient, a.client)
}

type tokenErrorBody struct {
	Error            string `json:"error"`
	ErrorDescription string `json:"error_description"`
	Message          string `json:"message"`
}

func loginError(err error) error {
	var retrieveErr *oauth2.RetrieveError
	if !errors.As(err, &retrieveErr) {
		return fmt.Errorf("%w: %w", ErrLoginFailed, err)
	}
	var body tokenErrorBody
	_ = json.Unmarshal(retrieveErr.Body, &body)
	code := retrieveErr.ErrorCode
	if code == "" {
		code = body.Error
	}
	switch {
	case strings.EqualFold(body.Message, MessageEmailNotVerified) || body.ErrorDescription == MessageEmailNotVerified:
		return ErrEmailNotVerified
	case strings.EqualFold(body.Message, MessageAccountBlocked) || body.ErrorDescription == MessageAccountBlocked:
		return ErrAccountBlocked
	case code == "invalid_grant":
		return ErrInvalidCredentials
	}
	return fmt.Errorf("%w: %w", ErrLoginFailed, err)
}
