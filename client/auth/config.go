package auth

import (
	"context"
	"fmt"
	"strings"

	"github.com/viant/afs/url"
	"github.com/viant/scy/auth/authorizer"
	"golang.org/x/oauth2"
)

// NewConfig creates the OAuth client used for password and refresh grants.
// Client credentials are sent in the form body.
func NewConfig(id, secret, baseURL, tokenPath string, scopes ...string) *oauth2.Config {
	return &oauth2.Config{
		ClientID:     id,
		ClientSecret: secret,
		Endpoint: oauth2.Endpoint{
			TokenURL:  url.Join(baseURL, strings.TrimLeft(tokenPath, "/")),
			AuthStyle: oauth2.AuthStyleInParams,
		},
		Scopes: scopes,
	}
}

// LoadConfig loads a secured OAuth client config; configURL is "<url>|<key>" for encrypted configs.
// The token URL is resolved against baseURL when the config holds a relative one.
func LoadConfig(ctx context.Context, configURL, baseURL string) (*oauth2.Config, error) {
	anAuthorizer := authorizer.New()
	oauthCfg := &authorizer.OAuthConfig{ConfigURL: configURL}
	if err := anAuthorizer.EnsureConfig(ctx, oauthCfg); err != nil {
		return nil, fmt.Errorf("failed to load oauth2 config %q: %w", configURL, err)
	}
	cfg := oauthCfg.Config
	if !strings.Contains(cfg.Endpoint.TokenURL, "://") {
		cfg.Endpoint.TokenURL = url.Join(baseURL, strings.TrimLeft(cfg.Endpoint.TokenURL, "/"))
	}
	cfg.Endpoint.AuthStyle = oauth2.AuthStyleInParams
	return cfg, nil
}
