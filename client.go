package workpro

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/oauth2"

	"github.com/AndreasSchmid1988/workpro-frontend/client"
	"github.com/AndreasSchmid1988/workpro-frontend/client/auth"
	"github.com/AndreasSchmid1988/workpro-frontend/client/auth/store"
	"github.com/AndreasSchmid1988/workpro-frontend/client/auth/transport"
	"github.com/AndreasSchmid1988/workpro-frontend/config"
	"github.com/AndreasSchmid1988/workpro-frontend/internal/logger"
	"github.com/AndreasSchmid1988/workpro-frontend/internal/redact"
	"github.com/AndreasSchmid1988/workpro-frontend/metrics"
)

// Client owns the session and every domain store of one user.
type Client struct {
	config        *config.Config
	api           *client.Client
	authenticator *auth.Authenticator
	store         store.Store
	redis         *redis.Client
	registry      *prometheus.Registry
	metrics       *metrics.Metrics

	Account       *client.Account
	Users         *client.Users
	Leads         *client.Leads
	Offers        *client.Offers
	Invoices      *client.Invoices
	Products      *client.Products
	PriceTiers    *client.PriceTiers
	FeatureGroups *client.FeatureGroups
	Files         *client.Files
	Chats         *client.Chats
	Notifications *client.Notifications
	Reporting     *client.Reporting
}

// New builds the token store, the authenticator, the refreshing transport and
// the API client described by cfg.
func New(ctx context.Context, cfg *config.Config, options ...Option) (*Client, error) {
	opts := &clientOptions{}
	for _, opt := range options {
		opt(opts)
	}
	ret := &Client{config: cfg}

	ret.store = opts.store
	if ret.store == nil {
		tokenStore, err := ret.newStore(ctx)
		if err != nil {
			return nil, err
		}
		ret.store = tokenStore
	}

	oauthConfig, err := newOAuthConfig(ctx, cfg)
	if err != nil {
		ret.Close()
		return nil, err
	}

	base := opts.transport
	if base == nil {
		base = http.DefaultTransport
	}
	ret.authenticator = auth.New(oauthConfig, ret.store,
		auth.WithHTTPClient(&http.Client{Transport: base, Timeout: cfg.API.Timeout}))

	if cfg.Metrics.Enabled {
		ret.registry = opts.registry
		if ret.registry == nil {
			ret.registry = prometheus.NewRegistry()
		}
		ret.metrics = metrics.New(ret.registry, cfg.Metrics.Namespace)
	}

	roundTripper := transport.New(
		transport.WithStore(ret.store),
		transport.WithRefresher(ret.authenticator),
		transport.WithTransport(base),
		transport.WithMetrics(ret.metrics),
		transport.WithLogoutHandler(func(ctx context.Context) {
			logger.Log(ctx).Warn(ctx, "session expired, resetting state")
			ret.Reset()
		}),
	)
	apiOptions := []client.Option{
		client.WithStore(ret.store),
		client.WithHTTPClient(&http.Client{Transport: roundTripper, Timeout: cfg.API.Timeout}),
	}
	if opts.notifier != nil {
		apiOptions = append(apiOptions, client.WithNotifier(opts.notifier))
	}
	ret.api = client.New(cfg.API.BaseURL, apiOptions...)
	ret.init()

	logger.Log(ctx).Debug(ctx, "client created",
		zap.String("baseURL", cfg.API.BaseURL), zap.String("store", cfg.Store.Kind), zap.Bool("metrics", cfg.Metrics.Enabled))
	return ret, nil
}

func (c *Client) init() {
	c.Account = client.NewAccount(c.api)
	c.Users = client.NewUsers(c.api)
	c.Leads = client.NewLeads(c.api)
	c.Offers = client.NewOffers(c.api)
	c.Invoices = client.NewInvoices(c.api)
	c.Products = client.NewProducts(c.api)
	c.PriceTiers = client.NewPriceTiers(c.api)
	c.FeatureGroups = client.NewFeatureGroups(c.api)
	c.Files = client.NewFiles(c.api)
	c.Chats = client.NewChats(c.api)
	c.Notifications = client.NewNotifications(c.api)
	c.Reporting = client.NewReporting(c.api)
}

func (c *Client) newStore(ctx context.Context) (store.Store, error) {
	switch c.config.Store.Kind {
	case config.StoreFile:
		fileStore, err := store.NewFileStore(ctx, c.config.Store.URL)
		if err != nil {
			return nil, err
		}
		return fileStore, nil
	case config.StoreRedis:
		c.redis = redis.NewClient(&redis.Options{
			Addr:     c.config.Redis.Addr,
			Password: c.config.Redis.Password,
			DB:       c.config.Redis.DB,
		})
		return store.NewRedisStore(c.redis, c.config.Redis.Prefix), nil
	default:
		return store.NewMemoryStore(), nil
	}
}

func newOAuthConfig(ctx context.Context, cfg *config.Config) (*oauth2.Config, error) {
	if cfg.Auth.OAuth2ConfigURL != "" {
		return auth.LoadConfig(ctx, cfg.Auth.OAuth2ConfigURL, cfg.API.BaseURL)
	}
	return auth.NewConfig(cfg.Auth.ClientID, cfg.Auth.ClientSecret, cfg.API.BaseURL, cfg.Auth.TokenPath, strings.Fields(cfg.Auth.Scope)...), nil
}

// Login obtains a token pair and loads the user; when the user cannot be
// loaded the session is discarded.
func (c *Client) Login(ctx context.Context, username, password string) (*client.User, error) {
	if _, err := c.authenticator.Login(ctx, username, password); err != nil {
		return nil, err
	}
	user, err := c.Account.FetchUserInfo(ctx)
	if err != nil {
		logger.Log(ctx).Warn(ctx, "failed to load user after login", zap.String("username", redact.Email(username)), zap.Error(err))
		if lErr := c.Logout(ctx); lErr != nil {
			logger.Log(ctx).Error(ctx, "failed to clear tokens", zap.Error(lErr))
		}
		return nil, fmt.Errorf("failed to load user: %w", err)
	}
	return user, nil
}

// Logout clears the token pair and every store.
func (c *Client) Logout(ctx context.Context) error {
	err := c.authenticator.Logout(ctx)
	c.Reset()
	return err
}

// Authenticated reports whether an access token is stored.
func (c *Client) Authenticated(ctx context.Context) bool {
	return c.authenticator.Authenticated(ctx)
}

// Reset restores the initial state of every store.
func (c *Client) Reset() {
	c.Account.Reset()
	c.Users.Reset()
	c.Leads.Reset()
	c.Offers.Reset()
	c.Invoices.Reset()
	c.Products.Reset()
	c.PriceTiers.Reset()
	c.FeatureGroups.Reset()
	c.Files.Reset()
	c.Chats.Reset()
	c.Notifications.Reset()
	c.Reporting.Reset()
}

func (c *Client) API() *client.Client {
	return c.api
}

func (c *Client) Authenticator() *auth.Authenticator {
	return c.authenticator
}

func (c *Client) Store() store.Store {
	return c.store
}

// Metrics returns nil unless metrics are enabled.
func (c *Client) Metrics() *metrics.Metrics {
	return c.metrics
}

// MetricsHandler serves the client metrics; nil unless metrics are enabled.
func (c *Client) MetricsHandler() http.Handler {
	if c.registry == nil {
		return nil
	}
	return metrics.Handler(c.registry)
}

// Close releases the redis connection of a redis token store.
func (c *Client) Close() error {
	if c.redis == nil {
		return nil
	}
	return c.redis.Close()
}
