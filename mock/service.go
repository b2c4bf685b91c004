package mock

import (
	"context"
	"crypto/rand"
	"net/http"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/AndreasSchmid1988/workpro-frontend/internal/collection"
)

// Fixed credentials of the seeded accounts.
const (
	ClientID     = "2"
	ClientSecret = "secret"

	Email    = "admin@example.com"
	Password = "Secret#123"

	UnverifiedEmail = "unverified@example.com"
	BlockedEmail    = "blocked@example.com"

	// InvalidAPIKey is rejected by the settings endpoint with "apiKeyError".
	InvalidAPIKey = "invalid-key"
)

// Counter names.
const (
	CounterPasswordGrant = "token.password"
	CounterRefreshGrant  = "token.refresh"
	CounterAPI           = "api"
	CounterUnauthorized  = "api.unauthorized"
)

// DefaultAccessTokenTTL is the lifetime of issued access tokens.
const DefaultAccessTokenTTL = time.Hour

type accountStatus int

const (
	statusVerified accountStatus = iota
	statusUnverified
	statusBlocked
)

type account struct {
	email    string
	password string
	status   accountStatus
	userID   string
}

// Service is the mock API. The zero value is not usable; use NewService.
type Service struct {
	Issuer         string
	AccessTokenTTL time.Duration

	secret        []byte
	generation    atomic.Int64
	rejectRefresh atomic.Bool

	accounts      *collection.SyncMap[string, *account]
	refreshTokens *collection.SyncMap[string, string]
	resetTokens   *collection.SyncMap[string, string]
	settings      *collection.SyncMap[string, map[string]any]
	tables        map[string]*table
	files         *collection.SyncMap[string, []byte]

	countersMu sync.Mutex
	counters   map[string]int
}

func NewService() (*Service, error) {
	secret := make([]byte, 32)
	if _, err := rand.Read(secret); err != nil {
		return nil, err
	}
	ret := &Service{
		AccessTokenTTL: DefaultAccessTokenTTL,
		secret:         secret,
		accounts:       collection.NewSyncMap[string, *account](),
		refreshTokens:  collection.NewSyncMap[string, string](),
		resetTokens:    collection.NewSyncMap[string, string](),
		settings:       collection.NewSyncMap[string, map[string]any](),
		files:          collection.NewSyncMap[string, []byte](),
		counters:       map[string]int{},
		tables: map[string]*table{
			"users":          newTable("users"),
			"leads":          newTable("leads"),
			"offers":         newTable("offers", withStatusField("offer_status")),
			"offer-products": newTable("offer-products", withParent("offer_id"), withRequired("product_id")),
			"invoices":       newTable("invoices", withStatusField("invoice_status")),
			"products":       newTable("products", withRequired("name")),
			"price-tiers":    newTable("price-tiers", withParent("product_id"), withRequired("price")),
			"feature-groups": newTable("feature-groups", withRequired("name")),
			"files":          newTable("files"),
			"chats":          newTable("chats", withRequired("message")),
			"notifications":  newTable("notifications"),
		},
	}
	ret.seedAccounts()
	return ret, nil
}

func (s *Service) seedAccounts() {
	s.addAccount(Email, Password, statusVerified, "admin")
	s.addAccount(UnverifiedEmail, Password, statusUnverified, "publisher")
	s.addAccount(BlockedEmail, Password, statusBlocked, "publisher")
}

func (s *Service) addAccount(email, password string, status accountStatus, role string) *account {
	user := s.tables["users"].insert(map[string]any{
		"name":    email[:strings.Index(email, "@")],
		"email":   email,
		"roles":   []map[string]any{{"name": role}},
		"blocked": status == statusBlocked,
		"active":  status != statusBlocked,
	})
	userID := idOf(user)
	s.settings.Put(userID, map[string]any{"users_id": user["id"], "active": true})
	ret := &account{email: email, password: password, status: status, userID: userID}
	s.accounts.Put(strings.ToLower(email), ret)
	return ret
}

// Handler returns the router of the token endpoint and the REST API.
func (s *Service) Handler() http.Handler {
	r := chi.NewRouter()
	r.Post("/oauth/token", s.token)
	r.Route("/api/v1", func(r chi.Router) {
		r.Use(s.count(CounterAPI))

		r.Post("/register", s.register)
		r.Post("/email/verify/{id}/{hash}", s.verifyEmail)
		r.Post("/password/email", s.forgotPassword)
		r.Post("/password/reset", s.resetPassword)
		r.Get("/countries", s.countries)

		r.Group(func(r chi.Router) {
			r.Use(s.authenticate)
			s.registerRoutes(r)
		})
	})
	return r
}

func (s *Service) registerRoutes(r chi.Router) {
	r.Get("/user/infos", s.userInfo)
	r.Get("/user/settings", s.userSettings)
	r.Put("/user/settings", s.saveUserSettings)
	r.Post("/publisher/create", s.createPublisher)
	r.Post("/user/block/{id}", s.blockUser(true))
	r.Post("/user/unblock/{id}", s.blockUser(false))

	r.Get("/offers/statuses", s.statuses("offers"))
	r.Get("/invoices/statuses", s.statuses("invoices"))
	s.nested(r, "/offers", "products", "offer-products")
	s.nested(r, "/products", "price-tiers", "price-tiers")

	r.Post("/files/upload", s.upload)
	r.Get("/files/{id}/download", s.download)
	r.Get("/chats/subject/{subject}", s.chatsBySubject)

	r.Get("/reports/summary", s.summary)
	r.Get("/reports/statistics", s.statistics)
	r.Get("/reports/commissions", s.commissions)
	r.Get("/merchants", s.merchants)
	r.Get("/merchants/status", s.merchantStatus)

	for name, t := range s.tables {
		if t.parentField != "" {
			continue
		}
		r.Get("/"+name, s.list(t, nil))
		r.Post("/"+name, s.create(t, nil))
		r.Get("/"+name+"/{id}", s.get(t, "id"))
		r.Put("/"+name+"/{id}", s.update(t, "id"))
		r.Delete("/"+name+"/{id}", s.delete(t, "id"))
	}
}

// nested registers the routes of a table scoped to a parent record, e.g.
// /offers/{id}/products/{item}.
func (s *Service) nested(r chi.Router, parentPath, child, name string) {
	t := s.tables[name]
	parent := func(r *http.Request) map[string]string {
		return map[string]string{t.parentField: chi.URLParam(r, "id")}
	}
	base := parentPath + "/{id}/" + child
	r.Get(base, func(w http.ResponseWriter, r *http.Request) { s.list(t, parent(r))(w, r) })
	r.Post(base, func(w http.ResponseWriter, r *http.Request) { s.create(t, parent(r))(w, r) })
	r.Get(base+"/{item}", s.get(t, "item"))
	r.Put(base+"/{item}", s.update(t, "item"))
	r.Delete(base+"/{item}", s.delete(t, "item"))
}

func (s *Service) count(name string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			s.incr(name)
			next.ServeHTTP(w, r)
		})
	}
}

func (s *Service) incr(name string) {
	s.countersMu.Lock()
	defer s.countersMu.Unlock()
	s.counters[name]++
}

// Count returns how often the named counter was hit.
func (s *Service) Count(name string) int {
	s.countersMu.Lock()
	defer s.countersMu.Unlock()
	return s.counters[name]
}

// ResetCounters sets all counters to zero.
func (s *Service) ResetCounters() {
	s.countersMu.Lock()
	defer s.countersMu.Unlock()
	s.counters = map[string]int{}
}

// ExpireAccessTokens invalidates every access token issued so far.
func (s *Service) ExpireAccessTokens() {
	s.generation.Add(1)
}

// SetRejectRefresh makes the refresh grant fail with invalid_grant.
func (s *Service) SetRejectRefresh(reject bool) {
	s.rejectRefresh.Store(reject)
}

// ResetToken returns the password reset token last sent to email.
func (s *Service) ResetToken(email string) (string, bool) {
	return s.resetTokens.Get(strings.ToLower(email))
}

// UserID returns the user id of the account registered with email.
func (s *Service) UserID(email string) (string, bool) {
	acc, ok := s.accounts.Get(strings.ToLower(email))
	if !ok {
		return "", false
	}
	return acc.userID, true
}

// Seed inserts n generated records into resource and returns their ids.
func (s *Service) Seed(resource string, n int, fields func(i int) map[string]any) []string {
	t, ok := s.tables[resource]
	if !ok {
		return nil
	}
	ret := make([]string, 0, n)
	for i := 0; i < n; i++ {
		var record map[string]any
		if fields != nil {
			record = fields(i)
		}
		if record == nil {
			record = map[string]any{}
		}
		ret = append(ret, idOf(t.insert(record)))
	}
	return ret
}

// Record returns a stored record of resource.
func (s *Service) Record(resource, id string) (map[string]any, bool) {
	t, ok := s.tables[resource]
	if !ok {
		return nil, false
	}
	return t.get(id)
}

// Len returns the number of records of resource.
func (s *Service) Len(resource string) int {
	if t, ok := s.tables[resource]; ok {
		return t.records.Len()
	}
	return 0
}

type emailKey struct{}

func withEmail(ctx context.Context, email string) context.Context {
	return context.WithValue(ctx, emailKey{}, email)
}

func emailFrom(ctx context.Context) string {
	email, _ := ctx.Value(emailKey{}).(string)
	return email
}
