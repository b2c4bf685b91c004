package client

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"sort"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/AndreasSchmid1988/workpro-frontend/client/validation"
	"github.com/AndreasSchmid1988/workpro-frontend/internal/logger"
	"github.com/AndreasSchmid1988/workpro-frontend/internal/redact"
)

// Translation keys of account notifications.
const (
	MessageDefaultError         = "defaultError"
	MessageEmailTaken           = "emailInvalidOrTaken"
	MessageEmailVerifyError     = "emailVerifyError"
	MessageUserUpdateSuccess    = "userUpdateSuccess"
	MessageUserUpdateError      = "userUpdateError"
	MessageAPIUpdateSuccess     = "apiUpdateSuccess"
	MessageAPIUpdateError       = "apiUpdateError"
	MessageAPIKeyError          = "apiKeyError"
	MessageResetMailSent        = "passwordResetMailSent"
	MessagePasswordChanged      = "passwordSuccessfullyChanged"
	MessagePublisherCreateError = "publisherCreateError"
)

// Settings tabs.
const (
	TabAccountDetails = "account-details"
	TabAPIKey         = "api-key"
)

var ErrPublisherNotCreated = errors.New("publisher was not created")

// AccountSettings is returned by /user/settings.
type AccountSettings struct {
	UsersID         ID     `json:"users_id,omitempty"`
	Company         string `json:"company,omitempty"`
	Salutation      string `json:"salutation,omitempty"`
	Firstname       string `json:"firstname,omitempty"`
	Lastname        string `json:"lastname,omitempty"`
	Mobile          string `json:"mobile,omitempty"`
	Address         string `json:"address,omitempty"`
	Postalcode      string `json:"postalcode,omitempty"`
	City            string `json:"city,omitempty"`
	Country         string `json:"country,omitempty"`
	Active          bool   `json:"active"`
	LastLogin       string `json:"last_login,omitempty"`
	CreatedAt       string `json:"created_at,omitempty"`
	UpdatedAt       string `json:"updated_at,omitempty"`
	EmailVerifiedAt string `json:"email_verified_at,omitempty"`
	APIKey          string `json:"api_key,omitempty"`
	PublisherName   string `json:"publisher_name,omitempty"`
	PublisherID     string `json:"publisher_id,omitempty"`
}

// Account holds the signed in user and the self service operations.
type Account struct {
	client *Client

	mu            sync.RWMutex
	user          *User
	settings      *AccountSettings
	emailVerified bool

	loading atomic.Int32
}

func NewAccount(c *Client) *Account {
	return &Account{client: c}
}

// Register signs up a new user; the form is validated first.
func (a *Account) Register(ctx context.Context, form validation.Registration) error {
	if err := validation.Struct(form); err != nil {
		return err
	}
	defer a.begin()()
	form.Terms = true
	_, err := send[struct{}](ctx, a.client, &request{method: http.MethodPost, path: APIPrefix + "/register", body: form, public: true})
	if err != nil {
		logger.Log(ctx).Error(ctx, "failed to register", zap.String("email", redact.Email(form.Email)), zap.Error(err))
		a.client.notifyFailure(ctx, registrationMessage(err), err)
		return err
	}
	return nil
}

func registrationMessage(err error) string {
	var apiErr *Error
	if !errors.As(err, &apiErr) || len(apiErr.Fields) == 0 {
		return MessageDefaultError
	}
	if _, ok := apiErr.Fields["email"]; ok {
		return MessageEmailTaken
	}
	fields := make([]string, 0, len(apiErr.Fields))
	for field := range apiErr.Fields {
		fields = append(fields, field)
	}
	sort.Strings(fields)
	if message := apiErr.FieldError(fields[0]); message != "" {
		return message
	}
	return MessageDefaultError
}

// VerifyEmail confirms the address with the id and hash of the verification link.
func (a *Account) VerifyEmail(ctx context.Context, id, hash string) error {
	defer a.begin()()
	path := APIPrefix + "/email/verify/" + url.PathEscape(id) + "/" + url.PathEscape(hash)
	if _, err := send[struct{}](ctx, a.client, &request{method: http.MethodPost, path: path, body: struct{}{}, public: true}); err != nil {
		logger.Log(ctx).Error(ctx, "failed to verify email", zap.String("id", id), zap.Error(err))
		a.client.notifyFailure(ctx, MessageEmailVerifyError, err)
		return err
	}
	a.mu.Lock()
	a.emailVerified = true
	a.mu.Unlock()
	return nil
}

// FetchUserInfo loads the signed in user.
func (a *Account) FetchUserInfo(ctx context.Context) (*User, error) {
	defer a.begin()()
	single, err := send[Single[User]](ctx, a.client, &request{method: http.MethodGet, path: APIPrefix + "/user/infos"})
	if err != nil {
		logger.Log(ctx).Error(ctx, "failed to fetch user info", zap.Error(err))
		return nil, err
	}
	user := single.Value
	a.mu.Lock()
	a.user = &user
	a.mu.Unlock()
	return &user, nil
}

// FetchSettings loads the settings of userID.
func (a *Account) FetchSettings(ctx context.Context, userID ID) (*AccountSettings, error) {
	defer a.begin()()
	query := url.Values{"users_id": {userID.String()}}
	single, err := send[Single[AccountSettings]](ctx, a.client, &request{method: http.MethodGet, path: APIPrefix + "/user/settings", query: query})
	if err != nil {
		logger.Log(ctx).Error(ctx, "failed to fetch user settings", zap.String("users_id", userID.String()), zap.Error(err))
		return nil, err
	}
	settings := single.Value
	a.mu.Lock()
	a.settings = &settings
	a.mu.Unlock()
	return &settings, nil
}

// SaveAccountDetails updates the account tab of userID.
func (a *Account) SaveAccountDetails(ctx context.Context, userID ID, form validation.AccountDetails) error {
	if err := validation.Struct(form); err != nil {
		a.client.notifyFailure(ctx, MessageUserUpdateError, err)
		return err
	}
	defer a.begin()()
	payload := struct {
		validation.AccountDetails
		Tab string `json:"tab"`
	}{AccountDetails: form, Tab: TabAccountDetails}
	if err := a.saveSettings(ctx, userID, payload); err != nil {
		a.client.notifyFailure(ctx, MessageUserUpdateError, err)
		return err
	}
	a.client.notifySuccess(ctx, MessageUserUpdateSuccess)
	return nil
}

// SaveAPIKey updates the publisher tab of userID and reloads the settings.
func (a *Account) SaveAPIKey(ctx context.Context, userID ID, form validation.APIKey) error {
	if err := validation.Struct(form); err != nil {
		a.client.notifyFailure(ctx, MessageAPIUpdateError, err)
		return err
	}
	defer a.begin()()
	payload := struct {
		validation.APIKey
		Tab string `json:"tab"`
	}{APIKey: form, Tab: TabAPIKey}
	if err := a.saveSettings(ctx, userID, payload); err != nil {
		message := MessageAPIUpdateError
		var apiErr *Error
		if errors.As(err, &apiErr) && apiErr.Message == MessageAPIKeyError {
			message = MessageAPIKeyError
		}
		a.client.notifyFailure(ctx, message, err)
		return err
	}
	if _, err := a.FetchSettings(ctx, userID); err != nil {
		a.client.notifyFailure(ctx, MessageAPIUpdateError, err)
		return err
	}
	a.client.notifySuccess(ctx, MessageAPIUpdateSuccess)
	return nil
}

func (a *Account) saveSettings(ctx context.Context, userID ID, payload any) error {
	query := url.Values{"users_id": {userID.String()}}
	_, err := send[struct{}](ctx, a.client, &request{method: http.MethodPut, path: APIPrefix + "/user/settings", query: query, body: payload})
	if err != nil {
		logger.Log(ctx).Error(ctx, "failed to save user settings", zap.String("users_id", userID.String()), zap.Error(err))
	}
	return err
}

// CreatePublisher creates a publisher named name for userID and reloads the settings.
func (a *Account) CreatePublisher(ctx context.Context, userID ID, name string) error {
	form := validation.Publisher{Name: name, UserID: userID.String()}
	if err := validation.Struct(form); err != nil {
		return err
	}
	defer a.begin()()
	output, err := send[struct {
		Success bool `json:"success"`
	}](ctx, a.client, &request{method: http.MethodPost, path: APIPrefix + "/publisher/create", body: form})
	if err == nil && !output.Success {
		err = ErrPublisherNotCreated
	}
	if err != nil {
		logger.Log(ctx).Error(ctx, "failed to create publisher", zap.String("users_id", userID.String()), zap.Error(err))
		a.client.notifyFailure(ctx, MessagePublisherCreateError, err)
		return err
	}
	_, err = a.FetchSettings(ctx, userID)
	return err
}

// ForgotPassword requests a password reset mail.
func (a *Account) ForgotPassword(ctx context.Context, email string) error {
	form := validation.ForgotPassword{Email: email}
	if err := validation.Struct(form); err != nil {
		return err
	}
	defer a.begin()()
	if _, err := send[struct{}](ctx, a.client, &request{method: http.MethodPost, path: APIPrefix + "/password/email", body: form, public: true}); err != nil {
		logger.Log(ctx).Error(ctx, "failed to request password reset", zap.String("email", redact.Email(email)), zap.Error(err))
		a.client.notifyFailure(ctx, MessageDefaultError, err)
		return err
	}
	a.client.notifySuccess(ctx, MessageResetMailSent)
	return nil
}

// ResetPassword sets a new password with the token of the reset mail.
func (a *Account) ResetPassword(ctx context.Context, form validation.PasswordReset) error {
	if err := validation.Struct(form); err != nil {
		return err
	}
	defer a.begin()()
	if _, err := send[struct{}](ctx, a.client, &request{method: http.MethodPost, path: APIPrefix + "/password/reset", body: form, public: true}); err != nil {
		logger.Log(ctx).Error(ctx, "failed to reset password", zap.String("email", redact.Email(form.Email)), zap.Error(err))
		a.client.notifyFailure(ctx, MessageDefaultError, err)
		return err
	}
	a.client.notifySuccess(ctx, MessagePasswordChanged)
	return nil
}

func (a *Account) User() (User, bool) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	if a.user == nil {
		return User{}, false
	}
	return *a.user, true
}

func (a *Account) Settings() (AccountSettings, bool) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	if a.settings == nil {
		return AccountSettings{}, false
	}
	return *a.settings, true
}

func (a *Account) EmailVerified() bool {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.emailVerified
}

func (a *Account) Loading() bool {
	return a.loading.Load() > 0
}

func (a *Account) Reset() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.user = nil
	a.settings = nil
	a.emailVerified = false
}

func (a *Account) begin() func() {
	a.loading.Add(1)
	return func() { a.loading.Add(-1) }
}
