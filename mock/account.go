package mock

import (
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

// VerificationHash is the hash of the email verification link of email.
func VerificationHash(email string) string {
	sum := sha1.Sum([]byte(strings.ToLower(email)))
	return hex.EncodeToString(sum[:])
}

var registrationFields = []string{"company", "salutation", "firstname", "lastname", "address", "postalcode", "city", "mobile", "country", "email", "password"}

func (s *Service) register(w http.ResponseWriter, r *http.Request) {
	values, err := decode(r)
	if err != nil {
		writeMessage(w, http.StatusBadRequest, "invalid request body")
		return
	}
	fields := map[string][]string{}
	for _, field := range registrationFields {
		if value, _ := values[field].(string); value == "" {
			fields[field] = []string{fmt.Sprintf("The %s field is required.", field)}
		}
	}
	email, _ := values["email"].(string)
	if _, exists := s.accounts.Get(strings.ToLower(email)); exists {
		fields["email"] = []string{"The email has already been taken."}
	}
	if values["password"] != values["password_confirmation"] {
		fields["password"] = []string{"The password confirmation does not match."}
	}
	if len(fields) > 0 {
		writeValidation(w, fields)
		return
	}
	password, _ := values["password"].(string)
	acc := s.addAccount(email, password, statusUnverified, "publisher")
	settings := map[string]any{}
	for key, value := range values {
		switch key {
		case "password", "password_confirmation", "terms", "email":
			continue
		}
		settings[key] = value
	}
	s.mergeSettings(acc.userID, settings)
	writeJSON(w, http.StatusCreated, map[string]any{"success": true, "id": acc.userID})
}

func (s *Service) verifyEmail(w http.ResponseWriter, r *http.Request) {
	id, hash := chi.URLParam(r, "id"), chi.URLParam(r, "hash")
	var found *account
	s.accounts.Range(func(_ string, acc *account) bool {
		if acc.userID == id {
			found = acc
			return false
		}
		return true
	})
	if found == nil || VerificationHash(found.email) != hash {
		writeMessage(w, http.StatusForbidden, "Invalid verification link.")
		return
	}
	if found.status == statusUnverified {
		s.accounts.Put(strings.ToLower(found.email), &account{email: found.email, password: found.password, status: statusVerified, userID: found.userID})
	}
	s.tables["users"].update(id, map[string]any{"email_verified_at": now()})
	writeJSON(w, http.StatusOK, map[string]any{"success": true})
}

func (s *Service) forgotPassword(w http.ResponseWriter, r *http.Request) {
	values, err := decode(r)
	if err != nil {
		writeMessage(w, http.StatusBadRequest, "invalid request body")
		return
	}
	email, _ := values["email"].(string)
	if _, ok := s.accounts.Get(strings.ToLower(email)); !ok {
		writeValidation(w, map[string][]string{"email": {"We can't find a user with that email address."}})
		return
	}
	s.resetTokens.Put(strings.ToLower(email), uuid.NewString())
	writeJSON(w, http.StatusOK, map[string]any{"message": "We have emailed your password reset link."})
}

func (s *Service) resetPassword(w http.ResponseWriter, r *http.Request) {
	values, err := decode(r)
	if err != nil {
		writeMessage(w, http.StatusBadRequest, "invalid request body")
		return
	}
	email, _ := values["email"].(string)
	token, _ := values["token"].(string)
	password, _ := values["password"].(string)
	expected, ok := s.resetTokens.Get(strings.ToLower(email))
	if !ok || expected != token {
		writeValidation(w, map[string][]string{"email": {"This password reset token is invalid."}})
		return
	}
	if password == "" || values["password_confirmation"] != password {
		writeValidation(w, map[string][]string{"password": {"The password confirmation does not match."}})
		return
	}
	acc, _ := s.accounts.Get(strings.ToLower(email))
	s.accounts.Put(strings.ToLower(email), &account{email: acc.email, password: password, status: acc.status, userID: acc.userID})
	s.resetTokens.Delete(strings.ToLower(email))
	writeJSON(w, http.StatusOK, map[string]any{"message": "Your password has been reset."})
}

func (s *Service) setAccountBlocked(email string, blocked bool) {
	acc, ok := s.accounts.Get(strings.ToLower(email))
	if !ok {
		return
	}
	status := statusVerified
	if blocked {
		status = statusBlocked
	}
	s.accounts.Put(strings.ToLower(email), &account{email: acc.email, password: acc.password, status: status, userID: acc.userID})
}

func (s *Service) currentAccount(r *http.Request) (*account, bool) {
	return s.accounts.Get(strings.ToLower(emailFrom(r.Context())))
}

func (s *Service) userInfo(w http.ResponseWriter, r *http.Request) {
	acc, ok := s.currentAccount(r)
	if !ok {
		writeMessage(w, http.StatusNotFound, "user not found")
		return
	}
	user, ok := s.tables["users"].get(acc.userID)
	if !ok {
		writeMessage(w, http.StatusNotFound, "user not found")
		return
	}
	writeJSON(w, http.StatusOK, user)
}

// settingsUserID returns the users_id query value or the current user.
func (s *Service) settingsUserID(r *http.Request) string {
	if id := r.URL.Query().Get("users_id"); id != "" {
		return id
	}
	if acc, ok := s.currentAccount(r); ok {
		return acc.userID
	}
	return ""
}

func (s *Service) userSettings(w http.ResponseWriter, r *http.Request) {
	settings, ok := s.settings.Get(s.settingsUserID(r))
	if !ok {
		writeMessage(w, http.StatusNotFound, "settings not found")
		return
	}
	writeJSON(w, http.StatusOK, settings)
}

func (s *Service) saveUserSettings(w http.ResponseWriter, r *http.Request) {
	userID := s.settingsUserID(r)
	if _, ok := s.settings.Get(userID); !ok {
		writeMessage(w, http.StatusNotFound, "settings not found")
		return
	}
	values, err := decode(r)
	if err != nil {
		writeMessage(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if values["tab"] == "api-key" && values["api_key"] == InvalidAPIKey {
		writeMessage(w, http.StatusBadRequest, "apiKeyError")
		return
	}
	delete(values, "tab")
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "data": s.mergeSettings(userID, values)})
}

func (s *Service) mergeSettings(userID string, values map[string]any) map[string]any {
	current, _ := s.settings.Get(userID)
	merged := make(map[string]any, len(current)+len(values))
	for k, v := range current {
		merged[k] = v
	}
	for k, v := range values {
		merged[k] = v
	}
	merged["updated_at"] = now()
	s.settings.Put(userID, merged)
	return merged
}

func (s *Service) createPublisher(w http.ResponseWriter, r *http.Request) {
	values, err := decode(r)
	if err != nil {
		writeMessage(w, http.StatusBadRequest, "invalid request body")
		return
	}
	name, _ := values["name"].(string)
	userID := fmt.Sprint(values["user_id"])
	if _, ok := s.settings.Get(userID); name == "" || !ok {
		writeJSON(w, http.StatusOK, map[string]any{"success": false})
		return
	}
	s.mergeSettings(userID, map[string]any{"publisher_name": name, "publisher_id": uuid.NewString()})
	writeJSON(w, http.StatusOK, map[string]any{"success": true})
}
