package mock

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Messages of the token endpoint for accounts that may not log in.
const (
	MessageInvalidCredentials = "The user credentials were incorrect."
	MessageEmailNotVerified   = "Your email address is not verified."
	MessageAccountBlocked     = "Your account is blocked!."
	MessageUnauthenticated    = "Unauthenticated."
)

func writeTokenError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, map[string]any{"error": code, "error_description": message, "message": message})
}

// token serves the password and refresh_token grants.
func (s *Service) token(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		writeTokenError(w, http.StatusBadRequest, "invalid_request", "invalid form data")
		return
	}
	clientID, clientSecret, ok := r.BasicAuth()
	if !ok {
		clientID = r.FormValue("client_id")
		clientSecret = r.FormValue("client_secret")
	}
	if clientID != ClientID || clientSecret != ClientSecret {
		writeTokenError(w, http.StatusUnauthorized, "invalid_client", "Client authentication failed")
		return
	}
	switch grantType := r.FormValue("grant_type"); grantType {
	case "password":
		s.incr(CounterPasswordGrant)
		s.passwordGrant(w, r)
	case "refresh_token":
		s.incr(CounterRefreshGrant)
		s.refreshGrant(w, r)
	default:
		writeTokenError(w, http.StatusBadRequest, "unsupported_grant_type", fmt.Sprintf("unsupported grant type %q", grantType))
	}
}

func (s *Service) passwordGrant(w http.ResponseWriter, r *http.Request) {
	acc, ok := s.accounts.Get(strings.ToLower(r.FormValue("username")))
	if !ok || acc.password != r.FormValue("password") {
		writeTokenError(w, http.StatusBadRequest, "invalid_grant", MessageInvalidCredentials)
		return
	}
	switch acc.status {
	case statusUnverified:
		writeTokenError(w, http.StatusForbidden, "access_denied", MessageEmailNotVerified)
		return
	case statusBlocked:
		writeTokenError(w, http.StatusForbidden, "access_denied", MessageAccountBlocked)
		return
	}
	s.issue(w, acc.email)
}

// refreshGrant rotates the refresh token.
func (s *Service) refreshGrant(w http.ResponseWriter, r *http.Request) {
	refreshToken := r.FormValue("refresh_token")
	if s.rejectRefresh.Load() {
		writeTokenError(w, http.StatusBadRequest, "invalid_grant", "The refresh token is invalid.")
		return
	}
	email, ok := s.refreshTokens.Get(refreshToken)
	if !ok {
		writeTokenError(w, http.StatusBadRequest, "invalid_grant", "The refresh token is invalid.")
		return
	}
	s.refreshTokens.Delete(refreshToken)
	s.issue(w, email)
}

func (s *Service) issue(w http.ResponseWriter, email string) {
	accessToken, err := s.accessToken(email)
	if err != nil {
		writeTokenError(w, http.StatusInternalServerError, "server_error", err.Error())
		return
	}
	refreshToken := uuid.NewString()
	s.refreshTokens.Put(refreshToken, email)
	writeJSON(w, http.StatusOK, map[string]any{
		"token_type":    "Bearer",
		"expires_in":    int(s.AccessTokenTTL.Seconds()),
		"access_token":  accessToken,
		"refresh_token": refreshToken,
	})
}

// accessToken creates a signed JWT for email bound to the current generation.
func (s *Service) accessToken(email string) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"iss": s.Issuer,
		"sub": email,
		"aud": ClientID,
		"exp": now.Add(s.AccessTokenTTL).Unix(),
		"iat": now.Unix(),
		"jti": uuid.NewString(),
		"gen": s.generation.Load(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

// verify returns the subject of a valid access token of the current generation.
func (s *Service) verify(tokenString string) (string, error) {
	token, err := jwt.Parse(tokenString, func(*jwt.Token) (interface{}, error) {
		return s.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return "", err
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", fmt.Errorf("unexpected claims %T", token.Claims)
	}
	generation, _ := claims["gen"].(float64)
	if int64(generation) != s.generation.Load() {
		return "", fmt.Errorf("token expired")
	}
	return claims.GetSubject()
}

// authenticate rejects requests without a valid bearer token.
func (s *Service) authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			s.incr(CounterUnauthorized)
			writeMessage(w, http.StatusUnauthorized, MessageUnauthenticated)
			return
		}
		email, err := s.verify(parts[1])
		if err != nil {
			s.incr(CounterUnauthorized)
			writeMessage(w, http.StatusUnauthorized, MessageUnauthenticated)
			return
		}
		next.ServeHTTP(w, r.WithContext(withEmail(r.Context(), email)))
	})
}
