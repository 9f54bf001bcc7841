// Package auth holds the admin credential and session machinery: bcrypt
// password hashing and opaque, server-side session tokens carried in an
// HTTP-only cookie.
package auth

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"net/http"
	"time"
)

// CookieName is the cookie that carries the session token.
const CookieName = "session_token"

// tokenBytes gives 256 bits of randomness, hex-encoded to 64 characters.
const tokenBytes = 32

// SessionStore persists session tokens. Implemented by *database.DB.
type SessionStore interface {
	CreateSession(token string, expiresAt time.Time) error
	// HasValidSession must check existence and non-expiry in the same
	// query; an expired row that has not been swept yet never validates.
	HasValidSession(token string) (bool, error)
	DeleteSession(token string) (bool, error)
}

// Sessions issues and validates admin session tokens. Tokens expire a fixed
// TTL after login; validation does not extend them.
type Sessions struct {
	store  SessionStore
	ttl    time.Duration
	secure bool
}

func NewSessions(store SessionStore, ttl time.Duration, secure bool) *Sessions {
	return &Sessions{store: store, ttl: ttl, secure: secure}
}

// GenerateToken returns a cryptographically random session token.
func GenerateToken() (string, error) {
	b := make([]byte, tokenBytes)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("failed to generate session token: %w", err)
	}
	return hex.EncodeToString(b), nil
}

// Create issues a new session and returns its token.
func (s *Sessions) Create() (string, error) {
	token, err := GenerateToken()
	if err != nil {
		return "", err
	}

	expiresAt := time.Now().Add(s.ttl)
	if err := s.store.CreateSession(token, expiresAt); err != nil {
		return "", fmt.Errorf("failed to create session: %w", err)
	}

	return token, nil
}

// Validate reports whether the token belongs to a live session.
func (s *Sessions) Validate(token string) (bool, error) {
	if token == "" {
		return false, nil
	}
	return s.store.HasValidSession(token)
}

// Delete removes the session server-side. Deleting an unknown token is not
// an error.
func (s *Sessions) Delete(token string) error {
	if token == "" {
		return nil
	}
	_, err := s.store.DeleteSession(token)
	return err
}

// TokenFromRequest extracts the session token from the request cookie, or
// returns the empty string.
func (s *Sessions) TokenFromRequest(r *http.Request) string {
	cookie, err := r.Cookie(CookieName)
	if err != nil {
		return ""
	}
	return cookie.Value
}

// SetCookie attaches the session token to the response.
func (s *Sessions) SetCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(s.ttl.Seconds()),
		HttpOnly: true,
		Secure:   s.secure,
		SameSite: http.SameSiteStrictMode,
	})
}

// ClearCookie instructs the client to drop the session cookie.
func (s *Sessions) ClearCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   s.secure,
		SameSite: http.SameSiteStrictMode,
	})
}
