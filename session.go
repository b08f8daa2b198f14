package main

import (
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ============================================================
// SESSION (bearer token + operator email, memory only)
// ============================================================

type Session struct {
	mu        sync.RWMutex
	token     string
	email     string
	expiresAt time.Time
}

func NewSession() *Session {
	return &Session{}
}

// Login stores the access token. The exp claim is read without verifying the
// signature; the backend stays the only judge of validity.
func (s *Session) Login(token, email string) {
	exp := tokenExpiry(token)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = token
	s.email = email
	s.expiresAt = exp
}

func (s *Session) Logout() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = ""
	s.email = ""
	s.expiresAt = time.Time{}
}

func (s *Session) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

func (s *Session) Email() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.email
}

func (s *Session) LoggedIn() bool {
	return s.Token() != ""
}

// ExpiresAt is zero when the token is not a JWT or carries no exp.
func (s *Session) ExpiresAt() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.expiresAt
}

func tokenExpiry(token string) time.Time {
	if token == "" {
		return time.Time{}
	}
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return time.Time{}
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}
	}
	return exp.Time
}
