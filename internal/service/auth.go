package service

import (
	"crypto/subtle"
	"time"

	"github.com/urban-fashion/sales-agent/internal/middleware"
)

// AuthService authenticates the shop administrator.
type AuthService struct {
	password string
	secret   string
	ttl      time.Duration
	now      func() time.Time
}

// NewAuthService creates an auth service for a single admin password.
func NewAuthService(password, jwtSecret string, ttl time.Duration) *AuthService {
	return &AuthService{
		password: password,
		secret:   jwtSecret,
		ttl:      ttl,
		now:      time.Now,
	}
}

// Login checks password and returns a signed admin token.
func (s *AuthService) Login(password string) (string, error) {
	if subtle.ConstantTimeCompare([]byte(password), []byte(s.password)) != 1 {
		return "", ErrInvalidPassword
	}
	return middleware.IssueToken(s.secret, s.now(), s.ttl)
}
