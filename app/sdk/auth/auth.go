// Package auth provides the admin credential check. There is one shared
// admin password and no per-admin identity; the bearer token is derived from
// that password and carries no expiry.
package auth

import (
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"strings"
)

// Set of errors returned by the auth package.
var (
	ErrMissingPassword    = errors.New("admin password is not configured")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrMissingHeader      = errors.New("missing authorization header")
	ErrMalformedHeader    = errors.New("expected authorization header format: Bearer <token>")
	ErrInvalidToken       = errors.New("invalid token")
)

// Auth validates admin credentials against the configured shared password.
type Auth struct {
	password []byte
	token    []byte
}

// New constructs an Auth for the shared admin password.
func New(password string) (*Auth, error) {
	if password == "" {
		return nil, ErrMissingPassword
	}

	return &Auth{
		password: []byte(password),
		token:    []byte(tokenFor(password)),
	}, nil
}

// Token returns the bearer token admins present after logging in.
func (a *Auth) Token() string {
	return string(a.token)
}

// Login checks the submitted password and returns the bearer token.
func (a *Auth) Login(password string) (string, error) {
	if subtle.ConstantTimeCompare([]byte(password), a.password) != 1 {
		return "", ErrInvalidCredentials
	}

	return a.Token(), nil
}

// Authenticate validates the value of an Authorization header.
func (a *Auth) Authenticate(header string) error {
	if header == "" {
		return ErrMissingHeader
	}

	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return ErrMalformedHeader
	}

	if subtle.ConstantTimeCompare([]byte(strings.TrimSpace(parts[1])), a.token) != 1 {
		return ErrInvalidToken
	}

	return nil
}

// Check reports whether the Authorization header carries the admin token.
func (a *Auth) Check(header string) bool {
	return a.Authenticate(header) == nil
}

func tokenFor(password string) string {
	return base64.StdEncoding.EncodeToString([]byte("admin:" + password))
}
