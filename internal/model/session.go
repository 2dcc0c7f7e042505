package model

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Session is the authenticated user as returned by the auth API and as
// persisted in the durable client slot. At most one Session exists at a
// time.
type Session struct {
	ID           string `json:"_id"`
	Name         string `json:"name"`
	Token        string `json:"token"`
	IsAssistente bool   `json:"isAssistente,omitempty"`
}

// Empty reports whether no user is authenticated.
func (s Session) Empty() bool {
	return s.Token == ""
}

// TokenExpiry decodes the session token without verifying its
// signature and returns the expiry claim. Verification belongs to the
// server; the client only uses the claim for display. Returns a zero
// time when the token is absent, opaque, or carries no expiry.
func (s Session) TokenExpiry() time.Time {
	if s.Token == "" {
		return time.Time{}
	}

	claims := jwt.MapClaims{}
	parser := jwt.NewParser()
	if _, _, err := parser.ParseUnverified(s.Token, claims); err != nil {
		return time.Time{}
	}

	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}
	}
	return exp.Time
}

// Credentials is the login request body.
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Profile is the registration request body for both roles.
type Profile struct {
	Name            string `json:"name"`
	Email           string `json:"email"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirmPassword"`
}
