// Package session holds the authenticated session that every remote call is given
// explicitly, and the stores that persist it between console invocations.
package session

import (
	"context"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/noah-isme/council-console/internal/models"
)

// ErrNoSession is returned when no session is persisted or the session is unusable.
var ErrNoSession = errors.New("no active session")

// Session is the result of a login. It is the only client-side state that outlives
// a single command.
type Session struct {
	Role         models.Role     `json:"role"`
	AccessToken  string          `json:"accessToken"`
	RefreshToken string          `json:"refreshToken,omitempty"`
	Student      *models.Student `json:"student,omitempty"`
	Admin        *models.Admin   `json:"admin,omitempty"`
	IssuedAt     time.Time       `json:"issuedAt"`
}

// Valid reports whether s can authenticate a request.
func (s *Session) Valid() error {
	if s == nil || s.AccessToken == "" {
		return ErrNoSession
	}
	return nil
}

// Authorization is the value of the Authorization header.
func (s *Session) Authorization() string {
	return "Bearer " + s.AccessToken
}

// ExpiresAt reads the exp claim without verifying the signature; the server remains
// the authority. ok is false for opaque tokens.
func (s *Session) ExpiresAt() (time.Time, bool) {
	if s == nil || s.AccessToken == "" {
		return time.Time{}, false
	}
	claims := &models.JWTClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(s.AccessToken, claims); err != nil {
		return time.Time{}, false
	}
	if claims.ExpiresAt == nil {
		return time.Time{}, false
	}
	return claims.ExpiresAt.Time, true
}

// Expired reports whether the token's exp claim is before now.
func (s *Session) Expired(now time.Time) bool {
	exp, ok := s.ExpiresAt()
	return ok && !exp.After(now)
}

// DisplayName names the holder of the session.
func (s *Session) DisplayName() string {
	switch {
	case s == nil:
		return ""
	case s.Student != nil:
		return s.Student.Name
	case s.Admin != nil:
		if s.Admin.FullName != "" {
			return s.Admin.FullName
		}
		return s.Admin.Email
	default:
		return string(s.Role)
	}
}

// Store persists a session.
type Store interface {
	Load(ctx context.Context) (*Session, error)
	Save(ctx context.Context, s *Session) error
	Clear(ctx context.Context) error
}
