package identity

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/grocery/admin/internal/domain/shared"
)

// ErrSessionNotFound is returned by stores for unknown or expired sessions
var ErrSessionNotFound = shared.NewDomainError("SESSION_NOT_FOUND", "Session not found or expired")

// Session is the signed-in context of one admin. It is created at login, removed at
// logout and never modified in between.
type Session struct {
	ID            string    `json:"id"`
	AdminID       string    `json:"admin_id"`
	Name          string    `json:"name"`
	Email         string    `json:"email"`
	UpstreamToken string    `json:"upstream_token"`
	CreatedAt     time.Time `json:"created_at"`
	ExpiresAt     time.Time `json:"expires_at"`
}

// NewSession starts a session for a successful login
func NewSession(login LoginResult, now time.Time, ttl time.Duration) (*Session, error) {
	if login.IDToken == "" {
		return nil, shared.NewDomainError("UNAUTHORIZED", "Login response carried no token")
	}
	return &Session{
		ID:            uuid.NewString(),
		AdminID:       login.ID,
		Name:          login.Name,
		Email:         login.Email,
		UpstreamToken: login.IDToken,
		CreatedAt:     now,
		ExpiresAt:     now.Add(ttl),
	}, nil
}

// Expired reports whether the session is past its expiry
func (s *Session) Expired(now time.Time) bool {
	return !s.ExpiresAt.IsZero() && !now.Before(s.ExpiresAt)
}

// Admin returns the admin identity held by the session
func (s *Session) Admin() Admin {
	return Admin{ID: s.AdminID, Name: s.Name, Email: s.Email}
}

// SessionStore persists sessions until they expire
type SessionStore interface {
	Save(ctx context.Context, s *Session) error
	// Get returns ErrSessionNotFound for unknown or expired ids
	Get(ctx context.Context, id string) (*Session, error)
	Delete(ctx context.Context, id string) error
}

type sessionKey struct{}

// WithSession returns a context carrying the session
func WithSession(ctx context.Context, s *Session) context.Context {
	return context.WithValue(ctx, sessionKey{}, s)
}

// SessionFrom returns the session stored in the context, if any
func SessionFrom(ctx context.Context) (*Session, bool) {
	s, ok := ctx.Value(sessionKey{}).(*Session)
	return s, ok && s != nil
}
