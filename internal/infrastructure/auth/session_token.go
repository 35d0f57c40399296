package auth

import (
	"crypto/rand"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/grocery/admin/internal/domain/identity"
	"github.com/grocery/admin/internal/infrastructure/config"
)

// Common errors
var (
	ErrInvalidToken     = errors.New("invalid token")
	ErrExpiredToken     = errors.New("token has expired")
	ErrInvalidClaims    = errors.New("invalid token claims")
	ErrTokenNotYetValid = errors.New("token is not yet valid")
	ErrMissingSessionID = errors.New("missing session id in claims")
)

// Claims are carried by the browser session token. They identify a stored session;
// the upstream token never leaves the server.
type Claims struct {
	jwt.RegisteredClaims
	SessionID string `json:"sid"`
	AdminID   string `json:"admin_id"`
	Name      string `json:"name,omitempty"`
	Email     string `json:"email,omitempty"`
}

// SessionTokenService signs and validates session tokens
type SessionTokenService struct {
	secret []byte
	ttl    time.Duration
	issuer string
	now    func() time.Time
}

// NewSessionTokenService creates a token service. An empty secret is replaced by a
// random one, so tokens do not survive a restart.
func NewSessionTokenService(cfg config.SessionConfig) (*SessionTokenService, error) {
	secret := []byte(cfg.Secret)
	if len(secret) == 0 {
		secret = make([]byte, 32)
		if _, err := rand.Read(secret); err != nil {
			return nil, err
		}
	}
	return &SessionTokenService{
		secret: secret,
		ttl:    cfg.TTL,
		issuer: cfg.Issuer,
		now:    time.Now,
	}, nil
}

// TTL returns the token lifetime
func (s *SessionTokenService) TTL() time.Duration { return s.ttl }

// Issue signs a token for the session
func (s *SessionTokenService) Issue(sess *identity.Session) (string, time.Time, error) {
	now := s.now()
	expiresAt := now.Add(s.ttl)
	if !sess.ExpiresAt.IsZero() && sess.ExpiresAt.Before(expiresAt) {
		expiresAt = sess.ExpiresAt
	}
	claims := &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Issuer:    s.issuer,
			Subject:   sess.AdminID,
			Audience:  jwt.ClaimStrings{s.issuer},
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			NotBefore: jwt.NewNumericDate(now),
			IssuedAt:  jwt.NewNumericDate(now),
		},
		SessionID: sess.ID,
		AdminID:   sess.AdminID,
		Name:      sess.Name,
		Email:     sess.Email,
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, expiresAt, nil
}

// Validate checks the signature and lifetime of a token and returns its claims
func (s *SessionTokenService) Validate(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return s.secret, nil
	},
		jwt.WithIssuer(s.issuer),
		jwt.WithAudience(s.issuer),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		if errors.Is(err, jwt.ErrTokenNotValidYet) {
			return nil, ErrTokenNotYetValid
		}
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidClaims
	}
	if claims.SessionID == "" {
		return nil, ErrMissingSessionID
	}
	return claims, nil
}
