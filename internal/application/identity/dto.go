package identity

import (
	"time"

	"github.com/grocery/admin/internal/domain/identity"
)

// LoginOutput is returned after a successful login
type LoginOutput struct {
	Token     string            `json:"token"`
	ExpiresAt time.Time         `json:"expiresAt"`
	Admin     identity.Admin    `json:"admin"`
	Session   *identity.Session `json:"-"`
}

// ForgotPasswordOutput is the forgot-password confirmation. Token and ResetLink are
// only present when the remote store runs in development mode.
type ForgotPasswordOutput struct {
	Message   string `json:"message"`
	Token     string `json:"token,omitempty"`
	ResetLink string `json:"resetLink,omitempty"`
}
