package identity

import (
	"context"
	"net/mail"
	"strings"

	"github.com/grocery/admin/internal/domain/shared"
)

// Admin is the account signed in to the console
type Admin struct {
	ID    string `json:"_id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone,omitempty"`
}

// Credentials are the login form values
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResult mixes the identity provider token with the stored admin fields
type LoginResult struct {
	IDToken string `json:"idToken"`
	ID      string `json:"_id"`
	Name    string `json:"name"`
	Email   string `json:"email"`
}

// Admin returns the admin part of the login result
func (r LoginResult) Admin() Admin {
	return Admin{ID: r.ID, Name: r.Name, Email: r.Email}
}

// ProfileUpdate is the editable part of an admin profile
type ProfileUpdate struct {
	Name  string `json:"name,omitempty"`
	Email string `json:"email,omitempty"`
	Phone string `json:"phone,omitempty"`
}

// Normalize trims the update and rejects an empty or malformed one
func (u *ProfileUpdate) Normalize() error {
	u.Name = strings.TrimSpace(u.Name)
	u.Email = strings.TrimSpace(u.Email)
	u.Phone = strings.TrimSpace(u.Phone)
	if u.Name == "" && u.Email == "" && u.Phone == "" {
		return shared.NewDomainError("INVALID_INPUT", "Nothing to update")
	}
	if u.Email != "" {
		if _, err := mail.ParseAddress(u.Email); err != nil {
			return shared.NewDomainError("INVALID_INPUT", "Invalid email address")
		}
	}
	return nil
}

// PasswordResetTicket is returned when a reset link is generated. Token and ResetLink
// are only present in development deployments of the remote store.
type PasswordResetTicket struct {
	Message   string `json:"message"`
	Token     string `json:"token,omitempty"`
	ResetLink string `json:"resetLink,omitempty"`
}

// PasswordReset is the reset form
type PasswordReset struct {
	Token       string `json:"token"`
	Email       string `json:"email"`
	NewPassword string `json:"newPassword"`
}

// AuthGateway is the remote store's admin account API
type AuthGateway interface {
	Login(ctx context.Context, creds Credentials) (*LoginResult, error)
	// Me and UpdateProfile act on behalf of the upstream token
	Me(ctx context.Context, token string) (*Admin, error)
	UpdateProfile(ctx context.Context, token string, update ProfileUpdate) (*Admin, error)
	ForgotPassword(ctx context.Context, email string) (*PasswordResetTicket, error)
	// ResetPassword returns the confirmation message of the remote store, possibly empty
	ResetPassword(ctx context.Context, reset PasswordReset) (string, error)
}
