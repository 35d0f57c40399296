package upstream

import (
	"context"
	"net/http"

	"github.com/grocery/admin/internal/domain/identity"
)

// AuthGateway implements identity.AuthGateway over the remote store's admin endpoints
type AuthGateway struct {
	client *Client
}

// NewAuthGateway creates an auth gateway
func NewAuthGateway(client *Client) *AuthGateway {
	return &AuthGateway{client: client}
}

// Login exchanges credentials for an identity token
func (g *AuthGateway) Login(ctx context.Context, creds identity.Credentials) (*identity.LoginResult, error) {
	resp, err := g.client.Do(ctx, Request{Method: http.MethodPost, Route: "/auth/login", Path: "/auth/login", Body: creds})
	if err != nil {
		return nil, err
	}
	return decodeOne[identity.LoginResult](resp.Body)
}

func (g *AuthGateway) Me(ctx context.Context, token string) (*identity.Admin, error) {
	resp, err := g.client.Do(ctx, Request{Method: http.MethodGet, Route: "/auth/me", Path: "/auth/me", Token: token})
	if err != nil {
		return nil, err
	}
	return decodeOne[identity.Admin](resp.Body, "admin", "user")
}

func (g *AuthGateway) UpdateProfile(ctx context.Context, token string, update identity.ProfileUpdate) (*identity.Admin, error) {
	resp, err := g.client.Do(ctx, Request{Method: http.MethodPut, Route: "/auth/profile", Path: "/auth/profile", Body: update, Token: token})
	if err != nil {
		return nil, err
	}
	return decodeOne[identity.Admin](resp.Body, "admin", "user")
}

func (g *AuthGateway) ForgotPassword(ctx context.Context, email string) (*identity.PasswordResetTicket, error) {
	resp, err := g.client.Do(ctx, Request{
		Method: http.MethodPost,
		Route:  "/admin/forgot-password",
		Path:   "/admin/forgot-password",
		Body:   map[string]string{"email": email},
	})
	if err != nil {
		return nil, err
	}
	return decodeOne[identity.PasswordResetTicket](resp.Body)
}

func (g *AuthGateway) ResetPassword(ctx context.Context, reset identity.PasswordReset) (string, error) {
	resp, err := g.client.Do(ctx, Request{Method: http.MethodPost, Route: "/admin/reset-password", Path: "/admin/reset-password", Body: reset})
	if err != nil {
		return "", err
	}
	var body struct {
		Message string `json:"message"`
	}
	// a non-JSON success body still means the reset went through
	_ = resp.Decode(&body)
	return body.Message, nil
}

var _ identity.AuthGateway = (*AuthGateway)(nil)
