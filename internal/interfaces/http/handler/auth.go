package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	identityapp "github.com/grocery/admin/internal/application/identity"
	"github.com/grocery/admin/internal/domain/identity"
	"github.com/grocery/admin/internal/domain/shared"
	"github.com/grocery/admin/internal/interfaces/http/middleware"
)

// AuthHandler handles authentication-related HTTP requests
type AuthHandler struct {
	BaseHandler
	authService *identityapp.AuthService
	cookie      middleware.SessionCookie
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(authService *identityapp.AuthService, cookie middleware.SessionCookie) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		cookie:      cookie,
	}
}

// Login signs the admin in and sets the session cookie.
// POST /auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if !h.BindJSON(c, &req) {
		return
	}

	out, err := h.authService.Login(c.Request.Context(), identity.Credentials{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.cookie.Set(c, out.Token, out.ExpiresAt)
	h.Success(c, LoginResponse{
		Token:     out.Token,
		ExpiresAt: out.ExpiresAt,
		Admin:     out.Admin,
	})
}

// Logout ends the session and clears the cookie.
// POST /auth/logout
func (h *AuthHandler) Logout(c *gin.Context) {
	var sessionID string
	if sess := currentSession(c); sess != nil {
		sessionID = sess.ID
	}
	if err := h.authService.Logout(c.Request.Context(), sessionID); err != nil {
		h.HandleError(c, err)
		return
	}
	h.cookie.Clear(c)
	h.Success(c, MessageResponse{Message: "Logged out"})
}

// Me returns the signed-in admin.
// GET /auth/me
func (h *AuthHandler) Me(c *gin.Context) {
	admin, err := h.authService.Me(c.Request.Context(), currentSession(c))
	if err != nil {
		h.handleSessionError(c, err)
		return
	}
	h.Success(c, admin)
}

// UpdateProfile saves the admin's name, email and phone.
// PUT /auth/profile
func (h *AuthHandler) UpdateProfile(c *gin.Context) {
	var req ProfileRequest
	if !h.BindJSON(c, &req) {
		return
	}

	admin, err := h.authService.UpdateProfile(c.Request.Context(), currentSession(c), identity.ProfileUpdate{
		Name:  req.Name,
		Email: req.Email,
		Phone: req.Phone,
	})
	if err != nil {
		h.handleSessionError(c, err)
		return
	}
	h.Success(c, admin)
}

// ForgotPassword requests a reset link.
// POST /auth/forgot-password
func (h *AuthHandler) ForgotPassword(c *gin.Context) {
	var req ForgotPasswordRequest
	if !h.BindJSON(c, &req) {
		return
	}

	out, err := h.authService.ForgotPassword(c.Request.Context(), req.Email)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, out)
}

// ResetPassword sets a new password from a reset link.
// POST /auth/reset-password
func (h *AuthHandler) ResetPassword(c *gin.Context) {
	var req ResetPasswordRequest
	if !h.BindJSON(c, &req) {
		return
	}

	msg, err := h.authService.ResetPassword(c.Request.Context(), identity.PasswordReset{
		Token:       req.Token,
		Email:       req.Email,
		NewPassword: req.NewPassword,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, MessageResponse{Message: msg})
}

// handleSessionError clears the cookie when the remote store rejected the session
func (h *AuthHandler) handleSessionError(c *gin.Context, err error) {
	if errors.Is(err, shared.ErrUnauthorized) {
		h.cookie.Clear(c)
	}
	h.HandleError(c, err)
}
