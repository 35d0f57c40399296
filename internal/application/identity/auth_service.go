package identity

import (
	"context"
	"errors"
	"net/mail"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/grocery/admin/internal/application/state"
	"github.com/grocery/admin/internal/domain/identity"
	"github.com/grocery/admin/internal/domain/shared"
	"github.com/grocery/admin/internal/infrastructure/telemetry"
)

// Fallback messages shown when the remote store gives no reason
const (
	msgLoginFailed     = "Login failed"
	msgFetchUser       = "Failed to fetch user"
	msgUpdateProfile   = "Failed to update profile"
	msgForgotFailed    = "Request failed"
	msgForgotSucceeded = "Reset link generated"
	msgResetFailed     = "Reset failed"
	msgResetSucceeded  = "Password reset successful"
	msgSessionRequired = "Please sign in"
)

// TokenIssuer signs the browser session token
type TokenIssuer interface {
	Issue(sess *identity.Session) (string, time.Time, error)
	TTL() time.Duration
}

// AuthService handles admin sign-in and account operations
type AuthService struct {
	gateway  identity.AuthGateway
	sessions identity.SessionStore
	tokens   TokenIssuer
	logger   *zap.Logger
	now      func() time.Time
}

// NewAuthService creates a new authentication service
func NewAuthService(
	gateway identity.AuthGateway,
	sessions identity.SessionStore,
	tokens TokenIssuer,
	logger *zap.Logger,
) *AuthService {
	return &AuthService{
		gateway:  gateway,
		sessions: sessions,
		tokens:   tokens,
		logger:   logger,
		now:      time.Now,
	}
}

// Login authenticates against the remote store, opens a session and signs its token
func (s *AuthService) Login(ctx context.Context, creds identity.Credentials) (*LoginOutput, error) {
	creds.Email = strings.TrimSpace(creds.Email)
	if creds.Email == "" || creds.Password == "" {
		return nil, shared.NewDomainError("INVALID_INPUT", "Email and password are required")
	}

	ctx, span := telemetry.StartServiceSpan(ctx, "auth", "login")
	defer span.End()

	s.logger.Info("Login attempt", zap.String("email", creds.Email))

	result, err := s.gateway.Login(ctx, creds)
	if err != nil {
		s.logger.Warn("Login rejected", zap.String("email", creds.Email), zap.Error(err))
		telemetry.RecordError(span, err)
		return nil, state.Describe(err, msgLoginFailed)
	}

	sess, err := identity.NewSession(*result, s.now(), s.tokens.TTL())
	if err != nil {
		s.logger.Error("Login response unusable", zap.Error(err))
		return nil, state.Describe(err, msgLoginFailed)
	}
	if err := s.sessions.Save(ctx, sess); err != nil {
		s.logger.Error("Failed to store session", zap.Error(err))
		return nil, state.Describe(err, msgLoginFailed)
	}

	token, expiresAt, err := s.tokens.Issue(sess)
	if err != nil {
		s.logger.Error("Failed to sign session token", zap.Error(err))
		_ = s.sessions.Delete(ctx, sess.ID)
		return nil, state.Describe(err, msgLoginFailed)
	}

	telemetry.SetAttributes(span, telemetry.SpanAttrAdminID, sess.AdminID)
	s.logger.Info("Admin logged in",
		zap.String("admin_id", sess.AdminID),
		zap.String("session_id", sess.ID))

	return &LoginOutput{
		Token:     token,
		ExpiresAt: expiresAt,
		Admin:     sess.Admin(),
		Session:   sess,
	}, nil
}

// Logout removes the session; an already missing session is not an error
func (s *AuthService) Logout(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return nil
	}
	if err := s.sessions.Delete(ctx, sessionID); err != nil && !errors.Is(err, identity.ErrSessionNotFound) {
		s.logger.Error("Failed to delete session", zap.String("session_id", sessionID), zap.Error(err))
		return err
	}
	s.logger.Info("Admin logged out", zap.String("session_id", sessionID))
	return nil
}

// Me returns the signed-in admin as the remote store knows them. A token the remote
// store no longer accepts ends the local session too.
func (s *AuthService) Me(ctx context.Context, sess *identity.Session) (*identity.Admin, error) {
	if sess == nil {
		return nil, shared.NewDomainError("UNAUTHORIZED", msgSessionRequired)
	}
	admin, err := s.gateway.Me(ctx, sess.UpstreamToken)
	if err != nil {
		s.endRejectedSession(ctx, sess, err)
		return nil, state.Describe(err, msgFetchUser)
	}
	return admin, nil
}

// UpdateProfile saves the editable profile fields upstream
func (s *AuthService) UpdateProfile(ctx context.Context, sess *identity.Session, update identity.ProfileUpdate) (*identity.Admin, error) {
	if sess == nil {
		return nil, shared.NewDomainError("UNAUTHORIZED", msgSessionRequired)
	}
	if err := update.Normalize(); err != nil {
		return nil, err
	}
	admin, err := s.gateway.UpdateProfile(ctx, sess.UpstreamToken, update)
	if err != nil {
		s.endRejectedSession(ctx, sess, err)
		return nil, state.Describe(err, msgUpdateProfile)
	}
	s.logger.Info("Admin profile updated", zap.String("admin_id", sess.AdminID))
	return admin, nil
}

// ForgotPassword asks the remote store for a reset link
func (s *AuthService) ForgotPassword(ctx context.Context, email string) (*ForgotPasswordOutput, error) {
	email = strings.TrimSpace(email)
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, shared.NewDomainError("INVALID_INPUT", "Invalid email address")
	}

	ticket, err := s.gateway.ForgotPassword(ctx, email)
	if err != nil {
		return nil, state.Describe(err, msgForgotFailed)
	}
	out := &ForgotPasswordOutput{Message: ticket.Message}
	if out.Message == "" {
		out.Message = msgForgotSucceeded
	}
	// the link is only surfaced when both halves are present
	if ticket.Token != "" && ticket.ResetLink != "" {
		out.Token = ticket.Token
		out.ResetLink = ticket.ResetLink
	}
	return out, nil
}

// ResetPassword sets a new password with a reset token
func (s *AuthService) ResetPassword(ctx context.Context, reset identity.PasswordReset) (string, error) {
	reset.Token = strings.TrimSpace(reset.Token)
	reset.Email = strings.TrimSpace(reset.Email)
	if reset.Token == "" || reset.Email == "" {
		return "", shared.NewDomainError("INVALID_INPUT", "Reset link is incomplete")
	}
	if reset.NewPassword == "" {
		return "", shared.NewDomainError("INVALID_INPUT", "New password is required")
	}

	msg, err := s.gateway.ResetPassword(ctx, reset)
	if err != nil {
		return "", state.Describe(err, msgResetFailed)
	}
	if msg == "" {
		msg = msgResetSucceeded
	}
	return msg, nil
}

func (s *AuthService) endRejectedSession(ctx context.Context, sess *identity.Session, err error) {
	if !errors.Is(err, shared.ErrUnauthorized) {
		return
	}
	s.logger.Info("Remote store rejected session token, ending session", zap.String("session_id", sess.ID))
	if derr := s.sessions.Delete(ctx, sess.ID); derr != nil && !errors.Is(derr, identity.ErrSessionNotFound) {
		s.logger.Warn("Failed to delete rejected session", zap.Error(derr))
	}
}
