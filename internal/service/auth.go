package service

import (
	"context"
	"net/http"

	"github.com/pkg/errors"

	"github.com/icangrow/icangrow-api/internal/errs"
	"github.com/icangrow/icangrow-api/internal/lib/identity"
	"github.com/icangrow/icangrow-api/internal/lib/job"
	"github.com/icangrow/icangrow-api/internal/server"
)

// IdentityProvider abstracts the hosted auth provider so the service
// can be tested against a fake. *identity.Client is the production
// implementation.
type IdentityProvider interface {
	Signup(ctx context.Context, email, password, fullName string) (*identity.User, error)
	SignInWithPassword(ctx context.Context, email, password string) (*identity.Session, error)
	RefreshSession(ctx context.Context, refreshToken string) (*identity.Session, error)
	Verify(ctx context.Context, verificationType, token string) (*identity.Session, error)
	Recover(ctx context.Context, email string) error
	Resend(ctx context.Context, verificationType, email string) error
	UpdatePassword(ctx context.Context, accessToken, newPassword string) error
}

// AuthService orchestrates authentication flows against the identity
// provider. It owns no credentials or sessions itself; every flow is
// a provider round-trip plus error translation.
type AuthService struct {
	server   *server.Server
	identity IdentityProvider
}

// NewAuthService constructs an AuthService wired to the server's
// identity client.
func NewAuthService(s *server.Server) *AuthService {
	return &AuthService{
		server:   s,
		identity: s.Identity,
	}
}

// Signup registers a new account at the provider and enqueues a
// welcome email job. A failed enqueue is logged, not surfaced: the
// account exists either way.
func (svc *AuthService) Signup(ctx context.Context, email, password, fullName string) (*identity.User, error) {
	user, err := svc.identity.Signup(ctx, email, password, fullName)
	if err != nil {
		return nil, translateIdentityError(err)
	}

	task, err := job.NewWelcomeEmailTask(user.Email, fullName)
	if err != nil {
		svc.server.Logger.Error().Err(err).Str("email", user.Email).Msg("failed to build welcome email task")
		return user, nil
	}

	if _, err := svc.server.Job.Client.EnqueueContext(ctx, task); err != nil {
		svc.server.Logger.Error().Err(err).Str("email", user.Email).Msg("failed to enqueue welcome email task")
	}

	return user, nil
}

// Login exchanges credentials for a session (password grant).
func (svc *AuthService) Login(ctx context.Context, email, password string) (*identity.Session, error) {
	session, err := svc.identity.SignInWithPassword(ctx, email, password)
	if err != nil {
		return nil, translateIdentityError(err)
	}
	return session, nil
}

// Refresh exchanges a refresh token for a fresh session.
func (svc *AuthService) Refresh(ctx context.Context, refreshToken string) (*identity.Session, error) {
	session, err := svc.identity.RefreshSession(ctx, refreshToken)
	if err != nil {
		return nil, translateIdentityError(err)
	}
	return session, nil
}

// VerifyEmail redeems a verification token of the given type
// (signup, recovery, email_change) and returns the resulting session.
func (svc *AuthService) VerifyEmail(ctx context.Context, verificationType, token string) (*identity.Session, error) {
	session, err := svc.identity.Verify(ctx, verificationType, token)
	if err != nil {
		return nil, translateIdentityError(err)
	}
	return session, nil
}

// ResendVerification asks the provider to resend the signup
// confirmation email.
func (svc *AuthService) ResendVerification(ctx context.Context, email string) error {
	if err := svc.identity.Resend(ctx, identity.VerificationSignup, email); err != nil {
		return translateIdentityError(err)
	}
	return nil
}

// ForgotPassword starts the password recovery flow. The provider
// sends the recovery email; whether the address exists is its
// concern, not ours.
func (svc *AuthService) ForgotPassword(ctx context.Context, email string) error {
	if err := svc.identity.Recover(ctx, email); err != nil {
		return translateIdentityError(err)
	}
	return nil
}

// ResetPassword redeems a recovery token and sets the new password
// using the short-lived session the provider returns for it.
func (svc *AuthService) ResetPassword(ctx context.Context, token, newPassword string) error {
	session, err := svc.identity.Verify(ctx, identity.VerificationRecovery, token)
	if err != nil {
		return translateIdentityError(err)
	}

	if err := svc.identity.UpdatePassword(ctx, session.AccessToken, newPassword); err != nil {
		return translateIdentityError(err)
	}

	return nil
}

// ChangePassword re-authenticates with the current password, then
// updates to the new one. The re-auth step means a stolen access
// token alone cannot rotate the password.
func (svc *AuthService) ChangePassword(ctx context.Context, email, currentPassword, newPassword string) error {
	session, err := svc.identity.SignInWithPassword(ctx, email, currentPassword)
	if err != nil {
		var provErr *identity.Error
		if errors.As(err, &provErr) && (provErr.Status == http.StatusBadRequest || provErr.Status == http.StatusUnauthorized) {
			return errs.NewUnauthorizedError("Current password is incorrect")
		}
		return translateIdentityError(err)
	}

	if err := svc.identity.UpdatePassword(ctx, session.AccessToken, newPassword); err != nil {
		return translateIdentityError(err)
	}

	return nil
}

// translateIdentityError maps provider errors onto the API's error
// taxonomy. Provider messages are passed through for client-fault
// statuses; anything else is a generic 500 (the real error still
// reaches the logs via the global handler).
func translateIdentityError(err error) error {
	var provErr *identity.Error
	if !errors.As(err, &provErr) {
		return err
	}

	switch provErr.Status {
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		return errs.NewBadRequestError(provErr.Message)
	case http.StatusUnauthorized:
		return errs.NewUnauthorizedError("Unauthorized")
	case http.StatusForbidden:
		return errs.NewForbiddenError(provErr.Message)
	case http.StatusNotFound:
		return errs.NewNotFoundError(provErr.Message)
	case http.StatusTooManyRequests:
		return errs.NewBadRequestError("Too many attempts, please try again later")
	default:
		return errs.NewInternalServerError()
	}
}
