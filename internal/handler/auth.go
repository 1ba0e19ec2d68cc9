package handler

import (
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/icangrow/icangrow-api/internal/errs"
	"github.com/icangrow/icangrow-api/internal/middleware"
	"github.com/icangrow/icangrow-api/internal/server"
	"github.com/icangrow/icangrow-api/internal/service"
	"github.com/icangrow/icangrow-api/internal/validation"
)

// SignupRequest registers a new account.
type SignupRequest struct {
	FullName        string `json:"fullName" validate:"required,min=2,max=100,alphaspace"`
	Email           string `json:"email" validate:"required,email"`
	Password        string `json:"password" validate:"required,min=8,max=128,password"`
	ConfirmPassword string `json:"confirmPassword" validate:"required,eqfield=Password"`
}

// Validate normalizes the payload before checking constraints so the
// email format rule sees the value that will actually be stored.
func (r *SignupRequest) Validate() error {
	r.FullName = strings.TrimSpace(r.FullName)
	r.Email = strings.ToLower(strings.TrimSpace(r.Email))
	return validation.Struct(r)
}

// LoginRequest exchanges credentials for a session.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

func (r *LoginRequest) Validate() error {
	r.Email = strings.ToLower(strings.TrimSpace(r.Email))
	return validation.Struct(r)
}

// RefreshRequest exchanges a refresh token for a fresh session.
type RefreshRequest struct {
	RefreshToken string `json:"refreshToken" validate:"required"`
}

func (r *RefreshRequest) Validate() error {
	return validation.Struct(r)
}

// VerifyEmailRequest redeems an emailed verification token.
type VerifyEmailRequest struct {
	Token string `json:"token" validate:"required"`
	Type  string `json:"type" validate:"required,oneof=signup recovery email_change"`
}

func (r *VerifyEmailRequest) Validate() error {
	return validation.Struct(r)
}

// ResendVerificationRequest re-sends the signup confirmation email.
type ResendVerificationRequest struct {
	Email string `json:"email" validate:"required,email"`
}

func (r *ResendVerificationRequest) Validate() error {
	r.Email = strings.ToLower(strings.TrimSpace(r.Email))
	return validation.Struct(r)
}

// ForgotPasswordRequest starts the password recovery flow.
type ForgotPasswordRequest struct {
	Email string `json:"email" validate:"required,email"`
}

func (r *ForgotPasswordRequest) Validate() error {
	r.Email = strings.ToLower(strings.TrimSpace(r.Email))
	return validation.Struct(r)
}

// ResetPasswordRequest completes the recovery flow with the emailed
// token and a new password.
type ResetPasswordRequest struct {
	Token           string `json:"token" validate:"required"`
	Password        string `json:"password" validate:"required,min=8,max=128,password"`
	ConfirmPassword string `json:"confirmPassword" validate:"required,eqfield=Password"`
}

func (r *ResetPasswordRequest) Validate() error {
	return validation.Struct(r)
}

// ChangePasswordRequest rotates the password of the authenticated
// user after re-checking the current one.
type ChangePasswordRequest struct {
	CurrentPassword    string `json:"currentPassword" validate:"required"`
	NewPassword        string `json:"newPassword" validate:"required,min=8,max=128,password"`
	ConfirmNewPassword string `json:"confirmNewPassword" validate:"required,eqfield=NewPassword"`
}

func (r *ChangePasswordRequest) Validate() error {
	return validation.Struct(r)
}

// AuthHandler serves the authentication endpoints.
type AuthHandler struct {
	Handler
	auth *service.AuthService
}

// NewAuthHandler constructs an AuthHandler.
func NewAuthHandler(s *server.Server, services *service.Services) *AuthHandler {
	return &AuthHandler{
		Handler: NewHandler(s),
		auth:    services.Auth,
	}
}

// Signup creates the account at the identity provider and kicks off
// the welcome email job.
func (h *AuthHandler) Signup(c echo.Context, req *SignupRequest) (*Response, error) {
	user, err := h.auth.Signup(c.Request().Context(), req.Email, req.Password, req.FullName)
	if err != nil {
		return nil, err
	}

	return &Response{
		Success: true,
		Message: "Account created successfully. Please check your email to verify your account.",
		Data:    user,
	}, nil
}

// Login returns a session for valid credentials.
func (h *AuthHandler) Login(c echo.Context, req *LoginRequest) (*Response, error) {
	session, err := h.auth.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		return nil, err
	}

	return &Response{
		Success: true,
		Message: "Login successful",
		Data:    session,
	}, nil
}

// Refresh returns a fresh session for a valid refresh token.
func (h *AuthHandler) Refresh(c echo.Context, req *RefreshRequest) (*Response, error) {
	session, err := h.auth.Refresh(c.Request().Context(), req.RefreshToken)
	if err != nil {
		return nil, err
	}

	return &Response{
		Success: true,
		Message: "Session refreshed",
		Data:    session,
	}, nil
}

// VerifyEmail redeems a verification token.
func (h *AuthHandler) VerifyEmail(c echo.Context, req *VerifyEmailRequest) (*Response, error) {
	session, err := h.auth.VerifyEmail(c.Request().Context(), req.Type, req.Token)
	if err != nil {
		return nil, err
	}

	return &Response{
		Success: true,
		Message: "Email verified successfully",
		Data:    session,
	}, nil
}

// ResendVerification re-sends the confirmation email.
func (h *AuthHandler) ResendVerification(c echo.Context, req *ResendVerificationRequest) (*Response, error) {
	if err := h.auth.ResendVerification(c.Request().Context(), req.Email); err != nil {
		return nil, err
	}

	return &Response{
		Success: true,
		Message: "Verification email sent",
	}, nil
}

// ForgotPassword starts password recovery.
func (h *AuthHandler) ForgotPassword(c echo.Context, req *ForgotPasswordRequest) (*Response, error) {
	if err := h.auth.ForgotPassword(c.Request().Context(), req.Email); err != nil {
		return nil, err
	}

	return &Response{
		Success: true,
		Message: "Password reset email sent",
	}, nil
}

// ResetPassword completes password recovery.
func (h *AuthHandler) ResetPassword(c echo.Context, req *ResetPasswordRequest) (*Response, error) {
	if err := h.auth.ResetPassword(c.Request().Context(), req.Token, req.Password); err != nil {
		return nil, err
	}

	return &Response{
		Success: true,
		Message: "Password reset successfully",
	}, nil
}

// ChangePassword rotates the authenticated user's password. The auth
// middleware guarantees a verified identity; its email claim names
// the account to re-authenticate.
func (h *AuthHandler) ChangePassword(c echo.Context, req *ChangePasswordRequest) (*Response, error) {
	email := middleware.GetUserEmail(c)
	if email == "" {
		return nil, errs.NewUnauthorizedError("Unauthorized")
	}

	if err := h.auth.ChangePassword(c.Request().Context(), email, req.CurrentPassword, req.NewPassword); err != nil {
		return nil, err
	}

	return &Response{
		Success: true,
		Message: "Password changed successfully",
	}, nil
}
