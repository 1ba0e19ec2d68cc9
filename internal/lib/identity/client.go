// Package identity provides a client for the hosted identity
// provider (a GoTrue-compatible auth service).
//
// The provider owns the entire authentication protocol: credentials,
// sessions, email verification, and password recovery. This client
// only shuttles requests to its REST surface; it implements no auth
// logic of its own.
package identity

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/icangrow/icangrow-api/internal/config"
)

// User is the provider's representation of an account.
type User struct {
	ID               string     `json:"id"`
	Email            string     `json:"email"`
	EmailConfirmedAt *time.Time `json:"email_confirmed_at,omitempty"`
	CreatedAt        *time.Time `json:"created_at,omitempty"`
}

// Session is an issued token pair plus the account it belongs to.
type Session struct {
	AccessToken  string `json:"access_token"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int    `json:"expires_in"`
	RefreshToken string `json:"refresh_token"`
	User         User   `json:"user"`
}

// Error is a non-2xx response from the provider.
type Error struct {
	Status  int
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("identity provider: %s (status %d)", e.Message, e.Status)
}

// Verification types accepted by Verify and Resend.
const (
	VerificationSignup      = "signup"
	VerificationRecovery    = "recovery"
	VerificationEmailChange = "email_change"
)

// Client talks to the identity provider's REST API.
type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client
	logger  *zerolog.Logger
}

// NewClient creates an identity Client from config.
func NewClient(cfg *config.Config, logger *zerolog.Logger) *Client {
	return &Client{
		baseURL: strings.TrimRight(cfg.Auth.ProviderURL, "/"),
		apiKey:  cfg.Auth.APIKey,
		http:    &http.Client{Timeout: 10 * time.Second},
		logger:  logger,
	}
}

// Signup registers a new account with the provider.
//
// Depending on the provider's email-confirmation setting the response
// is either a bare user (confirmation pending) or a full session; the
// user is returned either way.
func (c *Client) Signup(ctx context.Context, email, password, fullName string) (*User, error) {
	body := map[string]any{
		"email":    email,
		"password": password,
		"data": map[string]any{
			"full_name": fullName,
		},
	}

	raw, err := c.do(ctx, http.MethodPost, "/signup", body, "")
	if err != nil {
		return nil, err
	}

	var session Session
	if err := json.Unmarshal(raw, &session); err == nil && session.AccessToken != "" {
		return &session.User, nil
	}

	var user User
	if err := json.Unmarshal(raw, &user); err != nil {
		return nil, errors.Wrap(err, "decoding signup response")
	}
	return &user, nil
}

// SignInWithPassword exchanges credentials for a session
// (the password grant).
func (c *Client) SignInWithPassword(ctx context.Context, email, password string) (*Session, error) {
	body := map[string]any{
		"email":    email,
		"password": password,
	}
	return c.session(ctx, "/token?grant_type=password", body)
}

// RefreshSession exchanges a refresh token for a fresh session.
func (c *Client) RefreshSession(ctx context.Context, refreshToken string) (*Session, error) {
	body := map[string]any{
		"refresh_token": refreshToken,
	}
	return c.session(ctx, "/token?grant_type=refresh_token", body)
}

// Verify redeems a verification token (signup confirmation, recovery,
// or email change) and returns the resulting session.
func (c *Client) Verify(ctx context.Context, verificationType, token string) (*Session, error) {
	body := map[string]any{
		"type":  verificationType,
		"token": token,
	}
	return c.session(ctx, "/verify", body)
}

// Recover asks the provider to send a password-recovery email.
func (c *Client) Recover(ctx context.Context, email string) error {
	body := map[string]any{
		"email": email,
	}
	_, err := c.do(ctx, http.MethodPost, "/recover", body, "")
	return err
}

// Resend asks the provider to resend a verification email.
func (c *Client) Resend(ctx context.Context, verificationType, email string) error {
	body := map[string]any{
		"type":  verificationType,
		"email": email,
	}
	_, err := c.do(ctx, http.MethodPost, "/resend", body, "")
	return err
}

// UpdatePassword sets a new password for the account the access token
// belongs to.
func (c *Client) UpdatePassword(ctx context.Context, accessToken, newPassword string) error {
	body := map[string]any{
		"password": newPassword,
	}
	_, err := c.do(ctx, http.MethodPut, "/user", body, accessToken)
	return err
}

func (c *Client) session(ctx context.Context, path string, body any) (*Session, error) {
	raw, err := c.do(ctx, http.MethodPost, path, body, "")
	if err != nil {
		return nil, err
	}

	var session Session
	if err := json.Unmarshal(raw, &session); err != nil {
		return nil, errors.Wrap(err, "decoding session response")
	}
	return &session, nil
}

// do performs one provider call and returns the raw response body.
// Non-2xx responses become *identity.Error with the provider's
// message extracted from its (several) error body shapes.
func (c *Client) do(ctx context.Context, method, path string, body any, bearer string) ([]byte, error) {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, errors.Wrap(err, "encoding request body")
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, errors.Wrap(err, "building provider request")
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("apikey", c.apiKey)
	if bearer == "" {
		bearer = c.apiKey
	}
	req.Header.Set("Authorization", "Bearer "+bearer)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "calling identity provider")
	}
	defer func() { _ = resp.Body.Close() }()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.Wrap(err, "reading provider response")
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.logger.Warn().
			Int("status", resp.StatusCode).
			Str("path", path).
			Msg("identity provider returned an error")

		return nil, &Error{
			Status:  resp.StatusCode,
			Message: extractErrorMessage(raw),
		}
	}

	return raw, nil
}

// extractErrorMessage pulls a human message out of the provider's
// error body. GoTrue uses several shapes depending on the endpoint.
func extractErrorMessage(raw []byte) string {
	var body struct {
		ErrorDescription string `json:"error_description"`
		Msg              string `json:"msg"`
		Message          string `json:"message"`
		ErrorText        string `json:"error"`
	}
	if err := json.Unmarshal(raw, &body); err == nil {
		for _, candidate := range []string{body.ErrorDescription, body.Msg, body.Message, body.ErrorText} {
			if candidate != "" {
				return candidate
			}
		}
	}
	return "Authentication request failed"
}
