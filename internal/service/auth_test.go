package service

import (
	"context"
	"net/http"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/icangrow/icangrow-api/internal/errs"
	"github.com/icangrow/icangrow-api/internal/lib/identity"
)

// fakeIdentity scripts provider responses per method.
type fakeIdentity struct {
	signInErr   error
	verifyErr   error
	updateErr   error
	session     *identity.Session
	updateCalls []string // access tokens UpdatePassword was called with
	verifyTypes []string
}

func (f *fakeIdentity) Signup(ctx context.Context, email, password, fullName string) (*identity.User, error) {
	return &identity.User{ID: "u1", Email: email}, nil
}

func (f *fakeIdentity) SignInWithPassword(ctx context.Context, email, password string) (*identity.Session, error) {
	if f.signInErr != nil {
		return nil, f.signInErr
	}
	return f.session, nil
}

func (f *fakeIdentity) RefreshSession(ctx context.Context, refreshToken string) (*identity.Session, error) {
	return f.session, nil
}

func (f *fakeIdentity) Verify(ctx context.Context, verificationType, token string) (*identity.Session, error) {
	f.verifyTypes = append(f.verifyTypes, verificationType)
	if f.verifyErr != nil {
		return nil, f.verifyErr
	}
	return f.session, nil
}

func (f *fakeIdentity) Recover(ctx context.Context, email string) error {
	return nil
}

func (f *fakeIdentity) Resend(ctx context.Context, verificationType, email string) error {
	return nil
}

func (f *fakeIdentity) UpdatePassword(ctx context.Context, accessToken, newPassword string) error {
	f.updateCalls = append(f.updateCalls, accessToken)
	return f.updateErr
}

func TestResetPasswordVerifiesRecoveryTokenFirst(t *testing.T) {
	fake := &fakeIdentity{session: &identity.Session{AccessToken: "recovery-session"}}
	svc := &AuthService{identity: fake}

	err := svc.ResetPassword(context.Background(), "token123", "NewSecret1")
	require.NoError(t, err)

	assert.Equal(t, []string{identity.VerificationRecovery}, fake.verifyTypes)
	assert.Equal(t, []string{"recovery-session"}, fake.updateCalls)
}

func TestResetPasswordStopsOnBadToken(t *testing.T) {
	fake := &fakeIdentity{verifyErr: &identity.Error{Status: http.StatusUnauthorized, Message: "token expired"}}
	svc := &AuthService{identity: fake}

	err := svc.ResetPassword(context.Background(), "stale", "NewSecret1")

	var httpErr *errs.HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusUnauthorized, httpErr.Status)
	assert.Empty(t, fake.updateCalls, "password must not change on a bad token")
}

func TestChangePasswordReauthenticates(t *testing.T) {
	fake := &fakeIdentity{session: &identity.Session{AccessToken: "fresh-session"}}
	svc := &AuthService{identity: fake}

	err := svc.ChangePassword(context.Background(), "jane@x.com", "OldSecret1", "NewSecret1")
	require.NoError(t, err)

	assert.Equal(t, []string{"fresh-session"}, fake.updateCalls)
}

func TestChangePasswordWrongCurrentPassword(t *testing.T) {
	fake := &fakeIdentity{signInErr: &identity.Error{Status: http.StatusBadRequest, Message: "invalid login credentials"}}
	svc := &AuthService{identity: fake}

	err := svc.ChangePassword(context.Background(), "jane@x.com", "wrong", "NewSecret1")

	var httpErr *errs.HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusUnauthorized, httpErr.Status)
	assert.Equal(t, "Current password is incorrect", httpErr.Message)
	assert.Empty(t, fake.updateCalls)
}

func TestTranslateIdentityError(t *testing.T) {
	tests := []struct {
		name       string
		in         error
		wantStatus int
	}{
		{"bad request passes message through", &identity.Error{Status: 400, Message: "weak password"}, 400},
		{"unprocessable maps to 400", &identity.Error{Status: 422, Message: "bad payload"}, 400},
		{"unauthorized", &identity.Error{Status: 401, Message: "nope"}, 401},
		{"forbidden", &identity.Error{Status: 403, Message: "denied"}, 403},
		{"not found", &identity.Error{Status: 404, Message: "no user"}, 404},
		{"rate limited maps to 400", &identity.Error{Status: 429, Message: "slow down"}, 400},
		{"server fault maps to 500", &identity.Error{Status: 502, Message: "upstream"}, 500},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var httpErr *errs.HTTPError
			require.ErrorAs(t, translateIdentityError(tt.in), &httpErr)
			assert.Equal(t, tt.wantStatus, httpErr.Status)
		})
	}
}

func TestTranslateIdentityErrorPassthrough(t *testing.T) {
	cause := errors.New("dial tcp: connection refused")
	assert.ErrorIs(t, translateIdentityError(cause), cause)
}
