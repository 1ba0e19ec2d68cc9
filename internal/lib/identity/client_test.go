package identity

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/icangrow/icangrow-api/internal/config"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) (*Client, *httptest.Server) {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	logger := zerolog.Nop()
	client := NewClient(&config.Config{
		Auth: config.AuthConfig{
			ProviderURL: srv.URL,
			APIKey:      "test-api-key",
		},
	}, &logger)

	return client, srv
}

func TestSignInWithPassword(t *testing.T) {
	var gotPath, gotGrant, gotAPIKey string
	var gotBody map[string]any

	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotGrant = r.URL.Query().Get("grant_type")
		gotAPIKey = r.Header.Get("apikey")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))

		_ = json.NewEncoder(w).Encode(Session{
			AccessToken:  "access",
			RefreshToken: "refresh",
			TokenType:    "bearer",
			ExpiresIn:    3600,
			User:         User{ID: "u1", Email: "jane@x.com"},
		})
	})

	session, err := client.SignInWithPassword(context.Background(), "jane@x.com", "Secret1x")
	require.NoError(t, err)

	assert.Equal(t, "/token", gotPath)
	assert.Equal(t, "password", gotGrant)
	assert.Equal(t, "test-api-key", gotAPIKey)
	assert.Equal(t, "jane@x.com", gotBody["email"])
	assert.Equal(t, "access", session.AccessToken)
	assert.Equal(t, "u1", session.User.ID)
}

func TestSignupReturnsUserWithoutSession(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/signup", r.URL.Path)

		// Confirmation pending: the provider returns a bare user.
		_ = json.NewEncoder(w).Encode(User{ID: "u2", Email: "new@x.com"})
	})

	user, err := client.Signup(context.Background(), "new@x.com", "Secret1x", "New User")
	require.NoError(t, err)
	assert.Equal(t, "u2", user.ID)
	assert.Equal(t, "new@x.com", user.Email)
}

func TestSignupReturnsUserFromSession(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		// Autoconfirm on: the provider returns a full session.
		_ = json.NewEncoder(w).Encode(Session{
			AccessToken: "access",
			User:        User{ID: "u3", Email: "auto@x.com"},
		})
	})

	user, err := client.Signup(context.Background(), "auto@x.com", "Secret1x", "Auto User")
	require.NoError(t, err)
	assert.Equal(t, "u3", user.ID)
}

func TestUpdatePasswordUsesProvidedBearer(t *testing.T) {
	var gotAuth string
	var gotMethod string

	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotMethod = r.Method
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{}`))
	})

	err := client.UpdatePassword(context.Background(), "session-token", "NewSecret1")
	require.NoError(t, err)

	assert.Equal(t, http.MethodPut, gotMethod)
	assert.Equal(t, "Bearer session-token", gotAuth)
}

func TestErrorExtraction(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"oauth shape", `{"error":"invalid_grant","error_description":"Invalid login credentials"}`, "Invalid login credentials"},
		{"gotrue msg shape", `{"code":422,"msg":"Password should be at least 6 characters"}`, "Password should be at least 6 characters"},
		{"message shape", `{"message":"User not found"}`, "User not found"},
		{"unknown shape", `<html>gateway timeout</html>`, "Authentication request failed"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusBadRequest)
				_, _ = w.Write([]byte(tt.body))
			})

			_, err := client.SignInWithPassword(context.Background(), "x@x.com", "bad")

			var provErr *Error
			require.ErrorAs(t, err, &provErr)
			assert.Equal(t, http.StatusBadRequest, provErr.Status)
			assert.Equal(t, tt.want, provErr.Message)
		})
	}
}

func TestVerifySendsTypeAndToken(t *testing.T) {
	var gotBody map[string]any

	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/verify", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		_ = json.NewEncoder(w).Encode(Session{AccessToken: "access"})
	})

	_, err := client.Verify(context.Background(), VerificationRecovery, "tok")
	require.NoError(t, err)

	assert.Equal(t, "recovery", gotBody["type"])
	assert.Equal(t, "tok", gotBody["token"])
}
