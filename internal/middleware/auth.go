package middleware

import (
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/icangrow/icangrow-api/internal/errs"
	"github.com/icangrow/icangrow-api/internal/server"
)

// jwtLeeway absorbs small clock drift between this service and the
// identity provider when checking exp/iat/nbf.
const jwtLeeway = 10 * time.Second

// accessTokenClaims are the claims carried by the identity provider's
// access tokens that this API cares about.
type accessTokenClaims struct {
	jwt.RegisteredClaims
	Email string `json:"email,omitempty"`
}

// AuthMiddleware enforces Bearer-token authentication.
//
// Access tokens are HS256 JWTs signed by the identity provider with a
// shared secret; they are verified locally, no provider round-trip
// per request.
type AuthMiddleware struct {
	server *server.Server
}

// NewAuthMiddleware constructs an AuthMiddleware.
func NewAuthMiddleware(s *server.Server) *AuthMiddleware {
	return &AuthMiddleware{
		server: s,
	}
}

// RequireAuth is an Echo middleware that rejects requests without a
// valid Bearer token.
//
// On success it stores the token's subject and email into Echo
// context (user_id / user_email) for handlers to read. Every failure
// mode (missing header, malformed token, bad signature, expiry)
// collapses into the same 401 response so the error doesn't reveal
// which check failed.
func (auth *AuthMiddleware) RequireAuth(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		start := time.Now()

		token := extractBearerToken(c)
		if token == "" {
			auth.server.Logger.Warn().
				Str("function", "RequireAuth").
				Str("request_id", GetRequestID(c)).
				Dur("duration", time.Since(start)).
				Msg("missing bearer token")

			return errs.NewUnauthorizedError("Unauthorized")
		}

		claims, err := auth.validateToken(token)
		if err != nil {
			auth.server.Logger.Warn().
				Err(err).
				Str("function", "RequireAuth").
				Str("request_id", GetRequestID(c)).
				Dur("duration", time.Since(start)).
				Msg("token validation failed")

			return errs.NewUnauthorizedError("Unauthorized")
		}

		c.Set(UserIDKey, claims.Subject)
		c.Set(UserEmailKey, claims.Email)

		auth.server.Logger.Debug().
			Str("function", "RequireAuth").
			Str("user_id", claims.Subject).
			Str("request_id", GetRequestID(c)).
			Dur("duration", time.Since(start)).
			Msg("user authenticated successfully")

		return next(c)
	}
}

// validateToken parses and verifies an access token, returning its
// claims. Only HMAC signing methods are accepted; an RS256 token with
// a forged header must not slip through the keyfunc.
func (auth *AuthMiddleware) validateToken(tokenString string) (*accessTokenClaims, error) {
	claims := &accessTokenClaims{}

	token, err := jwt.ParseWithClaims(
		tokenString,
		claims,
		func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, errors.Errorf("unexpected signing method: %v", token.Header["alg"])
			}
			return []byte(auth.server.Config.Auth.JWTSecret), nil
		},
		jwt.WithValidMethods([]string{"HS256"}),
		jwt.WithLeeway(jwtLeeway),
	)
	if err != nil {
		return nil, err
	}

	if !token.Valid {
		return nil, errors.New("invalid token")
	}

	if claims.Subject == "" {
		return nil, errors.New("token has no subject")
	}

	return claims, nil
}

// extractBearerToken pulls the token out of the Authorization header.
// Returns "" when the header is absent or not a Bearer scheme.
func extractBearerToken(c echo.Context) string {
	header := c.Request().Header.Get(echo.HeaderAuthorization)
	if header == "" {
		return ""
	}

	const prefix = "Bearer "
	if !strings.HasPrefix(header, prefix) {
		return ""
	}

	return strings.TrimSpace(strings.TrimPrefix(header, prefix))
}
