// Package router initializes the HTTP router (using Echo).
//
// It registers the middlewares and defines the API route groups,
// mapping specific paths to their corresponding handlers.
package router

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/icangrow/icangrow-api/internal/handler"
	"github.com/icangrow/icangrow-api/internal/middleware"
	"github.com/icangrow/icangrow-api/internal/server"
)

// New builds the Echo instance: global middleware in order, the
// global error handler, and all route groups under /api/v1.
func New(s *server.Server, h *handler.Handlers, m *middleware.Middlewares) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	// Order matters: request id first so every later layer can
	// correlate, tracing before the context enhancer so trace ids
	// land in the request logger.
	e.Use(middleware.RequestID())
	e.Use(m.Tracing.NewRelicMiddleware())
	e.Use(m.ContextEnhancer.EnhanceContext())
	e.Use(m.Tracing.EnhanceTracing())
	e.Use(m.Global.CORS())
	e.Use(m.Global.Secure())
	e.Use(m.Global.RequestLogger())
	e.Use(m.Global.Recover())
	e.Use(m.RateLimit.Limit())

	e.HTTPErrorHandler = m.Global.GlobalErrorHandler

	registerSystemRoutes(e, h)

	api := e.Group("/api/v1")

	registerAuthRoutes(api, h, m)
	registerClientRoutes(api, h, m)

	return e
}

func registerAuthRoutes(api *echo.Group, h *handler.Handlers, m *middleware.Middlewares) {
	auth := api.Group("/auth")

	auth.POST("/signup", handler.Handle(h.Auth.Handler, h.Auth.Signup, http.StatusCreated, func() *handler.SignupRequest {
		return &handler.SignupRequest{}
	}))
	auth.POST("/login", handler.Handle(h.Auth.Handler, h.Auth.Login, http.StatusOK, func() *handler.LoginRequest {
		return &handler.LoginRequest{}
	}))
	auth.POST("/refresh", handler.Handle(h.Auth.Handler, h.Auth.Refresh, http.StatusOK, func() *handler.RefreshRequest {
		return &handler.RefreshRequest{}
	}))
	auth.POST("/verify-email", handler.Handle(h.Auth.Handler, h.Auth.VerifyEmail, http.StatusOK, func() *handler.VerifyEmailRequest {
		return &handler.VerifyEmailRequest{}
	}))
	auth.POST("/resend-verification", handler.Handle(h.Auth.Handler, h.Auth.ResendVerification, http.StatusOK, func() *handler.ResendVerificationRequest {
		return &handler.ResendVerificationRequest{}
	}))
	auth.POST("/forgot-password", handler.Handle(h.Auth.Handler, h.Auth.ForgotPassword, http.StatusOK, func() *handler.ForgotPasswordRequest {
		return &handler.ForgotPasswordRequest{}
	}))
	auth.POST("/reset-password", handler.Handle(h.Auth.Handler, h.Auth.ResetPassword, http.StatusOK, func() *handler.ResetPasswordRequest {
		return &handler.ResetPasswordRequest{}
	}))
	auth.POST("/change-password", handler.Handle(h.Auth.Handler, h.Auth.ChangePassword, http.StatusOK, func() *handler.ChangePasswordRequest {
		return &handler.ChangePasswordRequest{}
	}), m.Auth.RequireAuth)
}

func registerClientRoutes(api *echo.Group, h *handler.Handlers, m *middleware.Middlewares) {
	clients := api.Group("/clients", m.Auth.RequireAuth)

	clients.GET("", handler.Handle(h.Clients.Handler, h.Clients.List, http.StatusOK, func() *handler.ListClientsRequest {
		return &handler.ListClientsRequest{}
	}))
	clients.GET("/stats", handler.Handle(h.Clients.Handler, h.Clients.Stats, http.StatusOK, func() *handler.ClientStatsRequest {
		return &handler.ClientStatsRequest{}
	}))
	clients.POST("", handler.Handle(h.Clients.Handler, h.Clients.Create, http.StatusCreated, func() *handler.CreateClientRequest {
		return &handler.CreateClientRequest{}
	}))
	clients.PATCH("/:id", handler.Handle(h.Clients.Handler, h.Clients.Update, http.StatusOK, func() *handler.UpdateClientRequest {
		return &handler.UpdateClientRequest{}
	}))
	clients.PATCH("/:id/archive", handler.Handle(h.Clients.Handler, h.Clients.Archive, http.StatusOK, func() *handler.ClientIDRequest {
		return &handler.ClientIDRequest{}
	}))
	clients.DELETE("/:id", handler.Handle(h.Clients.Handler, h.Clients.Delete, http.StatusOK, func() *handler.ClientIDRequest {
		return &handler.ClientIDRequest{}
	}))
}
