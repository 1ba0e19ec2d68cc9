package handler

import (
	"github.com/icangrow/icangrow-api/internal/server"
	"github.com/icangrow/icangrow-api/internal/service"
)

// Handlers is a container that groups all HTTP handlers so router
// setup passes one object around instead of many.
type Handlers struct {
	Health  *HealthHandler
	Auth    *AuthHandler
	Clients *ClientsHandler
}

// NewHandlers constructs the handler container.
func NewHandlers(s *server.Server, services *service.Services) *Handlers {
	return &Handlers{
		Health:  NewHealthHandler(s),
		Auth:    NewAuthHandler(s, services),
		Clients: NewClientsHandler(s, services),
	}
}
