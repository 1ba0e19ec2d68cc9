package repository

import (
	"github.com/icangrow/icangrow-api/internal/server"
)

// Repositories is a container for all repository instances, built
// once at startup and injected into the service layer.
type Repositories struct {
	Clients *ClientsRepository
}

// NewRepositories constructs the repository container using the
// shared database pool from the application container.
func NewRepositories(s *server.Server) *Repositories {
	return &Repositories{
		Clients: NewClientsRepository(s),
	}
}
