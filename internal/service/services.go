package service

import (
	"github.com/icangrow/icangrow-api/internal/lib/job"
	"github.com/icangrow/icangrow-api/internal/repository"
	"github.com/icangrow/icangrow-api/internal/server"
)

// Services is a container for all business-logic services, built once
// at startup and injected into the handler layer.
type Services struct {
	Auth    *AuthService
	Clients *ClientsService
	Job     *job.JobService
}

// NewService constructs the service container.
func NewService(s *server.Server, repos *repository.Repositories) (*Services, error) {
	return &Services{
		Auth:    NewAuthService(s),
		Clients: NewClientsService(s, repos.Clients),
		Job:     s.Job,
	}, nil
}
