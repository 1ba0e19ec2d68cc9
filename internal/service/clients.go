package service

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/icangrow/icangrow-api/internal/errs"
	"github.com/icangrow/icangrow-api/internal/repository"
	"github.com/icangrow/icangrow-api/internal/server"
	"github.com/icangrow/icangrow-api/internal/sqlerr"
)

// emailConflictMessage is the fixed user-facing message for a
// duplicate client email; underlying constraint detail never leaks.
const emailConflictMessage = "A client with this email already exists"

// ClientStore abstracts client persistence so the service can be
// tested against a fake store. *repository.ClientsRepository is the
// production implementation.
type ClientStore interface {
	List(ctx context.Context, filter repository.ClientFilter) ([]repository.Client, error)
	Create(ctx context.Context, params repository.CreateClientParams) (*repository.Client, error)
	Update(ctx context.Context, id uuid.UUID, params repository.UpdateClientParams) (*repository.Client, error)
	Archive(ctx context.Context, id uuid.UUID) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// CreateClientInput is the normalized-to-be input for creating a
// client. Optional fields are plain strings; blanks become NULL at
// the store.
type CreateClientInput struct {
	Name          string
	Email         string
	Phone         string
	Company       string
	Address       string
	LicenseNumber string
	Notes         string
	ClientType    string
	Status        string
	CreatedBy     uuid.UUID
}

// UpdateClientInput is a partial update; nil fields stay untouched,
// a provided blank clears the column.
type UpdateClientInput struct {
	Name          *string
	Email         *string
	Phone         *string
	Company       *string
	Address       *string
	LicenseNumber *string
	Notes         *string
	ClientType    *string
	Status        *string
}

// ClientStats is the aggregate view served by the stats endpoint.
type ClientStats struct {
	TotalClients    int `json:"total_clients"`
	ActiveClients   int `json:"active_clients"`
	ProspectClients int `json:"prospect_clients"`
	ArchivedClients int `json:"archived_clients"`
}

// ClientsService implements the business logic for client records.
type ClientsService struct {
	server *server.Server
	store  ClientStore
}

// NewClientsService constructs a ClientsService.
func NewClientsService(s *server.Server, store ClientStore) *ClientsService {
	return &ClientsService{
		server: s,
		store:  store,
	}
}

// List returns clients matching the filter, newest first. An empty
// result is a valid outcome, not an error.
func (svc *ClientsService) List(ctx context.Context, filter repository.ClientFilter) ([]repository.Client, error) {
	clients, err := svc.store.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	// Serialize as [] rather than null when nothing matches.
	if clients == nil {
		clients = []repository.Client{}
	}

	return clients, nil
}

// Create normalizes the input and inserts a new client. A uniqueness
// violation on email surfaces as a 409 with a fixed message.
func (svc *ClientsService) Create(ctx context.Context, input CreateClientInput) (*repository.Client, error) {
	status := strings.TrimSpace(input.Status)
	if status == "" {
		status = "prospect"
	}

	params := repository.CreateClientParams{
		Name:          strings.TrimSpace(input.Name),
		Email:         strings.ToLower(strings.TrimSpace(input.Email)),
		Phone:         optional(input.Phone),
		Company:       optional(input.Company),
		Address:       optional(input.Address),
		LicenseNumber: optional(input.LicenseNumber),
		Notes:         optional(input.Notes),
		ClientType:    strings.TrimSpace(input.ClientType),
		Status:        status,
		CreatedBy:     input.CreatedBy,
	}

	client, err := svc.store.Create(ctx, params)
	if err != nil {
		if sqlerr.IsUniqueViolation(err, "email") {
			return nil, errs.NewConflictError(emailConflictMessage)
		}
		return nil, err
	}

	return client, nil
}

// Update applies a partial update. Absent fields stay as they are;
// provided free-text fields are trimmed, email lowercased. The same
// email-conflict rule as Create applies.
func (svc *ClientsService) Update(ctx context.Context, id uuid.UUID, input UpdateClientInput) (*repository.Client, error) {
	params := repository.UpdateClientParams{
		Name:          trimmed(input.Name),
		Email:         lowered(input.Email),
		Phone:         trimmed(input.Phone),
		Company:       trimmed(input.Company),
		Address:       trimmed(input.Address),
		LicenseNumber: trimmed(input.LicenseNumber),
		Notes:         trimmed(input.Notes),
		ClientType:    trimmed(input.ClientType),
		Status:        trimmed(input.Status),
	}

	client, err := svc.store.Update(ctx, id, params)
	if err != nil {
		if sqlerr.IsUniqueViolation(err, "email") {
			return nil, errs.NewConflictError(emailConflictMessage)
		}
		return nil, err
	}

	return client, nil
}

// Archive forces a client's status to archived. Idempotent: archiving
// an already-archived or unknown id succeeds.
func (svc *ClientsService) Archive(ctx context.Context, id uuid.UUID) error {
	return svc.store.Archive(ctx, id)
}

// Delete removes a client permanently. Idempotent like Archive.
func (svc *ClientsService) Delete(ctx context.Context, id uuid.UUID) error {
	return svc.store.Delete(ctx, id)
}

// Stats lists the full collection and counts statuses in memory; the
// totals partition the set exactly (statuses outside the three named
// buckets still count toward the total).
func (svc *ClientsService) Stats(ctx context.Context) (*ClientStats, error) {
	clients, err := svc.store.List(ctx, repository.ClientFilter{})
	if err != nil {
		return nil, err
	}

	stats := &ClientStats{TotalClients: len(clients)}
	for _, c := range clients {
		switch c.Status {
		case "active":
			stats.ActiveClients++
		case "prospect":
			stats.ProspectClients++
		case "archived":
			stats.ArchivedClients++
		}
	}

	return stats, nil
}

// optional trims a free-text field and maps a blank to nil so it is
// stored as NULL, not empty string.
func optional(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}

// trimmed trims a provided-or-absent field, preserving absence.
func trimmed(s *string) *string {
	if s == nil {
		return nil
	}
	t := strings.TrimSpace(*s)
	return &t
}

// lowered trims and lowercases a provided-or-absent field.
func lowered(s *string) *string {
	if s == nil {
		return nil
	}
	t := strings.ToLower(strings.TrimSpace(*s))
	return &t
}
