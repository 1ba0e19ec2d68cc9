package handler

import (
	"strings"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/icangrow/icangrow-api/internal/errs"
	"github.com/icangrow/icangrow-api/internal/middleware"
	"github.com/icangrow/icangrow-api/internal/repository"
	"github.com/icangrow/icangrow-api/internal/server"
	"github.com/icangrow/icangrow-api/internal/service"
	"github.com/icangrow/icangrow-api/internal/validation"
)

// ListClientsRequest filters the client listing. All dimensions are
// optional; the literal "all" means the same as leaving one out.
type ListClientsRequest struct {
	Search string `query:"search"`
	Status string `query:"status" validate:"omitempty,oneof=all prospect active inactive archived"`
	Type   string `query:"type" validate:"omitempty,oneof=all grower processor dispensary distributor other"`
}

func (r *ListClientsRequest) Validate() error {
	r.Search = strings.TrimSpace(r.Search)
	return validation.Struct(r)
}

// ClientStatsRequest has no inputs; the type exists so the stats
// endpoint runs through the same pipeline as everything else.
type ClientStatsRequest struct{}

func (r *ClientStatsRequest) Validate() error {
	return nil
}

// CreateClientRequest creates a client record. Name, email and
// client_type are required; everything else is optional and blank
// values are stored as null.
type CreateClientRequest struct {
	Name          string `json:"name" validate:"required,min=2,max=100"`
	Email         string `json:"email" validate:"required,email"`
	Phone         string `json:"phone" validate:"omitempty,max=20"`
	Company       string `json:"company" validate:"omitempty,max=100"`
	Address       string `json:"address" validate:"omitempty,max=200"`
	LicenseNumber string `json:"license_number" validate:"omitempty,max=50"`
	Notes         string `json:"notes" validate:"omitempty,max=1000"`
	ClientType    string `json:"client_type" validate:"required,oneof=grower processor dispensary distributor other"`
	Status        string `json:"status" validate:"omitempty,oneof=prospect active inactive archived"`
}

func (r *CreateClientRequest) Validate() error {
	r.Name = strings.TrimSpace(r.Name)
	r.Email = strings.ToLower(strings.TrimSpace(r.Email))
	return validation.Struct(r)
}

// UpdateClientRequest is a partial update: nil fields are left
// untouched, provided blanks clear the column.
type UpdateClientRequest struct {
	ID            string  `param:"id" validate:"required,uuid"`
	Name          *string `json:"name" validate:"omitempty,min=2,max=100"`
	Email         *string `json:"email" validate:"omitempty,email"`
	Phone         *string `json:"phone" validate:"omitempty,max=20"`
	Company       *string `json:"company" validate:"omitempty,max=100"`
	Address       *string `json:"address" validate:"omitempty,max=200"`
	LicenseNumber *string `json:"license_number" validate:"omitempty,max=50"`
	Notes         *string `json:"notes" validate:"omitempty,max=1000"`
	ClientType    *string `json:"client_type" validate:"omitempty,oneof=grower processor dispensary distributor other"`
	Status        *string `json:"status" validate:"omitempty,oneof=prospect active inactive archived"`
}

func (r *UpdateClientRequest) Validate() error {
	if r.Name != nil {
		trimmed := strings.TrimSpace(*r.Name)
		r.Name = &trimmed
	}
	if r.Email != nil {
		lowered := strings.ToLower(strings.TrimSpace(*r.Email))
		r.Email = &lowered
	}
	return validation.Struct(r)
}

// ClientIDRequest carries just the path id, used by archive/delete.
type ClientIDRequest struct {
	ID string `param:"id" validate:"required,uuid"`
}

func (r *ClientIDRequest) Validate() error {
	return validation.Struct(r)
}

// ClientsHandler serves the client-record CRUD endpoints.
type ClientsHandler struct {
	Handler
	clients *service.ClientsService
}

// NewClientsHandler constructs a ClientsHandler.
func NewClientsHandler(s *server.Server, services *service.Services) *ClientsHandler {
	return &ClientsHandler{
		Handler: NewHandler(s),
		clients: services.Clients,
	}
}

// List returns clients matching the query filters, newest first.
func (h *ClientsHandler) List(c echo.Context, req *ListClientsRequest) (*Response, error) {
	clients, err := h.clients.List(c.Request().Context(), repository.ClientFilter{
		Search: req.Search,
		Status: req.Status,
		Type:   req.Type,
	})
	if err != nil {
		return nil, err
	}

	return &Response{
		Success: true,
		Data:    clients,
	}, nil
}

// Stats returns client counts grouped by status.
func (h *ClientsHandler) Stats(c echo.Context, req *ClientStatsRequest) (*Response, error) {
	stats, err := h.clients.Stats(c.Request().Context())
	if err != nil {
		return nil, err
	}

	return &Response{
		Success: true,
		Data:    stats,
	}, nil
}

// Create inserts a new client owned by the authenticated user.
func (h *ClientsHandler) Create(c echo.Context, req *CreateClientRequest) (*Response, error) {
	userID := middleware.GetUserID(c)
	if userID == "" {
		return nil, errs.NewUnauthorizedError("Unauthorized")
	}

	createdBy, err := uuid.Parse(userID)
	if err != nil {
		return nil, errs.NewUnauthorizedError("Unauthorized")
	}

	client, err := h.clients.Create(c.Request().Context(), service.CreateClientInput{
		Name:          req.Name,
		Email:         req.Email,
		Phone:         req.Phone,
		Company:       req.Company,
		Address:       req.Address,
		LicenseNumber: req.LicenseNumber,
		Notes:         req.Notes,
		ClientType:    req.ClientType,
		Status:        req.Status,
		CreatedBy:     createdBy,
	})
	if err != nil {
		return nil, err
	}

	return &Response{
		Success: true,
		Message: "Client created successfully",
		Data:    client,
	}, nil
}

// Update applies a partial update to a client.
func (h *ClientsHandler) Update(c echo.Context, req *UpdateClientRequest) (*Response, error) {
	id, err := uuid.Parse(req.ID)
	if err != nil {
		return nil, errs.NewBadRequestError("Invalid client id")
	}

	client, err := h.clients.Update(c.Request().Context(), id, service.UpdateClientInput{
		Name:          req.Name,
		Email:         req.Email,
		Phone:         req.Phone,
		Company:       req.Company,
		Address:       req.Address,
		LicenseNumber: req.LicenseNumber,
		Notes:         req.Notes,
		ClientType:    req.ClientType,
		Status:        req.Status,
	})
	if err != nil {
		return nil, err
	}

	return &Response{
		Success: true,
		Message: "Client updated successfully",
		Data:    client,
	}, nil
}

// Archive forces a client's status to archived.
func (h *ClientsHandler) Archive(c echo.Context, req *ClientIDRequest) (*Response, error) {
	id, err := uuid.Parse(req.ID)
	if err != nil {
		return nil, errs.NewBadRequestError("Invalid client id")
	}

	if err := h.clients.Archive(c.Request().Context(), id); err != nil {
		return nil, err
	}

	return &Response{
		Success: true,
		Message: "Client archived successfully",
	}, nil
}

// Delete removes a client permanently.
func (h *ClientsHandler) Delete(c echo.Context, req *ClientIDRequest) (*Response, error) {
	id, err := uuid.Parse(req.ID)
	if err != nil {
		return nil, errs.NewBadRequestError("Invalid client id")
	}

	if err := h.clients.Delete(c.Request().Context(), id); err != nil {
		return nil, err
	}

	return &Response{
		Success: true,
		Message: "Client deleted successfully",
	}, nil
}
