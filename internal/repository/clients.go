package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"github.com/icangrow/icangrow-api/internal/server"
)

// Client is a client record as stored in the clients table.
//
// Optional columns are pointers so a missing value serializes as JSON
// null, matching what the frontend expects.
type Client struct {
	ID            uuid.UUID  `json:"id"`
	Name          string     `json:"name"`
	Email         string     `json:"email"`
	Phone         *string    `json:"phone"`
	Company       *string    `json:"company"`
	Address       *string    `json:"address"`
	LicenseNumber *string    `json:"license_number"`
	Notes         *string    `json:"notes"`
	ClientType    string     `json:"client_type"`
	Status        string     `json:"status"`
	CreatedBy     uuid.UUID  `json:"created_by"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

// ClientFilter narrows a listing. Empty or "all" dimensions are
// ignored; Search matches name, email, or license number.
type ClientFilter struct {
	Search string
	Status string
	Type   string
}

// CreateClientParams carries the columns for an INSERT.
type CreateClientParams struct {
	Name          string
	Email         string
	Phone         *string
	Company       *string
	Address       *string
	LicenseNumber *string
	Notes         *string
	ClientType    string
	Status        string
	CreatedBy     uuid.UUID
}

// UpdateClientParams carries a partial update; nil fields are left
// untouched. updated_at is always bumped, even for an empty update.
type UpdateClientParams struct {
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

const clientColumns = `id, name, email, phone, company, address, license_number, notes, client_type, status, created_by, created_at, updated_at`

// ClientsRepository runs all SQL for the clients table.
type ClientsRepository struct {
	pool   *pgxpool.Pool
	logger *zerolog.Logger
}

// NewClientsRepository constructs a ClientsRepository from the shared
// application container.
func NewClientsRepository(s *server.Server) *ClientsRepository {
	return &ClientsRepository{
		pool:   s.DB.Pool,
		logger: s.Logger,
	}
}

// buildListQuery composes the filtered listing query.
//
// Dimensions combine with AND; the search term expands into an OR
// across name, email and license_number using case-insensitive
// substring matching. "all" on a dimension means the same as leaving
// it out. Results are always newest-first.
func buildListQuery(filter ClientFilter) (string, []any) {
	var sb strings.Builder
	sb.WriteString(`SELECT ` + clientColumns + ` FROM clients`)

	var conds []string
	var args []any

	if filter.Status != "" && filter.Status != "all" {
		args = append(args, filter.Status)
		conds = append(conds, fmt.Sprintf("status = $%d", len(args)))
	}

	if filter.Type != "" && filter.Type != "all" {
		args = append(args, filter.Type)
		conds = append(conds, fmt.Sprintf("client_type = $%d", len(args)))
	}

	if filter.Search != "" {
		args = append(args, "%"+filter.Search+"%")
		n := len(args)
		conds = append(conds, fmt.Sprintf("(name ILIKE $%d OR email ILIKE $%d OR license_number ILIKE $%d)", n, n, n))
	}

	if len(conds) > 0 {
		sb.WriteString(" WHERE " + strings.Join(conds, " AND "))
	}

	sb.WriteString(" ORDER BY created_at DESC")

	return sb.String(), args
}

// List returns all clients matching the filter, newest first.
func (r *ClientsRepository) List(ctx context.Context, filter ClientFilter) ([]Client, error) {
	query, args := buildListQuery(filter)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var clients []Client
	for rows.Next() {
		var c Client
		if err := scanClient(rows, &c); err != nil {
			return nil, err
		}
		clients = append(clients, c)
	}

	return clients, rows.Err()
}

// Create inserts a new client and returns the stored row.
func (r *ClientsRepository) Create(ctx context.Context, params CreateClientParams) (*Client, error) {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO clients (name, email, phone, company, address, license_number, notes, client_type, status, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING `+clientColumns,
		params.Name,
		params.Email,
		params.Phone,
		params.Company,
		params.Address,
		params.LicenseNumber,
		params.Notes,
		params.ClientType,
		params.Status,
		params.CreatedBy,
	)

	var c Client
	if err := scanClient(row, &c); err != nil {
		return nil, err
	}

	return &c, nil
}

// Update applies a partial update and returns the stored row.
// Returns pgx.ErrNoRows when the id is unknown. updated_at is bumped
// on every call, including one with no field changes.
func (r *ClientsRepository) Update(ctx context.Context, id uuid.UUID, params UpdateClientParams) (*Client, error) {
	sets := []string{"updated_at = now()"}
	args := []any{id}

	appendSet := func(column string, value any) {
		args = append(args, value)
		sets = append(sets, fmt.Sprintf("%s = $%d", column, len(args)))
	}

	// Optional columns treat an explicit empty string as "clear it".
	appendSetNullable := func(column string, value string) {
		args = append(args, value)
		sets = append(sets, fmt.Sprintf("%s = NULLIF($%d, '')", column, len(args)))
	}

	if params.Name != nil {
		appendSet("name", *params.Name)
	}
	if params.Email != nil {
		appendSet("email", *params.Email)
	}
	if params.Phone != nil {
		appendSetNullable("phone", *params.Phone)
	}
	if params.Company != nil {
		appendSetNullable("company", *params.Company)
	}
	if params.Address != nil {
		appendSetNullable("address", *params.Address)
	}
	if params.LicenseNumber != nil {
		appendSetNullable("license_number", *params.LicenseNumber)
	}
	if params.Notes != nil {
		appendSetNullable("notes", *params.Notes)
	}
	if params.ClientType != nil {
		appendSet("client_type", *params.ClientType)
	}
	if params.Status != nil {
		appendSet("status", *params.Status)
	}

	query := fmt.Sprintf(`UPDATE clients SET %s WHERE id = $1 RETURNING %s`, strings.Join(sets, ", "), clientColumns)

	row := r.pool.QueryRow(ctx, query, args...)

	var c Client
	if err := scanClient(row, &c); err != nil {
		return nil, err
	}

	return &c, nil
}

// Archive flips a client's status to archived. A missing id is not an
// error; archiving is idempotent.
func (r *ClientsRepository) Archive(ctx context.Context, id uuid.UUID) error {
	_, err := r.pool.Exec(ctx, `UPDATE clients SET status = 'archived', updated_at = now() WHERE id = $1`, id)
	return err
}

// Delete removes a client permanently. A missing id is not an error;
// deletion is idempotent.
func (r *ClientsRepository) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM clients WHERE id = $1`, id)
	return err
}

// scanClient scans a row in clientColumns order.
func scanClient(row pgx.Row, c *Client) error {
	return row.Scan(
		&c.ID,
		&c.Name,
		&c.Email,
		&c.Phone,
		&c.Company,
		&c.Address,
		&c.LicenseNumber,
		&c.Notes,
		&c.ClientType,
		&c.Status,
		&c.CreatedBy,
		&c.CreatedAt,
		&c.UpdatedAt,
	)
}
