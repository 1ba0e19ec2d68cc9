package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/icangrow/icangrow-api/internal/errs"
	"github.com/icangrow/icangrow-api/internal/repository"
)

// fakeClientStore records calls and plays back canned results.
type fakeClientStore struct {
	clients []repository.Client

	createErr    error
	updateErr    error
	lastCreate   repository.CreateClientParams
	lastUpdate   repository.UpdateClientParams
	archiveCalls int
	deleteCalls  int
}

func (f *fakeClientStore) List(ctx context.Context, filter repository.ClientFilter) ([]repository.Client, error) {
	return f.clients, nil
}

func (f *fakeClientStore) Create(ctx context.Context, params repository.CreateClientParams) (*repository.Client, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	f.lastCreate = params
	return &repository.Client{
		ID:        uuid.New(),
		Name:      params.Name,
		Email:     params.Email,
		Status:    params.Status,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}, nil
}

func (f *fakeClientStore) Update(ctx context.Context, id uuid.UUID, params repository.UpdateClientParams) (*repository.Client, error) {
	if f.updateErr != nil {
		return nil, f.updateErr
	}
	f.lastUpdate = params
	return &repository.Client{ID: id}, nil
}

func (f *fakeClientStore) Archive(ctx context.Context, id uuid.UUID) error {
	f.archiveCalls++
	return nil
}

func (f *fakeClientStore) Delete(ctx context.Context, id uuid.UUID) error {
	f.deleteCalls++
	return nil
}

func uniqueEmailViolation() error {
	return &pgconn.PgError{
		Code:           "23505",
		Severity:       "ERROR",
		Message:        `duplicate key value violates unique constraint "clients_email_key"`,
		TableName:      "clients",
		ConstraintName: "clients_email_key",
	}
}

func TestCreateNormalizesInput(t *testing.T) {
	store := &fakeClientStore{}
	svc := NewClientsService(nil, store)

	client, err := svc.Create(context.Background(), CreateClientInput{
		Name:       " Jane Doe ",
		Email:      "JANE@X.COM",
		Phone:      "   ",
		Company:    "",
		Notes:      "  some notes ",
		ClientType: "grower",
		Status:     "prospect",
		CreatedBy:  uuid.New(),
	})
	require.NoError(t, err)

	assert.Equal(t, "Jane Doe", store.lastCreate.Name)
	assert.Equal(t, "jane@x.com", store.lastCreate.Email)
	assert.Nil(t, store.lastCreate.Phone, "blank optional becomes null, not empty string")
	assert.Nil(t, store.lastCreate.Company)
	require.NotNil(t, store.lastCreate.Notes)
	assert.Equal(t, "some notes", *store.lastCreate.Notes)

	assert.Equal(t, "Jane Doe", client.Name)
	assert.Equal(t, "jane@x.com", client.Email)
}

func TestCreateDefaultsStatusToProspect(t *testing.T) {
	store := &fakeClientStore{}
	svc := NewClientsService(nil, store)

	_, err := svc.Create(context.Background(), CreateClientInput{
		Name:       "Jane Doe",
		Email:      "jane@x.com",
		ClientType: "grower",
	})
	require.NoError(t, err)

	assert.Equal(t, "prospect", store.lastCreate.Status)
}

func TestCreateTranslatesEmailConflict(t *testing.T) {
	store := &fakeClientStore{createErr: uniqueEmailViolation()}
	svc := NewClientsService(nil, store)

	_, err := svc.Create(context.Background(), CreateClientInput{
		Name:       "Jane Doe",
		Email:      "jane@x.com",
		ClientType: "grower",
	})

	var httpErr *errs.HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, 409, httpErr.Status)
	assert.Equal(t, "A client with this email already exists", httpErr.Message)
}

func TestCreatePassesThroughOtherErrors(t *testing.T) {
	cause := errors.New("connection refused")
	store := &fakeClientStore{createErr: cause}
	svc := NewClientsService(nil, store)

	_, err := svc.Create(context.Background(), CreateClientInput{
		Name:       "Jane Doe",
		Email:      "jane@x.com",
		ClientType: "grower",
	})

	assert.ErrorIs(t, err, cause)
}

func TestUpdateLeavesAbsentFieldsUntouched(t *testing.T) {
	store := &fakeClientStore{}
	svc := NewClientsService(nil, store)

	email := " NEW@X.COM "
	_, err := svc.Update(context.Background(), uuid.New(), UpdateClientInput{
		Email: &email,
	})
	require.NoError(t, err)

	require.NotNil(t, store.lastUpdate.Email)
	assert.Equal(t, "new@x.com", *store.lastUpdate.Email)
	assert.Nil(t, store.lastUpdate.Name)
	assert.Nil(t, store.lastUpdate.Phone)
	assert.Nil(t, store.lastUpdate.Status)
}

func TestUpdateTranslatesEmailConflict(t *testing.T) {
	store := &fakeClientStore{updateErr: uniqueEmailViolation()}
	svc := NewClientsService(nil, store)

	email := "taken@x.com"
	_, err := svc.Update(context.Background(), uuid.New(), UpdateClientInput{Email: &email})

	var httpErr *errs.HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, 409, httpErr.Status)
}

func TestListReturnsEmptySliceNotNil(t *testing.T) {
	svc := NewClientsService(nil, &fakeClientStore{})

	clients, err := svc.List(context.Background(), repository.ClientFilter{})
	require.NoError(t, err)

	assert.NotNil(t, clients)
	assert.Empty(t, clients)
}

func TestStatsPartitionTheCollection(t *testing.T) {
	store := &fakeClientStore{clients: []repository.Client{
		{Status: "active"},
		{Status: "active"},
		{Status: "prospect"},
		{Status: "archived"},
		{Status: "inactive"}, // outside the named buckets, still counted in total
	}}
	svc := NewClientsService(nil, store)

	stats, err := svc.Stats(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 5, stats.TotalClients)
	assert.Equal(t, 2, stats.ActiveClients)
	assert.Equal(t, 1, stats.ProspectClients)
	assert.Equal(t, 1, stats.ArchivedClients)
	assert.GreaterOrEqual(t, stats.TotalClients, stats.ActiveClients+stats.ProspectClients+stats.ArchivedClients)
}

func TestArchiveAndDeleteAreIdempotent(t *testing.T) {
	store := &fakeClientStore{}
	svc := NewClientsService(nil, store)

	id := uuid.New()
	require.NoError(t, svc.Archive(context.Background(), id))
	require.NoError(t, svc.Archive(context.Background(), id))
	assert.Equal(t, 2, store.archiveCalls)

	require.NoError(t, svc.Delete(context.Background(), id))
	require.NoError(t, svc.Delete(context.Background(), id))
	assert.Equal(t, 2, store.deleteCalls)
}
