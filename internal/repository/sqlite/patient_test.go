package sqlite

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwalitptl/ledger-api/internal/model"
	"github.com/jwalitptl/ledger-api/internal/repository"
	apperrors "github.com/jwalitptl/ledger-api/pkg/errors"
)

func newTestRepo(t *testing.T) repository.PatientRepository {
	t.Helper()
	db, err := NewDB(filepath.Join(t.TempDir(), "clinic.db"))
	require.NoError(t, err)
	repo := NewPatientRepository(db)
	t.Cleanup(func() { repo.Close() })
	return repo
}

func samplePatient() *model.Patient {
	return &model.Patient{
		Name:   "Asha Rao",
		Age:    41,
		Gender: "Female",
		Phone:  "9876543210",
		Charge: 500,
		Notes:  "follow-up weekly",
		Visits: []model.Visit{
			{Date: "2024-01-05", Count: 1, Charge: 500},
		},
		Payments: []model.Payment{
			{Date: "2024-01-10", Amount: 200, Mode: "Cash"},
		},
	}
}

func TestUpsertAssignsID(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	stored, err := repo.Upsert(ctx, samplePatient())
	require.NoError(t, err)
	assert.NotZero(t, stored.ID)

	second, err := repo.Upsert(ctx, samplePatient())
	require.NoError(t, err)
	assert.NotEqual(t, stored.ID, second.ID)
}

func TestUpsertRoundTrip(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	stored, err := repo.Upsert(ctx, samplePatient())
	require.NoError(t, err)

	loaded, err := repo.LoadAll(ctx)
	require.NoError(t, err)
	require.Len(t, loaded, 1)
	assert.Equal(t, stored, loaded[0])
}

func TestUpsertUpdatesExisting(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	stored, err := repo.Upsert(ctx, samplePatient())
	require.NoError(t, err)

	stored.Notes = "discharged"
	stored.IsActive = true
	stored.Visits = append(stored.Visits, model.Visit{Date: "2024-01-06", Count: 2, Charge: 1000})

	_, err = repo.Upsert(ctx, stored)
	require.NoError(t, err)

	loaded, err := repo.LoadAll(ctx)
	require.NoError(t, err)
	require.Len(t, loaded, 1)
	assert.Equal(t, "discharged", loaded[0].Notes)
	assert.True(t, loaded[0].IsActive)
	assert.Len(t, loaded[0].Visits, 2)
}

func TestLoadAllInsertionOrder(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	for _, name := range []string{"First", "Second", "Third"} {
		p := samplePatient()
		p.Name = name
		_, err := repo.Upsert(ctx, p)
		require.NoError(t, err)
	}

	loaded, err := repo.LoadAll(ctx)
	require.NoError(t, err)
	require.Len(t, loaded, 3)
	assert.Equal(t, "First", loaded[0].Name)
	assert.Equal(t, "Third", loaded[2].Name)
}

func TestRemove(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	stored, err := repo.Upsert(ctx, samplePatient())
	require.NoError(t, err)

	require.NoError(t, repo.Remove(ctx, stored.ID))

	loaded, err := repo.LoadAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, loaded)

	err = repo.Remove(ctx, stored.ID)
	assert.True(t, apperrors.Is(err, apperrors.ErrNotFound))
}

func TestBulkReplace(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	_, err := repo.Upsert(ctx, samplePatient())
	require.NoError(t, err)

	incoming := []*model.Patient{
		{ID: 10, Name: "Imported", Visits: []model.Visit{}, Payments: []model.Payment{}},
		{Name: "Draft", Visits: []model.Visit{}, Payments: []model.Payment{}},
	}
	require.NoError(t, repo.BulkReplace(ctx, incoming))
	assert.NotZero(t, incoming[1].ID, "bulk replace assigns missing IDs")

	loaded, err := repo.LoadAll(ctx)
	require.NoError(t, err)
	require.Len(t, loaded, 2)
	assert.Equal(t, int64(10), loaded[0].ID)
	assert.Equal(t, "Imported", loaded[0].Name)
	assert.Equal(t, "Draft", loaded[1].Name)
}

func TestClear(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	_, err := repo.Upsert(ctx, samplePatient())
	require.NoError(t, err)

	require.NoError(t, repo.Clear(ctx))

	loaded, err := repo.LoadAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, loaded)
}
