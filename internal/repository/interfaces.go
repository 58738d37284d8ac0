package repository

import (
	"context"

	"github.com/jwalitptl/ledger-api/internal/model"
)

// PatientRepository is the durable storage contract behind the ledger.
// Implementations are technology-specific; callers see only this
// surface. LoadAll returns patients in insertion order. Upsert assigns
// an ID when the patient has none. BulkReplace is clear-then-insert as
// one transaction so a crash never leaves a partially-replaced table.
type PatientRepository interface {
	LoadAll(ctx context.Context) ([]*model.Patient, error)
	Upsert(ctx context.Context, patient *model.Patient) (*model.Patient, error)
	Remove(ctx context.Context, id int64) error
	Clear(ctx context.Context) error
	BulkReplace(ctx context.Context, patients []*model.Patient) error
	Close() error
}
