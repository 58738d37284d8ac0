package sqlite

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/jwalitptl/ledger-api/internal/model"
	"github.com/jwalitptl/ledger-api/internal/repository"
	"github.com/jwalitptl/ledger-api/pkg/errors"
)

type patientRepository struct {
	db *sqlx.DB
}

func NewPatientRepository(db *sqlx.DB) repository.PatientRepository {
	return &patientRepository{db: db}
}

// patientRow is the table shape: scalar columns plus the visit and
// payment logs marshalled into JSON text columns.
type patientRow struct {
	ID       int64   `db:"id"`
	Name     string  `db:"name"`
	Age      int     `db:"age"`
	Gender   string  `db:"gender"`
	Phone    string  `db:"phone"`
	Address  string  `db:"address"`
	Charge   float64 `db:"charge"`
	Details  string  `db:"details"`
	Notes    string  `db:"notes"`
	Photo    string  `db:"photo"`
	IsActive bool    `db:"is_active"`
	Visits   string  `db:"visits"`
	Payments string  `db:"payments"`
}

func toRow(p *model.Patient) (*patientRow, error) {
	visits, err := json.Marshal(p.Visits)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal visits: %w", err)
	}
	payments, err := json.Marshal(p.Payments)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal payments: %w", err)
	}
	return &patientRow{
		ID:       p.ID,
		Name:     p.Name,
		Age:      p.Age,
		Gender:   p.Gender,
		Phone:    p.Phone,
		Address:  p.Address,
		Charge:   p.Charge,
		Details:  p.Details,
		Notes:    p.Notes,
		Photo:    p.Photo,
		IsActive: p.IsActive,
		Visits:   string(visits),
		Payments: string(payments),
	}, nil
}

func (r *patientRow) toPatient() (*model.Patient, error) {
	p := &model.Patient{
		ID:       r.ID,
		Name:     r.Name,
		Age:      r.Age,
		Gender:   r.Gender,
		Phone:    r.Phone,
		Address:  r.Address,
		Charge:   r.Charge,
		Details:  r.Details,
		Notes:    r.Notes,
		Photo:    r.Photo,
		IsActive: r.IsActive,
		Visits:   []model.Visit{},
		Payments: []model.Payment{},
	}
	if err := json.Unmarshal([]byte(r.Visits), &p.Visits); err != nil {
		return nil, fmt.Errorf("failed to unmarshal visits for patient %d: %w", r.ID, err)
	}
	if err := json.Unmarshal([]byte(r.Payments), &p.Payments); err != nil {
		return nil, fmt.Errorf("failed to unmarshal payments for patient %d: %w", r.ID, err)
	}
	return p, nil
}

func (r *patientRepository) LoadAll(ctx context.Context) ([]*model.Patient, error) {
	query := `SELECT * FROM patients ORDER BY id`
	var rows []patientRow
	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("failed to load patients: %w", err)
	}

	patients := make([]*model.Patient, 0, len(rows))
	for i := range rows {
		p, err := rows[i].toPatient()
		if err != nil {
			return nil, err
		}
		patients = append(patients, p)
	}
	return patients, nil
}

func (r *patientRepository) Upsert(ctx context.Context, patient *model.Patient) (*model.Patient, error) {
	row, err := toRow(patient)
	if err != nil {
		return nil, err
	}

	stored := patient.Clone()
	if patient.ID == 0 {
		query := `
			INSERT INTO patients (name, age, gender, phone, address, charge, details, notes, photo, is_active, visits, payments)
			VALUES (:name, :age, :gender, :phone, :address, :charge, :details, :notes, :photo, :is_active, :visits, :payments)
		`
		res, err := r.db.NamedExecContext(ctx, query, row)
		if err != nil {
			return nil, fmt.Errorf("failed to insert patient: %w", err)
		}
		id, err := res.LastInsertId()
		if err != nil {
			return nil, fmt.Errorf("failed to read inserted patient id: %w", err)
		}
		stored.ID = id
		return stored, nil
	}

	query := `
		INSERT INTO patients (id, name, age, gender, phone, address, charge, details, notes, photo, is_active, visits, payments)
		VALUES (:id, :name, :age, :gender, :phone, :address, :charge, :details, :notes, :photo, :is_active, :visits, :payments)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name, age = excluded.age, gender = excluded.gender,
			phone = excluded.phone, address = excluded.address, charge = excluded.charge,
			details = excluded.details, notes = excluded.notes, photo = excluded.photo,
			is_active = excluded.is_active, visits = excluded.visits, payments = excluded.payments
	`
	if _, err := r.db.NamedExecContext(ctx, query, row); err != nil {
		return nil, fmt.Errorf("failed to upsert patient %d: %w", patient.ID, err)
	}
	return stored, nil
}

func (r *patientRepository) Remove(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM patients WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete patient %d: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read delete result: %w", err)
	}
	if n == 0 {
		return errors.NotFound("patient", nil)
	}
	return nil
}

func (r *patientRepository) Clear(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM patients`); err != nil {
		return fmt.Errorf("failed to clear patients: %w", err)
	}
	return nil
}

// BulkReplace clears the table and inserts the given patients inside
// one transaction. Patients without an ID get one from the sequence;
// patients that carry an ID keep it, so an imported backup round-trips.
func (r *patientRepository) BulkReplace(ctx context.Context, patients []*model.Patient) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin bulk replace: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM patients`); err != nil {
		return fmt.Errorf("failed to clear patients: %w", err)
	}

	withID := `
		INSERT INTO patients (id, name, age, gender, phone, address, charge, details, notes, photo, is_active, visits, payments)
		VALUES (:id, :name, :age, :gender, :phone, :address, :charge, :details, :notes, :photo, :is_active, :visits, :payments)
	`
	withoutID := `
		INSERT INTO patients (name, age, gender, phone, address, charge, details, notes, photo, is_active, visits, payments)
		VALUES (:name, :age, :gender, :phone, :address, :charge, :details, :notes, :photo, :is_active, :visits, :payments)
	`
	for _, p := range patients {
		row, err := toRow(p)
		if err != nil {
			return err
		}
		query := withID
		if p.ID == 0 {
			query = withoutID
		}
		res, err := tx.NamedExecContext(ctx, query, row)
		if err != nil {
			return fmt.Errorf("failed to insert patient %q: %w", p.Name, err)
		}
		if p.ID == 0 {
			id, err := res.LastInsertId()
			if err != nil {
				return fmt.Errorf("failed to read inserted patient id: %w", err)
			}
			p.ID = id
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit bulk replace: %w", err)
	}
	return nil
}

func (r *patientRepository) Close() error {
	return r.db.Close()
}
