// Package ledger owns the authoritative patient collection. All reads
// and mutations go through the Service; callers only ever see deep
// copies, never the working set itself.
package ledger

import (
	"context"
	"strings"
	"sync"

	"github.com/jwalitptl/ledger-api/internal/model"
	"github.com/jwalitptl/ledger-api/internal/repository"
	"github.com/jwalitptl/ledger-api/pkg/dateutil"
	"github.com/jwalitptl/ledger-api/pkg/errors"
)

const (
	defaultGender      = "Male"
	defaultPaymentMode = "Cash"
)

// Service is the ledger store. One mutex serialises every operation, so
// no caller observes a half-applied mutation and a bulk import is never
// interleaved with other writes. Each mutation persists before it is
// applied to the working set: a failed persist returns StorageFailure
// with memory unchanged.
type Service struct {
	mu       sync.Mutex
	repo     repository.PatientRepository
	patients []*model.Patient
	revision uint64
}

func NewService(repo repository.PatientRepository) *Service {
	return &Service{repo: repo}
}

// Load populates the working set from durable storage. Called once at
// startup and again by Reload after a storage failure.
func (s *Service) Load(ctx context.Context) error {
	patients, err := s.repo.LoadAll(ctx)
	if err != nil {
		return errors.StorageFailure("load", err)
	}
	s.mu.Lock()
	s.patients = patients
	s.revision++
	s.mu.Unlock()
	return nil
}

// Reload resynchronises the working set with durable storage. Callers
// should use it after a StorageFailure rather than trusting in-memory
// state.
func (s *Service) Reload(ctx context.Context) error {
	return s.Load(ctx)
}

// Revision is a monotonic counter bumped on every applied mutation.
// Derived views (the report cache) key on it.
func (s *Service) Revision() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.revision
}

// ListAll returns the full working set in insertion order.
func (s *Service) ListAll(ctx context.Context) []*model.Patient {
	s.mu.Lock()
	defer s.mu.Unlock()
	return model.ClonePatients(s.patients)
}

// Search filters by case-insensitive name substring or phone substring.
// An empty query returns everything.
func (s *Service) Search(ctx context.Context, query string) []*model.Patient {
	s.mu.Lock()
	defer s.mu.Unlock()

	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return model.ClonePatients(s.patients)
	}

	var out []*model.Patient
	for _, p := range s.patients {
		if strings.Contains(strings.ToLower(p.Name), query) || strings.Contains(p.Phone, query) {
			out = append(out, p.Clone())
		}
	}
	return out
}

// Get returns one patient by ID.
func (s *Service) Get(ctx context.Context, id int64) (*model.Patient, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p := s.find(id)
	if p == nil {
		return nil, errors.NotFound("patient", nil)
	}
	return p.Clone(), nil
}

// Create validates nothing beyond defaulting: strings are trimmed,
// gender falls back to Male, negative age and charge are floored at
// zero. The stored record comes back with its assigned ID.
func (s *Service) Create(ctx context.Context, profile *model.PatientProfile) (*model.Patient, error) {
	p := &model.Patient{
		Visits:   []model.Visit{},
		Payments: []model.Payment{},
	}
	applyProfile(p, profile)

	s.mu.Lock()
	defer s.mu.Unlock()

	stored, err := s.repo.Upsert(ctx, p)
	if err != nil {
		return nil, errors.StorageFailure("upsert", err)
	}
	s.patients = append(s.patients, stored)
	s.revision++
	return stored.Clone(), nil
}

// Update replaces every scalar profile field of the identified record,
// preserving its visits, payments and ID.
func (s *Service) Update(ctx context.Context, id int64, profile *model.PatientProfile) (*model.Patient, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing := s.find(id)
	if existing == nil {
		return nil, errors.NotFound("patient", nil)
	}

	updated := existing.Clone()
	applyProfile(updated, profile)

	return s.persistInPlace(ctx, updated)
}

// Delete removes the patient and, with it, every visit and payment it
// owns. Deleting an already-deleted ID fails with NotFound.
func (s *Service) Delete(ctx context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexOf(id)
	if idx < 0 {
		return errors.NotFound("patient", nil)
	}

	if err := s.repo.Remove(ctx, id); err != nil {
		return errors.StorageFailure("remove", err)
	}
	s.patients = append(s.patients[:idx], s.patients[idx+1:]...)
	s.revision++
	return nil
}

// AddVisit appends a visit entry. Count defaults to 1, the date to
// today, and the charge, when not supplied, to the patient's per-visit
// fee times the count.
func (s *Service) AddVisit(ctx context.Context, patientID int64, req *model.AddVisitRequest) (*model.Patient, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing := s.find(patientID)
	if existing == nil {
		return nil, errors.NotFound("patient", nil)
	}

	visit := model.Visit{
		Date:  req.Date,
		Count: req.Count,
	}
	if visit.Date == "" {
		visit.Date = dateutil.Today()
	}
	if visit.Count <= 0 {
		visit.Count = 1
	}
	if req.Charge != nil {
		visit.Charge = *req.Charge
	} else {
		visit.Charge = existing.Charge * float64(visit.Count)
	}

	updated := existing.Clone()
	updated.Visits = append(updated.Visits, visit)
	return s.persistInPlace(ctx, updated)
}

// RemoveVisit deletes one visit entry by position.
func (s *Service) RemoveVisit(ctx context.Context, patientID int64, index int) (*model.Patient, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing := s.find(patientID)
	if existing == nil {
		return nil, errors.NotFound("patient", nil)
	}
	if index < 0 || index >= len(existing.Visits) {
		return nil, errors.IndexOutOfRange("visit", index)
	}

	updated := existing.Clone()
	updated.Visits = append(updated.Visits[:index], updated.Visits[index+1:]...)
	return s.persistInPlace(ctx, updated)
}

// AddPayment appends a payment. A non-positive amount is rejected
// before any mutation; mode defaults to Cash and the date to today.
func (s *Service) AddPayment(ctx context.Context, patientID int64, req *model.AddPaymentRequest) (*model.Patient, error) {
	if req.Amount <= 0 {
		return nil, errors.InvalidAmount(req.Amount)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	existing := s.find(patientID)
	if existing == nil {
		return nil, errors.NotFound("patient", nil)
	}

	payment := model.Payment{
		Date:   req.Date,
		Amount: req.Amount,
		Mode:   strings.TrimSpace(req.Mode),
	}
	if payment.Date == "" {
		payment.Date = dateutil.Today()
	}
	if payment.Mode == "" {
		payment.Mode = defaultPaymentMode
	}

	updated := existing.Clone()
	updated.Payments = append(updated.Payments, payment)
	return s.persistInPlace(ctx, updated)
}

// RemovePayment deletes one payment entry by position.
func (s *Service) RemovePayment(ctx context.Context, patientID int64, index int) (*model.Patient, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing := s.find(patientID)
	if existing == nil {
		return nil, errors.NotFound("patient", nil)
	}
	if index < 0 || index >= len(existing.Payments) {
		return nil, errors.IndexOutOfRange("payment", index)
	}

	updated := existing.Clone()
	updated.Payments = append(updated.Payments[:index], updated.Payments[index+1:]...)
	return s.persistInPlace(ctx, updated)
}

// SetActive flips the dashboard highlight flag. Balance arithmetic
// never looks at it.
func (s *Service) SetActive(ctx context.Context, patientID int64, active bool) (*model.Patient, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing := s.find(patientID)
	if existing == nil {
		return nil, errors.NotFound("patient", nil)
	}

	updated := existing.Clone()
	updated.IsActive = active
	return s.persistInPlace(ctx, updated)
}

// Replace swaps the whole collection, as bulk import does. The single
// mutex keeps it from interleaving with any other mutation, and the
// repository runs clear+insert as one transaction.
func (s *Service) Replace(ctx context.Context, patients []*model.Patient) error {
	incoming := model.ClonePatients(patients)
	for _, p := range incoming {
		if p.Visits == nil {
			p.Visits = []model.Visit{}
		}
		if p.Payments == nil {
			p.Payments = []model.Payment{}
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.repo.BulkReplace(ctx, incoming); err != nil {
		return errors.StorageFailure("bulk replace", err)
	}
	s.patients = incoming
	s.revision++
	return nil
}

// Count returns the size of the whole collection.
func (s *Service) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.patients)
}

// persistInPlace durably saves an updated record, then swaps it into
// the working set. Caller holds the mutex.
func (s *Service) persistInPlace(ctx context.Context, updated *model.Patient) (*model.Patient, error) {
	stored, err := s.repo.Upsert(ctx, updated)
	if err != nil {
		return nil, errors.StorageFailure("upsert", err)
	}
	idx := s.indexOf(stored.ID)
	if idx < 0 {
		return nil, errors.NotFound("patient", nil)
	}
	s.patients[idx] = stored
	s.revision++
	return stored.Clone(), nil
}

func (s *Service) find(id int64) *model.Patient {
	if idx := s.indexOf(id); idx >= 0 {
		return s.patients[idx]
	}
	return nil
}

func (s *Service) indexOf(id int64) int {
	for i, p := range s.patients {
		if p.ID == id {
			return i
		}
	}
	return -1
}

func applyProfile(p *model.Patient, profile *model.PatientProfile) {
	p.Name = strings.TrimSpace(profile.Name)
	p.Age = profile.Age
	if p.Age < 0 {
		p.Age = 0
	}
	p.Gender = strings.TrimSpace(profile.Gender)
	if p.Gender == "" {
		p.Gender = defaultGender
	}
	p.Phone = strings.TrimSpace(profile.Phone)
	p.Address = strings.TrimSpace(profile.Address)
	p.Charge = profile.Charge
	if p.Charge < 0 {
		p.Charge = 0
	}
	p.Details = strings.TrimSpace(profile.Details)
	p.Notes = strings.TrimSpace(profile.Notes)
	p.Photo = profile.Photo
}
