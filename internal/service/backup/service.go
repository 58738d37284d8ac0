// Package backup moves the whole collection across the process
// boundary: full-fidelity JSON for backup and restore, flattened CSV
// for the report export.
package backup

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/jwalitptl/ledger-api/internal/model"
	"github.com/jwalitptl/ledger-api/internal/service/report"
	"github.com/jwalitptl/ledger-api/pkg/errors"
)

// Ledger is the slice of the ledger store the codec needs.
type Ledger interface {
	ListAll(ctx context.Context) []*model.Patient
	Replace(ctx context.Context, patients []*model.Patient) error
}

type Service struct {
	ledger Ledger
}

func NewService(ledger Ledger) *Service {
	return &Service{ledger: ledger}
}

// ExportJSON serialises the entire collection, IDs and logs included,
// pretty-printed so a backup stays hand-inspectable.
func (s *Service) ExportJSON(ctx context.Context) ([]byte, error) {
	data, err := json.MarshalIndent(s.ledger.ListAll(ctx), "", "  ")
	if err != nil {
		return nil, errors.Internal(fmt.Errorf("failed to marshal patients: %w", err))
	}
	return data, nil
}

// ImportJSON parses a backup and replaces the collection with it. The
// root value must be a JSON array; beyond that elements are accepted
// as-is, and missing fields surface later as defaults rather than as
// import errors.
func (s *Service) ImportJSON(ctx context.Context, data []byte) error {
	patients, err := Decode(data)
	if err != nil {
		return err
	}
	return s.ledger.Replace(ctx, patients)
}

// Decode parses a backup payload without touching the ledger.
func Decode(data []byte) ([]*model.Patient, error) {
	var probe json.RawMessage
	if err := json.Unmarshal(data, &probe); err != nil {
		return nil, errors.InvalidFormat("backup is not valid JSON", err)
	}
	trimmed := bytes.TrimLeft(probe, " \t\r\n")
	if len(trimmed) == 0 || trimmed[0] != '[' {
		return nil, errors.InvalidFormat("backup root must be an array", nil)
	}

	var elements []json.RawMessage
	if err := json.Unmarshal(trimmed, &elements); err != nil {
		return nil, errors.InvalidFormat("backup array is malformed", err)
	}

	patients := make([]*model.Patient, 0, len(elements))
	for _, el := range elements {
		p := &model.Patient{}
		// A type-mismatched field is skipped by the decoder and keeps
		// its zero value, so a sloppy element imports with defaults
		// instead of failing the whole restore. The element itself is
		// known-valid JSON at this point.
		_ = json.Unmarshal(el, p)
		if p.Visits == nil {
			p.Visits = []model.Visit{}
		}
		if p.Payments == nil {
			p.Payments = []model.Payment{}
		}
		patients = append(patients, p)
	}
	return patients, nil
}

// CSV header for the flattened report.
var csvHeader = []string{"Patient", "Phone", "Visits", "Total Charges", "Total Payments", "Balance"}

// ExportCSV flattens the date-filtered aggregates to one row per
// patient. Unlike the report view, patients with zero activity in the
// window are included with zero-valued columns; that difference is
// deliberate.
func (s *Service) ExportCSV(ctx context.Context, from, to string) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write(csvHeader); err != nil {
		return nil, errors.Internal(fmt.Errorf("failed to write csv header: %w", err))
	}
	for _, p := range s.ledger.ListAll(ctx) {
		charges := report.TotalCharges(p, from, to)
		payments := report.TotalPayments(p, from, to)
		row := []string{
			p.Name,
			p.Phone,
			strconv.Itoa(report.VisitUnits(p, from, to)),
			formatAmount(charges),
			formatAmount(payments),
			formatAmount(charges - payments),
		}
		if err := w.Write(row); err != nil {
			return nil, errors.Internal(fmt.Errorf("failed to write csv row: %w", err))
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, errors.Internal(fmt.Errorf("failed to flush csv: %w", err))
	}
	return buf.Bytes(), nil
}

// formatAmount renders CSV numbers the way the ledger stores them,
// without the currency glyph.
func formatAmount(n float64) string {
	return strconv.FormatFloat(n, 'f', -1, 64)
}
