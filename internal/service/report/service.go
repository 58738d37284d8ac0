// Package report derives the date-filtered multi-patient view and the
// per-patient balance arithmetic behind it.
package report

import (
	"context"
	"fmt"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/jwalitptl/ledger-api/internal/model"
)

// Ledger is the slice of the ledger store the aggregator needs: a
// snapshot of the collection and a revision counter to key the cache.
type Ledger interface {
	ListAll(ctx context.Context) []*model.Patient
	Revision() uint64
}

// Service builds reports over the current collection. Built reports are
// cached keyed by (ledger revision, window); any mutation bumps the
// revision, so a stale report can never be served.
type Service struct {
	ledger Ledger
	cache  *gocache.Cache
}

func NewService(ledger Ledger, cacheTTL time.Duration) *Service {
	if cacheTTL <= 0 {
		cacheTTL = 5 * time.Minute
	}
	return &Service{
		ledger: ledger,
		cache:  gocache.New(cacheTTL, 2*cacheTTL),
	}
}

// Build returns the report for the inclusive [from, to] window; empty
// bounds are unbounded.
func (s *Service) Build(ctx context.Context, from, to string) *model.Report {
	key := fmt.Sprintf("%d|%s|%s", s.ledger.Revision(), from, to)
	if cached, ok := s.cache.Get(key); ok {
		return cached.(*model.Report)
	}

	report := BuildReport(s.ledger.ListAll(ctx), from, to)
	s.cache.Set(key, report, gocache.DefaultExpiration)
	return report
}

// BuildReport computes the report rows and totals from a patient
// snapshot. A patient with no visit and no payment inside the window
// contributes no row, but still counts toward the patient-count
// summary. Pending and advance are independent pools: pending sums
// positive balances, advance the absolute values of negative ones, and
// the two are never netted against each other.
func BuildReport(patients []*model.Patient, from, to string) *model.Report {
	report := &model.Report{
		From: from,
		To:   to,
		Rows: []model.ReportRow{},
	}
	report.Totals.PatientCount = len(patients)

	for _, p := range patients {
		if !hasActivity(p, from, to) {
			continue
		}

		row := model.ReportRow{
			PatientID:     p.ID,
			Name:          p.Name,
			Phone:         p.Phone,
			VisitCount:    VisitUnits(p, from, to),
			TotalCharges:  TotalCharges(p, from, to),
			TotalPayments: TotalPayments(p, from, to),
		}
		row.Balance = row.TotalCharges - row.TotalPayments
		report.Rows = append(report.Rows, row)

		report.Totals.VisitCount += row.VisitCount
		report.Totals.TotalCharges += row.TotalCharges
		report.Totals.TotalPayments += row.TotalPayments
		if row.Balance > 0 {
			report.Totals.TotalPending += row.Balance
		} else if row.Balance < 0 {
			report.Totals.TotalAdvance += -row.Balance
		}
	}

	report.Totals.TotalBalance = report.Totals.TotalCharges - report.Totals.TotalPayments
	return report
}
