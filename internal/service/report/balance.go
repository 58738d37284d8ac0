package report

import (
	"github.com/jwalitptl/ledger-api/internal/model"
	"github.com/jwalitptl/ledger-api/pkg/dateutil"
)

// The balance arithmetic is pure: no state, no side effects, derivable
// at any time from a patient snapshot and the window bounds. Visits and
// payments are filtered by their own dates independently; they are
// never linked to each other.

// TotalCharges sums visit charges with dates inside [from, to].
func TotalCharges(p *model.Patient, from, to string) float64 {
	var total float64
	for _, v := range p.Visits {
		if dateutil.InRange(v.Date, from, to) {
			total += v.Charge
		}
	}
	return total
}

// TotalPayments sums payment amounts with dates inside [from, to].
func TotalPayments(p *model.Patient, from, to string) float64 {
	var total float64
	for _, pay := range p.Payments {
		if dateutil.InRange(pay.Date, from, to) {
			total += pay.Amount
		}
	}
	return total
}

// Balance is charges minus payments over the window. Positive means
// amount due, negative means the patient has paid in advance.
func Balance(p *model.Patient, from, to string) float64 {
	return TotalCharges(p, from, to) - TotalPayments(p, from, to)
}

// VisitedOn reports whether any visit falls on exactly that date.
func VisitedOn(p *model.Patient, date string) bool {
	for _, v := range p.Visits {
		if v.Date == date {
			return true
		}
	}
	return false
}

// VisitUnits sums visit counts (units, not rows) inside the window.
func VisitUnits(p *model.Patient, from, to string) int {
	var units int
	for _, v := range p.Visits {
		if dateutil.InRange(v.Date, from, to) {
			units += v.Count
		}
	}
	return units
}

// hasActivity reports whether the patient has at least one visit or
// payment inside the window.
func hasActivity(p *model.Patient, from, to string) bool {
	for _, v := range p.Visits {
		if dateutil.InRange(v.Date, from, to) {
			return true
		}
	}
	for _, pay := range p.Payments {
		if dateutil.InRange(pay.Date, from, to) {
			return true
		}
	}
	return false
}
