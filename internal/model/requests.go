package model

// PatientProfile carries the scalar profile fields for create and
// update. Update replaces every scalar field wholesale; visits,
// payments and the ID are never touched through it.
// There are deliberately no required-field constraints here: the store
// defaults everything (age and charge floor at zero, gender falls back
// to Male, strings are trimmed).
type PatientProfile struct {
	Name    string  `json:"name"`
	Age     int     `json:"age"`
	Gender  string  `json:"gender"`
	Phone   string  `json:"phone"`
	Address string  `json:"address"`
	Charge  float64 `json:"charge"`
	Details string  `json:"details"`
	Notes   string  `json:"notes"`
	Photo   string  `json:"photo"`
}

// AddVisitRequest adds one visit entry. Omitted fields default in the
// store: date to today, count to 1, charge to patient.Charge * count.
type AddVisitRequest struct {
	Date   string   `json:"date" binding:"omitempty,datetime=2006-01-02"`
	Count  int      `json:"count" binding:"omitempty,gt=0"`
	Charge *float64 `json:"charge" binding:"omitempty,gte=0"`
}

// AddPaymentRequest adds one payment. Mode defaults to "Cash", date to
// today. A non-positive amount is rejected before any mutation.
type AddPaymentRequest struct {
	Date   string  `json:"date" binding:"omitempty,datetime=2006-01-02"`
	Amount float64 `json:"amount"`
	Mode   string  `json:"mode"`
}

// SetActiveRequest toggles the dashboard highlight flag. It has no
// effect on balance arithmetic.
type SetActiveRequest struct {
	Active bool `json:"active"`
}
