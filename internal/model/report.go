package model

// ReportRow is one patient's date-filtered activity line. VisitCount is
// the sum of visit units in the window, not the number of visit rows.
type ReportRow struct {
	PatientID     int64   `json:"patient_id"`
	Name          string  `json:"name"`
	Phone         string  `json:"phone"`
	VisitCount    int     `json:"visit_count"`
	TotalCharges  float64 `json:"total_charges"`
	TotalPayments float64 `json:"total_payments"`
	Balance       float64 `json:"balance"`
}

// ReportTotals aggregates the included rows. TotalPending sums only
// positive balances and TotalAdvance only the absolute values of
// negative ones; the two pools are never netted. PatientCount is the
// size of the whole collection, not of the filtered rows.
type ReportTotals struct {
	PatientCount  int     `json:"patient_count"`
	VisitCount    int     `json:"visit_count"`
	TotalCharges  float64 `json:"total_charges"`
	TotalPayments float64 `json:"total_payments"`
	TotalBalance  float64 `json:"total_balance"`
	TotalPending  float64 `json:"total_pending"`
	TotalAdvance  float64 `json:"total_advance"`
}

// Report is the date-filtered multi-patient view. Patients with no
// visit and no payment inside the window are excluded from Rows.
type Report struct {
	From   string       `json:"from,omitempty"`
	To     string       `json:"to,omitempty"`
	Rows   []ReportRow  `json:"rows"`
	Totals ReportTotals `json:"totals"`
}
