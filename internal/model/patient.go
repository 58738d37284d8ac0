package model

// Patient is the ledger's unit of record. A zero ID marks a draft that
// has not been persisted yet; the store assigns a durable ID on first
// save. Visits and payments are append-ordered logs owned exclusively
// by the patient and are deleted with it.
type Patient struct {
	ID       int64     `db:"id" json:"id,omitempty"`
	Name     string    `db:"name" json:"name"`
	Age      int       `db:"age" json:"age"`
	Gender   string    `db:"gender" json:"gender"`
	Phone    string    `db:"phone" json:"phone"`
	Address  string    `db:"address" json:"address"`
	Charge   float64   `db:"charge" json:"charge"`
	Details  string    `db:"details" json:"details"`
	Notes    string    `db:"notes" json:"notes"`
	Photo    string    `db:"photo" json:"photo"`
	IsActive bool      `db:"is_active" json:"isActive"`
	Visits   []Visit   `db:"-" json:"visits"`
	Payments []Payment `db:"-" json:"payments"`
}

// Visit is one billed visit entry. Charge is the total for the entry,
// covering Count visit units, not a per-unit rate.
type Visit struct {
	Date   string  `json:"date"`
	Count  int     `json:"count"`
	Charge float64 `json:"charge"`
}

// Payment is one amount received against a patient's balance.
type Payment struct {
	Date   string  `json:"date"`
	Amount float64 `json:"amount"`
	Mode   string  `json:"mode"`
}

// Clone deep-copies the patient so callers never share the store's
// visit/payment slices.
func (p *Patient) Clone() *Patient {
	cp := *p
	cp.Visits = make([]Visit, len(p.Visits))
	copy(cp.Visits, p.Visits)
	cp.Payments = make([]Payment, len(p.Payments))
	copy(cp.Payments, p.Payments)
	return &cp
}

// ClonePatients deep-copies a whole collection.
func ClonePatients(patients []*Patient) []*Patient {
	out := make([]*Patient, len(patients))
	for i, p := range patients {
		out[i] = p.Clone()
	}
	return out
}
