// Package dateutil handles the ledger's calendar dates. Dates are ISO
// YYYY-MM-DD strings throughout; because the encoding is
// lexicographically ordered, range checks compare strings directly and
// never parse into time-of-day-sensitive instants. Every call site uses
// this one comparison rule.
package dateutil

import "time"

const Layout = "2006-01-02"

// The clinic runs on Indian Standard Time regardless of where the
// process happens to run.
var clinicZone = time.FixedZone("IST", 5*3600+1800)

// Today returns the current calendar date in the clinic's fixed zone.
func Today() string {
	return time.Now().In(clinicZone).Format(Layout)
}

// InRange reports whether date falls inside the inclusive [from, to]
// window. Either bound may be empty, meaning unbounded on that side;
// with both empty every date matches.
func InRange(date, from, to string) bool {
	if from != "" && date < from {
		return false
	}
	if to != "" && date > to {
		return false
	}
	return true
}

// Valid reports whether s is a well-formed YYYY-MM-DD calendar date.
func Valid(s string) bool {
	_, err := time.Parse(Layout, s)
	return err == nil
}
