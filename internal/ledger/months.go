package ledger

import (
	"fmt"
	"time"
)

// French month names for generated journal descriptions, matching the
// labels the operators see in the rest of the books.
var frMonths = [...]string{
	"janvier", "février", "mars", "avril", "mai", "juin",
	"juillet", "août", "septembre", "octobre", "novembre", "décembre",
}

// monthLabelFR renders "mars 2024".
func monthLabelFR(t time.Time) string {
	return fmt.Sprintf("%s %d", frMonths[t.Month()-1], t.Year())
}

// monthBounds returns the first instant of t's calendar month and of the
// following month, in UTC. Used as the [start, end) window for the
// one-transaction-per-month checks.
func monthBounds(t time.Time) (time.Time, time.Time) {
	start := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
	return start, start.AddDate(0, 1, 0)
}
