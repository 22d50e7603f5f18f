package reservation

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func TestRentalDaysCountsBothBoundaries(t *testing.T) {
	cases := []struct {
		name       string
		start, end string
		want       int
	}{
		{"three days", "2024-01-01", "2024-01-03", 3},
		{"single day", "2024-01-01", "2024-01-01", 1},
		{"two weeks", "2024-01-01", "2024-01-14", 14},
		{"across month end", "2024-02-28", "2024-03-02", 4},
		{"inverted", "2024-01-03", "2024-01-01", 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := RentalDays(mustDay(t, tc.start), mustDay(t, tc.end)); got != tc.want {
				t.Fatalf("RentalDays(%s, %s) = %d, want %d", tc.start, tc.end, got, tc.want)
			}
		})
	}
}

func TestComputeTotal(t *testing.T) {
	rate := decimal.NewFromInt(50)
	total := ComputeTotal(rate, mustDay(t, "2024-01-01"), mustDay(t, "2024-01-03"))
	if !total.Equal(decimal.NewFromInt(150)) {
		t.Fatalf("expected 150, got %s", total)
	}
}

func TestComputeTax(t *testing.T) {
	tax := ComputeTax(decimal.NewFromInt(150))
	if !tax.Equal(decimal.RequireFromString("30")) {
		t.Fatalf("expected 30, got %s", tax)
	}

	// Rounded half up to cents.
	tax = ComputeTax(decimal.RequireFromString("100.33"))
	if !tax.Equal(decimal.RequireFromString("20.07")) {
		t.Fatalf("expected 20.07, got %s", tax)
	}
}

func mustDay(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := time.Parse("2006-01-02", s)
	if err != nil {
		t.Fatalf("bad date %q: %v", s, err)
	}
	return d
}
