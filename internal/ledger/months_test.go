package ledger

import (
	"testing"
	"time"
)

func TestMonthLabelFR(t *testing.T) {
	cases := []struct {
		date time.Time
		want string
	}{
		{time.Date(2024, time.March, 5, 0, 0, 0, 0, time.UTC), "mars 2024"},
		{time.Date(2024, time.August, 1, 0, 0, 0, 0, time.UTC), "août 2024"},
		{time.Date(2023, time.December, 31, 23, 0, 0, 0, time.UTC), "décembre 2023"},
	}
	for _, tc := range cases {
		if got := monthLabelFR(tc.date); got != tc.want {
			t.Errorf("monthLabelFR(%s) = %q, want %q", tc.date.Format("2006-01-02"), got, tc.want)
		}
	}
}

func TestMonthBounds(t *testing.T) {
	start, end := monthBounds(time.Date(2024, time.February, 15, 12, 30, 0, 0, time.UTC))
	if !start.Equal(time.Date(2024, time.February, 1, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("unexpected start %s", start)
	}
	// Leap year: February ends on the 29th, the window on March 1st.
	if !end.Equal(time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("unexpected end %s", end)
	}

	// December rolls into the next year.
	start, end = monthBounds(time.Date(2023, time.December, 31, 0, 0, 0, 0, time.UTC))
	if start.Month() != time.December || end.Year() != 2024 || end.Month() != time.January {
		t.Fatalf("unexpected bounds %s / %s", start, end)
	}
}
