package reservation

import "time"

// DateOnly truncates t to its calendar day at UTC midnight. All period
// arithmetic in this package runs on day granularity.
func DateOnly(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Overlaps reports whether the day ranges [s1, e1] and [s2, e2] share at
// least one day. Boundaries are inclusive on both sides: a rental ending
// on the 15th collides with one starting on the 15th, because the car is
// out on both days.
func Overlaps(s1, e1, s2, e2 time.Time) bool {
	s1, e1 = DateOnly(s1), DateOnly(e1)
	s2, e2 = DateOnly(s2), DateOnly(e2)
	return !(e1.Before(s2) || e2.Before(s1))
}
