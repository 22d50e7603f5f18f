package reservation

import (
	"testing"
	"time"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestOverlapsBoundaryDayCollides(t *testing.T) {
	// One rental ends the 15th, the next wants to start the 15th: the car
	// is out on both days, so the periods collide.
	if !Overlaps(day(2024, 3, 10), day(2024, 3, 15), day(2024, 3, 15), day(2024, 3, 20)) {
		t.Fatal("ranges sharing a boundary day must overlap")
	}
	if !Overlaps(day(2024, 3, 15), day(2024, 3, 20), day(2024, 3, 10), day(2024, 3, 15)) {
		t.Fatal("overlap must be symmetric")
	}
}

func TestOverlapsDisjoint(t *testing.T) {
	if Overlaps(day(2024, 3, 10), day(2024, 3, 15), day(2024, 3, 16), day(2024, 3, 20)) {
		t.Fatal("back-to-back ranges with a free day between must not overlap")
	}
	if Overlaps(day(2024, 3, 16), day(2024, 3, 20), day(2024, 3, 10), day(2024, 3, 15)) {
		t.Fatal("disjoint check must be symmetric")
	}
}

func TestOverlapsContainment(t *testing.T) {
	if !Overlaps(day(2024, 3, 1), day(2024, 3, 31), day(2024, 3, 10), day(2024, 3, 12)) {
		t.Fatal("contained range must overlap")
	}
}

func TestOverlapsIgnoresTimeOfDay(t *testing.T) {
	s1 := time.Date(2024, 3, 15, 23, 30, 0, 0, time.UTC)
	e2 := time.Date(2024, 3, 15, 1, 0, 0, 0, time.UTC)
	if !Overlaps(s1, day(2024, 3, 20), day(2024, 3, 10), e2) {
		t.Fatal("comparison must run on calendar days, not instants")
	}
}

func TestCoversBoundaries(t *testing.T) {
	r := Reservation{StartDate: day(2024, 3, 10), EndDate: day(2024, 3, 15)}
	for _, d := range []time.Time{day(2024, 3, 10), day(2024, 3, 12), day(2024, 3, 15)} {
		if !r.Covers(d) {
			t.Fatalf("expected %s to be covered", d.Format("2006-01-02"))
		}
	}
	if r.Covers(day(2024, 3, 9)) || r.Covers(day(2024, 3, 16)) {
		t.Fatal("days outside the period must not be covered")
	}
}
