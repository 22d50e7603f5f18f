package reservation

import (
	"context"
	"fmt"
	"time"

	"github.com/carsmotion/carsmotion/internal/common/logger"
	"github.com/carsmotion/carsmotion/internal/vehicle"
)

// FleetSweep is the vehicle surface the reconciler needs.
type FleetSweep interface {
	All(ctx context.Context) ([]vehicle.Vehicle, error)
	SetStatus(ctx context.Context, id string, status vehicle.Status) error
}

// Reconciler periodically re-derives vehicle availability from the
// reservation calendar. Confirm and complete flip statuses at the moment
// of the transition; this sweep catches the day boundaries in between,
// e.g. a confirmed rental whose start date arrived overnight.
type Reconciler struct {
	store Store
	fleet FleetSweep
	log   logger.Logger
	now   func() time.Time
}

func NewReconciler(store Store, fleet FleetSweep, log logger.Logger) *Reconciler {
	return &Reconciler{store: store, fleet: fleet, log: log, now: time.Now}
}

// Reconcile walks the fleet once and returns the number of status
// changes applied. Vehicles parked in maintenance are left alone.
func (r *Reconciler) Reconcile(ctx context.Context) (int, error) {
	if r == nil || r.store == nil || r.fleet == nil {
		return 0, fmt.Errorf("reconciler not initialized")
	}

	fleet, err := r.fleet.All(ctx)
	if err != nil {
		return 0, fmt.Errorf("list vehicles: %w", err)
	}

	today := r.now()
	changed := 0
	for i := range fleet {
		v := &fleet[i]
		if v.Status == vehicle.StatusMaintenance {
			continue
		}

		confirmed, err := r.store.ConfirmedByVehicle(ctx, v.ID, "")
		if err != nil {
			return changed, err
		}
		occupied := false
		for j := range confirmed {
			if confirmed[j].Covers(today) {
				occupied = true
				break
			}
		}

		want := vehicle.StatusAvailable
		if occupied {
			want = vehicle.StatusRented
		}
		if v.Status == want {
			continue
		}
		if err := r.fleet.SetStatus(ctx, v.ID, want); err != nil {
			return changed, err
		}
		changed++
		if r.log != nil {
			r.log.Infof("reconciled vehicle %s: %s -> %s", v.ID, v.Status, want)
		}
	}
	return changed, nil
}

// Run sweeps on a fixed interval until ctx is cancelled.
func (r *Reconciler) Run(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = 15 * time.Minute
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := r.Reconcile(ctx); err != nil && r.log != nil {
				r.log.Errorf("reconcile sweep: %v", err)
			}
		}
	}
}
