package maintenance

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/carsmotion/carsmotion/internal/ledger"
	"github.com/carsmotion/carsmotion/internal/vehicle"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Store is the maintenance persistence the service runs on.
type Store interface {
	Create(ctx context.Context, rec *Record) error
	Update(ctx context.Context, rec *Record) error
	FindByID(ctx context.Context, id string) (*Record, error)
	Delete(ctx context.Context, id string) (bool, error)
	List(ctx context.Context, vehicleID string, offset, limit int) ([]Record, int64, error)
}

// Fleet resolves vehicle references for expense entry labels.
type Fleet interface {
	FindByID(ctx context.Context, id string) (*vehicle.Vehicle, error)
}

// ExpenseRecorder writes the maintenance expense journal entry.
type ExpenseRecorder interface {
	RecordMaintenanceExpense(ctx context.Context, maintenanceID, description string, cost decimal.Decimal, date time.Time, veh *vehicle.Vehicle) (*ledger.Transaction, error)
}

// TxRunner runs fn atomically, the ctx carrying the transaction.
type TxRunner func(ctx context.Context, fn func(ctx context.Context) error) error

// Service holds the maintenance use cases. Creating a record writes its
// expense entry in the same transaction; editing a record afterwards
// deliberately leaves the journal alone.
type Service struct {
	store   Store
	fleet   Fleet
	expense ExpenseRecorder
	runTx   TxRunner
}

func NewService(store Store, fleet Fleet, expense ExpenseRecorder, runTx TxRunner) *Service {
	if runTx == nil {
		runTx = func(ctx context.Context, fn func(ctx context.Context) error) error { return fn(ctx) }
	}
	return &Service{store: store, fleet: fleet, expense: expense, runTx: runTx}
}

// CreateInput carries a new maintenance record.
type CreateInput struct {
	VehicleID   string          `json:"vehicleId" validate:"required"`
	Kind        Kind            `json:"type" validate:"required"`
	Date        time.Time       `json:"date" validate:"required"`
	Description string          `json:"description" validate:"required"`
	Cost        decimal.Decimal `json:"cost"`
	Mileage     int             `json:"mileage" validate:"gte=0"`
	Provider    string          `json:"provider"`
	Notes       string          `json:"notes"`
}

// UpdateInput carries a partial update; nil fields keep their stored value.
type UpdateInput struct {
	VehicleID   *string          `json:"vehicleId"`
	Kind        *Kind            `json:"type"`
	Date        *time.Time       `json:"date"`
	Description *string          `json:"description"`
	Cost        *decimal.Decimal `json:"cost"`
	Mileage     *int             `json:"mileage"`
	Provider    *string          `json:"provider"`
	Notes       *string          `json:"notes"`
}

func (s *Service) Create(ctx context.Context, in CreateInput) (*Record, error) {
	if s == nil || s.store == nil {
		return nil, fmt.Errorf("service not initialized")
	}
	if !ValidKind(in.Kind) {
		return nil, fmt.Errorf("unknown maintenance type %q", in.Kind)
	}
	if in.Cost.IsNegative() {
		return nil, fmt.Errorf("cost must not be negative")
	}

	rec := &Record{
		ID:          uuid.NewString(),
		VehicleID:   strings.TrimSpace(in.VehicleID),
		Kind:        in.Kind,
		Date:        in.Date,
		Description: strings.TrimSpace(in.Description),
		Cost:        in.Cost,
		Mileage:     in.Mileage,
		Provider:    strings.TrimSpace(in.Provider),
		Notes:       in.Notes,
	}

	err := s.runTx(ctx, func(ctx context.Context) error {
		if err := s.store.Create(ctx, rec); err != nil {
			return err
		}
		return s.recordExpense(ctx, rec)
	})
	if err != nil {
		return nil, err
	}
	return rec, nil
}

// recordExpense writes the journal entry for a fresh record. Every
// record produces its own entry, even for identical work on the same
// day; the journal mirrors the workshop invoices, not a schedule.
func (s *Service) recordExpense(ctx context.Context, rec *Record) error {
	if s.expense == nil {
		return nil
	}
	var veh *vehicle.Vehicle
	if s.fleet != nil {
		v, err := s.fleet.FindByID(ctx, rec.VehicleID)
		if err != nil && !errors.Is(err, vehicle.ErrNotFound) {
			return err
		}
		veh = v
	}
	_, err := s.expense.RecordMaintenanceExpense(ctx, rec.ID, rec.Description, rec.Cost, rec.Date, veh)
	return err
}

// Update edits a record without touching the journal: correcting a
// typo must not double the expense.
func (s *Service) Update(ctx context.Context, id string, in UpdateInput) (*Record, error) {
	if s == nil || s.store == nil {
		return nil, fmt.Errorf("service not initialized")
	}

	rec, err := s.store.FindByID(ctx, strings.TrimSpace(id))
	if err != nil {
		return nil, err
	}

	if in.VehicleID != nil {
		rec.VehicleID = strings.TrimSpace(*in.VehicleID)
	}
	if in.Kind != nil {
		if !ValidKind(*in.Kind) {
			return nil, fmt.Errorf("unknown maintenance type %q", *in.Kind)
		}
		rec.Kind = *in.Kind
	}
	if in.Date != nil {
		rec.Date = *in.Date
	}
	if in.Description != nil {
		rec.Description = strings.TrimSpace(*in.Description)
	}
	if in.Cost != nil {
		if in.Cost.IsNegative() {
			return nil, fmt.Errorf("cost must not be negative")
		}
		rec.Cost = *in.Cost
	}
	if in.Mileage != nil {
		rec.Mileage = *in.Mileage
	}
	if in.Provider != nil {
		rec.Provider = strings.TrimSpace(*in.Provider)
	}
	if in.Notes != nil {
		rec.Notes = *in.Notes
	}

	if err := s.store.Update(ctx, rec); err != nil {
		return nil, err
	}
	return rec, nil
}

func (s *Service) Get(ctx context.Context, id string) (*Record, error) {
	if s == nil || s.store == nil {
		return nil, fmt.Errorf("service not initialized")
	}
	return s.store.FindByID(ctx, strings.TrimSpace(id))
}

func (s *Service) List(ctx context.Context, vehicleID string, offset, limit int) ([]Record, int64, error) {
	if s == nil || s.store == nil {
		return nil, 0, fmt.Errorf("service not initialized")
	}
	return s.store.List(ctx, vehicleID, offset, limit)
}

func (s *Service) Delete(ctx context.Context, id string) error {
	if s == nil || s.store == nil {
		return fmt.Errorf("service not initialized")
	}
	ok, err := s.store.Delete(ctx, strings.TrimSpace(id))
	if err != nil {
		return err
	}
	if !ok {
		return ErrNotFound
	}
	return nil
}
