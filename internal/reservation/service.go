package reservation

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/carsmotion/carsmotion/internal/common/logger"
	"github.com/carsmotion/carsmotion/internal/customer"
	"github.com/carsmotion/carsmotion/internal/ledger"
	"github.com/carsmotion/carsmotion/internal/vehicle"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var (
	// ErrConflict is returned when the requested period overlaps another
	// active reservation for the same vehicle.
	ErrConflict = errors.New("vehicle already reserved on this period")
	// ErrDateOrder is returned when the end date does not follow the start.
	ErrDateOrder = errors.New("end date must be after start date")
	// ErrBadTransition is returned on an illegal status move.
	ErrBadTransition = errors.New("illegal reservation status transition")
	// ErrInvalidInput wraps rejected payload values so the transport can
	// tell them apart from persistence failures.
	ErrInvalidInput = errors.New("invalid reservation input")
)

// Store is the reservation persistence the service runs on.
type Store interface {
	Create(ctx context.Context, res *Reservation) error
	Update(ctx context.Context, res *Reservation) error
	FindByID(ctx context.Context, id string) (*Reservation, error)
	Delete(ctx context.Context, id string) (bool, error)
	List(ctx context.Context, f ListFilter) ([]Reservation, int64, error)
	ActiveByVehicle(ctx context.Context, vehicleID, excludeID string) ([]Reservation, error)
	ConfirmedByVehicle(ctx context.Context, vehicleID, excludeID string) ([]Reservation, error)
}

// Fleet is the slice of the vehicle domain the service needs: resolving
// references and flipping availability.
type Fleet interface {
	FindByID(ctx context.Context, id string) (*vehicle.Vehicle, error)
	SetStatus(ctx context.Context, id string, status vehicle.Status) error
}

// Customers resolves customer references for income entry labels.
type Customers interface {
	FindByID(ctx context.Context, id string) (*customer.Customer, error)
}

// IncomeRecorder writes the rental income journal entry on confirmation.
type IncomeRecorder interface {
	RecordReservationIncome(ctx context.Context, reservationID string, amount decimal.Decimal, veh *vehicle.Vehicle, cust *customer.Customer) (*ledger.Transaction, error)
}

// TxRunner runs fn atomically; the ctx it passes down carries the
// transaction so every repo call inside joins it.
type TxRunner func(ctx context.Context, fn func(ctx context.Context) error) error

// Service holds the reservation use cases: overlap checking, pricing,
// the status state machine, and the side effects on the fleet and the
// journal. Writes and their side effects run in one transaction.
type Service struct {
	store     Store
	fleet     Fleet
	customers Customers
	income    IncomeRecorder
	runTx     TxRunner
	log       logger.Logger
	now       func() time.Time
}

func NewService(store Store, fleet Fleet, customers Customers, income IncomeRecorder, runTx TxRunner, log logger.Logger) *Service {
	if runTx == nil {
		runTx = func(ctx context.Context, fn func(ctx context.Context) error) error { return fn(ctx) }
	}
	return &Service{
		store:     store,
		fleet:     fleet,
		customers: customers,
		income:    income,
		runTx:     runTx,
		log:       log,
		now:       time.Now,
	}
}

// CreateInput carries a new reservation. TotalAmount overrides the price
// computed from the vehicle's daily rate when set.
type CreateInput struct {
	VehicleID   string           `json:"vehicleId" validate:"required"`
	CustomerID  string           `json:"customerId" validate:"required"`
	StartDate   time.Time        `json:"startDate" validate:"required"`
	EndDate     time.Time        `json:"endDate" validate:"required"`
	TotalAmount *decimal.Decimal `json:"totalAmount"`
	Status      Status           `json:"status"`
	Notes       string           `json:"notes"`
}

// UpdateInput carries a partial update; nil fields keep their stored value.
type UpdateInput struct {
	VehicleID   *string          `json:"vehicleId"`
	CustomerID  *string          `json:"customerId"`
	StartDate   *time.Time       `json:"startDate"`
	EndDate     *time.Time       `json:"endDate"`
	TotalAmount *decimal.Decimal `json:"totalAmount"`
	Status      *Status          `json:"status"`
	Notes       *string          `json:"notes"`
}

func (s *Service) Create(ctx context.Context, in CreateInput) (*Reservation, error) {
	if s == nil || s.store == nil {
		return nil, fmt.Errorf("service not initialized")
	}

	status := in.Status
	if status == "" {
		status = StatusPending
	}
	if !ValidStatus(status) {
		return nil, fmt.Errorf("%w: unknown status %q", ErrInvalidInput, status)
	}

	start, end := DateOnly(in.StartDate), DateOnly(in.EndDate)
	if !end.After(start) {
		return nil, ErrDateOrder
	}

	veh, err := s.lookupVehicle(ctx, in.VehicleID)
	if err != nil {
		return nil, err
	}

	total := decimal.Zero
	switch {
	case in.TotalAmount != nil:
		total = *in.TotalAmount
	case veh != nil:
		total = ComputeTotal(veh.DailyRate, start, end)
	default:
		return nil, fmt.Errorf("%w: vehicle %s not found, cannot price reservation", ErrInvalidInput, in.VehicleID)
	}
	if total.IsNegative() {
		return nil, fmt.Errorf("%w: total amount must not be negative", ErrInvalidInput)
	}

	if status != StatusCancelled {
		if err := s.checkOverlap(ctx, in.VehicleID, start, end, ""); err != nil {
			return nil, err
		}
	}

	res := &Reservation{
		ID:          uuid.NewString(),
		VehicleID:   strings.TrimSpace(in.VehicleID),
		CustomerID:  strings.TrimSpace(in.CustomerID),
		StartDate:   start,
		EndDate:     end,
		TotalAmount: total,
		Status:      status,
		Notes:       in.Notes,
	}

	err = s.runTx(ctx, func(ctx context.Context) error {
		if err := s.store.Create(ctx, res); err != nil {
			return err
		}
		if res.Status == StatusConfirmed {
			return s.applyConfirm(ctx, res)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}

func (s *Service) Update(ctx context.Context, id string, in UpdateInput) (*Reservation, error) {
	if s == nil || s.store == nil {
		return nil, fmt.Errorf("service not initialized")
	}

	res, err := s.store.FindByID(ctx, strings.TrimSpace(id))
	if err != nil {
		return nil, err
	}
	prev := res.Status
	prevVehicle := res.VehicleID

	if in.Status != nil {
		if !ValidStatus(*in.Status) {
			return nil, fmt.Errorf("%w: unknown status %q", ErrInvalidInput, *in.Status)
		}
		if !CanTransition(prev, *in.Status) {
			return nil, fmt.Errorf("%w: %s -> %s", ErrBadTransition, prev, *in.Status)
		}
		res.Status = *in.Status
	}
	if in.VehicleID != nil {
		res.VehicleID = strings.TrimSpace(*in.VehicleID)
	}
	if in.CustomerID != nil {
		res.CustomerID = strings.TrimSpace(*in.CustomerID)
	}
	if in.StartDate != nil {
		res.StartDate = DateOnly(*in.StartDate)
	}
	if in.EndDate != nil {
		res.EndDate = DateOnly(*in.EndDate)
	}
	if !res.EndDate.After(res.StartDate) {
		return nil, ErrDateOrder
	}
	if in.Notes != nil {
		res.Notes = *in.Notes
	}

	// Price: an explicit amount wins; otherwise reprice when the vehicle
	// or the period moved.
	switch {
	case in.TotalAmount != nil:
		if in.TotalAmount.IsNegative() {
			return nil, fmt.Errorf("%w: total amount must not be negative", ErrInvalidInput)
		}
		res.TotalAmount = *in.TotalAmount
	case in.VehicleID != nil || in.StartDate != nil || in.EndDate != nil:
		veh, err := s.lookupVehicle(ctx, res.VehicleID)
		if err != nil {
			return nil, err
		}
		if veh != nil {
			res.TotalAmount = ComputeTotal(veh.DailyRate, res.StartDate, res.EndDate)
		}
	}

	if res.Status != StatusCancelled {
		if err := s.checkOverlap(ctx, res.VehicleID, res.StartDate, res.EndDate, res.ID); err != nil {
			return nil, err
		}
	}

	err = s.runTx(ctx, func(ctx context.Context) error {
		if err := s.store.Update(ctx, res); err != nil {
			return err
		}
		switch {
		case prev != StatusConfirmed && res.Status == StatusConfirmed:
			return s.applyConfirm(ctx, res)
		case prev == StatusConfirmed && (res.Status == StatusCompleted || res.Status == StatusCancelled):
			return s.releaseVehicle(ctx, res.VehicleID, res.ID)
		case prev == StatusConfirmed && res.VehicleID != prevVehicle:
			// A confirmed reservation moved to another car: free the old
			// one and occupy the new one.
			if err := s.releaseVehicle(ctx, prevVehicle, res.ID); err != nil {
				return err
			}
			return s.occupyVehicle(ctx, res)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}

func (s *Service) Get(ctx context.Context, id string) (*Reservation, error) {
	if s == nil || s.store == nil {
		return nil, fmt.Errorf("service not initialized")
	}
	return s.store.FindByID(ctx, strings.TrimSpace(id))
}

func (s *Service) List(ctx context.Context, f ListFilter) ([]Reservation, int64, error) {
	if s == nil || s.store == nil {
		return nil, 0, fmt.Errorf("service not initialized")
	}
	return s.store.List(ctx, f)
}

// Delete removes a reservation. Dropping a confirmed one frees the
// vehicle when nothing else holds it.
func (s *Service) Delete(ctx context.Context, id string) error {
	if s == nil || s.store == nil {
		return fmt.Errorf("service not initialized")
	}
	res, err := s.store.FindByID(ctx, strings.TrimSpace(id))
	if err != nil {
		return err
	}
	return s.runTx(ctx, func(ctx context.Context) error {
		ok, err := s.store.Delete(ctx, res.ID)
		if err != nil {
			return err
		}
		if !ok {
			return ErrNotFound
		}
		if res.Status == StatusConfirmed {
			return s.releaseVehicle(ctx, res.VehicleID, res.ID)
		}
		return nil
	})
}

// checkOverlap rejects the period when it collides with another active
// (non-cancelled) reservation of the vehicle.
func (s *Service) checkOverlap(ctx context.Context, vehicleID string, start, end time.Time, excludeID string) error {
	others, err := s.store.ActiveByVehicle(ctx, vehicleID, excludeID)
	if err != nil {
		return err
	}
	for i := range others {
		if Overlaps(start, end, others[i].StartDate, others[i].EndDate) {
			return ErrConflict
		}
	}
	return nil
}

// applyConfirm runs the confirmation side effects: mark the vehicle
// rented when the period covers today, and write the income entry. The
// callers guarantee this runs once per confirmation.
func (s *Service) applyConfirm(ctx context.Context, res *Reservation) error {
	if err := s.occupyVehicle(ctx, res); err != nil {
		return err
	}

	veh, err := s.lookupVehicle(ctx, res.VehicleID)
	if err != nil {
		return err
	}
	var cust *customer.Customer
	if s.customers != nil {
		c, err := s.customers.FindByID(ctx, res.CustomerID)
		if err != nil && !errors.Is(err, customer.ErrNotFound) {
			return err
		}
		cust = c
	}

	if s.income == nil {
		return nil
	}
	_, err = s.income.RecordReservationIncome(ctx, res.ID, res.TotalAmount, veh, cust)
	return err
}

// occupyVehicle marks the vehicle rented when the reservation covers
// today. A vehicle parked in maintenance is never touched: that status
// is set by hand and only cleared by hand.
func (s *Service) occupyVehicle(ctx context.Context, res *Reservation) error {
	veh, err := s.lookupVehicle(ctx, res.VehicleID)
	if err != nil || veh == nil {
		return err
	}
	if veh.Status == vehicle.StatusMaintenance {
		return nil
	}
	if !res.Covers(s.now()) {
		return nil
	}
	if veh.Status == vehicle.StatusRented {
		return nil
	}
	return s.fleet.SetStatus(ctx, veh.ID, vehicle.StatusRented)
}

// releaseVehicle marks the vehicle available again, unless another
// confirmed reservation still holds it or it sits in maintenance.
func (s *Service) releaseVehicle(ctx context.Context, vehicleID, excludeID string) error {
	veh, err := s.lookupVehicle(ctx, vehicleID)
	if err != nil || veh == nil {
		return err
	}
	if veh.Status == vehicle.StatusMaintenance {
		return nil
	}
	others, err := s.store.ConfirmedByVehicle(ctx, vehicleID, excludeID)
	if err != nil {
		return err
	}
	if len(others) > 0 {
		return nil
	}
	if veh.Status == vehicle.StatusAvailable {
		return nil
	}
	return s.fleet.SetStatus(ctx, veh.ID, vehicle.StatusAvailable)
}

// lookupVehicle resolves a vehicle reference, mapping a missing record to
// nil so dangling references degrade instead of failing.
func (s *Service) lookupVehicle(ctx context.Context, id string) (*vehicle.Vehicle, error) {
	if s.fleet == nil {
		return nil, nil
	}
	veh, err := s.fleet.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, vehicle.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return veh, nil
}
