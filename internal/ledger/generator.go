package ledger

import (
	"context"
	"fmt"
	"time"

	"github.com/carsmotion/carsmotion/internal/common/logger"
	"github.com/carsmotion/carsmotion/internal/customer"
	"github.com/carsmotion/carsmotion/internal/vehicle"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TransactionStore is the journal persistence the generator writes through.
type TransactionStore interface {
	Create(ctx context.Context, t *Transaction) error
	ExistsGenerated(ctx context.Context, category, relatedTo string, month time.Time) (bool, error)
}

// VehicleSource lists the fleet for the monthly expense run.
type VehicleSource interface {
	All(ctx context.Context) ([]vehicle.Vehicle, error)
}

// Generator produces journal entries as side effects of rental activity:
// rental income on reservation confirmation, maintenance costs, and the
// recurring monthly loan and insurance charges per vehicle.
type Generator struct {
	store    TransactionStore
	vehicles VehicleSource
	log      logger.Logger
	now      func() time.Time
}

func NewGenerator(store TransactionStore, vehicles VehicleSource, log logger.Logger) *Generator {
	return &Generator{store: store, vehicles: vehicles, log: log, now: time.Now}
}

// RecordReservationIncome writes the "Locations" income entry for a
// reservation entering confirmed status. The caller guards the transition:
// this must be invoked once per confirm, never on a re-save of an already
// confirmed reservation. Dangling vehicle or customer references degrade
// to generic labels instead of failing.
func (g *Generator) RecordReservationIncome(ctx context.Context, reservationID string, amount decimal.Decimal, veh *vehicle.Vehicle, cust *customer.Customer) (*Transaction, error) {
	if g == nil || g.store == nil {
		return nil, fmt.Errorf("generator not initialized")
	}
	if reservationID == "" {
		return nil, fmt.Errorf("reservation id required")
	}

	vehicleInfo := "Véhicule"
	if veh != nil {
		vehicleInfo = veh.Make + " " + veh.Model
	}
	customerName := "Client"
	if cust != nil {
		customerName = cust.FullName()
	}

	t := &Transaction{
		ID:          uuid.NewString(),
		Date:        g.now(),
		Type:        TypeIncome,
		Category:    CategoryRentals,
		Amount:      amount,
		Description: fmt.Sprintf("Location de %s à %s", vehicleInfo, customerName),
		RelatedTo:   reservationID,
	}
	if err := g.store.Create(ctx, t); err != nil {
		return nil, fmt.Errorf("record reservation income: %w", err)
	}
	return t, nil
}

// RecordMaintenanceExpense writes the expense entry for a maintenance
// record. Called unconditionally at record creation: two identical records
// yield two entries, unlike the monthly generation below.
func (g *Generator) RecordMaintenanceExpense(ctx context.Context, maintenanceID, description string, cost decimal.Decimal, date time.Time, veh *vehicle.Vehicle) (*Transaction, error) {
	if g == nil || g.store == nil {
		return nil, fmt.Errorf("generator not initialized")
	}
	if maintenanceID == "" {
		return nil, fmt.Errorf("maintenance id required")
	}

	vehicleInfo := "Véhicule inconnu"
	if veh != nil {
		vehicleInfo = veh.Label()
	}

	t := &Transaction{
		ID:          uuid.NewString(),
		Date:        date,
		Type:        TypeExpense,
		Category:    CategoryMaintenance,
		Amount:      cost,
		Description: fmt.Sprintf("%s - %s", description, vehicleInfo),
		RelatedTo:   maintenanceID,
	}
	if err := g.store.Create(ctx, t); err != nil {
		return nil, fmt.Errorf("record maintenance expense: %w", err)
	}
	return t, nil
}

// GenerateMonthlyVehicleExpenses writes the recurring loan and insurance
// entries for forDate's calendar month, one per (vehicle, category, month).
// Re-running it for a month that is already covered creates nothing, so the
// operation can be triggered at every boot or month view without damage.
// Returns the number of entries created.
func (g *Generator) GenerateMonthlyVehicleExpenses(ctx context.Context, forDate time.Time) (int, error) {
	if g == nil || g.store == nil || g.vehicles == nil {
		return 0, fmt.Errorf("generator not initialized")
	}

	fleet, err := g.vehicles.All(ctx)
	if err != nil {
		return 0, fmt.Errorf("list vehicles: %w", err)
	}

	label := monthLabelFR(forDate)
	created := 0

	for i := range fleet {
		v := &fleet[i]

		if v.MonthlyPayment.IsPositive() {
			n, err := g.generateOnce(ctx, forDate, CategoryLoan, v.ID, v.MonthlyPayment,
				fmt.Sprintf("Mensualité %s %s (%s) - %s", v.Make, v.Model, v.LicensePlate, label))
			if err != nil {
				return created, err
			}
			created += n
		}

		if v.InsuranceMonthlyFee.IsPositive() {
			n, err := g.generateOnce(ctx, forDate, CategoryInsurance, v.ID, v.InsuranceMonthlyFee,
				fmt.Sprintf("Assurance %s %s (%s) - %s", v.Make, v.Model, v.LicensePlate, label))
			if err != nil {
				return created, err
			}
			created += n
		}
	}

	if g.log != nil {
		g.log.Infof("monthly vehicle expenses for %s: %d created", label, created)
	}
	return created, nil
}

func (g *Generator) generateOnce(ctx context.Context, forDate time.Time, category, vehicleID string, amount decimal.Decimal, description string) (int, error) {
	exists, err := g.store.ExistsGenerated(ctx, category, vehicleID, forDate)
	if err != nil {
		return 0, fmt.Errorf("check existing %s: %w", category, err)
	}
	if exists {
		return 0, nil
	}

	t := &Transaction{
		ID:          uuid.NewString(),
		Date:        forDate,
		Type:        TypeExpense,
		Category:    category,
		Amount:      amount,
		Description: description,
		RelatedTo:   vehicleID,
	}
	if err := g.store.Create(ctx, t); err != nil {
		return 0, fmt.Errorf("create %s: %w", category, err)
	}
	return 1, nil
}
