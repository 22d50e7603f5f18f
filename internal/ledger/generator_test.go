package ledger

import (
	"context"
	"testing"
	"time"

	"github.com/carsmotion/carsmotion/internal/vehicle"
	"github.com/shopspring/decimal"
)

// fakeStore is an in-memory TransactionStore mirroring the repo's
// (category, related id, month) existence check.
type fakeStore struct {
	txs []Transaction
}

func (f *fakeStore) Create(_ context.Context, t *Transaction) error {
	f.txs = append(f.txs, *t)
	return nil
}

func (f *fakeStore) ExistsGenerated(_ context.Context, category, relatedTo string, month time.Time) (bool, error) {
	start, end := monthBounds(month)
	for _, t := range f.txs {
		if t.Category == category && t.RelatedTo == relatedTo &&
			!t.Date.Before(start) && t.Date.Before(end) {
			return true, nil
		}
	}
	return false, nil
}

type fakeFleet struct {
	vehicles []vehicle.Vehicle
}

func (f *fakeFleet) All(_ context.Context) ([]vehicle.Vehicle, error) {
	return f.vehicles, nil
}

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func TestGenerateMonthlyVehicleExpensesIdempotent(t *testing.T) {
	store := &fakeStore{}
	fleet := &fakeFleet{vehicles: []vehicle.Vehicle{
		{
			ID: "veh-1", Make: "Renault", Model: "Clio", LicensePlate: "AA-123-BB",
			MonthlyPayment:      dec("320.00"),
			InsuranceMonthlyFee: dec("85.50"),
		},
		{
			ID: "veh-2", Make: "Peugeot", Model: "208", LicensePlate: "CC-456-DD",
			MonthlyPayment: dec("290.00"),
			// no insurance contract
		},
		{
			ID: "veh-3", Make: "Citroën", Model: "C3", LicensePlate: "EE-789-FF",
			// owned outright: no loan, no insurance fee
		},
	}}
	g := NewGenerator(store, fleet, nil)

	forDate := time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC)

	count, err := g.GenerateMonthlyVehicleExpenses(context.Background(), forDate)
	if err != nil {
		t.Fatalf("first run: %v", err)
	}
	// veh-1 loan + insurance, veh-2 loan.
	if count != 3 {
		t.Fatalf("expected 3 created on first run, got %d", count)
	}
	if len(store.txs) != 3 {
		t.Fatalf("expected 3 stored transactions, got %d", len(store.txs))
	}

	count, err = g.GenerateMonthlyVehicleExpenses(context.Background(), forDate)
	if err != nil {
		t.Fatalf("second run: %v", err)
	}
	if count != 0 {
		t.Fatalf("expected 0 created on second run, got %d", count)
	}
	if len(store.txs) != 3 {
		t.Fatalf("second run must not add transactions, got %d", len(store.txs))
	}

	// A different month generates again.
	april := time.Date(2024, time.April, 1, 0, 0, 0, 0, time.UTC)
	count, err = g.GenerateMonthlyVehicleExpenses(context.Background(), april)
	if err != nil {
		t.Fatalf("april run: %v", err)
	}
	if count != 3 {
		t.Fatalf("expected 3 created for april, got %d", count)
	}
}

func TestGenerateMonthlyVehicleExpensesContent(t *testing.T) {
	store := &fakeStore{}
	fleet := &fakeFleet{vehicles: []vehicle.Vehicle{
		{
			ID: "veh-1", Make: "Renault", Model: "Clio", LicensePlate: "AA-123-BB",
			MonthlyPayment: dec("320.00"),
		},
	}}
	g := NewGenerator(store, fleet, nil)

	forDate := time.Date(2024, time.March, 5, 0, 0, 0, 0, time.UTC)
	if _, err := g.GenerateMonthlyVehicleExpenses(context.Background(), forDate); err != nil {
		t.Fatalf("GenerateMonthlyVehicleExpenses: %v", err)
	}

	tx := store.txs[0]
	if tx.Type != TypeExpense {
		t.Fatalf("expected expense, got %s", tx.Type)
	}
	if tx.Category != CategoryLoan {
		t.Fatalf("expected category %q, got %q", CategoryLoan, tx.Category)
	}
	if tx.RelatedTo != "veh-1" {
		t.Fatalf("expected relatedTo veh-1, got %q", tx.RelatedTo)
	}
	if !tx.Amount.Equal(dec("320.00")) {
		t.Fatalf("expected amount 320.00, got %s", tx.Amount)
	}
	want := "Mensualité Renault Clio (AA-123-BB) - mars 2024"
	if tx.Description != want {
		t.Fatalf("expected description %q, got %q", want, tx.Description)
	}
}

func TestRecordMaintenanceExpenseIsNotIdempotent(t *testing.T) {
	store := &fakeStore{}
	g := NewGenerator(store, &fakeFleet{}, nil)

	veh := &vehicle.Vehicle{ID: "veh-1", Make: "Renault", Model: "Clio", LicensePlate: "AA-123-BB"}
	date := time.Date(2024, time.June, 10, 0, 0, 0, 0, time.UTC)

	tx1, err := g.RecordMaintenanceExpense(context.Background(), "mnt-1", "Vidange", dec("200"), date, veh)
	if err != nil {
		t.Fatalf("first expense: %v", err)
	}
	tx2, err := g.RecordMaintenanceExpense(context.Background(), "mnt-2", "Vidange", dec("200"), date, veh)
	if err != nil {
		t.Fatalf("second expense: %v", err)
	}

	// Two records, two entries, even with identical arguments.
	if len(store.txs) != 2 {
		t.Fatalf("expected 2 transactions, got %d", len(store.txs))
	}
	if tx1.RelatedTo != "mnt-1" || tx2.RelatedTo != "mnt-2" {
		t.Fatalf("expected entries tied to their own records, got %q and %q", tx1.RelatedTo, tx2.RelatedTo)
	}
	if !tx1.Amount.Equal(dec("200")) {
		t.Fatalf("expected amount 200, got %s", tx1.Amount)
	}
	if tx1.Description != "Vidange - Renault Clio (AA-123-BB)" {
		t.Fatalf("unexpected description %q", tx1.Description)
	}
}

func TestRecordMaintenanceExpenseUnknownVehicle(t *testing.T) {
	store := &fakeStore{}
	g := NewGenerator(store, &fakeFleet{}, nil)

	date := time.Date(2024, time.June, 10, 0, 0, 0, 0, time.UTC)
	tx, err := g.RecordMaintenanceExpense(context.Background(), "mnt-1", "Freins", dec("150"), date, nil)
	if err != nil {
		t.Fatalf("RecordMaintenanceExpense: %v", err)
	}
	if tx.Description != "Freins - Véhicule inconnu" {
		t.Fatalf("dangling vehicle reference must degrade, got %q", tx.Description)
	}
}

func TestRecordReservationIncome(t *testing.T) {
	store := &fakeStore{}
	g := NewGenerator(store, &fakeFleet{}, nil)

	veh := &vehicle.Vehicle{Make: "Renault", Model: "Clio"}
	tx, err := g.RecordReservationIncome(context.Background(), "res-1", dec("450.00"), veh, nil)
	if err != nil {
		t.Fatalf("RecordReservationIncome: %v", err)
	}
	if tx.Type != TypeIncome || tx.Category != CategoryRentals {
		t.Fatalf("unexpected type/category: %s/%s", tx.Type, tx.Category)
	}
	if tx.RelatedTo != "res-1" {
		t.Fatalf("expected relatedTo res-1, got %q", tx.RelatedTo)
	}
	// Missing customer degrades to the generic label.
	if tx.Description != "Location de Renault Clio à Client" {
		t.Fatalf("unexpected description %q", tx.Description)
	}
}
