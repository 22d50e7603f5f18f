package maintenance

import (
	"context"
	"testing"
	"time"

	"github.com/carsmotion/carsmotion/internal/ledger"
	"github.com/carsmotion/carsmotion/internal/vehicle"
	"github.com/shopspring/decimal"
)

type memStore struct {
	items map[string]*Record
}

func newMemStore() *memStore {
	return &memStore{items: map[string]*Record{}}
}

func (m *memStore) Create(_ context.Context, rec *Record) error {
	cp := *rec
	m.items[rec.ID] = &cp
	return nil
}

func (m *memStore) Update(_ context.Context, rec *Record) error {
	if _, ok := m.items[rec.ID]; !ok {
		return ErrNotFound
	}
	cp := *rec
	m.items[rec.ID] = &cp
	return nil
}

func (m *memStore) FindByID(_ context.Context, id string) (*Record, error) {
	rec, ok := m.items[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *rec
	return &cp, nil
}

func (m *memStore) Delete(_ context.Context, id string) (bool, error) {
	if _, ok := m.items[id]; !ok {
		return false, nil
	}
	delete(m.items, id)
	return true, nil
}

func (m *memStore) List(_ context.Context, vehicleID string, _, _ int) ([]Record, int64, error) {
	var out []Record
	for _, rec := range m.items {
		if vehicleID != "" && rec.VehicleID != vehicleID {
			continue
		}
		out = append(out, *rec)
	}
	return out, int64(len(out)), nil
}

type memFleet struct {
	items map[string]*vehicle.Vehicle
}

func (m *memFleet) FindByID(_ context.Context, id string) (*vehicle.Vehicle, error) {
	v, ok := m.items[id]
	if !ok {
		return nil, vehicle.ErrNotFound
	}
	cp := *v
	return &cp, nil
}

type expenseLog struct {
	entries []ledger.Transaction
}

func (l *expenseLog) RecordMaintenanceExpense(_ context.Context, maintenanceID, description string, cost decimal.Decimal, date time.Time, _ *vehicle.Vehicle) (*ledger.Transaction, error) {
	t := ledger.Transaction{
		Date:        date,
		Type:        ledger.TypeExpense,
		Category:    ledger.CategoryMaintenance,
		Amount:      cost,
		Description: description,
		RelatedTo:   maintenanceID,
	}
	l.entries = append(l.entries, t)
	return &t, nil
}

func newTestService() (*Service, *memStore, *expenseLog) {
	store := newMemStore()
	fleet := &memFleet{items: map[string]*vehicle.Vehicle{
		"veh-1": {ID: "veh-1", Make: "Renault", Model: "Clio", LicensePlate: "AA-123-BB"},
	}}
	expenses := &expenseLog{}
	return NewService(store, fleet, expenses, nil), store, expenses
}

func TestCreateWritesExpenseEntry(t *testing.T) {
	svc, _, expenses := newTestService()

	rec, err := svc.Create(context.Background(), CreateInput{
		VehicleID:   "veh-1",
		Kind:        KindService,
		Date:        time.Date(2024, time.June, 10, 0, 0, 0, 0, time.UTC),
		Description: "Vidange",
		Cost:        decimal.NewFromInt(200),
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if len(expenses.entries) != 1 {
		t.Fatalf("expected 1 expense entry, got %d", len(expenses.entries))
	}
	e := expenses.entries[0]
	if e.RelatedTo != rec.ID {
		t.Fatalf("expense must reference the record, got %q", e.RelatedTo)
	}
	if !e.Amount.Equal(decimal.NewFromInt(200)) {
		t.Fatalf("expected amount 200, got %s", e.Amount)
	}
}

func TestDuplicateRecordsEachGetAnEntry(t *testing.T) {
	svc, _, expenses := newTestService()

	in := CreateInput{
		VehicleID:   "veh-1",
		Kind:        KindRepair,
		Date:        time.Date(2024, time.June, 10, 0, 0, 0, 0, time.UTC),
		Description: "Freins avant",
		Cost:        decimal.NewFromInt(350),
	}
	if _, err := svc.Create(context.Background(), in); err != nil {
		t.Fatalf("first create: %v", err)
	}
	if _, err := svc.Create(context.Background(), in); err != nil {
		t.Fatalf("second create: %v", err)
	}
	// Same work twice means two invoices; nothing deduplicates here.
	if len(expenses.entries) != 2 {
		t.Fatalf("expected 2 expense entries, got %d", len(expenses.entries))
	}
}

func TestUpdateDoesNotTouchJournal(t *testing.T) {
	svc, _, expenses := newTestService()

	rec, err := svc.Create(context.Background(), CreateInput{
		VehicleID:   "veh-1",
		Kind:        KindService,
		Date:        time.Date(2024, time.June, 10, 0, 0, 0, 0, time.UTC),
		Description: "Vidange",
		Cost:        decimal.NewFromInt(200),
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	cost := decimal.NewFromInt(250)
	updated, err := svc.Update(context.Background(), rec.ID, UpdateInput{Cost: &cost})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if !updated.Cost.Equal(cost) {
		t.Fatalf("expected cost 250, got %s", updated.Cost)
	}
	if len(expenses.entries) != 1 {
		t.Fatalf("editing a record must not add journal entries, got %d", len(expenses.entries))
	}
}

func TestCreateRejectsUnknownKind(t *testing.T) {
	svc, _, _ := newTestService()

	_, err := svc.Create(context.Background(), CreateInput{
		VehicleID:   "veh-1",
		Kind:        Kind("tuning"),
		Date:        time.Now(),
		Description: "x",
	})
	if err == nil {
		t.Fatal("expected error for unknown kind")
	}
}

func TestCreateToleratesDanglingVehicle(t *testing.T) {
	svc, _, expenses := newTestService()

	_, err := svc.Create(context.Background(), CreateInput{
		VehicleID:   "veh-gone",
		Kind:        KindInspection,
		Date:        time.Now(),
		Description: "Contrôle technique",
		Cost:        decimal.NewFromInt(80),
	})
	if err != nil {
		t.Fatalf("Create with dangling vehicle: %v", err)
	}
	if len(expenses.entries) != 1 {
		t.Fatalf("expected 1 expense entry, got %d", len(expenses.entries))
	}
}
