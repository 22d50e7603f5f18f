package backup

import (
	"context"
	"fmt"
	"time"

	"github.com/carsmotion/carsmotion/internal/common/db"
	"github.com/carsmotion/carsmotion/internal/common/logger"
	"github.com/carsmotion/carsmotion/internal/customer"
	"github.com/carsmotion/carsmotion/internal/invoice"
	"github.com/carsmotion/carsmotion/internal/ledger"
	"github.com/carsmotion/carsmotion/internal/maintenance"
	"github.com/carsmotion/carsmotion/internal/reservation"
	"github.com/carsmotion/carsmotion/internal/settings"
	"github.com/carsmotion/carsmotion/internal/vehicle"
	"gorm.io/gorm"
)

// Document is the portable snapshot of the whole agency: every business
// collection plus the company profile, stamped with its export time.
type Document struct {
	Vehicles     []vehicle.Vehicle         `json:"vehicles"`
	Customers    []customer.Customer       `json:"customers"`
	Reservations []reservation.Reservation `json:"reservations"`
	Invoices     []invoice.Invoice         `json:"invoices"`
	Transactions []ledger.Transaction      `json:"transactions"`
	Maintenance  []maintenance.Record      `json:"maintenanceRecords"`
	Settings     *settings.Settings        `json:"settings"`
	BackupDate   time.Time                 `json:"backupDate"`
}

// Service exports and restores full snapshots. It works on the database
// directly: a backup is by nature the whole store, not one domain.
type Service struct {
	db       *gorm.DB
	settings *settings.Repo
	log      logger.Logger
	now      func() time.Time
}

func NewService(gormDB *gorm.DB, settingsRepo *settings.Repo, log logger.Logger) *Service {
	return &Service{db: gormDB, settings: settingsRepo, log: log, now: time.Now}
}

// Export collects every collection into one document and stamps the
// settings row with the export time.
func (s *Service) Export(ctx context.Context) (*Document, error) {
	if s == nil || s.db == nil {
		return nil, fmt.Errorf("service not initialized")
	}

	doc := &Document{BackupDate: s.now().UTC()}
	conn := db.FromContext(ctx, s.db)

	if err := conn.Order("created_at asc").Find(&doc.Vehicles).Error; err != nil {
		return nil, fmt.Errorf("export vehicles: %w", err)
	}
	if err := conn.Order("created_at asc").Find(&doc.Customers).Error; err != nil {
		return nil, fmt.Errorf("export customers: %w", err)
	}
	if err := conn.Order("created_at asc").Find(&doc.Reservations).Error; err != nil {
		return nil, fmt.Errorf("export reservations: %w", err)
	}
	if err := conn.Order("created_at asc").Find(&doc.Invoices).Error; err != nil {
		return nil, fmt.Errorf("export invoices: %w", err)
	}
	if err := conn.Order("created_at asc").Find(&doc.Transactions).Error; err != nil {
		return nil, fmt.Errorf("export transactions: %w", err)
	}
	if err := conn.Order("created_at asc").Find(&doc.Maintenance).Error; err != nil {
		return nil, fmt.Errorf("export maintenance records: %w", err)
	}

	st, err := s.settings.Get(ctx)
	if err != nil {
		return nil, fmt.Errorf("export settings: %w", err)
	}
	doc.Settings = st

	if err := s.settings.SetLastBackupDate(ctx, doc.BackupDate); err != nil {
		return nil, fmt.Errorf("stamp backup date: %w", err)
	}
	if s.log != nil {
		s.log.Infof("backup exported: %d vehicles, %d customers, %d reservations, %d invoices, %d transactions, %d maintenance records",
			len(doc.Vehicles), len(doc.Customers), len(doc.Reservations),
			len(doc.Invoices), len(doc.Transactions), len(doc.Maintenance))
	}
	return doc, nil
}

// Restore replaces the whole store with the document's content in one
// transaction. There is no merge: partial application would leave the
// calendar and the journal contradicting each other.
func (s *Service) Restore(ctx context.Context, doc *Document) error {
	if s == nil || s.db == nil {
		return fmt.Errorf("service not initialized")
	}
	if doc == nil {
		return fmt.Errorf("empty backup document")
	}

	err := db.WithinTx(ctx, s.db, func(ctx context.Context) error {
		conn := db.FromContext(ctx, s.db)

		type table struct {
			model any
			rows  any
			count int
		}
		tables := []table{
			{&vehicle.Vehicle{}, doc.Vehicles, len(doc.Vehicles)},
			{&customer.Customer{}, doc.Customers, len(doc.Customers)},
			{&reservation.Reservation{}, doc.Reservations, len(doc.Reservations)},
			{&invoice.Invoice{}, doc.Invoices, len(doc.Invoices)},
			{&ledger.Transaction{}, doc.Transactions, len(doc.Transactions)},
			{&maintenance.Record{}, doc.Maintenance, len(doc.Maintenance)},
		}
		for _, t := range tables {
			if err := conn.Where("1 = 1").Delete(t.model).Error; err != nil {
				return fmt.Errorf("clear %T: %w", t.model, err)
			}
			if t.count == 0 {
				continue
			}
			if err := conn.CreateInBatches(t.rows, 200).Error; err != nil {
				return fmt.Errorf("restore %T: %w", t.model, err)
			}
		}

		if doc.Settings != nil {
			if err := s.settings.Save(ctx, doc.Settings); err != nil {
				return fmt.Errorf("restore settings: %w", err)
			}
		}
		return s.settings.SetLastBackupDate(ctx, s.now().UTC())
	})
	if err != nil {
		return err
	}
	if s.log != nil {
		s.log.Infof("backup restored: %d vehicles, %d reservations", len(doc.Vehicles), len(doc.Reservations))
	}
	return nil
}
