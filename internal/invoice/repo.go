package invoice

import (
	"context"
	"errors"
	"fmt"

	"github.com/carsmotion/carsmotion/internal/common/db"
	"gorm.io/gorm"
)

// ErrNotFound is returned when an invoice id does not resolve.
var ErrNotFound = errors.New("invoice not found")

// Repo persists invoices. There is no delete: issued invoices are part
// of the books and can only be cancelled.
type Repo struct {
	db *gorm.DB
}

func NewRepo(gormDB *gorm.DB) *Repo {
	return &Repo{db: gormDB}
}

func (r *Repo) conn(ctx context.Context) (*gorm.DB, error) {
	if r == nil || r.db == nil {
		return nil, fmt.Errorf("repo db is nil")
	}
	return db.FromContext(ctx, r.db), nil
}

func (r *Repo) Create(ctx context.Context, inv *Invoice) error {
	conn, err := r.conn(ctx)
	if err != nil {
		return err
	}
	return conn.Create(inv).Error
}

func (r *Repo) Update(ctx context.Context, inv *Invoice) error {
	conn, err := r.conn(ctx)
	if err != nil {
		return err
	}
	return conn.Save(inv).Error
}

func (r *Repo) FindByID(ctx context.Context, id string) (*Invoice, error) {
	conn, err := r.conn(ctx)
	if err != nil {
		return nil, err
	}
	var inv Invoice
	if err := conn.Where("id = ?", id).First(&inv).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &inv, nil
}

func (r *Repo) ExistsByNumber(ctx context.Context, number string) (bool, error) {
	conn, err := r.conn(ctx)
	if err != nil {
		return false, err
	}
	var count int64
	if err := conn.Model(&Invoice{}).Where("number = ?", number).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// List returns invoices, optionally filtered by status or customer,
// newest first.
func (r *Repo) List(ctx context.Context, status Status, customerID string, offset, limit int) ([]Invoice, int64, error) {
	conn, err := r.conn(ctx)
	if err != nil {
		return nil, 0, err
	}
	if limit <= 0 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}

	q := conn.Model(&Invoice{})
	if status != "" {
		q = q.Where("status = ?", status)
	}
	if customerID != "" {
		q = q.Where("customer_id = ?", customerID)
	}
	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var invoices []Invoice
	if err := q.Order("issue_date desc").Offset(offset).Limit(limit).Find(&invoices).Error; err != nil {
		return nil, 0, err
	}
	return invoices, total, nil
}

// All returns every invoice, oldest first. Used by the backup exporter.
func (r *Repo) All(ctx context.Context) ([]Invoice, error) {
	conn, err := r.conn(ctx)
	if err != nil {
		return nil, err
	}
	var invoices []Invoice
	if err := conn.Order("created_at asc").Find(&invoices).Error; err != nil {
		return nil, err
	}
	return invoices, nil
}
