package customer

import (
	"context"
	"errors"
	"fmt"

	"github.com/carsmotion/carsmotion/internal/common/db"
	"gorm.io/gorm"
)

// ErrNotFound is returned when a customer id does not resolve.
var ErrNotFound = errors.New("customer not found")

// Repo persists customers. There is no delete: customer records are
// referenced by reservations and invoices and are kept for bookkeeping.
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

func (r *Repo) Create(ctx context.Context, c *Customer) error {
	conn, err := r.conn(ctx)
	if err != nil {
		return err
	}
	return conn.Create(c).Error
}

func (r *Repo) Update(ctx context.Context, c *Customer) error {
	conn, err := r.conn(ctx)
	if err != nil {
		return err
	}
	return conn.Save(c).Error
}

func (r *Repo) FindByID(ctx context.Context, id string) (*Customer, error) {
	conn, err := r.conn(ctx)
	if err != nil {
		return nil, err
	}
	var c Customer
	if err := conn.Where("id = ?", id).First(&c).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &c, nil
}

// List returns customers, optionally filtered by a name/email search term.
func (r *Repo) List(ctx context.Context, search string, offset, limit int) ([]Customer, int64, error) {
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

	q := conn.Model(&Customer{})
	if search != "" {
		pattern := "%" + search + "%"
		q = q.Where("first_name LIKE ? OR last_name LIKE ? OR email LIKE ?", pattern, pattern, pattern)
	}
	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var customers []Customer
	if err := q.Order("created_at desc").Offset(offset).Limit(limit).Find(&customers).Error; err != nil {
		return nil, 0, err
	}
	return customers, total, nil
}

// All returns every customer. Used by the backup exporter.
func (r *Repo) All(ctx context.Context) ([]Customer, error) {
	conn, err := r.conn(ctx)
	if err != nil {
		return nil, err
	}
	var customers []Customer
	if err := conn.Order("created_at asc").Find(&customers).Error; err != nil {
		return nil, err
	}
	return customers, nil
}
