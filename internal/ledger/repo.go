package ledger

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/carsmotion/carsmotion/internal/common/db"
	"gorm.io/gorm"
)

// ErrNotFound is returned when a transaction id does not resolve.
var ErrNotFound = errors.New("transaction not found")

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

func (r *Repo) Create(ctx context.Context, t *Transaction) error {
	conn, err := r.conn(ctx)
	if err != nil {
		return err
	}
	return conn.Create(t).Error
}

func (r *Repo) Update(ctx context.Context, t *Transaction) error {
	conn, err := r.conn(ctx)
	if err != nil {
		return err
	}
	return conn.Save(t).Error
}

func (r *Repo) FindByID(ctx context.Context, id string) (*Transaction, error) {
	conn, err := r.conn(ctx)
	if err != nil {
		return nil, err
	}
	var t Transaction
	if err := conn.Where("id = ?", id).First(&t).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &t, nil
}

func (r *Repo) Delete(ctx context.Context, id string) (bool, error) {
	conn, err := r.conn(ctx)
	if err != nil {
		return false, err
	}
	res := conn.Where("id = ?", id).Delete(&Transaction{})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// ListFilter narrows the journal listing.
type ListFilter struct {
	Type     Type
	Category string
	Month    *time.Time // any instant inside the wanted calendar month
	Offset   int
	Limit    int
}

// List returns journal entries, newest first.
func (r *Repo) List(ctx context.Context, f ListFilter) ([]Transaction, int64, error) {
	conn, err := r.conn(ctx)
	if err != nil {
		return nil, 0, err
	}
	if f.Limit <= 0 {
		f.Limit = 50
	}
	if f.Offset < 0 {
		f.Offset = 0
	}

	q := conn.Model(&Transaction{})
	if f.Type != "" {
		q = q.Where("type = ?", f.Type)
	}
	if f.Category != "" {
		q = q.Where("category = ?", f.Category)
	}
	if f.Month != nil {
		start, end := monthBounds(*f.Month)
		q = q.Where("date >= ? AND date < ?", start, end)
	}
	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var txs []Transaction
	if err := q.Order("date desc, created_at desc").Offset(f.Offset).Limit(f.Limit).Find(&txs).Error; err != nil {
		return nil, 0, err
	}
	return txs, total, nil
}

// All returns the whole journal. Used by the backup exporter.
func (r *Repo) All(ctx context.Context) ([]Transaction, error) {
	conn, err := r.conn(ctx)
	if err != nil {
		return nil, err
	}
	var txs []Transaction
	if err := conn.Order("date asc").Find(&txs).Error; err != nil {
		return nil, err
	}
	return txs, nil
}

// ExistsGenerated reports whether a generated entry already exists for the
// given (category, related id, calendar month) key. This is the idempotence
// check behind the monthly vehicle expenses.
func (r *Repo) ExistsGenerated(ctx context.Context, category, relatedTo string, month time.Time) (bool, error) {
	conn, err := r.conn(ctx)
	if err != nil {
		return false, err
	}
	start, end := monthBounds(month)
	var count int64
	err = conn.Model(&Transaction{}).
		Where("category = ? AND related_to = ? AND date >= ? AND date < ?",
			category, relatedTo, start, end).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
