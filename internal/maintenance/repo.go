package maintenance

import (
	"context"
	"errors"
	"fmt"

	"github.com/carsmotion/carsmotion/internal/common/db"
	"gorm.io/gorm"
)

// ErrNotFound is returned when a maintenance record id does not resolve.
var ErrNotFound = errors.New("maintenance record not found")

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

func (r *Repo) Create(ctx context.Context, rec *Record) error {
	conn, err := r.conn(ctx)
	if err != nil {
		return err
	}
	return conn.Create(rec).Error
}

func (r *Repo) Update(ctx context.Context, rec *Record) error {
	conn, err := r.conn(ctx)
	if err != nil {
		return err
	}
	return conn.Save(rec).Error
}

func (r *Repo) FindByID(ctx context.Context, id string) (*Record, error) {
	conn, err := r.conn(ctx)
	if err != nil {
		return nil, err
	}
	var rec Record
	if err := conn.Where("id = ?", id).First(&rec).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &rec, nil
}

func (r *Repo) Delete(ctx context.Context, id string) (bool, error) {
	conn, err := r.conn(ctx)
	if err != nil {
		return false, err
	}
	res := conn.Where("id = ?", id).Delete(&Record{})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// List returns maintenance records, optionally for one vehicle, most
// recent first.
func (r *Repo) List(ctx context.Context, vehicleID string, offset, limit int) ([]Record, int64, error) {
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

	q := conn.Model(&Record{})
	if vehicleID != "" {
		q = q.Where("vehicle_id = ?", vehicleID)
	}
	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var records []Record
	if err := q.Order("date desc").Offset(offset).Limit(limit).Find(&records).Error; err != nil {
		return nil, 0, err
	}
	return records, total, nil
}

// All returns every record, oldest first. Used by the backup exporter.
func (r *Repo) All(ctx context.Context) ([]Record, error) {
	conn, err := r.conn(ctx)
	if err != nil {
		return nil, err
	}
	var records []Record
	if err := conn.Order("created_at asc").Find(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}
