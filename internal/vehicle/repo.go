package vehicle

import (
	"context"
	"errors"
	"fmt"

	"github.com/carsmotion/carsmotion/internal/common/db"
	"gorm.io/gorm"
)

// ErrNotFound is returned when a vehicle id does not resolve.
var ErrNotFound = errors.New("vehicle not found")

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

func (r *Repo) Create(ctx context.Context, v *Vehicle) error {
	conn, err := r.conn(ctx)
	if err != nil {
		return err
	}
	return conn.Create(v).Error
}

func (r *Repo) Update(ctx context.Context, v *Vehicle) error {
	conn, err := r.conn(ctx)
	if err != nil {
		return err
	}
	return conn.Save(v).Error
}

func (r *Repo) FindByID(ctx context.Context, id string) (*Vehicle, error) {
	conn, err := r.conn(ctx)
	if err != nil {
		return nil, err
	}
	var v Vehicle
	if err := conn.Where("id = ?", id).First(&v).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &v, nil
}

func (r *Repo) Delete(ctx context.Context, id string) (bool, error) {
	conn, err := r.conn(ctx)
	if err != nil {
		return false, err
	}
	res := conn.Where("id = ?", id).Delete(&Vehicle{})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// List returns vehicles, optionally filtered by status, newest first.
func (r *Repo) List(ctx context.Context, status Status, offset, limit int) ([]Vehicle, int64, error) {
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

	q := conn.Model(&Vehicle{})
	if status != "" {
		q = q.Where("status = ?", status)
	}
	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var vehicles []Vehicle
	if err := q.Order("created_at desc").Offset(offset).Limit(limit).Find(&vehicles).Error; err != nil {
		return nil, 0, err
	}
	return vehicles, total, nil
}

// All returns the whole fleet. Used by the monthly expense generator,
// the status sweep and the backup exporter.
func (r *Repo) All(ctx context.Context) ([]Vehicle, error) {
	conn, err := r.conn(ctx)
	if err != nil {
		return nil, err
	}
	var vehicles []Vehicle
	if err := conn.Order("created_at asc").Find(&vehicles).Error; err != nil {
		return nil, err
	}
	return vehicles, nil
}

// SetStatus mutates only the availability status of one vehicle.
func (r *Repo) SetStatus(ctx context.Context, id string, status Status) error {
	conn, err := r.conn(ctx)
	if err != nil {
		return err
	}
	return conn.Model(&Vehicle{}).Where("id = ?", id).Update("status", status).Error
}

func (r *Repo) ExistsByPlate(ctx context.Context, plate, excludeID string) (bool, error) {
	conn, err := r.conn(ctx)
	if err != nil {
		return false, err
	}
	q := conn.Model(&Vehicle{}).Where("license_plate = ?", plate)
	if excludeID != "" {
		q = q.Where("id <> ?", excludeID)
	}
	var count int64
	if err := q.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}
