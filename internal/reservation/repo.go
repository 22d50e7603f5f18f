package reservation

import (
	"context"
	"errors"
	"fmt"

	"github.com/carsmotion/carsmotion/internal/common/db"
	"gorm.io/gorm"
)

// ErrNotFound is returned when a reservation id does not resolve.
var ErrNotFound = errors.New("reservation not found")

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

func (r *Repo) Create(ctx context.Context, res *Reservation) error {
	conn, err := r.conn(ctx)
	if err != nil {
		return err
	}
	return conn.Create(res).Error
}

func (r *Repo) Update(ctx context.Context, res *Reservation) error {
	conn, err := r.conn(ctx)
	if err != nil {
		return err
	}
	return conn.Save(res).Error
}

func (r *Repo) FindByID(ctx context.Context, id string) (*Reservation, error) {
	conn, err := r.conn(ctx)
	if err != nil {
		return nil, err
	}
	var res Reservation
	if err := conn.Where("id = ?", id).First(&res).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &res, nil
}

func (r *Repo) Delete(ctx context.Context, id string) (bool, error) {
	conn, err := r.conn(ctx)
	if err != nil {
		return false, err
	}
	res := conn.Where("id = ?", id).Delete(&Reservation{})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// ListFilter narrows List. Zero values are ignored.
type ListFilter struct {
	VehicleID  string
	CustomerID string
	Status     Status
	Offset     int
	Limit      int
}

func (r *Repo) List(ctx context.Context, f ListFilter) ([]Reservation, int64, error) {
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

	q := conn.Model(&Reservation{})
	if f.VehicleID != "" {
		q = q.Where("vehicle_id = ?", f.VehicleID)
	}
	if f.CustomerID != "" {
		q = q.Where("customer_id = ?", f.CustomerID)
	}
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var out []Reservation
	if err := q.Order("start_date desc").Offset(f.Offset).Limit(f.Limit).Find(&out).Error; err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

// All returns every reservation, oldest first. Used by the backup exporter.
func (r *Repo) All(ctx context.Context) ([]Reservation, error) {
	conn, err := r.conn(ctx)
	if err != nil {
		return nil, err
	}
	var out []Reservation
	if err := conn.Order("created_at asc").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

// ActiveByVehicle returns the vehicle's non-cancelled reservations,
// excluding excludeID when set. These are the ones that block the
// calendar for overlap checks.
func (r *Repo) ActiveByVehicle(ctx context.Context, vehicleID, excludeID string) ([]Reservation, error) {
	conn, err := r.conn(ctx)
	if err != nil {
		return nil, err
	}
	q := conn.Where("vehicle_id = ? AND status <> ?", vehicleID, StatusCancelled)
	if excludeID != "" {
		q = q.Where("id <> ?", excludeID)
	}
	var out []Reservation
	if err := q.Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

// ConfirmedByVehicle returns the vehicle's confirmed reservations,
// excluding excludeID when set.
func (r *Repo) ConfirmedByVehicle(ctx context.Context, vehicleID, excludeID string) ([]Reservation, error) {
	conn, err := r.conn(ctx)
	if err != nil {
		return nil, err
	}
	q := conn.Where("vehicle_id = ? AND status = ?", vehicleID, StatusConfirmed)
	if excludeID != "" {
		q = q.Where("id <> ?", excludeID)
	}
	var out []Reservation
	if err := q.Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}
