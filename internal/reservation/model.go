package reservation

import (
	"time"

	"github.com/shopspring/decimal"
)

// Status is the reservation lifecycle status, persisted as a string.
type Status string

const (
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
	StatusCompleted Status = "completed" // terminal
	StatusCancelled Status = "cancelled" // terminal
)

// ValidStatus reports whether s is a known reservation status.
func ValidStatus(s Status) bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

// Reservation is the GORM model for the reservations table.
//
// StartDate and EndDate are calendar days (UTC midnight); both boundary
// days are part of the rental, so [10th, 15th] and [15th, 20th] collide.
type Reservation struct {
	ID         string `gorm:"primaryKey;size:36" json:"id"`
	VehicleID  string `gorm:"index;size:36;not null" json:"vehicleId"`
	CustomerID string `gorm:"index;size:36;not null" json:"customerId"`

	StartDate time.Time `gorm:"type:date;not null" json:"startDate"`
	EndDate   time.Time `gorm:"type:date;not null" json:"endDate"`

	TotalAmount decimal.Decimal `gorm:"type:decimal(10,2);not null;default:0" json:"totalAmount"`
	Status      Status          `gorm:"type:varchar(16);index;not null" json:"status"`
	Notes       string          `gorm:"type:text" json:"notes"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updatedAt"`
}

// Covers reports whether day t falls inside the rental period, boundaries
// included.
func (r Reservation) Covers(t time.Time) bool {
	day := DateOnly(t)
	return !day.Before(DateOnly(r.StartDate)) && !day.After(DateOnly(r.EndDate))
}
