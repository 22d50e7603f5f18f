package maintenance

import (
	"time"

	"github.com/shopspring/decimal"
)

// Kind classifies a maintenance record.
type Kind string

const (
	KindService    Kind = "service"
	KindRepair     Kind = "repair"
	KindInspection Kind = "inspection"
)

// ValidKind reports whether k is a known maintenance kind.
func ValidKind(k Kind) bool {
	switch k {
	case KindService, KindRepair, KindInspection:
		return true
	}
	return false
}

// Record is the GORM model for the maintenance_records table.
type Record struct {
	ID        string `gorm:"primaryKey;size:36" json:"id"`
	VehicleID string `gorm:"index;size:36;not null" json:"vehicleId"`

	Kind        Kind            `gorm:"column:kind;type:varchar(16);not null" json:"type"`
	Date        time.Time       `gorm:"type:date;not null" json:"date"`
	Description string          `gorm:"type:text" json:"description"`
	Cost        decimal.Decimal `gorm:"type:decimal(10,2);not null;default:0" json:"cost"`
	Mileage     int             `json:"mileage"`
	Provider    string          `gorm:"size:255" json:"provider"`
	Notes       string          `gorm:"type:text" json:"notes"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updatedAt"`
}

func (Record) TableName() string { return "maintenance_records" }
