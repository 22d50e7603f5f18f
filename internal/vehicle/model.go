package vehicle

import (
	"time"

	"github.com/shopspring/decimal"
)

// Status is the fleet availability status, persisted as a string.
type Status string

const (
	StatusAvailable   Status = "available"
	StatusRented      Status = "rented"
	StatusMaintenance Status = "maintenance" // set manually by the operator
)

// ValidStatus reports whether s is a known vehicle status.
func ValidStatus(s Status) bool {
	switch s {
	case StatusAvailable, StatusRented, StatusMaintenance:
		return true
	}
	return false
}

// Vehicle is the GORM model for the vehicles table.
//
// monthly_payment and insurance_monthly_fee are zero when the vehicle has no
// loan or no insurance contract; the monthly expense generator skips those.
type Vehicle struct {
	ID           string `gorm:"primaryKey;size:36" json:"id"`
	Make         string `gorm:"size:64;not null" json:"make"`
	Model        string `gorm:"size:64;not null" json:"model"`
	Year         int    `gorm:"not null" json:"year"`
	LicensePlate string `gorm:"uniqueIndex;size:32;not null" json:"licensePlate"`
	FuelType     string `gorm:"size:32" json:"fuelType"`
	Mileage      int    `gorm:"not null;default:0" json:"mileage"`

	// Purchase terms.
	PurchaseType        string          `gorm:"size:32" json:"purchaseType"` // cash / loan / lease
	PurchasePrice       decimal.Decimal `gorm:"type:decimal(10,2);default:0" json:"purchasePrice"`
	MonthlyPayment      decimal.Decimal `gorm:"type:decimal(10,2);default:0" json:"monthlyPayment"`
	ContractDuration    int             `gorm:"default:0" json:"contractDuration"` // months
	InsuranceMonthlyFee decimal.Decimal `gorm:"type:decimal(10,2);default:0" json:"insuranceMonthlyFee"`

	DailyRate decimal.Decimal `gorm:"type:decimal(10,2);not null;default:0" json:"dailyRate"`
	Status    Status          `gorm:"type:varchar(16);index;not null;default:'available'" json:"status"`
	Notes     string          `gorm:"type:text" json:"notes"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updatedAt"`
}

// Label renders "Make Model (plate)" for ledger descriptions.
func (v Vehicle) Label() string {
	return v.Make + " " + v.Model + " (" + v.LicensePlate + ")"
}
