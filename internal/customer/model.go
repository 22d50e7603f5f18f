package customer

import (
	"time"

	"github.com/shopspring/decimal"
)

// DepositType describes how the rental deposit is held.
type DepositType string

const (
	DepositVehicle      DepositType = "vehicle"
	DepositCash         DepositType = "cash"
	DepositCreditCard   DepositType = "creditCard"
	DepositBankTransfer DepositType = "bankTransfer"
	DepositCheck        DepositType = "check"
)

// ValidDepositType reports whether t is a known deposit type; empty means none.
func ValidDepositType(t DepositType) bool {
	switch t {
	case "", DepositVehicle, DepositCash, DepositCreditCard, DepositBankTransfer, DepositCheck:
		return true
	}
	return false
}

// Customer is the GORM model for the customers table.
type Customer struct {
	ID        string `gorm:"primaryKey;size:36" json:"id"`
	FirstName string `gorm:"size:64;not null" json:"firstName"`
	LastName  string `gorm:"size:64;not null" json:"lastName"`
	Email     string `gorm:"size:128;not null" json:"email"`
	Phone     string `gorm:"size:32;not null" json:"phone"`

	Address    string `gorm:"size:255" json:"address"`
	City       string `gorm:"size:64" json:"city"`
	PostalCode string `gorm:"size:16" json:"postalCode"`
	Country    string `gorm:"size:64" json:"country"`

	// Driving licence; the validity window is checked at entry time only.
	LicenseNumber     string     `gorm:"size:64" json:"licenseNumber"`
	LicenseIssueDate  *time.Time `gorm:"type:date" json:"licenseIssueDate"`
	LicenseExpiryDate *time.Time `gorm:"type:date" json:"licenseExpiryDate"`

	DepositType      DepositType     `gorm:"type:varchar(16)" json:"depositType"`
	DepositAmount    decimal.Decimal `gorm:"type:decimal(10,2);default:0" json:"depositAmount"`
	DepositReference string          `gorm:"size:128" json:"depositReference"`

	Notes     string    `gorm:"type:text" json:"notes"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updatedAt"`
}

// FullName renders "First Last" for ledger descriptions and invoices.
func (c Customer) FullName() string {
	return c.FirstName + " " + c.LastName
}
