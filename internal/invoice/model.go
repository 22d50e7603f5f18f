package invoice

import (
	"time"

	"github.com/shopspring/decimal"
)

// Status is the invoice payment status.
type Status string

const (
	StatusUnpaid    Status = "unpaid"
	StatusPaid      Status = "paid"
	StatusCancelled Status = "cancelled"
)

// ValidStatus reports whether s is a known invoice status.
func ValidStatus(s Status) bool {
	switch s {
	case StatusUnpaid, StatusPaid, StatusCancelled:
		return true
	}
	return false
}

// Invoice is the GORM model for the invoices table. Number carries the
// sequential-looking FACT-YYYY-NNNN reference printed on the document.
type Invoice struct {
	ID            string `gorm:"primaryKey;size:36" json:"id"`
	Number        string `gorm:"uniqueIndex;size:32;not null" json:"number"`
	ReservationID string `gorm:"index;size:36;not null" json:"reservationId"`
	CustomerID    string `gorm:"index;size:36;not null" json:"customerId"`

	IssueDate time.Time `gorm:"type:date;not null" json:"issueDate"`
	DueDate   time.Time `gorm:"type:date;not null" json:"dueDate"`

	TotalAmount decimal.Decimal `gorm:"type:decimal(10,2);not null;default:0" json:"totalAmount"`
	TaxAmount   decimal.Decimal `gorm:"type:decimal(10,2);not null;default:0" json:"taxAmount"`

	Status        Status `gorm:"type:varchar(16);index;not null" json:"status"`
	PaymentMethod string `gorm:"size:32" json:"paymentMethod"`
	Notes         string `gorm:"type:text" json:"notes"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updatedAt"`
}
