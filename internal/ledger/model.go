package ledger

import (
	"time"

	"github.com/shopspring/decimal"
)

// Type distinguishes money coming in from money going out.
type Type string

const (
	TypeIncome  Type = "income"
	TypeExpense Type = "expense"
)

// ValidType reports whether t is a known transaction type.
func ValidType(t Type) bool {
	return t == TypeIncome || t == TypeExpense
}

// Journal categories written by the generators. The category column is a
// free string so operators can record anything else by hand; these values
// are the ones the idempotence checks key on.
const (
	CategoryRentals     = "Locations"
	CategoryMaintenance = "Entretien véhicules"
	CategoryLoan        = "Mensualités véhicules"
	CategoryInsurance   = "Assurances véhicules"
)

// Transaction is one journal entry, a GORM model for the transactions table.
//
// Entries created by the generators reference their trigger through
// related_to (reservation, maintenance record or vehicle id). They stay
// ordinary rows afterwards: editing or deleting one does not touch the
// entity that produced it.
type Transaction struct {
	ID          string          `gorm:"primaryKey;size:36" json:"id"`
	Date        time.Time       `gorm:"index;not null;index:idx_tx_generation,priority:3" json:"date"`
	Type        Type            `gorm:"type:varchar(8);index;not null" json:"type"`
	Category    string          `gorm:"size:64;index;not null;index:idx_tx_generation,priority:1" json:"category"`
	Amount      decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"amount"`
	Description string          `gorm:"size:255" json:"description"`
	RelatedTo   string          `gorm:"size:36;index;index:idx_tx_generation,priority:2" json:"relatedTo"`
	CreatedAt   time.Time       `gorm:"autoCreateTime" json:"createdAt"`
}
