package reservation

import (
	"time"

	"github.com/shopspring/decimal"
)

// TaxRate is the VAT rate applied when deriving the tax portion of a
// rental total.
var TaxRate = decimal.NewFromFloat(0.20)

// RentalDays counts the billable days of [start, end]. Both boundary days
// bill, so a one-day rental (start == end) counts 1 and the 1st through
// the 3rd counts 3.
func RentalDays(start, end time.Time) int {
	s, e := DateOnly(start), DateOnly(end)
	if e.Before(s) {
		return 0
	}
	return int(e.Sub(s).Hours()/24) + 1
}

// ComputeTotal prices the period at the given daily rate.
func ComputeTotal(dailyRate decimal.Decimal, start, end time.Time) decimal.Decimal {
	return dailyRate.Mul(decimal.NewFromInt(int64(RentalDays(start, end))))
}

// ComputeTax applies TaxRate to a rental total, rounded half up to
// 2 decimal places.
func ComputeTax(total decimal.Decimal) decimal.Decimal {
	return total.Mul(TaxRate).Round(2)
}
