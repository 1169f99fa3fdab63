package loancalc

import (
	"math"

	"github.com/shopspring/decimal"
)

// CalculateEMI returns the fixed monthly installment that amortizes principal
// over months at annualRate percent:
//
//	emi = P * r * (1+r)^n / ((1+r)^n - 1)
//
// The result is rounded up to cents so the schedule closes within the term.
func CalculateEMI(principal, annualRate decimal.Decimal, months int) decimal.Decimal {
	if months <= 0 || principal.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero
	}
	n := decimal.NewFromInt(int64(months))
	if annualRate.IsZero() {
		return principal.Div(n).RoundCeil(2)
	}

	// float64 only for the power term; money stays decimal
	r := MonthlyRate(annualRate).InexactFloat64()
	factor := math.Pow(1+r, float64(months))
	ratio := decimal.NewFromFloat(r * factor / (factor - 1))
	return principal.Mul(ratio).RoundCeil(2)
}
