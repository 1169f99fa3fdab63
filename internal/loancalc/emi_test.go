package loancalc

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestCalculateEMI(t *testing.T) {
	tests := []struct {
		name      string
		principal float64
		rate      float64
		months    int
		expected  string
	}{
		{"one year at ten percent", 100000, 10, 12, "8791.59"},
		{"zero rate", 1200, 0, 12, "100"},
		{"zero rate rounds up", 100, 0, 3, "33.34"},
		{"no months", 1000, 10, 0, "0"},
		{"negative months", 1000, 10, -1, "0"},
		{"zero principal", 0, 10, 12, "0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			emi := CalculateEMI(decimal.NewFromFloat(tt.principal), decimal.NewFromFloat(tt.rate), tt.months)
			assert.True(t, emi.Equal(decimal.RequireFromString(tt.expected)), "got %s", emi)
		})
	}
}

func TestCalculateEMI_ClosesScheduleWithinTerm(t *testing.T) {
	for _, months := range []int{6, 12, 60, 240} {
		loan := newTestLoan(150000, 7.25, months, 0)
		loan.EMI = CalculateEMI(loan.LoanAmount, loan.InterestRate, months)

		summary := CalculateLoanSummary(loan)

		assert.Len(t, summary.AmortizationSchedule, months)
		assert.True(t, summary.IsFullyAmortized(), "%d months: final balance %s",
			months, summary.AmortizationSchedule[len(summary.AmortizationSchedule)-1].EndingBalance)
	}
}

func TestMonthlyRate(t *testing.T) {
	rate := MonthlyRate(decimal.NewFromInt(12))

	assert.True(t, rate.Equal(decimal.RequireFromString("0.01")))
}
