package loancalc

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCalculateLoanSummary_OneYearLoan(t *testing.T) {
	loan := scenarioLoan()

	summary := CalculateLoanSummary(loan)

	require.Len(t, summary.AmortizationSchedule, 12)
	last := summary.AmortizationSchedule[11]
	assert.Equal(t, 12, last.Month)
	assert.True(t, last.EndingBalance.IsZero(), "final balance should be zero, got %s", last.EndingBalance)

	// standard amortization of 100000 at 10% over 12 months
	assertDecimalNear(t, decimal.NewFromFloat(5498.83), summary.TotalInterestPaid, 0.01)

	// first month interest = 100000 * 0.10 / 12
	first := summary.AmortizationSchedule[0]
	assertDecimalNear(t, decimal.NewFromFloat(833.3333333333), first.Interest, 1e-6)
	assertDecimalNear(t, decimal.NewFromFloat(7958.6666666667), first.Principal, 1e-6)
	assert.True(t, first.TotalPayment.Equal(decimal.NewFromInt(8792)))

	assert.Equal(t, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), summary.LoanEndDate)
	assert.True(t, summary.IsFullyAmortized())
}

func TestCalculateLoanSummary_TerminatesWithNonNegativeBalances(t *testing.T) {
	tests := []struct {
		name   string
		amount float64
		rate   float64
		months int
	}{
		{"car loan", 25000, 7.5, 60},
		{"mortgage", 300000, 6.25, 360},
		{"short personal loan", 5000, 18, 6},
		{"tiny rate", 10000, 0.5, 24},
		{"single month", 1000, 12, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			loan := newTestLoan(tt.amount, tt.rate, tt.months, 0)
			loan.EMI = CalculateEMI(loan.LoanAmount, loan.InterestRate, tt.months)

			summary := CalculateLoanSummary(loan)
			schedule := summary.AmortizationSchedule

			require.NotEmpty(t, schedule)
			assert.LessOrEqual(t, len(schedule), tt.months)

			previous := loan.LoanAmount
			for _, entry := range schedule {
				assert.False(t, entry.EndingBalance.IsNegative(), "month %d balance %s", entry.Month, entry.EndingBalance)
				assert.True(t, entry.EndingBalance.LessThanOrEqual(previous), "balance increased at month %d", entry.Month)
				previous = entry.EndingBalance
			}
			assertDecimalNear(t, decimal.Zero, schedule[len(schedule)-1].EndingBalance, 1e-6)
		})
	}
}

func TestCalculateLoanSummary_InterestConservation(t *testing.T) {
	for _, loan := range []float64{1000, 55555.55, 250000} {
		l := newTestLoan(loan, 9.1, 48, 0)
		l.EMI = CalculateEMI(l.LoanAmount, l.InterestRate, 48)

		summary := CalculateLoanSummary(l)

		assert.True(t, summary.TotalInterestPaid.Equal(sumInterest(summary.AmortizationSchedule)),
			"total %s != sum %s", summary.TotalInterestPaid, sumInterest(summary.AmortizationSchedule))
	}
}

func TestCalculateLoanSummary_AccountingIdentityBeforeFinalPeriod(t *testing.T) {
	summary := CalculateLoanSummary(scenarioLoan())
	schedule := summary.AmortizationSchedule

	for _, entry := range schedule[:len(schedule)-1] {
		assert.True(t, entry.Principal.Add(entry.Interest).Equal(entry.TotalPayment),
			"month %d: %s + %s != %s", entry.Month, entry.Principal, entry.Interest, entry.TotalPayment)
	}
}

func TestCalculateLoanSummary_ZeroInterest(t *testing.T) {
	loan := newTestLoan(1200, 0, 12, 100)

	summary := CalculateLoanSummary(loan)

	require.Len(t, summary.AmortizationSchedule, 12)
	for _, entry := range summary.AmortizationSchedule {
		assert.True(t, entry.Interest.IsZero())
		assert.True(t, entry.Principal.Equal(entry.TotalPayment))
	}
	assert.True(t, summary.TotalInterestPaid.IsZero())
}

func TestCalculateLoanSummary_ZeroInterestShortFinalPeriod(t *testing.T) {
	loan := newTestLoan(1200, 0, 12, 500)

	summary := CalculateLoanSummary(loan)

	require.Len(t, summary.AmortizationSchedule, 3)
	last := summary.AmortizationSchedule[2]
	assert.True(t, last.Principal.Equal(decimal.NewFromInt(200)))
	assert.True(t, last.TotalPayment.Equal(decimal.NewFromInt(500)), "final period keeps the nominal EMI")
	assert.True(t, last.EndingBalance.IsZero())
	assert.Equal(t, testStart.AddDate(0, 3, 0), summary.LoanEndDate)
}

func TestCalculateLoanSummary_TenureInMonthsTakesPrecedence(t *testing.T) {
	loan := newTestLoan(1200, 0, 6, 100)
	loan.Tenure = 5

	summary := CalculateLoanSummary(loan)

	assert.Len(t, summary.AmortizationSchedule, 6)
	assert.True(t, summary.AmortizationSchedule[5].EndingBalance.Equal(decimal.NewFromInt(600)))
}

func TestCalculateLoanSummary_EMILargerThanLoan(t *testing.T) {
	loan := newTestLoan(1000, 12, 12, 5000)

	summary := CalculateLoanSummary(loan)

	require.Len(t, summary.AmortizationSchedule, 1)
	entry := summary.AmortizationSchedule[0]
	assert.True(t, entry.Principal.Equal(decimal.NewFromInt(1000)))
	assert.True(t, entry.EndingBalance.IsZero())
}

func TestCalculateLoanSummary_NegativeAmortizationRunsFullTerm(t *testing.T) {
	// interest is 1000 per month, EMI only 500
	loan := newTestLoan(100000, 12, 12, 500)

	summary := CalculateLoanSummary(loan)

	require.Len(t, summary.AmortizationSchedule, 12)
	last := summary.AmortizationSchedule[11]
	assert.True(t, last.EndingBalance.GreaterThan(loan.LoanAmount))
	assert.False(t, summary.IsFullyAmortized())
}

func TestCalculateLoanSummary_DoesNotMutateLoan(t *testing.T) {
	loan := scenarioLoan()
	before := *loan

	_ = CalculateLoanSummary(loan)
	_ = CalculateLoanSummary(loan)

	assert.Equal(t, before, *loan)
}

func TestCalculateLoanSummary_Idempotent(t *testing.T) {
	loan := scenarioLoan()

	assertSummariesEqual(t, CalculateLoanSummary(loan), CalculateLoanSummary(loan))
}
