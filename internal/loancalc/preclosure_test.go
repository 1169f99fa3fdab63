package loancalc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func assertZeroPreClosure(t *testing.T, result *PreClosureCalculation) {
	t.Helper()
	require.NotNil(t, result)
	assert.True(t, result.PayoffAmount.IsZero())
	assert.True(t, result.InterestSaved.IsZero())
	assert.Equal(t, 0, result.MonthsEarly)
}

func TestCalculatePreClosure_FirstMonthWithoutPayments(t *testing.T) {
	loan := scenarioLoan()
	summary := CalculateLoanSummary(loan)

	result := CalculatePreClosure(loan, nil, 1)

	assert.True(t, result.PayoffAmount.Equal(loan.LoanAmount))
	assert.True(t, result.InterestSaved.Equal(summary.TotalInterestPaid))
	assert.Equal(t, 12, result.MonthsEarly)
}

func TestCalculatePreClosure_AfterSomePayments(t *testing.T) {
	loan := scenarioLoan()
	schedule := CalculateLoanSummary(loan).AmortizationSchedule

	result := CalculatePreClosure(loan, monthlyPayments(loan.ID, 3), 6)

	assert.True(t, result.PayoffAmount.Equal(schedule[4].EndingBalance))
	assert.True(t, result.InterestSaved.Equal(sumInterest(schedule[5:])))
	assert.Equal(t, 7, result.MonthsEarly)
}

func TestCalculatePreClosure_NextDueMonth(t *testing.T) {
	loan := scenarioLoan()
	schedule := CalculateLoanSummary(loan).AmortizationSchedule

	result := CalculatePreClosure(loan, monthlyPayments(loan.ID, 4), 5)

	// paying off before month 5 costs the balance left after month 4
	assert.True(t, result.PayoffAmount.Equal(schedule[3].EndingBalance))
	assert.Equal(t, 8, result.MonthsEarly)
}

func TestCalculatePreClosure_LastMonth(t *testing.T) {
	loan := scenarioLoan()
	schedule := CalculateLoanSummary(loan).AmortizationSchedule

	result := CalculatePreClosure(loan, nil, 12)

	assert.True(t, result.PayoffAmount.Equal(schedule[10].EndingBalance))
	assert.True(t, result.InterestSaved.Equal(schedule[11].Interest))
	assert.Equal(t, 1, result.MonthsEarly)
}

func TestCalculatePreClosure_GuardedTargets(t *testing.T) {
	loan := scenarioLoan()
	payments := monthlyPayments(loan.ID, 3)

	tests := []struct {
		name        string
		targetMonth int
	}{
		{"zero", 0},
		{"negative", -4},
		{"already paid", 2},
		{"last paid", 3},
		{"beyond schedule", 13},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assertZeroPreClosure(t, CalculatePreClosure(loan, payments, tt.targetMonth))
		})
	}
}

func TestCalculatePreClosure_FullyPaidLoan(t *testing.T) {
	loan := scenarioLoan()
	payments := monthlyPayments(loan.ID, 12)

	for target := 1; target <= 13; target++ {
		assertZeroPreClosure(t, CalculatePreClosure(loan, payments, target))
	}
}
