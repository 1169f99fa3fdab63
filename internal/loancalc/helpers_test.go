package loancalc

import (
	"testing"
	"time"

	"github.com/finboard/finboard-backend/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

var testStart = time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)

func newTestLoan(amount, rate float64, months int, emi float64) *domain.Loan {
	return &domain.Loan{
		ID:             1,
		WorkspaceID:    1,
		Name:           "Test loan",
		LoanAmount:     decimal.NewFromFloat(amount),
		InterestRate:   decimal.NewFromFloat(rate),
		TenureInMonths: int32(months),
		EMI:            decimal.NewFromFloat(emi),
		StartDate:      testStart,
	}
}

// scenarioLoan is 100000 at 10% over one year with an EMI of 8792
func scenarioLoan() *domain.Loan {
	loan := newTestLoan(100000, 10, 0, 8792)
	loan.Tenure = 1
	return loan
}

func payment(loanID int32, date time.Time) *domain.Transaction {
	id := loanID
	return &domain.Transaction{
		LoanID:          &id,
		Name:            "EMI",
		Amount:          decimal.NewFromInt(8792),
		Type:            domain.TransactionTypeExpense,
		TransactionDate: date,
	}
}

func monthlyPayments(loanID int32, n int) []*domain.Transaction {
	txs := make([]*domain.Transaction, n)
	for i := 0; i < n; i++ {
		txs[i] = payment(loanID, testStart.AddDate(0, i, 2))
	}
	return txs
}

func assertDecimalNear(t *testing.T, expected, actual decimal.Decimal, tolerance float64) {
	t.Helper()
	diff := expected.Sub(actual).Abs()
	assert.True(t, diff.LessThanOrEqual(decimal.NewFromFloat(tolerance)),
		"expected %s, got %s (tolerance %v)", expected, actual, tolerance)
}

func sumInterest(schedule []AmortizationEntry) decimal.Decimal {
	total := decimal.Zero
	for _, e := range schedule {
		total = total.Add(e.Interest)
	}
	return total
}

func assertSummariesEqual(t *testing.T, expected, actual *LoanSummary) {
	t.Helper()
	assert.True(t, expected.TotalInterestPaid.Equal(actual.TotalInterestPaid),
		"total interest %s != %s", expected.TotalInterestPaid, actual.TotalInterestPaid)
	assert.Equal(t, expected.LoanEndDate, actual.LoanEndDate)
	if !assert.Len(t, actual.AmortizationSchedule, len(expected.AmortizationSchedule)) {
		return
	}
	for i, want := range expected.AmortizationSchedule {
		got := actual.AmortizationSchedule[i]
		assert.Equal(t, want.Month, got.Month)
		assert.True(t, want.Principal.Equal(got.Principal), "month %d principal", want.Month)
		assert.True(t, want.Interest.Equal(got.Interest), "month %d interest", want.Month)
		assert.True(t, want.TotalPayment.Equal(got.TotalPayment), "month %d payment", want.Month)
		assert.True(t, want.EndingBalance.Equal(got.EndingBalance), "month %d balance", want.Month)
	}
}
