package cli

import (
	"strings"
	"testing"
	"time"

	"github.com/finboard/finboard-backend/internal/domain"
	"github.com/finboard/finboard-backend/internal/loancalc"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func yearLoan() *domain.Loan {
	return &domain.Loan{
		ID:           1,
		Name:         "Car loan",
		LoanAmount:   decimal.NewFromInt(100000),
		InterestRate: decimal.NewFromInt(10),
		Tenure:       1,
		EMI:          decimal.NewFromInt(8792),
		StartDate:    time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

func TestRenderTable(t *testing.T) {
	out := RenderTable(Table{
		Title:   "Totals",
		Headers: []string{"Name", "Amount"},
		Rows: [][]string{
			{"Interest", "5,505.80"},
			{separatorRow},
			{"Principal", "100,000.00"},
		},
	})

	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	require.Len(t, lines, 8)
	assert.Contains(t, lines[0], "Totals")
	assert.True(t, strings.HasPrefix(lines[1], "╭"))
	assert.Contains(t, lines[2], "Name")
	assert.Contains(t, lines[4], "│ Interest  │   5,505.80 │")
	assert.True(t, strings.HasPrefix(lines[5], "├"))
	assert.Contains(t, lines[6], "100,000.00")
	assert.True(t, strings.HasPrefix(lines[7], "╰"))
}

func TestRenderTable_Empty(t *testing.T) {
	assert.Empty(t, RenderTable(Table{}))
}

func TestRenderSchedule(t *testing.T) {
	loan := yearLoan()
	summary := loancalc.CalculateLoanSummary(loan)

	out := RenderSchedule(loan, summary.AmortizationSchedule, false)
	assert.Contains(t, out, "2023-12-01")
	assert.Contains(t, out, "Total")
	assert.NotContains(t, out, "Paid")
	assert.Contains(t, out, "100,000.00")
}

func TestRenderSchedule_Reconciled(t *testing.T) {
	loan := yearLoan()
	loanID := loan.ID
	status := loancalc.CalculateCurrentBalance(loan, []*domain.Transaction{{
		LoanID:          &loanID,
		Amount:          loan.EMI,
		Type:            domain.TransactionTypeExpense,
		TransactionDate: time.Date(2023, 1, 3, 0, 0, 0, 0, time.UTC),
	}})

	out := RenderSchedule(loan, status.Schedule, true)
	assert.Contains(t, out, "Paid")
	assert.Contains(t, out, "2023-01-03")
}

func TestRenderSummary_WarnsWhenNotAmortizing(t *testing.T) {
	loan := yearLoan()
	loan.EMI = decimal.NewFromInt(500)

	out := RenderSummary(loancalc.CalculateLoanSummary(loan))
	assert.Contains(t, out, "never amortizes")

	out = RenderSummary(loancalc.CalculateLoanSummary(yearLoan()))
	assert.NotContains(t, out, "never amortizes")
	assert.Contains(t, out, "2024-01-01")
}

func TestRenderStatus(t *testing.T) {
	out := RenderStatus(loancalc.CalculateCurrentBalance(yearLoan(), nil))
	assert.Contains(t, out, "100,000.00")
	assert.Contains(t, out, "0 / 12")
	assert.Contains(t, out, "active")
}

func TestRenderComparison(t *testing.T) {
	loan := yearLoan()
	loan.Tenure = 10
	loan.EMI = decimal.NewFromInt(1500)

	c := loancalc.CompareStrategy(loan, loancalc.NewPrepaymentStrategy(true, decimal.Zero))
	out := RenderComparison(c)
	assert.Contains(t, out, "Interest Saved")
	assert.Contains(t, out, FormatMoney(c.InterestSaved))
	assert.Contains(t, out, FormatMonths(c.MonthsSaved))
}

func TestRenderPreClosure(t *testing.T) {
	loan := yearLoan()

	out := RenderPreClosure(6, loancalc.CalculatePreClosure(loan, nil, 6))
	assert.Contains(t, out, "Pre-closure at Month 6")
	assert.Contains(t, out, "Months Early")

	out = RenderPreClosure(13, loancalc.CalculatePreClosure(loan, nil, 13))
	assert.Contains(t, out, "not an open month")
}
