package cli

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/finboard/finboard-backend/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const carLoan = `
[loan]
name = "Car loan"
amount = 100000
rate = 10
months = 12
emi = 8792
start = 2023-01-01

[[payments]]
date = 2023-01-03

[[payments]]
date = 2023-02-02
amount = 9000
`

func TestParseLoanFile(t *testing.T) {
	f, err := ParseLoanFile(carLoan)
	require.NoError(t, err)

	assert.Equal(t, "Car loan", f.Loan.Name)
	assert.Equal(t, 100000.0, f.Loan.Amount)
	assert.Equal(t, 12, f.Loan.Months)
	assert.Len(t, f.Payments, 2)

	loan, err := f.BuildLoan()
	require.NoError(t, err)
	assert.True(t, loan.EMI.Equal(decimal.NewFromInt(8792)))
	assert.Equal(t, time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC), loan.StartDate)
	assert.Equal(t, 12, loan.TotalMonths())
}

func TestParseLoanFile_UnknownKey(t *testing.T) {
	_, err := ParseLoanFile("[loan]\nprincipal = 5000\n")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "loan.principal")
}

func TestParseLoanFile_Malformed(t *testing.T) {
	_, err := ParseLoanFile("[loan\namount = 1")
	assert.Error(t, err)
}

func TestLoadLoanFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "loan.toml")
	require.NoError(t, os.WriteFile(path, []byte(carLoan), 0o600))

	f, err := LoadLoanFile(path)
	require.NoError(t, err)
	assert.Equal(t, "Car loan", f.Loan.Name)

	_, err = LoadLoanFile(filepath.Join(t.TempDir(), "missing.toml"))
	assert.Error(t, err)
}

func TestBuildLoan_DerivesEMI(t *testing.T) {
	f := &LoanFile{Loan: LoanSpec{Amount: 100000, Rate: 10, Years: 1,
		Start: time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)}}

	loan, err := f.BuildLoan()
	require.NoError(t, err)
	assert.Equal(t, "Loan", loan.Name)
	assert.Equal(t, "8791.59", loan.EMI.StringFixed(2))
}

func TestBuildLoan_DefaultsStartToCurrentMonth(t *testing.T) {
	f := &LoanFile{Loan: LoanSpec{Amount: 5000, Rate: 0, Months: 5}}

	loan, err := f.BuildLoan()
	require.NoError(t, err)
	assert.Equal(t, 1, loan.StartDate.Day())
	assert.Equal(t, "1000", loan.EMI.String())
}

func TestBuildLoan_Invalid(t *testing.T) {
	f := &LoanFile{Loan: LoanSpec{Amount: 5000, Rate: 5}}
	_, err := f.BuildLoan()
	assert.ErrorIs(t, err, domain.ErrLoanTenureInvalid)

	f = &LoanFile{Loan: LoanSpec{Amount: -1, Rate: 5, Months: 12}}
	_, err = f.BuildLoan()
	assert.ErrorIs(t, err, domain.ErrLoanAmountInvalid)
}

func TestApply(t *testing.T) {
	f, err := ParseLoanFile(carLoan)
	require.NoError(t, err)

	amount, years, emi := 200000.0, 2, 0.0
	start := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	f.Apply(Overrides{Amount: &amount, Years: &years, EMI: &emi, Start: &start})

	loan, err := f.BuildLoan()
	require.NoError(t, err)
	assert.True(t, loan.LoanAmount.Equal(decimal.NewFromInt(200000)))
	assert.Equal(t, 24, loan.TotalMonths())
	assert.Equal(t, start, loan.StartDate)
	assert.True(t, loan.EMI.GreaterThan(decimal.NewFromInt(9000)))
}

func TestApply_MonthsAfterYears(t *testing.T) {
	f := &LoanFile{Loan: LoanSpec{Months: 12}}
	years, months := 3, 18
	f.Apply(Overrides{Years: &years, Months: &months})

	assert.Equal(t, 3, f.Loan.Years)
	assert.Equal(t, 18, f.Loan.Months)
}

func TestTransactions(t *testing.T) {
	f, err := ParseLoanFile(carLoan)
	require.NoError(t, err)
	loan, err := f.BuildLoan()
	require.NoError(t, err)

	txs := f.Transactions(loan)
	require.Len(t, txs, 2)

	assert.Equal(t, loan.ID, *txs[0].LoanID)
	assert.Equal(t, domain.TransactionTypeExpense, txs[0].Type)
	assert.True(t, txs[0].Amount.Equal(loan.EMI))
	assert.Equal(t, time.Date(2023, 1, 3, 0, 0, 0, 0, time.UTC), txs[0].TransactionDate)
	assert.True(t, txs[1].Amount.Equal(decimal.NewFromInt(9000)))
}
