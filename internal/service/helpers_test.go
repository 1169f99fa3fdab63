package service

import (
	"time"

	"github.com/finboard/finboard-backend/internal/cache"
	"github.com/finboard/finboard-backend/internal/domain"
	"github.com/finboard/finboard-backend/internal/loancalc"
	"github.com/finboard/finboard-backend/internal/testutil"
	"github.com/shopspring/decimal"
)

var loanStart = time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)

type loanFixture struct {
	service      *LoanService
	loans        *testutil.MockLoanRepository
	transactions *testutil.MockTransactionRepository
	summaries    *cache.LRUCache[*loancalc.LoanSummary]
	events       *testutil.MockEventPublisher
}

func setupLoanService() *loanFixture {
	f := &loanFixture{
		loans:        testutil.NewMockLoanRepository(),
		transactions: testutil.NewMockTransactionRepository(),
		summaries:    cache.NewLRUCache[*loancalc.LoanSummary](10, time.Hour),
		events:       testutil.NewMockEventPublisher(),
	}
	f.service = NewLoanService(f.loans, f.transactions, f.summaries)
	f.service.SetEventPublisher(f.events)
	return f
}

// yearLoan is 100000 at 10% over 12 months with an EMI of 8792
func yearLoan(id, workspaceID int32) *domain.Loan {
	return &domain.Loan{
		ID:             id,
		WorkspaceID:    workspaceID,
		Name:           "Car loan",
		LoanAmount:     decimal.NewFromInt(100000),
		InterestRate:   decimal.NewFromInt(10),
		TenureInMonths: 12,
		EMI:            decimal.NewFromInt(8792),
		StartDate:      loanStart,
	}
}

// decadeLoan is 100000 at 10% over 10 years with an EMI of 1500
func decadeLoan(id, workspaceID int32) *domain.Loan {
	return &domain.Loan{
		ID:           id,
		WorkspaceID:  workspaceID,
		Name:         "Home loan",
		LoanAmount:   decimal.NewFromInt(100000),
		InterestRate: decimal.NewFromInt(10),
		Tenure:       10,
		EMI:          decimal.NewFromInt(1500),
		StartDate:    loanStart,
	}
}

func emiPayment(id, workspaceID, loanID int32, date time.Time) *domain.Transaction {
	return &domain.Transaction{
		ID:              id,
		WorkspaceID:     workspaceID,
		LoanID:          &loanID,
		Name:            "EMI",
		Amount:          decimal.NewFromInt(8792),
		Type:            domain.TransactionTypeExpense,
		TransactionDate: date,
	}
}
