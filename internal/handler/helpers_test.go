package handler

import (
	"context"
	"net/http/httptest"
	"strings"
	"time"

	"github.com/finboard/finboard-backend/internal/cache"
	"github.com/finboard/finboard-backend/internal/domain"
	"github.com/finboard/finboard-backend/internal/loancalc"
	"github.com/finboard/finboard-backend/internal/middleware"
	"github.com/finboard/finboard-backend/internal/service"
	"github.com/finboard/finboard-backend/internal/testutil"
	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
)

var loanStart = time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)

type testEnv struct {
	echo         *echo.Echo
	loans        *testutil.MockLoanRepository
	transactions *testutil.MockTransactionRepository
	reports      *testutil.MockReportRepository
	loanService  *service.LoanService
	loanHandler  *LoanHandler
	txHandler    *TransactionHandler
}

func newTestEnv(withReports bool) *testEnv {
	env := &testEnv{
		echo:         echo.New(),
		loans:        testutil.NewMockLoanRepository(),
		transactions: testutil.NewMockTransactionRepository(),
	}
	summaries := cache.NewLRUCache[*loancalc.LoanSummary](10, time.Hour)
	env.loanService = service.NewLoanService(env.loans, env.transactions, summaries)

	var reportService *service.ReportService
	if withReports {
		env.reports = testutil.NewMockReportRepository()
		reportService = service.NewReportService(env.reports, env.loanService)
	}

	env.loanHandler = NewLoanHandler(env.loanService, reportService)
	env.txHandler = NewTransactionHandler(service.NewTransactionService(env.transactions, env.loans))
	return env
}

// newContext builds a request context authenticated as workspaceID
func (env *testEnv) newContext(method, target, body string, workspaceID int32) (echo.Context, *httptest.ResponseRecorder) {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	ctx := context.WithValue(req.Context(), middleware.WorkspaceIDKey, workspaceID)
	req = req.WithContext(ctx)

	rec := httptest.NewRecorder()
	return env.echo.NewContext(req, rec), rec
}

func withID(c echo.Context, id string) echo.Context {
	c.SetParamNames("id")
	c.SetParamValues(id)
	return c
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
		CreatedAt:      loanStart,
		UpdatedAt:      loanStart,
	}
}

// decadeLoan is 100000 at 10% over 10 years with an EMI of 1500
func decadeLoan(id, workspaceID int32) *domain.Loan {
	loan := yearLoan(id, workspaceID)
	loan.Name = "Home loan"
	loan.TenureInMonths = 0
	loan.Tenure = 10
	loan.EMI = decimal.NewFromInt(1500)
	return loan
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
