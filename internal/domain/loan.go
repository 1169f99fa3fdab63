package domain

import (
	"errors"
	"time"

	"github.com/finboard/finboard-backend/internal/util"
	"github.com/shopspring/decimal"
)

var (
	ErrLoanNotFound            = errors.New("loan not found")
	ErrLoanNameEmpty           = errors.New("loan name is required")
	ErrLoanNameTooLong         = errors.New("loan name must be 200 characters or less")
	ErrLoanAmountInvalid       = errors.New("loan amount must be positive")
	ErrLoanInterestRateInvalid = errors.New("interest rate must be non-negative")
	ErrLoanTenureInvalid       = errors.New("tenure must be at least 1 month")
	ErrLoanEMIInvalid          = errors.New("emi must be positive")
	ErrLoanStartDateRequired   = errors.New("start date is required")
	ErrLoanAmountOutOfRange    = errors.New("loan amount must have at most 2 decimal places and fewer than 14 integer digits")
	ErrLoanRateOutOfRange      = errors.New("interest rate must have at most 4 decimal places and be below 1000")
	ErrLoanEMIOutOfRange       = errors.New("emi must have at most 2 decimal places and fewer than 14 integer digits")
	ErrTargetMonthInvalid      = errors.New("target month must be at least 1")
	ErrStrategyInvalid         = errors.New("prepayment strategy is invalid")
	ErrReportStorageDisabled   = errors.New("report storage is not configured")
)

// Stored precision of money and rate columns
const (
	MoneyScale        = 2
	InterestRateScale = 4
)

var (
	// MaxMoneyAmount is the exclusive upper bound of a NUMERIC(15,2) column
	MaxMoneyAmount = decimal.New(1, 13)
	// MaxInterestRate is the exclusive upper bound of a NUMERIC(7,4) column
	MaxInterestRate = decimal.NewFromInt(1000)
)

// fitsColumn reports whether d survives storage at the given scale without
// rounding and stays below limit
func fitsColumn(d decimal.Decimal, scale int32, limit decimal.Decimal) bool {
	return d.Equal(d.Round(scale)) && d.Abs().LessThan(limit)
}

// Loan is a fixed-EMI loan. Either Tenure (years) or TenureInMonths defines the term;
// TenureInMonths wins when positive.
type Loan struct {
	ID             int32           `json:"id"`
	WorkspaceID    int32           `json:"workspaceId"`
	Name           string          `json:"name"`
	LoanAmount     decimal.Decimal `json:"loanAmount"`
	InterestRate   decimal.Decimal `json:"interestRate"`
	Tenure         int32           `json:"tenure"`
	TenureInMonths int32           `json:"tenureInMonths"`
	EMI            decimal.Decimal `json:"emi"`
	StartDate      time.Time       `json:"startDate"`
	Notes          *string         `json:"notes,omitempty"`
	CreatedAt      time.Time       `json:"createdAt"`
	UpdatedAt      time.Time       `json:"updatedAt"`
	DeletedAt      *time.Time      `json:"deletedAt,omitempty"`
}

// TotalMonths returns the effective term in months
func (l *Loan) TotalMonths() int {
	if l.TenureInMonths > 0 {
		return int(l.TenureInMonths)
	}
	return int(l.Tenure) * 12
}

// Validate checks the fields the amortization engine relies on
func (l *Loan) Validate() error {
	if l.Name == "" {
		return ErrLoanNameEmpty
	}
	if len(l.Name) > MaxLoanNameLength {
		return ErrLoanNameTooLong
	}
	if l.LoanAmount.LessThanOrEqual(decimal.Zero) {
		return ErrLoanAmountInvalid
	}
	if !fitsColumn(l.LoanAmount, MoneyScale, MaxMoneyAmount) {
		return ErrLoanAmountOutOfRange
	}
	if l.InterestRate.LessThan(decimal.Zero) {
		return ErrLoanInterestRateInvalid
	}
	if !fitsColumn(l.InterestRate, InterestRateScale, MaxInterestRate) {
		return ErrLoanRateOutOfRange
	}
	if l.TotalMonths() < 1 {
		return ErrLoanTenureInvalid
	}
	if l.EMI.LessThanOrEqual(decimal.Zero) {
		return ErrLoanEMIInvalid
	}
	if !fitsColumn(l.EMI, MoneyScale, MaxMoneyAmount) {
		return ErrLoanEMIOutOfRange
	}
	if l.StartDate.IsZero() {
		return ErrLoanStartDateRequired
	}
	return nil
}

// PaymentDueDate returns the calendar date of the given 1-based payment number
func (l *Loan) PaymentDueDate(paymentNumber int) time.Time {
	return util.AddMonths(l.StartDate, paymentNumber-1)
}

type LoanRepository interface {
	Create(loan *Loan) (*Loan, error)
	GetByID(workspaceID int32, id int32) (*Loan, error)
	GetAllByWorkspace(workspaceID int32) ([]*Loan, error)
	Update(loan *Loan) (*Loan, error)
	SoftDelete(workspaceID int32, id int32) error
}
