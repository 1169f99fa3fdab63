// Package loancalc implements the loan amortization engine: baseline schedules,
// balance reconstruction from recorded payments, prepayment strategy simulation
// and pre-closure payoff. All functions are pure and never mutate their inputs.
package loancalc

import (
	"time"

	"github.com/shopspring/decimal"
)

// DefaultLumpSumTiming is the month a lump sum is applied when none is given
const DefaultLumpSumTiming = 12

// AmortizationEntry is one period of a schedule. IsPaid and PaymentDate are only
// set on schedules reconciled against recorded payments.
type AmortizationEntry struct {
	Month         int             `json:"month"`
	Principal     decimal.Decimal `json:"principal"`
	Interest      decimal.Decimal `json:"interest"`
	TotalPayment  decimal.Decimal `json:"totalPayment"`
	EndingBalance decimal.Decimal `json:"endingBalance"`
	IsPaid        bool            `json:"isPaid,omitempty"`
	PaymentDate   *time.Time      `json:"paymentDate,omitempty"`
}

// LoanSummary is a computed schedule with its aggregates
type LoanSummary struct {
	TotalInterestPaid    decimal.Decimal     `json:"totalInterestPaid"`
	LoanEndDate          time.Time           `json:"loanEndDate"`
	AmortizationSchedule []AmortizationEntry `json:"amortizationSchedule"`
}

// IsFullyAmortized reports whether the schedule reaches a zero balance.
// False for loans whose EMI does not cover the monthly interest.
func (s *LoanSummary) IsFullyAmortized() bool {
	if len(s.AmortizationSchedule) == 0 {
		return false
	}
	return s.AmortizationSchedule[len(s.AmortizationSchedule)-1].EndingBalance.IsZero()
}

// LoanStatus is the reconciliation of a loan against its recorded payments
type LoanStatus struct {
	CurrentBalance decimal.Decimal     `json:"currentBalance"`
	PercentagePaid decimal.Decimal     `json:"percentagePaid"`
	PaymentsMade   int                 `json:"paymentsMade"`
	TotalPayments  int                 `json:"totalPayments"`
	NextPaymentDue *int                `json:"nextPaymentDue"`
	IsFullyPaid    bool                `json:"isFullyPaid"`
	Schedule       []AmortizationEntry `json:"schedule"`
}

// PrepaymentStrategy describes a hypothetical change to the payment plan.
// ExtraEMIPerYear adds one original EMI every 12th month, AnnualEMIIncreasePct
// scales the EMI at each loan anniversary and LumpSumAmount is paid once in month
// LumpSumTiming. The sources are additive within a month.
type PrepaymentStrategy struct {
	ExtraEMIPerYear      bool            `json:"extraEmiPerYear"`
	AnnualEMIIncreasePct decimal.Decimal `json:"annualEmiIncreasePct"`
	LumpSumAmount        decimal.Decimal `json:"lumpSumAmount"`
	LumpSumTiming        int             `json:"lumpSumTiming"`
}

// NewPrepaymentStrategy returns a strategy with the default lump sum timing
func NewPrepaymentStrategy(extraEMIPerYear bool, annualEMIIncreasePct decimal.Decimal) PrepaymentStrategy {
	return PrepaymentStrategy{
		ExtraEMIPerYear:      extraEMIPerYear,
		AnnualEMIIncreasePct: annualEMIIncreasePct,
		LumpSumAmount:        decimal.Zero,
		LumpSumTiming:        DefaultLumpSumTiming,
	}
}

// StrategyComparison places a simulated schedule next to the baseline
type StrategyComparison struct {
	Baseline      *LoanSummary    `json:"baseline"`
	Simulated     *LoanSummary    `json:"simulated"`
	InterestSaved decimal.Decimal `json:"interestSaved"`
	MonthsSaved   int             `json:"monthsSaved"`
}

// PreClosureCalculation is the cost and benefit of closing a loan early
type PreClosureCalculation struct {
	PayoffAmount  decimal.Decimal `json:"payoffAmount"`
	InterestSaved decimal.Decimal `json:"interestSaved"`
	MonthsEarly   int             `json:"monthsEarly"`
}
