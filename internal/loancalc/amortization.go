package loancalc

import (
	"github.com/finboard/finboard-backend/internal/domain"
	"github.com/finboard/finboard-backend/internal/util"
	"github.com/shopspring/decimal"
)

// calcPlaces bounds the scale of intermediate amounts. Exact decimal
// multiplication would otherwise grow the digit count every period.
const calcPlaces int32 = 10

var (
	hundred = decimal.NewFromInt(100)
	twelve  = decimal.NewFromInt(12)
)

// MonthlyRate converts an annual percentage rate to a monthly fraction
func MonthlyRate(annualRate decimal.Decimal) decimal.Decimal {
	return annualRate.Div(twelve).Div(hundred)
}

// CalculateLoanSummary computes the baseline schedule of a fixed-EMI loan.
// The schedule never exceeds the loan term; a loan whose EMI does not cover the
// monthly interest runs the full term without reaching zero.
func CalculateLoanSummary(loan *domain.Loan) *LoanSummary {
	return amortize(loan, PrepaymentStrategy{}, loan.TotalMonths())
}

// amortize runs the monthly loop shared by the baseline and the simulator.
// The zero strategy reproduces the baseline exactly.
func amortize(loan *domain.Loan, strategy PrepaymentStrategy, maxMonths int) *LoanSummary {
	rate := MonthlyRate(loan.InterestRate)
	interestFree := loan.InterestRate.IsZero()
	escalation := decimal.NewFromInt(1).Add(strategy.AnnualEMIIncreasePct.Div(hundred))

	capacity := maxMonths
	if capacity < 0 {
		capacity = 0
	}
	schedule := make([]AmortizationEntry, 0, capacity)
	remaining := loan.LoanAmount
	currentEMI := loan.EMI
	totalInterest := decimal.Zero

	for month := 1; month <= maxMonths && remaining.GreaterThan(decimal.Zero); month++ {
		if month > 1 && (month-1)%12 == 0 && !strategy.AnnualEMIIncreasePct.IsZero() {
			currentEMI = currentEMI.Mul(escalation).Round(calcPlaces)
		}

		prepayment := decimal.Zero
		if strategy.ExtraEMIPerYear && month%12 == 0 {
			prepayment = prepayment.Add(loan.EMI)
		}
		if month == strategy.LumpSumTiming {
			prepayment = prepayment.Add(strategy.LumpSumAmount)
		}

		interest := remaining.Mul(rate).Round(calcPlaces)
		principal := currentEMI.Add(prepayment)
		if !interestFree {
			principal = principal.Sub(interest)
		}
		// final period pays exactly the outstanding balance
		if remaining.Sub(principal).LessThanOrEqual(decimal.Zero) {
			principal = remaining
		}

		remaining = remaining.Sub(principal)
		totalInterest = totalInterest.Add(interest)

		schedule = append(schedule, AmortizationEntry{
			Month:         month,
			Principal:     principal,
			Interest:      interest,
			TotalPayment:  currentEMI.Add(prepayment),
			EndingBalance: remaining,
		})
	}

	return &LoanSummary{
		TotalInterestPaid:    totalInterest,
		LoanEndDate:          util.AddMonths(loan.StartDate, len(schedule)),
		AmortizationSchedule: schedule,
	}
}
