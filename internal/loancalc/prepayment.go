package loancalc

import (
	"github.com/finboard/finboard-backend/internal/domain"
)

// ApplyPrepaymentStrategy re-runs the amortization under strategy. The loop is
// bounded by twice the loan term so a strategy that fails to amortize (for
// example a negative EMI increase) still terminates.
func ApplyPrepaymentStrategy(loan *domain.Loan, strategy PrepaymentStrategy) *LoanSummary {
	return amortize(loan, strategy, 2*loan.TotalMonths())
}

// CompareStrategy simulates strategy and reports the savings against the
// baseline schedule.
func CompareStrategy(loan *domain.Loan, strategy PrepaymentStrategy) *StrategyComparison {
	baseline := CalculateLoanSummary(loan)
	simulated := ApplyPrepaymentStrategy(loan, strategy)

	return &StrategyComparison{
		Baseline:      baseline,
		Simulated:     simulated,
		InterestSaved: baseline.TotalInterestPaid.Sub(simulated.TotalInterestPaid),
		MonthsSaved:   len(baseline.AmortizationSchedule) - len(simulated.AmortizationSchedule),
	}
}
