package loancalc

import (
	"github.com/finboard/finboard-backend/internal/domain"
	"github.com/shopspring/decimal"
)

// CalculatePreClosure computes the payoff for closing the loan before the
// payment of targetMonth. Targets already paid or beyond the schedule yield a
// zero result.
func CalculatePreClosure(loan *domain.Loan, transactions []*domain.Transaction, targetMonth int) *PreClosureCalculation {
	status := CalculateCurrentBalance(loan, transactions)
	schedule := status.Schedule

	if targetMonth <= status.PaymentsMade || targetMonth > len(schedule) {
		return &PreClosureCalculation{
			PayoffAmount:  decimal.Zero,
			InterestSaved: decimal.Zero,
		}
	}

	payoff := loan.LoanAmount
	if targetMonth > 1 {
		payoff = schedule[targetMonth-2].EndingBalance
	}

	interestSaved := decimal.Zero
	for _, entry := range schedule[targetMonth-1:] {
		interestSaved = interestSaved.Add(entry.Interest)
	}

	return &PreClosureCalculation{
		PayoffAmount:  payoff,
		InterestSaved: interestSaved,
		MonthsEarly:   len(schedule) - targetMonth + 1,
	}
}
