package loancalc

import (
	"sort"

	"github.com/finboard/finboard-backend/internal/domain"
	"github.com/shopspring/decimal"
)

// CalculateCurrentBalance reconciles the baseline schedule with the recorded
// payments of the loan. Payments are matched to schedule rows by position: the
// Nth expense transaction (by date) pays the Nth period, regardless of amount.
func CalculateCurrentBalance(loan *domain.Loan, transactions []*domain.Transaction) *LoanStatus {
	payments := LoanPayments(loan.ID, transactions)
	schedule := CalculateLoanSummary(loan).AmortizationSchedule

	totalPayments := len(schedule)
	paymentsMade := len(payments)
	if paymentsMade > totalPayments {
		paymentsMade = totalPayments
	}

	for i := 0; i < paymentsMade; i++ {
		paidOn := payments[i].TransactionDate
		schedule[i].IsPaid = true
		schedule[i].PaymentDate = &paidOn
	}

	var currentBalance decimal.Decimal
	switch {
	case paymentsMade >= totalPayments:
		currentBalance = decimal.Zero
	case paymentsMade == 0:
		currentBalance = loan.LoanAmount
	default:
		currentBalance = schedule[paymentsMade-1].EndingBalance
	}

	status := &LoanStatus{
		CurrentBalance: currentBalance,
		PercentagePaid: percentagePaid(loan.LoanAmount, currentBalance),
		PaymentsMade:   paymentsMade,
		TotalPayments:  totalPayments,
		IsFullyPaid:    paymentsMade >= totalPayments,
		Schedule:       schedule,
	}
	if !status.IsFullyPaid {
		next := paymentsMade + 1
		status.NextPaymentDue = &next
	}
	return status
}

// LoanPayments returns the expense transactions of loanID sorted by date.
// The input slice is left untouched.
func LoanPayments(loanID int32, transactions []*domain.Transaction) []*domain.Transaction {
	payments := make([]*domain.Transaction, 0, len(transactions))
	for _, tx := range transactions {
		if tx != nil && tx.IsLoanPayment(loanID) {
			payments = append(payments, tx)
		}
	}
	sort.SliceStable(payments, func(i, j int) bool {
		return payments[i].TransactionDate.Before(payments[j].TransactionDate)
	})
	return payments
}

func percentagePaid(loanAmount, currentBalance decimal.Decimal) decimal.Decimal {
	if loanAmount.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero
	}
	pct := loanAmount.Sub(currentBalance).Div(loanAmount).Mul(hundred)
	if pct.LessThan(decimal.Zero) {
		return decimal.Zero
	}
	if pct.GreaterThan(hundred) {
		return hundred
	}
	return pct
}
