package cache

import (
	"strings"
	"testing"
	"time"

	"github.com/finboard/finboard-backend/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func keyTestLoan() *domain.Loan {
	return &domain.Loan{
		ID:             7,
		WorkspaceID:    1,
		Name:           "Car",
		LoanAmount:     decimal.NewFromInt(25000),
		InterestRate:   decimal.RequireFromString("7.5"),
		TenureInMonths: 60,
		EMI:            decimal.RequireFromString("500.95"),
		StartDate:      time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
	}
}

func TestSummaryKey_StableAcrossCosmeticChanges(t *testing.T) {
	loan := keyTestLoan()
	key := SummaryKey(loan)

	renamed := keyTestLoan()
	renamed.Name = "Family car"
	notes := "refinanced"
	renamed.Notes = &notes
	// same value with a different scale, as read back from a NUMERIC column
	renamed.LoanAmount = decimal.RequireFromString("25000.00")

	assert.Equal(t, key, SummaryKey(renamed))
	assert.True(t, strings.HasPrefix(key, "summary:"))
}

func TestSummaryKey_ChangesWithTerms(t *testing.T) {
	base := SummaryKey(keyTestLoan())

	mutations := map[string]func(*domain.Loan){
		"id":     func(l *domain.Loan) { l.ID = 8 },
		"amount": func(l *domain.Loan) { l.LoanAmount = decimal.NewFromInt(26000) },
		"rate":   func(l *domain.Loan) { l.InterestRate = decimal.NewFromInt(8) },
		"tenure": func(l *domain.Loan) { l.TenureInMonths = 48 },
		"emi":    func(l *domain.Loan) { l.EMI = decimal.NewFromInt(600) },
		"start":  func(l *domain.Loan) { l.StartDate = l.StartDate.AddDate(0, 1, 0) },
	}

	for name, mutate := range mutations {
		t.Run(name, func(t *testing.T) {
			loan := keyTestLoan()
			mutate(loan)
			assert.NotEqual(t, base, SummaryKey(loan))
		})
	}
}
