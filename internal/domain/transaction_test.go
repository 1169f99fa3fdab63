package domain

import (
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func TestTransactionTypeConstants(t *testing.T) {
	// These values must match the CHECK constraint on transactions.type
	if string(TransactionTypeIncome) != "income" {
		t.Errorf("TransactionTypeIncome = %s, want income", TransactionTypeIncome)
	}
	if string(TransactionTypeExpense) != "expense" {
		t.Errorf("TransactionTypeExpense = %s, want expense", TransactionTypeExpense)
	}
	if IsValidTransactionType("transfer") {
		t.Error("transfer should not be a valid transaction type")
	}
}

func TestIsLoanPayment(t *testing.T) {
	loanID := int32(7)
	other := int32(8)

	tests := []struct {
		name     string
		tx       Transaction
		expected bool
	}{
		{"expense for loan", Transaction{LoanID: &loanID, Type: TransactionTypeExpense}, true},
		{"income for loan", Transaction{LoanID: &loanID, Type: TransactionTypeIncome}, false},
		{"expense for other loan", Transaction{LoanID: &other, Type: TransactionTypeExpense}, false},
		{"expense without loan", Transaction{Type: TransactionTypeExpense}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.tx.IsLoanPayment(loanID); got != tt.expected {
				t.Errorf("IsLoanPayment() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestTransactionValidate(t *testing.T) {
	valid := func() *Transaction {
		return &Transaction{
			Name:            "EMI January",
			Amount:          decimal.NewFromInt(8792),
			Type:            TransactionTypeExpense,
			TransactionDate: time.Date(2023, 1, 3, 0, 0, 0, 0, time.UTC),
		}
	}

	tests := []struct {
		name    string
		mutate  func(*Transaction)
		wantErr error
	}{
		{"valid", func(*Transaction) {}, nil},
		{"empty name", func(tx *Transaction) { tx.Name = "" }, ErrTransactionNameEmpty},
		{"long name", func(tx *Transaction) { tx.Name = strings.Repeat("x", MaxTransactionNameLength+1) }, ErrTransactionNameTooLong},
		{"zero amount", func(tx *Transaction) { tx.Amount = decimal.Zero }, ErrTransactionAmountInvalid},
		{"fractional cents", func(tx *Transaction) { tx.Amount = decimal.RequireFromString("8791.589") }, ErrTransactionAmountRange},
		{"amount too large", func(tx *Transaction) { tx.Amount = decimal.New(1, 13) }, ErrTransactionAmountRange},
		{"bad type", func(tx *Transaction) { tx.Type = "transfer" }, ErrTransactionTypeInvalid},
		{"missing date", func(tx *Transaction) { tx.TransactionDate = time.Time{} }, ErrTransactionDateRequired},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tx := valid()
			tt.mutate(tx)
			if err := tx.Validate(); err != tt.wantErr {
				t.Errorf("Validate() = %v, want %v", err, tt.wantErr)
			}
		})
	}
}
