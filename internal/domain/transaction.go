package domain

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

var (
	ErrTransactionNotFound      = errors.New("transaction not found")
	ErrTransactionNameEmpty     = errors.New("transaction name is required")
	ErrTransactionNameTooLong   = errors.New("transaction name must be 255 characters or less")
	ErrTransactionAmountInvalid = errors.New("transaction amount must be positive")
	ErrTransactionAmountRange   = errors.New("transaction amount must have at most 2 decimal places and fewer than 14 integer digits")
	ErrTransactionTypeInvalid   = errors.New("transaction type must be 'income' or 'expense'")
	ErrTransactionDateRequired  = errors.New("transaction date is required")
)

type TransactionType string

const (
	TransactionTypeIncome  TransactionType = "income"
	TransactionTypeExpense TransactionType = "expense"
)

// IsValidTransactionType checks if the given type is valid
func IsValidTransactionType(t TransactionType) bool {
	return t == TransactionTypeIncome || t == TransactionTypeExpense
}

// Transaction is a recorded money movement. Expense transactions carrying a LoanID
// count as EMI payments for that loan.
type Transaction struct {
	ID              int32           `json:"id"`
	WorkspaceID     int32           `json:"workspaceId"`
	LoanID          *int32          `json:"loanId,omitempty"`
	Name            string          `json:"name"`
	Amount          decimal.Decimal `json:"amount"`
	Type            TransactionType `json:"type"`
	TransactionDate time.Time       `json:"transactionDate"`
	Notes           *string         `json:"notes,omitempty"`
	CreatedAt       time.Time       `json:"createdAt"`
	UpdatedAt       time.Time       `json:"updatedAt"`
	DeletedAt       *time.Time      `json:"deletedAt,omitempty"`
}

// IsLoanPayment reports whether the transaction is an EMI payment for loanID
func (t *Transaction) IsLoanPayment(loanID int32) bool {
	return t.LoanID != nil && *t.LoanID == loanID && t.Type == TransactionTypeExpense
}

// Validate checks the fields required to record a transaction
func (t *Transaction) Validate() error {
	if t.Name == "" {
		return ErrTransactionNameEmpty
	}
	if len(t.Name) > MaxTransactionNameLength {
		return ErrTransactionNameTooLong
	}
	if t.Amount.LessThanOrEqual(decimal.Zero) {
		return ErrTransactionAmountInvalid
	}
	if !fitsColumn(t.Amount, MoneyScale, MaxMoneyAmount) {
		return ErrTransactionAmountRange
	}
	if !IsValidTransactionType(t.Type) {
		return ErrTransactionTypeInvalid
	}
	if t.TransactionDate.IsZero() {
		return ErrTransactionDateRequired
	}
	return nil
}

type TransactionFilters struct {
	LoanID    *int32
	StartDate *time.Time
	EndDate   *time.Time
	Type      *TransactionType
}

type TransactionRepository interface {
	Create(transaction *Transaction) (*Transaction, error)
	GetByID(workspaceID int32, id int32) (*Transaction, error)
	GetByWorkspace(workspaceID int32, filters *TransactionFilters) ([]*Transaction, error)
	GetByLoanID(workspaceID int32, loanID int32) ([]*Transaction, error)
	SoftDelete(workspaceID int32, id int32) error
}
