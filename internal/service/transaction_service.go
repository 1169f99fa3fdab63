package service

import (
	"strings"
	"time"

	"github.com/finboard/finboard-backend/internal/domain"
	"github.com/finboard/finboard-backend/internal/websocket"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

// TransactionService handles transaction-related business logic. Expense
// transactions linked to a loan are the EMI payments the balance is
// reconstructed from.
type TransactionService struct {
	transactionRepo domain.TransactionRepository
	loanRepo        domain.LoanRepository
	eventPublisher  websocket.EventPublisher
}

// NewTransactionService creates a new TransactionService
func NewTransactionService(transactionRepo domain.TransactionRepository, loanRepo domain.LoanRepository) *TransactionService {
	return &TransactionService{
		transactionRepo: transactionRepo,
		loanRepo:        loanRepo,
	}
}

// SetEventPublisher sets the event publisher for real-time updates
func (s *TransactionService) SetEventPublisher(publisher websocket.EventPublisher) {
	s.eventPublisher = publisher
}

// publishEvent publishes a WebSocket event if a publisher is configured
func (s *TransactionService) publishEvent(workspaceID int32, event websocket.Event) {
	if s.eventPublisher != nil {
		s.eventPublisher.Publish(workspaceID, event)
	}
}

// CreateTransactionInput holds the input for creating a transaction
type CreateTransactionInput struct {
	LoanID          *int32
	Name            string
	Amount          decimal.Decimal
	Type            domain.TransactionType
	TransactionDate *time.Time // Defaults to today
	Notes           *string
}

// CreateTransaction records a transaction, optionally against a loan of the workspace
func (s *TransactionService) CreateTransaction(workspaceID int32, input CreateTransactionInput) (*domain.Transaction, error) {
	transactionDate := time.Now()
	if input.TransactionDate != nil {
		transactionDate = *input.TransactionDate
	}

	tx := &domain.Transaction{
		WorkspaceID:     workspaceID,
		LoanID:          input.LoanID,
		Name:            strings.TrimSpace(input.Name),
		Amount:          input.Amount,
		Type:            input.Type,
		TransactionDate: transactionDate,
		Notes:           trimNotes(input.Notes),
	}
	if err := tx.Validate(); err != nil {
		return nil, err
	}

	var loan *domain.Loan
	if input.LoanID != nil {
		var err error
		loan, err = s.loanRepo.GetByID(workspaceID, *input.LoanID)
		if err != nil {
			return nil, err
		}
	}

	created, err := s.transactionRepo.Create(tx)
	if err != nil {
		log.Error().Err(err).Int32("workspace_id", workspaceID).Msg("Failed to create transaction")
		return nil, err
	}

	s.publishEvent(workspaceID, websocket.TransactionCreated(created))
	if loan != nil && created.IsLoanPayment(loan.ID) {
		log.Info().
			Int32("workspace_id", workspaceID).
			Int32("loan_id", loan.ID).
			Str("amount", created.Amount.String()).
			Msg("Loan payment recorded")
		s.publishEvent(workspaceID, websocket.LoanUpdated(loan))
	}
	return created, nil
}

// GetTransactions retrieves the transactions of a workspace matching filters
func (s *TransactionService) GetTransactions(workspaceID int32, filters *domain.TransactionFilters) ([]*domain.Transaction, error) {
	return s.transactionRepo.GetByWorkspace(workspaceID, filters)
}

// GetTransactionByID retrieves a transaction by its ID
func (s *TransactionService) GetTransactionByID(workspaceID int32, id int32) (*domain.Transaction, error) {
	return s.transactionRepo.GetByID(workspaceID, id)
}

// DeleteTransaction soft deletes a transaction. Deleting an EMI payment moves
// the loan's balance back, so the loan is announced as updated too.
func (s *TransactionService) DeleteTransaction(workspaceID int32, id int32) error {
	tx, err := s.transactionRepo.GetByID(workspaceID, id)
	if err != nil {
		return err
	}

	if err := s.transactionRepo.SoftDelete(workspaceID, id); err != nil {
		return err
	}

	s.publishEvent(workspaceID, websocket.TransactionDeleted(map[string]interface{}{"id": id}))
	if tx.LoanID != nil && tx.IsLoanPayment(*tx.LoanID) {
		if loan, err := s.loanRepo.GetByID(workspaceID, *tx.LoanID); err == nil {
			s.publishEvent(workspaceID, websocket.LoanUpdated(loan))
		}
	}
	return nil
}
