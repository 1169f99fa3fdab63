package service

import (
	"strings"
	"time"

	"github.com/finboard/finboard-backend/internal/cache"
	"github.com/finboard/finboard-backend/internal/domain"
	"github.com/finboard/finboard-backend/internal/loancalc"
	"github.com/finboard/finboard-backend/internal/websocket"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

var hundredPercentDown = decimal.NewFromInt(-100)

// LoanService handles loan business logic and exposes the amortization engine
// for stored loans
type LoanService struct {
	loanRepo        domain.LoanRepository
	transactionRepo domain.TransactionRepository
	summaries       cache.Cache[*loancalc.LoanSummary]
	eventPublisher  websocket.EventPublisher
}

// NewLoanService creates a new LoanService
func NewLoanService(loanRepo domain.LoanRepository, transactionRepo domain.TransactionRepository, summaries cache.Cache[*loancalc.LoanSummary]) *LoanService {
	return &LoanService{
		loanRepo:        loanRepo,
		transactionRepo: transactionRepo,
		summaries:       summaries,
	}
}

// SetEventPublisher sets the event publisher for real-time updates
func (s *LoanService) SetEventPublisher(publisher websocket.EventPublisher) {
	s.eventPublisher = publisher
}

// publishEvent publishes a WebSocket event if a publisher is configured
func (s *LoanService) publishEvent(workspaceID int32, event websocket.Event) {
	if s.eventPublisher != nil {
		s.eventPublisher.Publish(workspaceID, event)
	}
}

// CreateLoanInput contains input for creating a loan
type CreateLoanInput struct {
	Name           string
	LoanAmount     decimal.Decimal
	InterestRate   decimal.Decimal
	Tenure         int32
	TenureInMonths int32
	EMI            *decimal.Decimal // Optional, derived from the annuity formula if nil
	StartDate      time.Time
	Notes          *string
}

// CreateLoan validates and stores a new loan
func (s *LoanService) CreateLoan(workspaceID int32, input CreateLoanInput) (*domain.Loan, error) {
	loan := &domain.Loan{
		WorkspaceID:    workspaceID,
		Name:           strings.TrimSpace(input.Name),
		LoanAmount:     input.LoanAmount,
		InterestRate:   input.InterestRate,
		Tenure:         input.Tenure,
		TenureInMonths: input.TenureInMonths,
		StartDate:      input.StartDate,
		Notes:          trimNotes(input.Notes),
	}

	if input.EMI != nil {
		loan.EMI = *input.EMI
	} else if loan.TotalMonths() > 0 {
		loan.EMI = loancalc.CalculateEMI(loan.LoanAmount, loan.InterestRate, loan.TotalMonths())
	}

	if err := loan.Validate(); err != nil {
		return nil, err
	}

	monthlyInterest := loan.LoanAmount.Mul(loancalc.MonthlyRate(loan.InterestRate))
	if loan.EMI.LessThanOrEqual(monthlyInterest) {
		log.Warn().
			Int32("workspace_id", workspaceID).
			Str("emi", loan.EMI.String()).
			Str("monthly_interest", monthlyInterest.StringFixed(2)).
			Msg("EMI does not cover monthly interest, loan will not amortize")
	}

	created, err := s.loanRepo.Create(loan)
	if err != nil {
		log.Error().Err(err).Int32("workspace_id", workspaceID).Msg("Failed to create loan")
		return nil, err
	}

	log.Info().
		Int32("workspace_id", workspaceID).
		Int32("loan_id", created.ID).
		Str("amount", created.LoanAmount.String()).
		Int("months", created.TotalMonths()).
		Msg("Loan created")

	s.publishEvent(workspaceID, websocket.LoanCreated(created))
	return created, nil
}

// LoanWithStatus pairs a loan with its reconciliation against recorded payments
type LoanWithStatus struct {
	Loan   *domain.Loan
	Status *loancalc.LoanStatus
}

// GetLoans returns all active loans of a workspace with their current status
func (s *LoanService) GetLoans(workspaceID int32) ([]*LoanWithStatus, error) {
	loans, err := s.loanRepo.GetAllByWorkspace(workspaceID)
	if err != nil {
		return nil, err
	}
	if len(loans) == 0 {
		return []*LoanWithStatus{}, nil
	}

	transactions, err := s.transactionRepo.GetByWorkspace(workspaceID, nil)
	if err != nil {
		return nil, err
	}

	result := make([]*LoanWithStatus, 0, len(loans))
	for _, loan := range loans {
		result = append(result, &LoanWithStatus{
			Loan:   loan,
			Status: loancalc.CalculateCurrentBalance(loan, transactions),
		})
	}
	return result, nil
}

// GetLoan retrieves a loan by ID
func (s *LoanService) GetLoan(workspaceID int32, id int32) (*domain.Loan, error) {
	return s.loanRepo.GetByID(workspaceID, id)
}

// UpdateLoanInput contains the editable fields of a loan. The financial terms
// are fixed once the loan exists.
type UpdateLoanInput struct {
	Name  string
	Notes *string
}

// UpdateLoan updates the name and notes of a loan
func (s *LoanService) UpdateLoan(workspaceID int32, id int32, input UpdateLoanInput) (*domain.Loan, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, domain.ErrLoanNameEmpty
	}
	if len(name) > domain.MaxLoanNameLength {
		return nil, domain.ErrLoanNameTooLong
	}

	existing, err := s.loanRepo.GetByID(workspaceID, id)
	if err != nil {
		return nil, err
	}

	changed := *existing
	changed.Name = name
	changed.Notes = trimNotes(input.Notes)

	updated, err := s.loanRepo.Update(&changed)
	if err != nil {
		return nil, err
	}

	s.publishEvent(workspaceID, websocket.LoanUpdated(updated))
	return updated, nil
}

// DeleteLoan soft deletes a loan and drops its cached summary
func (s *LoanService) DeleteLoan(workspaceID int32, id int32) error {
	loan, err := s.loanRepo.GetByID(workspaceID, id)
	if err != nil {
		return err
	}

	if err := s.loanRepo.SoftDelete(workspaceID, id); err != nil {
		return err
	}
	s.summaries.Delete(cache.SummaryKey(loan))

	log.Info().Int32("workspace_id", workspaceID).Int32("loan_id", id).Msg("Loan deleted")
	s.publishEvent(workspaceID, websocket.LoanDeleted(map[string]interface{}{"id": id}))
	return nil
}

// GetSummary returns the baseline amortization schedule of a loan
func (s *LoanService) GetSummary(workspaceID int32, id int32) (*loancalc.LoanSummary, error) {
	loan, err := s.loanRepo.GetByID(workspaceID, id)
	if err != nil {
		return nil, err
	}
	return s.summary(loan), nil
}

func (s *LoanService) summary(loan *domain.Loan) *loancalc.LoanSummary {
	key := cache.SummaryKey(loan)
	if summary, ok := s.summaries.Get(key); ok {
		return summary
	}
	summary := loancalc.CalculateLoanSummary(loan)
	s.summaries.Set(key, summary)
	return summary
}

// GetStatus reconciles a loan with the payments recorded against it
func (s *LoanService) GetStatus(workspaceID int32, id int32) (*loancalc.LoanStatus, error) {
	_, status, err := s.GetLoanWithStatus(workspaceID, id)
	return status, err
}

// GetLoanWithStatus returns the loan together with its reconciled status
// from a single lookup
func (s *LoanService) GetLoanWithStatus(workspaceID int32, id int32) (*domain.Loan, *loancalc.LoanStatus, error) {
	loan, err := s.loanRepo.GetByID(workspaceID, id)
	if err != nil {
		return nil, nil, err
	}

	payments, err := s.transactionRepo.GetByLoanID(workspaceID, id)
	if err != nil {
		return nil, nil, err
	}
	return loan, loancalc.CalculateCurrentBalance(loan, payments), nil
}

// SimulatePrepayment compares a prepayment strategy against the loan's baseline
func (s *LoanService) SimulatePrepayment(workspaceID int32, id int32, strategy loancalc.PrepaymentStrategy) (*loancalc.StrategyComparison, error) {
	if err := validateStrategy(strategy); err != nil {
		return nil, err
	}

	loan, err := s.loanRepo.GetByID(workspaceID, id)
	if err != nil {
		return nil, err
	}

	comparison := loancalc.CompareStrategy(loan, strategy)
	log.Debug().
		Int32("workspace_id", workspaceID).
		Int32("loan_id", id).
		Str("interest_saved", comparison.InterestSaved.StringFixed(2)).
		Int("months_saved", comparison.MonthsSaved).
		Msg("Prepayment simulated")
	return comparison, nil
}

func validateStrategy(strategy loancalc.PrepaymentStrategy) error {
	if strategy.LumpSumAmount.IsNegative() || strategy.LumpSumTiming < 0 {
		return domain.ErrStrategyInvalid
	}
	if strategy.AnnualEMIIncreasePct.LessThan(hundredPercentDown) {
		return domain.ErrStrategyInvalid
	}
	return nil
}

// GetPreClosure computes the payoff of closing a loan at targetMonth
func (s *LoanService) GetPreClosure(workspaceID int32, id int32, targetMonth int) (*loancalc.PreClosureCalculation, error) {
	if targetMonth < 1 {
		return nil, domain.ErrTargetMonthInvalid
	}

	loan, err := s.loanRepo.GetByID(workspaceID, id)
	if err != nil {
		return nil, err
	}

	payments, err := s.transactionRepo.GetByLoanID(workspaceID, id)
	if err != nil {
		return nil, err
	}
	return loancalc.CalculatePreClosure(loan, payments, targetMonth), nil
}

func trimNotes(notes *string) *string {
	if notes == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*notes)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
