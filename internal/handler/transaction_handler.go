package handler

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/finboard/finboard-backend/internal/domain"
	"github.com/finboard/finboard-backend/internal/middleware"
	"github.com/finboard/finboard-backend/internal/service"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

// TransactionHandler handles transaction-related HTTP requests
type TransactionHandler struct {
	transactionService *service.TransactionService
}

// NewTransactionHandler creates a new TransactionHandler
func NewTransactionHandler(transactionService *service.TransactionService) *TransactionHandler {
	return &TransactionHandler{transactionService: transactionService}
}

// CreateTransactionRequest represents the create transaction request body
type CreateTransactionRequest struct {
	LoanID          *int32  `json:"loanId,omitempty"`
	Name            string  `json:"name"`
	Amount          string  `json:"amount"`
	Type            string  `json:"type"`
	TransactionDate *string `json:"transactionDate,omitempty"`
	Notes           *string `json:"notes,omitempty"`
}

// TransactionResponse represents a transaction in API responses
type TransactionResponse struct {
	ID              int32   `json:"id"`
	WorkspaceID     int32   `json:"workspaceId"`
	LoanID          *int32  `json:"loanId,omitempty"`
	Name            string  `json:"name"`
	Amount          string  `json:"amount"`
	Type            string  `json:"type"`
	TransactionDate string  `json:"transactionDate"`
	Notes           *string `json:"notes,omitempty"`
	CreatedAt       string  `json:"createdAt"`
}

// CreateTransaction godoc
// @Summary Record a transaction
// @Description An expense with a loanId counts as a payment of that loan
// @Tags transactions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CreateTransactionRequest true "Transaction"
// @Success 201 {object} TransactionResponse
// @Failure 400 {object} ProblemDetails
// @Failure 500 {object} ProblemDetails
// @Router /transactions [post]
func (h *TransactionHandler) CreateTransaction(c echo.Context) error {
	workspaceID := middleware.GetWorkspaceID(c)

	var req CreateTransactionRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	amount, err := decimal.NewFromString(req.Amount)
	if err != nil {
		return NewValidationError(c, "Invalid amount", []ValidationError{
			{Field: "amount", Message: "Must be a valid decimal number"},
		})
	}

	var transactionDate *time.Time
	if req.TransactionDate != nil && *req.TransactionDate != "" {
		date, err := time.Parse(dateFormat, *req.TransactionDate)
		if err != nil {
			return NewValidationError(c, "Invalid transaction date", []ValidationError{
				{Field: "transactionDate", Message: "Must be in YYYY-MM-DD format"},
			})
		}
		transactionDate = &date
	}

	tx, err := h.transactionService.CreateTransaction(workspaceID, service.CreateTransactionInput{
		LoanID:          req.LoanID,
		Name:            req.Name,
		Amount:          amount,
		Type:            domain.TransactionType(req.Type),
		TransactionDate: transactionDate,
		Notes:           req.Notes,
	})
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrLoanNotFound):
			return NewValidationError(c, "Validation failed", []ValidationError{{Field: "loanId", Message: "Loan not found"}})
		case errors.Is(err, domain.ErrTransactionNameEmpty):
			return NewValidationError(c, "Validation failed", []ValidationError{{Field: "name", Message: "Name is required"}})
		case errors.Is(err, domain.ErrTransactionNameTooLong):
			return NewValidationError(c, "Validation failed", []ValidationError{{Field: "name", Message: "Name must be 255 characters or less"}})
		case errors.Is(err, domain.ErrTransactionAmountInvalid):
			return NewValidationError(c, "Validation failed", []ValidationError{{Field: "amount", Message: "Amount must be positive"}})
		case errors.Is(err, domain.ErrTransactionAmountRange):
			return NewValidationError(c, "Validation failed", []ValidationError{{Field: "amount", Message: "Amount must have at most 2 decimal places and fewer than 14 integer digits"}})
		case errors.Is(err, domain.ErrTransactionTypeInvalid):
			return NewValidationError(c, "Validation failed", []ValidationError{{Field: "type", Message: "Type must be 'income' or 'expense'"}})
		}
		log.Error().Err(err).Int32("workspace_id", workspaceID).Msg("Failed to create transaction")
		return NewInternalError(c, "Failed to create transaction")
	}

	return c.JSON(http.StatusCreated, toTransactionResponse(tx))
}

// GetTransactions godoc
// @Summary List transactions
// @Tags transactions
// @Produce json
// @Security BearerAuth
// @Param loanId query int false "Only transactions of this loan"
// @Param startDate query string false "From date (YYYY-MM-DD)"
// @Param endDate query string false "To date (YYYY-MM-DD)"
// @Param type query string false "income or expense"
// @Success 200 {array} TransactionResponse
// @Failure 400 {object} ProblemDetails
// @Failure 500 {object} ProblemDetails
// @Router /transactions [get]
func (h *TransactionHandler) GetTransactions(c echo.Context) error {
	workspaceID := middleware.GetWorkspaceID(c)

	filters := &domain.TransactionFilters{}
	if v := c.QueryParam("loanId"); v != "" {
		id, err := strconv.ParseInt(v, 10, 32)
		if err != nil {
			return NewValidationError(c, "Invalid loan ID", nil)
		}
		loanID := int32(id)
		filters.LoanID = &loanID
	}
	if v := c.QueryParam("startDate"); v != "" {
		start, err := time.Parse(dateFormat, v)
		if err != nil {
			return NewValidationError(c, "Invalid start date", []ValidationError{
				{Field: "startDate", Message: "Must be in YYYY-MM-DD format"},
			})
		}
		filters.StartDate = &start
	}
	if v := c.QueryParam("endDate"); v != "" {
		end, err := time.Parse(dateFormat, v)
		if err != nil {
			return NewValidationError(c, "Invalid end date", []ValidationError{
				{Field: "endDate", Message: "Must be in YYYY-MM-DD format"},
			})
		}
		filters.EndDate = &end
	}
	if v := c.QueryParam("type"); v != "" {
		txType := domain.TransactionType(v)
		if !domain.IsValidTransactionType(txType) {
			return NewValidationError(c, "Invalid type", []ValidationError{
				{Field: "type", Message: "Type must be 'income' or 'expense'"},
			})
		}
		filters.Type = &txType
	}

	transactions, err := h.transactionService.GetTransactions(workspaceID, filters)
	if err != nil {
		log.Error().Err(err).Int32("workspace_id", workspaceID).Msg("Failed to get transactions")
		return NewInternalError(c, "Failed to get transactions")
	}

	response := make([]TransactionResponse, len(transactions))
	for i, tx := range transactions {
		response[i] = toTransactionResponse(tx)
	}
	return c.JSON(http.StatusOK, response)
}

// DeleteTransaction godoc
// @Summary Delete a transaction
// @Tags transactions
// @Security BearerAuth
// @Param id path int true "Transaction ID"
// @Success 204
// @Failure 400 {object} ProblemDetails
// @Failure 404 {object} ProblemDetails
// @Router /transactions/{id} [delete]
func (h *TransactionHandler) DeleteTransaction(c echo.Context) error {
	workspaceID := middleware.GetWorkspaceID(c)
	id, err := parseID(c)
	if err != nil {
		return NewValidationError(c, "Invalid transaction ID", nil)
	}

	if err := h.transactionService.DeleteTransaction(workspaceID, id); err != nil {
		if errors.Is(err, domain.ErrTransactionNotFound) {
			return NewNotFoundError(c, "Transaction not found")
		}
		log.Error().Err(err).Int32("workspace_id", workspaceID).Int32("transaction_id", id).Msg("Failed to delete transaction")
		return NewInternalError(c, "Failed to delete transaction")
	}
	return c.NoContent(http.StatusNoContent)
}

func toTransactionResponse(tx *domain.Transaction) TransactionResponse {
	return TransactionResponse{
		ID:              tx.ID,
		WorkspaceID:     tx.WorkspaceID,
		LoanID:          tx.LoanID,
		Name:            tx.Name,
		Amount:          tx.Amount.StringFixed(2),
		Type:            string(tx.Type),
		TransactionDate: formatDate(tx.TransactionDate),
		Notes:           tx.Notes,
		CreatedAt:       formatTimestamp(tx.CreatedAt),
	}
}
