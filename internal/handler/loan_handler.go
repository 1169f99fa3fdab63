package handler

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/finboard/finboard-backend/internal/domain"
	"github.com/finboard/finboard-backend/internal/loancalc"
	"github.com/finboard/finboard-backend/internal/middleware"
	"github.com/finboard/finboard-backend/internal/service"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

// LoanHandler handles loan-related HTTP requests
type LoanHandler struct {
	loanService   *service.LoanService
	reportService *service.ReportService
}

// NewLoanHandler creates a new LoanHandler. reportService may be nil when
// object storage is not configured.
func NewLoanHandler(loanService *service.LoanService, reportService *service.ReportService) *LoanHandler {
	return &LoanHandler{loanService: loanService, reportService: reportService}
}

// CreateLoanRequest represents the create loan request body
type CreateLoanRequest struct {
	Name           string  `json:"name"`
	LoanAmount     string  `json:"loanAmount"`
	InterestRate   string  `json:"interestRate"`
	Tenure         int32   `json:"tenure"`
	TenureInMonths int32   `json:"tenureInMonths"`
	EMI            *string `json:"emi,omitempty"` // Optional: computed from the annuity formula if omitted
	StartDate      string  `json:"startDate"`
	Notes          *string `json:"notes,omitempty"`
}

// UpdateLoanRequest represents the update loan request body.
// Financial terms are locked after creation.
type UpdateLoanRequest struct {
	Name  string  `json:"name"`
	Notes *string `json:"notes,omitempty"`
}

// PrepaymentRequest represents a prepayment strategy to simulate
type PrepaymentRequest struct {
	ExtraEMIPerYear      bool    `json:"extraEmiPerYear"`
	AnnualEMIIncreasePct *string `json:"annualEmiIncreasePct,omitempty"`
	LumpSumAmount        *string `json:"lumpSumAmount,omitempty"`
	LumpSumTiming        *int    `json:"lumpSumTiming,omitempty"` // Defaults to month 12
}

// LoanResponse represents a loan in API responses
type LoanResponse struct {
	ID             int32   `json:"id"`
	WorkspaceID    int32   `json:"workspaceId"`
	Name           string  `json:"name"`
	LoanAmount     string  `json:"loanAmount"`
	InterestRate   string  `json:"interestRate"`
	Tenure         int32   `json:"tenure"`
	TenureInMonths int32   `json:"tenureInMonths"`
	TotalMonths    int     `json:"totalMonths"`
	EMI            string  `json:"emi"`
	StartDate      string  `json:"startDate"`
	Notes          *string `json:"notes,omitempty"`
	CreatedAt      string  `json:"createdAt"`
	UpdatedAt      string  `json:"updatedAt"`
}

// LoanWithStatusResponse represents a loan with its payment progress
type LoanWithStatusResponse struct {
	LoanResponse
	CurrentBalance string `json:"currentBalance"`
	PercentagePaid string `json:"percentagePaid"`
	PaymentsMade   int    `json:"paymentsMade"`
	TotalPayments  int    `json:"totalPayments"`
	NextPaymentDue *int   `json:"nextPaymentDue"`
	IsFullyPaid    bool   `json:"isFullyPaid"`
}

// ScheduleEntryResponse represents one period of an amortization schedule
type ScheduleEntryResponse struct {
	Month         int     `json:"month"`
	DueDate       string  `json:"dueDate"`
	Principal     string  `json:"principal"`
	Interest      string  `json:"interest"`
	TotalPayment  string  `json:"totalPayment"`
	EndingBalance string  `json:"endingBalance"`
	IsPaid        bool    `json:"isPaid"`
	PaymentDate   *string `json:"paymentDate,omitempty"`
}

// LoanSummaryResponse represents a computed schedule with its aggregates
type LoanSummaryResponse struct {
	TotalInterestPaid    string                  `json:"totalInterestPaid"`
	LoanEndDate          string                  `json:"loanEndDate"`
	IsFullyAmortized     bool                    `json:"isFullyAmortized"`
	AmortizationSchedule []ScheduleEntryResponse `json:"amortizationSchedule"`
}

// LoanStatusResponse represents the reconciliation of a loan with its payments
type LoanStatusResponse struct {
	CurrentBalance string                  `json:"currentBalance"`
	PercentagePaid string                  `json:"percentagePaid"`
	PaymentsMade   int                     `json:"paymentsMade"`
	TotalPayments  int                     `json:"totalPayments"`
	NextPaymentDue *int                    `json:"nextPaymentDue"`
	IsFullyPaid    bool                    `json:"isFullyPaid"`
	Schedule       []ScheduleEntryResponse `json:"schedule"`
}

// StrategyComparisonResponse represents a simulated strategy next to the baseline
type StrategyComparisonResponse struct {
	Baseline      LoanSummaryResponse `json:"baseline"`
	Simulated     LoanSummaryResponse `json:"simulated"`
	InterestSaved string              `json:"interestSaved"`
	MonthsSaved   int                 `json:"monthsSaved"`
}

// PreClosureResponse represents the payoff of closing a loan early
type PreClosureResponse struct {
	TargetMonth   int    `json:"targetMonth"`
	PayoffAmount  string `json:"payoffAmount"`
	InterestSaved string `json:"interestSaved"`
	MonthsEarly   int    `json:"monthsEarly"`
}

// CreateLoan godoc
// @Summary Create a loan
// @Description Create a fixed-EMI loan. The EMI is derived from the annuity formula when omitted.
// @Tags loans
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CreateLoanRequest true "Loan terms"
// @Success 201 {object} LoanResponse
// @Failure 400 {object} ProblemDetails
// @Failure 401 {object} ProblemDetails
// @Failure 500 {object} ProblemDetails
// @Router /loans [post]
func (h *LoanHandler) CreateLoan(c echo.Context) error {
	workspaceID := middleware.GetWorkspaceID(c)

	var req CreateLoanRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	loanAmount, err := decimal.NewFromString(req.LoanAmount)
	if err != nil {
		return NewValidationError(c, "Invalid loan amount", []ValidationError{
			{Field: "loanAmount", Message: "Must be a valid decimal number"},
		})
	}

	interestRate := decimal.Zero
	if req.InterestRate != "" {
		interestRate, err = decimal.NewFromString(req.InterestRate)
		if err != nil {
			return NewValidationError(c, "Invalid interest rate", []ValidationError{
				{Field: "interestRate", Message: "Must be a valid decimal number"},
			})
		}
	}

	var emi *decimal.Decimal
	if req.EMI != nil && *req.EMI != "" {
		value, err := decimal.NewFromString(*req.EMI)
		if err != nil {
			return NewValidationError(c, "Invalid EMI", []ValidationError{
				{Field: "emi", Message: "Must be a valid decimal number"},
			})
		}
		emi = &value
	}

	startDate, err := time.Parse(dateFormat, req.StartDate)
	if err != nil {
		return NewValidationError(c, "Invalid start date", []ValidationError{
			{Field: "startDate", Message: "Must be in YYYY-MM-DD format"},
		})
	}

	loan, err := h.loanService.CreateLoan(workspaceID, service.CreateLoanInput{
		Name:           req.Name,
		LoanAmount:     loanAmount,
		InterestRate:   interestRate,
		Tenure:         req.Tenure,
		TenureInMonths: req.TenureInMonths,
		EMI:            emi,
		StartDate:      startDate,
		Notes:          req.Notes,
	})
	if err != nil {
		return h.loanError(c, err, "Failed to create loan")
	}

	return c.JSON(http.StatusCreated, toLoanResponse(loan))
}

// GetLoans godoc
// @Summary List loans
// @Description Get all loans of the workspace with their repayment status
// @Tags loans
// @Produce json
// @Security BearerAuth
// @Success 200 {array} LoanWithStatusResponse
// @Failure 401 {object} ProblemDetails
// @Failure 500 {object} ProblemDetails
// @Router /loans [get]
func (h *LoanHandler) GetLoans(c echo.Context) error {
	workspaceID := middleware.GetWorkspaceID(c)

	loans, err := h.loanService.GetLoans(workspaceID)
	if err != nil {
		return h.loanError(c, err, "Failed to get loans")
	}

	response := make([]LoanWithStatusResponse, len(loans))
	for i, l := range loans {
		response[i] = LoanWithStatusResponse{
			LoanResponse:   toLoanResponse(l.Loan),
			CurrentBalance: l.Status.CurrentBalance.StringFixed(2),
			PercentagePaid: l.Status.PercentagePaid.StringFixed(2),
			PaymentsMade:   l.Status.PaymentsMade,
			TotalPayments:  l.Status.TotalPayments,
			NextPaymentDue: l.Status.NextPaymentDue,
			IsFullyPaid:    l.Status.IsFullyPaid,
		}
	}
	return c.JSON(http.StatusOK, response)
}

// GetLoan godoc
// @Summary Get a loan
// @Tags loans
// @Produce json
// @Security BearerAuth
// @Param id path int true "Loan ID"
// @Success 200 {object} LoanResponse
// @Failure 400 {object} ProblemDetails
// @Failure 404 {object} ProblemDetails
// @Router /loans/{id} [get]
func (h *LoanHandler) GetLoan(c echo.Context) error {
	workspaceID := middleware.GetWorkspaceID(c)
	id, err := parseID(c)
	if err != nil {
		return NewValidationError(c, "Invalid loan ID", nil)
	}

	loan, err := h.loanService.GetLoan(workspaceID, id)
	if err != nil {
		return h.loanError(c, err, "Failed to get loan")
	}
	return c.JSON(http.StatusOK, toLoanResponse(loan))
}

// UpdateLoan godoc
// @Summary Update a loan
// @Description Only the name and notes can change; the terms are fixed once created
// @Tags loans
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Loan ID"
// @Param request body UpdateLoanRequest true "Name and notes"
// @Success 200 {object} LoanResponse
// @Failure 400 {object} ProblemDetails
// @Failure 404 {object} ProblemDetails
// @Router /loans/{id} [put]
func (h *LoanHandler) UpdateLoan(c echo.Context) error {
	workspaceID := middleware.GetWorkspaceID(c)
	id, err := parseID(c)
	if err != nil {
		return NewValidationError(c, "Invalid loan ID", nil)
	}

	var req UpdateLoanRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	loan, err := h.loanService.UpdateLoan(workspaceID, id, service.UpdateLoanInput{
		Name:  req.Name,
		Notes: req.Notes,
	})
	if err != nil {
		return h.loanError(c, err, "Failed to update loan")
	}
	return c.JSON(http.StatusOK, toLoanResponse(loan))
}

// DeleteLoan godoc
// @Summary Delete a loan
// @Tags loans
// @Security BearerAuth
// @Param id path int true "Loan ID"
// @Success 204
// @Failure 400 {object} ProblemDetails
// @Failure 404 {object} ProblemDetails
// @Router /loans/{id} [delete]
func (h *LoanHandler) DeleteLoan(c echo.Context) error {
	workspaceID := middleware.GetWorkspaceID(c)
	id, err := parseID(c)
	if err != nil {
		return NewValidationError(c, "Invalid loan ID", nil)
	}

	if err := h.loanService.DeleteLoan(workspaceID, id); err != nil {
		return h.loanError(c, err, "Failed to delete loan")
	}
	return c.NoContent(http.StatusNoContent)
}

// GetSummary godoc
// @Summary Baseline amortization schedule
// @Description Full schedule with total interest and end date, ignoring recorded payments
// @Tags loans
// @Produce json
// @Security BearerAuth
// @Param id path int true "Loan ID"
// @Success 200 {object} LoanSummaryResponse
// @Failure 400 {object} ProblemDetails
// @Failure 404 {object} ProblemDetails
// @Router /loans/{id}/summary [get]
func (h *LoanHandler) GetSummary(c echo.Context) error {
	workspaceID := middleware.GetWorkspaceID(c)
	id, err := parseID(c)
	if err != nil {
		return NewValidationError(c, "Invalid loan ID", nil)
	}

	loan, err := h.loanService.GetLoan(workspaceID, id)
	if err != nil {
		return h.loanError(c, err, "Failed to get loan")
	}
	summary, err := h.loanService.GetSummary(workspaceID, id)
	if err != nil {
		return h.loanError(c, err, "Failed to calculate loan summary")
	}
	return c.JSON(http.StatusOK, toSummaryResponse(loan, summary))
}

// GetStatus godoc
// @Summary Loan status
// @Description Balance and progress reconstructed from the payments recorded against the loan
// @Tags loans
// @Produce json
// @Security BearerAuth
// @Param id path int true "Loan ID"
// @Success 200 {object} LoanStatusResponse
// @Failure 400 {object} ProblemDetails
// @Failure 404 {object} ProblemDetails
// @Router /loans/{id}/status [get]
func (h *LoanHandler) GetStatus(c echo.Context) error {
	workspaceID := middleware.GetWorkspaceID(c)
	id, err := parseID(c)
	if err != nil {
		return NewValidationError(c, "Invalid loan ID", nil)
	}

	loan, err := h.loanService.GetLoan(workspaceID, id)
	if err != nil {
		return h.loanError(c, err, "Failed to get loan")
	}
	status, err := h.loanService.GetStatus(workspaceID, id)
	if err != nil {
		return h.loanError(c, err, "Failed to calculate loan status")
	}

	return c.JSON(http.StatusOK, LoanStatusResponse{
		CurrentBalance: status.CurrentBalance.StringFixed(2),
		PercentagePaid: status.PercentagePaid.StringFixed(2),
		PaymentsMade:   status.PaymentsMade,
		TotalPayments:  status.TotalPayments,
		NextPaymentDue: status.NextPaymentDue,
		IsFullyPaid:    status.IsFullyPaid,
		Schedule:       toScheduleResponse(loan, status.Schedule),
	})
}

// SimulatePrepayment godoc
// @Summary Simulate a prepayment strategy
// @Description Compare a schedule with extra EMIs, EMI escalation or a lump sum against the baseline
// @Tags loans
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Loan ID"
// @Param request body PrepaymentRequest true "Strategy"
// @Success 200 {object} StrategyComparisonResponse
// @Failure 400 {object} ProblemDetails
// @Failure 404 {object} ProblemDetails
// @Router /loans/{id}/prepayment [post]
func (h *LoanHandler) SimulatePrepayment(c echo.Context) error {
	workspaceID := middleware.GetWorkspaceID(c)
	id, err := parseID(c)
	if err != nil {
		return NewValidationError(c, "Invalid loan ID", nil)
	}

	var req PrepaymentRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	strategy := loancalc.NewPrepaymentStrategy(req.ExtraEMIPerYear, decimal.Zero)
	if req.AnnualEMIIncreasePct != nil && *req.AnnualEMIIncreasePct != "" {
		pct, err := decimal.NewFromString(*req.AnnualEMIIncreasePct)
		if err != nil {
			return NewValidationError(c, "Invalid EMI increase", []ValidationError{
				{Field: "annualEmiIncreasePct", Message: "Must be a valid decimal number"},
			})
		}
		strategy.AnnualEMIIncreasePct = pct
	}
	if req.LumpSumAmount != nil && *req.LumpSumAmount != "" {
		amount, err := decimal.NewFromString(*req.LumpSumAmount)
		if err != nil {
			return NewValidationError(c, "Invalid lump sum", []ValidationError{
				{Field: "lumpSumAmount", Message: "Must be a valid decimal number"},
			})
		}
		strategy.LumpSumAmount = amount
	}
	if req.LumpSumTiming != nil {
		strategy.LumpSumTiming = *req.LumpSumTiming
	}

	loan, err := h.loanService.GetLoan(workspaceID, id)
	if err != nil {
		return h.loanError(c, err, "Failed to get loan")
	}
	comparison, err := h.loanService.SimulatePrepayment(workspaceID, id, strategy)
	if err != nil {
		return h.loanError(c, err, "Failed to simulate prepayment")
	}

	return c.JSON(http.StatusOK, StrategyComparisonResponse{
		Baseline:      toSummaryResponse(loan, comparison.Baseline),
		Simulated:     toSummaryResponse(loan, comparison.Simulated),
		InterestSaved: comparison.InterestSaved.StringFixed(2),
		MonthsSaved:   comparison.MonthsSaved,
	})
}

// GetPreClosure godoc
// @Summary Pre-closure payoff
// @Description Payoff amount and savings for closing the loan at a future month. Paid or out of range months return zeros.
// @Tags loans
// @Produce json
// @Security BearerAuth
// @Param id path int true "Loan ID"
// @Param targetMonth query int true "Month in which the loan is closed"
// @Success 200 {object} PreClosureResponse
// @Failure 400 {object} ProblemDetails
// @Failure 404 {object} ProblemDetails
// @Router /loans/{id}/preclosure [get]
func (h *LoanHandler) GetPreClosure(c echo.Context) error {
	workspaceID := middleware.GetWorkspaceID(c)
	id, err := parseID(c)
	if err != nil {
		return NewValidationError(c, "Invalid loan ID", nil)
	}

	targetMonth, err := strconv.Atoi(c.QueryParam("targetMonth"))
	if err != nil {
		return NewValidationError(c, "Invalid target month", []ValidationError{
			{Field: "targetMonth", Message: "Must be a positive integer"},
		})
	}

	result, err := h.loanService.GetPreClosure(workspaceID, id, targetMonth)
	if err != nil {
		return h.loanError(c, err, "Failed to calculate pre-closure")
	}

	return c.JSON(http.StatusOK, PreClosureResponse{
		TargetMonth:   targetMonth,
		PayoffAmount:  result.PayoffAmount.StringFixed(2),
		InterestSaved: result.InterestSaved.StringFixed(2),
		MonthsEarly:   result.MonthsEarly,
	})
}

// ExportSchedule godoc
// @Summary Export the schedule as CSV
// @Description Upload the reconciled schedule to object storage and return a temporary download link
// @Tags loans
// @Produce json
// @Security BearerAuth
// @Param id path int true "Loan ID"
// @Success 201 {object} service.ScheduleExport
// @Failure 400 {object} ProblemDetails
// @Failure 404 {object} ProblemDetails
// @Failure 503 {object} ProblemDetails
// @Router /loans/{id}/schedule/export [post]
func (h *LoanHandler) ExportSchedule(c echo.Context) error {
	workspaceID := middleware.GetWorkspaceID(c)
	id, err := parseID(c)
	if err != nil {
		return NewValidationError(c, "Invalid loan ID", nil)
	}

	export, err := h.reportService.ExportSchedule(c.Request().Context(), workspaceID, id)
	if err != nil {
		return h.loanError(c, err, "Failed to export schedule")
	}
	return c.JSON(http.StatusCreated, export)
}

// loanError maps service errors to problem details
func (h *LoanHandler) loanError(c echo.Context, err error, msg string) error {
	switch {
	case errors.Is(err, domain.ErrLoanNotFound):
		return NewNotFoundError(c, "Loan not found")
	case errors.Is(err, domain.ErrLoanNameEmpty):
		return NewValidationError(c, "Validation failed", []ValidationError{{Field: "name", Message: "Name is required"}})
	case errors.Is(err, domain.ErrLoanNameTooLong):
		return NewValidationError(c, "Validation failed", []ValidationError{{Field: "name", Message: "Name must be 200 characters or less"}})
	case errors.Is(err, domain.ErrLoanAmountInvalid):
		return NewValidationError(c, "Validation failed", []ValidationError{{Field: "loanAmount", Message: "Loan amount must be positive"}})
	case errors.Is(err, domain.ErrLoanAmountOutOfRange):
		return NewValidationError(c, "Validation failed", []ValidationError{{Field: "loanAmount", Message: "Loan amount must have at most 2 decimal places and fewer than 14 integer digits"}})
	case errors.Is(err, domain.ErrLoanInterestRateInvalid):
		return NewValidationError(c, "Validation failed", []ValidationError{{Field: "interestRate", Message: "Interest rate must be non-negative"}})
	case errors.Is(err, domain.ErrLoanRateOutOfRange):
		return NewValidationError(c, "Validation failed", []ValidationError{{Field: "interestRate", Message: "Interest rate must have at most 4 decimal places and be below 1000"}})
	case errors.Is(err, domain.ErrLoanTenureInvalid):
		return NewValidationError(c, "Validation failed", []ValidationError{{Field: "tenure", Message: "Tenure must be at least 1 month"}})
	case errors.Is(err, domain.ErrLoanEMIInvalid):
		return NewValidationError(c, "Validation failed", []ValidationError{{Field: "emi", Message: "EMI must be positive"}})
	case errors.Is(err, domain.ErrLoanEMIOutOfRange):
		return NewValidationError(c, "Validation failed", []ValidationError{{Field: "emi", Message: "EMI must have at most 2 decimal places and fewer than 14 integer digits"}})
	case errors.Is(err, domain.ErrLoanStartDateRequired):
		return NewValidationError(c, "Validation failed", []ValidationError{{Field: "startDate", Message: "Start date is required"}})
	case errors.Is(err, domain.ErrTargetMonthInvalid):
		return NewValidationError(c, "Validation failed", []ValidationError{{Field: "targetMonth", Message: "Target month must be at least 1"}})
	case errors.Is(err, domain.ErrStrategyInvalid):
		return NewValidationError(c, "Invalid prepayment strategy", nil)
	case errors.Is(err, domain.ErrReportStorageDisabled):
		return NewServiceUnavailableError(c, "Schedule export is not configured")
	}

	log.Error().Err(err).Int32("workspace_id", middleware.GetWorkspaceID(c)).Msg(msg)
	return NewInternalError(c, msg)
}

var errInvalidID = errors.New("id must be a positive integer")

func parseID(c echo.Context) (int32, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 32)
	if err != nil {
		return 0, err
	}
	if id <= 0 {
		return 0, errInvalidID
	}
	return int32(id), nil
}

func toLoanResponse(loan *domain.Loan) LoanResponse {
	return LoanResponse{
		ID:             loan.ID,
		WorkspaceID:    loan.WorkspaceID,
		Name:           loan.Name,
		LoanAmount:     loan.LoanAmount.StringFixed(2),
		InterestRate:   loan.InterestRate.String(),
		Tenure:         loan.Tenure,
		TenureInMonths: loan.TenureInMonths,
		TotalMonths:    loan.TotalMonths(),
		EMI:            loan.EMI.StringFixed(2),
		StartDate:      formatDate(loan.StartDate),
		Notes:          loan.Notes,
		CreatedAt:      formatTimestamp(loan.CreatedAt),
		UpdatedAt:      formatTimestamp(loan.UpdatedAt),
	}
}

func toSummaryResponse(loan *domain.Loan, summary *loancalc.LoanSummary) LoanSummaryResponse {
	return LoanSummaryResponse{
		TotalInterestPaid:    summary.TotalInterestPaid.StringFixed(2),
		LoanEndDate:          formatDate(summary.LoanEndDate),
		IsFullyAmortized:     summary.IsFullyAmortized(),
		AmortizationSchedule: toScheduleResponse(loan, summary.AmortizationSchedule),
	}
}

func toScheduleResponse(loan *domain.Loan, schedule []loancalc.AmortizationEntry) []ScheduleEntryResponse {
	entries := make([]ScheduleEntryResponse, len(schedule))
	for i, e := range schedule {
		entries[i] = ScheduleEntryResponse{
			Month:         e.Month,
			DueDate:       formatDate(loan.PaymentDueDate(e.Month)),
			Principal:     e.Principal.StringFixed(2),
			Interest:      e.Interest.StringFixed(2),
			TotalPayment:  e.TotalPayment.StringFixed(2),
			EndingBalance: e.EndingBalance.StringFixed(2),
			IsPaid:        e.IsPaid,
		}
		if e.PaymentDate != nil {
			paid := formatDate(*e.PaymentDate)
			entries[i].PaymentDate = &paid
		}
	}
	return entries
}
