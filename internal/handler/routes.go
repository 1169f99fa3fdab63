package handler

import (
	"net/http"

	"github.com/finboard/finboard-backend/internal/middleware"
	"github.com/labstack/echo/v4"
	echoSwagger "github.com/swaggo/echo-swagger"
)

// Handlers groups the HTTP handlers served by the API
type Handlers struct {
	Loan        *LoanHandler
	Transaction *TransactionHandler
	Workspace   *WorkspaceHandler
	WebSocket   *WebSocketHandler
}

// RegisterRoutes sets up all API routes. Everything under /api/v1 is
// authenticated and rate limited per workspace.
func RegisterRoutes(e *echo.Echo, authMiddleware *middleware.AuthMiddleware, rateLimiter *middleware.RateLimiter, h Handlers) {
	e.GET("/health", Health)
	e.GET("/openapi.json", ServeOpenAPI3Spec)
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	if h.WebSocket != nil {
		// authenticated by the token query parameter
		e.GET("/ws", h.WebSocket.HandleWS)
	}

	api := e.Group("/api/v1")
	api.Use(authMiddleware.Authenticate())
	if rateLimiter != nil {
		api.Use(middleware.RateLimitMiddleware(rateLimiter))
	}

	if h.Workspace != nil {
		api.GET("/workspace", h.Workspace.GetWorkspace)
	}

	loans := api.Group("/loans")
	loans.POST("", h.Loan.CreateLoan)
	loans.GET("", h.Loan.GetLoans)
	loans.GET("/:id", h.Loan.GetLoan)
	loans.PUT("/:id", h.Loan.UpdateLoan)
	loans.DELETE("/:id", h.Loan.DeleteLoan)
	loans.GET("/:id/summary", h.Loan.GetSummary)
	loans.GET("/:id/status", h.Loan.GetStatus)
	loans.POST("/:id/prepayment", h.Loan.SimulatePrepayment)
	loans.GET("/:id/preclosure", h.Loan.GetPreClosure)
	loans.POST("/:id/schedule/export", h.Loan.ExportSchedule)

	transactions := api.Group("/transactions")
	transactions.POST("", h.Transaction.CreateTransaction)
	transactions.GET("", h.Transaction.GetTransactions)
	transactions.DELETE("/:id", h.Transaction.DeleteTransaction)
}

// Health handles GET /health
func Health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}
