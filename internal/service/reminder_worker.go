package service

import (
	"context"
	"sync"
	"time"

	"github.com/finboard/finboard-backend/internal/domain"
	"github.com/finboard/finboard-backend/internal/loancalc"
	"github.com/finboard/finboard-backend/internal/util"
	"github.com/finboard/finboard-backend/internal/websocket"
	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// PaymentDueReminder is the payload of a loan.payment_due event
type PaymentDueReminder struct {
	LoanID        int32           `json:"loanId"`
	LoanName      string          `json:"loanName"`
	PaymentNumber int             `json:"paymentNumber"`
	DueDate       time.Time       `json:"dueDate"`
	Amount        decimal.Decimal `json:"amount"`
	DaysUntilDue  int             `json:"daysUntilDue"`
	Overdue       bool            `json:"overdue"`
}

// ReminderWorkerConfig holds configuration for the reminder worker
type ReminderWorkerConfig struct {
	Schedule  string // Standard 5-field cron expression
	DaysAhead int    // Remind about payments due within this many days
}

// DefaultReminderWorkerConfig returns the daily 08:00 schedule with a three day window
func DefaultReminderWorkerConfig() ReminderWorkerConfig {
	return ReminderWorkerConfig{
		Schedule:  "0 8 * * *",
		DaysAhead: 3,
	}
}

// ReminderWorker periodically scans every workspace for EMI payments that are
// due soon or overdue and pushes loan.payment_due events to connected clients
type ReminderWorker struct {
	workspaceRepo   domain.WorkspaceRepository
	loanRepo        domain.LoanRepository
	transactionRepo domain.TransactionRepository
	publisher       websocket.EventPublisher
	logger          zerolog.Logger
	schedule        string
	daysAhead       int
	now             func() time.Time

	mu      sync.Mutex
	cron    *cron.Cron
	running bool
	stop    chan struct{} // closed by Stop
	watcher chan struct{} // closed when the context watcher returns
}

// NewReminderWorker creates a new reminder worker
func NewReminderWorker(
	workspaceRepo domain.WorkspaceRepository,
	loanRepo domain.LoanRepository,
	transactionRepo domain.TransactionRepository,
	publisher websocket.EventPublisher,
	logger zerolog.Logger,
	config ReminderWorkerConfig,
) *ReminderWorker {
	defaults := DefaultReminderWorkerConfig()
	if config.Schedule == "" {
		config.Schedule = defaults.Schedule
	}
	if config.DaysAhead < 0 {
		config.DaysAhead = defaults.DaysAhead
	}

	return &ReminderWorker{
		workspaceRepo:   workspaceRepo,
		loanRepo:        loanRepo,
		transactionRepo: transactionRepo,
		publisher:       publisher,
		logger:          logger.With().Str("component", "reminder_worker").Logger(),
		schedule:        config.Schedule,
		daysAhead:       config.DaysAhead,
		now:             time.Now,
	}
}

// Start schedules the reminder scan. The worker stops when ctx is cancelled.
func (w *ReminderWorker) Start(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.running {
		return nil
	}

	c := cron.New(cron.WithLogger(cronLogger{logger: w.logger}))
	if _, err := c.AddFunc(w.schedule, func() {
		if _, err := w.RunOnce(ctx); err != nil {
			w.logger.Error().Err(err).Msg("Reminder scan failed")
		}
	}); err != nil {
		return err
	}

	stop := make(chan struct{})
	watcher := make(chan struct{})
	w.cron = c
	w.running = true
	w.stop = stop
	w.watcher = watcher
	c.Start()

	w.logger.Info().
		Str("schedule", w.schedule).
		Int("days_ahead", w.daysAhead).
		Msg("Starting reminder worker")

	go func() {
		defer close(watcher)
		select {
		case <-ctx.Done():
			w.Stop()
		case <-stop:
		}
	}()
	return nil
}

// Stop waits for a running scan to finish and stops the schedule
func (w *ReminderWorker) Stop() {
	w.mu.Lock()
	if !w.running {
		w.mu.Unlock()
		return
	}
	w.running = false
	c := w.cron
	close(w.stop)
	w.mu.Unlock()

	w.logger.Info().Msg("Stopping reminder worker")
	<-c.Stop().Done()
	w.logger.Info().Msg("Reminder worker stopped")
}

// IsRunning returns whether the worker is currently scheduled
func (w *ReminderWorker) IsRunning() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.running
}

// RunOnce scans all workspaces and returns the number of reminders sent
func (w *ReminderWorker) RunOnce(ctx context.Context) (int, error) {
	startTime := time.Now()
	today := util.StartOfDay(w.now())

	workspaces, err := w.workspaceRepo.GetAllWorkspaces()
	if err != nil {
		return 0, err
	}

	sent := 0
	failed := 0
	for _, ws := range workspaces {
		if err := ctx.Err(); err != nil {
			w.logger.Info().Msg("Context cancelled, stopping reminder scan")
			return sent, err
		}

		reminders, err := w.remindersFor(ws.ID, today)
		if err != nil {
			w.logger.Error().Err(err).Int32("workspace_id", ws.ID).Msg("Failed to scan workspace loans")
			failed++
			continue
		}
		for _, reminder := range reminders {
			w.publisher.Publish(ws.ID, websocket.LoanPaymentDue(reminder))
			sent++
		}
	}

	w.logger.Info().
		Int("workspaces", len(workspaces)).
		Int("reminders", sent).
		Int("errors", failed).
		Dur("elapsed", time.Since(startTime)).
		Msg("Completed reminder scan")
	return sent, nil
}

func (w *ReminderWorker) remindersFor(workspaceID int32, today time.Time) ([]PaymentDueReminder, error) {
	loans, err := w.loanRepo.GetAllByWorkspace(workspaceID)
	if err != nil {
		return nil, err
	}
	if len(loans) == 0 {
		return nil, nil
	}

	transactions, err := w.transactionRepo.GetByWorkspace(workspaceID, nil)
	if err != nil {
		return nil, err
	}

	var reminders []PaymentDueReminder
	for _, loan := range loans {
		status := loancalc.CalculateCurrentBalance(loan, transactions)
		if status.IsFullyPaid || status.NextPaymentDue == nil {
			continue
		}

		next := *status.NextPaymentDue
		dueDate := loan.PaymentDueDate(next)
		days := util.DaysUntil(today, dueDate)
		if days > w.daysAhead {
			continue
		}

		reminders = append(reminders, PaymentDueReminder{
			LoanID:        loan.ID,
			LoanName:      loan.Name,
			PaymentNumber: next,
			DueDate:       dueDate,
			Amount:        status.Schedule[next-1].TotalPayment,
			DaysUntilDue:  days,
			Overdue:       days < 0,
		})
	}
	return reminders, nil
}

// cronLogger routes cron's internal logging through zerolog
type cronLogger struct {
	logger zerolog.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.logger.Debug().Fields(keysAndValues).Msg(msg)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.logger.Error().Err(err).Fields(keysAndValues).Msg(msg)
}
