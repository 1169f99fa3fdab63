package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/finboard/finboard-backend/internal/domain"
	"github.com/finboard/finboard-backend/internal/testutil"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type reminderFixture struct {
	worker       *ReminderWorker
	workspaces   *testutil.MockWorkspaceRepository
	loans        *testutil.MockLoanRepository
	transactions *testutil.MockTransactionRepository
	events       *testutil.MockEventPublisher
}

func setupReminderWorker(now time.Time) *reminderFixture {
	f := &reminderFixture{
		workspaces:   testutil.NewMockWorkspaceRepository(),
		loans:        testutil.NewMockLoanRepository(),
		transactions: testutil.NewMockTransactionRepository(),
		events:       testutil.NewMockEventPublisher(),
	}
	f.workspaces.AddWorkspace(&domain.Workspace{ID: 1, Auth0ID: "auth0|alice"})
	f.workspaces.AddWorkspace(&domain.Workspace{ID: 2, Auth0ID: "auth0|bob"})

	f.worker = NewReminderWorker(f.workspaces, f.loans, f.transactions, f.events, zerolog.Nop(), ReminderWorkerConfig{
		Schedule:  "@every 1h",
		DaysAhead: 3,
	})
	f.worker.now = func() time.Time { return now }
	return f
}

func TestReminderWorker_DefaultConfig(t *testing.T) {
	config := DefaultReminderWorkerConfig()

	assert.Equal(t, "0 8 * * *", config.Schedule)
	assert.Equal(t, 3, config.DaysAhead)
}

func TestReminderWorker_UpcomingPayment(t *testing.T) {
	f := setupReminderWorker(time.Date(2022, 12, 30, 9, 0, 0, 0, time.UTC))
	f.loans.AddLoan(yearLoan(1, 1))

	sent, err := f.worker.RunOnce(context.Background())
	require.NoError(t, err)
	require.Equal(t, 1, sent)

	published := f.events.Events[0]
	assert.Equal(t, int32(1), published.WorkspaceID)
	assert.Equal(t, "loan.payment_due", published.Event.Type)

	reminder, ok := published.Event.Payload.(PaymentDueReminder)
	require.True(t, ok)
	assert.Equal(t, int32(1), reminder.LoanID)
	assert.Equal(t, 1, reminder.PaymentNumber)
	assert.Equal(t, loanStart, reminder.DueDate)
	assert.Equal(t, 2, reminder.DaysUntilDue)
	assert.False(t, reminder.Overdue)
	assert.True(t, reminder.Amount.Equal(decimal.NewFromInt(8792)))
}

func TestReminderWorker_OverduePayment(t *testing.T) {
	f := setupReminderWorker(time.Date(2023, 3, 10, 0, 0, 0, 0, time.UTC))
	f.loans.AddLoan(yearLoan(1, 1))
	f.transactions.AddTransaction(emiPayment(1, 1, 1, loanStart.AddDate(0, 0, 1)))
	f.transactions.AddTransaction(emiPayment(2, 1, 1, loanStart.AddDate(0, 1, 1)))

	sent, err := f.worker.RunOnce(context.Background())
	require.NoError(t, err)
	require.Equal(t, 1, sent)

	reminder := f.events.Events[0].Event.Payload.(PaymentDueReminder)
	assert.Equal(t, 3, reminder.PaymentNumber)
	assert.Equal(t, time.Date(2023, 3, 1, 0, 0, 0, 0, time.UTC), reminder.DueDate)
	assert.Equal(t, -9, reminder.DaysUntilDue)
	assert.True(t, reminder.Overdue)
}

func TestReminderWorker_SkipsDistantAndPaidLoans(t *testing.T) {
	f := setupReminderWorker(time.Date(2023, 1, 10, 0, 0, 0, 0, time.UTC))
	f.loans.AddLoan(yearLoan(1, 1))
	f.transactions.AddTransaction(emiPayment(1, 1, 1, loanStart.AddDate(0, 0, 1)))

	paid := yearLoan(2, 2)
	f.loans.AddLoan(paid)
	for i := 0; i < 12; i++ {
		f.transactions.AddTransaction(emiPayment(int32(10+i), 2, 2, loanStart.AddDate(0, i, 1)))
	}

	sent, err := f.worker.RunOnce(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, sent)
	assert.Empty(t, f.events.Events)
}

func TestReminderWorker_WorkspaceErrorDoesNotStopScan(t *testing.T) {
	f := setupReminderWorker(time.Date(2022, 12, 31, 0, 0, 0, 0, time.UTC))
	f.loans.AddLoan(yearLoan(1, 2))
	f.loans.GetAllFn = func(workspaceID int32) ([]*domain.Loan, error) {
		if workspaceID == 1 {
			return nil, errors.New("query failed")
		}
		return []*domain.Loan{f.loans.Loans[1]}, nil
	}

	sent, err := f.worker.RunOnce(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, sent)
	assert.Equal(t, int32(2), f.events.Events[0].WorkspaceID)
}

func TestReminderWorker_WorkspaceListError(t *testing.T) {
	f := setupReminderWorker(loanStart)
	f.workspaces.GetAllFn = func() ([]*domain.Workspace, error) {
		return nil, errors.New("db down")
	}

	_, err := f.worker.RunOnce(context.Background())
	assert.Error(t, err)
}

func TestReminderWorker_CancelledContext(t *testing.T) {
	f := setupReminderWorker(loanStart)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := f.worker.RunOnce(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestReminderWorker_StartStop(t *testing.T) {
	f := setupReminderWorker(loanStart)

	require.NoError(t, f.worker.Start(context.Background()))
	assert.True(t, f.worker.IsRunning())

	// second start is a no-op
	require.NoError(t, f.worker.Start(context.Background()))

	f.worker.Stop()
	assert.False(t, f.worker.IsRunning())

	// second stop is a no-op
	f.worker.Stop()
}

func TestReminderWorker_StopsOnContextCancel(t *testing.T) {
	f := setupReminderWorker(loanStart)
	ctx, cancel := context.WithCancel(context.Background())

	require.NoError(t, f.worker.Start(ctx))
	cancel()

	assert.Eventually(t, func() bool { return !f.worker.IsRunning() }, time.Second, 10*time.Millisecond)
}

func TestReminderWorker_StopReleasesContextWatcher(t *testing.T) {
	f := setupReminderWorker(loanStart)

	require.NoError(t, f.worker.Start(context.Background()))
	first := f.worker.watcher
	f.worker.Stop()

	select {
	case <-first:
	case <-time.After(time.Second):
		t.Fatal("context watcher still running after Stop")
	}

	// restarting gets a fresh watcher
	require.NoError(t, f.worker.Start(context.Background()))
	assert.True(t, f.worker.IsRunning())
	assert.NotEqual(t, first, f.worker.watcher)
	f.worker.Stop()
	<-f.worker.watcher
}

func TestReminderWorker_InvalidSchedule(t *testing.T) {
	f := setupReminderWorker(loanStart)
	f.worker.schedule = "not a schedule"

	err := f.worker.Start(context.Background())
	assert.Error(t, err)
	assert.False(t, f.worker.IsRunning())
}
