package testutil

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"sort"
	"sync"
	"time"

	"github.com/finboard/finboard-backend/internal/domain"
	"github.com/finboard/finboard-backend/internal/websocket"
)

// MockWorkspaceRepository is a mock implementation of domain.WorkspaceRepository
type MockWorkspaceRepository struct {
	Workspaces    map[int32]*domain.Workspace
	ByAuth0ID     map[string]*domain.Workspace
	NextID        int32
	Calls         int
	GetOrCreateFn func(auth0ID string) (*domain.Workspace, error)
	GetAllFn      func() ([]*domain.Workspace, error)
}

// NewMockWorkspaceRepository creates a new MockWorkspaceRepository
func NewMockWorkspaceRepository() *MockWorkspaceRepository {
	return &MockWorkspaceRepository{
		Workspaces: make(map[int32]*domain.Workspace),
		ByAuth0ID:  make(map[string]*domain.Workspace),
		NextID:     1,
	}
}

// GetByID retrieves a workspace by ID
func (m *MockWorkspaceRepository) GetByID(id int32) (*domain.Workspace, error) {
	if ws, ok := m.Workspaces[id]; ok {
		return ws, nil
	}
	return nil, domain.ErrWorkspaceNotFound
}

// GetByAuth0ID retrieves a workspace by its owner's Auth0 ID
func (m *MockWorkspaceRepository) GetByAuth0ID(auth0ID string) (*domain.Workspace, error) {
	if ws, ok := m.ByAuth0ID[auth0ID]; ok {
		return ws, nil
	}
	return nil, domain.ErrWorkspaceNotFound
}

// GetOrCreateByAuth0ID returns the workspace for auth0ID, creating it when missing
func (m *MockWorkspaceRepository) GetOrCreateByAuth0ID(auth0ID string) (*domain.Workspace, error) {
	m.Calls++
	if m.GetOrCreateFn != nil {
		return m.GetOrCreateFn(auth0ID)
	}
	if ws, ok := m.ByAuth0ID[auth0ID]; ok {
		return ws, nil
	}
	ws := &domain.Workspace{
		ID:        m.NextID,
		Auth0ID:   auth0ID,
		Name:      "Personal",
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
	m.NextID++
	m.AddWorkspace(ws)
	return ws, nil
}

// GetAllWorkspaces returns all workspaces ordered by ID
func (m *MockWorkspaceRepository) GetAllWorkspaces() ([]*domain.Workspace, error) {
	if m.GetAllFn != nil {
		return m.GetAllFn()
	}
	all := make([]*domain.Workspace, 0, len(m.Workspaces))
	for _, ws := range m.Workspaces {
		all = append(all, ws)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].ID < all[j].ID })
	return all, nil
}

// AddWorkspace adds a workspace to the mock repository (helper for tests)
func (m *MockWorkspaceRepository) AddWorkspace(ws *domain.Workspace) {
	m.Workspaces[ws.ID] = ws
	m.ByAuth0ID[ws.Auth0ID] = ws
	if ws.ID >= m.NextID {
		m.NextID = ws.ID + 1
	}
}

// MockLoanRepository is a mock implementation of domain.LoanRepository
type MockLoanRepository struct {
	Loans     map[int32]*domain.Loan
	NextID    int32
	CreateFn  func(loan *domain.Loan) (*domain.Loan, error)
	GetByIDFn func(workspaceID int32, id int32) (*domain.Loan, error)
	GetAllFn  func(workspaceID int32) ([]*domain.Loan, error)
	UpdateFn  func(loan *domain.Loan) (*domain.Loan, error)
	DeleteFn  func(workspaceID int32, id int32) error
}

// NewMockLoanRepository creates a new MockLoanRepository
func NewMockLoanRepository() *MockLoanRepository {
	return &MockLoanRepository{
		Loans:  make(map[int32]*domain.Loan),
		NextID: 1,
	}
}

// Create creates a new loan
func (m *MockLoanRepository) Create(loan *domain.Loan) (*domain.Loan, error) {
	if m.CreateFn != nil {
		return m.CreateFn(loan)
	}
	loan.ID = m.NextID
	m.NextID++
	loan.CreatedAt = time.Now()
	loan.UpdatedAt = loan.CreatedAt
	m.Loans[loan.ID] = loan
	return loan, nil
}

// GetByID retrieves a loan by ID
func (m *MockLoanRepository) GetByID(workspaceID int32, id int32) (*domain.Loan, error) {
	if m.GetByIDFn != nil {
		return m.GetByIDFn(workspaceID, id)
	}
	loan, ok := m.Loans[id]
	if !ok || loan.WorkspaceID != workspaceID || loan.DeletedAt != nil {
		return nil, domain.ErrLoanNotFound
	}
	return loan, nil
}

// GetAllByWorkspace retrieves all active loans for a workspace ordered by start date
func (m *MockLoanRepository) GetAllByWorkspace(workspaceID int32) ([]*domain.Loan, error) {
	if m.GetAllFn != nil {
		return m.GetAllFn(workspaceID)
	}
	loans := make([]*domain.Loan, 0)
	for _, loan := range m.Loans {
		if loan.WorkspaceID == workspaceID && loan.DeletedAt == nil {
			loans = append(loans, loan)
		}
	}
	sort.Slice(loans, func(i, j int) bool {
		if loans[i].StartDate.Equal(loans[j].StartDate) {
			return loans[i].ID < loans[j].ID
		}
		return loans[i].StartDate.Before(loans[j].StartDate)
	})
	return loans, nil
}

// Update updates name and notes of an existing loan
func (m *MockLoanRepository) Update(loan *domain.Loan) (*domain.Loan, error) {
	if m.UpdateFn != nil {
		return m.UpdateFn(loan)
	}
	existing, ok := m.Loans[loan.ID]
	if !ok || existing.WorkspaceID != loan.WorkspaceID || existing.DeletedAt != nil {
		return nil, domain.ErrLoanNotFound
	}
	existing.Name = loan.Name
	existing.Notes = loan.Notes
	existing.UpdatedAt = time.Now()
	return existing, nil
}

// SoftDelete marks a loan as deleted
func (m *MockLoanRepository) SoftDelete(workspaceID int32, id int32) error {
	if m.DeleteFn != nil {
		return m.DeleteFn(workspaceID, id)
	}
	loan, ok := m.Loans[id]
	if !ok || loan.WorkspaceID != workspaceID || loan.DeletedAt != nil {
		return domain.ErrLoanNotFound
	}
	now := time.Now()
	loan.DeletedAt = &now
	return nil
}

// AddLoan adds a loan to the mock repository (helper for tests)
func (m *MockLoanRepository) AddLoan(loan *domain.Loan) {
	m.Loans[loan.ID] = loan
	if loan.ID >= m.NextID {
		m.NextID = loan.ID + 1
	}
}

// MockTransactionRepository is a mock implementation of domain.TransactionRepository
type MockTransactionRepository struct {
	Transactions  map[int32]*domain.Transaction
	NextID        int32
	CreateFn      func(transaction *domain.Transaction) (*domain.Transaction, error)
	GetByWSFn     func(workspaceID int32, filters *domain.TransactionFilters) ([]*domain.Transaction, error)
	GetByLoanIDFn func(workspaceID int32, loanID int32) ([]*domain.Transaction, error)
	SoftDeleteFn  func(workspaceID int32, id int32) error
}

// NewMockTransactionRepository creates a new MockTransactionRepository
func NewMockTransactionRepository() *MockTransactionRepository {
	return &MockTransactionRepository{
		Transactions: make(map[int32]*domain.Transaction),
		NextID:       1,
	}
}

// Create creates a new transaction
func (m *MockTransactionRepository) Create(transaction *domain.Transaction) (*domain.Transaction, error) {
	if m.CreateFn != nil {
		return m.CreateFn(transaction)
	}
	transaction.ID = m.NextID
	m.NextID++
	transaction.CreatedAt = time.Now()
	transaction.UpdatedAt = transaction.CreatedAt
	m.Transactions[transaction.ID] = transaction
	return transaction, nil
}

// GetByID retrieves a transaction by its ID within a workspace
func (m *MockTransactionRepository) GetByID(workspaceID int32, id int32) (*domain.Transaction, error) {
	tx, ok := m.Transactions[id]
	if !ok || tx.WorkspaceID != workspaceID || tx.DeletedAt != nil {
		return nil, domain.ErrTransactionNotFound
	}
	return tx, nil
}

// GetByWorkspace retrieves transactions matching filters, newest first
func (m *MockTransactionRepository) GetByWorkspace(workspaceID int32, filters *domain.TransactionFilters) ([]*domain.Transaction, error) {
	if m.GetByWSFn != nil {
		return m.GetByWSFn(workspaceID, filters)
	}
	result := make([]*domain.Transaction, 0)
	for _, tx := range m.Transactions {
		if tx.WorkspaceID != workspaceID || tx.DeletedAt != nil {
			continue
		}
		if filters != nil {
			if filters.LoanID != nil && (tx.LoanID == nil || *tx.LoanID != *filters.LoanID) {
				continue
			}
			if filters.StartDate != nil && tx.TransactionDate.Before(*filters.StartDate) {
				continue
			}
			if filters.EndDate != nil && tx.TransactionDate.After(*filters.EndDate) {
				continue
			}
			if filters.Type != nil && tx.Type != *filters.Type {
				continue
			}
		}
		result = append(result, tx)
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].TransactionDate.Equal(result[j].TransactionDate) {
			return result[i].ID > result[j].ID
		}
		return result[i].TransactionDate.After(result[j].TransactionDate)
	})
	return result, nil
}

// GetByLoanID retrieves the transactions linked to a loan, oldest first
func (m *MockTransactionRepository) GetByLoanID(workspaceID int32, loanID int32) ([]*domain.Transaction, error) {
	if m.GetByLoanIDFn != nil {
		return m.GetByLoanIDFn(workspaceID, loanID)
	}
	result := make([]*domain.Transaction, 0)
	for _, tx := range m.Transactions {
		if tx.WorkspaceID == workspaceID && tx.DeletedAt == nil && tx.LoanID != nil && *tx.LoanID == loanID {
			result = append(result, tx)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].TransactionDate.Equal(result[j].TransactionDate) {
			return result[i].ID < result[j].ID
		}
		return result[i].TransactionDate.Before(result[j].TransactionDate)
	})
	return result, nil
}

// SoftDelete marks a transaction as deleted
func (m *MockTransactionRepository) SoftDelete(workspaceID int32, id int32) error {
	if m.SoftDeleteFn != nil {
		return m.SoftDeleteFn(workspaceID, id)
	}
	tx, ok := m.Transactions[id]
	if !ok || tx.WorkspaceID != workspaceID || tx.DeletedAt != nil {
		return domain.ErrTransactionNotFound
	}
	now := time.Now()
	tx.DeletedAt = &now
	return nil
}

// AddTransaction adds a transaction to the mock repository (helper for tests)
func (m *MockTransactionRepository) AddTransaction(tx *domain.Transaction) {
	m.Transactions[tx.ID] = tx
	if tx.ID >= m.NextID {
		m.NextID = tx.ID + 1
	}
}

// PublishedEvent records one call to MockEventPublisher.Publish
type PublishedEvent struct {
	WorkspaceID int32
	Event       websocket.Event
}

// MockEventPublisher captures published events
type MockEventPublisher struct {
	mu     sync.Mutex
	Events []PublishedEvent
}

// NewMockEventPublisher creates a new MockEventPublisher
func NewMockEventPublisher() *MockEventPublisher {
	return &MockEventPublisher{}
}

// Publish records the event
func (m *MockEventPublisher) Publish(workspaceID int32, event websocket.Event) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Events = append(m.Events, PublishedEvent{WorkspaceID: workspaceID, Event: event})
}

// Types returns the recorded event types in publish order
func (m *MockEventPublisher) Types() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	types := make([]string, len(m.Events))
	for i, e := range m.Events {
		types[i] = e.Event.Type
	}
	return types
}

// MockReportRepository is an in-memory storage.ReportRepository
type MockReportRepository struct {
	Objects     map[string][]byte
	ContentType map[string]string
	UploadErr   error
	PresignErr  error
	LastExpiry  time.Duration
}

// NewMockReportRepository creates a new MockReportRepository
func NewMockReportRepository() *MockReportRepository {
	return &MockReportRepository{
		Objects:     make(map[string][]byte),
		ContentType: make(map[string]string),
	}
}

// Upload stores the object in memory
func (m *MockReportRepository) Upload(ctx context.Context, objectPath string, data io.Reader, contentType string, size int64) (string, error) {
	if m.UploadErr != nil {
		return "", m.UploadErr
	}
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, data); err != nil {
		return "", err
	}
	m.Objects[objectPath] = buf.Bytes()
	m.ContentType[objectPath] = contentType
	return objectPath, nil
}

// Delete removes the object
func (m *MockReportRepository) Delete(ctx context.Context, objectPath string) error {
	delete(m.Objects, objectPath)
	delete(m.ContentType, objectPath)
	return nil
}

// GeneratePresignedURL returns a fake URL for a stored object
func (m *MockReportRepository) GeneratePresignedURL(ctx context.Context, objectPath string, expiry time.Duration) (string, error) {
	if m.PresignErr != nil {
		return "", m.PresignErr
	}
	if _, ok := m.Objects[objectPath]; !ok {
		return "", fmt.Errorf("object %s not found", objectPath)
	}
	m.LastExpiry = expiry
	return "https://storage.test/" + objectPath + "?expires=" + expiry.String(), nil
}
