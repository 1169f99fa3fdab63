package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/finboard/finboard-backend/internal/domain"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
)

const transactionColumns = `id, workspace_id, loan_id, name, amount, type, transaction_date,
	notes, created_at, updated_at, deleted_at`

// TransactionRepository implements domain.TransactionRepository using PostgreSQL
type TransactionRepository struct {
	pool *pgxpool.Pool
}

// NewTransactionRepository creates a new TransactionRepository
func NewTransactionRepository(pool *pgxpool.Pool) *TransactionRepository {
	return &TransactionRepository{pool: pool}
}

// Create creates a new transaction
func (r *TransactionRepository) Create(transaction *domain.Transaction) (*domain.Transaction, error) {
	amount, err := decimalToPgNumeric(transaction.Amount)
	if err != nil {
		return nil, fmt.Errorf("amount: %w", err)
	}

	row := r.pool.QueryRow(context.Background(), `
		INSERT INTO transactions (workspace_id, loan_id, name, amount, type, transaction_date, notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING `+transactionColumns,
		transaction.WorkspaceID, transaction.LoanID, transaction.Name, amount, string(transaction.Type),
		pgtype.Date{Time: transaction.TransactionDate, Valid: true}, transaction.Notes,
	)
	return scanTransaction(row)
}

// GetByID retrieves a transaction by ID within a workspace
func (r *TransactionRepository) GetByID(workspaceID int32, id int32) (*domain.Transaction, error) {
	row := r.pool.QueryRow(context.Background(), `
		SELECT `+transactionColumns+` FROM transactions
		WHERE workspace_id = $1 AND id = $2 AND deleted_at IS NULL`,
		workspaceID, id,
	)
	tx, err := scanTransaction(row)
	if err != nil {
		if isNoRows(err) {
			return nil, domain.ErrTransactionNotFound
		}
		return nil, err
	}
	return tx, nil
}

// GetByWorkspace retrieves transactions matching filters, newest first
func (r *TransactionRepository) GetByWorkspace(workspaceID int32, filters *domain.TransactionFilters) ([]*domain.Transaction, error) {
	where := []string{"workspace_id = $1", "deleted_at IS NULL"}
	args := []any{workspaceID}

	if filters != nil {
		if filters.LoanID != nil {
			args = append(args, *filters.LoanID)
			where = append(where, fmt.Sprintf("loan_id = $%d", len(args)))
		}
		if filters.StartDate != nil {
			args = append(args, pgtype.Date{Time: *filters.StartDate, Valid: true})
			where = append(where, fmt.Sprintf("transaction_date >= $%d", len(args)))
		}
		if filters.EndDate != nil {
			args = append(args, pgtype.Date{Time: *filters.EndDate, Valid: true})
			where = append(where, fmt.Sprintf("transaction_date <= $%d", len(args)))
		}
		if filters.Type != nil {
			args = append(args, string(*filters.Type))
			where = append(where, fmt.Sprintf("type = $%d", len(args)))
		}
	}

	query := `SELECT ` + transactionColumns + ` FROM transactions WHERE ` +
		strings.Join(where, " AND ") + ` ORDER BY transaction_date DESC, id DESC`
	return r.queryTransactions(query, args...)
}

// GetByLoanID retrieves the transactions linked to a loan, oldest first
func (r *TransactionRepository) GetByLoanID(workspaceID int32, loanID int32) ([]*domain.Transaction, error) {
	return r.queryTransactions(`
		SELECT `+transactionColumns+` FROM transactions
		WHERE workspace_id = $1 AND loan_id = $2 AND deleted_at IS NULL
		ORDER BY transaction_date, id`,
		workspaceID, loanID,
	)
}

// SoftDelete marks a transaction as deleted
func (r *TransactionRepository) SoftDelete(workspaceID int32, id int32) error {
	tag, err := r.pool.Exec(context.Background(), `
		UPDATE transactions SET deleted_at = NOW()
		WHERE workspace_id = $1 AND id = $2 AND deleted_at IS NULL`,
		workspaceID, id,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrTransactionNotFound
	}
	return nil
}

func (r *TransactionRepository) queryTransactions(query string, args ...any) ([]*domain.Transaction, error) {
	rows, err := r.pool.Query(context.Background(), query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	transactions := make([]*domain.Transaction, 0)
	for rows.Next() {
		tx, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		transactions = append(transactions, tx)
	}
	return transactions, rows.Err()
}

func scanTransaction(row rowScanner) (*domain.Transaction, error) {
	var (
		tx                 domain.Transaction
		txType             string
		amount             pgtype.Numeric
		date               pgtype.Date
		createdAt, updated pgtype.Timestamptz
		deletedAt          pgtype.Timestamptz
	)
	err := row.Scan(
		&tx.ID, &tx.WorkspaceID, &tx.LoanID, &tx.Name, &amount, &txType, &date,
		&tx.Notes, &createdAt, &updated, &deletedAt,
	)
	if err != nil {
		return nil, err
	}

	tx.Amount = pgNumericToDecimal(amount)
	tx.Type = domain.TransactionType(txType)
	tx.TransactionDate = date.Time
	tx.CreatedAt = createdAt.Time
	tx.UpdatedAt = updated.Time
	if deletedAt.Valid {
		tx.DeletedAt = &deletedAt.Time
	}
	return &tx, nil
}
