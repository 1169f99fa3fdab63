package postgres

import (
	"context"
	"fmt"

	"github.com/finboard/finboard-backend/internal/domain"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
)

const loanColumns = `id, workspace_id, name, loan_amount, interest_rate, tenure, tenure_in_months,
	emi, start_date, notes, created_at, updated_at, deleted_at`

// LoanRepository implements domain.LoanRepository using PostgreSQL
type LoanRepository struct {
	pool *pgxpool.Pool
}

// NewLoanRepository creates a new LoanRepository
func NewLoanRepository(pool *pgxpool.Pool) *LoanRepository {
	return &LoanRepository{pool: pool}
}

// Create creates a new loan
func (r *LoanRepository) Create(loan *domain.Loan) (*domain.Loan, error) {
	amount, rate, emi, err := loanNumerics(loan)
	if err != nil {
		return nil, err
	}

	row := r.pool.QueryRow(context.Background(), `
		INSERT INTO loans (workspace_id, name, loan_amount, interest_rate, tenure, tenure_in_months, emi, start_date, notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING `+loanColumns,
		loan.WorkspaceID, loan.Name, amount, rate, loan.Tenure, loan.TenureInMonths, emi,
		pgtype.Date{Time: loan.StartDate, Valid: true}, loan.Notes,
	)
	return scanLoan(row)
}

// GetByID retrieves a loan by ID within a workspace
func (r *LoanRepository) GetByID(workspaceID int32, id int32) (*domain.Loan, error) {
	row := r.pool.QueryRow(context.Background(), `
		SELECT `+loanColumns+` FROM loans
		WHERE workspace_id = $1 AND id = $2 AND deleted_at IS NULL`,
		workspaceID, id,
	)
	loan, err := scanLoan(row)
	if err != nil {
		if isNoRows(err) {
			return nil, domain.ErrLoanNotFound
		}
		return nil, err
	}
	return loan, nil
}

// GetAllByWorkspace retrieves all active loans of a workspace, oldest start first
func (r *LoanRepository) GetAllByWorkspace(workspaceID int32) ([]*domain.Loan, error) {
	rows, err := r.pool.Query(context.Background(), `
		SELECT `+loanColumns+` FROM loans
		WHERE workspace_id = $1 AND deleted_at IS NULL
		ORDER BY start_date, id`,
		workspaceID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	loans := make([]*domain.Loan, 0)
	for rows.Next() {
		loan, err := scanLoan(rows)
		if err != nil {
			return nil, err
		}
		loans = append(loans, loan)
	}
	return loans, rows.Err()
}

// Update updates the loan's name and notes. Financial terms are immutable.
func (r *LoanRepository) Update(loan *domain.Loan) (*domain.Loan, error) {
	row := r.pool.QueryRow(context.Background(), `
		UPDATE loans SET name = $3, notes = $4, updated_at = NOW()
		WHERE workspace_id = $1 AND id = $2 AND deleted_at IS NULL
		RETURNING `+loanColumns,
		loan.WorkspaceID, loan.ID, loan.Name, loan.Notes,
	)
	updated, err := scanLoan(row)
	if err != nil {
		if isNoRows(err) {
			return nil, domain.ErrLoanNotFound
		}
		return nil, err
	}
	return updated, nil
}

// SoftDelete marks a loan as deleted
func (r *LoanRepository) SoftDelete(workspaceID int32, id int32) error {
	tag, err := r.pool.Exec(context.Background(), `
		UPDATE loans SET deleted_at = NOW()
		WHERE workspace_id = $1 AND id = $2 AND deleted_at IS NULL`,
		workspaceID, id,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrLoanNotFound
	}
	return nil
}

func loanNumerics(loan *domain.Loan) (amount, rate, emi pgtype.Numeric, err error) {
	if amount, err = decimalToPgNumeric(loan.LoanAmount); err != nil {
		return amount, rate, emi, fmt.Errorf("loan amount: %w", err)
	}
	if rate, err = decimalToPgNumeric(loan.InterestRate); err != nil {
		return amount, rate, emi, fmt.Errorf("interest rate: %w", err)
	}
	if emi, err = decimalToPgNumeric(loan.EMI); err != nil {
		return amount, rate, emi, fmt.Errorf("emi: %w", err)
	}
	return amount, rate, emi, nil
}

func scanLoan(row rowScanner) (*domain.Loan, error) {
	var (
		loan               domain.Loan
		amount, rate, emi  pgtype.Numeric
		startDate          pgtype.Date
		createdAt, updated pgtype.Timestamptz
		deletedAt          pgtype.Timestamptz
	)
	err := row.Scan(
		&loan.ID, &loan.WorkspaceID, &loan.Name, &amount, &rate, &loan.Tenure, &loan.TenureInMonths,
		&emi, &startDate, &loan.Notes, &createdAt, &updated, &deletedAt,
	)
	if err != nil {
		return nil, err
	}

	loan.LoanAmount = pgNumericToDecimal(amount)
	loan.InterestRate = pgNumericToDecimal(rate)
	loan.EMI = pgNumericToDecimal(emi)
	loan.StartDate = startDate.Time
	loan.CreatedAt = createdAt.Time
	loan.UpdatedAt = updated.Time
	if deletedAt.Valid {
		loan.DeletedAt = &deletedAt.Time
	}
	return &loan, nil
}
