package postgres

import (
	"context"

	"github.com/finboard/finboard-backend/internal/domain"
	"github.com/jackc/pgx/v5/pgxpool"
)

const workspaceColumns = `id, auth0_id, name, created_at, updated_at`

// WorkspaceRepository implements domain.WorkspaceRepository using PostgreSQL
type WorkspaceRepository struct {
	pool *pgxpool.Pool
}

// NewWorkspaceRepository creates a new WorkspaceRepository
func NewWorkspaceRepository(pool *pgxpool.Pool) *WorkspaceRepository {
	return &WorkspaceRepository{pool: pool}
}

// GetByID retrieves a workspace by its ID
func (r *WorkspaceRepository) GetByID(id int32) (*domain.Workspace, error) {
	row := r.pool.QueryRow(context.Background(),
		`SELECT `+workspaceColumns+` FROM workspaces WHERE id = $1`, id)
	return scanWorkspaceOrNotFound(row)
}

// GetByAuth0ID retrieves a workspace by its owner's Auth0 ID
func (r *WorkspaceRepository) GetByAuth0ID(auth0ID string) (*domain.Workspace, error) {
	row := r.pool.QueryRow(context.Background(),
		`SELECT `+workspaceColumns+` FROM workspaces WHERE auth0_id = $1`, auth0ID)
	return scanWorkspaceOrNotFound(row)
}

// GetOrCreateByAuth0ID returns the workspace for auth0ID, creating it on first login
func (r *WorkspaceRepository) GetOrCreateByAuth0ID(auth0ID string) (*domain.Workspace, error) {
	// the no-op update makes RETURNING yield the existing row on conflict
	row := r.pool.QueryRow(context.Background(), `
		INSERT INTO workspaces (auth0_id) VALUES ($1)
		ON CONFLICT (auth0_id) DO UPDATE SET auth0_id = EXCLUDED.auth0_id
		RETURNING `+workspaceColumns,
		auth0ID,
	)
	return scanWorkspace(row)
}

// GetAllWorkspaces retrieves all workspaces (for background jobs)
func (r *WorkspaceRepository) GetAllWorkspaces() ([]*domain.Workspace, error) {
	rows, err := r.pool.Query(context.Background(),
		`SELECT `+workspaceColumns+` FROM workspaces ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	workspaces := make([]*domain.Workspace, 0)
	for rows.Next() {
		ws, err := scanWorkspace(rows)
		if err != nil {
			return nil, err
		}
		workspaces = append(workspaces, ws)
	}
	return workspaces, rows.Err()
}

func scanWorkspaceOrNotFound(row rowScanner) (*domain.Workspace, error) {
	ws, err := scanWorkspace(row)
	if err != nil {
		if isNoRows(err) {
			return nil, domain.ErrWorkspaceNotFound
		}
		return nil, err
	}
	return ws, nil
}

func scanWorkspace(row rowScanner) (*domain.Workspace, error) {
	var ws domain.Workspace
	if err := row.Scan(&ws.ID, &ws.Auth0ID, &ws.Name, &ws.CreatedAt, &ws.UpdatedAt); err != nil {
		return nil, err
	}
	return &ws, nil
}
