package service

import (
	"time"

	"github.com/finboard/finboard-backend/internal/cache"
	"github.com/finboard/finboard-backend/internal/domain"
)

const (
	workspaceCacheSize = 1000
	workspaceCacheTTL  = 30 * time.Minute
)

// WorkspaceService resolves authenticated users to their workspace
type WorkspaceService struct {
	workspaceRepo domain.WorkspaceRepository
	ids           cache.Cache[int32]
}

// NewWorkspaceService creates a new WorkspaceService
func NewWorkspaceService(workspaceRepo domain.WorkspaceRepository) *WorkspaceService {
	return &WorkspaceService{
		workspaceRepo: workspaceRepo,
		ids:           cache.NewLRUCache[int32](workspaceCacheSize, workspaceCacheTTL),
	}
}

// EnsureWorkspace returns the workspace ID of an Auth0 user, creating the
// workspace on first login
func (s *WorkspaceService) EnsureWorkspace(auth0ID string) (int32, error) {
	if id, ok := s.ids.Get(auth0ID); ok {
		return id, nil
	}

	ws, err := s.workspaceRepo.GetOrCreateByAuth0ID(auth0ID)
	if err != nil {
		return 0, err
	}

	s.ids.Set(auth0ID, ws.ID)
	return ws.ID, nil
}

// GetWorkspace retrieves a workspace by ID
func (s *WorkspaceService) GetWorkspace(workspaceID int32) (*domain.Workspace, error) {
	return s.workspaceRepo.GetByID(workspaceID)
}
