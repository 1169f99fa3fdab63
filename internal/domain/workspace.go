package domain

import "time"

// Workspace groups the loans and transactions of a single Auth0 user
type Workspace struct {
	ID        int32     `json:"id"`
	Auth0ID   string    `json:"auth0Id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// WorkspaceRepository defines the interface for workspace persistence operations
type WorkspaceRepository interface {
	GetByID(id int32) (*Workspace, error)
	GetByAuth0ID(auth0ID string) (*Workspace, error)
	// GetOrCreateByAuth0ID returns the workspace for auth0ID, creating it on first use
	GetOrCreateByAuth0ID(auth0ID string) (*Workspace, error)
	GetAllWorkspaces() ([]*Workspace, error)
}
