package websocket

import (
	"errors"
	"testing"

	"github.com/finboard/finboard-backend/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubWorkspaces resolves every Auth0 ID to a fixed workspace
type stubWorkspaces struct {
	workspace *domain.Workspace
	err       error
}

func (s *stubWorkspaces) GetByID(id int32) (*domain.Workspace, error) { return s.workspace, s.err }
func (s *stubWorkspaces) GetByAuth0ID(auth0ID string) (*domain.Workspace, error) {
	return s.workspace, s.err
}
func (s *stubWorkspaces) GetOrCreateByAuth0ID(auth0ID string) (*domain.Workspace, error) {
	return s.workspace, s.err
}
func (s *stubWorkspaces) GetAllWorkspaces() ([]*domain.Workspace, error) {
	return []*domain.Workspace{s.workspace}, s.err
}

func TestCustomClaims_Validate(t *testing.T) {
	assert.NoError(t, (&CustomClaims{}).Validate(nil))
}

func TestNewAuth0JWTValidator(t *testing.T) {
	workspaces := &stubWorkspaces{workspace: &domain.Workspace{ID: 1}}

	v, err := NewAuth0JWTValidator("finboard.eu.auth0.com", "https://api.finboard.app", workspaces)
	require.NoError(t, err)
	assert.NotNil(t, v.validator)

	var _ TokenValidator = v
}

func TestAuth0JWTValidator_ValidateToken_InvalidJWT(t *testing.T) {
	workspaces := &stubWorkspaces{workspace: &domain.Workspace{ID: 1}}
	v, err := NewAuth0JWTValidator("finboard.eu.auth0.com", "https://api.finboard.app", workspaces)
	require.NoError(t, err)

	workspaceID, err := v.ValidateToken("not-a-jwt")

	assert.Equal(t, int32(0), workspaceID)
	assert.True(t, errors.Is(err, ErrInvalidToken))
}
