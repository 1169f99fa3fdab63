package websocket

import (
	"context"
	"errors"
	"net/url"
	"time"

	"github.com/auth0/go-jwt-middleware/v2/jwks"
	"github.com/auth0/go-jwt-middleware/v2/validator"
	"github.com/finboard/finboard-backend/internal/domain"
)

var (
	// ErrInvalidToken is returned when JWT validation fails
	ErrInvalidToken = errors.New("invalid token")
	// ErrWorkspaceNotFound is returned when workspace lookup fails
	ErrWorkspaceNotFound = errors.New("workspace not found")
)

// TokenValidator resolves a bearer token passed on the upgrade request to a workspace
type TokenValidator interface {
	ValidateToken(token string) (workspaceID int32, err error)
}

// CustomClaims contains the custom claims from Auth0 JWT
type CustomClaims struct{}

// Validate implements validator.CustomClaims
func (c CustomClaims) Validate(ctx context.Context) error {
	return nil
}

// Auth0JWTValidator validates Auth0 JWT tokens for WebSocket connections.
// Browsers cannot set headers on upgrade requests, so the token arrives as a query parameter.
type Auth0JWTValidator struct {
	validator  *validator.Validator
	workspaces domain.WorkspaceRepository
}

// NewAuth0JWTValidator creates a new Auth0JWTValidator
func NewAuth0JWTValidator(auth0Domain, audience string, workspaces domain.WorkspaceRepository) (*Auth0JWTValidator, error) {
	issuerURL, err := url.Parse("https://" + auth0Domain + "/")
	if err != nil {
		return nil, err
	}

	provider := jwks.NewCachingProvider(issuerURL, 5*time.Minute)

	jwtValidator, err := validator.New(
		provider.KeyFunc,
		validator.RS256,
		issuerURL.String(),
		[]string{audience},
		validator.WithCustomClaims(func() validator.CustomClaims {
			return &CustomClaims{}
		}),
		validator.WithAllowedClockSkew(time.Minute),
	)
	if err != nil {
		return nil, err
	}

	return &Auth0JWTValidator{
		validator:  jwtValidator,
		workspaces: workspaces,
	}, nil
}

// ValidateToken validates a JWT token and returns the associated workspace ID
func (v *Auth0JWTValidator) ValidateToken(token string) (int32, error) {
	claims, err := v.validator.ValidateToken(context.Background(), token)
	if err != nil {
		return 0, ErrInvalidToken
	}

	validatedClaims, ok := claims.(*validator.ValidatedClaims)
	if !ok || validatedClaims.RegisteredClaims.Subject == "" {
		return 0, ErrInvalidToken
	}

	workspace, err := v.workspaces.GetByAuth0ID(validatedClaims.RegisteredClaims.Subject)
	if err != nil {
		return 0, ErrWorkspaceNotFound
	}
	return workspace.ID, nil
}
