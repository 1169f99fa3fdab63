package handler

import (
	"errors"
	"net/http"

	"github.com/finboard/finboard-backend/internal/domain"
	"github.com/finboard/finboard-backend/internal/middleware"
	"github.com/finboard/finboard-backend/internal/service"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
)

// WorkspaceHandler handles workspace-related HTTP requests
type WorkspaceHandler struct {
	workspaceService *service.WorkspaceService
}

// NewWorkspaceHandler creates a new WorkspaceHandler
func NewWorkspaceHandler(workspaceService *service.WorkspaceService) *WorkspaceHandler {
	return &WorkspaceHandler{workspaceService: workspaceService}
}

// WorkspaceResponse represents the caller's workspace in API responses
type WorkspaceResponse struct {
	ID        int32  `json:"id"`
	Name      string `json:"name"`
	CreatedAt string `json:"createdAt"`
}

// GetWorkspace godoc
// @Summary Current workspace
// @Tags workspace
// @Produce json
// @Security BearerAuth
// @Success 200 {object} WorkspaceResponse
// @Failure 401 {object} ProblemDetails
// @Failure 404 {object} ProblemDetails
// @Router /workspace [get]
func (h *WorkspaceHandler) GetWorkspace(c echo.Context) error {
	workspaceID := middleware.GetWorkspaceID(c)

	workspace, err := h.workspaceService.GetWorkspace(workspaceID)
	if err != nil {
		if errors.Is(err, domain.ErrWorkspaceNotFound) {
			return NewNotFoundError(c, "Workspace not found")
		}
		log.Error().Err(err).Int32("workspace_id", workspaceID).Msg("Failed to get workspace")
		return NewInternalError(c, "Failed to get workspace")
	}

	return c.JSON(http.StatusOK, WorkspaceResponse{
		ID:        workspace.ID,
		Name:      workspace.Name,
		CreatedAt: formatTimestamp(workspace.CreatedAt),
	})
}
