package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/ideahub/ideahub/internal/api/response"
	"github.com/ideahub/ideahub/internal/formation"
	"github.com/ideahub/ideahub/internal/idea"
)

// respondError maps domain sentinels to envelope error codes. Unmapped
// errors are logged and become a generic 500.
func respondError(w http.ResponseWriter, err error, requestID string) {
	switch {
	case errors.Is(err, idea.ErrIdeaNotFound):
		response.Err(w, http.StatusNotFound, "NOT_FOUND", "Idea not found", requestID)
	case errors.Is(err, idea.ErrApproachNotFound):
		response.Err(w, http.StatusNotFound, "NOT_FOUND", "Approach not found", requestID)
	case errors.Is(err, idea.ErrMemberNotFound):
		response.Err(w, http.StatusNotFound, "NOT_FOUND", "Team member not found", requestID)
	case errors.Is(err, idea.ErrRoleNotFound):
		response.Err(w, http.StatusNotFound, "NOT_FOUND", "Role not found", requestID)
	case errors.Is(err, formation.ErrPermissionDenied):
		response.Err(w, http.StatusForbidden, "FORBIDDEN", err.Error(), requestID)
	case errors.Is(err, idea.ErrInvalidTransition):
		response.Err(w, http.StatusConflict, "INVALID_TRANSITION", err.Error(), requestID)
	case errors.Is(err, idea.ErrDuplicateRole):
		response.Err(w, http.StatusConflict, "DUPLICATE_ROLE", "A role with this name already exists", requestID)
	case errors.Is(err, idea.ErrRoleOccupied):
		response.Err(w, http.StatusConflict, "ROLE_OCCUPIED", "The role still has active members", requestID)
	case errors.Is(err, idea.ErrVersionConflict):
		response.Err(w, http.StatusConflict, "VERSION_CONFLICT", "The idea was modified concurrently; reload and retry", requestID)
	case errors.Is(err, idea.ErrSubroleDepth):
		response.Err(w, http.StatusBadRequest, "SUBROLE_DEPTH", "Subroles cannot be nested under other subroles", requestID)
	case errors.Is(err, formation.ErrSubroleCollision):
		response.Err(w, http.StatusConflict, "SUBROLE_COLLISION", "The subrole name collides with an existing role", requestID)
	case errors.Is(err, formation.ErrUnknownResolution):
		response.Err(w, http.StatusBadRequest, "INVALID_RESOLUTION", err.Error(), requestID)
	default:
		slog.Error("request failed", "error", err, "requestId", requestID)
		response.Err(w, http.StatusInternalServerError, "INTERNAL_ERROR", "An unexpected error occurred", requestID)
	}
}
