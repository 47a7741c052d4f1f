package handler

import (
	"net/http"
	"strconv"

	"github.com/ideahub/ideahub/internal/api/middleware"
	"github.com/ideahub/ideahub/internal/api/response"
	"github.com/ideahub/ideahub/internal/directory"
)

// CandidateHandler handles the candidate search endpoint.
type CandidateHandler struct {
	dir directory.Directory
}

// NewCandidateHandler creates a new CandidateHandler.
func NewCandidateHandler(dir directory.Directory) *CandidateHandler {
	return &CandidateHandler{dir: dir}
}

// Search handles GET /candidates?q=X&limit=N.
func (h *CandidateHandler) Search(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	query := r.URL.Query().Get("q")
	if query == "" {
		response.Err(w, http.StatusBadRequest, "VALIDATION_ERROR", "q query parameter is required", requestID)
		return
	}

	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	users, err := h.dir.Search(r.Context(), query, limit)
	if err != nil {
		respondError(w, err, requestID)
		return
	}

	items := make([]userRefResponse, 0, len(users))
	for _, u := range users {
		items = append(items, toUserRefResponse(u))
	}

	response.SuccessList(w, http.StatusOK, items, len(items), requestID)
}
