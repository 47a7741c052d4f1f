package handler

import (
	"encoding/json"
	"net/http"

	"github.com/ideahub/ideahub/internal/api/middleware"
	"github.com/ideahub/ideahub/internal/api/response"
	"github.com/ideahub/ideahub/internal/api/validation"
	"github.com/ideahub/ideahub/internal/formation"
	"github.com/ideahub/ideahub/internal/idea"
)

type createApproachRequest struct {
	Role        string `json:"role"`
	Description string `json:"description"`
}

type updateApproachRequest struct {
	Status      string `json:"status"`
	Resolution  string `json:"resolution"`
	SubroleName string `json:"subroleName"`
}

type collaborationIntentResponse struct {
	AuthorID    string `json:"authorId"`
	CandidateID string `json:"candidateId"`
	IdeaID      string `json:"ideaId"`
	ApproachID  string `json:"approachId"`
}

type approachOutcomeResponse struct {
	Approach approachResponse             `json:"approach"`
	Intent   *collaborationIntentResponse `json:"collaborationIntent,omitempty"`
}

type approachConflictDetails struct {
	Conflict    conflictResponse    `json:"conflict"`
	Suggestions suggestionsResponse `json:"suggestions"`
}

// ApproachHandler handles approach lifecycle endpoints.
type ApproachHandler struct {
	svc *formation.Service
}

// NewApproachHandler creates a new ApproachHandler.
func NewApproachHandler(svc *formation.Service) *ApproachHandler {
	return &ApproachHandler{svc: svc}
}

// Create handles POST /ideas/{id}/approaches.
func (h *ApproachHandler) Create(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	identity := middleware.GetIdentity(r.Context())

	ideaID, ok := parseIDParam(r, "id")
	if !ok {
		response.Err(w, http.StatusBadRequest, "INVALID_ID", "id must be a valid UUID", requestID)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	var req createApproachRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Err(w, http.StatusBadRequest, "INVALID_JSON", "Request body must be valid JSON", requestID)
		return
	}

	fieldErrors := validation.ValidateCreateApproachRequest(validation.CreateApproachRequest{
		Role:        req.Role,
		Description: req.Description,
	})
	if len(fieldErrors) > 0 {
		response.ErrWithDetails(w, http.StatusBadRequest, "VALIDATION_ERROR", "Input validation failed", fieldErrors, requestID)
		return
	}

	approach, err := h.svc.CreateApproach(r.Context(), identity.UserID, ideaID, req.Role, req.Description)
	if err != nil {
		respondError(w, err, requestID)
		return
	}

	response.Success(w, http.StatusCreated, toApproachResponse(approach), requestID)
}

// UpdateStatus handles PATCH /ideas/{id}/approaches/{approachId}. Selecting
// a conflicting role without a resolution returns 409 with the conflict
// descriptor and resolution suggestions in the error details; nothing is
// persisted in that case.
func (h *ApproachHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	identity := middleware.GetIdentity(r.Context())

	ideaID, ok := parseIDParam(r, "id")
	if !ok {
		response.Err(w, http.StatusBadRequest, "INVALID_ID", "id must be a valid UUID", requestID)
		return
	}
	approachID, ok := parseIDParam(r, "approachId")
	if !ok {
		response.Err(w, http.StatusBadRequest, "INVALID_ID", "approachId must be a valid UUID", requestID)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	var req updateApproachRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Err(w, http.StatusBadRequest, "INVALID_JSON", "Request body must be valid JSON", requestID)
		return
	}

	fieldErrors := validation.ValidateUpdateApproachRequest(validation.UpdateApproachRequest{
		Status:     req.Status,
		Resolution: req.Resolution,
	})
	if len(fieldErrors) > 0 {
		response.ErrWithDetails(w, http.StatusBadRequest, "VALIDATION_ERROR", "Input validation failed", fieldErrors, requestID)
		return
	}

	var res formation.Resolution
	if req.Resolution != "" {
		parsed, err := formation.ParseResolution(req.Resolution, req.SubroleName)
		if err != nil {
			respondError(w, err, requestID)
			return
		}
		res = parsed
	}

	outcome, err := h.svc.UpdateApproachStatus(r.Context(), identity.UserID, ideaID, approachID,
		idea.ApproachStatus(req.Status), res)
	if err != nil {
		respondError(w, err, requestID)
		return
	}

	if outcome.Conflict != nil {
		details := approachConflictDetails{
			Conflict:    toConflictResponse(*outcome.Conflict),
			Suggestions: toSuggestionsResponse(*outcome.Suggestions),
		}
		response.ErrWithDetails(w, http.StatusConflict, "ROLE_CONFLICT",
			"Selecting this approach conflicts with the current team; choose a resolution", details, requestID)
		return
	}

	resp := approachOutcomeResponse{Approach: toApproachResponse(&outcome.Approach)}
	if outcome.Intent != nil {
		resp.Intent = &collaborationIntentResponse{
			AuthorID:    outcome.Intent.AuthorID.String(),
			CandidateID: outcome.Intent.CandidateID.String(),
			IdeaID:      outcome.Intent.IdeaID.String(),
			ApproachID:  outcome.Intent.ApproachID.String(),
		}
	}
	response.Success(w, http.StatusOK, resp, requestID)
}
