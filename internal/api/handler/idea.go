package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/ideahub/ideahub/internal/api/middleware"
	"github.com/ideahub/ideahub/internal/api/response"
	"github.com/ideahub/ideahub/internal/api/validation"
	"github.com/ideahub/ideahub/internal/idea"
)

type createIdeaRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Category    string `json:"category"`
	MaxTeamSize int    `json:"maxTeamSize"`
}

type roleNeededResponse struct {
	ID               string   `json:"id"`
	RoleType         string   `json:"roleType"`
	IsCore           bool     `json:"isCore"`
	MaxPositions     int      `json:"maxPositions"`
	CurrentPositions int      `json:"currentPositions"`
	Priority         int      `json:"priority"`
	SkillsRequired   []string `json:"skillsRequired,omitempty"`
	Description      string   `json:"description,omitempty"`
}

type approachResponse struct {
	ID              string  `json:"id"`
	UserID          string  `json:"userId"`
	Role            string  `json:"role"`
	Description     string  `json:"description,omitempty"`
	Status          string  `json:"status"`
	StatusUpdatedAt *string `json:"statusUpdatedAt,omitempty"`
	StatusUpdatedBy *string `json:"statusUpdatedBy,omitempty"`
	CreatedAt       string  `json:"createdAt"`
}

type ideaResponse struct {
	ID                string               `json:"id"`
	AuthorID          string               `json:"authorId"`
	Title             string               `json:"title"`
	Description       string               `json:"description,omitempty"`
	Category          string               `json:"category,omitempty"`
	RolesNeeded       []roleNeededResponse `json:"rolesNeeded"`
	Approaches        []approachResponse   `json:"approaches"`
	IsTeamComplete    bool                 `json:"isTeamComplete"`
	TeamFormationDate *string              `json:"teamFormationDate,omitempty"`
	MaxTeamSize       int                  `json:"maxTeamSize"`
	CurrentTeamSize   int                  `json:"currentTeamSize"`
	Version           int64                `json:"version"`
	CreatedAt         string               `json:"createdAt"`
	UpdatedAt         string               `json:"updatedAt"`
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

func formatTimePtr(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := formatTime(*t)
	return &s
}

func toRoleNeededResponse(r *idea.RoleNeeded) roleNeededResponse {
	return roleNeededResponse{
		ID:               r.ID.String(),
		RoleType:         r.RoleType,
		IsCore:           r.IsCore,
		MaxPositions:     r.MaxPositions,
		CurrentPositions: r.CurrentPositions,
		Priority:         r.Priority,
		SkillsRequired:   r.SkillsRequired,
		Description:      r.Description,
	}
}

func toApproachResponse(a *idea.Approach) approachResponse {
	resp := approachResponse{
		ID:              a.ID.String(),
		UserID:          a.UserID.String(),
		Role:            a.Role,
		Description:     a.Description,
		Status:          string(a.Status),
		StatusUpdatedAt: formatTimePtr(a.StatusUpdatedAt),
		CreatedAt:       formatTime(a.CreatedAt),
	}
	if a.StatusUpdatedBy != nil {
		s := a.StatusUpdatedBy.String()
		resp.StatusUpdatedBy = &s
	}
	return resp
}

func toIdeaResponse(i *idea.Idea) ideaResponse {
	resp := ideaResponse{
		ID:                i.ID.String(),
		AuthorID:          i.AuthorID.String(),
		Title:             i.Title,
		Description:       i.Description,
		Category:          i.Category,
		RolesNeeded:       make([]roleNeededResponse, 0, len(i.RolesNeeded)),
		Approaches:        make([]approachResponse, 0, len(i.Approaches)),
		IsTeamComplete:    i.IsTeamComplete,
		TeamFormationDate: formatTimePtr(i.TeamFormationDate),
		MaxTeamSize:       i.MaxTeamSize,
		CurrentTeamSize:   i.CurrentTeamSize(),
		Version:           i.Version,
		CreatedAt:         formatTime(i.CreatedAt),
		UpdatedAt:         formatTime(i.UpdatedAt),
	}
	for idx := range i.RolesNeeded {
		resp.RolesNeeded = append(resp.RolesNeeded, toRoleNeededResponse(&i.RolesNeeded[idx]))
	}
	for idx := range i.Approaches {
		resp.Approaches = append(resp.Approaches, toApproachResponse(&i.Approaches[idx]))
	}
	return resp
}

// IdeaHandler handles idea CRUD endpoints.
type IdeaHandler struct {
	repo            idea.Repository
	defaultTeamSize int
}

// NewIdeaHandler creates a new IdeaHandler.
func NewIdeaHandler(repo idea.Repository, defaultTeamSize int) *IdeaHandler {
	return &IdeaHandler{repo: repo, defaultTeamSize: defaultTeamSize}
}

// Create handles POST /ideas.
func (h *IdeaHandler) Create(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	identity := middleware.GetIdentity(r.Context())

	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	var req createIdeaRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Err(w, http.StatusBadRequest, "INVALID_JSON", "Request body must be valid JSON", requestID)
		return
	}

	fieldErrors := validation.ValidateCreateIdeaRequest(validation.CreateIdeaRequest{
		Title:       req.Title,
		Description: req.Description,
		Category:    req.Category,
		MaxTeamSize: req.MaxTeamSize,
	})
	if len(fieldErrors) > 0 {
		response.ErrWithDetails(w, http.StatusBadRequest, "VALIDATION_ERROR", "Input validation failed", fieldErrors, requestID)
		return
	}

	maxTeamSize := req.MaxTeamSize
	if maxTeamSize == 0 {
		maxTeamSize = h.defaultTeamSize
	}

	i := &idea.Idea{
		AuthorID:    identity.UserID,
		Title:       req.Title,
		Description: req.Description,
		Category:    req.Category,
		MaxTeamSize: maxTeamSize,
	}

	if err := h.repo.Create(r.Context(), i); err != nil {
		respondError(w, err, requestID)
		return
	}

	response.Success(w, http.StatusCreated, toIdeaResponse(i), requestID)
}

// List handles GET /ideas. An optional mine=true filter restricts the list
// to the caller's own ideas.
func (h *IdeaHandler) List(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	var authorID *uuid.UUID
	if r.URL.Query().Get("mine") == "true" {
		identity := middleware.GetIdentity(r.Context())
		authorID = &identity.UserID
	}

	ideas, err := h.repo.List(r.Context(), authorID)
	if err != nil {
		respondError(w, err, requestID)
		return
	}

	items := make([]ideaResponse, 0, len(ideas))
	for idx := range ideas {
		items = append(items, toIdeaResponse(&ideas[idx]))
	}

	response.SuccessList(w, http.StatusOK, items, len(items), requestID)
}

// GetByID handles GET /ideas/{id}.
func (h *IdeaHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.Err(w, http.StatusBadRequest, "INVALID_ID", "id must be a valid UUID", requestID)
		return
	}

	i, err := h.repo.Load(r.Context(), id)
	if err != nil {
		respondError(w, err, requestID)
		return
	}

	response.Success(w, http.StatusOK, toIdeaResponse(i), requestID)
}
