package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/ideahub/ideahub/internal/api/middleware"
	"github.com/ideahub/ideahub/internal/api/response"
	"github.com/ideahub/ideahub/internal/api/validation"
	"github.com/ideahub/ideahub/internal/directory"
	"github.com/ideahub/ideahub/internal/formation"
	"github.com/ideahub/ideahub/internal/idea"
)

type addRoleRequest struct {
	RoleType       string   `json:"roleType"`
	IsCore         bool     `json:"isCore"`
	MaxPositions   int      `json:"maxPositions"`
	Priority       int      `json:"priority"`
	SkillsRequired []string `json:"skillsRequired"`
	Description    string   `json:"description"`
}

type updateMemberRequest struct {
	Role   *string `json:"role"`
	IsLead *bool   `json:"isLead"`
}

type addSubroleRequest struct {
	UserID string `json:"userId"`
	Role   string `json:"role"`
}

type userRefResponse struct {
	ID          string `json:"id"`
	DisplayName string `json:"displayName,omitempty"`
	AvatarURL   string `json:"avatarUrl,omitempty"`
}

type memberResponse struct {
	ID           string           `json:"id"`
	User         userRefResponse  `json:"user"`
	AssignedRole string           `json:"assignedRole"`
	IsLead       bool             `json:"isLead"`
	AssignedAt   string           `json:"assignedAt"`
	Subroles     []memberResponse `json:"subroles,omitempty"`
}

type teamResponse struct {
	IdeaID            string               `json:"ideaId"`
	Author            userRefResponse      `json:"author"`
	RolesNeeded       []roleNeededResponse `json:"rolesNeeded"`
	Members           []memberResponse     `json:"members"`
	IsTeamComplete    bool                 `json:"isTeamComplete"`
	TeamFormationDate *string              `json:"teamFormationDate,omitempty"`
	Metrics           metricsResponse      `json:"metrics"`
}

type metricsResponse struct {
	MaxTeamSize          int `json:"maxTeamSize"`
	CurrentSize          int `json:"currentSize"`
	OpenPositions        int `json:"openPositions"`
	CompletionPercentage int `json:"completionPercentage"`
	CoreRolesFilled      int `json:"coreRolesFilled"`
	TotalCoreRoles       int `json:"totalCoreRoles"`
}

type conflictResponse struct {
	HasConflict    bool                `json:"hasConflict"`
	ConflictType   string              `json:"conflictType,omitempty"`
	ExistingMember *memberResponse     `json:"existingMember,omitempty"`
	RoleNeeded     *roleNeededResponse `json:"roleNeeded,omitempty"`
	Message        string              `json:"message,omitempty"`
}

type subroleSuggestionResponse struct {
	Name       string `json:"name"`
	SkillLevel string `json:"skillLevel,omitempty"`
}

type alternativeResponse struct {
	RoleType      string `json:"roleType"`
	OpenPositions int    `json:"openPositions"`
	Priority      int    `json:"priority"`
}

type suggestionsResponse struct {
	Subroles     []subroleSuggestionResponse `json:"subroles"`
	Alternatives []alternativeResponse       `json:"alternatives"`
	Patterns     []string                    `json:"patterns"`
}

func toUserRefResponse(u directory.UserRef) userRefResponse {
	return userRefResponse{
		ID:          u.ID.String(),
		DisplayName: u.DisplayName,
		AvatarURL:   u.AvatarURL,
	}
}

func toMemberResponse(mv formation.MemberView) memberResponse {
	resp := memberResponse{
		ID:           mv.Member.ID.String(),
		User:         toUserRefResponse(mv.User),
		AssignedRole: mv.Member.AssignedRole,
		IsLead:       mv.Member.IsLead,
		AssignedAt:   formatTime(mv.Member.AssignedAt),
	}
	for _, sub := range mv.Subroles {
		resp.Subroles = append(resp.Subroles, toMemberResponse(sub))
	}
	return resp
}

func toMetricsResponse(m idea.TeamMetrics) metricsResponse {
	return metricsResponse(m)
}

func toConflictResponse(c formation.Conflict) conflictResponse {
	resp := conflictResponse{
		HasConflict:  c.HasConflict,
		ConflictType: string(c.Type),
		Message:      c.Message,
	}
	if c.ExistingMember != nil {
		m := toMemberResponse(formation.MemberView{
			Member: *c.ExistingMember,
			User:   directory.UserRef{ID: c.ExistingMember.UserID},
		})
		resp.ExistingMember = &m
	}
	if c.RoleNeeded != nil {
		rn := toRoleNeededResponse(c.RoleNeeded)
		resp.RoleNeeded = &rn
	}
	return resp
}

func toSuggestionsResponse(s formation.Suggestions) suggestionsResponse {
	resp := suggestionsResponse{
		Subroles:     make([]subroleSuggestionResponse, 0, len(s.Subroles)),
		Alternatives: make([]alternativeResponse, 0, len(s.Alternatives)),
		Patterns:     s.Patterns,
	}
	if resp.Patterns == nil {
		resp.Patterns = []string{}
	}
	for _, sub := range s.Subroles {
		resp.Subroles = append(resp.Subroles, subroleSuggestionResponse{Name: sub.Name, SkillLevel: sub.SkillLevel})
	}
	for _, alt := range s.Alternatives {
		resp.Alternatives = append(resp.Alternatives, alternativeResponse(alt))
	}
	return resp
}

// TeamHandler handles team structure and membership endpoints.
type TeamHandler struct {
	svc *formation.Service
}

// NewTeamHandler creates a new TeamHandler.
func NewTeamHandler(svc *formation.Service) *TeamHandler {
	return &TeamHandler{svc: svc}
}

func parseIDParam(r *http.Request, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, name))
	return id, err == nil
}

// GetStructure handles GET /ideas/{id}/team.
func (h *TeamHandler) GetStructure(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	ideaID, ok := parseIDParam(r, "id")
	if !ok {
		response.Err(w, http.StatusBadRequest, "INVALID_ID", "id must be a valid UUID", requestID)
		return
	}

	view, err := h.svc.TeamStructure(r.Context(), ideaID)
	if err != nil {
		respondError(w, err, requestID)
		return
	}

	resp := teamResponse{
		IdeaID:            view.IdeaID.String(),
		Author:            toUserRefResponse(view.Author),
		RolesNeeded:       make([]roleNeededResponse, 0, len(view.RolesNeeded)),
		Members:           make([]memberResponse, 0, len(view.Members)),
		IsTeamComplete:    view.IsTeamComplete,
		TeamFormationDate: formatTimePtr(view.TeamFormationDate),
		Metrics:           toMetricsResponse(view.Metrics),
	}
	for idx := range view.RolesNeeded {
		resp.RolesNeeded = append(resp.RolesNeeded, toRoleNeededResponse(&view.RolesNeeded[idx]))
	}
	for _, mv := range view.Members {
		resp.Members = append(resp.Members, toMemberResponse(mv))
	}

	response.Success(w, http.StatusOK, resp, requestID)
}

// GetMetrics handles GET /ideas/{id}/team/metrics.
func (h *TeamHandler) GetMetrics(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	ideaID, ok := parseIDParam(r, "id")
	if !ok {
		response.Err(w, http.StatusBadRequest, "INVALID_ID", "id must be a valid UUID", requestID)
		return
	}

	metrics, err := h.svc.Metrics(r.Context(), ideaID)
	if err != nil {
		respondError(w, err, requestID)
		return
	}

	response.Success(w, http.StatusOK, toMetricsResponse(metrics), requestID)
}

// AddRole handles POST /ideas/{id}/roles.
func (h *TeamHandler) AddRole(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	identity := middleware.GetIdentity(r.Context())

	ideaID, ok := parseIDParam(r, "id")
	if !ok {
		response.Err(w, http.StatusBadRequest, "INVALID_ID", "id must be a valid UUID", requestID)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	var req addRoleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Err(w, http.StatusBadRequest, "INVALID_JSON", "Request body must be valid JSON", requestID)
		return
	}

	if req.Priority == 0 {
		req.Priority = idea.PriorityImportant
	}
	if req.MaxPositions == 0 {
		req.MaxPositions = 1
	}

	fieldErrors := validation.ValidateAddRoleRequest(validation.AddRoleRequest{
		RoleType:     req.RoleType,
		MaxPositions: req.MaxPositions,
		Priority:     req.Priority,
	})
	if len(fieldErrors) > 0 {
		response.ErrWithDetails(w, http.StatusBadRequest, "VALIDATION_ERROR", "Input validation failed", fieldErrors, requestID)
		return
	}

	entry, err := h.svc.AddRole(r.Context(), identity.UserID, ideaID, formation.RoleInput{
		RoleType:       req.RoleType,
		IsCore:         req.IsCore,
		MaxPositions:   req.MaxPositions,
		Priority:       req.Priority,
		SkillsRequired: req.SkillsRequired,
		Description:    req.Description,
	})
	if err != nil {
		respondError(w, err, requestID)
		return
	}

	response.Success(w, http.StatusCreated, toRoleNeededResponse(entry), requestID)
}

// RemoveRole handles DELETE /ideas/{id}/roles/{roleId}.
func (h *TeamHandler) RemoveRole(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	identity := middleware.GetIdentity(r.Context())

	ideaID, ok := parseIDParam(r, "id")
	if !ok {
		response.Err(w, http.StatusBadRequest, "INVALID_ID", "id must be a valid UUID", requestID)
		return
	}
	roleID, ok := parseIDParam(r, "roleId")
	if !ok {
		response.Err(w, http.StatusBadRequest, "INVALID_ID", "roleId must be a valid UUID", requestID)
		return
	}

	if err := h.svc.RemoveRole(r.Context(), identity.UserID, ideaID, roleID); err != nil {
		respondError(w, err, requestID)
		return
	}

	response.NoContent(w)
}

// CheckConflict handles GET /ideas/{id}/team/conflict?role=X.
func (h *TeamHandler) CheckConflict(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	ideaID, ok := parseIDParam(r, "id")
	if !ok {
		response.Err(w, http.StatusBadRequest, "INVALID_ID", "id must be a valid UUID", requestID)
		return
	}

	role := r.URL.Query().Get("role")
	if role == "" {
		response.Err(w, http.StatusBadRequest, "VALIDATION_ERROR", "role query parameter is required", requestID)
		return
	}

	conflict, err := h.svc.CheckConflict(r.Context(), ideaID, role)
	if err != nil {
		respondError(w, err, requestID)
		return
	}

	response.Success(w, http.StatusOK, toConflictResponse(conflict), requestID)
}

// GetSuggestions handles GET /ideas/{id}/team/suggestions?role=X.
func (h *TeamHandler) GetSuggestions(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	identity := middleware.GetIdentity(r.Context())

	ideaID, ok := parseIDParam(r, "id")
	if !ok {
		response.Err(w, http.StatusBadRequest, "INVALID_ID", "id must be a valid UUID", requestID)
		return
	}

	role := r.URL.Query().Get("role")
	if role == "" {
		response.Err(w, http.StatusBadRequest, "VALIDATION_ERROR", "role query parameter is required", requestID)
		return
	}

	suggestions, err := h.svc.Suggestions(r.Context(), ideaID, role, identity.UserID)
	if err != nil {
		respondError(w, err, requestID)
		return
	}

	response.Success(w, http.StatusOK, toSuggestionsResponse(suggestions), requestID)
}

// UpdateMember handles PATCH /ideas/{id}/team/members/{memberId}: role
// rename and/or leadership change.
func (h *TeamHandler) UpdateMember(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	identity := middleware.GetIdentity(r.Context())

	ideaID, ok := parseIDParam(r, "id")
	if !ok {
		response.Err(w, http.StatusBadRequest, "INVALID_ID", "id must be a valid UUID", requestID)
		return
	}
	memberID, ok := parseIDParam(r, "memberId")
	if !ok {
		response.Err(w, http.StatusBadRequest, "INVALID_ID", "memberId must be a valid UUID", requestID)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	var req updateMemberRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Err(w, http.StatusBadRequest, "INVALID_JSON", "Request body must be valid JSON", requestID)
		return
	}

	fieldErrors := validation.ValidateUpdateMemberRequest(validation.UpdateMemberRequest{
		Role:   req.Role,
		IsLead: req.IsLead,
	})
	if len(fieldErrors) > 0 {
		response.ErrWithDetails(w, http.StatusBadRequest, "VALIDATION_ERROR", "Input validation failed", fieldErrors, requestID)
		return
	}

	if req.Role != nil {
		if err := h.svc.UpdateMemberRole(r.Context(), identity.UserID, ideaID, memberID, *req.Role); err != nil {
			respondError(w, err, requestID)
			return
		}
	}
	if req.IsLead != nil {
		if err := h.svc.SetLeadership(r.Context(), identity.UserID, ideaID, memberID, *req.IsLead); err != nil {
			respondError(w, err, requestID)
			return
		}
	}

	response.NoContent(w)
}

// RemoveMember handles DELETE /ideas/{id}/team/members/{memberId}.
func (h *TeamHandler) RemoveMember(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	identity := middleware.GetIdentity(r.Context())

	ideaID, ok := parseIDParam(r, "id")
	if !ok {
		response.Err(w, http.StatusBadRequest, "INVALID_ID", "id must be a valid UUID", requestID)
		return
	}
	memberID, ok := parseIDParam(r, "memberId")
	if !ok {
		response.Err(w, http.StatusBadRequest, "INVALID_ID", "memberId must be a valid UUID", requestID)
		return
	}

	if err := h.svc.RemoveMember(r.Context(), identity.UserID, ideaID, memberID); err != nil {
		respondError(w, err, requestID)
		return
	}

	response.NoContent(w)
}

// AddSubrole handles POST /ideas/{id}/team/members/{memberId}/subroles.
func (h *TeamHandler) AddSubrole(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	identity := middleware.GetIdentity(r.Context())

	ideaID, ok := parseIDParam(r, "id")
	if !ok {
		response.Err(w, http.StatusBadRequest, "INVALID_ID", "id must be a valid UUID", requestID)
		return
	}
	memberID, ok := parseIDParam(r, "memberId")
	if !ok {
		response.Err(w, http.StatusBadRequest, "INVALID_ID", "memberId must be a valid UUID", requestID)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	var req addSubroleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Err(w, http.StatusBadRequest, "INVALID_JSON", "Request body must be valid JSON", requestID)
		return
	}

	fieldErrors := validation.ValidateAddSubroleRequest(validation.AddSubroleRequest{
		UserID: req.UserID,
		Role:   req.Role,
	})
	if len(fieldErrors) > 0 {
		response.ErrWithDetails(w, http.StatusBadRequest, "VALIDATION_ERROR", "Input validation failed", fieldErrors, requestID)
		return
	}

	userID, _ := uuid.Parse(req.UserID)
	sub, err := h.svc.AddSubrole(r.Context(), identity.UserID, ideaID, memberID, userID, req.Role)
	if err != nil {
		respondError(w, err, requestID)
		return
	}

	resp := toMemberResponse(formation.MemberView{
		Member: *sub,
		User:   directory.UserRef{ID: sub.UserID},
	})
	response.Success(w, http.StatusCreated, resp, requestID)
}

// RemoveSubrole handles DELETE /ideas/{id}/team/members/{memberId}/subroles/{subroleId}.
func (h *TeamHandler) RemoveSubrole(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	identity := middleware.GetIdentity(r.Context())

	ideaID, ok := parseIDParam(r, "id")
	if !ok {
		response.Err(w, http.StatusBadRequest, "INVALID_ID", "id must be a valid UUID", requestID)
		return
	}
	memberID, ok := parseIDParam(r, "memberId")
	if !ok {
		response.Err(w, http.StatusBadRequest, "INVALID_ID", "memberId must be a valid UUID", requestID)
		return
	}
	subroleID, ok := parseIDParam(r, "subroleId")
	if !ok {
		response.Err(w, http.StatusBadRequest, "INVALID_ID", "subroleId must be a valid UUID", requestID)
		return
	}

	if err := h.svc.RemoveSubrole(r.Context(), identity.UserID, ideaID, memberID, subroleID); err != nil {
		respondError(w, err, requestID)
		return
	}

	response.NoContent(w)
}
