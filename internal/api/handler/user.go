package handler

import (
	"encoding/json"
	"net/http"

	"github.com/ideahub/ideahub/internal/api/middleware"
	"github.com/ideahub/ideahub/internal/api/response"
	"github.com/ideahub/ideahub/internal/api/validation"
	"github.com/ideahub/ideahub/internal/auth"
)

type registerUserRequest struct {
	DisplayName string  `json:"displayName"`
	AvatarURL   *string `json:"avatarUrl"`
}

type registeredUserResponse struct {
	ID          string `json:"id"`
	DisplayName string `json:"displayName"`
	ApiKey      string `json:"apiKey"`
	CreatedAt   string `json:"createdAt"`
}

type meResponse struct {
	ID          string `json:"id"`
	DisplayName string `json:"displayName"`
}

// UserHandler handles user registration and identity endpoints.
type UserHandler struct {
	authService *auth.Service
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(authService *auth.Service) *UserHandler {
	return &UserHandler{authService: authService}
}

// Register handles POST /users. The API key is returned exactly once.
func (h *UserHandler) Register(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	var req registerUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Err(w, http.StatusBadRequest, "INVALID_JSON", "Request body must be valid JSON", requestID)
		return
	}

	fieldErrors := validation.ValidateRegisterUserRequest(validation.RegisterUserRequest{
		DisplayName: req.DisplayName,
	})
	if len(fieldErrors) > 0 {
		response.ErrWithDetails(w, http.StatusBadRequest, "VALIDATION_ERROR", "Input validation failed", fieldErrors, requestID)
		return
	}

	user, rawKey, err := h.authService.Register(r.Context(), req.DisplayName, req.AvatarURL)
	if err != nil {
		respondError(w, err, requestID)
		return
	}

	response.Success(w, http.StatusCreated, registeredUserResponse{
		ID:          user.ID.String(),
		DisplayName: user.DisplayName,
		ApiKey:      rawKey,
		CreatedAt:   formatTime(user.CreatedAt),
	}, requestID)
}

// Me handles GET /me.
func (h *UserHandler) Me(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	identity := middleware.GetIdentity(r.Context())

	response.Success(w, http.StatusOK, meResponse{
		ID:          identity.UserID.String(),
		DisplayName: identity.DisplayName,
	}, requestID)
}
