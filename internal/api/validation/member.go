package validation

import (
	"strings"

	"github.com/google/uuid"
)

// UpdateMemberRequest mirrors the fields of a member update. At least one
// of Role or IsLead must be present.
type UpdateMemberRequest struct {
	Role   *string
	IsLead *bool
}

// ValidateUpdateMemberRequest validates the fields of a member update request.
func ValidateUpdateMemberRequest(req UpdateMemberRequest) []FieldError {
	var errs []FieldError

	if req.Role == nil && req.IsLead == nil {
		errs = append(errs, FieldError{Field: "role", Message: "either role or isLead must be provided"})
		return errs
	}

	if req.Role != nil {
		role := strings.TrimSpace(*req.Role)
		if role == "" {
			errs = append(errs, FieldError{Field: "role", Message: "role must not be empty"})
		} else if len(role) > 100 {
			errs = append(errs, FieldError{Field: "role", Message: "role must be at most 100 characters"})
		}
	}

	return errs
}

// AddSubroleRequest mirrors the fields needed for subrole creation.
type AddSubroleRequest struct {
	UserID string
	Role   string
}

// ValidateAddSubroleRequest validates the fields of an add subrole request.
func ValidateAddSubroleRequest(req AddSubroleRequest) []FieldError {
	var errs []FieldError

	if req.UserID == "" {
		errs = append(errs, FieldError{Field: "userId", Message: "userId is required"})
	} else if _, err := uuid.Parse(req.UserID); err != nil {
		errs = append(errs, FieldError{Field: "userId", Message: "userId must be a valid UUID"})
	}

	role := strings.TrimSpace(req.Role)
	if role == "" {
		errs = append(errs, FieldError{Field: "role", Message: "role is required"})
	} else if len(role) > 100 {
		errs = append(errs, FieldError{Field: "role", Message: "role must be at most 100 characters"})
	}

	return errs
}
