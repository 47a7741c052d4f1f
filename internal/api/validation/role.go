package validation

import "strings"

// AddRoleRequest mirrors the fields needed for add role validation.
type AddRoleRequest struct {
	RoleType     string
	MaxPositions int
	Priority     int
}

// ValidateAddRoleRequest validates the fields of an add role request.
func ValidateAddRoleRequest(req AddRoleRequest) []FieldError {
	var errs []FieldError

	role := strings.TrimSpace(req.RoleType)
	if role == "" {
		errs = append(errs, FieldError{Field: "roleType", Message: "roleType is required"})
	} else if len(role) > 100 {
		errs = append(errs, FieldError{Field: "roleType", Message: "roleType must be at most 100 characters"})
	}

	if req.MaxPositions < 1 {
		errs = append(errs, FieldError{Field: "maxPositions", Message: "maxPositions must be at least 1"})
	} else if req.MaxPositions > 20 {
		errs = append(errs, FieldError{Field: "maxPositions", Message: "maxPositions must be at most 20"})
	}

	if req.Priority < 1 || req.Priority > 3 {
		errs = append(errs, FieldError{Field: "priority", Message: "priority must be 1 (critical), 2 (important) or 3 (nice-to-have)"})
	}

	return errs
}
