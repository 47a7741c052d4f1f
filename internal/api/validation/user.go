package validation

import "strings"

// RegisterUserRequest mirrors the fields needed for user registration.
type RegisterUserRequest struct {
	DisplayName string
}

// ValidateRegisterUserRequest validates the fields of a register user request.
func ValidateRegisterUserRequest(req RegisterUserRequest) []FieldError {
	var errs []FieldError

	name := strings.TrimSpace(req.DisplayName)
	if name == "" {
		errs = append(errs, FieldError{Field: "displayName", Message: "displayName is required"})
	} else if len(name) > 100 {
		errs = append(errs, FieldError{Field: "displayName", Message: "displayName must be at most 100 characters"})
	}

	return errs
}
