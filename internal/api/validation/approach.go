package validation

import "strings"

// CreateApproachRequest mirrors the fields needed for create approach validation.
type CreateApproachRequest struct {
	Role        string
	Description string
}

// ValidateCreateApproachRequest validates the fields of a create approach request.
func ValidateCreateApproachRequest(req CreateApproachRequest) []FieldError {
	var errs []FieldError

	role := strings.TrimSpace(req.Role)
	if role == "" {
		errs = append(errs, FieldError{Field: "role", Message: "role is required"})
	} else if len(role) > 100 {
		errs = append(errs, FieldError{Field: "role", Message: "role must be at most 100 characters"})
	}

	if len(req.Description) > 2000 {
		errs = append(errs, FieldError{Field: "description", Message: "description must be at most 2000 characters"})
	}

	return errs
}

var approachStatuses = map[string]bool{
	"selected": true,
	"declined": true,
	"queued":   true,
}

var resolutionTags = map[string]bool{
	"create_subrole":   true,
	"replace_existing": true,
	"expand_capacity":  true,
	"decline":          true,
}

// UpdateApproachRequest mirrors the fields needed for approach status updates.
type UpdateApproachRequest struct {
	Status     string
	Resolution string
}

// ValidateUpdateApproachRequest validates the fields of an approach status
// update. The pending status is not a valid target: approaches never return
// to pending.
func ValidateUpdateApproachRequest(req UpdateApproachRequest) []FieldError {
	var errs []FieldError

	if req.Status == "" {
		errs = append(errs, FieldError{Field: "status", Message: "status is required"})
	} else if !approachStatuses[req.Status] {
		errs = append(errs, FieldError{Field: "status", Message: "status must be \"selected\", \"declined\" or \"queued\""})
	}

	if req.Resolution != "" && !resolutionTags[req.Resolution] {
		errs = append(errs, FieldError{Field: "resolution", Message: "resolution must be one of \"create_subrole\", \"replace_existing\", \"expand_capacity\", \"decline\""})
	}

	return errs
}
