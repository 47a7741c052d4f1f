package validation

import "strings"

// CreateIdeaRequest mirrors the fields needed for create idea validation.
type CreateIdeaRequest struct {
	Title       string
	Description string
	Category    string
	MaxTeamSize int
}

// ValidateCreateIdeaRequest validates the fields of a create idea request.
func ValidateCreateIdeaRequest(req CreateIdeaRequest) []FieldError {
	var errs []FieldError

	title := strings.TrimSpace(req.Title)
	if title == "" {
		errs = append(errs, FieldError{Field: "title", Message: "title is required"})
	} else if len(title) > 200 {
		errs = append(errs, FieldError{Field: "title", Message: "title must be at most 200 characters"})
	}

	if len(req.Description) > 5000 {
		errs = append(errs, FieldError{Field: "description", Message: "description must be at most 5000 characters"})
	}

	if req.MaxTeamSize < 0 || req.MaxTeamSize > 50 {
		errs = append(errs, FieldError{Field: "maxTeamSize", Message: "maxTeamSize must be between 0 and 50"})
	}

	return errs
}
