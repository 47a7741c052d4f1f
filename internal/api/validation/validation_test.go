package validation_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ideahub/ideahub/internal/api/validation"
)

func fieldNames(errs []validation.FieldError) []string {
	names := make([]string, 0, len(errs))
	for _, e := range errs {
		names = append(names, e.Field)
	}
	return names
}

func TestValidateCreateIdeaRequest(t *testing.T) {
	errs := validation.ValidateCreateIdeaRequest(validation.CreateIdeaRequest{
		Title:       "Recipe sharing app",
		Description: "A place to swap recipes",
		MaxTeamSize: 6,
	})
	assert.Empty(t, errs)

	errs = validation.ValidateCreateIdeaRequest(validation.CreateIdeaRequest{Title: "   "})
	assert.Contains(t, fieldNames(errs), "title")

	errs = validation.ValidateCreateIdeaRequest(validation.CreateIdeaRequest{
		Title:       strings.Repeat("x", 201),
		Description: strings.Repeat("y", 5001),
		MaxTeamSize: 51,
	})
	names := fieldNames(errs)
	assert.Contains(t, names, "title")
	assert.Contains(t, names, "description")
	assert.Contains(t, names, "maxTeamSize")
}

func TestValidateAddRoleRequest(t *testing.T) {
	errs := validation.ValidateAddRoleRequest(validation.AddRoleRequest{
		RoleType:     "Designer",
		MaxPositions: 1,
		Priority:     2,
	})
	assert.Empty(t, errs)

	errs = validation.ValidateAddRoleRequest(validation.AddRoleRequest{
		RoleType:     "",
		MaxPositions: 0,
		Priority:     4,
	})
	names := fieldNames(errs)
	assert.Contains(t, names, "roleType")
	assert.Contains(t, names, "maxPositions")
	assert.Contains(t, names, "priority")
}

func TestValidateCreateApproachRequest(t *testing.T) {
	errs := validation.ValidateCreateApproachRequest(validation.CreateApproachRequest{
		Role: "Designer",
	})
	assert.Empty(t, errs)

	errs = validation.ValidateCreateApproachRequest(validation.CreateApproachRequest{
		Role:        "",
		Description: strings.Repeat("z", 2001),
	})
	names := fieldNames(errs)
	assert.Contains(t, names, "role")
	assert.Contains(t, names, "description")
}

func TestValidateUpdateApproachRequest(t *testing.T) {
	for _, status := range []string{"selected", "declined", "queued"} {
		errs := validation.ValidateUpdateApproachRequest(validation.UpdateApproachRequest{Status: status})
		assert.Empty(t, errs, "status %q should be valid", status)
	}

	// Approaches never return to pending.
	errs := validation.ValidateUpdateApproachRequest(validation.UpdateApproachRequest{Status: "pending"})
	assert.Contains(t, fieldNames(errs), "status")

	errs = validation.ValidateUpdateApproachRequest(validation.UpdateApproachRequest{
		Status:     "selected",
		Resolution: "merge_roles",
	})
	assert.Contains(t, fieldNames(errs), "resolution")

	errs = validation.ValidateUpdateApproachRequest(validation.UpdateApproachRequest{
		Status:     "selected",
		Resolution: "create_subrole",
	})
	assert.Empty(t, errs)
}

func TestValidateUpdateMemberRequest(t *testing.T) {
	errs := validation.ValidateUpdateMemberRequest(validation.UpdateMemberRequest{})
	assert.Contains(t, fieldNames(errs), "role")

	role := "Designer"
	errs = validation.ValidateUpdateMemberRequest(validation.UpdateMemberRequest{Role: &role})
	assert.Empty(t, errs)

	isLead := true
	errs = validation.ValidateUpdateMemberRequest(validation.UpdateMemberRequest{IsLead: &isLead})
	assert.Empty(t, errs)

	empty := "  "
	errs = validation.ValidateUpdateMemberRequest(validation.UpdateMemberRequest{Role: &empty})
	assert.Contains(t, fieldNames(errs), "role")
}

func TestValidateAddSubroleRequest(t *testing.T) {
	errs := validation.ValidateAddSubroleRequest(validation.AddSubroleRequest{
		UserID: "7b8a1a2e-3c4d-4e5f-8a9b-0c1d2e3f4a5b",
		Role:   "Junior Designer",
	})
	assert.Empty(t, errs)

	errs = validation.ValidateAddSubroleRequest(validation.AddSubroleRequest{
		UserID: "not-a-uuid",
		Role:   "",
	})
	names := fieldNames(errs)
	assert.Contains(t, names, "userId")
	assert.Contains(t, names, "role")
}

func TestValidateRegisterUserRequest(t *testing.T) {
	errs := validation.ValidateRegisterUserRequest(validation.RegisterUserRequest{DisplayName: "Dana"})
	assert.Empty(t, errs)

	errs = validation.ValidateRegisterUserRequest(validation.RegisterUserRequest{DisplayName: ""})
	assert.Contains(t, fieldNames(errs), "displayName")

	errs = validation.ValidateRegisterUserRequest(validation.RegisterUserRequest{
		DisplayName: strings.Repeat("n", 101),
	})
	assert.Contains(t, fieldNames(errs), "displayName")
}
