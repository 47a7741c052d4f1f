package formation_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ideahub/ideahub/internal/formation"
)

func TestEvaluate_AuthorOnlyActions(t *testing.T) {
	for _, action := range []formation.Action{
		formation.ActionManageRoles,
		formation.ActionManageApproaches,
		formation.ActionManageLeadership,
	} {
		assert.True(t, formation.Evaluate(action, formation.ActorAuthor, formation.ActorOutsider).Allowed,
			"author should be allowed %s", action)
		for _, actor := range []formation.ActorRole{formation.ActorLead, formation.ActorMember, formation.ActorOutsider} {
			d := formation.Evaluate(action, actor, formation.ActorOutsider)
			assert.False(t, d.Allowed, "%s should be denied %s", actor, action)
			assert.NotEmpty(t, d.Reason)
		}
	}
}

func TestEvaluate_RemoveMember(t *testing.T) {
	cases := []struct {
		name    string
		actor   formation.ActorRole
		target  formation.ActorRole
		allowed bool
	}{
		{"author removes member", formation.ActorAuthor, formation.ActorMember, true},
		{"author removes lead", formation.ActorAuthor, formation.ActorLead, true},
		{"lead removes member", formation.ActorLead, formation.ActorMember, true},
		{"lead removes lead", formation.ActorLead, formation.ActorLead, false},
		{"member removes member", formation.ActorMember, formation.ActorMember, false},
		{"outsider removes member", formation.ActorOutsider, formation.ActorMember, false},
		{"nobody removes author", formation.ActorAuthor, formation.ActorAuthor, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			d := formation.Evaluate(formation.ActionRemoveMember, tc.actor, tc.target)
			assert.Equal(t, tc.allowed, d.Allowed)
			if !tc.allowed {
				assert.NotEmpty(t, d.Reason)
			}
		})
	}
}

func TestEvaluate_ManageSubroles(t *testing.T) {
	assert.True(t, formation.Evaluate(formation.ActionManageSubroles, formation.ActorAuthor, formation.ActorOutsider).Allowed)
	assert.True(t, formation.Evaluate(formation.ActionManageSubroles, formation.ActorLead, formation.ActorOutsider).Allowed)
	assert.True(t, formation.Evaluate(formation.ActionManageSubroles, formation.ActorMember, formation.ActorOutsider).Allowed)
	assert.False(t, formation.Evaluate(formation.ActionManageSubroles, formation.ActorOutsider, formation.ActorOutsider).Allowed)
}

func TestEvaluate_UnknownAction(t *testing.T) {
	d := formation.Evaluate(formation.Action("destroy_everything"), formation.ActorAuthor, formation.ActorOutsider)
	assert.False(t, d.Allowed)
}
