package formation

import (
	"fmt"

	"github.com/ideahub/ideahub/internal/idea"
)

// ConflictType classifies a role conflict.
type ConflictType string

const (
	// ConflictExact means an active member already holds the same
	// normalized role.
	ConflictExact ConflictType = "exact"
	// ConflictCapacity means the declared role slot is already full.
	ConflictCapacity ConflictType = "capacity"
)

// Conflict describes whether assigning a candidate to a role collides with
// the current team state. It is ordinary data, never an error: the caller
// chooses a resolution.
type Conflict struct {
	HasConflict    bool
	Type           ConflictType
	ExistingMember *idea.TeamMember
	RoleNeeded     *idea.RoleNeeded
	Message        string
}

// CheckRoleConflict is a pure read over the aggregate. An active member with
// the same normalized role wins over a full role slot; an undeclared,
// unoccupied role never conflicts.
func CheckRoleConflict(ag *idea.Idea, requestedRole string) Conflict {
	normalized := idea.NormalizeRole(requestedRole)

	if member := ag.FindActiveMemberByRole(normalized); member != nil {
		return Conflict{
			HasConflict:    true,
			Type:           ConflictExact,
			ExistingMember: member,
			RoleNeeded:     ag.FindRoleNeeded(normalized),
			Message:        fmt.Sprintf("the role %q is already held by an active team member", requestedRole),
		}
	}

	if rn := ag.FindRoleNeeded(normalized); rn != nil && rn.CurrentPositions >= rn.MaxPositions {
		return Conflict{
			HasConflict: true,
			Type:        ConflictCapacity,
			RoleNeeded:  rn,
			Message:     fmt.Sprintf("all %d position(s) for %q are filled", rn.MaxPositions, rn.RoleType),
		}
	}

	return Conflict{}
}
