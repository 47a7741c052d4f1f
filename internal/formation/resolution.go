package formation

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/ideahub/ideahub/internal/idea"
)

// Resolution is a closed set of strategies for resolving a role conflict.
// Each variant carries only the fields its strategy needs, so a missing
// field is a compile-time impossibility rather than a runtime surprise.
type Resolution interface {
	Tag() string
	isResolution()
}

// CreateSubrole adds the candidate under the conflicting member with a
// distinct role name. An empty SubroleName defaults to "Senior <Role>".
type CreateSubrole struct {
	SubroleName string
}

// ReplaceExisting soft-removes the current role holder (cascading its
// subroles) and assigns the candidate into the same role.
type ReplaceExisting struct{}

// ExpandCapacity raises the role's MaxPositions by one and adds the
// candidate as an ordinary member.
type ExpandCapacity struct{}

// Decline rejects the approach with no structural team change.
type Decline struct{}

func (CreateSubrole) Tag() string   { return "create_subrole" }
func (ReplaceExisting) Tag() string { return "replace_existing" }
func (ExpandCapacity) Tag() string  { return "expand_capacity" }
func (Decline) Tag() string         { return "decline" }

func (CreateSubrole) isResolution()   {}
func (ReplaceExisting) isResolution() {}
func (ExpandCapacity) isResolution()  {}
func (Decline) isResolution()         {}

// ParseResolution maps a wire tag to a Resolution value.
func ParseResolution(tag, subroleName string) (Resolution, error) {
	switch tag {
	case "create_subrole":
		return CreateSubrole{SubroleName: subroleName}, nil
	case "replace_existing":
		return ReplaceExisting{}, nil
	case "expand_capacity":
		return ExpandCapacity{}, nil
	case "decline":
		return Decline{}, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownResolution, tag)
}

// applyResolution mutates the aggregate according to the chosen strategy.
// The approach must still be open (pending or queued); every non-decline
// strategy marks it selected. Returns whether the outcome is a selection.
func applyResolution(ag *idea.Idea, approach *idea.Approach, res Resolution, actorID uuid.UUID, now time.Time) (bool, error) {
	if approach.Status != idea.ApproachPending && approach.Status != idea.ApproachQueued {
		return false, idea.ErrInvalidTransition
	}

	switch r := res.(type) {
	case Decline:
		stampApproach(approach, idea.ApproachDeclined, actorID, now)
		return false, nil

	case CreateSubrole:
		holder := ag.FindActiveMemberByRole(idea.NormalizeRole(approach.Role))
		if holder == nil {
			return false, idea.ErrMemberNotFound
		}
		name := r.SubroleName
		if name == "" {
			name = "Senior " + approach.Role
		}
		if ag.FindActiveMemberByRole(idea.NormalizeRole(name)) != nil {
			return false, ErrSubroleCollision
		}
		if _, err := ag.AddSubrole(holder.ID, approach.UserID, name, actorID, now); err != nil {
			return false, err
		}
		stampApproach(approach, idea.ApproachSelected, actorID, now)
		return true, nil

	case ReplaceExisting:
		holder := ag.FindActiveMemberByRole(idea.NormalizeRole(approach.Role))
		if holder == nil {
			return false, idea.ErrMemberNotFound
		}
		if err := ag.RemoveMember(holder.ID, now); err != nil {
			return false, err
		}
		ag.AddMember(approach.UserID, approach.Role, actorID, now)
		stampApproach(approach, idea.ApproachSelected, actorID, now)
		return true, nil

	case ExpandCapacity:
		normalized := idea.NormalizeRole(approach.Role)
		if rn := ag.FindRoleNeeded(normalized); rn != nil {
			rn.MaxPositions++
		} else {
			_, err := ag.AddRoleNeeded(idea.RoleNeeded{
				RoleType:     approach.Role,
				MaxPositions: 2,
				Priority:     idea.PriorityImportant,
			})
			if err != nil {
				return false, err
			}
		}
		ag.AddMember(approach.UserID, approach.Role, actorID, now)
		stampApproach(approach, idea.ApproachSelected, actorID, now)
		return true, nil
	}

	return false, fmt.Errorf("%w: %T", ErrUnknownResolution, res)
}

func stampApproach(a *idea.Approach, status idea.ApproachStatus, actorID uuid.UUID, now time.Time) {
	a.Status = status
	a.StatusUpdatedAt = &now
	a.StatusUpdatedBy = &actorID
}
