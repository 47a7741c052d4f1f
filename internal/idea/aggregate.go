package idea

import (
	"time"

	"github.com/google/uuid"
)

// ActiveMembers returns the currently active team members, main roles and
// subroles alike. The author is an implicit member and never appears here.
func (i *Idea) ActiveMembers() []*TeamMember {
	var active []*TeamMember
	for idx := range i.TeamComposition {
		if i.TeamComposition[idx].Status == MemberActive {
			active = append(active, &i.TeamComposition[idx])
		}
	}
	return active
}

// CurrentTeamSize is the number of active team members.
func (i *Idea) CurrentTeamSize() int {
	return len(i.ActiveMembers())
}

// FindMember locates a team member by id regardless of status.
func (i *Idea) FindMember(id uuid.UUID) (*TeamMember, error) {
	for idx := range i.TeamComposition {
		if i.TeamComposition[idx].ID == id {
			return &i.TeamComposition[idx], nil
		}
	}
	return nil, ErrMemberNotFound
}

// FindActiveMemberByRole returns the first active member holding the given
// normalized role, or nil.
func (i *Idea) FindActiveMemberByRole(normalizedRole string) *TeamMember {
	for idx := range i.TeamComposition {
		m := &i.TeamComposition[idx]
		if m.Status == MemberActive && m.NormalizedRoleType == normalizedRole {
			return m
		}
	}
	return nil
}

// FindRoleNeeded returns the needed-role entry for a normalized role type,
// or nil if the role was never declared.
func (i *Idea) FindRoleNeeded(normalizedRole string) *RoleNeeded {
	for idx := range i.RolesNeeded {
		if i.RolesNeeded[idx].NormalizedRoleType == normalizedRole {
			return &i.RolesNeeded[idx]
		}
	}
	return nil
}

// FindApproach locates an approach by id.
func (i *Idea) FindApproach(id uuid.UUID) (*Approach, error) {
	for idx := range i.Approaches {
		if i.Approaches[idx].ID == id {
			return &i.Approaches[idx], nil
		}
	}
	return nil, ErrApproachNotFound
}

// AddRoleNeeded declares a new role slot. The normalized type must be unique
// within the idea.
func (i *Idea) AddRoleNeeded(r RoleNeeded) (*RoleNeeded, error) {
	r.NormalizedRoleType = NormalizeRole(r.RoleType)
	if i.FindRoleNeeded(r.NormalizedRoleType) != nil {
		return nil, ErrDuplicateRole
	}
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	if r.MaxPositions < 1 {
		r.MaxPositions = 1
	}
	if r.Priority < PriorityCritical || r.Priority > PriorityNiceToHave {
		r.Priority = PriorityImportant
	}
	i.RolesNeeded = append(i.RolesNeeded, r)
	entry := &i.RolesNeeded[len(i.RolesNeeded)-1]
	i.reconcilePositions()
	return entry, nil
}

// RemoveRoleNeeded deletes a declared role slot. Removal is blocked while
// active members still occupy the role.
func (i *Idea) RemoveRoleNeeded(roleID uuid.UUID) error {
	for idx := range i.RolesNeeded {
		if i.RolesNeeded[idx].ID != roleID {
			continue
		}
		if i.countActiveByRole(i.RolesNeeded[idx].NormalizedRoleType) > 0 {
			return ErrRoleOccupied
		}
		i.RolesNeeded = append(i.RolesNeeded[:idx], i.RolesNeeded[idx+1:]...)
		return nil
	}
	return ErrRoleNotFound
}

// AddMember assigns a user to a main role. Role bookkeeping and completion
// are recomputed; no RoleNeeded entry is created for ad hoc roles.
func (i *Idea) AddMember(userID uuid.UUID, role string, assignedBy uuid.UUID, now time.Time) *TeamMember {
	m := TeamMember{
		ID:                 uuid.New(),
		UserID:             userID,
		AssignedRole:       role,
		RoleType:           role,
		NormalizedRoleType: NormalizeRole(role),
		AssignedAt:         now,
		AssignedBy:         assignedBy,
		Status:             MemberActive,
	}
	i.TeamComposition = append(i.TeamComposition, m)
	i.reconcilePositions()
	i.RecomputeCompletion(now)
	return &i.TeamComposition[len(i.TeamComposition)-1]
}

// AddSubrole attaches a subrole member under an existing active main-role
// member. Nesting deeper than one level is rejected.
func (i *Idea) AddSubrole(parentID, userID uuid.UUID, role string, assignedBy uuid.UUID, now time.Time) (*TeamMember, error) {
	parent, err := i.FindMember(parentID)
	if err != nil {
		return nil, err
	}
	if parent.Status != MemberActive {
		return nil, ErrMemberNotFound
	}
	if parent.IsSubrole() {
		return nil, ErrSubroleDepth
	}
	m := TeamMember{
		ID:                 uuid.New(),
		UserID:             userID,
		AssignedRole:       role,
		RoleType:           role,
		NormalizedRoleType: NormalizeRole(role),
		ParentRoleID:       &parent.ID,
		AssignedAt:         now,
		AssignedBy:         assignedBy,
		Status:             MemberActive,
	}
	i.TeamComposition = append(i.TeamComposition, m)
	i.reconcilePositions()
	i.RecomputeCompletion(now)
	return &i.TeamComposition[len(i.TeamComposition)-1], nil
}

// RemoveMember soft-removes an active member and cascades to its subroles.
func (i *Idea) RemoveMember(memberID uuid.UUID, now time.Time) error {
	m, err := i.FindMember(memberID)
	if err != nil {
		return err
	}
	if m.Status != MemberActive {
		return ErrMemberNotFound
	}
	m.Status = MemberRemoved
	for idx := range i.TeamComposition {
		sub := &i.TeamComposition[idx]
		if sub.Status == MemberActive && sub.ParentRoleID != nil && *sub.ParentRoleID == memberID {
			sub.Status = MemberRemoved
		}
	}
	i.reconcilePositions()
	i.RecomputeCompletion(now)
	return nil
}

// RenameMemberRole changes the role held by an active member. The new role
// must not already be held by another active member.
func (i *Idea) RenameMemberRole(memberID uuid.UUID, newRole string, now time.Time) error {
	m, err := i.FindMember(memberID)
	if err != nil {
		return err
	}
	if m.Status != MemberActive {
		return ErrMemberNotFound
	}
	normalized := NormalizeRole(newRole)
	if holder := i.FindActiveMemberByRole(normalized); holder != nil && holder.ID != m.ID {
		return ErrDuplicateRole
	}
	m.AssignedRole = newRole
	m.RoleType = newRole
	m.NormalizedRoleType = normalized
	i.reconcilePositions()
	i.RecomputeCompletion(now)
	return nil
}

// Subroles returns the active subroles attached to a member.
func (i *Idea) Subroles(memberID uuid.UUID) []*TeamMember {
	var subs []*TeamMember
	for idx := range i.TeamComposition {
		m := &i.TeamComposition[idx]
		if m.Status == MemberActive && m.ParentRoleID != nil && *m.ParentRoleID == memberID {
			subs = append(subs, m)
		}
	}
	return subs
}

// RecomputeCompletion re-derives IsTeamComplete from the declared role
// slots. The first time the team completes, TeamFormationDate is stamped;
// it marks "first completed", not "currently complete", and is never
// cleared by later removals.
func (i *Idea) RecomputeCompletion(now time.Time) {
	var current, max int
	for idx := range i.RolesNeeded {
		current += i.RolesNeeded[idx].CurrentPositions
		max += i.RolesNeeded[idx].MaxPositions
	}
	i.IsTeamComplete = max > 0 && current >= max
	if i.IsTeamComplete && i.TeamFormationDate == nil {
		stamp := now
		i.TeamFormationDate = &stamp
	}
}

// Metrics derives the team completeness summary.
func (i *Idea) Metrics() TeamMetrics {
	var current, max, coreFilled, coreTotal int
	for idx := range i.RolesNeeded {
		r := &i.RolesNeeded[idx]
		current += r.CurrentPositions
		max += r.MaxPositions
		if r.IsCore {
			coreTotal++
			if r.CurrentPositions >= r.MaxPositions {
				coreFilled++
			}
		}
	}
	pct := 0
	if max > 0 {
		pct = current * 100 / max
	}
	open := max - current
	if open < 0 {
		open = 0
	}
	return TeamMetrics{
		MaxTeamSize:          i.MaxTeamSize,
		CurrentSize:          i.CurrentTeamSize(),
		OpenPositions:        open,
		CompletionPercentage: pct,
		CoreRolesFilled:      coreFilled,
		TotalCoreRoles:       coreTotal,
	}
}

// CheckPositionInvariant reports whether every needed-role entry's
// CurrentPositions matches the count of active members holding that role.
func (i *Idea) CheckPositionInvariant() bool {
	for idx := range i.RolesNeeded {
		r := &i.RolesNeeded[idx]
		if r.CurrentPositions != i.countActiveByRole(r.NormalizedRoleType) {
			return false
		}
	}
	return true
}

func (i *Idea) countActiveByRole(normalizedRole string) int {
	count := 0
	for idx := range i.TeamComposition {
		m := &i.TeamComposition[idx]
		if m.Status == MemberActive && m.NormalizedRoleType == normalizedRole {
			count++
		}
	}
	return count
}

// reconcilePositions recounts CurrentPositions for every declared role from
// the active membership. Counting instead of incrementing keeps the
// position invariant true by construction across cascaded removals.
func (i *Idea) reconcilePositions() {
	for idx := range i.RolesNeeded {
		r := &i.RolesNeeded[idx]
		r.CurrentPositions = i.countActiveByRole(r.NormalizedRoleType)
	}
}
