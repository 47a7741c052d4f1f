package idea

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// ApproachStatus is the lifecycle state of a candidate's application.
type ApproachStatus string

const (
	ApproachPending  ApproachStatus = "pending"
	ApproachSelected ApproachStatus = "selected"
	ApproachDeclined ApproachStatus = "declined"
	ApproachQueued   ApproachStatus = "queued"
)

// MemberStatus is the lifecycle state of a team member. Members are never
// hard-deleted; removal flips the status and cascades to subroles.
type MemberStatus string

const (
	MemberActive  MemberStatus = "active"
	MemberRemoved MemberStatus = "removed"
)

// Role priority levels.
const (
	PriorityCritical   = 1
	PriorityImportant  = 2
	PriorityNiceToHave = 3
)

// Idea is the aggregate root for a posted project idea and its team.
// Version is the optimistic concurrency token; Save rejects stale writes.
type Idea struct {
	ID                uuid.UUID
	AuthorID          uuid.UUID
	Title             string
	Description       string
	Category          string
	RolesNeeded       []RoleNeeded
	TeamComposition   []TeamMember
	Approaches        []Approach
	IsTeamComplete    bool
	TeamFormationDate *time.Time // stamped the first time the team completes, never cleared
	MaxTeamSize       int
	Version           int64
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// RoleNeeded is a role slot declared by the idea author.
// NormalizedRoleType is the conflict key; RoleType is the display form.
type RoleNeeded struct {
	ID                 uuid.UUID
	RoleType           string
	NormalizedRoleType string
	IsCore             bool
	MaxPositions       int
	CurrentPositions   int
	Priority           int
	SkillsRequired     []string
	Description        string
}

// TeamMember is a filled position on the team. ParentRoleID references
// another member in the same aggregate; the hierarchy is at most one
// level deep (a subrole cannot itself have subroles).
type TeamMember struct {
	ID                 uuid.UUID
	UserID             uuid.UUID
	AssignedRole       string
	RoleType           string
	NormalizedRoleType string
	IsLead             bool
	ParentRoleID       *uuid.UUID
	AssignedAt         time.Time
	AssignedBy         uuid.UUID
	Status             MemberStatus
}

// IsSubrole reports whether the member occupies a subrole.
func (m *TeamMember) IsSubrole() bool {
	return m.ParentRoleID != nil
}

// Approach is a candidate's application for a role. Approaches are an
// audit trail: they are never deleted, only their status changes.
type Approach struct {
	ID              uuid.UUID
	UserID          uuid.UUID
	Role            string
	Description     string
	Status          ApproachStatus
	StatusUpdatedAt *time.Time
	StatusUpdatedBy *uuid.UUID
	CreatedAt       time.Time
}

// CollaborationIntent is emitted when an approach is selected. A downstream
// collaborator turns it into a chat channel and a notification; the
// formation core only produces the value.
type CollaborationIntent struct {
	AuthorID    uuid.UUID
	CandidateID uuid.UUID
	IdeaID      uuid.UUID
	ApproachID  uuid.UUID
}

// TeamMetrics summarizes team completeness for an idea.
type TeamMetrics struct {
	MaxTeamSize          int
	CurrentSize          int
	OpenPositions        int
	CompletionPercentage int
	CoreRolesFilled      int
	TotalCoreRoles       int
}

// NormalizeRole canonicalizes a role name for conflict and lookup keys.
func NormalizeRole(role string) string {
	return strings.ToLower(strings.TrimSpace(role))
}

// CanTransition reports whether an approach may move from one status to
// another. Every decision is re-openable between selected, declined and
// queued, but nothing ever returns to pending, and a status cannot
// transition to itself.
func CanTransition(from, to ApproachStatus) bool {
	if from == to || to == ApproachPending {
		return false
	}
	switch from {
	case ApproachPending, ApproachSelected, ApproachDeclined, ApproachQueued:
		return to == ApproachSelected || to == ApproachDeclined || to == ApproachQueued
	}
	return false
}
