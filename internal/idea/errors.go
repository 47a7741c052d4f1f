package idea

import "errors"

// ErrIdeaNotFound is returned when an idea record is not found.
var ErrIdeaNotFound = errors.New("idea not found")

// ErrApproachNotFound is returned when an approach does not exist on the idea.
var ErrApproachNotFound = errors.New("approach not found")

// ErrMemberNotFound is returned when a team member does not exist or is no
// longer active on the idea.
var ErrMemberNotFound = errors.New("team member not found")

// ErrRoleNotFound is returned when a needed-role entry does not exist.
var ErrRoleNotFound = errors.New("role not found")

// ErrDuplicateRole is returned when a needed-role entry with the same
// normalized role type already exists.
var ErrDuplicateRole = errors.New("role already declared")

// ErrRoleOccupied is returned when removing a needed-role entry that still
// has active members assigned to it.
var ErrRoleOccupied = errors.New("role has active members")

// ErrInvalidTransition is returned for an illegal approach status change.
var ErrInvalidTransition = errors.New("invalid approach status transition")

// ErrSubroleDepth is returned when a subrole would be attached to another
// subrole. The hierarchy is capped at one level.
var ErrSubroleDepth = errors.New("subroles cannot have subroles")

// ErrVersionConflict is returned when saving an aggregate whose version is
// stale. The caller should reload and retry.
var ErrVersionConflict = errors.New("idea was modified concurrently")
