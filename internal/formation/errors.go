package formation

import "errors"

// ErrPermissionDenied is returned when the actor lacks the capability for a
// team-management action.
var ErrPermissionDenied = errors.New("permission denied")

// ErrUnknownResolution is returned when a resolution tag cannot be parsed.
var ErrUnknownResolution = errors.New("unknown resolution strategy")

// ErrSubroleCollision is returned when a create-subrole resolution picks a
// name that still collides with an active member's role.
var ErrSubroleCollision = errors.New("subrole name collides with an existing role")
