package directory

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

// ErrUserNotFound is returned when no user matches the given id.
var ErrUserNotFound = errors.New("user not found")

// UserRef is the public projection of a platform user, used to enrich
// team-structure and candidate responses.
type UserRef struct {
	ID          uuid.UUID
	DisplayName string
	AvatarURL   string
}

// Directory resolves user ids to display information. Read-only.
type Directory interface {
	Resolve(ctx context.Context, userID uuid.UUID) (*UserRef, error)
	// Search finds users whose display name matches the query, capped at
	// limit results.
	Search(ctx context.Context, query string, limit int) ([]UserRef, error)
}
