package auth

import (
	"time"

	"github.com/google/uuid"
)

// User represents a row in the users table. The same table backs the
// identity directory; auth owns the credential columns.
type User struct {
	ID           uuid.UUID
	DisplayName  string
	AvatarURL    *string
	ApiKeyPrefix string
	ApiKeyHash   string
	CreatedAt    time.Time
	RevokedAt    *time.Time
}

// Identity is stored in the request context after authentication.
type Identity struct {
	UserID      uuid.UUID
	DisplayName string
}
