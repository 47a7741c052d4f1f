package idea

import (
	"context"

	"github.com/google/uuid"
)

// Repository provides persistence for the idea aggregate. The aggregate is a
// single consistency unit: Load returns the whole aggregate and Save writes
// it back atomically, guarded by the optimistic version token.
type Repository interface {
	Create(ctx context.Context, i *Idea) error
	Load(ctx context.Context, id uuid.UUID) (*Idea, error)
	// Save persists the aggregate and bumps its version. Returns
	// ErrVersionConflict when the stored version no longer matches.
	Save(ctx context.Context, i *Idea) error
	List(ctx context.Context, authorID *uuid.UUID) ([]Idea, error)
}
