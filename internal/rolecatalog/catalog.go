package rolecatalog

import (
	"context"
	"errors"
)

// ErrDefinitionNotFound is returned when no catalog entry matches a name.
var ErrDefinitionNotFound = errors.New("role definition not found")

// Catalog resolves role names to canonical definitions. Lookups are
// read-only and idempotent; callers may retry them freely. The suggestion
// service treats any Catalog failure as a miss and falls back to its
// deterministic pattern table.
type Catalog interface {
	// FindByName resolves a role by normalized name, checking canonical
	// names first and alternative names second.
	FindByName(ctx context.Context, name string) (*RoleDefinition, error)
	// FindSimilar returns definitions whose names textually resemble the
	// given name, best match first.
	FindSimilar(ctx context.Context, name string) ([]RoleDefinition, error)
	// SubrolesOf returns the common subroles of a role, optionally narrowed
	// to a project category. An empty category applies no narrowing.
	SubrolesOf(ctx context.Context, name, category string) ([]Subrole, error)
}
