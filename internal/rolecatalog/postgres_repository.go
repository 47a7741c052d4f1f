package rolecatalog

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresCatalog implements Catalog over the role_definitions table.
// Subroles are stored as JSONB; name lists as text arrays.
type PostgresCatalog struct {
	pool *pgxpool.Pool
}

// NewPostgresCatalog creates a Catalog backed by the given connection pool.
func NewPostgresCatalog(pool *pgxpool.Pool) *PostgresCatalog {
	return &PostgresCatalog{pool: pool}
}

const defColumns = `
	canonical_name, normalized_name, category, is_core, parent_role,
	common_subroles, required_skills, similar_roles, alternative_names, usage_count`

// FindByName resolves a role by normalized name, canonical names first,
// alternative names second.
func (c *PostgresCatalog) FindByName(ctx context.Context, name string) (*RoleDefinition, error) {
	key := normalize(name)

	query := `SELECT` + defColumns + `
		FROM role_definitions
		WHERE normalized_name = $1`
	def, err := c.scanOne(c.pool.QueryRow(ctx, query, key))
	if err == nil {
		return def, nil
	}
	if !errors.Is(err, ErrDefinitionNotFound) {
		return nil, err
	}

	query = `SELECT` + defColumns + `
		FROM role_definitions
		WHERE $1 = ANY(alternative_names)
		ORDER BY usage_count DESC
		LIMIT 1`
	return c.scanOne(c.pool.QueryRow(ctx, query, key))
}

// FindSimilar returns definitions whose canonical name resembles the given
// name or that list it among similar roles, most used first.
func (c *PostgresCatalog) FindSimilar(ctx context.Context, name string) ([]RoleDefinition, error) {
	key := normalize(name)

	query := `SELECT` + defColumns + `
		FROM role_definitions
		WHERE normalized_name LIKE '%' || $1 || '%'
		   OR $1 LIKE '%' || normalized_name || '%'
		   OR $2 = ANY(similar_roles)
		ORDER BY usage_count DESC, canonical_name ASC`

	rows, err := c.pool.Query(ctx, query, key, name)
	if err != nil {
		return nil, fmt.Errorf("querying similar roles: %w", err)
	}
	defer rows.Close()

	var defs []RoleDefinition
	for rows.Next() {
		def, err := c.scanOne(rows)
		if err != nil {
			return nil, err
		}
		defs = append(defs, *def)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating role definitions: %w", err)
	}
	return defs, nil
}

// SubrolesOf returns the common subroles of a role and bumps its usage
// counter. When a category is given, matching subroles sort first.
func (c *PostgresCatalog) SubrolesOf(ctx context.Context, name, category string) ([]Subrole, error) {
	def, err := c.FindByName(ctx, name)
	if err != nil {
		return nil, err
	}

	// Usage tracking is best effort; a failed bump never fails the lookup.
	_, _ = c.pool.Exec(ctx,
		`UPDATE role_definitions SET usage_count = usage_count + 1 WHERE normalized_name = $1`,
		def.NormalizedName)

	subs := def.CommonSubroles
	if category != "" {
		subs = orderByCategory(subs, category)
	}
	return subs, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func (c *PostgresCatalog) scanOne(row rowScanner) (*RoleDefinition, error) {
	var def RoleDefinition
	err := row.Scan(
		&def.CanonicalName, &def.NormalizedName, &def.Category, &def.IsCore, &def.ParentRole,
		&def.CommonSubroles, &def.RequiredSkills, &def.SimilarRoles, &def.AlternativeNames, &def.UsageCount)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrDefinitionNotFound
		}
		return nil, fmt.Errorf("scanning role definition: %w", err)
	}
	return &def, nil
}

func orderByCategory(subs []Subrole, category string) []Subrole {
	cat := normalize(category)
	ordered := make([]Subrole, 0, len(subs))
	var rest []Subrole
	for _, s := range subs {
		if strings.Contains(normalize(s.Name), cat) {
			ordered = append(ordered, s)
		} else {
			rest = append(rest, s)
		}
	}
	return append(ordered, rest...)
}
