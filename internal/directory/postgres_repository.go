package directory

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresDirectory implements Directory over the users table.
type PostgresDirectory struct {
	pool *pgxpool.Pool
}

// NewPostgresDirectory creates a Directory backed by the given pool.
func NewPostgresDirectory(pool *pgxpool.Pool) *PostgresDirectory {
	return &PostgresDirectory{pool: pool}
}

// Resolve fetches display information for a single user.
func (d *PostgresDirectory) Resolve(ctx context.Context, userID uuid.UUID) (*UserRef, error) {
	query := `
		SELECT id, display_name, COALESCE(avatar_url, '')
		FROM users
		WHERE id = $1`

	var u UserRef
	err := d.pool.QueryRow(ctx, query, userID).Scan(&u.ID, &u.DisplayName, &u.AvatarURL)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("querying user: %w", err)
	}
	return &u, nil
}

// Search finds users by display name, case-insensitive partial match.
func (d *PostgresDirectory) Search(ctx context.Context, query string, limit int) ([]UserRef, error) {
	if limit <= 0 || limit > 50 {
		limit = 20
	}

	rows, err := d.pool.Query(ctx, `
		SELECT id, display_name, COALESCE(avatar_url, '')
		FROM users
		WHERE display_name ILIKE '%' || $1 || '%'
		ORDER BY display_name ASC
		LIMIT $2`, query, limit)
	if err != nil {
		return nil, fmt.Errorf("searching users: %w", err)
	}
	defer rows.Close()

	var users []UserRef
	for rows.Next() {
		var u UserRef
		if err := rows.Scan(&u.ID, &u.DisplayName, &u.AvatarURL); err != nil {
			return nil, fmt.Errorf("scanning user row: %w", err)
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating user rows: %w", err)
	}

	if users == nil {
		users = []UserRef{}
	}
	return users, nil
}
