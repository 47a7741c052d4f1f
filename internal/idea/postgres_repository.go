package idea

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresRepository implements Repository using pgxpool. Child collections
// (roles_needed, team_members, approaches) are rewritten inside the same
// transaction that bumps the version row, so a stale save never partially
// applies.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a new Repository backed by the given connection pool.
func NewRepository(pool *pgxpool.Pool) Repository {
	return &PostgresRepository{pool: pool}
}

// Create inserts a new idea aggregate at version 1.
func (r *PostgresRepository) Create(ctx context.Context, i *Idea) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	query := `
		INSERT INTO ideas (author_id, title, description, category, is_team_complete, max_team_size, version)
		VALUES ($1, $2, $3, $4, FALSE, $5, 1)
		RETURNING id, version, created_at, updated_at`

	err = tx.QueryRow(ctx, query, i.AuthorID, i.Title, i.Description, i.Category, i.MaxTeamSize).
		Scan(&i.ID, &i.Version, &i.CreatedAt, &i.UpdatedAt)
	if err != nil {
		return fmt.Errorf("inserting idea: %w", err)
	}

	if err := r.writeChildren(ctx, tx, i); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("committing idea: %w", err)
	}
	return nil
}

// Load fetches the whole aggregate by id.
func (r *PostgresRepository) Load(ctx context.Context, id uuid.UUID) (*Idea, error) {
	var i Idea
	query := `
		SELECT id, author_id, title, description, category, is_team_complete,
		       team_formation_date, max_team_size, version, created_at, updated_at
		FROM ideas
		WHERE id = $1`

	err := r.pool.QueryRow(ctx, query, id).Scan(
		&i.ID, &i.AuthorID, &i.Title, &i.Description, &i.Category, &i.IsTeamComplete,
		&i.TeamFormationDate, &i.MaxTeamSize, &i.Version, &i.CreatedAt, &i.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrIdeaNotFound
		}
		return nil, fmt.Errorf("querying idea: %w", err)
	}

	if err := r.loadChildren(ctx, &i); err != nil {
		return nil, err
	}
	return &i, nil
}

// Save rewrites the aggregate, guarded by the version token. The version row
// update runs first; zero rows affected means a concurrent writer won.
func (r *PostgresRepository) Save(ctx context.Context, i *Idea) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	query := `
		UPDATE ideas
		SET title = $1, description = $2, category = $3, is_team_complete = $4,
		    team_formation_date = $5, max_team_size = $6, version = version + 1,
		    updated_at = NOW()
		WHERE id = $7 AND version = $8
		RETURNING version, updated_at`

	err = tx.QueryRow(ctx, query,
		i.Title, i.Description, i.Category, i.IsTeamComplete,
		i.TeamFormationDate, i.MaxTeamSize, i.ID, i.Version).
		Scan(&i.Version, &i.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			// Either the idea is gone or the version is stale.
			var exists bool
			if checkErr := r.pool.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM ideas WHERE id = $1)`, i.ID).Scan(&exists); checkErr == nil && !exists {
				return ErrIdeaNotFound
			}
			return ErrVersionConflict
		}
		return fmt.Errorf("updating idea: %w", err)
	}

	for _, del := range []string{
		`DELETE FROM idea_roles_needed WHERE idea_id = $1`,
		`DELETE FROM idea_team_members WHERE idea_id = $1`,
		`DELETE FROM idea_approaches WHERE idea_id = $1`,
	} {
		if _, err := tx.Exec(ctx, del, i.ID); err != nil {
			return fmt.Errorf("clearing idea children: %w", err)
		}
	}

	if err := r.writeChildren(ctx, tx, i); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("committing idea: %w", err)
	}
	return nil
}

// List retrieves idea aggregates, optionally filtered by author, newest first.
// Child collections are loaded per row; listings are small.
func (r *PostgresRepository) List(ctx context.Context, authorID *uuid.UUID) ([]Idea, error) {
	query := `
		SELECT id, author_id, title, description, category, is_team_complete,
		       team_formation_date, max_team_size, version, created_at, updated_at
		FROM ideas`
	args := []any{}
	if authorID != nil {
		query += ` WHERE author_id = $1`
		args = append(args, *authorID)
	}
	query += ` ORDER BY created_at DESC`

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing ideas: %w", err)
	}
	defer rows.Close()

	var ideas []Idea
	for rows.Next() {
		var i Idea
		err := rows.Scan(
			&i.ID, &i.AuthorID, &i.Title, &i.Description, &i.Category, &i.IsTeamComplete,
			&i.TeamFormationDate, &i.MaxTeamSize, &i.Version, &i.CreatedAt, &i.UpdatedAt)
		if err != nil {
			return nil, fmt.Errorf("scanning idea row: %w", err)
		}
		ideas = append(ideas, i)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating idea rows: %w", err)
	}

	for idx := range ideas {
		if err := r.loadChildren(ctx, &ideas[idx]); err != nil {
			return nil, err
		}
	}

	if ideas == nil {
		ideas = []Idea{}
	}
	return ideas, nil
}

func (r *PostgresRepository) writeChildren(ctx context.Context, tx pgx.Tx, i *Idea) error {
	for idx := range i.RolesNeeded {
		rn := &i.RolesNeeded[idx]
		_, err := tx.Exec(ctx, `
			INSERT INTO idea_roles_needed
				(id, idea_id, role_type, normalized_role_type, is_core, max_positions,
				 current_positions, priority, skills_required, description)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
			rn.ID, i.ID, rn.RoleType, rn.NormalizedRoleType, rn.IsCore, rn.MaxPositions,
			rn.CurrentPositions, rn.Priority, rn.SkillsRequired, rn.Description)
		if err != nil {
			return fmt.Errorf("inserting role needed: %w", err)
		}
	}

	for idx := range i.TeamComposition {
		m := &i.TeamComposition[idx]
		_, err := tx.Exec(ctx, `
			INSERT INTO idea_team_members
				(id, idea_id, user_id, assigned_role, role_type, normalized_role_type,
				 is_lead, parent_role_id, assigned_at, assigned_by, status)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
			m.ID, i.ID, m.UserID, m.AssignedRole, m.RoleType, m.NormalizedRoleType,
			m.IsLead, m.ParentRoleID, m.AssignedAt, m.AssignedBy, m.Status)
		if err != nil {
			return fmt.Errorf("inserting team member: %w", err)
		}
	}

	for idx := range i.Approaches {
		a := &i.Approaches[idx]
		_, err := tx.Exec(ctx, `
			INSERT INTO idea_approaches
				(id, idea_id, user_id, role, description, status,
				 status_updated_at, status_updated_by, created_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
			a.ID, i.ID, a.UserID, a.Role, a.Description, a.Status,
			a.StatusUpdatedAt, a.StatusUpdatedBy, a.CreatedAt)
		if err != nil {
			return fmt.Errorf("inserting approach: %w", err)
		}
	}
	return nil
}

func (r *PostgresRepository) loadChildren(ctx context.Context, i *Idea) error {
	rows, err := r.pool.Query(ctx, `
		SELECT id, role_type, normalized_role_type, is_core, max_positions,
		       current_positions, priority, skills_required, description
		FROM idea_roles_needed
		WHERE idea_id = $1
		ORDER BY priority ASC, role_type ASC`, i.ID)
	if err != nil {
		return fmt.Errorf("querying roles needed: %w", err)
	}
	for rows.Next() {
		var rn RoleNeeded
		err := rows.Scan(&rn.ID, &rn.RoleType, &rn.NormalizedRoleType, &rn.IsCore,
			&rn.MaxPositions, &rn.CurrentPositions, &rn.Priority, &rn.SkillsRequired, &rn.Description)
		if err != nil {
			rows.Close()
			return fmt.Errorf("scanning role needed: %w", err)
		}
		i.RolesNeeded = append(i.RolesNeeded, rn)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterating roles needed: %w", err)
	}

	rows, err = r.pool.Query(ctx, `
		SELECT id, user_id, assigned_role, role_type, normalized_role_type,
		       is_lead, parent_role_id, assigned_at, assigned_by, status
		FROM idea_team_members
		WHERE idea_id = $1
		ORDER BY assigned_at ASC`, i.ID)
	if err != nil {
		return fmt.Errorf("querying team members: %w", err)
	}
	for rows.Next() {
		var m TeamMember
		err := rows.Scan(&m.ID, &m.UserID, &m.AssignedRole, &m.RoleType, &m.NormalizedRoleType,
			&m.IsLead, &m.ParentRoleID, &m.AssignedAt, &m.AssignedBy, &m.Status)
		if err != nil {
			rows.Close()
			return fmt.Errorf("scanning team member: %w", err)
		}
		i.TeamComposition = append(i.TeamComposition, m)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterating team members: %w", err)
	}

	rows, err = r.pool.Query(ctx, `
		SELECT id, user_id, role, description, status, status_updated_at, status_updated_by, created_at
		FROM idea_approaches
		WHERE idea_id = $1
		ORDER BY created_at ASC`, i.ID)
	if err != nil {
		return fmt.Errorf("querying approaches: %w", err)
	}
	for rows.Next() {
		var a Approach
		err := rows.Scan(&a.ID, &a.UserID, &a.Role, &a.Description, &a.Status,
			&a.StatusUpdatedAt, &a.StatusUpdatedBy, &a.CreatedAt)
		if err != nil {
			rows.Close()
			return fmt.Errorf("scanning approach: %w", err)
		}
		i.Approaches = append(i.Approaches, a)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterating approaches: %w", err)
	}

	return nil
}
