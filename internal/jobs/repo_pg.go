package jobs

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
)

// PGRepo implements JobsRepo using Postgres.
type PGRepo struct {
	DB *sql.DB
}

// Create inserts a new requirement. Skills are stored as JSONB.
func (r *PGRepo) Create(ctx context.Context, job Requirement) error {
	const query = `
INSERT INTO jobs (id, title, description, required_skills, created_at)
VALUES ($1, $2, $3, $4, $5)`

	skills, err := json.Marshal(job.RequiredSkills)
	if err != nil {
		return err
	}
	_, err = r.DB.ExecContext(ctx, query, job.ID, job.Title, job.Description, skills, job.CreatedAt)
	return err
}

// GetByID fetches a requirement by ID.
func (r *PGRepo) GetByID(ctx context.Context, id string) (Requirement, error) {
	const query = `
SELECT id, title, description, required_skills, created_at
FROM jobs
WHERE id = $1`

	var job Requirement
	var skills []byte
	err := r.DB.QueryRowContext(ctx, query, id).Scan(
		&job.ID,
		&job.Title,
		&job.Description,
		&skills,
		&job.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Requirement{}, ErrNotFound
		}
		return Requirement{}, err
	}
	if len(skills) > 0 {
		if err := json.Unmarshal(skills, &job.RequiredSkills); err != nil {
			return Requirement{}, err
		}
	}
	return job, nil
}

// List returns requirements newest-first.
func (r *PGRepo) List(ctx context.Context, limit, offset int) ([]Requirement, error) {
	if limit <= 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}
	const query = `
SELECT id, title, description, required_skills, created_at
FROM jobs
ORDER BY created_at DESC, id
LIMIT $1 OFFSET $2`

	rows, err := r.DB.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Requirement
	for rows.Next() {
		var job Requirement
		var skills []byte
		if err := rows.Scan(&job.ID, &job.Title, &job.Description, &skills, &job.CreatedAt); err != nil {
			return nil, err
		}
		if len(skills) > 0 {
			if err := json.Unmarshal(skills, &job.RequiredSkills); err != nil {
				return nil, err
			}
		}
		out = append(out, job)
	}
	return out, rows.Err()
}

var _ JobsRepo = (*PGRepo)(nil)
