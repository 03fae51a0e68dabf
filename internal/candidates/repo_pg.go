package candidates

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"screening-backend/internal/scoring"
)

// PGRepo implements CandidatesRepo using Postgres.
type PGRepo struct {
	DB *sql.DB
}

const candidateColumns = `id, job_id, name, email, phone, resume_reference, resume_text, parsing_failed,
answers, tags, notes, status, score_status, total_score, grade, breakdown,
submitted_at, created_at, updated_at`

// Create inserts a new profile.
func (r *PGRepo) Create(ctx context.Context, p Profile) error {
	const query = `
INSERT INTO candidates (` + candidateColumns + `)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19)`

	answers, err := json.Marshal(orEmptyMap(p.Answers))
	if err != nil {
		return err
	}
	tags, err := json.Marshal(orEmptySlice(p.Tags))
	if err != nil {
		return err
	}
	var breakdown []byte
	if p.Breakdown != nil {
		if breakdown, err = json.Marshal(p.Breakdown); err != nil {
			return err
		}
	}

	_, err = r.DB.ExecContext(ctx, query,
		p.ID, p.JobID, p.Name, p.Email, p.Phone, p.ResumeReference, p.ResumeText, p.ParsingFailed,
		answers, tags, p.Notes, p.Status, p.ScoreStatus, p.TotalScore, p.Grade, nullableBytes(breakdown),
		p.SubmittedAt, p.CreatedAt, p.UpdatedAt,
	)
	return err
}

// GetByID fetches a profile by ID.
func (r *PGRepo) GetByID(ctx context.Context, id string) (Profile, error) {
	const query = `
SELECT ` + candidateColumns + `
FROM candidates
WHERE id = $1`

	p, err := scanProfile(r.DB.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Profile{}, ErrNotFound
		}
		return Profile{}, err
	}
	return p, nil
}

// ListByJob returns all profiles for a job, oldest submission first.
func (r *PGRepo) ListByJob(ctx context.Context, jobID string) ([]Profile, error) {
	const query = `
SELECT ` + candidateColumns + `
FROM candidates
WHERE job_id = $1
ORDER BY submitted_at ASC, id`

	rows, err := r.DB.QueryContext(ctx, query, jobID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Profile
	for rows.Next() {
		p, err := scanProfile(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// SetScoreStatus moves the score lifecycle marker.
func (r *PGRepo) SetScoreStatus(ctx context.Context, id, scoreStatus string, updatedAt time.Time) error {
	const query = `
UPDATE candidates
SET score_status = $1, updated_at = $2
WHERE id = $3`

	res, err := r.DB.ExecContext(ctx, query, scoreStatus, updatedAt, id)
	if err != nil {
		return err
	}
	return requireRow(res)
}

// UpdateScore replaces the breakdown and derived fields in one statement.
func (r *PGRepo) UpdateScore(ctx context.Context, id string, bd scoring.Breakdown, updatedAt time.Time) error {
	const query = `
UPDATE candidates
SET total_score = $1, grade = $2, breakdown = $3, score_status = $4, updated_at = $5
WHERE id = $6`

	breakdown, err := json.Marshal(bd)
	if err != nil {
		return err
	}
	res, err := r.DB.ExecContext(ctx, query, bd.TotalScore, bd.Grade, breakdown, ScoreScored, updatedAt, id)
	if err != nil {
		return err
	}
	return requireRow(res)
}

// UpdateProfile applies the collaborator patch and returns the result.
func (r *PGRepo) UpdateProfile(ctx context.Context, id string, patch ProfilePatch, updatedAt time.Time) (Profile, error) {
	const query = `
UPDATE candidates
SET status = COALESCE($1, status),
    tags = COALESCE($2, tags),
    notes = COALESCE($3, notes),
    updated_at = $4
WHERE id = $5`

	var status sql.NullString
	if patch.Status != nil {
		status = sql.NullString{String: *patch.Status, Valid: true}
	}
	var tags []byte
	if patch.Tags != nil {
		var err error
		if tags, err = json.Marshal(orEmptySlice(*patch.Tags)); err != nil {
			return Profile{}, err
		}
	}
	var notes sql.NullString
	if patch.Notes != nil {
		notes = sql.NullString{String: *patch.Notes, Valid: true}
	}

	res, err := r.DB.ExecContext(ctx, query, status, nullableBytes(tags), notes, updatedAt, id)
	if err != nil {
		return Profile{}, err
	}
	if err := requireRow(res); err != nil {
		return Profile{}, err
	}
	return r.GetByID(ctx, id)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProfile(row rowScanner) (Profile, error) {
	var p Profile
	var answers, tags, breakdown []byte
	err := row.Scan(
		&p.ID, &p.JobID, &p.Name, &p.Email, &p.Phone, &p.ResumeReference, &p.ResumeText, &p.ParsingFailed,
		&answers, &tags, &p.Notes, &p.Status, &p.ScoreStatus, &p.TotalScore, &p.Grade, &breakdown,
		&p.SubmittedAt, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return Profile{}, err
	}
	if len(answers) > 0 {
		if err := json.Unmarshal(answers, &p.Answers); err != nil {
			return Profile{}, err
		}
	}
	if len(tags) > 0 {
		if err := json.Unmarshal(tags, &p.Tags); err != nil {
			return Profile{}, err
		}
	}
	if len(breakdown) > 0 {
		var bd scoring.Breakdown
		if err := json.Unmarshal(breakdown, &bd); err != nil {
			return Profile{}, err
		}
		p.Breakdown = &bd
	}
	return p, nil
}

func requireRow(res sql.Result) error {
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

func nullableBytes(b []byte) any {
	if len(b) == 0 {
		return nil
	}
	return b
}

func orEmptyMap(m map[string]string) map[string]string {
	if m == nil {
		return map[string]string{}
	}
	return m
}

func orEmptySlice(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

var _ CandidatesRepo = (*PGRepo)(nil)
