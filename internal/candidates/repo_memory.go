package candidates

import (
	"context"
	"sync"
	"time"

	"screening-backend/internal/scoring"
)

// MemoryRepo is an in-memory implementation of CandidatesRepo.
type MemoryRepo struct {
	mu   sync.RWMutex
	data map[string]Profile
}

// NewMemoryRepo constructs a MemoryRepo.
func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{data: make(map[string]Profile)}
}

// Create stores a new profile.
func (r *MemoryRepo) Create(ctx context.Context, p Profile) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.data[p.ID] = clone(p)
	return nil
}

// GetByID returns a profile by ID.
func (r *MemoryRepo) GetByID(ctx context.Context, id string) (Profile, error) {
	if err := ctx.Err(); err != nil {
		return Profile{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.data[id]
	if !ok {
		return Profile{}, ErrNotFound
	}
	return clone(p), nil
}

// ListByJob returns all profiles for a job in submission order.
func (r *MemoryRepo) ListByJob(ctx context.Context, jobID string) ([]Profile, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []Profile
	for _, p := range r.data {
		if p.JobID == jobID {
			out = append(out, clone(p))
		}
	}
	return out, nil
}

// SetScoreStatus moves the score lifecycle marker.
func (r *MemoryRepo) SetScoreStatus(ctx context.Context, id, scoreStatus string, updatedAt time.Time) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.data[id]
	if !ok {
		return ErrNotFound
	}
	p.ScoreStatus = scoreStatus
	p.UpdatedAt = updatedAt
	r.data[id] = p
	return nil
}

// UpdateScore replaces the breakdown and derived fields atomically.
func (r *MemoryRepo) UpdateScore(ctx context.Context, id string, bd scoring.Breakdown, updatedAt time.Time) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.data[id]
	if !ok {
		return ErrNotFound
	}
	copied := bd
	p.Breakdown = &copied
	p.TotalScore = bd.TotalScore
	p.Grade = bd.Grade
	p.ScoreStatus = ScoreScored
	p.UpdatedAt = updatedAt
	r.data[id] = p
	return nil
}

// UpdateProfile applies the collaborator patch and returns the result.
func (r *MemoryRepo) UpdateProfile(ctx context.Context, id string, patch ProfilePatch, updatedAt time.Time) (Profile, error) {
	if err := ctx.Err(); err != nil {
		return Profile{}, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.data[id]
	if !ok {
		return Profile{}, ErrNotFound
	}
	if patch.Status != nil {
		p.Status = *patch.Status
	}
	if patch.Tags != nil {
		p.Tags = append([]string(nil), (*patch.Tags)...)
	}
	if patch.Notes != nil {
		p.Notes = *patch.Notes
	}
	p.UpdatedAt = updatedAt
	r.data[id] = p
	return clone(p), nil
}

func clone(p Profile) Profile {
	out := p
	if p.Answers != nil {
		out.Answers = make(map[string]string, len(p.Answers))
		for k, v := range p.Answers {
			out.Answers[k] = v
		}
	}
	out.Tags = append([]string(nil), p.Tags...)
	if p.Breakdown != nil {
		bd := *p.Breakdown
		out.Breakdown = &bd
	}
	return out
}

var _ CandidatesRepo = (*MemoryRepo)(nil)
