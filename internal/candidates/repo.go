package candidates

import (
	"context"
	"time"

	"screening-backend/internal/scoring"
)

// ProfilePatch carries the mutable collaborator fields. Nil means
// leave unchanged.
type ProfilePatch struct {
	Status *string
	Tags   *[]string
	Notes  *string
}

// CandidatesRepo defines persistence operations for candidate profiles.
type CandidatesRepo interface {
	Create(ctx context.Context, p Profile) error
	GetByID(ctx context.Context, id string) (Profile, error)
	ListByJob(ctx context.Context, jobID string) ([]Profile, error)
	SetScoreStatus(ctx context.Context, id, scoreStatus string, updatedAt time.Time) error
	UpdateScore(ctx context.Context, id string, bd scoring.Breakdown, updatedAt time.Time) error
	UpdateProfile(ctx context.Context, id string, patch ProfilePatch, updatedAt time.Time) (Profile, error)
}
