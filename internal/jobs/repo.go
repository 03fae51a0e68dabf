package jobs

import "context"

// JobsRepo defines persistence operations for job requirements.
type JobsRepo interface {
	Create(ctx context.Context, job Requirement) error
	GetByID(ctx context.Context, id string) (Requirement, error)
	List(ctx context.Context, limit, offset int) ([]Requirement, error)
}
