package jobs

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Service contains business logic for job requirements.
type Service struct {
	Repo JobsRepo
}

// Create validates and persists a new requirement. When no explicit
// skill list is given, skills are derived from the description.
func (s *Service) Create(ctx context.Context, title, description string, skills []string) (Requirement, error) {
	title = strings.TrimSpace(title)
	description = strings.TrimSpace(description)
	if title == "" || description == "" {
		return Requirement{}, ErrInvalidInput
	}

	job := Requirement{
		ID:             uuid.NewString(),
		Title:          title,
		Description:    description,
		RequiredSkills: DeriveSkills(description, skills),
		CreatedAt:      time.Now().UTC(),
	}
	if err := s.Repo.Create(ctx, job); err != nil {
		return Requirement{}, err
	}
	return job, nil
}

// Get returns a requirement by ID.
func (s *Service) Get(ctx context.Context, id string) (Requirement, error) {
	if strings.TrimSpace(id) == "" {
		return Requirement{}, ErrInvalidInput
	}
	return s.Repo.GetByID(ctx, id)
}

// List returns requirements newest-first.
func (s *Service) List(ctx context.Context, limit, offset int) ([]Requirement, error) {
	return s.Repo.List(ctx, limit, offset)
}
