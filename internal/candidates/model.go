package candidates

import (
	"time"

	"screening-backend/internal/scoring"
)

// Pipeline status for the hiring workflow.
const (
	StatusApplied            = "applied"
	StatusInterviewScheduled = "interview_scheduled"
	StatusRejected           = "rejected"
)

// Score lifecycle. Re-entry into scoring happens only via an explicit
// re-score request.
const (
	ScoreUnscored = "unscored"
	ScoreScoring  = "scoring"
	ScoreScored   = "scored"
)

// Profile is one candidate submission against a job requirement.
// Breakdown is replaced atomically: a profile either carries a complete
// breakdown or none.
type Profile struct {
	ID              string
	JobID           string
	Name            string
	Email           string
	Phone           string
	ResumeReference string
	ResumeText      string
	ParsingFailed   bool
	Answers         map[string]string
	Tags            []string
	Notes           string
	Status          string
	ScoreStatus     string
	TotalScore      int
	Grade           string
	Breakdown       *scoring.Breakdown
	SubmittedAt     time.Time
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// ValidStatus reports whether s is one of the pipeline statuses.
func ValidStatus(s string) bool {
	switch s {
	case StatusApplied, StatusInterviewScheduled, StatusRejected:
		return true
	}
	return false
}
