package jobs

import "time"

// Requirement is one open position candidates apply against. Once
// created it is immutable: rescoring against a stable requirement is
// what makes scores comparable over time.
type Requirement struct {
	ID             string
	Title          string
	Description    string
	RequiredSkills []string
	CreatedAt      time.Time
}
