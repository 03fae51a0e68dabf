package candidates

import "errors"

var (
	ErrNotFound     = errors.New("candidate not found")
	ErrInvalidInput = errors.New("invalid input")
	ErrInvariant    = errors.New("scoring invariant violation")
)
