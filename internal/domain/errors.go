package domain

import "errors"

// Domain errors (для бизнес-логики)
var (
	// Validation errors
	ErrInvalidIdentifier   = errors.New("invalid identifier")
	ErrUnsupportedCIStatus = errors.New("unsupported ci status")

	// PR errors
	ErrPRNotFound    = errors.New("pull request not found")
	ErrNoPRForCommit = errors.New("no pull request associated with commit")
)
