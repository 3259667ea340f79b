// internal/domain/errors.go
package domain

import (
	"errors"
	"fmt"
)

var (
	// General errors
	ErrNotFound     = errors.New("not found")
	ErrInvalidInput = errors.New("invalid input")
	ErrConflict     = errors.New("conflict")
	ErrUnauthorized = errors.New("unauthorized")

	// Entity lookups
	ErrOrganizationNotFound = fmt.Errorf("organization %w", ErrNotFound)
	ErrProjectNotFound      = fmt.Errorf("project %w", ErrNotFound)
	ErrTaskNotFound         = fmt.Errorf("task %w", ErrNotFound)

	// Organization-related errors
	ErrSlugTaken = fmt.Errorf("organization slug already exists: %w", ErrConflict)

	// Status-related errors
	ErrInvalidStatus = fmt.Errorf("invalid status: %w", ErrInvalidInput)

	// Identity-related errors
	ErrMissingCaller = fmt.Errorf("caller identity required: %w", ErrUnauthorized)
)
