package domain

import "errors"

// Sentinel errors used across layers.
var (
	ErrNotFound      = errors.New("not found")
	ErrAlreadyExists = errors.New("already exists")
	ErrNameRequired  = errors.New("name is required")
	ErrNoSteps       = errors.New("recipe has no steps")
	ErrNoMoreSteps   = errors.New("no more steps in recipe")
	ErrOutOfRange    = errors.New("step out of range")
)
