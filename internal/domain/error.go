package domain

import "errors"

var (
	// Common domain errors
	ErrNotFound        = errors.New("entity not found")
	ErrAlreadyExists   = errors.New("entity already exists")
	ErrValidation      = errors.New("invalid or missing input")
	ErrInvalidState    = errors.New("illegal state transition")
	ErrNoInventory     = errors.New("no available account for platform")
	ErrAccountRetired  = errors.New("account is retired")
	ErrAccountAssigned = errors.New("account is already assigned")

	// Infrastructure-reported errors
	ErrOperationFailed    = errors.New("operation failed")
	ErrInvalidExecContext = errors.New("invalid executor context")
	ErrReadDatabaseRow    = errors.New("failed to read database row")
)
