package domain

import "errors"

var (
	// Common domain errors
	ErrNotFound           = errors.New("entity not found")
	ErrAlreadyExists      = errors.New("entity already exists")
	ErrInvalidArgument    = errors.New("invalid argument")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrForbidden          = errors.New("operation not permitted")
	ErrUserBlocked        = errors.New("user is blocked")

	// Payment lifecycle errors
	ErrInvalidTransition  = errors.New("payment already in a terminal state")
	ErrGatewayUnavailable = errors.New("payment gateway unavailable")
	ErrInconsistentState  = errors.New("successful payment without entitlement")

	// Storage-layer errors
	ErrOperationFailed    = errors.New("storage operation failed")
	ErrReadDatabaseRow    = errors.New("failed to read database row")
	ErrInvalidExecContext = errors.New("invalid transaction context")
)
