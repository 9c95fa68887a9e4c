package domain

import "errors"

var (
	// Common domain errors
	ErrNotFound             = errors.New("entity not found")
	ErrAlreadyExists        = errors.New("entity already exists")
	ErrInvalidArgument      = errors.New("invalid argument")
	ErrUnauthorized         = errors.New("unauthorized")
	ErrNoActiveSubscription = errors.New("no active subscription found")
	ErrAlreadyProcessed     = errors.New("payment already processed")
	ErrPlanLimitReached     = errors.New("plan limit reached")
	ErrNotConfigured        = errors.New("required configuration is missing")
	ErrInvalidCredentials   = errors.New("invalid email or password")

	// Storage-layer errors
	ErrOperationFailed    = errors.New("storage operation failed")
	ErrInvalidExecContext = errors.New("invalid execution context")
	ErrReadDatabaseRow    = errors.New("failed to read database row")
)
