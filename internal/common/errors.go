package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound = errors.New("not found")

	// Resource errors. Both abort the current request and are surfaced
	// as service unavailable.
	ErrPoolUnavailable  = errors.New("connection pool unavailable")
	ErrStoreUnavailable = errors.New("store unavailable")

	// Configuration errors.
	ErrMissingDSN = errors.New("database DSN is not set")
)
