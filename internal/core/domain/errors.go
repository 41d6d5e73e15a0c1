package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrCacheMiss indicates the response cache has no entry for the key.
	ErrCacheMiss = errors.New("cache miss")

	// ErrUnknownFramework indicates a query carries an unrecognised
	// framework tag. Fatal at load time, never discovered mid-run.
	ErrUnknownFramework = errors.New("unknown framework tag")

	// ErrMissingCredentials indicates a selected provider lacks the
	// credentials it requires. Fatal at startup.
	ErrMissingCredentials = errors.New("missing provider credentials")

	// ErrUnknownProvider indicates a configured provider name has no
	// registered adapter. Fatal at startup.
	ErrUnknownProvider = errors.New("unknown provider")

	// ErrInsufficientData indicates aggregation was asked to rank an
	// empty record set.
	ErrInsufficientData = errors.New("insufficient data for aggregation")

	// ErrRateLimited indicates an API rate limit was exceeded.
	ErrRateLimited = errors.New("rate limited")

	// ErrProviderUnavailable indicates a provider call failed
	// (network, auth, timeout, malformed response). Recovered at the
	// runner boundary, never propagated to the orchestrator.
	ErrProviderUnavailable = errors.New("provider unavailable")
)
