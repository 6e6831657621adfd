package registry

import "errors"

// Common errors returned by the registry clients.
var (
	// ErrNotFound indicates the registry has no record for the identifier.
	ErrNotFound = errors.New("identifier not found in registry")

	// ErrNetwork indicates a transport-level failure reaching the registry.
	// Callers treat it like a rejection for control flow, but it is kept
	// distinct for diagnostics.
	ErrNetwork = errors.New("network error communicating with registry")

	// ErrInvalidResponse indicates the registry answered with something
	// that could not be interpreted as a record.
	ErrInvalidResponse = errors.New("invalid response from registry")
)

// IsNotFound returns true if the error indicates a definitive rejection.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsNetwork returns true if the error indicates a transport failure rather
// than a definitive rejection.
func IsNetwork(err error) bool {
	return errors.Is(err, ErrNetwork)
}
