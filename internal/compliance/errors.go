package compliance

import "errors"

var (
	// ErrInvalidDomain is returned when the provided domain is empty or malformed
	ErrInvalidDomain = errors.New("invalid domain for policy page discovery")
	// ErrNoPolicyPage is returned when no terms or policy page could be found
	ErrNoPolicyPage = errors.New("no policy page found")
	// ErrClientInit is returned when the fetching client cannot be created
	ErrClientInit = errors.New("failed to initialize fetch client")
)
