package shared

import "fmt"

var (
	ErrNotImplemented = fmt.Errorf("not implemented")

	// Configuration errors
	ErrMissingConfig  = fmt.Errorf("configuration not found")
	ErrInvalidConfig  = fmt.Errorf("invalid configuration")
	ErrInvalidProfile = fmt.Errorf("invalid style profile")

	// Discovery and pipeline errors
	ErrSourceUnavailable  = fmt.Errorf("source unavailable")
	ErrMalformedCandidate = fmt.Errorf("malformed candidate")
	ErrMissingCredentials = fmt.Errorf("missing credentials")
	ErrTimeout            = fmt.Errorf("operation timed out")

	// API and persistence errors
	ErrAPIRequest        = fmt.Errorf("API request failed")
	ErrCandidateNotFound = fmt.Errorf("candidate not found")
	ErrPlaylistNotFound  = fmt.Errorf("playlist not found")

	// Input validation errors
	ErrInvalidInput    = fmt.Errorf("invalid input")
	ErrMissingArgument = fmt.Errorf("missing required argument")
	ErrInvalidFlag     = fmt.Errorf("invalid flag value")
)
