package errs

import "errors"

// Failure taxonomy for the recommendation pipeline. Services wrap these with
// stage context via fmt.Errorf("...: %w", ...); handlers map them to HTTP
// statuses. The pipeline never downgrades a failure into a partial result.
var (
	// ErrInvalidProfile marks rejected profile input (empty summary, missing
	// required fields).
	ErrInvalidProfile = errors.New("invalid profile")
	// ErrProfileNotFound marks a lookup miss for a profile id.
	ErrProfileNotFound = errors.New("profile not found")
	// ErrAnalysisUnavailable marks an LLM analysis failure or timeout.
	ErrAnalysisUnavailable = errors.New("analysis unavailable")
	// ErrCorpusUnavailable marks a course corpus (vector search) failure or
	// timeout.
	ErrCorpusUnavailable = errors.New("corpus unavailable")
	// ErrConfiguration marks missing credentials or connection settings.
	ErrConfiguration = errors.New("configuration error")
)
