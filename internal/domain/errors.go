package domain

import "errors"

// Error taxonomy for the analysis pipeline. Only ErrEmptyInput (and
// unexpected internal failures) ever reach the caller; data-availability and
// solver-deadline degradations are recovered locally and surfaced through
// synthetic flags instead.
var (
	// ErrEmptyInput marks an empty or whitespace-only narrative. Surfaced
	// to the caller before any data fetch happens.
	ErrEmptyInput = errors.New("input text is empty")

	// ErrDataUnavailable marks an exhausted market/news fetch. Recovered
	// via synthetic fallback, never a top-level failure.
	ErrDataUnavailable = errors.New("market data unavailable")

	// ErrOptimizationTimeout marks an exact solver that ran out of budget.
	// Recovered by switching to the approximate solver.
	ErrOptimizationTimeout = errors.New("optimization deadline exceeded")

	// ErrScrapeFailed marks a URL input whose page could not be fetched or
	// yielded no readable text. Surfaced to the caller as a bad request.
	ErrScrapeFailed = errors.New("could not extract text from url")
)
