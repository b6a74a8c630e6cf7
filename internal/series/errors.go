package series

import "errors"

// Errors returned by the resampling pipeline.
var (
	// ErrNonFiniteValue is returned when a NaN or Inf reaches the core.
	ErrNonFiniteValue = errors.New("non-finite value")

	// ErrUnorderedSeries is returned when input timestamps decrease or the
	// target grid is not strictly increasing.
	ErrUnorderedSeries = errors.New("series is not time-ordered")

	// ErrInvalidStep is returned for a non-positive grid step.
	ErrInvalidStep = errors.New("invalid grid step")

	// ErrEmptySeries is returned when a grid cannot be derived from an empty load series.
	ErrEmptySeries = errors.New("empty series")
)
