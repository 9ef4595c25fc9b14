package vpp

import "errors"

// Package errors. The split matters for callers: configuration errors mark
// the filter permanently failed, per-frame errors drop a single frame, and
// extension errors only degrade quality.
var (
	// ErrNoBackendAvailable is returned when no registered backend reports
	// itself available and no explicit device was supplied.
	ErrNoBackendAvailable = errors.New("vpp: no backend available")

	// ErrNoVideoCapability is returned when the supplied device cannot
	// expose the video-capable interfaces. Fatal configuration error.
	ErrNoVideoCapability = errors.New("vpp: device lacks video processing capability")

	// ErrOddDimensions is returned when the negotiated input width or
	// height is odd. The hardware transform path requires even dimensions.
	// Fatal configuration error.
	ErrOddDimensions = errors.New("vpp: frame width and height must be even")

	// ErrFilterFailed is returned from operations on a filter that has
	// already been marked failed.
	ErrFilterFailed = errors.New("vpp: filter is in failed state")

	// ErrAllocationFailed is returned when the surface pool cannot
	// allocate an output surface. Per-frame recoverable.
	ErrAllocationFailed = errors.New("vpp: surface allocation failed")

	// ErrProcessorUnavailable is returned when the video processor could
	// not be created for the current dimensions. Per-frame recoverable.
	ErrProcessorUnavailable = errors.New("vpp: video processor unavailable")

	// ErrNoFrame is returned when the reference queue has no frame ready.
	ErrNoFrame = errors.New("vpp: no frame available")

	// ErrPoolClosed is returned when acquiring from a closed surface pool.
	ErrPoolClosed = errors.New("vpp: surface pool is closed")
)
