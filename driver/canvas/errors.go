package canvasdriver

import "errors"

// Error kinds surfaced by the driver. All failures propagate synchronously;
// nothing is retried. A failed draw leaves the surface wherever the call
// stack had progressed; callers wanting atomicity discard the driver's
// surface with Reset and draw again.
var (
	// ErrUnsupportedFormat means the requested output kind has no backend.
	ErrUnsupportedFormat = errors.New("unsupported output format")

	// ErrUnsupportedPaint means a paint kind the resolver cannot build,
	// including radial gradients.
	ErrUnsupportedPaint = errors.New("unsupported paint")

	// ErrMissingComponent means surface creation was attempted with no
	// sizing information available.
	ErrMissingComponent = errors.New("no component to size surface from")
)
