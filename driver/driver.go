// Package driver defines the backend-agnostic drawing driver interface.
package driver

import "github.com/gphat/graphics-primitive-driver-cairo/scene"

// Driver draws component trees onto a surface and serializes the result.
// Implementations are not safe for concurrent use: the underlying drawing
// context carries mutable path, source and transform state.
type Driver interface {
	// Draw renders a component and, recursively, its children. The surface
	// is created lazily on the first call, sized to that component.
	Draw(c *scene.Component) error

	// Data serializes the surface to bytes. Paged formats complete the page
	// first and invalidate the drawing context; raster formats snapshot.
	Data() ([]byte, error)

	// Write serializes like Data and writes the bytes to a file.
	Write(path string) error

	// Reset discards the drawing context so the next Draw recreates it.
	// Measurement caches survive.
	Reset()

	// TextBoundingBox measures text. It returns the control box (visual
	// extent after rotating by angle radians) and the content box (the
	// unrotated extent); with angle 0 the two are identical.
	TextBoundingBox(font scene.Font, text string, angle float64) (control, content scene.Rect, err error)
}
