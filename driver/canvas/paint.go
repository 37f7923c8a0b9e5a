package canvasdriver

import (
	"fmt"

	"github.com/gphat/graphics-primitive-driver-cairo/scene"
)

// resolvePaint configures the surface's current source from an abstract
// paint. Radial gradients are modeled but not rendered yet; they and any
// unrecognized paint kind fail with ErrUnsupportedPaint.
func resolvePaint(s *surface, p scene.Paint) error {
	switch p := p.(type) {
	case scene.Solid:
		s.SetColor(p.Color)
	case scene.LinearGradient:
		s.SetLinearGradient(p)
	case scene.RadialGradient:
		return fmt.Errorf("%w: radial gradient", ErrUnsupportedPaint)
	default:
		return fmt.Errorf("%w: %T", ErrUnsupportedPaint, p)
	}
	return nil
}
