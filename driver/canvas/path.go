package canvasdriver

import (
	"fmt"

	"github.com/gphat/graphics-primitive-driver-cairo/scene"
)

// renderState carries the preserve optimization between consecutive path
// renders on the same canvas. When an operation requests preserve, the
// primitives it drew stay on the surface's accumulated path, and the next
// render resumes after them instead of replaying. A fresh state starts every
// canvas, keeping the renderer reentrant across components.
type renderState struct {
	preserved int
}

// renderPath emits the path's primitives from the resume index onward,
// resolves the operation's paint, and fills or strokes. The result must be
// pixel-identical whether or not the preserve optimization kicked in.
func renderPath(s *surface, st *renderState, p *scene.Path, op scene.Operation) error {
	if p == nil || op == nil {
		return nil
	}
	prims := p.Primitives
	if st.preserved > len(prims) {
		st.preserved = len(prims)
	}
	for _, prim := range prims[st.preserved:] {
		emitPrimitive(s, prim)
	}

	var preserve bool
	switch o := op.(type) {
	case scene.Fill:
		if err := resolvePaint(s, o.Paint); err != nil {
			return err
		}
		s.Fill(o.Preserve)
		preserve = o.Preserve
	case scene.Stroke:
		if err := resolvePaint(s, o.Paint); err != nil {
			return err
		}
		s.SetLineWidth(o.Width)
		s.SetLineCap(o.Cap)
		s.SetLineJoin(o.Join)
		s.SetDash(0, o.Dash)
		s.Stroke(o.Preserve)
		s.SetDash(0, nil)
		preserve = o.Preserve
	default:
		return fmt.Errorf("unsupported drawing operation %T", op)
	}

	if preserve {
		st.preserved = len(prims)
	} else {
		st.preserved = 0
	}
	return nil
}

func emitPrimitive(s *surface, prim scene.Primitive) {
	switch p := prim.(type) {
	case scene.Rectangle:
		// always its own subpath, like cairo_rectangle
		s.Rectangle(p.Origin.X, p.Origin.Y, p.W, p.H)
		return
	case scene.Line:
		moveToStart(s, prim)
		s.LineTo(p.To.X, p.To.Y)
	case scene.Arc:
		moveToStart(s, prim)
		s.Arc(p.Radius, p.StartAngle, p.EndAngle)
	case scene.Bezier:
		moveToStart(s, prim)
		s.CurveTo(p.Control1.X, p.Control1.Y, p.Control2.X, p.Control2.Y, p.To.X, p.To.Y)
	case scene.Polygon:
		if len(p.Points) == 0 {
			return
		}
		moveToStart(s, prim)
		for _, pt := range p.Points[1:] {
			s.LineTo(pt.X, pt.Y)
		}
		s.ClosePath()
	}
}

func moveToStart(s *surface, prim scene.Primitive) {
	if !prim.Contiguous() {
		start := prim.Start()
		s.MoveTo(start.X, start.Y)
	}
}
