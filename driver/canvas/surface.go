package canvasdriver

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"math"
	"strings"

	"github.com/tdewolff/canvas"
	"github.com/tdewolff/canvas/renderers/pdf"
	"github.com/tdewolff/canvas/renderers/ps"
	"github.com/tdewolff/canvas/renderers/rasterizer"
	"github.com/tdewolff/canvas/renderers/svg"

	"github.com/gphat/graphics-primitive-driver-cairo/scene"
)

// Format selects the output serialization of a surface.
type Format int

const (
	FormatPNG Format = iota
	FormatPDF
	FormatPS
	FormatSVG
)

// ParseFormat resolves a case-insensitive format name. Unknown names fail
// with ErrUnsupportedFormat.
func ParseFormat(name string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "png":
		return FormatPNG, nil
	case "pdf":
		return FormatPDF, nil
	case "ps", "postscript":
		return FormatPS, nil
	case "svg":
		return FormatSVG, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnsupportedFormat, name)
	}
}

// Paged reports whether the format requires page completion before its bytes
// are serialized, invalidating the drawing context afterwards.
func (f Format) Paged() bool { return f != FormatPNG }

func (f Format) String() string {
	switch f {
	case FormatPNG:
		return "png"
	case FormatPDF:
		return "pdf"
	case FormatPS:
		return "ps"
	case FormatSVG:
		return "svg"
	default:
		return "unknown"
	}
}

// frame is one level of the save/restore stack: a translation into the
// current component's coordinate space plus the active clip region in
// surface coordinates. A nil clip means unclipped.
type frame struct {
	dx, dy float64
	clip   *canvas.Path
}

// textRun is a pending text path awaiting the next fill.
type textRun struct {
	face *canvas.FontFace
	text string
	x, y float64 // baseline origin, local coordinates
}

// surface owns one drawable target and its drawing context. The accumulated
// path, current source and line style live here explicitly; nothing is
// package-global. Not safe for concurrent use.
type surface struct {
	format        Format
	width, height float64
	res           canvas.Resolution

	c   *canvas.Canvas
	ctx *canvas.Context

	frames []frame
	path   *canvas.Path // accumulated path, local coordinates
	runs   []textRun    // accumulated text paths, flushed by Fill

	srcColor    color.RGBA
	srcGradient canvas.Gradient // non-nil overrides srcColor

	lineWidth  float64
	capper     canvas.Capper
	joiner     canvas.Joiner
	dashOffset float64
	dashes     []float64
}

func newSurface(format Format, width, height float64, res canvas.Resolution) *surface {
	s := &surface{
		format: format,
		res:    res,
	}
	s.init(width, height)
	return s
}

func (s *surface) init(width, height float64) {
	s.width = width
	s.height = height
	s.c = canvas.New(width, height)
	s.ctx = canvas.NewContext(s.c)
	// keep the origin at the top-left like the component tree expects
	s.ctx.SetCoordSystem(canvas.CartesianIV)
	s.frames = []frame{{}}
	s.path = &canvas.Path{}
	s.runs = nil
	s.srcColor = color.RGBA{A: 255}
	s.srcGradient = nil
	s.lineWidth = 1.0
	s.capper = canvas.ButtCap
	s.joiner = canvas.MiterJoin
	s.dashOffset = 0
	s.dashes = nil
}

// Resize replaces the underlying target in place, preserving the surface's
// identity. Unchanged dimensions are a no-op.
func (s *surface) Resize(width, height float64) {
	if width == s.width && height == s.height {
		return
	}
	s.init(width, height)
}

func (s *surface) top() *frame { return &s.frames[len(s.frames)-1] }

// Save pushes a copy of the current coordinate frame and clip region.
func (s *surface) Save() {
	s.frames = append(s.frames, *s.top())
}

// Restore pops the frame pushed by the matching Save.
func (s *surface) Restore() {
	if len(s.frames) > 1 {
		s.frames = s.frames[:len(s.frames)-1]
	}
}

// Translate shifts the current frame's origin.
func (s *surface) Translate(x, y float64) {
	t := s.top()
	t.dx += x
	t.dy += y
}

// MoveTo starts a new subpath at (x,y).
func (s *surface) MoveTo(x, y float64) { s.path.MoveTo(x, y) }

// LineTo adds a line from the current position to (x,y).
func (s *surface) LineTo(x, y float64) { s.path.LineTo(x, y) }

// CurveTo adds a cubic Bézier to (x,y) with the given control points.
func (s *surface) CurveTo(cx1, cy1, cx2, cy2, x, y float64) {
	s.path.CubeTo(cx1, cy1, cx2, cy2, x, y)
}

// Arc adds a circular arc of radius r. Angles are radians; the sweep runs
// from theta0 to theta1, reversing direction when theta0 > theta1. The pen
// must already sit on the arc's start point, which fixes the center.
func (s *surface) Arc(r, theta0, theta1 float64) {
	const toDeg = 180.0 / math.Pi
	s.path.Arc(r, r, 0.0, theta0*toDeg, theta1*toDeg)
}

// Rectangle adds a closed rectangular subpath.
func (s *surface) Rectangle(x, y, w, h float64) {
	s.path.MoveTo(x, y)
	s.path.LineTo(x+w, y)
	s.path.LineTo(x+w, y+h)
	s.path.LineTo(x, y+h)
	s.path.Close()
}

// ClosePath closes the current subpath.
func (s *surface) ClosePath() { s.path.Close() }

// NewPath discards the accumulated path and pending text runs.
func (s *surface) NewPath() {
	s.path = &canvas.Path{}
	s.runs = nil
}

// Clip intersects the current clip region with the accumulated path and
// clears the path, Cairo-style.
func (s *surface) Clip() {
	if s.path.Empty() {
		return
	}
	abs := s.abs()
	t := s.top()
	if t.clip != nil {
		abs = abs.And(t.clip)
	}
	t.clip = abs
	s.path = &canvas.Path{}
}

// ClipRect clips to a rectangle in local coordinates. The rectangle is built
// on its own path so the accumulated path, possibly preserved from an earlier
// operation, is left alone.
func (s *surface) ClipRect(x, y, w, h float64) {
	p := &canvas.Path{}
	p.MoveTo(x, y)
	p.LineTo(x+w, y)
	p.LineTo(x+w, y+h)
	p.LineTo(x, y+h)
	p.Close()
	t := s.top()
	if t.dx != 0 || t.dy != 0 {
		p = p.Transform(canvas.Identity.Translate(t.dx, t.dy))
	}
	if t.clip != nil {
		p = p.And(t.clip)
	}
	t.clip = p
}

// SetColor sets the current source to a solid color.
func (s *surface) SetColor(c scene.Color) {
	s.srcColor = rgba(c)
	s.srcGradient = nil
}

// SetLinearGradient sets the current source to a linear gradient. The
// defining segment is given in local coordinates and anchored to the current
// frame so the paint lines up with the paths it fills.
func (s *surface) SetLinearGradient(g scene.LinearGradient) {
	t := s.top()
	lg := canvas.NewLinearGradient(
		canvas.Point{X: g.Start.X + t.dx, Y: g.Start.Y + t.dy},
		canvas.Point{X: g.End.X + t.dx, Y: g.End.Y + t.dy},
	)
	for _, stop := range g.Stops {
		lg.Add(stop.Offset, rgba(stop.Color))
	}
	s.srcGradient = lg
}

// SetLineWidth sets the stroke width.
func (s *surface) SetLineWidth(w float64) { s.lineWidth = w }

// SetLineCap sets the stroke cap style.
func (s *surface) SetLineCap(c scene.LineCap) {
	switch c {
	case scene.CapRound:
		s.capper = canvas.RoundCap
	case scene.CapSquare:
		s.capper = canvas.SquareCap
	default:
		s.capper = canvas.ButtCap
	}
}

// SetLineJoin sets the stroke join style.
func (s *surface) SetLineJoin(j scene.LineJoin) {
	switch j {
	case scene.JoinRound:
		s.joiner = canvas.RoundJoin
	case scene.JoinBevel:
		s.joiner = canvas.BevelJoin
	default:
		s.joiner = canvas.MiterJoin
	}
}

// SetDash sets the stroke dash pattern; nil or empty means solid.
func (s *surface) SetDash(offset float64, dashes []float64) {
	s.dashOffset = offset
	s.dashes = dashes
}

// TextPath appends a text run at the given baseline origin. Runs accumulate
// like path segments and are painted by the next Fill; there is no way to
// color individual runs differently within one fill.
func (s *surface) TextPath(face *canvas.FontFace, text string, x, y float64) {
	if text == "" {
		return
	}
	s.runs = append(s.runs, textRun{face: face, text: text, x: x, y: y})
}

// abs returns the accumulated path translated into surface coordinates.
func (s *surface) abs() *canvas.Path {
	t := s.top()
	if t.dx == 0 && t.dy == 0 {
		return s.path
	}
	return s.path.Transform(canvas.Identity.Translate(t.dx, t.dy))
}

// Fill paints the accumulated path and pending text runs with the current
// source. The path is cleared unless preserve is set.
func (s *surface) Fill(preserve bool) {
	s.flushText()
	if !s.path.Empty() {
		abs := s.abs()
		if clip := s.top().clip; clip != nil {
			abs = abs.And(clip)
		}
		s.applyFillSource()
		s.ctx.SetStrokeColor(color.RGBA{})
		s.ctx.DrawPath(0.0, 0.0, abs)
	}
	if !preserve {
		s.path = &canvas.Path{}
	}
}

// Stroke outlines the accumulated path with the current source and line
// style. The path is cleared unless preserve is set.
func (s *surface) Stroke(preserve bool) {
	if !s.path.Empty() {
		abs := s.abs()
		if clip := s.top().clip; clip != nil {
			// Flatten the stroke so the clip can be applied as a
			// region intersection.
			flat := abs
			if len(s.dashes) > 0 {
				flat = flat.Dash(s.dashOffset, s.dashes...)
			}
			flat = flat.Stroke(s.lineWidth, s.capper, s.joiner, canvas.Tolerance)
			s.applyFillSource()
			s.ctx.SetStrokeColor(color.RGBA{})
			s.ctx.DrawPath(0.0, 0.0, flat.And(clip))
		} else {
			s.ctx.SetFillColor(color.RGBA{})
			if s.srcGradient != nil {
				s.ctx.SetStrokeGradient(s.srcGradient)
			} else {
				s.ctx.SetStrokeColor(s.srcColor)
			}
			s.ctx.SetStrokeWidth(s.lineWidth)
			s.ctx.SetStrokeCapper(s.capper)
			s.ctx.SetStrokeJoiner(s.joiner)
			s.ctx.SetDashes(s.dashOffset, s.dashes...)
			s.ctx.DrawPath(0.0, 0.0, abs)
		}
	}
	if !preserve {
		s.path = &canvas.Path{}
	}
}

// PaintAll floods the surface, or the current clip region, with the source.
func (s *surface) PaintAll() {
	p := &canvas.Path{}
	p.MoveTo(0, 0)
	p.LineTo(s.width, 0)
	p.LineTo(s.width, s.height)
	p.LineTo(0, s.height)
	p.Close()
	if clip := s.top().clip; clip != nil {
		p = p.And(clip)
	}
	s.applyFillSource()
	s.ctx.SetStrokeColor(color.RGBA{})
	s.ctx.DrawPath(0.0, 0.0, p)
}

func (s *surface) applyFillSource() {
	if s.srcGradient != nil {
		s.ctx.SetFillGradient(s.srcGradient)
	} else {
		s.ctx.SetFillColor(s.srcColor)
	}
}

func (s *surface) flushText() {
	if len(s.runs) == 0 {
		return
	}
	t := s.top()
	for _, run := range s.runs {
		x, y := run.x+t.dx, run.y+t.dy
		if t.clip == nil {
			line := canvas.NewTextLine(run.face, run.text, canvas.Left)
			s.ctx.DrawText(x, y, line)
			continue
		}
		// Under a clip the run is drawn as glyph outlines so the clip can
		// be applied as a region intersection, like Fill and Stroke do.
		outline, _, err := run.face.ToPath(run.text)
		if err != nil || outline == nil {
			line := canvas.NewTextLine(run.face, run.text, canvas.Left)
			s.ctx.DrawText(x, y, line)
			continue
		}
		// glyph space has y up from the baseline; flip it into surface
		// coordinates at the baseline origin
		outline = outline.Transform(canvas.Identity.Translate(x, y).Scale(1, -1))
		outline = outline.And(t.clip)
		if outline.Empty() {
			continue
		}
		s.applyFillSource()
		s.ctx.SetStrokeColor(color.RGBA{})
		s.ctx.DrawPath(0.0, 0.0, outline)
	}
	s.runs = nil
}

// DrawImage paints a decoded image with its top-left corner at (x,y) in
// local coordinates, scaled by (sx,sy) document units per pixel. The
// placement is cropped against the current clip region; clips here are
// always rectangle intersections, so the region's bounds are exact.
func (s *surface) DrawImage(img image.Image, x, y, sx, sy float64) {
	t := s.top()
	x, y = x+t.dx, y+t.dy
	if t.clip != nil {
		b := img.Bounds()
		w := float64(b.Dx()) * sx
		h := float64(b.Dy()) * sy
		cb := t.clip.Bounds()
		x0 := math.Max(x, cb.X0)
		y0 := math.Max(y, cb.Y0)
		x1 := math.Min(x+w, cb.X1)
		y1 := math.Min(y+h, cb.Y1)
		if x1 <= x0 || y1 <= y0 {
			return
		}
		if x0 > x || y0 > y || x1 < x+w || y1 < y+h {
			sub, ok := img.(interface {
				SubImage(image.Rectangle) image.Image
			})
			if !ok {
				return
			}
			r := b
			r.Min.X += int(math.Floor((x0 - x) / sx))
			r.Min.Y += int(math.Floor((y0 - y) / sy))
			r.Max.X -= int(math.Floor((x + w - x1) / sx))
			r.Max.Y -= int(math.Floor((y + h - y1) / sy))
			img = sub.SubImage(r)
			x, y = x0, y0
		}
	}
	if sx == sy {
		s.ctx.DrawImage(x, y, img, canvas.DPMM(1.0/sx))
		return
	}
	s.ctx.Push()
	s.ctx.Translate(x, y)
	s.ctx.Scale(sx, sy)
	s.ctx.DrawImage(0.0, 0.0, img, canvas.DPMM(1.0))
	s.ctx.Pop()
}

// finish serializes the surface. Raster formats snapshot the current state;
// paged formats replay the retained drawing into the format writer and close
// it, completing the page.
func (s *surface) finish() ([]byte, error) {
	var buf bytes.Buffer
	switch s.format {
	case FormatPNG:
		img := rasterizer.Draw(s.c, s.res, canvas.DefaultColorSpace)
		if err := png.Encode(&buf, img); err != nil {
			return nil, fmt.Errorf("encode png: %w", err)
		}
	case FormatPDF:
		w := pdf.New(&buf, s.width, s.height, nil)
		s.c.RenderTo(w)
		if err := w.Close(); err != nil {
			return nil, fmt.Errorf("finalize pdf: %w", err)
		}
	case FormatPS:
		w := ps.New(&buf, s.width, s.height, nil)
		s.c.RenderTo(w)
		if err := w.Close(); err != nil {
			return nil, fmt.Errorf("finalize ps: %w", err)
		}
	case FormatSVG:
		w := svg.New(&buf, s.width, s.height, nil)
		s.c.RenderTo(w)
		if err := w.Close(); err != nil {
			return nil, fmt.Errorf("finalize svg: %w", err)
		}
	default:
		return nil, fmt.Errorf("%w: %v", ErrUnsupportedFormat, s.format)
	}
	return buf.Bytes(), nil
}

func rgba(c scene.Color) color.RGBA {
	return canvas.RGBA(c.R, c.G, c.B, c.A)
}
