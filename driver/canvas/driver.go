// Package canvasdriver draws component trees through github.com/tdewolff/canvas,
// serializing to PNG, PDF, PostScript or SVG.
package canvasdriver

import (
	"fmt"
	"image"
	"math"
	"os"

	"github.com/tdewolff/canvas"

	"github.com/gphat/graphics-primitive-driver-cairo/driver"
	"github.com/gphat/graphics-primitive-driver-cairo/scene"
)

// Options configures a Driver.
type Options struct {
	// Format is the output kind: png, pdf, ps/postscript or svg
	// (case-insensitive).
	Format string

	// Width and Height size the surface explicitly. When zero the surface
	// is sized to the first component drawn.
	Width, Height float64

	// Fonts maps family names to font resources. Unknown families fall
	// back to the embedded Go fonts.
	Fonts map[string]Resource

	// Resolution is the raster resolution in pixels per document unit;
	// zero means one pixel per unit. Ignored by vector formats.
	Resolution float64

	// Background, when set, floods the surface on creation.
	Background *scene.Color
}

// Driver renders scene components onto a lazily created surface. One driver
// owns one surface and one measurement cache; it is not safe for concurrent
// use. The cache outlives the surface: Reset and paged serialization discard
// the drawing context but never the memoized measurements.
type Driver struct {
	format     Format
	width      float64
	height     float64
	res        canvas.Resolution
	background *scene.Color

	fonts *fontBook
	text  *typesetter
	surf  *surface
}

var _ driver.Driver = (*Driver)(nil)

// New creates a driver for the given output format.
func New(format string) (*Driver, error) {
	return NewWithOptions(Options{Format: format})
}

// NewWithOptions creates a driver. The format is validated immediately;
// everything else is deferred until the surface is first needed.
func NewWithOptions(opts Options) (*Driver, error) {
	format, err := ParseFormat(opts.Format)
	if err != nil {
		return nil, err
	}
	res := opts.Resolution
	if res <= 0 {
		res = 1.0
	}
	fonts := newFontBook(opts.Fonts)
	return &Driver{
		format:     format,
		width:      opts.Width,
		height:     opts.Height,
		res:        canvas.DPMM(res),
		background: opts.Background,
		fonts:      fonts,
		text:       newTypesetter(fonts),
	}, nil
}

// Format returns the driver's output format.
func (d *Driver) Format() Format { return d.format }

func (d *Driver) ensureSurface(c *scene.Component) error {
	if d.surf != nil {
		return nil
	}
	w, h := d.width, d.height
	if (w <= 0 || h <= 0) && c != nil {
		w, h = c.Width, c.Height
	}
	if w <= 0 || h <= 0 {
		return fmt.Errorf("%w: no surface dimensions", ErrMissingComponent)
	}
	d.surf = newSurface(d.format, w, h, d.res)
	if d.background != nil {
		d.surf.SetColor(*d.background)
		d.surf.PaintAll()
	}
	logger().Debug("surface created",
		"format", d.format.String(), "width", w, "height", h)
	return nil
}

// Resize resizes the surface in place, creating it if needed. Unchanged
// dimensions are a no-op.
func (d *Driver) Resize(width, height float64) {
	d.width, d.height = width, height
	if d.surf != nil {
		d.surf.Resize(width, height)
	}
}

// Draw renders a component and its children onto the surface, creating the
// surface sized to the component if it does not exist yet.
func (d *Driver) Draw(c *scene.Component) error {
	if c == nil {
		return fmt.Errorf("%w: nil component", ErrMissingComponent)
	}
	if err := d.ensureSurface(c); err != nil {
		return err
	}
	return d.drawComponent(d.surf, c)
}

// drawComponent runs the per-component state machine: enter (translate +
// clip), background, border, content, children, exit. The restore is
// deferred so the frame stack stays balanced on error paths.
func (d *Driver) drawComponent(s *surface, c *scene.Component) error {
	s.Save()
	defer s.Restore()

	// a path preserved past a previous component's last operation must not
	// leak into this one
	s.NewPath()

	s.Translate(c.Origin.X, c.Origin.Y)
	s.ClipRect(0, 0, c.Width, c.Height)

	if c.Background != nil {
		s.Rectangle(0, 0, c.Width, c.Height)
		s.SetColor(*c.Background)
		s.Fill(false)
	}

	if c.Border != nil && !c.Border.Zero() {
		if c.Border.Homogeneous() {
			d.drawUniformBorder(s, c)
		} else {
			d.drawComplexBorder(s, c)
		}
	}

	var err error
	switch {
	case c.Text != nil:
		err = d.drawText(s, c)
	case c.Canvas != nil:
		err = d.drawCanvas(s, c)
	case c.Image != nil:
		d.drawImage(s, c)
	}
	if err != nil {
		return err
	}

	for _, child := range c.Children {
		if err := d.drawComponent(s, child); err != nil {
			return err
		}
	}
	return nil
}

// drawUniformBorder strokes the border as one rectangle inset by the margins
// plus half the border width, keeping the stroke centered on the boundary.
func (d *Driver) drawUniformBorder(s *surface, c *scene.Component) {
	b := c.Border.Top
	if b.Width <= 0 {
		return
	}
	m := c.Margins
	s.Rectangle(
		m.Left+b.Width/2,
		m.Top+b.Width/2,
		c.Width-m.Left-m.Right-b.Width,
		c.Height-m.Top-m.Bottom-b.Width,
	)
	strokeBrush(s, b)
}

// drawComplexBorder strokes up to four independent edges in fixed order:
// top, right, bottom, left. Zero-width edges are skipped.
func (d *Driver) drawComplexBorder(s *surface, c *scene.Component) {
	m := c.Margins
	border := c.Border

	if b := border.Top; b.Width > 0 {
		y := m.Top + b.Width/2
		s.MoveTo(m.Left, y)
		s.LineTo(c.Width-m.Right, y)
		strokeBrush(s, b)
	}
	if b := border.Right; b.Width > 0 {
		x := c.Width - m.Right - b.Width/2
		s.MoveTo(x, m.Top)
		s.LineTo(x, c.Height-m.Bottom)
		strokeBrush(s, b)
	}
	if b := border.Bottom; b.Width > 0 {
		y := c.Height - m.Bottom - b.Width/2
		s.MoveTo(m.Left, y)
		s.LineTo(c.Width-m.Right, y)
		strokeBrush(s, b)
	}
	if b := border.Left; b.Width > 0 {
		x := m.Left + b.Width/2
		s.MoveTo(x, m.Top)
		s.LineTo(x, c.Height-m.Bottom)
		strokeBrush(s, b)
	}
}

// strokeBrush strokes the accumulated path with a brush, resetting the dash
// pattern to solid afterwards.
func strokeBrush(s *surface, b scene.Brush) {
	s.SetColor(b.Color)
	s.SetLineWidth(b.Width)
	s.SetLineCap(b.Cap)
	s.SetLineJoin(b.Join)
	s.SetDash(0, b.Dash)
	s.Stroke(false)
	s.SetDash(0, nil)
}

// drawText paths every line at its aligned position, then fills once with
// the component's foreground color. All lines share that single fill.
func (d *Driver) drawText(s *surface, c *scene.Component) error {
	t := c.Text
	fg := scene.Color{A: 1}
	if c.Color != nil {
		fg = *c.Color
	}
	face, err := d.fonts.face(t.Font, rgba(fg))
	if err != nil {
		return err
	}

	inside := c.Inside()
	lines := t.Lines
	if len(lines) == 0 && t.Content != "" {
		layout, err := d.text.Layout(t.Font, t.Content, inside.W)
		if err != nil {
			return err
		}
		lines = layout.Lines
	}
	if len(lines) == 0 {
		return nil
	}

	metrics := face.Metrics()
	lineHeight := metrics.LineHeight
	if lineHeight <= 0 {
		lineHeight = t.Font.Size
	}
	// block height uses the same per-line effective height as TextLayout
	// slicing, so alignment and slices agree on where the block ends
	rowHeight := func(ln scene.TextLine) float64 {
		if ln.ContentBox.H > lineHeight {
			return ln.ContentBox.H
		}
		return lineHeight
	}
	total := 0.0
	for _, line := range lines {
		total += rowHeight(line)
	}

	y := inside.Y
	switch t.VAlign {
	case scene.AlignMiddle:
		y += (inside.H - total) / 2
	case scene.AlignBottom:
		y += inside.H - total
	}

	for _, line := range lines {
		x := inside.X
		switch t.HAlign {
		case scene.AlignCenter:
			x += (inside.W - line.Box.W) / 2
		case scene.AlignRight:
			x += inside.W - line.Box.W
		}
		s.TextPath(face, line.Text, x, y+metrics.Ascent)
		y += rowHeight(line)
	}

	s.SetColor(fg)
	s.Fill(false)
	return nil
}

// drawCanvas renders the component's path/operation pairs in order, carrying
// the preserve state across them.
func (d *Driver) drawCanvas(s *surface, c *scene.Component) error {
	var st renderState
	for _, op := range c.Canvas.Ops {
		if err := renderPath(s, &st, op.Path, op.Op); err != nil {
			return err
		}
	}
	return nil
}

// drawImage places the decoded image inside the content box per its
// alignment, applies the optional non-uniform scale, and crops whatever
// would overflow the content box.
func (d *Driver) drawImage(s *surface, c *scene.Component) {
	im := c.Image
	if im == nil || im.Img == nil {
		return
	}
	inside := c.Inside()
	sx, sy := 1.0, 1.0
	if im.Scale != nil {
		if im.Scale.X > 0 {
			sx = im.Scale.X
		}
		if im.Scale.Y > 0 {
			sy = im.Scale.Y
		}
	}
	src := im.Img
	bounds := src.Bounds()
	w := float64(bounds.Dx()) * sx
	h := float64(bounds.Dy()) * sy

	x := inside.X
	switch im.HAlign {
	case scene.AlignCenter:
		x += (inside.W - w) / 2
	case scene.AlignRight:
		x += inside.W - w
	}
	y := inside.Y
	switch im.VAlign {
	case scene.AlignMiddle:
		y += (inside.H - h) / 2
	case scene.AlignBottom:
		y += inside.H - h
	}

	vis := intersectRect(scene.Rect{X: x, Y: y, W: w, H: h}, inside)
	if vis.W <= 0 || vis.H <= 0 {
		return
	}
	if vis.X != x || vis.Y != y || vis.W != w || vis.H != h {
		if sub, ok := src.(interface {
			SubImage(image.Rectangle) image.Image
		}); ok {
			r := bounds
			r.Min.X += int(math.Floor((vis.X - x) / sx))
			r.Min.Y += int(math.Floor((vis.Y - y) / sy))
			r.Max.X -= int(math.Floor((x + w - vis.X - vis.W) / sx))
			r.Max.Y -= int(math.Floor((y + h - vis.Y - vis.H) / sy))
			src = sub.SubImage(r)
			x, y = vis.X, vis.Y
		}
	}
	s.DrawImage(src, x, y, sx, sy)
}

func intersectRect(a, b scene.Rect) scene.Rect {
	x0 := math.Max(a.X, b.X)
	y0 := math.Max(a.Y, b.Y)
	x1 := math.Min(a.X+a.W, b.X+b.W)
	y1 := math.Min(a.Y+a.H, b.Y+b.H)
	return scene.Rect{X: x0, Y: y0, W: x1 - x0, H: y1 - y0}
}

// Data serializes the surface. Paged formats complete the page and
// invalidate the drawing context; the next Draw recreates it. The
// measurement cache survives.
func (d *Driver) Data() ([]byte, error) {
	if d.surf == nil {
		return nil, fmt.Errorf("%w: nothing drawn", ErrMissingComponent)
	}
	data, err := d.surf.finish()
	if err != nil {
		return nil, err
	}
	if d.format.Paged() {
		d.surf = nil
	}
	logger().Debug("surface serialized", "format", d.format.String(), "bytes", len(data))
	return data, nil
}

// Write serializes the surface and writes the bytes to a file.
func (d *Driver) Write(path string) error {
	data, err := d.Data()
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// Reset discards the drawing context; the next Draw recreates it. The
// measurement cache is kept.
func (d *Driver) Reset() {
	d.surf = nil
}

// Measure returns the content bounding box of text in the given font,
// through the driver's measurement cache.
func (d *Driver) Measure(f scene.Font, text string) (scene.Rect, error) {
	return d.text.Measure(f, text)
}

// Layout wraps text against maxWidth through the measurement cache.
func (d *Driver) Layout(f scene.Font, text string, maxWidth float64) (*TextLayout, error) {
	return d.text.Layout(f, text, maxWidth)
}

// TextBoundingBox returns the control box (visual extent after rotating by
// angle radians) and the content box (the unrotated extent) for text.
func (d *Driver) TextBoundingBox(f scene.Font, text string, angle float64) (control, content scene.Rect, err error) {
	return d.text.BoundingBoxes(f, text, angle)
}
