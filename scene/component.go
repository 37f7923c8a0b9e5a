// Package scene defines the drawable component tree consumed by drivers.
// Geometry is already computed: every component carries its own origin in the
// parent coordinate space and its final width and height.
package scene

import "image"

// Point is a position in document units.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Rect is an origin plus size, used for bounding boxes.
type Rect struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	W float64 `json:"w"`
	H float64 `json:"h"`
}

// Color is an RGBA color with channels in [0,1].
type Color struct {
	R float64 `json:"r"`
	G float64 `json:"g"`
	B float64 `json:"b"`
	A float64 `json:"a"`
}

// Margins are the insets between a component's outer edge and its border.
type Margins struct {
	Top    float64 `json:"top"`
	Right  float64 `json:"right"`
	Bottom float64 `json:"bottom"`
	Left   float64 `json:"left"`
}

// LineCap styles the ends of stroked segments.
type LineCap int

const (
	CapButt LineCap = iota
	CapRound
	CapSquare
)

// LineJoin styles the corners of stroked segments.
type LineJoin int

const (
	JoinMiter LineJoin = iota
	JoinRound
	JoinBevel
)

// Brush describes how a line is stroked.
type Brush struct {
	Width float64   `json:"width"`
	Color Color     `json:"color"`
	Cap   LineCap   `json:"cap"`
	Join  LineJoin  `json:"join"`
	Dash  []float64 `json:"dash,omitempty"`
}

func (b Brush) equal(o Brush) bool {
	if b.Width != o.Width || b.Color != o.Color || b.Cap != o.Cap || b.Join != o.Join {
		return false
	}
	if len(b.Dash) != len(o.Dash) {
		return false
	}
	for i := range b.Dash {
		if b.Dash[i] != o.Dash[i] {
			return false
		}
	}
	return true
}

// Border is four independently styled edges. A zero-width edge draws nothing.
type Border struct {
	Top    Brush `json:"top"`
	Right  Brush `json:"right"`
	Bottom Brush `json:"bottom"`
	Left   Brush `json:"left"`
}

// Uniform returns a border with the same brush on all four edges.
func Uniform(b Brush) *Border {
	return &Border{Top: b, Right: b, Bottom: b, Left: b}
}

// Homogeneous reports whether all four edges share one brush, in which case a
// driver may stroke the border as a single inset rectangle.
func (b *Border) Homogeneous() bool {
	return b.Top.equal(b.Right) && b.Top.equal(b.Bottom) && b.Top.equal(b.Left)
}

// Zero reports whether no edge would produce a visible stroke.
func (b *Border) Zero() bool {
	return b.Top.Width <= 0 && b.Right.Width <= 0 && b.Bottom.Width <= 0 && b.Left.Width <= 0
}

// FontSlant selects the slant of a font face.
type FontSlant int

const (
	SlantNormal FontSlant = iota
	SlantItalic
	SlantOblique
)

// FontWeight selects the weight of a font face.
type FontWeight int

const (
	WeightNormal FontWeight = iota
	WeightBold
)

// Font describes a face request. Size is in document units.
type Font struct {
	Family string     `json:"family"`
	Slant  FontSlant  `json:"slant"`
	Weight FontWeight `json:"weight"`
	Size   float64    `json:"size"`
}

// HorizontalAlign positions content on the x axis.
type HorizontalAlign int

const (
	AlignLeft HorizontalAlign = iota
	AlignCenter
	AlignRight
)

// VerticalAlign positions content on the y axis.
type VerticalAlign int

const (
	AlignTop VerticalAlign = iota
	AlignMiddle
	AlignBottom
)

// TextLine is one laid-out line of text. Box is the control box (visual
// extent, rotated if an angle was involved); ContentBox is the unrotated
// natural extent.
type TextLine struct {
	Text       string `json:"text"`
	Box        Rect   `json:"box"`
	ContentBox Rect   `json:"contentBox"`
}

// Text is a text-box content variant. Lines may carry pre-wrapped lines; when
// empty the driver wraps Content against the component's content width.
type Text struct {
	Content string          `json:"content"`
	Font    Font            `json:"font"`
	HAlign  HorizontalAlign `json:"halign"`
	VAlign  VerticalAlign   `json:"valign"`
	Lines   []TextLine      `json:"lines,omitempty"`
}

// Canvas is a path-drawing content variant: an ordered list of path/operation
// pairs executed in sequence.
type Canvas struct {
	Ops []DrawOp `json:"ops"`
}

// DrawOp pairs a path with the operation that paints it.
type DrawOp struct {
	Path *Path     `json:"path"`
	Op   Operation `json:"op"`
}

// Image is a raster content variant. Scale applies a non-uniform scale to the
// decoded pixels; nil means one pixel per document unit.
type Image struct {
	Img    image.Image     `json:"-"`
	HAlign HorizontalAlign `json:"halign"`
	VAlign VerticalAlign   `json:"valign"`
	Scale  *Point          `json:"scale,omitempty"`
}

// Component is a styled rectangular region. All geometric fields are
// non-negative except the origin offsets. At most one content variant is set.
type Component struct {
	Origin     Point   `json:"origin"`
	Width      float64 `json:"width"`
	Height     float64 `json:"height"`
	Margins    Margins `json:"margins"`
	Border     *Border `json:"border,omitempty"`
	Background *Color  `json:"background,omitempty"`
	Color      *Color  `json:"color,omitempty"` // foreground, used by text content

	Text   *Text   `json:"text,omitempty"`
	Canvas *Canvas `json:"canvas,omitempty"`
	Image  *Image  `json:"image,omitempty"`

	Children []*Component `json:"children,omitempty"`
}

// Inside returns the content box: the component rectangle inset by margins
// and border widths, in the component's own coordinate space.
func (c *Component) Inside() Rect {
	top, right, bottom, left := 0.0, 0.0, 0.0, 0.0
	if c.Border != nil {
		top = c.Border.Top.Width
		right = c.Border.Right.Width
		bottom = c.Border.Bottom.Width
		left = c.Border.Left.Width
	}
	r := Rect{
		X: c.Margins.Left + left,
		Y: c.Margins.Top + top,
		W: c.Width - c.Margins.Left - c.Margins.Right - left - right,
		H: c.Height - c.Margins.Top - c.Margins.Bottom - top - bottom,
	}
	if r.W < 0 {
		r.W = 0
	}
	if r.H < 0 {
		r.H = 0
	}
	return r
}
