package scene

import "math"

// Primitive is one geometric element of a path. The set is closed: drivers
// dispatch over the concrete types and reject anything else at compile time.
//
// A contiguous primitive continues from the previous primitive's endpoint;
// a non-contiguous one starts a new subpath at Start().
type Primitive interface {
	// Start is the point a driver moves to before drawing the primitive
	// when it is not contiguous with the previous one.
	Start() Point
	// Contiguous reports whether the primitive continues the current
	// subpath without an explicit move.
	Contiguous() bool

	primitive()
}

// Line is a straight segment.
type Line struct {
	From   Point `json:"from"`
	To     Point `json:"to"`
	Contig bool  `json:"contig,omitempty"`
}

func (l Line) Start() Point     { return l.From }
func (l Line) Contiguous() bool { return l.Contig }
func (Line) primitive()         {}

// Rectangle is an axis-aligned rectangle given by origin and size.
type Rectangle struct {
	Origin Point   `json:"origin"`
	W      float64 `json:"w"`
	H      float64 `json:"h"`
	Contig bool    `json:"contig,omitempty"`
}

func (r Rectangle) Start() Point     { return r.Origin }
func (r Rectangle) Contiguous() bool { return r.Contig }
func (Rectangle) primitive()         {}

// Arc is a circular arc around Center. Angles are in radians; the sweep runs
// from StartAngle to EndAngle, counterclockwise when StartAngle < EndAngle
// and clockwise otherwise.
type Arc struct {
	Center     Point   `json:"center"`
	Radius     float64 `json:"radius"`
	StartAngle float64 `json:"startAngle"`
	EndAngle   float64 `json:"endAngle"`
	Contig     bool    `json:"contig,omitempty"`
}

func (a Arc) Start() Point {
	return Point{
		X: a.Center.X + a.Radius*math.Cos(a.StartAngle),
		Y: a.Center.Y + a.Radius*math.Sin(a.StartAngle),
	}
}
func (a Arc) Contiguous() bool { return a.Contig }
func (Arc) primitive()         {}

// End is the point the pen rests at after the arc is drawn.
func (a Arc) End() Point {
	return Point{
		X: a.Center.X + a.Radius*math.Cos(a.EndAngle),
		Y: a.Center.Y + a.Radius*math.Sin(a.EndAngle),
	}
}

// Bezier is a cubic Bézier curve.
type Bezier struct {
	From     Point `json:"from"`
	Control1 Point `json:"control1"`
	Control2 Point `json:"control2"`
	To       Point `json:"to"`
	Contig   bool  `json:"contig,omitempty"`
}

func (b Bezier) Start() Point     { return b.From }
func (b Bezier) Contiguous() bool { return b.Contig }
func (Bezier) primitive()         {}

// Polygon is a closed sequence of vertices.
type Polygon struct {
	Points []Point `json:"points"`
	Contig bool    `json:"contig,omitempty"`
}

func (p Polygon) Start() Point {
	if len(p.Points) == 0 {
		return Point{}
	}
	return p.Points[0]
}
func (p Polygon) Contiguous() bool { return p.Contig }
func (Polygon) primitive()         {}

// Path is an ordered sequence of primitives. It is created once per drawing
// pass and not mutated while a driver renders it.
type Path struct {
	Primitives []Primitive `json:"primitives"`
}

// Add appends primitives in order.
func (p *Path) Add(prims ...Primitive) *Path {
	p.Primitives = append(p.Primitives, prims...)
	return p
}

// Operation is what gets done with a path: a fill or a stroke. The set is
// closed like Primitive.
//
// Preserve keeps the accumulated path on the surface after the operation so
// the next operation on the same canvas can reuse it.
type Operation interface {
	operation()
}

// Fill fills the accumulated path with Paint.
type Fill struct {
	Paint    Paint `json:"paint"`
	Preserve bool  `json:"preserve,omitempty"`
}

func (Fill) operation() {}

// Stroke outlines the accumulated path with Paint.
type Stroke struct {
	Paint    Paint     `json:"paint"`
	Width    float64   `json:"width"`
	Cap      LineCap   `json:"cap"`
	Join     LineJoin  `json:"join"`
	Dash     []float64 `json:"dash,omitempty"`
	Preserve bool      `json:"preserve,omitempty"`
}

func (Stroke) operation() {}
