package scene

// Paint describes what a fill or stroke is painted with. The set is closed;
// drivers dispatch over the concrete types and report unsupported kinds.
type Paint interface {
	paint()
}

// Solid paints with a single color.
type Solid struct {
	Color Color `json:"color"`
}

func (Solid) paint() {}

// Stop is one gradient color stop. Offset is in [0,1] along the gradient.
type Stop struct {
	Offset float64 `json:"offset"`
	Color  Color   `json:"color"`
}

// LinearGradient paints with a gradient along the segment Start→End. Stops
// are applied in the order given.
type LinearGradient struct {
	Start Point  `json:"start"`
	End   Point  `json:"end"`
	Stops []Stop `json:"stops"`
}

func (LinearGradient) paint() {}

// RadialGradient is modeled so documents can carry it, but no driver renders
// it yet; resolvers reject it as unsupported.
type RadialGradient struct {
	Center Point   `json:"center"`
	Radius float64 `json:"radius"`
	Stops  []Stop  `json:"stops"`
}

func (RadialGradient) paint() {}
