package canvasdriver

import (
	"math"
	"strings"

	"github.com/gphat/graphics-primitive-driver-cairo/scene"
)

// measurer is the text-measurement primitive the typesetter builds on.
// Measurements are pure queries with no path side effects.
type measurer interface {
	measure(f scene.Font, text string) (scene.Rect, error)
	lineHeight(f scene.Font) (float64, error)
}

type measureKey struct {
	text   string
	family string
	slant  scene.FontSlant
	weight scene.FontWeight
	size   float64
}

type measureEntry struct {
	content scene.Rect
	control scene.Rect
}

// typesetter measures and wraps text, memoizing bounding boxes so a given
// (text, font) pair hits the underlying measurement primitive at most once.
// The cache is append-only for the typesetter's lifetime: a font/text
// combination always measures identically, so entries are never invalidated.
type typesetter struct {
	m     measurer
	cache map[measureKey]measureEntry
}

func newTypesetter(m measurer) *typesetter {
	return &typesetter{m: m, cache: map[measureKey]measureEntry{}}
}

func key(f scene.Font, text string) measureKey {
	return measureKey{
		text:   text,
		family: f.Family,
		slant:  f.Slant,
		weight: f.Weight,
		size:   f.Size,
	}
}

// Measure returns the content bounding box of text in the given font. Empty
// text short-circuits to a zero-width box of the font's nominal size without
// touching the measurement primitive.
func (t *typesetter) Measure(f scene.Font, text string) (scene.Rect, error) {
	if text == "" {
		return scene.Rect{W: 0, H: f.Size}, nil
	}
	k := key(f, text)
	if e, ok := t.cache[k]; ok {
		return e.content, nil
	}
	box, err := t.m.measure(f, text)
	if err != nil {
		return scene.Rect{}, err
	}
	t.cache[k] = measureEntry{content: box, control: box}
	return box, nil
}

// BoundingBoxes returns the control box and the content box for text. With
// angle 0 the two are identical; otherwise the control box is the
// axis-aligned extent of the content box rotated by angle radians.
func (t *typesetter) BoundingBoxes(f scene.Font, text string, angle float64) (control, content scene.Rect, err error) {
	content, err = t.Measure(f, text)
	if err != nil {
		return scene.Rect{}, scene.Rect{}, err
	}
	control = content
	if angle != 0 {
		control = rotateExtent(content, angle)
	}
	return control, content, nil
}

// rotateExtent rotates the four corners of r about the origin and returns
// their axis-aligned bounding box.
func rotateExtent(r scene.Rect, angle float64) scene.Rect {
	sin, cos := math.Sin(angle), math.Cos(angle)
	xs := [4]float64{r.X, r.X + r.W, r.X, r.X + r.W}
	ys := [4]float64{r.Y, r.Y, r.Y + r.H, r.Y + r.H}
	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for i := 0; i < 4; i++ {
		x := xs[i]*cos - ys[i]*sin
		y := xs[i]*sin + ys[i]*cos
		minX = math.Min(minX, x)
		minY = math.Min(minY, y)
		maxX = math.Max(maxX, x)
		maxY = math.Max(maxY, y)
	}
	return scene.Rect{X: minX, Y: minY, W: maxX - minX, H: maxY - minY}
}

// TextLayout is a wrapped block of text.
//
// Width is the sum of the per-line widths, not their maximum. That is the
// contract this backend ships with; callers wanting the visual width should
// take the widest Line.Box.W themselves.
type TextLayout struct {
	Font       scene.Font
	Lines      []scene.TextLine
	Width      float64
	Height     float64
	LineHeight float64 // the font's nominal baseline-to-baseline spacing
}

// Layout wraps text into lines no wider than maxWidth using greedy word
// accumulation: words join a candidate line until its measured width exceeds
// the limit, at which point the line closes and the overflowing word starts
// the next one. A maxWidth of zero or less means unconstrained: lines break
// only at explicit newlines. Empty text yields a zero-height layout with no
// lines.
func (t *typesetter) Layout(f scene.Font, text string, maxWidth float64) (*TextLayout, error) {
	lh, err := t.m.lineHeight(f)
	if err != nil {
		return nil, err
	}
	l := &TextLayout{Font: f, LineHeight: lh}
	if text == "" {
		return l, nil
	}

	emit := func(line string) error {
		box, err := t.Measure(f, line)
		if err != nil {
			return err
		}
		l.Lines = append(l.Lines, scene.TextLine{Text: line, Box: box, ContentBox: box})
		l.Width += box.W
		l.Height += box.H
		return nil
	}

	for _, hard := range strings.Split(text, "\n") {
		words := strings.Fields(hard)
		if len(words) == 0 {
			if err := emit(""); err != nil {
				return nil, err
			}
			continue
		}
		current := ""
		for _, word := range words {
			candidate := word
			if current != "" {
				candidate = current + " " + word
			}
			box, err := t.Measure(f, candidate)
			if err != nil {
				return nil, err
			}
			if maxWidth > 0 && box.W > maxWidth && current != "" {
				if err := emit(current); err != nil {
					return nil, err
				}
				current = word
			} else {
				current = candidate
			}
		}
		if err := emit(current); err != nil {
			return nil, err
		}
	}
	return l, nil
}

// TextSlice is a contiguous vertical sub-range of a layout's lines, used to
// paginate a text block across components.
type TextSlice struct {
	Lines  []scene.TextLine
	Width  float64
	Height float64 // accumulated effective height of the selected lines
}

// effectiveHeight never lets a line occupy less vertical space than the
// font's nominal line height, so slices cannot split a line's visual space.
func (l *TextLayout) effectiveHeight(ln scene.TextLine) float64 {
	if ln.ContentBox.H > l.LineHeight {
		return ln.ContentBox.H
	}
	return l.LineHeight
}

// TotalHeight is the sum of the effective heights of all lines.
func (l *TextLayout) TotalHeight() float64 {
	total := 0.0
	for _, ln := range l.Lines {
		total += l.effectiveHeight(ln)
	}
	return total
}

// Slice selects the lines whose vertical extent falls within
// [offset, offset+size). A size of zero or less means the full remaining
// height. Non-overlapping slices across the full height reconstruct every
// line exactly once.
func (l *TextLayout) Slice(offset, size float64) TextSlice {
	if size <= 0 {
		size = l.TotalHeight() - offset
	}
	out := TextSlice{Width: l.Width}
	accum := 0.0
	for _, ln := range l.Lines {
		use := l.effectiveHeight(ln)
		if accum < offset {
			accum += use
			continue
		}
		if accum+use > offset+size {
			break
		}
		out.Lines = append(out.Lines, ln)
		out.Height += use
		accum += use
	}
	return out
}
