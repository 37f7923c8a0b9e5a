package canvasdriver

import (
	"bytes"
	"image"
	"image/png"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gphat/graphics-primitive-driver-cairo/scene"
)

func rectPath(x, y, w, h float64) *scene.Path {
	p := &scene.Path{}
	p.Add(scene.Rectangle{Origin: scene.Point{X: x, Y: y}, W: w, H: h})
	return p
}

func renderOps(t *testing.T, w, h float64, ops []scene.DrawOp) []byte {
	t.Helper()
	d, err := New("png")
	require.NoError(t, err)
	c := &scene.Component{
		Width:      w,
		Height:     h,
		Background: &white,
		Canvas:     &scene.Canvas{Ops: ops},
	}
	require.NoError(t, d.Draw(c))
	data, err := d.Data()
	require.NoError(t, err)
	return data
}

func TestPreserveMatchesReplay(t *testing.T) {
	shared := rectPath(10, 10, 40, 40)
	preserved := []scene.DrawOp{
		{Path: shared, Op: scene.Fill{Paint: scene.Solid{Color: red}, Preserve: true}},
		{Path: shared, Op: scene.Stroke{Paint: scene.Solid{Color: black}, Width: 2}},
	}
	replayed := []scene.DrawOp{
		{Path: rectPath(10, 10, 40, 40), Op: scene.Fill{Paint: scene.Solid{Color: red}}},
		{Path: rectPath(10, 10, 40, 40), Op: scene.Stroke{Paint: scene.Solid{Color: black}, Width: 2}},
	}
	assert.Equal(t, renderOps(t, 60, 60, preserved), renderOps(t, 60, 60, replayed))
}

func TestPreserveStateResetsBetweenCanvases(t *testing.T) {
	d, err := New("png")
	require.NoError(t, err)
	shared := rectPath(5, 5, 20, 20)
	ops := []scene.DrawOp{
		{Path: shared, Op: scene.Fill{Paint: scene.Solid{Color: red}, Preserve: true}},
	}
	first := &scene.Component{Width: 40, Height: 40, Background: &white, Canvas: &scene.Canvas{Ops: ops}}
	require.NoError(t, d.Draw(first))

	// a second component reusing the same path must re-emit it
	second := &scene.Component{
		Origin: scene.Point{X: 0, Y: 0},
		Width:  40, Height: 40,
		Canvas: &scene.Canvas{Ops: []scene.DrawOp{
			{Path: shared, Op: scene.Fill{Paint: scene.Solid{Color: blue}}},
		}},
	}
	require.NoError(t, d.Draw(second))
	data, err := d.Data()
	require.NoError(t, err)
	img := decodePNG(t, data)
	assertPixel(t, img, 15, 15, blue)
}

func TestPreservedPathDoesNotLeakIntoSiblingClip(t *testing.T) {
	render := func(preserve bool) []byte {
		first := &scene.Component{
			Width: 100, Height: 100,
			Canvas: &scene.Canvas{Ops: []scene.DrawOp{
				{Path: rectPath(10, 10, 80, 80), Op: scene.Fill{Paint: scene.Solid{Color: red}, Preserve: preserve}},
			}},
		}
		// the second child is a 10x10 box; its oversized fill must stay
		// inside that box even when the first child preserved its path
		second := &scene.Component{
			Width: 10, Height: 10,
			Canvas: &scene.Canvas{Ops: []scene.DrawOp{
				{Path: rectPath(0, 0, 80, 80), Op: scene.Fill{Paint: scene.Solid{Color: blue}}},
			}},
		}
		root := &scene.Component{
			Width: 100, Height: 100,
			Background: &white,
			Children:   []*scene.Component{first, second},
		}
		d, err := New("png")
		require.NoError(t, err)
		require.NoError(t, d.Draw(root))
		data, err := d.Data()
		require.NoError(t, err)
		return data
	}

	preserved := render(true)
	img := decodePNG(t, preserved)
	assertPixel(t, img, 50, 50, red)
	assertPixel(t, img, 5, 5, blue)
	// preserving the first child's path changes nothing downstream
	assert.Equal(t, render(false), preserved)
}

func TestStrokeDashResetsAfterOperation(t *testing.T) {
	dashed := []scene.DrawOp{
		{Path: linePath(5, 10, 55, 10), Op: scene.Stroke{
			Paint: scene.Solid{Color: black}, Width: 2, Dash: []float64{4, 4},
		}},
		{Path: linePath(5, 30, 55, 30), Op: scene.Stroke{
			Paint: scene.Solid{Color: black}, Width: 2,
		}},
	}
	img := decodePNG(t, renderOps(t, 60, 40, dashed))
	// the second stroke is solid along its whole length
	for x := 6; x < 54; x++ {
		r, _, _, _ := img.At(x, 30).RGBA()
		assert.Less(t, int(r), 0x4000, "solid stroke broken at x=%d", x)
	}
}

func TestArcRendersQuarterCircle(t *testing.T) {
	p := &scene.Path{}
	p.Add(scene.Arc{
		Center:     scene.Point{X: 30, Y: 30},
		Radius:     20,
		StartAngle: 0,
		EndAngle:   math.Pi / 2,
	})
	ops := []scene.DrawOp{
		{Path: p, Op: scene.Stroke{Paint: scene.Solid{Color: black}, Width: 3}},
	}
	img := decodePNG(t, renderOps(t, 60, 60, ops))
	// start point (50,30), end point (30,50), midpoint at 45 degrees
	assertPixel(t, img, 50, 30, black)
	assertPixel(t, img, 30, 50, black)
	mx := 30 + int(20*math.Cos(math.Pi/4))
	my := 30 + int(20*math.Sin(math.Pi/4))
	assertPixel(t, img, mx, my, black)
	// the opposite quadrant stays clean
	assertPixel(t, img, 30, 10, white)
}

func TestPolygonFills(t *testing.T) {
	p := &scene.Path{}
	p.Add(scene.Polygon{Points: []scene.Point{
		{X: 30, Y: 5}, {X: 55, Y: 55}, {X: 5, Y: 55},
	}})
	ops := []scene.DrawOp{
		{Path: p, Op: scene.Fill{Paint: scene.Solid{Color: green}}},
	}
	img := decodePNG(t, renderOps(t, 60, 60, ops))
	assertPixel(t, img, 30, 40, green)
	assertPixel(t, img, 5, 10, white)
	assertPixel(t, img, 55, 10, white)
}

func TestContiguousPrimitivesShareOneSubpath(t *testing.T) {
	// an open triangle drawn as a move plus two contiguous lines, filled
	p := &scene.Path{}
	p.Add(scene.Line{From: scene.Point{X: 10, Y: 50}, To: scene.Point{X: 30, Y: 10}})
	p.Add(scene.Line{From: scene.Point{X: 30, Y: 10}, To: scene.Point{X: 50, Y: 50}, Contig: true})
	ops := []scene.DrawOp{
		{Path: p, Op: scene.Fill{Paint: scene.Solid{Color: red}}},
	}
	img := decodePNG(t, renderOps(t, 60, 60, ops))
	assertPixel(t, img, 30, 30, red)
}

func linePath(x0, y0, x1, y1 float64) *scene.Path {
	p := &scene.Path{}
	p.Add(scene.Line{From: scene.Point{X: x0, Y: y0}, To: scene.Point{X: x1, Y: y1}})
	return p
}

func decodePNG(t *testing.T, data []byte) image.Image {
	t.Helper()
	img, err := png.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	return img
}
