package scene

import "testing"

func TestInsideInsetsMarginsAndBorder(t *testing.T) {
	c := &Component{
		Width:   100,
		Height:  80,
		Margins: Margins{Top: 5, Right: 10, Bottom: 5, Left: 10},
		Border:  Uniform(Brush{Width: 2}),
	}
	got := c.Inside()
	want := Rect{X: 12, Y: 7, W: 76, H: 66}
	if got != want {
		t.Fatalf("Inside() = %+v, want %+v", got, want)
	}
}

func TestInsideClampsToZero(t *testing.T) {
	c := &Component{
		Width:   10,
		Height:  10,
		Margins: Margins{Top: 8, Right: 8, Bottom: 8, Left: 8},
	}
	got := c.Inside()
	if got.W != 0 || got.H != 0 {
		t.Fatalf("Inside() = %+v, want zero size", got)
	}
}

func TestInsideNoBorder(t *testing.T) {
	c := &Component{Width: 50, Height: 50}
	got := c.Inside()
	if got != (Rect{X: 0, Y: 0, W: 50, H: 50}) {
		t.Fatalf("Inside() = %+v", got)
	}
}

func TestBorderHomogeneous(t *testing.T) {
	b := Uniform(Brush{Width: 3, Color: Color{R: 1, A: 1}})
	if !b.Homogeneous() {
		t.Fatal("uniform border should be homogeneous")
	}
	b.Left.Width = 5
	if b.Homogeneous() {
		t.Fatal("mixed widths should not be homogeneous")
	}

	dashed := Uniform(Brush{Width: 2, Dash: []float64{4, 2}})
	if !dashed.Homogeneous() {
		t.Fatal("identical dash patterns should be homogeneous")
	}
	dashed.Top.Dash = []float64{4, 3}
	if dashed.Homogeneous() {
		t.Fatal("differing dash patterns should not be homogeneous")
	}
}

func TestBorderZero(t *testing.T) {
	if !(&Border{}).Zero() {
		t.Fatal("empty border should be zero")
	}
	if Uniform(Brush{Width: 1}).Zero() {
		t.Fatal("stroked border should not be zero")
	}
	if !Uniform(Brush{Width: 0, Color: Color{R: 1, A: 1}}).Zero() {
		t.Fatal("colored but zero-width border should be zero")
	}
}
