package scene

import (
	"math"
	"testing"
)

func almost(a, b float64) bool { return math.Abs(a-b) < 1e-6 }

func TestParseLength(t *testing.T) {
	cases := []struct {
		in    string
		value float64
		unit  Unit
	}{
		{"12pt", 12, UnitPT},
		{"30mm", 30, UnitMM},
		{"2.5cm", 2.5, UnitCM},
		{"1in", 1, UnitIN},
		{"42", 42, UnitNone},
		{" 8 pt ", 8, UnitPT},
		{"", 0, UnitNone},
		{"abc", 0, UnitNone},
	}
	for _, c := range cases {
		got := ParseLength(c.in)
		if !almost(got.Value, c.value) || got.Unit != c.unit {
			t.Fatalf("ParseLength(%q) = %+v, want {%v %v}", c.in, got, c.value, c.unit)
		}
	}
}

func TestLengthToMM(t *testing.T) {
	cases := []struct {
		in   Length
		want float64
	}{
		{Length{Value: 10, Unit: UnitMM}, 10},
		{Length{Value: 2, Unit: UnitCM}, 20},
		{Length{Value: 1, Unit: UnitIN}, 25.4},
		{Length{Value: 10, Unit: UnitPT}, 3.52777},
		{Length{Value: 7, Unit: UnitNone}, 7},
	}
	for _, c := range cases {
		if got := c.in.ToMM(); !almost(got, c.want) {
			t.Fatalf("%+v.ToMM() = %v, want %v", c.in, got, c.want)
		}
	}
}

func TestLengthToPT(t *testing.T) {
	l := Length{Value: 10, Unit: UnitPT}
	if got := l.ToPT(); !almost(got, 10) {
		t.Fatalf("pt round trip = %v", got)
	}
	mm := Length{Value: 3.52777, Unit: UnitMM}
	if got := mm.ToPT(); !almost(got, 10) {
		t.Fatalf("mm to pt = %v, want 10", got)
	}
}
