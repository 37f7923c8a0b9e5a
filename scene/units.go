package scene

import (
	"strconv"
	"strings"
)

// Unit tags the unit a length value was written in.
type Unit int

const (
	UnitNone Unit = iota // unit-less numbers
	UnitMM
	UnitCM
	UnitIN
	UnitPT
)

// Conversion constants between pt and mm.
const (
	PtToMm = 0.352777
	MmToPt = 1.0 / PtToMm
)

// String returns the short suffix for a Unit.
func (u Unit) String() string {
	switch u {
	case UnitMM:
		return "mm"
	case UnitCM:
		return "cm"
	case UnitIN:
		return "in"
	case UnitPT:
		return "pt"
	default:
		return ""
	}
}

// Length preserves a numeric value with its unit.
type Length struct {
	Value float64 `json:"value"`
	Unit  Unit    `json:"unit"`
}

func (l Length) IsZero() bool { return l.Value == 0 }

// To converts the length to the target unit. Supported targets are UnitMM
// and UnitPT; unit-less values pass through numerically.
func (l Length) To(target Unit) float64 {
	mm := l.Value
	switch l.Unit {
	case UnitMM:
	case UnitCM:
		mm = l.Value * 10
	case UnitIN:
		mm = l.Value * 25.4
	case UnitPT:
		if target == UnitPT {
			return l.Value
		}
		mm = l.Value * PtToMm
	case UnitNone:
		return l.Value
	}
	if target == UnitPT {
		return mm * MmToPt
	}
	return mm
}

func (l Length) ToMM() float64 { return l.To(UnitMM) }
func (l Length) ToPT() float64 { return l.To(UnitPT) }

// ParseLength parses a length string like "12pt" or "30mm", preserving the
// unit. A bare number yields UnitNone; garbage yields a zero length.
func ParseLength(value string) Length {
	v := strings.TrimSpace(strings.ToLower(value))
	if v == "" {
		return Length{}
	}
	unit := UnitNone
	num := v
	for _, suf := range []struct {
		s string
		u Unit
	}{{"mm", UnitMM}, {"cm", UnitCM}, {"in", UnitIN}, {"pt", UnitPT}} {
		if strings.HasSuffix(v, suf.s) {
			unit = suf.u
			num = strings.TrimSpace(strings.TrimSuffix(v, suf.s))
			break
		}
	}
	f, err := strconv.ParseFloat(num, 64)
	if err != nil {
		return Length{}
	}
	return Length{Value: f, Unit: unit}
}
