package geometry

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

var sqrt3 = math.Sqrt(3)

// S returns the implicit third cube coordinate.
func (h Hex) S() int {
	return -h.Q - h.R
}

// Add returns the component-wise sum of h and d.
func (h Hex) Add(d Hex) Hex {
	return Hex{Q: h.Q + d.Q, R: h.R + d.R}
}

// String renders h as "q,r", the key format used on the wire.
func (h Hex) String() string {
	return strconv.Itoa(h.Q) + "," + strconv.Itoa(h.R)
}

// ParseHex is the inverse of Hex.String.
func ParseHex(s string) (Hex, error) {
	qs, rs, ok := strings.Cut(s, ",")
	if !ok {
		return Hex{}, fmt.Errorf("invalid hex key %q", s)
	}
	q, err := strconv.Atoi(strings.TrimSpace(qs))
	if err != nil {
		return Hex{}, fmt.Errorf("invalid hex key %q: %w", s, err)
	}
	r, err := strconv.Atoi(strings.TrimSpace(rs))
	if err != nil {
		return Hex{}, fmt.Errorf("invalid hex key %q: %w", s, err)
	}
	return Hex{Q: q, R: r}, nil
}

// Distance is the hex step count between a and b.
func Distance(a, b Hex) int {
	dq := a.Q - b.Q
	dr := a.R - b.R
	return (abs(dq) + abs(dq+dr) + abs(dr)) / 2
}

// RoundFractional rounds a fractional axial coordinate to the nearest cell.
// The axis with the largest rounding error is recomputed from the other two
// so that q+r+s stays zero.
func RoundFractional(fq, fr float64) Hex {
	fs := -fq - fr
	q := math.Round(fq)
	r := math.Round(fr)
	s := math.Round(fs)

	dq := math.Abs(q - fq)
	dr := math.Abs(r - fr)
	ds := math.Abs(s - fs)

	if dq > dr && dq > ds {
		q = -r - s
	} else if dr > ds {
		r = -q - s
	}
	return Hex{Q: int(q), R: int(r)}
}

// ToPixel returns the center of h.
func (l Layout) ToPixel(h Hex) Point {
	q, r := float64(h.Q), float64(h.R)
	return Point{
		X: l.Size * (sqrt3*q + sqrt3/2*r),
		Y: l.Size * 1.5 * r,
	}
}

// FromPixel returns the hex containing p.
func (l Layout) FromPixel(p Point) Hex {
	fq := (sqrt3/3*p.X - p.Y/3) / l.Size
	fr := (2.0 / 3 * p.Y) / l.Size
	return RoundFractional(fq, fr)
}

// Corners returns the six corner points of h, starting at 30 degrees.
func (l Layout) Corners(h Hex) [6]Point {
	c := l.ToPixel(h)
	var out [6]Point
	for i := range out {
		a := math.Pi / 180 * float64(30+60*i)
		out[i] = Point{X: c.X + l.Size*math.Cos(a), Y: c.Y + l.Size*math.Sin(a)}
	}
	return out
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
