package geom

import (
	"errors"
	"math"

	v3 "github.com/deadsy/sdfx/vec/v3"
)

// ErrDegenerate is returned when construction points do not define a curve.
var ErrDegenerate = errors.New("geom: degenerate construction")

// Segment returns the straight segment from a to b, parameterized by arc
// length on the underlying line.
func Segment(a, b v3.Vec) (TrimmedCurve, error) {
	d := b.Sub(a)
	l := d.Length()
	if l <= DefaultTolerance {
		return TrimmedCurve{}, ErrDegenerate
	}
	return TrimmedCurve{
		Basis: Line{Origin: a, Dir: d.DivScalar(l)},
		U0:    0,
		U1:    l,
	}, nil
}

// ArcThrough returns the circular arc starting at p1, passing through p2 and
// ending at p3.
func ArcThrough(p1, p2, p3 v3.Vec) (TrimmedCurve, error) {
	a := p1.Sub(p3)
	b := p2.Sub(p3)
	axb := a.Cross(b)
	den := 2 * axb.Dot(axb)
	if den <= DefaultTolerance*DefaultTolerance {
		return TrimmedCurve{}, ErrDegenerate
	}
	center := p3.Add(b.MulScalar(a.Dot(a)).Sub(a.MulScalar(b.Dot(b))).Cross(axb).DivScalar(den))

	// Walking p1 -> p2 -> p3 turns counterclockwise about this normal.
	normal := p2.Sub(p1).Cross(p3.Sub(p2)).Normalize()
	xdir := p1.Sub(center)
	radius := xdir.Length()
	xdir = xdir.DivScalar(radius)

	c := Circle{Center: center, Normal: normal, XDir: xdir, Radius: radius}
	return TrimmedCurve{Basis: c, U0: 0, U1: c.angle(p3)}, nil
}

// FullCircle returns a circle of the given radius in the XY plane at center.
func FullCircle(center v3.Vec, radius float64) Circle {
	return Circle{
		Center: center,
		Normal: v3.Vec{Z: 1},
		XDir:   v3.Vec{X: 1},
		Radius: radius,
	}
}

// angle returns the parameter of the point on c closest to p, in [0, 2π).
func (c Circle) angle(p v3.Vec) float64 {
	d := p.Sub(c.Center)
	y := c.Normal.Cross(c.XDir)
	u := math.Atan2(d.Dot(y), d.Dot(c.XDir))
	if u < 0 {
		u += 2 * math.Pi
	}
	return u
}
