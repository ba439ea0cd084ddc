// Package geom defines the geometric payloads carried by topological shapes.
// Every payload is one of a closed set of variants; callers dispatch on the
// concrete type with a type switch instead of probing capabilities at runtime.
package geom

import (
	"math"

	v3 "github.com/deadsy/sdfx/vec/v3"
)

// Kind enumerates the geometry variants.
type Kind int

const (
	KindPoint    Kind = iota // vertex position
	KindLine                 // infinite line
	KindCircle               // full circle
	KindEllipse              // full ellipse
	KindTrimmed              // bounded portion of a basis curve
	KindBSpline              // clamped B-spline curve
	KindPlane                // infinite plane
	KindCylinder             // infinite cylindrical surface
	KindBody                 // opaque kernel solid
)

func (k Kind) String() string {
	switch k {
	case KindPoint:
		return "point"
	case KindLine:
		return "line"
	case KindCircle:
		return "circle"
	case KindEllipse:
		return "ellipse"
	case KindTrimmed:
		return "trimmed"
	case KindBSpline:
		return "bspline"
	case KindPlane:
		return "plane"
	case KindCylinder:
		return "cylinder"
	case KindBody:
		return "body"
	default:
		return "unknown"
	}
}

// Geometry is the payload of a topological node.
type Geometry interface {
	Kind() Kind
	geometry() // marker method restricting implementations to this package
}

// Curve is a parametric 3D curve.
type Curve interface {
	Geometry
	// Domain returns the parameter range. Unbounded curves return infinities.
	Domain() (u0, u1 float64)
	// Point evaluates the curve at parameter u.
	Point(u float64) v3.Vec
	curve()
}

// Surface is a parametric surface carried by a face.
type Surface interface {
	Geometry
	surface()
}

// Solid is an opaque solid produced by a geometry kernel.
type Solid interface {
	BoundingBox() (min, max [3]float64)
}

// DefaultTolerance is the distance under which two points are coincident.
const DefaultTolerance = 1e-7

// ---------------------------------------------------------------------------
// Point
// ---------------------------------------------------------------------------

// Point is the payload of a vertex.
type Point struct {
	Pos v3.Vec
	Tol float64 // 0 means DefaultTolerance
}

func (Point) Kind() Kind { return KindPoint }
func (Point) geometry()  {}

// Tolerance returns the effective tolerance of the point.
func (p Point) Tolerance() float64 {
	if p.Tol <= 0 {
		return DefaultTolerance
	}
	return p.Tol
}

// ---------------------------------------------------------------------------
// Curves
// ---------------------------------------------------------------------------

// Line is an infinite line through Origin along the unit vector Dir.
type Line struct {
	Origin v3.Vec
	Dir    v3.Vec
}

func (Line) Kind() Kind { return KindLine }
func (Line) geometry()  {}
func (Line) curve()     {}

func (l Line) Domain() (float64, float64) { return math.Inf(-1), math.Inf(1) }

func (l Line) Point(u float64) v3.Vec { return l.Origin.Add(l.Dir.MulScalar(u)) }

// Circle is a full circle. The parameter is the angle from XDir, measured
// counterclockwise about Normal.
type Circle struct {
	Center v3.Vec
	Normal v3.Vec
	XDir   v3.Vec
	Radius float64
}

func (Circle) Kind() Kind { return KindCircle }
func (Circle) geometry()  {}
func (Circle) curve()     {}

func (c Circle) Domain() (float64, float64) { return 0, 2 * math.Pi }

func (c Circle) Point(u float64) v3.Vec {
	y := c.Normal.Cross(c.XDir)
	return c.Center.Add(c.XDir.MulScalar(c.Radius * math.Cos(u))).Add(y.MulScalar(c.Radius * math.Sin(u)))
}

// WithRadius returns a copy of the circle with a different radius.
func (c Circle) WithRadius(r float64) Circle {
	c.Radius = r
	return c
}

// Ellipse is a full ellipse with the major axis along XDir.
type Ellipse struct {
	Center v3.Vec
	Normal v3.Vec
	XDir   v3.Vec
	Major  float64
	Minor  float64
}

func (Ellipse) Kind() Kind { return KindEllipse }
func (Ellipse) geometry()  {}
func (Ellipse) curve()     {}

func (e Ellipse) Domain() (float64, float64) { return 0, 2 * math.Pi }

func (e Ellipse) Point(u float64) v3.Vec {
	y := e.Normal.Cross(e.XDir)
	return e.Center.Add(e.XDir.MulScalar(e.Major * math.Cos(u))).Add(y.MulScalar(e.Minor * math.Sin(u)))
}

// TrimmedCurve bounds a basis curve to [U0, U1].
type TrimmedCurve struct {
	Basis Curve
	U0    float64
	U1    float64
}

func (TrimmedCurve) Kind() Kind { return KindTrimmed }
func (TrimmedCurve) geometry()  {}
func (TrimmedCurve) curve()     {}

func (t TrimmedCurve) Domain() (float64, float64) { return t.U0, t.U1 }

func (t TrimmedCurve) Point(u float64) v3.Vec { return t.Basis.Point(u) }

// ---------------------------------------------------------------------------
// Surfaces
// ---------------------------------------------------------------------------

// Plane is an infinite plane through Origin with unit Normal.
type Plane struct {
	Origin v3.Vec
	Normal v3.Vec
	XDir   v3.Vec
}

func (Plane) Kind() Kind { return KindPlane }
func (Plane) geometry()  {}
func (Plane) surface()   {}

// XY returns the plane z = height with the usual axes.
func XY(height float64) Plane {
	return Plane{
		Origin: v3.Vec{Z: height},
		Normal: v3.Vec{Z: 1},
		XDir:   v3.Vec{X: 1},
	}
}

// CylindricalSurface is an infinite cylinder about the axis through Origin.
type CylindricalSurface struct {
	Origin v3.Vec
	Axis   v3.Vec
	XDir   v3.Vec
	Radius float64
}

func (CylindricalSurface) Kind() Kind { return KindCylinder }
func (CylindricalSurface) geometry()  {}
func (CylindricalSurface) surface()   {}

// ---------------------------------------------------------------------------
// Body
// ---------------------------------------------------------------------------

// Body wraps a kernel solid so it can hang off a topological node.
type Body struct {
	Solid Solid
}

func (Body) Kind() Kind { return KindBody }
func (Body) geometry()  {}

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

// AsCircle reports whether c is a circle, either directly or as a trimmed
// portion of one, and returns the basis circle.
func AsCircle(c Curve) (Circle, bool) {
	switch c := c.(type) {
	case Circle:
		return c, true
	case TrimmedCurve:
		return AsCircle(c.Basis)
	case Line, Ellipse, BSpline:
		return Circle{}, false
	}
	return Circle{}, false
}

// IsBounded reports whether the curve has a finite parameter range.
func IsBounded(c Curve) bool {
	u0, u1 := c.Domain()
	return !math.IsInf(u0, 0) && !math.IsInf(u1, 0)
}

// Segments returns how many straight pieces approximate c well enough for
// area and polygon computations.
func Segments(c Curve) int {
	switch c := c.(type) {
	case Line:
		return 1
	case TrimmedCurve:
		return Segments(c.Basis)
	case BSpline:
		return 8 * len(c.Poles)
	case Circle, Ellipse:
		return 64
	}
	return 32
}

// Sample evaluates c at n+1 evenly spaced parameters over its domain.
// The curve must be bounded.
func Sample(c Curve, n int) []v3.Vec {
	if n < 1 {
		n = 1
	}
	u0, u1 := c.Domain()
	pts := make([]v3.Vec, 0, n+1)
	for i := 0; i <= n; i++ {
		u := u0 + (u1-u0)*float64(i)/float64(n)
		pts = append(pts, c.Point(u))
	}
	return pts
}

// Equal compares two payloads by value.
func Equal(a, b Geometry) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	if a.Kind() != b.Kind() {
		return false
	}
	switch a := a.(type) {
	case BSpline:
		return a.equal(b.(BSpline))
	case TrimmedCurve:
		bt := b.(TrimmedCurve)
		return a.U0 == bt.U0 && a.U1 == bt.U1 && Equal(a.Basis, bt.Basis)
	case Point, Line, Circle, Ellipse, Plane, CylindricalSurface, Body:
		return a == b
	}
	return false
}
