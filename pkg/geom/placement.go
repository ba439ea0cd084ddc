package geom

import (
	"math"

	"github.com/deadsy/sdfx/sdf"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

// placementTolerance bounds the per-entry difference between matrices
// treated as the same placement.
const placementTolerance = 1e-12

// Placement is a rigid affine transform together with its inverse. The zero
// value is the identity, and constructors and Mul return the zero value for
// any matrix within placementTolerance of the identity. Placements are
// comparable with ==; Equal allows for rounding.
type Placement struct {
	set bool
	m   sdf.M44
	inv sdf.M44
}

// Identity returns the identity placement.
func Identity() Placement { return Placement{} }

// NewPlacement wraps a transform matrix.
func NewPlacement(m sdf.M44) Placement {
	return normalized(m, m.Inverse())
}

func normalized(m, inv sdf.M44) Placement {
	if m.Equals(sdf.Identity3d(), placementTolerance) {
		return Placement{}
	}
	return Placement{set: true, m: m, inv: inv}
}

// Translation returns a placement that moves by v.
func Translation(v v3.Vec) Placement {
	return NewPlacement(sdf.Translate3d(v))
}

// Rotation returns a rotation by angle radians about axis through the origin.
func Rotation(axis v3.Vec, angle float64) Placement {
	return NewPlacement(sdf.Rotate3d(axis, angle))
}

// AxisMirror returns the symmetry about a line through the origin along axis,
// i.e. a half turn about it.
func AxisMirror(axis v3.Vec) Placement {
	return Rotation(axis, math.Pi)
}

// IsIdentity reports whether p is the identity.
func (p Placement) IsIdentity() bool { return !p.set }

// Matrix returns the transform matrix.
func (p Placement) Matrix() sdf.M44 {
	if !p.set {
		return sdf.Identity3d()
	}
	return p.m
}

// Mul returns the composition p·q: q is applied first.
func (p Placement) Mul(q Placement) Placement {
	if !p.set {
		return q
	}
	if !q.set {
		return p
	}
	return normalized(p.m.Mul(q.m), q.inv.Mul(p.inv))
}

// Equal reports whether p and q transform alike within placementTolerance.
func (p Placement) Equal(q Placement) bool {
	return p == q || p.Matrix().Equals(q.Matrix(), placementTolerance)
}

// Inverse returns the inverse placement.
func (p Placement) Inverse() Placement {
	if !p.set {
		return p
	}
	return Placement{set: true, m: p.inv, inv: p.m}
}

// Apply transforms a position.
func (p Placement) Apply(v v3.Vec) v3.Vec {
	if !p.set {
		return v
	}
	return p.m.MulPosition(v)
}

// ApplyVector transforms a direction; translation is ignored.
func (p Placement) ApplyVector(d v3.Vec) v3.Vec {
	if !p.set {
		return d
	}
	return p.m.MulPosition(d).Sub(p.m.MulPosition(v3.Vec{}))
}

// Transform returns g expressed after applying p. Opaque bodies cannot be
// rewritten and report false.
func Transform(g Geometry, p Placement) (Geometry, bool) {
	if p.IsIdentity() {
		return g, true
	}
	switch g := g.(type) {
	case nil:
		return nil, true
	case Point:
		g.Pos = p.Apply(g.Pos)
		return g, true
	case Line:
		g.Origin = p.Apply(g.Origin)
		g.Dir = p.ApplyVector(g.Dir)
		return g, true
	case Circle:
		g.Center = p.Apply(g.Center)
		g.Normal = p.ApplyVector(g.Normal)
		g.XDir = p.ApplyVector(g.XDir)
		return g, true
	case Ellipse:
		g.Center = p.Apply(g.Center)
		g.Normal = p.ApplyVector(g.Normal)
		g.XDir = p.ApplyVector(g.XDir)
		return g, true
	case TrimmedCurve:
		basis, ok := Transform(g.Basis, p)
		if !ok {
			return g, false
		}
		g.Basis = basis.(Curve)
		return g, true
	case BSpline:
		poles := make([]v3.Vec, len(g.Poles))
		for i, pole := range g.Poles {
			poles[i] = p.Apply(pole)
		}
		g.Poles = poles
		return g, true
	case Plane:
		g.Origin = p.Apply(g.Origin)
		g.Normal = p.ApplyVector(g.Normal)
		g.XDir = p.ApplyVector(g.XDir)
		return g, true
	case CylindricalSurface:
		g.Origin = p.Apply(g.Origin)
		g.Axis = p.ApplyVector(g.Axis)
		g.XDir = p.ApplyVector(g.XDir)
		return g, true
	case Body:
		return g, false
	}
	return g, false
}
