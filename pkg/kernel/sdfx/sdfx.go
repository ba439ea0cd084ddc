// Package sdfx implements the kernel.Kernel interface using the
// github.com/deadsy/sdfx SDF-based CAD library.
package sdfx

import (
	"fmt"
	"math"

	"github.com/chazu/brep/pkg/geom"
	"github.com/chazu/brep/pkg/kernel"
	"github.com/chazu/brep/pkg/topo"
	"github.com/deadsy/sdfx/sdf"
	v2 "github.com/deadsy/sdfx/vec/v2"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

// Compile-time interface check.
var _ kernel.Kernel = (*SdfxKernel)(nil)

// planeTolerance bounds how far a face normal may lean off the Z axis.
const planeTolerance = 1e-9

// sdfxSolid wraps an sdf.SDF3 to implement geom.Solid. Solids made by
// Prism remember their profile so that Fillet can rebuild them.
type sdfxSolid struct {
	s     sdf.SDF3
	prism *prismRecipe
}

// prismRecipe is a profile swept over [z, z+height] along +Z.
type prismRecipe struct {
	profile sdf.SDF2
	z       float64
	height  float64
}

// BoundingBox returns the axis-aligned bounding box.
func (s *sdfxSolid) BoundingBox() (min, max [3]float64) {
	bb := s.s.BoundingBox()
	min = [3]float64{bb.Min.X, bb.Min.Y, bb.Min.Z}
	max = [3]float64{bb.Max.X, bb.Max.Y, bb.Max.Z}
	return min, max
}

// SdfxKernel implements kernel.Kernel using sdfx.
type SdfxKernel struct{}

// New returns a new SdfxKernel.
func New() *SdfxKernel {
	return &SdfxKernel{}
}

// unwrap returns the SDF of a solid shape in the shape's reference frame.
func unwrap(s topo.Shape) (sdf.SDF3, error) {
	b, p, err := kernel.Body(s)
	if err != nil {
		return nil, err
	}
	sol, ok := b.(*sdfxSolid)
	if !ok {
		return nil, fmt.Errorf("%T: %w", b, kernel.ErrNotBody)
	}
	return placed(sol.s, p), nil
}

// wrap creates an opaque solid node from an sdf.SDF3.
func wrap(s sdf.SDF3) topo.Shape {
	return topo.MakeBody(&sdfxSolid{s: s})
}

// placed applies the placement p to s.
func placed(s sdf.SDF3, p geom.Placement) sdf.SDF3 {
	if p.IsIdentity() {
		return s
	}
	return sdf.Transform3D(s, p.Matrix())
}

// Prism sweeps a face lying in a plane parallel to XY. Inner wires become
// through holes. A negative height sweeps downwards.
func (k *SdfxKernel) Prism(face topo.Shape, height float64) (topo.Shape, error) {
	if height == 0 || math.IsNaN(height) {
		return topo.Shape{}, fmt.Errorf("sdfx: prism height %g: %w", height, kernel.ErrInvalidParameter)
	}
	profile, z, err := faceProfile(face, true)
	if err != nil {
		return topo.Shape{}, fmt.Errorf("sdfx: prism: %w", err)
	}
	r := &prismRecipe{profile: profile, z: z, height: math.Abs(height)}
	if height < 0 {
		r.z += height
	}
	s := sdf.Extrude3D(profile, r.height)
	m := sdf.Translate3d(v3.Vec{Z: r.z + r.height/2})
	return topo.MakeBody(&sdfxSolid{s: sdf.Transform3D(s, m), prism: r}), nil
}

// Fillet rounds every edge of a prism with the given radius. The profile is
// shrunk by radius before the rounded sweep so the result keeps the prism's
// outline and bounds. The radius must be less than the profile's inradius and
// half the prism height. Solids that did not come from Prism fail with
// kernel.ErrUnsupportedSolid.
func (k *SdfxKernel) Fillet(solid topo.Shape, radius float64) (topo.Shape, error) {
	if err := kernel.Positive("fillet radius", radius); err != nil {
		return topo.Shape{}, fmt.Errorf("sdfx: %w", err)
	}
	b, p, err := kernel.Body(solid)
	if err != nil {
		return topo.Shape{}, fmt.Errorf("sdfx: fillet: %w", err)
	}
	sol, ok := b.(*sdfxSolid)
	if !ok {
		return topo.Shape{}, fmt.Errorf("sdfx: fillet: %T: %w", b, kernel.ErrNotBody)
	}
	if sol.prism == nil {
		return topo.Shape{}, fmt.Errorf("sdfx: fillet: %w", kernel.ErrUnsupportedSolid)
	}
	r := sol.prism
	if in := inradius(r.profile); radius >= in {
		return topo.Shape{}, fmt.Errorf("sdfx: fillet radius %g exceeds profile inradius %g: %w",
			radius, in, kernel.ErrInvalidParameter)
	}
	if 2*radius > r.height {
		return topo.Shape{}, fmt.Errorf("sdfx: fillet radius %g exceeds half the height %g: %w",
			radius, r.height, kernel.ErrInvalidParameter)
	}
	s, err := sdf.ExtrudeRounded3D(sdf.Offset2D(r.profile, -radius), r.height, radius)
	if err != nil {
		return topo.Shape{}, fmt.Errorf("sdfx: fillet: %w", err)
	}
	s = sdf.Transform3D(s, sdf.Translate3d(v3.Vec{Z: r.z + r.height/2}))
	return wrap(placed(s, p)), nil
}

// inradiusSamples is the grid resolution per axis used by inradius.
const inradiusSamples = 64

// inradius estimates the radius of the largest disc inside a profile by
// sampling its distance field over the bounding box.
func inradius(profile sdf.SDF2) float64 {
	bb := profile.BoundingBox()
	size := bb.Size()
	best := 0.0
	for i := 0; i <= inradiusSamples; i++ {
		for j := 0; j <= inradiusSamples; j++ {
			p := v2.Vec{
				X: bb.Min.X + size.X*float64(i)/inradiusSamples,
				Y: bb.Min.Y + size.Y*float64(j)/inradiusSamples,
			}
			best = max(best, -profile.Evaluate(p))
		}
	}
	return best
}

// Fuse returns the union of two solids.
func (k *SdfxKernel) Fuse(a, b topo.Shape) (topo.Shape, error) {
	sa, err := unwrap(a)
	if err != nil {
		return topo.Shape{}, fmt.Errorf("sdfx: fuse: %w", err)
	}
	sb, err := unwrap(b)
	if err != nil {
		return topo.Shape{}, fmt.Errorf("sdfx: fuse: %w", err)
	}
	return wrap(sdf.Union3D(sa, sb)), nil
}

// Cylinder creates a cylinder whose bottom disc is centered on base.
func (k *SdfxKernel) Cylinder(base, axis v3.Vec, radius, height float64) (topo.Shape, error) {
	if err := kernel.Positive("cylinder radius", radius); err != nil {
		return topo.Shape{}, fmt.Errorf("sdfx: %w", err)
	}
	if err := kernel.Positive("cylinder height", height); err != nil {
		return topo.Shape{}, fmt.Errorf("sdfx: %w", err)
	}
	l := axis.Length()
	if l < planeTolerance {
		return topo.Shape{}, fmt.Errorf("sdfx: cylinder axis: %w", kernel.ErrInvalidParameter)
	}
	a := axis.DivScalar(l)

	s, err := sdf.Cylinder3D(height, radius, 0)
	if err != nil {
		return topo.Shape{}, fmt.Errorf("sdfx: cylinder: %w", err)
	}
	m := sdf.Translate3d(base.Add(a.MulScalar(height / 2))).Mul(alignZ(a))
	return wrap(sdf.Transform3D(s, m)), nil
}

// ThickSolid hollows the solid inwards, leaving walls of |thickness|. The
// cap under each opening face is cut away, keeping the side walls.
func (k *SdfxKernel) ThickSolid(solid topo.Shape, openings []topo.Shape, thickness float64) (topo.Shape, error) {
	t := math.Abs(thickness)
	if err := kernel.Positive("thickness", t); err != nil {
		return topo.Shape{}, fmt.Errorf("sdfx: %w", err)
	}
	s, err := unwrap(solid)
	if err != nil {
		return topo.Shape{}, fmt.Errorf("sdfx: thick solid: %w", err)
	}

	shell := sdf.Difference3D(s, sdf.Offset3D(s, -t))
	for i, f := range openings {
		profile, z, err := faceProfile(f, false)
		if err != nil {
			return topo.Shape{}, fmt.Errorf("sdfx: thick solid: opening %d: %w", i, err)
		}
		cut := sdf.Extrude3D(sdf.Offset2D(profile, -t), 3*t)
		shell = sdf.Difference3D(shell, sdf.Transform3D(cut, sdf.Translate3d(v3.Vec{Z: z})))
	}
	return wrap(shell), nil
}

// Thread returns an ISO external thread of the given major radius.
func (k *SdfxKernel) Thread(base v3.Vec, radius, height, pitch float64) (topo.Shape, error) {
	for _, p := range []struct {
		name string
		v    float64
	}{{"thread radius", radius}, {"thread height", height}, {"thread pitch", pitch}} {
		if err := kernel.Positive(p.name, p.v); err != nil {
			return topo.Shape{}, fmt.Errorf("sdfx: %w", err)
		}
	}
	profile, err := sdf.ISOThread(radius, pitch, true)
	if err != nil {
		return topo.Shape{}, fmt.Errorf("sdfx: thread profile: %w", err)
	}
	s, err := sdf.Screw3D(profile, height, 0, pitch, 1)
	if err != nil {
		return topo.Shape{}, fmt.Errorf("sdfx: thread: %w", err)
	}
	m := sdf.Translate3d(base.Add(v3.Vec{Z: height / 2}))
	return wrap(sdf.Transform3D(s, m)), nil
}

// Contains reports whether p lies inside or on the solid.
func (k *SdfxKernel) Contains(solid topo.Shape, p v3.Vec) (bool, error) {
	s, err := unwrap(solid)
	if err != nil {
		return false, err
	}
	return s.Evaluate(p) <= 0, nil
}

// faceProfile returns the 2D region of a face parallel to XY and the height
// of its plane. With holes, inner wires are subtracted.
func faceProfile(face topo.Shape, holes bool) (sdf.SDF2, float64, error) {
	if face.Kind() != topo.Face {
		return nil, 0, fmt.Errorf("%s: %w", face, kernel.ErrUnsupportedFace)
	}
	plane, ok := face.Geometry().(geom.Plane)
	if !ok {
		return nil, 0, fmt.Errorf("%s is not planar: %w", face, kernel.ErrUnsupportedFace)
	}
	n := face.Placement().ApplyVector(plane.Normal)
	if math.Abs(n.X) > planeTolerance || math.Abs(n.Y) > planeTolerance {
		return nil, 0, fmt.Errorf("%s is not parallel to XY: %w", face, kernel.ErrUnsupportedFace)
	}
	z := face.Placement().Apply(plane.Origin).Z

	outer, err := topo.OuterWire(face)
	if err != nil {
		return nil, 0, err
	}
	profile, err := wireProfile(outer)
	if err != nil {
		return nil, 0, err
	}
	if !holes {
		return profile, z, nil
	}
	inner, err := topo.InnerWires(face)
	if err != nil {
		return nil, 0, err
	}
	for _, w := range inner {
		hole, err := wireProfile(w)
		if err != nil {
			return nil, 0, err
		}
		profile = sdf.Difference2D(profile, hole)
	}
	return profile, z, nil
}

// wireProfile projects a wire's polygon onto XY.
func wireProfile(w topo.Shape) (sdf.SDF2, error) {
	pts, err := topo.WirePolygon(w)
	if err != nil {
		return nil, err
	}
	if len(pts) < 3 {
		return nil, fmt.Errorf("%s has %d distinct points: %w", w, len(pts), kernel.ErrUnsupportedFace)
	}
	poly := make([]v2.Vec, len(pts))
	for i, p := range pts {
		poly[i] = v2.Vec{X: p.X, Y: p.Y}
	}
	return sdf.Polygon2D(poly)
}

// alignZ returns a rotation taking +Z onto the unit vector a.
func alignZ(a v3.Vec) sdf.M44 {
	z := v3.Vec{Z: 1}
	c := z.Dot(a)
	switch {
	case c > 1-planeTolerance:
		return sdf.Identity3d()
	case c < -1+planeTolerance:
		return sdf.RotateX(math.Pi)
	}
	return sdf.Rotate3d(z.Cross(a).Normalize(), math.Acos(c))
}
