package sdfx

import (
	"math"
	"testing"

	"github.com/chazu/brep/pkg/geom"
	"github.com/chazu/brep/pkg/kernel"
	"github.com/chazu/brep/pkg/topo"
	v3 "github.com/deadsy/sdfx/vec/v3"
	"github.com/stretchr/testify/require"
)

// squareFace returns a square face of side s centered on the Z axis at
// height z, optionally with a circular hole of radius hole.
func squareFace(t *testing.T, s, z, hole float64) topo.Shape {
	t.Helper()
	h := s / 2
	pts := []v3.Vec{{X: -h, Y: -h}, {X: h, Y: -h}, {X: h, Y: h}, {X: -h, Y: h}}
	verts := make([]topo.Shape, len(pts))
	for i, p := range pts {
		verts[i] = topo.MakeVertex(p)
	}
	var b topo.WireBuilder
	for i := range pts {
		seg, err := geom.Segment(pts[i], pts[(i+1)%len(pts)])
		require.NoError(t, err)
		e, err := topo.MakeEdge(seg, verts[i], verts[(i+1)%len(pts)])
		require.NoError(t, err)
		require.NoError(t, b.Add(e))
	}
	outer, err := b.Wire()
	require.NoError(t, err)

	var inners []topo.Shape
	if hole > 0 {
		e, err := topo.MakeEdgeFromCurve(geom.FullCircle(v3.Vec{}, hole))
		require.NoError(t, err)
		w, err := topo.MakeWire(e)
		require.NoError(t, err)
		inners = append(inners, w)
	}
	f, err := topo.MakeFace(geom.XY(0), outer, inners...)
	require.NoError(t, err)
	if z != 0 {
		f = f.Moved(geom.Translation(v3.Vec{Z: z}))
	}
	return f
}

// requireInside checks membership of each point.
func requireInside(t *testing.T, k *SdfxKernel, s topo.Shape, want bool, pts ...v3.Vec) {
	t.Helper()
	for _, p := range pts {
		got, err := k.Contains(s, p)
		require.NoError(t, err)
		require.Equal(t, want, got, "point %v", p)
	}
}

func bounds(t *testing.T, s topo.Shape) (min, max [3]float64) {
	t.Helper()
	b, _, err := kernel.Body(s)
	require.NoError(t, err)
	return b.BoundingBox()
}

func TestPrism(t *testing.T) {
	k := New()
	solid, err := k.Prism(squareFace(t, 10, 0, 0), 5)
	require.NoError(t, err)
	require.Equal(t, topo.Solid, solid.Kind())
	require.Zero(t, solid.NumChildren())

	requireInside(t, k, solid, true, v3.Vec{Z: 2.5}, v3.Vec{X: 4.5, Y: -4.5, Z: 0.5})
	requireInside(t, k, solid, false, v3.Vec{Z: 6}, v3.Vec{Z: -1}, v3.Vec{X: 6, Z: 2.5})

	min, max := bounds(t, solid)
	const tol = 0.01
	require.InDelta(t, 0, min[2], tol)
	require.InDelta(t, 5, max[2], tol)
	require.InDelta(t, -5, min[0], tol)
	require.InDelta(t, 5, max[0], tol)
}

func TestPrismWithHoleAndPlacement(t *testing.T) {
	k := New()
	solid, err := k.Prism(squareFace(t, 10, 3, 2), 4)
	require.NoError(t, err)
	requireInside(t, k, solid, false, v3.Vec{Z: 5}, v3.Vec{X: 4, Y: 4, Z: 2})
	requireInside(t, k, solid, true, v3.Vec{X: 4, Y: 4, Z: 5})

	down, err := k.Prism(squareFace(t, 10, 0, 0), -2)
	require.NoError(t, err)
	requireInside(t, k, down, true, v3.Vec{Z: -1})
	requireInside(t, k, down, false, v3.Vec{Z: 1})
}

func TestPrismErrors(t *testing.T) {
	k := New()
	f := squareFace(t, 10, 0, 0)

	_, err := k.Prism(f, 0)
	require.ErrorIs(t, err, kernel.ErrInvalidParameter)

	w, err := topo.OuterWire(f)
	require.NoError(t, err)
	_, err = k.Prism(w, 1)
	require.ErrorIs(t, err, kernel.ErrUnsupportedFace)

	tilted := f.Moved(geom.Rotation(v3.Vec{X: 1}, math.Pi/2))
	_, err = k.Prism(tilted, 1)
	require.ErrorIs(t, err, kernel.ErrUnsupportedFace)
}

func TestFillet(t *testing.T) {
	k := New()
	cube, err := k.Prism(squareFace(t, 10, 0, 0), 10)
	require.NoError(t, err)

	// Just inside the top edge along X.
	edge := v3.Vec{Y: 4.8, Z: 9.8}
	requireInside(t, k, cube, true, edge)

	rounded, err := k.Fillet(cube, 2)
	require.NoError(t, err)
	// Cap edges and sweep edges are both rounded; faces stay where they were.
	requireInside(t, k, rounded, false, edge, v3.Vec{X: 4.8, Y: 4.8, Z: 5})
	requireInside(t, k, rounded, true,
		v3.Vec{Z: 5}, v3.Vec{Y: 4.8, Z: 5}, v3.Vec{X: -4.8, Z: 5}, v3.Vec{Z: 9.8}, v3.Vec{Z: 0.2})
	requireInside(t, k, rounded, false, v3.Vec{Y: 5.2, Z: 5}, v3.Vec{Z: 10.2})

	cubeMin, cubeMax := bounds(t, cube)
	min, max := bounds(t, rounded)
	for i := range 3 {
		require.InDelta(t, cubeMin[i], min[i], 1e-9, "min[%d]", i)
		require.InDelta(t, cubeMax[i], max[i], 1e-9, "max[%d]", i)
	}

	_, err = k.Fillet(cube, 5)
	require.ErrorIs(t, err, kernel.ErrInvalidParameter, "radius reaching the inradius")
	thin, err := k.Prism(squareFace(t, 10, 0, 0), 1)
	require.NoError(t, err)
	_, err = k.Fillet(thin, 0.6)
	require.ErrorIs(t, err, kernel.ErrInvalidParameter, "radius over half the height")

	moved, err := k.Fillet(cube.Moved(geom.Translation(v3.Vec{X: 100})), 2)
	require.NoError(t, err)
	requireInside(t, k, moved, true, v3.Vec{X: 100, Z: 5})

	_, err = k.Fillet(cube, 0)
	require.ErrorIs(t, err, kernel.ErrInvalidParameter)

	cyl, err := k.Cylinder(v3.Vec{}, v3.Vec{Z: 1}, 1, 1)
	require.NoError(t, err)
	_, err = k.Fillet(cyl, 0.1)
	require.ErrorIs(t, err, kernel.ErrUnsupportedSolid)
}

func TestCylinder(t *testing.T) {
	k := New()
	cyl, err := k.Cylinder(v3.Vec{Y: -5}, v3.Vec{Y: 1}, 2, 10)
	require.NoError(t, err)
	requireInside(t, k, cyl, true, v3.Vec{}, v3.Vec{Y: 4.9}, v3.Vec{X: 1.5, Y: -4.5})
	requireInside(t, k, cyl, false, v3.Vec{Y: 5.5}, v3.Vec{X: 2.5}, v3.Vec{Y: -5.5})

	min, max := bounds(t, cyl)
	require.InDelta(t, -5, min[1], 0.01)
	require.InDelta(t, 5, max[1], 0.01)

	_, err = k.Cylinder(v3.Vec{}, v3.Vec{}, 1, 1)
	require.ErrorIs(t, err, kernel.ErrInvalidParameter)
	_, err = k.Cylinder(v3.Vec{}, v3.Vec{Z: 1}, -1, 1)
	require.ErrorIs(t, err, kernel.ErrInvalidParameter)
}

func TestFuse(t *testing.T) {
	k := New()
	a, err := k.Prism(squareFace(t, 10, 0, 0), 10)
	require.NoError(t, err)
	b, err := k.Cylinder(v3.Vec{Z: 10}, v3.Vec{Z: 1}, 2, 5)
	require.NoError(t, err)

	u, err := k.Fuse(a, b)
	require.NoError(t, err)
	requireInside(t, k, u, true, v3.Vec{Z: 5}, v3.Vec{Z: 14})
	requireInside(t, k, u, false, v3.Vec{X: 4, Z: 14})

	_, err = k.Fuse(a, squareFace(t, 1, 0, 0))
	require.ErrorIs(t, err, kernel.ErrNotBody)
}

func TestThickSolid(t *testing.T) {
	k := New()
	cube, err := k.Prism(squareFace(t, 10, 0, 0), 10)
	require.NoError(t, err)
	top := squareFace(t, 10, 10, 0)

	hollow, err := k.ThickSolid(cube, []topo.Shape{top}, -1)
	require.NoError(t, err)
	requireInside(t, k, hollow, false, v3.Vec{Z: 5}, v3.Vec{Z: 9.8})
	requireInside(t, k, hollow, true, v3.Vec{X: 4.5, Z: 5}, v3.Vec{Z: 0.5}, v3.Vec{X: 4.5, Z: 9.8})

	closed, err := k.ThickSolid(cube, nil, 1)
	require.NoError(t, err)
	requireInside(t, k, closed, true, v3.Vec{Z: 9.5})
	requireInside(t, k, closed, false, v3.Vec{Z: 5})

	_, err = k.ThickSolid(cube, nil, 0)
	require.ErrorIs(t, err, kernel.ErrInvalidParameter)
}

func TestThread(t *testing.T) {
	k := New()
	th, err := k.Thread(v3.Vec{Z: 20}, 5, 10, 1)
	require.NoError(t, err)
	requireInside(t, k, th, true, v3.Vec{Z: 25})
	requireInside(t, k, th, false, v3.Vec{X: 6, Z: 25}, v3.Vec{Z: 35})

	min, max := bounds(t, th)
	require.InDelta(t, 20, min[2], 1)
	require.InDelta(t, 30, max[2], 1)

	_, err = k.Thread(v3.Vec{}, 5, 10, 0)
	require.ErrorIs(t, err, kernel.ErrInvalidParameter)
}

func TestBodyRejectsTopology(t *testing.T) {
	_, _, err := kernel.Body(squareFace(t, 1, 0, 0))
	require.ErrorIs(t, err, kernel.ErrNotBody)
	_, _, err = kernel.Body(topo.Shape{})
	require.ErrorIs(t, err, kernel.ErrNotBody)
}
