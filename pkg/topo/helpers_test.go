package topo

import (
	"testing"

	"github.com/chazu/brep/pkg/geom"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

// polyEdges returns edges joining pts in order, sharing vertices between
// consecutive edges. If closed, a last edge returns to the first vertex.
func polyEdges(t *testing.T, closed bool, pts ...v3.Vec) []Shape {
	t.Helper()
	verts := make([]Shape, len(pts))
	for i, p := range pts {
		verts[i] = MakeVertex(p)
	}
	n := len(pts) - 1
	if closed {
		n = len(pts)
	}
	edges := make([]Shape, 0, n)
	for i := 0; i < n; i++ {
		j := (i + 1) % len(pts)
		seg, err := geom.Segment(pts[i], pts[j])
		if err != nil {
			t.Fatalf("segment %d: %v", i, err)
		}
		e, err := MakeEdge(seg, verts[i], verts[j])
		if err != nil {
			t.Fatalf("edge %d: %v", i, err)
		}
		edges = append(edges, e)
	}
	return edges
}

// squareWire returns a closed square wire of side s centered on the origin.
func squareWire(t *testing.T, s float64) Shape {
	t.Helper()
	h := s / 2
	w, err := MakeWire(polyEdges(t, true,
		v3.Vec{X: -h, Y: -h}, v3.Vec{X: h, Y: -h}, v3.Vec{X: h, Y: h}, v3.Vec{X: -h, Y: h})...)
	if err != nil {
		t.Fatalf("square wire: %v", err)
	}
	return w
}

// circleWire returns a one-edge circular wire.
func circleWire(t *testing.T, center v3.Vec, r float64) Shape {
	t.Helper()
	e, err := MakeEdgeFromCurve(geom.FullCircle(center, r))
	if err != nil {
		t.Fatalf("circle edge: %v", err)
	}
	w, err := MakeWire(e)
	if err != nil {
		t.Fatalf("circle wire: %v", err)
	}
	return w
}

// mustFace builds a face in the XY plane.
func mustFace(t *testing.T, outer Shape, inners ...Shape) Shape {
	t.Helper()
	f, err := MakeFace(geom.XY(0), outer, inners...)
	if err != nil {
		t.Fatalf("face: %v", err)
	}
	return f
}

// ids maps shapes to their node IDs for order comparisons.
func ids(shapes []Shape) []string {
	out := make([]string, len(shapes))
	for i, s := range shapes {
		out[i] = s.TShape().ID().String()
	}
	return out
}
