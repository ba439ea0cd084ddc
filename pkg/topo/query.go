package topo

import (
	"fmt"
	"math"
	"slices"

	"github.com/chazu/brep/pkg/geom"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

// VertexPoint returns the position of a vertex in its reference frame.
func VertexPoint(v Shape) (v3.Vec, error) {
	p, _, err := vertexPoint(v)
	return p, err
}

func vertexPoint(v Shape) (v3.Vec, float64, error) {
	if err := expectKind(v, Vertex); err != nil {
		return v3.Vec{}, 0, err
	}
	pt, ok := v.Geometry().(geom.Point)
	if !ok {
		return v3.Vec{}, 0, &StructuralTypeError{
			Parent: Vertex, Child: KindNull, Index: -1,
			Reason: fmt.Sprintf("vertex carries %T instead of a point", v.Geometry()),
		}
	}
	return v.loc.Apply(pt.Pos), pt.Tolerance(), nil
}

// EdgeVertices returns the start and end vertices of an edge, taking the
// edge's orientation into account.
func EdgeVertices(e Shape) (first, last Shape, err error) {
	if err := expectKind(e, Edge); err != nil {
		return Shape{}, Shape{}, err
	}
	var nf, nl int
	for i, v := range e.Children() {
		if v.Kind() != Vertex {
			return Shape{}, Shape{}, &StructuralTypeError{Parent: Edge, Child: v.Kind(), Index: i}
		}
		if v.orient == Forward {
			first = v
			nf++
		} else {
			last = v
			nl++
		}
	}
	if nf != 1 || nl != 1 {
		return Shape{}, Shape{}, &StructuralTypeError{
			Parent: Edge, Child: Vertex, Index: -1,
			Reason: fmt.Sprintf("edge needs one start and one end vertex, has %d and %d", nf, nl),
		}
	}
	return first, last, nil
}

// wireEdges returns the edges of a wire in walking order: child order for a
// forward wire, reverse child order for a reversed one. Indexes of non-edge
// children refer to child order.
func wireEdges(w Shape) ([]Shape, error) {
	edges := w.Children()
	for i, e := range edges {
		if e.Kind() != Edge {
			return nil, &StructuralTypeError{Parent: Wire, Child: e.Kind(), Index: i}
		}
	}
	if w.orient == Reversed {
		slices.Reverse(edges)
	}
	return edges, nil
}

// IsClosed reports whether the edges of a wire, in walking order and under
// their composed orientations, chain end to start and come back to the
// first vertex. An empty wire is open.
func IsClosed(w Shape) (bool, error) {
	if err := expectKind(w, Wire); err != nil {
		return false, err
	}
	edges, err := wireEdges(w)
	if err != nil {
		return false, err
	}
	if len(edges) == 0 {
		return false, nil
	}
	var start, prev Shape
	closed := true
	for i, e := range edges {
		first, last, err := EdgeVertices(e)
		if err != nil {
			return false, fmt.Errorf("edge %d: %w", i, err)
		}
		if i == 0 {
			start = first
		} else if !meets(prev, first) {
			closed = false
		}
		prev = last
	}
	return closed && meets(prev, start), nil
}

// edgePoints samples an edge in its reference frame, from its start vertex
// to its end vertex.
func edgePoints(e Shape) ([]v3.Vec, error) {
	first, last, err := EdgeVertices(e)
	if err != nil {
		return nil, err
	}
	var pts []v3.Vec
	if c, ok := e.Geometry().(geom.Curve); ok && geom.IsBounded(c) {
		for _, p := range geom.Sample(c, geom.Segments(c)) {
			pts = append(pts, e.loc.Apply(p))
		}
		if e.orient == Reversed {
			for i, j := 0, len(pts)-1; i < j; i, j = i+1, j-1 {
				pts[i], pts[j] = pts[j], pts[i]
			}
		}
		return pts, nil
	}
	// Without a curve the edge is the straight segment between its vertices.
	a, err := VertexPoint(first)
	if err != nil {
		return nil, err
	}
	b, err := VertexPoint(last)
	if err != nil {
		return nil, err
	}
	return []v3.Vec{a, b}, nil
}

// WirePolygon approximates a wire by a polygon in the wire's reference
// frame. Consecutive coincident points are merged and a closing point equal
// to the first is dropped.
func WirePolygon(w Shape) ([]v3.Vec, error) {
	if err := expectKind(w, Wire); err != nil {
		return nil, err
	}
	edges, err := wireEdges(w)
	if err != nil {
		return nil, err
	}
	var poly []v3.Vec
	for i, e := range edges {
		pts, err := edgePoints(e)
		if err != nil {
			return nil, fmt.Errorf("edge %d: %w", i, err)
		}
		for _, p := range pts {
			if len(poly) > 0 && p.Sub(poly[len(poly)-1]).Length() <= geom.DefaultTolerance {
				continue
			}
			poly = append(poly, p)
		}
	}
	if len(poly) > 1 && poly[0].Sub(poly[len(poly)-1]).Length() <= geom.DefaultTolerance {
		poly = poly[:len(poly)-1]
	}
	return poly, nil
}

// WireArea returns the area enclosed by a wire, using Newell's method on its
// polygon. An open wire is closed by the segment from its end to its start.
func WireArea(w Shape) (float64, error) {
	poly, err := WirePolygon(w)
	if err != nil {
		return 0, err
	}
	var n v3.Vec
	for i, p := range poly {
		q := poly[(i+1)%len(poly)]
		n = n.Add(p.Cross(q))
	}
	return n.Length() / 2, nil
}

// faceWires returns the direct wires of a face.
func faceWires(f Shape) ([]Shape, error) {
	if err := expectKind(f, Face); err != nil {
		return nil, err
	}
	wires := f.Children()
	for i, w := range wires {
		if w.Kind() != Wire {
			return nil, &StructuralTypeError{Parent: Face, Child: w.Kind(), Index: i}
		}
	}
	return wires, nil
}

// OuterWire returns the wire of a face that encloses the largest area. A
// face with a single wire returns it directly. A face without wires fails
// with an *AmbiguousTopologyError.
func OuterWire(f Shape) (Shape, error) {
	wires, err := faceWires(f)
	if err != nil {
		return Shape{}, err
	}
	switch len(wires) {
	case 0:
		return Shape{}, &AmbiguousTopologyError{Kind: Face, Reason: "face has no wires"}
	case 1:
		return wires[0], nil
	}

	best, bestArea := -1, math.Inf(-1)
	for i, w := range wires {
		a, err := WireArea(w)
		if err != nil {
			return Shape{}, fmt.Errorf("wire %d: %w", i, err)
		}
		if a > bestArea {
			best, bestArea = i, a
		}
	}
	return wires[best], nil
}

// InnerWires returns the wires of a face that are not partners of its outer
// wire, in child order.
func InnerWires(f Shape) ([]Shape, error) {
	outer, err := OuterWire(f)
	if err != nil {
		return nil, err
	}
	wires, err := faceWires(f)
	if err != nil {
		return nil, err
	}
	var inner []Shape
	for _, w := range wires {
		if !IsPartner(w, outer) {
			inner = append(inner, w)
		}
	}
	return inner, nil
}

// FirstCurve returns the curve of the first edge of a wire, expressed in the
// wire's reference frame.
func FirstCurve(w Shape) (geom.Curve, error) {
	if err := expectKind(w, Wire); err != nil {
		return nil, err
	}
	if w.NumChildren() == 0 {
		return nil, &AmbiguousTopologyError{Kind: Wire, Reason: "wire has no edges"}
	}
	e := w.Children()[0]
	if e.Kind() != Edge {
		return nil, &StructuralTypeError{Parent: Wire, Child: e.Kind(), Index: 0}
	}
	c, ok := e.Geometry().(geom.Curve)
	if !ok {
		return nil, &AmbiguousTopologyError{Kind: Edge, Reason: "edge has no curve"}
	}
	g, ok := geom.Transform(c, e.loc)
	if !ok {
		return nil, fmt.Errorf("topo: cannot place %s curve", c.Kind())
	}
	return g.(geom.Curve), nil
}
