package topo

import (
	"fmt"
	"math"
	"slices"

	"github.com/chazu/brep/pkg/geom"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

// Make creates a node of the given kind from a payload and child references.
// Null children are rejected; children of the wrong kind fail with a
// StructuralTypeError.
func Make(kind Kind, g geom.Geometry, children ...Shape) (Shape, error) {
	if kind <= KindNull || kind > Compound {
		return Shape{}, fmt.Errorf("topo: invalid kind %d", int(kind))
	}
	for i, c := range children {
		if c.IsNull() {
			return Shape{}, fmt.Errorf("topo: %s child %d: %w", kind, i, ErrNullShape)
		}
		if !allowedChild(kind, c.Kind()) {
			return Shape{}, &StructuralTypeError{Parent: kind, Child: c.Kind(), Index: i}
		}
	}
	return Shape{t: newTShape(kind, g, slices.Clone(children))}, nil
}

// MakeVertex creates a vertex at p.
func MakeVertex(p v3.Vec) Shape {
	return Shape{t: newTShape(Vertex, geom.Point{Pos: p}, nil)}
}

// MakeEdge creates an edge along c from v1 to v2. The curve must be bounded.
// Pass the same vertex twice for a closed edge.
func MakeEdge(c geom.Curve, v1, v2 Shape) (Shape, error) {
	if c == nil {
		return Shape{}, fmt.Errorf("topo: edge needs a curve")
	}
	if !geom.IsBounded(c) {
		return Shape{}, fmt.Errorf("topo: edge curve %s is unbounded", c.Kind())
	}
	if err := expectKind(v1, Vertex); err != nil {
		return Shape{}, fmt.Errorf("topo: edge start: %w", err)
	}
	if err := expectKind(v2, Vertex); err != nil {
		return Shape{}, fmt.Errorf("topo: edge end: %w", err)
	}
	return Make(Edge, c, v1.Oriented(Forward), v2.Oriented(Reversed))
}

// MakeEdgeFromCurve creates an edge along c with new vertices at the ends of
// its domain. A closed curve gets a single vertex used at both ends.
func MakeEdgeFromCurve(c geom.Curve) (Shape, error) {
	if c == nil || !geom.IsBounded(c) {
		return Shape{}, fmt.Errorf("topo: edge curve must be bounded")
	}
	u0, u1 := c.Domain()
	p0, p1 := c.Point(u0), c.Point(u1)
	v0 := MakeVertex(p0)
	v1 := v0
	if p0.Sub(p1).Length() > geom.DefaultTolerance {
		v1 = MakeVertex(p1)
	}
	return MakeEdge(c, v0, v1)
}

// MakeWire chains edges into a wire with a WireBuilder.
func MakeWire(edges ...Shape) (Shape, error) {
	var b WireBuilder
	for _, e := range edges {
		if err := b.Add(e); err != nil {
			return Shape{}, err
		}
	}
	return b.Wire()
}

// MakeFace creates a face on surface s bounded by outer with optional holes.
func MakeFace(s geom.Surface, outer Shape, inners ...Shape) (Shape, error) {
	if s == nil {
		return Shape{}, fmt.Errorf("topo: face needs a surface")
	}
	wires := append([]Shape{outer}, inners...)
	return Make(Face, s, wires...)
}

// MakeShell groups faces into a shell.
func MakeShell(faces ...Shape) (Shape, error) {
	return Make(Shell, nil, faces...)
}

// MakeSolid groups shells into a solid.
func MakeSolid(shells ...Shape) (Shape, error) {
	return Make(Solid, nil, shells...)
}

// MakeBody wraps a kernel solid as an opaque solid node.
func MakeBody(s geom.Solid) Shape {
	return Shape{t: newTShape(Solid, geom.Body{Solid: s}, nil)}
}

// ---------------------------------------------------------------------------
// Wire builder
// ---------------------------------------------------------------------------

// WireBuilder chains edges into a wire. Each added edge is attached at the
// free end of the chain or, failing that, in front of its start, and is
// reversed when needed. The zero value is ready to use.
type WireBuilder struct {
	edges      []Shape
	head, tail Shape // free start and end vertices of the chain
}

// Add attaches an edge to the chain.
func (b *WireBuilder) Add(edge Shape) error {
	if err := expectKind(edge, Edge); err != nil {
		return fmt.Errorf("topo: wire builder: %w", err)
	}
	first, last, err := EdgeVertices(edge)
	if err != nil {
		return fmt.Errorf("topo: wire builder: %w", err)
	}

	switch {
	case len(b.edges) == 0:
		b.edges = append(b.edges, edge)
		b.head, b.tail = first, last
	case meets(b.tail, first):
		b.edges = append(b.edges, edge)
		b.tail = last
	case meets(b.tail, last):
		b.edges = append(b.edges, edge.Reversed())
		b.tail = first
	case meets(b.head, last):
		b.edges = slices.Insert(b.edges, 0, edge)
		b.head = first
	case meets(b.head, first):
		b.edges = slices.Insert(b.edges, 0, edge.Reversed())
		b.head = last
	default:
		return fmt.Errorf("topo: wire builder: edge %d: %w", len(b.edges), ErrDisconnected)
	}
	return nil
}

// AddWire attaches every edge of w in walking order.
func (b *WireBuilder) AddWire(w Shape) error {
	if err := expectKind(w, Wire); err != nil {
		return fmt.Errorf("topo: wire builder: %w", err)
	}
	edges, err := wireEdges(w)
	if err != nil {
		return fmt.Errorf("topo: wire builder: %w", err)
	}
	for _, e := range edges {
		if err := b.Add(e); err != nil {
			return err
		}
	}
	return nil
}

// Wire returns the wire built so far.
func (b *WireBuilder) Wire() (Shape, error) {
	if len(b.edges) == 0 {
		return Shape{}, ErrEmptyWire
	}
	return Make(Wire, nil, b.edges...)
}

// ---------------------------------------------------------------------------
// Compound builder
// ---------------------------------------------------------------------------

// CompoundBuilder collects shapes for a compound. Callers own the value and
// pass it along; nothing is shared between builders.
type CompoundBuilder struct {
	children []Shape
}

// Add appends shapes, skipping null ones.
func (b *CompoundBuilder) Add(shapes ...Shape) *CompoundBuilder {
	for _, s := range shapes {
		if !s.IsNull() {
			b.children = append(b.children, s)
		}
	}
	return b
}

// Len returns the number of collected shapes.
func (b *CompoundBuilder) Len() int { return len(b.children) }

// Compound returns a new compound of the collected shapes. The builder can
// keep collecting afterwards without affecting the result.
func (b *CompoundBuilder) Compound() Shape {
	return Shape{t: newTShape(Compound, nil, slices.Clone(b.children))}
}

// ---------------------------------------------------------------------------
// Geometry-copying transform
// ---------------------------------------------------------------------------

// Transformed returns a copy of s with p applied to its geometry. Unlike
// Moved, the result shares no nodes with s: every payload is rewritten in
// place and every placement is folded in. Sharing inside s is preserved in
// the copy. Opaque bodies keep their payload and carry the transform as a
// placement instead.
func Transformed(s Shape, p geom.Placement) (Shape, error) {
	if s.IsNull() {
		return Shape{}, ErrNullShape
	}
	type key struct {
		t *TShape
		w geom.Placement
	}
	memo := make(map[key]Shape)

	var copyT func(t *TShape, world geom.Placement) Shape
	copyT = func(t *TShape, world geom.Placement) Shape {
		k := key{t, world}
		if out, ok := memo[k]; ok {
			return out
		}
		g, ok := geom.Transform(t.geometry, world)
		loc := geom.Identity()
		if !ok {
			g, loc = t.geometry, world
		}
		children := make([]Shape, len(t.children))
		for i, c := range t.children {
			// Children of an opaque node keep their frame relative to it.
			cw := world.Mul(c.loc)
			if !loc.IsIdentity() {
				cw = c.loc
			}
			children[i] = copyT(c.t, cw).Oriented(c.orient)
		}
		out := Shape{t: newTShape(t.kind, g, children), loc: loc}
		memo[k] = out
		return out
	}

	return copyT(s.t, p.Mul(s.loc)).Oriented(s.orient), nil
}

// meets reports whether two vertices connect: the same vertex in the same
// place, or points coincident within tolerance.
func meets(a, b Shape) bool {
	if IsSame(a, b) {
		return true
	}
	pa, ta, err := vertexPoint(a)
	if err != nil {
		return false
	}
	pb, tb, err := vertexPoint(b)
	if err != nil {
		return false
	}
	return pa.Sub(pb).Length() <= math.Max(ta, tb)
}
