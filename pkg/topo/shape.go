// Package topo implements the shape graph: an immutable DAG of vertices,
// edges, wires, faces, shells, solids and compounds with structural sharing.
//
// A TShape is the shared node. It owns the geometry payload and an ordered
// list of child references and is never modified after construction. A Shape
// is a reference to a TShape stamped with an orientation and a placement.
// Two shapes referencing the same TShape are partners.
package topo

import (
	"fmt"

	"github.com/chazu/brep/pkg/geom"
	"github.com/google/uuid"
)

// TShape is a shared, immutable node of the shape graph.
type TShape struct {
	id       uuid.UUID
	kind     Kind
	geometry geom.Geometry
	children []Shape
}

func newTShape(kind Kind, g geom.Geometry, children []Shape) *TShape {
	return &TShape{
		id:       uuid.New(),
		kind:     kind,
		geometry: g,
		children: children,
	}
}

// ID returns a tag unique to this node. It is informational; identity is
// pointer identity.
func (t *TShape) ID() uuid.UUID { return t.id }

// Kind returns the node kind.
func (t *TShape) Kind() Kind { return t.kind }

// Geometry returns the payload, which may be nil for pure containers.
func (t *TShape) Geometry() geom.Geometry { return t.geometry }

// NumChildren returns the number of child references.
func (t *TShape) NumChildren() int { return len(t.children) }

// Child returns the i-th child reference in the node's own frame.
func (t *TShape) Child(i int) Shape { return t.children[i] }

// WithChildren returns a new node with the same kind and geometry as t but
// the given children. The children are not checked against the kind.
func (t *TShape) WithChildren(children []Shape) *TShape {
	return newTShape(t.kind, t.geometry, children)
}

// Shape is a reference to a TShape. The zero value is the null shape.
// Shapes are small comparable values; == means the same node with the same
// orientation and placement.
type Shape struct {
	t      *TShape
	orient Orientation
	loc    geom.Placement
}

// IsNull reports whether s references no node.
func (s Shape) IsNull() bool { return s.t == nil }

// TShape returns the referenced node.
func (s Shape) TShape() *TShape { return s.t }

// Kind returns the kind of the referenced node, or KindNull.
func (s Shape) Kind() Kind {
	if s.t == nil {
		return KindNull
	}
	return s.t.kind
}

// Geometry returns the payload of the referenced node in the node's own
// frame; apply Placement to read it in the reference's frame.
func (s Shape) Geometry() geom.Geometry {
	if s.t == nil {
		return nil
	}
	return s.t.geometry
}

// Orientation returns the orientation of the reference.
func (s Shape) Orientation() Orientation { return s.orient }

// Placement returns the placement of the reference.
func (s Shape) Placement() geom.Placement { return s.loc }

// NumChildren returns the number of children of the referenced node.
func (s Shape) NumChildren() int {
	if s.t == nil {
		return 0
	}
	return len(s.t.children)
}

// Children returns the children with orientation and placement composed
// through s.
func (s Shape) Children() []Shape {
	if s.t == nil {
		return nil
	}
	out := make([]Shape, len(s.t.children))
	for i, c := range s.t.children {
		out[i] = Compose(s, c)
	}
	return out
}

// Moved returns a partner of s moved by p after its current placement.
func (s Shape) Moved(p geom.Placement) Shape {
	s.loc = p.Mul(s.loc)
	return s
}

// Located returns a partner of s with placement p.
func (s Shape) Located(p geom.Placement) Shape {
	s.loc = p
	return s
}

// Reversed returns a partner of s with the opposite orientation.
func (s Shape) Reversed() Shape {
	s.orient = s.orient.Reverse()
	return s
}

// Oriented returns a partner of s with orientation o.
func (s Shape) Oriented(o Orientation) Shape {
	s.orient = o
	return s
}

// WithTShape returns a reference to t with the orientation and placement of s.
func (s Shape) WithTShape(t *TShape) Shape {
	s.t = t
	return s
}

func (s Shape) String() string {
	if s.t == nil {
		return "null"
	}
	id := s.t.id.String()
	return fmt.Sprintf("%s(%s, %s)", s.t.kind, id[:8], s.orient)
}

// Compose returns child, a reference stored in parent's node, expressed in
// the frame parent lives in.
func Compose(parent, child Shape) Shape {
	child.orient = parent.orient.Compose(child.orient)
	child.loc = parent.loc.Mul(child.loc)
	return child
}

// Localize is the inverse of Compose: it returns the reference that, stored
// under parent, composes to s.
func Localize(parent, s Shape) Shape {
	s.orient = parent.orient.Compose(s.orient)
	s.loc = parent.loc.Inverse().Mul(s.loc)
	return s
}

// IsPartner reports whether a and b reference the same node, regardless of
// orientation and placement.
func IsPartner(a, b Shape) bool {
	return a.t != nil && a.t == b.t
}

// IsSame reports whether a and b are partners with the same placement, up
// to rounding.
func IsSame(a, b Shape) bool {
	return IsPartner(a, b) && a.loc.Equal(b.loc)
}

// IsEqual reports whether a and b are the same reference.
func IsEqual(a, b Shape) bool {
	return a == b
}

// StructurallyEqual compares two shapes by content: same kind, equal payloads,
// orientation and placement, and pairwise structurally equal children.
// Partners are always structurally equal when their stamps match.
func StructurallyEqual(a, b Shape) bool {
	if a.orient != b.orient || a.loc != b.loc {
		return false
	}
	return structurallyEqualT(a.t, b.t, map[[2]*TShape]bool{})
}

func structurallyEqualT(a, b *TShape, seen map[[2]*TShape]bool) bool {
	if a == b {
		return true
	}
	if a == nil || b == nil {
		return false
	}
	key := [2]*TShape{a, b}
	if eq, ok := seen[key]; ok {
		return eq
	}
	eq := a.kind == b.kind && len(a.children) == len(b.children) && geom.Equal(a.geometry, b.geometry)
	for i := 0; eq && i < len(a.children); i++ {
		ca, cb := a.children[i], b.children[i]
		eq = ca.orient == cb.orient && ca.loc == cb.loc && structurallyEqualT(ca.t, cb.t, seen)
	}
	seen[key] = eq
	return eq
}
