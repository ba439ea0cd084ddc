package topo

import (
	"errors"
	"fmt"
)

// Validate checks the graph under root: every child respects the kind
// hierarchy, vertices carry points, edges have one start and one end vertex,
// and no node reaches itself. It returns all findings joined, or nil. Shared
// nodes are checked once. Validate is read-only.
func Validate(root Shape) error {
	if root.IsNull() {
		return nil
	}

	// DFS with 3-color marking: white = unvisited, gray = on the current
	// path, black = fully explored. Reaching a gray node means a cycle.
	const (
		white = iota
		gray
		black
	)
	color := make(map[*TShape]int)
	var errs []error

	var visit func(t *TShape) bool // returns true if a cycle was found
	visit = func(t *TShape) bool {
		switch color[t] {
		case black:
			return false
		case gray:
			errs = append(errs, fmt.Errorf("%s %s: %w", t.kind, t.id, ErrCycle))
			return true
		}
		color[t] = gray

		errs = append(errs, checkNode(t)...)
		for _, c := range t.children {
			if c.t == nil {
				continue
			}
			if visit(c.t) {
				return true
			}
		}

		color[t] = black
		return false
	}
	visit(root.t)

	return errors.Join(errs...)
}

// checkNode returns the local findings for one node.
func checkNode(t *TShape) []error {
	var errs []error
	for i, c := range t.children {
		if c.t == nil {
			errs = append(errs, fmt.Errorf("%s %s child %d: %w", t.kind, t.id, i, ErrNullShape))
			continue
		}
		if !allowedChild(t.kind, c.t.kind) {
			errs = append(errs, &StructuralTypeError{Parent: t.kind, Child: c.t.kind, Index: i})
		}
	}
	switch t.kind {
	case Vertex:
		if _, _, err := vertexPoint(Shape{t: t}); err != nil {
			errs = append(errs, err)
		}
	case Edge:
		if _, _, err := EdgeVertices(Shape{t: t}); err != nil {
			errs = append(errs, err)
		}
	}
	return errs
}
