package topo

import "iter"

// Traverse yields every occurrence of kind reachable from root, depth first
// and in child order, with orientation and placement composed from root.
// A shared node is yielded once per path that reaches it. Subtrees that
// cannot contain kind are skipped. A child that violates the kind hierarchy
// yields a *StructuralTypeError and ends the sequence.
//
// The sequence is lazy and can be ranged over any number of times.
func Traverse(root Shape, kind Kind) iter.Seq2[Shape, error] {
	return func(yield func(Shape, error) bool) {
		if root.IsNull() {
			return
		}
		walk(root, kind, yield)
	}
}

// walk returns false once the consumer stops or an error was yielded.
func walk(s Shape, kind Kind, yield func(Shape, error) bool) bool {
	k := s.Kind()
	if k == kind {
		if !yield(s, nil) {
			return false
		}
		if k != Compound {
			return true
		}
	}
	if k < kind {
		return true
	}
	for i, c := range s.t.children {
		if !allowedChild(k, c.Kind()) {
			yield(Shape{}, &StructuralTypeError{Parent: k, Child: c.Kind(), Index: i})
			return false
		}
		if !walk(Compose(s, c), kind, yield) {
			return false
		}
	}
	return true
}

// Shapes collects Traverse into a slice.
func Shapes(root Shape, kind Kind) ([]Shape, error) {
	var out []Shape
	for s, err := range Traverse(root, kind) {
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, nil
}

// CollectUnique is Shapes with partners collapsed: each node appears once, as
// its first occurrence in traversal order.
func CollectUnique(root Shape, kind Kind) ([]Shape, error) {
	seen := make(map[*TShape]struct{})
	var out []Shape
	for s, err := range Traverse(root, kind) {
		if err != nil {
			return nil, err
		}
		if _, ok := seen[s.t]; ok {
			continue
		}
		seen[s.t] = struct{}{}
		out = append(out, s)
	}
	return out, nil
}

// Count returns the number of occurrences of kind under root.
func Count(root Shape, kind Kind) (int, error) {
	n := 0
	for _, err := range Traverse(root, kind) {
		if err != nil {
			return 0, err
		}
		n++
	}
	return n, nil
}
