package topo

import (
	"errors"
	"fmt"
)

var (
	// ErrStructuralType matches *StructuralTypeError.
	ErrStructuralType = errors.New("structural type error")
	// ErrAmbiguousTopology matches *AmbiguousTopologyError.
	ErrAmbiguousTopology = errors.New("ambiguous topology")
	// ErrDisconnected is returned when an edge cannot be chained onto a wire.
	ErrDisconnected = errors.New("topo: edge is not connected to the wire")
	// ErrEmptyWire is returned when building a wire without edges.
	ErrEmptyWire = errors.New("topo: wire has no edges")
	// ErrNullShape is returned when an operation needs a non-null shape.
	ErrNullShape = errors.New("topo: null shape")
	// ErrCycle is returned by Validate when a node reaches itself.
	ErrCycle = errors.New("topo: cycle in shape graph")
)

// StructuralTypeError reports a node whose children violate the kind
// hierarchy, or a query given the wrong kind of shape.
type StructuralTypeError struct {
	Parent Kind
	Child  Kind
	Index  int    // child position, -1 if not about a child
	Reason string // optional detail
}

func (e *StructuralTypeError) Error() string {
	msg := fmt.Sprintf("%s cannot contain %s", e.Parent, e.Child)
	if e.Index >= 0 {
		msg = fmt.Sprintf("%s (child %d)", msg, e.Index)
	}
	if e.Reason != "" {
		msg = e.Reason
	}
	return "structural type error: " + msg
}

func (e *StructuralTypeError) Unwrap() error { return ErrStructuralType }

// AmbiguousTopologyError reports a query that could not resolve a required
// unique element.
type AmbiguousTopologyError struct {
	Kind   Kind
	Reason string
}

func (e *AmbiguousTopologyError) Error() string {
	return fmt.Sprintf("ambiguous topology: %s: %s", e.Kind, e.Reason)
}

func (e *AmbiguousTopologyError) Unwrap() error { return ErrAmbiguousTopology }

// expectKind fails with a StructuralTypeError unless s has kind k.
func expectKind(s Shape, k Kind) error {
	if s.IsNull() {
		return ErrNullShape
	}
	if s.Kind() != k {
		return &StructuralTypeError{
			Parent: k,
			Child:  s.Kind(),
			Index:  -1,
			Reason: fmt.Sprintf("expected %s, got %s", k, s.Kind()),
		}
	}
	return nil
}
