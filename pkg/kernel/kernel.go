// Package kernel defines the geometric kernel collaborator: the operations
// that turn topology into solids and combine solids. Their results are
// opaque solid nodes whose payload is a geom.Body. Implementations (sdfx)
// live in subpackages so the rest of the system can swap backends.
package kernel

import (
	"errors"
	"fmt"

	"github.com/chazu/brep/pkg/geom"
	"github.com/chazu/brep/pkg/topo"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

var (
	// ErrNotBody is returned when an operation needs a kernel solid and
	// gets something else.
	ErrNotBody = errors.New("kernel: shape is not a kernel solid")

	// ErrUnsupportedFace is returned for faces the kernel cannot sweep.
	ErrUnsupportedFace = errors.New("kernel: unsupported face")

	// ErrUnsupportedSolid is returned when a backend cannot apply an
	// operation to a solid it holds.
	ErrUnsupportedSolid = errors.New("kernel: unsupported solid")

	// ErrInvalidParameter is returned for non-positive sizes and the like.
	ErrInvalidParameter = errors.New("kernel: invalid parameter")
)

// Kernel is the abstract geometry kernel interface. Every operation returns
// a new root shape and leaves its inputs alone.
type Kernel interface {
	// Prism sweeps a planar face along its normal by height.
	Prism(face topo.Shape, height float64) (topo.Shape, error)

	// Fillet rounds the edges of a solid with the given radius.
	Fillet(solid topo.Shape, radius float64) (topo.Shape, error)

	// Fuse returns the union of two solids.
	Fuse(a, b topo.Shape) (topo.Shape, error)

	// Cylinder returns a cylinder standing on base along axis.
	Cylinder(base, axis v3.Vec, radius, height float64) (topo.Shape, error)

	// ThickSolid hollows a solid to the given wall thickness, removing the
	// wall under each opening face.
	ThickSolid(solid topo.Shape, openings []topo.Shape, thickness float64) (topo.Shape, error)

	// Thread returns an external thread standing on base along +Z.
	Thread(base v3.Vec, radius, height, pitch float64) (topo.Shape, error)
}

// Body returns the kernel solid carried by s and the placement it is seen
// through.
func Body(s topo.Shape) (geom.Solid, geom.Placement, error) {
	if s.Kind() != topo.Solid {
		return nil, geom.Placement{}, fmt.Errorf("%s: %w", s, ErrNotBody)
	}
	b, ok := s.Geometry().(geom.Body)
	if !ok || b.Solid == nil {
		return nil, geom.Placement{}, fmt.Errorf("%s: %w", s, ErrNotBody)
	}
	return b.Solid, s.Placement(), nil
}

// Positive checks that a named size is strictly positive.
func Positive(name string, v float64) error {
	if !(v > 0) {
		return fmt.Errorf("%s = %g: %w", name, v, ErrInvalidParameter)
	}
	return nil
}
