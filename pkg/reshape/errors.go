package reshape

import (
	"errors"
	"fmt"

	"github.com/chazu/brep/pkg/topo"
)

var (
	// ErrConflictingReplacement is matched by *ConflictingReplacementError.
	ErrConflictingReplacement = errors.New("reshape: conflicting replacement")

	// ErrCyclicReplacement is returned by Apply when a replacement, with
	// recursion enabled, reaches its own key again.
	ErrCyclicReplacement = errors.New("reshape: cyclic replacement")
)

// ConflictingReplacementError reports a second, different registration for a
// node that already has one in the batch. A null Existing or New stands for a
// removal.
type ConflictingReplacementError struct {
	Old      topo.Shape
	Existing topo.Shape
	New      topo.Shape
}

func (e *ConflictingReplacementError) Error() string {
	return fmt.Sprintf("reshape: %s already maps to %s, cannot map to %s", e.Old, e.Existing, e.New)
}

func (e *ConflictingReplacementError) Unwrap() error { return ErrConflictingReplacement }
