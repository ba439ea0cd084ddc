// Package reshape applies batches of node substitutions to a shape graph.
//
// Replacements are registered against nodes (partners share one record) and
// applied to any number of roots. Apply copies only the path from a root to
// each replaced node; every untouched subtree of the result is the very node
// it was before. Inputs are never modified.
package reshape

import (
	"context"
	"fmt"
	"runtime"
	"sync"

	"github.com/chazu/brep/pkg/topo"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// record is one registered substitution. A null new means removal.
type record struct {
	old topo.Shape
	new topo.Shape
}

func (r record) removes() bool { return r.new.IsNull() }

// Engine holds a batch of replacements. It is safe for concurrent use:
// registration is exclusive, applies run in parallel against the batch as
// it stands.
type Engine struct {
	mu      sync.RWMutex
	records map[*topo.TShape]record
	log     *zap.Logger
	recurse bool
}

// New returns an empty engine.
func New(opts ...Option) *Engine {
	e := &Engine{
		records: make(map[*topo.TShape]record),
		log:     zap.NewNop(),
		recurse: true,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Register records that every occurrence of old's node is to be replaced by
// new. Registering again for the same node is a no-op when the pair agrees
// with the recorded one once relocated onto old's placement and orientation, so
// (old.Moved(p), new.Moved(p)) repeats (old, new). Any other pair fails
// with a *ConflictingReplacementError. A null new registers a removal.
func (e *Engine) Register(old, new topo.Shape) error {
	if old.IsNull() {
		return fmt.Errorf("reshape: register: %w", topo.ErrNullShape)
	}
	e.mu.Lock()
	defer e.mu.Unlock()

	if rec, ok := e.records[old.TShape()]; ok {
		if sameStamp(relocate(rec, old), new) {
			return nil
		}
		return &ConflictingReplacementError{Old: old, Existing: rec.new, New: new}
	}
	e.records[old.TShape()] = record{old: old, new: new}
	e.log.Debug("register replacement",
		zap.Stringer("old", old),
		zap.Stringer("new", new),
	)
	return nil
}

// Remove records that old's node is to be dropped from every parent that
// references it.
func (e *Engine) Remove(old topo.Shape) error {
	return e.Register(old, topo.Shape{})
}

// Value returns the replacement registered for s, placed and oriented for
// s's occurrence. The result is null for a removal. ok is false when nothing
// is registered.
func (e *Engine) Value(s topo.Shape) (r topo.Shape, ok bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	rec, ok := e.records[s.TShape()]
	if !ok {
		return topo.Shape{}, false
	}
	return relocate(rec, s), true
}

// IsRecorded reports whether s's node has a registration in the batch.
func (e *Engine) IsRecorded(s topo.Shape) bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	_, ok := e.records[s.TShape()]
	return ok
}

// Len returns the number of registrations.
func (e *Engine) Len() int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return len(e.records)
}

// Clear empties the batch.
func (e *Engine) Clear() {
	e.mu.Lock()
	defer e.mu.Unlock()
	clear(e.records)
}

// Apply returns root with the batch applied. Nodes on a path from root to a
// registered node are rebuilt; everything else is shared with root. A root
// that is itself removed yields the null shape. Kind compatibility of
// replacements is not checked.
func (e *Engine) Apply(root topo.Shape) (topo.Shape, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.apply(root)
}

// ApplyAll applies the batch to every root concurrently and returns the
// results in input order. The first failure cancels the remaining roots.
func (e *Engine) ApplyAll(ctx context.Context, roots ...topo.Shape) ([]topo.Shape, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	out := make([]topo.Shape, len(roots))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i, root := range roots {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			r, err := e.apply(root)
			if err != nil {
				return fmt.Errorf("root %d: %w", i, err)
			}
			out[i] = r
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// apply runs one application. The caller holds the read lock.
func (e *Engine) apply(root topo.Shape) (topo.Shape, error) {
	if root.IsNull() || len(e.records) == 0 {
		return root, nil
	}
	a := &applier{
		e:      e,
		memo:   make(map[*topo.TShape]*topo.TShape),
		active: make(map[*topo.TShape]bool),
	}
	out, err := a.visit(root)
	if err != nil {
		return topo.Shape{}, fmt.Errorf("reshape: apply %s: %w", root, err)
	}
	e.log.Debug("applied replacements",
		zap.Stringer("root", root),
		zap.Stringer("result", out),
		zap.Int("rebuilt", a.rebuilt),
	)
	return out, nil
}

// applier carries the state of one Apply call. Rebuilding a node yields the
// same node wherever it occurs, so results are memoized per node.
type applier struct {
	e       *Engine
	memo    map[*topo.TShape]*topo.TShape
	active  map[*topo.TShape]bool // replacements being rebuilt
	rebuilt int
}

// visit returns the reference that takes the place of c in its parent, or
// the null shape if c is removed. Frames are local to the parent.
func (a *applier) visit(c topo.Shape) (topo.Shape, error) {
	t := c.TShape()
	if rec, ok := a.e.records[t]; ok {
		if rec.removes() {
			return topo.Shape{}, nil
		}
		return a.replace(t, rec, c)
	}
	nt, err := a.rebuild(t)
	if err != nil {
		return topo.Shape{}, err
	}
	if nt == t {
		return c, nil
	}
	return c.WithTShape(nt), nil
}

// replace substitutes the registered replacement for occurrence c of t.
func (a *applier) replace(t *topo.TShape, rec record, c topo.Shape) (topo.Shape, error) {
	if a.active[t] {
		return topo.Shape{}, fmt.Errorf("%s: %w", rec.old, ErrCyclicReplacement)
	}
	r := relocate(rec, c)
	if !a.e.recurse {
		return r, nil
	}

	a.active[t] = true
	defer delete(a.active, t)
	nt, err := a.rebuild(r.TShape())
	if err != nil {
		return topo.Shape{}, err
	}
	return r.WithTShape(nt), nil
}

// rebuild returns t with the batch applied below it: t itself when nothing
// underneath changed, otherwise a new node holding the unchanged children
// as they were and the changed ones in their new form.
func (a *applier) rebuild(t *topo.TShape) (*topo.TShape, error) {
	if nt, ok := a.memo[t]; ok {
		return nt, nil
	}

	var children []topo.Shape // allocated on the first change
	n := t.NumChildren()
	for i := 0; i < n; i++ {
		c := t.Child(i)
		r, err := a.visit(c)
		if err != nil {
			return nil, err
		}
		if children == nil && r != c {
			children = make([]topo.Shape, i, n)
			for j := 0; j < i; j++ {
				children[j] = t.Child(j)
			}
		}
		if children != nil && !r.IsNull() {
			children = append(children, r)
		}
	}

	nt := t
	if children != nil {
		nt = t.WithChildren(children)
		a.rebuilt++
		a.e.log.Debug("rebuilt node",
			zap.Stringer("kind", t.Kind()),
			zap.Stringer("old", t.ID()),
			zap.Stringer("new", nt.ID()),
			zap.Int("children", len(children)),
		)
	}
	a.memo[t] = nt
	return nt, nil
}

// relocate returns the replacement for occurrence occ of rec's node. An
// occurrence stamped exactly like the registered old shape gets new as is.
// Otherwise new is moved by the placement that takes old to occ, and
// reversed if occ's orientation differs from old's.
func relocate(rec record, occ topo.Shape) topo.Shape {
	r := rec.new
	if r.IsNull() {
		return r
	}
	if !occ.Placement().Equal(rec.old.Placement()) {
		delta := occ.Placement().Mul(rec.old.Placement().Inverse())
		r = r.Moved(delta)
	}
	if occ.Orientation() != rec.old.Orientation() {
		r = r.Reversed()
	}
	return r
}

// sameStamp reports whether a and b are partners with the same orientation
// and, up to rounding, the same placement. Two null shapes match.
func sameStamp(a, b topo.Shape) bool {
	if a.IsNull() || b.IsNull() {
		return a.IsNull() && b.IsNull()
	}
	return topo.IsSame(a, b) && a.Orientation() == b.Orientation()
}
