// Package edit implements edits that locate sub-shapes of a model and
// substitute them through the reshape engine.
package edit

import (
	"fmt"

	"github.com/chazu/brep/pkg/geom"
	"github.com/chazu/brep/pkg/reshape"
	"github.com/chazu/brep/pkg/topo"
	"go.uber.org/zap"
)

// Report summarizes one edit.
type Report struct {
	FacesVisited   int `json:"faces_visited"`
	FacesWithHoles int `json:"faces_with_holes"`
	Replaced       int `json:"replaced"`
}

type options struct {
	log     *zap.Logger
	reshape []reshape.Option
}

// Option configures an edit.
type Option func(*options)

// WithLogger sets the logger for the edit and its engine.
func WithLogger(l *zap.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.log = l
		}
	}
}

// WithReshapeOptions passes options through to the reshape engine.
func WithReshapeOptions(opts ...reshape.Option) Option {
	return func(o *options) {
		o.reshape = append(o.reshape, opts...)
	}
}

// ShrinkCircularHoles scales every circular hole under root by factor. Each
// face with more than one wire is inspected; inner wires whose first edge
// lies on a circle are replaced by a wire around a full circle with the same
// center and axis and the scaled radius. All replacements go into one batch
// applied once to root, so faces shared between several parents are edited
// once and stay shared.
func ShrinkCircularHoles(root topo.Shape, factor float64, opts ...Option) (topo.Shape, Report, error) {
	var rep Report
	if !(factor > 0) {
		return topo.Shape{}, rep, fmt.Errorf("edit: scale factor %g must be positive", factor)
	}
	o := options{log: zap.NewNop()}
	for _, opt := range opts {
		opt(&o)
	}
	eng := reshape.New(append([]reshape.Option{reshape.WithLogger(o.log)}, o.reshape...)...)

	faces, err := topo.CollectUnique(root, topo.Face)
	if err != nil {
		return topo.Shape{}, rep, fmt.Errorf("edit: collect faces: %w", err)
	}
	for _, f := range faces {
		rep.FacesVisited++
		if f.NumChildren() < 2 {
			continue
		}
		inner, err := topo.InnerWires(f)
		if err != nil {
			return topo.Shape{}, rep, fmt.Errorf("edit: face %s: %w", f, err)
		}
		if len(inner) > 0 {
			rep.FacesWithHoles++
		}
		for _, w := range inner {
			if eng.IsRecorded(w) {
				continue
			}
			c, err := topo.FirstCurve(w)
			if err != nil {
				return topo.Shape{}, rep, fmt.Errorf("edit: face %s: %w", f, err)
			}
			circ, ok := geom.AsCircle(c)
			if !ok {
				continue
			}
			nw, err := circleWire(circ.WithRadius(circ.Radius * factor))
			if err != nil {
				return topo.Shape{}, rep, fmt.Errorf("edit: face %s: %w", f, err)
			}
			if err := eng.Register(w, nw.Oriented(w.Orientation())); err != nil {
				return topo.Shape{}, rep, fmt.Errorf("edit: face %s: %w", f, err)
			}
			rep.Replaced++
			o.log.Debug("hole scaled",
				zap.Stringer("face", f),
				zap.Stringer("wire", w),
				zap.Float64("radius", circ.Radius),
				zap.Float64("new_radius", circ.Radius*factor),
			)
		}
	}

	out, err := eng.Apply(root)
	if err != nil {
		return topo.Shape{}, rep, fmt.Errorf("edit: %w", err)
	}
	o.log.Info("shrink circular holes",
		zap.Int("faces", rep.FacesVisited),
		zap.Int("faces_with_holes", rep.FacesWithHoles),
		zap.Int("replaced", rep.Replaced),
	)
	return out, rep, nil
}

// circleWire builds a closed one-edge wire around c.
func circleWire(c geom.Circle) (topo.Shape, error) {
	e, err := topo.MakeEdgeFromCurve(c)
	if err != nil {
		return topo.Shape{}, err
	}
	return topo.MakeWire(e)
}
