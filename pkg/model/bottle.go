// Package model sequences topology construction and kernel operations into
// complete parts: the classic bottle and a wheel/axle chassis assembly.
package model

import (
	"fmt"

	"github.com/chazu/brep/pkg/geom"
	"github.com/chazu/brep/pkg/kernel"
	"github.com/chazu/brep/pkg/topo"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

var zAxis = v3.Vec{Z: 1}

// Profile builds the bottle's base face in the XY plane. One half of the
// outline (a segment, an arc through the bottom of the bottle and another
// segment) is built from explicit points, mirrored about the X axis and
// joined with the original half into a closed wire.
func Profile(p BottleParams) (topo.Shape, error) {
	if err := p.Validate(); err != nil {
		return topo.Shape{}, err
	}
	w, t := p.Width, p.Thickness
	p1 := v3.Vec{X: -w / 2}
	p2 := v3.Vec{X: -w / 2, Y: -t / 4}
	p3 := v3.Vec{Y: -t / 2}
	p4 := v3.Vec{X: w / 2, Y: -t / 4}
	p5 := v3.Vec{X: w / 2}

	seg1, err := geom.Segment(p1, p2)
	if err != nil {
		return topo.Shape{}, fmt.Errorf("model: profile: %w", err)
	}
	arc, err := geom.ArcThrough(p2, p3, p4)
	if err != nil {
		return topo.Shape{}, fmt.Errorf("model: profile: %w", err)
	}
	seg2, err := geom.Segment(p4, p5)
	if err != nil {
		return topo.Shape{}, fmt.Errorf("model: profile: %w", err)
	}

	v1, v2, v4, v5 := topo.MakeVertex(p1), topo.MakeVertex(p2), topo.MakeVertex(p4), topo.MakeVertex(p5)
	var edges []topo.Shape
	for _, e := range []struct {
		c    geom.Curve
		a, b topo.Shape
	}{{seg1, v1, v2}, {arc, v2, v4}, {seg2, v4, v5}} {
		edge, err := topo.MakeEdge(e.c, e.a, e.b)
		if err != nil {
			return topo.Shape{}, fmt.Errorf("model: profile: %w", err)
		}
		edges = append(edges, edge)
	}
	half, err := topo.MakeWire(edges...)
	if err != nil {
		return topo.Shape{}, fmt.Errorf("model: profile: %w", err)
	}

	mirrored, err := topo.Transformed(half, geom.AxisMirror(v3.Vec{X: 1}))
	if err != nil {
		return topo.Shape{}, fmt.Errorf("model: profile: mirror: %w", err)
	}

	var b topo.WireBuilder
	if err := b.AddWire(half); err != nil {
		return topo.Shape{}, fmt.Errorf("model: profile: %w", err)
	}
	if err := b.AddWire(mirrored); err != nil {
		return topo.Shape{}, fmt.Errorf("model: profile: %w", err)
	}
	outline, err := b.Wire()
	if err != nil {
		return topo.Shape{}, fmt.Errorf("model: profile: %w", err)
	}
	return topo.MakeFace(geom.XY(0), outline)
}

// NeckTop returns the disc closing the top of the bottle's neck.
func NeckTop(p BottleParams) (topo.Shape, error) {
	z := p.Height + p.NeckHeight()
	e, err := topo.MakeEdgeFromCurve(geom.FullCircle(v3.Vec{Z: z}, p.NeckRadius()))
	if err != nil {
		return topo.Shape{}, err
	}
	w, err := topo.MakeWire(e)
	if err != nil {
		return topo.Shape{}, err
	}
	return topo.MakeFace(geom.XY(z), w)
}

// Bottle builds the bottle: the profile is swept to the body height, its
// edges rounded, the neck fused on top, the result hollowed with the neck
// top left open, and a thread added around the neck. The result is a
// compound of the hollow body and the thread.
func Bottle(k kernel.Kernel, p BottleParams) (topo.Shape, error) {
	face, err := Profile(p)
	if err != nil {
		return topo.Shape{}, err
	}

	body, err := k.Prism(face, p.Height)
	if err != nil {
		return topo.Shape{}, fmt.Errorf("model: bottle: prism: %w", err)
	}
	body, err = k.Fillet(body, p.FilletRadius())
	if err != nil {
		return topo.Shape{}, fmt.Errorf("model: bottle: fillet: %w", err)
	}

	// The neck reaches down into the body so the hollowed union has no wall
	// where the two meet.
	neckBase := v3.Vec{Z: p.Height}
	sunk := neckBase.Sub(v3.Vec{Z: p.NeckHeight()})
	neck, err := k.Cylinder(sunk, zAxis, p.NeckRadius(), 2*p.NeckHeight())
	if err != nil {
		return topo.Shape{}, fmt.Errorf("model: bottle: neck: %w", err)
	}
	body, err = k.Fuse(body, neck)
	if err != nil {
		return topo.Shape{}, fmt.Errorf("model: bottle: fuse: %w", err)
	}

	top, err := NeckTop(p)
	if err != nil {
		return topo.Shape{}, fmt.Errorf("model: bottle: neck top: %w", err)
	}
	body, err = k.ThickSolid(body, []topo.Shape{top}, -p.WallThickness())
	if err != nil {
		return topo.Shape{}, fmt.Errorf("model: bottle: thick solid: %w", err)
	}

	thread, err := k.Thread(neckBase, p.ThreadRadius(), p.NeckHeight(), p.ThreadPitch())
	if err != nil {
		return topo.Shape{}, fmt.Errorf("model: bottle: thread: %w", err)
	}

	var b topo.CompoundBuilder
	return b.Add(body, thread).Compound(), nil
}
