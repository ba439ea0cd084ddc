package model

import (
	"fmt"

	"github.com/chazu/brep/pkg/geom"
	"github.com/chazu/brep/pkg/topo"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

// Plates builds a compound of p.Count square faces along X. Plates at even
// positions are moved partners of one face with a circular hole, the others
// of one plain face.
func Plates(p PlateParams) (topo.Shape, error) {
	if err := p.Validate(); err != nil {
		return topo.Shape{}, err
	}
	holed, err := plate(p.Size, p.HoleRadius)
	if err != nil {
		return topo.Shape{}, fmt.Errorf("model: plates: %w", err)
	}
	plain, err := plate(p.Size, 0)
	if err != nil {
		return topo.Shape{}, fmt.Errorf("model: plates: %w", err)
	}

	var b topo.CompoundBuilder
	for i := range p.Count {
		f := plain
		if i%2 == 0 {
			f = holed
		}
		b.Add(f.Moved(geom.Translation(v3.Vec{X: float64(i) * p.Spacing()})))
	}
	return b.Compound(), nil
}

// plate builds a square face of side size centered on the origin, with a
// centered hole when radius is positive.
func plate(size, radius float64) (topo.Shape, error) {
	h := size / 2
	outer, err := polygon(v3.Vec{X: -h, Y: -h}, v3.Vec{X: h, Y: -h}, v3.Vec{X: h, Y: h}, v3.Vec{X: -h, Y: h})
	if err != nil {
		return topo.Shape{}, err
	}
	if radius <= 0 {
		return topo.MakeFace(geom.XY(0), outer)
	}
	e, err := topo.MakeEdgeFromCurve(geom.FullCircle(v3.Vec{}, radius))
	if err != nil {
		return topo.Shape{}, err
	}
	hole, err := topo.MakeWire(e)
	if err != nil {
		return topo.Shape{}, err
	}
	return topo.MakeFace(geom.XY(0), outer, hole.Reversed())
}

// polygon builds a closed wire through pts with one vertex per corner.
func polygon(pts ...v3.Vec) (topo.Shape, error) {
	verts := make([]topo.Shape, len(pts))
	for i, pt := range pts {
		verts[i] = topo.MakeVertex(pt)
	}
	edges := make([]topo.Shape, 0, len(pts))
	for i := range pts {
		j := (i + 1) % len(pts)
		seg, err := geom.Segment(pts[i], pts[j])
		if err != nil {
			return topo.Shape{}, err
		}
		e, err := topo.MakeEdge(seg, verts[i], verts[j])
		if err != nil {
			return topo.Shape{}, err
		}
		edges = append(edges, e)
	}
	return topo.MakeWire(edges...)
}
