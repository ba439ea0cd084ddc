// Package inspect produces read-only reports of a shape graph for
// visualization and persistence collaborators.
package inspect

import (
	"fmt"

	"github.com/chazu/brep/pkg/geom"
	"github.com/chazu/brep/pkg/topo"
	"github.com/goccy/go-json"
)

// KindCount is the number of occurrences and distinct nodes of one kind.
type KindCount struct {
	Kind        string `json:"kind"`
	Occurrences int    `json:"occurrences"`
	Unique      int    `json:"unique"`
}

// FaceInfo describes one distinct face.
type FaceInfo struct {
	ID         string  `json:"id"`
	Surface    string  `json:"surface"`
	Wires      int     `json:"wires"`
	InnerWires int     `json:"inner_wires"`
	OuterArea  float64 `json:"outer_area"`
	Closed     []bool  `json:"closed"` // per wire, in child order
}

// BodyInfo describes one distinct opaque kernel solid.
type BodyInfo struct {
	ID  string     `json:"id"`
	Min [3]float64 `json:"min"`
	Max [3]float64 `json:"max"`
}

// Report is a summary of everything reachable from a root.
type Report struct {
	Root   string      `json:"root"`
	Kinds  []KindCount `json:"kinds"`
	Faces  []FaceInfo  `json:"faces,omitempty"`
	Bodies []BodyInfo  `json:"bodies,omitempty"`
}

// Summarize walks root and builds its report. Kinds with no occurrence are
// left out. Faces and bodies are listed once each, in traversal order;
// body bounds are in the body's own frame.
func Summarize(root topo.Shape) (*Report, error) {
	r := &Report{Root: root.String()}
	if root.IsNull() {
		return r, nil
	}

	for k := topo.Vertex; k <= topo.Compound; k++ {
		n, err := topo.Count(root, k)
		if err != nil {
			return nil, fmt.Errorf("inspect: %w", err)
		}
		if n == 0 {
			continue
		}
		u, err := topo.CollectUnique(root, k)
		if err != nil {
			return nil, fmt.Errorf("inspect: %w", err)
		}
		r.Kinds = append(r.Kinds, KindCount{Kind: k.String(), Occurrences: n, Unique: len(u)})
	}

	faces, err := topo.CollectUnique(root, topo.Face)
	if err != nil {
		return nil, fmt.Errorf("inspect: %w", err)
	}
	for _, f := range faces {
		info, err := faceInfo(f)
		if err != nil {
			return nil, fmt.Errorf("inspect: face %s: %w", f, err)
		}
		r.Faces = append(r.Faces, info)
	}

	solids, err := topo.CollectUnique(root, topo.Solid)
	if err != nil {
		return nil, fmt.Errorf("inspect: %w", err)
	}
	for _, s := range solids {
		b, ok := s.Geometry().(geom.Body)
		if !ok || b.Solid == nil {
			continue
		}
		min, max := b.Solid.BoundingBox()
		r.Bodies = append(r.Bodies, BodyInfo{ID: s.TShape().ID().String(), Min: min, Max: max})
	}
	return r, nil
}

func faceInfo(f topo.Shape) (FaceInfo, error) {
	info := FaceInfo{
		ID:    f.TShape().ID().String(),
		Wires: f.NumChildren(),
	}
	if g := f.Geometry(); g != nil {
		info.Surface = g.Kind().String()
	}
	if info.Wires == 0 {
		return info, nil
	}

	outer, err := topo.OuterWire(f)
	if err != nil {
		return info, err
	}
	if info.OuterArea, err = topo.WireArea(outer); err != nil {
		return info, err
	}
	inner, err := topo.InnerWires(f)
	if err != nil {
		return info, err
	}
	info.InnerWires = len(inner)
	for _, w := range f.Children() {
		closed, err := topo.IsClosed(w)
		if err != nil {
			return info, err
		}
		info.Closed = append(info.Closed, closed)
	}
	return info, nil
}

// JSON encodes the report with indentation.
func (r *Report) JSON() ([]byte, error) {
	return json.MarshalIndent(r, "", "  ")
}
