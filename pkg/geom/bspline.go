package geom

import (
	"fmt"
	"slices"

	v3 "github.com/deadsy/sdfx/vec/v3"
)

// BSpline is a non-rational B-spline curve.
type BSpline struct {
	Poles  []v3.Vec
	Knots  []float64 // full knot vector, len(Poles)+Degree+1 entries
	Degree int
}

func (BSpline) Kind() Kind { return KindBSpline }
func (BSpline) geometry()  {}
func (BSpline) curve()     {}

// NewBSpline builds a clamped, uniformly parameterized B-spline over [0, 1].
func NewBSpline(poles []v3.Vec, degree int) (BSpline, error) {
	if degree < 1 {
		return BSpline{}, fmt.Errorf("bspline: degree %d must be at least 1", degree)
	}
	if len(poles) < degree+1 {
		return BSpline{}, fmt.Errorf("bspline: degree %d needs at least %d poles, got %d", degree, degree+1, len(poles))
	}
	n := len(poles)
	knots := make([]float64, 0, n+degree+1)
	for i := 0; i <= degree; i++ {
		knots = append(knots, 0)
	}
	inner := n - degree - 1
	for i := 1; i <= inner; i++ {
		knots = append(knots, float64(i)/float64(inner+1))
	}
	for i := 0; i <= degree; i++ {
		knots = append(knots, 1)
	}
	return BSpline{Poles: slices.Clone(poles), Knots: knots, Degree: degree}, nil
}

func (b BSpline) Domain() (float64, float64) {
	return b.Knots[b.Degree], b.Knots[len(b.Knots)-b.Degree-1]
}

// Point evaluates the curve with de Boor's algorithm.
func (b BSpline) Point(u float64) v3.Vec {
	p := b.Degree
	u0, u1 := b.Domain()
	if u < u0 {
		u = u0
	}
	if u > u1 {
		u = u1
	}

	// Locate the knot span k with Knots[k] <= u < Knots[k+1].
	k := p
	for k < len(b.Poles)-1 && u >= b.Knots[k+1] {
		k++
	}

	d := make([]v3.Vec, p+1)
	for j := 0; j <= p; j++ {
		d[j] = b.Poles[j+k-p]
	}
	for r := 1; r <= p; r++ {
		for j := p; j >= r; j-- {
			i := j + k - p
			den := b.Knots[i+p-r+1] - b.Knots[i]
			alpha := 0.0
			if den != 0 {
				alpha = (u - b.Knots[i]) / den
			}
			d[j] = d[j-1].MulScalar(1 - alpha).Add(d[j].MulScalar(alpha))
		}
	}
	return d[p]
}

func (b BSpline) equal(o BSpline) bool {
	return b.Degree == o.Degree && slices.Equal(b.Poles, o.Poles) && slices.Equal(b.Knots, o.Knots)
}
