package model

import (
	"fmt"
	"math"

	"github.com/chazu/brep/pkg/geom"
	"github.com/chazu/brep/pkg/kernel"
	"github.com/chazu/brep/pkg/topo"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

var yAxis = v3.Vec{Y: 1}

// centeredCylinder returns a cylinder along Y centered on the origin.
func centeredCylinder(k kernel.Kernel, diameter, length float64) (topo.Shape, error) {
	return k.Cylinder(v3.Vec{Y: -length / 2}, yAxis, diameter/2, length)
}

// WheelAxle builds one axle with a wheel at each end. Both wheels are
// partners of one wheel solid placed at either end of the axle, the left
// one turned half around Z.
func WheelAxle(k kernel.Kernel, p ChassisParams) (topo.Shape, error) {
	if err := p.Validate(); err != nil {
		return topo.Shape{}, err
	}
	wheel, err := centeredCylinder(k, p.WheelDiameter, p.WheelWidth())
	if err != nil {
		return topo.Shape{}, fmt.Errorf("model: wheel: %w", err)
	}
	axle, err := centeredCylinder(k, p.AxleDiameter(), p.AxleLength())
	if err != nil {
		return topo.Shape{}, fmt.Errorf("model: axle: %w", err)
	}

	right := geom.Translation(v3.Vec{Y: p.AxleLength() / 2})
	left := right.Inverse().Mul(geom.Rotation(zAxis, math.Pi))

	var b topo.CompoundBuilder
	return b.Add(wheel.Moved(left), wheel.Moved(right), axle).Compound(), nil
}

// Chassis builds two wheel/axle assemblies, front and rear, as moved
// partners of a single assembly.
func Chassis(k kernel.Kernel, p ChassisParams) (topo.Shape, error) {
	wa, err := WheelAxle(k, p)
	if err != nil {
		return topo.Shape{}, err
	}
	half := p.WheelBase() / 2
	front := geom.Translation(v3.Vec{X: half})
	rear := geom.Translation(v3.Vec{X: -half})

	var b topo.CompoundBuilder
	return b.Add(wa.Moved(front), wa.Moved(rear)).Compound(), nil
}
