package model

import (
	"errors"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

// Default bottle dimensions in mm.
const (
	DefaultBottleHeight    = 70.0
	DefaultBottleWidth     = 50.0
	DefaultBottleThickness = 30.0
)

// DefaultWheelDiameter is the default chassis wheel diameter in mm.
const DefaultWheelDiameter = 5.0

// Default plate layout: two 40 mm plates, the first with a 10 mm hole.
const (
	DefaultPlateSize       = 40.0
	DefaultPlateHoleRadius = 10.0
	DefaultPlateCount      = 2
)

// ParamError reports a parameter outside its valid range.
type ParamError struct {
	Field string
	Value float64
}

func (e ParamError) Error() string {
	return fmt.Sprintf("model: %s = %g must be positive", e.Field, e.Value)
}

// BottleParams holds the dimensions of the bottle. Everything else (neck,
// fillet radius, wall and thread) is derived from them.
type BottleParams struct {
	Height    float64 `yaml:"height"`    // body height, neck excluded
	Width     float64 `yaml:"width"`     // extent along X
	Thickness float64 `yaml:"thickness"` // extent along Y
}

// DefaultBottleParams returns the classic 70 x 50 x 30 bottle.
func DefaultBottleParams() BottleParams {
	return BottleParams{
		Height:    DefaultBottleHeight,
		Width:     DefaultBottleWidth,
		Thickness: DefaultBottleThickness,
	}
}

// Validate checks that every dimension is positive.
func (p BottleParams) Validate() error {
	var errs []error
	for _, f := range []struct {
		name string
		v    float64
	}{{"bottle.height", p.Height}, {"bottle.width", p.Width}, {"bottle.thickness", p.Thickness}} {
		if !(f.v > 0) {
			errs = append(errs, ParamError{Field: f.name, Value: f.v})
		}
	}
	return errors.Join(errs...)
}

// Derived bottle dimensions.

func (p BottleParams) FilletRadius() float64 { return p.Thickness / 12 }
func (p BottleParams) NeckRadius() float64 { return p.Thickness / 4 }
func (p BottleParams) NeckHeight() float64 { return p.Height / 10 }
func (p BottleParams) WallThickness() float64 { return p.Thickness / 50 }
func (p BottleParams) ThreadRadius() float64 { return p.NeckRadius() * 1.05 }
func (p BottleParams) ThreadPitch() float64 { return p.NeckHeight() / 4 }

// ChassisParams holds the wheel diameter; the rest of the chassis scales
// with it.
type ChassisParams struct {
	WheelDiameter float64 `yaml:"wheel_diameter"`
}

// DefaultChassisParams returns the default chassis.
func DefaultChassisParams() ChassisParams {
	return ChassisParams{WheelDiameter: DefaultWheelDiameter}
}

// Validate checks that the wheel diameter is positive.
func (p ChassisParams) Validate() error {
	if !(p.WheelDiameter > 0) {
		return ParamError{Field: "chassis.wheel_diameter", Value: p.WheelDiameter}
	}
	return nil
}

// Derived chassis dimensions.

func (p ChassisParams) WheelWidth() float64 { return p.WheelDiameter / 6 }
func (p ChassisParams) AxleDiameter() float64 { return p.WheelDiameter / 5 }
func (p ChassisParams) AxleLength() float64 { return p.WheelDiameter * 2.5 }
func (p ChassisParams) WheelBase() float64 { return p.WheelDiameter * 3.5 }

// PlateParams describes a row of square plates in the XY plane. Plates at
// even positions get a centered circular hole.
type PlateParams struct {
	Size       float64 `yaml:"size"`
	HoleRadius float64 `yaml:"hole_radius"`
	Count      int     `yaml:"count"`
}

// DefaultPlateParams returns the default plate row.
func DefaultPlateParams() PlateParams {
	return PlateParams{Size: DefaultPlateSize, HoleRadius: DefaultPlateHoleRadius, Count: DefaultPlateCount}
}

// Validate checks that the dimensions are positive and that the hole fits
// inside a plate.
func (p PlateParams) Validate() error {
	var errs []error
	if !(p.Size > 0) {
		errs = append(errs, ParamError{Field: "plates.size", Value: p.Size})
	}
	if !(p.HoleRadius > 0) {
		errs = append(errs, ParamError{Field: "plates.hole_radius", Value: p.HoleRadius})
	} else if p.HoleRadius >= p.Size/2 {
		errs = append(errs, fmt.Errorf("model: plates.hole_radius = %g must be less than half the size", p.HoleRadius))
	}
	if p.Count <= 0 {
		errs = append(errs, ParamError{Field: "plates.count", Value: float64(p.Count)})
	}
	return errors.Join(errs...)
}

// Spacing is the distance between neighbouring plate centers.
func (p PlateParams) Spacing() float64 { return p.Size * 1.5 }

// Config is the YAML document describing the models. Missing sections and
// fields keep their defaults.
type Config struct {
	Bottle  BottleParams  `yaml:"bottle"`
	Chassis ChassisParams `yaml:"chassis"`
	Plates  PlateParams   `yaml:"plates"`
}

// DefaultConfig returns the configuration with every default applied.
func DefaultConfig() Config {
	return Config{
		Bottle:  DefaultBottleParams(),
		Chassis: DefaultChassisParams(),
		Plates:  DefaultPlateParams(),
	}
}

// Validate checks every section.
func (c Config) Validate() error {
	return errors.Join(c.Bottle.Validate(), c.Chassis.Validate(), c.Plates.Validate())
}

// LoadConfig decodes a YAML configuration over the defaults. Unknown fields
// are rejected. An empty document yields the defaults.
func LoadConfig(r io.Reader) (Config, error) {
	cfg := DefaultConfig()
	if err := decode(r, &cfg); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// LoadBottleParams decodes bottle parameters from a YAML document holding
// only the bottle fields.
func LoadBottleParams(r io.Reader) (BottleParams, error) {
	p := DefaultBottleParams()
	if err := decode(r, &p); err != nil {
		return BottleParams{}, err
	}
	if err := p.Validate(); err != nil {
		return BottleParams{}, err
	}
	return p, nil
}

func decode(r io.Reader, v any) error {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(v); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("model: decode config: %w", err)
	}
	return nil
}
