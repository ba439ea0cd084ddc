package model

import (
	"math"
	"strings"
	"testing"

	"github.com/chazu/brep/pkg/geom"
	"github.com/chazu/brep/pkg/kernel/sdfx"
	"github.com/chazu/brep/pkg/topo"
	v3 "github.com/deadsy/sdfx/vec/v3"
	"github.com/stretchr/testify/require"
)

func TestProfile(t *testing.T) {
	p := DefaultBottleParams()
	face, err := Profile(p)
	require.NoError(t, err)
	require.Equal(t, topo.Face, face.Kind())
	require.NoError(t, topo.Validate(face))

	outer, err := topo.OuterWire(face)
	require.NoError(t, err)
	closed, err := topo.IsClosed(outer)
	require.NoError(t, err)
	require.True(t, closed, "profile must be closed")

	edges, err := topo.Shapes(face, topo.Edge)
	require.NoError(t, err)
	require.Len(t, edges, 6)

	// Rectangle between the arc chords plus the two circular segments.
	w, th := p.Width, p.Thickness
	c := (w*w/4 + th*th/16 - th*th/4) / (th / 2) // circumcenter y solves |c+T/2| = |(W/2, c+T/4)|
	r := c + th/2
	theta := 2 * math.Asin(w/2/r)
	want := w*th/2 + 2*(r*r/2*(theta-math.Sin(theta)))

	area, err := topo.WireArea(outer)
	require.NoError(t, err)
	require.InEpsilon(t, want, area, 1e-3)
}

func TestProfileRejectsBadParams(t *testing.T) {
	_, err := Profile(BottleParams{Height: 1, Width: 0, Thickness: 1})
	var pe ParamError
	require.ErrorAs(t, err, &pe)
	require.Equal(t, "bottle.width", pe.Field)
}

func TestBottle(t *testing.T) {
	p := DefaultBottleParams()
	k := sdfx.New()
	bottle, err := Bottle(k, p)
	require.NoError(t, err)
	require.Equal(t, topo.Compound, bottle.Kind())

	solids, err := topo.Shapes(bottle, topo.Solid)
	require.NoError(t, err)
	require.Len(t, solids, 2)
	body := solids[0]

	inside := func(pt v3.Vec) bool {
		t.Helper()
		ok, err := k.Contains(body, pt)
		require.NoError(t, err)
		return ok
	}
	h, nh := p.Height, p.NeckHeight()
	require.False(t, inside(v3.Vec{Z: h / 2}), "body should be hollow")
	require.True(t, inside(v3.Vec{Y: -p.Thickness/2 + p.WallThickness()/2, Z: h / 2}), "side wall")
	require.True(t, inside(v3.Vec{Z: p.WallThickness() / 2}), "bottom wall")
	require.False(t, inside(v3.Vec{Z: h - p.WallThickness()/2}), "no wall between body and neck")
	require.False(t, inside(v3.Vec{Z: h + nh - 0.1}), "neck should be open")
	require.True(t, inside(v3.Vec{X: p.NeckRadius() - p.WallThickness()/2, Z: h + nh/2}), "neck wall")
	require.False(t, inside(v3.Vec{Z: h + nh + 1}))

	top, err := NeckTop(p)
	require.NoError(t, err)
	plane, ok := top.Geometry().(geom.Plane)
	require.True(t, ok)
	require.InDelta(t, h+nh, plane.Origin.Z, 1e-12)
}

func TestBottleRejectsBadParams(t *testing.T) {
	_, err := Bottle(sdfx.New(), BottleParams{Height: -1, Width: 1, Thickness: 1})
	require.Error(t, err)
}

func TestChassis(t *testing.T) {
	p := DefaultChassisParams()
	k := sdfx.New()
	ch, err := Chassis(k, p)
	require.NoError(t, err)

	n, err := topo.Count(ch, topo.Solid)
	require.NoError(t, err)
	require.Equal(t, 6, n)

	unique, err := topo.CollectUnique(ch, topo.Solid)
	require.NoError(t, err)
	require.Len(t, unique, 2, "one wheel and one axle")

	assemblies := ch.Children()
	require.Len(t, assemblies, 2)
	require.True(t, topo.IsPartner(assemblies[0], assemblies[1]))
	require.False(t, topo.IsSame(assemblies[0], assemblies[1]))

	half, l := p.WheelBase()/2, p.AxleLength()/2
	solids, err := topo.Shapes(ch, topo.Solid)
	require.NoError(t, err)
	wantCenters := []v3.Vec{
		{X: half, Y: -l}, {X: half, Y: l}, {X: half},
		{X: -half, Y: -l}, {X: -half, Y: l}, {X: -half},
	}
	for i, s := range solids {
		got := s.Placement().Apply(v3.Vec{})
		require.InDelta(t, 0, got.Sub(wantCenters[i]).Length(), 1e-9, "solid %d at %v", i, got)
		ok, err := k.Contains(s, wantCenters[i])
		require.NoError(t, err)
		require.True(t, ok, "solid %d should contain its center", i)
	}

	// Wheels sit outside the axle's radius at the ends.
	ok, err := k.Contains(solids[1], v3.Vec{X: half, Y: l, Z: p.WheelDiameter/2 - 0.1})
	require.NoError(t, err)
	require.True(t, ok)
	ok, err = k.Contains(solids[2], v3.Vec{X: half, Z: p.WheelDiameter/2 - 0.1})
	require.NoError(t, err)
	require.False(t, ok)
}

func TestPlates(t *testing.T) {
	p := PlateParams{Size: 40, HoleRadius: 10, Count: 3}
	plates, err := Plates(p)
	require.NoError(t, err)
	require.NoError(t, topo.Validate(plates))

	faces := plates.Children()
	require.Len(t, faces, 3)
	require.True(t, topo.IsPartner(faces[0], faces[2]))
	require.False(t, topo.IsPartner(faces[0], faces[1]))
	require.Equal(t, 2, faces[0].NumChildren())
	require.Equal(t, 1, faces[1].NumChildren())

	unique, err := topo.CollectUnique(plates, topo.Face)
	require.NoError(t, err)
	require.Len(t, unique, 2)

	inner, err := topo.InnerWires(faces[2])
	require.NoError(t, err)
	require.Len(t, inner, 1)
	c, err := topo.FirstCurve(inner[0])
	require.NoError(t, err)
	circ, ok := geom.AsCircle(c)
	require.True(t, ok)
	require.InDelta(t, 10, circ.Radius, 1e-12)
	require.InDelta(t, 2*p.Spacing(), circ.Center.X, 1e-9)
}

func TestPlatesRejectsBadParams(t *testing.T) {
	_, err := Plates(PlateParams{Size: 10, HoleRadius: 5, Count: 0})
	require.ErrorContains(t, err, "plates.hole_radius")
	require.ErrorContains(t, err, "plates.count")
}

func TestLoadConfig(t *testing.T) {
	tests := []struct {
		name    string
		doc     string
		want    Config
		wantErr string
	}{
		{
			name: "empty document keeps defaults",
			doc:  "",
			want: DefaultConfig(),
		},
		{
			name: "partial override",
			doc:  "bottle:\n  height: 100\nchassis:\n  wheel_diameter: 8\n",
			want: Config{
				Bottle:  BottleParams{Height: 100, Width: DefaultBottleWidth, Thickness: DefaultBottleThickness},
				Chassis: ChassisParams{WheelDiameter: 8},
				Plates:  DefaultPlateParams(),
			},
		},
		{
			name:    "unknown field",
			doc:     "bottle:\n  colour: green\n",
			wantErr: "decode config",
		},
		{
			name:    "hole wider than plate",
			doc:     "plates:\n  size: 10\n  hole_radius: 6\n",
			wantErr: "plates.hole_radius",
		},
		{
			name:    "non-positive dimension",
			doc:     "bottle:\n  thickness: 0\n",
			wantErr: "bottle.thickness",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := LoadConfig(strings.NewReader(tt.doc))
			if tt.wantErr != "" {
				require.ErrorContains(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.want, got)
		})
	}
}

func TestLoadBottleParams(t *testing.T) {
	p, err := LoadBottleParams(strings.NewReader("width: 40\nthickness: 20\n"))
	require.NoError(t, err)
	require.Equal(t, BottleParams{Height: DefaultBottleHeight, Width: 40, Thickness: 20}, p)
	require.InDelta(t, 5, p.NeckRadius(), 1e-12)

	_, err = LoadBottleParams(strings.NewReader("height: -3\n"))
	require.Error(t, err)
}
