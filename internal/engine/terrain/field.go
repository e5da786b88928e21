package terrain

import (
	"github.com/Faultbox/topo-scene/pkg/math"
	"github.com/Faultbox/topo-scene/pkg/noise"
)

// Field evaluates the animated heightfield. It mirrors the vertex stage of
// terrain.vert and is used for reference renders and tests; the live scene
// never evaluates it per vertex on the CPU.
type Field struct {
	params Params
}

// NewField creates a heightfield with the given parameters.
func NewField(p Params) *Field {
	return &Field{params: p}
}

// Params returns the field parameters.
func (f *Field) Params() Params {
	return f.params
}

// Elevation returns the normalized height at surface point (x, y) and scene time t.
// The result is always in [0, 1].
func (f *Field) Elevation(x, y, t float32) float32 {
	s := f.params.NoiseScale
	n := noise.FBM3(x*s, y*s, t*f.params.TimeScale)
	return math.Saturate(0.5 + 0.5*n)
}

// Height returns the displaced world-space height at (x, y).
func (f *Field) Height(x, y, t float32) float32 {
	return f.Elevation(x, y, t) * f.params.VerticalScale
}

// Normal returns the unit surface normal at (x, y) using central differences.
// The y component is always positive.
func (f *Field) Normal(x, y, t float32) math.Vec3 {
	e := f.params.Epsilon
	hl := f.Elevation(x-e, y, t)
	hr := f.Elevation(x+e, y, t)
	hd := f.Elevation(x, y-e, t)
	hu := f.Elevation(x, y+e, t)

	k := f.params.VerticalScale
	tx := math.Vec3{X: 2 * e, Y: (hr - hl) * k, Z: 0}
	tz := math.Vec3{X: 0, Y: (hu - hd) * k, Z: 2 * e}

	return tz.Cross(tx).Normalize()
}

// Slope returns 1 - normal.y, 0 on flat ground.
func Slope(n math.Vec3) float32 {
	return math.Saturate(1 - n.Y)
}
