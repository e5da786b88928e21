// Package shading implements the topographic terrain shading model.
//
// Model.Shade is the CPU reference of the fragment stage in terrain.frag:
// fog, diffuse light, an AO proxy, slope-weighted micro texture, contour
// bands with glow, a three-tone palette, rim light, peak and valley
// modulation, and finally fog blending.
package shading

import (
	"github.com/Faultbox/topo-scene/pkg/math"
	"github.com/Faultbox/topo-scene/pkg/noise"
)

// RGB is a linear color with components in [0, 1].
type RGB = math.Vec3

// Params holds the shading constants shared with terrain.frag.
type Params struct {
	LightDir math.Vec3 // unit vector toward the light

	FogNear float32 // horizontal distance with no fog
	FogFar  float32 // horizontal distance with full fog

	MicroFrequency float32 // micro texture frequency in world units
	MicroStrength  float32

	ContourFrequency float32 // bands per unit of elevation
	ContourWidthLow  float32 // band half width in valleys
	ContourWidthHigh float32 // band half width on peaks
	GlowStrength     float32
	RimStrength      float32

	Shadow    RGB
	Mid       RGB
	Highlight RGB
	Contour   RGB
	Rim       RGB
	Fog       RGB
}

// DefaultParams returns the tuned palette and constants.
// The micro texture runs at six times the terrain noise frequency.
func DefaultParams(noiseScale float32) Params {
	return Params{
		LightDir: math.Vec3{X: -0.5, Y: 0.8, Z: 0.35}.Normalize(),

		FogNear: 5,
		FogFar:  18,

		MicroFrequency: noiseScale * 6,
		MicroStrength:  0.35,

		ContourFrequency: 14,
		ContourWidthLow:  0.035,
		ContourWidthHigh: 0.09,
		GlowStrength:     0.35,
		RimStrength:      0.35,

		Shadow:    RGB{X: 0.016, Y: 0.024, Z: 0.04},
		Mid:       RGB{X: 0.07, Y: 0.1, Z: 0.14},
		Highlight: RGB{X: 0.32, Y: 0.42, Z: 0.52},
		Contour:   RGB{X: 0.42, Y: 0.82, Z: 0.94},
		Rim:       RGB{X: 0.28, Y: 0.55, Z: 0.78},
		Fog:       RGB{X: 0.02, Y: 0.027, Z: 0.04},
	}
}

// Model shades terrain fragments.
type Model struct {
	p Params
}

// New creates a shading model.
func New(p Params) *Model {
	return &Model{p: p}
}

// Params returns the model parameters.
func (m *Model) Params() Params {
	return m.p
}

// FogFactor returns the fog amount for a horizontal distance from the camera.
func (m *Model) FogFactor(distance float32) float32 {
	return math.Smoothstep(m.p.FogNear, m.p.FogFar, distance)
}

// ContourMask returns the contour line intensity and glow for an elevation.
// Bands get wider as elevation rises.
func (m *Model) ContourMask(elevation float32) (line, glow float32) {
	elevation = math.Saturate(elevation)
	width := math.Mix(m.p.ContourWidthLow, m.p.ContourWidthHigh, elevation)

	f := math.Fract(elevation * m.p.ContourFrequency)
	d := f
	if 1-f < d {
		d = 1 - f
	}

	line = 1 - math.Smoothstep(width*0.5, width, d)
	glow = (1 - math.Smoothstep(width, width*4, d)) * m.p.GlowStrength
	return line, glow
}

// Shade returns the final color of a terrain fragment.
// normal must be a unit vector; worldPos and camera are world-space points.
func (m *Model) Shade(elevation float32, normal, worldPos, camera math.Vec3) RGB {
	p := &m.p
	elevation = math.Saturate(elevation)

	// 1. distance fog
	fog := m.FogFactor(worldPos.XZ().Distance(camera.XZ()))

	// 2. diffuse
	diffuse := normal.Dot(p.LightDir)
	if !(diffuse > 0) {
		diffuse = 0
	}

	// 3. ambient occlusion proxy
	ao := 0.3 + 0.7*diffuse

	// 4. micro texture on slopes and heights
	slope := math.Saturate(1 - normal.Y)
	micro := noise.Value2(worldPos.X*p.MicroFrequency, worldPos.Z*p.MicroFrequency)
	texAmount := math.Smoothstep(0.02, 0.35, slope) * math.Mix(0.4, 1.0, elevation) * p.MicroStrength

	// 5. contour bands
	line, glow := m.ContourMask(elevation)
	lineIntensity := line * (1 - fog) * math.Mix(0.6, 1.0, ao)
	glow *= 1 - fog

	// 6. composition
	color := p.Shadow.Mix(p.Mid, math.Smoothstep(0.3, 0.8, ao))
	color = color.Mix(p.Highlight, math.Smoothstep(0.15, 0.85, diffuse*elevation))
	color = color.Scale(math.Mix(1, 0.7+0.6*micro, texAmount))

	color = color.Mix(p.Contour, lineIntensity)
	color = color.Add(p.Contour.Scale(glow * 0.4))

	view := camera.Sub(worldPos).Normalize()
	facing := math.Saturate(normal.Dot(view))
	rim := math.Pow(1-facing, 3) * math.Smoothstep(0.05, 0.3, slope) * p.RimStrength
	color = color.Add(p.Rim.Scale(rim))

	color = color.Add(p.Highlight.Scale(math.Smoothstep(0.7, 0.95, elevation) * 0.15))
	color = color.Scale(math.Mix(0.6, 1.0, math.Smoothstep(0.0, 0.3, elevation)))

	color = color.Mix(p.Fog, fog)

	return color.Saturate()
}
