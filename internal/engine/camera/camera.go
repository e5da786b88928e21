// Package camera provides the scene's pointer-driven parallax camera.
package camera

import (
	gomath "math"

	"github.com/Faultbox/topo-scene/pkg/math"
)

// ParallaxCamera looks at the terrain from a fixed vantage point and sways
// slightly with the smoothed pointer.
type ParallaxCamera struct {
	Eye    math.Vec3 // rest position
	Target math.Vec3 // look-at point

	// World units of eye offset per unit of pointer travel.
	SwayX float32
	SwayY float32

	FovY float32 // radians
	Near float32
	Far  float32
}

// NewParallaxCamera creates a camera framing the terrain from the front, above.
func NewParallaxCamera() *ParallaxCamera {
	return &ParallaxCamera{
		Eye:    math.Vec3{X: 0, Y: 5.5, Z: 13},
		Target: math.Vec3{X: 0, Y: 0.8, Z: 0},
		SwayX:  1.2,
		SwayY:  0.6,
		FovY:   float32(45 * gomath.Pi / 180),
		Near:   0.1,
		Far:    60,
	}
}

// Position returns the eye position for a pointer in NDC.
func (c *ParallaxCamera) Position(pointer math.Vec2) math.Vec3 {
	return math.Vec3{
		X: c.Eye.X + pointer.X*c.SwayX,
		Y: c.Eye.Y + pointer.Y*c.SwayY,
		Z: c.Eye.Z,
	}
}

// ViewMatrix returns the view matrix for a pointer in NDC.
func (c *ParallaxCamera) ViewMatrix(pointer math.Vec2) math.Mat4 {
	up := math.Vec3{X: 0, Y: 1, Z: 0}
	return math.LookAt(c.Position(pointer), c.Target, up)
}

// ProjectionMatrix returns the perspective projection for a viewport aspect ratio.
func (c *ParallaxCamera) ProjectionMatrix(aspect float32) math.Mat4 {
	return math.Perspective(c.FovY, aspect, c.Near, c.Far)
}

// ViewProj returns projection * view.
func (c *ParallaxCamera) ViewProj(pointer math.Vec2, aspect float32) math.Mat4 {
	return c.ProjectionMatrix(aspect).Mul(c.ViewMatrix(pointer))
}
