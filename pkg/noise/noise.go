// Package noise provides the lattice noise primitives used to grow the terrain.
//
// Every function here is a pure, table-free function of its inputs: lattice
// values come from a sine-fract hash of the integer cell coordinates, so the
// same code can run inside a GLSL shader loop. The GLSL kernel in
// internal/engine/scene/shaders/noise.glsl implements the same algorithm with
// the same constants; this package is its CPU reference.
package noise

import "math"

// Hash constants shared with noise.glsl.
const (
	hashScale = 43758.5453123
	valueDotX = 12.9898
	valueDotY = 78.233
)

// Octave weights for FBM3. Frequency doubles per octave.
var fbmWeights = [3]float64{0.5, 0.25, 0.125}

// FBMAmplitude is the sum of the FBM3 octave weights.
const FBMAmplitude = 0.875

// MaxGradient3 bounds |Gradient3| (half the unit cube diagonal).
const MaxGradient3 = 0.8660254037844386

func fract(x float64) float64 {
	f := x - math.Floor(x)
	if f >= 1 {
		return 0
	}
	return f
}

// quintic is the C2 fade curve 6t^5 - 15t^4 + 10t^3.
func quintic(t float64) float64 {
	return t * t * t * (t*(t*6-15) + 10)
}

// hermite is the cubic fade curve 3t^2 - 2t^3.
func hermite(t float64) float64 {
	return t * t * (3 - 2*t)
}

func mix(a, b, t float64) float64 {
	return a + (b-a)*t
}

// gradient returns the pseudo-random gradient for lattice cell (x, y, z).
// Components are in [-1, 1] and the vector is shortened to length <= 1.
func gradient(x, y, z float64) (float64, float64, float64) {
	px := x*127.1 + y*311.7 + z*74.7
	py := x*269.5 + y*183.3 + z*246.1
	pz := x*113.5 + y*271.9 + z*124.6

	gx := -1 + 2*fract(math.Sin(px)*hashScale)
	gy := -1 + 2*fract(math.Sin(py)*hashScale)
	gz := -1 + 2*fract(math.Sin(pz)*hashScale)

	l := math.Max(math.Sqrt(gx*gx+gy*gy+gz*gz), 1)
	return gx / l, gy / l, gz / l
}

// corner evaluates the gradient ramp of lattice corner (ix+cx, iy+cy, iz+cz)
// at offset (fx, fy, fz) from the cell origin.
func corner(ix, iy, iz, fx, fy, fz, cx, cy, cz float64) float64 {
	gx, gy, gz := gradient(ix+cx, iy+cy, iz+cz)
	return gx*(fx-cx) + gy*(fy-cy) + gz*(fz-cz)
}

func gradient3(x, y, z float64) float64 {
	ix, iy, iz := math.Floor(x), math.Floor(y), math.Floor(z)
	fx, fy, fz := x-ix, y-iy, z-iz
	ux, uy, uz := quintic(fx), quintic(fy), quintic(fz)

	n000 := corner(ix, iy, iz, fx, fy, fz, 0, 0, 0)
	n100 := corner(ix, iy, iz, fx, fy, fz, 1, 0, 0)
	n010 := corner(ix, iy, iz, fx, fy, fz, 0, 1, 0)
	n110 := corner(ix, iy, iz, fx, fy, fz, 1, 1, 0)
	n001 := corner(ix, iy, iz, fx, fy, fz, 0, 0, 1)
	n101 := corner(ix, iy, iz, fx, fy, fz, 1, 0, 1)
	n011 := corner(ix, iy, iz, fx, fy, fz, 0, 1, 1)
	n111 := corner(ix, iy, iz, fx, fy, fz, 1, 1, 1)

	nx00 := mix(n000, n100, ux)
	nx10 := mix(n010, n110, ux)
	nx01 := mix(n001, n101, ux)
	nx11 := mix(n011, n111, ux)

	nxy0 := mix(nx00, nx10, uy)
	nxy1 := mix(nx01, nx11, uy)

	return mix(nxy0, nxy1, uz)
}

// Gradient3 returns 3D gradient noise at (x, y, z).
// The result is continuous with continuous first derivatives and lies in
// [-MaxGradient3, MaxGradient3]; it is zero at every lattice point.
func Gradient3(x, y, z float32) float32 {
	return float32(gradient3(float64(x), float64(y), float64(z)))
}

// FBM3 sums three octaves of Gradient3 with weights 0.5, 0.25 and 0.125 at
// frequencies 1, 2 and 4. |FBM3| <= FBMAmplitude * MaxGradient3.
func FBM3(x, y, z float32) float32 {
	px, py, pz := float64(x), float64(y), float64(z)
	sum := 0.0
	freq := 1.0
	for _, w := range fbmWeights {
		sum += w * gradient3(px*freq, py*freq, pz*freq)
		freq *= 2
	}
	return float32(sum)
}

func hash21(x, y float64) float64 {
	return fract(math.Sin(x*valueDotX+y*valueDotY) * hashScale)
}

// Value2 returns 2D value noise in [0, 1]. It is independent of Gradient3
// and is meant for fine surface detail rather than shape.
func Value2(x, y float32) float32 {
	px, py := float64(x), float64(y)
	ix, iy := math.Floor(px), math.Floor(py)
	fx, fy := px-ix, py-iy
	ux, uy := hermite(fx), hermite(fy)

	a := hash21(ix, iy)
	b := hash21(ix+1, iy)
	c := hash21(ix, iy+1)
	d := hash21(ix+1, iy+1)

	return float32(mix(mix(a, b, ux), mix(c, d, ux), uy))
}
