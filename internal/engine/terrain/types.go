// Package terrain provides the procedural heightfield and the flat grid mesh it displaces.
package terrain

// Vertex is a point on the flat reference grid. Elevation and normal are
// derived per frame in the vertex shader; the buffer itself never changes.
type Vertex struct {
	Position [3]float32 // x, 0, z
	UV       [2]float32 // 0..1 across the grid
}

// Mesh holds the grid geometry ready for GPU upload.
type Mesh struct {
	Vertices   []Vertex
	Indices    []uint32
	Resolution int
	Bounds     Bounds
}

// Bounds holds the axis-aligned bounding box of the flat grid.
type Bounds struct {
	Min [3]float32
	Max [3]float32
}

// Params are the heightfield tuning constants. They are shared with the
// terrain shaders through generated #define lines, so the GPU and CPU paths
// always agree.
type Params struct {
	Extent        float32 // world size of the square grid
	NoiseScale    float32 // world units to noise frequency
	TimeScale     float32 // scene seconds to noise time axis
	Epsilon       float32 // finite difference step, world units
	VerticalScale float32 // elevation to world height exaggeration
}

// DefaultParams returns the tuned heightfield constants.
func DefaultParams() Params {
	return Params{
		Extent:        40,
		NoiseScale:    0.3,
		TimeScale:     0.02,
		Epsilon:       0.08,
		VerticalScale: 2.5,
	}
}
