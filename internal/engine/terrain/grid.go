package terrain

import "fmt"

// Grid resolutions used by the quality tiers.
const (
	MinResolution = 1
	MaxResolution = 512
)

// BuildGrid creates a flat XZ grid of resolution x resolution quads centered
// on the origin and spanning extent world units per side.
func BuildGrid(extent float32, resolution int) (*Mesh, error) {
	if resolution < MinResolution || resolution > MaxResolution {
		return nil, fmt.Errorf("grid resolution %d outside [%d, %d]", resolution, MinResolution, MaxResolution)
	}
	if extent <= 0 {
		return nil, fmt.Errorf("grid extent must be positive, got %v", extent)
	}

	side := resolution + 1
	half := extent / 2
	step := extent / float32(resolution)

	vertices := make([]Vertex, 0, side*side)
	for row := range side {
		for col := range side {
			vertices = append(vertices, Vertex{
				Position: [3]float32{-half + float32(col)*step, 0, -half + float32(row)*step},
				UV:       [2]float32{float32(col) / float32(resolution), float32(row) / float32(resolution)},
			})
		}
	}

	// Two counter-clockwise triangles per quad, seen from +Y.
	indices := make([]uint32, 0, resolution*resolution*6)
	for row := range resolution {
		for col := range resolution {
			tl := uint32(row*side + col)
			tr := tl + 1
			bl := tl + uint32(side)
			br := bl + 1
			indices = append(indices, tl, bl, tr, tr, bl, br)
		}
	}

	return &Mesh{
		Vertices:   vertices,
		Indices:    indices,
		Resolution: resolution,
		Bounds: Bounds{
			Min: [3]float32{-half, 0, -half},
			Max: [3]float32{half, 0, half},
		},
	}, nil
}
