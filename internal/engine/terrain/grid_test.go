package terrain

import "testing"

func TestBuildGrid(t *testing.T) {
	tests := []struct {
		name       string
		resolution int
	}{
		{"low tier", 64},
		{"high tier", 100},
		{"single quad", 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mesh, err := BuildGrid(40, tt.resolution)
			if err != nil {
				t.Fatalf("BuildGrid: %v", err)
			}

			side := tt.resolution + 1
			if len(mesh.Vertices) != side*side {
				t.Errorf("vertices = %d, want %d", len(mesh.Vertices), side*side)
			}
			if len(mesh.Indices) != tt.resolution*tt.resolution*6 {
				t.Errorf("indices = %d, want %d", len(mesh.Indices), tt.resolution*tt.resolution*6)
			}
			for _, idx := range mesh.Indices {
				if int(idx) >= len(mesh.Vertices) {
					t.Fatalf("index %d out of range", idx)
				}
			}

			first := mesh.Vertices[0].Position
			last := mesh.Vertices[len(mesh.Vertices)-1].Position
			if first != [3]float32{-20, 0, -20} {
				t.Errorf("first vertex = %v, want (-20,0,-20)", first)
			}
			if last[0] < 19.999 || last[2] < 19.999 {
				t.Errorf("last vertex = %v, want (20,0,20)", last)
			}
			if mesh.Bounds.Max != [3]float32{20, 0, 20} {
				t.Errorf("bounds max = %v", mesh.Bounds.Max)
			}
		})
	}
}

func TestBuildGridWindingFacesUp(t *testing.T) {
	mesh, err := BuildGrid(2, 1)
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < len(mesh.Indices); i += 3 {
		a := mesh.Vertices[mesh.Indices[i]].Position
		b := mesh.Vertices[mesh.Indices[i+1]].Position
		c := mesh.Vertices[mesh.Indices[i+2]].Position
		// y component of (b-a) x (c-a)
		ny := (b[2]-a[2])*(c[0]-a[0]) - (b[0]-a[0])*(c[2]-a[2])
		if ny <= 0 {
			t.Errorf("triangle %d faces down", i/3)
		}
	}
}

func TestBuildGridRejectsBadInput(t *testing.T) {
	if _, err := BuildGrid(40, 0); err == nil {
		t.Error("expected error for zero resolution")
	}
	if _, err := BuildGrid(40, MaxResolution+1); err == nil {
		t.Error("expected error for huge resolution")
	}
	if _, err := BuildGrid(0, 64); err == nil {
		t.Error("expected error for zero extent")
	}
}
