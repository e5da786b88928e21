package scene

import "testing"

// A surface whose restore failed has no GPU resources. Tier and size
// changes are remembered for the next restore instead of touching GL.
func TestSurfaceWithoutResources(t *testing.T) {
	s := &Surface{opts: SurfaceOptions{Resolution: 256, Width: 800, Height: 450}}
	if s.Ready() {
		t.Fatal("empty surface reported ready")
	}

	s.Resize(1280, 720)
	if err := s.SetResolution(64); err != nil {
		t.Fatalf("SetResolution: %v", err)
	}

	opts := s.Options()
	if opts.Width != 1280 || opts.Height != 720 {
		t.Errorf("size = %dx%d, want 1280x720", opts.Width, opts.Height)
	}
	if opts.Resolution != 64 {
		t.Errorf("resolution = %d, want 64", opts.Resolution)
	}
	if s.resolution != 0 {
		t.Errorf("grid uploaded without a context: %d", s.resolution)
	}
}
