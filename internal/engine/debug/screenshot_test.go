package debug

import (
	"image"
	"image/png"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func fixedClock() time.Time {
	return time.Date(2026, 3, 4, 5, 6, 7, 0, time.UTC)
}

func TestGenerateFilename(t *testing.T) {
	tests := []struct {
		name string
		dir  string
		want string
	}{
		{"with dir", "shots", filepath.Join("shots", "topo_2026-03-04_05-06-07.png")},
		{"no dir", "", "topo_2026-03-04_05-06-07.png"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sc := NewScreenshotCapture(tt.dir, "topo")
			sc.now = fixedClock
			if got := sc.GenerateFilename(); got != tt.want {
				t.Errorf("GenerateFilename() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestCapture(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested")
	sc := NewScreenshotCapture(dir, "topo")
	sc.now = fixedClock

	img := image.NewRGBA(image.Rect(0, 0, 4, 3))
	path, err := sc.Capture(img)
	if err != nil {
		t.Fatalf("Capture() error = %v", err)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	cfg, err := png.DecodeConfig(f)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Width != 4 || cfg.Height != 3 {
		t.Errorf("captured %dx%d, want 4x3", cfg.Width, cfg.Height)
	}
}
