package framebuffer

import (
	"bytes"
	"testing"
)

func TestFlipRows(t *testing.T) {
	pix := []byte{
		1, 1, 1, 1,
		2, 2, 2, 2,
		3, 3, 3, 3,
	}
	FlipRows(pix, 4)
	want := []byte{
		3, 3, 3, 3,
		2, 2, 2, 2,
		1, 1, 1, 1,
	}
	if !bytes.Equal(pix, want) {
		t.Errorf("FlipRows = %v, want %v", pix, want)
	}
}

func TestFlipRowsDegenerate(t *testing.T) {
	FlipRows(nil, 4)
	FlipRows([]byte{1, 2}, 0)

	single := []byte{9, 8, 7, 6}
	FlipRows(single, 4)
	if !bytes.Equal(single, []byte{9, 8, 7, 6}) {
		t.Errorf("single row changed: %v", single)
	}
}

func TestScaledSize(t *testing.T) {
	tests := []struct {
		name   string
		w, h   int32
		factor float32
		wantW  int32
		wantH  int32
	}{
		{"identity", 800, 600, 1, 800, 600},
		{"half", 800, 600, 0.5, 400, 300},
		{"rounds", 1001, 3, 0.5, 501, 2},
		{"zero factor", 800, 600, 0, 800, 600},
		{"tiny", 1, 1, 0.1, 1, 1},
		{"empty window", 0, 0, 1, 1, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, h := ScaledSize(tt.w, tt.h, tt.factor)
			if w != tt.wantW || h != tt.wantH {
				t.Errorf("ScaledSize() = %dx%d, want %dx%d", w, h, tt.wantW, tt.wantH)
			}
		})
	}
}
