package shaders

import (
	"strings"
	"testing"

	"github.com/Faultbox/topo-scene/internal/engine/shading"
	"github.com/Faultbox/topo-scene/internal/engine/terrain"
)

func testDefines() string {
	tp := terrain.DefaultParams()
	return Defines(tp, shading.DefaultParams(tp.NoiseScale))
}

func TestSourceExpandsInclude(t *testing.T) {
	src, err := Source(TerrainVertex, testDefines())
	if err != nil {
		t.Fatalf("Source: %v", err)
	}
	if strings.Contains(src, "#include") {
		t.Error("include directive left in output")
	}
	if !strings.Contains(src, "float fbm3(vec3 p)") {
		t.Error("noise kernel not inlined")
	}
	if !strings.HasPrefix(src, "#version 410 core\n#define EXTENT 40.0\n") {
		t.Errorf("defines not placed after #version:\n%s", src[:80])
	}
}

func TestDefinesCoverShaderSymbols(t *testing.T) {
	defs := testDefines()
	for _, sym := range []string{
		"NOISE_SCALE", "TIME_SCALE", "EPSILON", "VERTICAL_SCALE",
		"LIGHT_DIR", "FOG_NEAR", "FOG_FAR",
		"MICRO_FREQUENCY", "MICRO_STRENGTH", "CONTOUR_FREQUENCY",
		"CONTOUR_WIDTH_LOW", "CONTOUR_WIDTH_HIGH", "GLOW_STRENGTH", "RIM_STRENGTH",
		"COLOR_SHADOW", "COLOR_MID", "COLOR_HIGHLIGHT", "COLOR_CONTOUR", "COLOR_RIM", "COLOR_FOG",
	} {
		if !strings.Contains(defs, "#define "+sym+" ") {
			t.Errorf("missing define %s", sym)
		}
	}
}

// The pointer moves the camera only. Lighting stays fixed so the GPU and
// shading.Model.Shade agree.
func TestTerrainLightIsFixed(t *testing.T) {
	src, err := Source(TerrainFragment, testDefines())
	if err != nil {
		t.Fatalf("Source: %v", err)
	}
	if strings.Contains(src, "uPointer") {
		t.Error("terrain fragment stage reads the pointer")
	}
	if !strings.Contains(src, "vec3 lightDir = normalize(LIGHT_DIR);") {
		t.Error("light direction is not the fixed LIGHT_DIR")
	}
}

func TestAllShadersLoad(t *testing.T) {
	names := []string{
		TerrainVertex, TerrainFragment, FullscreenVertex, CopyFragment,
		FXAAFragment, BrightFragment, BlurFragment, BloomFragment,
		VignetteFragment, ScanlineFragment, GrainFragment,
	}
	for _, name := range names {
		t.Run(name, func(t *testing.T) {
			src, err := Source(name, "")
			if err != nil {
				t.Fatalf("Source: %v", err)
			}
			if !strings.HasPrefix(src, "#version 410 core") {
				t.Error("missing version header")
			}
			if !strings.Contains(src, "void main()") {
				t.Error("missing main")
			}
		})
	}
}

func TestSourceUnknown(t *testing.T) {
	if _, err := Source("missing.frag", ""); err == nil {
		t.Error("expected error for unknown shader")
	}
}

func TestGLSLFloat(t *testing.T) {
	tests := []struct {
		in   float32
		want string
	}{
		{40, "40.0"},
		{0.3, "0.3"},
		{-2, "-2.0"},
		{0.035, "0.035"},
	}
	for _, tt := range tests {
		if got := glslFloat(tt.in); got != tt.want {
			t.Errorf("glslFloat(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
