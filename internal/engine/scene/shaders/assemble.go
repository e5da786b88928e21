package shaders

import (
	"bufio"
	"fmt"
	"strconv"
	"strings"

	"github.com/Faultbox/topo-scene/internal/engine/shading"
	"github.com/Faultbox/topo-scene/internal/engine/terrain"
	"github.com/Faultbox/topo-scene/pkg/math"
)

// Defines renders the heightfield and shading constants as GLSL #define lines.
func Defines(tp terrain.Params, sp shading.Params) string {
	var b strings.Builder

	def := func(name, value string) {
		fmt.Fprintf(&b, "#define %s %s\n", name, value)
	}

	def("EXTENT", glslFloat(tp.Extent))
	def("NOISE_SCALE", glslFloat(tp.NoiseScale))
	def("TIME_SCALE", glslFloat(tp.TimeScale))
	def("EPSILON", glslFloat(tp.Epsilon))
	def("VERTICAL_SCALE", glslFloat(tp.VerticalScale))

	def("LIGHT_DIR", glslVec3(sp.LightDir))
	def("FOG_NEAR", glslFloat(sp.FogNear))
	def("FOG_FAR", glslFloat(sp.FogFar))
	def("MICRO_FREQUENCY", glslFloat(sp.MicroFrequency))
	def("MICRO_STRENGTH", glslFloat(sp.MicroStrength))
	def("CONTOUR_FREQUENCY", glslFloat(sp.ContourFrequency))
	def("CONTOUR_WIDTH_LOW", glslFloat(sp.ContourWidthLow))
	def("CONTOUR_WIDTH_HIGH", glslFloat(sp.ContourWidthHigh))
	def("GLOW_STRENGTH", glslFloat(sp.GlowStrength))
	def("RIM_STRENGTH", glslFloat(sp.RimStrength))

	def("COLOR_SHADOW", glslVec3(sp.Shadow))
	def("COLOR_MID", glslVec3(sp.Mid))
	def("COLOR_HIGHLIGHT", glslVec3(sp.Highlight))
	def("COLOR_CONTOUR", glslVec3(sp.Contour))
	def("COLOR_RIM", glslVec3(sp.Rim))
	def("COLOR_FOG", glslVec3(sp.Fog))

	return b.String()
}

// Source returns a shader source with #include lines expanded and defines
// inserted right after the #version directive. defines may be empty.
func Source(name, defines string) (string, error) {
	body, err := expand(name, 0)
	if err != nil {
		return "", err
	}
	if defines == "" {
		return body, nil
	}

	version, rest, ok := strings.Cut(body, "\n")
	if !ok || !strings.HasPrefix(strings.TrimSpace(version), "#version") {
		return "", fmt.Errorf("shader %s: missing #version directive", name)
	}
	return version + "\n" + defines + rest, nil
}

// MustSource is like Source but panics on error. Shader names are
// compile-time constants, so a failure here is a build defect.
func MustSource(name, defines string) string {
	src, err := Source(name, defines)
	if err != nil {
		panic(err)
	}
	return src
}

const maxIncludeDepth = 4

func expand(name string, depth int) (string, error) {
	if depth > maxIncludeDepth {
		return "", fmt.Errorf("shader %s: include depth exceeded", name)
	}
	data, err := files.ReadFile(name)
	if err != nil {
		return "", fmt.Errorf("shader %s: %w", name, err)
	}

	var out strings.Builder
	sc := bufio.NewScanner(strings.NewReader(string(data)))
	for sc.Scan() {
		line := sc.Text()
		trimmed := strings.TrimSpace(line)
		if inc, ok := strings.CutPrefix(trimmed, "#include"); ok {
			target, err := strconv.Unquote(strings.TrimSpace(inc))
			if err != nil {
				return "", fmt.Errorf("shader %s: bad include %q", name, trimmed)
			}
			sub, err := expand(target, depth+1)
			if err != nil {
				return "", err
			}
			out.WriteString(sub)
			continue
		}
		out.WriteString(line)
		out.WriteByte('\n')
	}
	if err := sc.Err(); err != nil {
		return "", fmt.Errorf("shader %s: %w", name, err)
	}
	return out.String(), nil
}

func glslFloat(v float32) string {
	s := strconv.FormatFloat(float64(v), 'f', -1, 32)
	if !strings.ContainsAny(s, ".e") {
		s += ".0"
	}
	return s
}

func glslVec3(v math.Vec3) string {
	return "vec3(" + glslFloat(v.X) + ", " + glslFloat(v.Y) + ", " + glslFloat(v.Z) + ")"
}
