// Package preview renders the terrain on the CPU.
//
// The image is a still of the scene used as the context-loss placeholder
// and served to status clients. It is ray marched against terrain.Field and
// colored by shading.Model, so it matches the GPU output closely without
// sharing any GL state.
package preview

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/png"
	gomath "math"
	"os"

	"golang.org/x/image/draw"

	"github.com/Faultbox/topo-scene/internal/engine/camera"
	"github.com/Faultbox/topo-scene/internal/engine/shading"
	"github.com/Faultbox/topo-scene/internal/engine/terrain"
	"github.com/Faultbox/topo-scene/pkg/math"
)

// Options configures a preview render.
type Options struct {
	Width  int
	Height int

	// Downscale renders at Width/Downscale and upsamples with Catmull-Rom.
	// Values below 1 are treated as 1.
	Downscale int

	Time    float32   // scene seconds
	Pointer math.Vec2 // NDC

	Terrain terrain.Params
	Shading shading.Params
	Camera  *camera.ParallaxCamera // nil uses the default camera
}

// DefaultOptions returns a quarter-resolution preview of the default scene.
func DefaultOptions(width, height int) Options {
	tp := terrain.DefaultParams()
	return Options{
		Width:     width,
		Height:    height,
		Downscale: 4,
		Terrain:   tp,
		Shading:   shading.DefaultParams(tp.NoiseScale),
	}
}

const (
	marchStep   = 0.12
	refineSteps = 6
)

// Render draws the scene into a new image.
func Render(opts Options) (*image.RGBA, error) {
	if opts.Width <= 0 || opts.Height <= 0 {
		return nil, fmt.Errorf("invalid preview size %dx%d", opts.Width, opts.Height)
	}
	scale := opts.Downscale
	if scale < 1 {
		scale = 1
	}
	w := max(opts.Width/scale, 1)
	h := max(opts.Height/scale, 1)

	cam := opts.Camera
	if cam == nil {
		cam = camera.NewParallaxCamera()
	}

	r := &tracer{
		field: terrain.NewField(opts.Terrain),
		model: shading.New(opts.Shading),
		time:  opts.Time,
		eye:   cam.Position(opts.Pointer),
		far:   cam.Far,
	}
	r.basis(cam, float32(opts.Width)/float32(opts.Height))

	small := image.NewRGBA(image.Rect(0, 0, w, h))
	for py := 0; py < h; py++ {
		for px := 0; px < w; px++ {
			u := (float32(px)+0.5)/float32(w)*2 - 1
			v := 1 - (float32(py)+0.5)/float32(h)*2
			small.SetRGBA(px, py, toRGBA(r.trace(u, v)))
		}
	}

	if w == opts.Width && h == opts.Height {
		return small, nil
	}
	dst := image.NewRGBA(image.Rect(0, 0, opts.Width, opts.Height))
	draw.CatmullRom.Scale(dst, dst.Bounds(), small, small.Bounds(), draw.Src, nil)
	return dst, nil
}

type tracer struct {
	field *terrain.Field
	model *shading.Model
	time  float32

	eye                math.Vec3
	forward, right, up math.Vec3
	tanHalfFov, aspect float32
	far                float32
}

func (r *tracer) basis(cam *camera.ParallaxCamera, aspect float32) {
	r.forward = cam.Target.Sub(r.eye).Normalize()
	r.right = r.forward.Cross(math.Vec3{Y: 1}).Normalize()
	r.up = r.right.Cross(r.forward)
	r.tanHalfFov = float32(gomath.Tan(float64(cam.FovY) / 2))
	r.aspect = aspect
}

// trace returns the color seen through NDC point (u, v).
func (r *tracer) trace(u, v float32) shading.RGB {
	dir := r.forward.
		Add(r.right.Scale(u * r.tanHalfFov * r.aspect)).
		Add(r.up.Scale(v * r.tanHalfFov)).
		Normalize()

	p := r.model.Params()
	half := r.field.Params().Extent / 2
	top := r.field.Params().VerticalScale

	var prev float32
	for t := float32(marchStep); t < r.far; t += marchStep {
		pos := r.eye.Add(dir.Scale(t))
		if abs(pos.X) > half || abs(pos.Z) > half {
			if dir.Y >= 0 || pos.Y < 0 {
				break
			}
			prev = t
			continue
		}
		if pos.Y > top && dir.Y >= 0 {
			break
		}
		if pos.Y <= r.field.Height(pos.X, pos.Z, r.time) {
			return r.shade(r.refine(dir, prev, t))
		}
		prev = t
	}
	return p.Fog
}

// refine bisects between a point above the surface and one below it.
func (r *tracer) refine(dir math.Vec3, above, below float32) math.Vec3 {
	for range refineSteps {
		mid := (above + below) / 2
		pos := r.eye.Add(dir.Scale(mid))
		if pos.Y <= r.field.Height(pos.X, pos.Z, r.time) {
			below = mid
		} else {
			above = mid
		}
	}
	return r.eye.Add(dir.Scale(below))
}

func (r *tracer) shade(pos math.Vec3) shading.RGB {
	e := r.field.Elevation(pos.X, pos.Z, r.time)
	n := r.field.Normal(pos.X, pos.Z, r.time)
	world := math.Vec3{X: pos.X, Y: e * r.field.Params().VerticalScale, Z: pos.Z}
	return r.model.Shade(e, n, world, r.eye)
}

func toRGBA(c shading.RGB) color.RGBA {
	c = c.Saturate()
	return color.RGBA{
		R: uint8(c.X*255 + 0.5),
		G: uint8(c.Y*255 + 0.5),
		B: uint8(c.Z*255 + 0.5),
		A: 255,
	}
}

func abs(x float32) float32 {
	if x < 0 {
		return -x
	}
	return x
}

// EncodePNG encodes an image as PNG.
func EncodePNG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("encoding PNG: %w", err)
	}
	return buf.Bytes(), nil
}

// WritePNG saves an image to path.
func WritePNG(path string, img image.Image) error {
	data, err := EncodePNG(img)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}
