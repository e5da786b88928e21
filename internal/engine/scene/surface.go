package scene

import (
	"fmt"
	"unsafe"

	"github.com/go-gl/gl/v4.1-core/gl"
	"go.uber.org/zap"

	"github.com/Faultbox/topo-scene/internal/engine/camera"
	"github.com/Faultbox/topo-scene/internal/engine/framebuffer"
	"github.com/Faultbox/topo-scene/internal/engine/scene/shaders"
	"github.com/Faultbox/topo-scene/internal/engine/shader"
	"github.com/Faultbox/topo-scene/internal/engine/shading"
	"github.com/Faultbox/topo-scene/internal/engine/terrain"
	"github.com/Faultbox/topo-scene/internal/logger"
)

// glContextLost is GL_CONTEXT_LOST from KHR_robustness; the 4.1 core
// bindings do not export it.
const glContextLost = 0x0507

// SurfaceOptions configures the GPU side of the scene.
type SurfaceOptions struct {
	Terrain    terrain.Params
	Shading    shading.Params
	Resolution int   // grid quads per side
	Width      int32 // scene target size in pixels
	Height     int32
}

// Surface draws the terrain grid into an offscreen scene target.
type Surface struct {
	opts    SurfaceOptions
	camera  *camera.ParallaxCamera
	program *shader.Program
	target  *framebuffer.Framebuffer

	vao        uint32
	vbo        uint32
	ebo        uint32
	indexCount int32
	resolution int

	log *zap.Logger
}

// NewSurface compiles the terrain program, uploads the grid and allocates
// the scene target. A GL context must be current.
func NewSurface(opts SurfaceOptions) (*Surface, error) {
	s := &Surface{
		opts:   opts,
		camera: camera.NewParallaxCamera(),
		log:    logger.Named("scene"),
	}
	if err := s.create(); err != nil {
		s.Destroy()
		return nil, err
	}
	return s, nil
}

func (s *Surface) create() error {
	defines := shaders.Defines(s.opts.Terrain, s.opts.Shading)
	vert, err := shaders.Source(shaders.TerrainVertex, defines)
	if err != nil {
		return err
	}
	frag, err := shaders.Source(shaders.TerrainFragment, defines)
	if err != nil {
		return err
	}
	s.program, err = shader.Compile("terrain", vert, frag)
	if err != nil {
		return err
	}

	s.target, err = framebuffer.New(s.opts.Width, s.opts.Height, framebuffer.Options{Depth: true})
	if err != nil {
		return fmt.Errorf("scene target: %w", err)
	}

	return s.uploadGrid(s.opts.Resolution)
}

func (s *Surface) uploadGrid(resolution int) error {
	mesh, err := terrain.BuildGrid(s.opts.Terrain.Extent, resolution)
	if err != nil {
		return fmt.Errorf("terrain grid: %w", err)
	}
	s.releaseGrid()

	gl.GenVertexArrays(1, &s.vao)
	gl.BindVertexArray(s.vao)

	vertexSize := int(unsafe.Sizeof(terrain.Vertex{}))
	gl.GenBuffers(1, &s.vbo)
	gl.BindBuffer(gl.ARRAY_BUFFER, s.vbo)
	gl.BufferData(gl.ARRAY_BUFFER, len(mesh.Vertices)*vertexSize, unsafe.Pointer(&mesh.Vertices[0]), gl.STATIC_DRAW)

	// Position (location 0)
	gl.VertexAttribPointerWithOffset(0, 3, gl.FLOAT, false, int32(vertexSize), 0)
	gl.EnableVertexAttribArray(0)

	// UV (location 1)
	gl.VertexAttribPointerWithOffset(1, 2, gl.FLOAT, false, int32(vertexSize), 3*4)
	gl.EnableVertexAttribArray(1)

	gl.GenBuffers(1, &s.ebo)
	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, s.ebo)
	gl.BufferData(gl.ELEMENT_ARRAY_BUFFER, len(mesh.Indices)*4, unsafe.Pointer(&mesh.Indices[0]), gl.STATIC_DRAW)

	gl.BindVertexArray(0)

	s.indexCount = int32(len(mesh.Indices))
	s.resolution = mesh.Resolution
	s.log.Debug("grid uploaded",
		zap.Int("resolution", s.resolution),
		zap.Int("vertices", len(mesh.Vertices)),
		zap.Int32("indices", s.indexCount))
	return nil
}

// SetResolution rebuilds the grid when the tier's resolution changed.
// Without GPU resources the value is kept for the next Restore.
func (s *Surface) SetResolution(resolution int) error {
	s.opts.Resolution = resolution
	if !s.Ready() || resolution == s.resolution {
		return nil
	}
	return s.uploadGrid(resolution)
}

// Resize resizes the scene target.
func (s *Surface) Resize(width, height int32) {
	s.opts.Width, s.opts.Height = width, height
	if s.target != nil {
		s.target.Resize(width, height)
	}
}

// Ready reports whether the surface holds live GPU resources.
func (s *Surface) Ready() bool {
	return s.program != nil && s.target != nil
}

// Options returns the current configuration, including changes made while
// the surface had no GPU resources.
func (s *Surface) Options() SurfaceOptions {
	return s.opts
}

// Target returns the offscreen scene target.
func (s *Surface) Target() *framebuffer.Framebuffer {
	return s.target
}

// Camera returns the scene camera.
func (s *Surface) Camera() *camera.ParallaxCamera {
	return s.camera
}

// Render draws one frame into the scene target. All uniforms are set
// before the draw call.
func (s *Surface) Render(u Uniforms) {
	w, h := s.target.Size()
	aspect := float32(w) / float32(h)
	viewProj := s.camera.ViewProj(u.Pointer, aspect)
	eye := s.camera.Position(u.Pointer)
	fog := s.opts.Shading.Fog

	s.target.Bind()
	s.target.Clear(fog.X, fog.Y, fog.Z, 1)

	gl.Enable(gl.DEPTH_TEST)
	gl.DepthFunc(gl.LESS)
	gl.Enable(gl.CULL_FACE)
	gl.CullFace(gl.BACK)
	gl.FrontFace(gl.CCW)

	s.program.Use()
	s.program.SetFloat("uTime", u.Time)
	s.program.SetMat4("uViewProj", viewProj.Ptr())
	s.program.SetVec3("uCameraPos", eye.X, eye.Y, eye.Z)

	gl.BindVertexArray(s.vao)
	gl.DrawElements(gl.TRIANGLES, s.indexCount, gl.UNSIGNED_INT, nil)
	gl.BindVertexArray(0)

	gl.Disable(gl.CULL_FACE)
	gl.Disable(gl.DEPTH_TEST)
	s.target.Unbind()
}

// Restore rebuilds every GPU resource in a fresh context. Handles from the
// lost context are dropped without being deleted.
// A failed restore releases what it managed to create and can be retried.
func (s *Surface) Restore() error {
	s.forget()
	if err := s.create(); err != nil {
		s.Destroy()
		return fmt.Errorf("restoring surface: %w", err)
	}
	s.log.Info("surface restored", zap.Int("resolution", s.resolution))
	return nil
}

// Destroy releases all GPU resources.
func (s *Surface) Destroy() {
	s.releaseGrid()
	if s.program != nil {
		s.program.Destroy()
		s.program = nil
	}
	if s.target != nil {
		s.target.Destroy()
		s.target = nil
	}
}

func (s *Surface) releaseGrid() {
	if s.vao != 0 {
		gl.DeleteVertexArrays(1, &s.vao)
		s.vao = 0
	}
	if s.vbo != 0 {
		gl.DeleteBuffers(1, &s.vbo)
		s.vbo = 0
	}
	if s.ebo != 0 {
		gl.DeleteBuffers(1, &s.ebo)
		s.ebo = 0
	}
	s.indexCount = 0
	s.resolution = 0
}

func (s *Surface) forget() {
	s.vao, s.vbo, s.ebo = 0, 0, 0
	s.indexCount = 0
	s.resolution = 0
	s.program = nil
	s.target = nil
}

// ContextLost drains the GL error queue and reports whether it held
// GL_CONTEXT_LOST. Other errors are logged.
func ContextLost() bool {
	lost := false
	for i := 0; i < 16; i++ {
		code := gl.GetError()
		if code == gl.NO_ERROR {
			break
		}
		if code == glContextLost {
			lost = true
			continue
		}
		logger.Debug("gl error", zap.Uint32("code", code))
	}
	return lost
}
