package postfx

import (
	"fmt"

	"github.com/go-gl/gl/v4.1-core/gl"

	"github.com/Faultbox/topo-scene/internal/engine/framebuffer"
	"github.com/Faultbox/topo-scene/internal/engine/scene/shaders"
	"github.com/Faultbox/topo-scene/internal/engine/shader"
)

// Stack executes pass chains on the GPU.
type Stack struct {
	copy      *shader.Program
	fxaa      *shader.Program
	bright    *shader.Program
	blur      *shader.Program
	bloom     *shader.Program
	vignette  *shader.Program
	scanlines *shader.Program
	grain     *shader.Program

	vao uint32 // empty, for the attribute-less fullscreen triangle

	ping   *framebuffer.Framebuffer
	pong   *framebuffer.Framebuffer
	bloomA *framebuffer.Framebuffer // half resolution
	bloomB *framebuffer.Framebuffer

	width, height int32 // scene target size, kept across context loss
}

// NewStack compiles the pass programs and allocates intermediate targets
// matching the scene target size.
func NewStack(width, height int32) (*Stack, error) {
	s := &Stack{}
	if err := s.create(width, height); err != nil {
		s.Destroy()
		return nil, err
	}
	return s, nil
}

func (s *Stack) create(width, height int32) error {
	s.width, s.height = width, height

	vert, err := shaders.Source(shaders.FullscreenVertex, "")
	if err != nil {
		return err
	}

	programs := []struct {
		dst  **shader.Program
		name string
		frag string
	}{
		{&s.copy, "copy", shaders.CopyFragment},
		{&s.fxaa, "fxaa", shaders.FXAAFragment},
		{&s.bright, "bright", shaders.BrightFragment},
		{&s.blur, "blur", shaders.BlurFragment},
		{&s.bloom, "bloom", shaders.BloomFragment},
		{&s.vignette, "vignette", shaders.VignetteFragment},
		{&s.scanlines, "scanlines", shaders.ScanlineFragment},
		{&s.grain, "grain", shaders.GrainFragment},
	}
	for _, p := range programs {
		frag, err := shaders.Source(p.frag, "")
		if err != nil {
			return err
		}
		if *p.dst, err = shader.Compile(p.name, vert, frag); err != nil {
			return err
		}
	}

	gl.GenVertexArrays(1, &s.vao)

	if s.ping, err = framebuffer.New(width, height, framebuffer.Options{}); err != nil {
		return fmt.Errorf("postfx ping: %w", err)
	}
	if s.pong, err = framebuffer.New(width, height, framebuffer.Options{}); err != nil {
		return fmt.Errorf("postfx pong: %w", err)
	}
	if s.bloomA, err = framebuffer.New(width/2, height/2, framebuffer.Options{}); err != nil {
		return fmt.Errorf("postfx bloom: %w", err)
	}
	if s.bloomB, err = framebuffer.New(width/2, height/2, framebuffer.Options{}); err != nil {
		return fmt.Errorf("postfx bloom: %w", err)
	}
	return nil
}

// Resize matches the intermediate targets to a new scene target size.
// Without live targets only the size is recorded for the next Restore.
func (s *Stack) Resize(width, height int32) {
	s.width, s.height = width, height
	if !s.ready() {
		return
	}
	s.ping.Resize(width, height)
	s.pong.Resize(width, height)
	s.bloomA.Resize(width/2, height/2)
	s.bloomB.Resize(width/2, height/2)
}

// Size returns the scene target size the stack is allocated for.
func (s *Stack) Size() (int32, int32) {
	return s.width, s.height
}

func (s *Stack) ready() bool {
	return s.ping != nil && s.pong != nil && s.bloomA != nil && s.bloomB != nil
}

// Apply runs passes over the scene texture and presents the result to the
// default framebuffer at screenW x screenH. With no passes the scene is
// copied unchanged.
func (s *Stack) Apply(passes []Pass, scene uint32, screenW, screenH int32, time float32) {
	gl.Disable(gl.DEPTH_TEST)
	gl.Disable(gl.BLEND)
	gl.BindVertexArray(s.vao)
	defer gl.BindVertexArray(0)

	steps := Plan(passes)
	if len(steps) == 0 {
		s.bindScreen(screenW, screenH)
		s.copy.Use()
		bindTexture(0, scene)
		s.copy.SetSampler("uTexture", 0)
		drawTriangle()
		return
	}

	for _, step := range steps {
		in := s.texture(step.In, scene)

		if step.Pass.Kind == Bloom {
			// The bright and blur passes use their own targets first.
			glow := s.blurBright(in)
			s.bindOutput(step.Out, screenW, screenH)
			s.bloom.Use()
			bindTexture(0, in)
			bindTexture(1, glow)
			s.bloom.SetSampler("uTexture", 0)
			s.bloom.SetSampler("uBloom", 1)
			s.bloom.SetFloat("uIntensity", step.Pass.Amount)
			drawTriangle()
			continue
		}

		s.bindOutput(step.Out, screenW, screenH)
		switch step.Pass.Kind {
		case FXAA:
			// Every input texture has the scene target size.
			tw, th := s.ping.Size()
			s.fxaa.Use()
			bindTexture(0, in)
			s.fxaa.SetSampler("uTexture", 0)
			s.fxaa.SetVec2("uTexel", 1/float32(tw), 1/float32(th))
			drawTriangle()

		case Vignette:
			s.effect(s.vignette, in, step.Pass.Amount, time)
		case Scanlines:
			s.effect(s.scanlines, in, step.Pass.Amount, time)
		case Grain:
			s.effect(s.grain, in, step.Pass.Amount, time)
		}
	}
	gl.ActiveTexture(gl.TEXTURE0)
}

// blurBright extracts highlights into the half-resolution chain and blurs
// them separably. It returns the blurred texture.
func (s *Stack) blurBright(in uint32) uint32 {
	w, h := s.bloomA.Size()

	s.bloomA.Bind()
	s.bright.Use()
	bindTexture(0, in)
	s.bright.SetSampler("uTexture", 0)
	s.bright.SetFloat("uThreshold", BloomThreshold)
	drawTriangle()

	s.bloomB.Bind()
	s.blur.Use()
	bindTexture(0, s.bloomA.ColorTexture())
	s.blur.SetSampler("uTexture", 0)
	s.blur.SetVec2("uDirection", 1/float32(w), 0)
	drawTriangle()

	s.bloomA.Bind()
	bindTexture(0, s.bloomB.ColorTexture())
	s.blur.SetVec2("uDirection", 0, 1/float32(h))
	drawTriangle()

	return s.bloomA.ColorTexture()
}

func (s *Stack) effect(p *shader.Program, in uint32, amount, time float32) {
	p.Use()
	bindTexture(0, in)
	p.SetSampler("uTexture", 0)
	p.SetFloat("uStrength", amount)
	p.SetFloat("uTime", time)
	drawTriangle()
}

func (s *Stack) texture(slot Slot, scene uint32) uint32 {
	switch slot {
	case Ping:
		return s.ping.ColorTexture()
	case Pong:
		return s.pong.ColorTexture()
	}
	return scene
}

func (s *Stack) bindOutput(slot Slot, screenW, screenH int32) {
	switch slot {
	case Ping:
		s.ping.Bind()
	case Pong:
		s.pong.Bind()
	default:
		s.bindScreen(screenW, screenH)
	}
}

func (s *Stack) bindScreen(w, h int32) {
	gl.BindFramebuffer(gl.FRAMEBUFFER, 0)
	gl.Viewport(0, 0, w, h)
}

func bindTexture(unit uint32, tex uint32) {
	gl.ActiveTexture(gl.TEXTURE0 + unit)
	gl.BindTexture(gl.TEXTURE_2D, tex)
}

func drawTriangle() {
	gl.DrawArrays(gl.TRIANGLES, 0, 3)
}

// Restore rebuilds all resources in a fresh context without deleting the
// stale handles.
// A failed restore releases what it managed to create and can be retried.
func (s *Stack) Restore() error {
	w, h := s.width, s.height
	*s = Stack{}
	if err := s.create(w, h); err != nil {
		s.Destroy()
		s.width, s.height = w, h
		return err
	}
	return nil
}

// Destroy releases all GPU resources.
func (s *Stack) Destroy() {
	for _, p := range []*shader.Program{s.copy, s.fxaa, s.bright, s.blur, s.bloom, s.vignette, s.scanlines, s.grain} {
		if p != nil {
			p.Destroy()
		}
	}
	for _, fb := range []*framebuffer.Framebuffer{s.ping, s.pong, s.bloomA, s.bloomB} {
		if fb != nil {
			fb.Destroy()
		}
	}
	if s.vao != 0 {
		gl.DeleteVertexArrays(1, &s.vao)
	}
	*s = Stack{}
}
