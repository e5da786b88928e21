// Package window handles SDL2 window and OpenGL context creation.
package window

import (
	"fmt"
	"runtime"
	"strings"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/veandco/go-sdl2/sdl"
	"go.uber.org/zap"

	"github.com/Faultbox/topo-scene/internal/engine/quality"
	"github.com/Faultbox/topo-scene/internal/logger"
)

func init() {
	// OpenGL calls must be made from the main thread
	runtime.LockOSThread()
}

// Config holds window configuration.
type Config struct {
	Title      string
	Width      int
	Height     int
	Fullscreen bool
	VSync      bool
}

// Window wraps an SDL2 window and its OpenGL context.
type Window struct {
	config    Config
	sdlWindow *sdl.Window
	glContext sdl.GLContext
	renderer  string
}

// New initializes SDL, creates a HiDPI-aware window with a GL 4.1 core
// context, and loads the GL entry points.
func New(cfg Config) (*Window, error) {
	w := &Window{config: cfg}

	if err := sdl.Init(sdl.INIT_VIDEO | sdl.INIT_EVENTS); err != nil {
		return nil, fmt.Errorf("SDL_Init failed: %w", err)
	}

	// OpenGL 4.1 Core Profile (max supported on macOS)
	sdl.GLSetAttribute(sdl.GL_CONTEXT_MAJOR_VERSION, 4)
	sdl.GLSetAttribute(sdl.GL_CONTEXT_MINOR_VERSION, 1)
	sdl.GLSetAttribute(sdl.GL_CONTEXT_PROFILE_MASK, sdl.GL_CONTEXT_PROFILE_CORE)
	sdl.GLSetAttribute(sdl.GL_DOUBLEBUFFER, 1)
	sdl.GLSetAttribute(sdl.GL_DEPTH_SIZE, 24)

	flags := uint32(sdl.WINDOW_OPENGL | sdl.WINDOW_SHOWN | sdl.WINDOW_RESIZABLE | sdl.WINDOW_ALLOW_HIGHDPI)
	if cfg.Fullscreen {
		flags |= sdl.WINDOW_FULLSCREEN_DESKTOP
	}

	var err error
	w.sdlWindow, err = sdl.CreateWindow(
		cfg.Title,
		sdl.WINDOWPOS_CENTERED,
		sdl.WINDOWPOS_CENTERED,
		int32(cfg.Width),
		int32(cfg.Height),
		flags,
	)
	if err != nil {
		sdl.Quit()
		return nil, fmt.Errorf("SDL_CreateWindow failed: %w", err)
	}

	if err := w.createContext(); err != nil {
		w.sdlWindow.Destroy()
		sdl.Quit()
		return nil, err
	}

	dw, dh := w.DrawableSize()
	logger.Info("window created",
		zap.String("title", cfg.Title),
		zap.Int("width", cfg.Width),
		zap.Int("height", cfg.Height),
		zap.Int32("drawable_w", dw),
		zap.Int32("drawable_h", dh),
		zap.Bool("fullscreen", cfg.Fullscreen),
		zap.Bool("vsync", cfg.VSync),
	)

	return w, nil
}

func (w *Window) createContext() error {
	ctx, err := w.sdlWindow.GLCreateContext()
	if err != nil {
		return fmt.Errorf("SDL_GL_CreateContext failed: %w", err)
	}
	w.glContext = ctx

	if err := gl.Init(); err != nil {
		sdl.GLDeleteContext(ctx)
		w.glContext = nil
		return fmt.Errorf("OpenGL init failed: %w", err)
	}

	interval := 0
	if w.config.VSync {
		interval = 1
	}
	if err := sdl.GLSetSwapInterval(interval); err != nil {
		logger.Warn("failed to set swap interval", zap.Int("interval", interval), zap.Error(err))
	}

	w.renderer = queryString(gl.RENDERER)
	logger.Info("OpenGL initialized",
		zap.String("version", queryString(gl.VERSION)),
		zap.String("renderer", w.renderer),
	)
	return nil
}

// RecreateContext replaces the GL context after a device reset. Every GPU
// resource from the old context is gone afterwards.
func (w *Window) RecreateContext() error {
	if w.glContext != nil {
		sdl.GLDeleteContext(w.glContext)
		w.glContext = nil
	}
	return w.createContext()
}

// Close destroys the window and cleans up SDL2.
func (w *Window) Close() {
	logger.Info("closing window")

	if w.glContext != nil {
		sdl.GLDeleteContext(w.glContext)
	}
	if w.sdlWindow != nil {
		w.sdlWindow.Destroy()
	}

	sdl.Quit()
}

// SwapBuffers swaps the OpenGL buffers.
func (w *Window) SwapBuffers() {
	w.sdlWindow.GLSwap()
}

// Size returns the window size in logical points.
func (w *Window) Size() (int32, int32) {
	return w.sdlWindow.GetSize()
}

// DrawableSize returns the framebuffer size in pixels.
func (w *Window) DrawableSize() (int32, int32) {
	return w.sdlWindow.GLGetDrawableSize()
}

// PixelRatio returns drawable pixels per logical point.
func (w *Window) PixelRatio() float32 {
	ww, _ := w.Size()
	dw, _ := w.DrawableSize()
	if ww <= 0 {
		return 1
	}
	return float32(dw) / float32(ww)
}

// Hidden reports whether the window is minimized or hidden.
func (w *Window) Hidden() bool {
	flags := w.sdlWindow.GetFlags()
	return flags&(sdl.WINDOW_MINIMIZED|sdl.WINDOW_HIDDEN) != 0
}

// SetTitle sets the window title.
func (w *Window) SetTitle(title string) {
	w.sdlWindow.SetTitle(title)
}

// Signals gathers device hints for quality detection. A failing renderer
// query leaves RendererKnown false.
func (w *Window) Signals() quality.DeviceSignals {
	ww, _ := w.Size()
	return quality.DeviceSignals{
		Platform:      sdl.GetPlatform(),
		ViewportWidth: int(ww),
		PixelRatio:    w.PixelRatio(),
		Renderer:      w.renderer,
		RendererKnown: w.renderer != "",
	}
}

// queryString reads a GL string, returning "" when the driver refuses.
func queryString(name uint32) (s string) {
	defer func() {
		if r := recover(); r != nil {
			logger.Warn("GL string query failed", zap.Uint32("name", name), zap.Any("panic", r))
			s = ""
		}
	}()
	p := gl.GetString(name)
	if p == nil {
		return ""
	}
	return strings.TrimSpace(gl.GoStr(p))
}
