// Package app runs the topographic scene: window, render loop, readiness
// sequence and the optional signals server.
package app

import (
	"context"
	"fmt"
	"image"
	"time"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/veandco/go-sdl2/sdl"
	"go.uber.org/zap"

	"github.com/Faultbox/topo-scene/internal/config"
	"github.com/Faultbox/topo-scene/internal/engine/debug"
	"github.com/Faultbox/topo-scene/internal/engine/framebuffer"
	"github.com/Faultbox/topo-scene/internal/engine/input"
	"github.com/Faultbox/topo-scene/internal/engine/postfx"
	"github.com/Faultbox/topo-scene/internal/engine/quality"
	"github.com/Faultbox/topo-scene/internal/engine/readiness"
	"github.com/Faultbox/topo-scene/internal/engine/scene"
	"github.com/Faultbox/topo-scene/internal/engine/shading"
	"github.com/Faultbox/topo-scene/internal/engine/terrain"
	"github.com/Faultbox/topo-scene/internal/engine/timer"
	"github.com/Faultbox/topo-scene/internal/engine/ui2d"
	"github.com/Faultbox/topo-scene/internal/engine/window"
	"github.com/Faultbox/topo-scene/internal/logger"
	"github.com/Faultbox/topo-scene/internal/session"
	"github.com/Faultbox/topo-scene/internal/signals"
)

const (
	title = "Topo Scene"

	hiddenPoll      = 50 * time.Millisecond
	restoreInterval = time.Second
	placeholderSize = 8 // preview downscale
	screenshotDir   = "screenshots"
)

// App owns every scene component. All methods run on the main thread.
type App struct {
	cfg *config.Config
	log *zap.Logger

	window *window.Window
	input  *input.Input

	store    *session.Store
	sched    *timer.Scheduler
	coord    *readiness.Coordinator
	governor *quality.Governor
	frame    *scene.Frame

	terrainParams terrain.Params
	shadingParams shading.Params

	surface *scene.Surface
	stack   *postfx.Stack
	passes  []postfx.Pass
	ui      *ui2d.Renderer

	overlay  *ui2d.LoaderOverlay
	headline *ui2d.Headline

	placeholder      *ui2d.Image
	placeholderReady <-chan *image.RGBA
	placeholderImg   *image.RGBA

	server  *signals.Server
	capture *debug.ScreenshotCapture
	limiter frameLimiter
	cancel  context.CancelFunc

	running   bool
	mounted   bool
	hidden    bool
	simulated bool // context loss triggered from the keyboard
	lastRetry time.Time
}

// New creates the window, the GPU resources and the readiness machinery,
// then mounts the scene.
func New(cfg *config.Config) (*App, error) {
	a := &App{
		cfg:      cfg,
		log:      logger.Named("app"),
		store:    session.NewStore(),
		sched:    timer.NewScheduler(time.Now()),
		overlay:  ui2d.NewLoaderOverlay(),
		headline: ui2d.NewHeadline(),
		capture:  debug.NewScreenshotCapture(screenshotDir, "topo"),
		limiter:  newFrameLimiter(cfg.Graphics.FPSLimit),
	}
	a.terrainParams = terrain.DefaultParams()
	a.shadingParams = shading.DefaultParams(a.terrainParams.NoiseScale)

	var err error
	a.governor, err = quality.NewGovernor(cfg.Graphics.Quality, quality.MonitorConfig{
		WindowFrames:   cfg.Performance.SampleFrames,
		Budget:         cfg.Performance.Budget,
		SustainWindows: cfg.Performance.SustainWindows,
	})
	if err != nil {
		return nil, fmt.Errorf("quality override: %w", err)
	}

	a.window, err = window.New(window.Config{
		Title:      title,
		Width:      cfg.Graphics.Width,
		Height:     cfg.Graphics.Height,
		Fullscreen: cfg.Graphics.Fullscreen,
		VSync:      cfg.Graphics.VSync,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create window: %w", err)
	}

	ww, wh := a.window.Size()
	a.input = input.New(ww, wh)

	assessment := quality.Detect(a.window.Signals())
	a.governor.Apply(assessment)
	a.log.Info("quality detected",
		zap.Stringer("ceiling", assessment.Tier),
		zap.Float32("confidence", assessment.Confidence),
		zap.String("reason", assessment.Reason),
		zap.Stringer("tier", a.governor.Current()),
		zap.Bool("pinned", a.governor.Pinned()))

	if err := a.createGPU(); err != nil {
		a.window.Close()
		return nil, err
	}
	a.applyTier(a.governor.Current())

	a.coord = readiness.New(a.sched, a.store, readiness.Config{
		MinDisplay:   cfg.Loader.MinDisplay,
		ExitDelay:    cfg.Loader.ExitDelay,
		HardTimeout:  cfg.Loader.HardTimeout,
		SkipOnRepeat: cfg.Loader.SkipOnRepeat,
	})
	a.frame = scene.NewFrame(scene.Config{
		WarmupFrames:     cfg.Scene.WarmupFrames,
		PointerSmoothing: cfg.Scene.PointerSmoothing,
		MaxFrameDelta:    cfg.Scene.MaxFrameDelta,
	}, a.store, a.coord.SceneWarmed)

	a.store.Subscribe(func(s session.Snapshot) {
		a.log.Debug("session changed",
			zap.Stringer("phase", s.Phase),
			zap.Bool("context_lost", s.ContextLost),
			zap.Stringer("tier", s.Tier))
	})

	ctx, cancel := context.WithCancel(context.Background())
	a.cancel = cancel

	if cfg.Signals.Enabled {
		srv := signals.New(a.store)
		a.server = srv
		go func() {
			if err := srv.ListenAndServe(ctx, cfg.Signals.Addr); err != nil {
				a.log.Error("signals server stopped", zap.Error(err))
			}
		}()
	}
	a.placeholderReady = renderPlaceholder(ctx, a.placeholderOptions(), a.publishPlaceholder)

	a.mount()
	return a, nil
}

// createGPU compiles and allocates everything that lives in the GL context.
// On failure nothing is kept, so a later call starts from scratch.
func (a *App) createGPU() error {
	sw, sh := a.sceneSize(a.governor.Current())

	surface, err := scene.NewSurface(scene.SurfaceOptions{
		Terrain:    a.terrainParams,
		Shading:    a.shadingParams,
		Resolution: quality.ProfileFor(a.governor.Current()).GridResolution,
		Width:      sw,
		Height:     sh,
	})
	if err != nil {
		return fmt.Errorf("failed to create surface: %w", err)
	}

	stack, err := postfx.NewStack(sw, sh)
	if err != nil {
		surface.Destroy()
		return fmt.Errorf("failed to create post-processing: %w", err)
	}

	ww, wh := a.window.Size()
	ui, err := ui2d.New(int(ww), int(wh))
	if err != nil {
		stack.Destroy()
		surface.Destroy()
		return fmt.Errorf("failed to create ui renderer: %w", err)
	}

	a.surface, a.stack, a.ui = surface, stack, ui
	return nil
}

// gpuReady reports whether GPU objects may be touched. While the context is
// lost they are stale or missing; restoreContext reapplies size and tier.
func (a *App) gpuReady() bool {
	return !a.frame.Lost() && a.surface != nil && a.stack != nil && a.ui != nil
}

// sceneSize returns the scene target size for a tier at the current drawable size.
func (a *App) sceneSize(t quality.Tier) (int32, int32) {
	dw, dh := a.window.DrawableSize()
	scale := quality.ProfileFor(t).RenderScale(a.window.PixelRatio())
	return framebuffer.ScaledSize(dw, dh, scale)
}

// applyTier reconfigures grid, target size and pass chain for t. GPU work
// is skipped while the context is lost.
func (a *App) applyTier(t quality.Tier) {
	profile := quality.ProfileFor(t)
	a.passes = postfx.Chain(profile)
	a.store.SetTier(t)

	if !a.gpuReady() {
		a.log.Info("quality tier deferred until the GPU context is back", zap.Stringer("tier", t))
		return
	}

	if err := a.surface.SetResolution(profile.GridResolution); err != nil {
		a.log.Error("grid rebuild failed", zap.Error(err))
	}
	sw, sh := a.sceneSize(t)
	a.surface.Resize(sw, sh)
	a.stack.Resize(sw, sh)

	a.log.Info("quality tier applied",
		zap.Stringer("tier", t),
		zap.Int("grid", profile.GridResolution),
		zap.Int32("scene_w", sw),
		zap.Int32("scene_h", sh),
		zap.Int("passes", len(a.passes)))
}

func (a *App) mount() {
	a.mounted = true
	a.frame.RestartWarmup()
	a.headline.Reset()
	a.coord.Mount()
}

func (a *App) unmount() {
	a.mounted = false
	a.coord.Unmount()
	a.headline.Reset()
}

// replay runs the loader sequence again, as a language switch does.
func (a *App) replay() {
	if !a.mounted {
		return
	}
	a.frame.RestartWarmup()
	a.headline.Reset()
	a.coord.Replay()
}

// Run drives the render loop until the window closes.
func (a *App) Run() error {
	a.running = true
	lastTime := time.Now()
	fpsTimer := lastTime
	frameCount := 0

	a.log.Info("starting render loop")

	for a.running {
		frameStart := time.Now()
		dt := frameStart.Sub(lastTime)
		lastTime = frameStart

		for _, ev := range a.input.Poll() {
			if a.handleEvent(ev) {
				lastTime = time.Now()
			}
		}
		a.drainCommands()
		a.sched.Tick(time.Now())

		if a.frame.Lost() {
			a.whileLost()
			continue
		}

		if a.hidden && !a.frame.NeedsContinuousRender() {
			time.Sleep(hiddenPoll)
			continue
		}

		a.renderFrame(dt)
		work := time.Since(frameStart)

		if !a.frame.Warming() && !a.hidden {
			if t, changed := a.governor.Sample(work); changed {
				a.log.Warn("frame budget exceeded, lowering quality", zap.Stringer("tier", t))
				a.applyTier(t)
			}
		}

		frameCount++
		if time.Since(fpsTimer) >= time.Second {
			a.log.Debug("fps", zap.Int("count", frameCount), zap.Duration("dt", dt))
			frameCount = 0
			fpsTimer = time.Now()
		}

		a.limiter.Wait(time.Since(frameStart))
	}
	return nil
}

// handleEvent applies one input event. It reports whether the frame
// clock should restart, which happens when the window becomes visible.
func (a *App) handleEvent(ev input.Event) bool {
	switch ev.Type {
	case input.EventQuit:
		a.running = false

	case input.EventResize:
		a.resize()

	case input.EventPointer:
		a.frame.Pointer.SetTarget(ev.Pointer.X, ev.Pointer.Y)

	case input.EventHidden:
		if !a.hidden {
			a.hidden = true
			a.governor.Pause()
			a.log.Debug("window hidden")
		}

	case input.EventShown:
		if a.hidden {
			a.hidden = false
			a.log.Debug("window shown")
			return true
		}

	case input.EventContextReset:
		a.loseContext(false)

	case input.EventKeyDown:
		a.handleKey(ev.Key)
	}
	return false
}

func (a *App) handleKey(key sdl.Keycode) {
	switch key {
	case sdl.K_ESCAPE:
		a.running = false
	case sdl.K_l:
		a.replay()
	case sdl.K_n:
		if a.mounted {
			a.unmount()
		} else {
			a.mount()
		}
	case sdl.K_EQUALS:
		if t, changed := a.governor.Incline(); changed {
			a.applyTier(t)
		}
	case sdl.K_F9:
		if a.frame.Lost() {
			if a.simulated {
				a.restoreContext()
			}
		} else {
			a.loseContext(true)
		}
	case sdl.K_F12:
		a.screenshot()
	}
}

func (a *App) drainCommands() {
	if a.server == nil {
		return
	}
	for {
		select {
		case cmd := <-a.server.Commands():
			a.log.Info("remote command", zap.String("type", string(cmd.Type)))
			if cmd.Type == signals.CommandReplay {
				a.replay()
			}
		default:
			return
		}
	}
}

func (a *App) resize() {
	if !a.gpuReady() {
		return
	}
	ww, wh := a.window.Size()
	a.ui.Resize(int(ww), int(wh))
	sw, sh := a.sceneSize(a.governor.Current())
	a.surface.Resize(sw, sh)
	a.stack.Resize(sw, sh)
}

// renderFrame draws scene, post-processing and overlay, then presents.
func (a *App) renderFrame(dt time.Duration) {
	if !a.frame.Begin(float32(dt.Seconds())) {
		return
	}
	u := a.frame.Uniforms()

	if a.mounted {
		a.surface.Render(u)
		dw, dh := a.window.DrawableSize()
		a.stack.Apply(a.passes, a.surface.Target().ColorTexture(), dw, dh, u.Time)
	} else {
		a.clearScreen()
	}

	a.drawOverlay(float32(dt.Seconds()))
	a.window.SwapBuffers()

	if scene.ContextLost() {
		a.loseContext(false)
		return
	}
	a.frame.End()
}

func (a *App) drawOverlay(dt float32) {
	snap := a.store.Snapshot()
	ww, wh := a.window.Size()
	w, h := float32(ww), float32(wh)

	a.ui.Begin()
	if a.mounted {
		a.headline.Update(dt, snap.LoaderGone)
		a.ui.DrawQuads(a.headline.Layout(w, h))

		load, exit := a.coord.Progress()
		a.ui.DrawQuads(a.overlay.Layout(w, h, snap, load, exit))
	}
	a.ui.End()
}

func (a *App) clearScreen() {
	dw, dh := a.window.DrawableSize()
	fog := a.shadingParams.Fog
	gl.BindFramebuffer(gl.FRAMEBUFFER, 0)
	gl.Viewport(0, 0, dw, dh)
	gl.ClearColor(fog.X, fog.Y, fog.Z, 1)
	gl.Clear(gl.COLOR_BUFFER_BIT)
}

// Close tears everything down in reverse order of creation.
func (a *App) Close() {
	a.log.Info("closing scene")

	if a.cancel != nil {
		a.cancel()
	}
	if a.server != nil {
		a.server.Close()
	}
	if a.coord != nil {
		a.coord.Unmount()
	}
	a.sched.StopAll()

	a.placeholder.Destroy()
	if a.ui != nil {
		a.ui.Close()
	}
	if a.stack != nil {
		a.stack.Destroy()
	}
	if a.surface != nil {
		a.surface.Destroy()
	}
	if a.window != nil {
		a.window.Close()
	}
}
