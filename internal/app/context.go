package app

import (
	"context"
	"fmt"
	"image"
	"time"

	"go.uber.org/zap"

	"github.com/Faultbox/topo-scene/internal/engine/preview"
	"github.com/Faultbox/topo-scene/internal/engine/ui2d"
	"github.com/Faultbox/topo-scene/internal/logger"
)

// loseContext enters the lost state. simulated marks a loss requested from
// the keyboard, where the old context is still usable.
func (a *App) loseContext(simulated bool) {
	if a.frame.Lost() {
		return
	}
	a.simulated = simulated
	a.lastRetry = time.Now()
	a.frame.LoseContext()
	a.governor.Pause()
	a.log.Warn("GPU context lost", zap.Bool("simulated", simulated))
}

// whileLost runs in place of a frame while the context is gone.
func (a *App) whileLost() {
	if a.simulated {
		a.drawPlaceholder()
		a.window.SwapBuffers()
		return
	}

	if time.Since(a.lastRetry) < restoreInterval {
		time.Sleep(hiddenPoll)
		return
	}
	a.lastRetry = time.Now()
	if err := a.window.RecreateContext(); err != nil {
		a.log.Warn("context recreation failed, retrying", zap.Error(err))
		return
	}
	a.restoreContext()
}

// restoreContext rebuilds GPU state and resumes rendering. The scene clock
// and pointer carry on where they were.
func (a *App) restoreContext() {
	if a.simulated {
		a.releaseGPU()
	}
	if err := a.rebuildGPU(); err != nil {
		a.log.Error("GPU restore failed", zap.Error(err))
		a.simulated = false
		return
	}
	a.simulated = false
	a.frame.RestoreContext()
	a.applyTier(a.governor.Current())
	a.log.Info("GPU context restored")
}

func (a *App) releaseGPU() {
	a.placeholder.Destroy()
	a.placeholder = nil
	if a.ui != nil {
		a.ui.Close()
		a.ui = nil
	}
	if a.stack != nil {
		a.stack.Destroy()
		a.stack = nil
	}
	if a.surface != nil {
		a.surface.Destroy()
		a.surface = nil
	}
}

// rebuildGPU recreates GPU resources. Existing wrappers drop their stale
// handles; released ones are created from scratch.
func (a *App) rebuildGPU() error {
	a.placeholder = nil
	if a.surface == nil || a.stack == nil {
		return a.createGPU()
	}
	if err := a.surface.Restore(); err != nil {
		return err
	}
	if err := a.stack.Restore(); err != nil {
		return fmt.Errorf("restoring post-processing: %w", err)
	}
	ww, wh := a.window.Size()
	ui, err := ui2d.New(int(ww), int(wh))
	if err != nil {
		return err
	}
	a.ui = ui
	return nil
}

// drawPlaceholder shows the reference still under the lost-context veil.
func (a *App) drawPlaceholder() {
	a.clearScreen()
	if a.ui == nil {
		return
	}

	if a.placeholderImg == nil {
		select {
		case img := <-a.placeholderReady:
			a.placeholderImg = img
		default:
		}
	}
	if a.placeholder == nil && a.placeholderImg != nil {
		a.placeholder = ui2d.UploadImage(a.placeholderImg)
	}

	ww, wh := a.window.Size()
	w, h := float32(ww), float32(wh)
	a.ui.DrawImage(a.placeholder, ui2d.Rect{X: 0, Y: 0, W: w, H: h})

	a.ui.Begin()
	a.ui.DrawQuads(ui2d.LostVeil(w, h))
	a.ui.End()
}

func (a *App) placeholderOptions() preview.Options {
	ww, wh := a.window.Size()
	opts := preview.DefaultOptions(int(ww), int(wh))
	opts.Terrain = a.terrainParams
	opts.Shading = a.shadingParams
	opts.Downscale = placeholderSize
	return opts
}

func (a *App) publishPlaceholder(img *image.RGBA) {
	if a.server == nil {
		return
	}
	data, err := preview.EncodePNG(img)
	if err != nil {
		a.log.Warn("placeholder encoding failed", zap.Error(err))
		return
	}
	a.server.SetPlaceholder(data)
}

// renderPlaceholder renders the reference still off the main thread. The
// returned channel yields the image once; done runs first, on the worker
// goroutine. Nothing is delivered when rendering fails or ctx ends first.
func renderPlaceholder(ctx context.Context, opts preview.Options, done func(*image.RGBA)) <-chan *image.RGBA {
	out := make(chan *image.RGBA, 1)
	go func() {
		start := time.Now()
		img, err := preview.Render(opts)
		if err != nil {
			logger.Warn("placeholder render failed", zap.Error(err))
			return
		}
		if ctx.Err() != nil {
			return
		}
		logger.Debug("placeholder rendered",
			zap.Int("width", opts.Width),
			zap.Int("height", opts.Height),
			zap.Duration("took", time.Since(start)))
		if done != nil {
			done(img)
		}
		out <- img
	}()
	return out
}

func (a *App) screenshot() {
	if !a.gpuReady() {
		a.log.Warn("screenshot skipped, no GPU context")
		return
	}
	path, err := a.capture.Capture(a.surface.Target().ReadImage())
	if err != nil {
		a.log.Error("screenshot failed", zap.Error(err))
		return
	}
	a.log.Info("screenshot saved", zap.String("path", path))
}
