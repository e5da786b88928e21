package app

import (
	"context"
	"image"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/Faultbox/topo-scene/internal/engine/input"
	"github.com/Faultbox/topo-scene/internal/engine/postfx"
	"github.com/Faultbox/topo-scene/internal/engine/preview"
	"github.com/Faultbox/topo-scene/internal/engine/quality"
	"github.com/Faultbox/topo-scene/internal/engine/scene"
	"github.com/Faultbox/topo-scene/internal/session"
)

func TestRenderPlaceholder(t *testing.T) {
	opts := preview.DefaultOptions(16, 9)
	opts.Downscale = 2

	var called *image.RGBA
	ch := renderPlaceholder(context.Background(), opts, func(img *image.RGBA) { called = img })

	select {
	case img := <-ch:
		if img.Bounds().Dx() != 16 || img.Bounds().Dy() != 9 {
			t.Errorf("placeholder size = %v", img.Bounds())
		}
		if called != img {
			t.Error("done callback did not receive the image before delivery")
		}
	case <-time.After(10 * time.Second):
		t.Fatal("placeholder never delivered")
	}
}

func TestRenderPlaceholderCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	ch := renderPlaceholder(ctx, preview.DefaultOptions(8, 8), func(*image.RGBA) {
		t.Error("done called after cancel")
	})
	select {
	case <-ch:
		t.Error("image delivered after cancel")
	case <-time.After(2 * time.Second):
	}
}

func TestRenderPlaceholderFailure(t *testing.T) {
	ch := renderPlaceholder(context.Background(), preview.Options{}, nil)
	select {
	case <-ch:
		t.Error("image delivered for invalid options")
	case <-time.After(500 * time.Millisecond):
	}
}

// After a failed restore the GPU objects are gone. Resizes, tier changes
// and screenshots must wait for the next restore instead of crashing.
func TestLostContextDefersGPUWork(t *testing.T) {
	store := session.NewStore()
	frame := scene.NewFrame(scene.DefaultConfig(), store, nil)
	frame.LoseContext()

	a := &App{log: zap.NewNop(), store: store, frame: frame}
	if a.gpuReady() {
		t.Fatal("gpuReady with a lost context")
	}

	if restart := a.handleEvent(input.Event{Type: input.EventResize, Width: 1280, Height: 720}); restart {
		t.Error("resize restarted the frame clock")
	}
	a.applyTier(quality.Low)
	a.screenshot()

	if got := store.Tier(); got != quality.Low {
		t.Errorf("published tier = %v, want low", got)
	}
	if want := postfx.Chain(quality.ProfileFor(quality.Low)); len(a.passes) != len(want) {
		t.Errorf("passes = %d, want %d", len(a.passes), len(want))
	}
	if !store.ContextLost() {
		t.Error("context loss not published")
	}
}

func TestGPUReadyNeedsObjects(t *testing.T) {
	a := &App{frame: scene.NewFrame(scene.DefaultConfig(), nil, nil)}
	if a.gpuReady() {
		t.Error("gpuReady without surface, stack and ui")
	}
}
