// Package scene renders the animated topographic terrain.
//
// Frame holds every piece of state that must survive a GPU context loss:
// the scene clock, the smoothed pointer, the warm-up counter and the lost
// flag. It has no GL dependency. Surface owns the GPU resources and is
// rebuilt from a Frame after the context comes back.
package scene

import (
	"time"

	"github.com/Faultbox/topo-scene/pkg/math"
)

// Config tunes the frame state.
type Config struct {
	WarmupFrames     int           // frames rendered before the scene counts as warmed
	PointerSmoothing float32       // share of the remaining distance covered per frame
	MaxFrameDelta    time.Duration // clock step ceiling
}

// DefaultConfig returns 8 warm-up frames, 0.05 pointer smoothing and a 100 ms step ceiling.
func DefaultConfig() Config {
	return Config{
		WarmupFrames:     8,
		PointerSmoothing: 0.05,
		MaxFrameDelta:    100 * time.Millisecond,
	}
}

// Clock is the scene time in seconds. It only moves forward.
type Clock struct {
	elapsed  float64
	maxDelta float32
}

// Advance moves the clock by dt seconds, clamped to [0, max frame delta].
// NaN and infinite steps count as zero. It returns the applied step.
func (c *Clock) Advance(dt float32) float32 {
	if !math.IsFinite(dt) || dt < 0 {
		dt = 0
	}
	if c.maxDelta > 0 && dt > c.maxDelta {
		dt = c.maxDelta
	}
	c.elapsed += float64(dt)
	return dt
}

// Time returns the elapsed scene time.
func (c *Clock) Time() float32 {
	return float32(c.elapsed)
}

// Pointer is a raw pointer target and its smoothed follower, both in NDC.
type Pointer struct {
	target    math.Vec2
	smoothed  math.Vec2
	smoothing float32
}

// SetTarget sets the raw pointer position, clamped to [-1, 1].
func (p *Pointer) SetTarget(x, y float32) {
	if !math.IsFinite(x) || !math.IsFinite(y) {
		return
	}
	p.target = math.Vec2{X: x, Y: y}.Clamp(-1, 1)
}

// Target returns the raw pointer position.
func (p *Pointer) Target() math.Vec2 {
	return p.target
}

// Value returns the smoothed pointer position.
func (p *Pointer) Value() math.Vec2 {
	return p.smoothed
}

// Update moves the smoothed value one frame toward the target.
func (p *Pointer) Update() {
	p.smoothed = p.smoothed.Lerp(p.target, p.smoothing)
}

// ContextSink receives context loss changes. *session.Store implements it.
type ContextSink interface {
	SetContextLost(lost bool)
}

// Uniforms are the per-frame values uploaded before the draw call.
type Uniforms struct {
	Time    float32
	Pointer math.Vec2
}

// Frame is the persistent per-scene state.
type Frame struct {
	cfg     Config
	Clock   Clock
	Pointer Pointer

	sink   ContextSink
	onWarm func()

	warmupCount int
	warmed      bool
	lost        bool
	frames      uint64
}

// NewFrame creates the frame state. onWarm runs once per warm-up, on the
// frame that completes it. sink and onWarm may be nil.
func NewFrame(cfg Config, sink ContextSink, onWarm func()) *Frame {
	if cfg.WarmupFrames < 1 {
		cfg.WarmupFrames = 1
	}
	cfg.PointerSmoothing = math.Clamp(cfg.PointerSmoothing, 0, 1)
	return &Frame{
		cfg:     cfg,
		Clock:   Clock{maxDelta: float32(cfg.MaxFrameDelta.Seconds())},
		Pointer: Pointer{smoothing: cfg.PointerSmoothing},
		sink:    sink,
		onWarm:  onWarm,
	}
}

// Begin starts a frame: advances the clock by dt seconds and steps the
// pointer. It returns false while the context is lost; nothing should be
// drawn then.
func (f *Frame) Begin(dt float32) bool {
	if f.lost {
		return false
	}
	f.Clock.Advance(dt)
	f.Pointer.Update()
	return true
}

// Uniforms returns the values for the frame in progress.
func (f *Frame) Uniforms() Uniforms {
	return Uniforms{Time: f.Clock.Time(), Pointer: f.Pointer.Value()}
}

// End records a submitted frame and fires the warm-up callback when the
// count is reached.
func (f *Frame) End() {
	if f.lost {
		return
	}
	f.frames++
	if f.warmed {
		return
	}
	f.warmupCount++
	if f.warmupCount >= f.cfg.WarmupFrames {
		f.warmed = true
		if f.onWarm != nil {
			f.onWarm()
		}
	}
}

// Frames returns the number of submitted frames.
func (f *Frame) Frames() uint64 {
	return f.frames
}

// Warming reports whether the warm-up is still in progress.
func (f *Frame) Warming() bool {
	return !f.warmed
}

// NeedsContinuousRender reports whether frames must be drawn even when the
// window is hidden.
func (f *Frame) NeedsContinuousRender() bool {
	return !f.warmed && !f.lost
}

// RestartWarmup re-arms the warm-up count, e.g. for a readiness replay.
func (f *Frame) RestartWarmup() {
	f.warmed = false
	f.warmupCount = 0
}

// Lost reports whether the GPU context is lost.
func (f *Frame) Lost() bool {
	return f.lost
}

// LoseContext enters the lost state. An unfinished warm-up starts over
// once the context is restored.
func (f *Frame) LoseContext() {
	if f.lost {
		return
	}
	f.lost = true
	if !f.warmed {
		f.warmupCount = 0
	}
	if f.sink != nil {
		f.sink.SetContextLost(true)
	}
}

// RestoreContext leaves the lost state. Clock and pointer are untouched.
func (f *Frame) RestoreContext() {
	if !f.lost {
		return
	}
	f.lost = false
	if f.sink != nil {
		f.sink.SetContextLost(false)
	}
}
