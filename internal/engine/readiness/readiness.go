// Package readiness sequences the loading overlay against scene warm-up.
//
// The coordinator is an explicit state machine:
//
//	NotReady -> SceneWarmed | MinTimeElapsed -> CanReveal -> Revealed
//
// CanReveal needs both the warm-up signal and the minimum display timer.
// Revealed follows CanReveal after the overlay's exit delay. A hard
// timeout forces CanReveal if warm-up never arrives. Replay is the only
// backward transition.
package readiness

import (
	"time"

	"go.uber.org/zap"

	"github.com/Faultbox/topo-scene/internal/engine/timer"
	"github.com/Faultbox/topo-scene/internal/logger"
	"github.com/Faultbox/topo-scene/internal/session"
)

// Publisher receives readiness changes. *session.Store implements it.
type Publisher interface {
	PublishReadiness(p session.Phase, forced bool)
	MarkVisited()
	Visited() bool
}

// Config holds the coordinator timings.
type Config struct {
	MinDisplay   time.Duration // minimum overlay time
	ExitDelay    time.Duration // overlay fade-out before LoaderGone
	HardTimeout  time.Duration // forced reveal if warm-up never arrives; 0 disables
	SkipOnRepeat bool          // start revealed when the session already revealed once
}

// DefaultConfig returns the tuned timings.
func DefaultConfig() Config {
	return Config{
		MinDisplay:   2500 * time.Millisecond,
		ExitDelay:    1300 * time.Millisecond,
		HardTimeout:  10 * time.Second,
		SkipOnRepeat: true,
	}
}

// Coordinator drives the readiness state machine. All methods must be
// called from the goroutine that ticks the scheduler.
type Coordinator struct {
	cfg   Config
	sched *timer.Scheduler
	pub   Publisher
	log   *zap.Logger

	mounted    bool
	phase      session.Phase
	warmed     bool
	minElapsed bool
	forced     bool

	startedAt time.Time
	revealAt  time.Time
	minTimer  *timer.Timer
	hardTimer *timer.Timer
	exitTimer *timer.Timer
}

// New creates an unmounted coordinator.
func New(sched *timer.Scheduler, pub Publisher, cfg Config) *Coordinator {
	return &Coordinator{
		cfg:   cfg,
		sched: sched,
		pub:   pub,
		log:   logger.Named("readiness"),
	}
}

// Phase returns the current state.
func (c *Coordinator) Phase() session.Phase {
	return c.phase
}

// Forced reports whether the last reveal came from the hard timeout.
func (c *Coordinator) Forced() bool {
	return c.forced
}

// Mount starts the sequence. The minimum display and hard timeout timers
// are registered before Mount returns, so a warm-up signal can never
// outrun them. A repeat mount in a visited session starts at Revealed.
func (c *Coordinator) Mount() {
	if c.mounted {
		return
	}
	c.mounted = true

	if c.cfg.SkipOnRepeat && c.pub.Visited() {
		c.stopTimers()
		c.warmed, c.minElapsed, c.forced = true, true, false
		c.set(session.Revealed)
		c.log.Debug("repeat visit, skipping loader")
		return
	}
	c.start()
}

// Unmount cancels every pending timer. The last published state stays.
func (c *Coordinator) Unmount() {
	if !c.mounted {
		return
	}
	c.mounted = false
	c.stopTimers()
}

// Replay resets the machine to NotReady and runs the whole sequence again.
// The caller must also restart the scene's warm-up so SceneWarmed fires anew.
func (c *Coordinator) Replay() {
	if !c.mounted {
		return
	}
	c.log.Info("replaying readiness sequence", zap.Stringer("from", c.phase))
	c.start()
}

// SceneWarmed records the render surface's warm-up signal.
func (c *Coordinator) SceneWarmed() {
	if !c.mounted || c.warmed {
		return
	}
	c.warmed = true
	if c.phase == session.NotReady {
		c.set(session.SceneWarmed)
	}
	c.log.Debug("scene warmed", zap.Duration("after", c.sched.Now().Sub(c.startedAt)))
	c.tryReveal()
}

// Progress returns the loader progress: the share of the minimum display
// time elapsed, and the share of the exit delay elapsed since CanReveal.
func (c *Coordinator) Progress() (load, exit float32) {
	now := c.sched.Now()
	switch {
	case c.phase == session.Revealed:
		return 1, 1
	case c.phase == session.CanReveal:
		return 1, ratio(now.Sub(c.revealAt), c.cfg.ExitDelay)
	}
	load = ratio(now.Sub(c.startedAt), c.cfg.MinDisplay)
	if !c.warmed && load > 0.95 {
		load = 0.95
	}
	return load, 0
}

func (c *Coordinator) start() {
	c.stopTimers()
	c.warmed, c.minElapsed, c.forced = false, false, false
	c.startedAt = c.sched.Now()
	c.set(session.NotReady)

	c.minTimer = c.sched.After(c.cfg.MinDisplay, c.onMinElapsed)
	if c.cfg.HardTimeout > 0 {
		c.hardTimer = c.sched.After(c.cfg.HardTimeout, c.onHardTimeout)
	}
}

func (c *Coordinator) onMinElapsed() {
	c.minTimer = nil
	c.minElapsed = true
	if c.phase == session.NotReady {
		c.set(session.MinTimeElapsed)
	}
	c.tryReveal()
}

// onHardTimeout gives up on warm-up. The overlay still stays up for the
// minimum display time.
func (c *Coordinator) onHardTimeout() {
	c.hardTimer = nil
	if c.warmed || c.phase >= session.CanReveal {
		return
	}
	c.log.Warn("warm-up did not complete, forcing reveal",
		zap.Duration("timeout", c.cfg.HardTimeout),
		zap.Bool("min_elapsed", c.minElapsed))
	c.forced = true
	c.tryReveal()
}

func (c *Coordinator) tryReveal() {
	if (c.warmed || c.forced) && c.minElapsed && c.phase < session.CanReveal {
		c.canReveal()
	}
}

func (c *Coordinator) canReveal() {
	c.minTimer.Stop()
	c.hardTimer.Stop()
	c.minTimer, c.hardTimer = nil, nil

	c.revealAt = c.sched.Now()
	c.set(session.CanReveal)
	c.exitTimer = c.sched.After(c.cfg.ExitDelay, c.onExit)
}

func (c *Coordinator) onExit() {
	c.exitTimer = nil
	c.set(session.Revealed)
	c.pub.MarkVisited()
	c.log.Info("scene revealed",
		zap.Duration("after", c.sched.Now().Sub(c.startedAt)),
		zap.Bool("forced", c.forced))
}

func (c *Coordinator) set(p session.Phase) {
	c.phase = p
	c.pub.PublishReadiness(p, c.forced)
}

func (c *Coordinator) stopTimers() {
	c.minTimer.Stop()
	c.hardTimer.Stop()
	c.exitTimer.Stop()
	c.minTimer, c.hardTimer, c.exitTimer = nil, nil, nil
}

func ratio(elapsed, total time.Duration) float32 {
	if total <= 0 {
		return 1
	}
	r := float32(elapsed) / float32(total)
	switch {
	case r < 0:
		return 0
	case r > 1:
		return 1
	}
	return r
}
