package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/Faultbox/topo-scene/internal/engine/quality"
	"github.com/Faultbox/topo-scene/internal/logger"
)

var (
	ErrWindowSize  = errors.New("window size must be positive")
	ErrQuality     = errors.New("unknown quality setting")
	ErrWarmup      = errors.New("warmup_frames must be at least 1")
	ErrSmoothing   = errors.New("pointer_smoothing must be in (0, 1]")
	ErrDuration    = errors.New("durations must not be negative")
	ErrHardTimeout = errors.New("hard_timeout must not be shorter than min_display")
	ErrPerformance = errors.New("performance sampling must be positive")
	ErrSignalsAddr = errors.New("signals addr is required when enabled")
	ErrLogLevel    = errors.New("unknown log level")
)

// Validate rejects settings the viewer cannot run with.
func (c *Config) Validate() error {
	var errs []error

	g := c.Graphics
	if g.Width <= 0 || g.Height <= 0 {
		errs = append(errs, fmt.Errorf("%w: %dx%d", ErrWindowSize, g.Width, g.Height))
	}
	if q := strings.ToLower(strings.TrimSpace(g.Quality)); q != "" && q != quality.OverrideAuto {
		if _, err := quality.ParseTier(q); err != nil {
			errs = append(errs, fmt.Errorf("%w: %q", ErrQuality, g.Quality))
		}
	}

	if c.Scene.WarmupFrames < 1 {
		errs = append(errs, fmt.Errorf("%w: %d", ErrWarmup, c.Scene.WarmupFrames))
	}
	if s := c.Scene.PointerSmoothing; !(s > 0 && s <= 1) {
		errs = append(errs, fmt.Errorf("%w: %v", ErrSmoothing, s))
	}

	l := c.Loader
	if c.Scene.MaxFrameDelta < 0 || l.MinDisplay < 0 || l.ExitDelay < 0 || l.HardTimeout < 0 {
		errs = append(errs, ErrDuration)
	}
	if l.HardTimeout > 0 && l.HardTimeout < l.MinDisplay {
		errs = append(errs, fmt.Errorf("%w: %v < %v", ErrHardTimeout, l.HardTimeout, l.MinDisplay))
	}

	p := c.Performance
	if p.SampleFrames <= 0 || p.Budget <= 0 || p.SustainWindows <= 0 {
		errs = append(errs, ErrPerformance)
	}

	if c.Signals.Enabled && strings.TrimSpace(c.Signals.Addr) == "" {
		errs = append(errs, ErrSignalsAddr)
	}

	if _, err := logger.ParseLevel(c.Logging.Level); err != nil {
		errs = append(errs, fmt.Errorf("%w: %q", ErrLogLevel, c.Logging.Level))
	}

	return errors.Join(errs...)
}
