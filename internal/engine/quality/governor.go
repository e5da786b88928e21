package quality

import (
	"fmt"
	"strings"
	"time"
)

// Override values accepted by ParseOverride.
const OverrideAuto = "auto"

// Governor owns the current tier.
type Governor struct {
	current Tier
	ceiling Tier
	pinned  bool
	applied bool
	monitor *Monitor
}

// NewGovernor creates a governor starting at High. A non-auto override pins
// the tier: detection and frame time downgrades no longer move it.
func NewGovernor(override string, mc MonitorConfig) (*Governor, error) {
	g := &Governor{current: High, ceiling: High, monitor: NewMonitor(mc)}

	o := strings.ToLower(strings.TrimSpace(override))
	if o == "" || o == OverrideAuto {
		return g, nil
	}
	t, err := ParseTier(o)
	if err != nil {
		return nil, fmt.Errorf("quality override: %w", err)
	}
	g.current = t
	g.ceiling = t
	g.pinned = true
	return g, nil
}

// Current returns the active tier.
func (g *Governor) Current() Tier {
	return g.current
}

// Ceiling returns the highest tier the governor may run at.
func (g *Governor) Ceiling() Tier {
	return g.ceiling
}

// Pinned reports whether a config override fixed the tier.
func (g *Governor) Pinned() bool {
	return g.pinned
}

// Apply caps the tier with a detection result. Only the first call has an
// effect, and it never raises the tier.
func (g *Governor) Apply(a Assessment) (Tier, bool) {
	if g.applied || g.pinned {
		return g.current, false
	}
	g.applied = true
	if a.Tier < g.ceiling {
		g.ceiling = a.Tier
	}
	return g.set(minTier(g.current, g.ceiling))
}

// Sample feeds a frame time into the monitor and steps the tier down one
// level when the monitor asks for it.
func (g *Governor) Sample(dt time.Duration) (Tier, bool) {
	if g.pinned {
		return g.current, false
	}
	if !g.monitor.Sample(dt) {
		return g.current, false
	}
	return g.set(g.current.Lower())
}

// Incline raises the tier one level, never beyond the ceiling.
func (g *Governor) Incline() (Tier, bool) {
	if g.pinned {
		return g.current, false
	}
	return g.set(minTier(g.current.Higher(), g.ceiling))
}

// Pause drops partial monitor windows so hidden time never counts as slow frames.
func (g *Governor) Pause() {
	g.monitor.Reset()
}

func (g *Governor) set(t Tier) (Tier, bool) {
	if t == g.current {
		return t, false
	}
	g.current = t
	g.monitor.Reset()
	return t, true
}

func minTier(a, b Tier) Tier {
	if a < b {
		return a
	}
	return b
}
