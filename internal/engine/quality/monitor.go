package quality

import "time"

// MonitorConfig tunes the frame time monitor.
type MonitorConfig struct {
	WindowFrames   int           // frames per averaging window
	Budget         time.Duration // average frame time above this is a slow window
	SustainWindows int           // consecutive slow windows before a downgrade
}

// DefaultMonitorConfig returns 60-frame windows with a 25 ms budget over two windows.
func DefaultMonitorConfig() MonitorConfig {
	return MonitorConfig{
		WindowFrames:   60,
		Budget:         25 * time.Millisecond,
		SustainWindows: 2,
	}
}

// Monitor watches frame times and asks for a downgrade when the budget is
// exceeded for several windows in a row. It never asks for an upgrade.
type Monitor struct {
	cfg MonitorConfig

	frames int
	sum    time.Duration
	slow   int
}

// NewMonitor creates a monitor. Non-positive settings fall back to defaults.
func NewMonitor(cfg MonitorConfig) *Monitor {
	def := DefaultMonitorConfig()
	if cfg.WindowFrames <= 0 {
		cfg.WindowFrames = def.WindowFrames
	}
	if cfg.Budget <= 0 {
		cfg.Budget = def.Budget
	}
	if cfg.SustainWindows <= 0 {
		cfg.SustainWindows = def.SustainWindows
	}
	return &Monitor{cfg: cfg}
}

// Sample records one frame time and reports whether a downgrade is due.
func (m *Monitor) Sample(dt time.Duration) bool {
	if dt < 0 {
		dt = 0
	}
	m.frames++
	m.sum += dt
	if m.frames < m.cfg.WindowFrames {
		return false
	}

	avg := m.sum / time.Duration(m.frames)
	m.frames = 0
	m.sum = 0

	if avg <= m.cfg.Budget {
		m.slow = 0
		return false
	}
	m.slow++
	if m.slow < m.cfg.SustainWindows {
		return false
	}
	m.slow = 0
	return true
}

// Reset drops partial windows, e.g. after a pause or a tier change.
func (m *Monitor) Reset() {
	m.frames = 0
	m.sum = 0
	m.slow = 0
}
