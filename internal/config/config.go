// Package config handles scene configuration loading and management.
package config

import "time"

// Config holds all viewer settings.
type Config struct {
	Graphics    GraphicsConfig    `yaml:"graphics"`
	Scene       SceneConfig       `yaml:"scene"`
	Loader      LoaderConfig      `yaml:"loader"`
	Performance PerformanceConfig `yaml:"performance"`
	Signals     SignalsConfig     `yaml:"signals"`
	Logging     LoggingConfig     `yaml:"logging"`
}

// GraphicsConfig holds display and rendering settings.
type GraphicsConfig struct {
	Width      int    `yaml:"width"`
	Height     int    `yaml:"height"`
	Fullscreen bool   `yaml:"fullscreen"`
	VSync      bool   `yaml:"vsync"`
	FPSLimit   int    `yaml:"fps_limit"`
	Quality    string `yaml:"quality"` // auto, low, medium, high
}

// SceneConfig holds render core tuning.
type SceneConfig struct {
	WarmupFrames     int           `yaml:"warmup_frames"`
	PointerSmoothing float32       `yaml:"pointer_smoothing"`
	MaxFrameDelta    time.Duration `yaml:"max_frame_delta"`
}

// LoaderConfig holds readiness timings.
type LoaderConfig struct {
	MinDisplay   time.Duration `yaml:"min_display"`
	ExitDelay    time.Duration `yaml:"exit_delay"`
	HardTimeout  time.Duration `yaml:"hard_timeout"` // 0 disables the forced reveal
	SkipOnRepeat bool          `yaml:"skip_on_repeat"`
}

// PerformanceConfig holds the runtime downgrade thresholds.
type PerformanceConfig struct {
	SampleFrames   int           `yaml:"sample_frames"`
	Budget         time.Duration `yaml:"budget"`
	SustainWindows int           `yaml:"sustain_windows"`
}

// SignalsConfig holds the status server settings.
type SignalsConfig struct {
	Enabled bool   `yaml:"enabled"`
	Addr    string `yaml:"addr"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Graphics: GraphicsConfig{
			Width:      1280,
			Height:     720,
			Fullscreen: false,
			VSync:      true,
			FPSLimit:   0,
			Quality:    "auto",
		},
		Scene: SceneConfig{
			WarmupFrames:     8,
			PointerSmoothing: 0.05,
			MaxFrameDelta:    100 * time.Millisecond,
		},
		Loader: LoaderConfig{
			MinDisplay:   2500 * time.Millisecond,
			ExitDelay:    1300 * time.Millisecond,
			HardTimeout:  10 * time.Second,
			SkipOnRepeat: true,
		},
		Performance: PerformanceConfig{
			SampleFrames:   60,
			Budget:         25 * time.Millisecond,
			SustainWindows: 2,
		},
		Signals: SignalsConfig{
			Enabled: false,
			Addr:    "127.0.0.1:7420",
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
	}
}
