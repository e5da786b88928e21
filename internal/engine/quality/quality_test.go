package quality

import (
	"encoding/json"
	"testing"
	"time"
)

func TestParseTier(t *testing.T) {
	tests := []struct {
		in      string
		want    Tier
		wantErr bool
	}{
		{"low", Low, false},
		{"Medium", Medium, false},
		{" HIGH ", High, false},
		{"ultra", Low, true},
		{"", Low, true},
	}
	for _, tt := range tests {
		got, err := ParseTier(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseTier(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseTier(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestTierJSON(t *testing.T) {
	b, err := json.Marshal(struct {
		Tier Tier `json:"tier"`
	}{Medium})
	if err != nil {
		t.Fatal(err)
	}
	if string(b) != `{"tier":"medium"}` {
		t.Errorf("got %s", b)
	}

	var out struct {
		Tier Tier `json:"tier"`
	}
	if err := json.Unmarshal([]byte(`{"tier":"high"}`), &out); err != nil {
		t.Fatal(err)
	}
	if out.Tier != High {
		t.Errorf("Tier = %v, want high", out.Tier)
	}
}

func TestTierSteps(t *testing.T) {
	if Low.Lower() != Low {
		t.Error("Low.Lower() must stay Low")
	}
	if High.Higher() != High {
		t.Error("High.Higher() must stay High")
	}
	if Medium.Lower() != Low || Medium.Higher() != High {
		t.Error("Medium steps wrong")
	}
}

func TestProfiles(t *testing.T) {
	low := ProfileFor(Low)
	if low.GridResolution != 64 || low.Antialias || low.BloomIntensity != 0 || !low.Vignette {
		t.Errorf("low profile = %+v", low)
	}
	if low.Scanlines || low.Grain {
		t.Error("low profile must not carry scanlines or grain")
	}

	med := ProfileFor(Medium)
	if med.GridResolution != 100 || !med.Antialias || med.BloomIntensity != 0.6 || med.Scanlines || med.Grain {
		t.Errorf("medium profile = %+v", med)
	}
	if med.PixelRatioMax != 1.5 {
		t.Errorf("medium dpr max = %v", med.PixelRatioMax)
	}

	high := ProfileFor(High)
	if high.BloomIntensity != 1.0 || !high.Scanlines || !high.Grain || high.PixelRatioMax != 2 {
		t.Errorf("high profile = %+v", high)
	}

	if ProfileFor(Tier(42)).Tier != Low {
		t.Error("unknown tier should map to Low profile")
	}
}

func TestRenderScale(t *testing.T) {
	tests := []struct {
		tier Tier
		dpr  float32
		want float32
	}{
		{Low, 1, 1},
		{Low, 2, 0.5},
		{Medium, 2, 0.75},
		{Medium, 1.25, 1},
		{High, 3, 2.0 / 3.0},
		{High, 0, 1},
	}
	for _, tt := range tests {
		got := ProfileFor(tt.tier).RenderScale(tt.dpr)
		if diff := got - tt.want; diff > 1e-5 || diff < -1e-5 {
			t.Errorf("%v.RenderScale(%v) = %v, want %v", tt.tier, tt.dpr, got, tt.want)
		}
	}
}

func TestDetect(t *testing.T) {
	tests := []struct {
		name    string
		signals DeviceSignals
		want    Tier
		reason  string
	}{
		{
			name:    "android platform",
			signals: DeviceSignals{Platform: "Android", ViewportWidth: 1200, Renderer: "NVIDIA", RendererKnown: true},
			want:    Low,
			reason:  "mobile device",
		},
		{
			name:    "mobile user agent",
			signals: DeviceSignals{Platform: "Linux", UserAgent: "Mozilla/5.0 (iPhone; CPU iPhone OS 17_0)", ViewportWidth: 1400},
			want:    Low,
			reason:  "mobile device",
		},
		{
			name:    "narrow viewport",
			signals: DeviceSignals{Platform: "Linux", ViewportWidth: 600, Renderer: "NVIDIA GeForce RTX 4070", RendererKnown: true},
			want:    Low,
			reason:  "mobile device",
		},
		{
			name:    "intel integrated",
			signals: DeviceSignals{Platform: "Windows", ViewportWidth: 1920, Renderer: "Intel(R) UHD Graphics 620", RendererKnown: true},
			want:    Low,
			reason:  "low-end renderer",
		},
		{
			name:    "software rasterizer",
			signals: DeviceSignals{Platform: "Linux", ViewportWidth: 1920, Renderer: "llvmpipe (LLVM 15.0.7, 256 bits)", RendererKnown: true},
			want:    Low,
			reason:  "low-end renderer",
		},
		{
			name:    "high pixel ratio with low-end renderer",
			signals: DeviceSignals{Platform: "Windows", ViewportWidth: 1440, PixelRatio: 2, Renderer: "Intel(R) Iris(R) Xe Graphics", RendererKnown: true},
			want:    Low,
			reason:  "low-end renderer",
		},
		{
			name:    "retina desktop",
			signals: DeviceSignals{Platform: "Mac OS X", ViewportWidth: 1512, PixelRatio: 2, Renderer: "Apple M2", RendererKnown: true},
			want:    Medium,
			reason:  "high pixel ratio",
		},
		{
			name:    "discrete gpu",
			signals: DeviceSignals{Platform: "Windows", ViewportWidth: 2560, PixelRatio: 1, Renderer: "NVIDIA GeForce RTX 3080/PCIe/SSE2", RendererKnown: true},
			want:    High,
			reason:  "capable desktop",
		},
		{
			name:    "unknown renderer",
			signals: DeviceSignals{Platform: "Linux", ViewportWidth: 1920, PixelRatio: 1},
			want:    High,
			reason:  "capable desktop",
		},
		{
			name:    "no signals at all",
			signals: DeviceSignals{},
			want:    High,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := Detect(tt.signals)
			if a.Tier != tt.want {
				t.Errorf("Tier = %v, want %v (reason %q)", a.Tier, tt.want, a.Reason)
			}
			if tt.reason != "" && a.Reason != tt.reason {
				t.Errorf("Reason = %q, want %q", a.Reason, tt.reason)
			}
			if a.Confidence <= 0 || a.Confidence > 1 {
				t.Errorf("Confidence = %v out of range", a.Confidence)
			}
		})
	}
}

func TestDetectMissingRendererLowersConfidence(t *testing.T) {
	known := Detect(DeviceSignals{Platform: "Linux", ViewportWidth: 1920, Renderer: "AMD Radeon", RendererKnown: true})
	unknown := Detect(DeviceSignals{Platform: "Linux", ViewportWidth: 1920})
	if unknown.Confidence >= known.Confidence {
		t.Errorf("confidence unknown=%v known=%v", unknown.Confidence, known.Confidence)
	}
}

func sampleN(g *Governor, n int, dt time.Duration) (changes int) {
	for i := 0; i < n; i++ {
		if _, changed := g.Sample(dt); changed {
			changes++
		}
	}
	return changes
}

func TestMonitorSustainedSlowness(t *testing.T) {
	m := NewMonitor(MonitorConfig{WindowFrames: 10, Budget: 20 * time.Millisecond, SustainWindows: 2})

	fired := 0
	for i := 0; i < 10; i++ {
		if m.Sample(30 * time.Millisecond) {
			fired++
		}
	}
	if fired != 0 {
		t.Fatal("one slow window must not trigger a downgrade")
	}
	for i := 0; i < 10; i++ {
		if m.Sample(30 * time.Millisecond) {
			fired++
		}
	}
	if fired != 1 {
		t.Fatalf("fired = %d after two slow windows, want 1", fired)
	}
}

func TestMonitorFastWindowBreaksStreak(t *testing.T) {
	m := NewMonitor(MonitorConfig{WindowFrames: 5, Budget: 20 * time.Millisecond, SustainWindows: 2})
	pattern := []time.Duration{30, 10, 30, 10, 30, 10}
	for _, ms := range pattern {
		for i := 0; i < 5; i++ {
			if m.Sample(ms * time.Millisecond) {
				t.Fatal("alternating windows must never trigger a downgrade")
			}
		}
	}
}

func TestGovernorDowngradeIsMonotonic(t *testing.T) {
	g, err := NewGovernor("auto", MonitorConfig{WindowFrames: 4, Budget: 10 * time.Millisecond, SustainWindows: 1})
	if err != nil {
		t.Fatal(err)
	}
	if g.Current() != High {
		t.Fatalf("start tier = %v, want high", g.Current())
	}

	prev := g.Current()
	for i := 0; i < 100; i++ {
		dt := 50 * time.Millisecond
		if i%3 == 0 {
			dt = time.Millisecond
		}
		tier, _ := g.Sample(dt)
		if tier > prev {
			t.Fatalf("tier rose from %v to %v without Incline", prev, tier)
		}
		prev = tier
	}
	if g.Current() != Low {
		t.Errorf("tier = %v after sustained load, want low", g.Current())
	}

	// Fast frames never raise it back.
	if n := sampleN(g, 100, time.Millisecond); n != 0 {
		t.Errorf("tier changed %d times on fast frames", n)
	}
	if g.Current() != Low {
		t.Errorf("tier = %v, want low", g.Current())
	}
}

func TestGovernorApplyOnce(t *testing.T) {
	g, _ := NewGovernor("", DefaultMonitorConfig())

	tier, changed := g.Apply(Assessment{Tier: Medium})
	if tier != Medium || !changed {
		t.Fatalf("Apply(medium) = %v, %v", tier, changed)
	}
	tier, changed = g.Apply(Assessment{Tier: Low})
	if tier != Medium || changed {
		t.Errorf("second Apply must be ignored, got %v, %v", tier, changed)
	}
	if g.Ceiling() != Medium {
		t.Errorf("ceiling = %v", g.Ceiling())
	}
}

func TestGovernorInclineCapped(t *testing.T) {
	g, _ := NewGovernor("auto", MonitorConfig{WindowFrames: 1, Budget: time.Millisecond, SustainWindows: 1})
	g.Apply(Assessment{Tier: Medium})

	g.Sample(time.Second)
	if g.Current() != Low {
		t.Fatalf("tier = %v after slow frame, want low", g.Current())
	}

	if tier, changed := g.Incline(); tier != Medium || !changed {
		t.Errorf("Incline() = %v, %v, want medium, true", tier, changed)
	}
	if tier, changed := g.Incline(); tier != Medium || changed {
		t.Errorf("Incline() past ceiling = %v, %v", tier, changed)
	}
}

func TestGovernorOverride(t *testing.T) {
	g, err := NewGovernor("low", MonitorConfig{WindowFrames: 1, Budget: time.Millisecond, SustainWindows: 1})
	if err != nil {
		t.Fatal(err)
	}
	if !g.Pinned() || g.Current() != Low {
		t.Fatalf("override not applied: %v pinned=%v", g.Current(), g.Pinned())
	}
	if _, changed := g.Apply(Assessment{Tier: High}); changed {
		t.Error("pinned governor accepted detection")
	}
	if _, changed := g.Incline(); changed {
		t.Error("pinned governor inclined")
	}

	if _, err := NewGovernor("ultra", DefaultMonitorConfig()); err == nil {
		t.Error("expected error for bad override")
	}
}
