package postfx

import (
	"testing"

	"github.com/Faultbox/topo-scene/internal/engine/quality"
)

func kinds(passes []Pass) []Kind {
	out := make([]Kind, len(passes))
	for i, p := range passes {
		out[i] = p.Kind
	}
	return out
}

func TestChainPerTier(t *testing.T) {
	tests := []struct {
		tier  quality.Tier
		want  []Kind
		bloom float32
	}{
		{quality.Low, []Kind{Vignette}, 0},
		{quality.Medium, []Kind{FXAA, Bloom, Vignette}, 0.6},
		{quality.High, []Kind{FXAA, Bloom, Vignette, Scanlines, Grain}, 1.0},
	}
	for _, tt := range tests {
		t.Run(tt.tier.String(), func(t *testing.T) {
			passes := Chain(quality.ProfileFor(tt.tier))
			got := kinds(passes)
			if len(got) != len(tt.want) {
				t.Fatalf("Chain = %v, want %v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Fatalf("Chain = %v, want %v", got, tt.want)
				}
			}
			for _, p := range passes {
				if p.Kind == Bloom && p.Amount != tt.bloom {
					t.Errorf("bloom intensity = %v, want %v", p.Amount, tt.bloom)
				}
			}
		})
	}
}

func TestChainOrderIsFixed(t *testing.T) {
	p := quality.Profile{Grain: true, Antialias: true, Scanlines: true, BloomIntensity: 0.3, Vignette: true}
	got := kinds(Chain(p))
	for i := 1; i < len(got); i++ {
		if got[i] <= got[i-1] {
			t.Fatalf("passes out of order: %v", got)
		}
	}
}

func TestChainEmpty(t *testing.T) {
	if n := len(Chain(quality.Profile{})); n != 0 {
		t.Errorf("empty profile produced %d passes", n)
	}
	if n := len(Plan(nil)); n != 0 {
		t.Errorf("Plan(nil) produced %d steps", n)
	}
}

func TestPlanRouting(t *testing.T) {
	for n := 1; n <= 5; n++ {
		passes := make([]Pass, n)
		steps := Plan(passes)
		if steps[0].In != Source {
			t.Errorf("n=%d: first pass reads %v", n, steps[0].In)
		}
		if steps[n-1].Out != Screen {
			t.Errorf("n=%d: last pass writes %v", n, steps[n-1].Out)
		}
		for i, s := range steps {
			if s.In == s.Out {
				t.Errorf("n=%d step %d reads and writes %v", n, i, s.In)
			}
			if i > 0 && s.In != steps[i-1].Out {
				t.Errorf("n=%d step %d input %v, previous output %v", n, i, s.In, steps[i-1].Out)
			}
			if i < n-1 && s.Out == Screen {
				t.Errorf("n=%d step %d writes the screen early", n, i)
			}
		}
	}
}

func TestStackResizeWithoutTargets(t *testing.T) {
	var s Stack
	s.Resize(640, 360)
	if w, h := s.Size(); w != 640 || h != 360 {
		t.Errorf("Size() = %dx%d, want 640x360", w, h)
	}
	if s.ready() {
		t.Error("stack without targets reported ready")
	}
}
