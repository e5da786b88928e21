// Package postfx applies the per-tier post-processing passes to the scene
// target and presents the result.
package postfx

import "github.com/Faultbox/topo-scene/internal/engine/quality"

// Kind identifies a post-processing pass.
type Kind int

// Passes always run in this order.
const (
	FXAA Kind = iota
	Bloom
	Vignette
	Scanlines
	Grain
)

func (k Kind) String() string {
	switch k {
	case FXAA:
		return "fxaa"
	case Bloom:
		return "bloom"
	case Vignette:
		return "vignette"
	case Scanlines:
		return "scanlines"
	case Grain:
		return "grain"
	}
	return "unknown"
}

// Pass is one enabled effect with its strength.
type Pass struct {
	Kind   Kind
	Amount float32
}

// Effect strengths.
const (
	BloomThreshold   = 0.55
	VignetteStrength = 0.45
	ScanlineStrength = 0.06
	GrainStrength    = 0.05
)

// Chain returns the ordered passes enabled by a profile.
func Chain(p quality.Profile) []Pass {
	var passes []Pass
	if p.Antialias {
		passes = append(passes, Pass{Kind: FXAA, Amount: 1})
	}
	if p.BloomIntensity > 0 {
		passes = append(passes, Pass{Kind: Bloom, Amount: p.BloomIntensity})
	}
	if p.Vignette {
		passes = append(passes, Pass{Kind: Vignette, Amount: VignetteStrength})
	}
	if p.Scanlines {
		passes = append(passes, Pass{Kind: Scanlines, Amount: ScanlineStrength})
	}
	if p.Grain {
		passes = append(passes, Pass{Kind: Grain, Amount: GrainStrength})
	}
	return passes
}

// Slot names a texture source or render destination in a pass plan.
type Slot int

const (
	Source Slot = iota // the scene target
	Ping
	Pong
	Screen // default framebuffer
)

// Step is one pass with its input and output.
type Step struct {
	Pass Pass
	In   Slot
	Out  Slot
}

// Plan routes passes through the ping-pong targets. The first pass reads
// the scene, the last writes the screen, and no pass reads its own output.
// An empty chain yields no steps; the caller copies the scene as is.
func Plan(passes []Pass) []Step {
	steps := make([]Step, len(passes))
	in := Source
	for i, p := range passes {
		out := Ping
		if in == Ping {
			out = Pong
		}
		if i == len(passes)-1 {
			out = Screen
		}
		steps[i] = Step{Pass: p, In: in, Out: out}
		in = out
	}
	return steps
}
