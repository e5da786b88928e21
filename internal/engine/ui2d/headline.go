package ui2d

import "github.com/Faultbox/topo-scene/pkg/math"

// Headline is the title block whose entrance waits for the loader to be gone.
type Headline struct {
	Widths   []float32 // line widths as a share of screen width
	Heights  []float32 // line heights in points
	Stagger  float32   // seconds between line entrances
	Duration float32   // seconds per line entrance
	Rise     float32   // points each line travels upward

	elapsed float32
	started bool
}

// NewHeadline creates a two-line title with a subline.
func NewHeadline() *Headline {
	return &Headline{
		Widths:   []float32{0.42, 0.3, 0.22},
		Heights:  []float32{28, 28, 10},
		Stagger:  0.12,
		Duration: 0.9,
		Rise:     24,
	}
}

// Update advances the entrance animation. It only runs while loaderGone
// is true; before that the headline stays hidden and at rest.
func (hl *Headline) Update(dt float32, loaderGone bool) {
	if !loaderGone {
		hl.Reset()
		return
	}
	hl.started = true
	if dt > 0 {
		hl.elapsed += dt
	}
}

// Reset hides the headline and rewinds its animation, e.g. on replay.
func (hl *Headline) Reset() {
	hl.started = false
	hl.elapsed = 0
}

// Started reports whether the entrance animation has begun.
func (hl *Headline) Started() bool {
	return hl.started
}

// Done reports whether every line has finished its entrance.
func (hl *Headline) Done() bool {
	n := len(hl.Widths)
	return hl.started && n > 0 && hl.elapsed >= float32(n-1)*hl.Stagger+hl.Duration
}

// Layout returns the line quads anchored to the lower left of the screen.
func (hl *Headline) Layout(w, h float32) []Quad {
	if !hl.started {
		return nil
	}

	x := w * 0.08
	y := h * 0.62
	quads := make([]Quad, 0, len(hl.Widths))
	for i, frac := range hl.Widths {
		lineH := hl.Heights[i%len(hl.Heights)]
		t := math.Saturate((hl.elapsed - float32(i)*hl.Stagger) / hl.Duration)
		eased := 1 - (1-t)*(1-t)*(1-t)

		color := ColorHeadline
		if i == len(hl.Widths)-1 {
			color = ColorSubline
		}
		quads = append(quads, Quad{
			Rect:  Rect{x, y + (1-eased)*hl.Rise, w * frac, lineH},
			Color: color.Fade(eased),
		})
		y += lineH + 12
	}
	return quads
}
