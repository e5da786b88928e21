package ui2d

import (
	"github.com/Faultbox/topo-scene/internal/session"
	"github.com/Faultbox/topo-scene/pkg/math"
)

// LoaderOverlay covers the scene until readiness allows the reveal.
type LoaderOverlay struct {
	BarMaxWidth float32
	BarHeight   float32
}

// NewLoaderOverlay creates the overlay with its default bar size.
func NewLoaderOverlay() *LoaderOverlay {
	return &LoaderOverlay{BarMaxWidth: 360, BarHeight: 3}
}

// Layout returns the overlay quads for a screen size. load is the share of
// the minimum display time elapsed; exit is the share of the fade-out
// elapsed after CanReveal. Nothing is drawn once the loader is gone.
func (o *LoaderOverlay) Layout(w, h float32, snap session.Snapshot, load, exit float32) []Quad {
	if snap.LoaderGone {
		return nil
	}

	alpha := float32(1)
	if snap.CanReveal {
		alpha = 1 - math.Smoothstep(0, 1, exit)
	}
	if alpha <= 0 {
		return nil
	}

	barW := w * 0.32
	if barW > o.BarMaxWidth {
		barW = o.BarMaxWidth
	}
	barX := (w - barW) / 2
	barY := h/2 - o.BarHeight/2

	return []Quad{
		{Rect: Rect{0, 0, w, h}, Color: ColorBackdrop.Fade(alpha)},
		{Rect: Rect{barX, barY, barW, o.BarHeight}, Color: ColorTrack.Fade(alpha)},
		{Rect: Rect{barX, barY, barW * math.Saturate(load), o.BarHeight}, Color: ColorFill.Fade(alpha)},
	}
}

// LostVeil returns the quads drawn over the static placeholder while the
// GPU context is lost: a dimming veil and a small badge in the corner.
func LostVeil(w, h float32) []Quad {
	return []Quad{
		{Rect: Rect{0, 0, w, h}, Color: ColorLostVeil},
		{Rect: Rect{w - 40, 24, 16, 16}, Color: ColorLostBadge},
	}
}
