package ui2d

// Color represents an RGBA color with float components (0.0 to 1.0).
type Color struct {
	R, G, B, A float32
}

// Overlay palette, matched to the terrain shading colors.
var (
	ColorTransparent = Color{0, 0, 0, 0}
	ColorWhite       = Color{1, 1, 1, 1}

	ColorBackdrop  = Color{0.02, 0.027, 0.04, 1}
	ColorTrack     = Color{0.07, 0.1, 0.14, 1}
	ColorFill      = Color{0.42, 0.82, 0.94, 1}
	ColorHeadline  = Color{0.86, 0.92, 0.96, 1}
	ColorSubline   = Color{0.32, 0.42, 0.52, 1}
	ColorLostVeil  = Color{0.02, 0.027, 0.04, 0.55}
	ColorLostBadge = Color{0.94, 0.56, 0.32, 1}
)

// RGB creates a color from 8-bit RGB values with full alpha.
func RGB(r, g, b uint8) Color {
	return Color{
		R: float32(r) / 255.0,
		G: float32(g) / 255.0,
		B: float32(b) / 255.0,
		A: 1.0,
	}
}

// WithAlpha returns a copy of the color with a different alpha value.
func (c Color) WithAlpha(a float32) Color {
	return Color{c.R, c.G, c.B, a}
}

// Fade scales the alpha by f.
func (c Color) Fade(f float32) Color {
	return Color{c.R, c.G, c.B, c.A * f}
}
