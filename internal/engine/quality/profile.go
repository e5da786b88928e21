package quality

import "github.com/Faultbox/topo-scene/pkg/math"

// Profile is the fixed set of settings attached to a tier.
type Profile struct {
	Tier           Tier
	GridResolution int     // quads per side of the terrain grid
	PixelRatioMin  float32 // device pixel ratio clamp
	PixelRatioMax  float32
	Antialias      bool    // FXAA pass
	BloomIntensity float32 // 0 disables bloom
	Vignette       bool
	Scanlines      bool
	Grain          bool
}

var profiles = [...]Profile{
	Low: {
		Tier:           Low,
		GridResolution: 64,
		PixelRatioMin:  1,
		PixelRatioMax:  1,
		Vignette:       true,
	},
	Medium: {
		Tier:           Medium,
		GridResolution: 100,
		PixelRatioMin:  1,
		PixelRatioMax:  1.5,
		Antialias:      true,
		BloomIntensity: 0.6,
		Vignette:       true,
	},
	High: {
		Tier:           High,
		GridResolution: 100,
		PixelRatioMin:  1,
		PixelRatioMax:  2,
		Antialias:      true,
		BloomIntensity: 1.0,
		Vignette:       true,
		Scanlines:      true,
		Grain:          true,
	},
}

// ProfileFor returns the profile of t. Unknown tiers get the Low profile.
func ProfileFor(t Tier) Profile {
	if !t.Valid() {
		return profiles[Low]
	}
	return profiles[t]
}

// PixelRatio clamps a device pixel ratio into the profile range.
func (p Profile) PixelRatio(dpr float32) float32 {
	if !(dpr > 0) {
		dpr = 1
	}
	return math.Clamp(dpr, p.PixelRatioMin, p.PixelRatioMax)
}

// RenderScale returns the factor applied to the drawable size to get the
// scene target size: the clamped ratio over the native one.
func (p Profile) RenderScale(dpr float32) float32 {
	if !(dpr > 0) {
		dpr = 1
	}
	return p.PixelRatio(dpr) / dpr
}
