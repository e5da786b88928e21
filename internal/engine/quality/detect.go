package quality

import (
	"regexp"
	"strings"
)

// DeviceSignals are the hints available when choosing the initial tier.
// Any field may be empty; detection degrades gracefully.
type DeviceSignals struct {
	Platform      string  // e.g. "Linux", "Windows", "Android", "iOS"
	UserAgent     string  // host description, if embedded in a browser-like shell
	ViewportWidth int     // window width in logical points
	PixelRatio    float32 // drawable pixels per logical point
	Renderer      string  // GL_RENDERER
	RendererKnown bool    // false when the renderer query failed
}

// Assessment is the outcome of Detect.
type Assessment struct {
	Tier       Tier
	Confidence float32 // 0..1
	Reason     string
}

// MobileViewportWidth is the viewport width below which a device is treated as mobile.
const MobileViewportWidth = 768

var (
	mobileAgent = regexp.MustCompile(`(?i)android|iphone|ipad|ipod|mobile`)

	lowEndRenderer = regexp.MustCompile(`(?i)intel.*(hd|uhd|iris)|mali|adreno|powervr|swiftshader|llvmpipe|softpipe|apple a\d+`)
)

type rule struct {
	reason string
	tier   Tier
	match  func(DeviceSignals) bool
}

// Rules are evaluated in order; the first match wins.
var rules = []rule{
	{"mobile device", Low, isMobile},
	{"low-end renderer", Low, func(s DeviceSignals) bool {
		return s.RendererKnown && lowEndRenderer.MatchString(s.Renderer)
	}},
	{"high pixel ratio", Medium, func(s DeviceSignals) bool {
		return s.PixelRatio >= 2
	}},
}

func isMobile(s DeviceSignals) bool {
	switch strings.ToLower(s.Platform) {
	case "android", "ios":
		return true
	}
	if s.UserAgent != "" && mobileAgent.MatchString(s.UserAgent) {
		return true
	}
	return s.ViewportWidth > 0 && s.ViewportWidth < MobileViewportWidth
}

// Detect picks a tier ceiling from device signals. It never fails: missing
// signals only lower the confidence of the result.
func Detect(s DeviceSignals) Assessment {
	confidence := float32(0.9)
	if !s.RendererKnown || s.Renderer == "" {
		confidence = 0.6
	}

	for _, r := range rules {
		if r.match(s) {
			return Assessment{Tier: r.tier, Confidence: confidence, Reason: r.reason}
		}
	}
	return Assessment{Tier: High, Confidence: confidence, Reason: "capable desktop"}
}
