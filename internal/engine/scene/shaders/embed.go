// Package shaders provides embedded GLSL shader sources for the terrain
// scene and the post-processing stack.
package shaders

import "embed"

//go:embed *.glsl *.vert *.frag
var files embed.FS

// Shader source names.
const (
	TerrainVertex   = "terrain.vert"
	TerrainFragment = "terrain.frag"

	FullscreenVertex = "fullscreen.vert"
	CopyFragment     = "copy.frag"
	FXAAFragment     = "fxaa.frag"
	BrightFragment   = "bright.frag"
	BlurFragment     = "blur.frag"
	BloomFragment    = "bloom.frag"
	VignetteFragment = "vignette.frag"
	ScanlineFragment = "scanlines.frag"
	GrainFragment    = "grain.frag"
)
