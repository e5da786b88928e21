// Package ui2d draws the 2D layer on top of the scene: the loading
// overlay, the headline reveal and the context-lost placeholder.
package ui2d

import (
	"fmt"
	"image"
	"unsafe"

	"github.com/go-gl/gl/v4.1-core/gl"

	"github.com/Faultbox/topo-scene/internal/engine/shader"
	"github.com/Faultbox/topo-scene/pkg/math"
)

// Renderer batches solid quads and draws textured images in screen points.
type Renderer struct {
	screenWidth  int
	screenHeight int

	solidShader uint32
	imageShader uint32

	solidVAO uint32
	solidVBO uint32
	imageVAO uint32
	imageVBO uint32

	locSolidProj int32
	locImageProj int32
	locImageTex  int32

	batch Batch
}

// New creates a new 2D UI renderer for a screen size in points.
func New(width, height int) (*Renderer, error) {
	r := &Renderer{
		screenWidth:  width,
		screenHeight: height,
		batch:        Batch{vertices: make([]float32, 0, 1024)},
	}

	var err error
	r.solidShader, err = shader.CompileProgram(solidVertexSrc, solidFragmentSrc)
	if err != nil {
		return nil, fmt.Errorf("create solid shader: %w", err)
	}
	r.imageShader, err = shader.CompileProgram(imageVertexSrc, imageFragmentSrc)
	if err != nil {
		r.Close()
		return nil, fmt.Errorf("create image shader: %w", err)
	}
	r.locSolidProj = shader.GetUniform(r.solidShader, "uProjection")
	r.locImageProj = shader.GetUniform(r.imageShader, "uProjection")
	r.locImageTex = shader.GetUniform(r.imageShader, "uTexture")

	r.solidVAO, r.solidVBO = newVertexArray(3, 4)
	r.imageVAO, r.imageVBO = newVertexArray(3, 2)

	return r, nil
}

// newVertexArray creates a VAO/VBO pair with two float attributes.
func newVertexArray(sizeA, sizeB int32) (vao, vbo uint32) {
	gl.GenVertexArrays(1, &vao)
	gl.BindVertexArray(vao)
	gl.GenBuffers(1, &vbo)
	gl.BindBuffer(gl.ARRAY_BUFFER, vbo)

	stride := (sizeA + sizeB) * 4
	gl.VertexAttribPointerWithOffset(0, sizeA, gl.FLOAT, false, stride, 0)
	gl.EnableVertexAttribArray(0)
	gl.VertexAttribPointerWithOffset(1, sizeB, gl.FLOAT, false, stride, uintptr(sizeA*4))
	gl.EnableVertexAttribArray(1)

	gl.BindVertexArray(0)
	gl.BindBuffer(gl.ARRAY_BUFFER, 0)
	return vao, vbo
}

// Resize updates the screen dimensions.
func (r *Renderer) Resize(width, height int) {
	r.screenWidth = width
	r.screenHeight = height
}

// ScreenSize returns the current screen dimensions in points.
func (r *Renderer) ScreenSize() (int, int) {
	return r.screenWidth, r.screenHeight
}

// Begin starts a new UI frame.
func (r *Renderer) Begin() {
	r.batch.Reset()
}

// DrawRect queues a filled rectangle.
func (r *Renderer) DrawRect(x, y, width, height float32, color Color) {
	r.batch.Add(Quad{Rect: Rect{x, y, width, height}, Color: color})
}

// DrawQuads queues several quads.
func (r *Renderer) DrawQuads(qs []Quad) {
	r.batch.AddAll(qs)
}

// End draws all queued quads with alpha blending.
func (r *Renderer) End() {
	if r.batch.VertexCount() == 0 {
		return
	}

	gl.Enable(gl.BLEND)
	gl.BlendFunc(gl.SRC_ALPHA, gl.ONE_MINUS_SRC_ALPHA)
	gl.Disable(gl.DEPTH_TEST)
	gl.Disable(gl.CULL_FACE)

	proj := r.projection()
	gl.UseProgram(r.solidShader)
	gl.UniformMatrix4fv(r.locSolidProj, 1, false, proj.Ptr())

	v := r.batch.vertices
	gl.BindVertexArray(r.solidVAO)
	gl.BindBuffer(gl.ARRAY_BUFFER, r.solidVBO)
	gl.BufferData(gl.ARRAY_BUFFER, len(v)*4, unsafe.Pointer(&v[0]), gl.STREAM_DRAW)
	gl.DrawArrays(gl.TRIANGLES, 0, int32(r.batch.VertexCount()))

	gl.BindVertexArray(0)
	gl.UseProgram(0)
	gl.Disable(gl.BLEND)
}

// Image is an RGBA texture uploaded for DrawImage.
type Image struct {
	Texture uint32
	Width   int
	Height  int
}

// UploadImage creates a texture from img.
func UploadImage(img *image.RGBA) *Image {
	b := img.Bounds()
	var tex uint32
	gl.GenTextures(1, &tex)
	gl.BindTexture(gl.TEXTURE_2D, tex)
	gl.PixelStorei(gl.UNPACK_ALIGNMENT, 1)
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGBA8, int32(b.Dx()), int32(b.Dy()), 0, gl.RGBA, gl.UNSIGNED_BYTE, unsafe.Pointer(&img.Pix[0]))
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.CLAMP_TO_EDGE)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.CLAMP_TO_EDGE)
	gl.BindTexture(gl.TEXTURE_2D, 0)
	return &Image{Texture: tex, Width: b.Dx(), Height: b.Dy()}
}

// Destroy deletes the texture.
func (img *Image) Destroy() {
	if img != nil && img.Texture != 0 {
		gl.DeleteTextures(1, &img.Texture)
		img.Texture = 0
	}
}

// DrawImage draws img stretched over the rect immediately, opaque.
// Image rows are top-down, so V runs with screen Y.
func (r *Renderer) DrawImage(img *Image, dst Rect) {
	if img == nil || img.Texture == 0 {
		return
	}
	x0, y0, x1, y1 := dst.X, dst.Y, dst.X+dst.W, dst.Y+dst.H
	vertices := []float32{
		x0, y0, 0, 0, 0,
		x1, y0, 0, 1, 0,
		x1, y1, 0, 1, 1,
		x0, y0, 0, 0, 0,
		x1, y1, 0, 1, 1,
		x0, y1, 0, 0, 1,
	}

	gl.Disable(gl.BLEND)
	gl.Disable(gl.DEPTH_TEST)

	proj := r.projection()
	gl.UseProgram(r.imageShader)
	gl.UniformMatrix4fv(r.locImageProj, 1, false, proj.Ptr())
	gl.Uniform1i(r.locImageTex, 0)
	gl.ActiveTexture(gl.TEXTURE0)
	gl.BindTexture(gl.TEXTURE_2D, img.Texture)

	gl.BindVertexArray(r.imageVAO)
	gl.BindBuffer(gl.ARRAY_BUFFER, r.imageVBO)
	gl.BufferData(gl.ARRAY_BUFFER, len(vertices)*4, unsafe.Pointer(&vertices[0]), gl.STREAM_DRAW)
	gl.DrawArrays(gl.TRIANGLES, 0, 6)

	gl.BindVertexArray(0)
	gl.BindTexture(gl.TEXTURE_2D, 0)
	gl.UseProgram(0)
}

func (r *Renderer) projection() math.Mat4 {
	return math.Ortho(0, float32(r.screenWidth), float32(r.screenHeight), 0, -1, 1)
}

// Close releases renderer resources.
func (r *Renderer) Close() {
	for _, vao := range []*uint32{&r.solidVAO, &r.imageVAO} {
		if *vao != 0 {
			gl.DeleteVertexArrays(1, vao)
			*vao = 0
		}
	}
	for _, vbo := range []*uint32{&r.solidVBO, &r.imageVBO} {
		if *vbo != 0 {
			gl.DeleteBuffers(1, vbo)
			*vbo = 0
		}
	}
	if r.solidShader != 0 {
		gl.DeleteProgram(r.solidShader)
		r.solidShader = 0
	}
	if r.imageShader != 0 {
		gl.DeleteProgram(r.imageShader)
		r.imageShader = 0
	}
}

const solidVertexSrc = `
#version 410 core

layout (location = 0) in vec3 aPos;
layout (location = 1) in vec4 aColor;

uniform mat4 uProjection;

out vec4 vColor;

void main() {
	gl_Position = uProjection * vec4(aPos, 1.0);
	vColor = aColor;
}
`

const solidFragmentSrc = `
#version 410 core

in vec4 vColor;
out vec4 FragColor;

void main() {
	FragColor = vColor;
}
`

const imageVertexSrc = `
#version 410 core

layout (location = 0) in vec3 aPos;
layout (location = 1) in vec2 aTexCoord;

uniform mat4 uProjection;

out vec2 vTexCoord;

void main() {
	gl_Position = uProjection * vec4(aPos, 1.0);
	vTexCoord = aTexCoord;
}
`

const imageFragmentSrc = `
#version 410 core

uniform sampler2D uTexture;

in vec2 vTexCoord;
out vec4 FragColor;

void main() {
	FragColor = vec4(texture(uTexture, vTexCoord).rgb, 1.0);
}
`
