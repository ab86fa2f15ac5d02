// Package opengl provides the desktop OpenGL 4.1 core device.
package opengl

import (
	"fmt"
	"strings"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/mathgl/mgl32"

	"github.com/go-theft-auto/vgl"
	"github.com/go-theft-auto/vgl/backend/window"
)

// NewBackend returns the desktop backend: a GLFW window with a 4.1 core
// context and this device.
func NewBackend() vgl.Backend {
	return vgl.Backend{
		Name:     "desktop",
		Device:   NewDevice(),
		Platform: window.New(window.APIOpenGL),
		Shaders:  vgl.DesktopShaders,
	}
}

// Device implements vgl.Device on OpenGL 4.1 core.
// Core profile requires a bound vertex array object for attribute state,
// so one VAO stays bound for the device's lifetime.
type Device struct {
	vao  uint32
	info map[string]string
}

// NewDevice creates an uninitialized device.
func NewDevice() *Device {
	return &Device{}
}

// Init loads the GL entry points of the current context.
func (d *Device) Init(width, height int) error {
	if err := gl.Init(); err != nil {
		return fmt.Errorf("gl init: %w", err)
	}
	d.info = map[string]string{
		"gl_version": gl.GoStr(gl.GetString(gl.VERSION)),
		"gl_vendor":  gl.GoStr(gl.GetString(gl.VENDOR)),
		"gl_device":  gl.GoStr(gl.GetString(gl.RENDERER)),
		"glsl":       gl.GoStr(gl.GetString(gl.SHADING_LANGUAGE_VERSION)),
	}

	gl.GenVertexArrays(1, &d.vao)
	gl.BindVertexArray(d.vao)

	gl.Enable(gl.BLEND)
	gl.BlendFunc(gl.SRC_ALPHA, gl.ONE_MINUS_SRC_ALPHA)
	gl.Enable(gl.DEPTH_TEST)
	gl.DepthFunc(gl.LEQUAL)
	gl.Disable(gl.CULL_FACE)
	gl.PixelStorei(gl.UNPACK_ALIGNMENT, 1)
	gl.PixelStorei(gl.PACK_ALIGNMENT, 1)
	gl.ActiveTexture(gl.TEXTURE0)
	gl.Viewport(0, 0, int32(width), int32(height))
	return nil
}

// Describe returns the driver strings read during Init.
func (d *Device) Describe() map[string]string { return d.info }

// CompileProgram compiles and links a program, then queries the
// attribute locations the linker assigned.
func (d *Device) CompileProgram(vertexSrc, fragmentSrc string) (vgl.Program, error) {
	id, err := createShaderProgram(vertexSrc, fragmentSrc)
	if err != nil {
		return vgl.Program{}, err
	}
	p := vgl.Program{
		ID: id,
		Attribs: vgl.AttribLocations{
			Position: gl.GetAttribLocation(id, gl.Str(vgl.AttribPosition+"\x00")),
			TexCoord: gl.GetAttribLocation(id, gl.Str(vgl.AttribTexCoord+"\x00")),
			Color:    gl.GetAttribLocation(id, gl.Str(vgl.AttribColor+"\x00")),
		},
		Uniforms: uniformLocations(id),
	}
	if p.Attribs.Position < 0 {
		gl.DeleteProgram(id)
		return vgl.Program{}, fmt.Errorf("program has no %s attribute", vgl.AttribPosition)
	}
	return p, nil
}

func uniformLocations(id uint32) vgl.UniformLocations {
	loc := func(name string) int32 { return gl.GetUniformLocation(id, gl.Str(name+"\x00")) }
	return vgl.UniformLocations{
		Model:      loc(vgl.UniformModel),
		View:       loc(vgl.UniformView),
		Projection: loc(vgl.UniformProjection),
		UseTexture: loc(vgl.UniformUseTexture),
		Sampler:    loc(vgl.UniformSampler),
	}
}

func (d *Device) DeleteProgram(p vgl.Program) {
	if p.ID != 0 {
		gl.DeleteProgram(p.ID)
	}
}

func (d *Device) UseProgram(id uint32) { gl.UseProgram(id) }

// AllocVertexBuffer creates an empty dynamic buffer of sizeBytes.
func (d *Device) AllocVertexBuffer(sizeBytes int) vgl.Buffer {
	var b uint32
	gl.GenBuffers(1, &b)
	gl.BindBuffer(gl.ARRAY_BUFFER, b)
	gl.BufferData(gl.ARRAY_BUFFER, sizeBytes, nil, gl.DYNAMIC_DRAW)
	gl.BindBuffer(gl.ARRAY_BUFFER, 0)
	return vgl.Buffer(b)
}

func (d *Device) CreateVertexBuffer(data []vgl.MeshVertex) vgl.Buffer {
	var b uint32
	gl.GenBuffers(1, &b)
	gl.BindBuffer(gl.ARRAY_BUFFER, b)
	gl.BufferData(gl.ARRAY_BUFFER, len(data)*int(vgl.MeshVertexStride), gl.Ptr(data), gl.STATIC_DRAW)
	gl.BindBuffer(gl.ARRAY_BUFFER, 0)
	return vgl.Buffer(b)
}

func (d *Device) CreateIndexBuffer(indices []uint32) vgl.Buffer {
	var b uint32
	gl.GenBuffers(1, &b)
	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, b)
	gl.BufferData(gl.ELEMENT_ARRAY_BUFFER, len(indices)*4, gl.Ptr(indices), gl.STATIC_DRAW)
	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, 0)
	return vgl.Buffer(b)
}

func (d *Device) UpdateVertexBuffer(offsetBytes int, verts []vgl.Vertex) {
	if len(verts) == 0 {
		return
	}
	gl.BufferSubData(gl.ARRAY_BUFFER, offsetBytes, len(verts)*int(vgl.VertexStride), gl.Ptr(verts))
}

func (d *Device) BindVertexBuffer(b vgl.Buffer) { gl.BindBuffer(gl.ARRAY_BUFFER, uint32(b)) }
func (d *Device) BindIndexBuffer(b vgl.Buffer) { gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, uint32(b)) }

func (d *Device) DeleteBuffer(b vgl.Buffer) {
	id := uint32(b)
	gl.DeleteBuffers(1, &id)
}

func (d *Device) EnableAttrib(loc, components, stride int32, offset int) {
	if loc < 0 {
		return
	}
	gl.VertexAttribPointerWithOffset(uint32(loc), components, gl.FLOAT, false, stride, uintptr(offset))
	gl.EnableVertexAttribArray(uint32(loc))
}

func (d *Device) DisableAttrib(loc int32) {
	if loc >= 0 {
		gl.DisableVertexAttribArray(uint32(loc))
	}
}

func (d *Device) ConstantAttrib(loc int32, v [4]float32) {
	if loc >= 0 {
		gl.VertexAttrib4f(uint32(loc), v[0], v[1], v[2], v[3])
	}
}

// CreateTexture uploads RGBA8 pixels with nearest filtering and
// clamp-to-edge wrapping. The texture is left bound.
func (d *Device) CreateTexture(rgba []byte, width, height int) vgl.Texture {
	var tex uint32
	gl.GenTextures(1, &tex)
	gl.BindTexture(gl.TEXTURE_2D, tex)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.NEAREST)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.NEAREST)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.CLAMP_TO_EDGE)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.CLAMP_TO_EDGE)
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGBA8, int32(width), int32(height), 0, gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(rgba))
	return vgl.Texture(tex)
}

func (d *Device) BindTexture(t vgl.Texture) { gl.BindTexture(gl.TEXTURE_2D, uint32(t)) }

func (d *Device) DeleteTexture(t vgl.Texture) {
	id := uint32(t)
	gl.DeleteTextures(1, &id)
}

func (d *Device) SetInt(loc, v int32) {
	if loc >= 0 {
		gl.Uniform1i(loc, v)
	}
}

func (d *Device) SetMat4(loc int32, m mgl32.Mat4) {
	if loc >= 0 {
		gl.UniformMatrix4fv(loc, 1, false, &m[0])
	}
}

func glMode(m vgl.PrimitiveMode) uint32 {
	if m == vgl.TriangleStrip {
		return gl.TRIANGLE_STRIP
	}
	return gl.TRIANGLES
}

func (d *Device) DrawArrays(mode vgl.PrimitiveMode, first, count int32) {
	gl.DrawArrays(glMode(mode), first, count)
}

func (d *Device) DrawIndexed(mode vgl.PrimitiveMode, count int32) {
	gl.DrawElementsWithOffset(glMode(mode), count, gl.UNSIGNED_INT, 0)
}

func (d *Device) SetViewport(width, height int) { gl.Viewport(0, 0, int32(width), int32(height)) }

func (d *Device) SetClearColor(c vgl.Color) { gl.ClearColor(c[0], c[1], c[2], c[3]) }

func (d *Device) Clear() { gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT) }

func (d *Device) ReadPixels(width, height int) []byte {
	pix := make([]byte, width*height*4)
	if len(pix) == 0 {
		return pix
	}
	gl.ReadPixels(0, 0, int32(width), int32(height), gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(pix))
	return pix
}

// CheckError drains the GL error queue.
func (d *Device) CheckError() error {
	var codes []string
	for code := gl.GetError(); code != gl.NO_ERROR; code = gl.GetError() {
		codes = append(codes, errorName(code))
		if len(codes) == 8 {
			break
		}
	}
	if len(codes) == 0 {
		return nil
	}
	return fmt.Errorf("gl error: %s", strings.Join(codes, ", "))
}

func errorName(code uint32) string {
	switch code {
	case gl.INVALID_ENUM:
		return "INVALID_ENUM"
	case gl.INVALID_VALUE:
		return "INVALID_VALUE"
	case gl.INVALID_OPERATION:
		return "INVALID_OPERATION"
	case gl.INVALID_FRAMEBUFFER_OPERATION:
		return "INVALID_FRAMEBUFFER_OPERATION"
	case gl.OUT_OF_MEMORY:
		return "OUT_OF_MEMORY"
	}
	return fmt.Sprintf("0x%04X", code)
}

// Release deletes the device's vertex array.
func (d *Device) Release() {
	if d.vao != 0 {
		gl.DeleteVertexArrays(1, &d.vao)
		d.vao = 0
	}
}
