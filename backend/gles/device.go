// Package gles provides the embedded OpenGL ES 3.0 device.
//
// Attribute locations are fixed before linking, so every program built
// by this device uses the same slots.
package gles

import (
	"fmt"
	"strings"

	gl "github.com/go-gl/gl/v3.1/gles2"
	"github.com/go-gl/mathgl/mgl32"

	"github.com/go-theft-auto/vgl"
	"github.com/go-theft-auto/vgl/backend/window"
)

// NewBackend returns the embedded backend: a window with an ES client API
// context and this device.
func NewBackend() vgl.Backend {
	return vgl.Backend{
		Name:     "embedded",
		Device:   NewDevice(),
		Platform: window.New(window.APIOpenGLES),
		Shaders:  vgl.EmbeddedShaders,
	}
}

// Device implements vgl.Device on OpenGL ES.
type Device struct {
	info map[string]string
}

// NewDevice creates an uninitialized device.
func NewDevice() *Device {
	return &Device{}
}

func (d *Device) Init(width, height int) error {
	if err := gl.Init(); err != nil {
		return fmt.Errorf("gles init: %w", err)
	}
	d.info = map[string]string{
		"gl_version": gl.GoStr(gl.GetString(gl.VERSION)),
		"gl_vendor":  gl.GoStr(gl.GetString(gl.VENDOR)),
		"gl_device":  gl.GoStr(gl.GetString(gl.RENDERER)),
	}

	gl.Enable(gl.BLEND)
	gl.BlendFunc(gl.SRC_ALPHA, gl.ONE_MINUS_SRC_ALPHA)
	gl.Enable(gl.DEPTH_TEST)
	gl.DepthFunc(gl.LEQUAL)
	gl.PixelStorei(gl.UNPACK_ALIGNMENT, 1)
	gl.PixelStorei(gl.PACK_ALIGNMENT, 1)
	gl.ActiveTexture(gl.TEXTURE0)
	gl.Viewport(0, 0, int32(width), int32(height))
	return nil
}

func (d *Device) Describe() map[string]string { return d.info }

// CompileProgram binds the fixed attribute slots, then links.
func (d *Device) CompileProgram(vertexSrc, fragmentSrc string) (vgl.Program, error) {
	vs, err := compileShader(vertexSrc, gl.VERTEX_SHADER)
	if err != nil {
		return vgl.Program{}, fmt.Errorf("vertex shader compilation failed: %w", err)
	}
	defer gl.DeleteShader(vs)
	fs, err := compileShader(fragmentSrc, gl.FRAGMENT_SHADER)
	if err != nil {
		return vgl.Program{}, fmt.Errorf("fragment shader compilation failed: %w", err)
	}
	defer gl.DeleteShader(fs)

	id := gl.CreateProgram()
	gl.AttachShader(id, vs)
	gl.AttachShader(id, fs)
	gl.BindAttribLocation(id, vgl.PositionLocation, gl.Str(vgl.AttribPosition+"\x00"))
	gl.BindAttribLocation(id, vgl.TexCoordLocation, gl.Str(vgl.AttribTexCoord+"\x00"))
	gl.BindAttribLocation(id, vgl.ColorLocation, gl.Str(vgl.AttribColor+"\x00"))
	gl.LinkProgram(id)

	var status int32
	gl.GetProgramiv(id, gl.LINK_STATUS, &status)
	if status == gl.FALSE {
		msg := infoLog(id, gl.GetProgramiv, gl.GetProgramInfoLog)
		gl.DeleteProgram(id)
		return vgl.Program{}, fmt.Errorf("shader program linking failed: %s", msg)
	}

	loc := func(name string) int32 { return gl.GetUniformLocation(id, gl.Str(name+"\x00")) }
	return vgl.Program{
		ID: id,
		Attribs: vgl.AttribLocations{
			Position: vgl.PositionLocation,
			TexCoord: vgl.TexCoordLocation,
			Color:    vgl.ColorLocation,
		},
		Uniforms: vgl.UniformLocations{
			Model:      loc(vgl.UniformModel),
			View:       loc(vgl.UniformView),
			Projection: loc(vgl.UniformProjection),
			UseTexture: loc(vgl.UniformUseTexture),
			Sampler:    loc(vgl.UniformSampler),
		},
	}, nil
}

func compileShader(source string, kind uint32) (uint32, error) {
	if !strings.HasSuffix(source, "\x00") {
		source += "\x00"
	}
	shader := gl.CreateShader(kind)
	csource, free := gl.Strs(source)
	gl.ShaderSource(shader, 1, csource, nil)
	free()
	gl.CompileShader(shader)

	var status int32
	gl.GetShaderiv(shader, gl.COMPILE_STATUS, &status)
	if status == gl.FALSE {
		msg := infoLog(shader, gl.GetShaderiv, gl.GetShaderInfoLog)
		gl.DeleteShader(shader)
		return 0, fmt.Errorf("%s", msg)
	}
	return shader, nil
}

func infoLog(id uint32, getiv func(uint32, uint32, *int32), getLog func(uint32, int32, *int32, *uint8)) string {
	var n int32
	getiv(id, gl.INFO_LOG_LENGTH, &n)
	if n <= 0 {
		return "no info log"
	}
	buf := make([]byte, n+1)
	getLog(id, n, nil, &buf[0])
	return strings.TrimRight(string(buf), "\x00")
}

func (d *Device) DeleteProgram(p vgl.Program) {
	if p.ID != 0 {
		gl.DeleteProgram(p.ID)
	}
}

func (d *Device) UseProgram(id uint32) { gl.UseProgram(id) }

func (d *Device) AllocVertexBuffer(sizeBytes int) vgl.Buffer {
	return genBuffer(gl.ARRAY_BUFFER, sizeBytes, nil, gl.DYNAMIC_DRAW)
}

func (d *Device) CreateVertexBuffer(data []vgl.MeshVertex) vgl.Buffer {
	return genBuffer(gl.ARRAY_BUFFER, len(data)*int(vgl.MeshVertexStride), data, gl.STATIC_DRAW)
}

func (d *Device) CreateIndexBuffer(indices []uint32) vgl.Buffer {
	return genBuffer(gl.ELEMENT_ARRAY_BUFFER, len(indices)*4, indices, gl.STATIC_DRAW)
}

func genBuffer(target uint32, size int, data any, usage uint32) vgl.Buffer {
	var b uint32
	gl.GenBuffers(1, &b)
	gl.BindBuffer(target, b)
	gl.BufferData(target, size, gl.Ptr(data), usage)
	gl.BindBuffer(target, 0)
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
	gl.VertexAttribPointer(uint32(loc), components, gl.FLOAT, false, stride, gl.PtrOffset(offset))
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

// CreateTexture uploads RGBA8 pixels, NEAREST filtered and clamped.
func (d *Device) CreateTexture(rgba []byte, width, height int) vgl.Texture {
	var tex uint32
	gl.GenTextures(1, &tex)
	gl.BindTexture(gl.TEXTURE_2D, tex)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.NEAREST)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.NEAREST)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.CLAMP_TO_EDGE)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.CLAMP_TO_EDGE)
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGBA, int32(width), int32(height), 0, gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(rgba))
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

func (d *Device) DrawArrays(mode vgl.PrimitiveMode, first, count int32) {
	gl.DrawArrays(glMode(mode), first, count)
}

func (d *Device) DrawIndexed(mode vgl.PrimitiveMode, count int32) {
	gl.DrawElements(glMode(mode), count, gl.UNSIGNED_INT, gl.PtrOffset(0))
}

func glMode(m vgl.PrimitiveMode) uint32 {
	if m == vgl.TriangleStrip {
		return gl.TRIANGLE_STRIP
	}
	return gl.TRIANGLES
}

func (d *Device) SetViewport(width, height int) { gl.Viewport(0, 0, int32(width), int32(height)) }

func (d *Device) SetClearColor(c vgl.Color) { gl.ClearColor(c[0], c[1], c[2], c[3]) }

func (d *Device) Clear() { gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT) }

func (d *Device) ReadPixels(width, height int) []byte {
	pix := make([]byte, width*height*4)
	if len(pix) > 0 {
		gl.ReadPixels(0, 0, int32(width), int32(height), gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(pix))
	}
	return pix
}

func (d *Device) CheckError() error {
	code := gl.GetError()
	if code == gl.NO_ERROR {
		return nil
	}
	// Drain so the next check starts clean.
	for i := 0; i < 8 && gl.GetError() != gl.NO_ERROR; i++ {
	}
	return fmt.Errorf("gles error 0x%04X", code)
}

func (d *Device) Release() {}
