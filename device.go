package vgl

import (
	"github.com/go-gl/mathgl/mgl32"
)

// PrimitiveMode is the topology of a draw submission.
type PrimitiveMode int

const (
	Triangles PrimitiveMode = iota
	TriangleStrip
)

// AttribLocations are the shader attribute indices of a linked program.
type AttribLocations struct {
	Position int32
	TexCoord int32
	Color    int32
}

// UniformLocations are the shader uniform locations of a linked program.
type UniformLocations struct {
	Model      int32
	View       int32
	Projection int32
	UseTexture int32
	Sampler    int32
}

// Program is a linked shader program and its resolved locations.
type Program struct {
	ID       uint32
	Attribs  AttribLocations
	Uniforms UniformLocations
}

// Device is the GPU command surface a backend implements.
// All methods run on the thread that owns the graphics context.
// Backends differ in how CompileProgram resolves attribute locations.
type Device interface {
	// Init loads the GL entry points and prepares default state.
	Init(width, height int) error
	// Describe returns version/vendor strings for diagnostics.
	Describe() map[string]string

	CompileProgram(vertexSrc, fragmentSrc string) (Program, error)
	DeleteProgram(p Program)
	UseProgram(id uint32) // 0 clears

	AllocVertexBuffer(sizeBytes int) Buffer
	CreateVertexBuffer(data []MeshVertex) Buffer
	CreateIndexBuffer(indices []uint32) Buffer
	UpdateVertexBuffer(offsetBytes int, verts []Vertex) // into the bound vertex buffer
	BindVertexBuffer(b Buffer)                          // 0 clears
	BindIndexBuffer(b Buffer)                           // 0 clears
	DeleteBuffer(b Buffer)

	EnableAttrib(loc, components, stride int32, offset int)
	DisableAttrib(loc int32)
	ConstantAttrib(loc int32, v [4]float32)

	CreateTexture(rgba []byte, width, height int) Texture
	BindTexture(t Texture) // 0 clears
	DeleteTexture(t Texture)

	SetInt(loc, v int32)
	SetMat4(loc int32, m mgl32.Mat4)

	DrawArrays(mode PrimitiveMode, first, count int32)
	DrawIndexed(mode PrimitiveMode, count int32) // uint32 indices from the bound index buffer

	SetViewport(width, height int)
	SetClearColor(c Color)
	Clear()
	ReadPixels(width, height int) []byte

	// CheckError returns the pending GPU error, if any. The Context only logs it.
	CheckError() error
	// Release frees device-owned state. The context is still current.
	Release()
}

// Platform owns the window and presentation.
type Platform interface {
	// Open creates the window and makes its graphics context current.
	Open(cfg WindowConfig) error
	// ShouldClose reports whether the window asked to close.
	ShouldClose() bool
	// Present swaps the back buffer.
	Present()
	// PollEvents processes window events.
	PollEvents()
	FramebufferSize() (width, height int)
	// Close destroys the window and terminates the windowing library.
	Close()
}

// ShaderSources are the vertex/fragment sources of the default program.
type ShaderSources struct {
	Vertex   string
	Fragment string
}

// Backend pairs a Device with the Platform that hosts it.
type Backend struct {
	Name     string
	Device   Device
	Platform Platform
	Shaders  ShaderSources // Built-in default program for this dialect
}
