package vgl

import (
	"unsafe"

	"github.com/go-gl/mathgl/mgl32"
)

// VerticesPerQuad is the number of vertices in one DrawCall.
// The four vertices are drawn as a triangle strip.
const VerticesPerQuad = 4

// Texture is a GPU texture handle. Zero means "no texture".
type Texture uint32

// Buffer is a GPU buffer handle. Zero means "no buffer".
type Buffer uint32

// Color is an RGBA color with components in [0, 1].
type Color [4]float32

// Color constants.
var (
	ColorWhite       = Color{1, 1, 1, 1}
	ColorBlack       = Color{0, 0, 0, 1}
	ColorRed         = Color{1, 0, 0, 1}
	ColorGreen       = Color{0, 1, 0, 1}
	ColorBlue        = Color{0, 0, 1, 1}
	ColorYellow      = Color{1, 1, 0, 1}
	ColorTransparent = Color{0, 0, 0, 0}
)

// RGBA creates a color from 8-bit components.
func RGBA(r, g, b, a uint8) Color {
	return Color{float32(r) / 255, float32(g) / 255, float32(b) / 255, float32(a) / 255}
}

// Vertex is one interleaved vertex as uploaded to the GPU.
// Memory layout matches the attribute pointers set up during submission.
type Vertex struct {
	Pos      [3]float32 // Position (x, y, z); z is 0 for 2D quads
	TexCoord [2]float32 // Texture coordinates (s, v), normalized
	Color    [4]float32 // RGBA, 0..1
}

// Vertex layout, computed once from the struct.
var (
	VertexStride         = int32(unsafe.Sizeof(Vertex{}))
	vertexPosOffset      = int(unsafe.Offsetof(Vertex{}.Pos))
	vertexTexCoordOffset = int(unsafe.Offsetof(Vertex{}.TexCoord))
	vertexColorOffset    = int(unsafe.Offsetof(Vertex{}.Color))
)

// DrawCall is one quad worth of vertices, the unit of batching.
type DrawCall struct {
	Verts [VerticesPerQuad]Vertex
}

// drawCallSize is the number of bytes one DrawCall occupies on the GPU.
var drawCallSize = int(unsafe.Sizeof(DrawCall{}))

// ExtraData carries per-primitive pivot, rotation, scale and texture.
// It is owned by the caller and only read while the batch is submitted.
type ExtraData struct {
	Texture Texture
	PivotX  float32
	PivotY  float32
	RotX    float32 // degrees
	RotY    float32 // degrees
	RotZ    float32 // degrees
	Scale   float32
}

// Transform positions a primitive: translate, rotate X/Y/Z (degrees), scale.
type Transform struct {
	Pos   mgl32.Vec3
	Rot   mgl32.Vec3
	Scale mgl32.Vec3
}

// IdentityTransform places a primitive at the origin, unrotated, unscaled.
func IdentityTransform() Transform {
	return Transform{Scale: mgl32.Vec3{1, 1, 1}}
}

// Primitive is the per-DrawCall state the submission loop needs.
type Primitive struct {
	Transform Transform
	Extra     *ExtraData // Optional; shared by all four vertices
	Texture   Texture    // Used when Extra is nil or its Texture is 0
}

// texture returns the texture this primitive renders with.
func (p *Primitive) texture() Texture {
	if p.Extra != nil && p.Extra.Texture != 0 {
		return p.Extra.Texture
	}
	return p.Texture
}

// model returns the primitive's model matrix.
func (p *Primitive) model() mgl32.Mat4 {
	if p.Extra != nil {
		return PrimitiveModel2D(p.Transform.Pos, p.Extra)
	}
	return ModelMatrix(p.Transform.Pos, p.Transform.Rot, p.Transform.Scale)
}

// MeshVertex is the vertex layout of static mesh buffers.
type MeshVertex struct {
	Pos      [3]float32
	TexCoord [2]float32
}

// Mesh vertex layout.
var (
	MeshVertexStride         = int32(unsafe.Sizeof(MeshVertex{}))
	meshVertexTexCoordOffset = int(unsafe.Offsetof(MeshVertex{}.TexCoord))
)

// Rect is a source rectangle in texture pixels.
type Rect struct {
	X, Y float32
	W, H float32
}

// FrameStats reports what the last submitted frame did.
type FrameStats struct {
	Primitives   int // Primitives in the batch
	Submissions  int // Draw submissions issued for the batch
	TextureBinds int // Texture binds issued for the batch
	Dropped      int // Draws rejected because the batch was full
}
