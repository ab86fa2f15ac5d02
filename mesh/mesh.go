// Package mesh holds static geometry that is uploaded to the GPU lazily on
// its first draw.
package mesh

import (
	"errors"
	"fmt"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/go-theft-auto/vgl"
	"github.com/go-theft-auto/vgl/meshio"
)

// ErrUpload is returned when the renderer could not create the vertex buffer.
var ErrUpload = errors.New("mesh: vertex buffer upload failed")

// Renderer is the part of the Context a mesh draws through.
type Renderer interface {
	CreateVBOWithVertexData(data []vgl.MeshVertex) vgl.Buffer
	CreateIBOWithIndexData(indices []uint32) vgl.Buffer
	DestroyBuffer(b vgl.Buffer)
	BindTexture(t vgl.Texture)
	DrawFromVBOTranslation(vbo vgl.Buffer, count int32, pos, rotDeg, scale mgl32.Vec3) error
	DrawFromVBOTranslationIndices(vbo, ibo vgl.Buffer, indexCount int32, pos, rotDeg, scale mgl32.Vec3) error
}

// Mesh is triangle geometry with an optional index list and texture.
type Mesh struct {
	Vertices []vgl.MeshVertex
	Indices  []uint32
	Texture  vgl.Texture

	// FreeAfterUpload drops Vertices once they are on the GPU. Later
	// changes can then no longer be uploaded.
	FreeAfterUpload bool

	vbo, ibo    vgl.Buffer
	vertexCount int32 // Counts as uploaded, not as currently held
	indexCount  int32
	dirty       bool
	freed       bool
}

// New returns an empty mesh.
func New() *Mesh {
	return &Mesh{}
}

// InitWithVertices replaces the vertices and marks the mesh for upload.
func (m *Mesh) InitWithVertices(verts []vgl.MeshVertex) *Mesh {
	m.Vertices = verts
	m.freed = false
	m.dirty = true
	return m
}

// InitWithDefaultCube fills the mesh with a unit cube, 36 vertices.
func (m *Mesh) InitWithDefaultCube() *Mesh {
	m.Indices = nil
	return m.InitWithVertices(Cube())
}

// SetIndices sets the index list. An empty list draws non-indexed.
func (m *Mesh) SetIndices(indices []uint32) {
	m.Indices = indices
	m.dirty = true
}

// SetTexture sets the texture bound while drawing.
func (m *Mesh) SetTexture(t vgl.Texture) { m.Texture = t }

// MarkDirty schedules an upload on the next draw.
func (m *Mesh) MarkDirty() { m.dirty = true }

// Dirty reports whether the next draw uploads.
func (m *Mesh) Dirty() bool { return m.dirty }

// Handle returns the vertex buffer, 0 before the first upload.
func (m *Mesh) Handle() vgl.Buffer { return m.vbo }

// LoadFile replaces the geometry with the first mesh of a glTF file.
func (m *Mesh) LoadFile(path string) error {
	meshes, err := meshio.ParseMeshFile(path)
	if err != nil {
		return fmt.Errorf("mesh: load %s: %w", path, err)
	}
	if len(meshes) > 1 {
		vgl.Logger().Debug("mesh: file has several meshes, using the first", "path", path, "count", len(meshes))
	}
	md := meshes[0]
	m.InitWithVertices(Interleave(md.Positions, md.TexCoords))
	m.SetIndices(md.Indices)
	return nil
}

// Interleave zips positions and texture coordinates. Missing texture
// coordinates are zero.
func Interleave(pos [][3]float32, uv [][2]float32) []vgl.MeshVertex {
	verts := make([]vgl.MeshVertex, len(pos))
	for i, p := range pos {
		verts[i].Pos = p
		if i < len(uv) {
			verts[i].TexCoord = uv[i]
		}
	}
	return verts
}

// upload sends the geometry to the GPU when it has no buffer yet or is
// dirty. Once freed, dirty is ignored.
func (m *Mesh) upload(r Renderer) error {
	if m.vbo != 0 && (!m.dirty || m.freed) {
		return nil
	}
	if len(m.Vertices) == 0 {
		// Emptied since the last upload: stop drawing the old geometry.
		m.release(r)
		m.dirty = false
		return nil
	}

	m.release(r)
	m.vbo = r.CreateVBOWithVertexData(m.Vertices)
	if m.vbo == 0 {
		return ErrUpload
	}
	if len(m.Indices) > 0 {
		m.ibo = r.CreateIBOWithIndexData(m.Indices)
		if m.ibo != 0 {
			m.indexCount = int32(len(m.Indices))
		}
	}
	m.vertexCount = int32(len(m.Vertices))
	m.dirty = false

	if m.FreeAfterUpload {
		m.Vertices = nil
		m.freed = true
	}
	return nil
}

// Draw draws the mesh untransformed.
func (m *Mesh) Draw(r Renderer) error {
	return m.DrawTranslate(r, mgl32.Vec3{}, mgl32.Vec3{}, mgl32.Vec3{1, 1, 1})
}

// DrawTranslate draws the mesh with a model transform. Rotation is in
// degrees.
func (m *Mesh) DrawTranslate(r Renderer, pos, rotDeg, scale mgl32.Vec3) error {
	if err := m.upload(r); err != nil {
		return err
	}
	if m.vbo == 0 {
		return nil
	}
	r.BindTexture(m.Texture)
	if m.ibo != 0 {
		return r.DrawFromVBOTranslationIndices(m.vbo, m.ibo, m.indexCount, pos, rotDeg, scale)
	}
	return r.DrawFromVBOTranslation(m.vbo, m.vertexCount, pos, rotDeg, scale)
}

// Destroy frees the GPU buffers and the CPU data.
func (m *Mesh) Destroy(r Renderer) {
	m.release(r)
	m.Vertices = nil
	m.Indices = nil
	m.dirty = false
	m.freed = false
}

func (m *Mesh) release(r Renderer) {
	if m.vbo != 0 {
		r.DestroyBuffer(m.vbo)
		m.vbo = 0
	}
	if m.ibo != 0 {
		r.DestroyBuffer(m.ibo)
		m.ibo = 0
	}
	m.vertexCount, m.indexCount = 0, 0
}
