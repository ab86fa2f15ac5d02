package mesh_test

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"

	"github.com/go-theft-auto/vgl"
	"github.com/go-theft-auto/vgl/mesh"
)

// mockRenderer records the calls a mesh makes.
type mockRenderer struct {
	fail      bool
	next      vgl.Buffer
	vbos      int
	ibos      int
	destroyed []vgl.Buffer
	bound     vgl.Texture
	draws     int
	indexed   int
	lastCount int32
	lastPos   mgl32.Vec3
}

func (r *mockRenderer) CreateVBOWithVertexData(data []vgl.MeshVertex) vgl.Buffer {
	if r.fail {
		return 0
	}
	r.vbos++
	r.next++
	return r.next
}

func (r *mockRenderer) CreateIBOWithIndexData(indices []uint32) vgl.Buffer {
	r.ibos++
	r.next++
	return r.next
}

func (r *mockRenderer) DestroyBuffer(b vgl.Buffer) { r.destroyed = append(r.destroyed, b) }

func (r *mockRenderer) BindTexture(t vgl.Texture) { r.bound = t }

func (r *mockRenderer) DrawFromVBOTranslation(vbo vgl.Buffer, count int32, pos, rot, scale mgl32.Vec3) error {
	r.draws++
	r.lastCount = count
	r.lastPos = pos
	return nil
}

func (r *mockRenderer) DrawFromVBOTranslationIndices(vbo, ibo vgl.Buffer, n int32, pos, rot, scale mgl32.Vec3) error {
	r.draws++
	r.indexed++
	r.lastCount = n
	r.lastPos = pos
	return nil
}

func TestLazyUpload(t *testing.T) {
	r := &mockRenderer{}
	m := mesh.New().InitWithDefaultCube()

	if m.Handle() != 0 {
		t.Fatal("expected no handle before the first draw")
	}

	for i := 0; i < 3; i++ {
		if err := m.Draw(r); err != nil {
			t.Fatalf("Draw: %v", err)
		}
	}
	if r.vbos != 1 {
		t.Errorf("expected 1 upload over 3 draws, got %d", r.vbos)
	}
	if r.draws != 3 {
		t.Errorf("expected 3 draws, got %d", r.draws)
	}
	if r.lastCount != 36 {
		t.Errorf("expected 36 vertices, got %d", r.lastCount)
	}
	if m.Handle() == 0 {
		t.Error("expected a handle after the first draw")
	}
}

func TestFreeAfterUploadIgnoresDirty(t *testing.T) {
	r := &mockRenderer{}
	m := mesh.New().InitWithDefaultCube()
	m.FreeAfterUpload = true

	if err := m.Draw(r); err != nil {
		t.Fatalf("Draw: %v", err)
	}
	if m.Vertices != nil {
		t.Error("expected CPU vertices to be freed")
	}

	m.MarkDirty()
	if err := m.Draw(r); err != nil {
		t.Fatalf("second Draw: %v", err)
	}
	if r.vbos != 1 {
		t.Errorf("expected no re-upload after free, got %d uploads", r.vbos)
	}
	if r.lastCount != 36 {
		t.Errorf("expected stored vertex count 36, got %d", r.lastCount)
	}
}

func TestDirtyReuploadReleasesOldBuffers(t *testing.T) {
	r := &mockRenderer{}
	m := mesh.New().InitWithDefaultCube()
	m.SetIndices([]uint32{0, 1, 2})

	_ = m.Draw(r)
	first := m.Handle()

	m.MarkDirty()
	_ = m.Draw(r)

	if r.vbos != 2 || r.ibos != 2 {
		t.Fatalf("expected 2 vertex and 2 index uploads, got %d and %d", r.vbos, r.ibos)
	}
	if len(r.destroyed) != 2 || r.destroyed[0] != first {
		t.Errorf("expected old buffers destroyed, got %v", r.destroyed)
	}
	if r.indexed != 2 || r.lastCount != 3 {
		t.Errorf("expected indexed draws of 3, got %d draws of %d", r.indexed, r.lastCount)
	}
}

func TestIndexCountFollowsUpload(t *testing.T) {
	r := &mockRenderer{}
	m := mesh.New().InitWithDefaultCube()
	m.SetIndices([]uint32{0, 1, 2})
	m.FreeAfterUpload = true
	if err := m.Draw(r); err != nil {
		t.Fatalf("Draw: %v", err)
	}

	// The vertices are gone, so the new indices cannot be uploaded.
	m.SetIndices(make([]uint32, 300))
	if err := m.Draw(r); err != nil {
		t.Fatalf("second Draw: %v", err)
	}
	if r.ibos != 1 {
		t.Errorf("expected 1 index upload, got %d", r.ibos)
	}
	if r.lastCount != 3 {
		t.Errorf("expected the uploaded 3 indices drawn, got %d", r.lastCount)
	}
}

func TestEmptiedMeshReleasesBuffers(t *testing.T) {
	r := &mockRenderer{}
	m := mesh.New().InitWithDefaultCube()
	if err := m.Draw(r); err != nil {
		t.Fatalf("Draw: %v", err)
	}
	first := m.Handle()

	m.InitWithVertices(nil)
	if err := m.Draw(r); err != nil {
		t.Fatalf("Draw: %v", err)
	}
	if m.Handle() != 0 {
		t.Error("expected the old buffer released")
	}
	if len(r.destroyed) != 1 || r.destroyed[0] != first {
		t.Errorf("expected buffer %d destroyed, got %v", first, r.destroyed)
	}
	if r.draws != 1 {
		t.Errorf("expected the stale geometry not drawn, got %d draws", r.draws)
	}
}

func TestDrawBindsTexture(t *testing.T) {
	r := &mockRenderer{}
	m := mesh.New().InitWithDefaultCube()
	m.SetTexture(7)

	pos := mgl32.Vec3{1, 2, 3}
	if err := m.DrawTranslate(r, pos, mgl32.Vec3{}, mgl32.Vec3{1, 1, 1}); err != nil {
		t.Fatalf("DrawTranslate: %v", err)
	}
	if r.bound != 7 {
		t.Errorf("expected texture 7 bound, got %d", r.bound)
	}
	if r.lastPos != pos {
		t.Errorf("expected pos %v, got %v", pos, r.lastPos)
	}
}

func TestEmptyMeshDrawsNothing(t *testing.T) {
	r := &mockRenderer{}
	if err := mesh.New().Draw(r); err != nil {
		t.Fatalf("Draw: %v", err)
	}
	if r.vbos != 0 || r.draws != 0 {
		t.Errorf("expected no GPU calls, got %d uploads and %d draws", r.vbos, r.draws)
	}
}

func TestDestroy(t *testing.T) {
	r := &mockRenderer{}
	m := mesh.New().InitWithDefaultCube()
	_ = m.Draw(r)
	m.Destroy(r)

	if m.Handle() != 0 {
		t.Error("expected handle cleared after Destroy")
	}
	if len(r.destroyed) != 1 {
		t.Errorf("expected 1 buffer destroyed, got %d", len(r.destroyed))
	}
	// Destroyed meshes have nothing left to draw.
	if err := m.Draw(r); err != nil {
		t.Errorf("Draw after Destroy: %v", err)
	}
	if r.draws != 1 {
		t.Errorf("expected no draw after Destroy, got %d total", r.draws)
	}
}

func TestUploadFailure(t *testing.T) {
	r := &mockRenderer{fail: true}
	m := mesh.New().InitWithDefaultCube()
	m.FreeAfterUpload = true

	if err := m.Draw(r); !errors.Is(err, mesh.ErrUpload) {
		t.Fatalf("expected ErrUpload, got %v", err)
	}
	if m.Vertices == nil {
		t.Error("vertices must survive a failed upload")
	}
	if r.draws != 0 {
		t.Errorf("expected no draw, got %d", r.draws)
	}
}

func TestLoadFile(t *testing.T) {
	doc := gltf.NewDocument()
	pos := modeler.WritePosition(doc, [][3]float32{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}})
	doc.Meshes = []*gltf.Mesh{
		{Name: "tri", Primitives: []*gltf.Primitive{{Attributes: map[string]int{gltf.POSITION: pos}}}},
		{Name: "second", Primitives: []*gltf.Primitive{{Attributes: map[string]int{gltf.POSITION: pos}}}},
	}
	path := filepath.Join(t.TempDir(), "tri.glb")
	if err := gltf.SaveBinary(doc, path); err != nil {
		t.Fatalf("SaveBinary: %v", err)
	}

	m := mesh.New()
	if err := m.LoadFile(path); err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if len(m.Vertices) != 3 {
		t.Fatalf("expected 3 vertices, got %d", len(m.Vertices))
	}
	if m.Vertices[1].Pos != [3]float32{1, 0, 0} {
		t.Errorf("vertex 1 = %v", m.Vertices[1].Pos)
	}
	if len(m.Indices) != 0 {
		t.Errorf("expected no indices, got %d", len(m.Indices))
	}

	r := &mockRenderer{}
	_ = m.Draw(r)
	if r.indexed != 0 || r.lastCount != 3 {
		t.Errorf("expected non-indexed draw of 3, got indexed=%d count=%d", r.indexed, r.lastCount)
	}
}

func TestLoadFileMissing(t *testing.T) {
	err := mesh.New().LoadFile(filepath.Join(t.TempDir(), "missing.glb"))
	if err == nil {
		t.Fatal("expected error")
	}
}

func TestCube(t *testing.T) {
	verts := mesh.Cube()
	if len(verts) != 36 {
		t.Fatalf("expected 36 vertices, got %d", len(verts))
	}
	for i, v := range verts {
		for _, c := range v.Pos {
			if c != 0.5 && c != -0.5 {
				t.Fatalf("vertex %d off the unit cube: %v", i, v.Pos)
			}
		}
	}
}
