package vgl_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/go-theft-auto/vgl"
	"github.com/go-theft-auto/vgl/imageio"
)

func newImage(w, h int) *imageio.Image {
	return &imageio.Image{Pix: make([]byte, w*h*4), Width: w, Height: h, Channels: 4}
}

func TestInitBackend(t *testing.T) {
	ctx, dev, plat := newTestContext(t, vgl.WithCapacity(4))

	if !ctx.Running() {
		t.Error("expected Running after InitBackend")
	}
	if plat.opened != 1 {
		t.Errorf("expected window opened once, got %d", plat.opened)
	}
	if want := "AllocVertexBuffer 576"; !contains(dev.calls, want) {
		t.Errorf("expected %q in %v", want, dev.calls)
	}
	w, h := ctx.Size()
	if w != 960 || h != 544 {
		t.Errorf("expected 960x544, got %dx%d", w, h)
	}

	// A second call is a no-op.
	if err := ctx.InitBackend(); err != nil {
		t.Fatalf("second InitBackend: %v", err)
	}
	if plat.opened != 1 || dev.programs != 1 {
		t.Errorf("second InitBackend reinitialized: opened=%d programs=%d", plat.opened, dev.programs)
	}
}

func TestInitBackend_DeviceFailure(t *testing.T) {
	initErr := errors.New("no context")
	dev, plat := newFakeDevice(), &fakePlatform{}
	dev.initErr = initErr
	ctx := vgl.New(vgl.Backend{Name: "fake", Device: dev, Platform: plat, Shaders: testShaders}, vgl.WithLogger(quietLogger()))

	err := ctx.InitBackend()
	if !errors.Is(err, initErr) {
		t.Fatalf("expected wrapped init error, got %v", err)
	}
	if plat.closed != 1 {
		t.Errorf("expected window closed after failure, got %d", plat.closed)
	}
	if ctx.Running() {
		t.Error("failed context should not be running")
	}
	if err := ctx.End(); !errors.Is(err, vgl.ErrNotInitialized) {
		t.Errorf("expected ErrNotInitialized, got %v", err)
	}
}

func TestInitBackend_CompileFailure(t *testing.T) {
	compileErr := errors.New("0:3: syntax error")
	dev, plat := newFakeDevice(), &fakePlatform{}
	dev.compileErr = compileErr
	ctx := vgl.New(vgl.Backend{Name: "fake", Device: dev, Platform: plat, Shaders: testShaders}, vgl.WithLogger(quietLogger()))

	err := ctx.InitBackend()
	if !errors.Is(err, compileErr) {
		t.Fatalf("expected wrapped compile error, got %v", err)
	}
	if plat.closed != 1 {
		t.Errorf("expected window closed after compile failure, got %d", plat.closed)
	}
	if ctx.Running() {
		t.Error("context running after compile failure")
	}
	if count(dev.calls, "AllocVertexBuffer") != 0 {
		t.Error("batch buffer allocated after compile failure")
	}
	if ctx.DrawRect(0, 0, 1, 1, vgl.ColorWhite, nil) {
		t.Error("draw accepted after compile failure")
	}
}

func TestInitBackend_NoBackend(t *testing.T) {
	ctx := vgl.New(vgl.Backend{Name: "empty"}, vgl.WithLogger(quietLogger()))
	if err := ctx.InitBackend(); !errors.Is(err, vgl.ErrNoBackend) {
		t.Errorf("expected ErrNoBackend, got %v", err)
	}
}

func TestInitBackend_ShaderFiles(t *testing.T) {
	dir := t.TempDir()
	vs := filepath.Join(dir, "quad.vert")
	fs := filepath.Join(dir, "quad.frag")
	if err := os.WriteFile(vs, []byte("void main() {}"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(fs, []byte("void main() {}"), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg := vgl.DefaultConfig()
	cfg.Shaders = vgl.ShaderConfig{Vertex: vs, Fragment: fs}
	dev, plat := newFakeDevice(), &fakePlatform{}
	// No built-in sources: compiling succeeds only if the files were read.
	ctx := vgl.New(vgl.Backend{Name: "fake", Device: dev, Platform: plat}, vgl.WithConfig(cfg), vgl.WithLogger(quietLogger()))
	if err := ctx.InitBackend(); err != nil {
		t.Fatalf("InitBackend: %v", err)
	}

	cfg.Shaders.Fragment = filepath.Join(dir, "missing.frag")
	dev, plat = newFakeDevice(), &fakePlatform{}
	ctx = vgl.New(vgl.Backend{Name: "fake", Device: dev, Platform: plat}, vgl.WithConfig(cfg), vgl.WithLogger(quietLogger()))
	if err := ctx.InitBackend(); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("expected os.ErrNotExist, got %v", err)
	}
	if plat.closed != 1 {
		t.Errorf("expected window closed after shader failure, got %d", plat.closed)
	}
}

func TestFrame_SubmitsBatch(t *testing.T) {
	ctx, dev, plat := newTestContext(t, vgl.WithCapacity(4))

	ctx.Begin()
	ctx.Clear()
	for i := 0; i < 4; i++ {
		if !ctx.DrawRect(float32(i*10), 0, 8, 8, vgl.ColorRed, nil) {
			t.Fatalf("DrawRect %d rejected", i)
		}
	}
	if ctx.DrawRect(50, 0, 8, 8, vgl.ColorRed, nil) {
		t.Error("expected the fifth draw to be dropped")
	}
	if err := ctx.End(); err != nil {
		t.Fatalf("End: %v", err)
	}

	stats := ctx.Stats()
	if stats.Primitives != 4 || stats.Submissions != 4 || stats.Dropped != 1 {
		t.Errorf("unexpected stats %+v", stats)
	}
	if len(dev.uploaded) != 16 {
		t.Errorf("expected one upload of 16 vertices, got %d", len(dev.uploaded))
	}
	if len(dev.draws) != 4 {
		t.Fatalf("expected 4 draws, got %d", len(dev.draws))
	}
	for i, d := range dev.draws {
		if d.mode != vgl.TriangleStrip || d.first != int32(i*4) || d.count != 4 {
			t.Errorf("draw %d: got mode=%d first=%d count=%d", i, d.mode, d.first, d.count)
		}
		if d.attribOn != 3 {
			t.Errorf("draw %d: expected 3 attributes enabled, got %d", i, d.attribOn)
		}
		want := mgl32.Translate3D(float32(i*10), 0, 0)
		if !d.model.ApproxEqual(want) {
			t.Errorf("draw %d: model %v, want %v", i, d.model, want)
		}
	}
	if n := dev.enabledAttribs(); n != 0 {
		t.Errorf("expected attributes disabled after submission, %d still enabled", n)
	}
	if last := dev.calls[len(dev.calls)-1]; last != "BindVertexBuffer 0" {
		t.Errorf("expected vertex buffer unbound last, got %q", last)
	}
	if plat.presents != 1 || plat.polls != 1 {
		t.Errorf("expected one present and one poll, got %d/%d", plat.presents, plat.polls)
	}
	if ctx.Batch().Len() != 0 {
		t.Errorf("expected batch empty after End, got %d", ctx.Batch().Len())
	}
}

func TestFrame_EmptyBatchDrawsNothing(t *testing.T) {
	ctx, dev, plat := newTestContext(t)

	ctx.Begin()
	ctx.Clear()
	if err := ctx.End(); err != nil {
		t.Fatal(err)
	}
	if len(dev.draws) != 0 || dev.uploaded != nil {
		t.Errorf("empty frame submitted: draws=%d uploaded=%d", len(dev.draws), len(dev.uploaded))
	}
	if plat.presents != 1 {
		t.Errorf("empty frame should still present, got %d", plat.presents)
	}
}

func TestTextureBindsOnlyOnChange(t *testing.T) {
	ctx, dev, _ := newTestContext(t)
	a := ctx.CreateTexture(newImage(2, 2))
	b := ctx.CreateTexture(newImage(2, 2))
	if a == 0 || b == 0 || a == b {
		t.Fatalf("bad texture handles %d, %d", a, b)
	}

	ctx.Begin()
	for _, tex := range []vgl.Texture{a, a, b, b, a} {
		ctx.DrawTexture(0, 0, 4, 4, tex, 2, 2, vgl.Rect{}, vgl.ColorWhite, nil)
	}
	dev.textureBinds = nil
	if err := ctx.End(); err != nil {
		t.Fatal(err)
	}

	if got := ctx.Stats().TextureBinds; got != 3 {
		t.Errorf("expected 3 texture binds, got %d", got)
	}
	// A, B, A, then the unbind at the end of the submission.
	want := []vgl.Texture{a, b, a, 0}
	if len(dev.textureBinds) != len(want) {
		t.Fatalf("binds %v, want %v", dev.textureBinds, want)
	}
	for i := range want {
		if dev.textureBinds[i] != want[i] {
			t.Errorf("bind %d: got %d, want %d", i, dev.textureBinds[i], want[i])
		}
	}
	for i, d := range dev.draws {
		if d.texture == 0 {
			t.Errorf("draw %d rendered untextured", i)
		}
	}
}

func TestExtraDataTexture(t *testing.T) {
	ctx, dev, _ := newTestContext(t)
	tex := ctx.CreateTexture(newImage(1, 1))

	ctx.Begin()
	extra := &vgl.ExtraData{Texture: tex, PivotX: 4, PivotY: 4, RotZ: 90}
	ctx.DrawRect(2, 2, 4, 4, vgl.ColorWhite, extra)
	if err := ctx.End(); err != nil {
		t.Fatal(err)
	}

	if len(dev.draws) != 1 {
		t.Fatalf("expected 1 draw, got %d", len(dev.draws))
	}
	d := dev.draws[0]
	if d.texture != tex {
		t.Errorf("expected ExtraData texture %d, got %d", tex, d.texture)
	}
	want := vgl.PrimitiveModel2D(mgl32.Vec3{2, 2, 0}, extra)
	if !d.model.ApproxEqual(want) {
		t.Errorf("model %v, want %v", d.model, want)
	}
}

func TestDrawTextureSourceRect(t *testing.T) {
	ctx, _, _ := newTestContext(t)
	ctx.Begin()
	ctx.DrawTexture(0, 0, 16, 16, 0, 64, 32, vgl.Rect{X: 16, Y: 8, W: 16, H: 8}, vgl.ColorWhite, nil)

	call, _ := ctx.Batch().At(0)
	// Bottom-left vertex samples (s0, t1), top-right samples (s1, t0).
	bl, tr := call.Verts[0].TexCoord, call.Verts[3].TexCoord
	if bl != [2]float32{0.25, 0.5} || tr != [2]float32{0.5, 0.25} {
		t.Errorf("unexpected texcoords bl=%v tr=%v", bl, tr)
	}
	if call.Verts[3].Pos != [3]float32{16, 16, 0} {
		t.Errorf("unexpected top-right position %v", call.Verts[3].Pos)
	}
}

func TestFlushAccumulatesFrameStats(t *testing.T) {
	ctx, dev, plat := newTestContext(t)

	ctx.Begin()
	ctx.DrawRect(0, 0, 1, 1, vgl.ColorWhite, nil)
	ctx.DrawRect(1, 0, 1, 1, vgl.ColorWhite, nil)
	if err := ctx.Flush(); err != nil {
		t.Fatal(err)
	}
	if plat.presents != 0 {
		t.Error("Flush must not present")
	}
	ctx.DrawRect(2, 0, 1, 1, vgl.ColorWhite, nil)
	if err := ctx.End(); err != nil {
		t.Fatal(err)
	}

	if got := ctx.Stats().Primitives; got != 3 {
		t.Errorf("expected 3 primitives in the frame, got %d", got)
	}
	if len(dev.draws) != 3 || dev.draws[2].first != 0 {
		t.Errorf("expected the second batch to start at 0, draws=%+v", dev.draws)
	}

	// The next frame starts from zero.
	ctx.Begin()
	if err := ctx.End(); err != nil {
		t.Fatal(err)
	}
	if got := ctx.Stats().Primitives; got != 0 {
		t.Errorf("expected stats reset, got %d", got)
	}
}

func TestDrawQuadUsesSelectedTexture(t *testing.T) {
	ctx, _, _ := newTestContext(t)
	tex := ctx.CreateTexture(newImage(1, 1))

	ctx.Begin()
	ctx.BindTexture(tex)
	ctx.DrawQuad(0, 0, 1, mgl32.Vec3{}, mgl32.Vec3{1, 1, 1}, vgl.ColorWhite)
	ctx.BindTexture(0)
	ctx.DrawQuad(0, 0, 1, mgl32.Vec3{}, mgl32.Vec3{1, 1, 1}, vgl.ColorWhite)

	_, first := ctx.Batch().At(0)
	_, second := ctx.Batch().At(1)
	if first.Texture != tex || second.Texture != 0 {
		t.Errorf("expected textures %d and 0, got %d and %d", tex, first.Texture, second.Texture)
	}
}

func TestDrawFromVBOIndexed(t *testing.T) {
	ctx, dev, _ := newTestContext(t)
	tex := ctx.CreateTexture(newImage(1, 1))
	vbo := ctx.CreateVBOWithVertexData(make([]vgl.MeshVertex, 4))
	ibo := ctx.CreateIBOWithIndexData([]uint32{0, 1, 2, 2, 1, 3})
	if vbo == 0 || ibo == 0 {
		t.Fatalf("buffer creation failed: vbo=%d ibo=%d", vbo, ibo)
	}

	ctx.Begin()
	ctx.BindTexture(tex)
	pos := mgl32.Vec3{1, 2, 3}
	if err := ctx.DrawFromVBOTranslationIndices(vbo, ibo, 6, pos, mgl32.Vec3{}, mgl32.Vec3{1, 1, 1}); err != nil {
		t.Fatal(err)
	}

	if len(dev.draws) != 1 {
		t.Fatalf("expected an immediate draw, got %d", len(dev.draws))
	}
	d := dev.draws[0]
	if !d.indexed || d.mode != vgl.Triangles || d.count != 6 {
		t.Errorf("unexpected draw %+v", d)
	}
	if d.texture != tex {
		t.Errorf("expected selected texture %d, got %d", tex, d.texture)
	}
	if d.attribOn != 2 {
		t.Errorf("expected position and texcoord enabled, got %d", d.attribOn)
	}
	if c := dev.constants[vgl.ColorLocation]; c != [4]float32(vgl.ColorWhite) {
		t.Errorf("expected constant white color, got %v", c)
	}
	if !d.model.ApproxEqual(mgl32.Translate3D(1, 2, 3)) {
		t.Errorf("unexpected model %v", d.model)
	}
	if n := dev.enabledAttribs(); n != 0 {
		t.Errorf("expected attributes disabled after draw, %d enabled", n)
	}

	if err := ctx.DrawFromVBO(0, 6); err != nil {
		t.Errorf("zero buffer should be ignored, got %v", err)
	}
	if len(dev.draws) != 1 {
		t.Errorf("zero buffer drew")
	}
}

func TestCameraSurvivesProjectionSwitch(t *testing.T) {
	ctx, _, _ := newTestContext(t)
	pos, rot := mgl32.Vec3{1, 2, -5}, mgl32.Vec3{0, 30, 0}
	ctx.SetCamera(pos, rot)
	view, proj := ctx.View(), ctx.Projection()

	ctx.SetProjectionType(vgl.ProjectionOrthographic)

	gotPos, gotRot := ctx.Camera()
	if gotPos != pos || gotRot != rot {
		t.Errorf("camera moved: %v %v", gotPos, gotRot)
	}
	if ctx.View() != view {
		t.Error("view changed on projection switch")
	}
	if ctx.Projection() == proj {
		t.Error("projection unchanged after switch")
	}
	if ctx.ProjectionType() != vgl.ProjectionOrthographic {
		t.Errorf("expected orthographic, got %v", ctx.ProjectionType())
	}
}

func TestResize(t *testing.T) {
	ctx, dev, _ := newTestContext(t, vgl.WithProjection(vgl.ProjectionOrthographic))
	ctx.Resize(200, 100)

	if w, h := ctx.Size(); w != 200 || h != 100 {
		t.Errorf("expected 200x100, got %dx%d", w, h)
	}
	if !contains(dev.calls, "SetViewport 200x100") {
		t.Errorf("viewport not updated: %v", dev.calls)
	}
	if p := ctx.Projection(); p[0] != 2.0/200 || p[5] != 2.0/100 {
		t.Errorf("unexpected ortho scale %v %v", p[0], p[5])
	}
	px, err := ctx.ReadPixels()
	if err != nil || len(px) != 200*100*4 {
		t.Errorf("ReadPixels: len=%d err=%v", len(px), err)
	}
}

func TestRunningFollowsWindow(t *testing.T) {
	ctx, _, plat := newTestContext(t)

	ctx.Begin()
	if !ctx.Running() {
		t.Fatal("expected running")
	}
	plat.close = true
	ctx.Begin()
	if ctx.Running() {
		t.Error("expected Running false once the window asks to close")
	}

	ctx2, _, _ := newTestContext(t)
	ctx2.Quit()
	if ctx2.Running() {
		t.Error("expected Running false after Quit")
	}
}

func TestUninitializedContext(t *testing.T) {
	dev, plat := newFakeDevice(), &fakePlatform{}
	ctx := vgl.New(vgl.Backend{Name: "fake", Device: dev, Platform: plat, Shaders: testShaders}, vgl.WithLogger(quietLogger()))

	if ctx.DrawRect(0, 0, 1, 1, vgl.ColorWhite, nil) {
		t.Error("draw accepted before InitBackend")
	}
	if err := ctx.End(); !errors.Is(err, vgl.ErrNotInitialized) {
		t.Errorf("End: expected ErrNotInitialized, got %v", err)
	}
	if err := ctx.Flush(); !errors.Is(err, vgl.ErrNotInitialized) {
		t.Errorf("Flush: expected ErrNotInitialized, got %v", err)
	}
	if _, err := ctx.ReadPixels(); !errors.Is(err, vgl.ErrNotInitialized) {
		t.Errorf("ReadPixels: expected ErrNotInitialized, got %v", err)
	}
	if tex := ctx.CreateTexture(newImage(1, 1)); tex != 0 {
		t.Errorf("expected no texture, got %d", tex)
	}

	ctx.DestroyBackend()
	if plat.closed != 0 || dev.released != 0 {
		t.Error("teardown of an uninitialized context touched the backend")
	}
	if err := ctx.InitBackend(); !errors.Is(err, vgl.ErrTornDown) {
		t.Errorf("expected ErrTornDown, got %v", err)
	}
}

func TestDestroyBackendIdempotent(t *testing.T) {
	ctx, dev, plat := newTestContext(t)
	tex := ctx.CreateTexture(newImage(1, 1))
	ctx.CreateVBOWithVertexData(make([]vgl.MeshVertex, 3))

	ctx.DestroyBackend()
	ctx.DestroyBackend()

	if plat.closed != 1 || dev.released != 1 {
		t.Errorf("expected one close and release, got %d/%d", plat.closed, dev.released)
	}
	if dev.programs != 0 {
		t.Errorf("program not deleted")
	}
	if len(dev.buffers) != 0 || len(dev.textures) != 0 {
		t.Errorf("leaked buffers=%v textures=%v", dev.buffers, dev.textures)
	}
	if ctx.Running() {
		t.Error("torn down context still running")
	}
	if err := ctx.End(); !errors.Is(err, vgl.ErrTornDown) {
		t.Errorf("expected ErrTornDown, got %v", err)
	}
	ctx.DestroyTexture(tex)

	ctx.DestroySelf()
	ctx.DestroySelf()
	if ctx.Batch() != nil {
		t.Error("DestroySelf kept the batch")
	}
	if ctx.DrawRect(0, 0, 1, 1, vgl.ColorWhite, nil) {
		t.Error("draw accepted after DestroySelf")
	}
}

func TestDestroyResources(t *testing.T) {
	ctx, dev, _ := newTestContext(t)
	tex := ctx.CreateTexture(newImage(1, 1))
	vbo := ctx.CreateVBOWithVertexData(make([]vgl.MeshVertex, 3))
	ctx.BindTexture(tex)

	ctx.DestroyTexture(tex)
	ctx.DestroyTexture(tex)
	ctx.DestroyTexture(999)
	ctx.DestroyBuffer(vbo)
	ctx.DestroyBuffer(999)

	if dev.textures[tex] || dev.buffers[vbo] {
		t.Error("resources not deleted")
	}
	if n := count(dev.calls, "DeleteTexture"); n != 1 {
		t.Errorf("expected one texture delete, got %d", n)
	}
	if ctx.SelectedTexture() != 0 {
		t.Errorf("destroyed texture still selected")
	}
}

func TestLoadTextureAt(t *testing.T) {
	ctx, dev, _ := newTestContext(t)
	if tex := ctx.LoadTextureAt(filepath.Join(t.TempDir(), "missing.png")); tex != 0 {
		t.Errorf("expected 0 for a missing file, got %d", tex)
	}
	if len(dev.textures) != 0 {
		t.Error("missing file created a texture")
	}
}

func contains(calls []string, want string) bool {
	return count(calls, want) > 0
}

// count returns how many calls start with prefix.
func count(calls []string, prefix string) int {
	n := 0
	for _, c := range calls {
		if len(c) >= len(prefix) && c[:len(prefix)] == prefix {
			n++
		}
	}
	return n
}
