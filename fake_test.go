package vgl_test

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"testing"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/go-theft-auto/vgl"
)

// fakeDevice records the calls a Context makes without touching a GPU.
type fakeDevice struct {
	initErr    error
	compileErr error

	nextID   uint32
	calls    []string
	uploaded []vgl.Vertex

	textureBinds []vgl.Texture
	draws        []drawArgs
	enabled      map[int32]bool
	constants    map[int32][4]float32
	ints         map[int32]int32
	mats         map[int32]mgl32.Mat4

	buffers  map[vgl.Buffer]bool
	textures map[vgl.Texture]bool
	programs int
	released int
}

type drawArgs struct {
	mode     vgl.PrimitiveMode
	indexed  bool
	first    int32
	count    int32
	texture  vgl.Texture
	model    mgl32.Mat4
	attribOn int // enabled attributes at draw time
}

func newFakeDevice() *fakeDevice {
	return &fakeDevice{
		nextID:    1,
		enabled:   make(map[int32]bool),
		constants: make(map[int32][4]float32),
		ints:      make(map[int32]int32),
		mats:      make(map[int32]mgl32.Mat4),
		buffers:   make(map[vgl.Buffer]bool),
		textures:  make(map[vgl.Texture]bool),
	}
}

// Locations used by the fake program.
const (
	locModel int32 = iota + 10
	locView
	locProjection
	locUseTexture
	locSampler
)

func (d *fakeDevice) record(format string, args ...any) {
	d.calls = append(d.calls, fmt.Sprintf(format, args...))
}

func (d *fakeDevice) id() uint32 {
	id := d.nextID
	d.nextID++
	return id
}

func (d *fakeDevice) Init(width, height int) error {
	d.record("Init %dx%d", width, height)
	return d.initErr
}

func (d *fakeDevice) Describe() map[string]string {
	return map[string]string{"gl_version": "fake"}
}

func (d *fakeDevice) CompileProgram(vs, fs string) (vgl.Program, error) {
	d.record("CompileProgram")
	if d.compileErr != nil {
		return vgl.Program{}, d.compileErr
	}
	if vs == "" || fs == "" {
		return vgl.Program{}, errors.New("empty shader source")
	}
	d.programs++
	return vgl.Program{
		ID: d.id(),
		Attribs: vgl.AttribLocations{
			Position: vgl.PositionLocation,
			TexCoord: vgl.TexCoordLocation,
			Color:    vgl.ColorLocation,
		},
		Uniforms: vgl.UniformLocations{
			Model:      locModel,
			View:       locView,
			Projection: locProjection,
			UseTexture: locUseTexture,
			Sampler:    locSampler,
		},
	}, nil
}

func (d *fakeDevice) DeleteProgram(p vgl.Program) {
	d.record("DeleteProgram %d", p.ID)
	d.programs--
}

func (d *fakeDevice) UseProgram(id uint32) { d.record("UseProgram %d", id) }

func (d *fakeDevice) AllocVertexBuffer(size int) vgl.Buffer {
	b := vgl.Buffer(d.id())
	d.buffers[b] = true
	d.record("AllocVertexBuffer %d", size)
	return b
}

func (d *fakeDevice) CreateVertexBuffer(data []vgl.MeshVertex) vgl.Buffer {
	b := vgl.Buffer(d.id())
	d.buffers[b] = true
	return b
}

func (d *fakeDevice) CreateIndexBuffer(indices []uint32) vgl.Buffer {
	b := vgl.Buffer(d.id())
	d.buffers[b] = true
	return b
}

func (d *fakeDevice) UpdateVertexBuffer(offset int, verts []vgl.Vertex) {
	d.record("UpdateVertexBuffer %d %d", offset, len(verts))
	d.uploaded = append([]vgl.Vertex(nil), verts...)
}

func (d *fakeDevice) BindVertexBuffer(b vgl.Buffer) { d.record("BindVertexBuffer %d", b) }
func (d *fakeDevice) BindIndexBuffer(b vgl.Buffer) { d.record("BindIndexBuffer %d", b) }

func (d *fakeDevice) DeleteBuffer(b vgl.Buffer) {
	d.record("DeleteBuffer %d", b)
	delete(d.buffers, b)
}

func (d *fakeDevice) EnableAttrib(loc, components, stride int32, offset int) {
	d.enabled[loc] = true
}

func (d *fakeDevice) DisableAttrib(loc int32) { d.enabled[loc] = false }

func (d *fakeDevice) ConstantAttrib(loc int32, v [4]float32) { d.constants[loc] = v }

func (d *fakeDevice) CreateTexture(rgba []byte, w, h int) vgl.Texture {
	t := vgl.Texture(d.id())
	d.textures[t] = true
	// Creation leaves the texture bound, as on a real device.
	d.textureBinds = append(d.textureBinds, t)
	return t
}

func (d *fakeDevice) BindTexture(t vgl.Texture) {
	d.textureBinds = append(d.textureBinds, t)
}

func (d *fakeDevice) DeleteTexture(t vgl.Texture) {
	d.record("DeleteTexture %d", t)
	delete(d.textures, t)
}

func (d *fakeDevice) SetInt(loc, v int32) { d.ints[loc] = v }
func (d *fakeDevice) SetMat4(loc int32, m mgl32.Mat4) { d.mats[loc] = m }

func (d *fakeDevice) DrawArrays(mode vgl.PrimitiveMode, first, count int32) {
	d.draws = append(d.draws, d.draw(mode, false, first, count))
}

func (d *fakeDevice) DrawIndexed(mode vgl.PrimitiveMode, count int32) {
	d.draws = append(d.draws, d.draw(mode, true, 0, count))
}

func (d *fakeDevice) draw(mode vgl.PrimitiveMode, indexed bool, first, count int32) drawArgs {
	var tex vgl.Texture
	if n := len(d.textureBinds); n > 0 {
		tex = d.textureBinds[n-1]
	}
	return drawArgs{mode: mode, indexed: indexed, first: first, count: count, texture: tex, model: d.mats[locModel], attribOn: d.enabledAttribs()}
}

func (d *fakeDevice) SetViewport(w, h int) { d.record("SetViewport %dx%d", w, h) }
func (d *fakeDevice) SetClearColor(c vgl.Color) { d.record("SetClearColor") }
func (d *fakeDevice) Clear() { d.record("Clear") }

func (d *fakeDevice) ReadPixels(w, h int) []byte {
	return make([]byte, w*h*4)
}

func (d *fakeDevice) CheckError() error { return nil }
func (d *fakeDevice) Release() { d.released++ }

// enabledAttribs returns how many attribute arrays are currently enabled.
func (d *fakeDevice) enabledAttribs() int {
	n := 0
	for _, v := range d.enabled {
		if v {
			n++
		}
	}
	return n
}

// fakePlatform is a window that is always open.
type fakePlatform struct {
	openErr  error
	width    int
	height   int
	close    bool
	opened   int
	presents int
	polls    int
	closed   int
}

func (p *fakePlatform) Open(cfg vgl.WindowConfig) error {
	if p.openErr != nil {
		return p.openErr
	}
	p.opened++
	if p.width == 0 {
		p.width, p.height = cfg.Width, cfg.Height
	}
	return nil
}

func (p *fakePlatform) ShouldClose() bool { return p.close }
func (p *fakePlatform) Present() { p.presents++ }
func (p *fakePlatform) PollEvents() { p.polls++ }
func (p *fakePlatform) FramebufferSize() (width, height int) { return p.width, p.height }
func (p *fakePlatform) Close() { p.closed++ }

var testShaders = vgl.ShaderSources{Vertex: "void main() {}", Fragment: "void main() {}"}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// newTestContext returns an initialized Context over fakes.
func newTestContext(t testing.TB, opts ...vgl.Option) (*vgl.Context, *fakeDevice, *fakePlatform) {
	t.Helper()
	dev, plat := newFakeDevice(), &fakePlatform{}
	opts = append([]vgl.Option{vgl.WithLogger(quietLogger())}, opts...)
	ctx := vgl.New(vgl.Backend{Name: "fake", Device: dev, Platform: plat, Shaders: testShaders}, opts...)
	if err := ctx.InitBackend(); err != nil {
		t.Fatalf("InitBackend: %v", err)
	}
	return ctx, dev, plat
}
