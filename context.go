package vgl

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/go-gl/mathgl/mgl32"
)

// Sentinel errors.
var (
	ErrNotInitialized = errors.New("vgl: backend not initialized")
	ErrTornDown       = errors.New("vgl: context torn down")
	ErrNoBackend      = errors.New("vgl: backend has no device or platform")
)

type lifecycle int

const (
	stateUninitialized lifecycle = iota
	stateReady                   // Backend initialized, no frame open
	stateFrame                   // Between Begin and End
	stateTornDown
)

func (s lifecycle) String() string {
	switch s {
	case stateUninitialized:
		return "uninitialized"
	case stateReady:
		return "ready"
	case stateFrame:
		return "frame"
	case stateTornDown:
		return "torn down"
	}
	return fmt.Sprintf("lifecycle(%d)", int(s))
}

// Context is the renderer. It owns the batch, the default program, the
// camera and every GPU resource it creates.
//
// A Context is not safe for concurrent use; call it from the thread that
// owns the graphics context.
type Context struct {
	backend Backend
	dev     Device
	cfg     Config
	logger  *slog.Logger
	state   lifecycle

	batch    *BatchBuffer
	program  Program
	batchVBO Buffer

	bound    Texture // Texture currently bound on the device
	selected Texture // Texture used by DrawQuad and mesh draws

	camPos   mgl32.Vec3
	camRot   mgl32.Vec3
	projMode ProjectionMode
	width    int
	height   int
	view     mgl32.Mat4
	proj     mgl32.Mat4

	running bool
	stats   FrameStats // Last completed frame
	pending FrameStats // Flushed so far in the open frame

	textures map[Texture]struct{}
	buffers  map[Buffer]struct{}
}

// New creates a Context for backend. Nothing touches the GPU until
// InitBackend.
func New(backend Backend, opts ...Option) *Context {
	c := &Context{
		backend:  backend,
		dev:      backend.Device,
		cfg:      DefaultConfig(),
		camPos:   DefaultCameraPos,
		textures: make(map[Texture]struct{}),
		buffers:  make(map[Buffer]struct{}),
	}
	for _, opt := range opts {
		opt(c)
	}

	c.batch = NewBatchBuffer(c.cfg.BatchCapacity)
	c.batch.logger = c.logger
	c.projMode = c.cfg.Projection
	c.width, c.height = c.cfg.Window.Width, c.cfg.Window.Height
	c.updateView()
	c.updateProjection()
	return c
}

// InitBackend opens the window, initializes the device and compiles the
// default program. Any failure here is fatal for the Context.
// Calling it again on a ready Context does nothing.
func (c *Context) InitBackend() error {
	switch c.state {
	case stateTornDown:
		return ErrTornDown
	case stateReady, stateFrame:
		return nil
	}
	if c.dev == nil || c.backend.Platform == nil {
		return ErrNoBackend
	}
	log := c.log()

	if err := c.backend.Platform.Open(c.cfg.Window); err != nil {
		return fmt.Errorf("open window: %w", err)
	}
	w, h := c.backend.Platform.FramebufferSize()
	if w <= 0 || h <= 0 {
		w, h = c.cfg.Window.Width, c.cfg.Window.Height
	}

	if err := c.dev.Init(w, h); err != nil {
		c.backend.Platform.Close()
		return fmt.Errorf("init %s device: %w", c.backend.Name, err)
	}

	src, err := c.shaderSources()
	if err != nil {
		c.backend.Platform.Close()
		return err
	}
	c.program, err = c.dev.CompileProgram(src.Vertex, src.Fragment)
	if err != nil {
		c.backend.Platform.Close()
		return fmt.Errorf("compile default program: %w", err)
	}
	c.checkError("compile program")

	c.batchVBO = c.dev.AllocVertexBuffer(c.batch.SizeBytes())
	c.checkError("alloc batch buffer")

	c.dev.SetClearColor(c.cfg.ClearColor)
	c.state = stateReady
	c.running = true
	c.Resize(w, h)

	attrs := []any{"backend", c.backend.Name, "width", w, "height", h, "capacity", c.batch.Cap()}
	for k, v := range c.dev.Describe() {
		attrs = append(attrs, k, v)
	}
	log.Info("backend ready", attrs...)
	return nil
}

func (c *Context) shaderSources() (ShaderSources, error) {
	paths := c.cfg.Shaders
	if paths.Vertex == "" && paths.Fragment == "" {
		return c.backend.Shaders, nil
	}
	vs, err := ReadTextFile(paths.Vertex)
	if err != nil {
		return ShaderSources{}, fmt.Errorf("vertex shader: %w", err)
	}
	fs, err := ReadTextFile(paths.Fragment)
	if err != nil {
		return ShaderSources{}, fmt.Errorf("fragment shader: %w", err)
	}
	return ShaderSources{Vertex: vs, Fragment: fs}, nil
}

// Begin opens a frame and refreshes the running flag from the window.
func (c *Context) Begin() {
	if c.state != stateReady && c.state != stateFrame {
		c.log().Warn("Begin on inactive context", "state", c.state)
		return
	}
	if c.state == stateFrame {
		c.log().Debug("Begin called twice without End")
	}
	c.state = stateFrame
	if c.backend.Platform.ShouldClose() {
		c.running = false
	}
}

// Clear clears the framebuffer and empties the batch.
func (c *Context) Clear() {
	if c.state != stateReady && c.state != stateFrame {
		return
	}
	c.dev.Clear()
	c.checkError("clear")
	c.batch.Reset()
}

// End submits the batch, presents the frame and polls window events.
func (c *Context) End() error {
	if err := c.active(); err != nil {
		return err
	}
	c.flush()
	c.stats, c.pending = c.pending, FrameStats{}

	c.backend.Platform.Present()
	c.backend.Platform.PollEvents()

	c.state = stateReady
	return nil
}

// Flush submits the queued draws without presenting and empties the batch,
// so more than one batch can be drawn in a frame.
func (c *Context) Flush() error {
	if err := c.active(); err != nil {
		return err
	}
	c.flush()
	return nil
}

func (c *Context) flush() {
	s := c.submit()
	c.pending.Primitives += s.Primitives
	c.pending.Submissions += s.Submissions
	c.pending.TextureBinds += s.TextureBinds
	c.pending.Dropped += c.batch.Dropped()
	c.batch.Reset()
}

// Repaint is End under its 2D name.
func (c *Context) Repaint() error { return c.End() }

// Running reports whether the client loop should continue.
func (c *Context) Running() bool { return c.running }

// Quit makes Running report false.
func (c *Context) Quit() { c.running = false }

// Stats returns what the last End submitted.
func (c *Context) Stats() FrameStats { return c.stats }

// Config returns the active configuration.
func (c *Context) Config() Config { return c.cfg }

// Batch exposes the frame's batch buffer.
func (c *Context) Batch() *BatchBuffer { return c.batch }

// SetCamera moves the camera. Rotation is in degrees.
func (c *Context) SetCamera(pos, rotDeg mgl32.Vec3) {
	c.camPos, c.camRot = pos, rotDeg
	c.updateView()
}

// Camera returns the camera position and rotation.
func (c *Context) Camera() (pos, rotDeg mgl32.Vec3) { return c.camPos, c.camRot }

// SetProjectionType switches the projection. The camera is left where it is.
func (c *Context) SetProjectionType(mode ProjectionMode) {
	c.projMode = mode
	c.updateProjection()
}

// ProjectionType returns the current projection mode.
func (c *Context) ProjectionType() ProjectionMode { return c.projMode }

// View returns the current view matrix.
func (c *Context) View() mgl32.Mat4 { return c.view }

// Projection returns the current projection matrix.
func (c *Context) Projection() mgl32.Mat4 { return c.proj }

// Size returns the viewport size.
func (c *Context) Size() (width, height int) { return c.width, c.height }

// Resize updates the viewport and the projection.
func (c *Context) Resize(width, height int) {
	c.width, c.height = width, height
	if c.state == stateReady || c.state == stateFrame {
		c.dev.SetViewport(width, height)
	}
	c.updateProjection()
}

// SetClearColor sets the color Clear fills with.
func (c *Context) SetClearColor(col Color) {
	c.cfg.ClearColor = col
	if c.state == stateReady || c.state == stateFrame {
		c.dev.SetClearColor(col)
	}
}

// ReadPixels reads the framebuffer as RGBA8, bottom row first.
func (c *Context) ReadPixels() ([]byte, error) {
	if err := c.active(); err != nil {
		return nil, err
	}
	return c.dev.ReadPixels(c.width, c.height), nil
}

func (c *Context) updateView() {
	c.view = ViewMatrix(c.camPos, c.camRot)
}

func (c *Context) updateProjection() {
	c.proj = ProjectionMatrix(c.projMode, c.width, c.height, c.cfg.Near, c.cfg.Far)
}

func (c *Context) active() error {
	switch c.state {
	case stateUninitialized:
		return ErrNotInitialized
	case stateTornDown:
		return ErrTornDown
	}
	return nil
}

// bindTexture binds t on the device unless it is already bound.
func (c *Context) bindTexture(t Texture) bool {
	if t == c.bound {
		return false
	}
	c.dev.BindTexture(t)
	c.bound = t
	return true
}

func (c *Context) checkError(op string) {
	if err := c.dev.CheckError(); err != nil {
		c.log().Warn("gpu error", "op", op, "err", err)
	}
}

func (c *Context) log() *slog.Logger {
	if c.logger != nil {
		return c.logger
	}
	return Logger()
}

// DestroyBackend frees every GPU resource the Context created and closes
// the window. Further calls do nothing.
func (c *Context) DestroyBackend() {
	switch c.state {
	case stateTornDown:
		return
	case stateUninitialized:
		c.state = stateTornDown
		return
	}
	for t := range c.textures {
		c.dev.DeleteTexture(t)
	}
	for b := range c.buffers {
		c.dev.DeleteBuffer(b)
	}
	clear(c.textures)
	clear(c.buffers)
	if c.batchVBO != 0 {
		c.dev.DeleteBuffer(c.batchVBO)
		c.batchVBO = 0
	}
	if c.program.ID != 0 {
		c.dev.DeleteProgram(c.program)
		c.program = Program{}
	}
	c.dev.Release()
	c.backend.Platform.Close()

	c.bound, c.selected = 0, 0
	c.running = false
	c.state = stateTornDown
	c.log().Debug("backend destroyed", "backend", c.backend.Name)
}

// DestroySelf tears down the backend if needed and drops the batch and
// configuration. Further calls do nothing.
func (c *Context) DestroySelf() {
	c.DestroyBackend()
	if c.batch == nil {
		return
	}
	c.batch = nil
	c.cfg = Config{}
	c.textures = nil
	c.buffers = nil
}
