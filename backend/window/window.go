// Package window implements vgl.Platform with GLFW.
package window

import (
	"fmt"

	"github.com/go-gl/glfw/v3.3/glfw"

	"github.com/go-theft-auto/vgl"
)

// API selects the client API of the window's context.
type API int

const (
	APIOpenGL   API = iota // 4.1 core, forward compatible
	APIOpenGLES            // ES 3.0
)

// Window is a GLFW window owning one graphics context.
// GLFW must be used from the main thread; callers lock it with
// runtime.LockOSThread.
type Window struct {
	api API
	win *glfw.Window
}

// New returns an unopened window for api.
func New(api API) *Window {
	return &Window{api: api}
}

// Open initializes GLFW, creates the window and makes its context current.
func (w *Window) Open(cfg vgl.WindowConfig) error {
	if w.win != nil {
		return nil
	}
	if err := glfw.Init(); err != nil {
		return fmt.Errorf("glfw init: %w", err)
	}

	glfw.DefaultWindowHints()
	switch w.api {
	case APIOpenGLES:
		glfw.WindowHint(glfw.ClientAPI, glfw.OpenGLESAPI)
		glfw.WindowHint(glfw.ContextVersionMajor, 3)
		glfw.WindowHint(glfw.ContextVersionMinor, 0)
	default:
		glfw.WindowHint(glfw.ContextVersionMajor, 4)
		glfw.WindowHint(glfw.ContextVersionMinor, 1)
		glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)
		glfw.WindowHint(glfw.OpenGLForwardCompatible, glfw.True)
	}
	if cfg.Hidden {
		glfw.WindowHint(glfw.Visible, glfw.False)
	}

	win, err := glfw.CreateWindow(cfg.Width, cfg.Height, cfg.Title, nil, nil)
	if err != nil {
		glfw.Terminate()
		return fmt.Errorf("create window: %w", err)
	}
	win.MakeContextCurrent()
	if cfg.VSync {
		glfw.SwapInterval(1)
	} else {
		glfw.SwapInterval(0)
	}
	w.win = win
	vgl.Logger().Debug("window opened", "width", cfg.Width, "height", cfg.Height, "es", w.api == APIOpenGLES)
	return nil
}

// ShouldClose reports the window's close flag. Embedded targets have no
// window manager, so an ES window never asks to close.
func (w *Window) ShouldClose() bool {
	if w.win == nil || w.api == APIOpenGLES {
		return false
	}
	return w.win.ShouldClose()
}

// Present swaps the back buffer.
func (w *Window) Present() {
	if w.win != nil {
		w.win.SwapBuffers()
	}
}

// PollEvents processes pending window events.
func (w *Window) PollEvents() {
	if w.win != nil {
		glfw.PollEvents()
	}
}

// FramebufferSize returns the size in pixels.
func (w *Window) FramebufferSize() (width, height int) {
	if w.win == nil {
		return 0, 0
	}
	return w.win.GetFramebufferSize()
}

// Close destroys the window and terminates GLFW. Further calls do nothing.
func (w *Window) Close() {
	if w.win == nil {
		return
	}
	w.win.Destroy()
	w.win = nil
	glfw.Terminate()
}

// GLFW returns the underlying window, nil if not open.
func (w *Window) GLFW() *glfw.Window { return w.win }
