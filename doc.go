/*
Package vgl is an immediate-mode 2D/3D renderer for small OpenGL and
OpenGL ES targets. Draw calls are queued into a fixed-capacity batch and
submitted once per frame; meshes in GPU buffers are drawn immediately.

# Overview

A Context owns the window, the default shader program, one dynamic vertex
buffer sized for the whole batch, and every texture and buffer it creates.
The GPU is reached through a Device and the window through a Platform, so
the same Context runs on the desktop backend (backend/opengl) and the
embedded one (backend/gles).

# Quick Start

	ctx := vgl.New(opengl.NewBackend(), vgl.WithCapacity(2048))
	if err := ctx.InitBackend(); err != nil {
	    log.Fatal(err)
	}
	defer ctx.DestroySelf()

	tex := ctx.LoadTextureAt("sprite.png")

	for ctx.Running() {
	    ctx.Begin()
	    ctx.Clear()

	    ctx.BindTexture(tex)
	    ctx.DrawQuad(0, 0, 2, mgl32.Vec3{0, 45, 0}, mgl32.Vec3{1, 1, 1}, vgl.ColorWhite)

	    ctx.DrawRect(-100, -100, 64, 32, vgl.ColorRed, nil)

	    if err := ctx.End(); err != nil {
	        log.Fatal(err)
	    }
	}

# Frames

Begin opens a frame, Clear clears the framebuffer and empties the batch, End
uploads the batch in one transfer, issues one triangle-strip draw per
primitive, presents and polls window events. Flush submits early without
presenting, for frames that queue more primitives than the batch holds or
that need the framebuffer read back before End.

Draws past the batch capacity are dropped. DrawQuad, DrawRect and
DrawTexture report false when that happens and Stats counts them.

# Transforms

DrawQuad places a unit quad with Translate · RotateX · RotateY · RotateZ ·
Scale, angles in degrees. The 2D calls take their vertices relative to the
position and compose an optional pivot from ExtraData:

	T(+pivot) · S · R · T(-pivot) · T(pos)

The projection is identity, orthographic (pixel units, origin at the
centre of the viewport) or perspective (60° vertical field of view).
SetProjectionType never moves the camera.

# Textures

Textures are RGBA8, nearest filtered and clamped. A texture handle of 0
means untextured. During submission a texture is bound only when it
differs from the one already bound; at the end of the submission the
texture unit is cleared.

# Configuration

DefaultConfig returns the built-in settings; LoadConfig overlays a YAML
file on them:

	window:
	  width: 960
	  height: 544
	  title: demo
	  vsync: true
	batch_capacity: 1024
	projection: perspective   # identity | orthographic | perspective
	near: 0.1
	far: 1000
	clear_color: [0.1, 0.1, 0.12, 1]
	shaders:
	  vertex: shaders/quad.vert
	  fragment: shaders/quad.frag

Shader files replace the backend's built-in program. They must declare the
attributes and uniforms named by the Attrib* and Uniform* constants.

# Logging

The package logs through log/slog. SetVerbose enables debug output on the
default stderr logger, SetLogger replaces it, and WithLogger gives one
Context its own logger.
*/
package vgl
