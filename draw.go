package vgl

import (
	"github.com/go-gl/mathgl/mgl32"
)

// unitQuad is a 1x1 quad centred on the origin, in triangle-strip order:
// bottom-left, top-left, bottom-right, top-right.
var unitQuad = [VerticesPerQuad]struct {
	pos [3]float32
	uv  [2]float32
}{
	{[3]float32{-0.5, -0.5, 0}, [2]float32{0, 1}},
	{[3]float32{-0.5, 0.5, 0}, [2]float32{0, 0}},
	{[3]float32{0.5, -0.5, 0}, [2]float32{1, 1}},
	{[3]float32{0.5, 0.5, 0}, [2]float32{1, 0}},
}

func (c *Context) drawable() bool {
	return c.batch != nil && (c.state == stateReady || c.state == stateFrame)
}

// DrawQuad queues a unit quad at (x, y, z), rotated (degrees) and scaled,
// textured with the texture selected by BindTexture. It reports false if
// the batch is full.
func (c *Context) DrawQuad(x, y, z float32, rotDeg, scale mgl32.Vec3, col Color) bool {
	if !c.drawable() {
		return false
	}
	var dc DrawCall
	for i, v := range unitQuad {
		dc.Verts[i] = Vertex{Pos: v.pos, TexCoord: v.uv, Color: col}
	}
	_, ok := c.batch.Append(dc, Primitive{
		Transform: Transform{Pos: mgl32.Vec3{x, y, z}, Rot: rotDeg, Scale: scale},
		Texture:   c.selected,
	})
	return ok
}

// rectCall builds a 2D quad local to its origin with corners
// (0,0), (0,h), (w,0), (w,h).
func rectCall(w, h float32, col Color, s0, t0, s1, t1 float32) DrawCall {
	return DrawCall{Verts: [VerticesPerQuad]Vertex{
		{Pos: [3]float32{0, 0, 0}, TexCoord: [2]float32{s0, t1}, Color: col},
		{Pos: [3]float32{0, h, 0}, TexCoord: [2]float32{s0, t0}, Color: col},
		{Pos: [3]float32{w, 0, 0}, TexCoord: [2]float32{s1, t1}, Color: col},
		{Pos: [3]float32{w, h, 0}, TexCoord: [2]float32{s1, t0}, Color: col},
	}}
}

// DrawRect queues an untextured rectangle with its bottom-left corner at
// (x, y). extra may be nil; its pivot is in the same space as (x, y).
func (c *Context) DrawRect(x, y, w, h float32, col Color, extra *ExtraData) bool {
	if !c.drawable() {
		return false
	}
	_, ok := c.batch.Append(rectCall(w, h, col, 0, 0, 1, 1), Primitive{
		Transform: Transform{Pos: mgl32.Vec3{x, y, 0}, Scale: mgl32.Vec3{1, 1, 1}},
		Extra:     extra,
	})
	return ok
}

// DrawTexture queues the src region of tex (texW x texH pixels) stretched
// over the rectangle at (x, y). A zero src selects the whole texture.
func (c *Context) DrawTexture(x, y, w, h float32, tex Texture, texW, texH int, src Rect, col Color, extra *ExtraData) bool {
	if !c.drawable() {
		return false
	}
	s0, t0, s1, t1 := float32(0), float32(0), float32(1), float32(1)
	if src.W != 0 && src.H != 0 && texW > 0 && texH > 0 {
		tw, th := float32(texW), float32(texH)
		s0, t0 = src.X/tw, src.Y/th
		s1, t1 = (src.X+src.W)/tw, (src.Y+src.H)/th
	}
	_, ok := c.batch.Append(rectCall(w, h, col, s0, t0, s1, t1), Primitive{
		Transform: Transform{Pos: mgl32.Vec3{x, y, 0}, Scale: mgl32.Vec3{1, 1, 1}},
		Extra:     extra,
		Texture:   tex,
	})
	return ok
}

// DrawFromVBO draws count vertices of a mesh buffer immediately, untransformed.
func (c *Context) DrawFromVBO(vbo Buffer, count int32) error {
	return c.drawBuffer(vbo, 0, count, mgl32.Ident4())
}

// DrawFromVBOTranslation draws count vertices of a mesh buffer immediately
// with a model transform. Rotation is in degrees.
func (c *Context) DrawFromVBOTranslation(vbo Buffer, count int32, pos, rotDeg, scale mgl32.Vec3) error {
	return c.drawBuffer(vbo, 0, count, ModelMatrix(pos, rotDeg, scale))
}

// DrawFromVBOTranslationIndices draws indexCount uint32 indices of ibo over
// the vertices of vbo immediately with a model transform.
func (c *Context) DrawFromVBOTranslationIndices(vbo, ibo Buffer, indexCount int32, pos, rotDeg, scale mgl32.Vec3) error {
	return c.drawBuffer(vbo, ibo, indexCount, ModelMatrix(pos, rotDeg, scale))
}

// drawBuffer issues one immediate mesh draw with the default program.
// Mesh buffers carry no color, so the color attribute is held at white.
func (c *Context) drawBuffer(vbo, ibo Buffer, count int32, model mgl32.Mat4) error {
	if err := c.active(); err != nil {
		return err
	}
	if vbo == 0 || count <= 0 {
		return nil
	}
	dev, prog := c.dev, c.program

	dev.UseProgram(prog.ID)
	dev.BindVertexBuffer(vbo)
	dev.EnableAttrib(prog.Attribs.Position, 3, MeshVertexStride, 0)
	dev.EnableAttrib(prog.Attribs.TexCoord, 2, MeshVertexStride, meshVertexTexCoordOffset)
	dev.DisableAttrib(prog.Attribs.Color)
	dev.ConstantAttrib(prog.Attribs.Color, ColorWhite)

	c.bindTexture(c.selected)
	dev.SetInt(prog.Uniforms.Sampler, 0)
	dev.SetInt(prog.Uniforms.UseTexture, boolToInt(c.selected != 0))
	dev.SetMat4(prog.Uniforms.Model, model)
	dev.SetMat4(prog.Uniforms.View, c.view)
	dev.SetMat4(prog.Uniforms.Projection, c.proj)

	if ibo != 0 {
		dev.BindIndexBuffer(ibo)
		dev.DrawIndexed(Triangles, count)
		dev.BindIndexBuffer(0)
	} else {
		dev.DrawArrays(Triangles, 0, count)
	}
	c.checkError("draw mesh")

	dev.DisableAttrib(prog.Attribs.Position)
	dev.DisableAttrib(prog.Attribs.TexCoord)
	dev.UseProgram(0)
	dev.BindVertexBuffer(0)
	return nil
}
