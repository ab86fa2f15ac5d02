package vgl

// submit uploads the batch in one transfer and issues one triangle-strip
// draw per primitive. Textures are rebound only when they change.
func (c *Context) submit() FrameStats {
	n := c.batch.Len()
	stats := FrameStats{Primitives: n}
	if n == 0 {
		return stats
	}
	dev, prog := c.dev, c.program

	dev.BindVertexBuffer(c.batchVBO)
	dev.UpdateVertexBuffer(0, c.batch.Vertices())
	c.checkError("upload batch")

	dev.UseProgram(prog.ID)
	dev.SetInt(prog.Uniforms.Sampler, 0)
	dev.SetInt(prog.Uniforms.UseTexture, boolToInt(c.bound != 0))

	dev.EnableAttrib(prog.Attribs.Position, 3, VertexStride, vertexPosOffset)
	dev.EnableAttrib(prog.Attribs.TexCoord, 2, VertexStride, vertexTexCoordOffset)
	dev.EnableAttrib(prog.Attribs.Color, 4, VertexStride, vertexColorOffset)
	c.checkError("enable attribs")

	dev.SetMat4(prog.Uniforms.View, c.view)
	dev.SetMat4(prog.Uniforms.Projection, c.proj)

	for i := 0; i < n; i++ {
		_, prim := c.batch.At(i)
		if tex := prim.texture(); c.bindTexture(tex) {
			stats.TextureBinds++
			dev.SetInt(prog.Uniforms.UseTexture, boolToInt(tex != 0))
		}
		dev.SetMat4(prog.Uniforms.Model, prim.model())
		dev.DrawArrays(TriangleStrip, int32(i*VerticesPerQuad), VerticesPerQuad)
		stats.Submissions++
	}
	c.checkError("draw batch")

	dev.DisableAttrib(prog.Attribs.Position)
	dev.DisableAttrib(prog.Attribs.TexCoord)
	dev.DisableAttrib(prog.Attribs.Color)
	dev.UseProgram(0)
	dev.BindVertexBuffer(0)
	c.bindTexture(0)
	c.checkError("unbind")
	return stats
}

func boolToInt(b bool) int32 {
	if b {
		return 1
	}
	return 0
}
