package vgl

import (
	"github.com/go-theft-auto/vgl/imageio"
)

// LoadTextureAt decodes the image at path and uploads it.
// It returns 0 when the file cannot be read or decoded; 0 renders untextured.
func (c *Context) LoadTextureAt(path string) Texture {
	if c.active() != nil {
		c.log().Warn("LoadTextureAt on inactive context", "path", path, "state", c.state)
		return 0
	}
	img, err := imageio.DecodeImage(path)
	if err != nil {
		c.log().Warn("texture load failed", "path", path, "err", err)
		return 0
	}
	t := c.CreateTexture(img)
	c.log().Debug("texture loaded", "path", path, "id", t, "width", img.Width, "height", img.Height, "channels", img.Channels)
	return t
}

// CreateTexture uploads decoded RGBA8 pixels.
func (c *Context) CreateTexture(img *imageio.Image) Texture {
	if c.active() != nil || img == nil || img.Width <= 0 || img.Height <= 0 {
		return 0
	}
	t := c.dev.CreateTexture(img.Pix, img.Width, img.Height)
	c.checkError("create texture")
	// Creation leaves the new texture bound.
	c.bound = t
	if t != 0 {
		c.textures[t] = struct{}{}
	}
	return t
}

// BindTexture selects the texture used by DrawQuad and mesh draws.
// 0 selects no texture.
func (c *Context) BindTexture(t Texture) {
	c.selected = t
}

// SelectedTexture returns the texture chosen by BindTexture.
func (c *Context) SelectedTexture() Texture { return c.selected }

// DestroyTexture deletes t. Deleting 0 or an unknown handle does nothing.
func (c *Context) DestroyTexture(t Texture) {
	if t == 0 || c.active() != nil {
		return
	}
	if _, ok := c.textures[t]; !ok {
		return
	}
	c.dev.DeleteTexture(t)
	delete(c.textures, t)
	if c.bound == t {
		c.bound = 0
	}
	if c.selected == t {
		c.selected = 0
	}
}

// CreateVBOWithVertexData uploads static mesh vertices.
func (c *Context) CreateVBOWithVertexData(data []MeshVertex) Buffer {
	if c.active() != nil || len(data) == 0 {
		return 0
	}
	b := c.dev.CreateVertexBuffer(data)
	c.checkError("create vertex buffer")
	if b != 0 {
		c.buffers[b] = struct{}{}
	}
	return b
}

// CreateIBOWithIndexData uploads static uint32 indices.
func (c *Context) CreateIBOWithIndexData(indices []uint32) Buffer {
	if c.active() != nil || len(indices) == 0 {
		return 0
	}
	b := c.dev.CreateIndexBuffer(indices)
	c.checkError("create index buffer")
	if b != 0 {
		c.buffers[b] = struct{}{}
	}
	return b
}

// DestroyBuffer deletes a buffer created by this Context.
func (c *Context) DestroyBuffer(b Buffer) {
	if b == 0 || c.active() != nil {
		return
	}
	if _, ok := c.buffers[b]; !ok {
		return
	}
	c.dev.DeleteBuffer(b)
	delete(c.buffers, b)
}
