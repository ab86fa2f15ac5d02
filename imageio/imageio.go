// Package imageio decodes image files into tightly packed RGBA8 pixels
// ready for texture upload.
package imageio

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/color"
	"io"
	"os"

	// Registered decoders.
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"golang.org/x/image/draw"
)

// Errors returned by the decoder.
var (
	ErrDecode    = errors.New("imageio: decode failed")
	ErrEmptyData = errors.New("imageio: empty data")
)

// Image is decoded pixel data. Pix is RGBA8, row-major, top row first,
// with no row padding.
type Image struct {
	Pix      []byte
	Width    int
	Height   int
	Channels int    // Channel count of the source image
	Format   string // Name of the decoder that read it
}

// DecodeImage reads and decodes the image file at path.
func DecodeImage(path string) (*Image, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("imageio: open file: %w", err)
	}
	img, err := DecodeBytes(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return img, nil
}

// DecodeBytes decodes an in-memory image.
func DecodeBytes(data []byte) (*Image, error) {
	if len(data) == 0 {
		return nil, ErrEmptyData
	}
	return Decode(bytes.NewReader(data))
}

// Decode decodes an image in any registered format.
func Decode(r io.Reader) (*Image, error) {
	src, format, err := image.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDecode, err)
	}
	img := FromImage(src)
	img.Format = format
	return img, nil
}

// FromImage converts any image.Image to packed RGBA8.
func FromImage(src image.Image) *Image {
	b := src.Bounds()
	rgba, ok := src.(*image.RGBA)
	if !ok || rgba.Stride != 4*b.Dx() || b.Min != (image.Point{}) {
		rgba = image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
		draw.Draw(rgba, rgba.Bounds(), src, b.Min, draw.Src)
	}
	return &Image{
		Pix:      rgba.Pix,
		Width:    b.Dx(),
		Height:   b.Dy(),
		Channels: channels(src.ColorModel()),
	}
}

// ToImage wraps the pixels as an *image.RGBA without copying.
func (img *Image) ToImage() *image.RGBA {
	return &image.RGBA{
		Pix:    img.Pix,
		Stride: 4 * img.Width,
		Rect:   image.Rect(0, 0, img.Width, img.Height),
	}
}

// FlipVertical reverses the row order in place. Framebuffer reads come
// back bottom row first.
func FlipVertical(pix []byte, width, height int) {
	stride := 4 * width
	tmp := make([]byte, stride)
	for y := 0; y < height/2; y++ {
		top := pix[y*stride : (y+1)*stride]
		bot := pix[(height-1-y)*stride : (height-y)*stride]
		copy(tmp, top)
		copy(top, bot)
		copy(bot, tmp)
	}
}

func channels(m color.Model) int {
	switch m {
	case color.GrayModel, color.Gray16Model, color.AlphaModel, color.Alpha16Model:
		return 1
	case color.YCbCrModel:
		return 3
	case color.NRGBAModel, color.NRGBA64Model, color.RGBAModel, color.RGBA64Model:
		return 4
	}
	return 4 // paletted and custom models decode to RGBA
}
