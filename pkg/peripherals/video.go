package peripherals

import (
	"fmt"
	"image"
	"image/png"
	"os"

	"golang.org/x/image/draw"
)

// pixelToRGBA splits a 0xAARRGGBB pixel into opaque RGBA bytes. The alpha
// channel of the stored pixel is ignored.
func pixelToRGBA(val uint32) (r, g, b, a byte) {
	r = byte(val >> 16)
	g = byte(val >> 8)
	b = byte(val)
	a = 0xFF
	return
}

// RGBA decodes the buffer into a 64×32 RGBA8888 byte slice in storage order
// (length 64*32*4).
func (d *Display) RGBA() []byte {
	pixels := make([]byte, Width*Height*4)
	for i, v := range d.pixels {
		r, g, b, a := pixelToRGBA(v)
		pixels[i*4+0] = r
		pixels[i*4+1] = g
		pixels[i*4+2] = b
		pixels[i*4+3] = a
	}
	return pixels
}

// Image returns the buffer as an *image.RGBA.
func (d *Display) Image() *image.RGBA {
	return &image.RGBA{
		Pix:    d.RGBA(),
		Stride: Width * 4,
		Rect:   image.Rect(0, 0, Width, Height),
	}
}

// ScaledImage returns the buffer enlarged by an integer factor with
// nearest-neighbour sampling so pixels stay sharp.
func (d *Display) ScaledImage(scale int) *image.RGBA {
	if scale < 1 {
		scale = 1
	}
	src := d.Image()
	if scale == 1 {
		return src
	}
	dst := image.NewRGBA(image.Rect(0, 0, Width*scale, Height*scale))
	draw.NearestNeighbor.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Src, nil)
	return dst
}

// SaveScreenshot encodes the framebuffer, scaled by scale, as a PNG file.
func (d *Display) SaveScreenshot(filename string, scale int) error {
	f, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("creating screenshot: %w", err)
	}
	defer f.Close()
	if err := png.Encode(f, d.ScaledImage(scale)); err != nil {
		return fmt.Errorf("encoding screenshot: %w", err)
	}
	return nil
}
