package peripherals

import "gochip8/pkg/grid"

// Framebuffer dimensions in pixels.
const (
	Width  = 64
	Height = 32
)

// Display is a fixed 64x32 buffer of 32-bit pixels (0xAARRGGBB).
//
// When InvertY is set, logical row 0 is stored in the last buffer row so that a
// consumer whose origin grows upward (an OpenGL texture) shows the image the
// right way up. Logical draw coordinates are not affected.
type Display struct {
	invertY bool
	pixels  [Width * Height]uint32
}

// NewDisplay returns a cleared display with row inversion enabled.
func NewDisplay() *Display {
	return &Display{invertY: true}
}

// SetInvertY selects bottom-up (true) or top-down (false) row storage.
func (d *Display) SetInvertY(invert bool) {
	d.invertY = invert
}

// InvertY reports whether rows are stored bottom-up.
func (d *Display) InvertY() bool {
	return d.invertY
}

// Dims returns (width, height).
func (d *Display) Dims() (int, int) {
	return Width, Height
}

func (d *Display) offset(x, y int) int {
	if d.invertY {
		y = Height - 1 - y
	}
	return grid.Index(x, y, Width)
}

// XorPixel XORs color into the pixel at logical (x, y) and reports a collision:
// true iff both the previous pixel and color are nonzero.
func (d *Display) XorPixel(x, y int, color uint32) bool {
	k := d.offset(x, y)
	old := d.pixels[k]
	d.pixels[k] ^= color
	return old != 0 && color != 0
}

// Pixel returns the pixel at logical (x, y).
func (d *Display) Pixel(x, y int) uint32 {
	return d.pixels[d.offset(x, y)]
}

// SetPixel overwrites the pixel at buffer position (x, y). No row inversion
// is applied.
func (d *Display) SetPixel(x, y int, color uint32) {
	d.pixels[grid.Index(x, y, Width)] = color
}

// Clear fills the whole buffer with color.
func (d *Display) Clear(color uint32) {
	for i := range d.pixels {
		d.pixels[i] = color
	}
}

// Pixels returns the buffer in storage order. The slice aliases the display and
// must not be modified.
func (d *Display) Pixels() []uint32 {
	return d.pixels[:]
}
