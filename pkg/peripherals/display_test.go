package peripherals

import (
	"testing"

	"github.com/retroenv/retrogolib/assert"
)

func TestXorPixelCollision(t *testing.T) {
	tests := []struct {
		name      string
		prior     uint32
		color     uint32
		collision bool
		result    uint32
	}{
		{"both zero", 0, 0, false, 0},
		{"draw on empty", 0, 0xFFFFFFFF, false, 0xFFFFFFFF},
		{"erase lit", 0xFFFFFFFF, 0xFFFFFFFF, true, 0},
		{"zero onto lit", 0xFFFFFFFF, 0, false, 0xFFFFFFFF},
		{"partial colors", 0x00FF0000, 0x000000FF, true, 0x00FF00FF},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := NewDisplay()
			d.XorPixel(3, 4, tt.prior)
			got := d.XorPixel(3, 4, tt.color)
			assert.Equal(t, tt.collision, got)
			assert.Equal(t, tt.result, d.Pixel(3, 4))
		})
	}
}

func TestXorPixelSelfInverse(t *testing.T) {
	d := NewDisplay()
	d.SetPixel(10, 10, 0x12345678)
	before := append([]uint32(nil), d.Pixels()...)

	d.XorPixel(10, 21, 0xFFFFFFFF)
	d.XorPixel(10, 21, 0xFFFFFFFF)
	assert.Equal(t, before, d.Pixels())
}

func TestClear(t *testing.T) {
	d := NewDisplay()
	d.Clear(0xFF00FF00)
	for _, px := range d.Pixels() {
		assert.Equal(t, uint32(0xFF00FF00), px)
	}

	d.XorPixel(0, 0, 1)
	d.Clear(0)
	for _, px := range d.Pixels() {
		assert.Equal(t, uint32(0), px)
	}
}

func TestInvertYTranslation(t *testing.T) {
	d := NewDisplay()
	assert.True(t, d.InvertY())

	d.XorPixel(5, 0, 0xFFFFFFFF)
	// Logical row 0 lands in the last buffer row.
	assert.Equal(t, uint32(0xFFFFFFFF), d.Pixels()[(Height-1)*Width+5])
	assert.Equal(t, uint32(0), d.Pixels()[5])
	assert.Equal(t, uint32(0xFFFFFFFF), d.Pixel(5, 0))

	d.Clear(0)
	d.SetInvertY(false)
	d.XorPixel(5, 0, 0xFFFFFFFF)
	assert.Equal(t, uint32(0xFFFFFFFF), d.Pixels()[5])
}

func TestSetPixelIgnoresInversion(t *testing.T) {
	d := NewDisplay()
	d.SetPixel(1, 2, 7)
	assert.Equal(t, uint32(7), d.Pixels()[2*Width+1])
}

func TestDims(t *testing.T) {
	w, h := NewDisplay().Dims()
	assert.Equal(t, 64, w)
	assert.Equal(t, 32, h)
	assert.Equal(t, w*h, len(NewDisplay().Pixels()))
}
