// Package grid maps (x, y) cells of row-major buffers such as the
// framebuffer to linear indices.
package grid

// Index returns the linear index of cell (x, y) in a grid with cols columns.
func Index(x, y, cols int) int {
	return y*cols + x
}

// Wrap reduces v into [0, n).
func Wrap(v, n int) int {
	v %= n
	if v < 0 {
		v += n
	}
	return v
}
