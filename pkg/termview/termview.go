// Package termview renders the framebuffer as text using half-block
// characters, two pixel rows per line.
package termview

import (
	"fmt"
	"io"
	"strings"

	"gochip8/pkg/grid"
)

const (
	blockFull  = '█'
	blockUpper = '▀'
	blockLower = '▄'
	blockEmpty = ' '
)

// ansiHome moves the cursor to the top-left corner.
const ansiHome = "\x1b[H"

// Render returns the pixels as h/2 lines of w runes, each line ending in a
// newline. A pixel is lit when its value is nonzero.
func Render(pixels []uint32, w, h int) string {
	var sb strings.Builder
	sb.Grow((w*3 + 1) * (h + 1) / 2)

	lit := func(x, y int) bool {
		if y >= h {
			return false
		}
		return pixels[grid.Index(x, y, w)] != 0
	}

	for y := 0; y < h; y += 2 {
		for x := 0; x < w; x++ {
			top, bottom := lit(x, y), lit(x, y+1)
			switch {
			case top && bottom:
				sb.WriteRune(blockFull)
			case top:
				sb.WriteRune(blockUpper)
			case bottom:
				sb.WriteRune(blockLower)
			default:
				sb.WriteRune(blockEmpty)
			}
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}

// Sink writes each presented frame to W. With Home set, every frame is
// preceded by a cursor-home escape so frames overwrite each other.
type Sink struct {
	W    io.Writer
	Home bool
}

func (s *Sink) PresentFrame(pixels []uint32, w, h int) error {
	frame := Render(pixels, w, h)
	if s.Home {
		frame = ansiHome + frame
	}
	if _, err := io.WriteString(s.W, frame); err != nil {
		return fmt.Errorf("writing frame: %w", err)
	}
	return nil
}
