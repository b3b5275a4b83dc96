package asm

import (
	"fmt"
	"io"

	"gochip8/pkg/cpu"
)

// Line is one word of a disassembly listing.
type Line struct {
	Addr uint16
	Word uint16
	// Size is 2, or 1 for a trailing odd byte.
	Size  int
	Valid bool
	Text  string
}

// Disassemble decodes rom word by word as if loaded at base. Undecodable
// words are kept in the listing with Valid unset.
func Disassemble(rom []byte, base uint16) []Line {
	lines := make([]Line, 0, len(rom)/2+1)
	for off := 0; off < len(rom); off += 2 {
		addr := base + uint16(off)
		if off+1 == len(rom) {
			lines = append(lines, Line{
				Addr: addr,
				Word: uint16(rom[off]) << 8,
				Size: 1,
				Text: fmt.Sprintf(".BYTE $%02X", rom[off]),
			})
			break
		}

		word := uint16(rom[off])<<8 | uint16(rom[off+1])
		ins, ok := cpu.Decode(word)
		lines = append(lines, Line{
			Addr:  addr,
			Word:  word,
			Size:  2,
			Valid: ok,
			Text:  ins.String(),
		})
	}
	return lines
}

func (l Line) String() string {
	if l.Size == 1 {
		return fmt.Sprintf("%03X: %02X    %s", l.Addr, l.Word>>8, l.Text)
	}
	return fmt.Sprintf("%03X: %04X  %s", l.Addr, l.Word, l.Text)
}

// WriteListing writes one line per entry.
func WriteListing(w io.Writer, lines []Line) error {
	for _, l := range lines {
		if _, err := fmt.Fprintln(w, l.String()); err != nil {
			return fmt.Errorf("writing listing: %w", err)
		}
	}
	return nil
}
