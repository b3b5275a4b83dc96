package asm

import (
	"bytes"
	"fmt"
	"testing"
)

func TestDisassemble(t *testing.T) {
	rom := []byte{
		0x00, 0xE0, // CLS
		0x12, 0x34, // JP $234
		0x80, 0x18, // invalid
		0xAB, // trailing byte
	}
	lines := Disassemble(rom, 0x200)

	want := []Line{
		{Addr: 0x200, Word: 0x00E0, Size: 2, Valid: true, Text: "CLS"},
		{Addr: 0x202, Word: 0x1234, Size: 2, Valid: true, Text: "JP $234"},
		{Addr: 0x204, Word: 0x8018, Size: 2, Valid: false, Text: "<INVALID>"},
		{Addr: 0x206, Word: 0xAB00, Size: 1, Valid: false, Text: ".BYTE $AB"},
	}
	if len(lines) != len(want) {
		t.Fatalf("Disassemble returned %d lines, want %d", len(lines), len(want))
	}
	for i := range want {
		if lines[i] != want[i] {
			t.Errorf("line %d = %+v, want %+v", i, lines[i], want[i])
		}
	}
}

func TestWriteListing(t *testing.T) {
	var buf bytes.Buffer
	lines := Disassemble([]byte{0x6A, 0x05, 0xF0}, 0x200)
	if err := WriteListing(&buf, lines); err != nil {
		t.Fatalf("WriteListing failed: %v", err)
	}
	want := "200: 6A05  LD VA, $05\n202: F0    .BYTE $F0\n"
	if got := buf.String(); got != want {
		t.Errorf("listing = %q, want %q", got, want)
	}
}

// Assembling the disassembly of a valid program yields the same bytes.
func TestDisassembleRoundTrip(t *testing.T) {
	rom, _, err := Assemble(largeProgram)
	if err != nil {
		t.Fatalf("Assemble failed: %v", err)
	}

	var src bytes.Buffer
	for _, l := range Disassemble(rom, 0x200) {
		if !l.Valid {
			// data words are emitted verbatim
			if l.Size == 1 {
				src.WriteString(l.Text + "\n")
			} else {
				fmt.Fprintf(&src, ".WORD $%04X\n", l.Word)
			}
			continue
		}
		src.WriteString(l.Text + "\n")
	}

	again, _, err := Assemble(src.String())
	if err != nil {
		t.Fatalf("re-assemble failed: %v", err)
	}
	if !bytes.Equal(rom, again) {
		t.Errorf("round trip mismatch:\n% X\n% X", rom, again)
	}
}
