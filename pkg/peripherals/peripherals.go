// Package peripherals implements the memory, display, keypad and timers that
// the CPU operates on.
package peripherals

// Memory layout.
const (
	MemorySize   = 4096
	ProgramStart = 0x200
	GlyphSize    = 5
	GlyphCount   = 16
)

// TimerHz is the fixed rate of the delay and sound timers.
const TimerHz = 60

// Font holds the built-in hexadecimal glyphs 0-F, 5 bytes each, stored at
// address 0.
var Font = [GlyphCount * GlyphSize]byte{
	0xF0, 0x90, 0x90, 0x90, 0xF0, // 0
	0x20, 0x60, 0x20, 0x20, 0x70, // 1
	0xF0, 0x10, 0xF0, 0x80, 0xF0, // 2
	0xF0, 0x10, 0xF0, 0x10, 0xF0, // 3
	0x90, 0x90, 0xF0, 0x10, 0x10, // 4
	0xF0, 0x80, 0xF0, 0x10, 0xF0, // 5
	0xF0, 0x80, 0xF0, 0x90, 0xF0, // 6
	0xF0, 0x10, 0x20, 0x40, 0x40, // 7
	0xF0, 0x90, 0xF0, 0x90, 0xF0, // 8
	0xF0, 0x90, 0xF0, 0x10, 0xF0, // 9
	0xF0, 0x90, 0xF0, 0x90, 0x90, // A
	0xE0, 0x90, 0xE0, 0x90, 0xE0, // B
	0xF0, 0x80, 0x80, 0x80, 0xF0, // C
	0xE0, 0x90, 0x90, 0x90, 0xE0, // D
	0xF0, 0x80, 0xF0, 0x80, 0xF0, // E
	0xF0, 0x80, 0xF0, 0x80, 0x80, // F
}

// Peripherals is everything the CPU reads and writes besides its own
// registers.
type Peripherals struct {
	Memory [MemorySize]byte

	Screen *Display
	Keypad Keypad

	// DelayTimer and SoundTimer count down at TimerHz while nonzero.
	DelayTimer uint16
	SoundTimer uint16
}

// New returns peripherals with the font loaded, a cleared display and both
// timers at zero.
func New() *Peripherals {
	p := &Peripherals{
		Screen: NewDisplay(),
	}
	copy(p.Memory[:], Font[:])
	p.Screen.Clear(0)
	return p
}

// Tick advances both timers by one 60 Hz period. Timers stop at zero.
func (p *Peripherals) Tick() {
	if p.DelayTimer > 0 {
		p.DelayTimer--
	}
	if p.SoundTimer > 0 {
		p.SoundTimer--
	}
}

// SoundEnabled reports whether the tone should be audible.
func (p *Peripherals) SoundEnabled() bool {
	return p.SoundTimer > 0
}

// GlyphAddress returns the address of the font glyph for digit.
func GlyphAddress(digit uint8) uint16 {
	return uint16(digit) * GlyphSize
}
