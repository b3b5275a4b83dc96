package emulator

// AlphaOpaque is ORed into every pixel returned by Machine.Framebuffer.
const AlphaOpaque uint32 = 0xFF000000

// Machine is a host-owned handle around an Emulator that remembers the ROM
// image and clock so that it can be reset to a fresh power-on state.
type Machine struct {
	opts Options
	rom  []byte
	emu  *Emulator
}

// NewMachine returns a handle with no ROM loaded.
func NewMachine(opts Options) (*Machine, error) {
	if err := validateClock(opts.CPUHz); err != nil {
		return nil, err
	}
	return &Machine{opts: opts}, nil
}

// Init stores a copy of rom and boots it.
func (m *Machine) Init(rom []byte) error {
	if err := checkROMSize(rom); err != nil {
		return err
	}
	m.rom = make([]byte, len(rom))
	copy(m.rom, rom)
	return m.Reset()
}

// Reset replaces the emulator with a fresh one running the stored ROM at the
// current clock.
func (m *Machine) Reset() error {
	if m.rom == nil {
		return ErrNoROM
	}
	emu, err := NewWithOptions(m.opts)
	if err != nil {
		return err
	}
	if err := emu.LoadROM(m.rom); err != nil {
		return err
	}
	m.emu = emu
	return nil
}

// Advance runs the emulator for elapsedMs. See Emulator.AdvanceMs.
func (m *Machine) Advance(elapsedMs uint32) error {
	if m.emu == nil {
		return ErrNoROM
	}
	return m.emu.AdvanceMs(elapsedMs)
}

func (m *Machine) KeyDown(key uint8) {
	if m.emu != nil {
		m.emu.KeyDown(key)
	}
}

func (m *Machine) KeyUp(key uint8) {
	if m.emu != nil {
		m.emu.KeyUp(key)
	}
}

func (m *Machine) ReleaseKeys() {
	if m.emu != nil {
		m.emu.ReleaseKeys()
	}
}

// Framebuffer returns a copy of the screen with every pixel fully opaque, or
// nil before Init.
func (m *Machine) Framebuffer() []uint32 {
	if m.emu == nil {
		return nil
	}
	src := m.emu.Framebuffer()
	out := make([]uint32, len(src))
	for i, px := range src {
		out[i] = px | AlphaOpaque
	}
	return out
}

// SetCPUHz changes the clock of the running emulator and of every later reset.
func (m *Machine) SetCPUHz(hz uint32) error {
	if err := validateClock(hz); err != nil {
		return err
	}
	m.opts.CPUHz = hz
	if m.emu != nil {
		return m.emu.SetCPUHz(hz)
	}
	return nil
}

func (m *Machine) SoundEnabled() bool {
	return m.emu != nil && m.emu.SoundEnabled()
}

// Emulator returns the current emulator, or nil before Init.
func (m *Machine) Emulator() *Emulator {
	return m.emu
}
