// Package emulator couples the CPU with its peripherals and drives both from
// elapsed wall time.
package emulator

import (
	"errors"
	"fmt"

	"github.com/retroenv/retrogolib/log"

	"gochip8/pkg/cpu"
	"gochip8/pkg/peripherals"
)

var (
	ErrROMTooLarge  = errors.New("rom does not fit in program memory")
	ErrInvalidClock = errors.New("cpu clock below timer rate")
	ErrNoROM        = errors.New("no rom loaded")
)

const (
	DefaultCPUHz        = 500
	DefaultSeed  uint64 = 0x123456789
	// MaxROMSize is the space between the program start and the end of memory.
	MaxROMSize = peripherals.MemorySize - peripherals.ProgramStart
)

// Options configures a new Emulator.
type Options struct {
	// CPUHz is the instruction rate. It must be at least peripherals.TimerHz.
	CPUHz uint32
	// Seed initialises the RND stream.
	Seed uint64
	// InvertY flips rows written by sprite draws so that y=0 is the bottom row
	// of the framebuffer.
	InvertY bool
	// Logger receives ROM, clock and fault events. Nil disables logging.
	Logger *log.Logger
}

// DefaultOptions returns the standard configuration: 500 Hz, the stock seed
// and inverted rows.
func DefaultOptions() Options {
	return Options{
		CPUHz:   DefaultCPUHz,
		Seed:    DefaultSeed,
		InvertY: true,
	}
}

// Emulator owns one CPU and one set of peripherals. It is not safe for
// concurrent use.
type Emulator struct {
	cpu    *cpu.CPU
	periph *peripherals.Peripherals

	cpuHz uint32
	// timerAcc accumulates TimerHz per CPU cycle; a timer tick fires each time
	// it reaches cpuHz.
	timerAcc uint32

	logger *log.Logger
}

// New returns an emulator running at cpuHz with default options otherwise.
func New(cpuHz uint32) (*Emulator, error) {
	opts := DefaultOptions()
	opts.CPUHz = cpuHz
	return NewWithOptions(opts)
}

// NewWithOptions returns an emulator with the font loaded, a cleared screen
// and the program counter at the program start.
func NewWithOptions(opts Options) (*Emulator, error) {
	if err := validateClock(opts.CPUHz); err != nil {
		return nil, err
	}

	e := &Emulator{
		cpu:    cpu.NewCPU(peripherals.ProgramStart),
		periph: peripherals.New(),
		cpuHz:  opts.CPUHz,
		logger: opts.Logger,
	}
	e.cpu.SeedRandom(opts.Seed)
	e.periph.Screen.SetInvertY(opts.InvertY)
	return e, nil
}

func validateClock(hz uint32) error {
	if hz < peripherals.TimerHz {
		return fmt.Errorf("%w: %d Hz", ErrInvalidClock, hz)
	}
	return nil
}

func checkROMSize(rom []byte) error {
	if len(rom) > MaxROMSize {
		return fmt.Errorf("%w: %d bytes, limit %d", ErrROMTooLarge, len(rom), MaxROMSize)
	}
	return nil
}

// LoadROM copies rom into memory at the program start.
func (e *Emulator) LoadROM(rom []byte) error {
	if err := checkROMSize(rom); err != nil {
		return err
	}
	copy(e.periph.Memory[peripherals.ProgramStart:], rom)
	if e.logger != nil {
		e.logger.Info("ROM loaded", log.Int("size", len(rom)))
	}
	return nil
}

// AdvanceMs runs the number of CPU cycles that fit into elapsedMs at the
// configured clock. Fractional cycles are dropped, not carried over. The
// first fault stops the run and is returned; cycles already executed stay
// executed. A halted emulator does nothing.
func (e *Emulator) AdvanceMs(elapsedMs uint32) error {
	if e.cpu.Status == cpu.Halted {
		return nil
	}
	steps := uint64(e.cpuHz) * uint64(elapsedMs) / 1000
	for i := uint64(0); i < steps; i++ {
		if err := e.Step(); err != nil {
			return err
		}
	}
	return nil
}

// Step executes a single CPU cycle and feeds the timer divider. A halted
// emulator does nothing.
func (e *Emulator) Step() error {
	if e.cpu.Status == cpu.Halted {
		return nil
	}
	if err := e.cpu.Tick(e.periph); err != nil {
		e.logFault(err)
		return err
	}

	e.timerAcc += peripherals.TimerHz
	if e.timerAcc >= e.cpuHz {
		e.periph.Tick()
		e.timerAcc -= e.cpuHz
	}
	return nil
}

func (e *Emulator) logFault(err error) {
	if e.logger == nil {
		return
	}
	var fault *cpu.Fault
	if !errors.As(err, &fault) {
		e.logger.Error("CPU fault", log.Err(err))
		return
	}
	e.logger.Error("CPU fault",
		log.String("kind", fault.Kind.String()),
		log.String("pc", fmt.Sprintf("0x%03X", fault.PC)),
		log.String("opcode", fmt.Sprintf("0x%04X", fault.Opcode)),
		log.Int("cycles", int(e.cpu.Cycles)))
}

// SetCPUHz changes the instruction rate. Rates below the timer rate are
// rejected and leave the emulator unchanged.
func (e *Emulator) SetCPUHz(hz uint32) error {
	if err := validateClock(hz); err != nil {
		return err
	}
	e.cpuHz = hz
	if e.logger != nil {
		e.logger.Debug("CPU clock changed", log.Int("hz", int(hz)))
	}
	return nil
}

func (e *Emulator) CPUHz() uint32 {
	return e.cpuHz
}

func (e *Emulator) KeyDown(key uint8) {
	e.periph.Keypad.KeyPressed(key)
}

func (e *Emulator) KeyUp(key uint8) {
	e.periph.Keypad.KeyReleased(key)
}

// ReleaseKeys releases every keypad key, for hosts that lose key-up events.
func (e *Emulator) ReleaseKeys() {
	e.periph.Keypad.Clear()
}

// Framebuffer returns the live pixel buffer in row-major order. Callers must
// not modify it.
func (e *Emulator) Framebuffer() []uint32 {
	return e.periph.Screen.Pixels()
}

func (e *Emulator) FramebufferDims() (int, int) {
	return e.periph.Screen.Dims()
}

func (e *Emulator) SoundTimer() uint16 {
	return e.periph.SoundTimer
}

func (e *Emulator) DelayTimer() uint16 {
	return e.periph.DelayTimer
}

// SoundEnabled reports whether the tone should currently be audible.
func (e *Emulator) SoundEnabled() bool {
	return e.periph.SoundEnabled()
}

// SetSeed reseeds the RND stream.
func (e *Emulator) SetSeed(seed uint64) {
	e.cpu.SeedRandom(seed)
}

func (e *Emulator) SetInvertY(invert bool) {
	e.periph.Screen.SetInvertY(invert)
}

// Halt pauses execution until Resume.
func (e *Emulator) Halt() {
	e.cpu.Halt()
	if e.logger != nil {
		e.logger.Info("Emulator halted", log.String("pc", fmt.Sprintf("0x%03X", e.cpu.PC)))
	}
}

func (e *Emulator) Resume() {
	e.cpu.Resume()
}

func (e *Emulator) Halted() bool {
	return e.cpu.Status == cpu.Halted
}

func (e *Emulator) Cycles() uint64 {
	return e.cpu.Cycles
}

// CPU exposes the processor for inspection by front ends.
func (e *Emulator) CPU() *cpu.CPU {
	return e.cpu
}

// Peripherals exposes memory, screen, keypad and timers for inspection.
func (e *Emulator) Peripherals() *peripherals.Peripherals {
	return e.periph
}
