package main

import (
	"fmt"
	"io"
	"sync"
	"time"

	"gochip8/pkg/emulator"
	"gochip8/pkg/termview"
)

// keyHold is how long a keypad key stays down after a key press. Terminals
// report presses only, so the release is synthesized.
const keyHold = 150 * time.Millisecond

// session owns the machine for the console front end. The emulation ticker
// and the key handlers run on different goroutines, so every access goes
// through mu.
type session struct {
	mu      sync.Mutex
	machine *emulator.Machine
	paused  bool
	fault   error
	held    map[uint8]time.Time
}

func newSession(machine *emulator.Machine) *session {
	return &session{
		machine: machine,
		held:    make(map[uint8]time.Time),
	}
}

func (s *session) press(key uint8, now time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.machine.KeyDown(key)
	s.held[key] = now
}

func (s *session) releaseExpired(now time.Time) {
	for key, at := range s.held {
		if now.Sub(at) >= keyHold {
			s.machine.KeyUp(key)
			delete(s.held, key)
		}
	}
}

// frame releases stale keys and runs ms of emulation unless paused.
func (s *session) frame(ms uint32, now time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.releaseExpired(now)
	if s.paused {
		return
	}
	s.fault = s.machine.Advance(ms)
}

func (s *session) togglePause() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.paused = !s.paused
}

// step executes one instruction while paused.
func (s *session) step() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.paused {
		return
	}
	s.fault = s.machine.Emulator().Step()
}

func (s *session) reset() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.machine.Reset(); err != nil {
		return fmt.Errorf("resetting machine: %w", err)
	}
	s.fault = nil
	clear(s.held)
	return nil
}

// render writes the screen, the register file and the status line.
func (s *session) render(screen, registers, status io.Writer) {
	s.mu.Lock()
	defer s.mu.Unlock()

	emu := s.machine.Emulator()
	w, h := emu.FramebufferDims()
	_, _ = io.WriteString(screen, termview.Render(emu.Framebuffer(), w, h))

	c := emu.CPU()
	c.DumpRegisters(registers)
	fmt.Fprintf(registers, "DT=%02X ST=%02X\n", emu.DelayTimer(), emu.SoundTimer())
	fmt.Fprintf(registers, "stack=%03X\n", c.CallStack())

	state := "running"
	if s.paused {
		state = "paused"
	}
	fmt.Fprintf(status, "%s  %d Hz", state, emu.CPUHz())
	if emu.SoundEnabled() {
		fmt.Fprint(status, "  BEEP")
	}
	fmt.Fprintln(status)
	if s.fault != nil {
		fmt.Fprintf(status, "fault: %v\n", s.fault)
	}
	fmt.Fprintln(status, "keys 0-9 a-f | p pause | s step | r reset | q quit")
}
