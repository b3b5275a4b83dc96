//go:build !js

package main

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"gochip8/pkg/asm"
	"gochip8/pkg/beeper"
	"gochip8/pkg/config"
	"gochip8/pkg/emulator"
	"gochip8/pkg/peripherals"
	"gochip8/pkg/termview"
	"gochip8/pkg/utils"
)

var errInvalidKey = errors.New("invalid key")

type headlessConfig struct {
	romPath string
	ms      uint32
	keys    []uint8
	pngPath string
	scale   int
	wavPath string
	ascii   bool
	options emulator.Options
}

// parseKeys parses a comma separated list of hex keypad keys.
func parseKeys(s string) ([]uint8, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}
	var keys []uint8
	for _, field := range strings.Split(s, ",") {
		field = strings.TrimSpace(field)
		v, err := strconv.ParseUint(field, 16, 8)
		if err != nil || v > 0xF {
			return nil, fmt.Errorf("%w: %q", errInvalidKey, field)
		}
		keys = append(keys, uint8(v))
	}
	return keys, nil
}

func disassembleFile(path string, w io.Writer) error {
	rom, err := utils.ReadROM(path)
	if err != nil {
		return err
	}
	return asm.WriteListing(w, asm.Disassemble(rom, peripherals.ProgramStart))
}

// runHeadless runs a ROM without a window for cfg.ms of emulated time in host
// frames, then writes the requested artifacts. A CPU fault ends the run
// early; the artifacts still reflect the machine state at the fault.
func runHeadless(cfg headlessConfig, stdout io.Writer) error {
	rom, err := utils.ReadROM(cfg.romPath)
	if err != nil {
		return err
	}

	opts := cfg.options
	opts.InvertY = false
	emu, err := emulator.NewWithOptions(opts)
	if err != nil {
		return fmt.Errorf("creating emulator: %w", err)
	}
	if err := emu.LoadROM(rom); err != nil {
		return fmt.Errorf("loading rom: %w", err)
	}
	for _, k := range cfg.keys {
		emu.KeyDown(k)
	}

	var recorder *beeper.WAVRecorder
	if cfg.wavPath != "" {
		recorder = beeper.NewWAVRecorder(beeper.DefaultSampleRate)
	}

	runErr := advanceFrames(emu, cfg.ms, recorder)

	if cfg.ascii {
		if err := emu.Present(&termview.Sink{W: stdout}, nil); err != nil {
			return err
		}
	}
	if cfg.pngPath != "" {
		if err := emu.Peripherals().Screen.SaveScreenshot(cfg.pngPath, cfg.scale); err != nil {
			return err
		}
	}
	if recorder != nil {
		if err := recorder.Save(cfg.wavPath); err != nil {
			return err
		}
	}

	fmt.Fprintf(stdout, "run complete (%s):\n%s", cfg.romPath, emu.CPU())
	return runErr
}

// advanceFrames runs total milliseconds in frames of config.FrameMs, feeding
// the recorder the buzzer state of each frame.
func advanceFrames(emu *emulator.Emulator, total uint32, recorder *beeper.WAVRecorder) error {
	for total > 0 {
		frame := min(total, uint32(config.FrameMs))
		total -= frame

		err := emu.AdvanceMs(frame)
		if recorder != nil {
			if perr := emu.Present(nil, recorder); perr != nil {
				return perr
			}
			recorder.Record(frame)
		}
		if err != nil {
			return err
		}
	}
	return nil
}
