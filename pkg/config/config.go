// Package config handles logger setup and the defaults shared by the front ends.
package config

import (
	"fmt"
	"math"

	"github.com/retroenv/retrogolib/log"

	"gochip8/pkg/emulator"
)

// FrameMs is the host frame period the front ends advance the emulator by.
const FrameMs = 16

// CreateLogger creates a logger with appropriate settings
func CreateLogger(debug, quiet bool) *log.Logger {
	cfg := log.DefaultConfig()
	if debug {
		cfg.Level = log.DebugLevel
	} else if quiet {
		cfg.Level = log.ErrorLevel
	}
	return log.NewWithConfig(cfg)
}

// EmulatorOptions returns options for the given clock, seed and logger. The
// seed is used as given, zero included. Clocks that do not fit the emulator's
// 32-bit rate are rejected rather than truncated.
func EmulatorOptions(hz uint, seed uint64, logger *log.Logger) (emulator.Options, error) {
	if uint64(hz) > math.MaxUint32 {
		return emulator.Options{}, fmt.Errorf("%w: %d Hz is out of range", emulator.ErrInvalidClock, hz)
	}
	opts := emulator.DefaultOptions()
	opts.CPUHz = uint32(hz)
	opts.Seed = seed
	opts.Logger = logger
	return opts, nil
}
