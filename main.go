//go:build !js

package main

import (
	"flag"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/retroenv/retrogolib/log"

	"gochip8/pkg/asm"
	"gochip8/pkg/config"
	"gochip8/pkg/emulator"
)

func main() {
	inPath := flag.String("in", "", "input assembly file path")
	outPath := flag.String("out", "", "output ROM file path (default: input with .ch8 extension)")
	runProgram := flag.Bool("run", false, "run the assembled ROM headless")
	runBinPath := flag.String("run-bin", "", "run an existing ROM headless")
	disasmPath := flag.String("disasm", "", "print a disassembly listing of a ROM")

	ms := flag.Uint("ms", 1000, "milliseconds of emulated time for a headless run")
	keys := flag.String("keys", "", "comma separated hex keys held down during the run, e.g. 5,A")
	pngPath := flag.String("png", "", "write the final screen to a PNG file")
	scale := flag.Int("scale", 8, "PNG scale factor")
	wavPath := flag.String("wav", "", "record the buzzer to a WAV file")
	ascii := flag.Bool("ascii", false, "print the final screen as text")

	hz := flag.Uint("hz", emulator.DefaultCPUHz, "CPU clock in Hz (at least 60)")
	seed := flag.Uint64("seed", emulator.DefaultSeed, "random number generator seed")
	debug := flag.Bool("debug", false, "enable debug logging")
	quiet := flag.Bool("quiet", false, "only log errors")
	flag.Parse()

	logger := config.CreateLogger(*debug, *quiet)

	if *runProgram && *runBinPath != "" {
		fmt.Fprintln(os.Stderr, "use either -run or -run-bin, not both")
		os.Exit(2)
	}

	if *disasmPath != "" {
		if err := disassembleFile(*disasmPath, os.Stdout); err != nil {
			logger.Fatal("Disassembly failed", log.Err(err))
		}
	}

	assembledOutput := ""
	if *inPath != "" {
		output := *outPath
		if output == "" {
			output = defaultOutputPath(*inPath)
		}
		size, err := assembleFile(*inPath, output)
		if err != nil {
			logger.Fatal("Assembly failed", log.Err(err))
		}
		logger.Info("Assembled ROM", log.String("file", output), log.Int("bytes", size))
		assembledOutput = output
	}

	if *inPath == "" && *runBinPath == "" && *disasmPath == "" && !*runProgram {
		fmt.Fprintln(os.Stderr, "nothing to do: provide -in to assemble, -run to run assembled output, -run-bin <file> to run an existing ROM or -disasm <file>")
		flag.Usage()
		os.Exit(2)
	}

	runTarget := ""
	switch {
	case *runBinPath != "":
		runTarget = *runBinPath
	case *runProgram:
		if assembledOutput == "" {
			fmt.Fprintln(os.Stderr, "-run requires -in, or use -run-bin <file>")
			os.Exit(2)
		}
		runTarget = assembledOutput
	default:
		return
	}

	held, err := parseKeys(*keys)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	if uint64(*ms) > math.MaxUint32 {
		fmt.Fprintf(os.Stderr, "-ms %d is out of range\n", *ms)
		os.Exit(2)
	}

	options, err := config.EmulatorOptions(*hz, *seed, logger)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	cfg := headlessConfig{
		romPath: runTarget,
		ms:      uint32(*ms),
		keys:    held,
		pngPath: *pngPath,
		scale:   *scale,
		wavPath: *wavPath,
		ascii:   *ascii,
		options: options,
	}
	if err := runHeadless(cfg, os.Stdout); err != nil {
		logger.Error("Run failed", log.String("file", runTarget), log.Err(err))
		os.Exit(1)
	}
}

func defaultOutputPath(inPath string) string {
	ext := filepath.Ext(inPath)
	if ext == "" {
		return inPath + ".ch8"
	}
	return strings.TrimSuffix(inPath, ext) + ".ch8"
}

// assembleFile assembles the source at inPath into a ROM at outPath and
// returns the ROM size.
func assembleFile(inPath, outPath string) (int, error) {
	source, err := os.ReadFile(inPath)
	if err != nil {
		return 0, fmt.Errorf("reading source: %w", err)
	}
	code, _, err := asm.Assemble(string(source))
	if err != nil {
		return 0, err
	}
	if err := os.WriteFile(outPath, code, 0o644); err != nil {
		return 0, fmt.Errorf("writing rom: %w", err)
	}
	return len(code), nil
}
