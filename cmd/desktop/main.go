package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/retroenv/retrogolib/log"

	"gochip8/pkg/beeper"
	"gochip8/pkg/config"
	"gochip8/pkg/emulator"
	"gochip8/pkg/peripherals"
	"gochip8/pkg/utils"
)

// maxFrameMs bounds the time a single frame may emulate, so that a stalled
// window does not trigger a long burst of catch-up cycles.
const maxFrameMs = 250

// frameClock converts wall-clock time between frames into whole
// milliseconds, carrying the fractional part to the next frame.
type frameClock struct {
	last  time.Time
	carry time.Duration
}

func (c *frameClock) elapsedMs(now time.Time) uint32 {
	if c.last.IsZero() {
		c.last = now
		return 0
	}
	c.carry += now.Sub(c.last)
	c.last = now

	ms := c.carry.Milliseconds()
	c.carry -= time.Duration(ms) * time.Millisecond
	if ms > maxFrameMs {
		ms = maxFrameMs
	}
	if ms < 0 {
		return 0
	}
	return uint32(ms)
}

type Game struct {
	machine *emulator.Machine
	logger  *log.Logger
	audio   emulator.AudioSink
	scale   int

	clock   frameClock
	paused  bool
	fault   error
	display *ebiten.Image // reused 64×32 canvas
}

func (g *Game) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyF5) {
		g.reset()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyP) {
		g.paused = !g.paused
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyF12) {
		g.screenshot()
	}

	// Key-up events are not delivered while the window is unfocused.
	if !ebiten.IsFocused() {
		g.machine.ReleaseKeys()
	}

	pressed := inpututil.AppendJustPressedKeys(nil)
	released := inpututil.AppendJustReleasedKeys(nil)
	for _, ev := range keyEvents(pressed, released) {
		if ev.down {
			g.machine.KeyDown(ev.key)
		} else {
			g.machine.KeyUp(ev.key)
		}
	}

	ms := g.clock.elapsedMs(time.Now())
	if !g.paused {
		g.advance(ms)
	}

	if g.audio != nil {
		if err := g.machine.Emulator().Present(nil, g.audio); err != nil {
			return fmt.Errorf("presenting audio: %w", err)
		}
	}
	return nil
}

// advance runs ms of emulation. A fault is logged once; the CPU stays parked
// on the faulting instruction and retries it every frame.
func (g *Game) advance(ms uint32) {
	err := g.machine.Advance(ms)
	if err != nil && g.fault == nil {
		g.logger.Error("CPU crashed during emulation", log.Err(err))
	}
	g.fault = err
}

func (g *Game) reset() {
	if err := g.machine.Reset(); err != nil {
		g.logger.Error("Resetting machine failed", log.Err(err))
		return
	}
	g.fault = nil
	g.logger.Info("Machine reset")
}

func (g *Game) screenshot() {
	name := fmt.Sprintf("chip8-%s.png", time.Now().Format("20060102-150405"))
	if err := g.machine.Emulator().Peripherals().Screen.SaveScreenshot(name, g.scale); err != nil {
		g.logger.Error("Saving screenshot failed", log.Err(err))
		return
	}
	g.logger.Info("Saved screenshot", log.String("file", name))
}

func (g *Game) Draw(screen *ebiten.Image) {
	if g.display == nil {
		g.display = ebiten.NewImage(peripherals.Width, peripherals.Height)
	}

	g.display.WritePixels(g.machine.Emulator().Peripherals().Screen.RGBA())

	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(float64(g.scale), float64(g.scale))
	screen.DrawImage(g.display, op)

	switch {
	case g.fault != nil:
		ebitenutil.DebugPrint(screen, "FAULT: "+g.fault.Error())
	case g.paused:
		ebitenutil.DebugPrint(screen, "PAUSED")
	}
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return peripherals.Width * g.scale, peripherals.Height * g.scale
}

func main() {
	hz := flag.Uint("hz", emulator.DefaultCPUHz, "CPU clock in Hz (at least 60)")
	seed := flag.Uint64("seed", emulator.DefaultSeed, "random number generator seed")
	scale := flag.Int("scale", 8, "window scale factor")
	mute := flag.Bool("mute", false, "disable the buzzer")
	debug := flag.Bool("debug", false, "enable debug logging")
	quiet := flag.Bool("quiet", false, "only log errors")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "usage: %s [options] FILE.ch8\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()

	logger := config.CreateLogger(*debug, *quiet)
	if flag.NArg() != 1 {
		flag.Usage()
		os.Exit(2)
	}
	if *scale < 1 {
		*scale = 1
	}

	if err := run(logger, flag.Arg(0), *hz, *seed, *scale, *mute); err != nil {
		logger.Fatal("Emulator failed", log.Err(err))
	}
}

func run(logger *log.Logger, romPath string, hz uint, seed uint64, scale int, mute bool) error {
	rom, err := utils.ReadROM(romPath)
	if err != nil {
		return err
	}

	// Faults repeat every frame while parked; Game.advance logs them once.
	opts, err := config.EmulatorOptions(hz, seed, nil)
	if err != nil {
		return err
	}
	opts.InvertY = false
	machine, err := emulator.NewMachine(opts)
	if err != nil {
		return fmt.Errorf("creating machine: %w", err)
	}
	if err := machine.Init(rom); err != nil {
		return fmt.Errorf("loading rom: %w", err)
	}
	logger.Info("Loaded ROM",
		log.String("file", romPath),
		log.Int("bytes", len(rom)),
		log.Int("hz", int(machine.Emulator().CPUHz())))

	game := &Game{machine: machine, logger: logger, scale: scale}

	if !mute {
		tone := beeper.NewTone(beeper.DefaultSampleRate)
		out, err := newOtoOutput(tone)
		if err != nil {
			logger.Warn("Audio unavailable, running muted", log.Err(err))
		} else {
			defer func() { _ = out.Close() }()
			game.audio = tone
		}
	}

	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetWindowSize(peripherals.Width*scale, peripherals.Height*scale)
	ebiten.SetWindowTitle("gochip8")

	if err := ebiten.RunGame(game); err != nil && !errors.Is(err, ebiten.Termination) {
		return fmt.Errorf("running game: %w", err)
	}
	return nil
}
