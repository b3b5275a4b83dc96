package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/jroimartin/gocui"
	"github.com/retroenv/retrogolib/log"

	"gochip8/pkg/config"
	"gochip8/pkg/emulator"
	"gochip8/pkg/peripherals"
	"gochip8/pkg/utils"
)

const hexKeys = "0123456789abcdef"

func main() {
	hz := flag.Uint("hz", emulator.DefaultCPUHz, "CPU clock in Hz (at least 60)")
	seed := flag.Uint64("seed", emulator.DefaultSeed, "random number generator seed")
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

	if err := run(logger, flag.Arg(0), *hz, *seed); err != nil {
		logger.Fatal("Console failed", log.Err(err))
	}
}

func run(logger *log.Logger, romPath string, hz uint, seed uint64) error {
	rom, err := utils.ReadROM(romPath)
	if err != nil {
		return err
	}

	// The terminal belongs to gocui while it runs; faults are shown in the
	// status view instead of the log.
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
	logger.Debug("Loaded ROM", log.String("file", romPath), log.Int("bytes", len(rom)))

	g, err := gocui.NewGui(gocui.OutputNormal)
	if err != nil {
		return fmt.Errorf("creating gui: %w", err)
	}
	defer g.Close()

	s := newSession(machine)
	g.SetManagerFunc(layout)
	if err := bindKeys(g, s); err != nil {
		return err
	}

	stop := make(chan struct{})
	defer close(stop)
	go emulate(g, s, stop)

	if err := g.MainLoop(); err != nil && !errors.Is(err, gocui.ErrQuit) {
		return fmt.Errorf("running gui: %w", err)
	}
	return nil
}

// emulate advances the machine one host frame per tick and redraws.
func emulate(g *gocui.Gui, s *session, stop <-chan struct{}) {
	ticker := time.NewTicker(config.FrameMs * time.Millisecond)
	defer ticker.Stop()
	for {
		select {
		case now := <-ticker.C:
			s.frame(config.FrameMs, now)
			g.Update(func(g *gocui.Gui) error {
				return redraw(g, s)
			})
		case <-stop:
			return
		}
	}
}

func redraw(g *gocui.Gui, s *session) error {
	screen, err := g.View("screen")
	if err != nil {
		return err
	}
	registers, err := g.View("registers")
	if err != nil {
		return err
	}
	status, err := g.View("status")
	if err != nil {
		return err
	}
	screen.Clear()
	registers.Clear()
	status.Clear()
	s.render(screen, registers, status)
	return nil
}

func bindKeys(g *gocui.Gui, s *session) error {
	bind := func(key interface{}, handler func(*gocui.Gui, *gocui.View) error) error {
		if err := g.SetKeybinding("", key, gocui.ModNone, handler); err != nil {
			return fmt.Errorf("binding key %v: %w", key, err)
		}
		return nil
	}

	for i, r := range hexKeys {
		key := uint8(i)
		if err := bind(r, func(*gocui.Gui, *gocui.View) error {
			s.press(key, time.Now())
			return nil
		}); err != nil {
			return err
		}
	}

	if err := bind(gocui.KeyCtrlC, quit); err != nil {
		return err
	}
	if err := bind('q', quit); err != nil {
		return err
	}
	if err := bind('p', func(*gocui.Gui, *gocui.View) error {
		s.togglePause()
		return nil
	}); err != nil {
		return err
	}
	if err := bind('s', func(g *gocui.Gui, _ *gocui.View) error {
		s.step()
		return redraw(g, s)
	}); err != nil {
		return err
	}
	return bind('r', func(g *gocui.Gui, _ *gocui.View) error {
		if err := s.reset(); err != nil {
			return err
		}
		return redraw(g, s)
	})
}

// gocui layout: the screen on top, registers and status underneath.
func layout(g *gocui.Gui) error {
	screenW := peripherals.Width + 1
	screenH := peripherals.Height/2 + 1

	if v, err := g.SetView("screen", 0, 0, screenW, screenH); err != nil {
		if !errors.Is(err, gocui.ErrUnknownView) {
			return err
		}
		v.Title = "CHIP-8"
	}

	if v, err := g.SetView("registers", screenW+1, 0, screenW+30, screenH); err != nil {
		if !errors.Is(err, gocui.ErrUnknownView) {
			return err
		}
		v.Title = "Registers"
	}

	if v, err := g.SetView("status", 0, screenH+1, screenW+30, screenH+6); err != nil {
		if !errors.Is(err, gocui.ErrUnknownView) {
			return err
		}
		v.Title = "Status"
		v.Wrap = true
	}
	return nil
}

func quit(*gocui.Gui, *gocui.View) error {
	return gocui.ErrQuit
}
