package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"

	"github.com/bradleyjkemp/memviz"
	"github.com/pkg/profile"
	"golang.org/x/term"

	"github.com/nevisdale/gbcore/internal/gb"
	"github.com/nevisdale/gbcore/internal/logger"
	"github.com/nevisdale/gbcore/internal/script"
	"github.com/nevisdale/gbcore/internal/statsview"
	"github.com/nevisdale/gbcore/internal/ui"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

// run returns the exit code. Everything that has to be flushed on the way out
// is deferred here, so nothing in it may call os.Exit or log.Fatal.
func run(args []string) int {
	flags := flag.NewFlagSet("gbcore", flag.ContinueOnError)
	romFile := flags.String("rom", "", "cartridge ROM image")
	bootFile := flags.String("boot", "", "256 byte DMG boot ROM. without it the machine starts after the boot sequence")
	saveFile := flags.String("save", "", "battery RAM file. loaded at start, written on exit")
	headless := flags.Bool("headless", false, "run without a window. q quits, p pauses, s prints the machine state")
	frames := flags.Uint64("frames", 0, "stop after this many frames (headless and script only). zero runs forever")
	scriptFile := flags.String("script", "", "run a Lua script against the machine and exit")
	trace := flags.Bool("trace", false, "log every instruction. very slow")
	echoLog := flags.Bool("log", false, "echo the log to stderr")
	profileMode := flags.String("profile", "", "write a profile to the current directory: cpu, mem or trace")
	stats := flags.Bool("statsview", false, "serve runtime statistics over HTTP")
	statsAddr := flags.String("statsaddr", statsview.Address, "listening address for -statsview")
	statsInterval := flags.Int("statsinterval", 2000, "milliseconds between -statsview samples")
	memvizFile := flags.String("memviz", "", "write a graphviz dot file of the machine state on exit")
	if err := flags.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}

	if *romFile == "" {
		flags.Usage()
		return 2
	}

	if *echoLog {
		logger.SetEcho(os.Stderr)
	}

	switch *profileMode {
	case "":
	case "cpu":
		defer profile.Start(profile.CPUProfile, profile.ProfilePath(".")).Stop()
	case "mem":
		defer profile.Start(profile.MemProfile, profile.ProfilePath(".")).Stop()
	case "trace":
		defer profile.Start(profile.TraceProfile, profile.ProfilePath(".")).Stop()
	default:
		log.Printf("unknown profile mode %q\n", *profileMode)
		return 2
	}

	if *stats {
		stop := statsview.Launch(os.Stderr,
			statsview.WithAddress(*statsAddr),
			statsview.WithInterval(*statsInterval),
		)
		defer stop()
	}

	cfg := gb.Config{
		Serial: os.Stdout,
		Trace:  *trace,
	}
	if *bootFile != "" {
		data, err := os.ReadFile(*bootFile)
		if err != nil {
			log.Printf("couldn't read the boot ROM: %s\n", err)
			return 1
		}
		cfg.BootROM = data
	}

	bus, err := gb.NewBus(cfg)
	if err != nil {
		log.Printf("couldn't create the machine: %s\n", err)
		return 1
	}

	cart, err := gb.LoadCartFromFile(*romFile)
	if err != nil {
		log.Printf("couldn't load the cartridge: %s\n", err)
		return 1
	}
	bus.LoadCart(cart)

	if *saveFile != "" {
		if err := loadSave(bus, *saveFile); err != nil {
			log.Printf("couldn't load the save: %s\n", err)
			return 1
		}
	}

	maxCycles := *frames * gb.CyclesPerFrame
	switch {
	case *scriptFile != "":
		err = runScript(bus, *scriptFile, maxCycles)
	case *headless:
		err = runHeadless(bus, maxCycles)
	default:
		err = ui.RunUI(ui.New(bus))
	}

	if *saveFile != "" && cart.Battery() {
		if err := os.WriteFile(*saveFile, bus.ExternalRAM(), 0o644); err != nil {
			logger.Logf("main", "couldn't write the save: %v", err)
		}
	}

	if *memvizFile != "" {
		if err := writeMemviz(bus, *memvizFile); err != nil {
			logger.Logf("main", "couldn't write the memviz graph: %v", err)
		}
	}

	if err != nil {
		log.Println(err)
		return 1
	}
	return 0
}

func loadSave(bus *gb.Bus, path string) error {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return err
	}
	return bus.RestoreExternalRAM(data)
}

func runScript(bus *gb.Bus, path string, maxCycles uint64) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	s := script.New(bus, os.Stdout)
	defer s.Close()
	s.SetContext(ctx)
	s.MaxCycles = maxCycles
	return s.DoFile(path)
}

func runHeadless(bus *gb.Bus, maxCycles uint64) error {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	runner := gb.NewRunner(bus)
	runner.MaxCycles = maxCycles

	// raw mode so single key presses reach us without a newline
	fd := int(os.Stdin.Fd())
	if term.IsTerminal(fd) {
		state, err := term.MakeRaw(fd)
		if err != nil {
			return fmt.Errorf("couldn't put the terminal in raw mode: %w", err)
		}
		defer term.Restore(fd, state)
		go readKeys(ctx, cancel, runner)
	}

	err := runner.Run(ctx)
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

func readKeys(ctx context.Context, cancel context.CancelFunc, runner *gb.Runner) {
	buf := make([]byte, 1)
	paused := false
	for {
		if _, err := os.Stdin.Read(buf); err != nil {
			return
		}
		switch buf[0] {
		case 'q', 3: // ctrl-c does not raise a signal in raw mode
			cancel()
			return
		case 'p':
			var err error
			if paused {
				err = runner.Resume(ctx)
			} else {
				err = runner.Pause(ctx)
			}
			if err != nil {
				return
			}
			paused = !paused
		case 's':
			var status string
			err := runner.Do(ctx, func(b *gb.Bus) {
				status = b.DebugInfo().StatusString()
			})
			if err != nil {
				return
			}
			// raw mode needs explicit carriage returns
			for _, line := range strings.Split(strings.TrimSuffix(status, "\n"), "\n") {
				fmt.Fprintf(os.Stderr, "%s\r\n", line)
			}
		}
	}
}

func writeMemviz(bus *gb.Bus, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	info := bus.DebugInfo()
	memviz.Map(f, &info)
	return nil
}
