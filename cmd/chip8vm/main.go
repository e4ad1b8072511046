// Package main implements the chip8vm command, a CHIP-8 virtual
// machine with an SDL2 frontend.
package main

import (
	"context"
	"errors"
	"flag"
	"os"
	"runtime"

	"github.com/retroenv/retrogolib/app"
	"github.com/retroenv/retrogolib/log"

	"github.com/tuboc/chip8vm/internal/machine"
	"github.com/tuboc/chip8vm/internal/sdlfront"
)

var (
	filename   = flag.String("f", "", "CHIP-8 ROM file path")
	stepMode   = flag.Bool("s", false, "start in step mode")
	scale      = flag.Int("scale", 5, "display scale factor")
	clockSpeed = flag.Int("cpu", machine.DefaultClockSpeed, "instruction rate in Hz")
	debug      = flag.Bool("debug", false, "enable instruction trace logging")
	quiet      = flag.Bool("q", false, "only log errors")
)

func init() {
	// SDL requires its calls to happen on the main OS thread.
	runtime.LockOSThread()
}

func main() {
	flag.Parse()
	logger := createLogger(*debug, *quiet)

	if *filename == "" {
		flag.Usage()
		os.Exit(1)
	}

	if err := run(app.Context(), logger); err != nil {
		logger.Fatal("emulation failed", log.Err(err))
	}
}

func run(ctx context.Context, logger *log.Logger) error {
	rom, err := os.ReadFile(*filename)
	if err != nil {
		return err
	}

	front, err := sdlfront.New(*scale, *stepMode)
	if err != nil {
		return err
	}
	defer front.Close()

	opts := []machine.Opt{
		machine.WithFramebuffer(front),
		machine.WithVBlank(front.VBlank),
		machine.WithLogger(logger),
		machine.WithDisplayScale(*scale),
		machine.WithClockSpeed(*clockSpeed),
	}
	if *debug {
		opts = append(opts, machine.WithTrace())
	}

	m, err := machine.New(rom, opts...)
	if err != nil {
		return err
	}

	logger.Info("running ROM", log.String("file", *filename))

	if err := m.Run(ctx); err != nil {
		if errors.Is(err, context.Canceled) {
			logger.Info("interrupted")
			return nil
		}
		return err
	}
	return nil
}

func createLogger(debug, quiet bool) *log.Logger {
	cfg := log.DefaultConfig()
	if debug {
		cfg.Level = log.DebugLevel
	} else if quiet {
		cfg.Level = log.ErrorLevel
	}
	return log.NewWithConfig(cfg)
}
