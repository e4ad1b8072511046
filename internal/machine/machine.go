// Package machine composes the CHIP-8 components into a runnable
// virtual machine and owns the driver loop.
package machine

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/retroenv/retrogolib/log"

	"github.com/tuboc/chip8vm/internal/cpu"
	"github.com/tuboc/chip8vm/internal/display"
	"github.com/tuboc/chip8vm/internal/keypad"
	"github.com/tuboc/chip8vm/internal/memory"
)

const (
	// TimerFrequency is the cadence of the delay/sound timers and of
	// the frontend vblank, in Hz.
	TimerFrequency = 60

	// DefaultClockSpeed is the default instruction rate in Hz. It is
	// deliberately independent of TimerFrequency.
	DefaultClockSpeed = TimerFrequency * 8
)

// ErrShutdown is returned by a vblank hook to stop the machine without
// reporting an error, for example when the user closes the window.
var ErrShutdown = errors.New("machine: shutdown requested")

// VBlankFunc runs once per timer tick after the instructions of that
// tick have executed. The frontend uses it to pump input events and
// present the frame.
type VBlankFunc func(m *Machine) error

// Machine owns a CPU, memory, keypad and display and drives them at a
// fixed cadence. All component access is single-threaded: one cycle
// runs to completion before the next begins, and the vblank hook is
// called between cycles, never during one.
type Machine struct {
	cpu  *cpu.CPU
	mem  *memory.Memory
	keys *keypad.Keypad
	disp *display.Display

	rom    []byte
	logger *log.Logger

	clockSpeed int
	scale      int
	fb         display.Framebuffer
	vblank     VBlankFunc
	trace      bool
	paused     bool
}

// New builds a machine for the given ROM. The ROM is installed at the
// program offset with the font table below it; a ROM that does not fit
// the program space is rejected before the machine starts.
func New(rom []byte, opts ...Opt) (*Machine, error) {
	m := &Machine{
		rom:        rom,
		clockSpeed: DefaultClockSpeed,
		scale:      display.DefaultScale,
	}
	for _, opt := range opts {
		opt(m)
	}

	image, err := memory.BuildImage(rom)
	if err != nil {
		return nil, fmt.Errorf("loading ROM: %w", err)
	}

	if m.fb == nil {
		m.fb = display.NewBuffer(display.Width*m.scale, display.Height*m.scale)
	}

	m.mem = memory.New()
	m.mem.Load(image)
	m.keys = keypad.New()
	m.disp = display.New(m.fb, m.scale)
	m.cpu = cpu.New()

	if m.trace && m.logger != nil {
		m.cpu.Trace = func(pc, opcode uint16, asm string) {
			m.logger.Debug("exec",
				log.String("pc", fmt.Sprintf("%03X", pc)),
				log.String("opcode", fmt.Sprintf("%04X", opcode)),
				log.String("asm", asm),
			)
		}
	}

	return m, nil
}

// Keypad returns the input component for the frontend to feed.
func (m *Machine) Keypad() *keypad.Keypad {
	return m.keys
}

// Display returns the display component.
func (m *Machine) Display() *display.Display {
	return m.disp
}

// SoundActive reports whether the sound timer is running; the frontend
// beeps while it is.
func (m *Machine) SoundActive() bool {
	return m.cpu.SoundTimer() > 0
}

// SetPaused suspends or resumes instruction and timer progress. The
// vblank hook keeps running while paused so the frontend stays
// responsive.
func (m *Machine) SetPaused(paused bool) {
	m.paused = paused
}

// Paused reports whether the machine is paused.
func (m *Machine) Paused() bool {
	return m.paused
}

// StepOne executes a single instruction cycle. It backs step-mode
// debugging in the frontend and the tests.
func (m *Machine) StepOne() error {
	return m.cpu.Step(m.mem, m.keys, m.disp)
}

// Reset restores the machine to its power-on state with the same ROM.
func (m *Machine) Reset() {
	image, err := memory.BuildImage(m.rom)
	if err != nil {
		// New already validated the ROM.
		panic(err)
	}
	m.mem.Load(image)
	m.cpu.Reset()
	m.disp.Clear()
}

// Run drives the machine until the context is cancelled, the vblank
// hook requests shutdown or the CPU faults. Instructions execute at
// the configured clock speed; timers tick at TimerFrequency, derived
// from the same ticker by a clock divider, so the two cadences stay
// independent of each other. Timers are frozen while the CPU sits in
// the wait-for-key state.
func (m *Machine) Run(ctx context.Context) error {
	cyclesPerTick := m.clockSpeed / TimerFrequency
	if cyclesPerTick < 1 {
		cyclesPerTick = 1
	}

	if m.logger != nil {
		m.logger.Info("machine started",
			log.String("rom_size", fmt.Sprintf("%d", len(m.rom))),
			log.String("clock_hz", fmt.Sprintf("%d", m.clockSpeed)),
		)
	}

	ticker := time.NewTicker(time.Second / TimerFrequency)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}

		if !m.paused {
			for i := 0; i < cyclesPerTick; i++ {
				if err := m.cpu.Step(m.mem, m.keys, m.disp); err != nil {
					if m.logger != nil {
						m.logger.Error("machine fault", log.Err(err))
					}
					return err
				}
			}
			if !m.cpu.AwaitingKey() {
				m.cpu.TickTimers()
			}
		}

		if m.vblank != nil {
			if err := m.vblank(m); err != nil {
				if errors.Is(err, ErrShutdown) {
					if m.logger != nil {
						m.logger.Info("machine stopped")
					}
					return nil
				}
				return err
			}
		}
	}
}
