package machine

import (
	"github.com/retroenv/retrogolib/log"

	"github.com/tuboc/chip8vm/internal/display"
)

// Opt modifies a machine during construction.
type Opt func(m *Machine)

// WithFramebuffer sets the output device the display projects onto.
// Without it the machine renders into an in-memory buffer.
func WithFramebuffer(fb display.Framebuffer) Opt {
	return func(m *Machine) {
		m.fb = fb
	}
}

// WithLogger sets the logger for lifecycle and trace output.
func WithLogger(logger *log.Logger) Opt {
	return func(m *Machine) {
		m.logger = logger
	}
}

// WithClockSpeed sets the instruction rate in Hz.
func WithClockSpeed(hz int) Opt {
	return func(m *Machine) {
		if hz > 0 {
			m.clockSpeed = hz
		}
	}
}

// WithDisplayScale sets the device-pixel block size of one logical
// pixel.
func WithDisplayScale(scale int) Opt {
	return func(m *Machine) {
		if scale > 0 {
			m.scale = scale
		}
	}
}

// WithVBlank sets the hook that runs once per timer tick, after that
// tick's instructions. Returning ErrShutdown stops the machine
// cleanly.
func WithVBlank(fn VBlankFunc) Opt {
	return func(m *Machine) {
		m.vblank = fn
	}
}

// WithTrace enables per-instruction debug logging through the
// configured logger.
func WithTrace() Opt {
	return func(m *Machine) {
		m.trace = true
	}
}
