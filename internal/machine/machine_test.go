package machine

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/tuboc/chip8vm/internal/cpu"
	"github.com/tuboc/chip8vm/internal/display"
	"github.com/tuboc/chip8vm/internal/memory"
)

func TestNewRejectsOversizedROM(t *testing.T) {
	_, err := New(make([]byte, memory.MaxROMSize+1))
	assert.ErrorIs(t, err, memory.ErrROMTooLarge)
}

func TestStepOneFaultsOnUnknownOpcode(t *testing.T) {
	// LD V0,#0A; LD V1,#05; ADD V0,V1; then a zero word.
	m, err := New([]byte{0x60, 0x0A, 0x61, 0x05, 0x80, 0x14, 0x00, 0x00})
	assert.NoError(t, err)

	for i := 0; i < 3; i++ {
		assert.NoError(t, m.StepOne())
	}

	var opErr *cpu.OpcodeError
	assert.ErrorAs(t, m.StepOne(), &opErr)
	assert.Equal(t, uint16(0x0000), opErr.Opcode)
	assert.Equal(t, uint16(0x206), opErr.PC)
}

func TestRunStopsOnFault(t *testing.T) {
	m, err := New([]byte{0x00, 0x00}, WithClockSpeed(6000))
	assert.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	var opErr *cpu.OpcodeError
	assert.ErrorAs(t, m.Run(ctx), &opErr)
}

func TestRunStopsOnContextCancel(t *testing.T) {
	// JP 0x200 spins forever.
	m, err := New([]byte{0x12, 0x00})
	assert.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.ErrorIs(t, m.Run(ctx), context.Canceled)
}

func TestVBlankShutdownStopsCleanly(t *testing.T) {
	m, err := New([]byte{0x12, 0x00}, WithVBlank(func(*Machine) error {
		return ErrShutdown
	}))
	assert.NoError(t, err)

	assert.NoError(t, m.Run(context.Background()))
}

func TestDrawReachesFramebuffer(t *testing.T) {
	// LD V0,#00; LD F,V0; DRW V0,V0,5 paints the "0" glyph.
	fb := display.NewBuffer(display.Width*2, display.Height*2)
	m, err := New([]byte{0x60, 0x00, 0xF0, 0x29, 0xD0, 0x05},
		WithFramebuffer(fb), WithDisplayScale(2))
	assert.NoError(t, err)

	for i := 0; i < 3; i++ {
		assert.NoError(t, m.StepOne())
	}

	// Logical pixel (0,0) projects to a 2x2 device block.
	assert.True(t, fb.Pixel(0, 0))
	assert.True(t, fb.Pixel(1, 1))
	assert.True(t, m.Display().Pixel(0, 0))
}

func TestPausedSkipsExecution(t *testing.T) {
	m, err := New([]byte{0x00, 0x00}, // would fault immediately
		WithClockSpeed(6000),
		WithVBlank(func(*Machine) error { return ErrShutdown }))
	assert.NoError(t, err)

	m.SetPaused(true)
	assert.True(t, m.Paused())

	// The fault opcode never executes while paused, so the run ends
	// via the vblank shutdown instead of the opcode error.
	assert.NoError(t, m.Run(context.Background()))
}

func TestResetRestoresPowerOnState(t *testing.T) {
	// LD V0,#0A; JP 0x200
	m, err := New([]byte{0x60, 0x0A, 0x12, 0x00})
	assert.NoError(t, err)

	assert.NoError(t, m.StepOne())
	m.Display().Draw(0, 0, []byte{0xFF})

	m.Reset()

	assert.False(t, m.Display().Pixel(0, 0))
	assert.False(t, m.SoundActive())
	// Execution restarts at the first instruction.
	assert.NoError(t, m.StepOne())
}

func TestSoundActiveFollowsSoundTimer(t *testing.T) {
	// LD V0,#02; LD ST,V0
	m, err := New([]byte{0x60, 0x02, 0xF0, 0x18})
	assert.NoError(t, err)

	assert.False(t, m.SoundActive())
	assert.NoError(t, m.StepOne())
	assert.NoError(t, m.StepOne())
	assert.True(t, m.SoundActive())
}
