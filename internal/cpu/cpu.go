// Package cpu implements the CHIP-8 processor: architectural registers
// and the fetch/decode/execute engine.
package cpu

import (
	"errors"
	"fmt"
	"math/rand"

	"github.com/tuboc/chip8vm/internal/display"
	"github.com/tuboc/chip8vm/internal/keypad"
	"github.com/tuboc/chip8vm/internal/memory"
)

// StackDepth is the maximum number of nested subroutine calls.
const StackDepth = 16

var (
	// ErrStackOverflow is returned when a CALL would exceed StackDepth
	// nested subroutines.
	ErrStackOverflow = errors.New("cpu: call stack overflow")

	// ErrStackUnderflow is returned when RET executes with an empty
	// call stack.
	ErrStackUnderflow = errors.New("cpu: call stack underflow")
)

// OpcodeError reports an instruction the machine does not define.
// There is no recovery; the run stops with the offending opcode and
// its address preserved for diagnostics.
type OpcodeError struct {
	Opcode uint16
	PC     uint16
}

func (e *OpcodeError) Error() string {
	return fmt.Sprintf("cpu: unknown opcode %04X at %03X", e.Opcode, e.PC)
}

// TraceFunc receives one entry per executed instruction. pc is the
// address the opcode was fetched from.
type TraceFunc func(pc, opcode uint16, asm string)

// CPU holds the architectural register state.
//
// VF doubles as the flag output of the carry, borrow, shift and
// collision instructions.
type CPU struct {
	v     [16]uint8
	i     uint16
	pc    uint16
	sp    uint8
	stack [StackDepth]uint16
	dt    uint8
	st    uint8

	// wait-for-key state: while waiting is set no instruction is
	// fetched, Step only polls the keypad for the press that stores
	// into waitReg and resumes execution.
	waiting bool
	waitReg uint8

	// Rand produces the random byte consumed by Cxkk. Tests replace
	// it with a deterministic source.
	Rand func() uint8

	// Trace, if set, is called after every executed instruction.
	Trace TraceFunc
}

// New returns a CPU in the architectural reset state.
func New() *CPU {
	c := &CPU{
		Rand: func() uint8 { return uint8(rand.Uint32()) },
	}
	c.Reset()
	return c
}

// Reset restores the architectural zero state with PC at the program
// start address.
func (c *CPU) Reset() {
	c.v = [16]uint8{}
	c.i = 0
	c.pc = memory.ProgramOffset
	c.sp = 0
	c.stack = [StackDepth]uint16{}
	c.dt = 0
	c.st = 0
	c.waiting = false
	c.waitReg = 0
}

// AwaitingKey reports whether the processor is suspended in the Fx0A
// wait-for-key state. While suspended nothing else advances, including
// the timers; the driver loop checks this before ticking them.
func (c *CPU) AwaitingKey() bool {
	return c.waiting
}

// SoundTimer returns the current ST value. The frontend beeps while it
// is nonzero.
func (c *CPU) SoundTimer() uint8 {
	return c.st
}

// TickTimers decrements the delay and sound timers toward zero. It is
// driven by the machine loop at the timer cadence, conventionally
// 60 Hz, independent of the instruction rate.
func (c *CPU) TickTimers() {
	if c.dt > 0 {
		c.dt--
	}
	if c.st > 0 {
		c.st--
	}
}

// Step runs one fetch/decode/execute cycle against the collaborators.
// PC is advanced past the fetched opcode before execution, so jumps,
// calls and returns overwrite an already-advanced PC.
//
// In the wait-for-key state Step does not fetch: it polls the keypad
// and resumes execution on the first pressed key.
func (c *CPU) Step(mem *memory.Memory, keys *keypad.Keypad, disp *display.Display) error {
	if c.waiting {
		key, ok := keys.FirstPressed()
		if !ok {
			return nil
		}
		c.v[c.waitReg] = key
		c.waiting = false
		return nil
	}

	pc := c.pc
	op := mem.ReadUint16(pc)
	c.pc += 2

	asm, err := c.exec(op, mem, keys, disp)
	if err != nil {
		return err
	}
	if c.Trace != nil {
		c.Trace(pc, op, asm)
	}
	return nil
}

func (c *CPU) setFlag(b bool) {
	if b {
		c.v[0xF] = 1
	} else {
		c.v[0xF] = 0
	}
}

func (c *CPU) push(addr uint16) error {
	if c.sp >= StackDepth {
		return ErrStackOverflow
	}
	c.stack[c.sp] = addr
	c.sp++
	return nil
}

func (c *CPU) pop() (uint16, error) {
	if c.sp == 0 {
		return 0, ErrStackUnderflow
	}
	c.sp--
	return c.stack[c.sp], nil
}
