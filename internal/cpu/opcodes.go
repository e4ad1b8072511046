package cpu

import (
	"fmt"

	"github.com/tuboc/chip8vm/internal/display"
	"github.com/tuboc/chip8vm/internal/keypad"
	"github.com/tuboc/chip8vm/internal/memory"
)

// exec decodes and executes a single opcode and returns its mnemonic.
//
// Dispatch is by bit fields only: the high nibble selects the
// instruction family, and inside families that share it the invariant
// low nibble or low byte selects the operation. The register-index
// bits in the middle never take part in dispatch, so an opcode is
// either fully recognized or reported as unknown.
func (c *CPU) exec(op uint16, mem *memory.Memory, keys *keypad.Keypad, disp *display.Display) (string, error) {
	nnn := op & 0x0FFF
	kk := uint8(op & 0x00FF)
	x := uint8(op>>8) & 0x0F
	y := uint8(op>>4) & 0x0F
	n := uint8(op) & 0x0F

	unknown := func() (string, error) {
		return "", &OpcodeError{Opcode: op, PC: c.pc - 2}
	}

	switch op >> 12 {
	case 0x0:
		switch op {
		case 0x00E0: // CLS
			disp.Clear()
			return "CLS", nil

		case 0x00EE: // RET
			addr, err := c.pop()
			if err != nil {
				return "", err
			}
			c.pc = addr
			return "RET", nil

		default:
			// 0nnn machine code routines are not supported.
			return unknown()
		}

	case 0x1: // 1nnn JP addr
		c.pc = nnn
		return fmt.Sprintf("JP   %03X", nnn), nil

	case 0x2: // 2nnn CALL addr
		if err := c.push(c.pc); err != nil {
			return "", err
		}
		c.pc = nnn
		return fmt.Sprintf("CALL %03X", nnn), nil

	case 0x3: // 3xkk SE Vx, byte
		if c.v[x] == kk {
			c.pc += 2
		}
		return fmt.Sprintf("SE   V%X,#%02X", x, kk), nil

	case 0x4: // 4xkk SNE Vx, byte
		if c.v[x] != kk {
			c.pc += 2
		}
		return fmt.Sprintf("SNE  V%X,#%02X", x, kk), nil

	case 0x5: // 5xy0 SE Vx, Vy
		if n != 0 {
			return unknown()
		}
		if c.v[x] == c.v[y] {
			c.pc += 2
		}
		return fmt.Sprintf("SE   V%X,V%X", x, y), nil

	case 0x6: // 6xkk LD Vx, byte
		c.v[x] = kk
		return fmt.Sprintf("LD   V%X,#%02X", x, kk), nil

	case 0x7: // 7xkk ADD Vx, byte - the flag is not touched
		c.v[x] += kk
		return fmt.Sprintf("ADD  V%X,#%02X", x, kk), nil

	case 0x8:
		return c.execArithmetic(op, x, y, n)

	case 0x9: // 9xy0 SNE Vx, Vy
		if n != 0 {
			return unknown()
		}
		if c.v[x] != c.v[y] {
			c.pc += 2
		}
		return fmt.Sprintf("SNE  V%X,V%X", x, y), nil

	case 0xA: // Annn LD I, addr
		c.i = nnn
		return fmt.Sprintf("LD   I,#%03X", nnn), nil

	case 0xB: // Bnnn JP V0, addr
		c.pc = nnn + uint16(c.v[0])
		return fmt.Sprintf("JP   V0,#%03X", nnn), nil

	case 0xC: // Cxkk RND Vx, byte
		c.v[x] = c.Rand() & kk
		return fmt.Sprintf("RND  V%X,#%02X", x, kk), nil

	case 0xD: // Dxyn DRW Vx, Vy, nibble
		sprite := make([]byte, n)
		for row := range sprite {
			sprite[row] = mem.ReadByte(c.i + uint16(row))
		}
		c.setFlag(disp.Draw(c.v[x], c.v[y], sprite))
		return fmt.Sprintf("DRW  V%X,V%X,%d", x, y, n), nil

	case 0xE:
		switch kk {
		case 0x9E: // Ex9E SKP Vx
			if keys.Pressed(c.v[x]) {
				c.pc += 2
			}
			return fmt.Sprintf("SKP  V%X", x), nil

		case 0xA1: // ExA1 SKNP Vx
			if keys.Released(c.v[x]) {
				c.pc += 2
			}
			return fmt.Sprintf("SKNP V%X", x), nil

		default:
			return unknown()
		}

	case 0xF:
		return c.execTimerIO(op, x, mem)
	}

	return unknown()
}

// execArithmetic handles the 8xyN family. The low nibble is the
// operation selector.
func (c *CPU) execArithmetic(op uint16, x, y, n uint8) (string, error) {
	switch n {
	case 0x0: // 8xy0 LD Vx, Vy
		c.v[x] = c.v[y]
		return fmt.Sprintf("LD   V%X,V%X", x, y), nil

	case 0x1: // 8xy1 OR Vx, Vy
		c.v[x] |= c.v[y]
		return fmt.Sprintf("OR   V%X,V%X", x, y), nil

	case 0x2: // 8xy2 AND Vx, Vy
		c.v[x] &= c.v[y]
		return fmt.Sprintf("AND  V%X,V%X", x, y), nil

	case 0x3: // 8xy3 XOR Vx, Vy
		c.v[x] ^= c.v[y]
		return fmt.Sprintf("XOR  V%X,V%X", x, y), nil

	case 0x4: // 8xy4 ADD Vx, Vy - VF = carry
		carry := uint16(c.v[x])+uint16(c.v[y]) > 0xFF
		c.v[x] += c.v[y]
		c.setFlag(carry)
		return fmt.Sprintf("ADD  V%X,V%X", x, y), nil

	case 0x5: // 8xy5 SUB Vx, Vy - VF = not borrow
		borrow := c.v[x] < c.v[y]
		c.v[x] -= c.v[y]
		c.setFlag(!borrow)
		return fmt.Sprintf("SUB  V%X,V%X", x, y), nil

	case 0x6: // 8xy6 SHR Vx - VF = shifted out bit
		bit := c.v[x] & 0x01
		c.v[x] >>= 1
		c.setFlag(bit == 1)
		return fmt.Sprintf("SHR  V%X", x), nil

	case 0x7: // 8xy7 SUBN Vx, Vy - VF = not borrow
		borrow := c.v[y] < c.v[x]
		c.v[x] = c.v[y] - c.v[x]
		c.setFlag(!borrow)
		return fmt.Sprintf("SUBN V%X,V%X", x, y), nil

	case 0xE: // 8xyE SHL Vx - VF = shifted out bit
		bit := c.v[x] >> 7
		c.v[x] <<= 1
		c.setFlag(bit == 1)
		return fmt.Sprintf("SHL  V%X", x), nil

	default:
		return "", &OpcodeError{Opcode: op, PC: c.pc - 2}
	}
}

// execTimerIO handles the FxNN family. The low byte is the operation
// selector.
func (c *CPU) execTimerIO(op uint16, x uint8, mem *memory.Memory) (string, error) {
	switch uint8(op & 0x00FF) {
	case 0x07: // Fx07 LD Vx, DT
		c.v[x] = c.dt
		return fmt.Sprintf("LD   V%X,DT", x), nil

	case 0x0A: // Fx0A LD Vx, K - suspend until a key press
		c.waiting = true
		c.waitReg = x
		return fmt.Sprintf("LD   V%X,K", x), nil

	case 0x15: // Fx15 LD DT, Vx
		c.dt = c.v[x]
		return fmt.Sprintf("LD   DT,V%X", x), nil

	case 0x18: // Fx18 LD ST, Vx
		c.st = c.v[x]
		return fmt.Sprintf("LD   ST,V%X", x), nil

	case 0x1E: // Fx1E ADD I, Vx
		c.i += uint16(c.v[x])
		return fmt.Sprintf("ADD  I,V%X", x), nil

	case 0x29: // Fx29 LD F, Vx - I points at the glyph for digit Vx
		c.i = memory.GlyphAddress(c.v[x])
		return fmt.Sprintf("LD   F,V%X", x), nil

	case 0x33: // Fx33 LD B, Vx - BCD digits at I, I+1, I+2
		mem.WriteByte(c.i, c.v[x]/100)
		mem.WriteByte(c.i+1, c.v[x]/10%10)
		mem.WriteByte(c.i+2, c.v[x]%10)
		return fmt.Sprintf("LD   B,V%X", x), nil

	case 0x55: // Fx55 LD [I], Vx - store V0..Vx inclusive
		for r := uint8(0); r <= x; r++ {
			mem.WriteByte(c.i+uint16(r), c.v[r])
		}
		return fmt.Sprintf("LD   [I],V%X", x), nil

	case 0x65: // Fx65 LD Vx, [I] - load V0..Vx inclusive
		for r := uint8(0); r <= x; r++ {
			c.v[r] = mem.ReadByte(c.i + uint16(r))
		}
		return fmt.Sprintf("LD   V%X,[I]", x), nil

	default:
		return "", &OpcodeError{Opcode: op, PC: c.pc - 2}
	}
}
