// Package memory implements the CHIP-8 4 KiB address space.
//
// Memory map:
//
//	0x000-0x04F: built-in hex digit font (16 glyphs, 5 bytes each)
//	0x050-0x1FF: reserved for the interpreter, zero-filled
//	0x200-0xFFF: program and runtime data
package memory

import "errors"

const (
	// Size is the total amount of addressable memory in bytes.
	Size = 4096

	// FontOffset is the base address of the built-in hex digit font.
	FontOffset = 0x000

	// GlyphBytes is the number of bytes per font glyph.
	GlyphBytes = 5

	// ProgramOffset is the address where loaded programs begin.
	ProgramOffset = 0x200

	// MaxROMSize is the largest program that fits below the end of memory.
	MaxROMSize = Size - ProgramOffset
)

// ErrROMTooLarge is returned when a program does not fit into the
// address space above ProgramOffset.
var ErrROMTooLarge = errors.New("memory: ROM exceeds program space")

// font holds the canonical CHIP-8 hex digit sprites for 0-F.
var font = [16 * GlyphBytes]byte{
	0xF0, 0x90, 0x90, 0x90, 0xF0, // 0
	0x20, 0x60, 0x20, 0x20, 0x70, // 1
	0xF0, 0x10, 0xF0, 0x80, 0xF0, // 2
	0xF0, 0x10, 0xF0, 0x10, 0xF0, // 3
	0x90, 0x90, 0xF0, 0x10, 0x10, // 4
	0xF0, 0x80, 0xF0, 0x10, 0xF0, // 5
	0xF0, 0x80, 0xF0, 0x90, 0xF0, // 6
	0xF0, 0x10, 0x20, 0x40, 0x40, // 7
	0xF0, 0x90, 0xF0, 0x90, 0xF0, // 8
	0xF0, 0x90, 0xF0, 0x10, 0xF0, // 9
	0xF0, 0x90, 0xF0, 0x90, 0x90, // A
	0xE0, 0x90, 0xE0, 0x90, 0xE0, // B
	0xF0, 0x80, 0x80, 0x80, 0xF0, // C
	0xE0, 0x90, 0x90, 0x90, 0xE0, // D
	0xF0, 0x80, 0xF0, 0x80, 0xF0, // E
	0xF0, 0x80, 0xF0, 0x80, 0x80, // F
}

// Memory is the flat byte-addressable memory of the machine. Addresses
// outside [0, Size) are a programming error and panic via the array
// bounds check, they are not a recoverable runtime condition.
type Memory struct {
	bytes [Size]byte
}

// New returns zeroed memory. Use Load or BuildImage to install an image.
func New() *Memory {
	return &Memory{}
}

// BuildImage assembles a full memory image: the font table at FontOffset,
// the program at ProgramOffset and every remaining byte zero-filled.
func BuildImage(rom []byte) ([Size]byte, error) {
	var image [Size]byte
	if len(rom) > MaxROMSize {
		return image, ErrROMTooLarge
	}
	copy(image[FontOffset:], font[:])
	copy(image[ProgramOffset:], rom)
	return image, nil
}

// Load installs a full memory image, replacing all previous contents.
func (m *Memory) Load(image [Size]byte) {
	m.bytes = image
}

// ReadUint16 returns the big-endian word stored at addr and addr+1.
func (m *Memory) ReadUint16(addr uint16) uint16 {
	return uint16(m.bytes[addr])<<8 | uint16(m.bytes[addr+1])
}

// ReadByte returns the byte stored at addr.
func (m *Memory) ReadByte(addr uint16) byte {
	return m.bytes[addr]
}

// WriteByte stores b at addr.
func (m *Memory) WriteByte(addr uint16, b byte) {
	m.bytes[addr] = b
}

// GlyphAddress returns the address of the font sprite for the hex
// digit d. Only the low nibble of d is significant.
func GlyphAddress(d byte) uint16 {
	return FontOffset + uint16(d&0x0F)*GlyphBytes
}
