package memory

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuildImageLayout(t *testing.T) {
	rom := []byte{0x60, 0x0A, 0x12, 0x00}
	image, err := BuildImage(rom)
	assert.NoError(t, err)

	// Font at the base of memory.
	assert.Equal(t, byte(0xF0), image[FontOffset])
	assert.Equal(t, byte(0x80), image[FontOffset+16*GlyphBytes-1])

	// Reserved region above the font is zero.
	for addr := FontOffset + 16*GlyphBytes; addr < ProgramOffset; addr++ {
		assert.Equal(t, byte(0), image[addr], "addr %03X", addr)
	}

	// Program at the program offset, zero fill after it.
	assert.Equal(t, rom, image[ProgramOffset:ProgramOffset+len(rom)])
	assert.Equal(t, byte(0), image[ProgramOffset+len(rom)])
	assert.Equal(t, byte(0), image[Size-1])
}

func TestBuildImageRejectsOversizedROM(t *testing.T) {
	_, err := BuildImage(make([]byte, MaxROMSize+1))
	assert.ErrorIs(t, err, ErrROMTooLarge)

	_, err = BuildImage(make([]byte, MaxROMSize))
	assert.NoError(t, err)
}

func TestReadUint16IsBigEndian(t *testing.T) {
	m := New()
	m.WriteByte(0x200, 0x12)
	m.WriteByte(0x201, 0x34)

	assert.Equal(t, uint16(0x1234), m.ReadUint16(0x200))
}

func TestReadWriteByte(t *testing.T) {
	m := New()
	m.WriteByte(0xFFF, 0xAB)
	assert.Equal(t, byte(0xAB), m.ReadByte(0xFFF))
	assert.Equal(t, byte(0x00), m.ReadByte(0xFFE))
}

func TestGlyphAddress(t *testing.T) {
	assert.Equal(t, uint16(FontOffset), GlyphAddress(0x0))
	assert.Equal(t, uint16(FontOffset+5), GlyphAddress(0x1))
	assert.Equal(t, uint16(FontOffset+0xF*5), GlyphAddress(0xF))
	// Only the low nibble selects the glyph.
	assert.Equal(t, GlyphAddress(0x3), GlyphAddress(0xF3))
}

func TestLoadReplacesContents(t *testing.T) {
	m := New()
	m.WriteByte(0x300, 0xFF)

	image, err := BuildImage(nil)
	assert.NoError(t, err)
	m.Load(image)

	assert.Equal(t, byte(0x00), m.ReadByte(0x300))
	assert.Equal(t, byte(0xF0), m.ReadByte(FontOffset))
}
