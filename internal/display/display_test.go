package display

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func newTestDisplay(scale int) (*Display, *Buffer) {
	buf := NewBuffer(Width*scale, Height*scale)
	return New(buf, scale), buf
}

func TestDrawSetsPixelsFromSpriteBits(t *testing.T) {
	d, _ := newTestDisplay(1)

	collision := d.Draw(0, 0, []byte{0xA5}) // 1010 0101

	assert.False(t, collision)
	for x, want := range []bool{true, false, true, false, false, true, false, true} {
		assert.Equal(t, want, d.Pixel(x, 0), "x=%d", x)
	}
}

func TestDrawXORIsSelfInverse(t *testing.T) {
	d, buf := newTestDisplay(1)
	sprite := []byte{0xF0, 0x90, 0x90, 0x90, 0xF0}

	assert.False(t, d.Draw(10, 10, sprite))

	// The second identical draw erases every set pixel and must
	// report a collision.
	assert.True(t, d.Draw(10, 10, sprite))

	for y := 0; y < Height; y++ {
		for x := 0; x < Width; x++ {
			assert.False(t, d.Pixel(x, y), "pixel %d,%d", x, y)
			assert.False(t, buf.Pixel(x, y))
		}
	}
}

func TestDrawWrapsAroundBothAxes(t *testing.T) {
	d, _ := newTestDisplay(1)

	d.Draw(60, 30, []byte{0xFF, 0xFF})

	// Columns 60..63 then 0..3, rows 30 and 31.
	for _, x := range []int{60, 61, 62, 63, 0, 1, 2, 3} {
		assert.True(t, d.Pixel(x, 30), "x=%d y=30", x)
		assert.True(t, d.Pixel(x, 31), "x=%d y=31", x)
	}
	assert.False(t, d.Pixel(4, 30))
	assert.False(t, d.Pixel(59, 30))
}

func TestDrawRowWrapsPastBottom(t *testing.T) {
	d, _ := newTestDisplay(1)

	d.Draw(0, 31, []byte{0x80, 0x80}) // two rows, single left pixel

	assert.True(t, d.Pixel(0, 31))
	assert.True(t, d.Pixel(0, 0), "second row must wrap to y=0")
}

func TestClearAfterDrawIsIdempotent(t *testing.T) {
	d, buf := newTestDisplay(1)

	d.Clear()
	d.Draw(5, 5, []byte{0xFF, 0xFF})
	d.Clear()

	for y := 0; y < Height; y++ {
		for x := 0; x < Width; x++ {
			assert.False(t, d.Pixel(x, y))
			assert.False(t, buf.Pixel(x, y))
		}
	}
}

func TestProjectionWritesScaledBlocks(t *testing.T) {
	d, buf := newTestDisplay(5)

	d.Draw(1, 2, []byte{0x80}) // single logical pixel at (1, 2)

	for i := 0; i < 5; i++ {
		for j := 0; j < 5; j++ {
			assert.True(t, buf.Pixel(1*5+i, 2*5+j), "block pixel %d,%d", i, j)
		}
	}
	assert.False(t, buf.Pixel(4, 10))
	assert.False(t, buf.Pixel(10, 10))
}

func TestCollisionOnlyOnSharedPixels(t *testing.T) {
	d, _ := newTestDisplay(1)

	assert.False(t, d.Draw(0, 0, []byte{0xF0}))
	// Disjoint bits, no collision.
	assert.False(t, d.Draw(0, 0, []byte{0x0F}))
	// One shared bit.
	assert.True(t, d.Draw(0, 0, []byte{0x01}))
}
