// Package display implements the CHIP-8 64x32 monochrome display and
// its projection onto an output device.
package display

const (
	// Width is the logical display width in pixels.
	Width = 64
	// Height is the logical display height in pixels.
	Height = 32
	// DefaultScale is the default size of the device-pixel block that
	// one logical pixel projects to.
	DefaultScale = 5
)

// Framebuffer is the output device capability. Coordinates are in
// device space, logical coordinate times scale plus sub-offset. The
// display owns its framebuffer for the lifetime of the machine; there
// is no shared global surface.
type Framebuffer interface {
	SetPixel(x, y int, on bool)
	Pixel(x, y int) bool
}

// Display holds the authoritative logical pixel grid and keeps the
// framebuffer in lockstep with it. The grid wraps on both axes: x is
// taken modulo Width and y modulo Height.
type Display struct {
	fb    Framebuffer
	scale int
	grid  [Height][Width]bool
}

// New returns a cleared display writing scale x scale device-pixel
// blocks to fb. A scale below 1 falls back to DefaultScale.
func New(fb Framebuffer, scale int) *Display {
	if scale < 1 {
		scale = DefaultScale
	}
	return &Display{fb: fb, scale: scale}
}

// Scale returns the device-pixel block size of one logical pixel.
func (d *Display) Scale() int {
	return d.scale
}

// Pixel reports the logical pixel state at (x, y), wrapping both axes.
func (d *Display) Pixel(x, y int) bool {
	return d.grid[mod(y, Height)][mod(x, Width)]
}

// Clear switches every logical pixel off and repaints the device.
func (d *Display) Clear() {
	for y := 0; y < Height; y++ {
		for x := 0; x < Width; x++ {
			d.set(x, y, false)
		}
	}
}

// Draw XORs a sprite onto the grid starting at (x, y), one row per
// byte, eight columns per row with the most significant bit leftmost.
// Rows and columns wrap around the display edges. It returns true if
// any pixel was switched from on to off.
func (d *Display) Draw(x, y uint8, sprite []byte) bool {
	collision := false
	for row, bits := range sprite {
		for col := 0; col < 8; col++ {
			if (bits>>(7-col))&0x01 == 0 {
				continue
			}
			px := mod(int(x)+col, Width)
			py := mod(int(y)+row, Height)

			prev := d.grid[py][px]
			if prev {
				collision = true
			}
			d.set(px, py, !prev)
		}
	}
	return collision
}

// set updates one logical pixel and projects it onto the framebuffer
// as a scale x scale block of device pixels.
func (d *Display) set(x, y int, on bool) {
	d.grid[y][x] = on
	for i := 0; i < d.scale; i++ {
		for j := 0; j < d.scale; j++ {
			d.fb.SetPixel(x*d.scale+i, y*d.scale+j, on)
		}
	}
}

func mod(v, m int) int {
	return ((v % m) + m) % m
}
