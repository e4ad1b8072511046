package display

// Buffer is an in-memory Framebuffer. It backs headless machines and
// tests; writes outside its bounds are dropped.
type Buffer struct {
	width  int
	height int
	pixels []bool
}

// NewBuffer returns an all-off buffer of the given device-space size.
func NewBuffer(width, height int) *Buffer {
	return &Buffer{
		width:  width,
		height: height,
		pixels: make([]bool, width*height),
	}
}

// SetPixel sets the device pixel at (x, y).
func (b *Buffer) SetPixel(x, y int, on bool) {
	if x < 0 || x >= b.width || y < 0 || y >= b.height {
		return
	}
	b.pixels[y*b.width+x] = on
}

// Pixel reads the device pixel at (x, y).
func (b *Buffer) Pixel(x, y int) bool {
	if x < 0 || x >= b.width || y < 0 || y >= b.height {
		return false
	}
	return b.pixels[y*b.width+x]
}
