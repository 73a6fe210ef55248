package core

import (
	"strings"
)

// PixelBuffer is a square brightness buffer matching the LED matrix.
// Games paint into it each tick and the platform blits it to the display.
// Row 0 is the top row of the physical display.
type PixelBuffer struct {
	size   int
	pixels []Brightness
}

// NewPixelBuffer creates a cleared buffer of size x size pixels.
func NewPixelBuffer(size int) *PixelBuffer {
	if size < 1 {
		size = 1
	}
	return &PixelBuffer{
		size:   size,
		pixels: make([]Brightness, size*size),
	}
}

// Size returns the side length of the buffer.
func (p *PixelBuffer) Size() int {
	return p.size
}

// InBounds reports whether (x, y) addresses a pixel.
func (p *PixelBuffer) InBounds(x, y int) bool {
	return x >= 0 && x < p.size && y >= 0 && y < p.size
}

// Clear turns every pixel off.
func (p *PixelBuffer) Clear() {
	p.Fill(BrightnessOff)
}

// Fill sets every pixel to the given brightness.
func (p *PixelBuffer) Fill(b Brightness) {
	for i := range p.pixels {
		p.pixels[i] = b
	}
}

// Set paints a pixel. Out-of-bounds coordinates are silently ignored.
func (p *PixelBuffer) Set(x, y int, b Brightness) {
	if !p.InBounds(x, y) {
		return
	}
	p.pixels[y*p.size+x] = b
}

// Get returns the brightness at (x, y), or off for out-of-bounds coordinates.
func (p *PixelBuffer) Get(x, y int) Brightness {
	if !p.InBounds(x, y) {
		return BrightnessOff
	}
	return p.pixels[y*p.size+x]
}

// CopyFrom overwrites this buffer with the contents of src.
// Buffers of a different size are resized.
func (p *PixelBuffer) CopyFrom(src *PixelBuffer) {
	if p.size != src.size {
		p.size = src.size
		p.pixels = make([]Brightness, len(src.pixels))
	}
	copy(p.pixels, src.pixels)
}

// Clone returns an independent copy of the buffer.
func (p *PixelBuffer) Clone() *PixelBuffer {
	c := NewPixelBuffer(p.size)
	copy(c.pixels, p.pixels)
	return c
}

// shades maps Brightness.Level to a glyph for plain-text output.
var shades = []rune{'.', '░', '▒', '▓', '█'}

// String renders the buffer as rows of shade glyphs, top row first.
// Useful for tests and screenshots.
func (p *PixelBuffer) String() string {
	var sb strings.Builder
	sb.Grow(p.size*p.size*3 + p.size)

	for y := 0; y < p.size; y++ {
		if y > 0 {
			sb.WriteRune('\n')
		}
		for x := 0; x < p.size; x++ {
			sb.WriteRune(shades[p.Get(x, y).Level()])
		}
	}
	return sb.String()
}
