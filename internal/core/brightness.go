package core

// Brightness is the intensity of a single LED on the matrix display.
// 0 is off, 255 is full brightness.
type Brightness uint8

// Named brightness levels used by the renderer.
const (
	BrightnessOff    Brightness = 0
	BrightnessDim    Brightness = 16
	BrightnessLow    Brightness = 48
	BrightnessMedium Brightness = 96
	BrightnessFull   Brightness = 255
)

// Level buckets a brightness into one of five shades (0 = off, 4 = full).
// Used by text and terminal renderers that cannot show 256 intensities.
func (b Brightness) Level() int {
	switch {
	case b == 0:
		return 0
	case b <= BrightnessDim:
		return 1
	case b <= BrightnessLow:
		return 2
	case b <= BrightnessMedium:
		return 3
	default:
		return 4
	}
}
