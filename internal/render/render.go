// Package render maps the world around the player onto the square pixel
// display.
package render

import (
	"github.com/vovakirdan/tilt-platformer/internal/core"
	"github.com/vovakirdan/tilt-platformer/internal/world"
)

// Palette assigns a brightness to each drawable thing.
type Palette struct {
	Player core.Brightness
	Solid  core.Brightness
	Flag   core.Brightness
	Coin   core.Brightness
}

// DefaultPalette returns the stock LED brightness levels.
func DefaultPalette() Palette {
	return Palette{
		Player: core.BrightnessFull,
		Solid:  core.BrightnessDim,
		Flag:   core.BrightnessLow,
		Coin:   core.BrightnessMedium,
	}
}

// Block returns the brightness of a tile. Coins are only lit while
// showCoins is set.
func (p Palette) Block(b world.Block, showCoins bool) core.Brightness {
	switch b {
	case world.Solid:
		return p.Solid
	case world.Flag:
		return p.Flag
	case world.Coin:
		if showCoins {
			return p.Coin
		}
	}
	return core.BrightnessOff
}

// Viewport returns the screen coordinate of a player at world coordinate
// pos on an axis of length max, for a display of the given size.
// The visible window [pos-offset, pos-offset+size) never leaves [0, max)
// when max >= size.
func Viewport(pos, max, size int) int {
	low := core.Clamp(pos-size/2, 0, max-size)
	return pos - low
}

// Offset returns the player's screen position in both axes.
// Y grows upwards, like world coordinates.
func Offset(pos core.Vec2, w *world.World, size int) core.Vec2 {
	return core.V(
		Viewport(pos.X, w.MaxX(), size),
		Viewport(pos.Y, w.MaxY(), size),
	)
}

// Draw clears dst and paints the window around the player.
// Row 0 of dst is the top of the display.
func Draw(dst *core.PixelBuffer, w *world.World, player core.Vec2, showCoins bool, pal Palette) {
	dst.Clear()
	size := dst.Size()
	off := Offset(player, w, size)

	for sy := 0; sy < size; sy++ {
		row := size - 1 - sy
		for sx := 0; sx < size; sx++ {
			if sx == off.X && sy == off.Y {
				dst.Set(sx, row, pal.Player)
				continue
			}
			b := w.Block(player.Relative(sx-off.X, sy-off.Y))
			if lvl := pal.Block(b, showCoins); lvl != core.BrightnessOff {
				dst.Set(sx, row, lvl)
			}
		}
	}
}
