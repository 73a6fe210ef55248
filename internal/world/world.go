package world

import (
	"fmt"
	"strings"

	"github.com/vovakirdan/tilt-platformer/internal/core"
)

// DefaultSpawn is where a player starts when a level does not say otherwise.
var DefaultSpawn = core.V(1, 1)

// World is a bounded tile grid. Y grows upward: row 0 is the bottom of the map.
// Cells are stored in row-major order: index = y*width + x.
type World struct {
	id     int
	width  int
	height int
	spawn  core.Vec2
	cells  []Block
}

// New creates an all-Air world with the given dimensions.
func New(id, width, height int) *World {
	return &World{
		id:     id,
		width:  width,
		height: height,
		spawn:  DefaultSpawn,
		cells:  make([]Block, width*height),
	}
}

// FromRows builds a world from level-file rows listed top row first.
// All rows must have the same length.
func FromRows(id int, rows []string) (*World, error) {
	if len(rows) == 0 {
		return nil, fmt.Errorf("world %d: no rows", id)
	}

	width := len([]rune(rows[0]))
	if width == 0 {
		return nil, fmt.Errorf("world %d: empty first row", id)
	}

	w := New(id, width, len(rows))
	for i, row := range rows {
		runes := []rune(row)
		if len(runes) != width {
			return nil, fmt.Errorf("world %d: row %d has width %d, expected %d", id, i, len(runes), width)
		}
		y := len(rows) - 1 - i
		for x, r := range runes {
			b, ok := ParseBlock(r)
			if !ok {
				return nil, fmt.Errorf("world %d: unknown tile %q at row %d col %d", id, r, i, x)
			}
			w.cells[y*width+x] = b
		}
	}
	return w, nil
}

// ID returns the world identifier used to recreate it on restart.
func (w *World) ID() int {
	return w.id
}

// MaxX returns the world width; valid x coordinates are [0, MaxX).
func (w *World) MaxX() int {
	return w.width
}

// MaxY returns the world height; valid y coordinates are [0, MaxY).
func (w *World) MaxY() int {
	return w.height
}

// Spawn returns the player's starting position.
func (w *World) Spawn() core.Vec2 {
	return w.spawn
}

// SetSpawn changes the player's starting position.
func (w *World) SetSpawn(p core.Vec2) {
	w.spawn = p
}

// InBounds returns true if the position is within the grid.
func (w *World) InBounds(p core.Vec2) bool {
	return p.X >= 0 && p.X < w.width && p.Y >= 0 && p.Y < w.height
}

// Block returns the block at the given position.
// Positions outside the grid read as Air.
func (w *World) Block(p core.Vec2) Block {
	if !w.InBounds(p) {
		return Air
	}
	return w.cells[p.Y*w.width+p.X]
}

// SetBlock replaces the block at the given position.
// Positions outside the grid are ignored.
func (w *World) SetBlock(p core.Vec2, b Block) {
	if w.InBounds(p) {
		w.cells[p.Y*w.width+p.X] = b
	}
}

// Count returns how many cells hold the given block.
func (w *World) Count(b Block) int {
	n := 0
	for _, c := range w.cells {
		if c == b {
			n++
		}
	}
	return n
}

// String renders the grid in level-file form, top row first.
func (w *World) String() string {
	var sb strings.Builder
	for y := w.height - 1; y >= 0; y-- {
		for x := 0; x < w.width; x++ {
			sb.WriteRune(w.cells[y*w.width+x].Glyph())
		}
		if y > 0 {
			sb.WriteRune('\n')
		}
	}
	return sb.String()
}
