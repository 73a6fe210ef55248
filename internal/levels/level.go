// Package levels loads world definitions from YAML files and serves them
// to the game by id.
package levels

import (
	"errors"
	"fmt"

	"github.com/vovakirdan/tilt-platformer/internal/core"
	"github.com/vovakirdan/tilt-platformer/internal/world"
)

// ErrNotFound is returned for world ids no level defines.
var ErrNotFound = errors.New("levels: world not found")

// Level represents a complete level definition.
type Level struct {
	ID       int
	Name     string
	Spawn    core.Vec2
	Tiles    []string // top row first
	FilePath string
}

// Width returns the number of columns.
func (l *Level) Width() int {
	if len(l.Tiles) == 0 {
		return 0
	}
	return len([]rune(l.Tiles[0]))
}

// Height returns the number of rows.
func (l *Level) Height() int {
	return len(l.Tiles)
}

// World builds a fresh world from the level.
func (l *Level) World() (*world.World, error) {
	w, err := world.FromRows(l.ID, l.Tiles)
	if err != nil {
		return nil, err
	}
	w.SetSpawn(l.Spawn)
	return w, nil
}

// Validate checks that the level can be played on a display of the
// given size: the grid is rectangular and fills the display, the spawn
// point is open, and there is a flag to reach.
func (l *Level) Validate(minSize int) error {
	w, err := l.World()
	if err != nil {
		return err
	}
	if w.MaxX() < minSize || w.MaxY() < minSize {
		return fmt.Errorf("level %d: %dx%d is smaller than the %dx%d display",
			l.ID, w.MaxX(), w.MaxY(), minSize, minSize)
	}
	if !w.InBounds(l.Spawn) {
		return fmt.Errorf("level %d: spawn %v is outside the world", l.ID, l.Spawn)
	}
	if w.Block(l.Spawn) == world.Solid {
		return fmt.Errorf("level %d: spawn %v is inside a solid block", l.ID, l.Spawn)
	}
	if w.Count(world.Flag) == 0 {
		return fmt.Errorf("level %d: no flag", l.ID)
	}
	return nil
}
