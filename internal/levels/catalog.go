package levels

import (
	"fmt"

	"github.com/vovakirdan/tilt-platformer/internal/world"
)

// Catalog serves worlds by id. It is safe for concurrent use because it
// never mutates its levels; every CreateWorld builds a new grid.
type Catalog struct {
	levels []Level
	byID   map[int]int
}

// NewCatalog indexes levels by id. Duplicate ids are rejected.
func NewCatalog(levels []Level) (*Catalog, error) {
	c := &Catalog{
		levels: levels,
		byID:   make(map[int]int, len(levels)),
	}
	for i, l := range levels {
		if _, dup := c.byID[l.ID]; dup {
			return nil, fmt.Errorf("levels: duplicate world id %d", l.ID)
		}
		c.byID[l.ID] = i
	}
	return c, nil
}

// Load builds a catalog from dir, or from the built-in levels when dir is
// empty. minSize is the display size.
func Load(dir string, minSize int) (*Catalog, error) {
	loader := DefaultLoader(minSize)
	if dir != "" {
		loader = NewLoader(dir, minSize)
	}

	levels, err := loader.LoadAll()
	if err != nil {
		return nil, err
	}
	if len(levels) == 0 {
		return nil, fmt.Errorf("levels: no playable levels in %q", dir)
	}
	return NewCatalog(levels)
}

// Levels returns all levels sorted by id.
func (c *Catalog) Levels() []Level {
	return c.levels
}

// Get returns the level with the given id.
func (c *Catalog) Get(id int) (Level, error) {
	i, ok := c.byID[id]
	if !ok {
		return Level{}, fmt.Errorf("%w: %d", ErrNotFound, id)
	}
	return c.levels[i], nil
}

// First returns the lowest world id.
func (c *Catalog) First() int {
	if len(c.levels) == 0 {
		return 0
	}
	return c.levels[0].ID
}

// CreateWorld builds a fresh world for the given id.
func (c *Catalog) CreateWorld(id int) (*world.World, error) {
	l, err := c.Get(id)
	if err != nil {
		return nil, err
	}
	return l.World()
}
