// Package formats provides level file format parsers.
package formats

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/vovakirdan/tilt-platformer/internal/core"
)

// YAMLLevel represents the YAML structure for a level file.
type YAMLLevel struct {
	ID    int        `yaml:"id"`
	Name  string     `yaml:"name"`
	Spawn *YAMLPoint `yaml:"spawn,omitempty"`
	Tiles []string   `yaml:"tiles"`
}

// YAMLPoint represents a grid position, y counted from the bottom row.
type YAMLPoint struct {
	X int `yaml:"x"`
	Y int `yaml:"y"`
}

// Level represents a parsed level ready for validation.
type Level struct {
	ID       int
	Name     string
	Spawn    core.Vec2
	HasSpawn bool
	Tiles    []string
}

// ParseYAML parses a YAML level file.
func ParseYAML(data []byte) (Level, error) {
	var yl YAMLLevel
	if err := yaml.Unmarshal(data, &yl); err != nil {
		return Level{}, fmt.Errorf("yaml unmarshal: %w", err)
	}
	if yl.ID <= 0 {
		return Level{}, fmt.Errorf("level id must be positive, got %d", yl.ID)
	}
	if len(yl.Tiles) == 0 {
		return Level{}, fmt.Errorf("level %d has no tiles", yl.ID)
	}

	level := Level{
		ID:    yl.ID,
		Name:  yl.Name,
		Tiles: yl.Tiles,
	}
	if yl.Spawn != nil {
		level.Spawn = core.V(yl.Spawn.X, yl.Spawn.Y)
		level.HasSpawn = true
	}
	if level.Name == "" {
		level.Name = fmt.Sprintf("World %d", yl.ID)
	}
	return level, nil
}

// FormatExtensions returns supported file extensions.
func FormatExtensions() []string {
	return []string{".yaml", ".yml"}
}
