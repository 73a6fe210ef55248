package levels

import (
	"embed"
	"fmt"
	"io/fs"
	"os"
	"path"
	"sort"
	"strings"

	"github.com/vovakirdan/tilt-platformer/internal/levels/formats"
	"github.com/vovakirdan/tilt-platformer/internal/world"
)

//go:embed defaults/*.yaml
var defaultFS embed.FS

// Loader handles loading levels from a directory tree.
type Loader struct {
	FS      fs.FS
	Root    string
	MinSize int // levels smaller than this in either axis are skipped
}

// NewLoader creates a loader for a directory on disk.
func NewLoader(root string, minSize int) *Loader {
	return &Loader{FS: os.DirFS(root), Root: ".", MinSize: minSize}
}

// DefaultLoader returns a loader for the levels built into the binary.
func DefaultLoader(minSize int) *Loader {
	return &Loader{FS: defaultFS, Root: "defaults", MinSize: minSize}
}

// LoadAll recursively scans and loads all level files.
// Invalid files are skipped. Returns levels sorted by ID for deterministic
// ordering; when two files share an id the first path in walk order wins.
func (l *Loader) LoadAll() ([]Level, error) {
	var levels []Level
	seen := make(map[int]bool)

	err := fs.WalkDir(l.FS, l.Root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		if d.IsDir() {
			return nil
		}

		ext := strings.ToLower(path.Ext(p))
		if !isSupportedExtension(ext) {
			return nil
		}

		level, err := l.LoadFile(p)
		if err != nil {
			// Skip invalid files
			return nil
		}
		if seen[level.ID] {
			return nil
		}
		seen[level.ID] = true

		levels = append(levels, level)
		return nil
	})

	if err != nil {
		return nil, fmt.Errorf("walking directory %s: %w", l.Root, err)
	}

	// Sort by ID for determinism
	sort.Slice(levels, func(i, j int) bool {
		return levels[i].ID < levels[j].ID
	})

	return levels, nil
}

// LoadFile loads and validates a single level file.
func (l *Loader) LoadFile(p string) (Level, error) {
	data, err := fs.ReadFile(l.FS, p)
	if err != nil {
		return Level{}, fmt.Errorf("reading file %s: %w", p, err)
	}

	ext := strings.ToLower(path.Ext(p))
	parsed, err := parseByExtension(data, ext)
	if err != nil {
		return Level{}, fmt.Errorf("parsing file %s: %w", p, err)
	}

	level := Level{
		ID:       parsed.ID,
		Name:     parsed.Name,
		Spawn:    world.DefaultSpawn,
		Tiles:    parsed.Tiles,
		FilePath: p,
	}
	if parsed.HasSpawn {
		level.Spawn = parsed.Spawn
	}

	if err := level.Validate(l.MinSize); err != nil {
		return Level{}, fmt.Errorf("invalid level %s: %w", p, err)
	}
	return level, nil
}

// isSupportedExtension checks if extension is supported.
func isSupportedExtension(ext string) bool {
	for _, supported := range formats.FormatExtensions() {
		if ext == supported {
			return true
		}
	}
	return false
}

// parseByExtension routes to the correct parser.
func parseByExtension(data []byte, ext string) (formats.Level, error) {
	switch ext {
	case ".yaml", ".yml":
		return formats.ParseYAML(data)
	default:
		return formats.Level{}, fmt.Errorf("unsupported extension: %s", ext)
	}
}
