package levels

import (
	"errors"
	"path/filepath"
	"runtime"
	"testing"
	"testing/fstest"

	"github.com/vovakirdan/tilt-platformer/internal/core"
	"github.com/vovakirdan/tilt-platformer/internal/world"
)

// getTestdataPath returns path to testdata/levels.
func getTestdataPath() string {
	_, filename, _, _ := runtime.Caller(0)
	return filepath.Join(filepath.Dir(filename), "testdata", "levels")
}

func TestLoaderLoadAll(t *testing.T) {
	lvls, err := NewLoader(getTestdataPath(), 5).LoadAll()
	if err != nil {
		t.Fatalf("LoadAll failed: %v", err)
	}

	// no_flag, tiny and the duplicate id are skipped
	if len(lvls) != 2 {
		t.Fatalf("expected 2 levels, got %d", len(lvls))
	}
	if lvls[0].ID != 10 || lvls[1].ID != 11 {
		t.Errorf("ids = %d, %d; expected 10, 11", lvls[0].ID, lvls[1].ID)
	}
	if lvls[0].Name != "Corridor" {
		t.Errorf("Name = %q, expected the first file's name", lvls[0].Name)
	}
	if lvls[1].Name != "World 11" {
		t.Errorf("unnamed level got %q, expected a generated name", lvls[1].Name)
	}
	if lvls[1].Spawn != core.V(3, 2) {
		t.Errorf("Spawn = %v, expected (3,2)", lvls[1].Spawn)
	}
	if lvls[0].Spawn != world.DefaultSpawn {
		t.Errorf("Spawn = %v, expected default", lvls[0].Spawn)
	}
}

func TestLoaderMinSize(t *testing.T) {
	lvls, err := NewLoader(getTestdataPath(), 2).LoadAll()
	if err != nil {
		t.Fatalf("LoadAll failed: %v", err)
	}
	found := false
	for _, l := range lvls {
		if l.ID == 13 {
			found = true
		}
	}
	if !found {
		t.Error("tiny level should load for a 2x2 display")
	}
}

func TestDefaultLevelsArePlayable(t *testing.T) {
	c, err := Load("", 5)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(c.Levels()) < 3 {
		t.Fatalf("expected built-in levels, got %d", len(c.Levels()))
	}
	if c.First() != 1 {
		t.Errorf("First() = %d, expected 1", c.First())
	}

	for _, l := range c.Levels() {
		w, err := c.CreateWorld(l.ID)
		if err != nil {
			t.Errorf("world %d: %v", l.ID, err)
			continue
		}
		below := w.Block(w.Spawn().Relative(0, -1))
		if below != world.Solid {
			t.Errorf("world %d: spawn %v is not standing on ground", l.ID, w.Spawn())
		}
	}
}

func TestCreateWorldIsFresh(t *testing.T) {
	c, err := Load(getTestdataPath(), 5)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	w1, err := c.CreateWorld(10)
	if err != nil {
		t.Fatalf("CreateWorld failed: %v", err)
	}
	coin := core.V(2, 1)
	if w1.Block(coin) != world.Coin {
		t.Fatalf("expected a coin at %v, got %s", coin, w1.Block(coin))
	}
	w1.SetBlock(coin, world.Air)

	w2, _ := c.CreateWorld(10)
	if w2.Block(coin) != world.Coin {
		t.Error("second world should not see the first world's pickup")
	}
}

func TestCatalogNotFound(t *testing.T) {
	c, err := Load("", 5)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if _, err := c.CreateWorld(999); !errors.Is(err, ErrNotFound) {
		t.Errorf("error = %v, expected ErrNotFound", err)
	}
}

func TestCatalogDuplicateIDs(t *testing.T) {
	l := Level{ID: 1, Tiles: []string{"F"}}
	if _, err := NewCatalog([]Level{l, l}); err == nil {
		t.Error("expected error for duplicate ids")
	}
}

func TestLoadEmptyDirectory(t *testing.T) {
	if _, err := Load(t.TempDir(), 5); err == nil {
		t.Error("expected error for a directory without levels")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name  string
		level Level
	}{
		{"ragged", Level{ID: 1, Tiles: []string{".....", "....", "....F", ".....", "#####"}}},
		{"spawn in wall", Level{ID: 1, Spawn: core.V(0, 0), Tiles: []string{"....F", "#####"}}},
		{"spawn outside", Level{ID: 1, Spawn: core.V(9, 9), Tiles: []string{"....F", "#####"}}},
		{"bad tile", Level{ID: 1, Tiles: []string{"..X.F", "#####"}}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if err := tc.level.Validate(2); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestLoaderFromFS(t *testing.T) {
	fsys := fstest.MapFS{
		"lv/one.yaml": {Data: []byte("id: 5\ntiles:\n  - \"..F\"\n  - \"...\"\n  - \"###\"\n")},
		"lv/bad.yaml": {Data: []byte("id: [")},
	}
	l := &Loader{FS: fsys, Root: "lv", MinSize: 3}

	lvls, err := l.LoadAll()
	if err != nil {
		t.Fatalf("LoadAll failed: %v", err)
	}
	if len(lvls) != 1 || lvls[0].ID != 5 || lvls[0].Width() != 3 || lvls[0].Height() != 3 {
		t.Errorf("unexpected levels %+v", lvls)
	}
}
