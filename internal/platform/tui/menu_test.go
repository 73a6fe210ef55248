package tui

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/tilt-platformer/internal/levels"
)

func testCatalog(t *testing.T) *levels.Catalog {
	t.Helper()
	tiles := []string{".....", ".....", ".....", "....F", "#####"}
	c, err := levels.NewCatalog([]levels.Level{
		{ID: 1, Name: "One", Tiles: tiles},
		{ID: 2, Name: "Two", Tiles: tiles},
	})
	if err != nil {
		t.Fatalf("NewCatalog failed: %v", err)
	}
	return c
}

func pressMenu(m MenuModel, msgs ...tea.KeyMsg) MenuModel {
	for _, msg := range msgs {
		next, _ := m.Update(msg)
		m = next.(MenuModel)
	}
	return m
}

func TestMenuSelect(t *testing.T) {
	m := NewMenuModel(testCatalog(t), nil, false, 80, 24)

	m = pressMenu(m,
		tea.KeyMsg{Type: tea.KeyDown},
		tea.KeyMsg{Type: tea.KeyDown},
		tea.KeyMsg{Type: tea.KeyEnter},
	)

	sel := m.Selected()
	if sel == nil || sel.ID != 2 {
		t.Fatalf("Selected = %+v, expected world 2", sel)
	}
	if m.WantsOnline() {
		t.Error("plain select should not ask for a race")
	}
}

func TestMenuOnlineDisabled(t *testing.T) {
	m := NewMenuModel(testCatalog(t), nil, false, 80, 24)
	m = pressMenu(m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("o")})
	if m.WantsOnline() || m.Selected() != nil {
		t.Error("online key should be ignored without a coordinator")
	}
}

func TestMenuOnlineEnabled(t *testing.T) {
	m := NewMenuModel(testCatalog(t), nil, true, 80, 24)
	m = pressMenu(m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("o")})
	if !m.WantsOnline() {
		t.Fatal("expected a race request")
	}
	if sel := m.Selected(); sel == nil || sel.ID != 1 {
		t.Errorf("Selected = %+v, expected world 1", sel)
	}
}

func TestMenuScoresAndQuit(t *testing.T) {
	m := NewMenuModel(testCatalog(t), nil, false, 80, 24)

	m = pressMenu(m, tea.KeyMsg{Type: tea.KeyTab})
	if !m.WantsScoreboard() {
		t.Error("tab should open the scoreboard")
	}

	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	if !next.(MenuModel).IsQuitting() || cmd == nil {
		t.Error("q should quit")
	}
}
