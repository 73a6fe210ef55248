package tui

import (
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/tilt-platformer/internal/game"
	"github.com/vovakirdan/tilt-platformer/internal/storage"
)

func TestScoreboardShowsRuns(t *testing.T) {
	store, err := storage.Open(filepath.Join(t.TempDir(), "runs.db"))
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer store.Close()

	if _, err := store.SaveRun(storage.Run{
		Player: "alice", WorldID: 2, Score: 7, Outcome: game.OutcomeWin, Completed: true,
	}); err != nil {
		t.Fatalf("SaveRun failed: %v", err)
	}

	m := NewScoreboardModel(testCatalog(t), store, 100, 40)
	if view := m.View(); !strings.Contains(view, "Nobody has reached the flag") {
		t.Error("world 1 should have no runs")
	}

	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyTab})
	m = next.(ScoreboardModel)
	view := m.View()
	if !strings.Contains(view, "alice") {
		t.Error("world 2 run missing from the table")
	}
	if !strings.Contains(view, "1 runs") {
		t.Error("stats summary missing")
	}
}

func TestScoreboardWithoutStore(t *testing.T) {
	m := NewScoreboardModel(testCatalog(t), nil, 80, 24)
	if !strings.Contains(m.View(), "not being recorded") {
		t.Error("expected the no-store message")
	}

	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	m = next.(ScoreboardModel)
	if !m.IsGoingBack() || cmd != nil {
		t.Error("esc should go back without quitting")
	}
}
