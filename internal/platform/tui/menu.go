package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/tilt-platformer/internal/levels"
	"github.com/vovakirdan/tilt-platformer/internal/storage"
)

// MenuModel is the world picker.
type MenuModel struct {
	worlds []levels.Level
	best   map[int]*storage.WorldStats
	cursor int
	width  int
	height int
	keys   MenuKeyMap
	help   help.Model
	online bool // a coordinator is available for races

	selected   *levels.Level
	openScores bool
	openOnline bool
	quitting   bool
}

// NewMenuModel lists the catalog's worlds. store may be nil.
func NewMenuModel(catalog *levels.Catalog, store *storage.Store, online bool, width, height int) MenuModel {
	m := MenuModel{
		worlds: catalog.Levels(),
		width:  width,
		height: height,
		keys:   DefaultMenuKeyMap(),
		help:   help.New(),
		online: online,
	}
	if !online {
		m.keys.Online.SetEnabled(false)
	}
	if store != nil {
		if stats, err := store.AllWorldStats(); err == nil {
			m.best = stats
		}
	}
	return m
}

func (m MenuModel) Init() tea.Cmd {
	return nil
}

func (m MenuModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
	}
	return m, nil
}

func (m MenuModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
		return m, tea.Quit

	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}

	case key.Matches(msg, m.keys.Down):
		if m.cursor < len(m.worlds)-1 {
			m.cursor++
		}

	case key.Matches(msg, m.keys.Select):
		if len(m.worlds) > 0 {
			selected := m.worlds[m.cursor]
			m.selected = &selected
		}

	case key.Matches(msg, m.keys.Scores):
		m.openScores = true

	case key.Matches(msg, m.keys.Online):
		if len(m.worlds) > 0 {
			selected := m.worlds[m.cursor]
			m.selected = &selected
			m.openOnline = true
		}
	}
	return m, nil
}

func (m MenuModel) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(centerText(titleStyle.Render("T I L T"), m.width))
	b.WriteString("\n\n")
	b.WriteString(centerText("Select a world", m.width))
	b.WriteString("\n\n")

	for i, w := range m.worlds {
		cursor := "  "
		if i == m.cursor {
			cursor = "> "
		}
		line := fmt.Sprintf("%s%2d  %-18s", cursor, w.ID, w.Name)
		if st, ok := m.best[w.ID]; ok && st.Completed > 0 {
			line += fmt.Sprintf(" best %d", st.HighScore)
		} else {
			line += "        "
		}
		b.WriteString(centerText(line, m.width))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(centerText(dimStyle.Render(m.help.View(m.keys)), m.width))
	b.WriteString("\n")
	return b.String()
}

// Selected returns the chosen world, or nil.
func (m MenuModel) Selected() *levels.Level {
	return m.selected
}

// WantsOnline reports whether the selection should be raced with a partner.
func (m MenuModel) WantsOnline() bool {
	return m.openOnline
}

// WantsScoreboard returns true if user requested scoreboard.
func (m MenuModel) WantsScoreboard() bool {
	return m.openScores
}

// IsQuitting returns true if user requested to quit.
func (m MenuModel) IsQuitting() bool {
	return m.quitting
}
