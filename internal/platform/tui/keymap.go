package tui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/tilt-platformer/internal/core"
)

// DeviceKeyMap binds keys to the device's buttons and tilt axis.
type DeviceKeyMap struct {
	Left  key.Binding
	Right key.Binding
	A     key.Binding
	B     key.Binding
	AB    key.Binding
	Quit  key.Binding
}

// ShortHelp returns key bindings for the short help view.
func (k DeviceKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Left, k.Right, k.B, k.A, k.AB, k.Quit}
}

// FullHelp returns key bindings for the full help view.
func (k DeviceKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Left, k.Right, k.B},
		{k.A, k.AB, k.Quit},
	}
}

// DefaultDeviceKeyMap returns default key bindings.
func DefaultDeviceKeyMap() DeviceKeyMap {
	return DeviceKeyMap{
		Left: key.NewBinding(
			key.WithKeys("left", "h"),
			key.WithHelp("←/h", "tilt left"),
		),
		Right: key.NewBinding(
			key.WithKeys("right", "l"),
			key.WithHelp("→/l", "tilt right"),
		),
		A: key.NewBinding(
			key.WithKeys("a", "z"),
			key.WithHelp("a", "back"),
		),
		B: key.NewBinding(
			key.WithKeys("b", "x", " ", "up"),
			key.WithHelp("space", "jump"),
		),
		AB: key.NewBinding(
			key.WithKeys("c"),
			key.WithHelp("c", "a+b disconnect"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// Button maps a key to a device button, or ButtonNone.
func (k DeviceKeyMap) Button(msg tea.KeyMsg) core.Button {
	switch {
	case key.Matches(msg, k.AB):
		return core.ButtonAB
	case key.Matches(msg, k.A):
		return core.ButtonA
	case key.Matches(msg, k.B):
		return core.ButtonB
	}
	return core.ButtonNone
}

// Tilt maps a key to a tilt direction: -1, +1 or 0.
func (k DeviceKeyMap) Tilt(msg tea.KeyMsg) int {
	switch {
	case key.Matches(msg, k.Left):
		return -1
	case key.Matches(msg, k.Right):
		return 1
	}
	return 0
}

// MenuKeyMap binds keys for list screens.
type MenuKeyMap struct {
	Up     key.Binding
	Down   key.Binding
	Select key.Binding
	Scores key.Binding
	Online key.Binding
	Back   key.Binding
	Quit   key.Binding
}

func (k MenuKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Select, k.Scores, k.Online, k.Quit}
}

func (k MenuKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Select},
		{k.Scores, k.Online, k.Back, k.Quit},
	}
}

// DefaultMenuKeyMap returns default menu bindings.
func DefaultMenuKeyMap() MenuKeyMap {
	return MenuKeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k", "w"),
			key.WithHelp("↑/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j", "s"),
			key.WithHelp("↓/j", "down"),
		),
		Select: key.NewBinding(
			key.WithKeys("enter", " "),
			key.WithHelp("enter", "play"),
		),
		Scores: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "scores"),
		),
		Online: key.NewBinding(
			key.WithKeys("o"),
			key.WithHelp("o", "race a friend"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc", "b"),
			key.WithHelp("esc", "back"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}
