package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tilt-platformer/internal/game"
	"github.com/vovakirdan/tilt-platformer/internal/levels"
	"github.com/vovakirdan/tilt-platformer/internal/multiplayer"
	"github.com/vovakirdan/tilt-platformer/internal/protocol"
	"github.com/vovakirdan/tilt-platformer/internal/storage"
)

// SessionConfig holds what a session needs to run menus and races.
type SessionConfig struct {
	Catalog     *levels.Catalog
	Store       *storage.Store // optional
	Settings    game.Settings
	ScrollSpeed time.Duration
	Logger      *log.Logger // optional
	Player      string

	// Coordinator and Session enable races against other sessions.
	Coordinator *multiplayer.Coordinator
	Session     *multiplayer.ChannelSession
}

type screen int

const (
	screenMenu screen = iota
	screenScores
	screenLobby
	screenRace
)

// SessionModel manages the full flow: menu -> race -> menu, with the
// scoreboard and the online lobby on the side.
type SessionModel struct {
	cfg    SessionConfig
	screen screen
	width  int
	height int

	menu   MenuModel
	scores ScoreboardModel
	lobby  OnlineLobbyModel
	race   RaceModel
	relay  *multiplayer.RelayLink

	quitting bool
}

// NewSessionModel creates a session sitting in the menu.
func NewSessionModel(cfg SessionConfig, width, height int) SessionModel {
	if cfg.Player == "" {
		cfg.Player = storage.LocalPlayer
	}
	return SessionModel{
		cfg:    cfg,
		width:  width,
		height: height,
		menu:   NewMenuModel(cfg.Catalog, cfg.Store, cfg.online(), width, height),
	}
}

func (c SessionConfig) online() bool {
	return c.Coordinator != nil && c.Session != nil
}

func (c SessionConfig) results() game.ResultSink {
	if c.Store == nil {
		return nil
	}
	return c.Store.Sink(c.Player)
}

func (m SessionModel) Init() tea.Cmd {
	return m.waitForEvent()
}

// waitForEvent returns a command that waits for coordinator events.
func (m SessionModel) waitForEvent() tea.Cmd {
	if !m.cfg.online() {
		return nil
	}
	s := m.cfg.Session
	return func() tea.Msg {
		select {
		case evt := <-s.Events():
			return evt
		case <-s.Done():
			return nil
		}
	}
}

func (m SessionModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if wsm, ok := msg.(tea.WindowSizeMsg); ok {
		m.width = wsm.Width
		m.height = wsm.Height
	}
	if evt, ok := msg.(multiplayer.SessionEvent); ok {
		return m.handleEvent(evt)
	}

	switch m.screen {
	case screenRace:
		return m.updateRace(msg)
	case screenScores:
		return m.updateScores(msg)
	case screenLobby:
		return m.updateLobby(msg)
	default:
		return m.updateMenu(msg)
	}
}

func (m SessionModel) handleEvent(evt multiplayer.SessionEvent) (tea.Model, tea.Cmd) {
	next := m.waitForEvent()

	switch e := evt.(type) {
	case multiplayer.PacketEvent:
		if m.screen == screenRace && m.relay != nil {
			m.race.Deliver(e.Data)
		}
		return m, next

	case multiplayer.UnlinkedEvent:
		m.cfg.logger().Info("partner unlinked", "reason", e.Reason)
		if m.screen == screenRace && m.relay != nil {
			m.race.Deliver(protocol.Encode(protocol.Disconnect{}))
		}
		return m, next
	}

	if m.screen != screenLobby {
		return m, next
	}
	model, cmd := m.updateLobby(evt)
	return model, tea.Batch(cmd, next)
}

func (c SessionConfig) logger() *log.Logger {
	if c.Logger == nil {
		return log.Default()
	}
	return c.Logger
}

func (m SessionModel) updateMenu(msg tea.Msg) (tea.Model, tea.Cmd) {
	newMenu, cmd := m.menu.Update(msg)
	if mm, ok := newMenu.(MenuModel); ok {
		m.menu = mm
	}

	switch {
	case m.menu.IsQuitting():
		m.quitting = true
		return m, tea.Quit

	case m.menu.WantsScoreboard():
		m.scores = NewScoreboardModel(m.cfg.Catalog, m.cfg.Store, m.width, m.height)
		m.screen = screenScores
		return m, nil

	case m.menu.WantsOnline():
		w := m.menu.Selected()
		m.lobby = NewOnlineLobbyModel(w.ID, w.Name, m.cfg.Session.ID(), m.cfg.Coordinator, m.width, m.height)
		m.screen = screenLobby
		return m, m.lobby.Init()

	case m.menu.Selected() != nil:
		w := m.menu.Selected()
		return m.startRace(w.ID, w.Name, nil)
	}
	return m, cmd
}

func (m SessionModel) updateScores(msg tea.Msg) (tea.Model, tea.Cmd) {
	newScores, cmd := m.scores.Update(msg)
	if sm, ok := newScores.(ScoreboardModel); ok {
		m.scores = sm
	}

	switch {
	case m.scores.IsQuitting():
		m.quitting = true
		return m, tea.Quit
	case m.scores.IsGoingBack():
		return m.backToMenu()
	}
	return m, cmd
}

func (m SessionModel) updateLobby(msg tea.Msg) (tea.Model, tea.Cmd) {
	newLobby, cmd := m.lobby.Update(msg)
	if lm, ok := newLobby.(OnlineLobbyModel); ok {
		m.lobby = lm
	}

	switch {
	case m.lobby.IsQuitting():
		m.quitting = true
		return m, tea.Quit
	case m.lobby.BackToMenu():
		return m.backToMenu()
	case m.lobby.Linked() != nil:
		linked := m.lobby.Linked()
		name := ""
		if lvl, err := m.cfg.Catalog.Get(linked.WorldID); err == nil {
			name = lvl.Name
		}
		m.relay = multiplayer.NewRelayLink(m.cfg.Coordinator, m.cfg.Session.ID())
		return m.startRace(linked.WorldID, name, m.relay)
	}
	return m, cmd
}

func (m SessionModel) startRace(worldID int, name string, link game.Transport) (tea.Model, tea.Cmd) {
	race, err := NewRaceModel(RaceConfig{
		WorldID:     worldID,
		WorldName:   name,
		Worlds:      m.cfg.Catalog,
		Results:     m.cfg.results(),
		Settings:    m.cfg.Settings,
		ScrollSpeed: m.cfg.ScrollSpeed,
		Logger:      m.cfg.Logger,
		Link:        link,
	})
	if err != nil {
		m.cfg.logger().Error("cannot start race", "world", worldID, "err", err)
		return m.backToMenu()
	}
	race.width, race.height = m.width, m.height
	race.help.Width = m.width

	m.race = race
	m.screen = screenRace
	return m, m.race.Init()
}

func (m SessionModel) updateRace(msg tea.Msg) (tea.Model, tea.Cmd) {
	newRace, cmd := m.race.Update(msg)
	if rm, ok := newRace.(RaceModel); ok {
		m.race = rm
	}

	if !m.race.Closed() {
		return m, cmd
	}
	m.relay = nil
	if m.race.IsQuitting() {
		m.quitting = true
		return m, tea.Quit
	}
	return m.backToMenu()
}

func (m SessionModel) backToMenu() (tea.Model, tea.Cmd) {
	m.menu = NewMenuModel(m.cfg.Catalog, m.cfg.Store, m.cfg.online(), m.width, m.height)
	m.screen = screenMenu
	return m, nil
}

func (m SessionModel) View() string {
	if m.quitting {
		return ""
	}
	switch m.screen {
	case screenRace:
		return m.race.View()
	case screenScores:
		return m.scores.View()
	case screenLobby:
		return m.lobby.View()
	default:
		return m.menu.View()
	}
}

// RunSession runs the interactive menu in its own Bubble Tea program.
func RunSession(cfg SessionConfig, width, height int, opts ...tea.ProgramOption) error {
	model := NewSessionModel(cfg, width, height)
	p := tea.NewProgram(model, append([]tea.ProgramOption{tea.WithAltScreen()}, opts...)...)
	_, err := p.Run()
	return err
}
