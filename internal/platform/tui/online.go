package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/tilt-platformer/internal/multiplayer"
)

// OnlineState is a step of the lobby flow.
type OnlineState int

const (
	OnlineStateChooseMode    OnlineState = iota // host or join
	OnlineStateHostWaiting                      // hosting, waiting for joiner
	OnlineStateJoinEnterCode                    // typing a join code
	OnlineStateJoinWaiting                      // join sent, waiting for the link
	OnlineStateLinked                           // ready to race
)

// LobbyKeyMap binds keys for the lobby screens.
type LobbyKeyMap struct {
	Host    key.Binding
	Join    key.Binding
	Connect key.Binding
	Back    key.Binding
	Quit    key.Binding
}

func (k LobbyKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Host, k.Join, k.Connect, k.Back, k.Quit}
}

func (k LobbyKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp()}
}

// DefaultLobbyKeyMap returns default lobby bindings.
func DefaultLobbyKeyMap() LobbyKeyMap {
	return LobbyKeyMap{
		Host: key.NewBinding(
			key.WithKeys("h", "H", "1"),
			key.WithHelp("h", "host"),
		),
		Join: key.NewBinding(
			key.WithKeys("j", "J", "2"),
			key.WithHelp("j", "join"),
		),
		Connect: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "connect"),
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

// OnlineLobbyModel pairs this session with a partner through the
// coordinator. Coordinator events are forwarded to Update by the owner.
type OnlineLobbyModel struct {
	state       OnlineState
	width       int
	height      int
	worldID     int
	worldName   string
	sessionID   multiplayer.SessionID
	coordinator *multiplayer.Coordinator

	keys      LobbyKeyMap
	help      help.Model
	lobbyCode string
	codeInput textinput.Model
	lastError string
	linked    *multiplayer.LinkedEvent

	backToMenu bool
	quitting   bool
}

// NewOnlineLobbyModel starts the flow for racing worldID.
func NewOnlineLobbyModel(
	worldID int,
	worldName string,
	sessionID multiplayer.SessionID,
	coordinator *multiplayer.Coordinator,
	width, height int,
) OnlineLobbyModel {
	ti := textinput.New()
	ti.Placeholder = "ABC234"
	ti.CharLimit = 6
	ti.Width = 8

	m := OnlineLobbyModel{
		width:       width,
		height:      height,
		worldID:     worldID,
		worldName:   worldName,
		sessionID:   sessionID,
		coordinator: coordinator,
		keys:        DefaultLobbyKeyMap(),
		help:        help.New(),
		codeInput:   ti,
	}
	m.setState(OnlineStateChooseMode)
	return m
}

// setState moves to s and enables only the keys that make sense there.
func (m *OnlineLobbyModel) setState(s OnlineState) {
	m.state = s
	choosing := s == OnlineStateChooseMode
	m.keys.Host.SetEnabled(choosing)
	m.keys.Join.SetEnabled(choosing)
	m.keys.Connect.SetEnabled(s == OnlineStateJoinEnterCode)
	m.keys.Back.SetEnabled(s != OnlineStateJoinWaiting && s != OnlineStateLinked)

	// Typed codes may contain q and b.
	if s == OnlineStateJoinEnterCode {
		m.keys.Quit.SetKeys("ctrl+c")
		m.keys.Back.SetKeys("esc")
	} else {
		m.keys.Quit.SetKeys("q", "ctrl+c")
		m.keys.Back.SetKeys("esc", "b")
	}
}

func (m OnlineLobbyModel) Init() tea.Cmd {
	return nil
}

func (m OnlineLobbyModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil

	case multiplayer.LobbyCreatedEvent:
		m.lobbyCode = msg.Code
		m.setState(OnlineStateHostWaiting)
		return m, nil

	case multiplayer.LobbyErrorEvent:
		m.lastError = msg.Message
		switch m.state {
		case OnlineStateJoinWaiting:
			m.setState(OnlineStateJoinEnterCode)
			cmd := m.codeInput.Focus()
			return m, cmd
		case OnlineStateHostWaiting:
			m.lobbyCode = ""
			m.setState(OnlineStateChooseMode)
		}
		return m, nil

	case multiplayer.LinkedEvent:
		m.linked = &msg
		m.setState(OnlineStateLinked)
		return m, nil
	}

	if m.state == OnlineStateJoinEnterCode {
		var cmd tea.Cmd
		m.codeInput, cmd = m.codeInput.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m OnlineLobbyModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.cancelLobby()
		m.quitting = true
		return m, tea.Quit

	case key.Matches(msg, m.keys.Host):
		m.lastError = ""
		m.coordinator.Send(multiplayer.CreateLobbyMsg{
			SessionID: m.sessionID,
			WorldID:   m.worldID,
		})
		return m, nil

	case key.Matches(msg, m.keys.Join):
		m.lastError = ""
		m.codeInput.SetValue("")
		m.setState(OnlineStateJoinEnterCode)
		cmd := m.codeInput.Focus()
		return m, cmd

	case key.Matches(msg, m.keys.Connect):
		code := strings.ToUpper(strings.TrimSpace(m.codeInput.Value()))
		if code == "" {
			return m, nil
		}
		m.codeInput.Blur()
		m.lastError = ""
		m.setState(OnlineStateJoinWaiting)
		m.coordinator.Send(multiplayer.JoinLobbyMsg{
			SessionID: m.sessionID,
			Code:      code,
		})
		return m, nil

	case key.Matches(msg, m.keys.Back):
		if m.state == OnlineStateJoinEnterCode {
			m.codeInput.Blur()
			m.setState(OnlineStateChooseMode)
			return m, nil
		}
		m.cancelLobby()
		m.backToMenu = true
		return m, nil
	}

	if m.state == OnlineStateJoinEnterCode {
		var cmd tea.Cmd
		m.codeInput, cmd = m.codeInput.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m OnlineLobbyModel) cancelLobby() {
	if m.state == OnlineStateHostWaiting && m.lobbyCode != "" {
		m.coordinator.Send(multiplayer.CancelLobbyMsg{
			SessionID: m.sessionID,
			Code:      m.lobbyCode,
		})
	}
}

func (m OnlineLobbyModel) View() string {
	if m.quitting {
		return ""
	}

	var lines []string
	switch m.state {
	case OnlineStateChooseMode:
		lines = []string{
			titleStyle.Render(fmt.Sprintf("RACE · WORLD %d %s", m.worldID, m.worldName)),
			"",
			"Host a race and share the code,",
			"or join a friend's race.",
		}
	case OnlineStateHostWaiting:
		lines = []string{
			titleStyle.Render("HOSTING"),
			"",
			"Race code:",
			bannerStyle.Render(m.lobbyCode),
			"",
			"Waiting for a partner...",
		}
	case OnlineStateJoinEnterCode:
		lines = []string{
			titleStyle.Render("JOIN"),
			"",
			"Race code:",
			m.codeInput.View(),
		}
	case OnlineStateJoinWaiting:
		lines = []string{titleStyle.Render("CONNECTING...")}
	case OnlineStateLinked:
		lines = []string{titleStyle.Render("GET READY")}
	}

	if m.lastError != "" {
		lines = append(lines, "", bannerStyle.Render(m.lastError))
	}
	lines = append(lines, "", dimStyle.Render(m.help.View(m.keys)))

	var b strings.Builder
	b.WriteString("\n")
	for _, l := range lines {
		b.WriteString(centerText(l, m.width))
		b.WriteString("\n")
	}
	return b.String()
}

// State returns the current online state.
func (m OnlineLobbyModel) State() OnlineState {
	return m.state
}

// Linked returns the link once the partner is found.
func (m OnlineLobbyModel) Linked() *multiplayer.LinkedEvent {
	return m.linked
}

// BackToMenu reports whether the player left the lobby.
func (m OnlineLobbyModel) BackToMenu() bool {
	return m.backToMenu
}

// IsQuitting reports whether the player quit the program.
func (m OnlineLobbyModel) IsQuitting() bool {
	return m.quitting
}

// LobbyCode returns the hosted lobby code.
func (m OnlineLobbyModel) LobbyCode() string {
	return m.lobbyCode
}
