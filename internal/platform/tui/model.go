package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tilt-platformer/internal/core"
	"github.com/vovakirdan/tilt-platformer/internal/game"
)

// RaceConfig describes one race on a terminal device.
type RaceConfig struct {
	WorldID     int
	WorldName   string
	Worlds      game.WorldProvider
	Results     game.ResultSink // optional
	Settings    game.Settings
	ScrollSpeed time.Duration
	Logger      *log.Logger // optional

	// Link races against a partner. Packets, when set, carries the
	// partner's frames; relayed sessions call Deliver instead.
	Link    game.Transport
	Packets <-chan []byte

	// Standalone quits the program when the race is over.
	Standalone bool
}

type (
	frameMsg      struct{}
	packetMsg     []byte
	raceClosedMsg struct{}
)

type raceDoneMsg struct {
	result game.Result
	err    error
}

// RaceModel runs a game on a Device and shows it.
type RaceModel struct {
	cfg    RaceConfig
	device *Device
	game   *game.Game
	keys   DeviceKeyMap
	help   help.Model
	ctx    context.Context
	cancel context.CancelFunc

	width  int
	height int

	finished bool
	closed   bool
	quitting bool
	result   game.Result
	err      error
}

// NewRaceModel wires a game to a fresh device.
func NewRaceModel(cfg RaceConfig) (RaceModel, error) {
	device := NewDevice(cfg.Settings.ScreenSize, cfg.ScrollSpeed)
	g := game.New(game.Options{
		Display:  device,
		Input:    device,
		Worlds:   cfg.Worlds,
		Results:  cfg.Results,
		Logger:   cfg.Logger,
		Settings: cfg.Settings,
	})
	if cfg.Link != nil {
		if err := g.Link(cfg.Link); err != nil {
			return RaceModel{}, err
		}
	}

	ctx, cancel := context.WithCancel(context.Background())
	h := help.New()
	h.ShowAll = false

	return RaceModel{
		cfg:    cfg,
		device: device,
		game:   g,
		keys:   DefaultDeviceKeyMap(),
		help:   h,
		ctx:    ctx,
		cancel: cancel,
	}, nil
}

func (m RaceModel) Init() tea.Cmd {
	return tea.Batch(m.runRace(), m.waitForFrame(), m.waitForPacket())
}

func (m RaceModel) runRace() tea.Cmd {
	g, ctx, id := m.game, m.ctx, m.cfg.WorldID
	return func() tea.Msg {
		res, err := g.Play(ctx, id)
		return raceDoneMsg{result: res, err: err}
	}
}

// waitForFrame returns a command that waits for the device to change.
func (m RaceModel) waitForFrame() tea.Cmd {
	d := m.device
	return func() tea.Msg {
		select {
		case <-d.Updates():
			return frameMsg{}
		case <-d.Done():
			return nil
		}
	}
}

// waitForPacket returns a command that waits for the partner's next frame.
func (m RaceModel) waitForPacket() tea.Cmd {
	if m.cfg.Packets == nil {
		return nil
	}
	packets, done := m.cfg.Packets, m.device.Done()
	return func() tea.Msg {
		select {
		case b, ok := <-packets:
			if !ok {
				return nil
			}
			return packetMsg(b)
		case <-done:
			return nil
		}
	}
}

func (m RaceModel) waitIdle() tea.Cmd {
	d := m.device
	return func() tea.Msg {
		d.WaitIdle()
		return raceClosedMsg{}
	}
}

func (m RaceModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil

	case frameMsg:
		return m, m.waitForFrame()

	case packetMsg:
		m.game.OnMessage(msg)
		return m, m.waitForPacket()

	case raceDoneMsg:
		m.finished = true
		m.result = msg.result
		m.err = msg.err
		return m, m.waitIdle()

	case raceClosedMsg:
		return m.close()
	}
	return m, nil
}

func (m RaceModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.Quit) {
		m.quitting = true
		m.cancel()
		m.device.StopAnimation()
		if m.closed {
			return m, tea.Quit
		}
		return m, nil
	}
	if m.finished {
		return m, nil
	}

	if dir := m.keys.Tilt(msg); dir != 0 {
		m.device.Tilt(dir)
		return m, nil
	}
	if b := m.keys.Button(msg); b != core.ButtonNone {
		m.game.Press(b)
	}
	return m, nil
}

func (m RaceModel) close() (tea.Model, tea.Cmd) {
	m.closed = true
	m.cancel()
	m.device.Close()
	if m.cfg.Link != nil {
		if err := m.cfg.Link.Disconnect(); err != nil && m.cfg.Logger != nil {
			m.cfg.Logger.Warn("closing link", "err", err)
		}
	}
	if m.quitting || m.cfg.Standalone {
		return m, tea.Quit
	}
	return m, nil
}

// Deliver hands bytes from the partner to the game.
func (m RaceModel) Deliver(b []byte) {
	m.game.OnMessage(b)
}

func (m RaceModel) View() string {
	if m.quitting && m.closed {
		return ""
	}

	var b strings.Builder
	b.WriteString("\n")

	title := fmt.Sprintf("WORLD %d", m.cfg.WorldID)
	if m.cfg.WorldName != "" {
		title += " · " + m.cfg.WorldName
	}
	b.WriteString(centerText(titleStyle.Render(title), m.width))
	b.WriteString("\n\n")

	frame, banner := m.device.Snapshot()
	for _, line := range strings.Split(RenderDevice(frame, banner), "\n") {
		b.WriteString(centerText(line, m.width))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(centerText(dimStyle.Render(m.status()), m.width))
	b.WriteString("\n\n")
	b.WriteString(centerText(dimStyle.Render(m.help.View(m.keys)), m.width))

	return lipgloss.NewStyle().MaxWidth(max(m.width, 1)).Render(b.String())
}

func (m RaceModel) status() string {
	switch {
	case m.finished && m.err != nil:
		return "error: " + m.err.Error()
	case m.finished:
		return fmt.Sprintf("%s · score %d", m.result.Outcome, m.result.Score)
	case m.quitting:
		return "leaving..."
	case m.game.Multiplayer():
		return "racing a partner"
	default:
		return "solo run"
	}
}

// Closed reports whether the race and its banners are over.
func (m RaceModel) Closed() bool {
	return m.closed
}

// IsQuitting returns true if user requested to quit entirely.
func (m RaceModel) IsQuitting() bool {
	return m.quitting
}

// Result returns the race outcome once Closed.
func (m RaceModel) Result() (game.Result, error) {
	return m.result, m.err
}

// RunRace runs a single race in its own Bubble Tea program.
func RunRace(cfg RaceConfig, opts ...tea.ProgramOption) (game.Result, error) {
	cfg.Standalone = true
	model, err := NewRaceModel(cfg)
	if err != nil {
		return game.Result{}, err
	}

	p := tea.NewProgram(model, append([]tea.ProgramOption{tea.WithAltScreen()}, opts...)...)
	final, err := p.Run()
	if err != nil {
		return game.Result{}, err
	}
	if rm, ok := final.(RaceModel); ok {
		return rm.Result()
	}
	return game.Result{}, nil
}
