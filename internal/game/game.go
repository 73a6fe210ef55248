// Package game is the state machine that runs one race on a device.
//
// A Game owns the current State and the link to the partner. Button presses
// and received packets may arrive on any goroutine; they are serialized with
// the tick loop by a single mutex, so every State method runs with it held.
// Blocking work (banners, sleeping) happens with the mutex released.
package game

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tilt-platformer/internal/core"
	"github.com/vovakirdan/tilt-platformer/internal/physics"
	"github.com/vovakirdan/tilt-platformer/internal/protocol"
	"github.com/vovakirdan/tilt-platformer/internal/render"
)

// Settings are the tunables of a device.
type Settings struct {
	ScreenSize  int
	TickRate    time.Duration
	FlashCount  int
	WaitTimeout time.Duration // 0 waits for the partner forever
	Physics     physics.Params
	Palette     render.Palette
	Flash       core.Brightness
}

// DefaultSettings returns the stock device tunables.
func DefaultSettings() Settings {
	return Settings{
		ScreenSize: 5,
		TickRate:   100 * time.Millisecond,
		FlashCount: 10,
		Physics:    physics.DefaultParams(),
		Palette:    render.DefaultPalette(),
		Flash:      core.BrightnessFull,
	}
}

// SleepFunc pauses the tick loop. It returns early with ctx's error.
type SleepFunc func(ctx context.Context, d time.Duration) error

// Options wires a Game to its collaborators. Display, Input and Worlds
// are required.
type Options struct {
	Display  Display
	Input    Input
	Worlds   WorldProvider
	Results  ResultSink  // optional
	Logger   *log.Logger // optional
	Settings Settings
	Sleep    SleepFunc // optional, defaults to a timer
}

// Game supervises the states of one device.
type Game struct {
	mu      sync.Mutex
	state   State
	link    Transport
	screen  *core.PixelBuffer
	result  *Result
	worldID int
	multi   bool // a partner was linked when the race started

	display  Display
	input    Input
	worlds   WorldProvider
	results  ResultSink
	log      *log.Logger
	settings Settings
	sleepFn  SleepFunc
}

// New creates a game sitting in the menu.
func New(opts Options) *Game {
	settings := opts.Settings
	if settings.ScreenSize < 1 {
		settings = DefaultSettings()
	}

	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}

	sleep := opts.Sleep
	if sleep == nil {
		sleep = sleepTimer
	}

	g := &Game{
		screen:   core.NewPixelBuffer(settings.ScreenSize),
		display:  opts.Display,
		input:    opts.Input,
		worlds:   opts.Worlds,
		results:  opts.Results,
		log:      logger,
		settings: settings,
		sleepFn:  sleep,
	}
	g.state = &Menu{}
	return g
}

func sleepTimer(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// Link attaches the partner transport. A nil transport means single-player.
// Linking is only allowed from the menu.
func (g *Game) Link(t Transport) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if _, ok := g.state.(*Menu); !ok {
		return errors.New("game: cannot change link during a race")
	}
	g.link = t
	return nil
}

// Multiplayer reports whether a partner is linked.
func (g *Game) Multiplayer() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.link != nil
}

// State returns the active state.
func (g *Game) State() State {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.state
}

// Settings returns the tunables in use.
func (g *Game) Settings() Settings {
	return g.settings
}

// Play runs a race on the given world until the game returns to the menu.
// It blocks; button presses and packets must be delivered from other
// goroutines. Cancelling ctx quits the race as if the player left.
func (g *Game) Play(ctx context.Context, worldID int) (Result, error) {
	w, err := g.worlds.CreateWorld(worldID)
	if err != nil {
		return Result{}, fmt.Errorf("game: create world %d: %w", worldID, err)
	}

	g.mu.Lock()
	if _, ok := g.state.(*Menu); !ok {
		g.mu.Unlock()
		return Result{}, errors.New("game: race already running")
	}
	g.result = nil
	g.worldID = worldID
	g.multi = g.link != nil
	g.setStateLocked(newPlay(g, w))
	g.mu.Unlock()

	for {
		st := g.State()
		if _, ok := st.(*Menu); ok {
			break
		}
		st.Run(ctx)
	}

	g.mu.Lock()
	res := Result{WorldID: worldID, Outcome: OutcomeQuit, Multiplayer: g.multi}
	if g.result != nil {
		res = *g.result
	}
	g.mu.Unlock()

	if g.results != nil {
		if err := g.results.RecordResult(res); err != nil {
			g.log.Warn("failed to record result", "world", worldID, "err", err)
		}
	}
	g.log.Info("race finished", "world", worldID, "outcome", res.Outcome, "score", res.Score, "multiplayer", res.Multiplayer)
	return res, nil
}

// OnButtonA handles the primary button (back).
func (g *Game) OnButtonA() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.state.OnButtonA()
}

// OnButtonB handles the secondary button (jump).
func (g *Game) OnButtonB() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.state.OnButtonB()
}

// OnButtonAB handles both buttons pressed together (disconnect).
func (g *Game) OnButtonAB() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.state.OnButtonAB()
}

// Press dispatches a button to the matching handler.
func (g *Game) Press(b core.Button) {
	switch b {
	case core.ButtonA:
		g.OnButtonA()
	case core.ButtonB:
		g.OnButtonB()
	case core.ButtonAB:
		g.OnButtonAB()
	}
}

// OnMessage handles bytes received from the partner.
// Malformed and unknown packets are dropped.
func (g *Game) OnMessage(b []byte) {
	p, err := protocol.Decode(b)
	if err != nil {
		g.log.Debug("dropping packet", "err", err)
		return
	}

	g.mu.Lock()
	defer g.mu.Unlock()
	g.state.OnMessage(p)
}

// The methods below expect g.mu to be held.

// setStateLocked switches state. Any running banner is stopped first so
// it cannot bleed into the next state.
func (g *Game) setStateLocked(next State) {
	g.display.StopAnimation()
	g.log.Debug("state change", "from", g.state, "to", next)
	g.state = next
}

func (g *Game) quitToMenuLocked() {
	if _, ok := g.state.(*Menu); ok {
		g.display.StopAnimation()
		return
	}
	g.setStateLocked(&Menu{})
}

func (g *Game) sendLocked(p protocol.Packet) {
	if g.link == nil {
		return
	}
	if err := g.link.Send(protocol.Encode(p)); err != nil {
		g.log.Warn("send failed", "packet", p.Type(), "err", err)
	}
}

// disconnectLocked tears down the link. notify tells the partner first.
func (g *Game) disconnectLocked(notify bool) {
	if g.link == nil {
		return
	}
	if notify {
		g.sendLocked(protocol.Disconnect{})
	}
	if err := g.link.Disconnect(); err != nil {
		g.log.Warn("disconnect failed", "err", err)
	}
	g.link = nil
	g.log.Info("partner link closed")
}

// finishLocked stores the outcome of the race. Only the first call counts.
func (g *Game) finishLocked(o Outcome, score, partner int) {
	if g.result != nil {
		return
	}
	g.result = &Result{
		WorldID:      g.worldID,
		Score:        score,
		PartnerScore: partner,
		Outcome:      o,
		Multiplayer:  g.multi,
	}
}

// completeLocked is finishLocked for a player who reached the flag.
func (g *Game) completeLocked(o Outcome, score, partner int) {
	if g.result != nil {
		return
	}
	g.finishLocked(o, score, partner)
	g.result.Completed = true
}

// frameLocked returns a copy of the screen for the display.
func (g *Game) frameLocked() *core.PixelBuffer {
	return g.screen.Clone()
}

func (g *Game) sleep(ctx context.Context) error {
	return g.sleepFn(ctx, g.settings.TickRate)
}
