package game

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/vovakirdan/tilt-platformer/internal/core"
	"github.com/vovakirdan/tilt-platformer/internal/protocol"
	"github.com/vovakirdan/tilt-platformer/internal/world"
)

// All fakes are driven from the game goroutine (through the sleep and
// scroll hooks), so they need no locking.

type fakeDisplay struct {
	frames   []*core.PixelBuffer
	scrolls  []string
	async    []string
	stops    int
	onScroll func(text string)
}

func (d *fakeDisplay) Show(frame *core.PixelBuffer) {
	d.frames = append(d.frames, frame)
}

func (d *fakeDisplay) Scroll(_ context.Context, text string) {
	d.scrolls = append(d.scrolls, text)
	if d.onScroll != nil {
		d.onScroll(text)
	}
}

func (d *fakeDisplay) ScrollAsync(text string) {
	d.async = append(d.async, text)
}

func (d *fakeDisplay) StopAnimation() {
	d.stops++
}

func (d *fakeDisplay) count(text string) int {
	n := 0
	for _, s := range d.scrolls {
		if s == text {
			n++
		}
	}
	return n
}

type fakeInput struct {
	tilt int
}

func (i *fakeInput) TiltX() int { return i.tilt }

type fakeLink struct {
	sent         []protocol.Packet
	disconnected bool
	sendErr      error
}

func (l *fakeLink) Send(b []byte) error {
	p, err := protocol.Decode(b)
	if err != nil {
		return err
	}
	l.sent = append(l.sent, p)
	return l.sendErr
}

func (l *fakeLink) Disconnect() error {
	l.disconnected = true
	return nil
}

type fakeWorlds struct {
	rows  []string
	spawn core.Vec2
	calls int
}

func (w *fakeWorlds) CreateWorld(id int) (*world.World, error) {
	w.calls++
	if w.rows == nil {
		return nil, errors.New("no such world")
	}
	built, err := world.FromRows(id, w.rows)
	if err != nil {
		return nil, err
	}
	built.SetSpawn(w.spawn)
	return built, nil
}

type fakeSink struct {
	results []Result
}

func (s *fakeSink) RecordResult(r Result) error {
	s.results = append(s.results, r)
	return nil
}

// harness runs a Game with fakes and a sleep that never waits.
type harness struct {
	t       *testing.T
	g       *Game
	display *fakeDisplay
	input   *fakeInput
	link    *fakeLink
	worlds  *fakeWorlds
	sink    *fakeSink

	ticks  int
	onTick func(n int)

	ctx    context.Context
	cancel context.CancelFunc
}

const maxTestTicks = 500

func newHarness(t *testing.T, rows []string, multiplayer bool) *harness {
	t.Helper()

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	h := &harness{
		t:       t,
		display: &fakeDisplay{},
		input:   &fakeInput{},
		worlds:  &fakeWorlds{rows: rows, spawn: world.DefaultSpawn},
		sink:    &fakeSink{},
		ctx:     ctx,
		cancel:  cancel,
	}

	settings := DefaultSettings()
	settings.FlashCount = 4

	h.g = New(Options{
		Display:  h.display,
		Input:    h.input,
		Worlds:   h.worlds,
		Results:  h.sink,
		Settings: settings,
		Sleep:    h.sleep,
	})

	if multiplayer {
		h.link = &fakeLink{}
		if err := h.g.Link(h.link); err != nil {
			t.Fatalf("Link failed: %v", err)
		}
	}
	return h
}

func (h *harness) sleep(ctx context.Context, _ time.Duration) error {
	h.ticks++
	if h.ticks > maxTestTicks {
		h.t.Error("game did not settle")
		h.cancel()
	}
	if h.onTick != nil {
		h.onTick(h.ticks)
	}
	return ctx.Err()
}

func (h *harness) play() Result {
	h.t.Helper()
	res, err := h.g.Play(h.ctx, 1)
	if err != nil {
		h.t.Fatalf("Play failed: %v", err)
	}
	if _, ok := h.g.State().(*Menu); !ok {
		h.t.Fatalf("game ended in %s, expected Menu", h.g.State())
	}
	if len(h.sink.results) != 1 {
		h.t.Fatalf("recorded %d results, expected 1", len(h.sink.results))
	}
	return res
}

func (h *harness) deliver(p protocol.Packet) {
	h.g.OnMessage(protocol.Encode(p))
}

func (h *harness) sentTypes() []protocol.Type {
	var out []protocol.Type
	for _, p := range h.link.sent {
		out = append(out, p.Type())
	}
	return out
}
