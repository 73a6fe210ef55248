package game

import (
	"context"

	"github.com/vovakirdan/tilt-platformer/internal/protocol"
)

// Death flashes the screen after a fall, then restarts the same world.
// The partner link stays up so a race can continue after a retry.
type Death struct {
	g       *Game
	worldID int
	counter int
}

func newDeath(g *Game, worldID int) *Death {
	return &Death{g: g, worldID: worldID}
}

func (d *Death) String() string { return "Death" }

// OnButtonA returns to the menu. During a race it does nothing so a
// stray press cannot abandon the partner.
func (d *Death) OnButtonA() {
	if d.g.link != nil {
		return
	}
	d.g.finishLocked(OutcomeQuit, 0, 0)
	d.g.quitToMenuLocked()
}

func (d *Death) OnButtonB() {
	d.g.finishLocked(OutcomeQuit, 0, 0)
	d.g.sendLocked(protocol.QuitWorld{})
	d.g.quitToMenuLocked()
}

func (d *Death) OnButtonAB() {
	d.g.finishLocked(OutcomeQuit, 0, 0)
	d.g.disconnectLocked(true)
	d.g.quitToMenuLocked()
}

func (d *Death) OnMessage(pkt protocol.Packet) {
	g := d.g
	switch v := pkt.(type) {
	case protocol.WorldComplete:
		// The partner finished while we were down; a retry can't change that.
		g.finishLocked(OutcomeLose, 0, int(v.Score))
		g.sendLocked(protocol.WorldComplete{Score: protocol.ForfeitScore})
		g.quitToMenuLocked()
		g.display.ScrollAsync(forfeitBanner)

	case protocol.QuitWorld:
		g.finishLocked(OutcomeQuit, 0, int(protocol.ForfeitScore))
		g.quitToMenuLocked()

	case protocol.Disconnect:
		g.finishLocked(OutcomeQuit, 0, int(protocol.ForfeitScore))
		g.disconnectLocked(false)
		g.quitToMenuLocked()
	}
}

func (d *Death) Run(ctx context.Context) {
	g := d.g

	for {
		g.mu.Lock()
		if g.state != d {
			g.mu.Unlock()
			return
		}
		if ctx.Err() != nil {
			g.finishLocked(OutcomeQuit, 0, 0)
			g.sendLocked(protocol.QuitWorld{})
			g.quitToMenuLocked()
			g.mu.Unlock()
			return
		}

		d.tickLocked()

		g.screen.Clear()
		if d.counter%2 == 1 {
			g.screen.Fill(g.settings.Flash)
		}
		frame := g.frameLocked()
		g.mu.Unlock()

		g.display.Show(frame)
		_ = g.sleep(ctx)
	}
}

func (d *Death) tickLocked() {
	g := d.g
	d.counter++
	if d.counter < g.settings.FlashCount {
		return
	}

	w, err := g.worlds.CreateWorld(d.worldID)
	if err != nil {
		g.log.Error("cannot restart world", "world", d.worldID, "err", err)
		g.finishLocked(OutcomeQuit, 0, 0)
		g.sendLocked(protocol.QuitWorld{})
		g.quitToMenuLocked()
		return
	}
	g.setStateLocked(newPlay(g, w))
}
