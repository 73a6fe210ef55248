package game

import (
	"context"
	"strconv"

	"github.com/vovakirdan/tilt-platformer/internal/physics"
	"github.com/vovakirdan/tilt-platformer/internal/protocol"
	"github.com/vovakirdan/tilt-platformer/internal/render"
	"github.com/vovakirdan/tilt-platformer/internal/world"
)

const waitingBanner = "WAITING"

// Play is an active run through a world. Each Play owns its world and
// player; a restart after death builds a new one.
type Play struct {
	g   *Game
	sim *physics.Sim

	complete bool // reached the flag
	quit     bool // local player left

	partnerComplete bool
	partnerScore    int32
}

func newPlay(g *Game, w *world.World) *Play {
	return &Play{
		g:   g,
		sim: physics.NewSim(w, g.settings.Physics),
	}
}

func (p *Play) String() string { return "Play" }

// Sim exposes the running simulation.
func (p *Play) Sim() *physics.Sim { return p.sim }

func (p *Play) OnButtonA() {
	p.partnerComplete = true
	p.quit = true
	p.g.finishLocked(OutcomeQuit, p.sim.Score, int(p.partnerScore))
	p.g.sendLocked(protocol.QuitWorld{})
	p.g.quitToMenuLocked()
}

func (p *Play) OnButtonB() {
	p.sim.Jump()
}

func (p *Play) OnButtonAB() {
	p.partnerComplete = true
	p.quit = true
	p.g.finishLocked(OutcomeQuit, p.sim.Score, int(p.partnerScore))
	p.g.disconnectLocked(true)
	p.g.quitToMenuLocked()
}

func (p *Play) OnMessage(pkt protocol.Packet) {
	if p.g.result != nil {
		p.afterResultLocked(pkt)
		return
	}

	switch v := pkt.(type) {
	case protocol.WorldComplete:
		if p.complete {
			p.g.display.StopAnimation()
		}
		p.partnerScore = v.Score
		p.partnerComplete = true

	case protocol.QuitWorld:
		p.partnerLeftLocked()
		p.g.quitToMenuLocked()

	case protocol.Disconnect:
		p.partnerLeftLocked()
		p.g.disconnectLocked(false)
		p.g.quitToMenuLocked()
	}
}

// afterResultLocked handles packets that arrive while the outcome banners
// run. The race is decided, so a leaving partner only drops the link and
// the banners play out.
func (p *Play) afterResultLocked(pkt protocol.Packet) {
	if _, ok := pkt.(protocol.Disconnect); ok {
		p.g.disconnectLocked(false)
	}
}

// partnerLeftLocked settles the partner as a non-finisher. A race that is
// still running ends as a quit; a pending completion wait resolves as a win.
func (p *Play) partnerLeftLocked() {
	p.partnerComplete = true
	p.partnerScore = protocol.ForfeitScore
	if !p.complete {
		p.g.finishLocked(OutcomeQuit, p.sim.Score, int(p.partnerScore))
	}
}

// abandonLocked leaves the race because the device is shutting down.
func (p *Play) abandonLocked() {
	p.quit = true
	p.g.finishLocked(OutcomeQuit, p.sim.Score, int(p.partnerScore))
	p.g.sendLocked(protocol.QuitWorld{})
	p.g.quitToMenuLocked()
}

func (p *Play) Run(ctx context.Context) {
	g := p.g

	for {
		g.mu.Lock()
		if g.state != p {
			g.mu.Unlock()
			return
		}
		if ctx.Err() != nil {
			p.abandonLocked()
			g.mu.Unlock()
			return
		}

		res := p.sim.Step(g.input.TiltX())
		switch res.Event {
		case physics.EventComplete:
			p.complete = true
			g.mu.Unlock()
			p.handleCompletion(ctx)
			return
		case physics.EventFell:
			forfeit := p.handleFallLocked()
			g.mu.Unlock()
			if forfeit {
				g.display.Scroll(ctx, forfeitBanner)
				g.mu.Lock()
				g.quitToMenuLocked()
				g.mu.Unlock()
			}
			return
		}

		render.Draw(g.screen, p.sim.World, p.sim.Player.Pos, p.sim.ShowCoins, g.settings.Palette)
		frame := g.frameLocked()
		g.mu.Unlock()

		g.display.Show(frame)
		_ = g.sleep(ctx)
	}
}

// handleFallLocked moves to the death screen, or forfeits when the partner
// has already finished. It reports whether the race was forfeited.
func (p *Play) handleFallLocked() bool {
	g := p.g
	if !p.partnerComplete {
		g.setStateLocked(newDeath(g, p.sim.World.ID()))
		return false
	}

	g.finishLocked(OutcomeLose, 0, int(p.partnerScore))
	g.sendLocked(protocol.WorldComplete{Score: protocol.ForfeitScore})
	return true
}

// handleCompletion runs once the player is on the flag. Alone, the race is
// won. With a partner, the score is reported and the loop blocks until the
// partner finishes, forfeits or leaves.
func (p *Play) handleCompletion(ctx context.Context) {
	g := p.g

	g.mu.Lock()
	score := p.sim.Score
	multi := g.link != nil
	if !multi {
		g.completeLocked(OutcomeWin, score, 0)
		g.mu.Unlock()
		p.showResult(ctx, OutcomeWin, score)
		return
	}
	g.sendLocked(protocol.WorldComplete{Score: int32(score)})
	g.mu.Unlock()

	// Bounded only when a timeout is configured.
	maxWaits := 0
	if g.settings.WaitTimeout > 0 && g.settings.TickRate > 0 {
		maxWaits = max(int(g.settings.WaitTimeout/g.settings.TickRate), 1)
	}

	for waits := 0; ; waits++ {
		g.mu.Lock()
		switch {
		case p.quit:
			g.mu.Unlock()
			return
		case p.partnerComplete:
			partner := p.partnerScore
			outcome := Resolve(int32(score), partner)
			g.completeLocked(outcome, score, int(partner))
			g.mu.Unlock()
			p.showResult(ctx, outcome, score)
			return
		case ctx.Err() != nil:
			p.abandonLocked()
			g.mu.Unlock()
			return
		case maxWaits > 0 && waits >= maxWaits:
			g.log.Warn("partner did not finish in time", "timeout", g.settings.WaitTimeout)
			g.completeLocked(OutcomeTimeout, score, int(p.partnerScore))
			g.sendLocked(protocol.QuitWorld{})
			g.mu.Unlock()
			p.showResult(ctx, OutcomeTimeout, score)
			return
		}
		g.mu.Unlock()

		g.display.Scroll(ctx, waitingBanner)
		_ = g.sleep(ctx)
	}
}

// showResult scrolls the outcome banner and score, then returns to the menu.
func (p *Play) showResult(ctx context.Context, o Outcome, score int) {
	g := p.g
	g.display.Scroll(ctx, o.Banner())
	g.display.Scroll(ctx, strconv.Itoa(score))

	g.mu.Lock()
	g.quitToMenuLocked()
	g.mu.Unlock()
}
