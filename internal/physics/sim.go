// Package physics advances one play session by discrete, grid-aligned ticks.
// It is deterministic: the same world, tilt sequence and jump calls always
// produce the same result.
package physics

import (
	"github.com/vovakirdan/tilt-platformer/internal/world"
)

// Event is the terminal outcome of a tick, if any.
type Event int

const (
	EventNone     Event = iota
	EventComplete       // player is standing on a flag
	EventFell           // player dropped below row 0
)

// String returns a human-readable name for the event.
func (e Event) String() string {
	switch e {
	case EventNone:
		return "None"
	case EventComplete:
		return "Complete"
	case EventFell:
		return "Fell"
	default:
		return "Unknown"
	}
}

// Params are the tunable constants of the movement model.
type Params struct {
	JumpImpulse   int // vertical velocity set by a grounded jump
	TiltThreshold int // tilt magnitude that nudges the player sideways
}

// DefaultParams returns the stock movement constants.
func DefaultParams() Params {
	return Params{
		JumpImpulse:   3,
		TiltThreshold: 300,
	}
}

// StepResult describes what happened during one tick.
type StepResult struct {
	Tick          uint64
	Event         Event
	CoinCollected bool
}

// Sim owns the mutable state of a single play session.
type Sim struct {
	World  *world.World
	Player *world.Player

	// Score counts coins picked up this session.
	Score int

	// ShowCoins flips every completed tick and drives coin blinking.
	// It starts false so coins are visible after the first tick.
	ShowCoins bool

	Tick uint64

	params Params
}

// NewSim creates a session with the player at the world's spawn point.
func NewSim(w *world.World, params Params) *Sim {
	return &Sim{
		World:  w,
		Player: world.NewPlayer(w.Spawn()),
		params: params,
	}
}

// Jump gives the player upward velocity if it is standing on solid ground.
// Returns true if the jump happened.
func (s *Sim) Jump() bool {
	below := s.World.Block(s.Player.Pos.Relative(0, -1))
	if below != world.Solid {
		return false
	}
	s.Player.Vel.Y = s.params.JumpImpulse
	return true
}

// Step advances the session by one tick. tilt is the signed accelerometer
// reading for the horizontal axis.
//
// Order matters; later rules see the effects of earlier ones:
//  1. A flag at the player's position completes the level (nothing else moves).
//     A coin there is collected and becomes air.
//  2. A solid block above stops upward velocity. No solid block below
//     adds one unit of downward velocity (no terminal velocity).
//  3. Positive velocity moves up one row. Negative velocity lands on solid
//     ground or moves down one row; dropping below row 0 is a fall.
//  4. Tilt beyond the threshold nudges the player one column, unless a solid
//     block or the world edge is in the way.
//  5. Horizontal velocity moves one column in its direction.
//  6. The coin blink flag toggles.
func (s *Sim) Step(tilt int) StepResult {
	s.Tick++
	result := StepResult{Tick: s.Tick}

	w := s.World
	pos := &s.Player.Pos
	vel := &s.Player.Vel

	// 1. Tile interaction at the current position
	switch w.Block(*pos) {
	case world.Flag:
		result.Event = EventComplete
		return result
	case world.Coin:
		w.SetBlock(*pos, world.Air)
		s.Score++
		result.CoinCollected = true
	}

	// 2. Vertical velocity
	above := w.Block(pos.Relative(0, 1))
	below := w.Block(pos.Relative(0, -1))

	if above == world.Solid && vel.Y > 0 {
		vel.Y = 0
	}
	if below != world.Solid {
		vel.Y--
	}

	// 3. Vertical position
	if vel.Y > 0 {
		pos.Y++
	} else if vel.Y < 0 {
		if below == world.Solid {
			vel.Y = 0
		} else {
			pos.Y--
			if pos.Y < 0 {
				result.Event = EventFell
				return result
			}
		}
	}

	// 4. Tilt nudge
	left := w.Block(pos.Relative(-1, 0))
	right := w.Block(pos.Relative(1, 0))

	if tilt < -s.params.TiltThreshold && pos.X > 0 && left != world.Solid {
		pos.X--
	}
	if tilt > s.params.TiltThreshold && pos.X < w.MaxX()-1 && right != world.Solid {
		pos.X++
	}

	// 5. Horizontal velocity
	if vel.X > 0 {
		pos.X++
	} else if vel.X < 0 {
		pos.X--
	}

	// 6. World updates
	s.ShowCoins = !s.ShowCoins

	return result
}
