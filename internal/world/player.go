package world

import "github.com/vovakirdan/tilt-platformer/internal/core"

// Player is the single controllable body in a session.
// Velocity is unbounded here; the physics step enforces its own limits.
type Player struct {
	Pos core.Vec2
	Vel core.Vec2
}

// NewPlayer creates a player at rest at the given position.
func NewPlayer(pos core.Vec2) *Player {
	return &Player{Pos: pos}
}
