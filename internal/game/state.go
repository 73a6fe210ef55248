package game

import (
	"context"

	"github.com/vovakirdan/tilt-platformer/internal/protocol"
)

// State is one mode of the device. The input and message handlers run
// with the game mutex held and must not block. Run owns the tick loop and
// returns once the game has moved to another state.
type State interface {
	OnButtonA()
	OnButtonB()
	OnButtonAB()
	OnMessage(p protocol.Packet)
	Run(ctx context.Context)
	String() string
}

// Menu is the resting state between races. Navigation lives outside the
// game, so every handler is a no-op.
type Menu struct{}

func (*Menu) OnButtonA()                {}
func (*Menu) OnButtonB()                {}
func (*Menu) OnButtonAB()               {}
func (*Menu) OnMessage(protocol.Packet) {}
func (*Menu) Run(context.Context)       {}
func (*Menu) String() string            { return "Menu" }
