package game

import (
	"context"

	"github.com/vovakirdan/tilt-platformer/internal/core"
	"github.com/vovakirdan/tilt-platformer/internal/world"
)

// Display is the pixel matrix the game draws on.
type Display interface {
	// Show replaces the visible frame.
	Show(frame *core.PixelBuffer)

	// Scroll shows a text banner and blocks until it has finished,
	// StopAnimation is called, or ctx is done.
	Scroll(ctx context.Context, text string)

	// ScrollAsync starts a text banner and returns immediately.
	ScrollAsync(text string)

	// StopAnimation cancels any running banner.
	StopAnimation()
}

// Input samples the tilt axis. Buttons are pushed into the game
// through Game.Press and friends.
type Input interface {
	TiltX() int
}

// Transport is the link to the partner device.
// Received bytes are pushed into the game through Game.OnMessage.
type Transport interface {
	Send(b []byte) error
	Disconnect() error
}

// WorldProvider builds worlds by id. Every call must return a fresh world.
type WorldProvider interface {
	CreateWorld(id int) (*world.World, error)
}

// ResultSink receives the outcome of every finished race.
type ResultSink interface {
	RecordResult(r Result) error
}
