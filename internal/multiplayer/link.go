package multiplayer

import (
	"errors"
	"sync/atomic"

	"github.com/vovakirdan/tilt-platformer/internal/game"
)

// ErrUnlinked is returned when sending on a link that was dropped.
var ErrUnlinked = errors.New("multiplayer: link closed")

var _ game.Transport = (*RelayLink)(nil)

// RelayLink is the game transport of one linked session. Bytes go through
// the coordinator to the partner, who receives them as PacketEvents.
type RelayLink struct {
	coord   *Coordinator
	session SessionID
	closed  atomic.Bool
}

// NewRelayLink returns the transport for session.
func NewRelayLink(coord *Coordinator, session SessionID) *RelayLink {
	return &RelayLink{coord: coord, session: session}
}

func (l *RelayLink) Send(b []byte) error {
	if l.closed.Load() {
		return ErrUnlinked
	}
	data := make([]byte, len(b))
	copy(data, b)
	l.coord.Send(RelayMsg{SessionID: l.session, Data: data})
	return nil
}

// Disconnect drops the link. The partner receives an UnlinkedEvent after
// any packets already sent.
func (l *RelayLink) Disconnect() error {
	if l.closed.Swap(true) {
		return nil
	}
	l.coord.Send(UnlinkMsg{SessionID: l.session})
	return nil
}

// Closed reports whether Disconnect was called.
func (l *RelayLink) Closed() bool {
	return l.closed.Load()
}
