// Package multiplayer pairs two terminal sessions into a race and relays
// packet bytes between them. The coordinator never looks inside a packet;
// both devices run their own game and only exchange protocol frames.
package multiplayer

import "github.com/google/uuid"

// SessionID uniquely identifies a player's session (an SSH connection or
// the local terminal).
type SessionID string

// NewSessionID returns a random session identifier.
func NewSessionID() SessionID {
	return SessionID(uuid.NewString())
}

// LinkID identifies a pair of linked sessions.
type LinkID string

func newLinkID() LinkID {
	return LinkID(uuid.NewString())
}

// UnlinkReason describes why a link went away.
type UnlinkReason int

const (
	UnlinkPartnerLeft         UnlinkReason = iota // partner dropped the link
	UnlinkPartnerDisconnected                     // partner's session ended
)

func (r UnlinkReason) String() string {
	switch r {
	case UnlinkPartnerLeft:
		return "Partner left"
	case UnlinkPartnerDisconnected:
		return "Partner disconnected"
	default:
		return "Unknown"
	}
}
