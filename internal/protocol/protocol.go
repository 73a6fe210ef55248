// Package protocol defines the packets two paired devices exchange during a race.
//
// Wire format: one leading type tag byte followed by variant fields.
// WorldComplete carries a big-endian int32 score; a score of -1 means the
// sender did not finish the world.
package protocol

// Type is the leading tag byte of every packet.
type Type uint8

const (
	TypeWorldComplete Type = 1
	TypeQuitWorld     Type = 2
	TypeDisconnect    Type = 3
)

// String returns the wire name of the packet type.
func (t Type) String() string {
	switch t {
	case TypeWorldComplete:
		return "WORLD_COMPLETE"
	case TypeQuitWorld:
		return "QUIT_WORLD"
	case TypeDisconnect:
		return "DISCONNECT"
	default:
		return "UNKNOWN"
	}
}

// ForfeitScore is reported by a player who fell after the partner finished.
const ForfeitScore int32 = -1

// Packet is a decoded protocol message.
type Packet interface {
	Type() Type
}

// WorldComplete announces that the sender finished (or forfeited) the world.
type WorldComplete struct {
	Score int32
}

func (WorldComplete) Type() Type { return TypeWorldComplete }

// QuitWorld announces that the sender left the race.
type QuitWorld struct{}

func (QuitWorld) Type() Type { return TypeQuitWorld }

// Disconnect announces that the sender is tearing down the link.
type Disconnect struct{}

func (Disconnect) Type() Type { return TypeDisconnect }
