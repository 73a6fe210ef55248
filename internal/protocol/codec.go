package protocol

import (
	"encoding/binary"
	"errors"
	"fmt"
)

var (
	// ErrEmpty is returned when decoding a zero-length buffer.
	ErrEmpty = errors.New("protocol: empty packet")

	// ErrShort is returned when a packet is missing variant fields.
	ErrShort = errors.New("protocol: packet too short")

	// ErrUnknownType is returned for tags this build does not understand.
	// Receivers drop these packets rather than failing.
	ErrUnknownType = errors.New("protocol: unknown packet type")
)

const scoreLen = 4

// Encode serializes a packet to its wire representation.
func Encode(p Packet) []byte {
	switch v := p.(type) {
	case WorldComplete:
		out := make([]byte, 1+scoreLen)
		out[0] = byte(TypeWorldComplete)
		binary.BigEndian.PutUint32(out[1:], uint32(v.Score))
		return out
	case *WorldComplete:
		return Encode(*v)
	default:
		return []byte{byte(p.Type())}
	}
}

// Decode parses a wire buffer. Trailing bytes after the variant fields are ignored
// so newer senders can append fields.
func Decode(b []byte) (Packet, error) {
	if len(b) == 0 {
		return nil, ErrEmpty
	}

	t := Type(b[0])
	switch t {
	case TypeWorldComplete:
		if len(b) < 1+scoreLen {
			return nil, fmt.Errorf("%w: %s has %d bytes", ErrShort, t, len(b))
		}
		score := int32(binary.BigEndian.Uint32(b[1 : 1+scoreLen]))
		return WorldComplete{Score: score}, nil
	case TypeQuitWorld:
		return QuitWorld{}, nil
	case TypeDisconnect:
		return Disconnect{}, nil
	default:
		return nil, fmt.Errorf("%w: tag %d", ErrUnknownType, b[0])
	}
}
