package protocol

import (
	"bytes"
	"errors"
	"testing"
)

func TestEncodeLayout(t *testing.T) {
	tests := []struct {
		name     string
		packet   Packet
		expected []byte
	}{
		{"world complete", WorldComplete{Score: 5}, []byte{1, 0, 0, 0, 5}},
		{"forfeit", WorldComplete{Score: ForfeitScore}, []byte{1, 0xff, 0xff, 0xff, 0xff}},
		{"quit world", QuitWorld{}, []byte{2}},
		{"disconnect", Disconnect{}, []byte{3}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := Encode(tc.packet)
			if !bytes.Equal(got, tc.expected) {
				t.Errorf("Encode(%#v) = %v, expected %v", tc.packet, got, tc.expected)
			}
		})
	}
}

func TestDecodeNegativeScore(t *testing.T) {
	p, err := Decode(Encode(WorldComplete{Score: ForfeitScore}))
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	wc, ok := p.(WorldComplete)
	if !ok {
		t.Fatalf("expected WorldComplete, got %T", p)
	}
	if wc.Score != -1 {
		t.Errorf("Score = %d, expected -1", wc.Score)
	}
}

func TestDecodeIgnoresTrailingBytes(t *testing.T) {
	p, err := Decode([]byte{2, 9, 9})
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if p.Type() != TypeQuitWorld {
		t.Errorf("Type() = %s, expected QUIT_WORLD", p.Type())
	}
}

func TestDecodeErrors(t *testing.T) {
	tests := []struct {
		name     string
		in       []byte
		expected error
	}{
		{"empty", nil, ErrEmpty},
		{"short world complete", []byte{1, 0, 0}, ErrShort},
		{"unknown tag", []byte{42}, ErrUnknownType},
		{"zero tag", []byte{0}, ErrUnknownType},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			p, err := Decode(tc.in)
			if !errors.Is(err, tc.expected) {
				t.Errorf("Decode(%v) error = %v, expected %v", tc.in, err, tc.expected)
			}
			if p != nil {
				t.Errorf("Decode(%v) should not return a packet, got %#v", tc.in, p)
			}
		})
	}
}

func TestTypeString(t *testing.T) {
	if TypeWorldComplete.String() != "WORLD_COMPLETE" {
		t.Errorf("unexpected name %q", TypeWorldComplete.String())
	}
	if Type(99).String() != "UNKNOWN" {
		t.Errorf("unexpected name %q", Type(99).String())
	}
}
