// Package world holds the tile grid and player data for a single play session.
// It is pure data: no timing, no rendering, no I/O.
package world

// Block classifies a single world grid cell.
type Block uint8

const (
	Air   Block = iota // passable
	Solid              // blocks movement, supports standing
	Flag               // reaching it completes the level
	Coin               // collectible, becomes Air on pickup
)

// String returns the string representation of a block.
func (b Block) String() string {
	switch b {
	case Air:
		return "Air"
	case Solid:
		return "Solid"
	case Flag:
		return "Flag"
	case Coin:
		return "Coin"
	default:
		return "Unknown"
	}
}

// Glyph returns the level-file character for the block.
func (b Block) Glyph() rune {
	switch b {
	case Solid:
		return '#'
	case Flag:
		return 'F'
	case Coin:
		return 'o'
	default:
		return '.'
	}
}

// ParseBlock maps a level-file character to a block.
// Returns false for characters that are not part of the tile alphabet.
func ParseBlock(r rune) (Block, bool) {
	switch r {
	case '.', ' ':
		return Air, true
	case '#':
		return Solid, true
	case 'F', 'f':
		return Flag, true
	case 'o', 'O', '$':
		return Coin, true
	default:
		return Air, false
	}
}
