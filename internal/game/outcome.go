package game

import "fmt"

// Outcome is how a race ended for the local player.
type Outcome int

const (
	OutcomeQuit Outcome = iota
	OutcomeWin
	OutcomeLose
	OutcomeDraw
	OutcomeTimeout
)

// String returns the stored name of the outcome.
func (o Outcome) String() string {
	switch o {
	case OutcomeWin:
		return "win"
	case OutcomeLose:
		return "lose"
	case OutcomeDraw:
		return "draw"
	case OutcomeTimeout:
		return "timeout"
	default:
		return "quit"
	}
}

// ParseOutcome is the inverse of Outcome.String.
func ParseOutcome(s string) (Outcome, error) {
	switch s {
	case "win":
		return OutcomeWin, nil
	case "lose":
		return OutcomeLose, nil
	case "draw":
		return OutcomeDraw, nil
	case "timeout":
		return OutcomeTimeout, nil
	case "quit":
		return OutcomeQuit, nil
	default:
		return OutcomeQuit, fmt.Errorf("game: unknown outcome %q", s)
	}
}

// Resolve compares the local score with the partner's. A forfeiting
// partner reports a score of -1, which loses to any real score.
func Resolve(own, partner int32) Outcome {
	switch {
	case own > partner:
		return OutcomeWin
	case own < partner:
		return OutcomeLose
	default:
		return OutcomeDraw
	}
}

// Banner returns the text scrolled before the score.
func (o Outcome) Banner() string {
	switch o {
	case OutcomeWin:
		return "WINNER! SCORE:"
	case OutcomeLose:
		return "LOSER! SCORE:"
	case OutcomeDraw:
		return "DRAW! SCORE:"
	case OutcomeTimeout:
		return "NO REPLY! SCORE:"
	default:
		return "BYE"
	}
}

// Result is the record of one race.
type Result struct {
	WorldID      int
	Score        int
	PartnerScore int
	Outcome      Outcome
	Multiplayer  bool
	Completed    bool // the local player reached the flag
}

// forfeitBanner is shown by a player who fell after the partner finished.
var forfeitBanner = fmt.Sprintf("%s %d", OutcomeLose.Banner(), 0)
