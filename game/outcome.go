package game

import "fmt"

type OutcomeKind uint8

const (
	Ongoing OutcomeKind = iota
	Won
	Drawn
)

// DrawReason distinguishes the three draw rules. MoveLimit is the game
// rule about capture-free moves; StepLimit is the externally imposed
// episode cap.
type DrawReason uint8

const (
	NoDraw DrawReason = iota
	Repetition
	MoveLimit
	StepLimit
)

func (r DrawReason) String() string {
	switch r {
	case Repetition:
		return "repetition"
	case MoveLimit:
		return "move_limit"
	case StepLimit:
		return "max_steps"
	default:
		return ""
	}
}

func (r DrawReason) MarshalText() ([]byte, error) {
	return []byte(r.String()), nil
}

func (r *DrawReason) UnmarshalText(text []byte) error {
	switch string(text) {
	case "repetition":
		*r = Repetition
	case "move_limit":
		*r = MoveLimit
	case "max_steps":
		*r = StepLimit
	case "":
		*r = NoDraw
	default:
		return fmt.Errorf("unknown draw reason %q", text)
	}
	return nil
}

// Outcome is the result of terminal detection on a state. Once a state is
// terminal its outcome is final and no further action is legal.
type Outcome struct {
	Kind   OutcomeKind
	Winner Owner
	Reason DrawReason
}

func (o Outcome) Terminal() bool {
	return o.Kind != Ongoing
}

func (o Outcome) String() string {
	switch o.Kind {
	case Won:
		return fmt.Sprintf("%s wins", o.Winner)
	case Drawn:
		return fmt.Sprintf("draw (%s)", o.Reason)
	default:
		return "ongoing"
	}
}
