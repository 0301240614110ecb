package game

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Move is one complete action by the mover: a simple diagonal step, or a
// chained jump sequence capturing one enemy piece per jump. Captured lists
// the jumped squares in jump order and is empty for simple moves. Promotes
// is true iff the piece ends the move as a king without having started as
// one, including men that crown mid-sequence and keep capturing.
type Move struct {
	From     Position
	To       Position
	Captured []Position
	Promotes bool
}

// SequenceLength is the number of jumps for captures, and 1 for steps.
func (m Move) SequenceLength() int {
	if len(m.Captured) > 0 {
		return len(m.Captured)
	}
	return 1
}

func (m Move) IsCapture() bool {
	return len(m.Captured) > 0
}

// Equal compares from, to, and the ordered capture path. The promotion flag
// is derived from the rest of the move and does not participate.
func (m Move) Equal(other Move) bool {
	if m.From != other.From || m.To != other.To {
		return false
	}
	if len(m.Captured) != len(other.Captured) {
		return false
	}
	for i, p := range m.Captured {
		if p != other.Captured[i] {
			return false
		}
	}
	return true
}

func (m Move) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "(%d,%d)->(%d,%d)", m.From.Row, m.From.Col, m.To.Row, m.To.Col)
	if len(m.Captured) > 0 {
		sb.WriteString(" x")
		for _, c := range m.Captured {
			fmt.Fprintf(&sb, "(%d,%d)", c.Row, c.Col)
		}
	}
	if m.Promotes {
		sb.WriteString(" K")
	}
	return sb.String()
}

// compareMoves defines the canonical move order: ascending origin, then
// destination, then capture path. Ties never depend on search order.
func compareMoves(a, b Move) int {
	if c := comparePositions(a.From, b.From); c != 0 {
		return c
	}
	if c := comparePositions(a.To, b.To); c != 0 {
		return c
	}
	if len(a.Captured) != len(b.Captured) {
		return len(a.Captured) - len(b.Captured)
	}
	for i := range a.Captured {
		if c := comparePositions(a.Captured[i], b.Captured[i]); c != 0 {
			return c
		}
	}
	return 0
}

func comparePositions(a, b Position) int {
	if a.Row != b.Row {
		return a.Row - b.Row
	}
	return a.Col - b.Col
}

type moveWire struct {
	From           [2]int   `json:"from"`
	To             [2]int   `json:"to"`
	Captures       [][2]int `json:"captures"`
	Promotion      bool     `json:"promotion"`
	SequenceLength int      `json:"sequence_length"`
}

func (m Move) MarshalJSON() ([]byte, error) {
	w := moveWire{
		From:           [2]int{m.From.Row, m.From.Col},
		To:             [2]int{m.To.Row, m.To.Col},
		Captures:       make([][2]int, 0, len(m.Captured)),
		Promotion:      m.Promotes,
		SequenceLength: m.SequenceLength(),
	}
	for _, c := range m.Captured {
		w.Captures = append(w.Captures, [2]int{c.Row, c.Col})
	}
	return json.Marshal(w)
}

func (m *Move) UnmarshalJSON(data []byte) error {
	var w moveWire
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	m.From = Position{Row: w.From[0], Col: w.From[1]}
	m.To = Position{Row: w.To[0], Col: w.To[1]}
	m.Captured = nil
	for _, c := range w.Captures {
		m.Captured = append(m.Captured, Position{Row: c[0], Col: c[1]})
	}
	m.Promotes = w.Promotion
	return nil
}

// CheckMove validates a move's coordinates structurally: every referenced
// square must be a playable dark square. It does not check legality.
func CheckMove(m Move) error {
	if !m.From.Valid() {
		return NewInvalidPositionError(m.From)
	}
	if !m.To.Valid() {
		return NewInvalidPositionError(m.To)
	}
	for _, c := range m.Captured {
		if !c.Valid() {
			return NewInvalidPositionError(c)
		}
	}
	return nil
}
