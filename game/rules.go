package game

// Rules fixes the rule set for the lifetime of a session. A Rules value is
// validated once at construction and never mutated afterward.
type Rules struct {
	CaptureForced           bool
	PreferLongestCapture    bool
	KingOnLastRow           bool
	MaxPly                  int
	DrawRepetitionThreshold int
	DrawMoveThreshold       int
}

// StandardRules returns the default rule set: forced captures, longest
// capture preferred, crowning on the last row, 200-ply episode cap,
// threefold repetition draw, and a 100-move no-capture draw.
func StandardRules() Rules {
	return Rules{
		CaptureForced:           true,
		PreferLongestCapture:    true,
		KingOnLastRow:           true,
		MaxPly:                  200,
		DrawRepetitionThreshold: 3,
		DrawMoveThreshold:       100,
	}
}

func (r Rules) Validate() error {
	if r.MaxPly <= 0 {
		return NewInvalidConfigError("max_episode_steps", "must be positive")
	}
	if r.DrawRepetitionThreshold <= 0 {
		return NewInvalidConfigError("draw_repetition_threshold", "must be positive")
	}
	if r.DrawMoveThreshold <= 0 {
		return NewInvalidConfigError("draw_move_threshold", "must be positive")
	}
	return nil
}
