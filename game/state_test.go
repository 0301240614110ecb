package game

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestApply(t *testing.T) {
	t.Run("moves the piece and flips the mover", func(t *testing.T) {
		state := NewGameState(StandardRules())
		move := state.LegalMoves()[0]

		next, err := state.Apply(move)

		require.NoError(t, err)
		require.Equal(t, Empty, next.Board.At(move.From))
		require.Equal(t, ManA, next.Board.At(move.To))
		require.Equal(t, PlayerB, next.Mover)
		require.Equal(t, 1, next.PlyCount)
		require.Equal(t, 1, next.MovesSinceCapture)
	})

	t.Run("removes captured pieces and resets the capture clock", func(t *testing.T) {
		board := boardWith(t, map[Position]Piece{
			{Row: 4, Col: 3}: ManB,
			{Row: 3, Col: 4}: ManA,
		})
		state := NewGameStateFromBoard(board, PlayerB, StandardRules())
		state.MovesSinceCapture = 42
		move := state.LegalMoves()[0]

		next, err := state.Apply(move)

		require.NoError(t, err)
		require.Equal(t, Empty, next.Board.At(Position{Row: 3, Col: 4}))
		require.Equal(t, ManB, next.Board.At(Position{Row: 2, Col: 5}))
		require.Equal(t, 0, next.MovesSinceCapture)
	})

	t.Run("crowns the piece when the move promotes", func(t *testing.T) {
		board := boardWith(t, map[Position]Piece{
			{Row: 1, Col: 2}: ManB,
			{Row: 5, Col: 4}: ManA,
		})
		state := NewGameStateFromBoard(board, PlayerB, StandardRules())

		var crowning *Move
		for _, m := range state.LegalMoves() {
			if m.Promotes {
				crowning = &m
				break
			}
		}
		require.NotNil(t, crowning)

		next, err := state.Apply(*crowning)

		require.NoError(t, err)
		require.Equal(t, KingB, next.Board.At(crowning.To))
	})

	t.Run("rejects an illegal move and leaves the state untouched", func(t *testing.T) {
		state := NewGameState(StandardRules())
		before := state.Board

		_, err := state.Apply(Move{
			From: Position{Row: 2, Col: 1},
			To:   Position{Row: 4, Col: 3}, // two squares is not a step
		})

		require.Error(t, err)
		require.IsType(t, &IllegalActionError{}, err)
		require.Equal(t, before, state.Board)
		require.Equal(t, PlayerA, state.Mover)
		require.Equal(t, 0, state.PlyCount)
	})

	t.Run("rejects the promotion flag lying about a simple move", func(t *testing.T) {
		state := NewGameState(StandardRules())
		move := state.LegalMoves()[0]
		move.Promotes = true // flag is derived, not trusted

		next, err := state.Apply(move)

		require.NoError(t, err)
		require.True(t, next.Board.At(move.To).IsMan(), "opening move must not crown")
	})

	t.Run("rejects any move on a terminal state", func(t *testing.T) {
		board := boardWith(t, map[Position]Piece{
			{Row: 0, Col: 1}: ManA, // PlayerB has no pieces
		})
		state := NewGameStateFromBoard(board, PlayerB, StandardRules())
		require.True(t, state.Outcome().Terminal())

		_, err := state.Apply(Move{From: Position{Row: 0, Col: 1}, To: Position{Row: 1, Col: 2}})

		require.Error(t, err)
	})
}

func TestOutcome(t *testing.T) {
	t.Run("mover without pieces loses", func(t *testing.T) {
		board := boardWith(t, map[Position]Piece{
			{Row: 0, Col: 1}: ManA,
		})
		state := NewGameStateFromBoard(board, PlayerB, StandardRules())

		outcome := state.Outcome()

		require.Equal(t, Won, outcome.Kind)
		require.Equal(t, PlayerA, outcome.Winner)
	})

	t.Run("mover with only blocked pieces loses", func(t *testing.T) {
		// PlayerB's corner man has both diagonals occupied by its own
		// king and cannot jump
		board := boardWith(t, map[Position]Piece{
			{Row: 7, Col: 0}: ManB,
			{Row: 6, Col: 1}: KingB,
			{Row: 5, Col: 0}: KingA,
			{Row: 5, Col: 2}: KingA,
			{Row: 7, Col: 2}: KingA,
		})
		state := NewGameStateFromBoard(board, PlayerB, StandardRules())
		// The king is boxed in as well: every neighbor square is taken
		require.Empty(t, state.LegalMoves())

		outcome := state.Outcome()

		require.Equal(t, Won, outcome.Kind)
		require.Equal(t, PlayerA, outcome.Winner)
	})

	t.Run("no-capture move limit draws", func(t *testing.T) {
		rules := StandardRules()
		rules.DrawMoveThreshold = 5

		state := NewGameState(rules)
		state.MovesSinceCapture = 5

		outcome := state.Outcome()

		require.Equal(t, Drawn, outcome.Kind)
		require.Equal(t, MoveLimit, outcome.Reason)
	})

	t.Run("episode ply cap draws", func(t *testing.T) {
		rules := StandardRules()
		rules.MaxPly = 10

		state := NewGameState(rules)
		state.PlyCount = 10

		outcome := state.Outcome()

		require.Equal(t, Drawn, outcome.Kind)
		require.Equal(t, StepLimit, outcome.Reason)
	})

	t.Run("move limit takes priority over the ply cap", func(t *testing.T) {
		rules := StandardRules()
		rules.DrawMoveThreshold = 5
		rules.MaxPly = 10

		state := NewGameState(rules)
		state.MovesSinceCapture = 5
		state.PlyCount = 10

		require.Equal(t, MoveLimit, state.Outcome().Reason)
	})
}

// kings shuttling between two squares each: the position repeats every
// four plies with the same mover.
func shuttleState(t *testing.T) *GameState {
	t.Helper()
	board := boardWith(t, map[Position]Piece{
		{Row: 0, Col: 1}: KingA,
		{Row: 7, Col: 6}: KingB,
	})
	return NewGameStateFromBoard(board, PlayerA, StandardRules())
}

func TestRepetitionDraw(t *testing.T) {
	t.Run("cycle of four moves draws on the third recurrence", func(t *testing.T) {
		state := shuttleState(t)

		cycle := []Move{
			{From: Position{Row: 0, Col: 1}, To: Position{Row: 1, Col: 2}},
			{From: Position{Row: 7, Col: 6}, To: Position{Row: 6, Col: 5}},
			{From: Position{Row: 1, Col: 2}, To: Position{Row: 0, Col: 1}},
			{From: Position{Row: 6, Col: 5}, To: Position{Row: 7, Col: 6}},
		}

		// The starting position counts as the first occurrence; each full
		// cycle adds one more. Two cycles reach the threshold of three.
		for cycleCount := 0; cycleCount < 2; cycleCount++ {
			for _, m := range cycle {
				require.False(t, state.Outcome().Terminal(),
					"draw declared before the third recurrence")
				next, err := state.Apply(m)
				require.NoError(t, err)
				state = next
			}
		}

		outcome := state.Outcome()
		require.Equal(t, Drawn, outcome.Kind)
		require.Equal(t, Repetition, outcome.Reason)
		require.Equal(t, 3, state.Repetitions())
	})

	t.Run("same board with a different mover is a different position", func(t *testing.T) {
		board := boardWith(t, map[Position]Piece{
			{Row: 0, Col: 1}: KingA,
			{Row: 7, Col: 6}: KingB,
		})
		a := NewGameStateFromBoard(board, PlayerA, StandardRules())
		b := NewGameStateFromBoard(board, PlayerB, StandardRules())

		require.NotEqual(t, a.Hash(), b.Hash())
	})
}

func TestDeterminism(t *testing.T) {
	t.Run("replaying the same moves yields bit-identical states", func(t *testing.T) {
		run := func() (StateHash, Observation) {
			state := NewGameState(StandardRules())
			for i := 0; i < 20; i++ {
				moves := state.LegalMoves()
				if len(moves) == 0 {
					break
				}
				next, err := state.Apply(moves[0])
				require.NoError(t, err)
				state = next
			}
			return state.Hash(), Encode(&state.Board, state.Mover)
		}

		hash1, obs1 := run()
		hash2, obs2 := run()

		require.Equal(t, hash1, hash2)
		require.Equal(t, obs1, obs2)
	})
}

func TestCopy(t *testing.T) {
	t.Run("copies do not share history", func(t *testing.T) {
		state := NewGameState(StandardRules())
		clone := state.Copy()

		next, err := state.Apply(state.LegalMoves()[0])
		require.NoError(t, err)

		require.Equal(t, 1, clone.Repetitions())
		require.NotEqual(t, next.Hash(), clone.Hash())
	})
}
