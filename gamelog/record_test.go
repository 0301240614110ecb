package gamelog

import (
	"path/filepath"
	"testing"

	"github.com/anarcoiris/GamingRL/game"

	"github.com/stretchr/testify/require"
)

func sampleRecord(t *testing.T) *Record {
	t.Helper()

	record := NewRecord(map[string]string{"agent_a": "minimax", "agent_b": "random"})
	state := game.NewGameState(game.StandardRules())
	for i := 0; i < 4; i++ {
		move := state.LegalMoves()[0]
		record.Add(state.Board, state.Mover, move)
		next, err := state.Apply(move)
		require.NoError(t, err)
		state = next
	}
	record.Finish(game.Outcome{Kind: game.Won, Winner: game.PlayerA})
	return record
}

func TestRecord(t *testing.T) {
	t.Run("steps number from one and track the total", func(t *testing.T) {
		record := sampleRecord(t)

		require.Equal(t, 4, record.TotalSteps)
		require.Equal(t, 1, record.Steps[0].Step)
		require.Equal(t, 4, record.Steps[3].Step)
		require.Equal(t, game.PlayerA, record.Steps[0].Mover)
		require.Equal(t, game.PlayerB, record.Steps[1].Mover)
	})

	t.Run("finish records wins and draw reasons", func(t *testing.T) {
		won := NewRecord(nil)
		won.Finish(game.Outcome{Kind: game.Won, Winner: game.PlayerB})
		require.Equal(t, "playerB", won.Winner)
		require.Equal(t, "win", won.Termination)

		drawn := NewRecord(nil)
		drawn.Finish(game.Outcome{Kind: game.Drawn, Reason: game.Repetition})
		require.Equal(t, "draw", drawn.Winner)
		require.Equal(t, "repetition", drawn.Termination)
	})

	t.Run("distinct records get distinct ids", func(t *testing.T) {
		require.NotEqual(t, NewRecord(nil).GameID, NewRecord(nil).GameID)
	})

	t.Run("round trips through json", func(t *testing.T) {
		record := sampleRecord(t)
		path := filepath.Join(t.TempDir(), "game.json")

		require.NoError(t, record.Save(path))
		loaded, err := Load(path)

		require.NoError(t, err)
		require.Equal(t, record.GameID, loaded.GameID)
		require.Equal(t, record.Steps[0].Board, loaded.Steps[0].Board)
		require.True(t, record.Steps[2].Action.Equal(loaded.Steps[2].Action))
		require.Equal(t, record.Winner, loaded.Winner)
	})

	t.Run("round trips through the compressed format", func(t *testing.T) {
		record := sampleRecord(t)
		path := filepath.Join(t.TempDir(), "game.json.snap")

		require.NoError(t, record.SaveCompressed(path))
		loaded, err := LoadCompressed(path)

		require.NoError(t, err)
		require.Equal(t, record.GameID, loaded.GameID)
		require.Equal(t, record.TotalSteps, loaded.TotalSteps)
	})

	t.Run("load fails on a plain-json file read as compressed", func(t *testing.T) {
		record := sampleRecord(t)
		path := filepath.Join(t.TempDir(), "game.json")
		require.NoError(t, record.Save(path))

		_, err := LoadCompressed(path)

		require.Error(t, err)
	})
}
