package searcher

import (
	"testing"
	"time"

	"github.com/anarcoiris/GamingRL/game"

	"github.com/stretchr/testify/require"
)

func TestNewMCTS(t *testing.T) {
	t.Run("panics without an episode or time budget", func(t *testing.T) {
		require.Panics(t, func() { NewMCTS(1) })
	})

	t.Run("accepts either budget", func(t *testing.T) {
		require.NotPanics(t, func() { NewMCTS(1, WithEpisodes(10)) })
		require.NotPanics(t, func() { NewMCTS(1, WithDuration(time.Millisecond)) })
	})
}

func TestSimulate(t *testing.T) {
	t.Run("policy aligns with legal moves and spends the episode budget", func(t *testing.T) {
		state := game.NewGameState(game.StandardRules())
		mcts := NewMCTS(8, WithEpisodes(256), WithCutoff(20), WithSeed(3), WithMetrics())

		policy, metric := mcts.Simulate(state, nil)

		require.Len(t, policy, len(state.LegalMoves()))
		require.Equal(t, 256, metric.Episodes)
		require.True(t, metric.IsTreeReset, "first search starts from a fresh tree")

		var visits float64
		for _, v := range policy {
			visits += v
		}
		require.Equal(t, 256.0, visits, "every episode descends through exactly one child")
	})

	t.Run("parallel workers keep visit accounting exact", func(t *testing.T) {
		// Virtual losses are charged during descent and reversed on
		// backup; with many workers hammering the same nodes, any
		// unguarded update shows up as a race or a lost count.
		state := game.NewGameState(game.StandardRules())
		mcts := NewMCTS(8, WithEpisodes(4000), WithCutoff(10), WithSeed(13), WithMetrics())

		policy, metric := mcts.Simulate(state, nil)

		require.Equal(t, 4000, metric.Episodes)
		var visits float64
		for _, v := range policy {
			visits += v
		}
		require.Equal(t, 4000.0, visits, "every virtual loss must be reversed exactly once")
	})

	t.Run("avoids moving the last king into a capture", func(t *testing.T) {
		// PlayerB's king on (5,2) can step to four squares; (4,1) and
		// (4,3) hang it to the man on (3,2) and lose the game outright.
		board := game.Board{}
		board.Place(game.Position{Row: 5, Col: 2}, game.KingB)
		board.Place(game.Position{Row: 3, Col: 2}, game.ManA)
		state := game.NewGameStateFromBoard(board, game.PlayerB, game.StandardRules())
		require.Len(t, state.LegalMoves(), 4)

		mcts := NewMCTS(4, WithEpisodes(2000), WithCutoff(30), WithSeed(7))
		policy, _ := mcts.Simulate(state, nil)

		// Moves sort by destination: (4,1), (4,3), (6,1), (6,3)
		losing := policy[0] + policy[1]
		safe := policy[2] + policy[3]
		require.Greater(t, safe, losing, "search must favor the squares out of reach")
	})

	t.Run("reuses the subtree along the played lineage", func(t *testing.T) {
		state := game.NewGameState(game.StandardRules())
		mcts := NewMCTS(4, WithEpisodes(512), WithCutoff(10), WithSeed(11), WithMetrics())

		policy, _ := mcts.Simulate(state, nil)

		// Follow the most visited move, then the first reply: both were
		// expanded during the search, so the subtree must survive.
		best := 0
		for i, v := range policy {
			if v > policy[best] {
				best = i
			}
		}
		state2 := state.Play(state.LegalMoves()[best])
		reply := state2.LegalMoves()[0]
		state3 := state2.Play(reply)
		lineage := []Segment{
			{Move: state.LegalMoves()[best], StateHash: state2.Hash()},
			{Move: reply, StateHash: state3.Hash()},
		}

		_, metric := mcts.Simulate(state3, lineage)

		require.False(t, metric.IsTreeReset)
	})

	t.Run("resets the tree when the lineage does not match", func(t *testing.T) {
		state := game.NewGameState(game.StandardRules())
		mcts := NewMCTS(4, WithEpisodes(128), WithCutoff(10), WithMetrics())

		mcts.Simulate(state, nil)

		move := state.LegalMoves()[0]
		next := state.Play(move)
		lineage := []Segment{{Move: move, StateHash: next.Hash() + 1}}
		_, metric := mcts.Simulate(next, lineage)

		require.True(t, metric.IsTreeReset, "a hash mismatch discards the stale tree")
	})

	t.Run("same seed and budget reproduce the same policy", func(t *testing.T) {
		state := game.NewGameState(game.StandardRules())

		policy1, _ := NewMCTS(1, WithEpisodes(200), WithCutoff(15), WithSeed(9)).Simulate(state, nil)
		policy2, _ := NewMCTS(1, WithEpisodes(200), WithCutoff(15), WithSeed(9)).Simulate(state, nil)

		require.Equal(t, policy1, policy2)
	})

	t.Run("time budget stops the search", func(t *testing.T) {
		state := game.NewGameState(game.StandardRules())
		mcts := NewMCTS(2, WithDuration(20*time.Millisecond), WithCutoff(10), WithMetrics())

		start := time.Now()
		_, metric := mcts.Simulate(state, nil)

		require.Less(t, time.Since(start), time.Second)
		require.Greater(t, metric.Episodes, 0)
	})
}
