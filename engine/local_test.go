package engine

import (
	"testing"

	"github.com/anarcoiris/GamingRL/agent"
	"github.com/anarcoiris/GamingRL/env"
	"github.com/anarcoiris/GamingRL/game"
	"github.com/anarcoiris/GamingRL/gamelog"
	"github.com/anarcoiris/GamingRL/searcher"

	"github.com/stretchr/testify/require"
)

func shortEnv(t *testing.T, maxSteps int) *env.Env {
	t.Helper()
	config := env.DefaultConfig()
	config.MaxEpisodeSteps = maxSteps
	e, err := env.New(config)
	require.NoError(t, err)
	return e
}

func TestLocalEngine(t *testing.T) {
	t.Run("plays a full game between random agents", func(t *testing.T) {
		e := NewLocalEngine(shortEnv(t, 60), agent.NewRandom(1), agent.NewRandom(2))

		outcome, gameMetric, moveMetrics := e.Run()

		require.True(t, outcome.Terminal())
		require.NotEmpty(t, moveMetrics)
		require.Equal(t, len(moveMetrics), gameMetric.TotalPlies)
		require.Equal(t, 1, moveMetrics[0].Step)
		require.Equal(t, game.PlayerA, moveMetrics[0].Mover)
		require.Equal(t, game.PlayerB, moveMetrics[1].Mover)
		require.NotEmpty(t, gameMetric.Winner)
		require.NotEmpty(t, gameMetric.Termination)
	})

	t.Run("identical seeds replay identically", func(t *testing.T) {
		run := func() (game.Outcome, int) {
			e := NewLocalEngine(shortEnv(t, 60), agent.NewRandom(7), agent.NewRandom(11))
			outcome, gameMetric, _ := e.Run()
			return outcome, gameMetric.TotalPlies
		}

		outcome1, plies1 := run()
		outcome2, plies2 := run()

		require.Equal(t, outcome1, outcome2)
		require.Equal(t, plies1, plies2)
	})

	t.Run("records the game when a recorder is attached", func(t *testing.T) {
		record := gamelog.NewRecord(map[string]string{"purpose": "test"})
		e := NewLocalEngine(shortEnv(t, 40), agent.NewRandom(1), agent.NewRandom(2), WithRecorder(record))

		outcome, gameMetric, _ := e.Run()

		require.Equal(t, gameMetric.TotalPlies, record.TotalSteps)
		require.NotEmpty(t, record.Termination)
		if outcome.Kind == game.Won {
			require.Equal(t, outcome.Winner.String(), record.Winner)
		} else {
			require.Equal(t, "draw", record.Winner)
		}
	})

	t.Run("search agents complete a game with tree reuse", func(t *testing.T) {
		mcts := searcher.NewMCTS(2, searcher.WithEpisodes(64), searcher.WithCutoff(10), searcher.WithSeed(5), searcher.WithMetrics())
		e := NewLocalEngine(shortEnv(t, 30),
			agent.NewEvaluationAgent(mcts),
			agent.NewRandom(3))

		outcome, _, moveMetrics := e.Run()

		require.True(t, outcome.Terminal())
		require.True(t, moveMetrics[0].IsTreeReset, "first search starts a fresh tree")
		var reused bool
		for _, mm := range moveMetrics[2:] {
			if mm.Mover == game.PlayerA && mm.Episodes > 0 && !mm.IsTreeReset {
				reused = true
				break
			}
		}
		require.True(t, reused, "later searches should reuse the tree")
	})

	t.Run("minimax beats random within the episode cap", func(t *testing.T) {
		var wins int
		for seed := uint64(0); seed < 3; seed++ {
			e := NewLocalEngine(shortEnv(t, 200), agent.NewMinimax(3), agent.NewRandom(100+seed))
			outcome, _, _ := e.Run()
			if outcome.Kind == game.Won && outcome.Winner == game.PlayerA {
				wins++
			}
		}
		require.Greater(t, wins, 0, "minimax should win at least one of three games")
	})
}
