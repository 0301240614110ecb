package selfplay

import (
	"testing"

	"github.com/anarcoiris/GamingRL/agent"
	"github.com/anarcoiris/GamingRL/env"
	"github.com/anarcoiris/GamingRL/gamelog"

	"github.com/stretchr/testify/require"
)

func shortConfig(t *testing.T, dir string, games, workers int) GeneratorConfig {
	t.Helper()
	envConfig := env.DefaultConfig()
	envConfig.MaxEpisodeSteps = 40
	return GeneratorConfig{
		Games:     games,
		Workers:   workers,
		Seed:      42,
		OutputDir: dir,
		Env:       envConfig,
		AgentA:    agent.Config{Kind: "random"},
		AgentB:    agent.Config{Kind: "random"},
	}
}

func TestGenerator(t *testing.T) {
	t.Run("writes one loadable record per game", func(t *testing.T) {
		dir := t.TempDir()
		g, err := NewGenerator(shortConfig(t, dir, 3, 2))
		require.NoError(t, err)

		summary, err := g.Run()

		require.NoError(t, err)
		require.Equal(t, 3, summary.Games)
		require.Equal(t, 3, summary.WinsA+summary.WinsB+summary.Draws)
		require.Len(t, summary.Records, 3)
		for _, path := range summary.Records {
			record, err := gamelog.Load(path)
			require.NoError(t, err)
			require.NotEmpty(t, record.Steps)
			require.NotEmpty(t, record.Termination)
			require.Equal(t, "random", record.Metadata["agent_a"])
		}
	})

	t.Run("compressed records load back", func(t *testing.T) {
		dir := t.TempDir()
		config := shortConfig(t, dir, 2, 1)
		config.Compress = true
		g, err := NewGenerator(config)
		require.NoError(t, err)

		summary, err := g.Run()

		require.NoError(t, err)
		for _, path := range summary.Records {
			record, err := gamelog.LoadCompressed(path)
			require.NoError(t, err)
			require.Equal(t, len(record.Steps), record.TotalSteps)
		}
	})

	t.Run("same run seed reproduces the same outcomes", func(t *testing.T) {
		run := func() (int, int, int) {
			g, err := NewGenerator(shortConfig(t, t.TempDir(), 3, 3))
			require.NoError(t, err)
			summary, err := g.Run()
			require.NoError(t, err)
			return summary.WinsA, summary.WinsB, summary.Draws
		}

		a1, b1, d1 := run()
		a2, b2, d2 := run()

		require.Equal(t, a1, a2)
		require.Equal(t, b1, b2)
		require.Equal(t, d1, d2)
	})

	t.Run("rejects an empty run", func(t *testing.T) {
		_, err := NewGenerator(shortConfig(t, t.TempDir(), 0, 1))
		require.Error(t, err)
	})
}
