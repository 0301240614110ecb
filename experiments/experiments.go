package experiments

import (
	"fmt"
	"time"

	"github.com/anarcoiris/GamingRL/agent"
	"github.com/anarcoiris/GamingRL/engine"
	"github.com/anarcoiris/GamingRL/env"
	"github.com/anarcoiris/GamingRL/experiments/metrics"
	"github.com/anarcoiris/GamingRL/game"

	"github.com/rs/zerolog/log"
)

const (
	NumGames   = 20 // Per matchup
	TimeBudget = 10 * time.Millisecond
)

// RunBaselineExperiment pits the search agents against the random
// baseline.
func RunBaselineExperiment() error {
	baseline := metrics.AgentConfig{ID: 0, Kind: "random", Seed: 1}
	contenders := []metrics.AgentConfig{
		{ID: 1, Kind: "minimax", Depth: 2, Seed: 1},
		{ID: 2, Kind: "minimax", Depth: 3, Seed: 1},
		{ID: 3, Kind: "mcts", Goroutines: 1, Duration: TimeBudget, Cutoff: 50, Seed: 1},
		{ID: 4, Kind: "mcts", Goroutines: 8, Duration: TimeBudget, Cutoff: 50, Seed: 1},
	}

	matchUps := [][2]metrics.AgentConfig{}
	for _, config := range contenders {
		matchUps = append(matchUps, [2]metrics.AgentConfig{config, baseline})
	}

	return RunMatchupExperiment("baseline", append(contenders, baseline), matchUps)
}

// RunParallelizationExperiment compares MCTS strength across goroutine
// counts under the same time budget.
func RunParallelizationExperiment() error {
	baseline := metrics.AgentConfig{ID: 0, Kind: "mcts", Goroutines: 1, Duration: TimeBudget, Cutoff: 50, Seed: 1}
	parallelConfigs := []metrics.AgentConfig{}
	for i, goroutines := range []int{2, 4, 8, 16, 32} {
		parallelConfigs = append(parallelConfigs, metrics.AgentConfig{
			ID: i + 1, Kind: "mcts", Goroutines: goroutines, Duration: TimeBudget, Cutoff: 50, Seed: 1,
		})
	}

	// Each matchup pairs an agent against the baseline sequential agent
	matchUps := [][2]metrics.AgentConfig{}
	for _, config := range parallelConfigs {
		matchUps = append(matchUps, [2]metrics.AgentConfig{baseline, config})
	}

	return RunMatchupExperiment("parallelization", append(parallelConfigs, baseline), matchUps)
}

// RunMatchupExperiment plays NumGames per matchup, alternating starting
// colors so neither configuration always moves first, and stores agent
// configs plus game and move records as CSV in a timestamped run
// directory.
func RunMatchupExperiment(name string, configs []metrics.AgentConfig, matchUps [][2]metrics.AgentConfig) error {
	count := 0
	gameRecords := []metrics.GameRecord{}
	moveRecords := []metrics.MoveRecord{}

	log.Info().Msgf("starting %s experiment...", name)

	for mi, matchup := range matchUps {
		config1 := matchup[0]
		config2 := matchup[1]

		log.Info().Msgf("starting matchup %d of %d between agent1=%+v and agent2=%+v...", mi+1, len(matchUps), config1, config2)

		for i := 0; i < NumGames; i++ {
			// Alternate starting colors between games
			first, second := config1, config2
			if i%2 == 1 {
				first, second = config2, config1
			}

			outcome, gameMetric, moveMetrics, err := runGame(first, second, uint64(count))
			if err != nil {
				return fmt.Errorf("matchup %d game %d: %w", mi+1, i+1, err)
			}
			count++
			gameRecords = append(gameRecords, metrics.GameRecord{
				ID:         count,
				Agent1:     first.ID,
				Agent2:     second.ID,
				GameMetric: gameMetric,
			})
			for _, mm := range moveMetrics {
				moveRecords = append(moveRecords, metrics.MoveRecord{
					Game:       count,
					MoveMetric: mm,
				})
			}

			log.Info().Msgf("completed matchup %d of %d game %d of %d: %s", mi+1, len(matchUps), i+1, NumGames, outcome)
		}
		log.Info().Msgf("completed matchup %d of %d", mi+1, len(matchUps))
	}

	log.Info().Msgf("completed %s experiment", name)

	return storeResults(name, configs, gameRecords, moveRecords)
}

func storeResults(name string, configs []metrics.AgentConfig, gameRecords []metrics.GameRecord, moveRecords []metrics.MoveRecord) error {
	writer, err := metrics.NewWriter(name)
	if err != nil {
		return fmt.Errorf("failed to create experiment writer: %w", err)
	}

	if err := writer.WriteAgentConfigs(configs); err != nil {
		return fmt.Errorf("failed to store agent configs: %w", err)
	}
	log.Info().Msg("stored agent configs")

	if err := writer.WriteGameRecords(gameRecords); err != nil {
		return fmt.Errorf("failed to store game records: %w", err)
	}
	log.Info().Msg("stored game records")

	if err := writer.WriteMoveRecords(moveRecords); err != nil {
		return fmt.Errorf("failed to store move records: %w", err)
	}
	log.Info().Msg("stored move records")

	return nil
}

// runGame executes a single game between two agent configs; the first
// config plays PlayerA.
func runGame(config1, config2 metrics.AgentConfig, gameSeed uint64) (game.Outcome, metrics.GameMetric, []metrics.MoveMetric, error) {
	environment, err := env.New(env.DefaultConfig())
	if err != nil {
		return game.Outcome{}, metrics.GameMetric{}, nil, err
	}
	environment.Seed(gameSeed)

	playerA, err := agent.New(toAgentConfig(config1, gameSeed*2+1))
	if err != nil {
		return game.Outcome{}, metrics.GameMetric{}, nil, err
	}
	playerB, err := agent.New(toAgentConfig(config2, gameSeed*2+2))
	if err != nil {
		return game.Outcome{}, metrics.GameMetric{}, nil, err
	}

	e := engine.NewLocalEngine(environment, playerA, playerB)
	outcome, gameMetric, moveMetrics := e.Run()
	return outcome, gameMetric, moveMetrics, nil
}

func toAgentConfig(config metrics.AgentConfig, seed uint64) agent.Config {
	if config.Seed != 0 {
		seed = config.Seed + seed
	}
	return agent.Config{
		Kind:       config.Kind,
		Seed:       seed,
		Depth:      config.Depth,
		Goroutines: config.Goroutines,
		Episodes:   config.Episodes,
		Duration:   config.Duration,
		Cutoff:     config.Cutoff,
	}
}
