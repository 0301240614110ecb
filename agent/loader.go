package agent

import (
	"fmt"
	"time"

	"github.com/anarcoiris/GamingRL/meta"
	"github.com/anarcoiris/GamingRL/qneuro"
	"github.com/anarcoiris/GamingRL/searcher"
)

// Config selects and parameterizes an agent implementation.
type Config struct {
	Kind string // random | minimax | mcts | qnet
	Seed uint64

	// minimax
	Depth int

	// mcts
	Goroutines  int
	Episodes    int
	Duration    time.Duration
	Cutoff      int
	Temperature float64 // 0 plays the most visited move, >0 samples

	// qnet
	Checkpoint string
	Epsilon    float64
}

// New builds an agent by kind. Unknown kinds are an error.
func New(config Config) (Agent, error) {
	switch config.Kind {
	case "random":
		return NewRandom(config.Seed), nil

	case "minimax":
		return NewMinimax(config.Depth), nil

	case "mcts":
		goroutines := config.Goroutines
		if goroutines <= 0 {
			goroutines = meta.GO_ROUTINES
		}
		options := []searcher.Option{searcher.WithSeed(config.Seed), searcher.WithMetrics()}
		if config.Episodes > 0 {
			options = append(options, searcher.WithEpisodes(config.Episodes))
		}
		if config.Duration > 0 {
			options = append(options, searcher.WithDuration(config.Duration))
		}
		if config.Episodes <= 0 && config.Duration <= 0 {
			options = append(options, searcher.WithEpisodes(meta.EPISODES))
		}
		if config.Cutoff > 0 {
			options = append(options, searcher.WithCutoff(config.Cutoff))
		}
		mcts := searcher.NewMCTS(goroutines, options...)
		if config.Temperature > 0 {
			return NewTrainingAgent(mcts, config.Temperature, config.Seed), nil
		}
		return NewEvaluationAgent(mcts), nil

	case "qnet":
		dqn := qneuro.NewDQN(config.Seed)
		if config.Checkpoint != "" {
			if err := dqn.LoadCheckpoint(config.Checkpoint); err != nil {
				return nil, err
			}
		}
		return NewQAgent(dqn.Network(), config.Epsilon, config.Seed), nil

	default:
		return nil, fmt.Errorf("unknown agent kind %q", config.Kind)
	}
}
