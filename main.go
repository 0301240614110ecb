package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/anarcoiris/GamingRL/agent"
	"github.com/anarcoiris/GamingRL/engine"
	"github.com/anarcoiris/GamingRL/env"
	"github.com/anarcoiris/GamingRL/experiments"
	"github.com/anarcoiris/GamingRL/gamelog"
	"github.com/anarcoiris/GamingRL/meta"
	"github.com/anarcoiris/GamingRL/qneuro"
	"github.com/anarcoiris/GamingRL/selfplay"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.TimeOnly})
	zerolog.SetGlobalLevel(zerolog.InfoLevel)

	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	var err error
	switch os.Args[1] {
	case "play":
		err = runPlay(os.Args[2:])
	case "train":
		err = runTrain(os.Args[2:])
	case "generate":
		err = runGenerate(os.Args[2:])
	case "experiment":
		err = runExperiment(os.Args[2:])
	default:
		usage()
		os.Exit(2)
	}

	if err != nil {
		log.Fatal().Err(err).Msgf("%s failed", os.Args[1])
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, `usage: gamingrl <command> [flags]

commands:
  play        play one game between two configured agents
  train       train the Q-network by self-play
  generate    generate self-play game records
  experiment  run a named experiment (baseline | parallelization | throughput)`)
}

func loadEnv(path string) (*env.Env, error) {
	config := env.DefaultConfig()
	if path != "" {
		loaded, err := env.LoadConfig(path)
		if err != nil {
			return nil, err
		}
		config = loaded
	}
	return env.New(config)
}

func agentFlags(fs *flag.FlagSet, side string, kind string) *agent.Config {
	config := &agent.Config{}
	fs.StringVar(&config.Kind, side, kind, "agent kind for "+side+" (random | minimax | mcts | qnet)")
	fs.IntVar(&config.Depth, side+"-depth", meta.DEPTH, "minimax depth for "+side)
	fs.IntVar(&config.Goroutines, side+"-goroutines", meta.GO_ROUTINES, "mcts goroutines for "+side)
	fs.IntVar(&config.Episodes, side+"-episodes", meta.EPISODES, "mcts episodes for "+side)
	fs.DurationVar(&config.Duration, side+"-duration", 0, "mcts time budget for "+side+" (overrides episodes)")
	fs.IntVar(&config.Cutoff, side+"-cutoff", meta.CUTOFF, "mcts rollout cutoff for "+side)
	fs.Float64Var(&config.Temperature, side+"-temperature", 0, "mcts sampling temperature for "+side)
	fs.StringVar(&config.Checkpoint, side+"-checkpoint", "", "qnet checkpoint file for "+side)
	fs.Float64Var(&config.Epsilon, side+"-epsilon", 0, "qnet exploration rate for "+side)
	return config
}

func runPlay(args []string) error {
	fs := flag.NewFlagSet("play", flag.ExitOnError)
	configPath := fs.String("config", "", "session config file (JSON)")
	seed := fs.Uint64("seed", 1, "game seed")
	render := fs.Bool("render", true, "print the board after every move")
	recordPath := fs.String("record", "", "write a game record to this file")
	configA := agentFlags(fs, "a", "mcts")
	configB := agentFlags(fs, "b", "random")
	if err := fs.Parse(args); err != nil {
		return err
	}

	environment, err := loadEnv(*configPath)
	if err != nil {
		return err
	}
	environment.Seed(*seed)

	configA.Seed = *seed*2 + 1
	playerA, err := agent.New(*configA)
	if err != nil {
		return err
	}
	configB.Seed = *seed*2 + 2
	playerB, err := agent.New(*configB)
	if err != nil {
		return err
	}

	options := []engine.Option{}
	if *render {
		options = append(options, engine.WithRendering())
	}
	var record *gamelog.Record
	if *recordPath != "" {
		record = gamelog.NewRecord(map[string]string{
			"agent_a": configA.Kind,
			"agent_b": configB.Kind,
			"seed":    fmt.Sprintf("%d", *seed),
		})
		options = append(options, engine.WithRecorder(record))
	}

	e := engine.NewLocalEngine(environment, playerA, playerB, options...)
	outcome, gameMetric, _ := e.Run()

	if record != nil {
		if err := record.Save(*recordPath); err != nil {
			return err
		}
	}

	fmt.Printf("%s vs %s: %s after %d plies in %s\n",
		configA.Kind, configB.Kind, outcome, gameMetric.TotalPlies, gameMetric.Duration)
	return nil
}

func runTrain(args []string) error {
	fs := flag.NewFlagSet("train", flag.ExitOnError)
	configPath := fs.String("config", "", "session config file (JSON)")
	episodes := fs.Int("episodes", 1000, "self-play episodes")
	seed := fs.Uint64("seed", 1, "training seed")
	out := fs.String("out", "experiments/train", "output directory")
	evalInterval := fs.Int("eval-interval", 50, "episodes between evaluations (0 disables)")
	evalGames := fs.Int("eval-games", meta.EVAL_GAMES, "games per evaluation")
	checkpointInterval := fs.Int("checkpoint-interval", 100, "episodes between checkpoints (0 disables)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	environment, err := loadEnv(*configPath)
	if err != nil {
		return err
	}

	dqn := qneuro.NewDQN(*seed)
	trainer := qneuro.NewTrainer(environment, dqn, qneuro.TrainerConfig{
		Episodes:           *episodes,
		Seed:               *seed,
		EvalInterval:       *evalInterval,
		EvalGames:          *evalGames,
		CheckpointInterval: *checkpointInterval,
		OutputDir:          *out,
	})
	return trainer.Run()
}

func runGenerate(args []string) error {
	fs := flag.NewFlagSet("generate", flag.ExitOnError)
	configPath := fs.String("config", "", "session config file (JSON)")
	games := fs.Int("games", 100, "number of games")
	workers := fs.Int("workers", meta.GO_ROUTINES, "concurrent games")
	seed := fs.Uint64("seed", 1, "run seed")
	out := fs.String("out", "experiments/selfplay", "output directory")
	compress := fs.Bool("compress", false, "snappy-compress the records")
	configA := agentFlags(fs, "a", "random")
	configB := agentFlags(fs, "b", "random")
	if err := fs.Parse(args); err != nil {
		return err
	}

	envConfig := env.DefaultConfig()
	if *configPath != "" {
		loaded, err := env.LoadConfig(*configPath)
		if err != nil {
			return err
		}
		envConfig = loaded
	}

	generator, err := selfplay.NewGenerator(selfplay.GeneratorConfig{
		Games:     *games,
		Workers:   *workers,
		Seed:      *seed,
		OutputDir: *out,
		Compress:  *compress,
		Env:       envConfig,
		AgentA:    *configA,
		AgentB:    *configB,
	})
	if err != nil {
		return err
	}
	_, err = generator.Run()
	return err
}

func runExperiment(args []string) error {
	fs := flag.NewFlagSet("experiment", flag.ExitOnError)
	name := fs.String("name", "baseline", "experiment name (baseline | parallelization | throughput)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	switch *name {
	case "baseline":
		return experiments.RunBaselineExperiment()
	case "parallelization":
		return experiments.RunParallelizationExperiment()
	case "throughput":
		return experiments.RunThroughputExperiment()
	default:
		return fmt.Errorf("unknown experiment %q", *name)
	}
}
