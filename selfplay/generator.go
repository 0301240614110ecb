package selfplay

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/anarcoiris/GamingRL/agent"
	"github.com/anarcoiris/GamingRL/engine"
	"github.com/anarcoiris/GamingRL/env"
	"github.com/anarcoiris/GamingRL/game"
	"github.com/anarcoiris/GamingRL/gamelog"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

// GeneratorConfig describes a bulk self-play run: how many games, who
// plays them, and where the records go.
type GeneratorConfig struct {
	Games     int
	Workers   int
	Seed      uint64
	OutputDir string
	Compress  bool
	Env       env.Config
	AgentA    agent.Config // Seed fields are overridden per game
	AgentB    agent.Config
}

// Summary tallies a completed run.
type Summary struct {
	Games   int
	WinsA   int
	WinsB   int
	Draws   int
	Records []string // Written file paths, in game order
}

// Generator plays games concurrently over a worker pool and writes one
// game record per game. Every game derives its own seeds from the run
// seed and game index, so a run is reproducible game by game.
type Generator struct {
	config GeneratorConfig
}

func NewGenerator(config GeneratorConfig) (*Generator, error) {
	if config.Games <= 0 {
		return nil, errors.New("generator needs a positive game count")
	}
	if config.Workers <= 0 {
		config.Workers = 1
	}
	if err := config.Env.Validate(); err != nil {
		return nil, err
	}
	return &Generator{config: config}, nil
}

func (g *Generator) Run() (Summary, error) {
	if err := os.MkdirAll(g.config.OutputDir, 0755); err != nil {
		return Summary{}, errors.Wrap(err, "create output directory")
	}

	log.Info().Msgf("generating %d self-play games with %d workers...", g.config.Games, g.config.Workers)

	type result struct {
		game    int
		outcome game.Outcome
		path    string
		err     error
	}

	task := make(chan int, g.config.Games)
	for i := 0; i < g.config.Games; i++ {
		task <- i
	}
	close(task)

	results := make(chan result, g.config.Games)
	var wg sync.WaitGroup
	for w := 0; w < g.config.Workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range task {
				outcome, path, err := g.playGame(i)
				results <- result{game: i, outcome: outcome, path: path, err: err}
			}
		}()
	}
	wg.Wait()
	close(results)

	summary := Summary{Games: g.config.Games, Records: make([]string, g.config.Games)}
	for r := range results {
		if r.err != nil {
			return summary, errors.Wrapf(r.err, "game %d", r.game)
		}
		summary.Records[r.game] = r.path
		switch {
		case r.outcome.Kind == game.Won && r.outcome.Winner == game.PlayerA:
			summary.WinsA++
		case r.outcome.Kind == game.Won && r.outcome.Winner == game.PlayerB:
			summary.WinsB++
		default:
			summary.Draws++
		}
	}

	log.Info().Msgf("generated %d games: %d playerA wins, %d playerB wins, %d draws",
		summary.Games, summary.WinsA, summary.WinsB, summary.Draws)
	return summary, nil
}

func (g *Generator) playGame(index int) (game.Outcome, string, error) {
	environment, err := env.New(g.config.Env)
	if err != nil {
		return game.Outcome{}, "", err
	}
	gameSeed := g.config.Seed + uint64(index)
	environment.Seed(gameSeed)

	configA := g.config.AgentA
	configA.Seed = gameSeed*2 + 1
	playerA, err := agent.New(configA)
	if err != nil {
		return game.Outcome{}, "", err
	}

	configB := g.config.AgentB
	configB.Seed = gameSeed*2 + 2
	playerB, err := agent.New(configB)
	if err != nil {
		return game.Outcome{}, "", err
	}

	record := gamelog.NewRecord(map[string]string{
		"agent_a": configA.Kind,
		"agent_b": configB.Kind,
		"seed":    fmt.Sprintf("%d", gameSeed),
	})

	e := engine.NewLocalEngine(environment, playerA, playerB, engine.WithRecorder(record))
	outcome, _, _ := e.Run()

	name := fmt.Sprintf("game_%04d.json", index)
	if g.config.Compress {
		name += ".snap"
	}
	path := filepath.Join(g.config.OutputDir, name)

	if g.config.Compress {
		err = record.SaveCompressed(path)
	} else {
		err = record.Save(path)
	}
	if err != nil {
		return outcome, "", err
	}

	log.Info().Msgf("game %d of %d finished: %s", index+1, g.config.Games, outcome)
	return outcome, path, nil
}
