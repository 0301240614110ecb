package qneuro

import (
	"fmt"
	"path/filepath"

	"github.com/anarcoiris/GamingRL/env"
	"github.com/anarcoiris/GamingRL/experiments/metrics"
	"github.com/anarcoiris/GamingRL/game"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"golang.org/x/exp/rand"
)

type TrainerConfig struct {
	Episodes           int
	Seed               uint64
	EvalInterval       int // Episodes between evaluations against the random baseline
	EvalGames          int
	CheckpointInterval int // Episodes between checkpoint files
	OutputDir          string
}

// Trainer runs seeded self-play episodes with the DQN driving both
// sides, trains after every step, periodically evaluates the greedy
// policy against a random baseline, and persists checkpoints and
// train-step records.
type Trainer struct {
	env   *env.Env
	dqn   *DQN
	cfg   TrainerConfig
	rng   *rand.Rand
	runID string
}

func NewTrainer(environment *env.Env, dqn *DQN, cfg TrainerConfig) *Trainer {
	if cfg.Episodes <= 0 {
		panic("trainer needs a positive episode count")
	}
	environment.Seed(cfg.Seed)
	return &Trainer{
		env:   environment,
		dqn:   dqn,
		cfg:   cfg,
		rng:   rand.New(rand.NewSource(cfg.Seed)),
		runID: uuid.NewString(),
	}
}

func (t *Trainer) Run() error {
	writer, err := metrics.NewWriterAt(t.cfg.OutputDir)
	if err != nil {
		return errors.Wrap(err, "create train writer")
	}

	log.Info().Msgf("starting training run %s: %d episodes, seed %d", t.runID, t.cfg.Episodes, t.cfg.Seed)

	var records []metrics.TrainRecord
	for episode := 1; episode <= t.cfg.Episodes; episode++ {
		episodeReward, episodeRecords := t.playEpisode(episode)
		records = append(records, episodeRecords...)

		log.Info().Msgf("episode %d of %d: reward %.3f, epsilon %.3f, steps %d",
			episode, t.cfg.Episodes, episodeReward, t.dqn.Epsilon(), t.dqn.Steps())

		if t.cfg.EvalInterval > 0 && episode%t.cfg.EvalInterval == 0 {
			wins, draws := t.evaluate()
			log.Info().Msgf("evaluation after episode %d: %d wins, %d draws of %d games vs random",
				episode, wins, draws, t.cfg.EvalGames)
		}

		if t.cfg.CheckpointInterval > 0 && episode%t.cfg.CheckpointInterval == 0 {
			path := filepath.Join(t.cfg.OutputDir, fmt.Sprintf("checkpoint_%06d.snap", episode))
			if err := t.dqn.SaveCheckpoint(path); err != nil {
				return errors.Wrap(err, "save checkpoint")
			}
			log.Info().Msgf("saved checkpoint %s", path)
		}
	}

	if err := writer.WriteTrainRecords(records); err != nil {
		return errors.Wrap(err, "write train records")
	}
	log.Info().Msgf("completed training run %s", t.runID)
	return nil
}

// playEpisode runs one self-play game, observing and training on every
// transition. Returns the accumulated reward and the train records.
func (t *Trainer) playEpisode(episode int) (float64, []metrics.TrainRecord) {
	obs, _ := t.env.Reset()
	state := obs.Flatten()

	var records []metrics.TrainRecord
	total := 0.0
	for {
		legal := t.env.LegalActions()
		if len(legal) == 0 {
			break
		}

		move := t.dqn.SelectMove(state, legal)
		nextObs, reward, outcome, _, err := t.env.Step(move)
		if err != nil {
			// Selected from the legal set, so this is a bug
			panic(err)
		}
		nextState := nextObs.Flatten()
		total += reward

		t.dqn.Observe(Transition{
			State:     state,
			Action:    move,
			Reward:    reward,
			NextState: nextState,
			NextLegal: t.env.LegalActions(),
			Done:      outcome.Terminal(),
		})

		if loss, trained := t.dqn.TrainStep(); trained {
			records = append(records, metrics.TrainRecord{
				Step:    t.dqn.Steps(),
				Episode: episode,
				Epsilon: t.dqn.Epsilon(),
				Loss:    loss,
				Reward:  reward,
			})
		}

		state = nextState
		if outcome.Terminal() {
			break
		}
	}
	return total, records
}

// evaluate plays greedy (epsilon 0) games as PlayerA against a random
// PlayerB and tallies wins and draws.
func (t *Trainer) evaluate() (wins, draws int) {
	for i := 0; i < t.cfg.EvalGames; i++ {
		outcome := t.playEvalGame()
		switch {
		case outcome.Kind == game.Won && outcome.Winner == game.PlayerA:
			wins++
		case outcome.Kind == game.Drawn:
			draws++
		}
	}
	return wins, draws
}

func (t *Trainer) playEvalGame() game.Outcome {
	evalEnv, err := env.New(t.env.Config())
	if err != nil {
		panic(err)
	}

	obs, _ := evalEnv.Reset()
	for {
		legal := evalEnv.LegalActions()
		if len(legal) == 0 {
			return evalEnv.State().Outcome()
		}

		var move game.Move
		if evalEnv.State().Mover == game.PlayerA {
			move = GreedyMove(t.dqn.Network(), obs.Flatten(), legal)
		} else {
			move = legal[t.rng.Intn(len(legal))]
		}

		nextObs, _, outcome, _, err := evalEnv.Step(move)
		if err != nil {
			panic(err)
		}
		obs = nextObs
		if outcome.Terminal() {
			return outcome
		}
	}
}
