package env

import (
	"github.com/anarcoiris/GamingRL/game"
)

// Info reports the side facts of a step for the agent and any logging
// around the session.
type Info struct {
	Mover            game.Owner
	LegalActionCount int
	Captures         int
	Promotion        bool
	StepCount        int
	Outcome          game.Outcome
}

// Env drives one checkers episode. It owns a single GameState, validates
// submitted actions against the generated legal set, and translates
// transitions into observations and rewards. An Env is not safe for
// concurrent use; run independent sessions in separate Envs.
type Env struct {
	config Config
	rules  game.Rules
	state  *game.GameState
	seed   uint64
}

func New(config Config) (*Env, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	e := &Env{
		config: config,
		rules:  config.Rules(),
	}
	e.reset()
	return e, nil
}

// Seed records the session seed. The engine itself is deterministic;
// the seed only exists so agents and records can tie back to it.
func (e *Env) Seed(seed uint64) {
	e.seed = seed
}

func (e *Env) SessionSeed() uint64 {
	return e.seed
}

func (e *Env) Config() Config {
	return e.config
}

// State exposes the current game state for search agents. Callers must
// treat it as read-only.
func (e *Env) State() *game.GameState {
	return e.state
}

// Reset starts a fresh episode and returns the first observation from
// the first mover's perspective.
func (e *Env) Reset() (game.Observation, Info) {
	e.reset()
	return e.observation(), Info{
		Mover:            e.state.Mover,
		LegalActionCount: len(e.state.LegalMoves()),
		Outcome:          e.state.Outcome(),
	}
}

func (e *Env) reset() {
	e.state = game.NewGameState(e.rules)
}

// LegalActions returns the mover's legal actions in canonical order.
func (e *Env) LegalActions() []game.Move {
	if e.state.Outcome().Terminal() {
		return nil
	}
	return e.state.LegalMoves()
}

// Step applies action and advances the episode. The action must pass
// structural validation and match a generated legal move; otherwise the
// state stays untouched and the error reports the rejection. The reward
// combines the per-step schedule with the terminal bonus from PlayerA's
// perspective on the terminating step.
func (e *Env) Step(action game.Move) (game.Observation, float64, game.Outcome, Info, error) {
	if err := game.CheckMove(action); err != nil {
		return e.observation(), 0, e.state.Outcome(), Info{}, err
	}

	// Resolve the submitted action against the legal set: the matched
	// move decides captures and promotion, not the caller's flags
	var chosen *game.Move
	for _, legal := range e.state.LegalMoves() {
		if legal.Equal(action) {
			chosen = &legal
			break
		}
	}
	if chosen == nil {
		return e.observation(), 0, e.state.Outcome(), Info{}, game.NewIllegalActionError(action)
	}

	next, err := e.state.Apply(*chosen)
	if err != nil {
		return e.observation(), 0, e.state.Outcome(), Info{}, err
	}
	e.state = next

	reward := e.stepReward(*chosen)
	outcome := e.state.Outcome()
	if outcome.Terminal() {
		reward += e.terminalReward(outcome)
	}

	info := Info{
		Mover:     e.state.Mover,
		Captures:  len(chosen.Captured),
		Promotion: chosen.Promotes,
		StepCount: e.state.PlyCount,
		Outcome:   outcome,
	}
	if !outcome.Terminal() {
		info.LegalActionCount = len(e.state.LegalMoves())
	}

	return e.observation(), reward, outcome, info, nil
}

func (e *Env) observation() game.Observation {
	return game.Encode(&e.state.Board, e.state.Mover)
}

func (e *Env) stepReward(move game.Move) float64 {
	reward := e.config.Rewards.TimePenalty
	reward += float64(len(move.Captured)) * e.config.Rewards.Capture
	if move.Promotes {
		reward += e.config.Rewards.KingPromotion
	}
	return reward
}

func (e *Env) terminalReward(outcome game.Outcome) float64 {
	switch {
	case outcome.Kind == game.Won && outcome.Winner == game.PlayerA:
		return e.config.Rewards.Win
	case outcome.Kind == game.Won && outcome.Winner == game.PlayerB:
		return e.config.Rewards.Loss
	default:
		return e.config.Rewards.Draw
	}
}
