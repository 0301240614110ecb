package engine

import (
	"fmt"
	"time"

	"github.com/anarcoiris/GamingRL/agent"
	"github.com/anarcoiris/GamingRL/env"
	"github.com/anarcoiris/GamingRL/experiments/metrics"
	"github.com/anarcoiris/GamingRL/game"
	"github.com/anarcoiris/GamingRL/gamelog"
	"github.com/anarcoiris/GamingRL/searcher"

	"github.com/rs/zerolog/log"
)

type Option func(*LocalEngine)

// WithRendering prints the board to stdout after every move.
func WithRendering() Option {
	return func(e *LocalEngine) {
		e.render = true
	}
}

// WithRecorder logs every ply and the outcome into record.
func WithRecorder(record *gamelog.Record) Option {
	return func(e *LocalEngine) {
		e.record = record
	}
}

// LocalEngine drives one episode between two agents in-process. Each
// played move is queued as a lineage segment for both agents, so a
// search agent receives every move since its previous turn and can
// reuse its tree.
type LocalEngine struct {
	env    *env.Env
	agents map[game.Owner]agent.Agent
	render bool
	record *gamelog.Record
}

func NewLocalEngine(environment *env.Env, playerA, playerB agent.Agent, options ...Option) *LocalEngine {
	e := &LocalEngine{
		env: environment,
		agents: map[game.Owner]agent.Agent{
			game.PlayerA: playerA,
			game.PlayerB: playerB,
		},
	}
	for _, option := range options {
		option(e)
	}
	return e
}

func (e *LocalEngine) Run() (game.Outcome, metrics.GameMetric, []metrics.MoveMetric) {
	e.env.Reset()

	updates := map[game.Owner][]searcher.Segment{}
	var moveMetrics []metrics.MoveMetric

	startTime := time.Now()
	log.Info().Msgf("%s is starting", e.env.State().Mover)

	outcome := e.env.State().Outcome()
	for !outcome.Terminal() {
		state := e.env.State()
		mover := state.Mover
		boardBefore := state.Board

		move, searchMetric := e.agents[mover].FindMove(state, updates[mover])
		updates[mover] = nil

		_, _, stepOutcome, info, err := e.env.Step(move)
		if err != nil {
			// Agents only play generated moves, so this is a bug
			panic(err)
		}
		outcome = stepOutcome

		// Queue the played move for both agents' next searches
		segment := searcher.Segment{Move: move, StateHash: e.env.State().Hash()}
		for owner := range e.agents {
			updates[owner] = append(updates[owner], segment)
		}

		moveMetrics = append(moveMetrics, metrics.MoveMetric{
			Step:         info.StepCount,
			Mover:        mover,
			Captures:     info.Captures,
			Promotion:    info.Promotion,
			SearchMetric: searchMetric,
		})

		if e.record != nil {
			e.record.Add(boardBefore, mover, move)
		}
		if e.render {
			fmt.Printf("step %d: %s plays %s\n%s\n", info.StepCount, mover, move, e.env.State().Board)
		}
	}

	if e.record != nil {
		e.record.Finish(outcome)
	}
	log.Info().Msgf("game over after %d plies: %s", e.env.State().PlyCount, outcome)

	endTime := time.Now()
	gameMetric := metrics.GameMetric{
		Winner:      winnerLabel(outcome),
		Termination: terminationLabel(outcome),
		StartTime:   startTime,
		EndTime:     endTime,
		Duration:    endTime.Sub(startTime),
		TotalPlies:  e.env.State().PlyCount,
	}
	return outcome, gameMetric, moveMetrics
}

func winnerLabel(outcome game.Outcome) string {
	if outcome.Kind == game.Won {
		return outcome.Winner.String()
	}
	return "draw"
}

func terminationLabel(outcome game.Outcome) string {
	if outcome.Kind == game.Won {
		return "win"
	}
	return outcome.Reason.String()
}
