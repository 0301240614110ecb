package engine

import (
	"github.com/anarcoiris/GamingRL/experiments/metrics"
	"github.com/anarcoiris/GamingRL/game"
)

type Engine interface {
	// Run plays a game to its terminal outcome
	Run() (game.Outcome, metrics.GameMetric, []metrics.MoveMetric)
}
