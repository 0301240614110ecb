package agent

import (
	"github.com/anarcoiris/GamingRL/experiments/metrics"
	"github.com/anarcoiris/GamingRL/game"
	"github.com/anarcoiris/GamingRL/searcher"
)

type Agent interface {
	// FindMove returns a move for the current state and performance
	// metrics (if collected) from the move-finding process. updates
	// holds the moves played since the agent's previous call, so
	// search agents can reuse their tree.
	FindMove(state game.State, updates []searcher.Segment) (game.Move, metrics.SearchMetric)
}
