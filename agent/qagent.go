package agent

import (
	"github.com/anarcoiris/GamingRL/experiments/metrics"
	"github.com/anarcoiris/GamingRL/game"
	"github.com/anarcoiris/GamingRL/qneuro"
	"github.com/anarcoiris/GamingRL/searcher"

	"golang.org/x/exp/rand"
)

type qAgent struct {
	network *qneuro.Network
	epsilon float64
	rng     *rand.Rand
}

// NewQAgent returns an agent driven by a trained action-value network.
// epsilon 0 plays pure greedy evaluation; a positive epsilon mixes in
// uniform exploration.
func NewQAgent(network *qneuro.Network, epsilon float64, seed uint64) Agent {
	return &qAgent{
		network: network,
		epsilon: epsilon,
		rng:     rand.New(rand.NewSource(seed)),
	}
}

func (a *qAgent) FindMove(state game.State, updates []searcher.Segment) (game.Move, metrics.SearchMetric) {
	moves := state.LegalMoves()
	if len(moves) == 0 {
		panic("no legal moves to score")
	}

	if a.epsilon > 0 && a.rng.Float64() < a.epsilon {
		return moves[a.rng.Intn(len(moves))], metrics.SearchMetric{}
	}

	gs, ok := state.(*game.GameState)
	if !ok {
		panic("unexpected state type")
	}
	obs := game.Encode(&gs.Board, gs.Mover)
	return qneuro.GreedyMove(a.network, obs.Flatten(), moves), metrics.SearchMetric{}
}
