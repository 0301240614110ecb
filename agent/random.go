package agent

import (
	"github.com/anarcoiris/GamingRL/experiments/metrics"
	"github.com/anarcoiris/GamingRL/game"
	"github.com/anarcoiris/GamingRL/searcher"

	"golang.org/x/exp/rand"
)

type randomAgent struct {
	rng *rand.Rand
}

// NewRandom returns the baseline agent: a uniform pick over the legal
// moves, seeded for reproducibility.
func NewRandom(seed uint64) Agent {
	return &randomAgent{rng: rand.New(rand.NewSource(seed))}
}

func (a *randomAgent) FindMove(state game.State, updates []searcher.Segment) (game.Move, metrics.SearchMetric) {
	moves := state.LegalMoves()
	if len(moves) == 0 {
		panic("no legal moves to pick from")
	}
	return moves[a.rng.Intn(len(moves))], metrics.SearchMetric{}
}
