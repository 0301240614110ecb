package agent

import (
	"math"

	"github.com/anarcoiris/GamingRL/experiments/metrics"
	"github.com/anarcoiris/GamingRL/game"
	"github.com/anarcoiris/GamingRL/searcher"

	"golang.org/x/exp/rand"
)

type evaluationAgent struct {
	mcts *searcher.MCTS
}

// NewEvaluationAgent returns an agent for actual game play during
// evaluation: it plays the most-visited move of the search.
func NewEvaluationAgent(mcts *searcher.MCTS) Agent {
	return evaluationAgent{mcts: mcts}
}

func (a evaluationAgent) FindMove(state game.State, updates []searcher.Segment) (game.Move, metrics.SearchMetric) {
	policy, metric := a.mcts.Simulate(state, updates)
	return state.LegalMoves()[findMax(policy)], metric
}

func findMax(policy []float64) int {
	maxIndex := 0
	maxVisits := math.Inf(-1)
	for i, visits := range policy {
		if visits > maxVisits {
			maxVisits = visits
			maxIndex = i
		}
	}
	return maxIndex
}

type trainingAgent struct {
	mcts        *searcher.MCTS
	temperature float64
	rng         *rand.Rand
}

// NewTrainingAgent returns an agent for self-play during training: it
// samples from the temperature-adjusted visit policy to keep the play
// varied.
func NewTrainingAgent(mcts *searcher.MCTS, temperature float64, seed uint64) Agent {
	if temperature <= 0 {
		temperature = 1.0
	}
	return trainingAgent{
		mcts:        mcts,
		temperature: temperature,
		rng:         rand.New(rand.NewSource(seed)),
	}
}

func (a trainingAgent) FindMove(state game.State, updates []searcher.Segment) (game.Move, metrics.SearchMetric) {
	policy, metric := a.mcts.Simulate(state, updates)
	adjusted := adjustTemperature(policy, a.temperature)
	return state.LegalMoves()[sample(adjusted, a.rng)], metric
}

// adjustTemperature converts visit counts into move probabilities:
// temperature 1 is proportional sampling, lower sharpens toward the
// most visited move.
func adjustTemperature(policy []float64, temperature float64) []float64 {
	exponent := 1.0 / temperature
	sum := 0.0
	adjusted := make([]float64, len(policy))
	for i, visits := range policy {
		prob := math.Pow(visits, exponent)
		sum += prob
		adjusted[i] = prob
	}
	if sum == 0 { // No visits anywhere, fall back to uniform
		for i := range adjusted {
			adjusted[i] = 1.0 / float64(len(adjusted))
		}
		return adjusted
	}
	// Normalize
	for i := range adjusted {
		adjusted[i] /= sum
	}
	return adjusted
}

func sample(policy []float64, rng *rand.Rand) int {
	sampled := rng.Float64()
	cumulative := 0.0
	for i, prob := range policy {
		cumulative += prob
		if sampled < cumulative {
			return i
		}
	}
	return len(policy) - 1 // Fallback in case of rounding errors
}
