package searcher

import (
	"math"

	"github.com/anarcoiris/GamingRL/game"
)

// Hyperparameters for MCTS

const CSquared = 2.0 // Exploration constant

const Win = 1.0   // Reward for winning outcome
const Loss = -Win // Reward for loss outcome (negate from opponent perspective)

// MaxCutoff effectively disables the rollout depth cutoff.
const MaxCutoff = math.MaxInt32

func ucb1(rewards float64, visits float64, c2LnN float64) float64 {
	// Prioritize unexplored nodes
	if visits == 0 {
		return math.Inf(1)
	}

	return rewards/visits + math.Sqrt(c2LnN/visits)
}

// rewardFor scores a playout result from perspective's point of view.
// scorer is the player the score belongs to: the winner of a full
// playout, or the mover whose position was evaluated at the cutoff.
// A drawn playout has no scorer and is worth 0 to both players.
func rewardFor(perspective game.Owner, scorer game.Owner, score float64) float64 {
	if scorer == game.NoOwner {
		return 0
	}
	if perspective == scorer {
		return score
	}
	return -score
}
