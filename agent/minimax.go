package agent

import (
	"math"

	"github.com/anarcoiris/GamingRL/experiments/metrics"
	"github.com/anarcoiris/GamingRL/game"
	"github.com/anarcoiris/GamingRL/searcher"
)

// Heuristic weights. Center squares are rows and columns 3-4.
const (
	weightMan    = 10.0
	weightKing   = 15.0
	weightCenter = 1.0
	winScore     = 10000.0
)

const DefaultMinimaxDepth = 3

type minimaxAgent struct {
	depth int
}

// NewMinimax returns an alpha-beta minimax agent over the material and
// center-control heuristic. Scores are always from PlayerA's
// perspective: PlayerA maximizes, PlayerB minimizes. Move ordering is
// the canonical legal move order with strict improvement, so the agent
// is deterministic and falls back to the first legal move.
func NewMinimax(depth int) Agent {
	if depth <= 0 {
		depth = DefaultMinimaxDepth
	}
	return &minimaxAgent{depth: depth}
}

func (a *minimaxAgent) FindMove(state game.State, updates []searcher.Segment) (game.Move, metrics.SearchMetric) {
	moves := state.LegalMoves()
	if len(moves) == 0 {
		panic("no legal moves to search")
	}

	maximizing := state.Player() == game.PlayerA
	alpha := math.Inf(-1)
	beta := math.Inf(1)

	best := moves[0]
	bestScore := math.Inf(1)
	if maximizing {
		bestScore = math.Inf(-1)
	}

	for _, move := range moves {
		score := a.search(state.Play(move), a.depth-1, alpha, beta)
		if maximizing {
			if score > bestScore {
				bestScore = score
				best = move
			}
			alpha = math.Max(alpha, score)
		} else {
			if score < bestScore {
				bestScore = score
				best = move
			}
			beta = math.Min(beta, score)
		}
	}
	return best, metrics.SearchMetric{}
}

func (a *minimaxAgent) search(state game.State, depth int, alpha, beta float64) float64 {
	outcome := state.Outcome()
	if outcome.Terminal() {
		switch {
		case outcome.Kind == game.Won && outcome.Winner == game.PlayerA:
			// Deeper remaining depth means a faster win
			return winScore + float64(depth)
		case outcome.Kind == game.Won && outcome.Winner == game.PlayerB:
			return -(winScore + float64(depth))
		default:
			return 0
		}
	}
	if depth == 0 {
		return evaluateBoard(state)
	}

	if state.Player() == game.PlayerA {
		value := math.Inf(-1)
		for _, move := range state.LegalMoves() {
			value = math.Max(value, a.search(state.Play(move), depth-1, alpha, beta))
			alpha = math.Max(alpha, value)
			if alpha >= beta {
				break
			}
		}
		return value
	}

	value := math.Inf(1)
	for _, move := range state.LegalMoves() {
		value = math.Min(value, a.search(state.Play(move), depth-1, alpha, beta))
		beta = math.Min(beta, value)
		if alpha >= beta {
			break
		}
	}
	return value
}

// evaluateBoard scores material and center control from PlayerA's
// perspective.
func evaluateBoard(state game.State) float64 {
	gs, ok := state.(*game.GameState)
	if !ok {
		panic("unexpected state type")
	}

	score := 0.0
	piecesA, piecesB := 0, 0
	for row := 0; row < game.Size; row++ {
		for col := 0; col < game.Size; col++ {
			piece := gs.Board[row][col]
			if piece == game.Empty {
				continue
			}

			value := weightMan
			if piece.IsKing() {
				value = weightKing
			}
			if row >= 3 && row <= 4 && col >= 3 && col <= 4 {
				value += weightCenter
			}

			if piece.Owner() == game.PlayerA {
				score += value
				piecesA++
			} else {
				score -= value
				piecesB++
			}
		}
	}

	if piecesA == 0 && piecesB > 0 {
		return -winScore
	}
	if piecesB == 0 && piecesA > 0 {
		return winScore
	}
	return score
}
