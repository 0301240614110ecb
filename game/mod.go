package game

type StateHash uint64

// State should be immutable - operations on State always return a new copy
type State interface {
	Player() Owner
	LegalMoves() []Move
	Play(Move) State
	Hash() StateHash
	Outcome() Outcome
}

// Evaluate scores a game state between -1 and 1 indicating how favorable
// the current player's position is to a winning (positive) outcome.
type Evaluate func(State) float64
