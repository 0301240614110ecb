package game

import (
	"encoding/binary"
	"hash/fnv"
)

// GameState is one position in a game: the board, whose turn it is, and
// the bookkeeping the draw rules need. States are immutable once built;
// Apply and Play return successors and never touch the receiver. A state
// owns its legal move set, computed once at construction.
type GameState struct {
	Board             Board
	Mover             Owner
	PlyCount          int
	MovesSinceCapture int
	Rules             Rules

	history map[StateHash]int
	legal   []Move
}

// NewGameState returns the starting position with PlayerA to move.
func NewGameState(rules Rules) *GameState {
	return NewGameStateFromBoard(InitialBoard(), PlayerA, rules)
}

// NewGameStateFromBoard starts a game from an arbitrary position. The
// position history begins with the given position.
func NewGameStateFromBoard(board Board, mover Owner, rules Rules) *GameState {
	gs := &GameState{
		Board:   board,
		Mover:   mover,
		Rules:   rules,
		history: make(map[StateHash]int),
	}
	gs.history[gs.Hash()] = 1
	gs.legal = generateMoves(&gs.Board, gs.Mover, gs.Rules)
	return gs
}

func (gs GameState) Copy() *GameState {
	historyCopy := make(map[StateHash]int, len(gs.history))
	for h, n := range gs.history {
		historyCopy[h] = n
	}

	return &GameState{
		Board:             gs.Board,
		Mover:             gs.Mover,
		PlyCount:          gs.PlyCount,
		MovesSinceCapture: gs.MovesSinceCapture,
		Rules:             gs.Rules,
		history:           historyCopy,
	}
}

func (gs GameState) Hash() StateHash {
	hasher := fnv.New64a()

	// Hash mover and every square so a repeated board only counts as a
	// repeated position when the same player is to move
	binary.Write(hasher, binary.LittleEndian, int64(gs.Mover))
	for row := 0; row < Size; row++ {
		for col := 0; col < Size; col++ {
			binary.Write(hasher, binary.LittleEndian, int64(gs.Board[row][col]))
		}
	}

	return StateHash(hasher.Sum64())
}

func (gs *GameState) Player() Owner {
	return gs.Mover
}

// LegalMoves returns the mover's legal moves in canonical order. Callers
// must not modify the returned slice.
func (gs *GameState) LegalMoves() []Move {
	if gs.legal == nil {
		gs.legal = generateMoves(&gs.Board, gs.Mover, gs.Rules)
	}
	return gs.legal
}

// Repetitions is the number of times the current position (board and
// mover) has occurred in this game, including now.
func (gs *GameState) Repetitions() int {
	return gs.history[gs.Hash()]
}

// Apply validates the move against the legal move set and returns the
// successor state. An illegal move, or any move on a terminal state,
// yields an IllegalActionError and the receiver stays unmodified. The
// promotion flag of the submitted move is derived, not trusted: the
// matched legal move decides whether the piece crowns.
func (gs *GameState) Apply(move Move) (*GameState, error) {
	if gs.Outcome().Terminal() {
		return nil, NewIllegalActionError(move)
	}

	var chosen *Move
	legal := gs.LegalMoves()
	for i := range legal {
		if legal[i].Equal(move) {
			chosen = &legal[i]
			break
		}
	}
	if chosen == nil {
		return nil, NewIllegalActionError(move)
	}

	next := gs.Copy()

	piece := next.Board.At(chosen.From)
	next.Board.Remove(chosen.From)
	for _, c := range chosen.Captured {
		next.Board.Remove(c)
	}
	if chosen.Promotes {
		piece = piece.Crowned()
	}
	next.Board.Place(chosen.To, piece)

	next.Mover = gs.Mover.Opponent()
	next.PlyCount++
	if chosen.IsCapture() {
		next.MovesSinceCapture = 0
	} else {
		next.MovesSinceCapture++
	}
	next.history[next.Hash()]++
	next.legal = generateMoves(&next.Board, next.Mover, next.Rules)

	return next, nil
}

// Play is Apply for callers that only ever submit generated moves, such
// as search. It panics on an illegal move.
func (gs *GameState) Play(move Move) State {
	next, err := gs.Apply(move)
	if err != nil {
		panic(err)
	}
	return next
}

// Outcome runs terminal detection in fixed priority order: loss by no
// legal moves, then repetition draw, then the no-capture move limit, then
// the episode ply cap.
func (gs *GameState) Outcome() Outcome {
	if len(gs.LegalMoves()) == 0 {
		return Outcome{Kind: Won, Winner: gs.Mover.Opponent()}
	}
	if gs.Repetitions() >= gs.Rules.DrawRepetitionThreshold {
		return Outcome{Kind: Drawn, Reason: Repetition}
	}
	if gs.MovesSinceCapture >= gs.Rules.DrawMoveThreshold {
		return Outcome{Kind: Drawn, Reason: MoveLimit}
	}
	if gs.PlyCount >= gs.Rules.MaxPly {
		return Outcome{Kind: Drawn, Reason: StepLimit}
	}
	return Outcome{Kind: Ongoing}
}
