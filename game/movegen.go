package game

import (
	"sort"

	"github.com/anarcoiris/GamingRL/utils"
)

// generateMoves enumerates every legal move for mover under the given
// rules, in canonical order. With captures on the board and CaptureForced
// set, simple moves are excluded entirely; with PreferLongestCapture set,
// only capture sequences of maximal length survive. Without forced
// captures both capture and simple moves are legal.
func generateMoves(b *Board, mover Owner, rules Rules) []Move {
	var captures []Move
	var simples []Move

	for row := 0; row < Size; row++ {
		for col := 0; col < Size; col++ {
			piece := b[row][col]
			if piece.Owner() != mover {
				continue
			}
			pos := Position{Row: row, Col: col}
			captures = append(captures, captureMoves(b, pos, piece, rules)...)
			simples = append(simples, simpleMoves(b, pos, piece, rules)...)
		}
	}

	if len(captures) > 0 {
		if rules.PreferLongestCapture {
			captures = longestOnly(captures)
		}
		moves := captures
		if !rules.CaptureForced {
			moves = append(moves, simples...)
		}
		sortMoves(moves)
		return moves
	}

	sortMoves(simples)
	return simples
}

// captureMoves searches every complete jump sequence for the piece on
// origin by depth-first search. Each branch works on its own board
// snapshot: the moving piece is lifted and re-placed per jump, while
// jumped pieces stay on the board for the rest of the sequence so they
// still block landing squares, and the accumulated capture list keeps
// them from being jumped twice. A man reaching its promotion row
// mid-sequence continues the same sequence as a king.
func captureMoves(b *Board, origin Position, piece Piece, rules Rules) []Move {
	var out []Move

	var search func(board Board, pos Position, p Piece, captured []Position, promoted bool)
	search = func(board Board, pos Position, p Piece, captured []Position, promoted bool) {
		extended := false
		for _, d := range directions(p) {
			over := pos.Offset(d)
			land := over.Offset(d)
			if !land.OnBoard() {
				continue
			}
			if board.At(over).Owner() != p.Owner().Opponent() {
				continue
			}
			if utils.FindIndex(captured, over) >= 0 {
				continue
			}
			if board.At(land) != Empty {
				continue
			}

			next := board
			next.Remove(pos)
			jumper := p
			crowned := promoted
			if rules.KingOnLastRow && jumper.IsMan() && land.Row == promotionRow(jumper.Owner()) {
				jumper = jumper.Crowned()
				crowned = true
			}
			next.Place(land, jumper)

			path := make([]Position, len(captured)+1)
			copy(path, captured)
			path[len(captured)] = over

			search(next, land, jumper, path, crowned)
			extended = true
		}

		if !extended && len(captured) > 0 {
			out = append(out, Move{From: origin, To: pos, Captured: captured, Promotes: promoted})
		}
	}

	search(*b, origin, piece, nil, false)
	return out
}

// simpleMoves enumerates single diagonal steps into empty squares.
func simpleMoves(b *Board, pos Position, piece Piece, rules Rules) []Move {
	var out []Move
	for _, d := range directions(piece) {
		dest := pos.Offset(d)
		if !dest.OnBoard() || b.At(dest) != Empty {
			continue
		}
		promotes := rules.KingOnLastRow && piece.IsMan() && dest.Row == promotionRow(piece.Owner())
		out = append(out, Move{From: pos, To: dest, Promotes: promotes})
	}
	return out
}

func longestOnly(captures []Move) []Move {
	longest := 0
	for _, m := range captures {
		if len(m.Captured) > longest {
			longest = len(m.Captured)
		}
	}
	kept := captures[:0]
	for _, m := range captures {
		if len(m.Captured) == longest {
			kept = append(kept, m)
		}
	}
	return kept
}

func sortMoves(moves []Move) {
	sort.Slice(moves, func(i, j int) bool {
		return compareMoves(moves[i], moves[j]) < 0
	})
}
