package game

import "strings"

// Board holds piece occupancy for all 64 squares. It is a plain value type:
// assigning a Board copies it, which keeps per-branch snapshots during
// capture search cheap. The board performs no rule validation beyond
// rejecting structurally invalid coordinates.
type Board [Size][Size]Piece

// At returns the piece on p. Addressing a square off the board or on a
// light square is a caller bug and panics with an InvalidPositionError.
func (b *Board) At(p Position) Piece {
	mustValid(p)
	return b[p.Row][p.Col]
}

// Place puts piece on p, overwriting any previous content.
func (b *Board) Place(p Position, piece Piece) {
	mustValid(p)
	b[p.Row][p.Col] = piece
}

// Remove empties p.
func (b *Board) Remove(p Position) {
	mustValid(p)
	b[p.Row][p.Col] = Empty
}

func mustValid(p Position) {
	if !p.Valid() {
		panic(NewInvalidPositionError(p))
	}
}

// InitialBoard returns the standard starting layout: 12 men per side on the
// dark squares of the three rows nearest each player. PlayerA occupies rows
// 0-2 and advances toward row 7, PlayerB occupies rows 5-7.
func InitialBoard() Board {
	var b Board
	for row := 0; row < 3; row++ {
		for col := 0; col < Size; col++ {
			if (row+col)%2 == 1 {
				b[row][col] = ManA
			}
		}
	}
	for row := Size - 3; row < Size; row++ {
		for col := 0; col < Size; col++ {
			if (row+col)%2 == 1 {
				b[row][col] = ManB
			}
		}
	}
	return b
}

// String renders the board as an ASCII grid with row and column indices,
// men as r/b and kings as R/B.
func (b Board) String() string {
	var sb strings.Builder
	sb.WriteString("  0 1 2 3 4 5 6 7\n")
	for row := 0; row < Size; row++ {
		sb.WriteByte(byte('0' + row))
		for col := 0; col < Size; col++ {
			sb.WriteByte(' ')
			sb.WriteString(b[row][col].String())
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}
