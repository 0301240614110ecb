package game

// Size is the board edge length.
const Size = 8

// Position addresses a board square by row and column, each in [0, Size).
// Pieces only ever occupy dark squares, where row+col is odd.
type Position struct {
	Row int
	Col int
}

func (p Position) OnBoard() bool {
	return p.Row >= 0 && p.Row < Size && p.Col >= 0 && p.Col < Size
}

func (p Position) Dark() bool {
	return (p.Row+p.Col)%2 == 1
}

// Valid reports whether p is a playable square.
func (p Position) Valid() bool {
	return p.OnBoard() && p.Dark()
}

func (p Position) Offset(d Position) Position {
	return Position{Row: p.Row + d.Row, Col: p.Col + d.Col}
}

// Less orders positions row-major for deterministic move ordering.
func (p Position) Less(other Position) bool {
	if p.Row != other.Row {
		return p.Row < other.Row
	}
	return p.Col < other.Col
}

// allDirections lists the four diagonal offsets in a fixed search order.
var allDirections = [4]Position{
	{Row: -1, Col: -1},
	{Row: -1, Col: 1},
	{Row: 1, Col: -1},
	{Row: 1, Col: 1},
}

// directions returns the diagonal offsets a piece may move or jump along:
// kings use all four, men only the two toward the opponent's side.
func directions(p Piece) []Position {
	if p.IsKing() {
		return allDirections[:]
	}
	if p.Owner() == PlayerA {
		return allDirections[2:] // PlayerA men advance toward row 7
	}
	return allDirections[:2] // PlayerB men advance toward row 0
}

// promotionRow is the row on which o's men crown.
func promotionRow(o Owner) int {
	if o == PlayerA {
		return Size - 1
	}
	return 0
}
