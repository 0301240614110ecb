package game

// Owner identifies a player. PlayerB is the negation of PlayerA so the
// opponent of either side is a sign flip, and piece codes carry their
// owner's sign.
type Owner int8

const (
	NoOwner Owner = 0
	PlayerA Owner = 1
	PlayerB Owner = -1
)

func (o Owner) Opponent() Owner {
	return -o
}

func (o Owner) String() string {
	switch o {
	case PlayerA:
		return "playerA"
	case PlayerB:
		return "playerB"
	default:
		return "none"
	}
}

// Piece is one board square's content: empty, a man, or a king, with the
// sign of the code giving the owner.
type Piece int8

const (
	Empty Piece = 0
	ManA  Piece = 1
	KingA Piece = 2
	ManB  Piece = -1
	KingB Piece = -2
)

func ManOf(o Owner) Piece {
	return Piece(o)
}

func KingOf(o Owner) Piece {
	return Piece(2 * int8(o))
}

func (p Piece) Owner() Owner {
	switch {
	case p > 0:
		return PlayerA
	case p < 0:
		return PlayerB
	default:
		return NoOwner
	}
}

func (p Piece) IsMan() bool {
	return p == ManA || p == ManB
}

func (p Piece) IsKing() bool {
	return p == KingA || p == KingB
}

// Crowned returns the king of the same owner; kings crown to themselves.
func (p Piece) Crowned() Piece {
	if p == Empty {
		return Empty
	}
	return KingOf(p.Owner())
}

func (p Piece) String() string {
	switch p {
	case ManA:
		return "r"
	case KingA:
		return "R"
	case ManB:
		return "b"
	case KingB:
		return "B"
	default:
		return "."
	}
}
