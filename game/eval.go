package game

// EvaluateMaterial tallies each player's men and kings to produce a
// relative score between -1 and 1 from the current player's perspective.
func EvaluateMaterial(s State) float64 {
	gs, ok := s.(*GameState)
	if !ok {
		panic("unexpected state type")
	}
	manScore, kingScore := gs.calculateMaterialScores()
	return (manScore + kingScore) / 2
}

// EvaluateMaterialAdvancement considers how far each player's men have
// advanced toward promotion, in addition to material.
func EvaluateMaterialAdvancement(s State) float64 {
	gs, ok := s.(*GameState)
	if !ok {
		panic("unexpected state type")
	}
	manScore, kingScore := gs.calculateMaterialScores()
	advancementScore := gs.calculateAdvancementScore()

	return (manScore + kingScore + advancementScore) / 3
}

// EvaluateMaterialMobility considers each player's move count, in
// addition to material.
func EvaluateMaterialMobility(s State) float64 {
	gs, ok := s.(*GameState)
	if !ok {
		panic("unexpected state type")
	}
	manScore, kingScore := gs.calculateMaterialScores()
	mobilityScore := gs.calculateMobilityScore()

	return (manScore + kingScore + mobilityScore) / 3
}

func EvaluateCombined(s State) float64 {
	gs, ok := s.(*GameState)
	if !ok {
		panic("unexpected state type")
	}
	manScore, kingScore := gs.calculateMaterialScores()
	advancementScore := gs.calculateAdvancementScore()
	mobilityScore := gs.calculateMobilityScore()

	return (manScore + kingScore + advancementScore + mobilityScore) / 4
}

func (gs *GameState) calculateMaterialScores() (manScore, kingScore float64) {
	men := make(map[Owner]float64)
	kings := make(map[Owner]float64)

	// Tally men and kings by owner
	for row := 0; row < Size; row++ {
		for col := 0; col < Size; col++ {
			piece := gs.Board[row][col]
			if piece == Empty {
				continue
			}
			if piece.IsKing() {
				kings[piece.Owner()]++
			} else {
				men[piece.Owner()]++
			}
		}
	}

	current := gs.Mover
	opponent := gs.Mover.Opponent()
	manScore = normalize(men[current], men[opponent])
	kingScore = normalize(kings[current], kings[opponent])
	return manScore, kingScore
}

func (gs *GameState) calculateAdvancementScore() float64 {
	progress := make(map[Owner]float64)

	// Tally rows advanced toward promotion; kings count as fully advanced
	for row := 0; row < Size; row++ {
		for col := 0; col < Size; col++ {
			piece := gs.Board[row][col]
			if piece == Empty {
				continue
			}
			if piece.IsKing() {
				progress[piece.Owner()] += Size - 1
				continue
			}
			if piece.Owner() == PlayerA {
				progress[PlayerA] += float64(row)
			} else {
				progress[PlayerB] += float64(Size - 1 - row)
			}
		}
	}

	return normalize(progress[gs.Mover], progress[gs.Mover.Opponent()])
}

func (gs *GameState) calculateMobilityScore() float64 {
	current := float64(len(gs.LegalMoves()))
	opponent := float64(len(generateMoves(&gs.Board, gs.Mover.Opponent(), gs.Rules)))
	return normalize(current, opponent)
}

// normalize normalizes value relative to otherValue to a score between -1 and 1
func normalize(value float64, otherValue float64) float64 {
	total := value + otherValue
	if total == 0 {
		return 0
	}
	return (value - otherValue) / total
}
