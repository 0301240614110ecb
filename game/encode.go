package game

// ObservationChannels is the number of planes in an encoded observation:
// own men, own kings, opponent men, opponent kings.
const ObservationChannels = 4

// ObservationSize is the flattened observation length.
const ObservationSize = ObservationChannels * Size * Size

// Observation is a board encoded as binary feature planes relative to one
// player's perspective.
type Observation [ObservationChannels][Size][Size]float32

// Encode maps a board to its observation from perspective's point of
// view: channel 0 holds perspective's men, 1 its kings, 2 the opponent's
// men, 3 the opponent's kings. Coordinates are absolute; only the channel
// assignment depends on perspective. Light squares are zero everywhere.
func Encode(b *Board, perspective Owner) Observation {
	if perspective == NoOwner {
		panic("cannot encode for no owner")
	}

	var obs Observation
	for row := 0; row < Size; row++ {
		for col := 0; col < Size; col++ {
			piece := b[row][col]
			if piece == Empty {
				continue
			}

			channel := 0
			if piece.Owner() != perspective {
				channel = 2
			}
			if piece.IsKing() {
				channel++
			}
			obs[channel][row][col] = 1
		}
	}
	return obs
}

// Flatten lays the observation out channel-major as network input.
func (o *Observation) Flatten() []float64 {
	flat := make([]float64, 0, ObservationSize)
	for channel := 0; channel < ObservationChannels; channel++ {
		for row := 0; row < Size; row++ {
			for col := 0; col < Size; col++ {
				flat = append(flat, float64(o[channel][row][col]))
			}
		}
	}
	return flat
}
