package qneuro

import (
	"path/filepath"
	"testing"

	"github.com/anarcoiris/GamingRL/game"

	"github.com/stretchr/testify/require"
	"golang.org/x/exp/rand"
)

func testObservation(t *testing.T) []float64 {
	t.Helper()
	board := game.InitialBoard()
	obs := game.Encode(&board, game.PlayerA)
	return obs.Flatten()
}

func TestMemory(t *testing.T) {
	t.Run("fills up to capacity then wraps around", func(t *testing.T) {
		m := NewMemory(3)
		require.Zero(t, m.Len())

		for i := 0; i < 5; i++ {
			m.Push(Transition{Reward: float64(i)})
		}

		require.Equal(t, 3, m.Len())
		rewards := map[float64]bool{}
		for _, tr := range m.Sample(rand.New(rand.NewSource(1)), 30) {
			rewards[tr.Reward] = true
		}
		require.NotContains(t, rewards, 0.0, "oldest transitions must be overwritten")
		require.NotContains(t, rewards, 1.0)
	})

	t.Run("samples without repeating a stored transition", func(t *testing.T) {
		m := NewMemory(8)
		for i := 0; i < 5; i++ {
			m.Push(Transition{Reward: float64(i)})
		}

		batch := m.Sample(rand.New(rand.NewSource(1)), 5)

		require.Len(t, batch, 5)
		seen := map[float64]bool{}
		for _, tr := range batch {
			require.False(t, seen[tr.Reward], "a full-size sample must not repeat transitions")
			seen[tr.Reward] = true
		}
	})

	t.Run("clear empties the buffer", func(t *testing.T) {
		m := NewMemory(4)
		m.Push(Transition{})
		m.Push(Transition{})

		m.Clear()

		require.Zero(t, m.Len())
		require.Nil(t, m.Sample(rand.New(rand.NewSource(1)), 2))
	})
}

func TestNetwork(t *testing.T) {
	t.Run("same seed gives identical predictions", func(t *testing.T) {
		obs := testObservation(t)
		move := game.Move{From: game.Position{Row: 2, Col: 1}, To: game.Position{Row: 3, Col: 2}}

		a := NewNetwork(7, LearningRate).Predict(Inputs(obs, move))
		b := NewNetwork(7, LearningRate).Predict(Inputs(obs, move))

		require.Equal(t, a, b)
	})

	t.Run("training regresses toward a fixed target", func(t *testing.T) {
		n := NewNetwork(7, 0.01)
		obs := testObservation(t)
		move := game.Move{From: game.Position{Row: 2, Col: 1}, To: game.Position{Row: 3, Col: 2}}
		inputs := Inputs(obs, move)
		batch := [][]float64{inputs}
		target := []float64{0.5}

		first := n.Train(batch, target)
		for i := 0; i < 200; i++ {
			n.Train(batch, target)
		}
		last := n.Train(batch, target)

		require.Less(t, last, first, "loss must shrink on a fixed target")
		require.InDelta(t, 0.5, n.Predict(inputs), 0.1)
	})

	t.Run("clone is independent of the original", func(t *testing.T) {
		n := NewNetwork(7, 0.01)
		clone := n.Clone()
		obs := testObservation(t)
		move := game.Move{From: game.Position{Row: 2, Col: 1}, To: game.Position{Row: 3, Col: 2}}
		inputs := Inputs(obs, move)
		before := clone.Predict(inputs)

		for i := 0; i < 50; i++ {
			n.Train([][]float64{inputs}, []float64{1})
		}

		require.Equal(t, before, clone.Predict(inputs), "training must not leak into the clone")
	})

	t.Run("action features are normalized", func(t *testing.T) {
		move := game.Move{
			From:     game.Position{Row: 5, Col: 0},
			To:       game.Position{Row: 1, Col: 4},
			Captured: []game.Position{{Row: 4, Col: 1}, {Row: 2, Col: 3}},
		}

		features := ActionFeatures(move)

		require.Equal(t, []float64{5.0 / 8, 0, 1.0 / 8, 4.0 / 8, 2.0 / 10}, features)
	})
}

func TestEpsilonSchedule(t *testing.T) {
	t.Run("decays linearly and clamps at the floor", func(t *testing.T) {
		d := NewDQN(1, WithEpsilonDecay(100))

		require.Equal(t, EpsilonStart, d.Epsilon())

		for i := 0; i < 50; i++ {
			d.Observe(Transition{})
		}
		require.InDelta(t, (EpsilonStart+EpsilonEnd)/2, d.Epsilon(), 1e-9)

		for i := 0; i < 200; i++ {
			d.Observe(Transition{})
		}
		require.Equal(t, EpsilonEnd, d.Epsilon())
	})
}

func TestTrainStep(t *testing.T) {
	t.Run("does not train before a full batch", func(t *testing.T) {
		d := NewDQN(1, WithBatchSize(8))
		d.Observe(Transition{State: testObservation(t), NextState: testObservation(t)})

		_, trained := d.TrainStep()

		require.False(t, trained)
	})

	t.Run("trains once the memory holds a batch", func(t *testing.T) {
		d := NewDQN(1, WithBatchSize(4))
		obs := testObservation(t)
		move := game.Move{From: game.Position{Row: 2, Col: 1}, To: game.Position{Row: 3, Col: 2}}
		for i := 0; i < 4; i++ {
			d.Observe(Transition{
				State:     obs,
				Action:    move,
				Reward:    0.1,
				NextState: obs,
				NextLegal: []game.Move{move},
				Done:      i%2 == 0,
			})
		}

		loss, trained := d.TrainStep()

		require.True(t, trained)
		require.GreaterOrEqual(t, loss, 0.0)
	})
}

func TestCheckpoint(t *testing.T) {
	t.Run("round trips weights and schedule state", func(t *testing.T) {
		d := NewDQN(3, WithBatchSize(2), WithEpsilonDecay(100))
		obs := testObservation(t)
		move := game.Move{From: game.Position{Row: 2, Col: 1}, To: game.Position{Row: 3, Col: 2}}
		for i := 0; i < 10; i++ {
			d.Observe(Transition{State: obs, Action: move, Reward: 0.1, NextState: obs, NextLegal: []game.Move{move}})
			d.TrainStep()
		}
		path := filepath.Join(t.TempDir(), "checkpoint.snap")
		require.NoError(t, d.SaveCheckpoint(path))

		restored := NewDQN(99, WithEpsilonDecay(100))
		require.NoError(t, restored.LoadCheckpoint(path))

		require.Equal(t, d.Steps(), restored.Steps())
		require.Equal(t, d.Epsilon(), restored.Epsilon())
		inputs := Inputs(obs, move)
		require.Equal(t, d.Network().Predict(inputs), restored.Network().Predict(inputs))
	})

	t.Run("load fails on a missing file", func(t *testing.T) {
		d := NewDQN(1)
		require.Error(t, d.LoadCheckpoint(filepath.Join(t.TempDir(), "nope.snap")))
	})
}
