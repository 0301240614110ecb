package qneuro

import (
	"sync"

	"github.com/anarcoiris/GamingRL/game"

	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/mat"
)

const (
	stateInputs  = game.ObservationSize
	actionInputs = 5
	inputCount   = stateInputs + actionInputs
	hidden1Count = 128
	hidden2Count = 64
	outputCount  = 1
)

// maxCapturesNorm scales the capture-count action feature; longer
// sequences are possible but vanishingly rare.
const maxCapturesNorm = 10.0

// Network is an action-value network: it scores one (state, action)
// pair with a scalar Q value. Input is the flattened observation plus
// five normalized action features, through two ReLU hidden layers on
// gonum dense matrices. Weights are mutex-guarded so a training step
// and concurrent predictions do not race.
type Network struct {
	mu sync.Mutex
	w1 *mat.Dense // inputCount x hidden1Count
	b1 *mat.Dense // 1 x hidden1Count
	w2 *mat.Dense // hidden1Count x hidden2Count
	b2 *mat.Dense // 1 x hidden2Count
	w3 *mat.Dense // hidden2Count x outputCount
	b3 *mat.Dense // 1 x outputCount
	lr float64
}

func NewNetwork(seed uint64, learningRate float64) *Network {
	rng := rand.New(rand.NewSource(seed))
	return &Network{
		w1: randomDense(rng, inputCount, hidden1Count),
		b1: mat.NewDense(1, hidden1Count, nil),
		w2: randomDense(rng, hidden1Count, hidden2Count),
		b2: mat.NewDense(1, hidden2Count, nil),
		w3: randomDense(rng, hidden2Count, outputCount),
		b3: mat.NewDense(1, outputCount, nil),
		lr: learningRate,
	}
}

func randomDense(rng *rand.Rand, rows, cols int) *mat.Dense {
	// Scale initial weights down by fan-in to keep activations bounded
	scale := 1.0 / float64(rows)
	data := make([]float64, rows*cols)
	for i := range data {
		data[i] = (rng.Float64() - 0.5) * scale
	}
	return mat.NewDense(rows, cols, data)
}

// ActionFeatures normalizes a move into the five action inputs:
// from/to coordinates over the board size and capture count.
func ActionFeatures(move game.Move) []float64 {
	return []float64{
		float64(move.From.Row) / float64(game.Size),
		float64(move.From.Col) / float64(game.Size),
		float64(move.To.Row) / float64(game.Size),
		float64(move.To.Col) / float64(game.Size),
		float64(len(move.Captured)) / maxCapturesNorm,
	}
}

// Inputs joins a flattened observation and a move into one input row.
func Inputs(observation []float64, move game.Move) []float64 {
	row := make([]float64, 0, inputCount)
	row = append(row, observation...)
	row = append(row, ActionFeatures(move)...)
	return row
}

// Predict returns the Q value for one input row.
func (n *Network) Predict(inputs []float64) float64 {
	n.mu.Lock()
	defer n.mu.Unlock()

	x := mat.NewDense(1, inputCount, inputs)
	_, _, _, _, out := n.forward(x)
	return out.At(0, 0)
}

// forward runs a batch through the network, returning the two hidden
// pre-activations and activations plus the output. Caller holds the
// lock.
func (n *Network) forward(x *mat.Dense) (z1, a1, z2, a2, out *mat.Dense) {
	rows, _ := x.Dims()

	z1 = mat.NewDense(rows, hidden1Count, nil)
	z1.Mul(x, n.w1)
	addBias(z1, n.b1)
	a1 = mat.DenseCopyOf(z1)
	applyReLU(a1)

	z2 = mat.NewDense(rows, hidden2Count, nil)
	z2.Mul(a1, n.w2)
	addBias(z2, n.b2)
	a2 = mat.DenseCopyOf(z2)
	applyReLU(a2)

	out = mat.NewDense(rows, outputCount, nil)
	out.Mul(a2, n.w3)
	addBias(out, n.b3)
	return z1, a1, z2, a2, out
}

// Train runs one SGD step on a batch of input rows against target Q
// values and returns the batch MSE loss before the update.
func (n *Network) Train(batch [][]float64, targets []float64) float64 {
	n.mu.Lock()
	defer n.mu.Unlock()

	rows := len(batch)
	data := make([]float64, 0, rows*inputCount)
	for _, row := range batch {
		data = append(data, row...)
	}
	x := mat.NewDense(rows, inputCount, data)

	z1, a1, z2, a2, out := n.forward(x)

	// MSE loss and its gradient on the linear output
	loss := 0.0
	dOut := mat.NewDense(rows, outputCount, nil)
	for i := 0; i < rows; i++ {
		diff := out.At(i, 0) - targets[i]
		loss += diff * diff
		dOut.Set(i, 0, 2*diff/float64(rows))
	}
	loss /= float64(rows)

	// Output layer gradients
	dW3 := mat.NewDense(hidden2Count, outputCount, nil)
	dW3.Mul(a2.T(), dOut)
	dB3 := columnSums(dOut)

	// Second hidden layer
	dA2 := mat.NewDense(rows, hidden2Count, nil)
	dA2.Mul(dOut, n.w3.T())
	dZ2 := hadamardReLUGrad(dA2, z2)
	dW2 := mat.NewDense(hidden1Count, hidden2Count, nil)
	dW2.Mul(a1.T(), dZ2)
	dB2 := columnSums(dZ2)

	// First hidden layer
	dA1 := mat.NewDense(rows, hidden1Count, nil)
	dA1.Mul(dZ2, n.w2.T())
	dZ1 := hadamardReLUGrad(dA1, z1)
	dW1 := mat.NewDense(inputCount, hidden1Count, nil)
	dW1.Mul(x.T(), dZ1)
	dB1 := columnSums(dZ1)

	applyUpdate(n.w1, dW1, n.lr)
	applyUpdate(n.b1, dB1, n.lr)
	applyUpdate(n.w2, dW2, n.lr)
	applyUpdate(n.b2, dB2, n.lr)
	applyUpdate(n.w3, dW3, n.lr)
	applyUpdate(n.b3, dB3, n.lr)

	return loss
}

// CopyFrom overwrites this network's weights with those of other, used
// to sync the target network.
func (n *Network) CopyFrom(other *Network) {
	other.mu.Lock()
	layers := other.snapshotLocked()
	other.mu.Unlock()

	n.mu.Lock()
	defer n.mu.Unlock()
	n.restoreLocked(layers)
}

// Clone returns an independent network with identical weights.
func (n *Network) Clone() *Network {
	clone := &Network{
		w1: mat.NewDense(inputCount, hidden1Count, nil),
		b1: mat.NewDense(1, hidden1Count, nil),
		w2: mat.NewDense(hidden1Count, hidden2Count, nil),
		b2: mat.NewDense(1, hidden2Count, nil),
		w3: mat.NewDense(hidden2Count, outputCount, nil),
		b3: mat.NewDense(1, outputCount, nil),
		lr: n.lr,
	}
	clone.CopyFrom(n)
	return clone
}

func applyReLU(m *mat.Dense) {
	m.Apply(func(i, j int, v float64) float64 {
		if v < 0 {
			return 0
		}
		return v
	}, m)
}

// hadamardReLUGrad zeroes grad entries where the pre-activation was
// negative.
func hadamardReLUGrad(grad, preActivation *mat.Dense) *mat.Dense {
	out := mat.DenseCopyOf(grad)
	out.Apply(func(i, j int, v float64) float64 {
		if preActivation.At(i, j) < 0 {
			return 0
		}
		return v
	}, out)
	return out
}

func columnSums(m *mat.Dense) *mat.Dense {
	rows, cols := m.Dims()
	sums := mat.NewDense(1, cols, nil)
	for j := 0; j < cols; j++ {
		total := 0.0
		for i := 0; i < rows; i++ {
			total += m.At(i, j)
		}
		sums.Set(0, j, total)
	}
	return sums
}

func addBias(m, bias *mat.Dense) {
	rows, cols := m.Dims()
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			m.Set(i, j, m.At(i, j)+bias.At(0, j))
		}
	}
}

func applyUpdate(weights, grad *mat.Dense, lr float64) {
	scaled := mat.DenseCopyOf(grad)
	scaled.Scale(lr, grad)
	weights.Sub(weights, scaled)
}
