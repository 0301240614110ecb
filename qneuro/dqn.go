package qneuro

import (
	"github.com/anarcoiris/GamingRL/game"

	"golang.org/x/exp/rand"
)

// Default hyperparameters for DQN training
const (
	Gamma              = 0.99
	LearningRate       = 1e-4
	EpsilonStart       = 1.0
	EpsilonEnd         = 0.05
	EpsilonDecaySteps  = 50000
	BatchSize          = 64
	TargetSyncInterval = 1000
	MemoryCapacity     = 100000
)

type DQNOption func(*DQN)

func WithMemoryCapacity(capacity int) DQNOption {
	return func(d *DQN) {
		if capacity > 0 {
			d.memory = NewMemory(capacity)
		}
	}
}

func WithBatchSize(size int) DQNOption {
	return func(d *DQN) {
		if size > 0 {
			d.batchSize = size
		}
	}
}

func WithEpsilonDecay(steps int) DQNOption {
	return func(d *DQN) {
		if steps > 0 {
			d.epsilonDecaySteps = steps
		}
	}
}

func WithLearningRate(lr float64) DQNOption {
	return func(d *DQN) {
		if lr > 0 {
			d.online = NewNetwork(d.seed, lr)
			d.target = d.online.Clone()
		}
	}
}

func WithTargetSync(interval int) DQNOption {
	return func(d *DQN) {
		if interval > 0 {
			d.targetSync = interval
		}
	}
}

// DQN is the Q-learning stack: an online action-value network, a
// periodically synced target network, a replay memory, and a linearly
// decaying epsilon-greedy behavior policy.
type DQN struct {
	online *Network
	target *Network
	memory *Memory
	rng    *rand.Rand
	seed   uint64

	gamma             float64
	batchSize         int
	targetSync        int
	epsilonStart      float64
	epsilonEnd        float64
	epsilonDecaySteps int

	envSteps   int
	trainSteps int
}

func NewDQN(seed uint64, options ...DQNOption) *DQN {
	online := NewNetwork(seed, LearningRate)
	d := &DQN{
		online:            online,
		target:            online.Clone(),
		memory:            NewMemory(MemoryCapacity),
		rng:               rand.New(rand.NewSource(seed)),
		seed:              seed,
		gamma:             Gamma,
		batchSize:         BatchSize,
		targetSync:        TargetSyncInterval,
		epsilonStart:      EpsilonStart,
		epsilonEnd:        EpsilonEnd,
		epsilonDecaySteps: EpsilonDecaySteps,
	}
	for _, option := range options {
		option(d)
	}
	return d
}

func (d *DQN) Network() *Network {
	return d.online
}

func (d *DQN) Memory() *Memory {
	return d.memory
}

func (d *DQN) Steps() int {
	return d.envSteps
}

// Epsilon is the current exploration rate: linear decay from start to
// end over the configured number of environment steps.
func (d *DQN) Epsilon() float64 {
	if d.envSteps >= d.epsilonDecaySteps {
		return d.epsilonEnd
	}
	progress := float64(d.envSteps) / float64(d.epsilonDecaySteps)
	return d.epsilonStart + (d.epsilonEnd-d.epsilonStart)*progress
}

// SelectMove picks a legal move epsilon-greedily over Q values.
func (d *DQN) SelectMove(observation []float64, legal []game.Move) game.Move {
	if len(legal) == 0 {
		panic("no legal moves to select from")
	}
	if d.rng.Float64() < d.Epsilon() {
		return legal[d.rng.Intn(len(legal))]
	}
	return GreedyMove(d.online, observation, legal)
}

// GreedyMove returns the legal move with the highest Q value; ties keep
// the earliest move in canonical order.
func GreedyMove(network *Network, observation []float64, legal []game.Move) game.Move {
	best := legal[0]
	bestQ := network.Predict(Inputs(observation, legal[0]))
	for _, move := range legal[1:] {
		if q := network.Predict(Inputs(observation, move)); q > bestQ {
			bestQ = q
			best = move
		}
	}
	return best
}

// Observe records an environment transition.
func (d *DQN) Observe(t Transition) {
	d.memory.Push(t)
	d.envSteps++
}

// TrainStep samples a batch and runs one gradient step against the
// target network. It reports the loss and whether training happened;
// nothing happens until the memory holds a full batch.
func (d *DQN) TrainStep() (float64, bool) {
	if d.memory.Len() < d.batchSize {
		return 0, false
	}

	batch := d.memory.Sample(d.rng, d.batchSize)
	inputs := make([][]float64, len(batch))
	targets := make([]float64, len(batch))
	for i, t := range batch {
		inputs[i] = Inputs(t.State, t.Action)
		targets[i] = t.Reward
		if !t.Done && len(t.NextLegal) > 0 {
			targets[i] += d.gamma * maxQ(d.target, t.NextState, t.NextLegal)
		}
	}

	loss := d.online.Train(inputs, targets)

	d.trainSteps++
	if d.trainSteps%d.targetSync == 0 {
		d.target.CopyFrom(d.online)
	}
	return loss, true
}

func maxQ(network *Network, observation []float64, legal []game.Move) float64 {
	best := network.Predict(Inputs(observation, legal[0]))
	for _, move := range legal[1:] {
		if q := network.Predict(Inputs(observation, move)); q > best {
			best = q
		}
	}
	return best
}
