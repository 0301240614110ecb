package qneuro

import (
	"github.com/anarcoiris/GamingRL/game"

	"golang.org/x/exp/rand"
)

// Transition is one environment step as seen by the learner. NextLegal
// carries the successor's legal moves so the TD target can maximize
// over them without re-running the generator.
type Transition struct {
	State     []float64
	Action    game.Move
	Reward    float64
	NextState []float64
	NextLegal []game.Move
	Done      bool
}

// Memory is a fixed-capacity replay ring buffer: once full, new
// transitions overwrite the oldest.
type Memory struct {
	buf  []Transition
	next int
	full bool
}

func NewMemory(capacity int) *Memory {
	if capacity <= 0 {
		panic("memory capacity must be positive")
	}
	return &Memory{buf: make([]Transition, capacity)}
}

func (m *Memory) Push(t Transition) {
	m.buf[m.next] = t
	m.next++
	if m.next == len(m.buf) {
		m.next = 0
		m.full = true
	}
}

func (m *Memory) Len() int {
	if m.full {
		return len(m.buf)
	}
	return m.next
}

func (m *Memory) Clear() {
	m.next = 0
	m.full = false
}

// Sample draws n distinct transitions uniformly. Asking for more than
// the buffer holds falls back to drawing with replacement.
func (m *Memory) Sample(rng *rand.Rand, n int) []Transition {
	size := m.Len()
	if size == 0 {
		return nil
	}

	batch := make([]Transition, n)
	if n > size {
		for i := range batch {
			batch[i] = m.buf[rng.Intn(size)]
		}
		return batch
	}

	for i, index := range rng.Perm(size)[:n] {
		batch[i] = m.buf[index]
	}
	return batch
}
