package metrics

import (
	"sync/atomic"
	"time"

	"github.com/anarcoiris/GamingRL/game"
)

// SearchMetric describes one move-finding search.
type SearchMetric struct {
	Goroutines   int
	Duration     time.Duration
	Episodes     int
	Cutoff       int
	Evaluate     game.Evaluate
	FullPlayouts int
	IsTreeReset  bool
}

// MoveMetric describes one played move: what happened on the board plus
// the search that produced it.
type MoveMetric struct {
	Step      int
	Mover     game.Owner
	Captures  int
	Promotion bool
	SearchMetric
}

// GameMetric describes one completed game.
type GameMetric struct {
	Winner      string
	Termination string
	StartTime   time.Time
	EndTime     time.Time
	Duration    time.Duration
	TotalPlies  int
}

// TrainRecord describes one training step of the Q-learning loop.
type TrainRecord struct {
	Step    int
	Episode int
	Epsilon float64
	Loss    float64
	Reward  float64
}

// AgentConfig identifies an agent configuration under comparison.
type AgentConfig struct {
	ID         int
	Kind       string
	Goroutines int
	Duration   time.Duration
	Episodes   int
	Cutoff     int
	Depth      int
	Seed       uint64
}

type Collector interface {
	Start(goroutines, cutoff int, evaluate game.Evaluate)
	SetTreeReset(value bool)
	AddFullPlayout()
	AddEpisode()
	Complete() SearchMetric
}

type collector struct {
	goroutines   int
	cutoff       int
	evaluate     game.Evaluate
	startTime    time.Time
	episodes     atomic.Int32
	fullPlayouts atomic.Int32
	isTreeReset  atomic.Bool
}

func NewCollector() Collector {
	return &collector{}
}

func (m *collector) Start(goroutines, cutoff int, evaluate game.Evaluate) {
	m.startTime = time.Now()
	m.goroutines = goroutines
	m.cutoff = cutoff
	m.evaluate = evaluate
	m.episodes.Store(0)
	m.fullPlayouts.Store(0)
}

func (m *collector) SetTreeReset(value bool) {
	m.isTreeReset.Store(value)
}

func (m *collector) AddFullPlayout() {
	m.fullPlayouts.Add(1)
}

func (m *collector) AddEpisode() {
	m.episodes.Add(1)
}

func (m *collector) Complete() SearchMetric {
	return SearchMetric{
		Goroutines:   m.goroutines,
		Duration:     time.Since(m.startTime),
		Episodes:     int(m.episodes.Load()),
		FullPlayouts: int(m.fullPlayouts.Load()),
		Cutoff:       m.cutoff,
		Evaluate:     m.evaluate,
		IsTreeReset:  m.isTreeReset.Load(),
	}
}

type dummyCollector struct{}

func NewDummyCollector() Collector {
	return &dummyCollector{}
}

func (m *dummyCollector) Start(goroutines, cutoff int, evaluate game.Evaluate) {}
func (m *dummyCollector) SetTreeReset(value bool)                              {}
func (m *dummyCollector) AddFullPlayout()                                      {}
func (m *dummyCollector) AddEpisode()                                          {}
func (m *dummyCollector) Complete() SearchMetric                               { return SearchMetric{} }
