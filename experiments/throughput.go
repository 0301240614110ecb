package experiments

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/anarcoiris/GamingRL/experiments/metrics"
	"github.com/anarcoiris/GamingRL/game"

	"github.com/rs/zerolog/log"
	"golang.org/x/exp/rand"
)

const (
	// MeasureDuration bounds each throughput measurement.
	MeasureDuration = 3 * time.Second
	// PlayoutCutoff caps a single random playout so measurements stay
	// dominated by move generation rather than long endgames.
	PlayoutCutoff = 120
)

// ThroughputRecord reports positions evaluated per second for one
// goroutine count. A position counts once per legal-move generation
// plus move application.
type ThroughputRecord struct {
	Goroutines int
	Duration   time.Duration
	Positions  int
	PerSecond  float64
}

// RunThroughputExperiment measures how fast random playouts step
// through positions as the goroutine count grows, and stores the
// results as CSV in a timestamped run directory.
func RunThroughputExperiment() error {
	records := []ThroughputRecord{}

	log.Info().Msgf("starting throughput experiment...")

	for _, goroutines := range []int{1, 2, 4, 8, 16, 32, 64} {
		record := measureThroughput(goroutines, MeasureDuration)
		records = append(records, record)
		log.Info().Msgf("goroutines=%d: %d positions in %s (%.0f positions/second)",
			record.Goroutines, record.Positions, record.Duration, record.PerSecond)
	}

	log.Info().Msgf("completed throughput experiment")

	return storeThroughput(records)
}

func measureThroughput(goroutines int, duration time.Duration) ThroughputRecord {
	var positions atomic.Int64

	done := make(chan struct{})
	startTime := time.Now()
	for w := 0; w < goroutines; w++ {
		go func(worker int) {
			rng := rand.New(rand.NewSource(uint64(worker) + 1))
			for {
				select {
				case <-done:
					return
				default:
					positions.Add(int64(randomPlayout(rng)))
				}
			}
		}(w)
	}

	time.Sleep(duration)
	close(done)
	elapsed := time.Since(startTime)

	count := int(positions.Load())
	return ThroughputRecord{
		Goroutines: goroutines,
		Duration:   elapsed,
		Positions:  count,
		PerSecond:  float64(count) / elapsed.Seconds(),
	}
}

// randomPlayout plays one game with uniformly random moves and returns
// the number of positions stepped through.
func randomPlayout(rng *rand.Rand) int {
	state := game.State(game.NewGameState(game.StandardRules()))
	count := 0
	for !state.Outcome().Terminal() && count < PlayoutCutoff {
		moves := state.LegalMoves()
		state = state.Play(moves[rng.Intn(len(moves))])
		count++
	}
	return count
}

func storeThroughput(records []ThroughputRecord) error {
	writer, err := metrics.NewWriter("throughput")
	if err != nil {
		return fmt.Errorf("failed to create experiment writer: %w", err)
	}

	path := filepath.Join(writer.BaseDir(), "throughput.csv")
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create throughput file: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	header := []string{"goroutines", "duration", "positions", "positions_per_second"}
	if err := w.Write(header); err != nil {
		return fmt.Errorf("failed to write throughput header: %w", err)
	}
	for _, record := range records {
		row := []string{
			strconv.Itoa(record.Goroutines),
			record.Duration.String(),
			strconv.Itoa(record.Positions),
			strconv.FormatFloat(record.PerSecond, 'f', 0, 64),
		}
		if err := w.Write(row); err != nil {
			return fmt.Errorf("failed to write throughput row: %w", err)
		}
	}

	log.Info().Msg("stored throughput records")
	return nil
}
