package gamelog

import (
	"encoding/json"
	"os"
	"time"

	"github.com/anarcoiris/GamingRL/game"

	"github.com/golang/snappy"
	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// Step is one logged ply: the board before the action, who moved, and
// the action in its wire format.
type Step struct {
	Step   int        `json:"step_count"`
	Mover  game.Owner `json:"current_player"`
	Board  game.Board `json:"board"`
	Action game.Move  `json:"action"`
}

// Record is a persisted game: identity, metadata, the full step
// sequence, and how it ended.
type Record struct {
	GameID      string            `json:"game_id"`
	Metadata    map[string]string `json:"metadata"`
	CreatedAt   time.Time         `json:"created_at"`
	Winner      string            `json:"winner"`
	Termination string            `json:"termination_reason"`
	TotalSteps  int               `json:"total_steps"`
	Steps       []Step            `json:"steps"`
}

func NewRecord(metadata map[string]string) *Record {
	if metadata == nil {
		metadata = map[string]string{}
	}
	return &Record{
		GameID:    uuid.NewString(),
		Metadata:  metadata,
		CreatedAt: time.Now().UTC(),
	}
}

// Add logs one ply. board is the position the action was played from.
func (r *Record) Add(board game.Board, mover game.Owner, action game.Move) {
	r.Steps = append(r.Steps, Step{
		Step:   len(r.Steps) + 1,
		Mover:  mover,
		Board:  board,
		Action: action,
	})
	r.TotalSteps = len(r.Steps)
}

// Finish stamps the outcome onto the record.
func (r *Record) Finish(outcome game.Outcome) {
	switch outcome.Kind {
	case game.Won:
		r.Winner = outcome.Winner.String()
		r.Termination = "win"
	case game.Drawn:
		r.Winner = "draw"
		r.Termination = outcome.Reason.String()
	}
}

// Save writes the record as indented JSON.
func (r *Record) Save(path string) error {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return errors.Wrap(err, "encode game record")
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return errors.Wrap(err, "write game record")
	}
	return nil
}

// SaveCompressed writes the record as snappy-compressed JSON, for bulk
// self-play output.
func (r *Record) SaveCompressed(path string) error {
	data, err := json.Marshal(r)
	if err != nil {
		return errors.Wrap(err, "encode game record")
	}
	if err := os.WriteFile(path, snappy.Encode(nil, data), 0644); err != nil {
		return errors.Wrap(err, "write game record")
	}
	return nil
}

func Load(path string) (*Record, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "read game record")
	}
	var record Record
	if err := json.Unmarshal(data, &record); err != nil {
		return nil, errors.Wrap(err, "parse game record")
	}
	return &record, nil
}

func LoadCompressed(path string) (*Record, error) {
	compressed, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "read game record")
	}
	data, err := snappy.Decode(nil, compressed)
	if err != nil {
		return nil, errors.Wrap(err, "decompress game record")
	}
	var record Record
	if err := json.Unmarshal(data, &record); err != nil {
		return nil, errors.Wrap(err, "parse game record")
	}
	return &record, nil
}
