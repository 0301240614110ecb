package env

import (
	"encoding/json"
	"os"

	"github.com/anarcoiris/GamingRL/game"

	"github.com/pkg/errors"
)

// Rewards is the per-step reward schedule. Terminal bonuses are scored
// from PlayerA's perspective.
type Rewards struct {
	Win           float64 `json:"win"`
	Loss          float64 `json:"loss"`
	Draw          float64 `json:"draw"`
	Capture       float64 `json:"capture"`
	KingPromotion float64 `json:"king_promotion"`
	TimePenalty   float64 `json:"time_penalty"`
}

// Config mirrors the JSON session config file.
type Config struct {
	BoardSize               int     `json:"board_size"`
	CaptureForced           bool    `json:"capture_forced"`
	PreferLongestCapture    bool    `json:"prefer_longest_capture"`
	KingOnLastRow           bool    `json:"king_on_last_row"`
	MaxEpisodeSteps         int     `json:"max_episode_steps"`
	DrawRepetitionThreshold int     `json:"draw_repetition_threshold"`
	DrawMoveThreshold       int     `json:"draw_move_threshold"`
	Rewards                 Rewards `json:"reward"`
}

func DefaultConfig() Config {
	return Config{
		BoardSize:               game.Size,
		CaptureForced:           true,
		PreferLongestCapture:    true,
		KingOnLastRow:           true,
		MaxEpisodeSteps:         200,
		DrawRepetitionThreshold: 3,
		DrawMoveThreshold:       100,
		Rewards: Rewards{
			Win:           1.0,
			Loss:          -1.0,
			Draw:          0.0,
			Capture:       0.01,
			KingPromotion: 0.02,
			TimePenalty:   -0.001,
		},
	}
}

// LoadConfig reads a JSON config file. Missing fields keep their
// defaults, so a partial file only overrides what it names.
func LoadConfig(path string) (Config, error) {
	config := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		return config, errors.Wrap(err, "read config")
	}
	if err := json.Unmarshal(data, &config); err != nil {
		return config, errors.Wrap(err, "parse config")
	}
	if err := config.Validate(); err != nil {
		return config, err
	}
	return config, nil
}

// Store writes the config as indented JSON.
func (c Config) Store(path string) error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return errors.Wrap(err, "encode config")
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return errors.Wrap(err, "write config")
	}
	return nil
}

func (c Config) Validate() error {
	if c.BoardSize != game.Size {
		return game.NewInvalidConfigError("board_size", "must be 8")
	}
	return c.Rules().Validate()
}

// Rules converts the session config to the engine rule set.
func (c Config) Rules() game.Rules {
	return game.Rules{
		CaptureForced:           c.CaptureForced,
		PreferLongestCapture:    c.PreferLongestCapture,
		KingOnLastRow:           c.KingOnLastRow,
		MaxPly:                  c.MaxEpisodeSteps,
		DrawRepetitionThreshold: c.DrawRepetitionThreshold,
		DrawMoveThreshold:       c.DrawMoveThreshold,
	}
}
