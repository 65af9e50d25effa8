package entity

import (
	"errors"
	"fmt"
	"regexp"
	"time"
)

const (
	MinBoardSide = 5
	MaxBoardSide = 16
)

var (
	ErrInvalidSettings = errors.New("invalid settings")
	ErrInvalidName     = errors.New("name can contain only English letters, numbers and '_'")
)

var namePattern = regexp.MustCompile(`^[A-Za-z0-9_]{1,32}$`)

// ValidateName accepts 1 to 32 English letters, digits and underscores.
func ValidateName(name string) error {
	if !namePattern.MatchString(name) {
		return fmt.Errorf("%w: %q", ErrInvalidName, name)
	}

	return nil
}

type Settings struct {
	Difficulty string `json:"difficulty"`
	Width      int    `json:"width"`
	Height     int    `json:"height"`
}

func (that Settings) Validate() error {
	if _, err := ParseDifficulty(that.Difficulty); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidSettings, err)
	}

	if that.Width < MinBoardSide || that.Width > MaxBoardSide || that.Height < MinBoardSide || that.Height > MaxBoardSide {
		return fmt.Errorf("%w: board %dx%d must be within [%d, %d]",
			ErrInvalidSettings, that.Width, that.Height, MinBoardSide, MaxBoardSide)
	}

	return nil
}

type Player struct {
	ID       string         `json:"id"`
	Name     string         `json:"name"`
	GameID   string         `json:"game_id,omitempty"`
	Scores   map[string]int `json:"scores"`
	Settings Settings       `json:"settings"`
}

func NewPlayer(id, name string, settings Settings) *Player {
	return &Player{
		ID:       id,
		Name:     name,
		Scores:   make(map[string]int, len(Difficulties)),
		Settings: settings,
	}
}

// UpdateScores adds one point for a win and takes one for a loss in the given difficulty.
func (that *Player) UpdateScores(difficulty string, win bool) {
	if that.Scores == nil {
		that.Scores = make(map[string]int, len(Difficulties))
	}

	if win {
		that.Scores[difficulty]++
		return
	}
	that.Scores[difficulty]--
}

func (that *Player) ResetScores() {
	that.Scores = make(map[string]int, len(Difficulties))
}

// BotRecord keeps the results of one difficulty tier across all players.
type BotRecord struct {
	Difficulty string `json:"difficulty"`
	Wins       int    `json:"wins"`
	Losses     int    `json:"losses"`
}

func (that *BotRecord) UpdateScores(win bool) {
	if win {
		that.Wins++
		return
	}
	that.Losses++
}

// RoundRecord is an archived finished game.
type RoundRecord struct {
	GameID     string    `json:"game_id"`
	PlayerID   string    `json:"player_id"`
	Difficulty string    `json:"difficulty"`
	Winner     string    `json:"winner"`
	Turns      int       `json:"turns"`
	StartedAt  time.Time `json:"started_at"`
	EndedAt    time.Time `json:"ended_at"`
}
