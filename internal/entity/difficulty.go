package entity

import (
	"fmt"

	"github.com/rocketscienceinc/seabattle-backend/internal/apperror"
)

// Difficulty is a pair of probability numerators out of 10, rolled every bot turn.
type Difficulty struct {
	Name                  string `json:"name"`
	ContinueDamagedChance int    `json:"continue_damaged_chance"`
	AcquireShipChance     int    `json:"acquire_ship_chance"`
}

var (
	Easy     = Difficulty{Name: "easy", ContinueDamagedChance: 1, AcquireShipChance: 0}
	Medium   = Difficulty{Name: "medium", ContinueDamagedChance: 3, AcquireShipChance: 0}
	Hard     = Difficulty{Name: "hard", ContinueDamagedChance: 3, AcquireShipChance: 1}
	VeryHard = Difficulty{Name: "very-hard", ContinueDamagedChance: 10, AcquireShipChance: 1}
	Unreal   = Difficulty{Name: "unreal", ContinueDamagedChance: 10, AcquireShipChance: 10}

	Difficulties = []Difficulty{Easy, Medium, Hard, VeryHard, Unreal}
)

func ParseDifficulty(name string) (Difficulty, error) {
	for _, difficulty := range Difficulties {
		if difficulty.Name == name {
			return difficulty, nil
		}
	}
	return Difficulty{}, fmt.Errorf("%w: %q", apperror.ErrUnknownDifficulty, name)
}
