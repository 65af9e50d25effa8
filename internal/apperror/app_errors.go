package apperror

import "errors"

var (
	ErrGameFinished        = errors.New("game is already finished")
	ErrNotYourTurn         = errors.New("it's not your turn")
	ErrNoActiveGames       = errors.New("no active games")
	ErrInvalidDimensions   = errors.New("board dimensions cannot fit a single ship")
	ErrGenerationExhausted = errors.New("fleet placement exceeded the regeneration limit")
	ErrAlreadyOpened       = errors.New("cell is already opened")
	ErrOutOfBounds         = errors.New("coordinates are outside the board")
	ErrNotReady            = errors.New("bot has no opponent board assigned")
	ErrUnknownDifficulty   = errors.New("unknown difficulty")
	ErrPlayerNotFound      = errors.New("player not found")
	ErrNameTaken           = errors.New("player name is already taken")
)
