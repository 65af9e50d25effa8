package entity

import (
	"errors"
	"fmt"
	"time"

	"github.com/rocketscienceinc/seabattle-backend/internal/apperror"
)

const (
	StatusFinished = "finished"
	StatusOngoing  = "ongoing"

	SidePlayer = "player"
	SideBot    = "bot"
)

var ErrUnknownGameStatus = errors.New("unknown game status")

// Shot is the outcome of one attack.
type Shot struct {
	Side   string    `json:"side"`
	X      int       `json:"x"`
	Y      int       `json:"y"`
	Result HitResult `json:"result"`
	Sunk   bool      `json:"sunk,omitempty"`
}

// BotState is the exported part of a bot needed to resume it against the same board.
type BotState struct {
	Difficulty Difficulty `json:"difficulty"`
	Pool       []Coord    `json:"pool"`
	Damaged    []int      `json:"damaged,omitempty"`
}

// Game is one round: PlayerBoard belongs to the human and is attacked by the bot, BotBoard the other way round.
type Game struct {
	ID          string    `json:"id"`
	PlayerID    string    `json:"player_id"`
	PlayerBoard *Board    `json:"player_board"`
	BotBoard    *Board    `json:"bot_board"`
	Bot         BotState  `json:"bot"`
	Turn        string    `json:"turn"`
	Status      string    `json:"status"`
	Winner      string    `json:"winner,omitempty"`
	Turns       int       `json:"turns"`
	StartedAt   time.Time `json:"started_at"`
}

func NewGame(id, playerID string, playerBoard, botBoard *Board) *Game {
	return &Game{
		ID:          id,
		PlayerID:    playerID,
		PlayerBoard: playerBoard,
		BotBoard:    botBoard,
		Turn:        SidePlayer,
		Status:      StatusOngoing,
		StartedAt:   time.Now().UTC(),
	}
}

func (that *Game) IsFinished() bool {
	return that.Status == StatusFinished
}

func (that *Game) IsOngoing() bool {
	return that.Status == StatusOngoing
}

func (that *Game) ConfirmOngoingState() error {
	switch {
	case that.IsFinished():
		return apperror.ErrGameFinished
	case that.IsOngoing():
		return nil
	default:
		return fmt.Errorf("%w: %s", ErrUnknownGameStatus, that.Status)
	}
}

// TargetOf returns the board the given side attacks.
func (that *Game) TargetOf(side string) *Board {
	if side == SideBot {
		return that.PlayerBoard
	}
	return that.BotBoard
}

// MakeTurn lets a side attack (x, y) on the opposing board.
func (that *Game) MakeTurn(side string, x, y int) (Shot, error) {
	if err := that.ConfirmOngoingState(); err != nil {
		return Shot{}, err
	}

	if that.Turn != side {
		return Shot{}, apperror.ErrNotYourTurn
	}

	target := that.TargetOf(side)

	result, err := target.Open(x, y)
	if err != nil {
		return Shot{}, fmt.Errorf("failed to open cell: %w", err)
	}

	shot := Shot{Side: side, X: x, Y: y, Result: result}
	if id, ok := target.ShipIDAt(x, y); ok && result == Hit {
		_, alive := target.Ship(id)
		shot.Sunk = !alive
	}

	that.ApplyShot(shot)

	return shot, nil
}

// ApplyShot advances the round after an attack already performed on the boards.
// A hit keeps the turn with the attacker, a miss passes it over.
func (that *Game) ApplyShot(shot Shot) {
	that.Turns++

	if shot.Result == Miss {
		that.passTurn()
	}

	that.UpdateGameState()
}

func (that *Game) passTurn() {
	if that.Turn == SidePlayer {
		that.Turn = SideBot
	} else {
		that.Turn = SidePlayer
	}
}

func (that *Game) UpdateGameState() {
	switch {
	case !that.BotBoard.IsAlive():
		that.Winner = SidePlayer
	case !that.PlayerBoard.IsAlive():
		that.Winner = SideBot
	default:
		return
	}

	that.Status = StatusFinished
	that.Turn = ""
}

// GameView hides the bot fleet: its board is rendered with the hidden glyph set.
type GameView struct {
	ID          string    `json:"id"`
	Difficulty  string    `json:"difficulty"`
	Turn        string    `json:"turn,omitempty"`
	Status      string    `json:"status"`
	Winner      string    `json:"winner,omitempty"`
	Turns       int       `json:"turns"`
	PlayerBoard BoardView `json:"player_board"`
	BotBoard    BoardView `json:"bot_board"`
}

func (that *Game) View() GameView {
	return GameView{
		ID:          that.ID,
		Difficulty:  that.Bot.Difficulty.Name,
		Turn:        that.Turn,
		Status:      that.Status,
		Winner:      that.Winner,
		Turns:       that.Turns,
		PlayerBoard: that.PlayerBoard.View(),
		BotBoard:    that.BotBoard.View(),
	}
}
