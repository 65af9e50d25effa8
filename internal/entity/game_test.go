package entity

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rocketscienceinc/seabattle-backend/internal/apperror"
)

// newTestGame deals a player board with a single boat at (0, 0) and a bot board with a destroyer at (2, 2).
func newTestGame() *Game {
	playerBoard := buildBoard(6, 6, newShip(0, Coord{X: 0, Y: 0}, Horizontal, 1))
	playerBoard.hidden = false
	botBoard := buildBoard(6, 6, newShip(0, Coord{X: 2, Y: 2}, Vertical, 2))

	return NewGame("game-1", "player-1", playerBoard, botBoard)
}

func TestGameStatusMethods(t *testing.T) {
	t.Run("IsFinished returns true when game status is finished", func(t *testing.T) {
		// Given: a game with StatusFinished
		game := &Game{Status: StatusFinished}

		// When: checking if the game is finished
		isFinished := game.IsFinished()

		// Then: it should return true
		assert.True(t, isFinished)
		assert.False(t, game.IsOngoing())
	})

	t.Run("New game is ongoing and the player moves first", func(t *testing.T) {
		// Given: a freshly dealt game
		game := newTestGame()

		// Then: it is ongoing with the player to move
		assert.True(t, game.IsOngoing())
		assert.Equal(t, SidePlayer, game.Turn)
		assert.Zero(t, game.Turns)
		assert.Empty(t, game.Winner)
	})
}

func TestGame_ConfirmOngoingState(t *testing.T) {
	t.Run("Returns nil when game is ongoing", func(t *testing.T) {
		game := &Game{Status: StatusOngoing}

		assert.NoError(t, game.ConfirmOngoingState())
	})

	t.Run("Returns ErrGameFinished when game is finished", func(t *testing.T) {
		game := &Game{Status: StatusFinished}

		assert.ErrorIs(t, game.ConfirmOngoingState(), apperror.ErrGameFinished)
	})

	t.Run("Returns error for unknown game status", func(t *testing.T) {
		game := &Game{Status: "paused"}

		assert.ErrorIs(t, game.ConfirmOngoingState(), ErrUnknownGameStatus)
	})
}

func TestGame_MakeTurn(t *testing.T) {
	t.Run("Miss passes the turn", func(t *testing.T) {
		// Given: a new game
		game := newTestGame()

		// When: the player misses
		shot, err := game.MakeTurn(SidePlayer, 5, 5)

		// Then: the bot moves next
		require.NoError(t, err)
		assert.Equal(t, Shot{Side: SidePlayer, X: 5, Y: 5, Result: Miss}, shot)
		assert.Equal(t, SideBot, game.Turn)
		assert.Equal(t, 1, game.Turns)
	})

	t.Run("Hit keeps the turn", func(t *testing.T) {
		game := newTestGame()

		shot, err := game.MakeTurn(SidePlayer, 2, 2)

		require.NoError(t, err)
		assert.Equal(t, Hit, shot.Result)
		assert.False(t, shot.Sunk)
		assert.Equal(t, SidePlayer, game.Turn)
	})

	t.Run("Wrong side is rejected", func(t *testing.T) {
		game := newTestGame()

		_, err := game.MakeTurn(SideBot, 1, 1)

		require.ErrorIs(t, err, apperror.ErrNotYourTurn)
		assert.False(t, game.PlayerBoard.IsOpened(1, 1))
	})

	t.Run("Opened cell is rejected and the turn stays", func(t *testing.T) {
		game := newTestGame()
		_, err := game.MakeTurn(SidePlayer, 2, 2)
		require.NoError(t, err)

		_, err = game.MakeTurn(SidePlayer, 2, 2)

		require.ErrorIs(t, err, apperror.ErrAlreadyOpened)
		assert.Equal(t, SidePlayer, game.Turn)
		assert.Equal(t, 1, game.Turns)
	})

	t.Run("Sinking the last ship wins the game", func(t *testing.T) {
		// Given: the bot destroyer hit once
		game := newTestGame()
		_, err := game.MakeTurn(SidePlayer, 2, 2)
		require.NoError(t, err)

		// When: the second segment is hit
		shot, err := game.MakeTurn(SidePlayer, 2, 3)

		// Then: the ship sinks and the player wins
		require.NoError(t, err)
		assert.True(t, shot.Sunk)
		assert.True(t, game.IsFinished())
		assert.Equal(t, SidePlayer, game.Winner)
		assert.Empty(t, game.Turn)

		_, err = game.MakeTurn(SidePlayer, 0, 0)
		assert.ErrorIs(t, err, apperror.ErrGameFinished)
	})

	t.Run("Bot shot applied by the caller can win for the bot", func(t *testing.T) {
		// Given: the turn already passed to the bot
		game := newTestGame()
		_, err := game.MakeTurn(SidePlayer, 5, 5)
		require.NoError(t, err)

		// When: the bot sinks the only player ship
		result, err := game.PlayerBoard.Open(0, 0)
		require.NoError(t, err)
		game.ApplyShot(Shot{Side: SideBot, X: 0, Y: 0, Result: result, Sunk: true})

		// Then: the bot wins
		assert.True(t, game.IsFinished())
		assert.Equal(t, SideBot, game.Winner)
		assert.Equal(t, 2, game.Turns)
	})
}

func TestGame_JSON(t *testing.T) {
	t.Run("Game survives a JSON round trip", func(t *testing.T) {
		// Given: a game with one move played
		game := newTestGame()
		_, err := game.MakeTurn(SidePlayer, 2, 2)
		require.NoError(t, err)
		game.Bot = BotState{Difficulty: Hard, Pool: []Coord{{X: 1, Y: 1}}, Damaged: []int{0}}

		// When: it is encoded and decoded
		data, err := json.Marshal(game)
		require.NoError(t, err)

		var restored Game
		require.NoError(t, json.Unmarshal(data, &restored))

		// Then: boards and bot state match
		assert.Equal(t, game.ID, restored.ID)
		assert.Equal(t, game.Turn, restored.Turn)
		assert.Equal(t, game.Bot, restored.Bot)
		assert.Equal(t, game.BotBoard.Render(), restored.BotBoard.Render())
		assert.Equal(t, game.PlayerBoard.Render(), restored.PlayerBoard.Render())
		assert.True(t, game.StartedAt.Equal(restored.StartedAt))
	})

	t.Run("Shot result is encoded as text", func(t *testing.T) {
		data, err := json.Marshal(Shot{Side: SideBot, X: 1, Y: 2, Result: Hit})

		require.NoError(t, err)
		assert.JSONEq(t, `{"side":"bot","x":1,"y":2,"result":"hit"}`, string(data))

		var shot Shot
		assert.Error(t, json.Unmarshal([]byte(`{"result":"sunk"}`), &shot))
	})
}

func TestGame_View(t *testing.T) {
	// Given: a game where the bot board is untouched
	game := newTestGame()
	game.Bot.Difficulty = Hard

	// When: the client view is built
	view := game.View()

	// Then: player ships are shown and bot ships are not
	assert.Equal(t, Hard.Name, view.Difficulty)
	assert.Equal(t, "▨     ", view.PlayerBoard.Rows[0])
	for _, row := range view.BotBoard.Rows {
		assert.Equal(t, "      ", row)
	}
	assert.Equal(t, 1, view.BotBoard.ShipsLeft)
}
