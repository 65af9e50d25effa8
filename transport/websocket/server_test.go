package websocket

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"math/rand"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/rocketscienceinc/seabattle-backend/internal/apperror"
	"github.com/rocketscienceinc/seabattle-backend/internal/entity"
	"github.com/rocketscienceinc/seabattle-backend/internal/usecase"
)

type mockGameManager struct {
	mock.Mock
}

func (that *mockGameManager) GetOrCreatePlayer(ctx context.Context, id, name string) (*entity.Player, error) {
	args := that.Called(ctx, id, name)
	player, _ := args.Get(0).(*entity.Player)
	return player, args.Error(1)
}

func (that *mockGameManager) UpdateName(ctx context.Context, playerID, name string) (*entity.Player, error) {
	args := that.Called(ctx, playerID, name)
	player, _ := args.Get(0).(*entity.Player)
	return player, args.Error(1)
}

func (that *mockGameManager) UpdateSettings(ctx context.Context, playerID string, settings entity.Settings) (*entity.Player, error) {
	args := that.Called(ctx, playerID, settings)
	player, _ := args.Get(0).(*entity.Player)
	return player, args.Error(1)
}

func (that *mockGameManager) StartGame(ctx context.Context, playerID string) (*entity.Game, error) {
	args := that.Called(ctx, playerID)
	game, _ := args.Get(0).(*entity.Game)
	return game, args.Error(1)
}

func (that *mockGameManager) GetGame(ctx context.Context, playerID string) (*entity.Game, error) {
	args := that.Called(ctx, playerID)
	game, _ := args.Get(0).(*entity.Game)
	return game, args.Error(1)
}

func (that *mockGameManager) MakeTurn(ctx context.Context, playerID string, x, y int) (*usecase.TurnReport, error) {
	args := that.Called(ctx, playerID, x, y)
	report, _ := args.Get(0).(*usecase.TurnReport)
	return report, args.Error(1)
}

// dial starts the server behind httptest and connects a client to it.
func dial(t *testing.T) (*websocket.Conn, *mockGameManager) {
	t.Helper()

	manager := &mockGameManager{}
	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))
	server := New(logger, manager)

	httpServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		server.ServeWS(context.Background(), w, r)
	}))

	url := "ws" + strings.TrimPrefix(httpServer.URL, "http")
	client, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)

	t.Cleanup(func() {
		client.Close()
		httpServer.Close()
		manager.AssertExpectations(t)
	})

	return client, manager
}

// exchange sends one request and decodes the reply.
func exchange(t *testing.T, client *websocket.Conn, request string) (Message, Payload) {
	t.Helper()

	require.NoError(t, client.SetReadDeadline(time.Now().Add(5*time.Second)))
	require.NoError(t, client.WriteMessage(websocket.TextMessage, []byte(request)))

	var msg Message
	require.NoError(t, client.ReadJSON(&msg))

	var payload Payload
	if len(msg.Payload) > 0 {
		require.NoError(t, json.Unmarshal(msg.Payload, &payload))
	}

	return msg, payload
}

func newTestGame(t *testing.T) *entity.Game {
	t.Helper()

	rnd := rand.New(rand.NewSource(9))

	playerBoard, err := entity.NewBoard(10, 10, false, entity.WithRand(rnd))
	require.NoError(t, err)
	botBoard, err := entity.NewBoard(10, 10, true, entity.WithRand(rnd))
	require.NoError(t, err)

	return entity.NewGame("g1", "p1", playerBoard, botBoard)
}

func TestServer_Connect(t *testing.T) {
	t.Run("New player", func(t *testing.T) {
		client, manager := dial(t)

		player := entity.NewPlayer("p1", "captain", entity.Settings{Difficulty: entity.Easy.Name, Width: 10, Height: 10})
		manager.On("GetOrCreatePlayer", mock.Anything, "", "captain").Return(player, nil).Once()

		msg, payload := exchange(t, client, `{"action":"connect","payload":{"name":"captain"}}`)

		assert.Equal(t, actionConnect, msg.Action)
		require.NotNil(t, payload.Player)
		assert.Equal(t, "p1", payload.Player.ID)
		assert.Nil(t, payload.Game)
	})

	t.Run("Invalid name is explained", func(t *testing.T) {
		client, manager := dial(t)

		manager.On("GetOrCreatePlayer", mock.Anything, "", "a b").
			Return(nil, fmt.Errorf("%w: %q", entity.ErrInvalidName, "a b")).Once()

		_, payload := exchange(t, client, `{"action":"connect","payload":{"name":"a b"}}`)

		assert.Contains(t, payload.Error, entity.ErrInvalidName.Error())
	})

	t.Run("Returning player gets the active game", func(t *testing.T) {
		client, manager := dial(t)

		player := entity.NewPlayer("p1", "captain", entity.Settings{})
		player.GameID = "g1"
		manager.On("GetOrCreatePlayer", mock.Anything, "p1", "").Return(player, nil).Once()
		manager.On("GetGame", mock.Anything, "p1").Return(newTestGame(t), nil).Once()

		_, payload := exchange(t, client, `{"action":"connect","payload":{"player":{"id":"p1"}}}`)

		require.NotNil(t, payload.Game)
		assert.Equal(t, "g1", payload.Game.ID)
	})
}

func TestServer_Rename(t *testing.T) {
	t.Run("Renamed player is returned", func(t *testing.T) {
		client, manager := dial(t)

		player := entity.NewPlayer("p1", "admiral", entity.Settings{})
		manager.On("UpdateName", mock.Anything, "p1", "admiral").Return(player, nil).Once()

		msg, payload := exchange(t, client, `{"action":"player:rename","payload":{"player":{"id":"p1"},"name":"admiral"}}`)

		assert.Equal(t, actionPlayerRename, msg.Action)
		require.NotNil(t, payload.Player)
		assert.Equal(t, "admiral", payload.Player.Name)
	})

	t.Run("Taken name is reported to the client", func(t *testing.T) {
		client, manager := dial(t)

		manager.On("UpdateName", mock.Anything, "p1", "admiral").
			Return(nil, fmt.Errorf("%w: admiral", apperror.ErrNameTaken)).Once()

		_, payload := exchange(t, client, `{"action":"player:rename","payload":{"player":{"id":"p1"},"name":"admiral"}}`)

		assert.Contains(t, payload.Error, apperror.ErrNameTaken.Error())
	})
}

func TestServer_GameTurn(t *testing.T) {
	t.Run("Turn is answered with shots", func(t *testing.T) {
		client, manager := dial(t)

		report := &usecase.TurnReport{
			Game:  newTestGame(t),
			Shots: []entity.Shot{{Side: entity.SidePlayer, X: 4, Y: 5, Result: entity.Hit}},
		}
		manager.On("MakeTurn", mock.Anything, "p1", 4, 5).Return(report, nil).Once()

		msg, payload := exchange(t, client, `{"action":"game:turn","payload":{"player":{"id":"p1"},"cell":{"x":4,"y":5}}}`)

		assert.Equal(t, actionGameTurn, msg.Action)
		assert.Empty(t, payload.Error)
		assert.Equal(t, report.Shots, payload.Shots)
		require.NotNil(t, payload.Game)
		assert.Equal(t, entity.StatusOngoing, payload.Game.Status)
	})

	t.Run("Rule violation is reported to the client", func(t *testing.T) {
		client, manager := dial(t)

		manager.On("MakeTurn", mock.Anything, "p1", 0, 0).
			Return(nil, fmt.Errorf("failed to make turn: %w", apperror.ErrAlreadyOpened)).Once()

		_, payload := exchange(t, client, `{"action":"game:turn","payload":{"player":{"id":"p1"},"cell":{"x":0,"y":0}}}`)

		assert.Contains(t, payload.Error, apperror.ErrAlreadyOpened.Error())
	})

	t.Run("Missing cell", func(t *testing.T) {
		client, _ := dial(t)

		_, payload := exchange(t, client, `{"action":"game:turn","payload":{"player":{"id":"p1"}}}`)

		assert.NotEmpty(t, payload.Error)
	})
}

func TestServer_BadMessages(t *testing.T) {
	t.Run("Unknown action", func(t *testing.T) {
		client, _ := dial(t)

		msg, payload := exchange(t, client, `{"action":"game:leave"}`)

		assert.Equal(t, "game:leave", msg.Action)
		assert.Equal(t, "unknown action", payload.Error)
	})

	t.Run("Malformed JSON keeps the connection open", func(t *testing.T) {
		client, manager := dial(t)

		msg, payload := exchange(t, client, `{"action":`)
		assert.Equal(t, actionError, msg.Action)
		assert.Equal(t, "invalid message", payload.Error)

		manager.On("StartGame", mock.Anything, "p1").Return(newTestGame(t), nil).Once()

		msg, payload = exchange(t, client, `{"action":"game:new","payload":{"player":{"id":"p1"}}}`)
		assert.Equal(t, actionGameNew, msg.Action)
		require.NotNil(t, payload.Game)
	})
}
