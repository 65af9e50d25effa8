package websocket

import (
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/rocketscienceinc/seabattle-backend/internal/entity"
)

const (
	actionConnect        = "connect"
	actionPlayerRename   = "player:rename"
	actionSettingsUpdate = "settings:update"
	actionGameNew        = "game:new"
	actionGameGet        = "game:get"
	actionGameTurn       = "game:turn"
	actionError          = "error"
)

// Message represents a WebSocket message with an action type and a payload.
type Message struct {
	Action  string          `json:"action"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

type Payload struct {
	Player   *entity.Player   `json:"player,omitempty"`
	Name     string           `json:"name,omitempty"`
	Settings *entity.Settings `json:"settings,omitempty"`
	Cell     *entity.Coord    `json:"cell,omitempty"`
	Game     *entity.GameView `json:"game,omitempty"`
	Shots    []entity.Shot    `json:"shots,omitempty"`
	Error    string           `json:"error,omitempty"`
}

// connection serializes writes, gorilla allows one concurrent writer only.
type connection struct {
	conn *websocket.Conn
	mu   sync.Mutex
}

func (that *connection) send(action string, payload Payload) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal payload: %w", err)
	}

	that.mu.Lock()
	defer that.mu.Unlock()

	if err = that.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		return fmt.Errorf("failed to set write deadline: %w", err)
	}

	if err = that.conn.WriteJSON(Message{Action: action, Payload: data}); err != nil {
		return fmt.Errorf("failed to write message: %w", err)
	}

	return nil
}
