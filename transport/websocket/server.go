package websocket

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/rocketscienceinc/seabattle-backend/internal/entity"
	"github.com/rocketscienceinc/seabattle-backend/internal/usecase"
)

const (
	pongWait        = 60 * time.Second
	pingPeriod      = pongWait * 9 / 10
	writeWait       = 10 * time.Second
	maxMessageSize  = 4096
	shutdownTimeout = 5 * time.Second
)

type gameManager interface {
	GetOrCreatePlayer(ctx context.Context, id, name string) (*entity.Player, error)
	UpdateName(ctx context.Context, playerID, name string) (*entity.Player, error)
	UpdateSettings(ctx context.Context, playerID string, settings entity.Settings) (*entity.Player, error)

	StartGame(ctx context.Context, playerID string) (*entity.Game, error)
	GetGame(ctx context.Context, playerID string) (*entity.Game, error)
	MakeTurn(ctx context.Context, playerID string, x, y int) (*usecase.TurnReport, error)
}

type handler func(ctx context.Context, msg *Message, conn *connection) error

type Server struct {
	logger   *slog.Logger
	manager  gameManager
	upgrader websocket.Upgrader

	handlers map[string]handler
}

func New(logger *slog.Logger, manager gameManager) *Server {
	server := &Server{
		logger:  logger.With("component", "websocket"),
		manager: manager,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(_ *http.Request) bool { return true },
		},

		handlers: make(map[string]handler),
	}

	server.handlers[actionConnect] = server.handleConnect
	server.handlers[actionPlayerRename] = server.handleRename
	server.handlers[actionSettingsUpdate] = server.handleSettingsUpdate
	server.handlers[actionGameNew] = server.handleNewGame
	server.handlers[actionGameGet] = server.handleGetGame
	server.handlers[actionGameTurn] = server.handleGameTurn

	return server
}

// Start - starts WebSocket server.
func (that *Server) Start(ctx context.Context, port string) error {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
		that.ServeWS(ctx, w, r)
	})

	srv := &http.Server{
		Addr:        ":" + port,
		Handler:     mux,
		ReadTimeout: 10 * time.Second,
		IdleTimeout: 30 * time.Second,
	}

	go func() {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			that.logger.Error("failed to shutdown server", "error", err)
		}
	}()

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("failed to start server: %w", err)
	}

	return nil
}

// ServeWS upgrades the request and serves the connection until the client leaves.
func (that *Server) ServeWS(ctx context.Context, w http.ResponseWriter, r *http.Request) {
	log := that.logger.With("method", "ServeWS")

	ws, err := that.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Error("failed to upgrade connection", "error", err)
		return
	}
	defer ws.Close()

	log.Info("WebSocket connection established", "remote", r.RemoteAddr)

	connCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	conn := &connection{conn: ws}
	go that.keepAlive(connCtx, conn)

	if err = that.handleMessages(connCtx, conn); err != nil {
		log.Info("connection closed", "error", err)
	}
}

// keepAlive pings the client so dead connections time out on read.
func (that *Server) keepAlive(ctx context.Context, conn *connection) {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			conn.mu.Lock()
			err := conn.conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait))
			conn.mu.Unlock()

			if err != nil {
				return
			}
		}
	}
}

// handleMessages - processes messages from the client.
func (that *Server) handleMessages(ctx context.Context, conn *connection) error {
	log := that.logger.With("method", "handleMessages")

	conn.conn.SetReadLimit(maxMessageSize)
	if err := conn.conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
		return fmt.Errorf("failed to set read deadline: %w", err)
	}
	conn.conn.SetPongHandler(func(string) error {
		return conn.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, data, err := conn.conn.ReadMessage()
		if err != nil {
			return fmt.Errorf("failed to read message: %w", err)
		}

		var message Message
		if err = json.Unmarshal(data, &message); err != nil {
			log.Warn("failed to unmarshal message", "error", err)
			if err = that.sendErrorResponse(conn, actionError, "invalid message"); err != nil {
				return err
			}
			continue
		}

		handle, ok := that.handlers[message.Action]
		if !ok {
			log.Warn("unknown action", "action", message.Action)
			if err = that.sendErrorResponse(conn, message.Action, "unknown action"); err != nil {
				return err
			}
			continue
		}

		if err = handle(ctx, &message, conn); err != nil {
			log.Error("error processing message", "action", message.Action, "error", err)
		}
	}
}

func (that *Server) sendErrorResponse(conn *connection, action, errorMsg string) error {
	if err := conn.send(action, Payload{Error: errorMsg}); err != nil {
		return fmt.Errorf("failed to send error response: %w", err)
	}

	return nil
}
