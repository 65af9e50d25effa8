package rest

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/rocketscienceinc/seabattle-backend/internal/entity"
	"github.com/rocketscienceinc/seabattle-backend/internal/usecase"
)

const shutdownTimeout = 5 * time.Second

type gameManager interface {
	GetOrCreatePlayer(ctx context.Context, id, name string) (*entity.Player, error)
	UpdateName(ctx context.Context, playerID, name string) (*entity.Player, error)
	UpdateSettings(ctx context.Context, playerID string, settings entity.Settings) (*entity.Player, error)
	ResetScores(ctx context.Context, playerID string) (*entity.Player, error)

	StartGame(ctx context.Context, playerID string) (*entity.Game, error)
	GetGame(ctx context.Context, playerID string) (*entity.Game, error)
	MakeTurn(ctx context.Context, playerID string, x, y int) (*usecase.TurnReport, error)

	GetBotRecord(ctx context.Context, difficulty string) (*entity.BotRecord, error)
	History(ctx context.Context, playerID string) ([]*entity.RoundRecord, error)
}

type Server struct {
	logger  *slog.Logger
	manager gameManager
}

func New(logger *slog.Logger, manager gameManager) *Server {
	return &Server{
		logger:  logger.With("component", "rest"),
		manager: manager,
	}
}

// Routes registers every endpoint on a fresh mux.
func (that *Server) Routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /ping", that.ping)

	mux.HandleFunc("POST /players", that.createPlayer)
	mux.HandleFunc("GET /players/{id}", that.getPlayer)
	mux.HandleFunc("PUT /players/{id}/name", that.updateName)
	mux.HandleFunc("PUT /players/{id}/settings", that.updateSettings)
	mux.HandleFunc("DELETE /players/{id}/scores", that.resetScores)
	mux.HandleFunc("GET /players/{id}/history", that.history)

	mux.HandleFunc("POST /players/{id}/game", that.startGame)
	mux.HandleFunc("GET /players/{id}/game", that.getGame)
	mux.HandleFunc("POST /players/{id}/game/turn", that.makeTurn)

	mux.HandleFunc("GET /bots/{difficulty}", that.botRecord)

	return mux
}

// Start serves until the context is canceled.
func (that *Server) Start(ctx context.Context, port string) error {
	srv := &http.Server{
		Addr:         ":" + port,
		Handler:      that.Routes(),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  30 * time.Second,
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
