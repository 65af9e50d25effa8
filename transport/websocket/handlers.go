package websocket

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/rocketscienceinc/seabattle-backend/internal/apperror"
	"github.com/rocketscienceinc/seabattle-backend/internal/entity"
	"github.com/rocketscienceinc/seabattle-backend/internal/usecase"
)

func decodePayload(msg *Message) (*Payload, error) {
	var payload Payload

	if len(msg.Payload) == 0 {
		return &payload, nil
	}

	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		return nil, fmt.Errorf("failed to unmarshal payload: %w", err)
	}

	return &payload, nil
}

func (that *Server) handleConnect(ctx context.Context, msg *Message, conn *connection) error {
	log := that.logger.With("method", "handleConnect")

	payloadReq, err := decodePayload(msg)
	if err != nil {
		return that.sendErrorResponse(conn, msg.Action, "invalid payload")
	}

	var id string
	if payloadReq.Player != nil {
		id = payloadReq.Player.ID
	}

	player, err := that.manager.GetOrCreatePlayer(ctx, id, payloadReq.Name)
	if errors.Is(err, usecase.ErrEmptyName) || errors.Is(err, entity.ErrInvalidName) {
		return that.sendErrorResponse(conn, msg.Action, err.Error())
	}

	if err != nil {
		log.Error("failed to create or get player", "error", err)
		return that.sendErrorResponse(conn, msg.Action, "failed to get the player")
	}

	payloadResp := Payload{Player: player}

	if player.GameID != "" {
		game, err := that.manager.GetGame(ctx, player.ID)
		if err != nil {
			log.Warn("failed to get active game", "gameID", player.GameID, "error", err)
		} else {
			view := game.View()
			payloadResp.Game = &view
		}
	}

	if err = conn.send(msg.Action, payloadResp); err != nil {
		return fmt.Errorf("failed to send response: %w", err)
	}

	log.Info("successfully connected player", "playerID", player.ID)

	return nil
}

func (that *Server) handleRename(ctx context.Context, msg *Message, conn *connection) error {
	log := that.logger.With("method", "handleRename")

	payloadReq, err := decodePayload(msg)
	if err != nil || payloadReq.Player == nil {
		return that.sendErrorResponse(conn, msg.Action, "Player and name are required")
	}

	player, err := that.manager.UpdateName(ctx, payloadReq.Player.ID, payloadReq.Name)
	switch {
	case errors.Is(err, entity.ErrInvalidName), errors.Is(err, apperror.ErrNameTaken):
		return that.sendErrorResponse(conn, msg.Action, err.Error())
	case err != nil:
		log.Error("failed to rename player", "error", err)
		return that.sendErrorResponse(conn, msg.Action, "failed to rename player")
	}

	return conn.send(msg.Action, Payload{Player: player})
}

func (that *Server) handleSettingsUpdate(ctx context.Context, msg *Message, conn *connection) error {
	log := that.logger.With("method", "handleSettingsUpdate")

	payloadReq, err := decodePayload(msg)
	if err != nil || payloadReq.Player == nil || payloadReq.Settings == nil {
		return that.sendErrorResponse(conn, msg.Action, "Player and settings are required")
	}

	player, err := that.manager.UpdateSettings(ctx, payloadReq.Player.ID, *payloadReq.Settings)
	if errors.Is(err, entity.ErrInvalidSettings) {
		return that.sendErrorResponse(conn, msg.Action, err.Error())
	}

	if err != nil {
		log.Error("failed to update settings", "error", err)
		return that.sendErrorResponse(conn, msg.Action, "failed to update settings")
	}

	return conn.send(msg.Action, Payload{Player: player})
}

func (that *Server) handleNewGame(ctx context.Context, msg *Message, conn *connection) error {
	log := that.logger.With("method", "handleNewGame")

	payloadReq, err := decodePayload(msg)
	if err != nil || payloadReq.Player == nil {
		return that.sendErrorResponse(conn, msg.Action, "Player is required")
	}

	game, err := that.manager.StartGame(ctx, payloadReq.Player.ID)
	if err != nil {
		log.Error("failed to start game", "playerID", payloadReq.Player.ID, "error", err)
		return that.sendErrorResponse(conn, msg.Action, "failed to start a new game")
	}

	view := game.View()

	return conn.send(msg.Action, Payload{Game: &view})
}

func (that *Server) handleGetGame(ctx context.Context, msg *Message, conn *connection) error {
	payloadReq, err := decodePayload(msg)
	if err != nil || payloadReq.Player == nil {
		return that.sendErrorResponse(conn, msg.Action, "Player is required")
	}

	game, err := that.manager.GetGame(ctx, payloadReq.Player.ID)
	if err != nil {
		return that.sendErrorResponse(conn, msg.Action, err.Error())
	}

	view := game.View()

	return conn.send(msg.Action, Payload{Game: &view})
}

func (that *Server) handleGameTurn(ctx context.Context, msg *Message, conn *connection) error {
	log := that.logger.With("method", "handleGameTurn")

	payloadReq, err := decodePayload(msg)
	if err != nil || payloadReq.Player == nil || payloadReq.Cell == nil {
		return that.sendErrorResponse(conn, msg.Action, "Player and cell are required")
	}

	log = log.With("playerID", payloadReq.Player.ID)

	report, err := that.manager.MakeTurn(ctx, payloadReq.Player.ID, payloadReq.Cell.X, payloadReq.Cell.Y)
	switch {
	case errors.Is(err, apperror.ErrAlreadyOpened),
		errors.Is(err, apperror.ErrOutOfBounds),
		errors.Is(err, apperror.ErrNotYourTurn),
		errors.Is(err, apperror.ErrGameFinished),
		errors.Is(err, apperror.ErrNoActiveGames):
		return that.sendErrorResponse(conn, msg.Action, err.Error())
	case err != nil:
		log.Error("failed to make turn", "error", err)
		return that.sendErrorResponse(conn, msg.Action, "failed to make turn")
	}

	view := report.Game.View()

	if err = conn.send(msg.Action, Payload{Game: &view, Shots: report.Shots}); err != nil {
		return fmt.Errorf("failed to send game update: %w", err)
	}

	if report.Game.IsFinished() {
		log.Info("Game finished", "gameID", report.Game.ID, "winner", report.Game.Winner)
	}

	return nil
}
