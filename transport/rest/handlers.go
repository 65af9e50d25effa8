package rest

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rocketscienceinc/seabattle-backend/internal/apperror"
	"github.com/rocketscienceinc/seabattle-backend/internal/entity"
	"github.com/rocketscienceinc/seabattle-backend/internal/repository"
	"github.com/rocketscienceinc/seabattle-backend/internal/usecase"
)

type nameRequest struct {
	Name string `json:"name"`
}

type turnRequest struct {
	X *int `json:"x"`
	Y *int `json:"y"`
}

type turnResponse struct {
	Game  entity.GameView `json:"game"`
	Shots []entity.Shot   `json:"shots"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (that *Server) createPlayer(w http.ResponseWriter, r *http.Request) {
	var req nameRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		that.writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	player, err := that.manager.GetOrCreatePlayer(r.Context(), "", req.Name)
	if err != nil {
		that.writeError(w, "createPlayer", err)
		return
	}

	that.writeJSON(w, http.StatusCreated, player)
}

func (that *Server) getPlayer(w http.ResponseWriter, r *http.Request) {
	player, err := that.manager.GetOrCreatePlayer(r.Context(), r.PathValue("id"), "")
	if err != nil {
		that.writeError(w, "getPlayer", err)
		return
	}

	that.writeJSON(w, http.StatusOK, player)
}

func (that *Server) updateName(w http.ResponseWriter, r *http.Request) {
	var req nameRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		that.writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	player, err := that.manager.UpdateName(r.Context(), r.PathValue("id"), req.Name)
	if err != nil {
		that.writeError(w, "updateName", err)
		return
	}

	that.writeJSON(w, http.StatusOK, player)
}

func (that *Server) updateSettings(w http.ResponseWriter, r *http.Request) {
	var settings entity.Settings
	if err := json.NewDecoder(r.Body).Decode(&settings); err != nil {
		that.writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	player, err := that.manager.UpdateSettings(r.Context(), r.PathValue("id"), settings)
	if err != nil {
		that.writeError(w, "updateSettings", err)
		return
	}

	that.writeJSON(w, http.StatusOK, player)
}

func (that *Server) resetScores(w http.ResponseWriter, r *http.Request) {
	player, err := that.manager.ResetScores(r.Context(), r.PathValue("id"))
	if err != nil {
		that.writeError(w, "resetScores", err)
		return
	}

	that.writeJSON(w, http.StatusOK, player)
}

func (that *Server) history(w http.ResponseWriter, r *http.Request) {
	rounds, err := that.manager.History(r.Context(), r.PathValue("id"))
	if err != nil {
		that.writeError(w, "history", err)
		return
	}

	if rounds == nil {
		rounds = []*entity.RoundRecord{}
	}

	that.writeJSON(w, http.StatusOK, rounds)
}

func (that *Server) startGame(w http.ResponseWriter, r *http.Request) {
	game, err := that.manager.StartGame(r.Context(), r.PathValue("id"))
	if err != nil {
		that.writeError(w, "startGame", err)
		return
	}

	that.writeJSON(w, http.StatusOK, game.View())
}

func (that *Server) getGame(w http.ResponseWriter, r *http.Request) {
	game, err := that.manager.GetGame(r.Context(), r.PathValue("id"))
	if err != nil {
		that.writeError(w, "getGame", err)
		return
	}

	that.writeJSON(w, http.StatusOK, game.View())
}

func (that *Server) makeTurn(w http.ResponseWriter, r *http.Request) {
	var req turnRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.X == nil || req.Y == nil {
		that.writeJSON(w, http.StatusBadRequest, errorResponse{Error: "x and y are required"})
		return
	}

	report, err := that.manager.MakeTurn(r.Context(), r.PathValue("id"), *req.X, *req.Y)
	if err != nil {
		that.writeError(w, "makeTurn", err)
		return
	}

	that.writeJSON(w, http.StatusOK, turnResponse{Game: report.Game.View(), Shots: report.Shots})
}

func (that *Server) botRecord(w http.ResponseWriter, r *http.Request) {
	record, err := that.manager.GetBotRecord(r.Context(), r.PathValue("difficulty"))
	if err != nil {
		that.writeError(w, "botRecord", err)
		return
	}

	that.writeJSON(w, http.StatusOK, record)
}

// writeError maps domain errors to status codes. Anything unknown is logged and hidden.
func (that *Server) writeError(w http.ResponseWriter, method string, err error) {
	status := statusOf(err)
	if status == http.StatusInternalServerError {
		that.logger.Error("request failed", "method", method, "error", err)
		that.writeJSON(w, status, errorResponse{Error: "Internal Server Error"})
		return
	}

	that.writeJSON(w, status, errorResponse{Error: err.Error()})
}

func statusOf(err error) int {
	switch {
	case errors.Is(err, apperror.ErrPlayerNotFound),
		errors.Is(err, repository.ErrGameNotFound),
		errors.Is(err, apperror.ErrNoActiveGames):
		return http.StatusNotFound
	case errors.Is(err, usecase.ErrEmptyName),
		errors.Is(err, entity.ErrInvalidName),
		errors.Is(err, entity.ErrInvalidSettings),
		errors.Is(err, apperror.ErrUnknownDifficulty),
		errors.Is(err, apperror.ErrOutOfBounds):
		return http.StatusBadRequest
	case errors.Is(err, apperror.ErrAlreadyOpened),
		errors.Is(err, apperror.ErrNameTaken),
		errors.Is(err, apperror.ErrNotYourTurn),
		errors.Is(err, apperror.ErrGameFinished):
		return http.StatusConflict
	case errors.Is(err, apperror.ErrInvalidDimensions),
		errors.Is(err, apperror.ErrGenerationExhausted):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

func (that *Server) writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(body); err != nil {
		that.logger.Error("failed to write response", "error", err)
	}
}
