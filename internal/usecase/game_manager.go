package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/rocketscienceinc/seabattle-backend/internal/apperror"
	"github.com/rocketscienceinc/seabattle-backend/internal/entity"
	"github.com/rocketscienceinc/seabattle-backend/internal/service"
)

var ErrEmptyName = errors.New("player name is empty")

type playerRepo interface {
	CreateOrUpdate(ctx context.Context, player *entity.Player) error
	GetByID(ctx context.Context, id string) (*entity.Player, error)
	GetByName(ctx context.Context, name string) (*entity.Player, error)
}

type gameRepo interface {
	CreateOrUpdate(ctx context.Context, game *entity.Game) error
	GetByID(ctx context.Context, id string) (*entity.Game, error)
	DeleteByID(ctx context.Context, id string) error
}

type botRepo interface {
	RecordResult(ctx context.Context, difficulty string, win bool) error
	GetByDifficulty(ctx context.Context, difficulty string) (*entity.BotRecord, error)
}

type roundRepo interface {
	Save(ctx context.Context, round *entity.RoundRecord) error
	FindByPlayer(ctx context.Context, playerID string) ([]*entity.RoundRecord, error)
}

// Defaults configure new players and board generation.
type Defaults struct {
	Settings         entity.Settings
	MaxShipSize      int
	MaxRegenerations int
}

// TurnReport is the result of one player request: the player's shots followed by the bot's answer.
type TurnReport struct {
	Game  *entity.Game  `json:"game"`
	Shots []entity.Shot `json:"shots"`
}

type GameManager struct {
	logger *slog.Logger

	playerRepo playerRepo
	gameRepo   gameRepo
	botRepo    botRepo
	roundRepo  roundRepo

	defaults Defaults
	newRand  func() *rand.Rand

	locksMu sync.Mutex
	locks   map[string]*playerLock
}

// playerLock is dropped from the map once no request holds or waits for it.
type playerLock struct {
	mu   sync.Mutex
	refs int
}

func NewGameManager(logger *slog.Logger, playerRepo playerRepo, gameRepo gameRepo, botRepo botRepo, roundRepo roundRepo, defaults Defaults) *GameManager {
	return &GameManager{
		logger: logger,

		playerRepo: playerRepo,
		gameRepo:   gameRepo,
		botRepo:    botRepo,
		roundRepo:  roundRepo,

		defaults: defaults,
		newRand: func() *rand.Rand {
			return rand.New(rand.NewSource(time.Now().UnixNano())) //nolint: gosec // it's ok
		},

		locks: make(map[string]*playerLock),
	}
}

// lock serializes requests of one player, games are strictly turn based.
func (that *GameManager) lock(playerID string) func() {
	that.locksMu.Lock()
	pl, ok := that.locks[playerID]
	if !ok {
		pl = &playerLock{}
		that.locks[playerID] = pl
	}
	pl.refs++
	that.locksMu.Unlock()

	pl.mu.Lock()

	return func() {
		pl.mu.Unlock()

		that.locksMu.Lock()
		pl.refs--
		if pl.refs == 0 {
			delete(that.locks, playerID)
		}
		that.locksMu.Unlock()
	}
}

// GetOrCreatePlayer loads a player by id, or by name when no id is given. An unknown name starts a new profile.
func (that *GameManager) GetOrCreatePlayer(ctx context.Context, id, name string) (*entity.Player, error) {
	if id != "" {
		player, err := that.getPlayerByID(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("failed to get player by id %w", err)
		}

		return player, nil
	}

	if name == "" {
		return nil, ErrEmptyName
	}

	if err := entity.ValidateName(name); err != nil {
		return nil, err
	}

	player, err := that.playerRepo.GetByName(ctx, name)
	if err == nil {
		return player, nil
	}

	if !errors.Is(err, apperror.ErrPlayerNotFound) {
		return nil, fmt.Errorf("failed to get player by name: %w", err)
	}

	player = entity.NewPlayer(uuid.New().String(), name, that.defaults.Settings)
	if err = that.updatePlayer(ctx, player); err != nil {
		return nil, fmt.Errorf("failed to create player: %w", err)
	}

	return player, nil
}

func (that *GameManager) UpdateSettings(ctx context.Context, playerID string, settings entity.Settings) (*entity.Player, error) {
	if err := settings.Validate(); err != nil {
		return nil, err
	}

	defer that.lock(playerID)()

	player, err := that.getPlayerByID(ctx, playerID)
	if err != nil {
		return nil, err
	}

	player.Settings = settings
	if err = that.updatePlayer(ctx, player); err != nil {
		return nil, err
	}

	return player, nil
}

// UpdateName renames the player. A name owned by another player is refused.
func (that *GameManager) UpdateName(ctx context.Context, playerID, name string) (*entity.Player, error) {
	if err := entity.ValidateName(name); err != nil {
		return nil, err
	}

	defer that.lock(playerID)()

	player, err := that.getPlayerByID(ctx, playerID)
	if err != nil {
		return nil, err
	}

	if player.Name == name {
		return player, nil
	}

	owner, err := that.playerRepo.GetByName(ctx, name)
	switch {
	case err == nil && owner.ID != player.ID:
		return nil, fmt.Errorf("%w: %s", apperror.ErrNameTaken, name)
	case err != nil && !errors.Is(err, apperror.ErrPlayerNotFound):
		return nil, fmt.Errorf("failed to check player name: %w", err)
	}

	player.Name = name
	if err = that.updatePlayer(ctx, player); err != nil {
		return nil, err
	}

	return player, nil
}

func (that *GameManager) ResetScores(ctx context.Context, playerID string) (*entity.Player, error) {
	defer that.lock(playerID)()

	player, err := that.getPlayerByID(ctx, playerID)
	if err != nil {
		return nil, err
	}

	player.ResetScores()
	if err = that.updatePlayer(ctx, player); err != nil {
		return nil, err
	}

	return player, nil
}

// StartGame returns the active game of the player or deals a new one from the player's settings.
func (that *GameManager) StartGame(ctx context.Context, playerID string) (*entity.Game, error) {
	log := that.logger.With("method", "StartGame", "playerID", playerID)

	defer that.lock(playerID)()

	player, err := that.getPlayerByID(ctx, playerID)
	if err != nil {
		return nil, err
	}

	if player.GameID != "" {
		game, err := that.getGameByID(ctx, player.GameID)
		if err == nil {
			return game, nil
		}
		log.Warn("dropping lost game reference", "gameID", player.GameID, "error", err)
	}

	difficulty, err := entity.ParseDifficulty(player.Settings.Difficulty)
	if err != nil {
		return nil, fmt.Errorf("failed to start game: %w", err)
	}

	rnd := that.newRand()

	playerBoard, err := that.newBoard(player.Settings, false, rnd)
	if err != nil {
		return nil, fmt.Errorf("failed to generate player board: %w", err)
	}

	botBoard, err := that.newBoard(player.Settings, true, rnd)
	if err != nil {
		return nil, fmt.Errorf("failed to generate bot board: %w", err)
	}

	bot := service.NewBot(difficulty, rnd)
	bot.AssignOpponentBoard(playerBoard)

	game := entity.NewGame(uuid.New().String(), player.ID, playerBoard, botBoard)
	game.Bot = bot.State()

	if err = that.updateGame(ctx, game); err != nil {
		return nil, err
	}

	player.GameID = game.ID
	if err = that.updatePlayer(ctx, player); err != nil {
		return nil, err
	}

	log.Info("game started", "gameID", game.ID, "difficulty", difficulty.Name, "ships", len(botBoard.Ships()))

	return game, nil
}

func (that *GameManager) newBoard(settings entity.Settings, hidden bool, rnd *rand.Rand) (*entity.Board, error) {
	opts := []entity.Option{entity.WithRand(rnd), entity.WithMaxShipSize(that.defaults.MaxShipSize)}
	if that.defaults.MaxRegenerations > 0 {
		opts = append(opts, entity.WithMaxRegenerations(that.defaults.MaxRegenerations))
	}

	return entity.NewBoard(settings.Width, settings.Height, hidden, opts...)
}

func (that *GameManager) GetGame(ctx context.Context, playerID string) (*entity.Game, error) {
	player, err := that.getPlayerByID(ctx, playerID)
	if err != nil {
		return nil, err
	}

	if player.GameID == "" {
		return nil, apperror.ErrNoActiveGames
	}

	return that.getGameByID(ctx, player.GameID)
}

// MakeTurn fires the player's shot and, once the turn passes, lets the bot shoot until it misses or wins.
func (that *GameManager) MakeTurn(ctx context.Context, playerID string, x, y int) (*TurnReport, error) {
	log := that.logger.With("method", "MakeTurn", "playerID", playerID)

	defer that.lock(playerID)()

	player, err := that.getPlayerByID(ctx, playerID)
	if err != nil {
		return nil, err
	}

	if player.GameID == "" {
		return nil, apperror.ErrNoActiveGames
	}

	game, err := that.getGameByID(ctx, player.GameID)
	if err != nil {
		return nil, err
	}

	shot, err := game.MakeTurn(entity.SidePlayer, x, y)
	if err != nil {
		return nil, fmt.Errorf("failed to make turn: %w", err)
	}

	report := &TurnReport{Game: game, Shots: []entity.Shot{shot}}

	if game.IsOngoing() && game.Turn == entity.SideBot {
		botShots, err := that.playBot(game)
		report.Shots = append(report.Shots, botShots...)
		if err != nil {
			return nil, err
		}
	}

	if game.IsFinished() {
		log.Info("game finished", "gameID", game.ID, "winner", game.Winner, "turns", game.Turns)
		that.finishGame(ctx, player, game)

		return report, nil
	}

	if err = that.updateGame(ctx, game); err != nil {
		return nil, err
	}

	return report, nil
}

func (that *GameManager) playBot(game *entity.Game) ([]entity.Shot, error) {
	bot := service.ResumeBot(game.Bot, game.PlayerBoard, that.newRand())

	var shots []entity.Shot
	for game.IsOngoing() && game.Turn == entity.SideBot {
		shot, err := bot.ChooseMove()
		if err != nil {
			return shots, fmt.Errorf("bot failed to make turn: %w", err)
		}

		game.ApplyShot(shot)
		shots = append(shots, shot)
	}

	game.Bot = bot.State()

	return shots, nil
}

// finishGame settles scores and archives the round. Storage errors are logged, the result stands.
func (that *GameManager) finishGame(ctx context.Context, player *entity.Player, game *entity.Game) {
	log := that.logger.With("method", "finishGame", "gameID", game.ID)

	difficulty := game.Bot.Difficulty.Name
	playerWon := game.Winner == entity.SidePlayer

	player.UpdateScores(difficulty, playerWon)
	player.GameID = ""
	if err := that.updatePlayer(ctx, player); err != nil {
		log.Error("failed to update player", "error", err)
	}

	if err := that.botRepo.RecordResult(ctx, difficulty, !playerWon); err != nil {
		log.Error("failed to record bot result", "error", err)
	}

	round := &entity.RoundRecord{
		GameID:     game.ID,
		PlayerID:   player.ID,
		Difficulty: difficulty,
		Winner:     game.Winner,
		Turns:      game.Turns,
		StartedAt:  game.StartedAt,
		EndedAt:    time.Now().UTC(),
	}
	if err := that.roundRepo.Save(ctx, round); err != nil {
		log.Error("failed to archive round", "error", err)
	}

	if err := that.gameRepo.DeleteByID(ctx, game.ID); err != nil {
		log.Error("failed to delete game", "error", err)
	}
}

func (that *GameManager) GetBotRecord(ctx context.Context, difficulty string) (*entity.BotRecord, error) {
	if _, err := entity.ParseDifficulty(difficulty); err != nil {
		return nil, err
	}

	record, err := that.botRepo.GetByDifficulty(ctx, difficulty)
	if err != nil {
		return nil, fmt.Errorf("failed to get bot record: %w", err)
	}

	return record, nil
}

func (that *GameManager) History(ctx context.Context, playerID string) ([]*entity.RoundRecord, error) {
	rounds, err := that.roundRepo.FindByPlayer(ctx, playerID)
	if err != nil {
		return nil, fmt.Errorf("failed to get history: %w", err)
	}

	return rounds, nil
}

func (that *GameManager) getGameByID(ctx context.Context, id string) (*entity.Game, error) {
	game, err := that.gameRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get game: %w", err)
	}

	return game, nil
}

func (that *GameManager) updateGame(ctx context.Context, game *entity.Game) error {
	if err := that.gameRepo.CreateOrUpdate(ctx, game); err != nil {
		return fmt.Errorf("failed to update game: %w", err)
	}

	return nil
}

func (that *GameManager) getPlayerByID(ctx context.Context, id string) (*entity.Player, error) {
	player, err := that.playerRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get player: %w", err)
	}

	return player, nil
}

func (that *GameManager) updatePlayer(ctx context.Context, player *entity.Player) error {
	if err := that.playerRepo.CreateOrUpdate(ctx, player); err != nil {
		return fmt.Errorf("failed to update player: %w", err)
	}

	return nil
}
