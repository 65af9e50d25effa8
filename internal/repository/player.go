package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/rocketscienceinc/seabattle-backend/internal/apperror"
	"github.com/rocketscienceinc/seabattle-backend/internal/entity"
)

var ErrPlayerNotFound = apperror.ErrPlayerNotFound

// playerNamesKey is a hash of player name to player ID.
const playerNamesKey = "player:names"

type PlayerRepository interface {
	CreateOrUpdate(ctx context.Context, player *entity.Player) error
	GetByID(ctx context.Context, id string) (*entity.Player, error)
	GetByName(ctx context.Context, name string) (*entity.Player, error)
}

type dbPlayer struct {
	client *redis.Client
}

func NewPlayerRepository(client *redis.Client) PlayerRepository {
	return &dbPlayer{
		client: client,
	}
}

// CreateOrUpdate stores the profile and moves its name index entry when the name changed.
func (that *dbPlayer) CreateOrUpdate(ctx context.Context, player *entity.Player) error {
	playerJSON, err := json.Marshal(player)
	if err != nil {
		return fmt.Errorf("failed to marshal player: %w", err)
	}

	previous, err := that.GetByID(ctx, player.ID)
	if err != nil && !errors.Is(err, ErrPlayerNotFound) {
		return err
	}

	_, err = that.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, playerKey(player.ID), playerJSON, 0)
		if previous != nil && previous.Name != player.Name {
			pipe.HDel(ctx, playerNamesKey, previous.Name)
		}
		pipe.HSet(ctx, playerNamesKey, player.Name, player.ID)

		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to set player: %w", err)
	}

	return nil
}

func (that *dbPlayer) GetByID(ctx context.Context, id string) (*entity.Player, error) {
	response, err := that.client.Get(ctx, playerKey(id)).Result()
	if errors.Is(err, redis.Nil) {
		return nil, ErrPlayerNotFound
	}

	if err != nil {
		return nil, fmt.Errorf("failed to get player by ID: %w", err)
	}

	var existingPlayer entity.Player
	if err = json.Unmarshal([]byte(response), &existingPlayer); err != nil {
		return nil, fmt.Errorf("failed to unmarshal player: %w", err)
	}

	return &existingPlayer, nil
}

func (that *dbPlayer) GetByName(ctx context.Context, name string) (*entity.Player, error) {
	id, err := that.client.HGet(ctx, playerNamesKey, name).Result()
	if errors.Is(err, redis.Nil) {
		return nil, ErrPlayerNotFound
	}

	if err != nil {
		return nil, fmt.Errorf("failed to get player by name: %w", err)
	}

	return that.GetByID(ctx, id)
}

func playerKey(id string) string {
	return "player:" + id
}
