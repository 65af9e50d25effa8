package repository

import (
	"context"
	"fmt"
	"strconv"

	"github.com/redis/go-redis/v9"

	"github.com/rocketscienceinc/seabattle-backend/internal/entity"
)

const (
	fieldWins   = "wins"
	fieldLosses = "losses"
)

type BotRepository interface {
	RecordResult(ctx context.Context, difficulty string, win bool) error
	GetByDifficulty(ctx context.Context, difficulty string) (*entity.BotRecord, error)
}

type dbBot struct {
	client *redis.Client
}

func NewBotRepository(client *redis.Client) BotRepository {
	return &dbBot{
		client: client,
	}
}

// RecordResult increments the tier counters atomically, several rounds may finish at once.
func (that *dbBot) RecordResult(ctx context.Context, difficulty string, win bool) error {
	field := fieldLosses
	if win {
		field = fieldWins
	}

	if err := that.client.HIncrBy(ctx, "bot:"+difficulty, field, 1).Err(); err != nil {
		return fmt.Errorf("failed to record bot result: %w", err)
	}

	return nil
}

func (that *dbBot) GetByDifficulty(ctx context.Context, difficulty string) (*entity.BotRecord, error) {
	values, err := that.client.HGetAll(ctx, "bot:"+difficulty).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get bot record: %w", err)
	}

	record := &entity.BotRecord{Difficulty: difficulty}

	if record.Wins, err = parseCounter(values[fieldWins]); err != nil {
		return nil, err
	}

	if record.Losses, err = parseCounter(values[fieldLosses]); err != nil {
		return nil, err
	}

	return record, nil
}

func parseCounter(value string) (int, error) {
	if value == "" {
		return 0, nil
	}

	counter, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("failed to parse counter %q: %w", value, err)
	}

	return counter, nil
}
