package usecase

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/rocketscienceinc/seabattle-backend/internal/entity"
)

type mockPlayerRepo struct {
	mock.Mock
}

func (that *mockPlayerRepo) CreateOrUpdate(ctx context.Context, player *entity.Player) error {
	return that.Called(ctx, player).Error(0)
}

func (that *mockPlayerRepo) GetByID(ctx context.Context, id string) (*entity.Player, error) {
	args := that.Called(ctx, id)
	player, _ := args.Get(0).(*entity.Player)
	return player, args.Error(1)
}

func (that *mockPlayerRepo) GetByName(ctx context.Context, name string) (*entity.Player, error) {
	args := that.Called(ctx, name)
	player, _ := args.Get(0).(*entity.Player)
	return player, args.Error(1)
}

type mockGameRepo struct {
	mock.Mock
}

func (that *mockGameRepo) CreateOrUpdate(ctx context.Context, game *entity.Game) error {
	return that.Called(ctx, game).Error(0)
}

func (that *mockGameRepo) GetByID(ctx context.Context, id string) (*entity.Game, error) {
	args := that.Called(ctx, id)
	game, _ := args.Get(0).(*entity.Game)
	return game, args.Error(1)
}

func (that *mockGameRepo) DeleteByID(ctx context.Context, id string) error {
	return that.Called(ctx, id).Error(0)
}

type mockBotRepo struct {
	mock.Mock
}

func (that *mockBotRepo) RecordResult(ctx context.Context, difficulty string, win bool) error {
	return that.Called(ctx, difficulty, win).Error(0)
}

func (that *mockBotRepo) GetByDifficulty(ctx context.Context, difficulty string) (*entity.BotRecord, error) {
	args := that.Called(ctx, difficulty)
	record, _ := args.Get(0).(*entity.BotRecord)
	return record, args.Error(1)
}

type mockRoundRepo struct {
	mock.Mock
}

func (that *mockRoundRepo) Save(ctx context.Context, round *entity.RoundRecord) error {
	return that.Called(ctx, round).Error(0)
}

func (that *mockRoundRepo) FindByPlayer(ctx context.Context, playerID string) ([]*entity.RoundRecord, error) {
	args := that.Called(ctx, playerID)
	rounds, _ := args.Get(0).([]*entity.RoundRecord)
	return rounds, args.Error(1)
}
