package repository

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rocketscienceinc/seabattle-backend/internal/entity"
	"github.com/rocketscienceinc/seabattle-backend/testing/suite"
)

func TestBotRepository(t *testing.T) {
	t.Run("Empty record for an unplayed tier", func(t *testing.T) {
		ctx, st := suite.New(t)

		botRepo := NewBotRepository(st.Storage)

		// When: the record of a tier nobody played is requested
		record, err := botRepo.GetByDifficulty(ctx, entity.Unreal.Name)

		// Then: it is empty
		require.NoError(t, err)
		assert.Equal(t, &entity.BotRecord{Difficulty: entity.Unreal.Name}, record)
	})

	t.Run("Results are accumulated per tier", func(t *testing.T) {
		ctx, st := suite.New(t)

		botRepo := NewBotRepository(st.Storage)

		// Given: two wins and a loss on hard, one loss on easy
		require.NoError(t, botRepo.RecordResult(ctx, entity.Hard.Name, true))
		require.NoError(t, botRepo.RecordResult(ctx, entity.Hard.Name, true))
		require.NoError(t, botRepo.RecordResult(ctx, entity.Hard.Name, false))
		require.NoError(t, botRepo.RecordResult(ctx, entity.Easy.Name, false))

		// When: the records are read back
		hard, err := botRepo.GetByDifficulty(ctx, entity.Hard.Name)
		require.NoError(t, err)
		easy, err := botRepo.GetByDifficulty(ctx, entity.Easy.Name)
		require.NoError(t, err)

		// Then: every tier has its own counters
		assert.Equal(t, &entity.BotRecord{Difficulty: entity.Hard.Name, Wins: 2, Losses: 1}, hard)
		assert.Equal(t, &entity.BotRecord{Difficulty: entity.Easy.Name, Wins: 0, Losses: 1}, easy)
	})
}
