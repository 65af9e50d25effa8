package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/rocketscienceinc/seabattle-backend/internal/entity"
)

type RoundRepository interface {
	Save(ctx context.Context, round *entity.RoundRecord) error
	FindByPlayer(ctx context.Context, playerID string) ([]*entity.RoundRecord, error)
}

type roundRepository struct {
	conn *sql.DB
}

func NewRoundRepository(conn *sql.DB) RoundRepository {
	return &roundRepository{
		conn: conn,
	}
}

func (that *roundRepository) Save(ctx context.Context, round *entity.RoundRecord) error {
	query := `INSERT INTO rounds (game_id, player_id, difficulty, winner, turns, started_at, ended_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`

	_, err := that.conn.ExecContext(ctx, query,
		round.GameID, round.PlayerID, round.Difficulty, round.Winner, round.Turns, round.StartedAt, round.EndedAt)
	if err != nil {
		return fmt.Errorf("can't save round: %w", err)
	}

	return nil
}

func (that *roundRepository) FindByPlayer(ctx context.Context, playerID string) ([]*entity.RoundRecord, error) {
	query := `SELECT game_id, player_id, difficulty, winner, turns, started_at, ended_at
		FROM rounds WHERE player_id = ? ORDER BY ended_at`

	rows, err := that.conn.QueryContext(ctx, query, playerID)
	if err != nil {
		return nil, fmt.Errorf("can't find rounds: %w", err)
	}
	defer rows.Close()

	var rounds []*entity.RoundRecord
	for rows.Next() {
		var round entity.RoundRecord
		if err = rows.Scan(&round.GameID, &round.PlayerID, &round.Difficulty, &round.Winner,
			&round.Turns, &round.StartedAt, &round.EndedAt); err != nil {
			return nil, fmt.Errorf("can't scan round: %w", err)
		}
		rounds = append(rounds, &round)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("can't read rounds: %w", err)
	}

	return rounds, nil
}
