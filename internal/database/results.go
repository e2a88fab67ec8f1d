// internal/database/results.go
package database

import (
	"context"
	"fmt"

	"github.com/NGoodma/expat/internal/game"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// RecordRoomResult persists the outcome of a finished room and marks the room
// row finished, in one transaction. It returns the id of the stored result.
func RecordRoomResult(ctx context.Context, db TxBeginner, res game.Result) (uuid.UUID, error) {
	id := uuid.New()
	err := beginTxFunc(ctx, db, pgx.TxOptions{}, func(tx pgx.Tx) error {
		insertResult := `
			INSERT INTO room_results (id, room_code, winner_id, winner_name, finished_at)
			VALUES ($1, $2, NULLIF($3, ''), NULLIF($4, ''), $5)
		`
		if _, err := tx.Exec(ctx, insertResult, id, res.Code, res.WinnerID, res.WinnerName, res.FinishedAt); err != nil {
			return err
		}

		for seat, s := range res.Standings {
			q := `
				INSERT INTO room_standings (result_id, seat, player_id, name, balance, bankrupt, is_bot)
				VALUES ($1, $2, $3, $4, $5, $6, $7)
			`
			if _, err := tx.Exec(ctx, q, id, seat, s.PlayerID, s.Name, s.Balance, s.Bankrupt, s.IsBot); err != nil {
				return err
			}
		}

		finishRoom := `
			INSERT INTO rooms (code, status, last_action_at)
			VALUES ($1, 'finished', $2)
			ON CONFLICT (code) DO UPDATE SET status = 'finished', last_action_at = $2
		`
		_, err := tx.Exec(ctx, finishRoom, res.Code, res.FinishedAt)
		return err
	})
	if err != nil {
		return uuid.Nil, fmt.Errorf("tx insert room result %s: %w", res.Code, err)
	}
	return id, nil
}
