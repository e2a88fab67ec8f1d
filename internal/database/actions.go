// internal/database/actions.go
package database

import (
	"context"
	"fmt"
	"time"

	"github.com/NGoodma/expat/internal/cache"
	"github.com/jackc/pgx/v5"
)

// InsertActions stores a batch of narrative action records and bumps the
// activity stamp of every room they belong to.
func InsertActions(ctx context.Context, db TxBeginner, records []cache.RoomActionRecord) error {
	if len(records) == 0 {
		return nil
	}
	err := beginTxFunc(ctx, db, pgx.TxOptions{}, func(tx pgx.Tx) error {
		for _, rec := range records {
			if err := insertActionTx(ctx, tx, rec); err != nil {
				return fmt.Errorf("insertActionTx: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("insert %d actions: %w", len(records), err)
	}
	return nil
}

func insertActionTx(ctx context.Context, tx pgx.Tx, rec cache.RoomActionRecord) error {
	at := time.UnixMilli(rec.Timestamp)

	upsertRoom := `
		INSERT INTO rooms (code, status, last_action_at)
		VALUES ($1, 'active', $2)
		ON CONFLICT (code) DO UPDATE SET status = 'active', last_action_at = $2
	`
	if _, err := tx.Exec(ctx, upsertRoom, rec.RoomCode, at); err != nil {
		return err
	}

	insert := `
		INSERT INTO room_actions (room_code, action_index, actor_id, action_type, message, created_at)
		VALUES ($1, $2, NULLIF($3, ''), $4, $5, $6)
	`
	if _, err := tx.Exec(ctx, insert, rec.RoomCode, rec.ActionIndex, rec.ActorID, rec.ActionType, rec.Message, at); err != nil {
		return err
	}

	if rec.ActionType == "game_end" {
		finish := `UPDATE rooms SET status = 'finished' WHERE code = $1`
		if _, err := tx.Exec(ctx, finish, rec.RoomCode); err != nil {
			return err
		}
	}
	return nil
}

// MarkRoomAbandoned flags a room that stopped producing actions while active.
// It reports whether a row changed.
func MarkRoomAbandoned(ctx context.Context, db Execer, code string) (bool, error) {
	q := `
		UPDATE rooms
		SET status = 'abandoned'
		WHERE code = $1 AND status = 'active'
	`
	tag, err := db.Exec(ctx, q, code)
	if err != nil {
		return false, fmt.Errorf("mark room %s abandoned: %w", code, err)
	}
	return tag.RowsAffected() > 0, nil
}
