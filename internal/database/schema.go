package database

import (
	"context"
	"fmt"
)

// schema is idempotent and applied on every start.
const schema = `
CREATE TABLE IF NOT EXISTS rooms (
	code           TEXT PRIMARY KEY,
	status         TEXT NOT NULL DEFAULT 'active',
	last_action_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS room_actions (
	id           BIGSERIAL PRIMARY KEY,
	room_code    TEXT NOT NULL,
	action_index INTEGER NOT NULL,
	actor_id     TEXT,
	action_type  TEXT NOT NULL,
	message      TEXT NOT NULL,
	created_at   TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS room_actions_room_idx ON room_actions (room_code, created_at);

CREATE TABLE IF NOT EXISTS room_results (
	id          UUID PRIMARY KEY,
	room_code   TEXT NOT NULL,
	winner_id   TEXT,
	winner_name TEXT,
	finished_at TIMESTAMPTZ NOT NULL
);

CREATE TABLE IF NOT EXISTS room_standings (
	result_id  UUID NOT NULL REFERENCES room_results (id) ON DELETE CASCADE,
	seat       INTEGER NOT NULL,
	player_id  TEXT NOT NULL,
	name       TEXT NOT NULL,
	balance    BIGINT NOT NULL,
	bankrupt   BOOLEAN NOT NULL,
	is_bot     BOOLEAN NOT NULL,
	PRIMARY KEY (result_id, seat)
);
`

// Migrate creates the tables the server and the historian write to.
func Migrate(ctx context.Context, db Execer) error {
	if _, err := db.Exec(ctx, schema); err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}
	return nil
}
