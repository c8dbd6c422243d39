// Package store opens the entity store: SQLite running fully in memory.
// The database is created empty on every boot and dies with the process.
package store

import (
	"context"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"
)

// DefaultDSN keeps everything in process memory.
const DefaultDSN = ":memory:"

// Open connects, pins the pool to a single connection and creates the
// schema. The single connection is what serializes every mutating
// transaction into one critical section; with an in-memory DSN it is also
// what keeps all sessions on the same database.
func Open(ctx context.Context, dsn string) (*sqlx.DB, error) {
	db, err := sqlx.ConnectContext(ctx, "sqlite", dsn)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, err
	}

	return db, nil
}

// AUTOINCREMENT ids are monotonic and never reused, so deleting a rejected
// user cannot make a later registration collide with old references.
// Foreign keys are declarative only; SQLite leaves them unenforced by
// default and rejection must be able to delete any user row.
const schema = `
CREATE TABLE IF NOT EXISTS users (
    id          INTEGER PRIMARY KEY AUTOINCREMENT,
    name        TEXT NOT NULL,
    email       TEXT NOT NULL UNIQUE,
    password    TEXT NOT NULL,
    is_admin    BOOLEAN NOT NULL DEFAULT 0,
    is_approved BOOLEAN NOT NULL DEFAULT 0,
    created_at  TIMESTAMP NOT NULL
);

CREATE TABLE IF NOT EXISTS bikes (
    id             INTEGER PRIMARY KEY AUTOINCREMENT,
    owner_id       INTEGER NOT NULL REFERENCES users(id),
    name           TEXT NOT NULL,
    total_distance REAL NOT NULL DEFAULT 0,
    created_at     TIMESTAMP NOT NULL
);

CREATE TABLE IF NOT EXISTS part_templates (
    id                    INTEGER PRIMARY KEY AUTOINCREMENT,
    name                  TEXT NOT NULL,
    maintenance_threshold REAL NOT NULL CHECK (maintenance_threshold > 0),
    created_at            TIMESTAMP NOT NULL
);

CREATE TABLE IF NOT EXISTS part_instances (
    id                    INTEGER PRIMARY KEY AUTOINCREMENT,
    owner_id              INTEGER NOT NULL REFERENCES users(id),
    bike_id               INTEGER NOT NULL REFERENCES bikes(id),
    template_id           INTEGER NOT NULL REFERENCES part_templates(id),
    name                  TEXT NOT NULL,
    bike_name             TEXT NOT NULL,
    owner_name            TEXT NOT NULL,
    maintenance_threshold REAL NOT NULL CHECK (maintenance_threshold > 0),
    accrued_distance      REAL NOT NULL DEFAULT 0,
    created_at            TIMESTAMP NOT NULL
);

CREATE TABLE IF NOT EXISTS rides (
    id         INTEGER PRIMARY KEY AUTOINCREMENT,
    user_id    INTEGER NOT NULL REFERENCES users(id),
    bike_id    INTEGER NOT NULL REFERENCES bikes(id),
    distance   REAL NOT NULL CHECK (distance > 0),
    ride_date  TIMESTAMP NOT NULL,
    created_at TIMESTAMP NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_bikes_owner ON bikes(owner_id);
CREATE INDEX IF NOT EXISTS idx_part_instances_owner ON part_instances(owner_id);
CREATE INDEX IF NOT EXISTS idx_part_instances_bike ON part_instances(bike_id);
CREATE INDEX IF NOT EXISTS idx_rides_bike ON rides(bike_id);
CREATE INDEX IF NOT EXISTS idx_rides_user ON rides(user_id);
`
