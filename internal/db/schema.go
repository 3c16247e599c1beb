package db

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

const SchemaSQL = `
CREATE TABLE IF NOT EXISTS participants (
    id TEXT PRIMARY KEY,
    name TEXT,
    updated_at TEXT
);

CREATE TABLE IF NOT EXISTS narratives (
    participant_id TEXT NOT NULL,
    kind TEXT NOT NULL,
    body TEXT,
    updated_at TEXT,
    PRIMARY KEY (participant_id, kind)
);

CREATE TABLE IF NOT EXISTS scores (
    participant_id TEXT NOT NULL,
    label TEXT NOT NULL,
    value TEXT,
    PRIMARY KEY (participant_id, label)
);

CREATE TABLE IF NOT EXISTS performance (
    participant_id TEXT NOT NULL,
    label TEXT NOT NULL,
    value REAL,
    PRIMARY KEY (participant_id, label)
);
`

func Open(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// sqlite serialises writers; one connection avoids SQLITE_BUSY under the batch pool.
	db.SetMaxOpenConns(1)
	if _, err := db.Exec(SchemaSQL); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}
	return db, nil
}
