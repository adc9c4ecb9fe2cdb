// Package testutil provides the in-memory database the test suites run the
// real repositories against. The schema mirrors the Postgres one with SQLite
// types; the repositories only use SQL that both backends accept.
package testutil

import (
	"database/sql"
	"testing"

	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE users (
	id              TEXT PRIMARY KEY,
	username        TEXT NOT NULL UNIQUE,
	email           TEXT NOT NULL UNIQUE,
	hashed_password TEXT NOT NULL,
	address         TEXT NOT NULL UNIQUE,
	created_at      INTEGER NOT NULL
);

CREATE TABLE contests (
	id                         INTEGER PRIMARY KEY AUTOINCREMENT,
	slug                       TEXT NOT NULL UNIQUE,
	title                      TEXT NOT NULL,
	host                       TEXT NOT NULL,
	track_uri                  TEXT NOT NULL,
	prize_amount               INTEGER NOT NULL,
	active                     BOOLEAN NOT NULL DEFAULT 1,
	allow_multiple_submissions BOOLEAN NOT NULL DEFAULT 1,
	host_can_submit            BOOLEAN NOT NULL DEFAULT 0,
	separate_payout_address    BOOLEAN NOT NULL DEFAULT 1,
	winning_submission_id      INTEGER,
	created_at                 INTEGER NOT NULL,
	ended_at                   INTEGER
);

CREATE TABLE submissions (
	id         INTEGER PRIMARY KEY AUTOINCREMENT,
	contest_id INTEGER NOT NULL REFERENCES contests(id),
	submitter  TEXT NOT NULL,
	remix_uri  TEXT NOT NULL,
	payout     TEXT NOT NULL,
	vote_count INTEGER NOT NULL DEFAULT 0,
	created_at INTEGER NOT NULL
);

CREATE TABLE votes (
	contest_id    INTEGER NOT NULL REFERENCES contests(id),
	voter         TEXT NOT NULL,
	submission_id INTEGER NOT NULL REFERENCES submissions(id),
	created_at    INTEGER NOT NULL,
	PRIMARY KEY (contest_id, voter)
);

CREATE TABLE contest_events (
	seq        INTEGER PRIMARY KEY AUTOINCREMENT,
	contest_id INTEGER NOT NULL,
	type       TEXT NOT NULL,
	payload    TEXT NOT NULL,
	created_at INTEGER NOT NULL
);

CREATE TABLE token_accounts (
	address TEXT PRIMARY KEY,
	balance INTEGER NOT NULL DEFAULT 0
);

CREATE TABLE token_allowances (
	owner   TEXT NOT NULL,
	spender TEXT NOT NULL,
	amount  INTEGER NOT NULL DEFAULT 0,
	PRIMARY KEY (owner, spender)
);
`

// OpenTestDB opens a fresh in-memory SQLite database with the full schema.
// A single connection keeps the in-memory database alive and serializes
// access the way the production pool does per transaction.
func OpenTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		t.Fatalf("Failed to create test schema: %v", err)
	}

	t.Cleanup(func() { db.Close() })
	return db
}
