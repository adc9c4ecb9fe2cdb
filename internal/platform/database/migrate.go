package database

import (
	"database/sql"
	"fmt"
	"log"
)

// Timestamps are stored as unix seconds (BIGINT) everywhere so the fact log
// payloads are byte-for-byte reproducible from a row scan.
const schema = `
CREATE TABLE IF NOT EXISTS users (
	id              TEXT PRIMARY KEY,
	username        TEXT NOT NULL UNIQUE,
	email           TEXT NOT NULL UNIQUE,
	hashed_password TEXT NOT NULL,
	address         TEXT NOT NULL UNIQUE,
	created_at      BIGINT NOT NULL
);

CREATE TABLE IF NOT EXISTS contests (
	id                         BIGSERIAL PRIMARY KEY,
	slug                       TEXT NOT NULL UNIQUE,
	title                      TEXT NOT NULL,
	host                       TEXT NOT NULL,
	track_uri                  TEXT NOT NULL,
	prize_amount               BIGINT NOT NULL,
	active                     BOOLEAN NOT NULL DEFAULT TRUE,
	allow_multiple_submissions BOOLEAN NOT NULL DEFAULT TRUE,
	host_can_submit            BOOLEAN NOT NULL DEFAULT FALSE,
	separate_payout_address    BOOLEAN NOT NULL DEFAULT TRUE,
	winning_submission_id      BIGINT,
	created_at                 BIGINT NOT NULL,
	ended_at                   BIGINT
);

CREATE INDEX IF NOT EXISTS idx_contests_active ON contests(active);
CREATE INDEX IF NOT EXISTS idx_contests_host ON contests(host);

CREATE TABLE IF NOT EXISTS submissions (
	id         BIGSERIAL PRIMARY KEY,
	contest_id BIGINT NOT NULL REFERENCES contests(id),
	submitter  TEXT NOT NULL,
	remix_uri  TEXT NOT NULL,
	payout     TEXT NOT NULL,
	vote_count BIGINT NOT NULL DEFAULT 0,
	created_at BIGINT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_submissions_contest ON submissions(contest_id);

CREATE TABLE IF NOT EXISTS votes (
	contest_id    BIGINT NOT NULL REFERENCES contests(id),
	voter         TEXT NOT NULL,
	submission_id BIGINT NOT NULL REFERENCES submissions(id),
	created_at    BIGINT NOT NULL,
	PRIMARY KEY (contest_id, voter)
);

CREATE INDEX IF NOT EXISTS idx_votes_submission ON votes(submission_id);

CREATE TABLE IF NOT EXISTS contest_events (
	seq        BIGSERIAL PRIMARY KEY,
	contest_id BIGINT NOT NULL,
	type       TEXT NOT NULL,
	payload    TEXT NOT NULL,
	created_at BIGINT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_contest_events_contest ON contest_events(contest_id, seq);

CREATE TABLE IF NOT EXISTS token_accounts (
	address TEXT PRIMARY KEY,
	balance BIGINT NOT NULL DEFAULT 0
);

CREATE TABLE IF NOT EXISTS token_allowances (
	owner   TEXT NOT NULL,
	spender TEXT NOT NULL,
	amount  BIGINT NOT NULL DEFAULT 0,
	PRIMARY KEY (owner, spender)
);
`

// Migrate applies the schema. Statements are idempotent so this runs on every
// startup.
func Migrate(db *sql.DB) {
	if _, err := db.Exec(schema); err != nil {
		log.Fatalf("Error migrating database schema: %v", err)
	}
	fmt.Println("Database schema up to date.")
}
