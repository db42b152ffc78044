package repository

import "errors"

// ErrNotFound is returned when a lookup matches no row.
var ErrNotFound = errors.New("not found")

// Schema holds the idempotent DDL for every table the repositories use.
var Schema = []string{
	`CREATE TABLE IF NOT EXISTS scoring_types (
		code     TEXT PRIMARY KEY,
		name     TEXT NOT NULL,
		weight_a REAL NOT NULL DEFAULT 0,
		weight_b REAL NOT NULL DEFAULT 0,
		weight_c REAL NOT NULL DEFAULT 0
	)`,
	`CREATE TABLE IF NOT EXISTS evaluation_questions (
		id           TEXT PRIMARY KEY,
		scoring_type TEXT NOT NULL REFERENCES scoring_types(code),
		section      TEXT NOT NULL CHECK (section IN ('A', 'B', 'C')),
		text         TEXT NOT NULL,
		type         TEXT NOT NULL CHECK (type IN ('rating', 'dropdown', 'text')),
		sort_order   INTEGER NOT NULL DEFAULT 0,
		active       INTEGER NOT NULL DEFAULT 1
	)`,
	`CREATE INDEX IF NOT EXISTS idx_questions_type ON evaluation_questions (scoring_type, section, sort_order)`,
	`CREATE TABLE IF NOT EXISTS question_options (
		question_id TEXT NOT NULL REFERENCES evaluation_questions(id) ON DELETE CASCADE,
		option_id   TEXT NOT NULL,
		label       TEXT NOT NULL,
		sort_order  INTEGER NOT NULL DEFAULT 0,
		PRIMARY KEY (question_id, option_id)
	)`,
	`CREATE TABLE IF NOT EXISTS evaluations (
		id              TEXT PRIMARY KEY,
		order_id        TEXT NOT NULL,
		supplier_id     TEXT NOT NULL,
		supplier_name   TEXT NOT NULL,
		evaluation_date DATETIME NOT NULL,
		consulting_area TEXT NOT NULL DEFAULT '',
		evaluating_unit TEXT NOT NULL DEFAULT '',
		scoring_type    TEXT NOT NULL,
		score_a         INTEGER,
		score_b         INTEGER,
		score_c         INTEGER,
		overall_score   INTEGER,
		weighted_score  INTEGER,
		weights_applied INTEGER NOT NULL DEFAULT 0,
		created_at      DATETIME NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_evaluations_supplier ON evaluations (supplier_id, evaluation_date)`,
	`CREATE TABLE IF NOT EXISTS evaluation_answers (
		evaluation_id TEXT NOT NULL REFERENCES evaluations(id) ON DELETE CASCADE,
		question_id   TEXT NOT NULL,
		section       TEXT NOT NULL,
		value         TEXT NOT NULL,
		comment       TEXT NOT NULL DEFAULT '',
		PRIMARY KEY (evaluation_id, question_id)
	)`,
	`CREATE TABLE IF NOT EXISTS drafts (
		key        TEXT PRIMARY KEY,
		payload    BLOB NOT NULL,
		updated_at DATETIME NOT NULL,
		expires_at DATETIME
	)`,
	`CREATE TABLE IF NOT EXISTS rate_snapshots (
		id         INTEGER PRIMARY KEY AUTOINCREMENT,
		reference  TEXT NOT NULL,
		rates      TEXT NOT NULL,
		fetched_at DATETIME NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_rate_snapshots_ref ON rate_snapshots (reference, fetched_at)`,
}
