package store

import (
	"context"
	"database/sql"
	"fmt"
)

var postgresSchema = []string{
	`CREATE TABLE IF NOT EXISTS categories (
		id SERIAL PRIMARY KEY,
		type TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS questions (
		id SERIAL PRIMARY KEY,
		question TEXT NOT NULL,
		answer TEXT NOT NULL,
		category TEXT NOT NULL,
		difficulty INTEGER NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_questions_category ON questions (category)`,
}

// AUTOINCREMENT keeps SQLite from handing out the id of a deleted row again.
var sqliteSchema = []string{
	`CREATE TABLE IF NOT EXISTS categories (
		id INTEGER PRIMARY KEY,
		type TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS questions (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		question TEXT NOT NULL,
		answer TEXT NOT NULL,
		category TEXT NOT NULL,
		difficulty INTEGER NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_questions_category ON questions (category)`,
}

// EnsureSchema creates the tables when they are missing. It never alters an
// existing table.
func EnsureSchema(ctx context.Context, db *sql.DB, d Dialect) error {
	stmts := postgresSchema
	if d == SQLite {
		stmts = sqliteSchema
	}
	for _, stmt := range stmts {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("ensure schema: %w", err)
		}
	}
	return nil
}
