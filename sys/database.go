package sys

import (
	"context"
	"database/sql"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/mattn/go-sqlite3"
)

// --- Phase 2: Database Connection & Lifecycle ---

var DB *sql.DB

// dsnParams apply to every pooled connection, unlike PRAGMA statements which
// only reach the connection that happens to run them.
var dsnParams = url.Values{
	"_txlock":       {"immediate"},
	"_busy_timeout": {"5000"},
	"_foreign_keys": {"on"},
	"_journal_mode": {"WAL"},
	"_synchronous":  {"NORMAL"},
}

func InitDatabase(ctx context.Context, path string) error {
	db, err := OpenDatabase(ctx, path)
	if err != nil {
		return err
	}
	DB = db
	LogDatabase(MsgDatabaseInitSuccess)
	return nil
}

// OpenDatabase opens the SQLite file at path and brings its schema up to date.
func OpenDatabase(ctx context.Context, path string) (*sql.DB, error) {
	// Explicitly reference sqlite3 driver to avoid blank identifier
	// The driver registers itself via its init() function
	_ = sqlite3.SQLiteDriver{}

	db, err := sql.Open("sqlite3", "file:"+path+"?"+dsnParams.Encode())
	if err != nil {
		return nil, err
	}

	db.SetMaxOpenConns(5)

	initCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if err := migrate(initCtx, db); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

func migrate(ctx context.Context, db *sql.DB) error {
	pragmas := []string{
		"PRAGMA cache_size=-2000;",
	}
	for _, p := range pragmas {
		if _, err := db.ExecContext(ctx, p); err != nil {
			return fmt.Errorf(MsgDatabasePragmaError, p, err)
		}
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	tableQueries := []string{
		`CREATE TABLE IF NOT EXISTS bot_config (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL,
			updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE TABLE IF NOT EXISTS guild_configs (
			guild_id TEXT PRIMARY KEY,
			updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE TABLE IF NOT EXISTS questions (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			text TEXT NOT NULL,
			author_id TEXT,
			used INTEGER NOT NULL DEFAULT 0,
			display_order INTEGER NOT NULL DEFAULT 0,
			upvotes INTEGER NOT NULL DEFAULT 0 CHECK (upvotes >= 0),
			downvotes INTEGER NOT NULL DEFAULT 0 CHECK (downvotes >= 0),
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE INDEX IF NOT EXISTS idx_questions_used ON questions (used)`,
		`CREATE INDEX IF NOT EXISTS idx_questions_display_order ON questions (display_order)`,
		`CREATE TABLE IF NOT EXISTS daily_selection_log (
			day TEXT PRIMARY KEY,
			question_id INTEGER NOT NULL,
			posted_at DATETIME NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS suggestion_queue (
			id TEXT PRIMARY KEY,
			guild_id TEXT NOT NULL DEFAULT '',
			submitter_id TEXT NOT NULL,
			text TEXT NOT NULL,
			channel_id TEXT,
			message_id TEXT UNIQUE,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE TABLE IF NOT EXISTS question_votes (
			question_id INTEGER NOT NULL REFERENCES questions (id) ON DELETE CASCADE,
			voter_id TEXT NOT NULL,
			vote_type TEXT NOT NULL CHECK (vote_type IN ('up', 'down')),
			updated_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			PRIMARY KEY (question_id, voter_id)
		)`,
	}

	for _, q := range tableQueries {
		if _, err := tx.ExecContext(ctx, q); err != nil {
			return fmt.Errorf(MsgDatabaseTableError, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return err
	}

	migrations := []string{
		"ALTER TABLE guild_configs ADD COLUMN qotd_enabled INTEGER NOT NULL DEFAULT 0",
		"ALTER TABLE guild_configs ADD COLUMN qotd_channel_id TEXT",
		"ALTER TABLE guild_configs ADD COLUMN qotd_review_channel_id TEXT",
		"ALTER TABLE guild_configs ADD COLUMN qotd_last_question_id INTEGER",
		"ALTER TABLE guild_configs ADD COLUMN qotd_last_posted_at DATETIME",
	}

	for _, m := range migrations {
		if _, err := db.ExecContext(ctx, m); err != nil {
			if !strings.Contains(err.Error(), "duplicate column") {
				return fmt.Errorf(MsgDatabaseMigrateFail, err)
			}
		}
	}
	return nil
}

func CloseDatabase() {
	if DB != nil {
		DB.Close()
	}
}

// --- Phase 3: Infrastructure & Bot Persistence ---

// BotConfig helpers are used by the loader for mode tracking and state.
func GetBotConfig(ctx context.Context, key string) (string, error) {
	var value string
	err := DB.QueryRowContext(ctx, "SELECT value FROM bot_config WHERE key = ?", key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", nil
	}
	return value, err
}

func SetBotConfig(ctx context.Context, key, value string) error {
	_, err := DB.ExecContext(ctx, `
		INSERT INTO bot_config (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = CURRENT_TIMESTAMP
	`, key, value)
	return err
}
