package sys

import (
	"context"
	"path/filepath"
	"testing"
)

func TestOpenDatabaseIsIdempotent(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "bot.db")

	db, err := OpenDatabase(ctx, path)
	if err != nil {
		t.Fatalf("first open: %v", err)
	}
	db.Close()

	db, err = OpenDatabase(ctx, path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer db.Close()

	for _, table := range []string{"bot_config", "guild_configs", "questions", "daily_selection_log", "suggestion_queue", "question_votes"} {
		var name string
		err := db.QueryRowContext(ctx, `SELECT name FROM sqlite_master WHERE type = 'table' AND name = ?`, table).Scan(&name)
		if err != nil {
			t.Errorf("table %s missing: %v", table, err)
		}
	}

	var fk int
	if err := db.QueryRowContext(ctx, `PRAGMA foreign_keys`).Scan(&fk); err != nil || fk != 1 {
		t.Errorf("foreign_keys = %d, %v", fk, err)
	}
}

func TestBotConfigRoundTrip(t *testing.T) {
	ctx := context.Background()
	db, err := OpenDatabase(ctx, filepath.Join(t.TempDir(), "bot.db"))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	saved := DB
	DB = db
	t.Cleanup(func() {
		DB = saved
		db.Close()
	})

	if v, err := GetBotConfig(ctx, "missing"); err != nil || v != "" {
		t.Fatalf("missing key = %q, %v", v, err)
	}
	if err := SetBotConfig(ctx, "last_cmd_hash", "abc"); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := SetBotConfig(ctx, "last_cmd_hash", "def"); err != nil {
		t.Fatalf("overwrite: %v", err)
	}
	if v, _ := GetBotConfig(ctx, "last_cmd_hash"); v != "def" {
		t.Fatalf("value = %q, want def", v)
	}
}
