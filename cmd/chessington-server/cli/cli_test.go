package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"chessington/internal/storage"
)

func runOK(t *testing.T, args ...string) string {
	t.Helper()
	var out bytes.Buffer
	if err := run(&out, args); err != nil {
		t.Fatalf("run %v: %v", args, err)
	}
	return out.String()
}

func TestDatabaseLifecycle(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cli.db")

	if out := runOK(t, "init", "-path", path); !strings.Contains(out, "Database initialized") {
		t.Errorf("init output = %q", out)
	}
	if out := runOK(t, "query", "-path", path); !strings.Contains(out, "No games found") {
		t.Errorf("empty query output = %q", out)
	}

	store, err := storage.NewStore(path, false)
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	now := time.Now().UTC()
	store.RecordNewGame(storage.GameRecord{
		GameID:          "game-1",
		InitialPosition: "8/8/8/8/8/8/4P3/8 w",
		BoardSize:       8,
		StartTimeUTC:    now,
	})
	store.RecordMove(storage.MoveRecord{
		GameID:        "game-1",
		MoveNumber:    1,
		FromSquare:    "e2",
		ToSquare:      "e4",
		Piece:         "pawn",
		PositionAfter: "8/8/8/8/4P3/8/8/8 b",
		PlayerColor:   "w",
		MoveTimeUTC:   now,
	})
	if err := store.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	out := runOK(t, "query", "-path", path, "-gameId", "game-1")
	if !strings.Contains(out, "game-1") || !strings.Contains(out, "(anonymous)") || !strings.Contains(out, "Found 1 game(s)") {
		t.Errorf("query output = %q", out)
	}
	out = runOK(t, "moves", "-path", path, "-gameId", "game-1")
	if !strings.Contains(out, "e2e4") || !strings.Contains(out, "pawn") {
		t.Errorf("moves output = %q", out)
	}

	if out := runOK(t, "delete", "-path", path); !strings.Contains(out, "Database deleted") {
		t.Errorf("delete output = %q", out)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Errorf("database file still present: %v", err)
	}
}

func TestUserCommands(t *testing.T) {
	path := filepath.Join(t.TempDir(), "users.db")
	runOK(t, "init", "-path", path)

	out := runOK(t, "user", "add", "-path", path, "-username", "Alice", "-email", "a@example.com", "-password", "password-one")
	if !strings.Contains(out, "Username: alice") {
		t.Errorf("add output = %q", out)
	}

	var buf bytes.Buffer
	if err := run(&buf, []string{"user", "add", "-path", path, "-username", "alice", "-password", "password-two"}); err == nil {
		t.Error("duplicate username accepted")
	}
	if err := run(&buf, []string{"user", "add", "-path", path, "-username", "bob", "-password", "short"}); err == nil {
		t.Error("short password accepted")
	}

	out = runOK(t, "user", "list", "-path", path)
	if !strings.Contains(out, "alice") || !strings.Contains(out, "never") || !strings.Contains(out, "Total users: 1") {
		t.Errorf("list output = %q", out)
	}

	runOK(t, "user", "set-password", "-path", path, "-username", "alice", "-password", "password-three")

	if err := run(&buf, []string{"user", "delete", "-path", path, "-username", "alice", "-id", "x"}); err == nil {
		t.Error("delete with both selectors accepted")
	}
	runOK(t, "user", "delete", "-path", path, "-username", "alice")
	if out := runOK(t, "user", "list", "-path", path); !strings.Contains(out, "No users found") {
		t.Errorf("list after delete = %q", out)
	}
}

func TestUsageErrors(t *testing.T) {
	var buf bytes.Buffer
	for _, args := range [][]string{
		nil,
		{"bogus"},
		{"user"},
		{"user", "bogus"},
		{"init"},
		{"moves", "-path", "x.db"},
	} {
		if err := run(&buf, args); err == nil {
			t.Errorf("run %v: expected error", args)
		}
	}
}
