package storage

import (
	"errors"
	"path/filepath"
	"testing"
	"time"
)

func openStore(t *testing.T, path string) *Store {
	t.Helper()
	s, err := NewStore(path, false)
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	if err := s.InitDB(); err != nil {
		t.Fatalf("InitDB: %v", err)
	}
	return s
}

func TestGameAndMoveRecords(t *testing.T) {
	path := filepath.Join(t.TempDir(), "chessington.db")
	s := openStore(t, path)

	now := time.Now().UTC()
	s.RecordNewGame(GameRecord{
		GameID:          "g1",
		OwnerID:         "u1",
		InitialPosition: "8/8/8/8/8/8/4P3/8 w",
		BoardSize:       8,
		StartTimeUTC:    now,
	})
	s.RecordNewGame(GameRecord{GameID: "g2", InitialPosition: "P w", BoardSize: 1, StartTimeUTC: now})

	for i, m := range []struct{ from, to string }{{"e2", "e4"}, {"e7", "e5"}, {"g1", "f3"}} {
		s.RecordMove(MoveRecord{
			GameID:        "g1",
			MoveNumber:    i + 1,
			FromSquare:    m.from,
			ToSquare:      m.to,
			Piece:         "pawn",
			PositionAfter: "x",
			PlayerColor:   []string{"w", "b"}[i%2],
			MoveTimeUTC:   now,
		})
	}
	s.DeleteUndoneMoves("g1", 2)

	// Close drains the async queue
	if err := s.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("second Close: %v", err)
	}

	s = openStore(t, path)
	defer s.Close()

	games, err := s.QueryGames("*", "u1")
	if err != nil {
		t.Fatalf("QueryGames: %v", err)
	}
	if len(games) != 1 || games[0].GameID != "g1" || games[0].BoardSize != 8 {
		t.Fatalf("games = %+v", games)
	}

	all, err := s.QueryGames("", "")
	if err != nil || len(all) != 2 {
		t.Fatalf("all games = %d, %v", len(all), err)
	}

	moves, err := s.QueryMoves("g1")
	if err != nil {
		t.Fatalf("QueryMoves: %v", err)
	}
	if len(moves) != 2 || moves[0].FromSquare != "e2" || moves[1].PlayerColor != "b" {
		t.Fatalf("moves = %+v", moves)
	}

	if !s.IsHealthy() {
		t.Error("store should be healthy")
	}
}

func TestDeleteGame(t *testing.T) {
	path := filepath.Join(t.TempDir(), "chessington.db")
	s := openStore(t, path)

	s.RecordNewGame(GameRecord{GameID: "g1", InitialPosition: "P w", BoardSize: 1, StartTimeUTC: time.Now()})
	s.RecordMove(MoveRecord{GameID: "g1", MoveNumber: 1, FromSquare: "a1", ToSquare: "a1", Piece: "pawn", PositionAfter: "P b", PlayerColor: "w", MoveTimeUTC: time.Now()})
	s.DeleteGame("g1")
	s.Close()

	s = openStore(t, path)
	defer s.Close()

	games, _ := s.QueryGames("g1", "")
	moves, _ := s.QueryMoves("g1")
	if len(games) != 0 || len(moves) != 0 {
		t.Errorf("games %d moves %d after delete", len(games), len(moves))
	}
}

func TestUsers(t *testing.T) {
	s := openStore(t, filepath.Join(t.TempDir(), "users.db"))
	defer s.Close()

	rec := UserRecord{
		UserID:       "u1",
		Username:     "alice",
		Email:        "alice@example.com",
		PasswordHash: "hash",
		CreatedAt:    time.Now().UTC(),
	}
	if err := s.CreateUser(rec); err != nil {
		t.Fatalf("CreateUser: %v", err)
	}

	dup := rec
	dup.UserID = "u2"
	dup.Username = "ALICE"
	dup.Email = ""
	if err := s.CreateUser(dup); !errors.Is(err, ErrUserExists) {
		t.Errorf("duplicate username err = %v", err)
	}

	noEmail := UserRecord{UserID: "u3", Username: "bob", PasswordHash: "h", CreatedAt: time.Now().UTC()}
	if err := s.CreateUser(noEmail); err != nil {
		t.Fatalf("CreateUser without email: %v", err)
	}

	got, err := s.GetUserByUsername("Alice")
	if err != nil || got.UserID != "u1" {
		t.Fatalf("GetUserByUsername = %+v, %v", got, err)
	}
	if got, err := s.GetUserByEmail("ALICE@example.com"); err != nil || got.UserID != "u1" {
		t.Fatalf("GetUserByEmail = %+v, %v", got, err)
	}

	if err := s.UpdateUserLastLoginSync("u1", time.Now().UTC()); err != nil {
		t.Fatalf("UpdateUserLastLoginSync: %v", err)
	}
	if got, _ := s.GetUserByID("u1"); got.LastLoginAt == nil {
		t.Error("last login not recorded")
	}
	if err := s.UpdateUserLastLoginSync("missing", time.Now()); err == nil {
		t.Error("update of missing user should fail")
	}

	users, err := s.ListUsers()
	if err != nil || len(users) != 2 {
		t.Fatalf("ListUsers = %d, %v", len(users), err)
	}

	if err := s.DeleteUserByID("u3"); err != nil {
		t.Fatalf("DeleteUserByID: %v", err)
	}
	if _, err := s.GetUserByID("u3"); err == nil {
		t.Error("deleted user still found")
	}
}
