package service

import (
	"errors"
	"path/filepath"
	"slices"
	"sync"
	"testing"
	"time"

	"chessington/internal/core"
	"chessington/internal/game"
	"chessington/internal/piece"
	"chessington/internal/storage"
)

func newStoredService(t *testing.T) (*Service, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "service.db")
	store, err := storage.NewStore(path, false)
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	if err := store.InitDB(); err != nil {
		t.Fatalf("InitDB: %v", err)
	}
	svc := New(store, []byte("test-secret-test-secret-test-secret"))
	t.Cleanup(func() { svc.Shutdown(5 * time.Second) })
	return svc, path
}

func TestCreateGameDefaultsToStandardStart(t *testing.T) {
	svc := New(nil, nil)

	st, err := svc.CreateGame("", "")
	if err != nil {
		t.Fatalf("CreateGame: %v", err)
	}
	if st.Position != game.StartingPosition {
		t.Errorf("position = %q", st.Position)
	}
	if st.Size != 8 || st.Turn != core.PlayerWhite || len(st.Moves) != 0 || st.LastMove != nil {
		t.Errorf("unexpected state %+v", st)
	}
	if svc.GameCount() != 1 {
		t.Errorf("GameCount = %d", svc.GameCount())
	}
	if svc.GetStorageHealth() != "disabled" {
		t.Errorf("storage health = %q", svc.GetStorageHealth())
	}
}

func TestCreateGameRejectsBadPosition(t *testing.T) {
	svc := New(nil, nil)
	if _, err := svc.CreateGame("", "8/8/x w"); !errors.Is(err, core.ErrInvalidPlacement) {
		t.Errorf("err = %v, want ErrInvalidPlacement", err)
	}
	if svc.GameCount() != 0 {
		t.Error("failed create registered a game")
	}
}

func TestMoveFlow(t *testing.T) {
	svc := New(nil, nil)
	st, _ := svc.CreateGame("", "")
	id := st.GameID

	pm, err := svc.AvailableMoves(id, "e2")
	if err != nil {
		t.Fatalf("AvailableMoves: %v", err)
	}
	if pm.Kind != piece.Pawn || pm.Player != core.PlayerWhite || len(pm.Moves) != 2 {
		t.Fatalf("e2 moves = %+v", pm)
	}

	if _, err := svc.MakeMove(id, "e7", "e5"); !errors.Is(err, core.ErrNotYourTurn) {
		t.Errorf("black first: err = %v", err)
	}
	if _, err := svc.MakeMove(id, "e2", "e5"); !errors.Is(err, core.ErrIllegalMove) {
		t.Errorf("triple step: err = %v", err)
	}
	if _, err := svc.MakeMove(id, "z9", "e4"); !errors.Is(err, core.ErrInvalidSquare) && !errors.Is(err, core.ErrOffBoard) {
		t.Errorf("bad square: err = %v", err)
	}

	st, err = svc.MakeMove(id, "e2", "e4")
	if err != nil {
		t.Fatalf("MakeMove: %v", err)
	}
	if st.Turn != core.PlayerBlack || !slices.Equal(st.Moves, []string{"e2e4"}) {
		t.Errorf("after e2e4: %+v", st)
	}
	if st.LastMove == nil || st.LastMove.Piece != piece.Pawn {
		t.Errorf("last move = %+v", st.LastMove)
	}

	if _, err := svc.AvailableMoves(id, "e2"); !errors.Is(err, core.ErrEmptySquare) {
		t.Errorf("empty square: err = %v", err)
	}

	st, err = svc.UndoMoves(id, 1)
	if err != nil {
		t.Fatalf("UndoMoves: %v", err)
	}
	if st.Position != game.StartingPosition {
		t.Errorf("undo position = %q", st.Position)
	}
	if _, err := svc.UndoMoves(id, 1); !errors.Is(err, core.ErrNothingToUndo) {
		t.Errorf("undo past start: err = %v", err)
	}
}

func TestUnknownGame(t *testing.T) {
	svc := New(nil, nil)
	if _, err := svc.GetGame("nope"); !errors.Is(err, core.ErrGameNotFound) {
		t.Errorf("GetGame err = %v", err)
	}
	if _, err := svc.AvailableMoves("nope", "a1"); !errors.Is(err, core.ErrGameNotFound) {
		t.Errorf("AvailableMoves err = %v", err)
	}
	if _, err := svc.MakeMove("nope", "a1", "a2"); !errors.Is(err, core.ErrGameNotFound) {
		t.Errorf("MakeMove err = %v", err)
	}
	if _, err := svc.UndoMoves("nope", 1); !errors.Is(err, core.ErrGameNotFound) {
		t.Errorf("UndoMoves err = %v", err)
	}
	if err := svc.DeleteGame("nope", ""); !errors.Is(err, core.ErrGameNotFound) {
		t.Errorf("DeleteGame err = %v", err)
	}
}

func TestDeleteGameOwnership(t *testing.T) {
	svc := New(nil, nil)
	owned, _ := svc.CreateGame("alice", "")
	open, _ := svc.CreateGame("", "")

	if err := svc.DeleteGame(owned.GameID, "bob"); !errors.Is(err, core.ErrForbidden) {
		t.Errorf("foreign delete err = %v", err)
	}
	if err := svc.DeleteGame(owned.GameID, "alice"); err != nil {
		t.Errorf("owner delete: %v", err)
	}
	if err := svc.DeleteGame(open.GameID, "bob"); err != nil {
		t.Errorf("anonymous game delete: %v", err)
	}
	if svc.GameCount() != 0 {
		t.Errorf("GameCount = %d", svc.GameCount())
	}
}

func TestEvictIdle(t *testing.T) {
	svc := New(nil, nil)
	clock := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return clock }

	stale, _ := svc.CreateGame("", "")
	clock = clock.Add(GameIdleTTL / 2)
	fresh, _ := svc.CreateGame("", "")
	clock = clock.Add(GameIdleTTL/2 + time.Minute)

	if n := svc.evictIdle(GameIdleTTL); n != 1 {
		t.Fatalf("evicted %d, want 1", n)
	}
	if _, err := svc.GetGame(stale.GameID); err == nil {
		t.Error("stale game survived")
	}
	if _, err := svc.GetGame(fresh.GameID); err != nil {
		t.Errorf("fresh game evicted: %v", err)
	}
}

func TestReadsKeepGameAlive(t *testing.T) {
	svc := New(nil, nil)
	clock := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return clock }

	viewed, _ := svc.CreateGame("", "")
	queried, _ := svc.CreateGame("", "")
	idle, _ := svc.CreateGame("", "")

	clock = clock.Add(GameIdleTTL - time.Minute)
	if _, err := svc.GetGame(viewed.GameID); err != nil {
		t.Fatalf("GetGame: %v", err)
	}
	if _, err := svc.AvailableMoves(queried.GameID, "b1"); err != nil {
		t.Fatalf("AvailableMoves: %v", err)
	}
	clock = clock.Add(2 * time.Minute)

	if n := svc.evictIdle(GameIdleTTL); n != 1 {
		t.Fatalf("evicted %d, want 1", n)
	}
	if _, err := svc.GetGame(idle.GameID); !errors.Is(err, core.ErrGameNotFound) {
		t.Errorf("idle game survived: %v", err)
	}
	for _, id := range []string{viewed.GameID, queried.GameID} {
		if _, err := svc.GetGame(id); err != nil {
			t.Errorf("read game %s evicted: %v", id, err)
		}
	}
}

func TestConcurrentQueriesAndMoves(t *testing.T) {
	svc := New(nil, nil)
	st, _ := svc.CreateGame("", "")
	id := st.GameID

	var wg sync.WaitGroup
	for range 8 {
		wg.Go(func() {
			for range 200 {
				if _, err := svc.AvailableMoves(id, "b1"); err != nil {
					t.Errorf("AvailableMoves: %v", err)
					return
				}
				svc.GetGame(id)
			}
		})
	}
	wg.Go(func() {
		for range 100 {
			if _, err := svc.MakeMove(id, "a2", "a3"); err != nil {
				t.Errorf("MakeMove: %v", err)
				return
			}
			if _, err := svc.UndoMoves(id, 1); err != nil {
				t.Errorf("UndoMoves: %v", err)
				return
			}
		}
	})
	wg.Wait()

	final, _ := svc.GetGame(id)
	if final.Position != game.StartingPosition {
		t.Errorf("final position = %q", final.Position)
	}
}

func TestPersistence(t *testing.T) {
	svc, path := newStoredService(t)
	if svc.GetStorageHealth() != "ok" {
		t.Fatalf("storage health = %q", svc.GetStorageHealth())
	}

	st, _ := svc.CreateGame("owner-1", "")
	svc.MakeMove(st.GameID, "b1", "c3")
	svc.MakeMove(st.GameID, "g8", "f6")
	svc.UndoMoves(st.GameID, 1)
	svc.MakeMove(st.GameID, "d7", "d5")

	if err := svc.Shutdown(5 * time.Second); err != nil {
		t.Fatalf("Shutdown: %v", err)
	}

	store, err := storage.NewStore(path, false)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer store.Close()

	games, err := store.QueryGames(st.GameID, "")
	if err != nil || len(games) != 1 || games[0].OwnerID != "owner-1" {
		t.Fatalf("games = %+v, %v", games, err)
	}
	moves, err := store.QueryMoves(st.GameID)
	if err != nil {
		t.Fatalf("QueryMoves: %v", err)
	}
	var got []string
	for _, m := range moves {
		got = append(got, m.FromSquare+m.ToSquare)
	}
	if !slices.Equal(got, []string{"b1c3", "d7d5"}) {
		t.Errorf("stored moves = %v", got)
	}
}

func TestUsersAndTokens(t *testing.T) {
	svc, _ := newStoredService(t)

	user, err := svc.CreateUser("alice", "Alice@Example.com", "correct-horse")
	if err != nil {
		t.Fatalf("CreateUser: %v", err)
	}
	if _, err := svc.CreateUser("alice", "", "another-pass"); !errors.Is(err, storage.ErrUserExists) {
		t.Errorf("duplicate err = %v", err)
	}

	for _, ident := range []string{"alice", "alice@example.com"} {
		got, err := svc.AuthenticateUser(ident, "correct-horse")
		if err != nil || got.UserID != user.UserID {
			t.Errorf("AuthenticateUser(%q) = %+v, %v", ident, got, err)
		}
	}
	if _, err := svc.AuthenticateUser("alice", "wrong-pass"); !errors.Is(err, core.ErrInvalidCredentials) {
		t.Errorf("wrong password err = %v", err)
	}
	if _, err := svc.AuthenticateUser("nobody", "x"); !errors.Is(err, core.ErrInvalidCredentials) {
		t.Errorf("unknown user err = %v", err)
	}
	if err := svc.UpdateLastLogin(user.UserID); err != nil {
		t.Errorf("UpdateLastLogin: %v", err)
	}

	token, expiresAt, err := svc.GenerateUserToken(user.UserID)
	if err != nil {
		t.Fatalf("GenerateUserToken: %v", err)
	}
	if !expiresAt.After(time.Now()) {
		t.Errorf("expiry %v not in the future", expiresAt)
	}
	userID, claims, err := svc.ValidateToken(token)
	if err != nil || userID != user.UserID || claims["username"] != "alice" {
		t.Errorf("ValidateToken = %q, %v, %v", userID, claims, err)
	}
	if _, _, err := svc.ValidateToken(token + "x"); err == nil {
		t.Error("tampered token accepted")
	}
}

func TestUsersWithoutStorage(t *testing.T) {
	svc := New(nil, []byte("secret"))
	if _, err := svc.CreateUser("a", "", "password1"); !errors.Is(err, core.ErrStorageDisabled) {
		t.Errorf("CreateUser err = %v", err)
	}
	if _, err := svc.AuthenticateUser("a", "password1"); !errors.Is(err, core.ErrStorageDisabled) {
		t.Errorf("AuthenticateUser err = %v", err)
	}
}
