package commands

import (
	"bufio"
	"bytes"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"chessington/internal/client/session"
	chttp "chessington/internal/http"
	"chessington/internal/processor"
	"chessington/internal/service"
	"chessington/internal/storage"

	"github.com/gofiber/fiber/v2/middleware/adaptor"
)

// newSession runs a real server behind httptest and returns a session on it
func newSession(t *testing.T, input string) (*session.Session, *bytes.Buffer) {
	t.Helper()
	store, err := storage.NewStore(filepath.Join(t.TempDir(), "client.db"), false)
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	if err := store.InitDB(); err != nil {
		t.Fatalf("InitDB: %v", err)
	}
	svc := service.New(store, []byte("client-test-secret-client-test-secret"))
	app := chttp.NewFiberApp(processor.New(svc), svc, true)

	srv := httptest.NewServer(adaptor.FiberApp(app))
	t.Cleanup(func() {
		srv.Close()
		svc.Shutdown(5 * time.Second)
	})

	var out bytes.Buffer
	s := session.New(srv.URL)
	s.Out = &out
	s.Client.Out = &out
	s.In = bufio.NewReader(strings.NewReader(input))
	s.Terminal = false
	return s, &out
}

func TestGameCommands(t *testing.T) {
	s, out := newSession(t, "")
	r := NewRegistry(s)

	r.Execute("new")
	if s.CurrentGame == "" || s.CurrentGameState == nil {
		t.Fatalf("new did not set a game:\n%s", out)
	}
	gameID := s.CurrentGame

	out.Reset()
	r.Execute("moves e2")
	if !strings.Contains(out.String(), "e3 e4") {
		t.Errorf("moves output:\n%s", out)
	}

	r.Execute("move e2e4")
	if s.CurrentGameState.Turn != "b" {
		t.Errorf("turn after move = %q", s.CurrentGameState.Turn)
	}
	r.Execute("m d7 d5")
	r.Execute("move e4 d5")
	if lm := s.CurrentGameState.LastMove; lm == nil || lm.Captured != "pawn" {
		t.Errorf("capture not reported: %+v", lm)
	}

	out.Reset()
	r.Execute("show")
	if !strings.Contains(out.String(), "History: 1.e2e4 d7d5 2.e4d5") {
		t.Errorf("show output:\n%s", out)
	}

	r.Execute("undo 2")
	if got := len(s.CurrentGameState.Moves); got != 1 {
		t.Errorf("moves after undo = %d", got)
	}

	out.Reset()
	r.Execute("move g1 f3")
	if !strings.Contains(out.String(), "NOT_YOUR_TURN") {
		t.Errorf("wrong-side move output:\n%s", out)
	}

	out.Reset()
	r.Execute("state -v")
	if !strings.Contains(out.String(), `"gameId": "`+gameID+`"`) {
		t.Errorf("state output:\n%s", out)
	}

	r.Execute("delete")
	if s.CurrentGame != "" {
		t.Error("delete kept the current game")
	}
	out.Reset()
	r.Execute("show")
	if !strings.Contains(out.String(), "no current game") {
		t.Errorf("show without game:\n%s", out)
	}

	r.Execute("join " + gameID)
	if s.CurrentGame != "" {
		t.Error("joined a deleted game")
	}
}

func TestNewFromPosition(t *testing.T) {
	s, _ := newSession(t, "")
	r := NewRegistry(s)

	r.Execute("new 4/4/4/R3 b")
	st := s.CurrentGameState
	if st == nil || st.Size != 4 || st.Turn != "b" {
		t.Fatalf("state = %+v", st)
	}
}

func TestAuthCommands(t *testing.T) {
	s, out := newSession(t, "dana\nsecret123\n\ndana\nsecret123\n")
	r := NewRegistry(s)

	r.Execute("register")
	if s.AuthToken == "" || s.Username != "dana" {
		t.Fatalf("register failed:\n%s", out)
	}
	r.Execute("logout")
	if s.AuthToken != "" || s.Client.AuthToken != "" {
		t.Error("logout kept the token")
	}

	r.Execute("login")
	if s.AuthToken == "" {
		t.Fatalf("login failed:\n%s", out)
	}

	out.Reset()
	r.Execute("whoami")
	if !strings.Contains(out.String(), "Username: dana") {
		t.Errorf("whoami output:\n%s", out)
	}
}

func TestUtilityCommands(t *testing.T) {
	s, out := newSession(t, "")
	r := NewRegistry(s)

	r.Execute("health")
	if !strings.Contains(out.String(), "Storage: ok") {
		t.Errorf("health output:\n%s", out)
	}

	out.Reset()
	r.Execute("help")
	for _, name := range []string{"new", "moves", "register", "url", "exit"} {
		if !strings.Contains(out.String(), name) {
			t.Errorf("help lacks %q", name)
		}
	}

	out.Reset()
	r.Execute("frobnicate")
	if !strings.Contains(out.String(), "Unknown command") {
		t.Errorf("unknown command output:\n%s", out)
	}

	r.Execute("url localhost:9999/")
	if s.APIBaseURL != "http://localhost:9999" || s.Client.BaseURL != s.APIBaseURL {
		t.Errorf("url = %q / %q", s.APIBaseURL, s.Client.BaseURL)
	}

	r.Execute("x")
	if !s.Quit {
		t.Error("exit did not quit")
	}
}

func TestParseMoveArgs(t *testing.T) {
	tests := []struct {
		args     []string
		from, to string
		ok       bool
	}{
		{[]string{"e2", "e4"}, "e2", "e4", true},
		{[]string{"E2E4"}, "e2", "e4", true},
		{[]string{"a10a9"}, "a10", "a9", true},
		{[]string{"e2"}, "", "", false},
		{nil, "", "", false},
	}
	for _, tt := range tests {
		from, to, err := parseMoveArgs(tt.args)
		if (err == nil) != tt.ok || from != tt.from || to != tt.to {
			t.Errorf("parseMoveArgs(%v) = %q, %q, %v", tt.args, from, to, err)
		}
	}
}
