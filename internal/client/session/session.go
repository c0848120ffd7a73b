package session

import (
	"bufio"
	"io"
	"os"

	"chessington/internal/client/api"
	"chessington/internal/core"

	"golang.org/x/term"
)

// Session holds REPL state between commands
type Session struct {
	APIBaseURL       string
	Client           *api.Client
	CurrentGame      string
	CurrentGameState *core.GameResponse
	UserID           string
	Username         string
	AuthToken        string
	Verbose          bool
	Quit             bool

	In       *bufio.Reader
	Out      io.Writer
	Terminal bool // stdin is a terminal, so passwords can be read without echo
}

// New creates a session talking to baseURL on the process's stdio
func New(baseURL string) *Session {
	client := api.New(baseURL)
	return &Session{
		APIBaseURL: client.BaseURL,
		Client:     client,
		In:         bufio.NewReader(os.Stdin),
		Out:        os.Stdout,
		Terminal:   term.IsTerminal(int(os.Stdin.Fd())),
	}
}

// SetAPIBaseURL points the session and its client at a new server
func (s *Session) SetAPIBaseURL(url string) {
	s.Client.SetBaseURL(url)
	s.APIBaseURL = s.Client.BaseURL
}

// SetAuth records the logged-in user; empty values log out
func (s *Session) SetAuth(token, userID, username string) {
	s.AuthToken = token
	s.UserID = userID
	s.Username = username
	s.Client.SetToken(token)
}

// SetGame makes gameID current with its latest known state
func (s *Session) SetGame(gameID string, state *core.GameResponse) {
	s.CurrentGame = gameID
	s.CurrentGameState = state
}
