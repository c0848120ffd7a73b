// Package main implements an interactive client for the chessington API.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"chessington/internal/client/commands"
	"chessington/internal/client/display"
	"chessington/internal/client/session"

	"github.com/chzyer/readline"
)

func main() {
	apiURL := flag.String("url", "http://localhost:8080", "API server base URL")
	history := flag.String("history", ".chessington_history", "Readline history file (empty disables)")
	flag.Parse()

	s := session.New(*apiURL)

	rl, err := readline.NewEx(&readline.Config{
		Prompt:          display.Prompt("chessington"),
		HistoryFile:     *history,
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})
	if err != nil {
		fmt.Printf("%s%s%s\n", display.Red, err.Error(), display.Reset)
		os.Exit(1)
	}
	defer rl.Close()

	fmt.Printf("%sChessington Client%s\n", display.Cyan, display.Reset)
	fmt.Printf("%sAPI: %s%s\n", display.Cyan, s.APIBaseURL, display.Reset)
	fmt.Printf("Type 'help' for commands\n\n")

	registry := commands.NewRegistry(s)

	for !s.Quit {
		rl.SetPrompt(buildPrompt(s))

		line, err := rl.Readline()
		if err == io.EOF {
			break
		}
		if err != nil {
			continue
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if line == "quit" {
			break
		}

		registry.Execute(line)
	}
}

// buildPrompt shows the user, the current game and its side to move
func buildPrompt(s *session.Session) string {
	var parts []string
	if s.Username != "" {
		parts = append(parts, display.Magenta+s.Username+display.Reset)
	}
	if s.CurrentGame != "" {
		id := s.CurrentGame
		if len(id) > 8 {
			id = id[:8]
		}
		parts = append(parts, display.White+id+display.Reset)
	}

	prompt := "chessington"
	if len(parts) > 0 {
		prompt += display.Yellow + " [" + display.Reset +
			strings.Join(parts, display.Yellow+" - "+display.Reset) +
			display.Yellow + "]"
	}

	if st := s.CurrentGameState; st != nil {
		prompt += fmt.Sprintf(" - Turn:%s(%d)", display.ColorForTurn(st.Turn), len(st.Moves)+1)
	}

	return display.Prompt(prompt)
}
