package commands

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"chessington/internal/client/display"
	"chessington/internal/client/session"
	"chessington/internal/core"
)

var errNoGame = errors.New("no current game, use 'new' or 'join <gameId>'")

func (r *Registry) registerGameCommands() {
	r.Register(&Command{
		Name:        "new",
		ShortName:   "n",
		Description: "Create a new game",
		Usage:       "new [placement [w|b]]",
		Handler:     newGameHandler,
	})

	r.Register(&Command{
		Name:        "join",
		ShortName:   "j",
		Description: "Join/set current game ID",
		Usage:       "join <gameId>",
		Handler:     joinGameHandler,
	})

	r.Register(&Command{
		Name:        "moves",
		ShortName:   "a",
		Description: "List available moves for a square",
		Usage:       "moves <square>",
		Handler:     availableMovesHandler,
	})

	r.Register(&Command{
		Name:        "move",
		ShortName:   "m",
		Description: "Make a move",
		Usage:       "move <from> <to> | move <from><to>",
		Handler:     moveHandler,
	})

	r.Register(&Command{
		Name:        "undo",
		ShortName:   "u",
		Description: "Undo moves",
		Usage:       "undo [count]",
		Handler:     undoHandler,
	})

	r.Register(&Command{
		Name:        "show",
		ShortName:   "h",
		Description: "Show board and game state",
		Usage:       "show",
		Handler:     showBoardHandler,
	})

	r.Register(&Command{
		Name:        "state",
		ShortName:   "s",
		Description: "Show raw game JSON",
		Usage:       "state",
		Handler:     gameStateHandler,
	})

	r.Register(&Command{
		Name:        "delete",
		ShortName:   "d",
		Description: "Delete a game",
		Usage:       "delete [gameId]",
		Handler:     deleteGameHandler,
	})
}

// newGameHandler creates a game from an optional "<placement> [w|b]"
func newGameHandler(s *session.Session, args []string) error {
	resp, err := s.Client.CreateGame(strings.Join(args, " "))
	if err != nil {
		return err
	}

	s.SetGame(resp.GameID, resp)
	fmt.Fprintf(s.Out, "%sGame created: %s%s\n", display.Green, resp.GameID, display.Reset)
	fmt.Fprintf(s.Out, "%sCurrent game set to: %s%s\n", display.Cyan, resp.GameID, display.Reset)
	return nil
}

func joinGameHandler(s *session.Session, args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("usage: join <gameId>")
	}

	// Verify game exists
	resp, err := s.Client.GetGame(args[0])
	if err != nil {
		return err
	}

	s.SetGame(resp.GameID, resp)
	fmt.Fprintf(s.Out, "%sJoined game: %s%s\n", display.Green, resp.GameID, display.Reset)
	fmt.Fprintf(s.Out, "Turn: %s | Size: %d | Moves: %d\n", display.ColorForTurn(resp.Turn), resp.Size, len(resp.Moves))
	return nil
}

func availableMovesHandler(s *session.Session, args []string) error {
	if s.CurrentGame == "" {
		return errNoGame
	}
	if len(args) < 1 {
		return fmt.Errorf("usage: moves <square>")
	}

	resp, err := s.Client.AvailableMoves(s.CurrentGame, strings.ToLower(args[0]))
	if err != nil {
		return err
	}

	// Collect destinations for display
	targets := make([]string, len(resp.Moves))
	for i, sq := range resp.Moves {
		targets[i] = sq.String()
	}

	fmt.Fprintf(s.Out, "%s %s on %s: ", display.ColorForTurn(resp.Player), resp.Piece, resp.Square)
	if len(targets) == 0 {
		fmt.Fprintf(s.Out, "%sno moves%s\n", display.Yellow, display.Reset)
		return nil
	}
	fmt.Fprintf(s.Out, "%s\n", strings.Join(targets, " "))

	// Mark destinations on the board
	board, err := s.Client.GetBoard(s.CurrentGame)
	if err != nil {
		return err
	}
	fmt.Fprintln(s.Out)
	display.RenderBoard(s.Out, board.Board, targets...)
	return nil
}

// parseMoveArgs accepts "e2 e4" or "e2e4"
func parseMoveArgs(args []string) (from, to string, err error) {
	switch len(args) {
	case 2:
		return strings.ToLower(args[0]), strings.ToLower(args[1]), nil
	case 1:
		m := strings.ToLower(args[0])
		// Split after the first rank digits: "e2e4", "a10a9"
		for i := 1; i < len(m); i++ {
			if m[i] >= 'a' && m[i] <= 'z' {
				return m[:i], m[i:], nil
			}
		}
	}
	return "", "", fmt.Errorf("usage: move <from> <to>")
}

func moveHandler(s *session.Session, args []string) error {
	if s.CurrentGame == "" {
		return errNoGame
	}
	from, to, err := parseMoveArgs(args)
	if err != nil {
		return err
	}

	resp, err := s.Client.MakeMove(s.CurrentGame, from, to)
	if err != nil {
		return err
	}

	// Update local game state
	s.SetGame(resp.GameID, resp)
	fmt.Fprintf(s.Out, "%sMove accepted%s", display.Green, display.Reset)
	if lm := resp.LastMove; lm != nil && lm.Captured != "" {
		fmt.Fprintf(s.Out, " (%s takes %s)", lm.Piece, lm.Captured)
	}
	fmt.Fprintf(s.Out, " | Turn: %s\n", display.ColorForTurn(resp.Turn))
	return nil
}

func undoHandler(s *session.Session, args []string) error {
	if s.CurrentGame == "" {
		return errNoGame
	}

	// Default to one move
	count := 1
	if len(args) > 0 {
		n, err := strconv.Atoi(args[0])
		if err != nil || n < 1 {
			return fmt.Errorf("invalid count: %s", args[0])
		}
		count = n
	}

	resp, err := s.Client.UndoMoves(s.CurrentGame, count)
	if err != nil {
		return err
	}

	s.SetGame(resp.GameID, resp)
	fmt.Fprintf(s.Out, "%sUndid %d move(s)%s\n", display.Green, count, display.Reset)
	return nil
}

func showBoardHandler(s *session.Session, args []string) error {
	if s.CurrentGame == "" {
		return errNoGame
	}

	// Get full game state
	game, err := s.Client.GetGame(s.CurrentGame)
	if err != nil {
		return err
	}
	s.SetGame(game.GameID, game)

	// Get ASCII board
	board, err := s.Client.GetBoard(s.CurrentGame)
	if err != nil {
		return err
	}

	// Display board with the last destination highlighted
	fmt.Fprintln(s.Out)
	var highlight []string
	if lm := game.LastMove; lm != nil {
		highlight = []string{lm.To}
	}
	display.RenderBoard(s.Out, board.Board, highlight...)

	// Display game info
	fmt.Fprintf(s.Out, "\nPosition: %s\n", game.Position)
	fmt.Fprintf(s.Out, "Turn: %s | Moves: %d\n", display.ColorForTurn(game.Turn), len(game.Moves))
	printHistory(s, game)
	return nil
}

// printHistory prints moves paired by full move number
func printHistory(s *session.Session, game *core.GameResponse) {
	if len(game.Moves) == 0 {
		return
	}
	fmt.Fprintf(s.Out, "History: ")
	for i, move := range game.Moves {
		if i%2 == 0 {
			if i > 0 {
				fmt.Fprint(s.Out, " ")
			}
			fmt.Fprintf(s.Out, "%d.%s", (i/2)+1, move)
		} else {
			fmt.Fprintf(s.Out, " %s", move)
		}
	}
	fmt.Fprintln(s.Out)
}

func gameStateHandler(s *session.Session, args []string) error {
	if s.CurrentGame == "" {
		return errNoGame
	}

	game, err := s.Client.GetGame(s.CurrentGame)
	if err != nil {
		return err
	}
	s.SetGame(game.GameID, game)

	// Pretty print JSON
	fmt.Fprintf(s.Out, "%sGame State:%s\n", display.Cyan, display.Reset)
	display.PrettyPrintJSON(s.Out, game)
	return nil
}

func deleteGameHandler(s *session.Session, args []string) error {
	gameID := s.CurrentGame
	if len(args) > 0 {
		gameID = args[0]
	}
	if gameID == "" {
		return errNoGame
	}

	if err := s.Client.DeleteGame(gameID); err != nil {
		return err
	}

	// Leave the deleted game
	if gameID == s.CurrentGame {
		s.SetGame("", nil)
	}
	fmt.Fprintf(s.Out, "%sGame deleted: %s%s\n", display.Green, gameID, display.Reset)
	return nil
}
