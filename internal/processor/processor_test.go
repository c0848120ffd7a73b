package processor

import (
	"errors"
	"fmt"
	"testing"

	"chessington/internal/core"
	"chessington/internal/service"
)

func newProcessor() *Processor {
	return New(service.New(nil, nil))
}

func createGame(t *testing.T, p *Processor, position string) core.GameResponse {
	t.Helper()
	resp := p.Execute(NewCreateGameCommand("", core.CreateGameRequest{Position: position}))
	if !resp.Success {
		t.Fatalf("create failed: %+v", resp.Error)
	}
	return resp.Data.(core.GameResponse)
}

func TestCreateAndMove(t *testing.T) {
	p := newProcessor()
	g := createGame(t, p, "")
	if g.Size != 8 || g.Turn != "w" || len(g.Moves) != 0 {
		t.Fatalf("unexpected game %+v", g)
	}

	resp := p.Execute(NewMakeMoveCommand(g.GameID, core.MoveRequest{From: "g1", To: "f3"}))
	if !resp.Success {
		t.Fatalf("move failed: %+v", resp.Error)
	}
	after := resp.Data.(core.GameResponse)
	if after.Turn != "b" || after.LastMove == nil || after.LastMove.Piece != "knight" || after.LastMove.PlayerColor != "w" {
		t.Errorf("after move: %+v %+v", after, after.LastMove)
	}

	resp = p.Execute(NewUndoMoveCommand(g.GameID, core.UndoRequest{Count: 1}))
	if !resp.Success || resp.Data.(core.GameResponse).Turn != "w" {
		t.Errorf("undo: %+v", resp)
	}
}

func TestCaptureIsReported(t *testing.T) {
	p := newProcessor()
	g := createGame(t, p, "8/8/8/3p4/4P3/8/8/8 w")

	resp := p.Execute(NewMakeMoveCommand(g.GameID, core.MoveRequest{From: "e4", To: "d5"}))
	if !resp.Success {
		t.Fatalf("capture failed: %+v", resp.Error)
	}
	last := resp.Data.(core.GameResponse).LastMove
	if last.Captured != "pawn" {
		t.Errorf("captured = %q", last.Captured)
	}
}

func TestAvailableMoves(t *testing.T) {
	p := newProcessor()
	g := createGame(t, p, "")

	resp := p.Execute(NewAvailableMovesCommand(g.GameID, "b8"))
	if !resp.Success {
		t.Fatalf("moves failed: %+v", resp.Error)
	}
	mr := resp.Data.(core.MovesResponse)
	if mr.Piece != "knight" || mr.Player != "b" || len(mr.Moves) != 2 {
		t.Errorf("b8 moves = %+v", mr)
	}

	resp = p.Execute(NewAvailableMovesCommand(g.GameID, "a1"))
	mr = resp.Data.(core.MovesResponse)
	if mr.Moves == nil || len(mr.Moves) != 0 {
		t.Errorf("blocked rook moves = %#v", mr.Moves)
	}
}

func TestErrorCodes(t *testing.T) {
	p := newProcessor()
	g := createGame(t, p, "")

	tests := []struct {
		name string
		cmd  Command
		code string
	}{
		{"unknown game", NewGetGameCommand("missing"), core.CodeGameNotFound},
		{"bad position", NewCreateGameCommand("", core.CreateGameRequest{Position: "ppp w"}), core.CodeInvalidPosition},
		{"off board", NewAvailableMovesCommand(g.GameID, "j9"), core.CodeInvalidSquare},
		{"empty square", NewAvailableMovesCommand(g.GameID, "e4"), core.CodeInvalidSquare},
		{"wrong side", NewMakeMoveCommand(g.GameID, core.MoveRequest{From: "e7", To: "e5"}), core.CodeNotYourTurn},
		{"illegal", NewMakeMoveCommand(g.GameID, core.MoveRequest{From: "a1", To: "a3"}), core.CodeInvalidMove},
		{"undo at start", NewUndoMoveCommand(g.GameID, core.UndoRequest{Count: 1}), core.CodeInvalidRequest},
		{"undo zero", NewUndoMoveCommand(g.GameID, core.UndoRequest{Count: 0}), core.CodeInvalidRequest},
		{"undo negative", NewUndoMoveCommand(g.GameID, core.UndoRequest{Count: -2}), core.CodeInvalidRequest},
		{"bad args", Command{Type: CmdMakeMove, GameID: g.GameID, Args: 42}, core.CodeInvalidRequest},
		{"unknown command", Command{Type: CommandType(99)}, core.CodeInvalidRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := p.Execute(tt.cmd)
			if resp.Success {
				t.Fatal("expected failure")
			}
			if resp.Error.Code != tt.code {
				t.Errorf("code = %s, want %s (%s)", resp.Error.Code, tt.code, resp.Error.Details)
			}
		})
	}
}

func TestDeleteAndBoard(t *testing.T) {
	p := newProcessor()
	g := createGame(t, p, "")

	resp := p.Execute(NewGetBoardCommand(g.GameID))
	if !resp.Success {
		t.Fatalf("board failed: %+v", resp.Error)
	}
	if br := resp.Data.(core.BoardResponse); br.Position != g.Position || br.Board == "" {
		t.Errorf("board = %+v", br)
	}

	if resp := p.Execute(NewDeleteGameCommand("", g.GameID)); !resp.Success {
		t.Fatalf("delete failed: %+v", resp.Error)
	}
	if resp := p.Execute(NewGetGameCommand(g.GameID)); resp.Success {
		t.Error("deleted game still readable")
	}
}

func TestErrorCodeWrapped(t *testing.T) {
	err := fmt.Errorf("outer: %w", fmt.Errorf("inner: %w", core.ErrForbidden))
	if ErrorCode(err) != core.CodeForbidden {
		t.Errorf("ErrorCode = %s", ErrorCode(err))
	}
	if ErrorCode(errors.New("boom")) != core.CodeInternalError {
		t.Error("unknown errors should be internal")
	}
}
