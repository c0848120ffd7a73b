package processor

import (
	"errors"
	"log"

	"chessington/internal/core"
	"chessington/internal/service"
)

// Processor translates commands into service calls and service results into
// API responses
type Processor struct {
	svc *service.Service
}

// New creates a processor over svc
func New(svc *service.Service) *Processor {
	return &Processor{svc: svc}
}

// Execute routes a command to its handler
func (p *Processor) Execute(cmd Command) ProcessorResponse {
	switch cmd.Type {
	case CmdCreateGame:
		return p.handleCreateGame(cmd)
	case CmdGetGame:
		return p.handleGetGame(cmd)
	case CmdDeleteGame:
		return p.handleDeleteGame(cmd)
	case CmdAvailableMoves:
		return p.handleAvailableMoves(cmd)
	case CmdMakeMove:
		return p.handleMakeMove(cmd)
	case CmdUndoMove:
		return p.handleUndoMove(cmd)
	case CmdGetBoard:
		return p.handleGetBoard(cmd)
	default:
		return p.errorResponse("unknown command", core.CodeInvalidRequest)
	}
}

// handleCreateGame parses the optional position and registers the game
func (p *Processor) handleCreateGame(cmd Command) ProcessorResponse {
	args, ok := cmd.Args.(core.CreateGameRequest)
	if !ok {
		return p.errorResponse("invalid arguments", core.CodeInvalidRequest)
	}

	st, err := p.svc.CreateGame(cmd.UserID, args.Position)
	if err != nil {
		return p.serviceError("failed to create game", err)
	}

	log.Printf("game %s created (size %d, owner %q)", st.GameID, st.Size, st.OwnerID)
	return ProcessorResponse{
		Success: true,
		Data:    buildGameResponse(st),
	}
}

func (p *Processor) handleGetGame(cmd Command) ProcessorResponse {
	st, err := p.svc.GetGame(cmd.GameID)
	if err != nil {
		return p.serviceError("game not found", err)
	}
	return ProcessorResponse{
		Success: true,
		Data:    buildGameResponse(st),
	}
}

func (p *Processor) handleDeleteGame(cmd Command) ProcessorResponse {
	if err := p.svc.DeleteGame(cmd.GameID, cmd.UserID); err != nil {
		return p.serviceError("failed to delete game", err)
	}
	return ProcessorResponse{Success: true}
}

func (p *Processor) handleAvailableMoves(cmd Command) ProcessorResponse {
	square, ok := cmd.Args.(string)
	if !ok {
		return p.errorResponse("invalid arguments", core.CodeInvalidRequest)
	}

	// Generate from the current board under the service read lock
	pm, err := p.svc.AvailableMoves(cmd.GameID, square)
	if err != nil {
		return p.serviceError("cannot list moves", err)
	}

	// Always encode an array
	moves := pm.Moves
	if moves == nil {
		moves = []core.Square{}
	}
	return ProcessorResponse{
		Success: true,
		Data: core.MovesResponse{
			GameID: cmd.GameID,
			Square: pm.Square.String(),
			Piece:  pm.Kind.String(),
			Player: pm.Player.String(),
			Moves:  moves,
		},
	}
}

// handleMakeMove applies a move for the side to move
func (p *Processor) handleMakeMove(cmd Command) ProcessorResponse {
	args, ok := cmd.Args.(core.MoveRequest)
	if !ok {
		return p.errorResponse("invalid arguments", core.CodeInvalidRequest)
	}

	// Service rejects moves outside the generated set
	st, err := p.svc.MakeMove(cmd.GameID, args.From, args.To)
	if err != nil {
		return p.serviceError("move rejected", err)
	}
	return ProcessorResponse{
		Success: true,
		Data:    buildGameResponse(st),
	}
}

func (p *Processor) handleUndoMove(cmd Command) ProcessorResponse {
	args, ok := cmd.Args.(core.UndoRequest)
	if !ok {
		return p.errorResponse("invalid arguments", core.CodeInvalidRequest)
	}

	st, err := p.svc.UndoMoves(cmd.GameID, args.Count)
	if err != nil {
		return p.serviceError("undo rejected", err)
	}
	return ProcessorResponse{
		Success: true,
		Data:    buildGameResponse(st),
	}
}

func (p *Processor) handleGetBoard(cmd Command) ProcessorResponse {
	st, err := p.svc.GetGame(cmd.GameID)
	if err != nil {
		return p.serviceError("game not found", err)
	}
	return ProcessorResponse{
		Success: true,
		Data: core.BoardResponse{
			Position: st.Position,
			Board:    st.Board,
		},
	}
}

// buildGameResponse constructs standard game response
func buildGameResponse(st service.GameState) core.GameResponse {
	resp := core.GameResponse{
		GameID:   st.GameID,
		OwnerID:  st.OwnerID,
		Position: st.Position,
		Size:     st.Size,
		Turn:     st.Turn.String(),
		Moves:    st.Moves,
	}

	if m := st.LastMove; m != nil {
		resp.LastMove = &core.MoveInfo{
			From:        m.From.String(),
			To:          m.To.String(),
			Piece:       m.Piece.String(),
			PlayerColor: m.Player.String(),
		}
		if m.Captured != 0 {
			resp.LastMove.Captured = m.Captured.String()
		}
	}

	return resp
}

// ErrorCode maps a domain error onto its API error code
func ErrorCode(err error) string {
	switch {
	case errors.Is(err, core.ErrGameNotFound):
		return core.CodeGameNotFound
	case errors.Is(err, core.ErrInvalidSquare), errors.Is(err, core.ErrOffBoard), errors.Is(err, core.ErrEmptySquare):
		return core.CodeInvalidSquare
	case errors.Is(err, core.ErrIllegalMove):
		return core.CodeInvalidMove
	case errors.Is(err, core.ErrNotYourTurn):
		return core.CodeNotYourTurn
	case errors.Is(err, core.ErrInvalidPlacement), errors.Is(err, core.ErrInvalidSize):
		return core.CodeInvalidPosition
	case errors.Is(err, core.ErrNothingToUndo), errors.Is(err, core.ErrInvalidUndoCount):
		return core.CodeInvalidRequest
	case errors.Is(err, core.ErrTooManyGames):
		return core.CodeResourceLimit
	case errors.Is(err, core.ErrForbidden):
		return core.CodeForbidden
	case errors.Is(err, core.ErrStorageDisabled):
		return core.CodeStorageDisabled
	default:
		return core.CodeInternalError
	}
}

func (p *Processor) serviceError(message string, err error) ProcessorResponse {
	code := ErrorCode(err)
	if code == core.CodeInternalError {
		log.Printf("%s: %v", message, err)
	}
	resp := p.errorResponse(message, code)
	resp.Error.Details = err.Error()
	return resp
}

// errorResponse creates error response
func (p *Processor) errorResponse(message, code string) ProcessorResponse {
	return ProcessorResponse{
		Success: false,
		Error: &core.ErrorResponse{
			Error: message,
			Code:  code,
		},
	}
}
