package game

import (
	"fmt"
	"slices"
	"strings"

	"chessington/internal/board"
	"chessington/internal/core"
	"chessington/internal/piece"
)

// StartingPosition is the standard start with White to move
const StartingPosition = board.StartingPlacement + " w"

// Move records one applied move
type Move struct {
	From     core.Square `json:"from"`
	To       core.Square `json:"to"`
	Piece    piece.Kind  `json:"-"`
	Player   core.Player `json:"-"`
	Captured piece.Kind  `json:"-"` // zero when nothing was taken
}

// String is the coordinate form, e.g. "e2e4"
func (m Move) String() string {
	return m.From.String() + m.To.String()
}

type Snapshot struct {
	Board        *board.Board // never mutated once recorded
	PreviousMove *Move        // nil for the initial position
	NextTurn     core.Player
}

// Game tracks a board, the side to move and the position history. It is not
// safe for concurrent use; the service serializes access.
type Game struct {
	snapshots []Snapshot
}

// New starts a game on b with startingTurn to move
func New(b *board.Board, startingTurn core.Player) (*Game, error) {
	if b == nil {
		return nil, fmt.Errorf("%w: no board", core.ErrInvalidPlacement)
	}
	if !startingTurn.Valid() {
		return nil, fmt.Errorf("%w: %d", core.ErrInvalidPlayer, startingTurn)
	}

	return &Game{
		snapshots: []Snapshot{
			{
				Board:    b,
				NextTurn: startingTurn,
			},
		},
	}, nil
}

// FromPosition starts a game from "<placement> [w|b]"; the turn defaults to White
func FromPosition(position string) (*Game, error) {
	b, turn, err := ParsePosition(position)
	if err != nil {
		return nil, err
	}
	return New(b, turn)
}

// ParsePosition splits a position into its board and side to move
func ParsePosition(position string) (*board.Board, core.Player, error) {
	parts := strings.Fields(position)
	if len(parts) < 1 || len(parts) > 2 {
		return nil, 0, fmt.Errorf("%w: expected \"<placement> [w|b]\", got %d fields", core.ErrInvalidPlacement, len(parts))
	}

	b, err := board.ParsePlacement(parts[0])
	if err != nil {
		return nil, 0, err
	}

	turn := core.PlayerWhite
	if len(parts) == 2 {
		if len(parts[1]) != 1 {
			return nil, 0, fmt.Errorf("%w: turn must be 'w' or 'b'", core.ErrInvalidPlacement)
		}
		if turn, err = core.ParsePlayer(parts[1]); err != nil {
			return nil, 0, fmt.Errorf("%w: %v", core.ErrInvalidPlacement, err)
		}
	}

	return b, turn, nil
}

// CurrentSnapshot returns the latest game snapshot
func (g *Game) CurrentSnapshot() Snapshot {
	return g.snapshots[len(g.snapshots)-1]
}

// Board returns the current board. Callers must treat it as read-only.
func (g *Game) Board() *board.Board {
	return g.CurrentSnapshot().Board
}

func (g *Game) Turn() core.Player {
	return g.CurrentSnapshot().NextTurn
}

func (g *Game) Size() int {
	return g.Board().Size()
}

// Position returns "<placement> <w|b>" for the current snapshot
func (g *Game) Position() string {
	return g.Board().Placement() + " " + g.Turn().String()
}

func (g *Game) InitialPosition() string {
	first := g.snapshots[0]
	return first.Board.Placement() + " " + first.NextTurn.String()
}

// AvailableMoves returns the piece on from and its destinations. Any piece
// may be queried, not only the side to move.
func (g *Game) AvailableMoves(from core.Square) (*piece.Piece, []core.Square, error) {
	b := g.Board()
	p, err := b.GetPiece(from)
	if err != nil {
		return nil, nil, err
	}
	if p == nil {
		return nil, nil, fmt.Errorf("%w: %s", core.ErrEmptySquare, from)
	}

	moves, err := p.AvailableMoves(b)
	if err != nil {
		return nil, nil, err
	}
	return p, moves, nil
}

// MakeMove moves the side-to-move's piece on from to to, which must be one
// of that piece's available moves, then passes the turn.
func (g *Game) MakeMove(from, to core.Square) (Move, error) {
	p, moves, err := g.AvailableMoves(from)
	if err != nil {
		return Move{}, err
	}
	if p.Player() != g.Turn() {
		return Move{}, fmt.Errorf("%w: %s on %s, %s to move", core.ErrNotYourTurn, p, from, g.Turn().Name())
	}
	if !slices.Contains(moves, to) {
		return Move{}, fmt.Errorf("%w: %s %s-%s", core.ErrIllegalMove, p, from, to)
	}

	next := g.Board().Clone()
	move := Move{
		From:   from,
		To:     to,
		Piece:  p.Kind(),
		Player: p.Player(),
	}
	if victim, _ := next.GetPiece(to); victim != nil {
		move.Captured = victim.Kind()
	}

	if err := piece.MoveTo(next, p, to); err != nil {
		return Move{}, err
	}

	g.snapshots = append(g.snapshots, Snapshot{
		Board:        next,
		PreviousMove: &move,
		NextTurn:     p.Player().Opponent(),
	})
	return move, nil
}

func (g *Game) UndoMoves(count int) error {
	if count < 1 {
		return fmt.Errorf("%w: %d", core.ErrInvalidUndoCount, count)
	}

	availableMoves := len(g.snapshots) - 1
	if availableMoves < count {
		return fmt.Errorf("%w: cannot undo %d moves, only %d available", core.ErrNothingToUndo, count, availableMoves)
	}

	g.snapshots = g.snapshots[:len(g.snapshots)-count]
	return nil
}

// History returns applied moves in order
func (g *Game) History() []Move {
	moves := make([]Move, 0, len(g.snapshots)-1)
	for _, s := range g.snapshots[1:] {
		moves = append(moves, *s.PreviousMove)
	}
	return moves
}

// Moves returns the coordinate form of every applied move
func (g *Game) Moves() []string {
	moves := []string{}
	for _, m := range g.History() {
		moves = append(moves, m.String())
	}
	return moves
}

func (g *Game) MoveCount() int {
	return len(g.snapshots) - 1
}

// LastMove returns the most recent move, nil at the initial position
func (g *Game) LastMove() *Move {
	return g.CurrentSnapshot().PreviousMove
}
