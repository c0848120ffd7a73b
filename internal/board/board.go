package board

import (
	"fmt"

	"chessington/internal/core"
	"chessington/internal/piece"
)

const DefaultSize = 8

// Board owns the square -> piece mapping. A piece's square is always derived
// from this grid, never cached elsewhere. Board is not safe for concurrent
// use; its owner serializes moves against queries.
type Board struct {
	size    int
	squares [][]*piece.Piece // [row][col]
}

// New returns an empty size×size board
func New(size int) (*Board, error) {
	if size < 1 || size > core.MaxBoardSize {
		return nil, fmt.Errorf("%w: %d (must be 1-%d)", core.ErrInvalidSize, size, core.MaxBoardSize)
	}

	squares := make([][]*piece.Piece, size)
	for r := range squares {
		squares[r] = make([]*piece.Piece, size)
	}
	return &Board{size: size, squares: squares}, nil
}

// NewStandard returns the classic 8x8 starting position
func NewStandard() *Board {
	b, err := ParsePlacement(StartingPlacement)
	if err != nil {
		panic(err)
	}
	return b
}

func (b *Board) Size() int {
	return b.size
}

// Contains reports whether sq lies on this board
func (b *Board) Contains(sq core.Square) bool {
	return sq.Row() < b.size && sq.Col() < b.size
}

// ParseSquare reads algebraic notation validated against this board's size
func (b *Board) ParseSquare(s string) (core.Square, error) {
	return core.ParseSquare(s, b.size)
}

func (b *Board) checkSquare(sq core.Square) error {
	if !b.Contains(sq) {
		return fmt.Errorf("%w: %s on %dx%d board", core.ErrOffBoard, sq, b.size, b.size)
	}
	return nil
}

// GetPiece returns the occupant of sq, nil when empty
func (b *Board) GetPiece(sq core.Square) (*piece.Piece, error) {
	if err := b.checkSquare(sq); err != nil {
		return nil, err
	}
	return b.squares[sq.Row()][sq.Col()], nil
}

// FindPiece scans for p by identity
func (b *Board) FindPiece(p *piece.Piece) (core.Square, error) {
	if p != nil {
		for r, row := range b.squares {
			for c, occ := range row {
				if occ == p {
					return core.MustSquare(r, c, b.size), nil
				}
			}
		}
	}
	return core.Square{}, fmt.Errorf("%w: %v", core.ErrPieceNotFound, p)
}

// Place puts p on an empty square. A piece may only be on the board once.
func (b *Board) Place(p *piece.Piece, sq core.Square) error {
	if err := b.checkSquare(sq); err != nil {
		return err
	}
	if occ := b.squares[sq.Row()][sq.Col()]; occ != nil {
		return fmt.Errorf("%w: %s holds %s", core.ErrSquareOccupied, sq, occ)
	}
	if at, err := b.FindPiece(p); err == nil {
		return fmt.Errorf("%w: %s at %s", core.ErrPieceAlreadyPlaced, p, at)
	}
	b.squares[sq.Row()][sq.Col()] = p
	return nil
}

// Remove empties sq and returns what was there
func (b *Board) Remove(sq core.Square) (*piece.Piece, error) {
	if err := b.checkSquare(sq); err != nil {
		return nil, err
	}
	p := b.squares[sq.Row()][sq.Col()]
	if p == nil {
		return nil, fmt.Errorf("%w: %s", core.ErrEmptySquare, sq)
	}
	b.squares[sq.Row()][sq.Col()] = nil
	return p, nil
}

// MovePiece relocates the occupant of from to to, replacing any piece on to
func (b *Board) MovePiece(from, to core.Square) error {
	if err := b.checkSquare(from); err != nil {
		return err
	}
	if err := b.checkSquare(to); err != nil {
		return err
	}
	p := b.squares[from.Row()][from.Col()]
	if p == nil {
		return fmt.Errorf("%w: %s", core.ErrEmptySquare, from)
	}
	if from == to {
		return nil
	}
	b.squares[to.Row()][to.Col()] = p
	b.squares[from.Row()][from.Col()] = nil
	return nil
}

// Placement pairs a piece with the square it occupies
type Placement struct {
	Piece  *piece.Piece
	Square core.Square
}

// Pieces lists the pieces of player in row-major order; pass 0 for both sides
func (b *Board) Pieces(player core.Player) []Placement {
	var out []Placement
	for r, row := range b.squares {
		for c, p := range row {
			if p == nil {
				continue
			}
			if player != 0 && p.Player() != player {
				continue
			}
			out = append(out, Placement{Piece: p, Square: core.MustSquare(r, c, b.size)})
		}
	}
	return out
}

// Clone copies the grid; pieces are shared since they carry no position
func (b *Board) Clone() *Board {
	nb, _ := New(b.size)
	for r, row := range b.squares {
		copy(nb.squares[r], row)
	}
	return nb
}
