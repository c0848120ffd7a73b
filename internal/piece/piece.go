// Package piece implements per-kind pseudo-legal move generation.
//
// A Piece carries identity and ownership only. Its square is always looked up
// through the Board it is queried against, so the board stays the single
// source of positional truth.
package piece

import (
	"fmt"

	"chessington/internal/core"

	"github.com/google/uuid"
)

// Board is the read-only view move generation needs
type Board interface {
	// FindPiece returns the square holding p, or an error wrapping core.ErrPieceNotFound
	FindPiece(p *Piece) (core.Square, error)
	// GetPiece returns the occupant of sq, nil for an empty square
	GetPiece(sq core.Square) (*Piece, error)
	Size() int
}

// Mover is a Board that can relocate pieces
type Mover interface {
	Board
	MovePiece(from, to core.Square) error
}

type Kind uint8

const (
	Pawn Kind = iota + 1
	Knight
	Bishop
	Rook
	Queen
	King
)

// Kinds lists every piece kind
var Kinds = [...]Kind{Pawn, Knight, Bishop, Rook, Queen, King}

func (k Kind) String() string {
	switch k {
	case Pawn:
		return "pawn"
	case Knight:
		return "knight"
	case Bishop:
		return "bishop"
	case Rook:
		return "rook"
	case Queen:
		return "queen"
	case King:
		return "king"
	default:
		return "unknown"
	}
}

// Letter returns the lower-case placement letter (p, n, b, r, q, k)
func (k Kind) Letter() byte {
	switch k {
	case Pawn:
		return 'p'
	case Knight:
		return 'n'
	case Bishop:
		return 'b'
	case Rook:
		return 'r'
	case Queen:
		return 'q'
	case King:
		return 'k'
	default:
		return '?'
	}
}

// KindFromLetter is the inverse of Letter and accepts either case
func KindFromLetter(ch byte) (Kind, bool) {
	if ch >= 'A' && ch <= 'Z' {
		ch += 'a' - 'A'
	}
	for _, k := range Kinds {
		if k.Letter() == ch {
			return k, true
		}
	}
	return 0, false
}

// Piece is an identity object. Two pieces of the same kind and player are
// still distinct pieces; compare by pointer or ID.
type Piece struct {
	id     string
	kind   Kind
	player core.Player
}

func New(kind Kind, player core.Player) *Piece {
	return &Piece{
		id:     uuid.New().String(),
		kind:   kind,
		player: player,
	}
}

func (p *Piece) ID() string          { return p.id }
func (p *Piece) Kind() Kind          { return p.kind }
func (p *Piece) Player() core.Player { return p.player }

// Symbol is the placement letter, upper case for White
func (p *Piece) Symbol() byte {
	ch := p.kind.Letter()
	if p.player == core.PlayerWhite {
		ch -= 'a' - 'A'
	}
	return ch
}

func (p *Piece) String() string {
	return fmt.Sprintf("%s %s", p.player.Name(), p.kind)
}

// AvailableMoves returns the squares this piece may move to on b, ignoring
// king safety. The result is never nil. It fails only if p is not on b.
func (p *Piece) AvailableMoves(b Board) ([]core.Square, error) {
	from, err := b.FindPiece(p)
	if err != nil {
		return nil, fmt.Errorf("available moves for %s: %w", p, err)
	}

	switch p.kind {
	case Pawn:
		return pawnMoves(b, p.player, from)
	case Knight:
		return leaperMoves(b, p.player, from, knightOffsets[:])
	case Bishop:
		return rayMoves(b, p.player, from, diagonals[:])
	case Rook:
		return rayMoves(b, p.player, from, orthogonals[:])
	case Queen:
		return rayMoves(b, p.player, from, queenDirections[:])
	case King:
		return leaperMoves(b, p.player, from, queenDirections[:])
	default:
		return []core.Square{}, nil
	}
}

// MoveTo relocates p to dest. It performs no legality check; dest should come
// from AvailableMoves.
func MoveTo(b Mover, p *Piece, dest core.Square) error {
	from, err := b.FindPiece(p)
	if err != nil {
		return fmt.Errorf("move %s: %w", p, err)
	}
	return b.MovePiece(from, dest)
}

func occupant(b Board, sq core.Square) (*Piece, error) {
	occ, err := b.GetPiece(sq)
	if err != nil {
		return nil, fmt.Errorf("lookup %s: %w", sq, err)
	}
	return occ, nil
}
