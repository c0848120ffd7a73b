package core

import (
	"fmt"
	"strconv"
)

// MaxBoardSize is bounded by the file letters available for algebraic names
const MaxBoardSize = 26

// Square is an immutable board coordinate. Row 0 is White's back rank.
// The zero value is a1; squares are built through NewSquare, MustSquare or
// ParseSquare so that every Square in circulation was checked against a board size.
type Square struct {
	row int
	col int
}

// NewSquare validates (row, col) against a size×size board
func NewSquare(row, col, size int) (Square, error) {
	if size < 1 || size > MaxBoardSize {
		return Square{}, fmt.Errorf("%w: %d", ErrInvalidSize, size)
	}
	if row < 0 || row >= size || col < 0 || col >= size {
		return Square{}, fmt.Errorf("%w: (%d,%d) on %dx%d board", ErrOffBoard, row, col, size, size)
	}
	return Square{row: row, col: col}, nil
}

// MustSquare is NewSquare for coordinates known to be valid; it panics otherwise
func MustSquare(row, col, size int) Square {
	sq, err := NewSquare(row, col, size)
	if err != nil {
		panic(err)
	}
	return sq
}

// ParseSquare reads algebraic notation such as "e2" or "c10"
func ParseSquare(s string, size int) (Square, error) {
	if len(s) < 2 || len(s) > 3 {
		return Square{}, fmt.Errorf("%w: %q", ErrInvalidSquare, s)
	}
	file := s[0]
	if file < 'a' || file > 'z' {
		return Square{}, fmt.Errorf("%w: %q", ErrInvalidSquare, s)
	}
	rank, err := strconv.Atoi(s[1:])
	if err != nil || s[1] == '0' || s[1] == '+' || s[1] == '-' {
		return Square{}, fmt.Errorf("%w: %q", ErrInvalidSquare, s)
	}
	return NewSquare(rank-1, int(file-'a'), size)
}

func (s Square) Row() int { return s.row }
func (s Square) Col() int { return s.col }

// Offset returns the square dr rows and dc columns away, if it is on the board
func (s Square) Offset(dr, dc, size int) (Square, bool) {
	sq, err := NewSquare(s.row+dr, s.col+dc, size)
	if err != nil {
		return Square{}, false
	}
	return sq, true
}

func (s Square) String() string {
	return fmt.Sprintf("%c%d", 'a'+s.col, s.row+1)
}

func (s Square) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText only checks against the largest board; callers holding a
// board re-validate with its size.
func (s *Square) UnmarshalText(text []byte) error {
	sq, err := ParseSquare(string(text), MaxBoardSize)
	if err != nil {
		return err
	}
	*s = sq
	return nil
}
