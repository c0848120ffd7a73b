package board

import (
	"fmt"
	"strconv"
	"strings"

	"chessington/internal/core"
	"chessington/internal/piece"
)

const (
	StartingPlacement = "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR"
)

// ParsePlacement reads the piece-placement field of FEN, generalised to any
// square board: ranks are listed top (last row) first, separated by '/', and
// empty runs may use several digits ("12" on a 12x12 board).
func ParsePlacement(text string) (*Board, error) {
	ranks := strings.Split(text, "/")
	size := len(ranks)

	b, err := New(size)
	if err != nil {
		return nil, fmt.Errorf("%w: %d ranks: %v", core.ErrInvalidPlacement, size, err)
	}

	for i, rank := range ranks {
		row := size - 1 - i
		col := 0
		run := 0

		flush := func() {
			col += run
			run = 0
		}

		for j := 0; j < len(rank); j++ {
			ch := rank[j]
			if ch >= '0' && ch <= '9' {
				if run == 0 && ch == '0' {
					return nil, fmt.Errorf("%w: rank %d has a zero-length run", core.ErrInvalidPlacement, row+1)
				}
				run = run*10 + int(ch-'0')
				if col+run > size {
					return nil, fmt.Errorf("%w: rank %d overflows %d files", core.ErrInvalidPlacement, row+1, size)
				}
				continue
			}
			flush()

			kind, ok := piece.KindFromLetter(ch)
			if !ok {
				return nil, fmt.Errorf("%w: unknown piece %q in rank %d", core.ErrInvalidPlacement, ch, row+1)
			}
			if col >= size {
				return nil, fmt.Errorf("%w: too many pieces in rank %d", core.ErrInvalidPlacement, row+1)
			}
			player := core.PlayerBlack
			if ch >= 'A' && ch <= 'Z' {
				player = core.PlayerWhite
			}
			b.squares[row][col] = piece.New(kind, player)
			col++
		}
		flush()

		if col != size {
			return nil, fmt.Errorf("%w: rank %d has %d files, want %d", core.ErrInvalidPlacement, row+1, col, size)
		}
	}

	return b, nil
}

// Placement serializes the board in the format ParsePlacement reads
func (b *Board) Placement() string {
	var sb strings.Builder
	for row := b.size - 1; row >= 0; row-- {
		empty := 0
		for col := 0; col < b.size; col++ {
			p := b.squares[row][col]
			if p == nil {
				empty++
				continue
			}
			if empty > 0 {
				sb.WriteString(strconv.Itoa(empty))
				empty = 0
			}
			sb.WriteByte(p.Symbol())
		}
		if empty > 0 {
			sb.WriteString(strconv.Itoa(empty))
		}
		if row > 0 {
			sb.WriteByte('/')
		}
	}
	return sb.String()
}

// ToASCII creates an ASCII representation of the board
func (b *Board) ToASCII() string {
	var sb strings.Builder
	width := len(strconv.Itoa(b.size))

	files := func() {
		sb.WriteString(strings.Repeat(" ", width+1))
		for f := 0; f < b.size; f++ {
			sb.WriteByte(byte('a' + f))
			if f < b.size-1 {
				sb.WriteByte(' ')
			}
		}
	}

	files()
	sb.WriteByte('\n')
	for r := b.size - 1; r >= 0; r-- {
		sb.WriteString(fmt.Sprintf("%*d ", width, r+1))
		for f := 0; f < b.size; f++ {
			if p := b.squares[r][f]; p == nil {
				sb.WriteString(". ")
			} else {
				sb.WriteString(fmt.Sprintf("%c ", p.Symbol()))
			}
		}
		sb.WriteString(fmt.Sprintf("%d\n", r+1))
	}
	files()

	return sb.String()
}
