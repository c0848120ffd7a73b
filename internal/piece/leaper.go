package piece

import "chessington/internal/core"

// offset is a (row, col) displacement
type offset struct {
	dr, dc int
}

var knightOffsets = [...]offset{
	{2, 1}, {2, -1}, {-2, 1}, {-2, -1},
	{1, 2}, {1, -2}, {-1, 2}, {-1, -2},
}

// leaperMoves handles pieces that jump a fixed offset: knight, and king using
// the eight unit directions. A target is kept when empty or held by the opponent.
func leaperMoves(b Board, player core.Player, from core.Square, offsets []offset) ([]core.Square, error) {
	size := b.Size()
	moves := make([]core.Square, 0, len(offsets))

	for _, o := range offsets {
		target, ok := from.Offset(o.dr, o.dc, size)
		if !ok {
			continue
		}
		occ, err := occupant(b, target)
		if err != nil {
			return nil, err
		}
		if occ == nil || occ.Player() != player {
			moves = append(moves, target)
		}
	}

	return moves, nil
}
