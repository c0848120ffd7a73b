package piece

import "chessington/internal/core"

var (
	orthogonals = [...]offset{{1, 0}, {-1, 0}, {0, 1}, {0, -1}}
	diagonals   = [...]offset{{1, 1}, {1, -1}, {-1, 1}, {-1, -1}}

	// Rook directions then bishop directions; shared by queen rays and king steps
	queenDirections = [...]offset{
		{1, 0}, {-1, 0}, {0, 1}, {0, -1},
		{1, 1}, {1, -1}, {-1, 1}, {-1, -1},
	}
)

// rayMoves walks each direction until the edge of the board or the first
// occupied square, which is included only when it holds an opponent piece.
func rayMoves(b Board, player core.Player, from core.Square, directions []offset) ([]core.Square, error) {
	size := b.Size()
	moves := make([]core.Square, 0, 4*size)

	for _, d := range directions {
		for dist := 1; dist < size; dist++ {
			target, ok := from.Offset(dist*d.dr, dist*d.dc, size)
			if !ok {
				break
			}
			occ, err := occupant(b, target)
			if err != nil {
				return nil, err
			}
			if occ == nil {
				moves = append(moves, target)
				continue
			}
			if occ.Player() != player {
				moves = append(moves, target)
			}
			break
		}
	}

	return moves, nil
}
