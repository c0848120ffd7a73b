package piece

import "chessington/internal/core"

// pawnRule holds the board-relative parameters of a pawn for one player
type pawnRule struct {
	step     int // row increment for one forward step
	startRow int
	edgeRow  int // farthest rank; a pawn here has no moves
	enemy    core.Player
}

func pawnRuleFor(player core.Player, size int) pawnRule {
	if player == core.PlayerWhite {
		return pawnRule{step: 1, startRow: 1, edgeRow: size - 1, enemy: core.PlayerBlack}
	}
	return pawnRule{step: -1, startRow: size - 2, edgeRow: 0, enemy: core.PlayerWhite}
}

// pawnMoves lists forward pushes first, then diagonal captures (left file, right file).
// The double step is offered only from the starting row and only when both
// squares ahead are empty.
func pawnMoves(b Board, player core.Player, from core.Square) ([]core.Square, error) {
	size := b.Size()
	rule := pawnRuleFor(player, size)
	moves := make([]core.Square, 0, 4)

	if from.Row() == rule.edgeRow {
		return moves, nil
	}

	// Derived from position, never stored on the piece
	firstMove := from.Row() == rule.startRow

	if one, ok := from.Offset(rule.step, 0, size); ok {
		occ, err := occupant(b, one)
		if err != nil {
			return nil, err
		}
		if occ == nil {
			moves = append(moves, one)

			if firstMove {
				if two, ok := from.Offset(2*rule.step, 0, size); ok {
					occ, err := occupant(b, two)
					if err != nil {
						return nil, err
					}
					if occ == nil {
						moves = append(moves, two)
					}
				}
			}
		}
	}

	for _, dc := range [...]int{-1, 1} {
		target, ok := from.Offset(rule.step, dc, size)
		if !ok {
			continue
		}
		occ, err := occupant(b, target)
		if err != nil {
			return nil, err
		}
		if occ != nil && occ.Player() == rule.enemy {
			moves = append(moves, target)
		}
	}

	return moves, nil
}
