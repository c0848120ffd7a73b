package core

import "fmt"

// Player identifies piece ownership and the board-relative direction a side advances in
type Player byte

const (
	PlayerWhite Player = iota + 1
	PlayerBlack
)

// Players lists both sides in move order
var Players = [...]Player{PlayerWhite, PlayerBlack}

func (p Player) String() string {
	if p == PlayerWhite {
		return "w"
	} else if p == PlayerBlack {
		return "b"
	} else {
		return "-"
	}
}

// Name returns the long form used in API responses
func (p Player) Name() string {
	switch p {
	case PlayerWhite:
		return "white"
	case PlayerBlack:
		return "black"
	default:
		return "none"
	}
}

// Valid reports whether p is White or Black
func (p Player) Valid() bool {
	return p == PlayerWhite || p == PlayerBlack
}

func (p Player) Opponent() Player {
	if p == PlayerWhite {
		return PlayerBlack
	}
	return PlayerWhite
}

// ParsePlayer accepts the short ("w"/"b") and long ("white"/"black") forms
func ParsePlayer(s string) (Player, error) {
	switch s {
	case "w", "white":
		return PlayerWhite, nil
	case "b", "black":
		return PlayerBlack, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrInvalidPlayer, s)
	}
}
