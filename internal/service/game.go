package service

import (
	"fmt"
	"time"

	"chessington/internal/core"
	"chessington/internal/game"
	"chessington/internal/piece"
	"chessington/internal/storage"

	"github.com/google/uuid"
)

// GameState is a copy of a game taken under the service lock
type GameState struct {
	GameID   string
	OwnerID  string
	Position string
	Size     int
	Turn     core.Player
	Moves    []string
	LastMove *game.Move
	Board    string // ASCII diagram
}

// PieceMoves is the result of a move generation query
type PieceMoves struct {
	Square core.Square
	Kind   piece.Kind
	Player core.Player
	Moves  []core.Square
}

func (e *entry) state(id string) GameState {
	g := e.game
	st := GameState{
		GameID:   id,
		OwnerID:  e.ownerID,
		Position: g.Position(),
		Size:     g.Size(),
		Turn:     g.Turn(),
		Moves:    g.Moves(),
		Board:    g.Board().ToASCII(),
	}
	if m := g.LastMove(); m != nil {
		last := *m
		st.LastMove = &last
	}
	return st
}

// CreateGame starts a game from position, or the standard start when empty
func (s *Service) CreateGame(ownerID, position string) (GameState, error) {
	if position == "" {
		position = game.StartingPosition
	}
	// Parse before taking the lock
	g, err := game.FromPosition(position)
	if err != nil {
		return GameState{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	// Enforce live game limit
	if len(s.games) >= MaxGames {
		return GameState{}, fmt.Errorf("%w: %d live games", core.ErrTooManyGames, MaxGames)
	}

	// Generate game ID
	id := s.generateGameID()
	e := &entry{game: g, ownerID: ownerID}
	e.touch(s.now())
	s.games[id] = e

	// Persist if storage enabled
	if s.store != nil {
		s.store.RecordNewGame(storage.GameRecord{
			GameID:          id,
			OwnerID:         ownerID,
			InitialPosition: g.InitialPosition(),
			BoardSize:       g.Size(),
			StartTimeUTC:    time.Now().UTC(),
		})
	}

	return e.state(id), nil
}

// generateGameID must be called with the write lock held
func (s *Service) generateGameID() string {
	for {
		id := uuid.New().String()
		if _, exists := s.games[id]; !exists {
			return id
		}
	}
}

// GetGame returns the current state of a game
func (s *Service) GetGame(gameID string) (GameState, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, ok := s.games[gameID]
	if !ok {
		return GameState{}, fmt.Errorf("%w: %s", core.ErrGameNotFound, gameID)
	}
	e.touch(s.now())
	return e.state(gameID), nil
}

// DeleteGame removes a game. Owned games may only be deleted by their owner.
func (s *Service) DeleteGame(gameID, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.games[gameID]
	if !ok {
		return fmt.Errorf("%w: %s", core.ErrGameNotFound, gameID)
	}
	if e.ownerID != "" && e.ownerID != userID {
		return core.ErrForbidden
	}

	delete(s.games, gameID)
	if s.store != nil {
		s.store.DeleteGame(gameID)
	}
	return nil
}

// AvailableMoves lists the destinations of the piece on square
func (s *Service) AvailableMoves(gameID, square string) (PieceMoves, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, ok := s.games[gameID]
	if !ok {
		return PieceMoves{}, fmt.Errorf("%w: %s", core.ErrGameNotFound, gameID)
	}
	e.touch(s.now())

	from, err := e.game.Board().ParseSquare(square)
	if err != nil {
		return PieceMoves{}, err
	}
	p, moves, err := e.game.AvailableMoves(from)
	if err != nil {
		return PieceMoves{}, err
	}

	return PieceMoves{
		Square: from,
		Kind:   p.Kind(),
		Player: p.Player(),
		Moves:  moves,
	}, nil
}

// MakeMove applies from-to for the side to move
func (s *Service) MakeMove(gameID, from, to string) (GameState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.games[gameID]
	if !ok {
		return GameState{}, fmt.Errorf("%w: %s", core.ErrGameNotFound, gameID)
	}

	b := e.game.Board()
	fromSq, err := b.ParseSquare(from)
	if err != nil {
		return GameState{}, err
	}
	toSq, err := b.ParseSquare(to)
	if err != nil {
		return GameState{}, err
	}

	// Apply move to game state
	move, err := e.game.MakeMove(fromSq, toSq)
	if err != nil {
		return GameState{}, err
	}
	e.touch(s.now())

	// Persist the move if storage enabled
	if s.store != nil {
		record := storage.MoveRecord{
			GameID:        gameID,
			MoveNumber:    e.game.MoveCount(),
			FromSquare:    move.From.String(),
			ToSquare:      move.To.String(),
			Piece:         move.Piece.String(),
			PositionAfter: e.game.Position(),
			PlayerColor:   move.Player.String(),
			MoveTimeUTC:   time.Now().UTC(),
		}
		if move.Captured != 0 {
			record.Captured = move.Captured.String()
		}
		s.store.RecordMove(record)
	}

	return e.state(gameID), nil
}

// UndoMoves takes back count moves
func (s *Service) UndoMoves(gameID string, count int) (GameState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.games[gameID]
	if !ok {
		return GameState{}, fmt.Errorf("%w: %s", core.ErrGameNotFound, gameID)
	}

	if err := e.game.UndoMoves(count); err != nil {
		return GameState{}, err
	}
	e.touch(s.now())

	// Drop undone moves from storage
	if s.store != nil {
		s.store.DeleteUndoneMoves(gameID, e.game.MoveCount())
	}

	return e.state(gameID), nil
}
