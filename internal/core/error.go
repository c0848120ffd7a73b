package core

import "errors"

// Domain errors, wrapped with context via %w
var (
	ErrInvalidSize        = errors.New("invalid board size")
	ErrOffBoard           = errors.New("square is off the board")
	ErrInvalidSquare      = errors.New("invalid square notation")
	ErrInvalidPlayer      = errors.New("invalid player")
	ErrInvalidPlacement   = errors.New("invalid placement")
	ErrSquareOccupied     = errors.New("square is occupied")
	ErrEmptySquare        = errors.New("square is empty")
	ErrPieceNotFound      = errors.New("piece is not on the board")
	ErrPieceAlreadyPlaced = errors.New("piece is already on the board")
	ErrIllegalMove        = errors.New("move is not available")
	ErrNotYourTurn        = errors.New("piece does not belong to the side to move")
	ErrNothingToUndo      = errors.New("not enough moves to undo")
	ErrInvalidUndoCount   = errors.New("undo count must be positive")
	ErrGameNotFound       = errors.New("game not found")
	ErrStorageDisabled    = errors.New("storage disabled")
	ErrTooManyGames       = errors.New("game limit reached")
	ErrForbidden          = errors.New("game belongs to another user")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserNotFound       = errors.New("user not found")
)

// Error codes
const (
	CodeGameNotFound      = "GAME_NOT_FOUND"
	CodeInvalidMove       = "INVALID_MOVE"
	CodeInvalidSquare     = "INVALID_SQUARE"
	CodeInvalidPosition   = "INVALID_POSITION"
	CodeNotYourTurn       = "NOT_YOUR_TURN"
	CodeRateLimitExceeded = "RATE_LIMIT_EXCEEDED"
	CodeInvalidContent    = "INVALID_CONTENT_TYPE"
	CodeInvalidRequest    = "INVALID_REQUEST"
	CodeInternalError     = "INTERNAL_ERROR"
	CodeResourceLimit     = "RESOURCE_LIMIT"
	CodeUnauthorized      = "UNAUTHORIZED"
	CodeForbidden         = "FORBIDDEN"
	CodeUserExists        = "USER_EXISTS"
	CodeStorageDisabled   = "STORAGE_DISABLED"
)
