package core

// Request types

type CreateGameRequest struct {
	// Position is "<placement> <w|b>"; empty means the standard 8x8 start
	Position string `json:"position,omitempty" validate:"omitempty,max=800"`
}

type MoveRequest struct {
	From string `json:"from" validate:"required,min=2,max=3,alphanum"`
	To   string `json:"to" validate:"required,min=2,max=3,alphanum"`
}

type UndoRequest struct {
	Count int `json:"count" validate:"required,min=1,max=300"`
}

type RegisterRequest struct {
	Username string `json:"username" validate:"required,min=1,max=40"`
	Email    string `json:"email" validate:"omitempty,email,max=255"`
	Password string `json:"password" validate:"required,min=8,max=128"`
}

type LoginRequest struct {
	Identifier string `json:"identifier" validate:"required"` // username or email
	Password   string `json:"password" validate:"required"`
}

// Response types

type GameResponse struct {
	GameID   string    `json:"gameId"`
	OwnerID  string    `json:"ownerId,omitempty"`
	Position string    `json:"position"`
	Size     int       `json:"size"`
	Turn     string    `json:"turn"` // "w" or "b"
	Moves    []string  `json:"moves"`
	LastMove *MoveInfo `json:"lastMove,omitempty"`
}

type MoveInfo struct {
	From        string `json:"from"`
	To          string `json:"to"`
	Piece       string `json:"piece"`
	Captured    string `json:"captured,omitempty"`
	PlayerColor string `json:"playerColor"` // "w" or "b"
}

type MovesResponse struct {
	GameID string   `json:"gameId"`
	Square string   `json:"square"`
	Piece  string   `json:"piece"`
	Player string   `json:"player"`
	Moves  []Square `json:"moves"`
}

type BoardResponse struct {
	Position string `json:"position"`
	Board    string `json:"board"` // ASCII representation
}

type AuthResponse struct {
	Token    string `json:"token"`
	UserID   string `json:"userId"`
	Username string `json:"username"`
	Email    string `json:"email,omitempty"`
	// Unix seconds
	ExpiresAt int64 `json:"expiresAt"`
}

type UserResponse struct {
	UserID    string `json:"userId"`
	Username  string `json:"username"`
	Email     string `json:"email,omitempty"`
	CreatedAt int64  `json:"createdAt"`
}

type HealthResponse struct {
	Status  string `json:"status"`
	Time    int64  `json:"time"`
	Storage string `json:"storage"`
	Games   int    `json:"games"`
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code"`
	Details string `json:"details,omitempty"`
}
