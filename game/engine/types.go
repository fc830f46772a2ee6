package engine

import "fmt"

// Stone is the content of a single board point
type Stone int

const (
	Empty Stone = 0
	Black Stone = 1
	White Stone = 2
)

const (
	// Validation constants
	MinBoardSize     = 1
	MaxBoardSize     = 25
	DefaultBoardSize = 19
	MaxBulkMoves     = 50
)

// String returns the lowercase colour name
func (s Stone) String() string {
	switch s {
	case Empty:
		return "empty"
	case Black:
		return "black"
	case White:
		return "white"
	default:
		return fmt.Sprintf("stone(%d)", int(s))
	}
}

// Valid reports whether s is one of Empty, Black or White
func (s Stone) Valid() bool {
	return s == Empty || s == Black || s == White
}

// IsPlayer reports whether s is a colour that can move
func (s Stone) IsPlayer() bool {
	return s == Black || s == White
}

// Opponent returns the other player's colour. Empty has no opponent.
func (s Stone) Opponent() Stone {
	switch s {
	case Black:
		return White
	case White:
		return Black
	default:
		return Empty
	}
}

// Coordinate addresses a board point by row and column, both 0-based
type Coordinate struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

func (c Coordinate) String() string {
	return fmt.Sprintf("(%d,%d)", c.Row, c.Col)
}

// Status is the controller state of a game
type Status string

const (
	StatusAwaitingMove Status = "awaiting_move"
	StatusEnded        Status = "ended"
)

// GameConfig represents a board preset loaded from the configs directory
type GameConfig struct {
	Name        string `json:"name" mapstructure:"name"`
	Description string `json:"description" mapstructure:"description"`
	BoardSize   int    `json:"board_size" mapstructure:"board_size"`
}

// MoveRecord is a single accepted move in the game history
type MoveRecord struct {
	MoveNumber int          `json:"move_number"`
	Player     Stone        `json:"player"`
	Coordinate Coordinate   `json:"coordinate"`
	Action     int          `json:"action"`
	Removed    []Coordinate `json:"removed,omitempty"`
	Timestamp  int64        `json:"timestamp"`
}

// GameState is a serialisable snapshot of a game
type GameState struct {
	BoardSize     int           `json:"board_size"`
	Board         [][]Stone     `json:"board"`
	CurrentPlayer Stone         `json:"current_player"`
	Status        Status        `json:"status"`
	MoveNumber    int           `json:"move_number"`
	Captures      map[Stone]int `json:"captures"`
	LastMove      *MoveRecord   `json:"last_move,omitempty"`
	MoveHistory   []MoveRecord  `json:"move_history"`
	ConfigName    string        `json:"config_name,omitempty"`
}

// MoveResult is the outcome of SubmitMove / SubmitAction
type MoveResult struct {
	Accepted   bool         `json:"accepted"`
	Player     Stone        `json:"player"`
	Coordinate Coordinate   `json:"coordinate"`
	Action     int          `json:"action"`
	Removed    []Coordinate `json:"removed_stones"`
	Reason     RejectReason `json:"reason,omitempty"`
	Err        error        `json:"-"`
}
