package service

import (
	"time"

	"github.com/wricardo/gogym/game/engine"
)

// CreateSessionRequest selects the board for a new session.
// A non-zero BoardSize overrides the preset named by ConfigID.
type CreateSessionRequest struct {
	ConfigID  string `json:"config_id,omitempty"`
	BoardSize int    `json:"board_size,omitempty"`
	SessionID string `json:"session_id,omitempty"`
}

// SessionInfo provides information about a game session
type SessionInfo struct {
	ID             string             `json:"id"`
	ConfigName     string             `json:"config_name"`
	CreatedAt      time.Time          `json:"created_at"`
	LastAccessedAt time.Time          `json:"last_accessed_at"`
	GameState      *engine.GameState  `json:"game_state"`
	GameConfig     *engine.GameConfig `json:"game_config"`
}

// MoveResult contains the result of a move operation
type MoveResult struct {
	Accepted  bool                `json:"accepted"`
	Player    engine.Stone        `json:"player"`
	Row       int                 `json:"row"`
	Col       int                 `json:"col"`
	Action    int                 `json:"action"`
	Removed   []engine.Coordinate `json:"removed_stones"`
	Reason    engine.RejectReason `json:"reason,omitempty"`
	Message   string              `json:"message"`
	GameState *engine.GameState   `json:"game_state"`
	Events    []GameEvent         `json:"events,omitempty"`
}

// StepResult is the reinforcement-learning view of a single action
type StepResult struct {
	Observation []int    `json:"observation"`
	Reward      float64  `json:"reward"`
	Done        bool     `json:"done"`
	Info        StepInfo `json:"info"`
}

// StepInfo carries the move outcome alongside a step
type StepInfo struct {
	Accepted      bool                `json:"accepted"`
	Player        engine.Stone        `json:"player"`
	Action        int                 `json:"action"`
	Row           int                 `json:"row"`
	Col           int                 `json:"col"`
	Removed       []engine.Coordinate `json:"removed_stones"`
	Reason        engine.RejectReason `json:"reason,omitempty"`
	Error         string              `json:"error,omitempty"`
	CurrentPlayer engine.Stone        `json:"current_player"`
	MoveNumber    int                 `json:"move_number"`
}

// BulkStepResult contains the result of several actions applied in order
type BulkStepResult struct {
	// Summary
	StepsExecuted  int                 `json:"steps_executed"`
	RequestedSteps int                 `json:"requested_steps"`
	Success        bool                `json:"success"`
	StopReasonCode engine.RejectReason `json:"stop_reason_code,omitempty"`
	StoppedReason  string              `json:"stopped_reason,omitempty"`
	StoppedOnStep  int                 `json:"stopped_on_step,omitempty"` // 1-based index of the rejected action
	Truncated      bool                `json:"truncated,omitempty"`
	Limit          int                 `json:"limit,omitempty"`

	TotalReward    float64 `json:"total_reward"`
	StonesCaptured int     `json:"stones_captured"`
	Done           bool    `json:"done"`

	// Per-step trace (only for this call)
	Steps  []StepInfo  `json:"steps"`
	Events []GameEvent `json:"events"`

	GameState    *engine.GameState `json:"game_state"`
	LegalActions []int             `json:"legal_actions"`
}

// LegalActionsResult is the action mask for the player to move
type LegalActionsResult struct {
	CurrentPlayer engine.Stone `json:"current_player"`
	Actions       []int        `json:"actions"`
	Mask          []bool       `json:"mask"`
	BoardSize     int          `json:"board_size"`
}

// GameEvent represents an event that occurred during gameplay
type GameEvent struct {
	Type      string              `json:"type"` // "move", "capture", "rejected", "reset", "game_over"
	Message   string              `json:"message"`
	Timestamp time.Time           `json:"timestamp"`
	Player    engine.Stone        `json:"player,omitempty"`
	Position  *engine.Coordinate  `json:"position,omitempty"`
	Stones    []engine.Coordinate `json:"stones,omitempty"`
}

// Event types
const (
	EventMove     = "move"
	EventCapture  = "capture"
	EventRejected = "rejected"
	EventReset    = "reset"
	EventGameOver = "game_over"
)

// HistoryOptions configures move history retrieval
type HistoryOptions struct {
	Page  int    `json:"page"`
	Limit int    `json:"limit"`
	Order string `json:"order"` // "asc" or "desc"
}

// HistoryResponse contains paginated move history
type HistoryResponse struct {
	Moves       []engine.MoveRecord `json:"moves"`
	TotalMoves  int                 `json:"total_moves"`
	Page        int                 `json:"page"`
	PageSize    int                 `json:"page_size"`
	TotalPages  int                 `json:"total_pages"`
	HasNext     bool                `json:"has_next"`
	HasPrevious bool                `json:"has_previous"`
}

// ConfigInfo provides information about a game configuration
type ConfigInfo struct {
	Filename    string `json:"filename"`
	ConfigID    string `json:"config_id"` // The identifier to use for session creation
	Name        string `json:"name"`      // Display name
	Description string `json:"description"`
	BoardSize   int    `json:"board_size"`
}
