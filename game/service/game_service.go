package service

import (
	"context"
	"time"

	"github.com/wricardo/gogym/game/engine"
)

// GameService defines all game-related operations
type GameService interface {
	// Session Management
	CreateSession(ctx context.Context, req CreateSessionRequest) (*SessionInfo, error)
	GetSession(ctx context.Context, sessionID string) (*SessionInfo, error)
	ListSessions(ctx context.Context) ([]*SessionInfo, error)
	DeleteSession(ctx context.Context, sessionID string) error

	// Game Operations
	Move(ctx context.Context, sessionID string, row, col int) (*MoveResult, error)
	Step(ctx context.Context, sessionID string, action int) (*StepResult, error)
	BulkStep(ctx context.Context, sessionID string, actions []int) (*BulkStepResult, error)
	Reset(ctx context.Context, sessionID string) (*engine.GameState, error)
	End(ctx context.Context, sessionID string) (*engine.GameState, error)

	// Game State
	GetGameState(ctx context.Context, sessionID string) (*engine.GameState, error)
	LegalActions(ctx context.Context, sessionID string) (*LegalActionsResult, error)
	GetMoveHistory(ctx context.Context, sessionID string, opts HistoryOptions) (*HistoryResponse, error)

	// Configuration
	ListConfigs(ctx context.Context) ([]*ConfigInfo, error)
	LoadConfig(ctx context.Context, configName string) (*engine.GameConfig, error)
	SaveConfig(ctx context.Context, configName string, config *engine.GameConfig) error

	// Maintenance
	SaveAll(ctx context.Context) error
	CleanupExpired(ctx context.Context, maxAge time.Duration) int
}

// SessionManager defines session storage operations
type SessionManager interface {
	Create(ctx context.Context, id string, config *engine.GameConfig) (*Session, error)
	Get(ctx context.Context, id string) (*Session, error)
	GetOrCreate(ctx context.Context, id string, config *engine.GameConfig) (*Session, error)
	List() []*Session
	Delete(ctx context.Context, id string) error
	UpdateLastAccessed(ctx context.Context, id string) error
	Save(ctx context.Context, id string) error
	SaveAllSessions(ctx context.Context) error
	CleanupExpiredSessions(maxAge time.Duration) int
}

// ConfigManager handles game configuration loading
type ConfigManager interface {
	LoadConfig(name string) (*engine.GameConfig, error)
	ListConfigs() ([]*ConfigInfo, error)
	GetDefault() *engine.GameConfig
	SaveConfig(name string, config *engine.GameConfig) error
}

// Session represents an active game session
type Session struct {
	ID             string
	Engine         *engine.GameEngine
	Config         *engine.GameConfig
	CreatedAt      time.Time
	LastAccessedAt time.Time
}
