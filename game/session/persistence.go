package session

import (
	"context"
	"fmt"
	"time"

	"github.com/wricardo/gogym/game/engine"
	"github.com/wricardo/gogym/game/service"
)

// SessionPersistence defines the interface for persisting sessions
type SessionPersistence interface {
	// Save persists a session to storage
	Save(ctx context.Context, session *service.Session) error

	// Load retrieves a session from storage by ID
	Load(ctx context.Context, id string) (*service.Session, error)

	// Delete removes a session from storage
	Delete(ctx context.Context, id string) error

	// ListAll returns all persisted session IDs
	ListAll(ctx context.Context) ([]string, error)

	// Exists checks if a session exists in storage
	Exists(ctx context.Context, id string) (bool, error)
}

// Toucher is implemented by stores that expire idle sessions
type Toucher interface {
	Touch(ctx context.Context, id string) error
}

// PersistedSessionData is the stored snapshot of a session
type PersistedSessionData struct {
	ID             string             `json:"id"`
	ConfigName     string             `json:"config_name"`
	BoardSize      int                `json:"board_size"`
	Config         *engine.GameConfig `json:"config"`
	CreatedAt      time.Time          `json:"created_at"`
	LastAccessedAt time.Time          `json:"last_accessed_at"`
	GameState      *engine.GameState  `json:"game_state"`
}

// Snapshot captures a session for storage. The caller must hold the lock
// that guards the session's engine.
func Snapshot(session *service.Session) (*PersistedSessionData, error) {
	if session == nil || session.Engine == nil {
		return nil, fmt.Errorf("session cannot be nil")
	}

	config := session.Config
	if config == nil {
		config = engine.ConfigForSize(session.Engine.BoardSize())
	}

	return &PersistedSessionData{
		ID:             session.ID,
		ConfigName:     config.Name,
		BoardSize:      session.Engine.BoardSize(),
		Config:         config,
		CreatedAt:      session.CreatedAt,
		LastAccessedAt: session.LastAccessedAt,
		GameState:      session.Engine.GetState(),
	}, nil
}

// Restore rebuilds a session from a snapshot. The board is checked for
// shape and cell values before the engine accepts it.
func Restore(data *PersistedSessionData) (*service.Session, error) {
	if data == nil || data.GameState == nil {
		return nil, fmt.Errorf("%w: snapshot has no game state", engine.ErrInvalidState)
	}

	config := data.Config
	if config == nil {
		config = engine.ConfigForSize(data.BoardSize)
	}
	if data.BoardSize != 0 && config.BoardSize != data.BoardSize {
		return nil, fmt.Errorf("%w: config board_size %d, snapshot board_size %d",
			engine.ErrInvalidState, config.BoardSize, data.BoardSize)
	}

	gameEngine, err := engine.NewEngineWithConfig(config)
	if err != nil {
		return nil, fmt.Errorf("failed to create game engine: %w", err)
	}
	if err := gameEngine.SetState(data.GameState); err != nil {
		return nil, fmt.Errorf("failed to set game state: %w", err)
	}
	if gameEngine.BoardSize() != config.BoardSize {
		return nil, fmt.Errorf("%w: stored board is %dx%d, config wants %d",
			engine.ErrInvalidState, gameEngine.BoardSize(), gameEngine.BoardSize(), config.BoardSize)
	}

	return &service.Session{
		ID:             data.ID,
		Engine:         gameEngine,
		Config:         config,
		CreatedAt:      data.CreatedAt,
		LastAccessedAt: data.LastAccessedAt,
	}, nil
}
