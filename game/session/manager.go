package session

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/wricardo/gogym/game/engine"
	"github.com/wricardo/gogym/game/service"
)

var (
	ErrSessionNotFound      = errors.New("session not found")
	ErrSessionAlreadyExists = errors.New("session already exists")
	ErrInvalidSessionID     = errors.New("invalid session ID")
)

// sessionIDLength is how many hex characters of a UUID make up a generated id
const sessionIDLength = 8

// Manager handles game session lifecycle
type Manager struct {
	sessions    map[string]*service.Session
	persistence SessionPersistence
	logger      *zap.SugaredLogger
	mu          sync.RWMutex
}

// NewManager creates a new in-memory session manager
func NewManager(logger *zap.SugaredLogger) *Manager {
	return NewManagerWithPersistence(nil, logger)
}

// NewManagerWithPersistence creates a new session manager backed by a session store
func NewManagerWithPersistence(persistence SessionPersistence, logger *zap.SugaredLogger) *Manager {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &Manager{
		sessions:    make(map[string]*service.Session),
		persistence: persistence,
		logger:      logger,
	}
}

// Create creates a new session with the given ID and configuration.
// An empty id is replaced by a generated one.
func (m *Manager) Create(ctx context.Context, id string, config *engine.GameConfig) (*service.Session, error) {
	if id == "" {
		id = generateSessionID()
	} else if err := validateSessionID(id); err != nil {
		return nil, err
	}

	eng, err := engine.NewEngineWithConfig(config)
	if err != nil {
		return nil, fmt.Errorf("failed to create engine: %w", err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.sessionExists(id) {
		return nil, fmt.Errorf("%w: %s", ErrSessionAlreadyExists, id)
	}

	now := time.Now()
	session := &service.Session{
		ID:             id,
		Engine:         eng,
		Config:         config,
		CreatedAt:      now,
		LastAccessedAt: now,
	}
	m.sessions[strings.ToLower(id)] = session

	// A store failure does not fail the creation
	if m.persistence != nil {
		if err := m.persistence.Save(ctx, session); err != nil {
			m.logger.Warnw("failed to persist session", "session", id, "error", err)
		}
	}

	return session, nil
}

// Get retrieves a session by ID (case-insensitive), falling back to the store
func (m *Manager) Get(ctx context.Context, id string) (*service.Session, error) {
	m.mu.RLock()
	session, exists := m.sessions[strings.ToLower(id)]
	m.mu.RUnlock()

	if exists {
		return session, nil
	}

	if m.persistence == nil {
		return nil, ErrSessionNotFound
	}

	found, err := m.persistence.Exists(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to check session store: %w", err)
	}
	if !found {
		return nil, ErrSessionNotFound
	}

	session, err = m.persistence.Load(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load persisted session: %w", err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	// another caller may have restored it first
	if existing, ok := m.sessions[strings.ToLower(id)]; ok {
		return existing, nil
	}
	m.sessions[strings.ToLower(id)] = session
	m.logger.Debugw("session restored from store", "session", id)

	return session, nil
}

// GetOrCreate gets an existing session or creates a new one
func (m *Manager) GetOrCreate(ctx context.Context, id string, config *engine.GameConfig) (*service.Session, error) {
	session, err := m.Get(ctx, id)
	if err == nil {
		return session, nil
	}

	if errors.Is(err, ErrSessionNotFound) {
		return m.Create(ctx, id, config)
	}

	return nil, err
}

// List returns all active sessions
func (m *Manager) List() []*service.Session {
	m.mu.RLock()
	defer m.mu.RUnlock()

	result := make([]*service.Session, 0, len(m.sessions))
	for _, session := range m.sessions {
		result = append(result, session)
	}

	return result
}

// Delete removes a session from memory and from the store
func (m *Manager) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	lowerID := strings.ToLower(id)
	_, inMemory := m.sessions[lowerID]
	delete(m.sessions, lowerID)

	if m.persistence != nil {
		err := m.persistence.Delete(ctx, id)
		switch {
		case err == nil:
			return nil
		case errors.Is(err, ErrSessionNotFound):
			// only in memory
		default:
			return fmt.Errorf("failed to delete persisted session: %w", err)
		}
	}

	if !inMemory {
		return ErrSessionNotFound
	}
	return nil
}

// DeleteFromMemory removes a session from memory only (not from persistence)
func (m *Manager) DeleteFromMemory(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	lowerID := strings.ToLower(id)
	if _, exists := m.sessions[lowerID]; !exists {
		return ErrSessionNotFound
	}
	delete(m.sessions, lowerID)
	return nil
}

// UpdateLastAccessed updates the last accessed time for a session and
// refreshes its expiry in the store
func (m *Manager) UpdateLastAccessed(ctx context.Context, id string) error {
	m.mu.Lock()
	session, exists := m.sessions[strings.ToLower(id)]
	if !exists {
		m.mu.Unlock()
		return ErrSessionNotFound
	}
	session.LastAccessedAt = time.Now()
	m.mu.Unlock()

	if t, ok := m.persistence.(Toucher); ok {
		if err := t.Touch(ctx, session.ID); err != nil {
			m.logger.Debugw("failed to refresh session expiry", "session", id, "error", err)
		}
	}
	return nil
}

// Save saves a specific session to persistence
func (m *Manager) Save(ctx context.Context, id string) error {
	if m.persistence == nil {
		return nil
	}

	m.mu.RLock()
	session, exists := m.sessions[strings.ToLower(id)]
	m.mu.RUnlock()
	if !exists {
		return ErrSessionNotFound
	}

	return m.persistence.Save(ctx, session)
}

// CleanupExpiredSessions removes sessions that haven't been accessed in the given duration.
// Persisted copies are left to expire in the store.
func (m *Manager) CleanupExpiredSessions(maxAge time.Duration) int {
	m.mu.Lock()
	defer m.mu.Unlock()

	cutoff := time.Now().Add(-maxAge)
	removed := 0

	for id, session := range m.sessions {
		if session.LastAccessedAt.Before(cutoff) {
			delete(m.sessions, id)
			removed++
		}
	}

	return removed
}

// Count returns the number of active sessions
func (m *Manager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

// LoadPersistedSessions loads all persisted sessions into memory
func (m *Manager) LoadPersistedSessions(ctx context.Context) error {
	if m.persistence == nil {
		return nil
	}

	sessionIDs, err := m.persistence.ListAll(ctx)
	if err != nil {
		return fmt.Errorf("failed to list persisted sessions: %w", err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	loadedCount := 0
	for _, id := range sessionIDs {
		if _, exists := m.sessions[strings.ToLower(id)]; exists {
			continue
		}

		session, err := m.persistence.Load(ctx, id)
		if err != nil {
			m.logger.Warnw("failed to load persisted session", "session", id, "error", err)
			continue
		}

		m.sessions[strings.ToLower(id)] = session
		loadedCount++
	}

	if loadedCount > 0 {
		m.logger.Infow("loaded persisted sessions", "count", loadedCount)
	}

	return nil
}

// SaveAllSessions saves all in-memory sessions to persistence
func (m *Manager) SaveAllSessions(ctx context.Context) error {
	if m.persistence == nil {
		return nil
	}

	sessions := m.List()

	errorCount := 0
	for _, session := range sessions {
		if err := m.persistence.Save(ctx, session); err != nil {
			m.logger.Warnw("failed to save session", "session", session.ID, "error", err)
			errorCount++
		}
	}

	if errorCount > 0 {
		return fmt.Errorf("failed to save %d sessions", errorCount)
	}

	return nil
}

// generateSessionID returns the first hex characters of a random UUID
func generateSessionID() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:sessionIDLength]
}

func validateSessionID(id string) error {
	if len(id) > 64 {
		return fmt.Errorf("%w: longer than 64 characters", ErrInvalidSessionID)
	}
	for _, r := range id {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
		default:
			return fmt.Errorf("%w: %q contains %q", ErrInvalidSessionID, id, r)
		}
	}
	return nil
}

// sessionExists checks if a session exists (case-insensitive)
func (m *Manager) sessionExists(id string) bool {
	_, exists := m.sessions[strings.ToLower(id)]
	return exists
}
