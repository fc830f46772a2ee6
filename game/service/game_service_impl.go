package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/wricardo/gogym/game/engine"
)

// ErrInvalidRequest marks caller mistakes such as an empty action list or an
// unusable board size
var ErrInvalidRequest = errors.New("invalid request")

// gameServiceImpl implements the GameService interface.
// mu is the host lock around every engine call: readers share it, moves and
// resets hold it exclusively.
type gameServiceImpl struct {
	sessions SessionManager
	configs  ConfigManager
	logger   *zap.SugaredLogger
	mu       sync.RWMutex
}

// NewGameService creates a new game service instance
func NewGameService(sessions SessionManager, configs ConfigManager, logger *zap.SugaredLogger) GameService {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &gameServiceImpl{
		sessions: sessions,
		configs:  configs,
		logger:   logger,
	}
}

// getConfigID returns the config_id for a given config name, used for consistent API responses
func (s *gameServiceImpl) getConfigID(configName string) string {
	availableConfigs, err := s.configs.ListConfigs()
	if err == nil {
		for _, cfg := range availableConfigs {
			if cfg.Name == configName {
				return cfg.ConfigID
			}
		}
	}
	if configName == "" {
		return "default"
	}
	return configName
}

// resolveConfig picks the preset for a new session and applies a board size override
func (s *gameServiceImpl) resolveConfig(req CreateSessionRequest) (*engine.GameConfig, error) {
	if req.BoardSize < 0 {
		return nil, fmt.Errorf("%w: board_size must be positive, got %d", ErrInvalidRequest, req.BoardSize)
	}

	var config *engine.GameConfig
	if req.ConfigID != "" {
		loaded, err := s.configs.LoadConfig(req.ConfigID)
		if err != nil {
			availableConfigs, listErr := s.configs.ListConfigs()
			if listErr == nil && len(availableConfigs) > 0 {
				var configIDs []string
				for _, cfg := range availableConfigs {
					configIDs = append(configIDs, cfg.ConfigID)
				}
				return nil, fmt.Errorf("config '%s' unavailable (available configs: %v): %w", req.ConfigID, configIDs, err)
			}
			return nil, fmt.Errorf("failed to load config %s: %w", req.ConfigID, err)
		}
		config = loaded
	} else if req.BoardSize > 0 {
		config = engine.ConfigForSize(req.BoardSize)
	} else {
		config = s.configs.GetDefault()
	}

	if req.BoardSize > 0 && req.BoardSize != config.BoardSize {
		sized := *config
		sized.BoardSize = req.BoardSize
		sized.Description = fmt.Sprintf("%s (%dx%d)", config.Description, req.BoardSize, req.BoardSize)
		config = &sized
	}

	if err := engine.ValidateGameConfig(config); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidRequest, err)
	}
	return config, nil
}

// CreateSession creates a new game session
func (s *gameServiceImpl) CreateSession(ctx context.Context, req CreateSessionRequest) (*SessionInfo, error) {
	config, err := s.resolveConfig(req)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	session, err := s.sessions.Create(ctx, req.SessionID, config)
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	s.logger.Infow("session created", "session", session.ID, "config", config.Name, "board_size", config.BoardSize)

	info := s.sessionInfo(session)
	if req.ConfigID != "" {
		info.ConfigName = req.ConfigID
	}
	return info, nil
}

// GetSession retrieves session information
func (s *gameServiceImpl) GetSession(ctx context.Context, sessionID string) (*SessionInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("session not found: %w", err)
	}
	s.touch(ctx, sessionID)

	return s.sessionInfo(session), nil
}

// ListSessions returns all active sessions
func (s *gameServiceImpl) ListSessions(ctx context.Context) ([]*SessionInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sessions := s.sessions.List()
	result := make([]*SessionInfo, 0, len(sessions))
	for _, sess := range sessions {
		result = append(result, s.sessionInfo(sess))
	}
	return result, nil
}

// DeleteSession removes a session
func (s *gameServiceImpl) DeleteSession(ctx context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.sessions.Delete(ctx, sessionID); err != nil {
		return err
	}
	s.logger.Infow("session deleted", "session", sessionID)
	return nil
}

// Move plays the current player's stone at (row, col)
func (s *gameServiceImpl) Move(ctx context.Context, sessionID string, row, col int) (*MoveResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("session not found: %w", err)
	}
	s.touch(ctx, sessionID)

	res := sess.Engine.SubmitMove(engine.Coordinate{Row: row, Col: col})
	state := sess.Engine.GetState()

	result := &MoveResult{
		Accepted:  res.Accepted,
		Player:    res.Player,
		Row:       row,
		Col:       col,
		Action:    res.Action,
		Removed:   res.Removed,
		Reason:    res.Reason,
		Message:   moveMessage(res),
		GameState: state,
		Events:    moveEvents(res, state),
	}

	s.logger.Debugw("move", "session", sessionID, "row", row, "col", col,
		"accepted", res.Accepted, "reason", res.Reason, "removed", len(res.Removed))

	if res.Accepted {
		s.persist(ctx, sessionID, "move")
	}
	return result, nil
}

// Step applies a flat action and reports it the way a learning environment does
func (s *gameServiceImpl) Step(ctx context.Context, sessionID string, action int) (*StepResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("session not found: %w", err)
	}
	s.touch(ctx, sessionID)

	res := sess.Engine.SubmitAction(action)
	result := &StepResult{
		Observation: sess.Engine.Observation(),
		Reward:      reward(res),
		Done:        sess.Engine.IsOver(),
		Info:        stepInfo(res, sess.Engine),
	}

	s.logger.Debugw("step", "session", sessionID, "action", action,
		"accepted", res.Accepted, "reason", res.Reason, "reward", result.Reward)

	if res.Accepted {
		s.persist(ctx, sessionID, "step")
	}
	return result, nil
}

// BulkStep applies actions in order and stops at the first rejected one
func (s *gameServiceImpl) BulkStep(ctx context.Context, sessionID string, actions []int) (*BulkStepResult, error) {
	if len(actions) == 0 {
		return nil, fmt.Errorf("%w: no actions provided", ErrInvalidRequest)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("session not found: %w", err)
	}
	s.touch(ctx, sessionID)

	result := &BulkStepResult{
		RequestedSteps: len(actions),
		Success:        true,
		Steps:          make([]StepInfo, 0, len(actions)),
		Events:         make([]GameEvent, 0),
	}

	// Limit steps to prevent abuse
	if len(actions) > engine.MaxBulkMoves {
		result.Truncated = true
		result.Limit = engine.MaxBulkMoves
		actions = actions[:engine.MaxBulkMoves]
	}

	for i, action := range actions {
		res := sess.Engine.SubmitAction(action)
		result.Steps = append(result.Steps, stepInfo(res, sess.Engine))
		result.Events = append(result.Events, moveEvents(res, nil)...)

		if !res.Accepted {
			result.Success = false
			result.StopReasonCode = res.Reason
			result.StoppedReason = fmt.Sprintf("step %d rejected: %v", i+1, res.Err)
			result.StoppedOnStep = i + 1
			break
		}

		result.StepsExecuted++
		result.StonesCaptured += len(res.Removed)
		result.TotalReward += reward(res)
	}

	result.GameState = sess.Engine.GetState()
	result.Done = sess.Engine.IsOver()
	result.LegalActions = sess.Engine.LegalActions()

	s.logger.Debugw("bulk step", "session", sessionID, "requested", result.RequestedSteps,
		"executed", result.StepsExecuted, "stop_reason", result.StopReasonCode)

	if result.StepsExecuted > 0 {
		s.persist(ctx, sessionID, "bulk step")
	}
	return result, nil
}

// Reset starts a new game in the session
func (s *gameServiceImpl) Reset(ctx context.Context, sessionID string) (*engine.GameState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("session not found: %w", err)
	}
	s.touch(ctx, sessionID)

	state := sess.Engine.Reset()
	s.logger.Infow("game reset", "session", sessionID)
	s.persist(ctx, sessionID, "reset")
	return state, nil
}

// End finishes the game so further moves are rejected
func (s *gameServiceImpl) End(ctx context.Context, sessionID string) (*engine.GameState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("session not found: %w", err)
	}
	s.touch(ctx, sessionID)

	state := sess.Engine.End()
	s.logger.Infow("game ended", "session", sessionID, "moves", state.MoveNumber)
	s.persist(ctx, sessionID, "end")
	return state, nil
}

// GetGameState retrieves the current game state
func (s *gameServiceImpl) GetGameState(ctx context.Context, sessionID string) (*engine.GameState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("session not found: %w", err)
	}
	s.touch(ctx, sessionID)

	return sess.Engine.GetState(), nil
}

// LegalActions returns the action mask for the player to move
func (s *gameServiceImpl) LegalActions(ctx context.Context, sessionID string) (*LegalActionsResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("session not found: %w", err)
	}
	s.touch(ctx, sessionID)

	actions := sess.Engine.LegalActions()
	mask := make([]bool, sess.Engine.ActionSpaceSize())
	for _, a := range actions {
		mask[a] = true
	}

	return &LegalActionsResult{
		CurrentPlayer: sess.Engine.CurrentPlayer(),
		Actions:       actions,
		Mask:          mask,
		BoardSize:     sess.Engine.BoardSize(),
	}, nil
}

// GetMoveHistory returns paginated move history
func (s *gameServiceImpl) GetMoveHistory(ctx context.Context, sessionID string, opts HistoryOptions) (*HistoryResponse, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("session not found: %w", err)
	}

	history := sess.Engine.GetMoveHistory()
	total := len(history)

	// Apply defaults
	if opts.Page < 1 {
		opts.Page = 1
	}
	if opts.Limit <= 0 {
		opts.Limit = 20
	}
	if opts.Limit > 100 {
		opts.Limit = 100
	}
	if opts.Order == "" {
		opts.Order = "desc"
	}

	totalPages := (total + opts.Limit - 1) / opts.Limit
	if totalPages == 0 {
		totalPages = 1
	}

	start := (opts.Page - 1) * opts.Limit
	end := start + opts.Limit
	if end > total {
		end = total
	}

	moves := make([]engine.MoveRecord, 0, opts.Limit)
	if opts.Order == "desc" {
		// most recent first
		for i := total - 1 - start; i >= 0 && i >= total-end; i-- {
			moves = append(moves, history[i])
		}
	} else if start < total {
		moves = append(moves, history[start:end]...)
	}

	return &HistoryResponse{
		Moves:       moves,
		TotalMoves:  total,
		Page:        opts.Page,
		PageSize:    opts.Limit,
		TotalPages:  totalPages,
		HasNext:     opts.Page < totalPages,
		HasPrevious: opts.Page > 1,
	}, nil
}

// ListConfigs returns available game configurations
func (s *gameServiceImpl) ListConfigs(ctx context.Context) ([]*ConfigInfo, error) {
	return s.configs.ListConfigs()
}

// LoadConfig loads a specific game configuration
func (s *gameServiceImpl) LoadConfig(ctx context.Context, configName string) (*engine.GameConfig, error) {
	return s.configs.LoadConfig(configName)
}

// SaveConfig saves a game configuration to disk
func (s *gameServiceImpl) SaveConfig(ctx context.Context, configName string, config *engine.GameConfig) error {
	if err := s.configs.SaveConfig(configName, config); err != nil {
		return err
	}
	s.logger.Infow("config saved", "config", configName)
	return nil
}

// SaveAll writes every in-memory session to the session store
func (s *gameServiceImpl) SaveAll(ctx context.Context) error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.sessions.SaveAllSessions(ctx)
}

// CleanupExpired drops sessions idle for longer than maxAge from memory
func (s *gameServiceImpl) CleanupExpired(ctx context.Context, maxAge time.Duration) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := s.sessions.CleanupExpiredSessions(maxAge)
	if removed > 0 {
		s.logger.Infow("expired sessions removed", "count", removed, "max_age", maxAge)
	}
	return removed
}

func (s *gameServiceImpl) sessionInfo(sess *Session) *SessionInfo {
	configName := ""
	if sess.Config != nil {
		configName = s.getConfigID(sess.Config.Name)
	}
	return &SessionInfo{
		ID:             sess.ID,
		ConfigName:     configName,
		CreatedAt:      sess.CreatedAt,
		LastAccessedAt: sess.LastAccessedAt,
		GameState:      sess.Engine.GetState(),
		GameConfig:     sess.Config,
	}
}

// touch writes LastAccessedAt, so callers must hold the write lock
func (s *gameServiceImpl) touch(ctx context.Context, sessionID string) {
	if err := s.sessions.UpdateLastAccessed(ctx, sessionID); err != nil {
		s.logger.Debugw("failed to update last access", "session", sessionID, "error", err)
	}
}

func (s *gameServiceImpl) persist(ctx context.Context, sessionID, after string) {
	if err := s.sessions.Save(ctx, sessionID); err != nil {
		s.logger.Warnw("failed to persist session", "session", sessionID, "after", after, "error", err)
	}
}

// reward is the number of opposing stones an accepted move captured
func reward(res engine.MoveResult) float64 {
	if !res.Accepted {
		return 0
	}
	return float64(len(res.Removed))
}

func stepInfo(res engine.MoveResult, eng *engine.GameEngine) StepInfo {
	info := StepInfo{
		Accepted:      res.Accepted,
		Player:        res.Player,
		Action:        res.Action,
		Row:           res.Coordinate.Row,
		Col:           res.Coordinate.Col,
		Removed:       res.Removed,
		Reason:        res.Reason,
		CurrentPlayer: eng.CurrentPlayer(),
		MoveNumber:    len(eng.GetMoveHistory()),
	}
	if res.Err != nil {
		info.Error = res.Err.Error()
	}
	return info
}

func moveMessage(res engine.MoveResult) string {
	if !res.Accepted {
		return fmt.Sprintf("move rejected: %v", res.Err)
	}
	if n := len(res.Removed); n > 0 {
		return fmt.Sprintf("%s played %v and captured %d stone(s)", res.Player, res.Coordinate, n)
	}
	return fmt.Sprintf("%s played %v", res.Player, res.Coordinate)
}

// moveEvents describes one engine result. state is optional; when it shows
// the game is over a game_over event is appended.
func moveEvents(res engine.MoveResult, state *engine.GameState) []GameEvent {
	now := time.Now()
	pos := res.Coordinate
	events := []GameEvent{}

	if !res.Accepted {
		events = append(events, GameEvent{
			Type:      EventRejected,
			Message:   moveMessage(res),
			Timestamp: now,
			Player:    res.Player,
			Position:  &pos,
		})
		if res.Reason == engine.ReasonGameNotInProgress || (state != nil && state.Status == engine.StatusEnded) {
			events = append(events, GameEvent{
				Type:      EventGameOver,
				Message:   "the game has ended; reset to play again",
				Timestamp: now,
			})
		}
		return events
	}

	events = append(events, GameEvent{
		Type:      EventMove,
		Message:   moveMessage(res),
		Timestamp: now,
		Player:    res.Player,
		Position:  &pos,
	})
	if len(res.Removed) > 0 {
		events = append(events, GameEvent{
			Type:      EventCapture,
			Message:   fmt.Sprintf("%s captured %d stone(s)", res.Player, len(res.Removed)),
			Timestamp: now,
			Player:    res.Player,
			Position:  &pos,
			Stones:    res.Removed,
		})
	}
	return events
}
