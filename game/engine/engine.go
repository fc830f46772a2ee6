package engine

import (
	"fmt"
	"time"
)

// Engine provides the main interface for game operations
type Engine interface {
	// Game state management
	GetState() *GameState
	SetState(state *GameState) error
	Reset() *GameState
	End() *GameState
	IsOver() bool
	CurrentPlayer() Stone

	// Moves
	SubmitMove(c Coordinate) MoveResult
	SubmitAction(action int) MoveResult
	IsValidMove(action int) bool
	LegalActions() []int

	// Observation
	BoardSize() int
	CellState(c Coordinate) (Stone, error)
	ActionSpaceSize() int
	ObservationSpaceSize() int
	Observation() []int

	// Configuration
	GetConfig() *GameConfig

	// History
	GetMoveHistory() []MoveRecord
	GetLastMove() *MoveRecord
}

// GameEngine implements the Engine interface.
// It is not safe for concurrent use; the caller serialises every call.
type GameEngine struct {
	config   *GameConfig
	board    *Board
	current  Stone
	status   Status
	captures map[Stone]int
	history  []MoveRecord
}

// NewEngine creates an engine with an empty size x size board and Black to move
func NewEngine(size int) (*GameEngine, error) {
	board, err := NewBoard(size)
	if err != nil {
		return nil, err
	}

	return &GameEngine{
		board:    board,
		current:  Black,
		status:   StatusAwaitingMove,
		captures: map[Stone]int{Black: 0, White: 0},
	}, nil
}

// NewEngineWithConfig creates a new game engine with the provided configuration
func NewEngineWithConfig(config *GameConfig) (*GameEngine, error) {
	if err := ValidateGameConfig(config); err != nil {
		return nil, err
	}

	engine, err := NewEngine(config.BoardSize)
	if err != nil {
		return nil, err
	}
	engine.config = config
	return engine, nil
}

// GetState returns a snapshot of the current game state
func (e *GameEngine) GetState() *GameState {
	history := make([]MoveRecord, len(e.history))
	copy(history, e.history)

	state := &GameState{
		BoardSize:     e.board.Size(),
		Board:         e.board.Rows(),
		CurrentPlayer: e.current,
		Status:        e.status,
		MoveNumber:    len(e.history),
		Captures:      map[Stone]int{Black: e.captures[Black], White: e.captures[White]},
		MoveHistory:   history,
	}
	if len(history) > 0 {
		last := history[len(history)-1]
		state.LastMove = &last
	}
	if e.config != nil {
		state.ConfigName = e.config.Name
	}
	return state
}

// SetState replaces the game with a snapshot (used when restoring a session)
func (e *GameEngine) SetState(state *GameState) error {
	if state == nil {
		return fmt.Errorf("%w: state cannot be nil", ErrInvalidState)
	}

	board, err := boardFromRows(state.Board)
	if err != nil {
		return err
	}
	for _, g := range AllGroups(board) {
		if !HasLiberties(board, g) {
			return fmt.Errorf("%w: %s group at %s has no liberties", ErrInvalidState, g.Color, g.Stones[0])
		}
	}
	if state.BoardSize != 0 && state.BoardSize != board.Size() {
		return fmt.Errorf("%w: board_size %d does not match a %d-row board", ErrInvalidState, state.BoardSize, board.Size())
	}
	if !state.CurrentPlayer.IsPlayer() {
		return fmt.Errorf("%w: current player %v", ErrInvalidState, state.CurrentPlayer)
	}
	if state.Status != StatusAwaitingMove && state.Status != StatusEnded {
		return fmt.Errorf("%w: status %q", ErrInvalidState, state.Status)
	}

	history := make([]MoveRecord, len(state.MoveHistory))
	copy(history, state.MoveHistory)

	e.board = board
	e.current = state.CurrentPlayer
	e.status = state.Status
	e.captures = map[Stone]int{Black: state.Captures[Black], White: state.Captures[White]}
	e.history = history
	return nil
}

// Reset starts a new game on an empty board of the same size
func (e *GameEngine) Reset() *GameState {
	board, _ := NewBoard(e.board.Size())
	e.board = board
	e.current = Black
	e.status = StatusAwaitingMove
	e.captures = map[Stone]int{Black: 0, White: 0}
	e.history = nil
	return e.GetState()
}

// End moves the game to its terminal state. Ending twice is a no-op.
func (e *GameEngine) End() *GameState {
	e.status = StatusEnded
	return e.GetState()
}

// IsOver returns whether the game has ended
func (e *GameEngine) IsOver() bool {
	return e.status == StatusEnded
}

// Status returns the controller state
func (e *GameEngine) Status() Status {
	return e.status
}

// CurrentPlayer returns the colour to move
func (e *GameEngine) CurrentPlayer() Stone {
	return e.current
}

// SubmitMove plays the current player's stone at c
func (e *GameEngine) SubmitMove(c Coordinate) MoveResult {
	action := -1
	if e.board.InBounds(c) {
		action = e.board.IndexOf(c)
	}
	return e.submit(c, action)
}

// SubmitAction plays at the flat index action, row = action / N, col = action % N
func (e *GameEngine) SubmitAction(action int) MoveResult {
	if action < 0 || action >= e.ActionSpaceSize() {
		return e.reject(Coordinate{Row: -1, Col: -1}, action,
			fmt.Errorf("%w: action %d outside [0, %d)", ErrOutOfBounds, action, e.ActionSpaceSize()))
	}
	return e.submit(e.board.CoordinateOf(action), action)
}

func (e *GameEngine) submit(c Coordinate, action int) MoveResult {
	if e.status != StatusAwaitingMove {
		return e.reject(c, action, fmt.Errorf("%w: status is %s", ErrGameNotInProgress, e.status))
	}

	player := e.current
	if err := ValidateMove(e.board, c, player); err != nil {
		return e.reject(c, action, err)
	}

	e.board.Set(c, player)
	removed := ResolveCaptures(e.board, c, player)
	e.captures[player] += len(removed)

	e.history = append(e.history, MoveRecord{
		MoveNumber: len(e.history) + 1,
		Player:     player,
		Coordinate: c,
		Action:     action,
		Removed:    removed,
		Timestamp:  time.Now().Unix(),
	})
	e.current = player.Opponent()

	return MoveResult{
		Accepted:   true,
		Player:     player,
		Coordinate: c,
		Action:     action,
		Removed:    removed,
	}
}

func (e *GameEngine) reject(c Coordinate, action int, err error) MoveResult {
	return MoveResult{
		Player:     e.current,
		Coordinate: c,
		Action:     action,
		Removed:    []Coordinate{},
		Reason:     ReasonFor(err),
		Err:        err,
	}
}

// IsValidMove reports whether the current player may play action now
func (e *GameEngine) IsValidMove(action int) bool {
	if e.status != StatusAwaitingMove || action < 0 || action >= e.ActionSpaceSize() {
		return false
	}
	return ValidateMove(e.board, e.board.CoordinateOf(action), e.current) == nil
}

// LegalActions returns every action the current player may take, ascending
func (e *GameEngine) LegalActions() []int {
	actions := make([]int, 0)
	for a := 0; a < e.ActionSpaceSize(); a++ {
		if e.IsValidMove(a) {
			actions = append(actions, a)
		}
	}
	return actions
}

// BoardSize returns N
func (e *GameEngine) BoardSize() int {
	return e.board.Size()
}

// CellState returns the stone at c
func (e *GameEngine) CellState(c Coordinate) (Stone, error) {
	if !e.board.InBounds(c) {
		return Empty, fmt.Errorf("%w: %v", ErrOutOfBounds, c)
	}
	return e.board.Get(c), nil
}

// ActionSpaceSize returns N*N
func (e *GameEngine) ActionSpaceSize() int {
	return e.board.Size() * e.board.Size()
}

// ObservationSpaceSize returns N*N
func (e *GameEngine) ObservationSpaceSize() int {
	return e.board.Size() * e.board.Size()
}

// Observation returns the board row-major as 0 (empty), 1 (black), 2 (white)
func (e *GameEngine) Observation() []int {
	obs := make([]int, 0, e.ObservationSpaceSize())
	for _, s := range e.board.cells {
		obs = append(obs, int(s))
	}
	return obs
}

// Board returns a copy of the current board
func (e *GameEngine) Board() *Board {
	return e.board.Clone()
}

// Captures returns how many stones color has captured so far
func (e *GameEngine) Captures(color Stone) int {
	return e.captures[color]
}

// GetConfig returns the configuration the engine was built from, or nil
func (e *GameEngine) GetConfig() *GameConfig {
	return e.config
}

// GetMoveHistory returns the accepted moves of the current game
func (e *GameEngine) GetMoveHistory() []MoveRecord {
	history := make([]MoveRecord, len(e.history))
	copy(history, e.history)
	return history
}

// GetLastMove returns the last move made, or nil if no moves
func (e *GameEngine) GetLastMove() *MoveRecord {
	if len(e.history) == 0 {
		return nil
	}
	last := e.history[len(e.history)-1]
	return &last
}
