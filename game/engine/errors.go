package engine

import "errors"

var (
	ErrOutOfBounds       = errors.New("move position is out of bounds")
	ErrOccupied          = errors.New("the position is occupied")
	ErrSuicide           = errors.New("move would leave its own group without liberties")
	ErrGameNotInProgress = errors.New("game not in progress")
	ErrInvalidColor      = errors.New("only black and white stones can be played")
	ErrInvalidBoardSize  = errors.New("board size is out of range")
	ErrInvalidState      = errors.New("invalid game state")
)

// RejectReason is the machine-friendly kind of a rejected move
type RejectReason string

const (
	ReasonNone              RejectReason = ""
	ReasonOutOfBounds       RejectReason = "out_of_bounds"
	ReasonOccupied          RejectReason = "occupied"
	ReasonSuicide           RejectReason = "suicide"
	ReasonGameNotInProgress RejectReason = "game_not_in_progress"
	ReasonInvalidColor      RejectReason = "invalid_color"
	ReasonUnknown           RejectReason = "unknown"
)

// ReasonFor maps a move error to its RejectReason
func ReasonFor(err error) RejectReason {
	switch {
	case err == nil:
		return ReasonNone
	case errors.Is(err, ErrOutOfBounds):
		return ReasonOutOfBounds
	case errors.Is(err, ErrOccupied):
		return ReasonOccupied
	case errors.Is(err, ErrSuicide):
		return ReasonSuicide
	case errors.Is(err, ErrGameNotInProgress):
		return ReasonGameNotInProgress
	case errors.Is(err, ErrInvalidColor):
		return ReasonInvalidColor
	default:
		return ReasonUnknown
	}
}
