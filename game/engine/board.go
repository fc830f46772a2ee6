package engine

import (
	"fmt"
	"strings"
)

// offsets of the four orthogonal neighbours: up, down, left, right
var directions = [4]Coordinate{{Row: -1}, {Row: 1}, {Col: -1}, {Col: 1}}

// Board is a square grid of stones stored row-major.
// It holds no rules knowledge; legality lives in ValidateMove.
type Board struct {
	size  int
	cells []Stone
}

// NewBoard creates an empty size x size board, MinBoardSize <= size <= MaxBoardSize
func NewBoard(size int) (*Board, error) {
	if size < MinBoardSize || size > MaxBoardSize {
		return nil, fmt.Errorf("%w: desired size is %[2]dx%[2]d", ErrInvalidBoardSize, size)
	}
	return &Board{
		size:  size,
		cells: make([]Stone, size*size),
	}, nil
}

// Size returns the board dimension N
func (b *Board) Size() int {
	return b.size
}

// InBounds reports whether c lies on the board
func (b *Board) InBounds(c Coordinate) bool {
	return c.Row >= 0 && c.Row < b.size && c.Col >= 0 && c.Col < b.size
}

// Get returns the stone at c. c must be in bounds.
func (b *Board) Get(c Coordinate) Stone {
	return b.cells[b.IndexOf(c)]
}

// Set writes a single cell without any legality check.
// Callers must have validated the move already.
func (b *Board) Set(c Coordinate, s Stone) {
	if !s.Valid() {
		panic(fmt.Sprintf("engine: invalid stone value %d at %v", int(s), c))
	}
	b.cells[b.IndexOf(c)] = s
}

// Neighbors returns the in-bounds orthogonal neighbours of c
func (b *Board) Neighbors(c Coordinate) []Coordinate {
	result := make([]Coordinate, 0, 4)
	for _, d := range directions {
		n := Coordinate{Row: c.Row + d.Row, Col: c.Col + d.Col}
		if b.InBounds(n) {
			result = append(result, n)
		}
	}
	return result
}

// IndexOf converts a coordinate to its row-major index
func (b *Board) IndexOf(c Coordinate) int {
	return c.Row*b.size + c.Col
}

// CoordinateOf converts a row-major index back to a coordinate
func (b *Board) CoordinateOf(index int) Coordinate {
	return Coordinate{Row: index / b.size, Col: index % b.size}
}

// Clone returns an independent copy of the board
func (b *Board) Clone() *Board {
	cells := make([]Stone, len(b.cells))
	copy(cells, b.cells)
	return &Board{size: b.size, cells: cells}
}

// Cells returns a row-major copy of every cell
func (b *Board) Cells() []Stone {
	cells := make([]Stone, len(b.cells))
	copy(cells, b.cells)
	return cells
}

// Rows returns the board as a fresh [row][col] matrix
func (b *Board) Rows() [][]Stone {
	rows := make([][]Stone, b.size)
	for r := range rows {
		rows[r] = make([]Stone, b.size)
		copy(rows[r], b.cells[r*b.size:(r+1)*b.size])
	}
	return rows
}

// Equal reports whether both boards have the same size and cells
func (b *Board) Equal(other *Board) bool {
	if other == nil || b.size != other.size {
		return false
	}
	for i := range b.cells {
		if b.cells[i] != other.cells[i] {
			return false
		}
	}
	return true
}

// Count returns how many cells hold s
func (b *Board) Count(s Stone) int {
	n := 0
	for _, cell := range b.cells {
		if cell == s {
			n++
		}
	}
	return n
}

// String renders the board with '.', 'X' (black) and 'O' (white), one row per line
func (b *Board) String() string {
	var sb strings.Builder
	for r := 0; r < b.size; r++ {
		for c := 0; c < b.size; c++ {
			switch b.cells[r*b.size+c] {
			case Black:
				sb.WriteByte('X')
			case White:
				sb.WriteByte('O')
			default:
				sb.WriteByte('.')
			}
		}
		if r < b.size-1 {
			sb.WriteByte('\n')
		}
	}
	return sb.String()
}

// boardFromRows rebuilds a board from a [row][col] matrix, validating shape and values
func boardFromRows(rows [][]Stone) (*Board, error) {
	b, err := NewBoard(len(rows))
	if err != nil {
		return nil, err
	}
	for r, row := range rows {
		if len(row) != b.size {
			return nil, fmt.Errorf("%w: row %d has %d cells, want %d", ErrInvalidState, r, len(row), b.size)
		}
		for c, s := range row {
			if !s.Valid() {
				return nil, fmt.Errorf("%w: invalid stone %d at (%d,%d)", ErrInvalidState, int(s), r, c)
			}
			b.cells[r*b.size+c] = s
		}
	}
	return b, nil
}

// BoardFromState rebuilds the board carried by a state snapshot
func BoardFromState(state *GameState) (*Board, error) {
	if state == nil {
		return nil, fmt.Errorf("%w: nil state", ErrInvalidState)
	}
	return boardFromRows(state.Board)
}
