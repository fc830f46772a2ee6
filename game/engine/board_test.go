package engine

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// parseBoard builds a board from rows of '.', 'X' (black) and 'O' (white)
func parseBoard(t *testing.T, rows ...string) *Board {
	t.Helper()
	b, err := NewBoard(len(rows))
	require.NoError(t, err)
	for r, row := range rows {
		row = strings.ReplaceAll(row, " ", "")
		require.Len(t, row, len(rows), "row %d is not square", r)
		for c, ch := range row {
			switch ch {
			case 'X':
				b.Set(Coordinate{Row: r, Col: c}, Black)
			case 'O':
				b.Set(Coordinate{Row: r, Col: c}, White)
			case '.':
			default:
				t.Fatalf("unexpected character %q at (%d,%d)", ch, r, c)
			}
		}
	}
	return b
}

func TestNewBoard(t *testing.T) {
	tests := []struct {
		name string
		size int
		want error
	}{
		{name: "zero size", size: 0, want: ErrInvalidBoardSize},
		{name: "negative size", size: -3, want: ErrInvalidBoardSize},
		{name: "1x1", size: 1},
		{name: "19x19", size: 19},
		{name: "largest", size: MaxBoardSize},
		{name: "too large", size: MaxBoardSize + 1, want: ErrInvalidBoardSize},
		{name: "huge size", size: 1 << 20, want: ErrInvalidBoardSize},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			b, err := NewBoard(test.size)
			if test.want != nil {
				require.True(t, errors.Is(err, test.want), "got %v", err)
				require.Nil(t, b)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, test.size, b.Size())
			assert.Equal(t, test.size*test.size, b.Count(Empty))
		})
	}
}

func TestBoard_Neighbors(t *testing.T) {
	b, err := NewBoard(5)
	require.NoError(t, err)

	tests := []struct {
		name  string
		coord Coordinate
		want  int
	}{
		{"corner", Coordinate{0, 0}, 2},
		{"opposite corner", Coordinate{4, 4}, 2},
		{"edge", Coordinate{0, 2}, 3},
		{"center", Coordinate{2, 2}, 4},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			ns := b.Neighbors(test.coord)
			assert.Len(t, ns, test.want)
			for _, n := range ns {
				assert.True(t, b.InBounds(n))
				dr, dc := n.Row-test.coord.Row, n.Col-test.coord.Col
				assert.Equal(t, 1, dr*dr+dc*dc, "neighbour %v of %v is not orthogonally adjacent", n, test.coord)
			}
		})
	}

	single, err := NewBoard(1)
	require.NoError(t, err)
	assert.Empty(t, single.Neighbors(Coordinate{0, 0}))
}

func TestBoard_SetPanicsOnInvalidStone(t *testing.T) {
	b, err := NewBoard(3)
	require.NoError(t, err)

	require.Panics(t, func() {
		b.Set(Coordinate{1, 1}, Stone(7))
	})
}

func TestBoard_CloneIsIndependent(t *testing.T) {
	b := parseBoard(t,
		"X..",
		".O.",
		"...",
	)
	clone := b.Clone()
	require.True(t, b.Equal(clone))

	clone.Set(Coordinate{2, 2}, Black)
	assert.Equal(t, Empty, b.Get(Coordinate{2, 2}))
	assert.False(t, b.Equal(clone))
}

func TestBoard_IndexRoundTrip(t *testing.T) {
	b, err := NewBoard(7)
	require.NoError(t, err)

	for i := 0; i < 49; i++ {
		c := b.CoordinateOf(i)
		require.True(t, b.InBounds(c))
		require.Equal(t, i, b.IndexOf(c))
	}
	assert.Equal(t, Coordinate{Row: 3, Col: 4}, b.CoordinateOf(25))
}

func TestBoard_String(t *testing.T) {
	b := parseBoard(t,
		"X.O",
		"...",
		"O.X",
	)
	assert.Equal(t, "X.O\n...\nO.X", b.String())
}

func TestBoardFromRows(t *testing.T) {
	_, err := boardFromRows([][]Stone{{Empty, Black}, {White}})
	assert.True(t, errors.Is(err, ErrInvalidState))

	_, err = boardFromRows([][]Stone{{Empty, Stone(3)}, {Empty, Empty}})
	assert.True(t, errors.Is(err, ErrInvalidState))

	_, err = boardFromRows(nil)
	assert.True(t, errors.Is(err, ErrInvalidBoardSize))

	b, err := boardFromRows([][]Stone{{Black, Empty}, {Empty, White}})
	require.NoError(t, err)
	assert.Equal(t, "X.\n.O", b.String())
}

func TestBoardFromState(t *testing.T) {
	_, err := BoardFromState(nil)
	assert.True(t, errors.Is(err, ErrInvalidState))

	e, err := NewEngine(3)
	require.NoError(t, err)
	e.SubmitMove(Coordinate{Row: 1, Col: 1})

	b, err := BoardFromState(e.GetState())
	require.NoError(t, err)
	assert.True(t, b.Equal(e.Board()))
}

func TestStone(t *testing.T) {
	assert.Equal(t, White, Black.Opponent())
	assert.Equal(t, Black, White.Opponent())
	assert.Equal(t, Empty, Empty.Opponent())
	assert.True(t, Black.IsPlayer())
	assert.False(t, Empty.IsPlayer())
	assert.False(t, Stone(9).Valid())
	assert.Equal(t, "black", Black.String())
	assert.Equal(t, "stone(9)", Stone(9).String())
}
