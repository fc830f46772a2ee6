package engine

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateMove(t *testing.T) {
	tests := []struct {
		name  string
		rows  []string
		coord Coordinate
		color Stone
		want  error
	}{
		{
			name:  "empty point",
			rows:  []string{"...", "...", "..."},
			coord: Coordinate{1, 1},
			color: Black,
		},
		{
			name:  "negative row",
			rows:  []string{"...", "...", "..."},
			coord: Coordinate{-1, 0},
			color: Black,
			want:  ErrOutOfBounds,
		},
		{
			name:  "column past the edge",
			rows:  []string{"...", "...", "..."},
			coord: Coordinate{0, 3},
			color: White,
			want:  ErrOutOfBounds,
		},
		{
			name:  "occupied by own stone",
			rows:  []string{"X..", "...", "..."},
			coord: Coordinate{0, 0},
			color: Black,
			want:  ErrOccupied,
		},
		{
			name:  "occupied by opponent",
			rows:  []string{"O..", "...", "..."},
			coord: Coordinate{0, 0},
			color: Black,
			want:  ErrOccupied,
		},
		{
			name:  "single stone suicide",
			rows:  []string{".O...", "O....", ".....", ".....", "....."},
			coord: Coordinate{0, 0},
			color: Black,
			want:  ErrSuicide,
		},
		{
			name:  "suicide filling own group's last liberty",
			rows:  []string{"X.O..", "OO...", ".....", ".....", "....."},
			coord: Coordinate{0, 1},
			color: Black,
			want:  ErrSuicide,
		},
		{
			name:  "suicide point rescued by capture",
			rows:  []string{".OX..", "OX...", "X....", ".....", "....."},
			coord: Coordinate{0, 0},
			color: Black,
		},
		{
			name:  "joining a group that keeps a liberty",
			rows:  []string{".OX..", "X....", ".....", ".....", "....."},
			coord: Coordinate{0, 0},
			color: White,
		},
		{
			name:  "empty is not a player",
			rows:  []string{"...", "...", "..."},
			coord: Coordinate{1, 1},
			color: Empty,
			want:  ErrInvalidColor,
		},
		{
			name:  "colour checked before bounds",
			rows:  []string{"...", "...", "..."},
			coord: Coordinate{9, 9},
			color: Stone(5),
			want:  ErrInvalidColor,
		},
		{
			name:  "one by one board",
			rows:  []string{"."},
			coord: Coordinate{0, 0},
			color: Black,
			want:  ErrSuicide,
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			b := parseBoard(t, test.rows...)
			before := b.Clone()

			err := ValidateMove(b, test.coord, test.color)
			if test.want == nil {
				assert.NoError(t, err)
			} else {
				require.Error(t, err)
				assert.True(t, errors.Is(err, test.want), "got %v, want %v", err, test.want)
			}
			assert.True(t, before.Equal(b), "validation modified the board:\n%s", b)
		})
	}
}
