package engine

import (
	"fmt"
	"sort"
)

// Group is a maximal 4-connected set of same-coloured stones
type Group struct {
	Color  Stone        `json:"color"`
	Stones []Coordinate `json:"stones"`
}

// Size returns the number of stones in the group
func (g Group) Size() int {
	return len(g.Stones)
}

// Contains reports whether c belongs to the group
func (g Group) Contains(c Coordinate) bool {
	for _, s := range g.Stones {
		if s == c {
			return true
		}
	}
	return false
}

// FindGroup walks from seed through orthogonal neighbours of the same colour.
// It returns false when seed is off the board or empty.
// Stones are returned in row-major order.
func FindGroup(b *Board, seed Coordinate) (Group, bool) {
	if !b.InBounds(seed) {
		return Group{}, false
	}
	color := b.Get(seed)
	if color == Empty {
		return Group{}, false
	}

	visited := make([]bool, b.size*b.size)
	visited[b.IndexOf(seed)] = true
	stack := []Coordinate{seed}
	stones := make([]Coordinate, 0, 8)

	for len(stack) > 0 {
		c := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if b.Get(c) != color {
			panic(fmt.Sprintf("engine: group traversal reached %v holding %v, want %v", c, b.Get(c), color))
		}
		stones = append(stones, c)

		for _, n := range b.Neighbors(c) {
			idx := b.IndexOf(n)
			if visited[idx] || b.Get(n) != color {
				continue
			}
			visited[idx] = true
			stack = append(stack, n)
		}
	}

	sortCoordinates(stones)
	return Group{Color: color, Stones: stones}, true
}

// Liberties returns the distinct empty points adjacent to the group, row-major
func Liberties(b *Board, g Group) []Coordinate {
	seen := make(map[int]bool)
	libs := make([]Coordinate, 0, 4)
	for _, s := range g.Stones {
		for _, n := range b.Neighbors(s) {
			idx := b.IndexOf(n)
			if seen[idx] || b.Get(n) != Empty {
				continue
			}
			seen[idx] = true
			libs = append(libs, n)
		}
	}
	sortCoordinates(libs)
	return libs
}

// CountLiberties returns the size of the group's liberty set.
// A point touching several stones of the group counts once.
func CountLiberties(b *Board, g Group) int {
	seen := make([]bool, b.size*b.size)
	count := 0
	for _, s := range g.Stones {
		for _, n := range b.Neighbors(s) {
			idx := b.IndexOf(n)
			if seen[idx] || b.Get(n) != Empty {
				continue
			}
			seen[idx] = true
			count++
		}
	}
	return count
}

// HasLiberties stops at the first empty neighbour found
func HasLiberties(b *Board, g Group) bool {
	for _, s := range g.Stones {
		for _, n := range b.Neighbors(s) {
			if b.Get(n) == Empty {
				return true
			}
		}
	}
	return false
}

// AllGroups returns every group on the board, ordered by their first stone
func AllGroups(b *Board) []Group {
	assigned := make([]bool, b.size*b.size)
	var groups []Group
	for i, cell := range b.cells {
		if cell == Empty || assigned[i] {
			continue
		}
		g, _ := FindGroup(b, b.CoordinateOf(i))
		for _, s := range g.Stones {
			assigned[b.IndexOf(s)] = true
		}
		groups = append(groups, g)
	}
	return groups
}

func sortCoordinates(cs []Coordinate) {
	sort.Slice(cs, func(i, j int) bool {
		if cs[i].Row != cs[j].Row {
			return cs[i].Row < cs[j].Row
		}
		return cs[i].Col < cs[j].Col
	})
}
