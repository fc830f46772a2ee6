package engine

// ResolveCaptures removes every opposing group adjacent to played that has no
// liberty left. All dead groups are found first and then cleared in one batch,
// so a single move can capture several independent groups.
// The returned coordinates are row-major and empty when nothing was captured.
func ResolveCaptures(b *Board, played Coordinate, color Stone) []Coordinate {
	opponent := color.Opponent()
	if opponent == Empty {
		return []Coordinate{}
	}

	processed := make([]bool, b.size*b.size)
	var dead []Coordinate

	for _, n := range b.Neighbors(played) {
		if b.Get(n) != opponent || processed[b.IndexOf(n)] {
			continue
		}
		g, _ := FindGroup(b, n)
		for _, s := range g.Stones {
			processed[b.IndexOf(s)] = true
		}
		if CountLiberties(b, g) == 0 {
			dead = append(dead, g.Stones...)
		}
	}

	for _, c := range dead {
		b.Set(c, Empty)
	}

	removed := make([]Coordinate, 0, len(dead))
	removed = append(removed, dead...)
	sortCoordinates(removed)
	return removed
}
