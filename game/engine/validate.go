package engine

import "fmt"

// ValidateMove checks whether color may play at c on b.
// The stone is tried on a clone of b, so b is never modified.
func ValidateMove(b *Board, c Coordinate, color Stone) error {
	if !color.IsPlayer() {
		return fmt.Errorf("%w: got %v", ErrInvalidColor, color)
	}
	if !b.InBounds(c) {
		return fmt.Errorf("%w: %v on a %dx%d board", ErrOutOfBounds, c, b.size, b.size)
	}
	if b.Get(c) != Empty {
		return fmt.Errorf("%w: %v holds %v", ErrOccupied, c, b.Get(c))
	}

	scratch := b.Clone()
	scratch.Set(c, color)
	ResolveCaptures(scratch, c, color)

	own, _ := FindGroup(scratch, c)
	if !HasLiberties(scratch, own) {
		return fmt.Errorf("%w: %v at %v", ErrSuicide, color, c)
	}
	return nil
}
