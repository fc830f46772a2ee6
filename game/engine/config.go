package engine

import "fmt"

// ValidateGameConfig validates a board preset
func ValidateGameConfig(config *GameConfig) error {
	if config == nil {
		return fmt.Errorf("config validation: config is nil")
	}

	// Validate required fields
	if config.Name == "" {
		return fmt.Errorf("config validation: name is required")
	}
	if config.Description == "" {
		return fmt.Errorf("config validation: description is required")
	}

	if config.BoardSize < MinBoardSize || config.BoardSize > MaxBoardSize {
		return fmt.Errorf("config validation: board_size must be between %d and %d, got %d",
			MinBoardSize, MaxBoardSize, config.BoardSize)
	}

	return nil
}

// DefaultGameConfig returns the built-in preset used when no configuration is available
func DefaultGameConfig() *GameConfig {
	return &GameConfig{
		Name:        "default",
		Description: "Default 9x9 board",
		BoardSize:   9,
	}
}

// ConfigForSize returns an ad-hoc preset for an explicit board size
func ConfigForSize(size int) *GameConfig {
	return &GameConfig{
		Name:        fmt.Sprintf("%dx%d", size, size),
		Description: fmt.Sprintf("Custom %dx%d board", size, size),
		BoardSize:   size,
	}
}
