// Package config provides board preset management for gogym.
//
// The config package handles:
//   - Loading presets from JSON, YAML or TOML files through viper
//   - Preset validation
//   - Default preset selection
//   - Preset discovery and listing
//
// Configuration Format:
//
// A preset names a board and its size:
//
//	{
//	  "name": "small",
//	  "description": "Beginner 9x9 board",
//	  "board_size": 9
//	}
//
// The config id is the file name without its extension. board_size must be
// between 1 and 25.
//
// Available Configurations:
//
//   - classic: 19x19, the default
//   - medium: 13x13
//   - small: 9x9
//   - tiny: 5x5
//
// Usage:
//
//	manager, err := config.NewManager("configs")
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	preset, err := manager.LoadConfig("small")
//	presets, err := manager.ListConfigs()
package config
