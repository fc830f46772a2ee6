// Command validate checks the board presets in a configs directory. For each
// JSON, YAML or TOML file it checks that:
//   - the file parses
//   - board_size is between 1 and 25
//   - name and description are present
//   - no two files share a config id
//
// It prints a report and exits non-zero when any preset is invalid.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/wricardo/gogym/game/config"
)

// ValidationResult captures the outcome of validating a single file.
// Notes holds informational lines for valid files and problems otherwise.
type ValidationResult struct {
	File  string
	Valid bool
	Notes []string
}

var presetExtensions = map[string]bool{".json": true, ".yaml": true, ".yml": true, ".toml": true}

func validatePreset(path string) ValidationResult {
	result := ValidationResult{File: filepath.Base(path), Valid: true}

	preset, err := config.ReadFile(path)
	if err != nil {
		result.Valid = false
		result.Notes = append(result.Notes, err.Error())
		return result
	}

	size := preset.BoardSize
	result.Notes = append(result.Notes,
		fmt.Sprintf("✓ Board: %dx%d, %d actions", size, size, size*size))

	if id := strings.TrimSuffix(result.File, filepath.Ext(result.File)); preset.Name != id {
		result.Notes = append(result.Notes,
			fmt.Sprintf("✓ Display name %q, create sessions with config_id %q", preset.Name, id))
	}
	return result
}

// validateDir validates every preset in dir and reports whether all passed
func validateDir(dir string, out io.Writer) (bool, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return false, fmt.Errorf("error reading config directory: %w", err)
	}

	var files []string
	for _, e := range entries {
		if !e.IsDir() && presetExtensions[strings.ToLower(filepath.Ext(e.Name()))] {
			files = append(files, e.Name())
		}
	}
	sort.Strings(files)

	if len(files) == 0 {
		fmt.Fprintf(out, "No presets found in %s\n", dir)
		return false, nil
	}

	allValid := true
	owners := make(map[string]string)
	for _, name := range files {
		result := validatePreset(filepath.Join(dir, name))

		id := strings.TrimSuffix(name, filepath.Ext(name))
		if first, dup := owners[id]; dup {
			result.Valid = false
			result.Notes = append(result.Notes, fmt.Sprintf("config id %q is already used by %s", id, first))
		} else {
			owners[id] = name
		}

		fmt.Fprintf(out, "\n%s %s\n", strings.Repeat("=", 20), result.File)
		if result.Valid {
			fmt.Fprintln(out, "✅ VALID")
			for _, note := range result.Notes {
				fmt.Fprintln(out, "  "+note)
			}
			continue
		}

		allValid = false
		fmt.Fprintln(out, "❌ INVALID")
		for _, note := range result.Notes {
			if !strings.HasPrefix(note, "✓") {
				fmt.Fprintln(out, "  ❌ "+note)
			}
		}
	}

	fmt.Fprintf(out, "\n%s\n", strings.Repeat("=", 40))
	if allValid {
		fmt.Fprintln(out, "✅ All configurations are valid!")
	} else {
		fmt.Fprintln(out, "❌ Some configurations have errors")
	}
	return allValid, nil
}

func main() {
	cmd := &cli.Command{
		Name:  "validate",
		Usage: "Validate board presets",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "dir", Value: "configs", Usage: "Directory containing presets", Sources: cli.EnvVars("CONFIG_DIR")},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			ok, err := validateDir(cmd.String("dir"), os.Stdout)
			if err != nil {
				return err
			}
			if !ok {
				return cli.Exit("", 1)
			}
			return nil
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
