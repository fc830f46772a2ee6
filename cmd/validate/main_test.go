package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writePreset(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestValidatePreset(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		name    string
		file    string
		content string
		valid   bool
		note    string
	}{
		{"json", "nine.json", `{"name":"nine","description":"9x9","board_size":9}`, true, "Board: 9x9, 81 actions"},
		{"yaml", "five.yaml", "name: five\ndescription: 5x5\nboard_size: 5\n", true, "Board: 5x5, 25 actions"},
		{"toml", "one.toml", "name = \"one\"\ndescription = \"1x1\"\nboard_size = 1\n", true, "Board: 1x1, 1 actions"},
		{"too big", "big.json", `{"name":"big","description":"x","board_size":26}`, false, "invalid configuration"},
		{"zero", "zero.json", `{"name":"zero","description":"x","board_size":0}`, false, "invalid configuration"},
		{"malformed", "bad.json", `{"name":`, false, "failed to parse"},
		{"missing description", "nodesc.json", `{"name":"nodesc","board_size":9}`, false, "description is required"},
		{"name differs from id", "alias.json", `{"name":"Alias","description":"x","board_size":7}`, true, `config_id "alias"`},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			result := validatePreset(writePreset(t, dir, test.file, test.content))
			assert.Equal(t, test.valid, result.Valid, "%v", result.Notes)
			assert.Equal(t, test.file, result.File)

			found := false
			for _, note := range result.Notes {
				if bytes.Contains([]byte(note), []byte(test.note)) {
					found = true
				}
			}
			assert.True(t, found, "expected a note containing %q in %v", test.note, result.Notes)
		})
	}

	t.Run("missing file", func(t *testing.T) {
		result := validatePreset(filepath.Join(dir, "absent.json"))
		assert.False(t, result.Valid)
	})
}

func TestValidateDir(t *testing.T) {
	t.Run("all valid", func(t *testing.T) {
		dir := t.TempDir()
		writePreset(t, dir, "a.json", `{"name":"a","description":"a","board_size":9}`)
		writePreset(t, dir, "b.yml", "name: b\ndescription: b\nboard_size: 13\n")
		writePreset(t, dir, "README.md", "not a preset")

		var out bytes.Buffer
		ok, err := validateDir(dir, &out)
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Contains(t, out.String(), "All configurations are valid")
		assert.NotContains(t, out.String(), "README")
	})

	t.Run("duplicate ids", func(t *testing.T) {
		dir := t.TempDir()
		writePreset(t, dir, "a.json", `{"name":"a","description":"a","board_size":9}`)
		writePreset(t, dir, "a.yaml", "name: a\ndescription: a\nboard_size: 9\n")

		var out bytes.Buffer
		ok, err := validateDir(dir, &out)
		require.NoError(t, err)
		assert.False(t, ok)
		assert.Contains(t, out.String(), `config id "a" is already used by a.json`)
	})

	t.Run("empty directory", func(t *testing.T) {
		var out bytes.Buffer
		ok, err := validateDir(t.TempDir(), &out)
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("missing directory", func(t *testing.T) {
		_, err := validateDir(filepath.Join(t.TempDir(), "nope"), &bytes.Buffer{})
		assert.Error(t, err)
	})
}

func TestRepositoryPresetsAreValid(t *testing.T) {
	var out bytes.Buffer
	ok, err := validateDir("../../configs", &out)
	require.NoError(t, err)
	assert.True(t, ok, out.String())
}
