package main

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wricardo/receipt-escape/game/engine"
)

func writeDeck(t *testing.T, dir, name, body string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))
	return path
}

func newTestGenerator() engine.Generator {
	return engine.New(engine.WithBarcodeEncoder(func(string) *string { return nil }))
}

func hasMessage(result ValidationResult, fragment string) bool {
	for _, msg := range result.Errors {
		if strings.Contains(msg, fragment) {
			return true
		}
	}
	return false
}

func TestValidateDeckFile_Valid(t *testing.T) {
	path := writeDeck(t, t.TempDir(), "room.json", `{
		"name": "Room",
		"description": "Test room",
		"stages": [
			{"label": "door", "type": "CIPHER", "config": {"text": "OPEN"}},
			{"label": "safe", "type": "MINI_SUDOKU"},
			{"type": "RIDDLE", "clue": "Ask the owl"}
		]
	}`)

	result := validateDeckFile(context.Background(), newTestGenerator(), path)

	assert.True(t, result.Valid, "errors: %v", result.Errors)
	assert.Equal(t, "room.json", result.File)
	assert.True(t, hasMessage(result, "✓ Stages: 3"))
	assert.True(t, hasMessage(result, "door=OPEN"))
}

func TestValidateDeckFile_InvalidJSON(t *testing.T) {
	path := writeDeck(t, t.TempDir(), "bad.json", `{"name": "test", invalid json}`)

	result := validateDeckFile(context.Background(), newTestGenerator(), path)

	assert.False(t, result.Valid)
	assert.True(t, hasMessage(result, "Invalid JSON"))
}

func TestValidateDeckFile_UnknownField(t *testing.T) {
	path := writeDeck(t, t.TempDir(), "extra.json", `{"name": "X", "grid_size": 5, "stages": [{"type": "TEXT"}]}`)

	result := validateDeckFile(context.Background(), newTestGenerator(), path)

	assert.False(t, result.Valid)
	assert.True(t, hasMessage(result, "grid_size"))
}

func TestValidateDeckFile_MissingFile(t *testing.T) {
	result := validateDeckFile(context.Background(), newTestGenerator(), "/non/existent/file.json")

	assert.False(t, result.Valid)
	assert.True(t, hasMessage(result, "Failed to read file"))
}

func TestValidateDeckFile_DeckRules(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		fragment string
	}{
		{"no name", `{"stages": [{"type": "TEXT"}]}`, "name is required"},
		{"no stages", `{"name": "Empty", "stages": []}`, "at least one stage"},
		{"unknown type", `{"name": "X", "stages": [{"type": "JIGSAW"}]}`, `unknown type "JIGSAW"`},
		{"duplicate label", `{"name": "X", "stages": [{"label": "a", "type": "TEXT"}, {"label": "a", "type": "RIDDLE"}]}`, `label "a" already used`},
	}

	dir := t.TempDir()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeDeck(t, dir, strings.ReplaceAll(tt.name, " ", "_")+".json", tt.body)

			result := validateDeckFile(context.Background(), newTestGenerator(), path)

			assert.False(t, result.Valid)
			assert.True(t, hasMessage(result, tt.fragment), "errors: %v", result.Errors)
		})
	}
}

func TestValidateDir(t *testing.T) {
	dir := t.TempDir()
	writeDeck(t, dir, "good.json", `{"name": "Good", "stages": [{"type": "TEXT", "config": {"answer": "HI"}}]}`)

	ok, err := validateDir(context.Background(), newTestGenerator(), dir)
	require.NoError(t, err)
	assert.True(t, ok)

	writeDeck(t, dir, "bad.json", `{"name": "Bad", "stages": []}`)
	ok, err = validateDir(context.Background(), newTestGenerator(), dir)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestValidateDir_Empty(t *testing.T) {
	_, err := validateDir(context.Background(), newTestGenerator(), t.TempDir())
	assert.Error(t, err)
}

func TestValidateShippedDecks(t *testing.T) {
	if _, err := os.Stat("../configs"); os.IsNotExist(err) {
		t.Skip("configs directory not found")
	}

	files, err := filepath.Glob("../configs/*.json")
	require.NoError(t, err)
	for _, file := range files {
		result := validateDeckFile(context.Background(), newTestGenerator(), file)
		assert.True(t, result.Valid, "%s: %v", result.File, result.Errors)
	}
}
