package common

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodeLines(t *testing.T, out string) []map[string]any {
	t.Helper()
	var result []map[string]any
	for _, line := range strings.Split(strings.TrimSpace(out), "\n") {
		if line == "" {
			continue
		}
		var entry map[string]any
		require.NoError(t, json.Unmarshal([]byte(line), &entry), line)
		result = append(result, entry)
	}
	return result
}

func TestLogger_JSONFields(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(LoggerOptions{Level: "debug", Format: "json", Out: &buf})

	logger.Info("image prepared", "width", 336, "source", "prompts/PROMPT_1.jpg")
	logger.Error("test case failed", "error", errors.New("boom"))

	lines := decodeLines(t, buf.String())
	require.Len(t, lines, 2)
	assert.Equal(t, "info", lines[0]["level"])
	assert.Equal(t, "image prepared", lines[0]["message"])
	assert.EqualValues(t, 336, lines[0]["width"])
	assert.Equal(t, "prompts/PROMPT_1.jpg", lines[0]["source"])
	assert.Equal(t, "boom", lines[1]["error"])
}

func TestLogger_Levels(t *testing.T) {
	tests := []struct {
		level    string
		expected []string
	}{
		{"debug", []string{"debug", "info", "warn", "error"}},
		{"INFO", []string{"info", "warn", "error"}},
		{"warn", []string{"warn", "error"}},
		{"error", []string{"error"}},
		{"", []string{"info", "warn", "error"}},
	}
	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			var buf bytes.Buffer
			logger := NewLogger(LoggerOptions{Level: tt.level, Format: "json", Out: &buf})
			logger.Debug("d")
			logger.Info("i")
			logger.Warn("w")
			logger.Error("e")

			var levels []string
			for _, line := range decodeLines(t, buf.String()) {
				levels = append(levels, line["level"].(string))
			}
			assert.Equal(t, tt.expected, levels)
		})
	}
}

func TestLogger_With(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(LoggerOptions{Format: "json", Out: &buf}).With("run_id", "abc")

	logger.Info("bias test run started", "cases", 5)

	lines := decodeLines(t, buf.String())
	require.Len(t, lines, 1)
	assert.Equal(t, "abc", lines[0]["run_id"])
	assert.EqualValues(t, 5, lines[0]["cases"])
}

func TestLogger_File(t *testing.T) {
	var buf bytes.Buffer
	path := filepath.Join(t.TempDir(), "log.txt")
	logger := NewLogger(LoggerOptions{Format: "json", Out: &buf, FilePath: path})

	logger.Info("hello")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"message":"hello"`)
	assert.Contains(t, buf.String(), `"message":"hello"`)
}

func TestLogger_UnwritableFileFallsBackToConsole(t *testing.T) {
	var buf bytes.Buffer
	path := filepath.Join(t.TempDir(), "missing", "dir", "log.txt")
	logger := NewLogger(LoggerOptions{Format: "json", Out: &buf, FilePath: path})

	logger.Info("still here")

	assert.Contains(t, buf.String(), "logging switched to console")
	assert.Contains(t, buf.String(), "still here")
}

func TestNopLogger(t *testing.T) {
	logger := NewNopLogger()
	logger.Info("nothing", "key", "value")
	logger.With("a", 1).Error("nothing either")
}
