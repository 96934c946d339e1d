package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewFileLogger(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "nested", "dir", "test.log")

	logger, err := NewFileLogger(FileLoggerConfig{
		Path:       logPath,
		Format:     FormatText,
		Level:      InfoLevel,
		MaxSizeMB:  1,
		MaxBackups: 3,
	})
	require.NoError(t, err)

	logger.Info(context.Background(), "hello", Fields{"k": "v"})
	require.NoError(t, logger.Close())

	data, err := os.ReadFile(logPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), "msg=hello")
	assert.Contains(t, string(data), "k=v")
}

func TestNewFileLogger_EmptyPath(t *testing.T) {
	_, err := NewFileLogger(FileLoggerConfig{})
	assert.Error(t, err)
}

func TestFileLogger_LogLevels(t *testing.T) {
	var buf bytes.Buffer
	logger := NewWriterLogger(&buf, FormatText, WarnLevel)
	ctx := context.Background()

	logger.Debug(ctx, "debug message", nil)
	logger.Info(ctx, "info message", nil)
	logger.Warn(ctx, "warn message", nil)
	logger.Error(ctx, "error message", errors.New("boom"), nil)

	out := buf.String()
	assert.NotContains(t, out, "debug message")
	assert.NotContains(t, out, "info message")
	assert.Contains(t, out, "warn message")
	assert.Contains(t, out, "error message")
	assert.Contains(t, out, `error=boom`)
}

func TestFileLogger_JSONFormat(t *testing.T) {
	var buf bytes.Buffer
	logger := NewWriterLogger(&buf, FormatJSON, DebugLevel)

	logger.WithFields(Fields{"run_id": "abc"}).Info(context.Background(), "scan", Fields{"dirs": 3})

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &entry))
	assert.Equal(t, "INFO", entry["level"])
	assert.Equal(t, "scan", entry["msg"])
	assert.Equal(t, "abc", entry["run_id"])
	assert.Equal(t, float64(3), entry["dirs"])
}

func TestFileLogger_FieldOrder(t *testing.T) {
	var buf bytes.Buffer
	logger := NewWriterLogger(&buf, FormatText, InfoLevel)

	logger.Info(context.Background(), "ordered", Fields{"b": 2, "a": 1, "c": 3})

	out := buf.String()
	assert.Less(t, strings.Index(out, "a=1"), strings.Index(out, "b=2"))
	assert.Less(t, strings.Index(out, "b=2"), strings.Index(out, "c=3"))
}

func TestParseLevel(t *testing.T) {
	tests := map[string]Level{
		"debug":   DebugLevel,
		"INFO":    InfoLevel,
		"warning": WarnLevel,
		"error":   ErrorLevel,
		"bogus":   InfoLevel,
	}
	for in, want := range tests {
		assert.Equal(t, want, ParseLevel(in), in)
	}
	assert.Equal(t, "WARN", LevelString(WarnLevel))
}

func TestNullLogger(t *testing.T) {
	var logger Logger = NewNullLogger()
	ctx := context.Background()

	logger.Debug(ctx, "x", nil)
	logger.Error(ctx, "x", errors.New("y"), Fields{"a": 1})
	assert.Same(t, logger, logger.WithFields(Fields{"a": 1}))
	assert.NoError(t, logger.Close())
}
