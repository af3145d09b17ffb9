package logging

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupTestOutput captures console output and resets global state
func setupTestOutput(t *testing.T) (out, errOut *bytes.Buffer) {
	t.Helper()

	out = &bytes.Buffer{}
	errOut = &bytes.Buffer{}

	origStdout, origStderr, origThreshold := stdout, stderr, threshold
	origRunID, origRunIDOnce := runID, runIDOnce

	stdout, stderr, threshold = out, errOut, LevelInfo
	runID = ""
	runIDOnce = sync.Once{}

	t.Cleanup(func() {
		_ = Close()
		stdout, stderr, threshold = origStdout, origStderr, origThreshold
		runID, runIDOnce = origRunID, origRunIDOnce
	})
	return out, errOut
}

func TestLoggerFormatting(t *testing.T) {
	out, errOut := setupTestOutput(t)
	require.NoError(t, Configure(Options{Level: LevelDebug}))

	logger := NewLogger("test")
	logger.Printf("Test message %d", 123)
	logger.Debugf("Debug message")
	logger.Infof("Info message")
	logger.Warnf("Warning message")
	logger.Errorf("Error message")

	assert.Contains(t, out.String(), "[test] [INFO] Test message 123")
	assert.Contains(t, out.String(), "[test] [DEBUG] Debug message")
	assert.Contains(t, out.String(), "[test] [INFO] Info message")
	assert.NotContains(t, out.String(), "WARN")

	assert.Contains(t, errOut.String(), "[test] [WARN] Warning message")
	assert.Contains(t, errOut.String(), "[test] [ERROR] Error message")
}

func TestLoggerThreshold(t *testing.T) {
	out, errOut := setupTestOutput(t)
	require.NoError(t, Configure(Options{Level: LevelWarn}))

	logger := NewLogger("dispatch")
	logger.Debugf("hidden debug")
	logger.Infof("hidden info")
	logger.Warnf("shown warning")

	assert.Empty(t, out.String())
	assert.Contains(t, errOut.String(), "shown warning")
}

func TestRunLogFileReceivesAllLevels(t *testing.T) {
	setupTestOutput(t)
	dir := t.TempDir()
	require.NoError(t, Configure(Options{Level: LevelError, Dir: dir}))

	NewLogger("component1").Debugf("from one")
	NewLogger("component2").Infof("from two")

	path := LogPath()
	require.NotEmpty(t, path)
	assert.Equal(t, dir, filepath.Dir(path))
	assert.True(t, strings.HasSuffix(filepath.Base(path), "-waprobe.log"))

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(content), "[component1] [DEBUG] from one")
	assert.Contains(t, string(content), "[component2] [INFO] from two")
}

func TestConfigureUnwritableDir(t *testing.T) {
	out, _ := setupTestOutput(t)

	blocker := filepath.Join(t.TempDir(), "file")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0600))

	err := Configure(Options{Level: LevelInfo, Dir: filepath.Join(blocker, "logs")})
	require.Error(t, err)
	assert.Empty(t, LogPath())

	NewLogger("fallback").Infof("still works")
	assert.Contains(t, out.String(), "still works")
}

func TestGetRunID(t *testing.T) {
	setupTestOutput(t)

	id1 := GetRunID()
	id2 := GetRunID()
	assert.Equal(t, id1, id2)
	assert.NotEmpty(t, id1)
	assert.Contains(t, id1, "-")
}

func TestCloseIsIdempotent(t *testing.T) {
	setupTestOutput(t)
	require.NoError(t, Configure(Options{Dir: t.TempDir()}))

	assert.NoError(t, Close())
	assert.NoError(t, Close())
	assert.Empty(t, LogPath())
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    Level
		wantErr bool
	}{
		{"debug", LevelDebug, false},
		{"INFO", LevelInfo, false},
		{"", LevelInfo, false},
		{"warning", LevelWarn, false},
		{"error", LevelError, false},
		{"loud", LevelInfo, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseLevel(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
