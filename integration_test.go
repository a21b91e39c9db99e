package jmtlogger

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuilderEndToEnd(t *testing.T) {
	tmpDir := t.TempDir()

	logger, err := NewBuilder().
		Name("builder_test").
		LevelString("debug").
		Directory(tmpDir).
		EnableFile(true).
		EnableConsole(false).
		MaxFileSize(1024 * 1024).
		BackupCount(2).
		Build()
	require.NoError(t, err)

	logger.Debug("built and running", "attempt", 1)
	require.NoError(t, logger.Close(2*time.Second))

	lines := readLogLines(t, filepath.Join(tmpDir, "builder_test.log"), 1)
	require.Len(t, lines, 1)
	assert.Contains(t, lines[0], "DEBUG")
	assert.Contains(t, lines[0], "built and running")
	assert.Contains(t, lines[0], "attempt=1")
}

func TestBuilderInvalidLevel(t *testing.T) {
	_, err := NewBuilder().LevelString("loudest").Build()
	assert.Error(t, err)
}

func TestBuilderInvalidConfig(t *testing.T) {
	_, err := NewBuilder().
		EnableConsole(false).
		EnableFile(false).
		Build()
	assert.Error(t, err)
}

// TestSharedFileTwoLoggers runs two independent logger instances
// against the same file, the in-process equivalent of two processes
// sharing a log path.
func TestSharedFileTwoLoggers(t *testing.T) {
	tmpDir := t.TempDir()
	sharedPath := filepath.Join(tmpDir, "shared.log")

	newShared := func(name string) *Logger {
		logger, err := NewBuilder().
			Name(name).
			File(sharedPath).
			EnableConsole(false).
			MaxFileSize(0).
			Build()
		require.NoError(t, err)
		return logger
	}

	first := newShared("proc_a")
	second := newShared("proc_b")

	const perLogger = 200
	var wg sync.WaitGroup
	for _, logger := range []*Logger{first, second} {
		wg.Add(1)
		go func(l *Logger) {
			defer wg.Done()
			for i := 0; i < perLogger; i++ {
				l.Info(fmt.Sprintf("shared record %04d", i))
			}
		}(logger)
	}
	wg.Wait()

	require.NoError(t, first.Close(5*time.Second))
	require.NoError(t, second.Close(5*time.Second))

	lines := readLogLines(t, sharedPath, 2*perLogger)
	require.Len(t, lines, 2*perLogger)

	// No interleaved or truncated lines: every line is complete.
	for _, line := range lines {
		assert.Contains(t, line, "shared record")
	}
	assert.Equal(t, perLogger, strings.Count(strings.Join(lines, "\n"), "proc_a"))
}

// TestSharedFileRotationConsistency drives two sinks over the same
// path with rotation enabled and verifies every record survives intact
// in exactly one file of the chain.
func TestSharedFileRotationConsistency(t *testing.T) {
	tmpDir := t.TempDir()
	sharedPath := filepath.Join(tmpDir, "rotating.log")

	sinkA, err := newRotatingSink(sharedPath, 4096, 20, nil, nil)
	require.NoError(t, err)
	sinkB, err := newRotatingSink(sharedPath, 4096, 20, nil, nil)
	require.NoError(t, err)

	const perSink = 150
	var wg sync.WaitGroup
	for tag, sink := range map[string]*rotatingSink{"alpha": sinkA, "beta": sinkB} {
		wg.Add(1)
		go func(tag string, s *rotatingSink) {
			defer wg.Done()
			for i := 0; i < perSink; i++ {
				line := fmt.Sprintf("rec %s %04d %s", tag, i, strings.Repeat("p", 40))
				assert.NoError(t, s.Write([]byte(line)))
			}
		}(tag, sink)
	}
	wg.Wait()

	require.NoError(t, sinkA.Close())
	require.NoError(t, sinkB.Close())

	// Collect every line across the whole chain.
	pattern := regexp.MustCompile(`^rec (alpha|beta) \d{4} p{40}$`)
	seen := 0
	entries, err := os.ReadDir(tmpDir)
	require.NoError(t, err)
	for _, entry := range entries {
		if strings.HasSuffix(entry.Name(), ".lock") {
			continue
		}
		data, err := os.ReadFile(filepath.Join(tmpDir, entry.Name()))
		require.NoError(t, err)
		for _, line := range strings.Split(strings.TrimRight(string(data), "\n"), "\n") {
			if line == "" {
				continue
			}
			assert.True(t, pattern.MatchString(line), "corrupted line: %q", line)
			seen++
		}
	}
	assert.Equal(t, 2*perSink, seen)
}

func TestDefaultLoggerLifecycle(t *testing.T) {
	tmpDir := t.TempDir()

	cfg := DefaultConfig()
	cfg.Name = "default_test"
	cfg.Directory = tmpDir
	cfg.EnableConsole = false
	cfg.EnableFile = true
	cfg.Level = LevelDebug

	require.NoError(t, Init(cfg))

	Debug("package debug")
	Info("package info")
	Warn("package warn")
	Error("package error")
	Critical("package critical")

	require.NoError(t, Flush(time.Second))
	require.NoError(t, Close(2*time.Second))

	lines := readLogLines(t, filepath.Join(tmpDir, "default_test.log"), 5)
	assert.Len(t, lines, 5)

	// Closed default logger is replaced on the next Init.
	require.NoError(t, Init(cfg))
	require.NoError(t, Close(2*time.Second))
}

func TestInitFromFile(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "logger.toml")

	content := `
[logger]
name = "file_init"
enable_file = true
enable_console = false
directory = "` + tmpDir + `"
`
	require.NoError(t, os.WriteFile(configPath, []byte(content), 0644))

	require.NoError(t, InitFromFile(configPath))
	Info("from file config")
	require.NoError(t, Close(2*time.Second))

	lines := readLogLines(t, filepath.Join(tmpDir, "file_init.log"), 1)
	require.Len(t, lines, 1)
	assert.Contains(t, lines[0], "from file config")
}
