package compat

import (
	"bufio"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/panjf2000/gnet/v2/pkg/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/valyala/fasthttp"

	jmtlogger "github.com/JDW2018/JMTLogger"
)

// Compile-time interface conformance checks.
var (
	_ logging.Logger  = (*GnetAdapter)(nil)
	_ fasthttp.Logger = (*FastHTTPAdapter)(nil)
)

// createTestCompatBuilder creates a standard setup for compatibility adapter tests
func createTestCompatBuilder(t *testing.T) (*Builder, *jmtlogger.Logger, string) {
	t.Helper()
	tmpDir := t.TempDir()
	appLogger, err := jmtlogger.NewBuilder().
		Name("compat").
		Directory(tmpDir).
		Format("json").
		LevelString("debug").
		EnableFile(true).
		EnableConsole(false).
		Build()
	require.NoError(t, err)

	builder := NewBuilder().WithLogger(appLogger)
	return builder, appLogger, tmpDir
}

// readLogFile reads a log file, retrying briefly to await async writes
func readLogFile(t *testing.T, dir string, expectedLines int) []string {
	t.Helper()
	var err error

	for i := 0; i < 50; i++ {
		var files []os.DirEntry
		files, err = os.ReadDir(dir)
		if err == nil && len(files) > 0 {
			var logFile *os.File
			logFilePath := filepath.Join(dir, files[0].Name())
			logFile, err = os.Open(logFilePath)
			if err == nil {
				scanner := bufio.NewScanner(logFile)
				var readLines []string
				for scanner.Scan() {
					readLines = append(readLines, scanner.Text())
				}
				logFile.Close()
				if len(readLines) >= expectedLines {
					return readLines
				}
			}
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("Failed to read %d log lines from directory %s. Last error: %v", expectedLines, dir, err)
	return nil
}

// TestCompatBuilder verifies the compatibility builder can be initialized correctly
func TestCompatBuilder(t *testing.T) {
	t.Run("with existing logger", func(t *testing.T) {
		builder, logger, _ := createTestCompatBuilder(t)
		defer logger.Close()

		gnetAdapter, err := builder.BuildGnet()
		require.NoError(t, err)
		assert.NotNil(t, gnetAdapter)
		assert.Equal(t, logger, gnetAdapter.logger)
	})

	t.Run("with config", func(t *testing.T) {
		logCfg := jmtlogger.DefaultConfig()
		logCfg.Directory = t.TempDir()
		logCfg.EnableFile = true
		logCfg.EnableConsole = false

		builder := NewBuilder().WithConfig(logCfg)
		fasthttpAdapter, err := builder.BuildFastHTTP()
		require.NoError(t, err)
		assert.NotNil(t, fasthttpAdapter)

		logger, err := builder.GetLogger()
		require.NoError(t, err)
		defer logger.Close()
	})

	t.Run("nil logger rejected", func(t *testing.T) {
		_, err := NewBuilder().WithLogger(nil).BuildGnet()
		assert.Error(t, err)
	})
}

// TestGnetAdapter tests the gnet adapter's logging output and format
func TestGnetAdapter(t *testing.T) {
	builder, logger, tmpDir := createTestCompatBuilder(t)
	defer logger.Close()

	var fatalCalled bool
	adapter, err := builder.BuildGnet(WithFatalHandler(func(msg string) {
		fatalCalled = true
	}))
	require.NoError(t, err)

	adapter.Debugf("gnet debug id=%d", 1)
	adapter.Infof("gnet info id=%d", 2)
	adapter.Warnf("gnet warn id=%d", 3)
	adapter.Errorf("gnet error id=%d", 4)
	adapter.Fatalf("gnet fatal id=%d", 5)

	err = logger.Flush(time.Second)
	require.NoError(t, err)

	lines := readLogFile(t, tmpDir, 5)
	require.Len(t, lines, 5, "Should have 5 gnet log lines")

	expected := []struct{ level, msg string }{
		{"DEBUG", "gnet debug id=1"},
		{"INFO", "gnet info id=2"},
		{"WARNING", "gnet warn id=3"},
		{"ERROR", "gnet error id=4"},
		{"CRITICAL", "gnet fatal id=5"},
	}

	for i, line := range lines {
		var entry map[string]any
		err := json.Unmarshal([]byte(line), &entry)
		require.NoError(t, err, "Failed to parse log line: %s", line)

		assert.Equal(t, expected[i].level, entry["level"])
		assert.Equal(t, expected[i].msg, entry["message"])

		attrs := entry["attrs"].([]any)
		assert.Equal(t, "origin", attrs[0])
		assert.Equal(t, "gnet", attrs[1])
	}
	assert.True(t, fatalCalled, "Custom fatal handler should have been called")
}

// TestFastHTTPAdapter tests the fasthttp adapter's logging output and level detection
func TestFastHTTPAdapter(t *testing.T) {
	builder, logger, tmpDir := createTestCompatBuilder(t)
	defer logger.Close()

	adapter, err := builder.BuildFastHTTP()
	require.NoError(t, err)

	testMessages := []string{
		"this is some informational message",
		"a debug message for the developers",
		"warning: something might be wrong",
		"an error occurred while processing",
	}
	for _, msg := range testMessages {
		adapter.Printf("%s", msg)
	}

	err = logger.Flush(time.Second)
	require.NoError(t, err)

	lines := readLogFile(t, tmpDir, 4)
	require.Len(t, lines, 4, "Should have 4 fasthttp log lines")

	expectedLevels := []string{"INFO", "DEBUG", "WARNING", "ERROR"}
	for i, line := range lines {
		var entry map[string]any
		err := json.Unmarshal([]byte(line), &entry)
		require.NoError(t, err, "Failed to parse log line: %s", line)

		assert.Equal(t, expectedLevels[i], entry["level"])
		assert.Equal(t, testMessages[i], entry["message"])

		attrs := entry["attrs"].([]any)
		assert.Equal(t, "origin", attrs[0])
		assert.Equal(t, "fasthttp", attrs[1])
	}
}

// TestDetectLogLevel checks keyword-based level detection
func TestDetectLogLevel(t *testing.T) {
	assert.Equal(t, jmtlogger.LevelError, DetectLogLevel("connection failed"))
	assert.Equal(t, jmtlogger.LevelError, DetectLogLevel("PANIC in handler"))
	assert.Equal(t, jmtlogger.LevelWarning, DetectLogLevel("deprecated API used"))
	assert.Equal(t, jmtlogger.LevelDebug, DetectLogLevel("trace: entering handler"))
	assert.Equal(t, jmtlogger.LevelInfo, DetectLogLevel("listening on :8080"))
}
