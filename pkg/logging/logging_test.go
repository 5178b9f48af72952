package logging

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/assert"
)

func TestSetupLogger(t *testing.T) {
	tests := []struct {
		name      string
		verbosity int
		wantLevel zerolog.Level
	}{
		{"default warn level", 0, zerolog.WarnLevel},
		{"info level", 1, zerolog.InfoLevel},
		{"debug level", 2, zerolog.DebugLevel},
		{"trace level", 3, zerolog.TraceLevel},
		{"high verbosity defaults to trace", 5, zerolog.TraceLevel},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tempDir := t.TempDir()
			t.Setenv(EnvLogDir, tempDir)

			SetupLogger(tt.verbosity)

			assert.Equal(t, tt.wantLevel, zerolog.GlobalLevel())
			_, err := os.Stat(filepath.Join(tempDir, LogFileName))
			assert.NoError(t, err, "log file should be created")
		})
	}
}

func TestGetLogFilePath(t *testing.T) {
	t.Run("with OUKARO_LOG_DIR", func(t *testing.T) {
		t.Setenv(EnvLogDir, "/data/adb/oukaro/logs")
		assert.Equal(t, "/data/adb/oukaro/logs/oukaro.log", getLogFilePath())
	})

	t.Run("xdg default", func(t *testing.T) {
		t.Setenv(EnvLogDir, "")
		got := getLogFilePath()
		assert.True(t, filepath.IsAbs(got))
		assert.Equal(t, filepath.Join("oukaro", LogFileName), filepath.Join(filepath.Base(filepath.Dir(got)), filepath.Base(got)))
	})
}

func TestLogCommand(t *testing.T) {
	var buf bytes.Buffer
	log.Logger = zerolog.New(&buf).Level(zerolog.DebugLevel)
	zerolog.SetGlobalLevel(zerolog.TraceLevel)

	LogCommand("pm", []string{"path", "com.a"})

	out := buf.String()
	assert.Contains(t, out, `"command":"pm"`)
	assert.Contains(t, out, "com.a")
	assert.Contains(t, out, "Executing command")
}

func TestLogOperationStart(t *testing.T) {
	var buf bytes.Buffer
	zerolog.SetGlobalLevel(zerolog.TraceLevel)
	logger := zerolog.New(&buf).Level(zerolog.DebugLevel)

	done := LogOperationStart(logger, "seed")
	done()

	out := buf.String()
	assert.Contains(t, out, "Operation started")
	assert.Contains(t, out, "Operation completed")
}

func TestGetLoggerAndWithPackage(t *testing.T) {
	var buf bytes.Buffer
	log.Logger = zerolog.New(&buf)
	zerolog.SetGlobalLevel(zerolog.TraceLevel)

	logger := WithPackage(GetLogger("reconcile"), "com.a", "priv-app", "mount")
	logger.Info().Msg("applied")

	out := buf.String()
	assert.Contains(t, out, `"component":"reconcile"`)
	assert.Contains(t, out, `"package":"com.a"`)
	assert.Contains(t, out, `"role":"priv-app"`)
	assert.Contains(t, out, `"op":"mount"`)
}
