package logging

import (
	"bytes"
	stdLog "log"
	"testing"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// restoreGlobals undoes changes a test makes to process wide logging state.
func restoreGlobals(t *testing.T) {
	t.Helper()
	level := zerolog.GlobalLevel()
	logger := log.Logger
	w := getLogWriter()
	stdOut, stdFlags := stdLog.Writer(), stdLog.Flags()
	t.Cleanup(func() {
		zerolog.SetGlobalLevel(level)
		log.Logger = logger
		SetLogWriter(w)
		stdLog.SetOutput(stdOut)
		stdLog.SetFlags(stdFlags)
	})
}

func TestNewLogger(t *testing.T) {
	logger := NewLogger("test-component", zerolog.InfoLevel)
	require.Equal(t, zerolog.InfoLevel, logger.GetLevel())
}

func TestNewLoggerWithWriter(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLoggerWithWriter("test", zerolog.DebugLevel, &buf)

	logger.Debug().Msg("test debug message")
	assert.Contains(t, buf.String(), "test debug message")
	assert.Contains(t, buf.String(), `"component":"test"`)
	assert.Contains(t, buf.String(), `"level":"debug"`)
}

func TestNewLoggerLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLoggerWithWriter("test", zerolog.InfoLevel, &buf)

	logger.Debug().Msg("debug message")
	assert.NotContains(t, buf.String(), "debug message")

	logger.Info().Msg("info message")
	assert.Contains(t, buf.String(), "info message")

	logger.Warn().Msg("warn message")
	assert.Contains(t, buf.String(), "warn message")
}

func TestNewLoggerMultipleInstances(t *testing.T) {
	var buf1, buf2 bytes.Buffer

	logger1 := NewLoggerWithWriter("component-1", zerolog.InfoLevel, &buf1)
	logger2 := NewLoggerWithWriter("component-2", zerolog.WarnLevel, &buf2)

	logger1.Info().Msg("from logger 1")
	logger2.Warn().Msg("from logger 2")

	assert.Contains(t, buf1.String(), `"component":"component-1"`)
	assert.NotContains(t, buf1.String(), "from logger 2")
	assert.Contains(t, buf2.String(), `"component":"component-2"`)
	assert.Contains(t, buf2.String(), "from logger 2")
}

func TestConfigureGlobal(t *testing.T) {
	restoreGlobals(t)

	var buf bytes.Buffer
	SetLogWriter(&buf)
	ConfigureGlobal(zerolog.InfoLevel)

	assert.Equal(t, zerolog.InfoLevel, zerolog.GlobalLevel())
	log.Info().Msg("global info")
	log.Debug().Msg("global debug")
	assert.Contains(t, buf.String(), "global info")
	assert.NotContains(t, buf.String(), "global debug")
}

func TestConfigureGlobalLogging(t *testing.T) {
	restoreGlobals(t)

	require.NoError(t, ConfigureGlobalLogging("debug", FormatJSON))
	assert.Equal(t, zerolog.DebugLevel, zerolog.GlobalLevel())

	require.NoError(t, ConfigureGlobalLogging("", FormatConsole))
	assert.Equal(t, zerolog.WarnLevel, zerolog.GlobalLevel())

	assert.Error(t, ConfigureGlobalLogging("loud", FormatJSON))
	assert.Error(t, ConfigureGlobalLogging("info", "xml"))
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    zerolog.Level
		wantErr bool
	}{
		{in: "", want: zerolog.WarnLevel},
		{in: "debug", want: zerolog.DebugLevel},
		{in: "INFO", want: zerolog.InfoLevel},
		{in: "error", want: zerolog.ErrorLevel},
		{in: "verbose", wantErr: true},
	}

	for _, tt := range tests {
		got, err := ParseLevel(tt.in)
		if tt.wantErr {
			assert.Error(t, err, tt.in)
			continue
		}
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}
}

func TestStdLogWriter(t *testing.T) {
	var buf bytes.Buffer
	w := &stdLogWriter{logger: zerolog.New(&buf)}

	_, err := w.Write([]byte("2025/05/23 14:40:15 watcher.go:35: file changed\n"))
	require.NoError(t, err)
	assert.Contains(t, buf.String(), `"file":"watcher.go:35"`)
	assert.Contains(t, buf.String(), `"message":"file changed"`)

	buf.Reset()
	_, err = w.Write([]byte("plain line\n"))
	require.NoError(t, err)
	assert.Contains(t, buf.String(), `"message":"plain line"`)
}

func TestLevelOverrideHook(t *testing.T) {
	var buf bytes.Buffer
	logger := WithLevelOverride(zerolog.New(&buf).Level(zerolog.DebugLevel), zerolog.InfoLevel)

	logger.Log().Msg("no level")
	assert.Contains(t, buf.String(), `"level":"info"`)

	buf.Reset()
	quiet := WithLevelOverride(zerolog.New(&buf).Level(zerolog.ErrorLevel), zerolog.DebugLevel)
	quiet.Log().Msg("dropped")
	assert.Empty(t, buf.String())
}
