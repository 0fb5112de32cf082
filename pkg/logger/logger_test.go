package logger_test

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/donaldgifford/perses-gateway/pkg/logger"
)

func TestParseLevel(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  slog.Level
	}{
		{name: "debug", input: "debug", want: slog.LevelDebug},
		{name: "info", input: "info", want: slog.LevelInfo},
		{name: "warn", input: "warn", want: slog.LevelWarn},
		{name: "warning alias", input: "warning", want: slog.LevelWarn},
		{name: "error", input: "error", want: slog.LevelError},
		{name: "upper case", input: "DEBUG", want: slog.LevelDebug},
		{name: "surrounding space", input: " error ", want: slog.LevelError},
		{name: "empty defaults to info", input: "", want: slog.LevelInfo},
		{name: "unknown defaults to info", input: "trace", want: slog.LevelInfo},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, logger.ParseLevel(tt.input))
		})
	}
}

func TestNew(t *testing.T) {
	t.Parallel()

	require.NotNil(t, logger.New("info", "text"))
}

func TestNewWithWriter_Formats(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		format string
		want   []string
	}{
		{name: "text", format: "text", want: []string{"level=INFO", "msg=hello"}},
		{name: "json", format: "json", want: []string{`"level":"INFO"`, `"msg":"hello"`}},
		{name: "json any case", format: "JSON", want: []string{`"msg":"hello"`}},
		{name: "unknown falls back to text", format: "logfmt", want: []string{"msg=hello"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var buf bytes.Buffer
			logger.NewWithWriter(&buf, "info", tt.format).Info("hello")
			for _, w := range tt.want {
				assert.Contains(t, buf.String(), w)
			}
		})
	}
}

func TestNewWithWriter_LevelFiltering(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		level      string
		logFunc    func(l *slog.Logger)
		wantOutput bool
	}{
		{
			name:       "debug message visible at debug level",
			level:      "debug",
			logFunc:    func(l *slog.Logger) { l.Debug("test") },
			wantOutput: true,
		},
		{
			name:       "debug message suppressed at info level",
			level:      "info",
			logFunc:    func(l *slog.Logger) { l.Debug("test") },
			wantOutput: false,
		},
		{
			name:       "info message suppressed at warn level",
			level:      "warn",
			logFunc:    func(l *slog.Logger) { l.Info("test") },
			wantOutput: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var buf bytes.Buffer
			tt.logFunc(logger.NewWithWriter(&buf, tt.level, "text"))

			if tt.wantOutput {
				assert.NotEmpty(t, buf.String())
			} else {
				assert.Empty(t, buf.String())
			}
		})
	}
}

func TestComponent(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	l := logger.Component(logger.NewWithWriter(&buf, "info", "text"), "warmup")
	l.Info("started")

	assert.Contains(t, buf.String(), "component=warmup")
}

func TestDiscard(t *testing.T) {
	t.Parallel()

	l := logger.Discard()
	l.Error("dropped")
	assert.False(t, l.Enabled(t.Context(), slog.LevelError))
}
