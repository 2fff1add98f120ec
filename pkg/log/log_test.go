package log_test

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/grouperdev/grouper/pkg/log"
)

func TestParseLevel(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input   string
		want    slog.Level
		wantErr bool
	}{
		{input: "error", want: slog.LevelError},
		{input: "warn", want: slog.LevelWarn},
		{input: "warning", want: slog.LevelWarn},
		{input: "INFO", want: slog.LevelInfo},
		{input: "debug", want: slog.LevelDebug},
		{input: "verbose", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			t.Parallel()

			got, err := log.ParseLevel(tt.input)
			if tt.wantErr {
				require.ErrorIs(t, err, log.ErrUnknownLogLevel)

				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseFormat(t *testing.T) {
	t.Parallel()

	for _, format := range log.AllFormats {
		got, err := log.ParseFormat(format)
		require.NoError(t, err)
		assert.Equal(t, log.Format(format), got)
	}

	_, err := log.ParseFormat("xml")
	require.ErrorIs(t, err, log.ErrUnknownLogFormat)
}

func TestNewHandlerFromStrings(t *testing.T) {
	t.Parallel()

	t.Run("json handler emits json", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer

		h, err := log.NewHandlerFromStrings(&buf, "info", "json")
		require.NoError(t, err)

		slog.New(h).Info("hello", slog.String("k", "v"))

		var record map[string]any
		require.NoError(t, json.Unmarshal(buf.Bytes(), &record))
		assert.Equal(t, "hello", record["msg"])
		assert.Equal(t, "v", record["k"])
	})

	t.Run("level filters", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer

		h, err := log.NewHandlerFromStrings(&buf, "warn", "logfmt")
		require.NoError(t, err)

		slog.New(h).Info("quiet")
		assert.Empty(t, buf.String())
	})

	t.Run("invalid level", func(t *testing.T) {
		t.Parallel()

		_, err := log.NewHandlerFromStrings(&bytes.Buffer{}, "verbose", "json")
		require.ErrorIs(t, err, log.ErrInvalidArgument)
	})

	t.Run("invalid format", func(t *testing.T) {
		t.Parallel()

		_, err := log.NewHandlerFromStrings(&bytes.Buffer{}, "info", "xml")
		require.ErrorIs(t, err, log.ErrInvalidArgument)
	})
}

func TestWithContext(t *testing.T) {
	t.Parallel()

	assert.Same(t, slog.Default(), log.WithContext(t.Context()))
}
