package common

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    slog.Level
		wantErr bool
	}{
		{"debug", slog.LevelDebug, false},
		{"INFO", slog.LevelInfo, false},
		{"", slog.LevelInfo, false},
		{"warn", slog.LevelWarn, false},
		{"error", slog.LevelError, false},
		{"loud", slog.LevelInfo, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseLevel(tt.in)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSetupLogger_JSON(t *testing.T) {
	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev) })

	var buf bytes.Buffer
	require.NoError(t, SetupLogger("info", "json", &buf))

	LogError(errors.New("dial tcp: refused"), "Prediction failed", Fields{"generation": 3})

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "Prediction failed", entry["msg"])
	assert.Equal(t, "dial tcp: refused", entry["error"])
	assert.Equal(t, float64(3), entry["generation"])
}

func TestSetupLogger_FiltersByLevel(t *testing.T) {
	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev) })

	var buf bytes.Buffer
	require.NoError(t, SetupLogger("warn", "console", &buf))

	LogInfo("hidden", nil)
	assert.Empty(t, buf.String())
}

func TestSetupLogger_InvalidFormat(t *testing.T) {
	assert.Error(t, SetupLogger("info", "xml", nil))
	assert.Error(t, SetupLogger("verbose", "json", nil))
}

func TestUserError(t *testing.T) {
	cause := errors.New("connection refused")
	err := NewUserError("Server not responding", cause)

	assert.Equal(t, "Server not responding: connection refused", err.Error())
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "Server not responding", UserMessage(err))
	assert.Equal(t, "plain", UserMessage(errors.New("plain")))
	assert.Equal(t, "only message", NewUserError("only message", nil).Error())
}
