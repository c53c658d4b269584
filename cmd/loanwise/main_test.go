package main

import (
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/Veraticus/loanwise/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInvalidConfigFromEnvironment(t *testing.T) {
	t.Setenv("LOANWISE_RENDER_MODE", "coinflip")

	_, err := execute(t, "predict", "--json")
	require.Error(t, err)
	assert.ErrorIs(t, err, common.ErrInvalidConfig)
	assert.Equal(t, "Invalid configuration", common.UserMessage(err))
}

func TestTUILogWriter(t *testing.T) {
	t.Run("no file discards", func(t *testing.T) {
		w, closeFn, err := tuiLogWriter("")
		require.NoError(t, err)
		defer closeFn()
		assert.Equal(t, io.Discard, w)
	})

	t.Run("file is appended", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "loanwise.log")
		w, closeFn, err := tuiLogWriter(path)
		require.NoError(t, err)

		_, err = io.WriteString(w, "hello\n")
		require.NoError(t, err)
		closeFn()

		data, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Equal(t, "hello\n", string(data))
	})

	t.Run("unwritable path", func(t *testing.T) {
		_, _, err := tuiLogWriter(filepath.Join(t.TempDir(), "missing", "loanwise.log"))
		require.Error(t, err)
		assert.Equal(t, "Cannot open log file", common.UserMessage(err))
	})
}
