package logger

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsolatedLogger_GetLogs(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "stream.log")
	l := NewIsolatedLogger(path)

	l.Info("Hub", "first", nil)
	l.Warn("Hub", "second", map[string]interface{}{"user_id": "u1"})
	l.Info("Hub", "third", nil)
	require.NoError(t, l.Sync())

	all, total, err := l.GetLogs("", 10, 0)
	require.NoError(t, err)
	assert.Equal(t, 3, total)
	require.Len(t, all, 3)
	assert.Equal(t, "third", all[0].Message)
	assert.Equal(t, "Hub", all[0].Module)

	warns, total, err := l.GetLogs("WARN", 10, 0)
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	assert.Equal(t, "second", warns[0].Message)

	page, total, err := l.GetLogs("", 2, 2)
	require.NoError(t, err)
	assert.Equal(t, 3, total)
	require.Len(t, page, 1)
	assert.Equal(t, "first", page[0].Message)

	found, err := l.GetLogById(all[1].Id)
	require.NoError(t, err)
	assert.Equal(t, "second", found.Message)

	_, err = l.GetLogById("missing")
	assert.Error(t, err)
}

func TestNopLogger(t *testing.T) {
	l := NewNopLogger()
	l.Error("X", "ignored", map[string]interface{}{"error": assert.AnError})

	logs, total, err := l.GetLogs("", 10, 0)
	require.NoError(t, err)
	assert.Empty(t, logs)
	assert.Zero(t, total)
}
