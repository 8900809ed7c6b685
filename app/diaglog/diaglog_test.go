package diaglog

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoggerFormat(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf)
	l.now = func() time.Time { return time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC) }

	l.Printf("Fetching post %d", 7)
	l.Error("GraphQL", errors.New("Access denied"))

	assert.Equal(t,
		"[2024-03-01T12:00:00Z] Fetching post 7\n[2024-03-01T12:00:00Z] GraphQL Error: Access denied\n",
		buf.String())
}

func TestOpenAppends(t *testing.T) {
	path := filepath.Join(t.TempDir(), "log.txt")

	for i := 0; i < 2; i++ {
		l, err := Open(path)
		require.NoError(t, err)
		l.Printf("line")
		require.NoError(t, l.Close())
	}

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, 2, bytes.Count(data, []byte("line\n")))
}

func TestNilLoggerIsSafe(t *testing.T) {
	var l *Logger
	assert.NotPanics(t, func() {
		l.Printf("ignored")
		_ = l.Close()
	})
}
