package logger

import (
	"bufio"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestZapLoggerWritesJSONLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app.log")
	l := NewZapLogger(path, true)

	l.Info("rag-store", "index ready", map[string]interface{}{"chunks": 3})
	l.Debug("rag-store", "below file level", nil)
	_ = l.Sync()

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	var lines []map[string]interface{}
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		var entry map[string]interface{}
		require.NoError(t, json.Unmarshal(scanner.Bytes(), &entry))
		lines = append(lines, entry)
	}

	require.Len(t, lines, 1)
	assert.Equal(t, "INFO", lines[0]["level"])
	assert.Equal(t, "index ready", lines[0]["message"])
	assert.Equal(t, "rag-store", lines[0]["module"])
	assert.Equal(t, path, l.FilePath())
}

func TestNopLogger(t *testing.T) {
	l := NewNopLogger()
	l.Error("test", "nothing happens", map[string]interface{}{"error": "boom"})
	assert.NoError(t, l.Sync())
}
