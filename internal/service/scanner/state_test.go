package scanner

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStateStore_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "lastChecked.json")
	closedAt := time.Date(2024, 5, 1, 23, 59, 59, 0, time.UTC)

	store := NewStateStore(path)
	store.MarkProcessed("BTCUSDT", closedAt)
	store.Touch("ETHUSDT") // seen, never evaluated
	require.NoError(t, store.Save())

	// Null must survive the file, not get dropped or zeroed.
	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"ETHUSDT":null`)

	loaded := NewStateStore(path)
	loaded.Load()

	got, ok := loaded.LastProcessed("BTCUSDT")
	require.True(t, ok)
	assert.True(t, got.Equal(closedAt), "got %s", got)

	_, ok = loaded.LastProcessed("ETHUSDT")
	assert.False(t, ok)

	loaded.mu.RLock()
	defer loaded.mu.RUnlock()
	assert.Len(t, loaded.entries, 2)
}

func TestStateStore_MissingFile(t *testing.T) {
	store := NewStateStore(filepath.Join(t.TempDir(), "missing.json"))
	store.Load()

	_, ok := store.LastProcessed("BTCUSDT")
	assert.False(t, ok)
}

func TestStateStore_CorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "lastChecked.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	store := NewStateStore(path)
	store.Load()

	_, ok := store.LastProcessed("BTCUSDT")
	assert.False(t, ok)

	// A corrupt file must not stop the store from saving again.
	store.MarkProcessed("BTCUSDT", time.Now().UTC())
	require.NoError(t, store.Save())

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(raw), "{"))
}

func TestStateStore_TouchKeepsTimestamp(t *testing.T) {
	store := NewStateStore(filepath.Join(t.TempDir(), "lastChecked.json"))
	closedAt := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)

	store.MarkProcessed("BTCUSDT", closedAt)
	store.Touch("BTCUSDT")

	got, ok := store.LastProcessed("BTCUSDT")
	require.True(t, ok)
	assert.True(t, got.Equal(closedAt))
}
