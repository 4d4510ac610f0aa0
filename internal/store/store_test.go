package store

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type record struct {
	SSID      string `json:"ssid"`
	Signal    int    `json:"signal"`
	Timestamp int64  `json:"timestamp"`
}

func TestFileMissingIsZero(t *testing.T) {
	f := NewFile[[]string](filepath.Join(t.TempDir(), "favorites.json"))
	got, err := f.Load()
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestFileRoundTrip(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "data")
	f := NewFile[[]string](filepath.Join(dir, "favorites.json"))

	require.NoError(t, f.Save([]string{"Home", "Cafe"}))
	got, err := f.Load()
	require.NoError(t, err)
	assert.Equal(t, []string{"Home", "Cafe"}, got)

	data, err := os.ReadFile(f.Path())
	require.NoError(t, err)
	assert.Equal(t, "[\n  \"Home\",\n  \"Cafe\"\n]", string(data))
}

func TestFilePointerNull(t *testing.T) {
	f := NewFile[*record](filepath.Join(t.TempDir(), "current-connection.json"))

	require.NoError(t, f.Save(&record{SSID: "Home", Signal: 75, Timestamp: 1700000000000}))
	got, err := f.Load()
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "Home", got.SSID)

	require.NoError(t, f.Save(nil))
	data, err := os.ReadFile(f.Path())
	require.NoError(t, err)
	assert.Equal(t, "null", string(data))

	got, err = f.Load()
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestFileMalformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "favorites.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	got, err := NewFile[[]string](path).Load()
	assert.Error(t, err)
	assert.Nil(t, got)
}

func TestFileUnwritable(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "blocker")
	require.NoError(t, os.WriteFile(blocker, nil, 0o644))

	// The parent "directory" is a regular file, so MkdirAll fails.
	f := NewFile[[]string](filepath.Join(blocker, "favorites.json"))
	assert.Error(t, f.Save([]string{"Home"}))
}

func TestMemory(t *testing.T) {
	m := NewMemory([]string{"Home"})
	got, err := m.Load()
	require.NoError(t, err)
	assert.Equal(t, []string{"Home"}, got)

	require.NoError(t, m.Save([]string{"Home", "Cafe"}))
	assert.Equal(t, 1, m.Saves)
	assert.Equal(t, []string{"Home", "Cafe"}, m.Value())

	m.SaveError = errors.New("disk full")
	assert.Error(t, m.Save(nil))
	assert.Equal(t, []string{"Home", "Cafe"}, m.Value())

	m.LoadError = errors.New("unreadable")
	_, err = m.Load()
	assert.Error(t, err)
}
