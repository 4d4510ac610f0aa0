package manager

import (
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shazow/wifimgr/internal/store"
	"github.com/shazow/wifimgr/wifi"
)

func newTestFavorites(items []string) (*Favorites, *store.Memory[[]string]) {
	slot := store.NewMemory(items)
	return NewFavorites(slot, slog.New(slog.NewTextHandler(io.Discard, nil))), slot
}

func TestFavoritesAddIdempotent(t *testing.T) {
	f, slot := newTestFavorites(nil)

	require.True(t, f.Add("HomeNet").Success)
	require.True(t, f.Add("Office").Success)
	result := f.Add("HomeNet")
	assert.True(t, result.Success)
	assert.Equal(t, "added to favorites", result.Message)

	assert.Equal(t, []string{"HomeNet", "Office"}, f.List())
	assert.Equal(t, []string{"HomeNet", "Office"}, slot.Value())
	assert.Equal(t, 2, slot.Saves, "a repeated add should not rewrite the file")
}

func TestFavoritesRemoveIdempotent(t *testing.T) {
	f, slot := newTestFavorites([]string{"A", "B", "C"})

	assert.True(t, f.Remove("B").Success)
	result := f.Remove("B")
	assert.True(t, result.Success)
	assert.Equal(t, "removed from favorites", result.Message)
	assert.True(t, f.Remove("never-added").Success)

	assert.Equal(t, []string{"A", "C"}, f.List())
	assert.Equal(t, 1, slot.Saves)
}

func TestFavoritesRejectsPlaceholder(t *testing.T) {
	f, slot := newTestFavorites(nil)

	for _, ssid := range []string{"", "   ", wifi.Placeholder} {
		result := f.Add(ssid)
		assert.False(t, result.Success, "Add(%q)", ssid)
	}
	assert.Empty(t, f.List())
	assert.Zero(t, slot.Saves)
}

func TestFavoritesSaveFailureKeepsMemory(t *testing.T) {
	f, slot := newTestFavorites(nil)
	slot.SaveError = errors.New("disk full")

	result := f.Add("HomeNet")
	assert.False(t, result.Success)
	assert.Contains(t, result.Message, "disk full")
	assert.Equal(t, []string{"HomeNet"}, f.List())

	// The next successful write persists everything.
	slot.SaveError = nil
	require.True(t, f.Add("Office").Success)
	assert.Equal(t, []string{"HomeNet", "Office"}, slot.Value())
}

func TestFavoritesLoad(t *testing.T) {
	f, _ := newTestFavorites([]string{"A", "", "B", "A"})
	assert.Equal(t, []string{"A", "B"}, f.List())

	slot := store.NewMemory[[]string](nil)
	slot.LoadError = errors.New("unexpected end of JSON input")
	broken := NewFavorites(slot, slog.New(slog.NewTextHandler(io.Discard, nil)))
	assert.Empty(t, broken.List())
}

func TestFavoritesContainsCleaned(t *testing.T) {
	f, _ := newTestFavorites([]string{"BigFace-Wifi"})
	assert.True(t, f.Contains("BigFace-Wifi 259"))
	assert.True(t, f.Contains(" BigFace-Wifi "))
	assert.False(t, f.Contains("BigFace"))
}

func TestFavoritesListIsCopy(t *testing.T) {
	f, _ := newTestFavorites([]string{"A"})
	list := f.List()
	list[0] = "mutated"
	assert.Equal(t, []string{"A"}, f.List())
}
