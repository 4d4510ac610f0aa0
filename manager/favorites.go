package manager

import (
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"sync"

	"github.com/shazow/wifimgr/internal/store"
	"github.com/shazow/wifimgr/wifi"
)

// Favorites is the ordered set of favorite SSIDs. It is loaded once from its
// slot and rewritten in full on every change.
//
// When a write fails the in-memory change is kept and a failure result is
// returned. The next successful write persists the whole set again.
type Favorites struct {
	mu     sync.Mutex
	slot   store.Slot[[]string]
	items  []string
	logger *slog.Logger
}

// NewFavorites loads the set from slot. An unreadable slot starts empty.
func NewFavorites(slot store.Slot[[]string], logger *slog.Logger) *Favorites {
	items, err := slot.Load()
	if err != nil {
		logger.Error("failed to load favorites, starting empty", "error", err)
		items = nil
	}

	// Drop duplicates and blanks a hand-edited file may contain.
	unique := make([]string, 0, len(items))
	for _, ssid := range items {
		if strings.TrimSpace(ssid) == "" || slices.Contains(unique, ssid) {
			continue
		}
		unique = append(unique, ssid)
	}

	return &Favorites{
		slot:   slot,
		items:  unique,
		logger: logger,
	}
}

// List returns a copy of the favorites in insertion order.
func (f *Favorites) List() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return slices.Clone(f.items)
}

// Contains reports whether ssid is a favorite, comparing cleaned names.
func (f *Favorites) Contains(ssid string) bool {
	want := wifi.CleanSSID(ssid)
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, item := range f.items {
		if wifi.CleanSSID(item) == want {
			return true
		}
	}
	return false
}

// Add appends ssid unless it is already present.
func (f *Favorites) Add(ssid string) wifi.Result {
	if strings.TrimSpace(ssid) == "" || ssid == wifi.Placeholder {
		return wifi.Result{Success: false, Message: fmt.Sprintf("cannot add %q to favorites", ssid)}
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	if !slices.Contains(f.items, ssid) {
		f.items = append(f.items, ssid)
		if err := f.save(); err != nil {
			return wifi.Result{Success: false, Message: err.Error()}
		}
	}
	return wifi.Result{Success: true, Message: "added to favorites"}
}

// Remove deletes ssid if present.
func (f *Favorites) Remove(ssid string) wifi.Result {
	f.mu.Lock()
	defer f.mu.Unlock()

	if i := slices.Index(f.items, ssid); i >= 0 {
		f.items = slices.Delete(f.items, i, i+1)
		if err := f.save(); err != nil {
			return wifi.Result{Success: false, Message: err.Error()}
		}
	}
	return wifi.Result{Success: true, Message: "removed from favorites"}
}

// save must be called with f.mu held.
func (f *Favorites) save() error {
	if err := f.slot.Save(slices.Clone(f.items)); err != nil {
		f.logger.Error("failed to save favorites", "error", err)
		return fmt.Errorf("failed to save favorites: %w", err)
	}
	return nil
}
