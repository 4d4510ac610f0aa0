// Package manager implements the profile manager on top of a wifi.Gateway:
// connection orchestration, current-connection reconciliation and favorites.
package manager

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/shazow/wifimgr/internal/store"
	"github.com/shazow/wifimgr/wifi"
)

const (
	FavoritesFile      = "favorites.json"
	LastConnectionFile = "current-connection.json"
)

// Manager is the request surface of the profile manager. No method returns an
// error: failures become empty values or unsuccessful results, and are logged.
type Manager struct {
	gateway   wifi.Gateway
	config    Config
	orch      *Orchestrator
	favorites *Favorites
	logger    *slog.Logger
}

// New creates a Manager persisting its state to the given slots.
func New(gateway wifi.Gateway, favorites store.Slot[[]string], last store.Slot[*wifi.LastConnection], config Config, logger *slog.Logger) *Manager {
	if logger == nil {
		logger = slog.Default()
	}
	config = config.withDefaults()
	return &Manager{
		gateway:   gateway,
		config:    config,
		orch:      NewOrchestrator(gateway, last, config, logger.With("component", "orchestrator")),
		favorites: NewFavorites(favorites, logger.With("component", "favorites")),
		logger:    logger,
	}
}

// NewFromDir creates a Manager storing favorites.json and
// current-connection.json in dataDir.
func NewFromDir(gateway wifi.Gateway, dataDir string, config Config, logger *slog.Logger) (*Manager, error) {
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create data directory %s: %w", dataDir, err)
	}
	return New(
		gateway,
		store.NewFile[[]string](filepath.Join(dataDir, FavoritesFile)),
		store.NewFile[*wifi.LastConnection](filepath.Join(dataDir, LastConnectionFile)),
		config,
		logger,
	), nil
}

// Orchestrator exposes the connection engine, mostly for tests.
func (m *Manager) Orchestrator() *Orchestrator {
	return m.orch
}

// WiFiList returns the saved profiles. It is the same listing as
// SavedNetworks, since nearby networks are not scanned.
func (m *Manager) WiFiList(ctx context.Context) []wifi.NetworkProfile {
	return m.SavedNetworks(ctx)
}

// SavedNetworks returns the profiles stored on the host, in host order.
func (m *Manager) SavedNetworks(ctx context.Context) []wifi.NetworkProfile {
	raw, err := bounded(ctx, m.config.CommandTimeout, m.gateway.ListProfiles)
	if err != nil {
		m.logger.Error("failed to list profiles", "error", err)
		return []wifi.NetworkProfile{}
	}
	profiles := wifi.ParseProfiles(raw)
	m.logger.Debug("listed profiles", "count", len(profiles))
	return profiles
}

// CurrentWiFi returns the active connection, or nil.
func (m *Manager) CurrentWiFi(ctx context.Context) *wifi.ConnectionStatus {
	return m.orch.Current(ctx)
}

// ConnectToWiFi connects to ssid, provisioning a profile when password is set.
func (m *Manager) ConnectToWiFi(ctx context.Context, ssid, password string) wifi.Result {
	return m.orch.Connect(ctx, ssid, password)
}

// DisconnectWiFi drops the current association.
func (m *Manager) DisconnectWiFi(ctx context.Context) wifi.Result {
	return m.orch.Disconnect(ctx)
}

// ForgetNetwork deletes the saved profile for ssid.
func (m *Manager) ForgetNetwork(ctx context.Context, ssid string) wifi.Result {
	_, err := bounded(ctx, m.config.CommandTimeout, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, m.gateway.DeleteProfile(ctx, ssid)
	})
	if err != nil {
		m.logger.Error("failed to forget network", "ssid", ssid, "error", err)
		return wifi.Result{Success: false, Message: err.Error()}
	}
	m.logger.Info("forgot network", "ssid", ssid)
	return wifi.Result{Success: true, Message: "network forgotten"}
}

// Favorites returns the favorite SSIDs in insertion order.
func (m *Manager) Favorites() []string {
	return m.favorites.List()
}

// IsFavorite reports whether ssid is a favorite.
func (m *Manager) IsFavorite(ssid string) bool {
	return m.favorites.Contains(ssid)
}

// AddToFavorites adds ssid to the favorites.
func (m *Manager) AddToFavorites(ssid string) wifi.Result {
	return m.favorites.Add(ssid)
}

// RemoveFromFavorites removes ssid from the favorites.
func (m *Manager) RemoveFromFavorites(ssid string) wifi.Result {
	return m.favorites.Remove(ssid)
}
