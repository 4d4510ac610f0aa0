package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"

	"github.com/shazow/wifimgr/internal/style"
	"github.com/shazow/wifimgr/manager"
	"github.com/shazow/wifimgr/wifi"
)

type outputFormat string

const (
	formatText outputFormat = "text"
	formatJSON outputFormat = "json"
	formatYAML outputFormat = "yaml"
)

func parseFormat(s string) (outputFormat, error) {
	switch f := outputFormat(strings.ToLower(s)); f {
	case formatText, formatJSON, formatYAML:
		return f, nil
	}
	return "", fmt.Errorf("invalid format %q: want text, json or yaml", s)
}

// encode writes v in a structured format. It reports false for text, which
// each command renders itself.
func encode(w io.Writer, format outputFormat, v any) (bool, error) {
	switch format {
	case formatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return true, enc.Encode(v)
	case formatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return true, err
		}
		return true, enc.Close()
	}
	return false, nil
}

// runner executes a request, possibly while showing progress.
type runner func(title string, fn func() wifi.Result) wifi.Result

func runDirect(_ string, fn func() wifi.Result) wifi.Result {
	return fn()
}

// resultError prints the result and turns a failure into an error for the
// exit status.
func resultError(w io.Writer, r wifi.Result) error {
	if !r.Success {
		return fmt.Errorf("%s", r.Message)
	}
	fmt.Fprintln(w, style.Success(r.Message))
	return nil
}

type listEntry struct {
	SSID     string `json:"ssid" yaml:"ssid"`
	Saved    bool   `json:"saved" yaml:"saved"`
	Favorite bool   `json:"favorite" yaml:"favorite"`
	Active   bool   `json:"active" yaml:"active"`
}

func formatEntry(e listEntry) string {
	var parts []string
	if e.Saved {
		parts = append(parts, "saved")
	}
	if e.Favorite {
		parts = append(parts, "favorite")
	}
	if e.Active {
		parts = append(parts, "active")
	}
	return strings.Join(parts, ", ")
}

// runList prints the networks with favorites first.
func runList(ctx context.Context, w io.Writer, format outputFormat, m *manager.Manager) error {
	favorites := m.Favorites()
	profiles := wifi.DedupeProfiles(m.WiFiList(ctx))
	wifi.SortProfiles(profiles, favorites)
	current := m.CurrentWiFi(ctx)

	entries := make([]listEntry, 0, len(profiles))
	for _, p := range profiles {
		entries = append(entries, listEntry{
			SSID:     p.SSID,
			Saved:    p.Saved,
			Favorite: m.IsFavorite(p.SSID),
			Active:   current != nil && !current.IsPlaceholder() && wifi.CleanSSID(p.SSID) == current.SSID,
		})
	}

	if ok, err := encode(w, format, entries); ok {
		return err
	}
	for _, e := range entries {
		fmt.Fprintf(w, "%s\t%s\n", e.SSID, formatEntry(e))
	}
	return nil
}

// runSaved prints the saved profiles in host order.
func runSaved(ctx context.Context, w io.Writer, format outputFormat, m *manager.Manager) error {
	profiles := m.SavedNetworks(ctx)
	if ok, err := encode(w, format, profiles); ok {
		return err
	}
	for _, p := range profiles {
		fmt.Fprintln(w, p.SSID)
	}
	return nil
}

func writeCurrent(w io.Writer, current *wifi.ConnectionStatus, last *wifi.LastConnection, now time.Time) {
	switch {
	case current == nil:
		fmt.Fprintln(w, style.Subtle("not connected"))
	case current.IsPlaceholder():
		fmt.Fprintf(w, "connected\t%s\n", style.Subtle("network name unavailable"))
	default:
		fmt.Fprintf(w, "%s\t%s\n", current.SSID, style.Signal(current.Signal))
	}
	if current != nil && last != nil {
		fmt.Fprintf(w, "last connected to %s %s\n", last.SSID, formatAge(last.Age(now)))
	}
}

// runCurrent prints the active connection.
func runCurrent(ctx context.Context, w io.Writer, format outputFormat, m *manager.Manager) error {
	current := m.CurrentWiFi(ctx)
	if ok, err := encode(w, format, current); ok {
		return err
	}
	writeCurrent(w, current, m.Orchestrator().LastConnection(), time.Now())
	return nil
}

func runConnect(ctx context.Context, w io.Writer, run runner, m *manager.Manager, ssid, passphrase string) error {
	r := run(fmt.Sprintf("Connecting to %s", ssid), func() wifi.Result {
		return m.ConnectToWiFi(ctx, ssid, passphrase)
	})
	return resultError(w, r)
}

func runDisconnect(ctx context.Context, w io.Writer, run runner, m *manager.Manager) error {
	r := run("Disconnecting", func() wifi.Result {
		return m.DisconnectWiFi(ctx)
	})
	return resultError(w, r)
}

func runForget(ctx context.Context, w io.Writer, m *manager.Manager, ssid string) error {
	if m.IsFavorite(ssid) {
		// Keep favorites pointing at networks the host still knows.
		if r := m.RemoveFromFavorites(ssid); !r.Success {
			fmt.Fprintln(w, style.Error(r.Message))
		}
	}
	return resultError(w, m.ForgetNetwork(ctx, ssid))
}

// runFavorites lists favorites, or adds or removes one.
func runFavorites(w io.Writer, format outputFormat, m *manager.Manager, args []string) error {
	if len(args) == 0 {
		favorites := m.Favorites()
		if ok, err := encode(w, format, favorites); ok {
			return err
		}
		for _, ssid := range favorites {
			fmt.Fprintln(w, ssid)
		}
		return nil
	}
	if len(args) != 2 {
		return fmt.Errorf("usage: favorites [add|remove <ssid>]")
	}
	switch action, ssid := args[0], args[1]; action {
	case "add":
		return resultError(w, m.AddToFavorites(ssid))
	case "remove", "rm":
		return resultError(w, m.RemoveFromFavorites(ssid))
	default:
		return fmt.Errorf("unknown favorites action %q", action)
	}
}

type statusReport struct {
	Current        *wifi.ConnectionStatus `json:"current" yaml:"current"`
	LastConnection *wifi.LastConnection   `json:"last_connection,omitempty" yaml:"last_connection,omitempty"`
	Saved          []wifi.NetworkProfile  `json:"saved" yaml:"saved"`
	Favorites      []string               `json:"favorites" yaml:"favorites"`
}

// runStatus gathers everything the manager knows in one report.
func runStatus(ctx context.Context, w io.Writer, format outputFormat, m *manager.Manager) error {
	var report statusReport
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		report.Current = m.CurrentWiFi(ctx)
		return nil
	})
	g.Go(func() error {
		report.Saved = m.SavedNetworks(ctx)
		return nil
	})
	g.Go(func() error {
		report.Favorites = m.Favorites()
		return nil
	})
	if err := g.Wait(); err != nil {
		return err
	}
	// Read after the query, which may have discarded a stale record.
	report.LastConnection = m.Orchestrator().LastConnection()

	if ok, err := encode(w, format, report); ok {
		return err
	}
	fmt.Fprintln(w, style.Title("Current"))
	writeCurrent(w, report.Current, report.LastConnection, time.Now())
	fmt.Fprintf(w, "\n%s\n", style.Title(fmt.Sprintf("Saved (%d)", len(report.Saved))))
	for _, p := range report.Saved {
		fmt.Fprintln(w, p.SSID)
	}
	fmt.Fprintf(w, "\n%s\n", style.Title(fmt.Sprintf("Favorites (%d)", len(report.Favorites))))
	for _, ssid := range report.Favorites {
		fmt.Fprintln(w, ssid)
	}
	return nil
}

// runShare prints a QR code that joins the network when scanned.
func runShare(w io.Writer, ssid, passphrase string, hidden bool) error {
	code, err := GenerateWifiQRCode(ssid, passphrase, hidden)
	if err != nil {
		return fmt.Errorf("failed to generate QR code: %w", err)
	}
	fmt.Fprint(w, code)
	fmt.Fprintln(w, style.Subtle(fmt.Sprintf("Scan to join %s", ssid)))
	return nil
}
