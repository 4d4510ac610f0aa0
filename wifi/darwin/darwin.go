//go:build darwin

// Package darwin drives macOS wireless networking through networksetup.
package darwin

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os/exec"
	"strings"
	"time"

	"github.com/shazow/wifimgr/wifi"
)

// Gateway implements wifi.Gateway for macOS.
type Gateway struct {
	WifiInterface string

	logger *slog.Logger
}

// New finds the Wi-Fi interface and returns a Gateway for it.
func New(logger *slog.Logger) (*Gateway, error) {
	g := &Gateway{logger: logger}
	out, err := g.run(context.Background(), "networksetup", "-listallhardwareports")
	if err != nil {
		return nil, fmt.Errorf("failed to list hardware ports: %w: %w", wifi.ErrNotAvailable, err)
	}
	device, err := findWifiDevice(out)
	if err != nil {
		return nil, err
	}
	g.WifiInterface = device
	return g, nil
}

// run executes the command, capturing stderr into the error.
func (g *Gateway) run(ctx context.Context, name string, args ...string) (string, error) {
	c := exec.CommandContext(ctx, name, args...)
	var stderr strings.Builder
	c.Stderr = &stderr
	g.logger.Debug("running command", "cmd", c.String())
	out, err := c.Output()
	if err != nil {
		return string(out), fmt.Errorf("failed to run command: %s: %w: %s", c.String(), err, stderr.String())
	}
	return string(out), nil
}

// networksetup runs networksetup and checks its stdout for errors.
func (g *Gateway) networksetup(ctx context.Context, args ...string) (string, error) {
	out, err := g.run(ctx, "networksetup", args...)
	if err != nil {
		return out, err
	}
	return out, checkOutput(out)
}

func (g *Gateway) ListProfiles(ctx context.Context) (string, error) {
	out, err := g.networksetup(ctx, "-listpreferredwirelessnetworks", g.WifiInterface)
	if err != nil {
		return "", err
	}
	return profileListing(parsePreferredNetworks(out)), nil
}

func (g *Gateway) QueryCurrentConnection(ctx context.Context) (string, error) {
	out, err := g.run(ctx, "networksetup", "-getairportnetwork", g.WifiInterface)
	if err != nil {
		return "", err
	}
	ssid, _ := parseAirportNetwork(out)
	return statusTable(ssid), nil
}

func (g *Gateway) QueryAdapterConnected(ctx context.Context) (bool, error) {
	out, err := g.run(ctx, "ifconfig", g.WifiInterface)
	if err != nil {
		return false, err
	}
	return parseIfconfigActive(out), nil
}

func (g *Gateway) AddProfile(ctx context.Context, ssid, password string, security wifi.Security) error {
	sec, err := securityArg(security)
	if err != nil {
		return err
	}
	_, err = g.networksetup(ctx, "-addpreferredwirelessnetworkatindex", g.WifiInterface, ssid, "0", sec, password)
	return err
}

// Connect joins a known network. networksetup takes the passphrase from the
// keychain entry created with the profile.
func (g *Gateway) Connect(ctx context.Context, ssid string) (string, error) {
	return g.networksetup(ctx, "-setairportnetwork", g.WifiInterface, ssid)
}

// Disconnect power cycles the radio, which drops the association without
// forgetting anything.
func (g *Gateway) Disconnect(ctx context.Context) (string, error) {
	if _, err := g.networksetup(ctx, "-setairportpower", g.WifiInterface, "off"); err != nil {
		return "", err
	}
	return g.networksetup(ctx, "-setairportpower", g.WifiInterface, "on")
}

func (g *Gateway) DeleteProfile(ctx context.Context, ssid string) error {
	_, err := g.networksetup(ctx, "-removepreferredwirelessnetwork", g.WifiInterface, ssid)
	return err
}

func (g *Gateway) ProbeConnectivity(ctx context.Context, target string, count int, timeout time.Duration) (bool, error) {
	_, err := g.run(ctx, "ping", pingArgs(target, count, timeout)...)
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) && ctx.Err() == nil {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

var _ wifi.Gateway = (*Gateway)(nil)
