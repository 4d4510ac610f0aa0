//go:build linux

// Package nmcli drives NetworkManager through its command-line client.
package nmcli

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

// Gateway implements wifi.Gateway with nmcli and ping.
type Gateway struct {
	logger *slog.Logger
}

// New checks for nmcli and returns a Gateway.
func New(logger *slog.Logger) (*Gateway, error) {
	if _, err := exec.LookPath("nmcli"); err != nil {
		return nil, fmt.Errorf("nmcli not found: %w", wifi.ErrNotAvailable)
	}
	return &Gateway{logger: logger}, nil
}

// run executes the command and wraps failures with its stderr.
func (g *Gateway) run(ctx context.Context, name string, args ...string) (string, error) {
	c := exec.CommandContext(ctx, name, args...)
	var stderr strings.Builder
	c.Stderr = &stderr
	g.logger.Debug("running command", "cmd", c.String())
	out, err := c.Output()
	if err != nil {
		return string(out), fmt.Errorf("failed to run command: %s: %w: %s", c.String(), err, strings.TrimSpace(stderr.String()))
	}
	if s := strings.TrimSpace(stderr.String()); s != "" {
		g.logger.Debug("command wrote to stderr", "cmd", c.String(), "stderr", s)
	}
	return string(out), nil
}

func (g *Gateway) nmcli(ctx context.Context, args ...string) (string, error) {
	return g.run(ctx, "nmcli", args...)
}

func (g *Gateway) ListProfiles(ctx context.Context) (string, error) {
	return g.nmcli(ctx, "-t", "-f", "NAME,TYPE", "connection", "show")
}

func (g *Gateway) QueryCurrentConnection(ctx context.Context) (string, error) {
	return g.nmcli(ctx, "-f", "NAME,TYPE", "connection", "show", "--active")
}

func (g *Gateway) devices(ctx context.Context) ([]device, error) {
	out, err := g.nmcli(ctx, "-t", "-f", "DEVICE,TYPE,STATE", "device")
	if err != nil {
		return nil, err
	}
	return parseDevices(out), nil
}

func (g *Gateway) QueryAdapterConnected(ctx context.Context) (bool, error) {
	devices, err := g.devices(ctx)
	if err != nil {
		return false, err
	}
	return wirelessConnected(devices), nil
}

// AddProfile replaces any wireless connection with the same name, so the new
// passphrase takes effect.
func (g *Gateway) AddProfile(ctx context.Context, ssid, password string, security wifi.Security) error {
	args, err := addProfileArgs(ssid, password, security)
	if err != nil {
		return err
	}

	existing, err := g.nmcli(ctx, "-t", "-f", "NAME,TYPE", "connection", "show")
	if err != nil {
		g.logger.Warn("could not list connections before adding profile", "error", err)
	} else if hasConnection(existing, ssid) {
		g.logger.Info("replacing existing connection profile", "ssid", ssid)
		if err := g.DeleteProfile(ctx, ssid); err != nil {
			g.logger.Warn("failed to delete existing profile", "ssid", ssid, "error", err)
		}
	}

	_, err = g.nmcli(ctx, args...)
	return err
}

func (g *Gateway) Connect(ctx context.Context, ssid string) (string, error) {
	return g.nmcli(ctx, "connection", "up", "id", ssid)
}

func (g *Gateway) Disconnect(ctx context.Context) (string, error) {
	devices, err := g.devices(ctx)
	if err != nil {
		return "", err
	}
	name, err := wirelessDevice(devices)
	if err != nil {
		return "", err
	}
	return g.nmcli(ctx, "device", "disconnect", name)
}

func (g *Gateway) DeleteProfile(ctx context.Context, ssid string) error {
	_, err := g.nmcli(ctx, "connection", "delete", "id", ssid)
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
