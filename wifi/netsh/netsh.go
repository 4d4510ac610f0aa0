//go:build windows

// Package netsh drives the Windows WLAN service through netsh, PowerShell and
// ping.
package netsh

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/google/uuid"

	"github.com/shazow/wifimgr/wifi"
)

// Gateway implements wifi.Gateway with the stock Windows tools.
type Gateway struct {
	// CodePage is the console code page label used to decode output,
	// e.g. "gbk" or "cp866". Empty means UTF-8.
	CodePage string
	// TempDir is where profile documents are staged. Empty means os.TempDir.
	TempDir string

	logger *slog.Logger
}

// New checks for netsh and returns a Gateway.
func New(codePage string, logger *slog.Logger) (*Gateway, error) {
	if _, err := exec.LookPath("netsh"); err != nil {
		return nil, fmt.Errorf("netsh not found: %w", wifi.ErrNotAvailable)
	}
	if _, err := decode(nil, codePage); err != nil {
		return nil, err
	}
	return &Gateway{CodePage: codePage, logger: logger}, nil
}

// command builds a netsh invocation with a verbatim command line, since
// netsh parses key="value" itself.
func (g *Gateway) command(ctx context.Context, args ...string) *exec.Cmd {
	c := exec.CommandContext(ctx, "netsh", args...)
	c.SysProcAttr = &syscall.SysProcAttr{CmdLine: "netsh " + strings.Join(args, " ")}
	return c
}

// run executes c and returns decoded stdout. Failures carry stderr, or
// stdout when netsh reports errors there.
func (g *Gateway) run(c *exec.Cmd) (string, error) {
	var stderr strings.Builder
	c.Stderr = &stderr
	g.logger.Debug("running command", "cmd", c.String())
	raw, err := c.Output()
	out, decodeErr := decode(raw, g.CodePage)
	if decodeErr != nil {
		out = string(raw)
	}
	if err != nil {
		detail := strings.TrimSpace(stderr.String())
		if detail == "" {
			detail = strings.TrimSpace(out)
		}
		return out, fmt.Errorf("failed to run command: %s: %w: %s", c.String(), err, detail)
	}
	return out, nil
}

func (g *Gateway) ListProfiles(ctx context.Context) (string, error) {
	return g.run(g.command(ctx, "wlan", "show", "profiles"))
}

func (g *Gateway) QueryCurrentConnection(ctx context.Context) (string, error) {
	c := exec.CommandContext(ctx, "powershell", "-NoProfile", "-NonInteractive", "-Command", currentConnectionScript)
	return g.run(c)
}

func (g *Gateway) QueryAdapterConnected(ctx context.Context) (bool, error) {
	out, err := g.run(g.command(ctx, "wlan", "show", "interfaces"))
	if err != nil {
		return false, err
	}
	return parseInterfaceState(out), nil
}

func (g *Gateway) AddProfile(ctx context.Context, ssid, password string, security wifi.Security) error {
	doc, err := profileXML(ssid, password, security)
	if err != nil {
		return err
	}

	dir := g.TempDir
	if dir == "" {
		dir = os.TempDir()
	}
	path := filepath.Join(dir, fmt.Sprintf("wifimgr-%s.xml", uuid.NewString()))
	if err := os.WriteFile(path, doc, 0o600); err != nil {
		return fmt.Errorf("failed to write profile document: %w", err)
	}
	defer func() {
		if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
			g.logger.Warn("failed to remove profile document", "path", path, "error", err)
		}
	}()

	arg, err := quoteArg("filename", path)
	if err != nil {
		return err
	}
	_, err = g.run(g.command(ctx, "wlan", "add", "profile", arg))
	return err
}

func (g *Gateway) Connect(ctx context.Context, ssid string) (string, error) {
	arg, err := quoteArg("name", ssid)
	if err != nil {
		return "", err
	}
	return g.run(g.command(ctx, "wlan", "connect", arg))
}

func (g *Gateway) Disconnect(ctx context.Context) (string, error) {
	return g.run(g.command(ctx, "wlan", "disconnect"))
}

func (g *Gateway) DeleteProfile(ctx context.Context, ssid string) error {
	arg, err := quoteArg("name", ssid)
	if err != nil {
		return err
	}
	_, err = g.run(g.command(ctx, "wlan", "delete", "profile", arg))
	return err
}

func (g *Gateway) ProbeConnectivity(ctx context.Context, target string, count int, timeout time.Duration) (bool, error) {
	out, err := g.run(exec.CommandContext(ctx, "ping", pingArgs(target, count, timeout)...))
	if err != nil {
		// ping exits non-zero when every request times out.
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return false, nil
		}
		return false, err
	}
	return pingReachable(out), nil
}

var _ wifi.Gateway = (*Gateway)(nil)
