//go:build !linux && !windows && !darwin && !mock

package main

import (
	"fmt"
	"log/slog"
	"runtime"

	"github.com/shazow/wifimgr/wifi"
)

// GetGateway returns an error for unsupported operating systems.
func GetGateway(codePage string, logger *slog.Logger) (wifi.Gateway, error) {
	return nil, fmt.Errorf("%s: %w", runtime.GOOS, wifi.ErrNotSupported)
}
