//go:build darwin && !mock

package main

import (
	"log/slog"

	"github.com/shazow/wifimgr/wifi"
	"github.com/shazow/wifimgr/wifi/darwin"
)

func GetGateway(codePage string, logger *slog.Logger) (wifi.Gateway, error) {
	return darwin.New(logger)
}
