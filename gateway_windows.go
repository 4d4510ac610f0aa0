//go:build windows && !mock

package main

import (
	"log/slog"

	"github.com/shazow/wifimgr/wifi"
	"github.com/shazow/wifimgr/wifi/netsh"
)

func GetGateway(codePage string, logger *slog.Logger) (wifi.Gateway, error) {
	return netsh.New(codePage, logger)
}
