//go:build linux && !mock

package main

import (
	"log/slog"

	"github.com/shazow/wifimgr/wifi"
	"github.com/shazow/wifimgr/wifi/nmcli"
)

func GetGateway(codePage string, logger *slog.Logger) (wifi.Gateway, error) {
	if codePage != "" {
		logger.Debug("ignoring code page, nmcli output is UTF-8", "codepage", codePage)
	}
	return nmcli.New(logger)
}
