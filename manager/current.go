package manager

import (
	"context"

	"github.com/shazow/wifimgr/wifi"
)

// Current returns the active wireless connection, or nil when there is none.
//
// The status query is authoritative when it names a network. Otherwise the
// adapter state decides whether anything is connected, and a fresh
// last-connection record or, failing that, a placeholder status stands in
// for the name. Errors are logged and never returned.
func (o *Orchestrator) Current(ctx context.Context) *wifi.ConnectionStatus {
	raw, err := bounded(ctx, o.config.StatusTimeout, o.gateway.QueryCurrentConnection)
	if err != nil {
		o.logger.Warn("failed to query current connection", "error", err)
		return o.fallbackStatus(ctx)
	}

	if name, ok := wifi.ParseCurrentConnection(raw); ok {
		if ssid := wifi.CleanSSID(name); ssid != "" {
			return &wifi.ConnectionStatus{
				SSID:   ssid,
				Signal: wifi.DefaultSignal,
				State:  wifi.StateConnected,
			}
		}
	}

	o.logger.Debug("status query did not name a network, checking adapter")
	return o.fallbackStatus(ctx)
}

func (o *Orchestrator) fallbackStatus(ctx context.Context) *wifi.ConnectionStatus {
	connected, err := bounded(ctx, o.config.StatusTimeout, o.gateway.QueryAdapterConnected)
	if err != nil {
		o.logger.Warn("failed to query adapter state", "error", err)
		return nil
	}
	if !connected {
		o.logger.Debug("wireless adapter is not connected")
		return nil
	}

	if last := o.last.fresh(o.now(), o.config.Staleness); last != nil {
		o.logger.Debug("using last connection record", "ssid", last.SSID)
		return last.Status()
	}

	return &wifi.ConnectionStatus{
		SSID:   wifi.Placeholder,
		Signal: wifi.DefaultSignal,
		State:  wifi.StateConnected,
	}
}
