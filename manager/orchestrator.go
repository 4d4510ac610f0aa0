package manager

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/shazow/wifimgr/internal/store"
	"github.com/shazow/wifimgr/wifi"
)

const (
	msgConnected    = "connected"
	msgConnectFail  = "connection failed, check the password or network availability"
	msgDisconnected = "disconnected"
)

// Orchestrator drives connect and disconnect requests to a verified outcome
// and answers which network is active. It owns the last-connection record.
type Orchestrator struct {
	gateway wifi.Gateway
	config  Config
	last    *lastConnection
	logger  *slog.Logger

	now   func() time.Time
	sleep func(time.Duration)
}

// NewOrchestrator loads the last-connection record from slot.
func NewOrchestrator(gateway wifi.Gateway, slot store.Slot[*wifi.LastConnection], config Config, logger *slog.Logger) *Orchestrator {
	return &Orchestrator{
		gateway: gateway,
		config:  config.withDefaults(),
		last:    loadLastConnection(slot, logger),
		logger:  logger,
		now:     time.Now,
		sleep:   time.Sleep,
	}
}

// LastConnection returns the stored record without any staleness check.
func (o *Orchestrator) LastConnection() *wifi.LastConnection {
	return o.last.get()
}

// bounded runs fn under a timeout of d. An expired deadline is reported as
// wifi.ErrCommandTimeout.
func bounded[T any](ctx context.Context, d time.Duration, fn func(context.Context) (T, error)) (T, error) {
	ctx, cancel := context.WithTimeout(ctx, d)
	defer cancel()
	v, err := fn(ctx)
	if err != nil && errors.Is(ctx.Err(), context.DeadlineExceeded) {
		err = fmt.Errorf("%w after %s: %w", wifi.ErrCommandTimeout, d, err)
	}
	return v, err
}

// Connect associates with ssid, provisioning a WPA2-Personal profile first
// when password is set. The request always runs to a terminal result.
func (o *Orchestrator) Connect(ctx context.Context, ssid, password string) wifi.Result {
	logger := o.logger.With("ssid", ssid)
	if strings.TrimSpace(ssid) == "" {
		return wifi.Result{Success: false, Message: "connect failed: empty ssid"}
	}

	if password != "" {
		logger.Info("provisioning profile")
		_, err := bounded(ctx, o.config.CommandTimeout, func(ctx context.Context) (struct{}, error) {
			return struct{}{}, o.gateway.AddProfile(ctx, ssid, password, wifi.WPA2Personal)
		})
		if err != nil {
			// The host may already hold a usable profile.
			logger.Warn("failed to provision profile, trying existing one", "error", err)
		}
	}

	logger.Info("connecting")
	out, err := bounded(ctx, o.config.CommandTimeout, func(ctx context.Context) (string, error) {
		return o.gateway.Connect(ctx, ssid)
	})
	if err != nil {
		logger.Error("connect command failed", "error", err)
		return wifi.Result{Success: false, Message: fmt.Sprintf("connect failed: %s", err)}
	}
	logger.Debug("connect command finished", "output", strings.TrimSpace(out))

	// The status query may fall back to this record, so it has to exist
	// before verification starts.
	pending := o.last.begin(ssid, o.now())
	defer pending.rollback()

	logger.Info("waiting for association", "delay", o.config.SettleDelay)
	o.sleep(o.config.SettleDelay)

	connected := o.verify(ctx, ssid)
	if !connected {
		logger.Info("could not confirm network by name, probing connectivity", "target", o.config.ProbeTarget)
		connected = o.probe(ctx)
	}

	if !connected {
		logger.Warn("connection failed")
		pending.rollback()
		return wifi.Result{Success: false, Message: msgConnectFail}
	}

	pending.confirm()
	logger.Info("connection verified")
	return wifi.Result{Success: true, Message: msgConnected}
}

// verify polls the current connection until it names ssid.
func (o *Orchestrator) verify(ctx context.Context, ssid string) bool {
	attempts := o.config.VerifyAttempts
	for attempt := 1; attempt <= attempts; attempt++ {
		o.logger.Info("checking connection", "ssid", ssid, "attempt", attempt, "of", attempts)
		status := o.Current(ctx)
		if status != nil && !status.IsPlaceholder() && wifi.MatchSSID(status.SSID, ssid) {
			return true
		}
		if attempt < attempts {
			o.sleep(o.config.RetryDelay)
		}
	}
	return false
}

// probe reports whether the probe target answers. Errors count as unreachable.
func (o *Orchestrator) probe(ctx context.Context) bool {
	reachable, err := bounded(ctx, o.config.ProbeTimeout, func(ctx context.Context) (bool, error) {
		return o.gateway.ProbeConnectivity(ctx, o.config.ProbeTarget, o.config.ProbeCount, o.config.ProbeWait)
	})
	if err != nil {
		o.logger.Warn("connectivity probe failed", "target", o.config.ProbeTarget, "error", err)
		return false
	}
	return reachable
}

// Disconnect drops the wireless association. The last-connection record is
// cleared only when the command succeeds.
func (o *Orchestrator) Disconnect(ctx context.Context) wifi.Result {
	out, err := bounded(ctx, o.config.CommandTimeout, o.gateway.Disconnect)
	if err != nil {
		o.logger.Error("disconnect failed", "error", err)
		return wifi.Result{Success: false, Message: err.Error()}
	}
	o.logger.Debug("disconnect command finished", "output", strings.TrimSpace(out))
	o.last.set(nil)
	o.logger.Info("disconnected, cleared last connection record")
	return wifi.Result{Success: true, Message: msgDisconnected}
}
