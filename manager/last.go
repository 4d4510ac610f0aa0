package manager

import (
	"log/slog"
	"sync"
	"time"

	"github.com/shazow/wifimgr/internal/store"
	"github.com/shazow/wifimgr/wifi"
)

// lastConnection owns the durable record of the most recent connection this
// program established.
type lastConnection struct {
	mu     sync.Mutex
	slot   store.Slot[*wifi.LastConnection]
	value  *wifi.LastConnection
	logger *slog.Logger
}

func loadLastConnection(slot store.Slot[*wifi.LastConnection], logger *slog.Logger) *lastConnection {
	value, err := slot.Load()
	if err != nil {
		logger.Error("failed to load last connection record", "error", err)
		value = nil
	}
	return &lastConnection{slot: slot, value: value, logger: logger}
}

// get returns a copy of the record, or nil.
func (l *lastConnection) get() *wifi.LastConnection {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.value == nil {
		return nil
	}
	v := *l.value
	return &v
}

// set replaces the record in memory and on disk. A failed write is logged
// and the in-memory value is kept.
func (l *lastConnection) set(value *wifi.LastConnection) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.value = value
	if err := l.slot.Save(value); err != nil {
		l.logger.Error("failed to save last connection record", "error", err)
	}
}

// fresh returns the record if it is younger than window. A stale record is
// cleared before returning nil.
func (l *lastConnection) fresh(now time.Time, window time.Duration) *wifi.LastConnection {
	v := l.get()
	if v == nil {
		return nil
	}
	if age := v.Age(now); age >= window {
		l.logger.Info("last connection record is stale, clearing", "ssid", v.SSID, "age", age.Round(time.Second))
		l.set(nil)
		return nil
	}
	return v
}

// pendingConnection is a last-connection record written before the
// connection is verified. It ends either confirmed or rolled back.
type pendingConnection struct {
	state   *lastConnection
	record  wifi.LastConnection
	settled bool
}

// begin writes the tentative record for ssid.
func (l *lastConnection) begin(ssid string, now time.Time) *pendingConnection {
	p := &pendingConnection{
		state: l,
		record: wifi.LastConnection{
			SSID:      ssid,
			Signal:    wifi.DefaultSignal,
			Timestamp: now.UnixMilli(),
		},
	}
	record := p.record
	l.set(&record)
	return p
}

// confirm keeps the tentative record.
func (p *pendingConnection) confirm() {
	p.settled = true
}

// rollback clears the tentative record. It does nothing once settled.
func (p *pendingConnection) rollback() {
	if p.settled {
		return
	}
	p.settled = true
	p.state.set(nil)
}
