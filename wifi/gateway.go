package wifi

import (
	"context"
	"time"
)

// DefaultSignal is the signal estimate reported when the host gives no reading.
const DefaultSignal = 75

// State is the association state of a connection.
type State string

const (
	StateConnected State = "connected"
)

// Placeholder is the SSID reported when the adapter is associated but no
// source can name the network.
const Placeholder = "<connected-unknown>"

// NetworkProfile is a profile known to the host, as read from the profile listing.
type NetworkProfile struct {
	SSID  string `json:"ssid" yaml:"ssid"`
	Saved bool   `json:"saved" yaml:"saved"`
}

// ConnectionStatus is the best current belief about the active connection.
type ConnectionStatus struct {
	SSID   string `json:"ssid" yaml:"ssid"`
	Signal int    `json:"signal" yaml:"signal"`
	State  State  `json:"state" yaml:"state"`
}

// IsPlaceholder reports whether the status could not name the network.
// Placeholder statuses must not be compared against SSIDs or stored.
func (s ConnectionStatus) IsPlaceholder() bool {
	return s.SSID == Placeholder
}

// LastConnection is the durable record of the most recent connection made by
// this program. Timestamp is in Unix milliseconds.
type LastConnection struct {
	SSID      string `json:"ssid"`
	Signal    int    `json:"signal"`
	Timestamp int64  `json:"timestamp"`
}

// Age returns how long ago the record was written, relative to now.
func (c LastConnection) Age(now time.Time) time.Duration {
	return now.Sub(time.UnixMilli(c.Timestamp))
}

// Status converts the record into a connected status.
func (c LastConnection) Status() *ConnectionStatus {
	signal := c.Signal
	if signal == 0 {
		signal = DefaultSignal
	}
	return &ConnectionStatus{SSID: c.SSID, Signal: signal, State: StateConnected}
}

// Result is the outcome of a mutating request.
type Result struct {
	Success bool   `json:"success" yaml:"success"`
	Message string `json:"message" yaml:"message"`
}

// Security describes how a provisioned profile authenticates.
type Security struct {
	Authentication string
	Encryption     string
}

// WPA2Personal is the only scheme used for new profiles: WPA2 pre-shared key with AES.
var WPA2Personal = Security{Authentication: "WPA2PSK", Encryption: "AES"}

// Gateway is the narrow seam over the host's network command-line tools.
// Implementations return raw command output; parsing happens in this package.
// Callers bound every call with a context deadline.
type Gateway interface {
	// ListProfiles returns the raw listing of saved profiles.
	ListProfiles(ctx context.Context) (string, error)
	// QueryCurrentConnection returns raw interface/profile status text.
	QueryCurrentConnection(ctx context.Context) (string, error)
	// QueryAdapterConnected reports whether the wireless adapter is associated.
	QueryAdapterConnected(ctx context.Context) (bool, error)
	// AddProfile provisions a profile for ssid with the given passphrase.
	AddProfile(ctx context.Context, ssid, password string, security Security) error
	// Connect asks the host to associate with the named profile.
	Connect(ctx context.Context, ssid string) (string, error)
	// Disconnect drops the current wireless association.
	Disconnect(ctx context.Context) (string, error)
	// DeleteProfile removes a saved profile.
	DeleteProfile(ctx context.Context, ssid string) error
	// ProbeConnectivity pings target and reports whether it answered.
	ProbeConnectivity(ctx context.Context, target string, count int, timeout time.Duration) (bool, error)
}
