package mock

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/shazow/wifimgr/wifi"
)

var DefaultActionSleep = 500 * time.Millisecond

// mockProfile is a saved profile with its passphrase.
type mockProfile struct {
	SSID   string
	Secret string
}

// MockGateway is an in-memory host that renders netsh-style output, so the
// real parsers run against it.
type MockGateway struct {
	mu sync.Mutex

	Profiles []mockProfile
	// Current is the associated SSID, or "" when disconnected.
	Current string
	// CurrentSuffix is appended to Current in status output, like the
	// disambiguation numbers some hosts add.
	CurrentSuffix string
	// HideCurrentName makes the status query omit the active network.
	HideCurrentName bool
	// AdapterConnected reports an association even when Current is empty.
	AdapterConnected bool
	// FailAssociation makes Connect succeed without associating, as with a
	// wrong passphrase.
	FailAssociation bool
	// NoInternet makes the connectivity probe fail while associated.
	NoInternet bool
	// HangQuery makes the status query block until its context is done.
	HangQuery bool

	ListError       error
	QueryError      error
	AdapterError    error
	AddProfileError error
	ConnectError    error
	DisconnectError error
	DeleteError     error
	ProbeError      error

	// Calls records the gateway methods invoked, in order.
	Calls []string

	// ActionSleep is a delay before every action, to better emulate a real-world backend for the frontend. Set to 0 during testing.
	ActionSleep time.Duration
}

// New creates a new MockGateway with a list of fun saved networks.
func New() *MockGateway {
	return &MockGateway{
		Profiles: []mockProfile{
			{SSID: "HideYoKidsHideYoWiFi", Secret: "hidden"},
			{SSID: "Password is password", Secret: "password"},
			{SSID: "TacoBoutAGoodSignal"},
			{SSID: "GET off my LAN", Secret: "getoff"},
			{SSID: "Unencrypted_Honeypot"},
		},
		ActionSleep: DefaultActionSleep,
	}
}

// AddSaved registers a saved profile.
func (m *MockGateway) AddSaved(ssid, secret string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.upsert(ssid, secret)
}

// Associated returns the currently associated SSID.
func (m *MockGateway) Associated() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.Current
}

// CallCount returns how many times method was invoked.
func (m *MockGateway) CallCount(method string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, c := range m.Calls {
		if c == method {
			n++
		}
	}
	return n
}

func (m *MockGateway) upsert(ssid, secret string) {
	for i, p := range m.Profiles {
		if p.SSID == ssid {
			m.Profiles[i].Secret = secret
			return
		}
	}
	m.Profiles = append(m.Profiles, mockProfile{SSID: ssid, Secret: secret})
}

// begin records the call and waits ActionSleep. The lock is held on return.
func (m *MockGateway) begin(ctx context.Context, method string) error {
	m.mu.Lock()
	m.Calls = append(m.Calls, method)
	sleep := m.ActionSleep
	m.mu.Unlock()

	if sleep > 0 {
		timer := time.NewTimer(sleep)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-timer.C:
		}
	}
	m.mu.Lock()
	return nil
}

func (m *MockGateway) ListProfiles(ctx context.Context) (string, error) {
	if err := m.begin(ctx, "ListProfiles"); err != nil {
		return "", err
	}
	defer m.mu.Unlock()

	if m.ListError != nil {
		return "", m.ListError
	}
	var b strings.Builder
	b.WriteString("\nProfiles on interface Wi-Fi:\n\nGroup policy profiles (read only)\n---------------------------------\n    <None>\n\nUser profiles\n-------------\n")
	for _, p := range m.Profiles {
		fmt.Fprintf(&b, "    All User Profile     : %s\n", p.SSID)
	}
	return b.String(), nil
}

func (m *MockGateway) QueryCurrentConnection(ctx context.Context) (string, error) {
	if err := m.begin(ctx, "QueryCurrentConnection"); err != nil {
		return "", err
	}
	hang := m.HangQuery
	m.mu.Unlock()

	if hang {
		<-ctx.Done()
		return "", ctx.Err()
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.QueryError != nil {
		return "", m.QueryError
	}
	var b strings.Builder
	b.WriteString("\nName                 InterfaceAlias\n----                 --------------\n")
	if m.Current != "" && !m.HideCurrentName {
		name := m.Current
		if m.CurrentSuffix != "" {
			name += " " + m.CurrentSuffix
		}
		fmt.Fprintf(&b, "%-20s WLAN\n", name)
	}
	return b.String(), nil
}

func (m *MockGateway) QueryAdapterConnected(ctx context.Context) (bool, error) {
	if err := m.begin(ctx, "QueryAdapterConnected"); err != nil {
		return false, err
	}
	defer m.mu.Unlock()

	if m.AdapterError != nil {
		return false, m.AdapterError
	}
	return m.Current != "" || m.AdapterConnected, nil
}

func (m *MockGateway) AddProfile(ctx context.Context, ssid, password string, security wifi.Security) error {
	if err := m.begin(ctx, "AddProfile"); err != nil {
		return err
	}
	defer m.mu.Unlock()

	if m.AddProfileError != nil {
		return m.AddProfileError
	}
	m.upsert(ssid, password)
	return nil
}

func (m *MockGateway) Connect(ctx context.Context, ssid string) (string, error) {
	if err := m.begin(ctx, "Connect"); err != nil {
		return "", err
	}
	defer m.mu.Unlock()

	if m.ConnectError != nil {
		return "", m.ConnectError
	}
	found := false
	for _, p := range m.Profiles {
		if p.SSID == ssid {
			found = true
			break
		}
	}
	if !found {
		return "", fmt.Errorf("there is no profile %q assigned to the specified interface: %w", ssid, wifi.ErrNotFound)
	}
	if !m.FailAssociation {
		m.Current = ssid
	}
	return "Connection request was completed successfully.", nil
}

func (m *MockGateway) Disconnect(ctx context.Context) (string, error) {
	if err := m.begin(ctx, "Disconnect"); err != nil {
		return "", err
	}
	defer m.mu.Unlock()

	if m.DisconnectError != nil {
		return "", m.DisconnectError
	}
	m.Current = ""
	m.AdapterConnected = false
	return `Disconnection request was completed successfully for interface "Wi-Fi".`, nil
}

func (m *MockGateway) DeleteProfile(ctx context.Context, ssid string) error {
	if err := m.begin(ctx, "DeleteProfile"); err != nil {
		return err
	}
	defer m.mu.Unlock()

	if m.DeleteError != nil {
		return m.DeleteError
	}
	var remaining []mockProfile
	found := false
	for _, p := range m.Profiles {
		if p.SSID == ssid {
			found = true
		} else {
			remaining = append(remaining, p)
		}
	}
	if !found {
		return fmt.Errorf("profile %q is not found on any interface: %w", ssid, wifi.ErrNotFound)
	}
	m.Profiles = remaining
	if m.Current == ssid {
		m.Current = ""
	}
	return nil
}

func (m *MockGateway) ProbeConnectivity(ctx context.Context, target string, count int, timeout time.Duration) (bool, error) {
	if err := m.begin(ctx, "ProbeConnectivity"); err != nil {
		return false, err
	}
	defer m.mu.Unlock()

	if m.ProbeError != nil {
		return false, m.ProbeError
	}
	return (m.Current != "" || m.AdapterConnected) && !m.NoInternet, nil
}
