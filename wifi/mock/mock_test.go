package mock

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shazow/wifimgr/wifi"
)

func newTestGateway() *MockGateway {
	m := New()
	m.ActionSleep = 0
	return m
}

func TestNew(t *testing.T) {
	m := New()
	if len(m.Profiles) == 0 {
		t.Fatal("New() returned no saved profiles")
	}
	if m.Current != "" {
		t.Errorf("expected no active connection, got %q", m.Current)
	}
}

func TestListProfilesParses(t *testing.T) {
	m := newTestGateway()
	raw, err := m.ListProfiles(context.Background())
	if err != nil {
		t.Fatalf("ListProfiles() failed: %v", err)
	}
	profiles := wifi.ParseProfiles(raw)
	if len(profiles) != len(m.Profiles) {
		t.Fatalf("parsed %d profiles, want %d", len(profiles), len(m.Profiles))
	}
	if profiles[1].SSID != "Password is password" {
		t.Errorf("expected second profile to be %q, got %q", "Password is password", profiles[1].SSID)
	}
}

func TestConnectKnownProfile(t *testing.T) {
	m := newTestGateway()
	ctx := context.Background()
	ssid := "TacoBoutAGoodSignal"

	if _, err := m.Connect(ctx, ssid); err != nil {
		t.Fatalf("Connect() failed: %v", err)
	}
	if m.Associated() != ssid {
		t.Fatalf("expected %q to be associated, got %q", ssid, m.Associated())
	}

	raw, err := m.QueryCurrentConnection(ctx)
	if err != nil {
		t.Fatalf("QueryCurrentConnection() failed: %v", err)
	}
	got, ok := wifi.ParseCurrentConnection(raw)
	if !ok || got != ssid {
		t.Errorf("ParseCurrentConnection() = (%q, %t), want (%q, true)", got, ok, ssid)
	}

	connected, err := m.QueryAdapterConnected(ctx)
	if err != nil || !connected {
		t.Errorf("QueryAdapterConnected() = (%t, %v), want (true, nil)", connected, err)
	}
}

func TestConnectUnknownProfile(t *testing.T) {
	m := newTestGateway()
	_, err := m.Connect(context.Background(), "non-existent-network")
	if !errors.Is(err, wifi.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestAddProfileThenConnect(t *testing.T) {
	m := newTestGateway()
	ctx := context.Background()
	if err := m.AddProfile(ctx, "new-network", "password", wifi.WPA2Personal); err != nil {
		t.Fatalf("AddProfile() failed: %v", err)
	}
	if _, err := m.Connect(ctx, "new-network"); err != nil {
		t.Fatalf("Connect() after AddProfile() failed: %v", err)
	}
	last := m.Profiles[len(m.Profiles)-1]
	if last.SSID != "new-network" || last.Secret != "password" {
		t.Errorf("AddProfile() stored %+v", last)
	}
}

func TestDisconnectAndDelete(t *testing.T) {
	m := newTestGateway()
	ctx := context.Background()
	m.Current = "GET off my LAN"

	if _, err := m.Disconnect(ctx); err != nil {
		t.Fatalf("Disconnect() failed: %v", err)
	}
	if connected, _ := m.QueryAdapterConnected(ctx); connected {
		t.Error("adapter should be disconnected")
	}

	if err := m.DeleteProfile(ctx, "GET off my LAN"); err != nil {
		t.Fatalf("DeleteProfile() failed: %v", err)
	}
	if err := m.DeleteProfile(ctx, "GET off my LAN"); !errors.Is(err, wifi.ErrNotFound) {
		t.Errorf("second DeleteProfile() should be ErrNotFound, got %v", err)
	}
	if n := m.CallCount("DeleteProfile"); n != 2 {
		t.Errorf("expected 2 DeleteProfile calls, got %d", n)
	}
}

func TestHiddenNameAndSuffix(t *testing.T) {
	m := newTestGateway()
	ctx := context.Background()
	m.Current = "Password is password"
	m.CurrentSuffix = "2"

	raw, _ := m.QueryCurrentConnection(ctx)
	got, _ := wifi.ParseCurrentConnection(raw)
	if wifi.CleanSSID(got) != "Password is password" {
		t.Errorf("expected suffixed name to clean to the SSID, got %q", got)
	}

	m.HideCurrentName = true
	raw, _ = m.QueryCurrentConnection(ctx)
	if _, ok := wifi.ParseCurrentConnection(raw); ok {
		t.Error("hidden name should not parse")
	}
}

func TestHangQueryHonorsContext(t *testing.T) {
	m := newTestGateway()
	m.HangQuery = true
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	if _, err := m.QueryCurrentConnection(ctx); !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("expected deadline exceeded, got %v", err)
	}
}

func TestProbe(t *testing.T) {
	m := newTestGateway()
	ctx := context.Background()

	if ok, _ := m.ProbeConnectivity(ctx, "8.8.8.8", 1, time.Second); ok {
		t.Error("probe should fail while disconnected")
	}
	m.Current = "TacoBoutAGoodSignal"
	if ok, _ := m.ProbeConnectivity(ctx, "8.8.8.8", 1, time.Second); !ok {
		t.Error("probe should succeed while connected")
	}
	m.NoInternet = true
	if ok, _ := m.ProbeConnectivity(ctx, "8.8.8.8", 1, time.Second); ok {
		t.Error("probe should fail without internet")
	}
}
