package darwin

import (
	"bufio"
	"fmt"
	"strings"
	"time"

	"github.com/shazow/wifimgr/wifi"
)

// findWifiDevice parses the output of `networksetup -listallhardwareports` to find the Wi-Fi device.
func findWifiDevice(output string) (string, error) {
	// The output is a series of stanzas, separated by blank lines.
	// Each stanza describes a hardware port.
	for _, stanza := range strings.Split(output, "\n\n") {
		var device string
		isWifiPort := false
		for _, line := range strings.Split(stanza, "\n") {
			if port, ok := strings.CutPrefix(line, "Hardware Port: "); ok {
				isWifiPort = strings.Contains(port, "Wi-Fi") || strings.Contains(port, "AirPort")
			}
			if d, ok := strings.CutPrefix(line, "Device: "); ok {
				device = d
			}
		}
		if isWifiPort && device != "" {
			return device, nil
		}
	}
	return "", fmt.Errorf("no Wi-Fi interface found: %w", wifi.ErrNotFound)
}

// parsePreferredNetworks reads `networksetup -listpreferredwirelessnetworks`.
func parsePreferredNetworks(output string) []string {
	var ssids []string
	scanner := bufio.NewScanner(strings.NewReader(output))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "Preferred networks on") {
			continue
		}
		ssids = append(ssids, line)
	}
	return ssids
}

// profileListing renders SSIDs as a listing wifi.ParseProfiles accepts.
func profileListing(ssids []string) string {
	var b strings.Builder
	for _, ssid := range ssids {
		fmt.Fprintf(&b, "    Profile : %s\n", ssid)
	}
	return b.String()
}

// parseAirportNetwork reads `networksetup -getairportnetwork`. Recent macOS
// releases withhold the name and report no association instead.
func parseAirportNetwork(output string) (string, bool) {
	for _, line := range strings.Split(output, "\n") {
		if ssid, ok := strings.CutPrefix(strings.TrimSpace(line), "Current Wi-Fi Network: "); ok {
			ssid = strings.TrimSpace(ssid)
			return ssid, ssid != ""
		}
	}
	return "", false
}

// statusTable renders the active network as a row wifi.ParseCurrentConnection accepts.
func statusTable(ssid string) string {
	if ssid == "" {
		return "Name InterfaceAlias\n"
	}
	return fmt.Sprintf("Name InterfaceAlias\n%s Wi-Fi\n", ssid)
}

// parseIfconfigActive reports whether `ifconfig <dev>` shows an active link.
func parseIfconfigActive(output string) bool {
	scanner := bufio.NewScanner(strings.NewReader(output))
	for scanner.Scan() {
		if strings.TrimSpace(scanner.Text()) == "status: active" {
			return true
		}
	}
	return false
}

// checkOutput turns the errors networksetup prints to stdout, with a zero
// exit status, into an error.
func checkOutput(output string) error {
	for _, line := range strings.Split(output, "\n") {
		line = strings.TrimSpace(line)
		switch {
		case strings.HasPrefix(line, "Error"),
			strings.HasPrefix(line, "Could not find network"),
			strings.HasPrefix(line, "Failed to join network"):
			return fmt.Errorf("%s: %w", line, wifi.ErrOperationFailed)
		case strings.Contains(line, "is not a preferred network"):
			return fmt.Errorf("%s: %w", line, wifi.ErrNotFound)
		}
	}
	return nil
}

// securityArg maps a security setting to a networksetup security type.
func securityArg(security wifi.Security) (string, error) {
	switch security.Authentication {
	case "WPA2PSK":
		return "WPA2", nil
	case "WPAPSK":
		return "WPA", nil
	case "open":
		return "OPEN", nil
	}
	return "", fmt.Errorf("security %s: %w", security.Authentication, wifi.ErrNotSupported)
}

// pingArgs builds the macOS ping arguments. The per-reply wait is in milliseconds.
func pingArgs(target string, count int, wait time.Duration) []string {
	if count <= 0 {
		count = 1
	}
	return []string{"-c", fmt.Sprint(count), "-W", fmt.Sprint(wait.Milliseconds()), target}
}
