package nmcli

import (
	"bufio"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/shazow/wifimgr/wifi"
)

const keyMgmtWPAPSK = "wpa-psk"

// device is one row of `nmcli -t -f DEVICE,TYPE,STATE device`.
type device struct {
	Name  string
	Type  string
	State string
}

// splitTerse splits a line of nmcli terse output. Colons and backslashes
// inside values are escaped with a backslash.
func splitTerse(line string) []string {
	var fields []string
	var field strings.Builder
	escaped := false
	for _, r := range line {
		switch {
		case escaped:
			field.WriteRune(r)
			escaped = false
		case r == '\\':
			escaped = true
		case r == ':':
			fields = append(fields, field.String())
			field.Reset()
		default:
			field.WriteRune(r)
		}
	}
	return append(fields, field.String())
}

// parseDevices reads terse DEVICE,TYPE,STATE rows.
func parseDevices(output string) []device {
	var devices []device
	scanner := bufio.NewScanner(strings.NewReader(output))
	for scanner.Scan() {
		fields := splitTerse(strings.TrimSpace(scanner.Text()))
		if len(fields) < 3 {
			continue
		}
		devices = append(devices, device{Name: fields[0], Type: fields[1], State: fields[2]})
	}
	return devices
}

func isWirelessType(t string) bool {
	return t == "wifi" || t == "802-11-wireless"
}

// wirelessConnected reports whether any wireless device is connected.
func wirelessConnected(devices []device) bool {
	for _, d := range devices {
		// nmcli reports "connected (externally)" for connections it did not make.
		if isWirelessType(d.Type) && strings.HasPrefix(d.State, "connected") {
			return true
		}
	}
	return false
}

// wirelessDevice picks the device to disconnect, preferring a connected one.
func wirelessDevice(devices []device) (string, error) {
	name := ""
	for _, d := range devices {
		if !isWirelessType(d.Type) {
			continue
		}
		if strings.HasPrefix(d.State, "connected") {
			return d.Name, nil
		}
		if name == "" {
			name = d.Name
		}
	}
	if name == "" {
		return "", fmt.Errorf("no wireless device: %w", wifi.ErrNotFound)
	}
	return name, nil
}

// hasConnection reports whether terse NAME,TYPE output lists a wireless
// connection called name.
func hasConnection(output, name string) bool {
	scanner := bufio.NewScanner(strings.NewReader(output))
	for scanner.Scan() {
		fields := splitTerse(strings.TrimSpace(scanner.Text()))
		if len(fields) >= 2 && fields[0] == name && isWirelessType(fields[1]) {
			return true
		}
	}
	return false
}

// addProfileArgs builds the arguments for a new WPA-PSK connection profile.
func addProfileArgs(ssid, password string, security wifi.Security) ([]string, error) {
	if security != wifi.WPA2Personal {
		return nil, fmt.Errorf("security %s/%s: %w", security.Authentication, security.Encryption, wifi.ErrNotSupported)
	}
	return []string{
		"connection", "add", "type", "wifi",
		"con-name", ssid,
		"ifname", "*",
		"ssid", ssid,
		"wifi-sec.key-mgmt", keyMgmtWPAPSK,
		"wifi-sec.psk", password,
	}, nil
}

// pingArgs builds the Linux ping arguments. The per-reply wait is in whole
// seconds, rounded up.
func pingArgs(target string, count int, wait time.Duration) []string {
	if count <= 0 {
		count = 1
	}
	secs := int(math.Ceil(wait.Seconds()))
	if secs < 1 {
		secs = 1
	}
	return []string{"-c", fmt.Sprint(count), "-W", fmt.Sprint(secs), target}
}
