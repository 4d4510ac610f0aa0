package netsh

import (
	"bufio"
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"strings"
	"time"

	"golang.org/x/net/html/charset"

	"github.com/shazow/wifimgr/wifi"
)

// currentConnectionScript lists connection profiles bound to wireless interfaces.
const currentConnectionScript = `Get-NetConnectionProfile | Where-Object {$_.InterfaceAlias -eq 'WLAN' -or $_.InterfaceAlias -like '*Wi-Fi*'} | Select-Object Name,InterfaceAlias`

const profileNamespace = "http://www.microsoft.com/networking/WLAN/profile/v1"

type wlanProfile struct {
	XMLName        xml.Name `xml:"WLANProfile"`
	Namespace      string   `xml:"xmlns,attr"`
	Name           string   `xml:"name"`
	SSIDName       string   `xml:"SSIDConfig>SSID>name"`
	ConnectionType string   `xml:"connectionType"`
	ConnectionMode string   `xml:"connectionMode"`
	Security       struct {
		Authentication string `xml:"authEncryption>authentication"`
		Encryption     string `xml:"authEncryption>encryption"`
		UseOneX        bool   `xml:"authEncryption>useOneX"`
		KeyType        string `xml:"sharedKey>keyType"`
		Protected      bool   `xml:"sharedKey>protected"`
		KeyMaterial    string `xml:"sharedKey>keyMaterial"`
	} `xml:"MSM>security"`
}

// profileXML renders a WLAN profile document for a pre-shared key network
// that connects automatically.
func profileXML(ssid, password string, security wifi.Security) ([]byte, error) {
	p := wlanProfile{
		Namespace:      profileNamespace,
		Name:           ssid,
		SSIDName:       ssid,
		ConnectionType: "ESS",
		ConnectionMode: "auto",
	}
	p.Security.Authentication = security.Authentication
	p.Security.Encryption = security.Encryption
	p.Security.KeyType = "passPhrase"
	p.Security.KeyMaterial = password

	out, err := xml.MarshalIndent(p, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode profile for %q: %w", ssid, err)
	}
	return append([]byte(xml.Header), out...), nil
}

// quoteArg renders key="value" for netsh, which does not understand escaped
// quotes inside a value.
func quoteArg(key, value string) (string, error) {
	if strings.ContainsAny(value, "\"\r\n") {
		return "", fmt.Errorf("cannot pass %q to netsh: %w", value, wifi.ErrNotSupported)
	}
	return fmt.Sprintf(`%s="%s"`, key, value), nil
}

// parseInterfaceState reports whether `netsh wlan show interfaces` lists an
// interface in the connected state.
func parseInterfaceState(output string) bool {
	scanner := bufio.NewScanner(strings.NewReader(output))
	for scanner.Scan() {
		key, value, ok := strings.Cut(scanner.Text(), ":")
		if !ok {
			continue
		}
		key = strings.TrimSpace(key)
		if key != "State" && key != "状态" {
			continue
		}
		switch strings.ToLower(strings.TrimSpace(value)) {
		case "connected", "已连接":
			return true
		}
	}
	return false
}

// pingReachable reports whether ping output contains an echo reply.
func pingReachable(output string) bool {
	return strings.Contains(output, "TTL=") || strings.Contains(output, "Reply from")
}

// pingArgs builds the Windows ping arguments. The per-reply wait is in
// milliseconds.
func pingArgs(target string, count int, wait time.Duration) []string {
	if count <= 0 {
		count = 1
	}
	return []string{"-n", fmt.Sprint(count), "-w", fmt.Sprint(wait.Milliseconds()), target}
}

// decode converts console output from the given code page label to UTF-8.
// An empty label leaves the output untouched.
func decode(data []byte, label string) (string, error) {
	if label == "" || strings.EqualFold(label, "utf-8") || strings.EqualFold(label, "utf8") {
		return string(data), nil
	}
	r, err := charset.NewReaderLabel(label, bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("unknown code page %q: %w", label, err)
	}
	out, err := io.ReadAll(r)
	if err != nil {
		return "", fmt.Errorf("failed to decode output as %s: %w", label, err)
	}
	return string(out), nil
}
