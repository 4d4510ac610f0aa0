package wifi

import (
	"bufio"
	"regexp"
	"strings"
)

// profileMatcher captures the SSID of one kind of listing line.
type profileMatcher struct {
	re       *regexp.Regexp
	unescape func(string) string

	// labeled matchers read "<label> : <ssid>" lines, where netsh prints
	// the bare label "Profile" in the value position for some entries.
	labeled bool
}

// profileMatchers are tried in order against each line of a profile listing.
// Labels vary with the display language of the host, so unmatched lines
// carry no information rather than an error.
var profileMatchers = []profileMatcher{
	// nmcli -t -f NAME,TYPE connection show. The name holds no unescaped
	// colon and the type follows directly, which label lines never do.
	{re: regexp.MustCompile(`^((?:[^\\:]|\\.)+):(?:802-11-wireless|wifi)$`), unescape: unescapeTerse},
	{re: regexp.MustCompile(`^\s*(?:所有用户配置文件|All User Profile)\s*:\s*(.+)$`), labeled: true},
	{re: regexp.MustCompile(`^\s*Profile\s*:\s*(.+)$`), labeled: true},
}

// labelPlaceholders are label fragments that can land in the SSID position.
var labelPlaceholders = map[string]bool{
	"Profile": true,
}

// unescapeTerse undoes nmcli terse escaping of colons and backslashes.
func unescapeTerse(s string) string {
	var b strings.Builder
	escaped := false
	for _, r := range s {
		if r == '\\' && !escaped {
			escaped = true
			continue
		}
		escaped = false
		b.WriteRune(r)
	}
	return b.String()
}

// ParseProfiles extracts saved profiles from raw listing output. Order is
// preserved and duplicates are kept.
func ParseProfiles(raw string) []NetworkProfile {
	profiles := []NetworkProfile{}
	scanner := bufio.NewScanner(strings.NewReader(raw))
	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), "\r")
		for _, m := range profileMatchers {
			matches := m.re.FindStringSubmatch(line)
			if len(matches) < 2 {
				continue
			}
			ssid := matches[1]
			if m.unescape != nil {
				ssid = m.unescape(ssid)
			}
			ssid = strings.TrimSpace(ssid)
			if ssid != "" && !(m.labeled && labelPlaceholders[ssid]) {
				profiles = append(profiles, NetworkProfile{SSID: ssid, Saved: true})
			}
			break
		}
	}
	return profiles
}

// isHeaderLine reports column header and separator rows of tabular output.
func isHeaderLine(line string) bool {
	switch {
	case strings.HasPrefix(line, "----"):
		return true
	case strings.Contains(line, "Name") && strings.Contains(line, "InterfaceAlias"):
		return true
	case strings.Contains(line, "NAME") && strings.Contains(line, "TYPE"):
		return true
	}
	return false
}

// isWirelessMarker reports whether a token names a wireless interface or
// connection type.
func isWirelessMarker(token string) bool {
	switch token {
	case "WLAN", "wifi", "802-11-wireless":
		return true
	}
	return strings.Contains(token, "Wi-Fi")
}

// ParseCurrentConnection finds the SSID in connection status output, where
// each row is a network name followed by its interface alias or type.
// It returns false when no wireless row names a network.
func ParseCurrentConnection(raw string) (string, bool) {
	scanner := bufio.NewScanner(strings.NewReader(raw))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || isHeaderLine(line) {
			continue
		}
		tokens := strings.Fields(line)
		// The interface column comes last, so search from the end. This keeps
		// SSIDs such as "My Wi-Fi" intact.
		marker := -1
		for i := len(tokens) - 1; i >= 0; i-- {
			if isWirelessMarker(tokens[i]) {
				marker = i
				break
			}
		}
		if marker > 0 {
			return strings.Join(tokens[:marker], " "), true
		}
	}
	return "", false
}

var numericSuffix = regexp.MustCompile(`(?:\s+\d+)+$`)

// CleanSSID strips the numeric suffix the host appends to disambiguate
// duplicate broadcasts, e.g. "BigFace-Wifi 259" becomes "BigFace-Wifi".
// Apply it to both sides of every SSID comparison.
func CleanSSID(name string) string {
	name = strings.TrimSpace(name)
	return strings.TrimSpace(numericSuffix.ReplaceAllString(name, ""))
}

// MatchSSID reports whether an observed SSID confirms the requested one.
// Names match when equal after cleaning, or when the observed name contains
// the requested one. Containment also accepts "CafeGuest" for "Cafe".
func MatchSSID(observed, requested string) bool {
	observed, requested = CleanSSID(observed), CleanSSID(requested)
	if observed == "" || requested == "" || observed == Placeholder {
		return false
	}
	return observed == requested || strings.Contains(observed, requested)
}
