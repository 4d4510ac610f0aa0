package netsh

import (
	"encoding/xml"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"golang.org/x/text/encoding/simplifiedchinese"
	"golang.org/x/text/transform"

	"github.com/shazow/wifimgr/wifi"
)

func TestProfileXML(t *testing.T) {
	doc, err := profileXML(`Tom & Jerry's <Net>`, "p&ss<word>", wifi.WPA2Personal)
	if err != nil {
		t.Fatalf("profileXML() failed: %v", err)
	}
	s := string(doc)
	if !strings.HasPrefix(s, xml.Header) {
		t.Errorf("profile is missing the XML header:\n%s", s)
	}
	for _, want := range []string{
		`<WLANProfile xmlns="http://www.microsoft.com/networking/WLAN/profile/v1">`,
		`<name>Tom &amp; Jerry&#39;s &lt;Net&gt;</name>`,
		`<connectionMode>auto</connectionMode>`,
		`<authentication>WPA2PSK</authentication>`,
		`<encryption>AES</encryption>`,
		`<useOneX>false</useOneX>`,
		`<keyType>passPhrase</keyType>`,
		`<keyMaterial>p&amp;ss&lt;word&gt;</keyMaterial>`,
	} {
		if !strings.Contains(s, want) {
			t.Errorf("profile does not contain %s:\n%s", want, s)
		}
	}

	// Round trip to make sure the nesting is what the WLAN service expects.
	var got wlanProfile
	if err := xml.Unmarshal(doc, &got); err != nil {
		t.Fatalf("profile is not valid XML: %v", err)
	}
	if got.SSIDName != `Tom & Jerry's <Net>` || got.Security.KeyMaterial != "p&ss<word>" {
		t.Errorf("unexpected round trip: %+v", got)
	}
}

func TestQuoteArg(t *testing.T) {
	got, err := quoteArg("name", "GET off my LAN")
	if err != nil {
		t.Fatalf("quoteArg() failed: %v", err)
	}
	if want := `name="GET off my LAN"`; got != want {
		t.Errorf("quoteArg() = %s, want %s", got, want)
	}

	if _, err := quoteArg("name", `say "hi"`); !errors.Is(err, wifi.ErrNotSupported) {
		t.Errorf("expected ErrNotSupported for embedded quotes, got %v", err)
	}
}

func TestParseInterfaceState(t *testing.T) {
	tests := []struct {
		name   string
		output string
		want   bool
	}{
		{
			name: "english connected",
			output: `
There is 1 interface on the system:

    Name                   : Wi-Fi
    Description            : Intel(R) Wi-Fi 6 AX201 160MHz
    State                  : connected
    SSID                   : HomeNet
`,
			want: true,
		},
		{
			name: "english disconnected",
			output: `
    Name                   : Wi-Fi
    State                  : disconnected
`,
			want: false,
		},
		{
			name: "chinese connected",
			output: `
    名称                   : WLAN
    状态                   : 已连接
    SSID                   : 办公室
`,
			want: true,
		},
		{
			name:   "chinese disconnected",
			output: "    状态                   : 已断开连接\n",
			want:   false,
		},
		{
			name:   "no interfaces",
			output: "There is no wireless interface on the system.",
			want:   false,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := parseInterfaceState(tt.output); got != tt.want {
				t.Errorf("parseInterfaceState() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestPing(t *testing.T) {
	if diff := cmp.Diff([]string{"-n", "1", "-w", "2000", "8.8.8.8"}, pingArgs("8.8.8.8", 0, 2*time.Second)); diff != "" {
		t.Errorf("pingArgs() mismatch (-want +got):\n%s", diff)
	}

	reply := "Pinging 8.8.8.8 with 32 bytes of data:\nReply from 8.8.8.8: bytes=32 time=14ms TTL=117\n"
	if !pingReachable(reply) {
		t.Error("expected a reply to be reachable")
	}
	chinese := "正在 Ping 8.8.8.8 具有 32 字节的数据:\n来自 8.8.8.8 的回复: 字节=32 时间=14ms TTL=117\n"
	if !pingReachable(chinese) {
		t.Error("expected a localized reply to be reachable")
	}
	if pingReachable("Request timed out.\n") {
		t.Error("expected a timeout to be unreachable")
	}
}

func TestDecode(t *testing.T) {
	want := "    所有用户配置文件 : 办公室"
	gbk, _, err := transform.Bytes(simplifiedchinese.GBK.NewEncoder(), []byte(want))
	if err != nil {
		t.Fatalf("failed to encode sample: %v", err)
	}

	got, err := decode(gbk, "gbk")
	if err != nil {
		t.Fatalf("decode() failed: %v", err)
	}
	if got != want {
		t.Errorf("decode() = %q, want %q", got, want)
	}

	profiles := wifi.ParseProfiles(got)
	if len(profiles) != 1 || profiles[0].SSID != "办公室" {
		t.Errorf("unexpected profiles from decoded output: %+v", profiles)
	}

	if got, _ := decode([]byte("plain"), ""); got != "plain" {
		t.Errorf("decode() with no code page = %q", got)
	}
	if _, err := decode([]byte("x"), "klingon"); err == nil {
		t.Error("expected an error for an unknown code page")
	}
}
