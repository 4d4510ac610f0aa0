package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shazow/wifimgr/manager"
)

func TestDecode(t *testing.T) {
	doc := `
data_dir = "/var/lib/wifimgr"
codepage = "gbk"
probe_target = "1.1.1.1"
probe_wait = "500ms"
status_timeout = "3s"
settle_delay = "0s"
retry_delay = "750ms"
verify_attempts = 5

[theme]
Primary = "#FF0000"
`
	c, err := Decode(strings.NewReader(doc))
	require.NoError(t, err)
	assert.Equal(t, "/var/lib/wifimgr", c.DataDir)
	assert.Equal(t, "gbk", c.CodePage)
	require.NotNil(t, c.Theme.Primary)
	assert.Equal(t, lipgloss.Color("#FF0000"), c.Theme.Primary.TerminalColor)

	m := c.Manager()
	want := manager.DefaultConfig()
	want.ProbeTarget = "1.1.1.1"
	want.ProbeWait = 500 * time.Millisecond
	want.StatusTimeout = 3 * time.Second
	want.SettleDelay = 0
	want.RetryDelay = 750 * time.Millisecond
	want.VerifyAttempts = 5
	assert.Equal(t, want, m)
}

func TestDecodeRejects(t *testing.T) {
	for _, doc := range []string{
		`dataDir = "/tmp"`,
		`status_timeout = "soon"`,
		`verify_attempts = -1`,
		`probe_target = `,
	} {
		_, err := Decode(strings.NewReader(doc))
		assert.Error(t, err, doc)
	}
}

func TestEmptyConfigIsDefault(t *testing.T) {
	c, err := Decode(strings.NewReader(""))
	require.NoError(t, err)
	assert.Equal(t, manager.DefaultConfig(), c.Manager())
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	missing := filepath.Join(dir, "missing.toml")

	_, err := Load(missing, true)
	assert.NoError(t, err, "an optional missing file is fine")

	_, err = Load(missing, false)
	assert.Error(t, err, "an explicit missing file is an error")

	path := filepath.Join(dir, "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(`log_level = "debug"`), 0o644))
	c, err := Load(path, false)
	require.NoError(t, err)
	assert.Equal(t, "debug", c.LogLevel)
}
