// Package config loads wifimgr settings from a TOML file.
package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/shazow/wifimgr/internal/style"
	"github.com/shazow/wifimgr/manager"
)

// Duration is a time.Duration written as a string like "1.5s" in TOML.
type Duration time.Duration

func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	*d = Duration(v)
	return nil
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(time.Duration(d).String()), nil
}

// Config is the contents of the config file. Zero values fall back to the
// built-in defaults.
type Config struct {
	DataDir  string `toml:"data_dir"`
	CodePage string `toml:"codepage"`
	LogLevel string `toml:"log_level"`

	ProbeTarget    string    `toml:"probe_target"`
	ProbeCount     int       `toml:"probe_count"`
	ProbeWait      *Duration `toml:"probe_wait"`
	ProbeTimeout   *Duration `toml:"probe_timeout"`
	StatusTimeout  *Duration `toml:"status_timeout"`
	CommandTimeout *Duration `toml:"command_timeout"`
	SettleDelay    *Duration `toml:"settle_delay"`
	RetryDelay     *Duration `toml:"retry_delay"`
	VerifyAttempts int       `toml:"verify_attempts"`
	Staleness      *Duration `toml:"staleness"`

	Theme style.Overrides `toml:"theme"`
}

// DefaultPath returns the config file location under the user config dir.
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "wifimgr", "config.toml")
}

// DefaultDataDir returns where state files are kept when data_dir is unset.
func DefaultDataDir() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "wifimgr-data"
	}
	return filepath.Join(dir, "wifimgr")
}

// Load reads the config at path. A missing file is not an error when
// optional is set, so the default location may be absent.
func Load(path string, optional bool) (Config, error) {
	var c Config
	if path == "" {
		return c, nil
	}
	f, err := os.Open(path)
	if errors.Is(err, os.ErrNotExist) && optional {
		return c, nil
	}
	if err != nil {
		return c, fmt.Errorf("failed to open config: %w", err)
	}
	defer f.Close()
	return Decode(f)
}

// Decode parses a config document and rejects unknown keys.
func Decode(r io.Reader) (Config, error) {
	var c Config
	md, err := toml.NewDecoder(r).Decode(&c)
	if err != nil {
		return c, fmt.Errorf("failed to decode config: %w", err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return c, fmt.Errorf("unknown config key %q", undecoded[0].String())
	}
	if c.ProbeCount < 0 || c.VerifyAttempts < 0 {
		return c, fmt.Errorf("probe_count and verify_attempts must not be negative")
	}
	return c, nil
}

// Manager returns the protocol settings for the manager package.
func (c Config) Manager() manager.Config {
	m := manager.DefaultConfig()
	if c.ProbeTarget != "" {
		m.ProbeTarget = c.ProbeTarget
	}
	if c.ProbeCount > 0 {
		m.ProbeCount = c.ProbeCount
	}
	if c.VerifyAttempts > 0 {
		m.VerifyAttempts = c.VerifyAttempts
	}
	set := func(dst *time.Duration, src *Duration) {
		if src != nil {
			*dst = time.Duration(*src)
		}
	}
	set(&m.ProbeWait, c.ProbeWait)
	set(&m.ProbeTimeout, c.ProbeTimeout)
	set(&m.StatusTimeout, c.StatusTimeout)
	set(&m.CommandTimeout, c.CommandTimeout)
	set(&m.SettleDelay, c.SettleDelay)
	set(&m.RetryDelay, c.RetryDelay)
	set(&m.Staleness, c.Staleness)
	return m
}
