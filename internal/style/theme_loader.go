package style

import (
	"fmt"
	"io"

	"github.com/BurntSushi/toml"
)

// Overrides is a partial theme. Pointers distinguish a missing value from
// an empty one, so users override only the colors they want.
type Overrides struct {
	Primary    *Color `toml:"Primary,omitempty"`
	Subtle     *Color `toml:"Subtle,omitempty"`
	Success    *Color `toml:"Success,omitempty"`
	Error      *Color `toml:"Error,omitempty"`
	Normal     *Color `toml:"Normal,omitempty"`
	SignalHigh *Color `toml:"SignalHigh,omitempty"`
	SignalLow  *Color `toml:"SignalLow,omitempty"`
}

// Apply returns base with the set colors replaced.
func (o Overrides) Apply(base Theme) Theme {
	set := func(dst *Color, src *Color) {
		if src != nil {
			*dst = *src
		}
	}
	set(&base.Primary, o.Primary)
	set(&base.Subtle, o.Subtle)
	set(&base.Success, o.Success)
	set(&base.Error, o.Error)
	set(&base.Normal, o.Normal)
	set(&base.SignalHigh, o.SignalHigh)
	set(&base.SignalLow, o.SignalLow)
	return base
}

// LoadTheme reads overrides from r and applies them to the default theme.
// A nil reader does nothing.
func LoadTheme(r io.Reader) error {
	if r == nil {
		return nil
	}
	var o Overrides
	if _, err := toml.NewDecoder(r).Decode(&o); err != nil {
		return fmt.Errorf("failed to decode theme: %w", err)
	}
	CurrentTheme = o.Apply(NewDefaultTheme())
	return nil
}
