// Package style holds the terminal colors used by the command output.
package style

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/lucasb-eyer/go-colorful"
)

// Color is a terminal color that can be read from TOML as either "#RRGGBB"
// or a ["light", "dark"] pair.
type Color struct {
	lipgloss.TerminalColor
}

// UnmarshalTOML implements toml.Unmarshaler.
func (c *Color) UnmarshalTOML(v any) error {
	switch v := v.(type) {
	case string:
		c.TerminalColor = lipgloss.Color(v)
	case []any:
		if len(v) != 2 {
			return fmt.Errorf("adaptive color needs [light, dark], got %d values", len(v))
		}
		light, ok1 := v[0].(string)
		dark, ok2 := v[1].(string)
		if !ok1 || !ok2 {
			return fmt.Errorf("adaptive color values must be strings: %v", v)
		}
		c.TerminalColor = lipgloss.AdaptiveColor{Light: light, Dark: dark}
	default:
		return fmt.Errorf("unsupported color value %T", v)
	}
	return nil
}

// Hex resolves the color for the current background.
func (c Color) Hex() string {
	switch v := c.TerminalColor.(type) {
	case lipgloss.Color:
		return string(v)
	case lipgloss.AdaptiveColor:
		if lipgloss.HasDarkBackground() {
			return v.Dark
		}
		return v.Light
	}
	return ""
}

// Theme contains the colors for the application.
type Theme struct {
	Primary    Color
	Subtle     Color
	Success    Color
	Error      Color
	Normal     Color
	SignalHigh Color
	SignalLow  Color
}

// CurrentTheme is the active theme for the application.
var CurrentTheme = NewDefaultTheme()

// NewDefaultTheme creates a new default theme.
func NewDefaultTheme() Theme {
	return Theme{
		Primary:    Color{lipgloss.AdaptiveColor{Light: "#5A56E0", Dark: "#D359E3"}}, // Purple/Pink
		Subtle:     Color{lipgloss.AdaptiveColor{Light: "#BDBDBD", Dark: "#616161"}}, // Gray
		Success:    Color{lipgloss.AdaptiveColor{Light: "#388E3C", Dark: "#81C784"}}, // Green
		Error:      Color{lipgloss.AdaptiveColor{Light: "#D32F2F", Dark: "#E57373"}}, // Red
		Normal:     Color{lipgloss.AdaptiveColor{Light: "#212121", Dark: "#FFFFFF"}}, // Black/White
		SignalHigh: Color{lipgloss.AdaptiveColor{Light: "#00B300", Dark: "#00FF00"}},
		SignalLow:  Color{lipgloss.AdaptiveColor{Light: "#D05F00", Dark: "#BC3C00"}},
	}
}

// SignalColor blends between SignalLow and SignalHigh by strength (0-100).
func (t Theme) SignalColor(strength int) lipgloss.Color {
	start, err := colorful.Hex(t.SignalLow.Hex())
	if err != nil {
		return lipgloss.Color(t.SignalLow.Hex())
	}
	end, err := colorful.Hex(t.SignalHigh.Hex())
	if err != nil {
		return lipgloss.Color(t.SignalHigh.Hex())
	}
	p := float64(max(0, min(strength, 100))) / 100.0
	return lipgloss.Color(start.BlendRgb(end, p).Clamped().Hex())
}

func render(c Color, s string) string {
	return lipgloss.NewStyle().Foreground(c).Render(s)
}

// Title renders a heading.
func Title(s string) string {
	return lipgloss.NewStyle().Bold(true).Foreground(CurrentTheme.Primary).Render(s)
}

func Success(s string) string { return render(CurrentTheme.Success, s) }
func Error(s string) string   { return render(CurrentTheme.Error, s) }
func Subtle(s string) string  { return render(CurrentTheme.Subtle, s) }

// Signal renders a signal percentage in its gradient color.
func Signal(strength int) string {
	return lipgloss.NewStyle().Foreground(CurrentTheme.SignalColor(strength)).Render(fmt.Sprintf("%d%%", strength))
}
