// Package theme provides the color palette the text pane resolves its
// styles against. Deep blacks with warm text and amber accents.
package theme

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/muesli/termenv"

	"github.com/mono-ball/MonoBall-sub005/pkg/ui/backend"
)

// Theme defines the colors used by the text pane and the viewer chrome.
type Theme struct {
	// Canvas
	Background backend.Color
	Border     backend.Color

	// Text
	Text      backend.Color
	TextMuted backend.Color

	// Row and range highlights
	Selection    backend.Color
	CursorLine   backend.Color
	Hover        backend.Color
	SearchMatch  backend.Color
	CurrentMatch backend.Color

	// Scrollbar indicator
	Scrollbar   backend.Color
	ScrollThumb backend.Color

	// Status line
	StatusBar  backend.Color
	StatusText backend.Color

	// Severity colors for classified lines
	Error   backend.Color
	Warning backend.Color
	Info    backend.Color
	Debug   backend.Color
}

// DefaultTheme returns the dark palette.
func DefaultTheme() *Theme {
	bg := backend.ColorRGB(12, 12, 16)
	selection := backend.ColorRGB(60, 60, 80)
	return &Theme{
		Background: bg,
		Border:     backend.ColorRGB(50, 50, 60),

		Text:      backend.ColorRGB(240, 238, 232),
		TextMuted: backend.ColorRGB(100, 98, 92),

		Selection:    selection,
		CursorLine:   backend.ColorRGB(32, 32, 40),
		Hover:        Blend(bg, selection, 0.4),
		SearchMatch:  backend.ColorRGB(120, 90, 20),
		CurrentMatch: backend.ColorRGB(200, 140, 30),

		Scrollbar:   backend.ColorRGB(50, 50, 60),
		ScrollThumb: backend.ColorRGB(100, 100, 110),

		StatusBar:  backend.ColorRGB(22, 22, 28),
		StatusText: backend.ColorRGB(160, 158, 150),

		Error:   backend.ColorRGB(255, 110, 90),
		Warning: backend.ColorRGB(255, 183, 77),
		Info:    backend.ColorRGB(77, 182, 172),
		Debug:   backend.ColorRGB(100, 98, 92),
	}
}

// roles maps configuration names to theme fields.
func (t *Theme) roles() map[string]*backend.Color {
	return map[string]*backend.Color{
		"background":    &t.Background,
		"border":        &t.Border,
		"text":          &t.Text,
		"text_muted":    &t.TextMuted,
		"selection":     &t.Selection,
		"cursor_line":   &t.CursorLine,
		"hover":         &t.Hover,
		"search_match":  &t.SearchMatch,
		"current_match": &t.CurrentMatch,
		"scrollbar":     &t.Scrollbar,
		"scroll_thumb":  &t.ScrollThumb,
		"status_bar":    &t.StatusBar,
		"status_text":   &t.StatusText,
		"error":         &t.Error,
		"warning":       &t.Warning,
		"info":          &t.Info,
		"debug":         &t.Debug,
	}
}

// Roles returns the sorted list of overridable color names.
func Roles() []string {
	var t Theme
	names := make([]string, 0, 17)
	for name := range t.roles() {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Clone returns a copy of the theme.
func (t *Theme) Clone() *Theme {
	c := *t
	return &c
}

// Override returns a copy with the named roles replaced. Unknown roles and
// unparseable colors are reported; the receiver is never modified.
func (t *Theme) Override(colors map[string]string) (*Theme, error) {
	out := t.Clone()
	roles := out.roles()
	for name, value := range colors {
		field, ok := roles[strings.ToLower(name)]
		if !ok {
			return nil, fmt.Errorf("unknown theme color %q", name)
		}
		c, err := ParseColor(value)
		if err != nil {
			return nil, fmt.Errorf("theme color %q: %w", name, err)
		}
		*field = c
	}
	return out, nil
}

// Resolve returns the color of a role name, or parses s as a color when it
// names no role.
func (t *Theme) Resolve(s string) (backend.Color, error) {
	if field, ok := t.roles()[strings.ToLower(strings.TrimSpace(s))]; ok {
		return *field, nil
	}
	return ParseColor(s)
}

// Adapt downgrades true colors to what the terminal profile can show.
func (t *Theme) Adapt(profile termenv.Profile) *Theme {
	out := t.Clone()
	if profile == termenv.TrueColor {
		return out
	}
	for _, field := range out.roles() {
		*field = Downgrade(*field, profile)
	}
	return out
}

// Downgrade converts an RGB color to the nearest color of profile.
func Downgrade(c backend.Color, profile termenv.Profile) backend.Color {
	if !c.IsRGB() {
		return c
	}
	switch v := profile.Color(c.String()).(type) {
	case termenv.ANSI256Color:
		return backend.PaletteColor(int(v))
	case termenv.ANSIColor:
		return backend.PaletteColor(int(v))
	case termenv.RGBColor:
		return c
	default:
		return backend.ColorDefault
	}
}

var namedColors = map[string]backend.Color{
	"default":        backend.ColorDefault,
	"black":          backend.ColorBlack,
	"red":            backend.ColorRed,
	"green":          backend.ColorGreen,
	"yellow":         backend.ColorYellow,
	"blue":           backend.ColorBlue,
	"magenta":        backend.ColorMagenta,
	"cyan":           backend.ColorCyan,
	"white":          backend.ColorWhite,
	"bright-black":   backend.ColorBrightBlack,
	"gray":           backend.ColorBrightBlack,
	"bright-red":     backend.ColorBrightRed,
	"bright-green":   backend.ColorBrightGreen,
	"bright-yellow":  backend.ColorBrightYellow,
	"bright-blue":    backend.ColorBrightBlue,
	"bright-magenta": backend.ColorBrightMagenta,
	"bright-cyan":    backend.ColorBrightCyan,
	"bright-white":   backend.ColorBrightWhite,
}

// ParseColor accepts "#rrggbb", a palette index "0".."255", or a color name.
func ParseColor(s string) (backend.Color, error) {
	s = strings.TrimSpace(strings.ToLower(s))
	if s == "" {
		return backend.ColorDefault, fmt.Errorf("empty color")
	}
	if strings.HasPrefix(s, "#") {
		c, err := colorful.Hex(s)
		if err != nil {
			return backend.ColorDefault, fmt.Errorf("parse %q: %w", s, err)
		}
		r, g, b := c.RGB255()
		return backend.ColorRGB(r, g, b), nil
	}
	if n, err := strconv.Atoi(s); err == nil {
		if n < 0 || n > 255 {
			return backend.ColorDefault, fmt.Errorf("palette index %d out of range", n)
		}
		return backend.PaletteColor(n), nil
	}
	if c, ok := namedColors[s]; ok {
		return c, nil
	}
	return backend.ColorDefault, fmt.Errorf("unknown color %q", s)
}

// Blend mixes two true colors in Lab space; t=0 yields a, t=1 yields b.
// Palette colors cannot be mixed, so a is returned unchanged.
func Blend(a, b backend.Color, t float64) backend.Color {
	if !a.IsRGB() || !b.IsRGB() {
		return a
	}
	mixed := toColorful(a).BlendLab(toColorful(b), t).Clamped()
	r, g, bl := mixed.RGB255()
	return backend.ColorRGB(r, g, bl)
}

func toColorful(c backend.Color) colorful.Color {
	r, g, b := c.RGB()
	return colorful.Color{R: float64(r) / 255, G: float64(g) / 255, B: float64(b) / 255}
}
