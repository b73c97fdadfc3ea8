package backend

import "fmt"

// Color is a terminal color. Values 0-255 are palette entries; values with
// the RGB flag carry a 24-bit true color.
type Color int32

const rgbFlag Color = 0x01000000

// Palette colors.
const (
	ColorDefault Color = -1
	ColorBlack   Color = 0
	ColorRed     Color = 1
	ColorGreen   Color = 2
	ColorYellow  Color = 3
	ColorBlue    Color = 4
	ColorMagenta Color = 5
	ColorCyan    Color = 6
	ColorWhite   Color = 7

	ColorBrightBlack   Color = 8
	ColorBrightRed     Color = 9
	ColorBrightGreen   Color = 10
	ColorBrightYellow  Color = 11
	ColorBrightBlue    Color = 12
	ColorBrightMagenta Color = 13
	ColorBrightCyan    Color = 14
	ColorBrightWhite   Color = 15
)

// ColorRGB creates a true color from RGB components.
func ColorRGB(r, g, b uint8) Color {
	return Color(int32(r)<<16|int32(g)<<8|int32(b)) | rgbFlag
}

// PaletteColor returns palette entry n, clamped to 0-255.
func PaletteColor(n int) Color {
	if n < 0 {
		n = 0
	}
	if n > 255 {
		n = 255
	}
	return Color(n)
}

// IsRGB reports whether c is a true color.
func (c Color) IsRGB() bool {
	return c != ColorDefault && c&rgbFlag != 0
}

// RGB returns the components of a true color, or zeros for palette colors.
func (c Color) RGB() (r, g, b uint8) {
	if !c.IsRGB() {
		return 0, 0, 0
	}
	return uint8((c >> 16) & 0xFF), uint8((c >> 8) & 0xFF), uint8(c & 0xFF)
}

// String renders the color as "#rrggbb", "palette(n)" or "default".
func (c Color) String() string {
	switch {
	case c == ColorDefault:
		return "default"
	case c.IsRGB():
		r, g, b := c.RGB()
		return fmt.Sprintf("#%02x%02x%02x", r, g, b)
	default:
		return fmt.Sprintf("palette(%d)", int(c))
	}
}

// AttrMask holds text attributes.
type AttrMask uint32

const (
	AttrBold AttrMask = 1 << iota
	AttrReverse
	AttrUnderline
	AttrDim
	AttrItalic
)

// Style combines foreground, background colors and attributes.
// Styles are values; setters return a modified copy.
type Style struct {
	fg    Color
	bg    Color
	attrs AttrMask
}

// DefaultStyle returns the terminal default colors with no attributes.
func DefaultStyle() Style {
	return Style{fg: ColorDefault, bg: ColorDefault}
}

// Foreground sets the foreground color.
func (s Style) Foreground(c Color) Style {
	s.fg = c
	return s
}

// Background sets the background color.
func (s Style) Background(c Color) Style {
	s.bg = c
	return s
}

// With toggles the given attributes.
func (s Style) With(mask AttrMask, on bool) Style {
	if on {
		s.attrs |= mask
	} else {
		s.attrs &^= mask
	}
	return s
}

// Bold enables or disables bold.
func (s Style) Bold(on bool) Style { return s.With(AttrBold, on) }

// Reverse enables or disables reverse video.
func (s Style) Reverse(on bool) Style { return s.With(AttrReverse, on) }

// Underline enables or disables underline.
func (s Style) Underline(on bool) Style { return s.With(AttrUnderline, on) }

// Dim enables or disables dim.
func (s Style) Dim(on bool) Style { return s.With(AttrDim, on) }

// Italic enables or disables italic.
func (s Style) Italic(on bool) Style { return s.With(AttrItalic, on) }

// Attributes returns all attributes.
func (s Style) Attributes() AttrMask { return s.attrs }

// FG returns the foreground color.
func (s Style) FG() Color { return s.fg }

// BG returns the background color.
func (s Style) BG() Color { return s.bg }

// Decompose returns the foreground, background, and attributes.
func (s Style) Decompose() (fg, bg Color, attrs AttrMask) {
	return s.fg, s.bg, s.attrs
}
