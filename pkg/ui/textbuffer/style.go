package textbuffer

import (
	"github.com/mono-ball/MonoBall-sub005/pkg/ui/backend"
	"github.com/mono-ball/MonoBall-sub005/pkg/ui/theme"
)

// ColorOption is a color that is either set or inherited from the theme.
type ColorOption struct {
	color backend.Color
	set   bool
}

// UseColor returns a set ColorOption.
func UseColor(c backend.Color) ColorOption {
	return ColorOption{color: c, set: true}
}

// Get returns the color and whether it is set.
func (o ColorOption) Get() (backend.Color, bool) { return o.color, o.set }

func (o ColorOption) or(fallback backend.Color) backend.Color {
	if o.set {
		return o.color
	}
	return fallback
}

// Style overrides individual theme colors for one buffer.
type Style struct {
	Background   ColorOption
	Text         ColorOption
	Selection    ColorOption
	CursorLine   ColorOption
	Hover        ColorOption
	SearchMatch  ColorOption
	CurrentMatch ColorOption
	Scrollbar    ColorOption
	ScrollThumb  ColorOption
	Border       ColorOption

	ShowBorder    bool
	HideScrollbar bool
}

type resolvedStyle struct {
	background   backend.Color
	text         backend.Color
	selection    backend.Color
	cursorLine   backend.Color
	hover        backend.Color
	searchMatch  backend.Color
	currentMatch backend.Color
	scrollbar    backend.Color
	scrollThumb  backend.Color
	border       backend.Color
}

func (s Style) resolve(th *theme.Theme) resolvedStyle {
	if th == nil {
		th = theme.DefaultTheme()
	}
	return resolvedStyle{
		background:   s.Background.or(th.Background),
		text:         s.Text.or(th.Text),
		selection:    s.Selection.or(th.Selection),
		cursorLine:   s.CursorLine.or(th.CursorLine),
		hover:        s.Hover.or(th.Hover),
		searchMatch:  s.SearchMatch.or(th.SearchMatch),
		currentMatch: s.CurrentMatch.or(th.CurrentMatch),
		scrollbar:    s.Scrollbar.or(th.Scrollbar),
		scrollThumb:  s.ScrollThumb.or(th.ScrollThumb),
		border:       s.Border.or(th.Border),
	}
}
