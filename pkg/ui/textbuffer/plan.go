package textbuffer

import "github.com/mono-ball/MonoBall-sub005/pkg/ui/backend"

// Highlight is the row background chosen for a visible line.
type Highlight int

const (
	HighlightNone Highlight = iota
	HighlightHover
	HighlightCursor
	HighlightSelection
)

// Band is a horizontal range of a row in renderer units, relative to the
// left edge of the text area.
type Band struct {
	X, Width int
}

// LinePlan says how to draw one visible row.
type LinePlan struct {
	Line      int // filtered-view index
	Row       int
	Text      string // already truncated to the text width
	Color     backend.Color
	Highlight Highlight

	Selection    Band
	HasSelection bool

	Matches      []Band
	CurrentMatch bool
}

// frameInput is everything planFrame needs; it holds no references to the
// Buffer so the planning step stays a pure function.
type frameInput struct {
	lines     []Line
	mapper    coordMapper
	visible   int
	textWidth int
	measure   func(string) int

	defaultColor backend.Color

	selection    Selection
	hasSelection bool
	hovered      int
	cursor       int

	search       *searchIndex
	currentMatch int // filtered-view line of the current match, or -1
}

func planFrame(in frameInput) []LinePlan {
	plans := make([]LinePlan, 0, in.visible)
	for row := 0; row < in.visible; row++ {
		idx := in.mapper.lineAtRow(row)
		if idx < 0 || idx >= len(in.lines) {
			break
		}
		l := in.lines[idx]
		text := TruncateToWidth(l.Text, in.textWidth, in.measure)
		p := LinePlan{
			Line:         idx,
			Row:          row,
			Text:         text,
			Color:        l.Color,
			CurrentMatch: idx == in.currentMatch,
		}
		if p.Color == backend.ColorDefault {
			p.Color = in.defaultColor
		}

		if in.hasSelection {
			if span, ok, continues := selectedSpan(in.selection, idx, l.Text); ok {
				band := bandFor(l.Text, span, in.measure)
				if continues {
					// Show the line break as one extra cell of selection.
					band.Width += in.measure(" ")
				}
				if band = clipBand(band, in.textWidth); band.Width > 0 {
					p.Selection, p.HasSelection = band, true
				}
			}
		}
		p.Highlight = rowHighlight(idx, in.hasSelection && in.selection.Contains(idx) && !in.selection.Empty(), in.hovered, in.cursor)

		if in.search != nil {
			for _, span := range in.search.occurrences(l.Text) {
				if band := clipBand(bandFor(l.Text, span, in.measure), in.textWidth); band.Width > 0 {
					p.Matches = append(p.Matches, band)
				}
			}
		}
		plans = append(plans, p)
	}
	return plans
}

// rowHighlight applies selection > cursor line > hover. The cursor line is
// not shown while the pointer hovers a different line.
func rowHighlight(line int, selected bool, hovered, cursor int) Highlight {
	switch {
	case selected:
		return HighlightSelection
	case line == cursor && (hovered < 0 || hovered == cursor):
		return HighlightCursor
	case line == hovered:
		return HighlightHover
	default:
		return HighlightNone
	}
}

func bandFor(text string, span Span, measure func(string) int) Band {
	runes := []rune(text)
	start := clamp(span.Start, 0, len(runes))
	end := clamp(span.End, start, len(runes))
	x := measure(string(runes[:start]))
	return Band{X: x, Width: measure(string(runes[:end])) - x}
}

func clipBand(b Band, limit int) Band {
	if b.X >= limit {
		return Band{}
	}
	if b.X+b.Width > limit {
		b.Width = limit - b.X
	}
	return b
}
