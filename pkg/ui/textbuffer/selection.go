package textbuffer

import "strings"

// Position is a rune boundary in the filtered view: Column c sits just
// before the c-th rune of Line.
type Position struct {
	Line   int
	Column int
}

// Before reports whether p sorts before q in (line, column) order.
func (p Position) Before(q Position) bool {
	if p.Line != q.Line {
		return p.Line < q.Line
	}
	return p.Column < q.Column
}

// Selection is a snapshot of the selected range. Start never sorts after
// End; Anchor is the end the selection grows from.
type Selection struct {
	Start  Position
	End    Position
	Anchor Position
}

// Empty reports whether the selection covers no characters.
func (s Selection) Empty() bool { return s.Start == s.End }

// Contains reports whether line lies within the selected line range.
func (s Selection) Contains(line int) bool {
	return line >= s.Start.Line && line <= s.End.Line
}

type selectionModel struct {
	active bool
	sel    Selection

	dragging bool
	moved    bool
	press    Position

	// clearOnRelease is set for a plain single click; a release without
	// movement then drops the point selection.
	clearOnRelease bool
}

// set anchors the selection at anchor and extends it to pos.
func (m *selectionModel) set(anchor, pos Position) {
	m.active = true
	m.sel.Anchor = anchor
	if pos.Before(anchor) {
		m.sel.Start, m.sel.End = pos, anchor
	} else {
		m.sel.Start, m.sel.End = anchor, pos
	}
}

func (m *selectionModel) extend(pos Position) {
	m.set(m.sel.Anchor, pos)
}

func (m *selectionModel) clear() {
	*m = selectionModel{}
}

// shift moves every line reference up by n after n lines left the front of
// the view; a negative n moves them down. A selection whose end falls off
// the front is dropped.
func (m *selectionModel) shift(n int) {
	if !m.active || n == 0 {
		return
	}
	if m.sel.End.Line-n < 0 {
		m.clear()
		return
	}
	for _, p := range []*Position{&m.sel.Start, &m.sel.End, &m.sel.Anchor, &m.press} {
		p.Line -= n
		if p.Line < 0 {
			*p = Position{}
		}
	}
}

// clampTo keeps the selection inside a view of lineCount lines.
func (m *selectionModel) clampTo(lines []Line) {
	if !m.active {
		return
	}
	if len(lines) == 0 || m.sel.Start.Line >= len(lines) {
		m.clear()
		return
	}
	for _, p := range []*Position{&m.sel.Start, &m.sel.End, &m.sel.Anchor} {
		*p = clampPosition(*p, lines)
	}
}

func clampPosition(p Position, lines []Line) Position {
	if len(lines) == 0 {
		return Position{}
	}
	p.Line = clamp(p.Line, 0, len(lines)-1)
	p.Column = clamp(p.Column, 0, runeLen(lines[p.Line].Text))
	return p
}

func runeLen(s string) int {
	return len([]rune(s))
}

// selectedText joins the selected range of lines with "\n". The first line
// starts at the start column, interior lines are whole, and the last line
// ends at the end column.
func selectedText(lines []Line, sel Selection) string {
	if len(lines) == 0 {
		return ""
	}
	start := clampPosition(sel.Start, lines)
	end := clampPosition(sel.End, lines)
	if start.Line == end.Line {
		runes := []rune(lines[start.Line].Text)
		return string(runes[start.Column:max(start.Column, end.Column)])
	}
	var sb strings.Builder
	for i := start.Line; i <= end.Line; i++ {
		runes := []rune(lines[i].Text)
		switch i {
		case start.Line:
			sb.WriteString(string(runes[start.Column:]))
		case end.Line:
			sb.WriteString(string(runes[:end.Column]))
		default:
			sb.WriteString(string(runes))
		}
		if i < end.Line {
			sb.WriteByte('\n')
		}
	}
	return sb.String()
}

// selectedSpan returns the part of line i covered by the selection and
// whether the selection continues past the end of the line.
func selectedSpan(sel Selection, i int, text string) (Span, bool, bool) {
	if !sel.Contains(i) || sel.Empty() {
		return Span{}, false, false
	}
	n := runeLen(text)
	span := Span{Start: 0, End: n}
	if i == sel.Start.Line {
		span.Start = min(sel.Start.Column, n)
	}
	if i == sel.End.Line {
		span.End = min(sel.End.Column, n)
	}
	return span, true, i < sel.End.Line
}
