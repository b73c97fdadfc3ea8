// Package textbuffer implements a read-only, scrollable text pane: a capped
// line store with category filters, case-insensitive search, character
// precise mouse selection and a per-frame render pass that is independent of
// the drawing backend.
//
// A Buffer is not safe for concurrent use. It is meant to be owned by the
// goroutine that renders; producers hand lines to that goroutine.
package textbuffer

import (
	"log/slog"
	"strings"
	"time"

	"github.com/mono-ball/MonoBall-sub005/pkg/ui/backend"
	"github.com/mono-ball/MonoBall-sub005/pkg/ui/theme"
)

// Options configures a Buffer. Zero values select the defaults.
type Options struct {
	MaxLines            int
	LineHeight          int // used when the renderer reports no line height
	LinePadding         int
	MultiClickThreshold time.Duration
	WheelLines          int
	ScrollbarWidth      int
	DisableAutoScroll   bool

	Style     Style
	Theme     *theme.Theme
	Clipboard Clipboard
	Observer  Observer
	Logger    *slog.Logger
	Clock     func() time.Time
}

// Buffer is the text pane state.
type Buffer struct {
	store  *lineStore
	filter *filterEngine
	search *searchIndex
	scroll scroller
	sel    selectionModel
	clicks clickState

	hovered int
	cursor  int
	focused bool

	source      WindowSource
	windowStart int
	windowSize  int
	windowTotal int

	lineHeight     int
	padding        int
	clickThreshold time.Duration
	wheelLines     int
	scrollbarWidth int

	style     Style
	theme     *theme.Theme
	clipboard Clipboard
	observer  Observer
	log       *slog.Logger
	now       func() time.Time
}

// New creates an empty buffer.
func New(opts Options) *Buffer {
	b := &Buffer{
		store:          newLineStore(DefaultMaxLines),
		filter:         newFilterEngine(),
		search:         newSearchIndex(),
		hovered:        -1,
		cursor:         -1,
		windowStart:    -1,
		lineHeight:     1,
		clickThreshold: DefaultMultiClickThreshold,
		wheelLines:     3,
		scrollbarWidth: 1,
		style:          opts.Style,
		theme:          opts.Theme,
		clipboard:      opts.Clipboard,
		observer:       opts.Observer,
		log:            opts.Logger,
		now:            opts.Clock,
	}
	if b.log == nil {
		b.log = slog.New(slog.DiscardHandler)
	}
	if b.now == nil {
		b.now = time.Now
	}
	b.scroll.autoScroll = !opts.DisableAutoScroll

	if opts.MaxLines != 0 {
		b.SetMaxLines(opts.MaxLines)
	}
	if opts.LineHeight > 0 {
		b.lineHeight = opts.LineHeight
	}
	if opts.LinePadding > 0 {
		b.padding = opts.LinePadding
	}
	if opts.MultiClickThreshold > 0 {
		b.clickThreshold = opts.MultiClickThreshold
	}
	if opts.WheelLines > 0 {
		b.wheelLines = opts.WheelLines
	}
	if opts.ScrollbarWidth > 0 {
		b.scrollbarWidth = opts.ScrollbarWidth
	}
	return b
}

func (b *Buffer) emit(t EventType, count int) {
	if b.observer != nil {
		b.observer.HandleBufferEvent(Event{Type: t, Count: count})
	}
}

// --- Line store ---

// Append adds text as one or more lines. Text is split on newlines; a single
// trailing newline does not produce an empty final line.
func (b *Buffer) Append(text string, color backend.Color, category string) {
	text = strings.TrimSuffix(text, "\n")
	parts := strings.Split(text, "\n")
	for _, p := range parts {
		b.push(Line{Text: strings.TrimSuffix(p, "\r"), Color: color, Category: category})
	}
	b.afterAppend(len(parts))
}

// AppendLine adds a prebuilt line. Newlines inside it are not split.
func (b *Buffer) AppendLine(l Line) {
	b.push(l)
	b.afterAppend(1)
}

func (b *Buffer) push(l Line) {
	evicted := 0
	b.store.push(l, func(old Line) {
		if b.filter.evicted(old) {
			evicted++
		}
	})
	b.filter.appended(l)
	if evicted > 0 {
		b.evictedFromView(evicted)
	}
}

// evictedFromView keeps the viewport and line references steady after n
// lines left the front of the filtered view.
func (b *Buffer) evictedFromView(n int) {
	if !b.virtual() && b.scroll.offset != bottomSentinel {
		b.scroll.offset = max(0, b.scroll.offset-n)
	}
	b.sel.shift(n)
	b.hovered = shiftIndex(b.hovered, n)
	b.cursor = shiftIndex(b.cursor, n)
	b.clicks = clickState{}
	b.emit(EventEvicted, n)
}

func shiftIndex(i, n int) int {
	if i < 0 {
		return i
	}
	if i-n < 0 {
		return -1
	}
	return i - n
}

func (b *Buffer) afterAppend(n int) {
	b.emit(EventAppended, n)
	if b.scroll.autoScroll {
		b.scrollToBottom()
	}
}

// Clear removes every line and resets scrolling, selection and search.
func (b *Buffer) Clear() {
	b.clearContent()
	b.scroll.offset = 0
	b.sel.clear()
	b.clicks = clickState{}
	b.search.matches = nil
	b.search.current = -1
	b.search.built = false
	b.hovered, b.cursor = -1, -1
}

// ClearPreservingScroll removes every line but keeps the scroll offset,
// selection and search query. Hosts use it to replace content in place.
func (b *Buffer) ClearPreservingScroll() {
	b.clearContent()
}

func (b *Buffer) clearContent() {
	n := b.store.len()
	b.store.reset()
	b.filter.invalidate()
	b.emit(EventCleared, n)
}

// SetMaxLines changes the capacity, clamped to MinMaxLines. Excess lines are
// trimmed on the next append.
func (b *Buffer) SetMaxLines(n int) {
	if n < MinMaxLines {
		b.log.Debug("max lines clamped", "requested", n, "applied", MinMaxLines)
	}
	b.store.setMaxLines(n)
}

// MaxLines returns the capacity.
func (b *Buffer) MaxLines() int { return b.store.maxLines }

// TotalLineCount returns the number of stored lines, ignoring filters.
func (b *Buffer) TotalLineCount() int { return b.store.len() }

// --- Filters ---

// SetCategoryEnabled adds or removes a category from the enabled set.
// With no categories enabled every line is shown.
func (b *Buffer) SetCategoryEnabled(category string, enabled bool) {
	if b.filter.setEnabled(category, enabled) {
		b.afterFilterChange()
	}
}

// ClearCategoryFilters shows every line again.
func (b *Buffer) ClearCategoryFilters() {
	if b.filter.clearAll() {
		b.afterFilterChange()
	}
}

// CategoryEnabled reports whether category is in the enabled set.
func (b *Buffer) CategoryEnabled(category string) bool {
	_, ok := b.filter.enabled[category]
	return ok
}

// EnabledCategories returns the enabled set, sorted.
func (b *Buffer) EnabledCategories() []string { return b.filter.categories() }

func (b *Buffer) afterFilterChange() {
	lines := b.FilteredLines()
	// Line indices changed meaning; keeping the range would select other text.
	b.sel.clear()
	b.hovered, b.cursor = -1, -1
	b.clicks = clickState{}
	b.emit(EventFilterChanged, len(lines))
	if b.scroll.autoScroll {
		b.scrollToBottom()
	} else {
		b.clampScroll()
	}
}

// FilteredLines returns the lines passing the category filter. The slice is
// shared with the buffer and must not be modified.
func (b *Buffer) FilteredLines() []Line {
	return b.filter.lines(b.store)
}

// FilteredLineCount returns the size of the filtered view.
func (b *Buffer) FilteredLineCount() int {
	if len(b.filter.enabled) == 0 {
		return b.store.len()
	}
	return len(b.FilteredLines())
}

// LineAt returns line i of the filtered view.
func (b *Buffer) LineAt(i int) (Line, bool) {
	lines := b.FilteredLines()
	if i < 0 || i >= len(lines) {
		return Line{}, false
	}
	return lines[i], true
}

// LineText returns the text of line i of the filtered view.
func (b *Buffer) LineText(i int) (string, bool) {
	l, ok := b.LineAt(i)
	return l.Text, ok
}

// --- Search ---

func (b *Buffer) syncSearch() {
	lines := b.FilteredLines()
	b.search.sync(lines, b.filter.generation)
}

// Search runs a case-insensitive substring search over the filtered view
// and returns the number of matching lines. A blank query clears the search.
// When something matches, the first match is centered on screen.
func (b *Buffer) Search(query string) int {
	b.search.setQuery(query)
	if !b.search.active() {
		b.emit(EventSearched, 0)
		return 0
	}
	b.syncSearch()
	n := len(b.search.matches)
	b.log.Debug("search", "query_len", len([]rune(query)), "matches", n)
	b.emit(EventSearched, n)
	if n > 0 {
		b.ScrollToMatch(0)
	}
	return n
}

// ClearSearch drops the query and its matches.
func (b *Buffer) ClearSearch() {
	b.search.reset()
}

// SearchQuery returns the active query, or "" when no search is active.
func (b *Buffer) SearchQuery() string { return b.search.query }

// SearchMatchCount returns the number of matching lines.
func (b *Buffer) SearchMatchCount() int {
	b.syncSearch()
	return len(b.search.matches)
}

// CurrentMatchIndex returns the index of the current match, or -1.
func (b *Buffer) CurrentMatchIndex() int {
	b.syncSearch()
	return b.search.current
}

// CurrentMatchLine returns the filtered-view line of the current match.
func (b *Buffer) CurrentMatchLine() (int, bool) {
	b.syncSearch()
	return b.search.currentLine()
}

// FindNext moves to the next match, wrapping to the first.
func (b *Buffer) FindNext() {
	b.syncSearch()
	if b.search.next() {
		b.ScrollToMatch(b.search.current)
	}
}

// FindPrevious moves to the previous match, wrapping to the last.
func (b *Buffer) FindPrevious() {
	b.syncSearch()
	if b.search.previous() {
		b.ScrollToMatch(b.search.current)
	}
}

// ScrollToMatch makes match index the current match and centers its line.
// Auto-scroll is turned off. Out-of-range indexes are ignored.
func (b *Buffer) ScrollToMatch(index int) {
	b.syncSearch()
	if index < 0 || index >= len(b.search.matches) {
		return
	}
	b.search.current = index
	line := b.mapper().scrollLine(b.search.matches[index])
	b.scroll.autoScroll = false
	b.scroll.offset = clamp(line-b.VisibleLineCount()/2, 0, b.maxScroll())
}

// --- Selection ---

// HasSelection reports whether a selection exists. A point selection made
// by a click counts until the button is released.
func (b *Buffer) HasSelection() bool { return b.sel.active }

// Selection returns the current selection.
func (b *Buffer) Selection() (Selection, bool) {
	return b.sel.sel, b.sel.active
}

// SelectedText returns the selected text with lines joined by "\n".
func (b *Buffer) SelectedText() string {
	if !b.sel.active {
		return ""
	}
	return selectedText(b.FilteredLines(), b.sel.sel)
}

// ClearSelection drops the selection and any drag in progress.
func (b *Buffer) ClearSelection() {
	b.sel.clear()
}

// SetSelection selects from (startLine, startCol) to (endLine, endCol) in
// the filtered view. Out-of-range values are clamped; the first position is
// the anchor.
func (b *Buffer) SetSelection(startLine, startCol, endLine, endCol int) {
	lines := b.FilteredLines()
	if len(lines) == 0 {
		return
	}
	anchor := clampPosition(Position{Line: startLine, Column: startCol}, lines)
	pos := clampPosition(Position{Line: endLine, Column: endCol}, lines)
	b.sel.clear()
	b.sel.set(anchor, pos)
}

// SelectAll selects every line of the filtered view.
func (b *Buffer) SelectAll() {
	lines := b.FilteredLines()
	if len(lines) == 0 {
		return
	}
	last := len(lines) - 1
	b.sel.clear()
	b.sel.set(Position{}, Position{Line: last, Column: runeLen(lines[last].Text)})
}

// SelectWordAt selects the word under (line, col). A non-word character is
// selected on its own.
func (b *Buffer) SelectWordAt(line, col int) {
	text, ok := b.LineText(line)
	if !ok {
		return
	}
	start, end := wordBounds(text, col)
	b.sel.clear()
	b.sel.set(Position{Line: line, Column: start}, Position{Line: line, Column: end})
}

// Click applies a primary-button press at (line, col) of the filtered view,
// running the multi-click state machine. Columns are rune boundaries.
func (b *Buffer) Click(line, col int, shift bool) {
	lines := b.FilteredLines()
	if len(lines) == 0 {
		b.sel.clear()
		return
	}
	pos := clampPosition(Position{Line: line, Column: col}, lines)
	b.cursor = pos.Line

	// Shift+click extends regardless of timing and restarts the count.
	if shift && b.sel.active {
		b.clicks = nextClick(clickState{}, pos.Line, b.now(), b.clickThreshold)
		b.sel.extend(pos)
		b.sel.dragging = true
		b.sel.clearOnRelease = false
		b.sel.press = pos
		b.sel.moved = false
		return
	}

	b.clicks = nextClick(b.clicks, pos.Line, b.now(), b.clickThreshold)
	switch b.clicks.count {
	case 1:
		b.sel.clear()
		b.sel.set(pos, pos)
		b.sel.dragging = true
		b.sel.clearOnRelease = true
		b.sel.press = pos
		b.sel.moved = false
	case 2:
		b.SelectWordAt(pos.Line, pos.Column)
	default:
		b.SelectAll()
		b.clicks = clickState{}
	}
}

// Drag extends a selection started by Click to (line, col).
func (b *Buffer) Drag(line, col int) {
	if !b.sel.dragging {
		return
	}
	pos := clampPosition(Position{Line: line, Column: col}, b.FilteredLines())
	if pos != b.sel.press {
		b.sel.moved = true
	}
	b.sel.extend(pos)
}

// Release ends a drag. A single click that never moved clears its point
// selection.
func (b *Buffer) Release() {
	if !b.sel.dragging {
		return
	}
	clearIt := b.sel.clearOnRelease && !b.sel.moved
	b.sel.dragging = false
	if clearIt {
		b.sel.clear()
	}
}

// Dragging reports whether a drag selection is in progress.
func (b *Buffer) Dragging() bool { return b.sel.dragging }

// CopySelection sends the selected text to the clipboard. It reports whether
// anything was copied.
func (b *Buffer) CopySelection(cb Clipboard) bool {
	if cb == nil {
		cb = b.clipboard
	}
	text := b.SelectedText()
	if cb == nil || text == "" {
		return false
	}
	cb.SetText(text)
	n := len([]rune(text))
	b.log.Debug("selection copied", "runes", n)
	b.emit(EventCopied, n)
	return true
}

// --- Hover, cursor and focus ---

// HoveredLine returns the filtered-view line under the pointer, or -1.
func (b *Buffer) HoveredLine() int { return b.hovered }

// CursorLine returns the keyboard cursor line, or -1.
func (b *Buffer) CursorLine() int { return b.cursor }

// SetCursorLine moves the keyboard cursor, clamped to the filtered view,
// and scrolls it into view. In virtual mode a line past either end of the
// resident window scrolls the window instead, leaving the cursor on the
// edge row.
func (b *Buffer) SetCursorLine(line int) {
	n := b.FilteredLineCount()
	if n == 0 {
		b.cursor = -1
		return
	}
	if !b.virtual() {
		b.cursor = clamp(line, 0, n-1)
		b.ensureVisible(b.cursor)
		return
	}

	before := b.ScrollOffset()
	switch {
	case line < 0:
		b.ScrollUp(-line)
	case line >= n:
		b.ScrollDown(line - n + 1)
	}
	moved := b.ScrollOffset() - before
	if b.source != nil {
		b.syncWindow()
		n = b.FilteredLineCount()
	}
	if n == 0 {
		b.cursor = -1
		return
	}
	b.cursor = clamp(line-moved, 0, n-1)
}

// Focused reports whether keyboard shortcuts are active.
func (b *Buffer) Focused() bool { return b.focused }

// SetFocused enables or disables keyboard shortcuts.
func (b *Buffer) SetFocused(focused bool) { b.focused = focused }

// SetTheme replaces the theme styles are resolved against.
func (b *Buffer) SetTheme(th *theme.Theme) { b.theme = th }

// SetStyle replaces the style overrides.
func (b *Buffer) SetStyle(s Style) { b.style = s }
