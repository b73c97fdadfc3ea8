package textbuffer

import (
	"github.com/mono-ball/MonoBall-sub005/pkg/ui/input"
	"github.com/mono-ball/MonoBall-sub005/pkg/ui/terminal"
	"github.com/mono-ball/MonoBall-sub005/pkg/ui/theme"
)

// RenderContext is what a frame needs from the host.
type RenderContext struct {
	Renderer Renderer
	Bounds   Rect

	// Input is optional; without it the frame only draws.
	Input Input

	// Theme overrides the buffer's theme for this frame.
	Theme *theme.Theme

	// Clipboard overrides the buffer's clipboard for this frame.
	Clipboard Clipboard
}

// frameLayout splits the bounds into the text area and the scrollbar track.
type frameLayout struct {
	content   Rect
	text      Rect
	scrollbar Rect
	line      int
}

func (b *Buffer) layoutFrame(ctx RenderContext) frameLayout {
	content := ctx.Bounds
	if b.style.ShowBorder {
		content = content.Inset(1, 1, 1, 1)
	}
	b.Layout(content.Height, ctx.Renderer.LineHeight())

	fl := frameLayout{content: content, line: b.EffectiveLineHeight()}
	text := content.Inset(b.padding, b.padding, b.padding, b.padding)
	if !b.style.HideScrollbar && b.EffectiveLineCount() > b.VisibleLineCount() {
		w := min(b.scrollbarWidth, content.Width)
		fl.scrollbar = Rect{X: content.Right() - w, Y: content.Y, Width: w, Height: content.Height}
		text.Width = max(0, min(text.Width, fl.scrollbar.X-text.X))
	}
	fl.text = text
	return fl
}

// Render runs one frame: it records the viewport, syncs a window source,
// applies input, and draws.
func (b *Buffer) Render(ctx RenderContext) {
	if ctx.Renderer == nil {
		return
	}
	fl := b.layoutFrame(ctx)
	b.syncWindow()
	b.clampScroll()

	if ctx.Input != nil {
		cb := ctx.Clipboard
		if cb == nil {
			cb = b.clipboard
		}
		b.handleInput(ctx.Input, ctx.Renderer, fl, cb)
		b.syncWindow()
	}

	th := ctx.Theme
	if th == nil {
		th = b.theme
	}
	b.draw(ctx.Renderer, ctx.Bounds, fl, b.style.resolve(th))
}

// SetSource attaches a paged line source and switches to virtual mode.
// Passing nil detaches it and leaves virtual mode.
func (b *Buffer) SetSource(src WindowSource) {
	b.source = src
	b.windowStart, b.windowSize, b.windowTotal = -1, 0, 0
	if src == nil {
		b.ClearVirtualTotalLines()
		b.Clear()
		return
	}
	b.SetVirtualTotalLines(max(1, src.LineCount()))
	b.syncWindow()
}

// syncWindow reloads the resident lines when the visible range of the
// source changed. Line references move with the window.
func (b *Buffer) syncWindow() {
	if b.source == nil {
		return
	}
	total := b.source.LineCount()
	b.scroll.virtualTotal = max(1, total)
	if b.scroll.autoScroll && total != b.windowTotal {
		b.scrollToBottom()
	}
	b.clampScroll()

	start, size := b.ScrollOffset(), b.VisibleLineCount()
	if start == b.windowStart && size == b.windowSize && total == b.windowTotal {
		return
	}
	delta := 0
	if b.windowStart >= 0 {
		delta = start - b.windowStart
	}
	b.windowStart, b.windowSize, b.windowTotal = start, size, total

	b.ClearPreservingScroll()
	lines := b.source.Lines(start, size)
	for _, l := range lines {
		b.push(l)
	}
	b.emit(EventAppended, len(lines))

	if delta != 0 {
		b.sel.shift(delta)
		b.hovered = shiftIndex(b.hovered, delta)
		b.cursor = shiftIndex(b.cursor, delta)
		b.clicks = clickState{}
	}
	b.sel.clampTo(b.FilteredLines())
}

// positionAt maps a point to the nearest rune boundary in the filtered
// view. Points above or below the text clamp to the first or last row.
func (b *Buffer) positionAt(x, y int, fl frameLayout, r Renderer) (Position, bool) {
	lines := b.FilteredLines()
	if len(lines) == 0 {
		return Position{}, false
	}
	row := 0
	if y >= fl.text.Y {
		row = (y - fl.text.Y) / fl.line
	}
	row = clamp(row, 0, b.VisibleLineCount()-1)
	line := clamp(b.mapper().lineAtRow(row), 0, len(lines)-1)
	measure := func(s string) int { w, _ := r.MeasureText(s); return w }
	col := columnAtX(lines[line].Text, x-fl.text.X, measure)
	return Position{Line: line, Column: col}, true
}

func (b *Buffer) handleInput(in Input, r Renderer, fl frameLayout, cb Clipboard) {
	mx, my := in.MousePosition()
	inside := fl.content.Contains(mx, my)

	b.hovered = -1
	if inside && fl.text.Contains(mx, my) {
		row := (my - fl.text.Y) / fl.line
		if line := b.mapper().lineAtRow(row); row < b.VisibleLineCount() && line < b.FilteredLineCount() {
			b.hovered = line
		}
	}

	if wheel := in.WheelDelta(); inside && wheel != 0 {
		if wheel > 0 {
			b.ScrollDown(wheel * b.wheelLines)
		} else {
			b.ScrollUp(-wheel * b.wheelLines)
		}
	}

	if in.IsButtonPressed(input.ButtonLeft) && !in.IsButtonConsumed(input.ButtonLeft) {
		if inside {
			in.ConsumeButton(input.ButtonLeft)
			b.focused = true
			if pos, ok := b.positionAt(mx, my, fl, r); ok {
				b.Click(pos.Line, pos.Column, in.ShiftDown())
			}
		} else {
			b.focused = false
			b.ClearSelection()
		}
	}

	if b.sel.dragging && in.IsButtonDown(input.ButtonLeft) {
		switch {
		case my < fl.text.Y:
			b.ScrollUp(1)
		case my >= fl.text.Bottom():
			b.ScrollDown(1)
		}
		if pos, ok := b.positionAt(mx, my, fl, r); ok {
			b.Drag(pos.Line, pos.Column)
		}
	}

	if in.IsButtonReleased(input.ButtonLeft) {
		b.Release()
	}

	if b.focused {
		b.handleKeys(in, cb)
	}
}

func (b *Buffer) handleKeys(in Input, cb Clipboard) {
	switch {
	case in.IsKeyPressed(terminal.KeyCtrlC):
		b.CopySelection(cb)
	case in.IsKeyPressed(terminal.KeyCtrlA):
		b.SelectAll()
	case in.IsKeyPressed(terminal.KeyEscape):
		b.ClearSelection()
	}

	switch {
	case in.IsKeyPressed(terminal.KeyUp):
		b.moveCursor(-1)
	case in.IsKeyPressed(terminal.KeyDown):
		b.moveCursor(1)
	case in.IsKeyPressed(terminal.KeyPageUp):
		b.PageUp()
	case in.IsKeyPressed(terminal.KeyPageDown):
		b.PageDown()
	case in.IsKeyPressed(terminal.KeyHome):
		b.ScrollToTop()
	case in.IsKeyPressed(terminal.KeyEnd):
		b.ScrollToBottom()
	case in.IsKeyPressed(terminal.KeyF3):
		if in.ShiftDown() {
			b.FindPrevious()
		} else {
			b.FindNext()
		}
	}
}

func (b *Buffer) moveCursor(delta int) {
	if b.cursor < 0 {
		// The first press lands on the top visible line.
		b.SetCursorLine(b.mapper().lineAtRow(0))
		return
	}
	b.SetCursorLine(b.cursor + delta)
}

func (b *Buffer) draw(r Renderer, bounds Rect, fl frameLayout, st resolvedStyle) {
	r.PushClip(bounds)
	defer r.PopClip()

	r.DrawRectangle(bounds, st.background)
	if b.style.ShowBorder {
		r.DrawRectangleOutline(bounds, st.border, 1)
	}

	measure := func(s string) int { w, _ := r.MeasureText(s); return w }
	in := frameInput{
		lines:        b.FilteredLines(),
		mapper:       b.mapper(),
		visible:      b.VisibleLineCount(),
		textWidth:    fl.text.Width,
		measure:      measure,
		defaultColor: st.text,
		hovered:      b.hovered,
		cursor:       b.cursor,
		currentMatch: -1,
	}
	in.selection, in.hasSelection = b.Selection()
	if b.search.active() {
		b.syncSearch()
		in.search = b.search
		if line, ok := b.search.currentLine(); ok {
			in.currentMatch = line
		}
	}

	r.PushClip(fl.text)
	for _, p := range planFrame(in) {
		y := fl.text.Y + p.Row*fl.line
		row := Rect{X: fl.text.X, Y: y, Width: fl.text.Width, Height: fl.line}
		switch p.Highlight {
		case HighlightCursor:
			r.DrawRectangle(row, st.cursorLine)
		case HighlightHover:
			r.DrawRectangle(row, st.hover)
		}
		matchColor := st.searchMatch
		if p.CurrentMatch {
			matchColor = st.currentMatch
		}
		for _, m := range p.Matches {
			r.DrawRectangle(Rect{X: fl.text.X + m.X, Y: y, Width: m.Width, Height: fl.line}, matchColor)
		}
		if p.HasSelection {
			r.DrawRectangle(Rect{X: fl.text.X + p.Selection.X, Y: y, Width: p.Selection.Width, Height: fl.line}, st.selection)
		}
		r.DrawText(p.Text, fl.text.X, y, p.Color)
	}
	r.PopClip()

	if !fl.scrollbar.Empty() {
		b.drawScrollbar(r, fl.scrollbar, st)
	}
}

// drawScrollbar draws the track and a thumb sized to the visible fraction.
func (b *Buffer) drawScrollbar(r Renderer, track Rect, st resolvedStyle) {
	total, visible := b.EffectiveLineCount(), b.VisibleLineCount()
	r.DrawRectangle(track, st.scrollbar)
	if total <= visible || track.Height <= 0 {
		return
	}
	h := track.Height
	thumb := max(1, int(int64(h)*int64(visible)/int64(total)))
	pos := 0
	if maxScroll := b.maxScroll(); maxScroll > 0 {
		pos = int(int64(h-thumb) * int64(b.ScrollOffset()) / int64(maxScroll))
	}
	r.DrawRectangle(Rect{X: track.X, Y: track.Y + pos, Width: track.Width, Height: thumb}, st.scrollThumb)
}
