package textbuffer

import "math"

// bottomSentinel parks the offset past any real position when scrolling to
// the bottom before the viewport size is known. The next render clamps it.
const bottomSentinel = math.MaxInt32

type scroller struct {
	offset       int
	autoScroll   bool
	virtualTotal int

	viewportHeight     int
	rendererLineHeight int
}

// Layout records the viewport height and the renderer's line height.
// Render calls it every frame; hosts may call it earlier so scroll math is
// exact before the first frame.
func (b *Buffer) Layout(viewportHeight, rendererLineHeight int) {
	b.scroll.viewportHeight = max(0, viewportHeight)
	b.scroll.rendererLineHeight = max(0, rendererLineHeight)
	if b.viewportKnown() {
		b.clampScroll()
	}
}

func (b *Buffer) viewportKnown() bool { return b.scroll.viewportHeight > 0 }

// EffectiveLineHeight prefers the renderer's line height over the
// configured fallback.
func (b *Buffer) EffectiveLineHeight() int {
	if b.scroll.rendererLineHeight > 0 {
		return b.scroll.rendererLineHeight
	}
	return b.lineHeight
}

// VisibleLineCount returns how many lines fit in the viewport, at least one.
func (b *Buffer) VisibleLineCount() int {
	usable := b.scroll.viewportHeight - 2*b.padding
	return max(1, usable/b.EffectiveLineHeight())
}

// SetVirtualTotalLines switches to virtual mode with n lines in scroll
// space. Zero or less leaves virtual mode.
func (b *Buffer) SetVirtualTotalLines(n int) {
	b.scroll.virtualTotal = max(0, n)
	b.clampScroll()
}

// ClearVirtualTotalLines leaves virtual mode.
func (b *Buffer) ClearVirtualTotalLines() {
	b.SetVirtualTotalLines(0)
}

// VirtualTotalLines returns the virtual line count, or 0 outside virtual mode.
func (b *Buffer) VirtualTotalLines() int { return b.scroll.virtualTotal }

func (b *Buffer) virtual() bool { return b.scroll.virtualTotal > 0 }

// EffectiveLineCount is the line count all scroll math uses: the virtual
// total in virtual mode, else the filtered line count.
func (b *Buffer) EffectiveLineCount() int {
	if b.virtual() {
		return b.scroll.virtualTotal
	}
	return b.FilteredLineCount()
}

func (b *Buffer) maxScroll() int {
	return max(0, b.EffectiveLineCount()-b.VisibleLineCount())
}

func (b *Buffer) mapper() coordMapper {
	if b.virtual() {
		return directMapper(b.ScrollOffset())
	}
	return offsetMapper(b.ScrollOffset())
}

// ScrollOffset returns the index of the first visible line in scroll space.
// A pending scroll-to-bottom reports the current bottom.
func (b *Buffer) ScrollOffset() int {
	return clamp(b.scroll.offset, 0, b.maxScroll())
}

// clampScroll resolves the sentinel and keeps the offset in range. Without
// a viewport the sentinel is kept so the first frame lands at the bottom.
func (b *Buffer) clampScroll() {
	if b.scroll.offset == bottomSentinel && !b.viewportKnown() {
		return
	}
	b.scroll.offset = clamp(b.scroll.offset, 0, b.maxScroll())
}

func (b *Buffer) scrollToBottom() {
	if !b.viewportKnown() {
		b.scroll.offset = bottomSentinel
		return
	}
	b.scroll.offset = b.maxScroll()
}

// AutoScroll reports whether new content keeps the view at the bottom.
func (b *Buffer) AutoScroll() bool { return b.scroll.autoScroll }

// SetAutoScroll turns follow mode on or off. Turning it on jumps to the bottom.
func (b *Buffer) SetAutoScroll(on bool) {
	b.scroll.autoScroll = on
	if on {
		b.scrollToBottom()
	}
}

// SetScrollOffset jumps to offset, clamped to the scrollable range.
func (b *Buffer) SetScrollOffset(offset int) {
	b.scroll.offset = clamp(offset, 0, b.maxScroll())
	b.scroll.autoScroll = b.atBottom()
}

func (b *Buffer) atBottom() bool {
	return b.ScrollOffset() >= b.maxScroll()
}

// ScrollUp moves the view n lines toward the start and stops following.
func (b *Buffer) ScrollUp(n int) {
	if n <= 0 {
		return
	}
	b.scroll.offset = clamp(b.ScrollOffset()-n, 0, b.maxScroll())
	b.scroll.autoScroll = false
}

// ScrollDown moves the view n lines toward the end. Reaching the bottom
// resumes following.
func (b *Buffer) ScrollDown(n int) {
	if n <= 0 {
		return
	}
	b.scroll.offset = clamp(b.ScrollOffset()+n, 0, b.maxScroll())
	if b.atBottom() {
		b.scroll.autoScroll = true
	}
}

// ScrollToTop jumps to the first line and stops following.
func (b *Buffer) ScrollToTop() {
	b.scroll.offset = 0
	b.scroll.autoScroll = false
}

// ScrollToBottom jumps to the last page and resumes following.
func (b *Buffer) ScrollToBottom() {
	b.scroll.autoScroll = true
	b.scrollToBottom()
}

// PageUp scrolls up by one viewport.
func (b *Buffer) PageUp() { b.ScrollUp(b.VisibleLineCount()) }

// PageDown scrolls down by one viewport.
func (b *Buffer) PageDown() { b.ScrollDown(b.VisibleLineCount()) }

// ensureVisible scrolls the minimum amount to bring a filtered-view line
// on screen.
func (b *Buffer) ensureVisible(line int) {
	m := b.mapper()
	row := m.rowOfLine(line)
	visible := b.VisibleLineCount()
	switch {
	case row < 0:
		b.ScrollUp(-row)
	case row >= visible:
		b.ScrollDown(row - visible + 1)
	}
}
