package runtime

import "github.com/mono-ball/MonoBall-sub005/pkg/ui/backend"

// Cell is a single character cell. A zero Rune marks the trailing half of a
// double-width character drawn in the cell to its left.
type Cell struct {
	Rune  rune
	Style backend.Style
}

var blankCell = Cell{Rune: ' ', Style: backend.DefaultStyle()}

// Buffer is a 2D grid of cells. Frames are drawn into the buffer and then
// flushed to a backend; only cells that changed since the last flush are sent.
type Buffer struct {
	cells  []Cell
	width  int
	height int

	dirty      []bool
	dirtyCount int
}

// NewBuffer creates a blank buffer with the given dimensions.
func NewBuffer(w, h int) *Buffer {
	b := &Buffer{}
	b.Resize(w, h)
	return b
}

// Size returns the buffer dimensions.
func (b *Buffer) Size() (w, h int) {
	return b.width, b.height
}

// Resize changes the dimensions. Content is discarded and every cell is
// marked dirty so the next flush repaints the screen.
func (b *Buffer) Resize(w, h int) {
	w, h = max(0, w), max(0, h)
	if w == b.width && h == b.height && b.cells != nil {
		return
	}
	b.width, b.height = w, h
	b.cells = make([]Cell, w*h)
	b.dirty = make([]bool, w*h)
	for i := range b.cells {
		b.cells[i] = blankCell
	}
	b.MarkAllDirty()
}

// Get returns the cell at (x, y), or a blank cell out of bounds.
func (b *Buffer) Get(x, y int) Cell {
	if !b.inBounds(x, y) {
		return blankCell
	}
	return b.cells[y*b.width+x]
}

// Set writes a cell. Out-of-bounds writes are dropped.
func (b *Buffer) Set(x, y int, r rune, s backend.Style) {
	if !b.inBounds(x, y) {
		return
	}
	b.put(y*b.width+x, Cell{Rune: r, Style: s})
}

// SetBackground changes the background of a cell and keeps its rune.
func (b *Buffer) SetBackground(x, y int, bg backend.Color) {
	if !b.inBounds(x, y) {
		return
	}
	idx := y*b.width + x
	c := b.cells[idx]
	c.Style = c.Style.Background(bg)
	b.put(idx, c)
}

// Fill fills a rectangular region, clipped to the buffer.
func (b *Buffer) Fill(r Rect, ch rune, s backend.Style) {
	r = r.Intersection(Rect{Width: b.width, Height: b.height})
	cell := Cell{Rune: ch, Style: s}
	for y := r.Y; y < r.Bottom(); y++ {
		for x := r.X; x < r.Right(); x++ {
			b.put(y*b.width+x, cell)
		}
	}
}

// Clear fills the buffer with blank cells.
func (b *Buffer) Clear() {
	b.Fill(Rect{Width: b.width, Height: b.height}, ' ', backend.DefaultStyle())
}

func (b *Buffer) inBounds(x, y int) bool {
	return x >= 0 && x < b.width && y >= 0 && y < b.height
}

func (b *Buffer) put(idx int, c Cell) {
	if b.cells[idx] == c {
		return
	}
	b.cells[idx] = c
	if !b.dirty[idx] {
		b.dirty[idx] = true
		b.dirtyCount++
	}
}

// MarkAllDirty marks the entire buffer as dirty.
func (b *Buffer) MarkAllDirty() {
	for i := range b.dirty {
		b.dirty[i] = true
	}
	b.dirtyCount = len(b.dirty)
}

// DirtyCount returns the number of cells changed since the last flush.
func (b *Buffer) DirtyCount() int {
	return b.dirtyCount
}

// Flush writes dirty cells to target and resets dirty tracking.
func (b *Buffer) Flush(target backend.RenderTarget) int {
	if b.dirtyCount == 0 {
		return 0
	}
	written := 0
	for idx, d := range b.dirty {
		if !d {
			continue
		}
		c := b.cells[idx]
		if c.Rune != 0 {
			target.SetContent(idx%b.width, idx/b.width, c.Rune, nil, c.Style)
			written++
		}
	}
	clear(b.dirty)
	b.dirtyCount = 0
	return written
}
