package runtime

import (
	"github.com/mattn/go-runewidth"

	"github.com/mono-ball/MonoBall-sub005/pkg/ui/backend"
)

// Canvas draws text and rectangles onto a Buffer in cell units. One text row
// is one cell high, and widths follow East Asian width rules.
type Canvas struct {
	buf   *Buffer
	clips []Rect
}

// NewCanvas creates a canvas over buf.
func NewCanvas(buf *Buffer) *Canvas {
	return &Canvas{buf: buf}
}

// Buffer returns the underlying cell buffer.
func (c *Canvas) Buffer() *Buffer { return c.buf }

// MeasureText returns the display width of text and a height of one row.
func (c *Canvas) MeasureText(text string) (width, height int) {
	return runewidth.StringWidth(text), 1
}

// LineHeight returns the height of one text row.
func (c *Canvas) LineHeight() int { return 1 }

// PushClip restricts drawing to r intersected with the current clip.
func (c *Canvas) PushClip(r Rect) {
	c.clips = append(c.clips, c.clip().Intersection(r))
}

// PopClip restores the previous clip. Popping an empty stack is a no-op.
func (c *Canvas) PopClip() {
	if len(c.clips) > 0 {
		c.clips = c.clips[:len(c.clips)-1]
	}
}

func (c *Canvas) clip() Rect {
	if len(c.clips) == 0 {
		w, h := c.buf.Size()
		return Rect{Width: w, Height: h}
	}
	return c.clips[len(c.clips)-1]
}

// DrawRectangle fills r with a solid background color.
func (c *Canvas) DrawRectangle(r Rect, color backend.Color) {
	r = r.Intersection(c.clip())
	for y := r.Y; y < r.Bottom(); y++ {
		for x := r.X; x < r.Right(); x++ {
			cell := c.buf.Get(x, y)
			if cell.Rune == 0 {
				// Covering half of a wide rune leaves a blank.
				cell.Rune = ' '
			}
			c.buf.Set(x, y, cell.Rune, cell.Style.Background(color))
		}
	}
}

// DrawRectangleOutline draws a box border with the given foreground color.
// Cells are the smallest unit, so any positive thickness draws one cell.
func (c *Canvas) DrawRectangleOutline(r Rect, color backend.Color, thickness int) {
	if thickness <= 0 || r.Width < 2 || r.Height < 2 {
		return
	}
	right, bottom := r.Right()-1, r.Bottom()-1
	c.setFG(r.X, r.Y, '┌', color)
	c.setFG(right, r.Y, '┐', color)
	c.setFG(r.X, bottom, '└', color)
	c.setFG(right, bottom, '┘', color)
	for x := r.X + 1; x < right; x++ {
		c.setFG(x, r.Y, '─', color)
		c.setFG(x, bottom, '─', color)
	}
	for y := r.Y + 1; y < bottom; y++ {
		c.setFG(r.X, y, '│', color)
		c.setFG(right, y, '│', color)
	}
}

// DrawText writes text starting at (x, y) in the given foreground color,
// keeping the background already in each cell. Double-width runes that would
// straddle the clip edge are dropped.
func (c *Canvas) DrawText(text string, x, y int, color backend.Color) {
	clip := c.clip()
	if y < clip.Y || y >= clip.Bottom() {
		return
	}
	px := x
	for _, r := range text {
		w := runewidth.RuneWidth(r)
		if w == 0 {
			continue
		}
		if px >= clip.Right() {
			return
		}
		if px >= clip.X && px+w <= clip.Right() {
			c.setFG(px, y, r, color)
			if w == 2 {
				c.setFG(px+1, y, 0, color)
			}
		}
		px += w
	}
}

func (c *Canvas) setFG(x, y int, r rune, color backend.Color) {
	if !c.clip().Contains(x, y) {
		return
	}
	cell := c.buf.Get(x, y)
	c.buf.Set(x, y, r, cell.Style.Foreground(color))
}
