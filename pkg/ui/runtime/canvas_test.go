package runtime

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mono-ball/MonoBall-sub005/pkg/ui/backend"
)

func rowText(b *Buffer, y int) string {
	w, _ := b.Size()
	out := make([]rune, 0, w)
	for x := 0; x < w; x++ {
		if r := b.Get(x, y).Rune; r != 0 {
			out = append(out, r)
		}
	}
	return string(out)
}

func TestCanvas_MeasureText(t *testing.T) {
	c := NewCanvas(NewBuffer(10, 1))

	w, h := c.MeasureText("abc")
	assert.Equal(t, 3, w)
	assert.Equal(t, 1, h)

	w, _ = c.MeasureText("日本")
	assert.Equal(t, 4, w)
	assert.Equal(t, 1, c.LineHeight())
}

func TestCanvas_DrawTextKeepsBackground(t *testing.T) {
	buf := NewBuffer(6, 1)
	c := NewCanvas(buf)

	c.DrawRectangle(NewRect(0, 0, 6, 1), backend.ColorBlue)
	c.DrawText("hi", 1, 0, backend.ColorYellow)

	cell := buf.Get(1, 0)
	assert.Equal(t, 'h', cell.Rune)
	assert.Equal(t, backend.ColorYellow, cell.Style.FG())
	assert.Equal(t, backend.ColorBlue, cell.Style.BG())
}

func TestCanvas_ClipStack(t *testing.T) {
	buf := NewBuffer(10, 3)
	c := NewCanvas(buf)

	c.PushClip(NewRect(0, 0, 4, 3))
	c.PushClip(NewRect(2, 0, 10, 1))
	c.DrawText("abcdefgh", 0, 0, backend.ColorWhite)
	c.DrawText("row1", 0, 1, backend.ColorWhite)
	c.PopClip()
	c.DrawText("xy", 0, 2, backend.ColorWhite)
	c.PopClip()
	c.PopClip()

	assert.Equal(t, "  cd      ", rowText(buf, 0))
	assert.Equal(t, "          ", rowText(buf, 1))
	assert.Equal(t, "xy        ", rowText(buf, 2))
}

func TestCanvas_WideRuneAtClipEdgeDropped(t *testing.T) {
	buf := NewBuffer(5, 1)
	c := NewCanvas(buf)

	c.PushClip(NewRect(0, 0, 3, 1))
	c.DrawText("a日本", 0, 0, backend.ColorWhite)
	c.PopClip()

	assert.Equal(t, 'a', buf.Get(0, 0).Rune)
	assert.Equal(t, '日', buf.Get(1, 0).Rune)
	assert.Equal(t, rune(0), buf.Get(2, 0).Rune)
	assert.Equal(t, ' ', buf.Get(3, 0).Rune)
}

func TestCanvas_Outline(t *testing.T) {
	buf := NewBuffer(4, 3)
	c := NewCanvas(buf)

	c.DrawRectangleOutline(NewRect(0, 0, 4, 3), backend.ColorGreen, 1)

	assert.Equal(t, "┌──┐", rowText(buf, 0))
	assert.Equal(t, "│  │", rowText(buf, 1))
	assert.Equal(t, "└──┘", rowText(buf, 2))
	assert.Equal(t, backend.ColorGreen, buf.Get(0, 0).Style.FG())

	c.DrawRectangleOutline(NewRect(0, 0, 4, 3), backend.ColorRed, 0)
	assert.Equal(t, backend.ColorGreen, buf.Get(0, 0).Style.FG(), "zero thickness draws nothing")
}
