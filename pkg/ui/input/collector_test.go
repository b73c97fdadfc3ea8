package input

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/mono-ball/MonoBall-sub005/pkg/ui/terminal"
)

func TestCollector_ClickWithinOneFrame(t *testing.T) {
	c := NewCollector()
	c.Add(terminal.MouseEvent{X: 4, Y: 2, Button: terminal.MouseLeft, Action: terminal.MousePress})
	c.Add(terminal.MouseEvent{X: 4, Y: 2, Button: terminal.MouseLeft, Action: terminal.MouseRelease})

	snap := c.Frame(time.Unix(0, 0))
	assert.True(t, snap.IsButtonPressed(ButtonLeft))
	assert.True(t, snap.IsButtonReleased(ButtonLeft))
	assert.False(t, snap.IsButtonDown(ButtonLeft))
	x, y := snap.MousePosition()
	assert.Equal(t, 4, x)
	assert.Equal(t, 2, y)
}

func TestCollector_DragAcrossFrames(t *testing.T) {
	c := NewCollector()
	c.Add(terminal.MouseEvent{X: 1, Y: 1, Button: terminal.MouseLeft, Action: terminal.MousePress})
	first := c.Frame(time.Unix(0, 0))
	assert.True(t, first.IsButtonPressed(ButtonLeft))
	assert.True(t, first.IsButtonDown(ButtonLeft))

	c.Add(terminal.MouseEvent{X: 6, Y: 3, Button: terminal.MouseLeft, Action: terminal.MouseMove})
	second := c.Frame(time.Unix(0, int64(16*time.Millisecond)))
	assert.False(t, second.IsButtonPressed(ButtonLeft))
	assert.True(t, second.IsButtonDown(ButtonLeft))
	assert.Equal(t, 16*time.Millisecond, second.Elapsed())
	x, _ := second.MousePosition()
	assert.Equal(t, 6, x)

	c.Add(terminal.MouseEvent{X: 6, Y: 3, Button: terminal.MouseLeft, Action: terminal.MouseRelease})
	third := c.Frame(time.Unix(1, 0))
	assert.True(t, third.IsButtonReleased(ButtonLeft))
	assert.False(t, third.IsButtonDown(ButtonLeft))
}

func TestCollector_Wheel(t *testing.T) {
	c := NewCollector()
	c.Add(terminal.MouseEvent{Button: terminal.MouseWheelDown})
	c.Add(terminal.MouseEvent{Button: terminal.MouseWheelDown})
	c.Add(terminal.MouseEvent{Button: terminal.MouseWheelUp})

	assert.Equal(t, 1, c.Frame(time.Now()).WheelDelta())
	assert.Equal(t, 0, c.Frame(time.Now()).WheelDelta())
}

func TestCollector_KeysAndRepeat(t *testing.T) {
	c := NewCollector()
	c.Add(terminal.KeyEvent{Key: terminal.KeyDown})
	c.Add(terminal.KeyEvent{Key: terminal.KeyRune, Rune: 'n'})

	snap := c.Frame(time.Now())
	assert.True(t, snap.IsKeyPressed(terminal.KeyDown))
	assert.False(t, snap.IsKeyRepeat(terminal.KeyDown))
	assert.Equal(t, []rune{'n'}, snap.Runes())

	c.Add(terminal.KeyEvent{Key: terminal.KeyDown, Shift: true})
	snap = c.Frame(time.Now())
	assert.True(t, snap.IsKeyRepeat(terminal.KeyDown))
	assert.True(t, snap.ShiftDown())

	snap.ConsumeKey(terminal.KeyDown)
	assert.False(t, snap.IsKeyPressed(terminal.KeyDown))
}

func TestSnapshot_ConsumeButton(t *testing.T) {
	c := NewCollector()
	c.Add(terminal.MouseEvent{Button: terminal.MouseLeft, Action: terminal.MousePress})
	snap := c.Frame(time.Now())

	assert.False(t, snap.IsButtonConsumed(ButtonLeft))
	snap.ConsumeButton(ButtonLeft)
	assert.True(t, snap.IsButtonConsumed(ButtonLeft))
	assert.True(t, snap.IsButtonPressed(ButtonLeft))

	snap.ConsumeButton(Button(42))
	assert.False(t, snap.IsButtonConsumed(Button(42)))
}

func TestCollector_CtrlRuneNotTyped(t *testing.T) {
	c := NewCollector()
	c.Add(terminal.KeyEvent{Key: terminal.KeyRune, Rune: 'x', Ctrl: true})
	snap := c.Frame(time.Now())
	assert.Empty(t, snap.Runes())
	assert.True(t, snap.CtrlDown())
}
