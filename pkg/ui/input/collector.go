package input

import (
	"time"

	"github.com/mono-ball/MonoBall-sub005/pkg/ui/terminal"
)

// Collector accumulates terminal events between frames. It is not safe for
// concurrent use; feed it from the goroutine that renders.
type Collector struct {
	mouseX, mouseY int
	shift, ctrl    bool
	down           [buttonCount]bool

	pending   Snapshot
	prevKeys  map[terminal.Key]bool
	lastFrame time.Time
}

// NewCollector creates an empty collector.
func NewCollector() *Collector {
	c := &Collector{prevKeys: make(map[terminal.Key]bool)}
	c.reset()
	return c
}

func (c *Collector) reset() {
	c.pending = Snapshot{keys: make(map[terminal.Key]keyState)}
}

// Add folds one event into the pending frame. Non-input events are ignored.
func (c *Collector) Add(ev terminal.Event) {
	switch e := ev.(type) {
	case terminal.MouseEvent:
		c.mouseX, c.mouseY = e.X, e.Y
		c.shift, c.ctrl = e.Shift, e.Ctrl
		c.addMouse(e)
	case terminal.KeyEvent:
		c.shift, c.ctrl = e.Shift, e.Ctrl
		if e.Key == terminal.KeyRune && !e.Ctrl && !e.Alt {
			c.pending.runes = append(c.pending.runes, e.Rune)
		}
		c.pending.keys[e.Key] = keyState{pressed: true, repeat: c.prevKeys[e.Key]}
	}
}

func (c *Collector) addMouse(e terminal.MouseEvent) {
	switch e.Button {
	case terminal.MouseWheelUp:
		c.pending.wheel--
		return
	case terminal.MouseWheelDown:
		c.pending.wheel++
		return
	}
	b, ok := toButton(e.Button)
	if !ok {
		return
	}
	switch e.Action {
	case terminal.MousePress:
		if !c.down[b] {
			c.pending.buttons[b].pressed = true
		}
		c.down[b] = true
	case terminal.MouseRelease:
		if c.down[b] {
			c.pending.buttons[b].released = true
		}
		c.down[b] = false
	}
}

func toButton(b terminal.MouseButton) (Button, bool) {
	switch b {
	case terminal.MouseLeft:
		return ButtonLeft, true
	case terminal.MouseMiddle:
		return ButtonMiddle, true
	case terminal.MouseRight:
		return ButtonRight, true
	}
	return 0, false
}

// Frame returns the snapshot for the frame ending at now and starts a new one.
func (c *Collector) Frame(now time.Time) *Snapshot {
	snap := c.pending
	snap.mouseX, snap.mouseY = c.mouseX, c.mouseY
	snap.shift, snap.ctrl = c.shift, c.ctrl
	for b := range snap.buttons {
		snap.buttons[b].down = c.down[b]
	}
	if !c.lastFrame.IsZero() {
		snap.elapsed = now.Sub(c.lastFrame)
	}
	c.lastFrame = now

	clear(c.prevKeys)
	for k, st := range snap.keys {
		if st.pressed {
			c.prevKeys[k] = true
		}
	}
	c.reset()
	return &snap
}
