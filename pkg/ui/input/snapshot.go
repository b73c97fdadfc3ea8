// Package input folds terminal events into per-frame input snapshots.
//
// Terminal events arrive one at a time, but widgets such as the text pane
// read input once per frame: which buttons went down or up since the last
// frame, where the pointer is, how far the wheel turned and which keys were
// hit. A Collector accumulates events between frames and hands out a
// Snapshot for each one.
package input

import (
	"time"

	"github.com/mono-ball/MonoBall-sub005/pkg/ui/terminal"
)

// Button identifies a mouse button in a snapshot.
type Button int

const (
	ButtonLeft Button = iota
	ButtonMiddle
	ButtonRight
	buttonCount
)

type buttonState struct {
	pressed  bool
	released bool
	down     bool
	consumed bool
}

type keyState struct {
	pressed bool
	repeat  bool
}

// Snapshot is the input seen during one frame.
type Snapshot struct {
	mouseX, mouseY int
	wheel          int
	shift, ctrl    bool
	elapsed        time.Duration

	buttons [buttonCount]buttonState
	keys    map[terminal.Key]keyState
	runes   []rune
}

// MousePosition returns the pointer position in cells.
func (s *Snapshot) MousePosition() (x, y int) { return s.mouseX, s.mouseY }

// WheelDelta returns wheel notches this frame; positive scrolls toward the end.
func (s *Snapshot) WheelDelta() int { return s.wheel }

// IsButtonPressed reports whether b went down this frame.
func (s *Snapshot) IsButtonPressed(b Button) bool { return s.button(b).pressed }

// IsButtonReleased reports whether b went up this frame.
func (s *Snapshot) IsButtonReleased(b Button) bool { return s.button(b).released }

// IsButtonDown reports whether b is held at the end of the frame.
func (s *Snapshot) IsButtonDown(b Button) bool { return s.button(b).down }

// IsButtonConsumed reports whether a widget already claimed b this frame.
func (s *Snapshot) IsButtonConsumed(b Button) bool { return s.button(b).consumed }

// ConsumeButton marks b as handled so later widgets ignore it.
func (s *Snapshot) ConsumeButton(b Button) {
	if b >= 0 && b < buttonCount {
		s.buttons[b].consumed = true
	}
}

func (s *Snapshot) button(b Button) buttonState {
	if b < 0 || b >= buttonCount {
		return buttonState{}
	}
	return s.buttons[b]
}

// IsKeyPressed reports whether k was hit this frame, including repeats.
func (s *Snapshot) IsKeyPressed(k terminal.Key) bool { return s.keys[k].pressed }

// IsKeyRepeat reports whether k was also hit in the previous frame.
func (s *Snapshot) IsKeyRepeat(k terminal.Key) bool { return s.keys[k].repeat }

// IsKeyDown reports whether k is considered held. Terminals do not report
// key-up, so a key is down for the frame it was hit in.
func (s *Snapshot) IsKeyDown(k terminal.Key) bool { return s.keys[k].pressed }

// ConsumeKey clears k so later widgets do not react to it.
func (s *Snapshot) ConsumeKey(k terminal.Key) { delete(s.keys, k) }

// Runes returns printable characters typed this frame, in order.
func (s *Snapshot) Runes() []rune { return s.runes }

// ShiftDown reports whether Shift was held on the last event.
func (s *Snapshot) ShiftDown() bool { return s.shift }

// CtrlDown reports whether Ctrl was held on the last event.
func (s *Snapshot) CtrlDown() bool { return s.ctrl }

// Elapsed returns the time since the previous frame.
func (s *Snapshot) Elapsed() time.Duration { return s.elapsed }
