// Package backend is the seam between the viewer and a terminal. The tcell
// implementation drives real terminals; the sim implementation keeps cells
// in memory so tests can read frames back.
package backend

import "github.com/mono-ball/MonoBall-sub005/pkg/ui/terminal"

// RenderTarget receives cells. A runtime.Buffer flushes its dirty cells
// into one; comb may be nil.
type RenderTarget interface {
	Size() (width, height int)
	SetContent(x, y int, mainc rune, comb []rune, style Style)
}

// Screen is a RenderTarget that can present what it has been given.
// Show writes pending cells; Sync makes the next Show repaint everything,
// which is what a resize needs.
type Screen interface {
	RenderTarget
	Show()
	Sync()
	Clear()
}

// EventSource delivers terminal input. PollEvent blocks and returns nil
// once the source has been finalized.
type EventSource interface {
	PollEvent() terminal.Event
	PostEvent(ev terminal.Event) error
}

// Backend owns a terminal for the life of the viewer. Init switches to the
// alternate screen with mouse reporting on; Fini puts the terminal back.
type Backend interface {
	Screen
	EventSource
	Init() error
	Fini()
	HideCursor()
}
