package textbuffer

import (
	"github.com/mono-ball/MonoBall-sub005/pkg/ui/backend"
	"github.com/mono-ball/MonoBall-sub005/pkg/ui/input"
	"github.com/mono-ball/MonoBall-sub005/pkg/ui/runtime"
	"github.com/mono-ball/MonoBall-sub005/pkg/ui/terminal"
)

//go:generate mockgen -package=textbuffer -destination=mock_contract_test.go github.com/mono-ball/MonoBall-sub005/pkg/ui/textbuffer Clipboard,Observer

// Rect is a rectangle in renderer units.
type Rect = runtime.Rect

// Renderer measures and draws text. The buffer only uses it for the
// duration of a Render call.
type Renderer interface {
	MeasureText(text string) (width, height int)
	DrawText(text string, x, y int, color backend.Color)
	DrawRectangle(r Rect, color backend.Color)
	DrawRectangleOutline(r Rect, color backend.Color, thickness int)
	LineHeight() int
	PushClip(r Rect)
	PopClip()
}

// Input is the per-frame input snapshot. *input.Snapshot implements it.
type Input interface {
	MousePosition() (x, y int)
	WheelDelta() int
	IsButtonPressed(b input.Button) bool
	IsButtonReleased(b input.Button) bool
	IsButtonDown(b input.Button) bool
	IsButtonConsumed(b input.Button) bool
	ConsumeButton(b input.Button)
	IsKeyPressed(k terminal.Key) bool
	IsKeyRepeat(k terminal.Key) bool
	ShiftDown() bool
	CtrlDown() bool
}

// Clipboard receives copied text.
type Clipboard interface {
	SetText(text string)
}

// WindowSource pages lines in from outside the buffer. With a source
// attached the buffer runs in virtual mode and only holds the lines on
// screen.
type WindowSource interface {
	LineCount() int
	Lines(start, count int) []Line
}

var _ Input = (*input.Snapshot)(nil)
