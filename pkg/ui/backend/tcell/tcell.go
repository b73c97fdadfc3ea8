// Package tcell provides a Backend implementation using tcell.
package tcell

import (
	"github.com/gdamore/tcell/v2"
	"github.com/mono-ball/MonoBall-sub005/pkg/ui/backend"
	"github.com/mono-ball/MonoBall-sub005/pkg/ui/terminal"
)

// Backend implements backend.Backend using tcell.
type Backend struct {
	screen tcell.Screen

	// tcell reports button state, not transitions. The previous mask is kept
	// so presses, drags and releases can be told apart.
	lastButtons tcell.ButtonMask
}

// New creates a new tcell backend on the controlling terminal.
func New() (*Backend, error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, err
	}
	return &Backend{screen: screen}, nil
}

// NewWithScreen creates a backend with an existing tcell screen.
func NewWithScreen(screen tcell.Screen) *Backend {
	return &Backend{screen: screen}
}

// Init initializes the screen and enables motion-tracking mouse reports.
func (b *Backend) Init() error {
	if err := b.screen.Init(); err != nil {
		return err
	}
	b.screen.EnableMouse(tcell.MouseMotionEvents)
	return nil
}

// Fini cleans up the backend.
func (b *Backend) Fini() {
	b.screen.Fini()
}

// Size returns the terminal dimensions.
func (b *Backend) Size() (width, height int) {
	return b.screen.Size()
}

// SetContent sets a cell at position (x, y).
func (b *Backend) SetContent(x, y int, mainc rune, comb []rune, style backend.Style) {
	b.screen.SetContent(x, y, mainc, comb, convertStyle(style))
}

// Show synchronizes the buffer to the terminal.
func (b *Backend) Show() {
	b.screen.Show()
}

// Clear clears the screen.
func (b *Backend) Clear() {
	b.screen.Clear()
}

// HideCursor hides the cursor.
func (b *Backend) HideCursor() {
	b.screen.HideCursor()
}

// PollEvent blocks until a convertible event is available.
func (b *Backend) PollEvent() terminal.Event {
	for {
		ev := b.screen.PollEvent()
		if ev == nil {
			return nil
		}
		if out := b.convertEvent(ev); out != nil {
			return out
		}
	}
}

// PostEvent injects an event into the queue.
func (b *Backend) PostEvent(ev terminal.Event) error {
	if tev := reverseConvertEvent(ev); tev != nil {
		return b.screen.PostEvent(tev)
	}
	return nil
}

// Sync forces a full redraw.
func (b *Backend) Sync() {
	b.screen.Sync()
}

func convertStyle(s backend.Style) tcell.Style {
	fg, bg, attrs := s.Decompose()
	style := tcell.StyleDefault.
		Foreground(convertColor(fg)).
		Background(convertColor(bg))

	style = style.Bold(attrs&backend.AttrBold != 0).
		Italic(attrs&backend.AttrItalic != 0).
		Underline(attrs&backend.AttrUnderline != 0).
		Dim(attrs&backend.AttrDim != 0).
		Reverse(attrs&backend.AttrReverse != 0)
	return style
}

func convertColor(c backend.Color) tcell.Color {
	if c == backend.ColorDefault {
		return tcell.ColorDefault
	}
	if c.IsRGB() {
		r, g, b := c.RGB()
		return tcell.NewRGBColor(int32(r), int32(g), int32(b))
	}
	return tcell.PaletteColor(int(c))
}

func (b *Backend) convertEvent(ev tcell.Event) terminal.Event {
	switch e := ev.(type) {
	case *tcell.EventKey:
		mods := e.Modifiers()
		key, shift := convertKey(e.Key())
		return terminal.KeyEvent{
			Key:   key,
			Rune:  e.Rune(),
			Alt:   mods&tcell.ModAlt != 0,
			Ctrl:  mods&tcell.ModCtrl != 0,
			Shift: shift || mods&tcell.ModShift != 0,
		}
	case *tcell.EventResize:
		w, h := e.Size()
		return terminal.ResizeEvent{Width: w, Height: h}
	case *tcell.EventMouse:
		x, y := e.Position()
		mods := e.Modifiers()
		buttons := e.Buttons()
		button, action := classifyMouse(b.lastButtons, buttons)
		if buttons&(tcell.WheelUp|tcell.WheelDown) == 0 {
			b.lastButtons = buttons
		}
		return terminal.MouseEvent{
			X:      x,
			Y:      y,
			Button: button,
			Action: action,
			Alt:    mods&tcell.ModAlt != 0,
			Ctrl:   mods&tcell.ModCtrl != 0,
			Shift:  mods&tcell.ModShift != 0,
		}
	case *tcell.EventInterrupt:
		return terminal.TickEvent{When: e.When()}
	default:
		return nil
	}
}

// classifyMouse turns a pair of button masks into a button transition.
func classifyMouse(prev, cur tcell.ButtonMask) (terminal.MouseButton, terminal.MouseAction) {
	switch {
	case cur&tcell.WheelUp != 0:
		return terminal.MouseWheelUp, terminal.MousePress
	case cur&tcell.WheelDown != 0:
		return terminal.MouseWheelDown, terminal.MousePress
	}

	cur &^= tcell.WheelUp | tcell.WheelDown | tcell.WheelLeft | tcell.WheelRight
	prev &^= tcell.WheelUp | tcell.WheelDown | tcell.WheelLeft | tcell.WheelRight

	if cur == tcell.ButtonNone {
		if prev == tcell.ButtonNone {
			return terminal.MouseNone, terminal.MouseMove
		}
		return convertMouseButton(prev), terminal.MouseRelease
	}
	if cur == prev {
		return convertMouseButton(cur), terminal.MouseMove
	}
	return convertMouseButton(cur &^ prev), terminal.MousePress
}

func convertMouseButton(buttons tcell.ButtonMask) terminal.MouseButton {
	switch {
	case buttons&tcell.Button1 != 0:
		return terminal.MouseLeft
	case buttons&tcell.Button2 != 0:
		return terminal.MouseMiddle
	case buttons&tcell.Button3 != 0:
		return terminal.MouseRight
	default:
		return terminal.MouseNone
	}
}

// convertKey maps a tcell key. Terminals that encode Shift+F3 as F15 report
// shift through the second return value.
func convertKey(k tcell.Key) (terminal.Key, bool) {
	switch k {
	case tcell.KeyRune:
		return terminal.KeyRune, false
	case tcell.KeyUp:
		return terminal.KeyUp, false
	case tcell.KeyDown:
		return terminal.KeyDown, false
	case tcell.KeyRight:
		return terminal.KeyRight, false
	case tcell.KeyLeft:
		return terminal.KeyLeft, false
	case tcell.KeyPgUp:
		return terminal.KeyPageUp, false
	case tcell.KeyPgDn:
		return terminal.KeyPageDown, false
	case tcell.KeyHome:
		return terminal.KeyHome, false
	case tcell.KeyEnd:
		return terminal.KeyEnd, false
	case tcell.KeyInsert:
		return terminal.KeyInsert, false
	case tcell.KeyDelete:
		return terminal.KeyDelete, false
	case tcell.KeyBackspace, tcell.KeyBackspace2:
		return terminal.KeyBackspace, false
	case tcell.KeyTab:
		return terminal.KeyTab, false
	case tcell.KeyEnter:
		return terminal.KeyEnter, false
	case tcell.KeyEscape:
		return terminal.KeyEscape, false
	case tcell.KeyCtrlA:
		return terminal.KeyCtrlA, false
	case tcell.KeyCtrlC:
		return terminal.KeyCtrlC, false
	case tcell.KeyCtrlD:
		return terminal.KeyCtrlD, false
	case tcell.KeyCtrlF:
		return terminal.KeyCtrlF, false
	case tcell.KeyCtrlL:
		return terminal.KeyCtrlL, false
	case tcell.KeyCtrlZ:
		return terminal.KeyCtrlZ, false
	case tcell.KeyF15:
		return terminal.KeyF3, true
	}
	if k >= tcell.KeyF1 && k <= tcell.KeyF12 {
		return terminal.KeyF1 + terminal.Key(k-tcell.KeyF1), false
	}
	return terminal.KeyNone, false
}

func reverseConvertEvent(ev terminal.Event) tcell.Event {
	switch e := ev.(type) {
	case terminal.ResizeEvent:
		return tcell.NewEventResize(e.Width, e.Height)
	case terminal.KeyEvent:
		var mods tcell.ModMask
		if e.Shift {
			mods |= tcell.ModShift
		}
		if e.Ctrl {
			mods |= tcell.ModCtrl
		}
		if e.Alt {
			mods |= tcell.ModAlt
		}
		return tcell.NewEventKey(reverseKey(e.Key), e.Rune, mods)
	case terminal.TickEvent:
		return tcell.NewEventInterrupt(e.When)
	default:
		return nil
	}
}

func reverseKey(k terminal.Key) tcell.Key {
	switch k {
	case terminal.KeyRune:
		return tcell.KeyRune
	case terminal.KeyEnter:
		return tcell.KeyEnter
	case terminal.KeyEscape:
		return tcell.KeyEscape
	case terminal.KeyUp:
		return tcell.KeyUp
	case terminal.KeyDown:
		return tcell.KeyDown
	case terminal.KeyHome:
		return tcell.KeyHome
	case terminal.KeyEnd:
		return tcell.KeyEnd
	case terminal.KeyPageUp:
		return tcell.KeyPgUp
	case terminal.KeyPageDown:
		return tcell.KeyPgDn
	case terminal.KeyCtrlA:
		return tcell.KeyCtrlA
	case terminal.KeyCtrlC:
		return tcell.KeyCtrlC
	}
	if k >= terminal.KeyF1 && k <= terminal.KeyF12 {
		return tcell.KeyF1 + tcell.Key(k-terminal.KeyF1)
	}
	return tcell.KeyNUL
}

var _ backend.Backend = (*Backend)(nil)
