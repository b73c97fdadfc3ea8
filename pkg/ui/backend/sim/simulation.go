// Package sim provides a simulation backend for golden-frame tests.
package sim

import (
	"strings"
	"sync"

	tcellv2 "github.com/gdamore/tcell/v2"

	"github.com/mono-ball/MonoBall-sub005/pkg/ui/backend"
	"github.com/mono-ball/MonoBall-sub005/pkg/ui/backend/tcell"
	"github.com/mono-ball/MonoBall-sub005/pkg/ui/terminal"
)

// Backend is a testable backend using tcell's simulation screen.
type Backend struct {
	*tcell.Backend
	screen tcellv2.SimulationScreen
	mu     sync.Mutex
}

// New creates a new simulation backend with the given dimensions.
func New(width, height int) *Backend {
	screen := tcellv2.NewSimulationScreen("")
	screen.SetSize(width, height)
	return &Backend{
		Backend: tcell.NewWithScreen(screen),
		screen:  screen,
	}
}

// Resize changes the simulation screen size and posts a resize event.
func (s *Backend) Resize(width, height int) {
	s.mu.Lock()
	s.screen.SetSize(width, height)
	s.mu.Unlock()
	_ = s.PostEvent(terminal.ResizeEvent{Width: width, Height: height})
}

// InjectKey injects a key event into the simulation.
func (s *Backend) InjectKey(key terminal.Key, r rune, shift bool) {
	_ = s.PostEvent(terminal.KeyEvent{Key: key, Rune: r, Shift: shift})
}

// InjectMouse injects a raw mouse report. Pressed is the set of held buttons
// after the report, so a press followed by InjectMouse(x, y, false) releases.
func (s *Backend) InjectMouse(x, y int, pressed bool, shift bool) {
	buttons := tcellv2.ButtonNone
	if pressed {
		buttons = tcellv2.Button1
	}
	mods := tcellv2.ModNone
	if shift {
		mods = tcellv2.ModShift
	}
	s.screen.InjectMouse(x, y, buttons, mods)
}

// Capture returns the visible screen as newline-joined rows.
func (s *Backend) Capture() string {
	w, h := s.Size()
	return s.CaptureRegion(0, 0, w, h)
}

// CaptureRegion captures a rectangular region of the screen.
func (s *Backend) CaptureRegion(x, y, w, h int) string {
	s.mu.Lock()
	defer s.mu.Unlock()

	rows := make([]string, 0, h)
	for row := y; row < y+h; row++ {
		var line strings.Builder
		for col := x; col < x+w; col++ {
			mainc, comb, _, _ := s.screen.GetContent(col, row)
			if mainc == 0 {
				mainc = ' '
			}
			line.WriteRune(mainc)
			for _, c := range comb {
				line.WriteRune(c)
			}
		}
		rows = append(rows, line.String())
	}
	return strings.Join(rows, "\n")
}

// CaptureCell returns the content and style of a single cell.
func (s *Backend) CaptureCell(x, y int) (rune, backend.Style) {
	s.mu.Lock()
	defer s.mu.Unlock()

	m, _, style, _ := s.screen.GetContent(x, y)
	return m, convertTcellStyle(style)
}

// FindText returns the cell position of the first occurrence of text, or -1, -1.
func (s *Backend) FindText(text string) (x, y int) {
	for row, line := range strings.Split(s.Capture(), "\n") {
		if col := strings.Index(line, text); col >= 0 {
			return len([]rune(line[:col])), row
		}
	}
	return -1, -1
}

// ContainsText reports whether text appears anywhere on screen.
func (s *Backend) ContainsText(text string) bool {
	x, _ := s.FindText(text)
	return x >= 0
}

func convertTcellStyle(ts tcellv2.Style) backend.Style {
	fg, bg, attrs := ts.Decompose()
	return backend.DefaultStyle().
		Foreground(convertTcellColor(fg)).
		Background(convertTcellColor(bg)).
		Bold(attrs&tcellv2.AttrBold != 0).
		Italic(attrs&tcellv2.AttrItalic != 0).
		Underline(attrs&tcellv2.AttrUnderline != 0).
		Dim(attrs&tcellv2.AttrDim != 0).
		Reverse(attrs&tcellv2.AttrReverse != 0)
}

func convertTcellColor(tc tcellv2.Color) backend.Color {
	if tc == tcellv2.ColorDefault {
		return backend.ColorDefault
	}
	if tc&tcellv2.ColorIsRGB != 0 {
		r, g, b := tc.RGB()
		return backend.ColorRGB(uint8(r), uint8(g), uint8(b))
	}
	return backend.Color(tc & 0xFF)
}

var _ backend.Backend = (*Backend)(nil)
