package main

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/mono-ball/MonoBall-sub005/pkg/source"
	"github.com/mono-ball/MonoBall-sub005/pkg/telemetry"
	"github.com/mono-ball/MonoBall-sub005/pkg/ui/backend"
	"github.com/mono-ball/MonoBall-sub005/pkg/ui/input"
	"github.com/mono-ball/MonoBall-sub005/pkg/ui/runtime"
	"github.com/mono-ball/MonoBall-sub005/pkg/ui/terminal"
	"github.com/mono-ball/MonoBall-sub005/pkg/ui/textbuffer"
	"github.com/mono-ball/MonoBall-sub005/pkg/ui/theme"
)

const defaultFrameRate = 60

// lineBatch is a run of lines read from the input. Reset asks for the
// buffer to be cleared first, as when a followed file is truncated.
type lineBatch struct {
	lines []string
	reset bool
}

type appConfig struct {
	Screen     backend.Screen
	Buffer     *textbuffer.Buffer
	Theme      *theme.Theme
	Classifier *classifier
	Source     *source.File
	Metrics    *telemetry.Metrics
	Logger     *slog.Logger
	FrameRate  rate.Limit
	Clock      func() time.Time
}

// searchPrompt is the "/" line editor shown in the status row.
type searchPrompt struct {
	active bool
	text   []rune
}

type app struct {
	screen     backend.Screen
	buf        *textbuffer.Buffer
	th         *theme.Theme
	classifier *classifier
	src        *source.File
	metrics    *telemetry.Metrics
	logger     *slog.Logger
	clock      func() time.Time
	limiter    *rate.Limiter

	cells  *runtime.Buffer
	canvas *runtime.Canvas
	input  *input.Collector

	prompt  searchPrompt
	message string
	quit    bool
}

func newApp(cfg appConfig) *app {
	if cfg.Clock == nil {
		cfg.Clock = time.Now
	}
	if cfg.FrameRate <= 0 {
		cfg.FrameRate = defaultFrameRate
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.New(slog.DiscardHandler)
	}
	if cfg.Theme == nil {
		cfg.Theme = theme.DefaultTheme()
	}
	w, h := cfg.Screen.Size()
	cells := runtime.NewBuffer(w, h)
	a := &app{
		screen:     cfg.Screen,
		buf:        cfg.Buffer,
		th:         cfg.Theme,
		classifier: cfg.Classifier,
		src:        cfg.Source,
		metrics:    cfg.Metrics,
		logger:     cfg.Logger,
		clock:      cfg.Clock,
		limiter:    rate.NewLimiter(cfg.FrameRate, 1),
		cells:      cells,
		canvas:     runtime.NewCanvas(cells),
		input:      input.NewCollector(),
	}
	a.buf.SetFocused(true)
	if a.src != nil {
		a.buf.SetSource(a.src)
	}
	return a
}

// run is the UI loop. Events and batches that arrive while a frame is
// rate limited are folded into the next frame.
func (a *app) run(ctx context.Context, events <-chan terminal.Event, batches <-chan lineBatch, refresh <-chan struct{}) error {
	a.draw()

	// While a drag is held past an edge the pane scrolls once per frame, so
	// frames keep coming without input.
	var dragTicker *time.Ticker
	var dragTick <-chan time.Time
	defer func() {
		if dragTicker != nil {
			dragTicker.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-dragTick:
		case ev, ok := <-events:
			if !ok {
				return nil
			}
			a.handleEvent(ev)
		case b, ok := <-batches:
			if !ok {
				batches = nil
				continue
			}
			a.apply(b)
		case <-refresh:
			a.refreshSource()
		}

		if a.drain(events, batches) || a.quit {
			return nil
		}
		if err := a.limiter.Wait(ctx); err != nil {
			return nil
		}
		if a.drain(events, batches) || a.quit {
			return nil
		}
		a.draw()

		switch {
		case a.buf.Dragging() && dragTicker == nil:
			dragTicker = time.NewTicker(time.Duration(float64(time.Second) / float64(a.limiter.Limit())))
			dragTick = dragTicker.C
		case !a.buf.Dragging() && dragTicker != nil:
			dragTicker.Stop()
			dragTicker, dragTick = nil, nil
		}
	}
}

// drain handles everything already queued without blocking. It reports
// whether the event stream ended.
func (a *app) drain(events <-chan terminal.Event, batches <-chan lineBatch) bool {
	for {
		select {
		case ev, ok := <-events:
			if !ok {
				return true
			}
			a.handleEvent(ev)
		case b, ok := <-batches:
			if !ok {
				return false
			}
			a.apply(b)
		default:
			return false
		}
	}
}

func (a *app) handleEvent(ev terminal.Event) {
	switch e := ev.(type) {
	case terminal.ResizeEvent:
		a.cells.Resize(e.Width, e.Height)
		a.screen.Sync()
	case terminal.KeyEvent:
		if a.handleKey(e) {
			return
		}
		a.input.Add(e)
	default:
		a.input.Add(ev)
	}
}

// handleKey runs the viewer's own bindings and reports whether the key was
// consumed. Everything else goes to the text pane.
func (a *app) handleKey(e terminal.KeyEvent) bool {
	if a.prompt.active {
		a.promptKey(e)
		return true
	}
	if e.Key == terminal.KeyCtrlF {
		a.openPrompt()
		return true
	}
	if e.Key != terminal.KeyRune || e.Ctrl || e.Alt {
		return false
	}

	switch r := e.Rune; {
	case r == '/':
		a.openPrompt()
	case r == 'n':
		a.buf.FindNext()
		a.message = a.matchStatus()
	case r == 'N':
		a.buf.FindPrevious()
		a.message = a.matchStatus()
	case r == '0':
		a.buf.ClearCategoryFilters()
		a.message = "showing all lines"
	case r >= '1' && r <= '9':
		a.toggleCategory(int(r - '0'))
	case r == 'f':
		a.buf.SetAutoScroll(!a.buf.AutoScroll())
		if a.buf.AutoScroll() {
			a.message = "following"
		} else {
			a.message = "paused"
		}
	case r == 'q':
		a.quit = true
	default:
		return false
	}
	return true
}

func (a *app) openPrompt() {
	a.prompt = searchPrompt{active: true, text: []rune(a.buf.SearchQuery())}
	a.message = ""
}

func (a *app) promptKey(e terminal.KeyEvent) {
	switch e.Key {
	case terminal.KeyRune:
		a.prompt.text = append(a.prompt.text, e.Rune)
	case terminal.KeyBackspace, terminal.KeyDelete:
		if n := len(a.prompt.text); n > 0 {
			a.prompt.text = a.prompt.text[:n-1]
		}
	case terminal.KeyEnter:
		query := string(a.prompt.text)
		a.prompt = searchPrompt{}
		if query == "" {
			a.buf.ClearSearch()
			a.message = ""
			return
		}
		count := a.buf.Search(query)
		a.logger.Debug("search", "query", query, "matches", count)
		a.message = a.matchStatus()
	case terminal.KeyEscape:
		a.prompt = searchPrompt{}
	}
}

func (a *app) toggleCategory(n int) {
	category, ok := a.classifier.Category(n)
	if !ok {
		a.message = fmt.Sprintf("no category %d", n)
		return
	}
	enabled := !a.buf.CategoryEnabled(category)
	a.buf.SetCategoryEnabled(category, enabled)
	if enabled {
		a.message = "+" + category
	} else {
		a.message = "-" + category
	}
}

func (a *app) apply(b lineBatch) {
	if b.reset {
		a.buf.Clear()
		a.message = "input truncated"
	}
	for _, text := range b.lines {
		color, category := a.classifier.Classify(text)
		a.buf.AppendLine(textbuffer.Line{Text: text, Color: color, Category: category})
	}
}

func (a *app) refreshSource() {
	if a.src == nil {
		return
	}
	if _, err := a.src.Refresh(); err != nil {
		a.logger.Warn("source refresh failed", "error", err)
		a.message = "refresh failed"
	}
}

func (a *app) draw() {
	w, h := a.cells.Size()
	a.cells.Clear()
	pane := runtime.Rect{Width: w, Height: max(0, h-1)}

	a.buf.Render(textbuffer.RenderContext{
		Renderer: a.canvas,
		Bounds:   pane,
		Input:    a.input.Frame(a.clock()),
	})
	if h > 0 {
		a.drawStatus(runtime.Rect{Y: h - 1, Width: w, Height: 1})
	}

	a.cells.Flush(a.screen)
	a.screen.Show()

	if a.metrics != nil {
		a.metrics.SetLineCounts(a.buf.TotalLineCount(), a.buf.EffectiveLineCount())
	}
}

func (a *app) drawStatus(row runtime.Rect) {
	a.canvas.DrawRectangle(row, a.th.StatusBar)
	measure := func(s string) int { w, _ := a.canvas.MeasureText(s); return w }

	if a.prompt.active {
		text := textbuffer.TruncateToWidth("/"+string(a.prompt.text)+"_", row.Width, measure)
		a.canvas.DrawText(text, row.X, row.Y, a.th.StatusText)
		return
	}

	left := a.statusLine()
	right := a.message
	if right != "" {
		rw := measure(right)
		if rw+measure(left)+1 <= row.Width {
			a.canvas.DrawText(right, row.Right()-rw, row.Y, a.th.StatusText)
		}
	}
	a.canvas.DrawText(textbuffer.TruncateToWidth(left, row.Width, measure), row.X, row.Y, a.th.StatusText)
}

// statusLine summarizes position, search and filter state.
func (a *app) statusLine() string {
	total := a.buf.EffectiveLineCount()
	first := a.buf.ScrollOffset()
	last := min(total, first+a.buf.VisibleLineCount())

	parts := []string{fmt.Sprintf(" %d-%d/%d", min(first+1, total), last, total)}
	if a.buf.SearchQuery() != "" {
		parts = append(parts, a.matchStatus())
	}
	if cats := a.buf.EnabledCategories(); len(cats) > 0 {
		parts = append(parts, "filter: "+strings.Join(cats, ","))
	}
	if a.buf.AutoScroll() {
		parts = append(parts, "follow")
	}
	return strings.Join(parts, " | ")
}

func (a *app) matchStatus() string {
	n := a.buf.SearchMatchCount()
	if n == 0 {
		return fmt.Sprintf("%q: no matches", a.buf.SearchQuery())
	}
	return fmt.Sprintf("match %d/%d", a.buf.CurrentMatchIndex()+1, n)
}
