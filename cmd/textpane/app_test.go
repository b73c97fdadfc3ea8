package main

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mono-ball/MonoBall-sub005/pkg/config"
	"github.com/mono-ball/MonoBall-sub005/pkg/telemetry"
	"github.com/mono-ball/MonoBall-sub005/pkg/ui/backend/sim"
	"github.com/mono-ball/MonoBall-sub005/pkg/ui/terminal"
	"github.com/mono-ball/MonoBall-sub005/pkg/ui/textbuffer"
	"github.com/mono-ball/MonoBall-sub005/pkg/ui/theme"
)

type testApp struct {
	*app
	term *sim.Backend
}

func newTestApp(t *testing.T, width, height int) *testApp {
	t.Helper()
	screen := sim.New(width, height)
	require.NoError(t, screen.Init())
	t.Cleanup(screen.Fini)

	th := theme.DefaultTheme()
	cls, err := newClassifier(config.DefaultConfig().Categories, th)
	require.NoError(t, err)

	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	clock := func() time.Time {
		now = now.Add(16 * time.Millisecond)
		return now
	}
	a := newApp(appConfig{
		Screen:     screen,
		Buffer:     textbuffer.New(textbuffer.Options{Theme: th, Clock: clock}),
		Theme:      th,
		Classifier: cls,
		Clock:      clock,
	})
	// Keep the pointer off the pane so no row is hovered.
	a.handleEvent(terminal.MouseEvent{X: -1, Y: -1, Action: terminal.MouseMove})
	return &testApp{app: a, term: screen}
}

func (ta *testApp) rows() []string {
	return strings.Split(ta.term.Capture(), "\n")
}

func (ta *testApp) status() string {
	rows := ta.rows()
	return rows[len(rows)-1]
}

func (ta *testApp) keys(text string) {
	for _, r := range text {
		ta.handleEvent(terminal.KeyEvent{Key: terminal.KeyRune, Rune: r})
	}
}

func (ta *testApp) key(k terminal.Key) {
	ta.handleEvent(terminal.KeyEvent{Key: k})
}

func scrape(t *testing.T, m *telemetry.Metrics) string {
	t.Helper()
	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	return rec.Body.String()
}

func sampleBatch() lineBatch {
	return lineBatch{lines: []string{"INFO starting", "ERROR boom", "debug details"}}
}

func TestApp_DrawsLinesAndStatus(t *testing.T) {
	ta := newTestApp(t, 40, 6)
	ta.apply(sampleBatch())
	ta.draw()

	rows := ta.rows()
	assert.True(t, strings.HasPrefix(rows[0], "INFO starting"))
	assert.True(t, strings.HasPrefix(rows[1], "ERROR boom"))
	assert.True(t, strings.HasPrefix(ta.status(), " 1-3/3 | follow"))
}

func TestApp_ClassifiesLines(t *testing.T) {
	ta := newTestApp(t, 40, 6)
	ta.apply(sampleBatch())

	line, ok := ta.buf.LineAt(1)
	require.True(t, ok)
	assert.Equal(t, "error", line.Category)
	assert.Equal(t, ta.th.Error, line.Color)

	line, _ = ta.buf.LineAt(2)
	assert.Equal(t, "debug", line.Category)
}

func TestApp_SearchPrompt(t *testing.T) {
	ta := newTestApp(t, 40, 6)
	ta.apply(sampleBatch())

	ta.keys("/bop")
	ta.key(terminal.KeyBackspace)
	ta.keys("o")
	ta.draw()
	assert.True(t, strings.HasPrefix(ta.status(), "/boo_"))
	assert.Empty(t, ta.buf.SearchQuery(), "nothing searched until Enter")

	ta.key(terminal.KeyEnter)
	assert.Equal(t, "boo", ta.buf.SearchQuery())
	assert.Equal(t, 1, ta.buf.SearchMatchCount())
	ta.draw()
	assert.Contains(t, ta.status(), "match 1/1")
	assert.False(t, ta.buf.AutoScroll(), "jumping to a match pauses following")
}

func TestApp_SearchPromptEscapeAndEmpty(t *testing.T) {
	ta := newTestApp(t, 40, 6)
	ta.apply(sampleBatch())

	ta.keys("/zzz")
	ta.key(terminal.KeyEscape)
	assert.False(t, ta.prompt.active)
	assert.Empty(t, ta.buf.SearchQuery())

	ta.keys("/info")
	ta.key(terminal.KeyEnter)
	require.Equal(t, "info", ta.buf.SearchQuery())

	ta.keys("/")
	assert.Equal(t, "info", string(ta.prompt.text), "the prompt starts from the last query")
	for range 4 {
		ta.key(terminal.KeyBackspace)
	}
	ta.key(terminal.KeyEnter)
	assert.Empty(t, ta.buf.SearchQuery(), "an empty query clears the search")
}

func TestApp_NoMatches(t *testing.T) {
	ta := newTestApp(t, 40, 6)
	ta.apply(sampleBatch())
	ta.keys("/nothing")
	ta.key(terminal.KeyEnter)
	assert.Equal(t, `"nothing": no matches`, ta.message)
}

func TestApp_FindNextPrevious(t *testing.T) {
	ta := newTestApp(t, 40, 6)
	ta.apply(lineBatch{lines: []string{"x 1", "y", "x 2", "x 3"}})
	ta.keys("/x")
	ta.key(terminal.KeyEnter)
	require.Equal(t, 0, ta.buf.CurrentMatchIndex())

	ta.keys("n")
	assert.Equal(t, 1, ta.buf.CurrentMatchIndex())
	assert.Equal(t, "match 2/3", ta.message)
	ta.keys("NN")
	assert.Equal(t, 2, ta.buf.CurrentMatchIndex(), "previous wraps around")
}

func TestApp_CategoryFilters(t *testing.T) {
	ta := newTestApp(t, 40, 6)
	ta.apply(sampleBatch())

	ta.keys("1")
	assert.Equal(t, "+error", ta.message)
	assert.Equal(t, 1, ta.buf.FilteredLineCount())
	ta.draw()
	assert.True(t, strings.HasPrefix(ta.rows()[0], "ERROR boom"))
	assert.Contains(t, ta.status(), "filter: error")

	ta.keys("3")
	assert.Equal(t, 2, ta.buf.FilteredLineCount())
	ta.keys("1")
	assert.Equal(t, "-error", ta.message)
	assert.Equal(t, 1, ta.buf.FilteredLineCount())

	ta.keys("0")
	assert.Equal(t, 3, ta.buf.FilteredLineCount())

	ta.keys("7")
	assert.Equal(t, "no category 7", ta.message)
}

func TestApp_ToggleFollowAndQuit(t *testing.T) {
	ta := newTestApp(t, 40, 6)
	require.True(t, ta.buf.AutoScroll())

	ta.keys("f")
	assert.False(t, ta.buf.AutoScroll())
	assert.Equal(t, "paused", ta.message)
	ta.keys("f")
	assert.True(t, ta.buf.AutoScroll())

	assert.False(t, ta.quit)
	ta.keys("q")
	assert.True(t, ta.quit)
}

func TestApp_UnboundKeysReachThePane(t *testing.T) {
	ta := newTestApp(t, 40, 6)
	ta.apply(sampleBatch())
	ta.draw()

	ta.key(terminal.KeyCtrlA)
	ta.draw()
	assert.True(t, ta.buf.HasSelection())
	assert.Equal(t, "INFO starting\nERROR boom\ndebug details", ta.buf.SelectedText())

	ta.keys("x")
	assert.Equal(t, "", ta.message, "unbound runes are not treated as commands")
}

func (ta *testApp) click(x, y int) {
	ta.handleEvent(terminal.MouseEvent{X: x, Y: y, Button: terminal.MouseLeft, Action: terminal.MousePress})
	ta.draw()
	ta.handleEvent(terminal.MouseEvent{X: x, Y: y, Button: terminal.MouseLeft, Action: terminal.MouseRelease})
	ta.draw()
}

func TestApp_DoubleClickSelectsWord(t *testing.T) {
	ta := newTestApp(t, 40, 6)
	ta.apply(sampleBatch())
	ta.draw()

	ta.click(8, 1)
	assert.False(t, ta.buf.HasSelection(), "a plain click leaves nothing selected")
	ta.click(8, 1)
	assert.Equal(t, "boom", ta.buf.SelectedText())
}

func TestApp_TruncationResetsBuffer(t *testing.T) {
	ta := newTestApp(t, 40, 6)
	ta.apply(sampleBatch())
	ta.apply(lineBatch{reset: true, lines: []string{"fresh"}})

	assert.Equal(t, 1, ta.buf.TotalLineCount())
	assert.Equal(t, "input truncated", ta.message)
}

func TestApp_Resize(t *testing.T) {
	ta := newTestApp(t, 40, 6)
	ta.apply(sampleBatch())
	ta.term.Resize(30, 4)
	ta.handleEvent(terminal.ResizeEvent{Width: 30, Height: 4})
	ta.draw()

	rows := ta.rows()
	require.Len(t, rows, 4)
	assert.True(t, strings.HasPrefix(rows[2], "debug details"))
	assert.True(t, strings.HasPrefix(rows[3], " 1-3/3"))
}

func TestApp_MetricsSampledPerFrame(t *testing.T) {
	ta := newTestApp(t, 40, 6)
	ta.metrics = telemetry.NewMetrics(nil)
	ta.apply(sampleBatch())
	ta.draw()

	body := scrape(t, ta.metrics)
	assert.Contains(t, body, "textpane_resident_lines 3")
	assert.Contains(t, body, "textpane_total_lines 3")
}

func TestApp_RunUntilQuit(t *testing.T) {
	ta := newTestApp(t, 40, 6)
	events := make(chan terminal.Event, 4)
	batches := make(chan lineBatch, 4)

	batches <- sampleBatch()
	close(batches)
	events <- terminal.KeyEvent{Key: terminal.KeyRune, Rune: 'q'}

	done := make(chan error, 1)
	go func() { done <- ta.run(context.Background(), events, batches, nil) }()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("run did not return after q")
	}
	assert.True(t, ta.quit)
}

func TestApp_RunStopsOnCancel(t *testing.T) {
	ta := newTestApp(t, 40, 6)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- ta.run(ctx, make(chan terminal.Event), nil, nil) }()

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("run did not return after cancel")
	}
}
