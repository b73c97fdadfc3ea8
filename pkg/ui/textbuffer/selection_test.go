package textbuffer

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func TestSelection_DoubleClickSelectsWord(t *testing.T) {
	b, clock := newTestBuffer(Options{})
	appendAll(b, "", "the quick fox")

	b.Click(0, 4, false)
	b.Release()
	assert.False(t, b.HasSelection(), "a plain click leaves nothing selected")

	clock.Advance(100 * time.Millisecond)
	b.Click(0, 4, false)
	b.Release()

	require.True(t, b.HasSelection())
	assert.Equal(t, "quick", b.SelectedText())
	sel, _ := b.Selection()
	assert.Equal(t, Position{Line: 0, Column: 4}, sel.Start)
	assert.Equal(t, Position{Line: 0, Column: 9}, sel.End)
}

func TestSelection_DoubleClickOnPunctuation(t *testing.T) {
	b, clock := newTestBuffer(Options{})
	appendAll(b, "", "a, b")

	b.Click(0, 1, false)
	clock.Advance(50 * time.Millisecond)
	b.Click(0, 1, false)
	assert.Equal(t, ",", b.SelectedText())
}

func TestSelection_TripleClickSelectsAllThenResets(t *testing.T) {
	b, clock := newTestBuffer(Options{})
	appendAll(b, "", "first", "second")

	for i := 0; i < 3; i++ {
		b.Click(1, 2, false)
		b.Release()
		clock.Advance(100 * time.Millisecond)
	}
	assert.Equal(t, "first\nsecond", b.SelectedText())

	// The state machine restarted, so a fourth click is a single click.
	b.Click(1, 2, false)
	b.Release()
	assert.False(t, b.HasSelection())
}

func TestSelection_SlowSecondClickIsSingle(t *testing.T) {
	b, clock := newTestBuffer(Options{MultiClickThreshold: 200 * time.Millisecond})
	appendAll(b, "", "the quick fox")

	b.Click(0, 4, false)
	b.Release()
	clock.Advance(250 * time.Millisecond)
	b.Click(0, 4, false)
	b.Release()
	assert.False(t, b.HasSelection())
}

func TestSelection_SecondClickOnOtherLineIsSingle(t *testing.T) {
	b, clock := newTestBuffer(Options{})
	appendAll(b, "", "one two", "three four")

	b.Click(0, 1, false)
	b.Release()
	clock.Advance(10 * time.Millisecond)
	b.Click(1, 1, false)
	b.Release()
	assert.False(t, b.HasSelection())
}

func TestSelection_DragSelectsAcrossLines(t *testing.T) {
	b, _ := newTestBuffer(Options{})
	appendAll(b, "", "hello world", "second line", "third")

	b.Click(0, 6, false)
	require.True(t, b.Dragging())
	b.Drag(1, 3)
	b.Drag(2, 2)
	b.Release()

	require.True(t, b.HasSelection())
	assert.False(t, b.Dragging())
	assert.Equal(t, "world\nsecond line\nth", b.SelectedText())
}

func TestSelection_BackwardDragNormalizes(t *testing.T) {
	forward, _ := newTestBuffer(Options{})
	appendAll(forward, "", "abcdef", "ghijkl")
	forward.Click(0, 2, false)
	forward.Drag(1, 4)
	forward.Release()

	backward, _ := newTestBuffer(Options{})
	appendAll(backward, "", "abcdef", "ghijkl")
	backward.Click(1, 4, false)
	backward.Drag(0, 2)
	backward.Release()

	fs, _ := forward.Selection()
	bs, _ := backward.Selection()
	assert.Equal(t, fs.Start, bs.Start)
	assert.Equal(t, fs.End, bs.End)
	assert.Equal(t, forward.SelectedText(), backward.SelectedText())
	assert.Equal(t, Position{Line: 1, Column: 4}, bs.Anchor)
}

func TestSelection_ShiftClickExtends(t *testing.T) {
	b, clock := newTestBuffer(Options{})
	appendAll(b, "", "0123456789")

	b.Click(0, 2, false)
	b.Drag(0, 4)
	b.Release()
	clock.Advance(time.Second)

	b.Click(0, 8, true)
	b.Release()
	assert.Equal(t, "234567", b.SelectedText())

	clock.Advance(time.Second)
	b.Click(0, 0, true)
	b.Release()
	assert.Equal(t, "01", b.SelectedText(), "anchor stays where the drag began")
}

func TestSelection_QuickShiftClickStillExtends(t *testing.T) {
	b, clock := newTestBuffer(Options{})
	appendAll(b, "", "the quick brown fox")

	b.Click(0, 2, false)
	b.Drag(0, 6)
	b.Release()
	require.Equal(t, "e qu", b.SelectedText())

	clock.Advance(200 * time.Millisecond)
	b.Click(0, 15, true)
	b.Release()
	assert.Equal(t, "e quick brown", b.SelectedText())

	clock.Advance(100 * time.Millisecond)
	b.Click(0, 9, true)
	b.Release()
	assert.Equal(t, "e quick", b.SelectedText(), "a second quick shift+click is not a triple click")
}

func TestSelection_ShiftClickWithoutSelectionStartsFresh(t *testing.T) {
	b, _ := newTestBuffer(Options{})
	appendAll(b, "", "abc")

	b.Click(0, 1, true)
	b.Release()
	assert.False(t, b.HasSelection())
}

func TestSelection_SetSelectionClampsAndRoundTrips(t *testing.T) {
	b, _ := newTestBuffer(Options{})
	appendAll(b, "", "abc", "defg")

	b.SetSelection(-5, 1, 9, 99)
	sel, ok := b.Selection()
	require.True(t, ok)
	assert.Equal(t, Position{Line: 0, Column: 1}, sel.Start)
	assert.Equal(t, Position{Line: 1, Column: 4}, sel.End)
	assert.Equal(t, "bc\ndefg", b.SelectedText())

	b.SelectAll()
	assert.Equal(t, "abc\ndefg", b.SelectedText())

	b.ClearSelection()
	assert.Equal(t, "", b.SelectedText())
}

func TestSelection_UnicodeColumnsAreRunes(t *testing.T) {
	b, _ := newTestBuffer(Options{})
	appendAll(b, "", "héllo wörld")

	b.SelectWordAt(0, 8)
	assert.Equal(t, "wörld", b.SelectedText())

	b.SetSelection(0, 1, 0, 4)
	assert.Equal(t, "éll", b.SelectedText())
}

func TestSelection_ShiftsWithEviction(t *testing.T) {
	b, _ := newTestBuffer(Options{MaxLines: MinMaxLines})
	appendNumbered(b, 0, MinMaxLines)
	b.SetSelection(10, 0, 12, 1)

	appendNumbered(b, MinMaxLines, MinMaxLines+5)
	sel, ok := b.Selection()
	require.True(t, ok)
	assert.Equal(t, 5, sel.Start.Line)
	assert.Equal(t, 7, sel.End.Line)
	assert.Equal(t, "10\n11\n1", b.SelectedText())

	appendNumbered(b, MinMaxLines+5, MinMaxLines+20)
	assert.False(t, b.HasSelection(), "selection evicted with its lines")
}

func TestSelection_CopyUsesClipboard(t *testing.T) {
	ctrl := gomock.NewController(t)
	cb := NewMockClipboard(ctrl)

	b, _ := newTestBuffer(Options{Clipboard: cb})
	appendAll(b, "", "copy me", "and me")

	assert.False(t, b.CopySelection(nil), "nothing selected")

	b.SetSelection(0, 5, 1, 3)
	cb.EXPECT().SetText("me\nand")
	assert.True(t, b.CopySelection(nil))
}

func TestSelection_CopyPrefersExplicitClipboard(t *testing.T) {
	fallback := &recordClipboard{}
	explicit := &recordClipboard{}
	b, _ := newTestBuffer(Options{Clipboard: fallback})
	appendAll(b, "", "text")
	b.SelectAll()

	require.True(t, b.CopySelection(explicit))
	assert.Equal(t, []string{"text"}, explicit.texts)
	assert.Empty(t, fallback.texts)
}

func TestSelection_ObserverSeesBufferEvents(t *testing.T) {
	ctrl := gomock.NewController(t)
	obs := NewMockObserver(ctrl)

	b, _ := newTestBuffer(Options{Observer: obs, MaxLines: MinMaxLines})

	obs.EXPECT().HandleBufferEvent(Event{Type: EventAppended, Count: 1}).Times(MinMaxLines)
	appendNumbered(b, 0, MinMaxLines)

	gomock.InOrder(
		obs.EXPECT().HandleBufferEvent(Event{Type: EventEvicted, Count: 1}),
		obs.EXPECT().HandleBufferEvent(Event{Type: EventAppended, Count: 1}),
	)
	appendNumbered(b, MinMaxLines, MinMaxLines+1)

	obs.EXPECT().HandleBufferEvent(Event{Type: EventSearched, Count: 1})
	b.Search("42")

	b.SetSelection(41, 0, 41, 2)
	obs.EXPECT().HandleBufferEvent(Event{Type: EventCopied, Count: 2})
	b.CopySelection(&recordClipboard{})

	obs.EXPECT().HandleBufferEvent(Event{Type: EventCleared, Count: MinMaxLines})
	b.Clear()
}
