package textbuffer

import (
	"strconv"
	"time"

	"github.com/mono-ball/MonoBall-sub005/pkg/ui/backend"
)

type fakeClock struct {
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time { return c.now }

func (c *fakeClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

func newTestBuffer(opts Options) (*Buffer, *fakeClock) {
	clock := newFakeClock()
	opts.Clock = clock.Now
	return New(opts), clock
}

func appendNumbered(b *Buffer, from, to int) {
	for i := from; i < to; i++ {
		b.Append(strconv.Itoa(i), backend.ColorDefault, "")
	}
}

func appendAll(b *Buffer, category string, lines ...string) {
	for _, l := range lines {
		b.Append(l, backend.ColorDefault, category)
	}
}

// recordClipboard collects copied text without a mock controller.
type recordClipboard struct {
	texts []string
}

func (r *recordClipboard) SetText(text string) { r.texts = append(r.texts, text) }
