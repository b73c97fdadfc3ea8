package textbuffer

import "github.com/mono-ball/MonoBall-sub005/pkg/ui/backend"

const (
	// DefaultMaxLines is the line capacity used when none is configured.
	DefaultMaxLines = 10000

	// MinMaxLines is the smallest accepted capacity.
	MinMaxLines = 100
)

// Line is one row of text. Lines are never modified after they are appended.
type Line struct {
	Text     string
	Color    backend.Color
	Category string
}

// lineStore keeps at most maxLines lines in insertion order. Storage is a
// ring so evicting the oldest line is O(1).
type lineStore struct {
	ring     []Line
	head     int
	count    int
	maxLines int
}

func newLineStore(maxLines int) *lineStore {
	return &lineStore{maxLines: clampMaxLines(maxLines)}
}

func clampMaxLines(n int) int {
	if n < MinMaxLines {
		return MinMaxLines
	}
	return n
}

func (s *lineStore) len() int { return s.count }

func (s *lineStore) at(i int) Line {
	return s.ring[(s.head+i)%len(s.ring)]
}

// push appends l and evicts from the front until the capacity holds again.
// Evicted lines are passed to onEvict oldest first.
func (s *lineStore) push(l Line, onEvict func(Line)) {
	if s.count == len(s.ring) {
		s.grow()
	}
	s.ring[(s.head+s.count)%len(s.ring)] = l
	s.count++
	for s.count > s.maxLines {
		evicted := s.ring[s.head]
		s.ring[s.head] = Line{}
		s.head = (s.head + 1) % len(s.ring)
		s.count--
		if onEvict != nil {
			onEvict(evicted)
		}
	}
}

// grow enlarges the ring, never past one slot more than the capacity needs.
func (s *lineStore) grow() {
	size := max(16, 2*len(s.ring))
	size = min(size, s.maxLines+1)
	if size <= len(s.ring) {
		size = len(s.ring) + 1
	}
	next := make([]Line, size)
	for i := 0; i < s.count; i++ {
		next[i] = s.at(i)
	}
	s.ring = next
	s.head = 0
}

func (s *lineStore) reset() {
	clear(s.ring)
	s.head = 0
	s.count = 0
}

func (s *lineStore) setMaxLines(n int) {
	s.maxLines = clampMaxLines(n)
}
