package textbuffer

import (
	"strings"
	"unicode"
)

// Span is a half-open rune range [Start, End) within one line.
type Span struct {
	Start, End int
}

// searchIndex holds the active query and the filtered-view lines matching it.
// Matching is a case-insensitive substring test, one entry per line.
type searchIndex struct {
	query   string
	folded  []rune
	matches []int
	current int

	// generation of the filtered view the matches were built from.
	generation uint64
	built      bool
}

func newSearchIndex() *searchIndex {
	return &searchIndex{current: -1}
}

func (s *searchIndex) active() bool { return len(s.folded) > 0 }

func (s *searchIndex) reset() {
	s.query = ""
	s.folded = nil
	s.matches = nil
	s.current = -1
	s.built = false
}

func (s *searchIndex) setQuery(query string) {
	s.reset()
	if strings.TrimSpace(query) == "" {
		return
	}
	s.query = query
	s.folded = foldRunes(query)
}

// sync rebuilds matches when the filtered view changed since the last build.
// The current match index is kept and clamped to the new match count.
func (s *searchIndex) sync(view []Line, generation uint64) {
	if !s.active() {
		return
	}
	if s.built && s.generation == generation {
		return
	}
	s.matches = s.matches[:0]
	for i, l := range view {
		if indexFold(foldRunes(l.Text), s.folded, 0) >= 0 {
			s.matches = append(s.matches, i)
		}
	}
	s.generation = generation
	s.built = true
	switch {
	case len(s.matches) == 0:
		s.current = -1
	case s.current >= len(s.matches):
		s.current = len(s.matches) - 1
	}
}

func (s *searchIndex) next() bool {
	if len(s.matches) == 0 {
		return false
	}
	s.current = (s.current + 1) % len(s.matches)
	return true
}

func (s *searchIndex) previous() bool {
	if len(s.matches) == 0 {
		return false
	}
	s.current--
	if s.current < 0 {
		s.current = len(s.matches) - 1
	}
	return true
}

func (s *searchIndex) currentLine() (int, bool) {
	if s.current < 0 || s.current >= len(s.matches) {
		return 0, false
	}
	return s.matches[s.current], true
}

// occurrences returns every non-overlapping match of the query in text as
// rune spans. It is recomputed per render for highlighting only.
func (s *searchIndex) occurrences(text string) []Span {
	if !s.active() {
		return nil
	}
	return findAllFold(text, s.folded)
}

func findAllFold(text string, folded []rune) []Span {
	if len(folded) == 0 {
		return nil
	}
	hay := foldRunes(text)
	var spans []Span
	for from := 0; ; {
		i := indexFold(hay, folded, from)
		if i < 0 {
			return spans
		}
		spans = append(spans, Span{Start: i, End: i + len(folded)})
		from = i + len(folded)
	}
}

// foldRunes lower-cases rune by rune so offsets line up with the original.
func foldRunes(s string) []rune {
	out := []rune(s)
	for i, r := range out {
		out[i] = unicode.ToLower(r)
	}
	return out
}

func indexFold(hay, needle []rune, from int) int {
	last := len(hay) - len(needle)
outer:
	for i := from; i <= last; i++ {
		for j, r := range needle {
			if hay[i+j] != r {
				continue outer
			}
		}
		return i
	}
	return -1
}
