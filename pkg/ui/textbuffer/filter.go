package textbuffer

import "sort"

// filterEngine maintains the filtered view: the stored lines whose category
// is enabled, in store order. An empty enabled set lets every line through.
//
// The view is rebuilt lazily when dirty. While it is clean, appends and
// evictions are applied to it directly so streaming output stays O(1).
type filterEngine struct {
	enabled map[string]struct{}
	view    []Line
	dirty   bool

	// generation changes whenever the view contents change.
	generation uint64
}

func newFilterEngine() *filterEngine {
	return &filterEngine{enabled: make(map[string]struct{}), dirty: true}
}

func (f *filterEngine) passes(category string) bool {
	if len(f.enabled) == 0 {
		return true
	}
	_, ok := f.enabled[category]
	return ok
}

func (f *filterEngine) setEnabled(category string, on bool) bool {
	_, had := f.enabled[category]
	if had == on {
		return false
	}
	if on {
		f.enabled[category] = struct{}{}
	} else {
		delete(f.enabled, category)
	}
	f.invalidate()
	return true
}

func (f *filterEngine) clearAll() bool {
	if len(f.enabled) == 0 {
		return false
	}
	clear(f.enabled)
	f.invalidate()
	return true
}

func (f *filterEngine) categories() []string {
	out := make([]string, 0, len(f.enabled))
	for c := range f.enabled {
		out = append(out, c)
	}
	sort.Strings(out)
	return out
}

func (f *filterEngine) invalidate() {
	f.dirty = true
	f.view = nil
	f.generation++
}

func (f *filterEngine) appended(l Line) {
	if f.dirty || !f.passes(l.Category) {
		return
	}
	f.view = append(f.view, l)
	f.generation++
}

// evicted drops the oldest view line when the evicted store line was in it.
// It reports whether the view lost a line.
func (f *filterEngine) evicted(l Line) bool {
	if !f.passes(l.Category) {
		return false
	}
	if !f.dirty && len(f.view) > 0 {
		f.view[0] = Line{}
		f.view = f.view[1:]
		f.generation++
	}
	return true
}

func (f *filterEngine) lines(s *lineStore) []Line {
	if !f.dirty {
		return f.view
	}
	view := make([]Line, 0, s.len())
	for i := 0; i < s.len(); i++ {
		if l := s.at(i); f.passes(l.Category) {
			view = append(view, l)
		}
	}
	f.view = view
	f.dirty = false
	f.generation++
	return f.view
}
