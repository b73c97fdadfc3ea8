package textbuffer

import "time"

// DefaultMultiClickThreshold is the longest gap between clicks on the same
// line that still counts toward a double or triple click.
const DefaultMultiClickThreshold = 500 * time.Millisecond

// clickState is Idle (zero value) or Armed with the line, time and count of
// the previous click.
type clickState struct {
	armed bool
	line  int
	at    time.Time
	count int
}

// nextClick is the multi-click transition. A click on the armed line within
// the threshold advances the count; anything else starts over at one.
// Counts never exceed three.
func nextClick(s clickState, line int, now time.Time, threshold time.Duration) clickState {
	count := 1
	if s.armed && s.line == line && s.count < 3 {
		if gap := now.Sub(s.at); gap >= 0 && gap <= threshold {
			count = s.count + 1
		}
	}
	return clickState{armed: true, line: line, at: now, count: count}
}
