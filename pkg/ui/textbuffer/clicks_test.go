package textbuffer

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNextClick(t *testing.T) {
	t0 := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	th := DefaultMultiClickThreshold

	tests := []struct {
		name  string
		prev  clickState
		line  int
		at    time.Time
		count int
	}{
		{"idle", clickState{}, 3, t0, 1},
		{"second within threshold", clickState{armed: true, line: 3, at: t0, count: 1}, 3, t0.Add(100 * time.Millisecond), 2},
		{"third within threshold", clickState{armed: true, line: 3, at: t0, count: 2}, 3, t0.Add(th), 3},
		{"after triple starts over", clickState{armed: true, line: 3, at: t0, count: 3}, 3, t0.Add(time.Millisecond), 1},
		{"too slow", clickState{armed: true, line: 3, at: t0, count: 1}, 3, t0.Add(th + time.Millisecond), 1},
		{"other line", clickState{armed: true, line: 3, at: t0, count: 1}, 4, t0.Add(time.Millisecond), 1},
		{"clock went backwards", clickState{armed: true, line: 3, at: t0, count: 1}, 3, t0.Add(-time.Millisecond), 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := nextClick(tt.prev, tt.line, tt.at, th)
			assert.True(t, got.armed)
			assert.Equal(t, tt.line, got.line)
			assert.Equal(t, tt.at, got.at)
			assert.Equal(t, tt.count, got.count)
		})
	}
}

func TestWordBounds(t *testing.T) {
	tests := []struct {
		text       string
		col        int
		start, end int
	}{
		{"the quick fox", 4, 4, 9},
		{"the quick fox", 8, 4, 9},
		{"the quick fox", 3, 3, 4},
		{"the quick fox", 99, 10, 13},
		{"snake_case42 x", 2, 0, 12},
		{"", 0, 0, 0},
		{"...", 1, 1, 2},
	}
	for _, tt := range tests {
		start, end := wordBounds(tt.text, tt.col)
		assert.Equal(t, tt.start, start, "%q@%d", tt.text, tt.col)
		assert.Equal(t, tt.end, end, "%q@%d", tt.text, tt.col)
	}
}
