package textbuffer

// longestFit returns the largest k in [0, n] with measure(k) <= limit.
// measure must be non-decreasing in k; measure(0) is assumed to fit.
func longestFit(n, limit int, measure func(prefixLen int) int) int {
	lo, hi := 0, n
	for lo < hi {
		mid := lo + (hi-lo+1)/2
		if measure(mid) <= limit {
			lo = mid
		} else {
			hi = mid - 1
		}
	}
	return lo
}

// TruncateToWidth returns the longest prefix of text whose measured width
// fits in maxWidth. No ellipsis is added.
func TruncateToWidth(text string, maxWidth int, measure func(string) int) string {
	if maxWidth <= 0 {
		return ""
	}
	if measure(text) <= maxWidth {
		return text
	}
	runes := []rune(text)
	k := longestFit(len(runes), maxWidth, func(n int) int {
		return measure(string(runes[:n]))
	})
	return string(runes[:k])
}

// columnAtX maps a horizontal offset to the nearest rune boundary of text.
// It finds the last boundary at or left of x, then snaps to whichever of it
// and the next boundary is closer.
func columnAtX(text string, x int, measure func(string) int) int {
	if x <= 0 || text == "" {
		return 0
	}
	runes := []rune(text)
	width := func(n int) int { return measure(string(runes[:n])) }
	k := longestFit(len(runes), x, width)
	if k >= len(runes) {
		return len(runes)
	}
	left, right := width(k), width(k+1)
	if right-x < x-left {
		return k + 1
	}
	return k
}
