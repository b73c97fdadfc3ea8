package textbuffer

import "unicode"

func isWordRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}

// wordBounds returns the rune range of the word containing column col.
// A column on a non-word rune yields just that rune. A column past the end
// of the line falls back to the last rune.
func wordBounds(text string, col int) (start, end int) {
	runes := []rune(text)
	if len(runes) == 0 {
		return 0, 0
	}
	col = clamp(col, 0, len(runes)-1)
	if !isWordRune(runes[col]) {
		return col, col + 1
	}
	start, end = col, col+1
	for start > 0 && isWordRune(runes[start-1]) {
		start--
	}
	for end < len(runes) && isWordRune(runes[end]) {
		end++
	}
	return start, end
}

func clamp(v, lo, hi int) int {
	if hi < lo {
		return lo
	}
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
