package textnorm

import "strings"

// Fold lowercases text, including the handful of accented uppercase
// letters the original engine's unicode_tolower handled explicitly.
// Lookup keys are folded the same way on both the builder and the
// segmenter side, so database text and input text always compare
// equal.
func Fold(text string) string {
	var b strings.Builder
	b.Grow(len(text))
	for _, r := range text {
		b.WriteRune(foldRune(r))
	}
	return b.String()
}

func foldRune(r rune) rune {
	switch {
	case r >= 'A' && r <= 'Z':
		return r + 32
	case r == 'É':
		return 'é'
	case r == 'Ó':
		return 'ó'
	case r == 'Ô':
		return 'ô'
	case r == 'Ç':
		return 'ç'
	}
	return r
}
