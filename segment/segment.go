// Package segment picks, for each position in normalized text, the
// database unit to speak next: a greedy longest-match search with
// one-step look-ahead, scored and tie-broken under Portuguese
// phonotactics so syllable boundaries fall in sensible places.
package segment

import (
	"unicode/utf8"

	"github.com/brcorpus/ctts/pt"
	"github.com/brcorpus/ctts/store"
)

// maxCandidates bounds how many decreasing-length matches are
// considered at a single position, matching the original engine's fixed
// MatchCandidate[64] array.
const maxCandidates = 64

// Match is the result of SelectNext: which unit was chosen and how many
// bytes of the input it consumed.
type Match struct {
	UnitIdx int
	ByteLen int
}

type candidate struct {
	byteLen       int
	charCount     int
	unitIdx       int
	nextMatchLen  int
	score         int
}

// SelectNext finds the best unit starting at pos in text, considering
// at most maxChars characters, applying Portuguese phonotactic scoring
// and a one-step look-ahead to the next position once whitespace is
// skipped. atWordStart disables single-consonant matches per Portuguese
// onset rules. It returns a Match with UnitIdx -1 and ByteLen 0 if
// nothing in the store matches.
func SelectNext(s *store.Store, text string, maxChars int, atWordStart bool) Match {
	if len(text) == 0 {
		return Match{UnitIdx: -1}
	}

	remainingChars := utf8.RuneCountInString(text)
	tryChars := maxChars
	if tryChars > remainingChars {
		tryChars = remainingChars
	}

	candidates := make([]candidate, 0, maxCandidates)

	end := charOffset(text, tryChars)
	charCount := tryChars

	for end > 0 && len(candidates) < maxCandidates {
		sub := text[:end]
		if idx, ok := s.Lookup(sub); ok {
			if !pt.RejectSingleConsonant(text, charCount, atWordStart) {
				candidates = append(candidates, candidate{
					byteLen:   end,
					charCount: charCount,
					unitIdx:   idx,
					score:     pt.SyllableScore(sub, charCount, atWordStart),
				})
			}
		}
		end = prevCharBoundary(text, end)
		charCount--
	}

	if len(candidates) == 0 {
		return Match{UnitIdx: -1}
	}
	if len(candidates) == 1 {
		return Match{UnitIdx: candidates[0].unitIdx, ByteLen: candidates[0].byteLen}
	}

	for i := range candidates {
		nextPos := skipWhitespace(text[candidates[i].byteLen:])
		if len(nextPos) > 0 {
			candidates[i].nextMatchLen = longestMatch(s, nextPos, maxChars)
		}
	}

	best := 0
	bestScore := candidates[0].score
	bestTotal := candidates[0].charCount + candidates[0].nextMatchLen

	for i := 1; i < len(candidates); i++ {
		c := candidates[i]
		total := c.charCount + c.nextMatchLen

		switch {
		case c.score > bestScore:
			best, bestScore, bestTotal = i, c.score, total
		case c.score == bestScore:
			switch {
			case total > bestTotal:
				best, bestTotal = i, total
			case total == bestTotal:
				bestAtEnd := candidates[best].nextMatchLen == 0
				currAtEnd := c.nextMatchLen == 0
				switch {
				case bestAtEnd && !currAtEnd:
					// keep best
				case !bestAtEnd && currAtEnd:
					best = i
				case bestAtEnd && currAtEnd:
					if c.charCount > candidates[best].charCount {
						best = i
					}
				default:
					if c.nextMatchLen > candidates[best].nextMatchLen {
						best = i
					}
				}
			}
		}
	}

	return Match{UnitIdx: candidates[best].unitIdx, ByteLen: candidates[best].byteLen}
}

// longestMatch returns the byte length of the longest unit match at the
// start of text, trying at most maxChars characters and shrinking one
// character at a time, with no scoring - used only for look-ahead.
func longestMatch(s *store.Store, text string, maxChars int) int {
	remainingChars := utf8.RuneCountInString(text)
	tryChars := maxChars
	if tryChars > remainingChars {
		tryChars = remainingChars
	}

	end := charOffset(text, tryChars)
	for end > 0 {
		if _, ok := s.Lookup(text[:end]); ok {
			return end
		}
		end = prevCharBoundary(text, end)
	}
	return 0
}

func charOffset(text string, chars int) int {
	off := 0
	for i := 0; i < chars && off < len(text); i++ {
		_, size := utf8.DecodeRuneInString(text[off:])
		off += size
	}
	return off
}

func prevCharBoundary(text string, end int) int {
	if end <= 0 {
		return 0
	}
	prev := 0
	scan := 0
	for scan < end {
		prev = scan
		_, size := utf8.DecodeRuneInString(text[scan:])
		scan += size
		if scan >= end {
			break
		}
	}
	return prev
}

func skipWhitespace(text string) string {
	i := 0
	for i < len(text) && (text[i] == ' ' || text[i] == '\t' || text[i] == '\n') {
		i++
	}
	return text[i:]
}
