// Package prosody derives and applies sentence-level shaping: the
// question/exclamation detection that sets an overall pitch modifier,
// per-word declination across a sentence, the rising intonation on the
// final word(s) of a question, and punctuation-specific pause
// durations.
package prosody

import (
	"github.com/brcorpus/ctts/config"
)

// Context summarizes the prosodic cues found in an input sentence,
// used while rendering each of its words.
type Context struct {
	IsQuestion      bool
	IsExclamation   bool
	WordCount       int
	PitchModifier   float32
	DurationModifier float32
}

// Analyze scans text for sentence-final punctuation and word count.
func Analyze(text string) Context {
	ctx := Context{PitchModifier: 1.0, DurationModifier: 1.0}
	if len(text) == 0 {
		return ctx
	}

	inWord := false
	for i := 0; i < len(text); i++ {
		c := text[i]
		if c == ' ' || c == '\t' || c == '\n' {
			inWord = false
		} else if !inWord {
			inWord = true
			ctx.WordCount++
		}
	}

	for i := len(text); i > 0; i-- {
		c := text[i-1]
		switch {
		case c == '?':
			ctx.IsQuestion = true
			ctx.PitchModifier = 1.05
			return ctx
		case c == '!':
			ctx.IsExclamation = true
			ctx.PitchModifier = 1.08
			return ctx
		case c != ' ' && c != '\t' && c != '\n':
			return ctx
		}
	}
	return ctx
}

// PunctuationPauseMs returns the pause duration, in milliseconds, that
// follows a piece of punctuation. A hyphen is a soft separator with no
// pause at all.
func PunctuationPauseMs(punct byte, cfg *config.Config) float32 {
	switch punct {
	case ',':
		return cfg.WordPauseMs * 0.5
	case ';', ':':
		return cfg.WordPauseMs * 0.7
	case '.':
		return cfg.WordPauseMs * 1.2
	case '!':
		return cfg.WordPauseMs * 1.3
	case '?':
		return cfg.WordPauseMs * 1.2
	case '-':
		return 0.0
	default:
		return cfg.WordPauseMs
	}
}

// IsSentenceEnd reports whether c ends a sentence.
func IsSentenceEnd(c byte) bool {
	return c == '.' || c == '!' || c == '?'
}

func clampSample(v float32) int16 {
	if v > 32767 {
		return 32767
	}
	if v < -32768 {
		return -32768
	}
	return int16(v)
}

// ApplyDeclination lowers the energy of a word's samples in place
// according to its position in the sentence: a linear falloff from full
// energy on the first word to 95% on the last.
func ApplyDeclination(samples []int16, wordIndex, totalWords int) {
	if len(samples) == 0 || totalWords <= 1 {
		return
	}
	progress := float32(wordIndex) / float32(totalWords-1)
	energyFactor := 1.0 - 0.05*progress

	for i, s := range samples {
		samples[i] = clampSample(float32(s) * energyFactor)
	}
}

// ApplyQuestionIntonation raises the amplitude of a word quadratically
// toward its end, applied only to the last one or two words of a
// question-marked sentence.
func ApplyQuestionIntonation(samples []int16, wordStart, wordIndex, totalWords int) {
	count := len(samples)
	if count == 0 || totalWords == 0 {
		return
	}
	if wordIndex < totalWords-2 {
		return
	}

	wordSamples := count - wordStart
	if wordSamples < 100 {
		return
	}

	riseAmount := float32(0.08)
	if wordIndex == totalWords-1 {
		riseAmount = 0.15
	}

	for i := wordStart; i < count; i++ {
		t := float32(i-wordStart) / float32(wordSamples)
		factor := 1.0 + riseAmount*t*t
		samples[i] = clampSample(float32(samples[i]) * factor)
	}
}
