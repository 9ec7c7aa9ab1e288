// Package concat assembles the stream of units the segmenter selects
// into one continuous waveform: each unit is normalized, smoothed
// against its neighbor, and spliced in with a crossfade whose duration
// is picked from the phonemes on either side of the join.
package concat

import (
	"github.com/brcorpus/ctts/config"
	"github.com/brcorpus/ctts/dsp"
	"github.com/brcorpus/ctts/pt"
	"github.com/brcorpus/ctts/store"
)

const targetRMS = 3000.0

// Buffer accumulates synthesized samples across the whole utterance,
// tracking enough state about the previously appended unit to compute
// the next join's crossfade.
type Buffer struct {
	cfg     *config.Config
	samples []int16

	havePrev   bool
	prevText   string
	prevAtWord bool // true if the previous append started a new word
}

// NewBuffer creates an empty Buffer governed by cfg.
func NewBuffer(cfg *config.Config) *Buffer {
	return &Buffer{cfg: cfg, samples: make([]int16, 0, 1<<16)}
}

// Samples returns the accumulated waveform so far.
func (b *Buffer) Samples() []int16 { return b.samples }

// AppendUnit processes one selected unit's raw samples and splices them
// onto the buffer. unit.Text is the unit's lookup text (used for phoneme
// classification), atWordStart marks the first unit of a new word.
func (b *Buffer) AppendUnit(unit store.Unit, atWordStart bool) {
	samples := make([]int16, len(unit.Samples))
	copy(samples, unit.Samples)

	dsp.NormalizeRMS(samples, targetRMS)

	if len(samples) == 0 {
		return
	}

	if !b.havePrev || atWordStart {
		if b.cfg.RemoveDCOffset {
			dsp.RemoveDCOffset(samples)
		}
		fadeSamples := int(b.cfg.FadeInMs * store.SampleRate / 1000)
		dsp.FadeIn(samples, fadeSamples)
		b.samples = append(b.samples, samples...)
	} else {
		crossfadeMs := adaptiveCrossfade(b.cfg, b.prevText, unit.Text)
		crossfadeSamples := int(crossfadeMs * store.SampleRate / 1000)

		dsp.SmoothPitchBoundary(b.samples, samples, crossfadeSamples, store.SampleRate)
		dsp.MatchBoundaryEnergy(b.samples, samples, crossfadeSamples)

		if b.cfg.RemoveDCOffset {
			dsp.RemoveDCOffset(samples)
		}

		consumed := dsp.Crossfade(b.samples, samples, crossfadeSamples)
		b.samples = append(b.samples, samples[consumed:]...)
	}

	b.havePrev = true
	b.prevText = unit.Text
	b.prevAtWord = atWordStart
}

// CompressSilenceSince runs within-word silence compression over
// b.samples[start:], truncating the buffer to the compressed length.
// This is scoped to a whole word's spliced audio - the region since the
// last word boundary - not to a single unit, matching the original
// engine's word_start_sample bookkeeping.
func (b *Buffer) CompressSilenceSince(start int) {
	if !b.cfg.RemoveWordSilence || start >= len(b.samples) {
		return
	}
	minSilenceSamples := int(b.cfg.MinSilenceMs * store.SampleRate / 1000)
	region := b.samples[start:]
	n := dsp.RemoveSilenceRegions(region, b.cfg.SilenceThreshold, minSilenceSamples)
	b.samples = b.samples[:start+n]
}

// AppendSilence appends durationMs of silence, fading out the tail of
// whatever precedes it so the splice into silence isn't an abrupt cut.
func (b *Buffer) AppendSilence(durationMs float32) {
	if durationMs <= 0 {
		return
	}
	fadeSamples := int(b.cfg.FadeOutMs * store.SampleRate / 1000)
	dsp.FadeOut(b.samples, fadeSamples)

	n := int(durationMs * store.SampleRate / 1000)
	b.samples = append(b.samples, make([]int16, n)...)
	b.havePrev = false
}

// Finalize fades out the tail of the buffer and returns the finished
// waveform.
func (b *Buffer) Finalize() []int16 {
	fadeSamples := int(b.cfg.FadeOutMs * store.SampleRate / 1000)
	dsp.FadeOut(b.samples, fadeSamples)
	return b.samples
}

// adaptiveCrossfade picks a crossfade duration in milliseconds from the
// phonemes bordering a unit join: plosives want a short, sharp splice;
// vowel-to-vowel joins want the longest one so formant transitions stay
// smooth; nasals and liquids sit in between.
func adaptiveCrossfade(cfg *config.Config, prevText, nextText string) float32 {
	base := cfg.CrossfadeMs

	last := pt.ClassifyLast(prevText)
	first := pt.ClassifyFirst(nextText)

	var ms float32
	switch {
	case first == pt.Plosive:
		ms = base * 0.2
	case last == pt.Plosive:
		ms = base * 0.3
	case first == pt.Fricative || last == pt.Fricative:
		ms = base * 0.4
	case last == pt.Vowel && first == pt.Vowel:
		ms = cfg.CrossfadeVowelMs
	case last == pt.Vowel && first != pt.Vowel:
		ms = base * cfg.VowelToConsonantFactor
	case first == pt.Nasal || last == pt.Nasal || first == pt.Liquid || last == pt.Liquid:
		ms = base * 0.7
	default:
		ms = base
	}

	if pt.EndsWithS(prevText) && cfg.CrossfadeSEndingMs < ms {
		ms = cfg.CrossfadeSEndingMs
	}
	if pt.EndsWithR(prevText) && cfg.CrossfadeREndingMs < ms {
		ms = cfg.CrossfadeREndingMs
	}

	return ms
}
