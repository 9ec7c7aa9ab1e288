package concat

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/brcorpus/ctts/config"
	"github.com/brcorpus/ctts/store"
)

func makeUnit(text string, n int, level int16) store.Unit {
	samples := make([]int16, n)
	for i := range samples {
		samples[i] = level
	}
	return store.Unit{Text: text, CharCount: len([]rune(text)), Samples: samples}
}

func TestAppendUnitGrowsBuffer(t *testing.T) {
	cfg := config.Defaults()
	buf := NewBuffer(cfg)

	buf.AppendUnit(makeUnit("pa", 500, 5000), true)
	assert.NotEmpty(t, buf.Samples())

	firstLen := len(buf.Samples())
	buf.AppendUnit(makeUnit("ra", 500, 5000), false)
	assert.Greater(t, len(buf.Samples()), firstLen, "a second unit with a crossfade still grows the buffer")
}

func TestAppendSilenceAddsSamples(t *testing.T) {
	cfg := config.Defaults()
	buf := NewBuffer(cfg)
	buf.AppendUnit(makeUnit("pa", 500, 5000), true)

	before := len(buf.Samples())
	buf.AppendSilence(100)
	assert.Greater(t, len(buf.Samples()), before)
}

func TestAdaptiveCrossfadePlosiveIsShorter(t *testing.T) {
	cfg := config.Defaults()
	plosive := adaptiveCrossfade(cfg, "a", "pa")
	vowel := adaptiveCrossfade(cfg, "a", "a")
	assert.Less(t, plosive, vowel)
}
