package prosody

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/brcorpus/ctts/config"
)

func TestAnalyzeDetectsQuestionAndExclamation(t *testing.T) {
	q := Analyze("como vai voce?")
	assert.True(t, q.IsQuestion)
	assert.Greater(t, q.PitchModifier, float32(1.0))

	e := Analyze("cuidado!")
	assert.True(t, e.IsExclamation)

	plain := Analyze("bom dia")
	assert.False(t, plain.IsQuestion)
	assert.False(t, plain.IsExclamation)
	assert.Equal(t, 2, plain.WordCount)
}

func TestPunctuationPauseMsRanking(t *testing.T) {
	cfg := config.Defaults()
	comma := PunctuationPauseMs(',', cfg)
	period := PunctuationPauseMs('.', cfg)
	hyphen := PunctuationPauseMs('-', cfg)

	assert.Less(t, comma, period)
	assert.Equal(t, float32(0), hyphen)
}

func TestApplyDeclinationReducesLaterWords(t *testing.T) {
	first := make([]int16, 100)
	last := make([]int16, 100)
	for i := range first {
		first[i] = 10000
		last[i] = 10000
	}
	ApplyDeclination(first, 0, 5)
	ApplyDeclination(last, 4, 5)
	assert.Greater(t, first[0], last[0])
}

func TestApplyQuestionIntonationOnlyAffectsFinalWords(t *testing.T) {
	samples := make([]int16, 500)
	for i := range samples {
		samples[i] = 10000
	}
	before := samples[499]
	ApplyQuestionIntonation(samples, 400, 4, 5)
	assert.Greater(t, samples[499], before)

	early := make([]int16, 500)
	for i := range early {
		early[i] = 10000
	}
	ApplyQuestionIntonation(early, 400, 1, 5)
	assert.Equal(t, int16(10000), early[499], "words before the last two are left alone")
}
