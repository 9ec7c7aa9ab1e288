package pt

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsDigraph(t *testing.T) {
	assert.True(t, IsDigraph("chave"))
	assert.True(t, IsDigraph("lhama"))
	assert.True(t, IsDigraph("nhoque"))
	assert.True(t, IsDigraph("quero"))
	assert.True(t, IsDigraph("guerra"))
	assert.False(t, IsDigraph("casa"))
	assert.False(t, IsDigraph("a"))
}

func TestIsValidCluster(t *testing.T) {
	assert.True(t, IsValidCluster("prato"))
	assert.True(t, IsValidCluster("bloco"))
	assert.False(t, IsValidCluster("lranything"))
	assert.False(t, IsValidCluster("a"))
}

func TestRejectSingleConsonant(t *testing.T) {
	assert.True(t, RejectSingleConsonant("ta", 1, true), "lone consonant at word start is rejected")
	assert.False(t, RejectSingleConsonant("a", 1, true), "a lone vowel is never rejected")
	assert.False(t, RejectSingleConsonant("ta", 1, false), "mid-word lone consonant is fine unless it splits a digraph")
	assert.True(t, RejectSingleConsonant("ch", 1, false), "splitting 'ch' at the c is rejected")
}

func TestSyllableScorePrefersCVOnsets(t *testing.T) {
	cv := SyllableScore("pa", 2, true)
	consonantOnly := SyllableScore("pt", 2, true)
	assert.Greater(t, cv, consonantOnly)
}

func TestClassifyFirstAndLast(t *testing.T) {
	assert.Equal(t, Vowel, ClassifyFirst("ana"))
	assert.Equal(t, Plosive, ClassifyFirst("pa"))
	assert.Equal(t, Fricative, ClassifyFirst("fa"))
	assert.Equal(t, Fricative, ClassifyFirst("cha"))
	assert.Equal(t, Nasal, ClassifyFirst("ma"))
	assert.Equal(t, Liquid, ClassifyFirst("ra"))

	assert.Equal(t, Vowel, ClassifyLast("casa"))
	assert.Equal(t, Nasal, ClassifyLast("bem"))
	assert.Equal(t, Liquid, ClassifyLast("mar"))
}

func TestEndsWithHelpers(t *testing.T) {
	assert.True(t, EndsWithVowel("casa"))
	assert.False(t, EndsWithVowel("mar"))
	assert.True(t, EndsWithS("casas"))
	assert.True(t, EndsWithR("falar"))
}
