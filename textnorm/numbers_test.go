package textnorm

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFullNumberToWords(t *testing.T) {
	cases := map[int64]string{
		0:          "zero",
		1:          "um",
		15:         "quinze",
		21:         "vinte e um",
		100:        "cem",
		121:        "cento e vinte e um",
		1000:       "mil",
		2000:       "dois mil",
		1001:       "mil e um",
		1000000:    "um milhão",
		2000000:    "dois milhões",
	}
	for n, want := range cases {
		assert.Equal(t, want, FullNumberToWords(n), "n=%d", n)
	}
}

func TestFullNumberToWordsNegative(t *testing.T) {
	assert.Equal(t, "menos dez", FullNumberToWords(-10))
}

func TestExpandNumbers(t *testing.T) {
	got := ExpandNumbers("tenho 3 gatos")
	assert.Equal(t, "tenho três gatos", got)
}
