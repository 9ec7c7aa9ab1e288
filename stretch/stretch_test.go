package stretch

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestApplyShorterInputReturnsCopy(t *testing.T) {
	input := []int16{1, 2, 3}
	out := Apply(input, 1.5)
	assert.Equal(t, input, out)

	out[0] = 99
	assert.Equal(t, int16(1), input[0], "Apply must not alias the caller's slice")
}

func TestApplySpeedUpShortensOutput(t *testing.T) {
	input := make([]int16, FrameSize*8)
	for i := range input {
		input[i] = int16(1000)
	}
	out := Apply(input, 2.0)
	assert.Less(t, len(out), len(input))
}

func TestApplySlowDownLengthensOutput(t *testing.T) {
	input := make([]int16, FrameSize*8)
	for i := range input {
		input[i] = int16(1000)
	}
	out := Apply(input, 0.5)
	assert.Greater(t, len(out), len(input))
}
