package dsp

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRMS(t *testing.T) {
	assert.Equal(t, float32(0), RMS(nil))
	samples := []int16{100, -100, 100, -100}
	assert.InDelta(t, float32(100), RMS(samples), 0.01)
}

func TestNormalizeRMS(t *testing.T) {
	samples := []int16{1000, -1000, 1000, -1000}
	NormalizeRMS(samples, 3000)
	assert.InDelta(t, float32(3000), RMS(samples), 1.0)
}

func TestRemoveDCOffset(t *testing.T) {
	samples := []int16{110, 90, 110, 90}
	RemoveDCOffset(samples)
	var sum int
	for _, s := range samples {
		sum += int(s)
	}
	assert.InDelta(t, 0, sum, 4)
}

func TestCrossfadeConsumesRequestedLength(t *testing.T) {
	dst := make([]int16, 100)
	src := make([]int16, 50)
	for i := range src {
		src[i] = 1000
	}
	consumed := Crossfade(dst, src, 30)
	assert.Equal(t, 30, consumed)
}

func TestFadeInOutAreMonotonic(t *testing.T) {
	samples := make([]int16, 50)
	for i := range samples {
		samples[i] = 1000
	}
	FadeIn(samples, 50)
	assert.Less(t, int(samples[0]), int(samples[49]))

	for i := range samples {
		samples[i] = 1000
	}
	FadeOut(samples, 50)
	assert.Less(t, int(samples[49]), int(samples[0]))
}

func TestRemoveSilenceRegionsCompressesLongRuns(t *testing.T) {
	samples := make([]int16, 200)
	for i := 0; i < 20; i++ {
		samples[i] = 20000
	}
	n := RemoveSilenceRegions(samples, 0.02, 50)
	assert.Less(t, n, 200)
}
