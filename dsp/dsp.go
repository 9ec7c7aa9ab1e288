// Package dsp holds the sample-level signal processing primitives the
// concatenator composes: RMS normalization, autocorrelation pitch
// estimation and boundary smoothing, DC offset removal, threshold-based
// silence compression, and the raised-cosine/quarter-sine fade curves.
package dsp

import (
	"github.com/chewxy/math32"
	"gonum.org/v1/gonum/floats"
)

func clampSample(v float32) int16 {
	if v > 32767 {
		return 32767
	}
	if v < -32768 {
		return -32768
	}
	return int16(v)
}

// RMS returns the root-mean-square energy of samples.
func RMS(samples []int16) float32 {
	if len(samples) == 0 {
		return 0
	}
	sq := make([]float64, len(samples))
	for i, s := range samples {
		f := float64(s)
		sq[i] = f * f
	}
	return float32(math32Sqrt(floats.Sum(sq) / float64(len(samples))))
}

func math32Sqrt(v float64) float64 {
	return float64(math32.Sqrt(float32(v)))
}

// NormalizeRMS scales samples in place so their RMS energy matches
// targetRMS, clamping the applied gain to [0.1, 3.0] to avoid extreme
// amplification of near-silent units.
func NormalizeRMS(samples []int16, targetRMS float32) {
	if len(samples) == 0 || targetRMS <= 0 {
		return
	}
	current := RMS(samples)
	if current < 1.0 {
		return
	}
	gain := targetRMS / current
	if gain > 3.0 {
		gain = 3.0
	}
	if gain < 0.1 {
		gain = 0.1
	}
	for i, s := range samples {
		samples[i] = clampSample(float32(s) * gain)
	}
}

// RemoveDCOffset subtracts the mean sample value from samples in place.
func RemoveDCOffset(samples []int16) {
	if len(samples) == 0 {
		return
	}
	var sum int64
	for _, s := range samples {
		sum += int64(s)
	}
	dc := int16(sum / int64(len(samples)))
	for i, s := range samples {
		samples[i] = clampSample(float32(s) - float32(dc))
	}
}

// MatchBoundaryEnergy nudges the start of next toward the RMS level of
// the end of prev over crossfadeSamples, so two units of differing
// recording volume don't produce an audible energy jump at the splice.
func MatchBoundaryEnergy(prev, next []int16, crossfadeSamples int) {
	if crossfadeSamples == 0 || len(prev) == 0 || len(next) == 0 {
		return
	}
	boundary := crossfadeSamples
	if boundary > len(prev) {
		boundary = len(prev)
	}
	if boundary > len(next) {
		boundary = len(next)
	}

	prevRMS := RMS(prev[len(prev)-boundary:])
	nextRMS := RMS(next[:boundary])
	if prevRMS < 1.0 || nextRMS < 1.0 {
		return
	}

	ratio := prevRMS / nextRMS
	if ratio > 2.0 {
		ratio = 2.0
	}
	if ratio < 0.5 {
		ratio = 0.5
	}

	for i := 0; i < boundary; i++ {
		t := float32(i) / float32(boundary)
		gain := ratio*(1.0-t) + t
		next[i] = clampSample(float32(next[i]) * gain)
	}
}

// EstimatePitch returns an autocorrelation-based pitch estimate in Hz
// for the start of samples, searching lags corresponding to 80-400 Hz
// at sampleRate. It returns 0 for unvoiced or too-short input.
func EstimatePitch(samples []int16, sampleRate int) float32 {
	if len(samples) < 200 {
		return 0
	}

	minLag := sampleRate / 400
	maxLag := sampleRate / 80
	if maxLag > len(samples)/2 {
		maxLag = len(samples) / 2
	}

	analysisLen := sampleRate / 100
	if analysisLen > len(samples)-maxLag {
		analysisLen = len(samples) - maxLag
	}
	if analysisLen <= 0 || maxLag < minLag {
		return 0
	}

	var bestCorr float32
	var bestLag int

	for lag := minLag; lag <= maxLag; lag++ {
		var corr, energy1, energy2 float32
		for i := 0; i < analysisLen; i++ {
			s1 := float32(samples[i])
			s2 := float32(samples[i+lag])
			corr += s1 * s2
			energy1 += s1 * s1
			energy2 += s2 * s2
		}
		norm := math32.Sqrt(energy1 * energy2)
		if norm > 0 {
			corr /= norm
		}
		if corr > bestCorr {
			bestCorr = corr
			bestLag = lag
		}
	}

	if bestCorr > 0.3 && bestLag > 0 {
		return float32(sampleRate) / float32(bestLag)
	}
	return 0
}

// PitchShift resamples samples in place by factor using linear
// interpolation, limited to +/-10% so it only ever performs the small
// adjustments the boundary smoother asks for. Shortened output is
// zero-padded back to the original length.
func PitchShift(samples []int16, factor float32) {
	if factor < 0.9 || factor > 1.1 || len(samples) < 100 {
		return
	}

	count := len(samples)
	newCount := int(float32(count) / factor)
	temp := make([]int16, newCount)

	for i := 0; i < newCount; i++ {
		srcPos := float32(i) * factor
		idx := int(srcPos)
		frac := srcPos - float32(idx)

		if idx+1 < count {
			temp[i] = int16(float32(samples[idx])*(1-frac) + float32(samples[idx+1])*frac)
		} else if idx < count {
			temp[i] = samples[idx]
		}
	}

	copyCount := newCount
	if copyCount > count {
		copyCount = count
	}
	copy(samples, temp[:copyCount])
	for i := copyCount; i < count; i++ {
		samples[i] = 0
	}
}

// SmoothPitchBoundary reduces a large pitch jump across a unit boundary
// by pulling the start of next halfway toward prev's pitch, over
// boundarySamples. This is the one stage whose resampling deliberately
// leaves a short fade-out artefact at the tail of the shifted region
// when the shift factor is > 1 (the resampled region comes out shorter
// than the original) - see PitchShift's zero-padding - matching the
// original engine's behavior rather than smoothing it away.
func SmoothPitchBoundary(prev, next []int16, boundarySamples, sampleRate int) {
	if boundarySamples == 0 || len(prev) < 200 || len(next) < 200 {
		return
	}

	analysisRegion := boundarySamples * 2
	if analysisRegion > len(prev)/2 {
		analysisRegion = len(prev) / 2
	}
	if analysisRegion > len(next)/2 {
		analysisRegion = len(next) / 2
	}

	prevPitch := EstimatePitch(prev[len(prev)-analysisRegion:], sampleRate)
	nextPitch := EstimatePitch(next[:analysisRegion], sampleRate)

	if prevPitch <= 0 || nextPitch <= 0 {
		return
	}

	ratio := nextPitch / prevPitch
	if ratio <= 1.15 && ratio >= 0.85 {
		return
	}

	var targetRatio float32
	if ratio > 1.0 {
		targetRatio = 1.0 + (ratio-1.0)*0.5
	} else {
		targetRatio = 1.0 - (1.0-ratio)*0.5
	}
	shiftFactor := targetRatio / ratio

	shiftRegion := boundarySamples
	if shiftRegion > len(next)/4 {
		shiftRegion = len(next) / 4
	}
	if shiftRegion == 0 {
		return
	}

	region := make([]int16, shiftRegion)
	copy(region, next[:shiftRegion])
	PitchShift(region, shiftFactor)

	for i := 0; i < shiftRegion; i++ {
		t := float32(i) / float32(shiftRegion)
		next[i] = int16(float32(region[i])*(1-t) + float32(next[i])*t)
	}
}

// FadeIn applies a quarter-sine fade-in over the first fadeSamples of
// samples, in place.
func FadeIn(samples []int16, fadeSamples int) {
	if fadeSamples == 0 || len(samples) == 0 {
		return
	}
	if fadeSamples > len(samples) {
		fadeSamples = len(samples)
	}
	for i := 0; i < fadeSamples; i++ {
		gain := math32.Sin(float32(i) / float32(fadeSamples) * math32.Pi * 0.5)
		samples[i] = int16(float32(samples[i]) * gain)
	}
}

// FadeOut applies a quarter-sine fade-out over the last fadeSamples of
// samples, in place.
func FadeOut(samples []int16, fadeSamples int) {
	if fadeSamples == 0 || len(samples) == 0 {
		return
	}
	if fadeSamples > len(samples) {
		fadeSamples = len(samples)
	}
	start := len(samples) - fadeSamples
	for i := 0; i < fadeSamples; i++ {
		gain := math32.Sin(float32(fadeSamples-i) / float32(fadeSamples) * math32.Pi * 0.5)
		samples[start+i] = int16(float32(samples[start+i]) * gain)
	}
}

// Crossfade mixes the tail of dst with the head of src using a
// raised-cosine weighting and writes the mixed region back into dst's
// tail of length len(src) capped to crossfadeSamples. It returns the
// number of samples of src consumed by the crossfade; the caller
// appends the remainder of src directly.
func Crossfade(dst, src []int16, crossfadeSamples int) int {
	actual := crossfadeSamples
	if actual > len(dst) {
		actual = len(dst)
	}
	if actual > len(src) {
		actual = len(src)
	}
	if actual <= 0 {
		return 0
	}

	fadeStart := len(dst) - actual
	for i := 0; i < actual; i++ {
		t := float32(i) / float32(actual)
		prevGain := 0.5 * (1.0 + math32.Cos(math32.Pi*t))
		nextGain := 0.5 * (1.0 - math32.Cos(math32.Pi*t))
		mixed := float32(dst[fadeStart+i])*prevGain + float32(src[i])*nextGain
		dst[fadeStart+i] = clampSample(mixed)
	}
	return actual
}

// RemoveSilenceRegions compresses runs of near-silent samples (below
// threshold times peak amplitude) that are at least minSilenceSamples
// long down to a short residual, keeping everything else untouched. It
// returns the number of valid samples remaining at the front of
// samples; the caller should truncate to that length.
func RemoveSilenceRegions(samples []int16, threshold float32, minSilenceSamples int) int {
	count := len(samples)
	if count == 0 {
		return 0
	}

	var maxAmp int16
	for _, s := range samples {
		a := abs16(s)
		if a > maxAmp {
			maxAmp = a
		}
	}
	if maxAmp == 0 {
		return count
	}

	absThreshold := int16(float32(maxAmp) * threshold)

	writePos := 0
	readPos := 0
	for readPos < count {
		if abs16(samples[readPos]) <= absThreshold {
			silenceStart := readPos
			for readPos < count && abs16(samples[readPos]) <= absThreshold {
				readPos++
			}
			silenceLen := readPos - silenceStart

			if silenceLen >= minSilenceSamples {
				keep := minSilenceSamples / 4
				if keep < 10 {
					keep = 10
				}
				for i := 0; i < keep && silenceStart+i < count; i++ {
					samples[writePos] = samples[silenceStart+i]
					writePos++
				}
			} else {
				for i := silenceStart; i < readPos; i++ {
					samples[writePos] = samples[i]
					writePos++
				}
			}
		} else {
			samples[writePos] = samples[readPos]
			writePos++
			readPos++
		}
	}
	return writePos
}

func abs16(v int16) int16 {
	if v < 0 {
		return -v
	}
	return v
}
