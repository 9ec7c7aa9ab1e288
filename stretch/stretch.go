// Package stretch implements the optional PSOLA-like time stretch
// applied to a finished utterance: fixed-size analysis frames are
// windowed and overlap-added at a synthesis hop scaled by the requested
// speed factor.
package stretch

import (
	"gonum.org/v1/gonum/dsp/window"

	"github.com/brcorpus/ctts/config"
)

// FrameSize is 20ms at the engine's fixed 22050 Hz sample rate.
const FrameSize = 441

// AnalysisHop is a quarter of FrameSize.
const AnalysisHop = FrameSize / 4

func clampSample(v float32) int16 {
	if v > 32767 {
		return 32767
	}
	if v < -32768 {
		return -32768
	}
	return int16(v)
}

// Apply time-stretches input by speedFactor, clamped to
// [config.MinSpeed, config.MaxSpeed]. A factor below 1 slows speech
// down (more output samples); above 1 speeds it up.
func Apply(input []int16, speedFactor float32) []int16 {
	if speedFactor < config.MinSpeed {
		speedFactor = config.MinSpeed
	}
	if speedFactor > config.MaxSpeed {
		speedFactor = config.MaxSpeed
	}

	if len(input) < FrameSize {
		return append([]int16(nil), input...)
	}

	synthesisHop := int(float32(AnalysisHop) / speedFactor)
	if synthesisHop < 1 {
		synthesisHop = 1
	}

	numFrames := (len(input)-FrameSize)/AnalysisHop + 1
	outCount := numFrames*synthesisHop + FrameSize

	output := make([]float32, outCount)
	norm := make([]float32, outCount)

	win := make([]float64, FrameSize)
	for i := range win {
		win[i] = 1.0
	}
	win = window.Hann(win)
	winF32 := make([]float32, FrameSize)
	for i, v := range win {
		winF32[i] = float32(v)
	}

	analysisPos := 0
	synthesisPos := 0
	for analysisPos+FrameSize <= len(input) && synthesisPos+FrameSize <= outCount {
		for i := 0; i < FrameSize; i++ {
			sample := float32(input[analysisPos+i]) * winF32[i]
			output[synthesisPos+i] += sample
			norm[synthesisPos+i] += winF32[i]
		}
		analysisPos += AnalysisHop
		synthesisPos += synthesisHop
	}

	result := make([]int16, outCount)
	for i := 0; i < outCount; i++ {
		if norm[i] > 0.01 {
			result[i] = clampSample(output[i] / norm[i])
		}
	}

	for len(result) > 0 && result[len(result)-1] == 0 {
		result = result[:len(result)-1]
	}
	return result
}
