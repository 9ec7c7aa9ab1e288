// Package wavio reads and writes the mono 16-bit PCM WAV files the
// engine consumes and produces. It is a thin collaborator, not a
// pipeline stage in its own right: the builder calls Read for each unit
// recording, and the CLI calls Write for the final synthesized buffer.
package wavio

import (
	"os"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"

	"github.com/brcorpus/ctts"
)

// Read loads a mono or stereo 16-bit PCM WAV file, averaging stereo
// channels down to mono the way the original builder's read_wav did.
func Read(path string) ([]int16, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, ctts.WrapError(ctts.CodeFileNotFound, path, err)
	}
	defer f.Close()

	dec := wav.NewDecoder(f)
	if !dec.IsValidFile() {
		return nil, ctts.NewError(ctts.CodeInvalidWAV, path)
	}

	buf, err := dec.FullPCMBuffer()
	if err != nil {
		return nil, ctts.WrapError(ctts.CodeFileRead, path, err)
	}
	if dec.BitDepth != 16 {
		return nil, ctts.NewError(ctts.CodeInvalidWAV, path)
	}

	channels := int(dec.NumChans)
	if channels <= 0 {
		channels = 1
	}

	data := buf.AsIntBuffer().Data
	count := len(data) / channels
	samples := make([]int16, count)
	if channels == 1 {
		for i := 0; i < count; i++ {
			samples[i] = int16(data[i])
		}
	} else {
		for i := 0; i < count; i++ {
			l := data[i*channels]
			r := data[i*channels+1]
			samples[i] = int16((l + r) / 2)
		}
	}
	return samples, nil
}

// Write encodes mono 16-bit PCM samples at sampleRate to a WAV file.
func Write(path string, samples []int16, sampleRate int) error {
	f, err := os.Create(path)
	if err != nil {
		return ctts.WrapError(ctts.CodeFileWrite, path, err)
	}
	defer f.Close()

	enc := wav.NewEncoder(f, sampleRate, 16, 1, 1)

	ints := make([]int, len(samples))
	for i, s := range samples {
		ints[i] = int(s)
	}
	buf := &audio.IntBuffer{
		Format:         &audio.Format{NumChannels: 1, SampleRate: sampleRate},
		Data:           ints,
		SourceBitDepth: 16,
	}
	if err := enc.Write(buf); err != nil {
		return ctts.WrapError(ctts.CodeFileWrite, path, err)
	}
	return enc.Close()
}
