// Package builder assembles an on-disk unit database from a directory
// of recorded letter and syllable units, in the same layout the store
// package reads.
package builder

import (
	"bufio"
	"encoding/binary"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/rs/zerolog/log"

	"github.com/brcorpus/ctts"
	"github.com/brcorpus/ctts/store"
	"github.com/brcorpus/ctts/textnorm"
	"github.com/brcorpus/ctts/wavio"
)

const headerSize = 64
const indexEntrySize = 32
const emptySlot = 0xFFFFFFFF
const hashTableLoad = 0.7

// unit is one recorded sample awaiting assembly into the database.
type unit struct {
	text      string
	charCount int
	hash      uint32
	samples   []int16
}

// BuildDatabase reads the letters/ and syllables/ subdirectories of
// datasetDir, each holding a wavs/ folder and a pipe-delimited index
// file mapping "filename|text", and writes a complete unit database to
// outputPath.
//
// datasetDir/letters/letters.txt indexes datasetDir/letters/wavs/*.wav;
// datasetDir/syllables/sillabes.txt indexes
// datasetDir/syllables/wavs/*.wav.
func BuildDatabase(datasetDir, outputPath string) error {
	letters, err := loadUnits(
		filepath.Join(datasetDir, "letters", "wavs"),
		filepath.Join(datasetDir, "letters", "letters.txt"),
	)
	if err != nil {
		return err
	}
	syllables, err := loadUnits(
		filepath.Join(datasetDir, "syllables", "wavs"),
		filepath.Join(datasetDir, "syllables", "sillabes.txt"),
	)
	if err != nil {
		return err
	}

	units := append(letters, syllables...)
	if len(units) == 0 {
		return ctts.NewError(ctts.CodeInvalidArg, "no units loaded from dataset")
	}

	sort.Slice(units, func(i, j int) bool {
		if units[i].charCount != units[j].charCount {
			return units[i].charCount > units[j].charCount
		}
		return units[i].text < units[j].text
	})

	log.Info().Int("letters", len(letters)).Int("syllables", len(syllables)).Msg("units loaded")

	return writeDatabase(units, outputPath)
}

// loadUnits reads a pipe-delimited "filename|text" index file and loads
// the WAV samples for each entry from wavsDir.
func loadUnits(wavsDir, indexPath string) ([]unit, error) {
	f, err := os.Open(indexPath)
	if err != nil {
		return nil, ctts.WrapError(ctts.CodeFileNotFound, indexPath, err)
	}
	defer f.Close()

	var units []unit
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.SplitN(line, "|", 3)
		if len(fields) < 2 {
			log.Warn().Str("line", line).Msg("skipping malformed index line")
			continue
		}
		filename := strings.TrimSpace(fields[0])
		rawText := strings.TrimSpace(fields[1])

		samples, err := wavio.Read(filepath.Join(wavsDir, filename))
		if err != nil {
			log.Warn().Str("file", filename).Err(err).Msg("skipping unreadable unit wav")
			continue
		}

		text := textnorm.Fold(rawText)
		units = append(units, unit{
			text:      text,
			charCount: utf8.RuneCountInString(text),
			hash:      store.Hash(text),
			samples:   samples,
		})
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return units, nil
}

// writeDatabase lays out and writes the full binary database: header,
// index table, hash table, string pool, audio pool, in that order -
// matching the layout store.Open expects.
func writeDatabase(units []unit, outputPath string) error {
	hashTableSize := nextPowerOfTwo(int(float64(len(units)) / hashTableLoad))
	if hashTableSize < 16 {
		hashTableSize = 16
	}

	indexOffset := uint32(headerSize)
	hashTableOffset := indexOffset + uint32(len(units))*indexEntrySize
	stringsOffset := hashTableOffset + uint32(hashTableSize)*4

	var stringPool []byte
	stringOffsets := make([]uint32, len(units))
	stringLens := make([]uint16, len(units))
	for i, u := range units {
		stringOffsets[i] = uint32(len(stringPool))
		stringPool = append(stringPool, u.text...)
		stringPool = append(stringPool, 0)
		stringLens[i] = uint16(len(u.text))
	}

	audioOffset := stringsOffset + uint32(len(stringPool))

	var audioPool []int16
	audioOffsets := make([]uint32, len(units))
	sampleCounts := make([]uint32, len(units))
	maxUnitChars := uint32(0)
	for i, u := range units {
		audioOffsets[i] = uint32(len(audioPool))
		audioPool = append(audioPool, u.samples...)
		sampleCounts[i] = uint32(len(u.samples))
		if uint32(u.charCount) > maxUnitChars {
			maxUnitChars = uint32(u.charCount)
		}
	}

	hashTable := make([]uint32, hashTableSize)
	for i := range hashTable {
		hashTable[i] = emptySlot
	}
	nextHash := make([]uint32, len(units))
	for i, u := range units {
		slot := u.hash % uint32(hashTableSize)
		if hashTable[slot] == emptySlot {
			hashTable[slot] = uint32(i)
			nextHash[i] = emptySlot
			continue
		}
		tail := hashTable[slot]
		for nextHash[tail] != emptySlot {
			tail = nextHash[tail]
		}
		nextHash[tail] = uint32(i)
		nextHash[i] = emptySlot
	}

	f, err := os.Create(outputPath)
	if err != nil {
		return ctts.WrapError(ctts.CodeFileWrite, outputPath, err)
	}
	defer f.Close()

	w := bufio.NewWriter(f)

	hdr := make([]byte, headerSize)
	binary.LittleEndian.PutUint32(hdr[0:4], store.Magic)
	binary.LittleEndian.PutUint32(hdr[4:8], store.Version)
	binary.LittleEndian.PutUint32(hdr[8:12], uint32(len(units)))
	binary.LittleEndian.PutUint32(hdr[12:16], store.SampleRate)
	binary.LittleEndian.PutUint32(hdr[16:20], store.BitsPerSample)
	binary.LittleEndian.PutUint32(hdr[20:24], indexOffset)
	binary.LittleEndian.PutUint32(hdr[24:28], stringsOffset)
	binary.LittleEndian.PutUint32(hdr[28:32], audioOffset)
	binary.LittleEndian.PutUint32(hdr[32:36], uint32(len(audioPool)))
	binary.LittleEndian.PutUint32(hdr[36:40], maxUnitChars)
	binary.LittleEndian.PutUint32(hdr[40:44], uint32(hashTableSize))
	binary.LittleEndian.PutUint32(hdr[44:48], hashTableOffset)
	if _, err := w.Write(hdr); err != nil {
		return ctts.WrapError(ctts.CodeFileWrite, outputPath, err)
	}

	entry := make([]byte, indexEntrySize)
	for i, u := range units {
		binary.LittleEndian.PutUint32(entry[0:4], u.hash)
		binary.LittleEndian.PutUint32(entry[4:8], stringOffsets[i])
		binary.LittleEndian.PutUint16(entry[8:10], stringLens[i])
		binary.LittleEndian.PutUint16(entry[10:12], uint16(u.charCount))
		binary.LittleEndian.PutUint32(entry[12:16], audioOffsets[i])
		binary.LittleEndian.PutUint32(entry[16:20], sampleCounts[i])
		binary.LittleEndian.PutUint32(entry[20:24], 0)
		binary.LittleEndian.PutUint32(entry[24:28], nextHash[i])
		binary.LittleEndian.PutUint32(entry[28:32], 0)
		if _, err := w.Write(entry); err != nil {
			return ctts.WrapError(ctts.CodeFileWrite, outputPath, err)
		}
	}

	hashBuf := make([]byte, 4)
	for _, h := range hashTable {
		binary.LittleEndian.PutUint32(hashBuf, h)
		if _, err := w.Write(hashBuf); err != nil {
			return ctts.WrapError(ctts.CodeFileWrite, outputPath, err)
		}
	}

	if _, err := w.Write(stringPool); err != nil {
		return ctts.WrapError(ctts.CodeFileWrite, outputPath, err)
	}

	sampleBuf := make([]byte, 2)
	for _, s := range audioPool {
		binary.LittleEndian.PutUint16(sampleBuf, uint16(s))
		if _, err := w.Write(sampleBuf); err != nil {
			return ctts.WrapError(ctts.CodeFileWrite, outputPath, err)
		}
	}

	if err := w.Flush(); err != nil {
		return ctts.WrapError(ctts.CodeFileWrite, outputPath, err)
	}

	log.Info().
		Int("units", len(units)).
		Int("hash_table_size", hashTableSize).
		Uint32("total_samples", uint32(len(audioPool))).
		Msg("database written")

	return nil
}

func nextPowerOfTwo(n int) int {
	if n < 1 {
		return 1
	}
	p := 1
	for p < n {
		p <<= 1
	}
	return p
}
