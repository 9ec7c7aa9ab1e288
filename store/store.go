// Package store reads the engine's on-disk unit database: a 64-byte
// header, a fixed-size index table, a power-of-two hash table with
// chaining, a string pool and a flat audio pool, all backed by one
// read-only byte slice. Layout matches the original CTTS/CTTSIndexEntry
// C structs byte-for-byte so a database built elsewhere loads unchanged.
package store

import (
	"encoding/binary"
	"os"

	"github.com/brcorpus/ctts"
)

// Magic is "CTTS" packed little-endian, as the header's first field.
const Magic uint32 = 0x53545443

// Version is the only on-disk format version this reader understands.
const Version uint32 = 1

// SampleRate is the fixed sample rate of every stored unit.
const SampleRate = 22050

// BitsPerSample is the fixed bit depth of every stored unit.
const BitsPerSample = 16

const headerSize = 64
const indexEntrySize = 32

const emptySlot = 0xFFFFFFFF

// header mirrors CTTSHeader.
type header struct {
	Magic            uint32
	Version          uint32
	UnitCount        uint32
	SampleRate       uint32
	BitsPerSample    uint32
	IndexOffset      uint32
	StringsOffset    uint32
	AudioOffset      uint32
	TotalSamples     uint32
	MaxUnitChars     uint32
	HashTableSize    uint32
	HashTableOffset  uint32
	_                [16]byte
}

// indexEntry mirrors CTTSIndexEntry.
type indexEntry struct {
	Hash         uint32
	StringOffset uint32
	StringLen    uint16
	CharCount    uint16
	AudioOffset  uint32
	SampleCount  uint32
	Flags        uint32
	NextHash     uint32
	_            uint32
}

// Unit is one entry of the database: its normalized text and the
// samples recorded for it.
type Unit struct {
	Text      string
	CharCount int
	Samples   []int16
}

// Store is an opened, immutable unit database. It is safe to share a
// *Store by pointer across goroutines: nothing in it is mutated after
// Open returns.
type Store struct {
	data       []byte
	hdr        header
	index      []indexEntry
	hashTable  []uint32
	strings    []byte
	audio      []int16
}

// Open reads and validates a database file at path, then builds
// read-only typed views over the raw bytes. The whole file is read into
// memory up front rather than mmap'd through a syscall. The string pool
// is a sub-slice of that []byte; the index table, hash table and audio
// pool are decoded from it into their own typed slices once, here, so
// no platform-specific mmap dependency is needed.
func Open(path string) (*Store, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ctts.WrapError(ctts.CodeFileNotFound, path, err)
		}
		return nil, ctts.WrapError(ctts.CodeFileRead, path, err)
	}
	if len(data) < headerSize {
		return nil, ctts.NewError(ctts.CodeInvalidFormat, "file too small for header")
	}

	var hdr header
	hdr.Magic = binary.LittleEndian.Uint32(data[0:4])
	hdr.Version = binary.LittleEndian.Uint32(data[4:8])
	hdr.UnitCount = binary.LittleEndian.Uint32(data[8:12])
	hdr.SampleRate = binary.LittleEndian.Uint32(data[12:16])
	hdr.BitsPerSample = binary.LittleEndian.Uint32(data[16:20])
	hdr.IndexOffset = binary.LittleEndian.Uint32(data[20:24])
	hdr.StringsOffset = binary.LittleEndian.Uint32(data[24:28])
	hdr.AudioOffset = binary.LittleEndian.Uint32(data[28:32])
	hdr.TotalSamples = binary.LittleEndian.Uint32(data[32:36])
	hdr.MaxUnitChars = binary.LittleEndian.Uint32(data[36:40])
	hdr.HashTableSize = binary.LittleEndian.Uint32(data[40:44])
	hdr.HashTableOffset = binary.LittleEndian.Uint32(data[44:48])

	if hdr.Magic != Magic {
		return nil, ctts.NewError(ctts.CodeInvalidFormat, "bad magic")
	}
	if hdr.Version != Version {
		return nil, ctts.NewError(ctts.CodeVersion, "unsupported database version")
	}

	s := &Store{data: data, hdr: hdr}

	indexEnd := uint64(hdr.IndexOffset) + uint64(hdr.UnitCount)*indexEntrySize
	if indexEnd > uint64(len(data)) {
		return nil, ctts.NewError(ctts.CodeInvalidFormat, "index table out of range")
	}
	s.index = make([]indexEntry, hdr.UnitCount)
	for i := uint32(0); i < hdr.UnitCount; i++ {
		off := hdr.IndexOffset + i*indexEntrySize
		e := &s.index[i]
		e.Hash = binary.LittleEndian.Uint32(data[off : off+4])
		e.StringOffset = binary.LittleEndian.Uint32(data[off+4 : off+8])
		e.StringLen = binary.LittleEndian.Uint16(data[off+8 : off+10])
		e.CharCount = binary.LittleEndian.Uint16(data[off+10 : off+12])
		e.AudioOffset = binary.LittleEndian.Uint32(data[off+12 : off+16])
		e.SampleCount = binary.LittleEndian.Uint32(data[off+16 : off+20])
		e.Flags = binary.LittleEndian.Uint32(data[off+20 : off+24])
		e.NextHash = binary.LittleEndian.Uint32(data[off+24 : off+28])
	}

	hashEnd := uint64(hdr.HashTableOffset) + uint64(hdr.HashTableSize)*4
	if hashEnd > uint64(len(data)) {
		return nil, ctts.NewError(ctts.CodeInvalidFormat, "hash table out of range")
	}
	s.hashTable = make([]uint32, hdr.HashTableSize)
	for i := uint32(0); i < hdr.HashTableSize; i++ {
		off := hdr.HashTableOffset + i*4
		s.hashTable[i] = binary.LittleEndian.Uint32(data[off : off+4])
	}

	if hdr.StringsOffset > uint32(len(data)) || hdr.AudioOffset > uint32(len(data)) {
		return nil, ctts.NewError(ctts.CodeInvalidFormat, "string/audio offset out of range")
	}
	s.strings = data[hdr.StringsOffset:hdr.AudioOffset]

	audioEnd := uint64(hdr.AudioOffset) + uint64(hdr.TotalSamples)*2
	if audioEnd > uint64(len(data)) {
		return nil, ctts.NewError(ctts.CodeInvalidFormat, "audio pool out of range")
	}
	s.audio = make([]int16, hdr.TotalSamples)
	for i := uint32(0); i < hdr.TotalSamples; i++ {
		off := hdr.AudioOffset + i*2
		s.audio[i] = int16(binary.LittleEndian.Uint16(data[off : off+2]))
	}

	return s, nil
}

// UnitCount returns the number of units in the database.
func (s *Store) UnitCount() int { return int(s.hdr.UnitCount) }

// MaxUnitChars returns the longest unit's character count, the upper
// bound the segmenter should try for any single match.
func (s *Store) MaxUnitChars() int { return int(s.hdr.MaxUnitChars) }

// Lookup finds the unit whose normalized text equals text, returning
// its index and true, or (0, false) if no unit matches.
func (s *Store) Lookup(text string) (int, bool) {
	h := Hash(text)
	slot := h % uint32(len(s.hashTable))
	idx := s.hashTable[slot]

	for idx != emptySlot {
		e := &s.index[idx]
		if e.Hash == h && int(e.StringLen) == len(text) {
			candidate := s.strings[e.StringOffset : e.StringOffset+uint32(e.StringLen)]
			if string(candidate) == text {
				return int(idx), true
			}
		}
		idx = e.NextHash
	}
	return 0, false
}

// Unit returns the text and samples for the unit at idx.
func (s *Store) Unit(idx int) Unit {
	e := &s.index[idx]
	text := string(s.strings[e.StringOffset : e.StringOffset+uint32(e.StringLen)])
	samples := s.audio[e.AudioOffset : e.AudioOffset+e.SampleCount]
	return Unit{Text: text, CharCount: int(e.CharCount), Samples: samples}
}

// fnvOffsetBasis and fnvPrime are the 32-bit FNV-1a constants used by
// both the builder and the runtime lookup, so a database built by this
// module's builder hashes identically to one read back here.
const (
	fnvOffsetBasis uint32 = 2166136261
	fnvPrime       uint32 = 16777619
)

// Hash computes the FNV-1a hash of text, matching the original engine's
// ctts_hash byte-for-byte.
func Hash(text string) uint32 {
	h := fnvOffsetBasis
	for i := 0; i < len(text); i++ {
		h ^= uint32(text[i])
		h *= fnvPrime
	}
	return h
}
