// Package config loads the engine's tunable parameters from a flat
// "key: value" file, falling back to defaults for anything absent.
package config

import (
	"bufio"
	"os"
	"strconv"
	"strings"
)

// Speed limits applied to both the default speed and any speed factor
// passed to a synthesis call.
const (
	MinSpeed = 0.5
	MaxSpeed = 2.0
)

// Config holds every tunable parameter of the synthesis pipeline.
type Config struct {
	// Audio concatenation
	CrossfadeMs            float32 // Crossfade between syllables
	CrossfadeVowelMs       float32 // Crossfade when prev syllable ends with vowel
	CrossfadeSEndingMs     float32 // Crossfade when prev syllable ends with S
	CrossfadeREndingMs     float32 // Crossfade when prev syllable ends with R
	VowelToConsonantFactor float32 // Multiplier for vowel-to-consonant transitions
	WordPauseMs            float32 // Silence between words
	UnknownSilenceMs       float32 // Silence for unknown characters
	FadeInMs               float32 // Fade-in at unit start
	FadeOutMs              float32 // Fade-out at unit end

	// Silence removal within words
	RemoveWordSilence bool
	SilenceThreshold  float32 // 0-1, relative to peak amplitude
	MinSilenceMs      float32

	// Processing
	RemoveDCOffset bool
	// NormalizeLevel and Compression are carried for file round-trip
	// compatibility with the original config format; no stage reads
	// them.
	NormalizeLevel float32
	Compression    float32

	// Synthesis
	DefaultSpeed float32
	MinSpeed     float32
	MaxSpeed     float32

	// Debug
	PrintUnits  bool
	PrintTiming bool
}

// Defaults returns the engine's default configuration.
func Defaults() *Config {
	return &Config{
		CrossfadeMs:            20.0,
		CrossfadeVowelMs:       45.0,
		CrossfadeSEndingMs:     30.0,
		CrossfadeREndingMs:     30.0,
		VowelToConsonantFactor: 0.5,
		WordPauseMs:            120.0,
		UnknownSilenceMs:       30.0,
		FadeInMs:               3.0,
		FadeOutMs:              3.0,
		RemoveWordSilence:      true,
		SilenceThreshold:       0.02,
		MinSilenceMs:           15.0,
		RemoveDCOffset:         true,
		NormalizeLevel:         0.0,
		Compression:            0.0,
		DefaultSpeed:           1.0,
		MinSpeed:               MinSpeed,
		MaxSpeed:               MaxSpeed,
		PrintUnits:             false,
		PrintTiming:            false,
	}
}

// Load reads key: value pairs from path, starting from Defaults(). A
// missing file is not an error - it just means the defaults stand, same
// as the original engine's behavior.
func Load(path string) (*Config, error) {
	cfg := Defaults()

	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, err
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		parseLine(cfg, scanner.Text())
	}
	return cfg, scanner.Err()
}

func parseLine(cfg *Config, line string) {
	line = strings.TrimSpace(line)
	if line == "" || strings.HasPrefix(line, "#") {
		return
	}

	idx := strings.Index(line, ":")
	if idx < 0 {
		return
	}
	key := strings.TrimSpace(line[:idx])
	value := strings.TrimSpace(line[idx+1:])

	switch key {
	case "crossfade_ms":
		cfg.CrossfadeMs = parseFloat(value, cfg.CrossfadeMs)
	case "crossfade_vowel_ms":
		cfg.CrossfadeVowelMs = parseFloat(value, cfg.CrossfadeVowelMs)
	case "crossfade_s_ending_ms":
		cfg.CrossfadeSEndingMs = parseFloat(value, cfg.CrossfadeSEndingMs)
	case "crossfade_r_ending_ms":
		cfg.CrossfadeREndingMs = parseFloat(value, cfg.CrossfadeREndingMs)
	case "vowel_to_consonant_factor":
		cfg.VowelToConsonantFactor = parseFloat(value, cfg.VowelToConsonantFactor)
	case "word_pause_ms":
		cfg.WordPauseMs = parseFloat(value, cfg.WordPauseMs)
	case "unknown_silence_ms":
		cfg.UnknownSilenceMs = parseFloat(value, cfg.UnknownSilenceMs)
	case "fade_in_ms":
		cfg.FadeInMs = parseFloat(value, cfg.FadeInMs)
	case "fade_out_ms":
		cfg.FadeOutMs = parseFloat(value, cfg.FadeOutMs)
	case "remove_word_silence":
		cfg.RemoveWordSilence = parseBool(value)
	case "silence_threshold":
		cfg.SilenceThreshold = parseFloat(value, cfg.SilenceThreshold)
	case "min_silence_ms":
		cfg.MinSilenceMs = parseFloat(value, cfg.MinSilenceMs)
	case "remove_dc_offset":
		cfg.RemoveDCOffset = parseBool(value)
	case "normalize_level":
		cfg.NormalizeLevel = parseFloat(value, cfg.NormalizeLevel)
	case "compression":
		cfg.Compression = parseFloat(value, cfg.Compression)
	case "default_speed":
		cfg.DefaultSpeed = parseFloat(value, cfg.DefaultSpeed)
	case "min_speed":
		cfg.MinSpeed = parseFloat(value, cfg.MinSpeed)
	case "max_speed":
		cfg.MaxSpeed = parseFloat(value, cfg.MaxSpeed)
	case "print_units":
		cfg.PrintUnits = parseBool(value)
	case "print_timing":
		cfg.PrintTiming = parseBool(value)
	}
}

func parseFloat(value string, fallback float32) float32 {
	f, err := strconv.ParseFloat(value, 32)
	if err != nil {
		return fallback
	}
	return float32(f)
}

func parseBool(value string) bool {
	return value == "true" || value == "1"
}
