// Package engine wires text normalization, unit selection,
// concatenation, prosody and time-stretching into a single synthesis
// call. An Engine owns its Store, Config and RuleSet so multiple
// Engines - each against its own database, its own rules - can run
// concurrently without shared mutable state.
package engine

import (
	"time"
	"unicode/utf8"

	"github.com/rs/zerolog/log"

	"github.com/brcorpus/ctts/concat"
	"github.com/brcorpus/ctts/config"
	"github.com/brcorpus/ctts/prosody"
	"github.com/brcorpus/ctts/segment"
	"github.com/brcorpus/ctts/store"
	"github.com/brcorpus/ctts/stretch"
	"github.com/brcorpus/ctts/textnorm"
)

// Engine synthesizes Portuguese text against one unit database.
type Engine struct {
	store *store.Store
	cfg   *config.Config
	rules *textnorm.RuleSet
}

// New opens the unit database at dbPath, loads config from configPath
// (a missing config file is not an error) and normalization rules from
// rulesPath (a missing rules file is not an error either), and returns
// a ready Engine.
func New(dbPath, configPath, rulesPath string) (*Engine, error) {
	s, err := store.Open(dbPath)
	if err != nil {
		return nil, err
	}
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	rules, err := textnorm.NewRuleSet(rulesPath)
	if err != nil {
		return nil, err
	}

	if cfg.PrintUnits {
		log.Info().Int("units", s.UnitCount()).Int("max_unit_chars", s.MaxUnitChars()).Msg("database loaded")
	}

	return &Engine{store: s, cfg: cfg, rules: rules}, nil
}

// NewWithConfig builds an Engine from already-loaded components,
// letting callers share one Store and RuleSet across many Engines
// bound to different per-call configs.
func NewWithConfig(s *store.Store, cfg *config.Config, rules *textnorm.RuleSet) *Engine {
	return &Engine{store: s, cfg: cfg, rules: rules}
}

// wordTracker carries the per-word bookkeeping the character walk needs
// to apply prosody once a word boundary is reached.
type wordTracker struct {
	index       int
	startSample int
	active      bool
}

// Synthesize renders text to 16-bit mono PCM at the database's sample
// rate, applying a final speed adjustment if the resolved speed is not
// 1.0. A negative speed selects the config's DefaultSpeed; the result is
// clamped to the config's [MinSpeed, MaxSpeed].
func (e *Engine) Synthesize(text string, speed float32) []int16 {
	start := time.Now()

	prosodyCtx := prosody.Analyze(text)
	normalized := textnorm.Prepare(text, e.rules)
	normalizeElapsed := time.Since(start)

	buf := concat.NewBuffer(e.cfg)
	word := wordTracker{}
	atWordStart := true
	maxChars := e.store.MaxUnitChars()

	finishWord := func() {
		if !word.active {
			return
		}
		buf.CompressSilenceSince(word.startSample)
		samples := buf.Samples()
		wordSamples := samples[word.startSample:]
		prosody.ApplyDeclination(wordSamples, word.index, prosodyCtx.WordCount)
		if prosodyCtx.IsQuestion {
			prosody.ApplyQuestionIntonation(samples, word.startSample, word.index, prosodyCtx.WordCount)
		}
		word.index++
		word.active = false
	}

	pos := 0
	for pos < len(normalized) {
		c := normalized[pos]

		switch {
		case c == ' ' || c == '\t' || c == '\n':
			finishWord()
			buf.AppendSilence(e.cfg.WordPauseMs)
			atWordStart = true
			pos++

		case c == '-':
			// Soft separator: no pause, word state carries through.
			pos++

		case isPunct(c):
			finishWord()
			buf.AppendSilence(prosody.PunctuationPauseMs(c, e.cfg))
			if prosody.IsSentenceEnd(c) {
				word.index = 0
			}
			atWordStart = true
			pos++

		default:
			m := segment.SelectNext(e.store, normalized[pos:], maxChars, atWordStart)
			if m.UnitIdx < 0 {
				_, size := utf8.DecodeRuneInString(normalized[pos:])
				buf.AppendSilence(e.cfg.UnknownSilenceMs)
				pos += size
				atWordStart = false
				continue
			}

			if !word.active {
				word.active = true
				word.startSample = len(buf.Samples())
			}

			unit := e.store.Unit(m.UnitIdx)
			if e.cfg.PrintUnits {
				log.Debug().Str("unit", unit.Text).Int("at", pos).Msg("unit selected")
			}
			buf.AppendUnit(unit, atWordStart)
			pos += m.ByteLen
			atWordStart = false
		}
	}

	finishWord()
	concatElapsed := time.Since(start) - normalizeElapsed
	samples := buf.Finalize()

	speed = clampSpeed(speed, e.cfg)
	if speed != 1.0 {
		samples = stretch.Apply(samples, speed)
	}
	stretchElapsed := time.Since(start) - normalizeElapsed - concatElapsed

	if e.cfg.PrintTiming {
		log.Info().
			Dur("normalize", normalizeElapsed).
			Dur("concat", concatElapsed).
			Dur("stretch", stretchElapsed).
			Int("samples", len(samples)).
			Float32("speed", speed).
			Msg("synthesis complete")
	}

	return samples
}

func isPunct(c byte) bool {
	switch c {
	case '.', ',', '!', '?', ';', ':':
		return true
	}
	return false
}

// clampSpeed resolves a caller-requested speed against cfg's bounds.
// speed < 0 means the caller didn't pass one at all, so DefaultSpeed is
// used; an explicit 0 (or any other too-low value) clamps to MinSpeed
// instead of silently falling back to the default.
func clampSpeed(speed float32, cfg *config.Config) float32 {
	if speed < 0 {
		speed = cfg.DefaultSpeed
	}
	if speed < cfg.MinSpeed {
		speed = cfg.MinSpeed
	}
	if speed > cfg.MaxSpeed {
		speed = cfg.MaxSpeed
	}
	return speed
}
