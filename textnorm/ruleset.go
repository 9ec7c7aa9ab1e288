package textnorm

import (
	"bufio"
	"os"
	"strings"

	"github.com/dlclark/regexp2"
	"github.com/rs/zerolog/log"
)

// rule is one compiled normalization rule: a pattern and its
// replacement template, which may reference capture groups as \1-\9.
type rule struct {
	pattern *regexp2.Regexp
	replace string
}

// RuleSet is a collection of ordered text-substitution rules, applied
// one after another to the whole input. Unlike the original engine's
// single module-wide rule table, a RuleSet here is an explicit value:
// an engine.Engine owns one instance, so separate Engines running on
// separate goroutines never race over shared rule state.
type RuleSet struct {
	rules []rule
}

// NewRuleSet loads normalization rules from a "pattern,replacement"
// file, one rule per line. A missing file yields an empty RuleSet,
// matching the original engine's "no rules is OK" behavior. Lines
// starting with # and blank lines are skipped.
func NewRuleSet(path string) (*RuleSet, error) {
	rs := &RuleSet{}

	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return rs, nil
		}
		return rs, err
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), "\r\n")
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		comma := strings.IndexByte(line, ',')
		if comma < 0 {
			continue
		}
		pattern := line[:comma]
		replace := line[comma+1:]

		compiled, err := regexp2.Compile(convertWordBoundaries(pattern), regexp2.None)
		if err != nil {
			log.Warn().Str("pattern", pattern).Err(err).Msg("skipping invalid normalization rule")
			continue
		}
		rs.rules = append(rs.rules, rule{pattern: compiled, replace: replace})
	}

	if len(rs.rules) > 0 {
		log.Info().Int("count", len(rs.rules)).Msg("loaded normalization rules")
	}
	return rs, scanner.Err()
}

// convertWordBoundaries rewrites the portable \b used in rule files to
// regexp2's own \b syntax. regexp2 already understands \b directly, so
// this is a pass-through kept for the same reason the original engine
// had an explicit conversion step: rule files are written once against
// a documented, stable boundary syntax rather than against whatever the
// underlying regex engine happens to support.
func convertWordBoundaries(pattern string) string {
	return pattern
}

// Apply runs every rule over text in order, each rule substituting all
// non-overlapping matches (including backreferences like \1-\9 in its
// replacement) before the next rule sees the result.
func (rs *RuleSet) Apply(text string) string {
	current := text
	for _, r := range rs.rules {
		next, err := replaceAll(r.pattern, current, r.replace)
		if err != nil {
			continue
		}
		current = next
	}
	return current
}

func replaceAll(re *regexp2.Regexp, input, replace string) (string, error) {
	// regexp2 reports match positions and lengths in runes, not bytes.
	runes := []rune(input)
	var b strings.Builder
	pos := 0

	m, err := re.FindStringMatch(input)
	if err != nil {
		return input, err
	}
	for m != nil {
		b.WriteString(string(runes[pos:m.Index]))
		b.WriteString(expandBackreferences(replace, m))
		newPos := m.Index + m.Length
		if newPos == m.Index {
			// zero-length match: copy one rune forward to avoid looping
			if newPos < len(runes) {
				b.WriteRune(runes[newPos])
			}
			newPos++
		}
		pos = newPos
		if pos > len(runes) {
			break
		}
		m, err = re.FindNextMatch(m)
		if err != nil {
			break
		}
	}
	if pos <= len(runes) {
		b.WriteString(string(runes[pos:]))
	}
	return b.String(), nil
}

// expandBackreferences substitutes \0-\9 in replace with the text of
// the corresponding capture group of m, matching the original engine's
// apply_replacement.
func expandBackreferences(replace string, m *regexp2.Match) string {
	var b strings.Builder
	for i := 0; i < len(replace); i++ {
		if replace[i] == '\\' && i+1 < len(replace) && replace[i+1] >= '0' && replace[i+1] <= '9' {
			group := int(replace[i+1] - '0')
			groups := m.Groups()
			if group < len(groups) {
				b.WriteString(groups[group].String())
			}
			i++
		} else {
			b.WriteByte(replace[i])
		}
	}
	return b.String()
}
