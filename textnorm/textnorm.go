// Package textnorm is the engine's text front-end: Portuguese number
// expansion, an optional regex-rule normalization pass, and final
// case/diacritic folding for unit lookup.
package textnorm

// Prepare runs the three-stage text normalization pipeline over text:
// numbers are expanded to words first (so a rule can still match
// against the expanded form), then rules are applied, then the result
// is folded to the engine's lookup case.
func Prepare(text string, rules *RuleSet) string {
	expanded := ExpandNumbers(text)
	var withRules string
	if rules != nil {
		withRules = rules.Apply(expanded)
	} else {
		withRules = expanded
	}
	return Fold(withRules)
}
