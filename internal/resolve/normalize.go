// Package resolve implements owner-candidate resolution: name
// normalization and matching, the candidate graph, per-source signal
// collection, confidence scoring, and entity linking.
package resolve

import (
	"os"
	"regexp"
	"strings"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"
)

// MatchConfig is the configurable matching vocabulary. The keyword lists
// are heuristics tuned for one jurisdiction's naming conventions; they are
// data, not code, but their matching semantics are deliberately unchanged.
type MatchConfig struct {
	// EntityKeywords are organizational suffixes/keywords that flag a raw
	// name as a corporate entity.
	EntityKeywords []string `yaml:"entity_keywords"`

	// ExtendedEntityKeywords extend EntityKeywords for the broader
	// corporate-name check used when deciding which names to look up in
	// the corporate registry.
	ExtendedEntityKeywords []string `yaml:"extended_entity_keywords"`
}

// DefaultMatchConfig returns the built-in vocabulary.
func DefaultMatchConfig() MatchConfig {
	return MatchConfig{
		EntityKeywords: []string{
			"LLC", "INC", "CORP", "CORPORATION", "COMPANY", "CO", "LTD",
			"LP", "PARTNERSHIP", "TRUST", "ASSOC", "ASSOCIATES",
		},
		ExtendedEntityKeywords: []string{
			"REALTY", "PROPERTIES", "MANAGEMENT", "GROUP", "CAPITAL", "HOLDINGS",
		},
	}
}

// LoadMatchConfig reads a vocabulary file, falling back to defaults for
// any list left empty.
func LoadMatchConfig(path string) (MatchConfig, error) {
	cfg := DefaultMatchConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, eris.Wrapf(err, "resolve: read vocabulary %s", path)
	}

	var loaded MatchConfig
	if err := yaml.Unmarshal(data, &loaded); err != nil {
		return cfg, eris.Wrapf(err, "resolve: parse vocabulary %s", path)
	}

	if len(loaded.EntityKeywords) > 0 {
		cfg.EntityKeywords = loaded.EntityKeywords
	}
	if len(loaded.ExtendedEntityKeywords) > 0 {
		cfg.ExtendedEntityKeywords = loaded.ExtendedEntityKeywords
	}
	return cfg, nil
}

var (
	punctReplacer = strings.NewReplacer(",", "", ".", "", "'", "")
	multiSpaceRe  = regexp.MustCompile(`\s{2,}`)
)

// Normalize canonicalizes an owner-name string for comparison: uppercase,
// strip commas/periods/apostrophes, collapse whitespace, trim. Total —
// empty input yields an empty string and the caller discards the candidate.
func Normalize(name string) string {
	name = strings.ToUpper(strings.TrimSpace(name))
	name = punctReplacer.Replace(name)
	name = multiSpaceRe.ReplaceAllString(name, " ")
	return strings.TrimSpace(name)
}

// Matcher applies the vocabulary-driven entity checks and the loose
// name-equivalence heuristic.
type Matcher struct {
	entityRe   *regexp.Regexp
	extendedRe *regexp.Regexp
}

// NewMatcher compiles a matcher from the vocabulary.
func NewMatcher(cfg MatchConfig) *Matcher {
	return &Matcher{
		entityRe:   keywordPattern(cfg.EntityKeywords),
		extendedRe: keywordPattern(append(append([]string{}, cfg.EntityKeywords...), cfg.ExtendedEntityKeywords...)),
	}
}

func keywordPattern(keywords []string) *regexp.Regexp {
	quoted := make([]string, len(keywords))
	for i, kw := range keywords {
		quoted[i] = regexp.QuoteMeta(kw)
	}
	return regexp.MustCompile(`(?i)\b(` + strings.Join(quoted, "|") + `)\b`)
}

// IsEntity reports whether the raw (pre-normalization) name looks like a
// corporate/organizational owner. Computed once per name and cached on the
// candidate.
func (m *Matcher) IsEntity(rawName string) bool {
	return m.entityRe.MatchString(rawName)
}

// IsEntityExtended applies the broader vocabulary used to pick names worth
// a corporate-registry lookup.
func (m *Matcher) IsEntityExtended(rawName string) bool {
	return m.extendedRe.MatchString(rawName)
}

// NamesMatch reports whether two names denote the same identity. Exact
// match after normalization, containment in either direction, or a swapped
// two-token name ("SMITH JOHN" vs "JOHN SMITH") all count. Deliberately
// loose: over-merging is accepted over missing the same owner under two
// spellings. Known weakness: containment over-merges short names ("LEE" is
// contained in "LEE GARDENS LLC").
func NamesMatch(a, b string) bool {
	na, nb := Normalize(a), Normalize(b)
	if na == "" || nb == "" {
		return false
	}
	if na == nb {
		return true
	}
	if strings.Contains(na, nb) || strings.Contains(nb, na) {
		return true
	}

	ta, tb := strings.Fields(na), strings.Fields(nb)
	if len(ta) == 2 && len(tb) == 2 && ta[0] == tb[1] && ta[1] == tb[0] {
		return true
	}
	return false
}

// Surname returns the last token of a normalized individual name, used for
// surname-based registry searches.
func Surname(name string) string {
	fields := strings.Fields(Normalize(name))
	if len(fields) == 0 {
		return ""
	}
	return fields[len(fields)-1]
}
